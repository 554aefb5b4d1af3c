// Package hostprobe measures the host with gopsutil and sysfs and reports
// the readings as devinfo.Measurements.
package hostprobe

import (
	"context"
	"os"
	"strconv"
	"strings"

	devinfo "github.com/goliatone/go-devinfo"
	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultBatteryPaths are sysfs files holding the design capacity in µAh.
var DefaultBatteryPaths = []string{
	"/sys/class/power_supply/battery/charge_full_design",
	"/sys/class/power_supply/BAT0/charge_full_design",
	"/sys/class/power_supply/BAT1/charge_full_design",
}

// Screen is the display geometry reported by the UI layer. RealHeight
// includes system chrome; UsableHeight does not.
type Screen struct {
	Width        int32
	UsableHeight int32
	RealHeight   int32
}

// Probe implements devinfo.Measurer for the local host.
type Probe struct {
	storagePath  string
	batteryPaths []string
	screen       Screen
	logger       hclog.Logger

	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage     func(context.Context, string) (*disk.UsageStat, error)
	readFile      func(string) ([]byte, error)
}

// Option configures a Probe.
type Option func(*Probe)

// WithStoragePath measures the filesystem mounted at path. Default "/".
func WithStoragePath(path string) Option {
	return func(p *Probe) {
		if path != "" {
			p.storagePath = path
		}
	}
}

// WithBatteryPaths replaces DefaultBatteryPaths.
func WithBatteryPaths(paths ...string) Option {
	return func(p *Probe) {
		p.batteryPaths = append([]string(nil), paths...)
	}
}

// WithScreen sets the display geometry to report.
func WithScreen(s Screen) Option {
	return func(p *Probe) {
		p.screen = s
	}
}

// WithLogger routes probe diagnostics to logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Probe) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds a Probe.
func New(opts ...Option) *Probe {
	p := &Probe{
		storagePath:   "/",
		batteryPaths:  DefaultBatteryPaths,
		logger:        hclog.NewNullLogger(),
		virtualMemory: mem.VirtualMemoryWithContext,
		diskUsage:     disk.UsageWithContext,
		readFile:      os.ReadFile,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Measure reads memory, storage and battery. A reading that fails is logged
// and left at zero (UnknownCapacity for the battery); only a done ctx is an
// error.
func (p *Probe) Measure(ctx context.Context) (devinfo.Measurements, error) {
	if err := ctx.Err(); err != nil {
		return devinfo.Measurements{}, err
	}
	m := devinfo.Measurements{
		BatteryCapacity: devinfo.UnknownCapacity,
		ScreenWidth:     p.screen.Width,
		ContentHeight:   p.screen.UsableHeight,
		ChromeInset:     devinfo.ChromeInset(p.screen.UsableHeight, p.screen.RealHeight),
	}
	if p.screen.RealHeight == 0 {
		m.ChromeInset = 0
	}

	if vm, err := p.virtualMemory(ctx); err != nil {
		p.logger.Warn("memory probe failed", "error", err)
	} else {
		m.RAMBytes = vm.Total
	}
	if usage, err := p.diskUsage(ctx, p.storagePath); err != nil {
		p.logger.Warn("storage probe failed", "path", p.storagePath, "error", err)
	} else {
		m.StorageBytes = usage.Total
	}
	m.BatteryCapacity = p.battery()

	if err := ctx.Err(); err != nil {
		return devinfo.Measurements{}, err
	}
	return m, nil
}

// battery returns the first readable design capacity in mAh.
func (p *Probe) battery() int32 {
	for _, path := range p.batteryPaths {
		data, err := p.readFile(path)
		if err != nil {
			continue
		}
		microAh, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if err != nil || microAh <= 0 {
			p.logger.Debug("ignoring battery reading", "path", path, "value", strings.TrimSpace(string(data)))
			continue
		}
		mAh := microAh / 1000
		if mAh > int64(^uint32(0)>>1) {
			continue
		}
		return int32(mAh)
	}
	return devinfo.UnknownCapacity
}
