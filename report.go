package devinfo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-devinfo/layering"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Measurements are the raw hardware readings a report normalizes.
type Measurements struct {
	StorageBytes uint64 `json:"storage_bytes" yaml:"storage_bytes"`
	RAMBytes     uint64 `json:"ram_bytes" yaml:"ram_bytes"`
	// BatteryCapacity is in mAh, or UnknownCapacity when unreadable.
	BatteryCapacity int32 `json:"battery_capacity" yaml:"battery_capacity"`
	ScreenWidth     int32 `json:"screen_width" yaml:"screen_width"`
	ContentHeight   int32 `json:"content_height" yaml:"content_height"`
	ChromeInset     int32 `json:"chrome_inset" yaml:"chrome_inset"`
}

// Measurer takes a fresh set of readings.
type Measurer interface {
	Measure(ctx context.Context) (Measurements, error)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(ctx context.Context) (Measurements, error)

// Measure calls fn.
func (fn MeasureFunc) Measure(ctx context.Context) (Measurements, error) {
	return fn(ctx)
}

// Static returns a Measurer that always reports m.
func Static(m Measurements) Measurer {
	return MeasureFunc(func(context.Context) (Measurements, error) {
		return m, nil
	})
}

// Report is the rendered device information panel.
type Report struct {
	ID          uuid.UUID         `json:"id" yaml:"id"`
	CollectedAt time.Time         `json:"collected_at" yaml:"collected_at"`
	Profile     string            `json:"profile,omitempty" yaml:"profile,omitempty"`
	Fields      map[string]string `json:"fields" yaml:"fields"`

	Chipset      string `json:"chipset" yaml:"chipset"`
	DeviceName   string `json:"device_name" yaml:"device_name"`
	BuildVersion string `json:"build_version" yaml:"build_version"`
	VersionLine  string `json:"version_line" yaml:"version_line"`
	ReleaseType  string `json:"release_type" yaml:"release_type"`
	BuildStatus  string `json:"build_status" yaml:"build_status"`
	Official     bool   `json:"official" yaml:"official"`
	Maintainer   string `json:"maintainer" yaml:"maintainer"`

	Storage        string `json:"storage" yaml:"storage"`
	StorageSize    string `json:"storage_size" yaml:"storage_size"`
	RAM            string `json:"ram" yaml:"ram"`
	StorageSummary string `json:"storage_summary" yaml:"storage_summary"`
	Battery        int32  `json:"battery" yaml:"battery"`
	BatteryLabel   string `json:"battery_label" yaml:"battery_label"`
	Screen         string `json:"screen" yaml:"screen"`
}

// Fingerprint hashes the report content, ignoring ID and CollectedAt. Two
// reports with equal fingerprints render identically.
func (r Report) Fingerprint() string {
	h := sha256.New()
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "%s=%s\n", name, r.Fields[name])
	}
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%t|%s|%s|%s|%s|%d|%s",
		r.Profile, r.Chipset, r.DeviceName, r.VersionLine, r.ReleaseType, r.BuildStatus,
		r.Official, r.Maintainer, r.StorageSize, r.StorageSummary, r.Screen, r.Battery, r.BatteryLabel)
	return hex.EncodeToString(h.Sum(nil))
}

// Changed lists the profile fields whose value differs from prev.
func (r Report) Changed(prev Report) map[string]string {
	out := map[string]string{}
	for name, value := range r.Fields {
		if old, ok := prev.Fields[name]; !ok || old != value {
			out[name] = value
		}
	}
	for _, name := range []string{"storage", "battery", "screen"} {
		if _, declared := r.Fields[name]; declared {
			continue
		}
		if current := r.derived(name); current != prev.derived(name) {
			out[name] = current
		}
	}
	return out
}

func (r Report) derived(name string) string {
	switch name {
	case "storage":
		return r.StorageSummary
	case "battery":
		return r.BatteryLabel
	case "screen":
		return r.Screen
	}
	return ""
}

type reportField struct {
	name   string
	source Source
	rule   *compiledField
}

// Reporter resolves a profile against a property store and normalizes
// measurements into a Report. It holds no mutable state after construction
// and is safe for concurrent use.
type Reporter struct {
	resolver   *Resolver
	profile    Profile
	strings    Strings
	fields     []reportField
	layers     []Layer[Profile]
	logger     hclog.Logger
	evalLogger EvaluatorLogger
	now        func() time.Time
}

// NewReporter validates profile and compiles its rules.
func NewReporter(store PropertyStore, profile Profile, opts ...Option) (*Reporter, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("devinfo: invalid profile %q: %w", profile.Name, err)
	}
	cfg := applyOptions(opts)

	s := profile.Strings.withDefaults()
	if cfg.strings != nil {
		s = *cfg.strings
	}
	registry := DefaultFunctions(s)
	registry.override(cfg.functions)
	cfg.functions = registry
	if cfg.programCache == nil {
		cfg.programCache = NewMemoryProgramCache()
	}

	logger := cfg.log().Named("reporter")
	r := &Reporter{
		resolver:   NewResolver(store, WithLogger(cfg.log()), WithStrings(s)),
		profile:    profile,
		strings:    s,
		logger:     logger,
		evalLogger: cfg.evaluatorLogger(),
		now:        cfg.clock,
	}

	var errs []error
	for _, name := range profile.FieldOrder() {
		spec := profile.Fields[name]
		if !spec.IsRule() {
			r.fields = append(r.fields, reportField{name: name, source: spec.Source()})
			continue
		}
		evaluator, err := cfg.evaluatorFor(spec.Engine)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", name, err))
			continue
		}
		compiled, err := evaluator.Compile(spec.Expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", name, err))
			continue
		}
		r.fields = append(r.fields, reportField{name: name, rule: &compiledField{
			name:   name,
			engine: normalizeEngine(spec.Engine),
			expr:   spec.Expr,
			rule:   compiled,
		}})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	logger.Debug("reporter ready", "profile", profile.Name, "fields", len(r.fields))
	return r, nil
}

// NewLayeredReporter builds a reporter from a merged profile stack and keeps
// its layers for provenance.
func NewLayeredReporter(store PropertyStore, layered *Layered[Profile], opts ...Option) (*Reporter, error) {
	if layered == nil {
		return nil, ErrEmptyStack
	}
	r, err := NewReporter(store, layered.Value, opts...)
	if err != nil {
		return nil, err
	}
	r.layers = layered.Layers()
	return r, nil
}

// Resolver returns the resolver the reporter reads properties through.
func (r *Reporter) Resolver() *Resolver {
	return r.resolver
}

// Profile returns the profile the reporter was built from.
func (r *Reporter) Profile() Profile {
	return layering.Clone(r.profile)
}

// ResolveFields resolves every profile field in order. Rule fields see the
// fields resolved before them. A failing rule yields the unknown sentinel;
// the failures are returned joined alongside the complete map.
func (r *Reporter) ResolveFields(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now()
	values := make(map[string]string, len(r.fields))
	env := make(map[string]any, len(r.fields))
	var errs []error
	for _, field := range r.fields {
		if field.rule == nil {
			values[field.name] = r.resolver.ResolveSource(field.source)
			env[field.name] = values[field.name]
			continue
		}
		value, err := field.rule.evaluate(RuleContext{
			Fields:   env,
			Now:      &now,
			Metadata: map[string]any{"profile": r.profile.Name},
		}, r.evalLogger)
		if err != nil {
			r.logger.Warn("rule failed", "field", field.name, "error", err)
			errs = append(errs, err)
			value = r.resolver.Unknown()
		}
		values[field.name] = value
		env[field.name] = value
	}
	return values, errors.Join(errs...)
}

// Collect resolves the profile and normalizes m into a Report. Rule
// failures are logged and rendered as unknown; only a cancelled ctx fails.
func (r *Reporter) Collect(ctx context.Context, m Measurements) (Report, error) {
	fields, err := r.ResolveFields(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Report{}, ctxErr
	}
	if err != nil {
		r.logger.Debug("report has failed rules", "error", err)
	}

	report := Report{
		ID:           uuid.New(),
		CollectedAt:  r.now().UTC(),
		Profile:      r.profile.Name,
		Fields:       fields,
		Chipset:      fields[FieldChipset],
		DeviceName:   fields[FieldDeviceName],
		BuildVersion: fields[FieldBuildVersion],
		VersionLine:  fields[FieldVersionLine],
	}

	release := fields[FieldReleaseType]
	if capitalized, err := CapitalizeFirst(release); err == nil {
		report.ReleaseType = capitalized
	} else {
		r.logger.Warn("release type is empty", "field", FieldReleaseType)
		report.ReleaseType = r.strings.Unknown
	}
	lowered := strings.ToLower(release)
	report.Official = lowered == ReleaseOfficial
	report.BuildStatus = r.strings.BuildStatusLine(lowered)
	report.Maintainer = r.strings.MaintainerLine(fields[FieldMaintainer])

	report.Storage = NormalizeStorage(m.StorageBytes)
	report.StorageSize = StorageSize(m.StorageBytes)
	report.RAM = NormalizeRAMTier(m.RAMBytes)
	report.StorageSummary = StorageSummary(report.Storage, report.RAM)

	report.Battery = BatteryCapacity(m.BatteryCapacity, r.profileBattery)
	if report.Battery > 0 {
		report.BatteryLabel = FormatBattery(report.Battery)
	} else {
		report.BatteryLabel = r.strings.Unknown
	}
	report.Screen = ScreenResolution(m.ScreenWidth, m.ContentHeight, m.ChromeInset)
	return report, nil
}

// CollectFrom measures with m and collects a report.
func (r *Reporter) CollectFrom(ctx context.Context, m Measurer) (Report, error) {
	if m == nil {
		return r.Collect(ctx, Measurements{BatteryCapacity: UnknownCapacity})
	}
	measurements, err := m.Measure(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("devinfo: measure: %w", err)
	}
	return r.Collect(ctx, measurements)
}

func (r *Reporter) profileBattery() int32 {
	if r.profile.BatteryCapacity == 0 {
		r.logger.Debug("no profile battery capacity configured")
	}
	return r.profile.BatteryCapacity
}
