package devinfo

import (
	"math"
	"strconv"
)

// GiB is the number of bytes in one binary gigabyte.
const GiB = 1 << 30

// UnknownCapacity is the platform sentinel for an unreadable battery value.
const UnknownCapacity int32 = math.MinInt32

// MinPlausibleCapacity is the largest battery reading treated as spurious.
const MinPlausibleCapacity int32 = 1100

// Tier is the outcome of snapping a measurement to a TierTable.
type Tier struct {
	// GiB is the marketed size, or the rounded-up measurement when Overflow
	// is set or the measurement was below the small threshold.
	GiB      uint64
	Overflow bool
}

// TierTable maps raw byte counts to conventional product sizes.
type TierTable struct {
	// Tiers lists marketed sizes in GiB, ascending.
	Tiers []uint64
	// SmallThreshold reports measurements at or below this many GiB as their
	// ceiling instead of a tier. Zero disables it.
	SmallThreshold uint64
}

// StorageTiers is the marketed storage table.
var StorageTiers = TierTable{Tiers: []uint64{16, 32, 64, 128, 256, 512, 1024}}

// StorageSizeTiers is StorageTiers with small devices reported as measured.
var StorageSizeTiers = TierTable{Tiers: StorageTiers.Tiers, SmallThreshold: 8}

// StorageOverflow is rendered by NormalizeStorage above the largest tier.
const StorageOverflow = "512+"

// Snap returns the smallest tier not below bytes. Measurements above the
// last tier return their ceiling with Overflow set.
func (t TierTable) Snap(bytes uint64) Tier {
	if t.SmallThreshold > 0 && bytes <= t.SmallThreshold*GiB {
		return Tier{GiB: ceilGiB(bytes)}
	}
	for _, size := range t.Tiers {
		if size <= math.MaxUint64/GiB && bytes <= size*GiB {
			return Tier{GiB: size}
		}
	}
	return Tier{GiB: ceilGiB(bytes), Overflow: true}
}

func ceilGiB(bytes uint64) uint64 {
	q := bytes / GiB
	if bytes%GiB != 0 {
		q++
	}
	return q
}

// NormalizeStorage reports total storage as its marketed size in GiB, e.g.
// "128", or StorageOverflow beyond the largest tier.
func NormalizeStorage(rawBytes uint64) string {
	tier := StorageTiers.Snap(rawBytes)
	if tier.Overflow {
		return StorageOverflow
	}
	return strconv.FormatUint(tier.GiB, 10)
}

// StorageSize reports total storage with its unit, e.g. "256 GB" or "1 TB".
// Devices of 8 GiB or less and devices beyond the largest tier are reported
// as their measured ceiling.
func StorageSize(rawBytes uint64) string {
	gb := StorageSizeTiers.Snap(rawBytes).GiB
	if gb >= 1024 {
		return strconv.FormatUint(gb/1024, 10) + " TB"
	}
	return strconv.FormatUint(gb, 10) + " GB"
}

// NormalizeRAMTier reports memory as its GiB ceiling, e.g. "4 GB". No tier
// table applies to memory.
func NormalizeRAMTier(rawBytes uint64) string {
	return strconv.FormatUint(ceilGiB(rawBytes), 10) + " GB"
}

// BatteryCapacity returns measured unless it is UnknownCapacity or no more
// than MinPlausibleCapacity, in which case profileFallback is consulted. A
// nil fallback yields 0.
func BatteryCapacity(measured int32, profileFallback func() int32) int32 {
	if measured == UnknownCapacity || measured <= MinPlausibleCapacity {
		if profileFallback == nil {
			return 0
		}
		return profileFallback()
	}
	return measured
}

// RoundPowerProfile converts a hardware-profile average to whole mAh.
func RoundPowerProfile(average float64) int32 {
	switch {
	case math.IsNaN(average):
		return 0
	case average >= math.MaxInt32:
		return math.MaxInt32
	case average <= math.MinInt32:
		return math.MinInt32
	}
	return int32(math.Round(average))
}

// FormatBattery renders a capacity as "N mAh".
func FormatBattery(mAh int32) string {
	return strconv.FormatInt(int64(mAh), 10) + " mAh"
}

// ScreenResolution renders "W x H" where H adds the chrome inset back to
// the usable content height.
func ScreenResolution(width, contentHeight, chromeInset int32) string {
	height := int64(contentHeight) + int64(chromeInset)
	return strconv.FormatInt(int64(width), 10) + " x " + strconv.FormatInt(height, 10)
}

// ChromeInset is the height taken by system chrome: the real display height
// minus the usable height.
func ChromeInset(usableHeight, realHeight int32) int32 {
	return realHeight - usableHeight
}
