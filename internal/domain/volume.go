package domain

import (
	"fmt"
	"math"
)

// volumeFromDB converts a software gain in dB to a volume the way libpulse
// does: linear amplitude, then cubic mapping onto the volume scale.
func volumeFromDB(db float64) Volume {
	linear := math.Pow(10.0, db/20.0)
	if linear <= 0 {
		return VolumeMuted
	}
	v := math.Round(math.Cbrt(linear) * float64(VolumeNormal))
	if v > float64(VolumeMax) {
		return VolumeMax
	}
	return Volume(v)
}

// StartingVolume returns the volume an adjustment is computed from. Raising a
// muted target ramps up from silence instead of the level stored before muting.
func StartingVolume(t Target, req Request) Volume {
	if t.Muted && req.Type == RequestIncrease {
		return VolumeMuted
	}
	return t.Volume.Avg()
}

// ComputeNewVolume applies an increase or decrease to old.
//
// Crossing 100% in either direction lands exactly on 100%. Increases are
// capped at VolumeUIMax, and a volume already at or above it is returned
// unchanged. Decreases stop at VolumeMuted.
func ComputeNewVolume(old Volume, req Request) Volume {
	var factor float64
	switch req.Type {
	case RequestIncrease:
		factor = req.Percent / 100.0
	case RequestDecrease:
		factor = -req.Percent / 100.0
	default:
		panic(fmt.Sprintf("ComputeNewVolume: unsupported request %s", req.Type))
	}

	delta := float64(VolumeNormal-VolumeMuted) * factor
	raw := saturateInt64(math.Round(float64(old) + delta))

	var result int64
	if req.Type == RequestIncrease {
		switch {
		case old >= VolumeUIMax:
			result = int64(old)
		case old < VolumeNormal && raw > int64(VolumeNormal):
			result = int64(VolumeNormal)
		default:
			result = min(raw, int64(VolumeUIMax))
		}
	} else {
		if old > VolumeNormal && raw < int64(VolumeNormal) {
			result = int64(VolumeNormal)
		} else {
			result = max(raw, int64(VolumeMuted))
		}
	}

	if result < int64(VolumeMuted) || result > int64(VolumeMax) {
		panic(fmt.Sprintf("ComputeNewVolume: %d out of range [%d, %d]", result, VolumeMuted, VolumeMax))
	}
	return Volume(result)
}

// saturateInt64 converts f to int64, clamping values outside its range.
func saturateInt64(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// Percent is the user facing percentage of v, 100 being VolumeNormal.
func Percent(v Volume) int {
	return int(math.Round(100.0 * float64(v) / float64(VolumeNormal)))
}

// UIPercent is the progress bar position of v, 100 being VolumeUIMax.
func UIPercent(v Volume) int {
	return int(math.Round(100.0 * float64(v) / float64(VolumeUIMax)))
}
