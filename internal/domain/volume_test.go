package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumeUIMax(t *testing.T) {
	assert.Equal(t, Volume(99957), VolumeUIMax)
}

func TestComputeNewVolume(t *testing.T) {
	tests := map[string]struct {
		old      Volume
		req      Request
		expected Volume
	}{
		"increase from silence":           {old: 0, req: Increase(10), expected: 6554},
		"increase crossing 100 snaps":     {old: 60000, req: Increase(10), expected: VolumeNormal},
		"increase just below 100 snaps":   {old: VolumeNormal - 1, req: Increase(5), expected: VolumeNormal},
		"increase above 100":              {old: VolumeNormal, req: Increase(10), expected: 72090},
		"increase capped at ui max":       {old: 90000, req: Increase(50), expected: VolumeUIMax},
		"increase at ui max is unchanged": {old: VolumeUIMax, req: Increase(5), expected: VolumeUIMax},
		"increase above ui max unchanged": {old: 120000, req: Increase(5), expected: 120000},
		"increase by zero":                {old: 30000, req: Increase(0), expected: 30000},
		"decrease":                        {old: VolumeNormal, req: Decrease(10), expected: 58982},
		"decrease crossing 100 snaps":     {old: 70000, req: Decrease(10), expected: VolumeNormal},
		"decrease floors at muted":        {old: 3000, req: Decrease(10), expected: VolumeMuted},
		"decrease from above ui max":      {old: 120000, req: Decrease(10), expected: 113446},
		"decrease huge percent":           {old: 50000, req: Decrease(1000), expected: VolumeMuted},
		"decrease by zero":                {old: 50000, req: Decrease(0), expected: 50000},
		"decrease above 100 stays above":  {old: 80000, req: Decrease(10), expected: 73446},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeNewVolume(tt.old, tt.req))
		})
	}
}

func TestComputeNewVolume_IncreaseNeverLowers(t *testing.T) {
	for old := VolumeMuted; old <= VolumeUIMax+1000; old += 997 {
		for p := 0.0; p <= 100; p += 2.5 {
			got := ComputeNewVolume(old, Increase(p))
			if old >= VolumeUIMax {
				assert.Equal(t, old, got, "old=%d p=%g", old, p)
			} else {
				assert.GreaterOrEqual(t, got, old, "old=%d p=%g", old, p)
				assert.LessOrEqual(t, got, VolumeUIMax, "old=%d p=%g", old, p)
			}
		}
	}
}

func TestComputeNewVolume_DecreaseNeverBelowMuted(t *testing.T) {
	for old := Volume(1); old <= 2*VolumeNormal; old += 1009 {
		for p := 0.0; p <= 300; p += 7.5 {
			got := ComputeNewVolume(old, Decrease(p))
			assert.GreaterOrEqual(t, got, VolumeMuted)
			assert.LessOrEqual(t, got, old)
		}
	}
}

func TestComputeNewVolume_HugePercent(t *testing.T) {
	tests := map[string]struct {
		old      Volume
		req      Request
		expected Volume
	}{
		"increase below 100 snaps":      {old: 30000, req: Increase(1e20), expected: VolumeNormal},
		"increase from 100 caps":        {old: VolumeNormal, req: Increase(1e20), expected: VolumeUIMax},
		"increase from silence snaps":   {old: VolumeMuted, req: Increase(1e300), expected: VolumeNormal},
		"decrease above 100 snaps":      {old: 80000, req: Decrease(1e20), expected: VolumeNormal},
		"decrease below 100 is muted":   {old: 30000, req: Decrease(1e20), expected: VolumeMuted},
		"increase above ui max is kept": {old: 120000, req: Increase(1e20), expected: 120000},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got Volume
			assert.NotPanics(t, func() { got = ComputeNewVolume(tt.old, tt.req) })
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeNewVolume_PanicsOnToggle(t *testing.T) {
	assert.Panics(t, func() { ComputeNewVolume(100, ToggleMute()) })
}

func TestStartingVolume(t *testing.T) {
	muted := Target{Muted: true, Volume: ChannelVolumes{40000, 40000}}
	unmuted := Target{Volume: ChannelVolumes{30000, 40000}}

	assert.Equal(t, VolumeMuted, StartingVolume(muted, Increase(5)))
	assert.Equal(t, Volume(40000), StartingVolume(muted, Decrease(5)))
	assert.Equal(t, Volume(35000), StartingVolume(unmuted, Increase(5)))
}

func TestChannelVolumes(t *testing.T) {
	c := ChannelVolumes{1, 2, 4}
	assert.Equal(t, Volume(2), c.Avg())
	assert.Equal(t, VolumeMuted, ChannelVolumes{}.Avg())

	set := c.Set(9)
	assert.Equal(t, ChannelVolumes{9, 9, 9}, set)
	assert.Equal(t, ChannelVolumes{1, 2, 4}, c, "Set must not modify the receiver")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(VolumeMuted))
	assert.Equal(t, 100, Percent(VolumeNormal))
	assert.Equal(t, 10, Percent(6554))
	assert.Equal(t, 153, Percent(VolumeUIMax))
	assert.Equal(t, 100, UIPercent(VolumeUIMax))
	assert.Equal(t, 66, UIPercent(VolumeNormal))
}
