package domain

import (
	"fmt"
	"time"
)

// Volume is a raw PulseAudio volume on the linear software scale.
type Volume uint32

const (
	// VolumeMuted is 0%.
	VolumeMuted Volume = 0
	// VolumeNormal is 100%.
	VolumeNormal Volume = 0x10000
	// VolumeMax is the largest value the sound server accepts.
	VolumeMax Volume = 0x7fffffff
)

// VolumeUIMax is the highest volume a user interface should push a target to
// (+11 dB). Targets already above it are left alone by increases.
var VolumeUIMax = volumeFromDB(11.0)

// ChannelVolumes holds one volume per channel, in channel map order.
type ChannelVolumes []Volume

// Avg returns the integer mean over all channels.
func (c ChannelVolumes) Avg() Volume {
	if len(c) == 0 {
		return VolumeMuted
	}
	var sum uint64
	for _, v := range c {
		sum += uint64(v)
	}
	return Volume(sum / uint64(len(c)))
}

// Set returns a copy of c with every channel set to v.
func (c ChannelVolumes) Set(v Volume) ChannelVolumes {
	out := make(ChannelVolumes, len(c))
	for i := range out {
		out[i] = v
	}
	return out
}

// Kind selects which variant of Target an invocation controls.
type Kind int

const (
	KindDevice Kind = iota
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindDevice:
		return "device"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Target is a playback device (sink) or a playback application (sink input).
// Index is only meaningful for applications, which the server addresses by
// index rather than by name.
type Target struct {
	Kind        Kind
	Index       uint32
	Name        string
	Description string
	Running     bool
	Default     bool
	Muted       bool
	Volume      ChannelVolumes
}

// RequestType enumerates the supported adjustments.
type RequestType int

const (
	RequestIncrease RequestType = iota + 1
	RequestDecrease
	RequestToggleMute
)

func (t RequestType) String() string {
	switch t {
	case RequestIncrease:
		return "increase"
	case RequestDecrease:
		return "decrease"
	case RequestToggleMute:
		return "mute-toggle"
	default:
		return "unknown"
	}
}

// Request is one adjustment. Percent is only used by increase and decrease.
type Request struct {
	Type    RequestType
	Percent float64
}

// Increase builds an increase request.
func Increase(percent float64) Request {
	return Request{Type: RequestIncrease, Percent: percent}
}

// Decrease builds a decrease request.
func Decrease(percent float64) Request {
	return Request{Type: RequestDecrease, Percent: percent}
}

// ToggleMute builds a mute toggle request.
func ToggleMute() Request {
	return Request{Type: RequestToggleMute}
}

func (r Request) String() string {
	if r.Type == RequestToggleMute {
		return r.Type.String()
	}
	return fmt.Sprintf("%s %g%%", r.Type, r.Percent)
}

// Tier tells which fallback produced a selection.
type Tier int

const (
	TierNone Tier = iota
	TierRunning
	TierPrevious
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierRunning:
		return "running"
	case TierPrevious:
		return "previous"
	case TierDefault:
		return "default"
	default:
		return "none"
	}
}

// Selection is the set of targets one invocation controls.
type Selection struct {
	Targets []Target
	Tier    Tier
	// RememberTarget asks the applier to persist each target's name as the
	// previously controlled target.
	RememberTarget bool
}

// Notification is a desktop notification shown, or updated in place, after a change.
type Notification struct {
	ReplaceID uint32
	Summary   string
	Body      string
	Icon      string
	// Progress is the value hint most notification daemons render as a bar.
	Progress int
	Timeout  time.Duration
}
