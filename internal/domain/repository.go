package domain

import "context"

// AudioServer is a secondary port to the sound server.
// Every call blocks until the server has acknowledged the operation.
type AudioServer interface {
	ListTargets(ctx context.Context, kind Kind) ([]Target, error)
	// DefaultTargetName returns the system default target of kind, or ""
	// when the kind has no default.
	DefaultTargetName(ctx context.Context, kind Kind) (string, error)
	SetMute(ctx context.Context, target Target, mute bool) error
	SetVolume(ctx context.Context, target Target, volume ChannelVolumes) error
}

// Notifier is a secondary port that shows desktop notifications.
type Notifier interface {
	// Show displays n, replacing n.ReplaceID when it is non-zero, and returns
	// the id of the notification on screen.
	Show(ctx context.Context, n Notification) (uint32, error)
}

// StateRepository persists what one invocation leaves for the next.
// Reads never fail: missing or corrupt state reads as "no history".
type StateRepository interface {
	PreviousTarget() (string, bool)
	SavePreviousTarget(name string) error
	NotificationID(target string) uint32
	SaveNotificationID(target string, id uint32) error
}
