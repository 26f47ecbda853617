package notify

import (
	"context"

	"volume-control/internal/domain"
)

// Noop implements domain.Notifier without showing anything.
// Useful for scripting and tests.
type Noop struct{}

// Show keeps the previous id.
func (Noop) Show(_ context.Context, n domain.Notification) (uint32, error) {
	return n.ReplaceID, nil
}
