package domain

import "errors"

var (
	// ErrAlreadyRunning indicates another invocation holds the process lock.
	ErrAlreadyRunning = errors.New("already running")

	// ErrInvalidRequest indicates that no adjustment, or a conflicting set of
	// adjustments, was requested.
	ErrInvalidRequest = errors.New("one of --increase, --decrease or --mute-toggle is required")

	// ErrInvalidPercent indicates a negative or non-finite percentage.
	ErrInvalidPercent = errors.New("percent must be a finite number >= 0")

	// ErrInvalidSteps indicates a step count below 1.
	ErrInvalidSteps = errors.New("steps must be at least 1")

	// ErrUnknownKind indicates a target kind the sound server adapter cannot address.
	ErrUnknownKind = errors.New("unknown target kind")
)
