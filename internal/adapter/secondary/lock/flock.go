//go:build unix

// Package lock provides the advisory process lock that keeps two invocations
// from adjusting volumes at the same time.
package lock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"volume-control/internal/domain"
	"volume-control/internal/logging"
)

// FileLock is an exclusive flock(2) held on a well-known file. The kernel
// drops the lock when the descriptor is closed, so a crashed holder leaves a
// stale file but never a stale lock.
type FileLock struct {
	path string
	file *os.File
}

// Acquire takes the lock without blocking. It returns an error wrapping
// domain.ErrAlreadyRunning when another process holds it.
func Acquire(path string) (*FileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s is locked", domain.ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	logging.Tracef("acquired lock %s", path)
	return &FileLock{path: path, file: f}, nil
}

// Release removes the lock file and closes the descriptor. It is safe to call
// more than once.
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	removeErr := os.Remove(l.path)
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}
	closeErr := l.file.Close()
	l.file = nil
	logging.Tracef("released lock %s", l.path)
	return errors.Join(removeErr, closeErr)
}
