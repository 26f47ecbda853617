package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"volume-control/internal/logging"
)

// BaseName prefixes every state file the program leaves in the state directory.
const BaseName = "volume-control"

// FileRepository implements domain.StateRepository with small text files next
// to each other in one directory, typically the system temp dir.
// This is a secondary adapter.
type FileRepository struct {
	base string
}

// NewFileRepository creates a repository rooted at dir. The directory is
// created when missing.
func NewFileRepository(dir string) (*FileRepository, error) {
	if dir == "" {
		return nil, errors.New("state dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileRepository{base: filepath.Join(dir, BaseName)}, nil
}

// LockPath returns the path of the process lock file.
func (f *FileRepository) LockPath() string {
	return f.base + ".lock"
}

func (f *FileRepository) previousPath() string {
	return f.base + "_previously_controlled_device_name"
}

func (f *FileRepository) notificationPath(target string) string {
	return fmt.Sprintf("%s_%s_notification-id", f.base, sanitize(target))
}

// PreviousTarget returns the name written by the last tier-1 invocation.
func (f *FileRepository) PreviousTarget() (string, bool) {
	data, err := os.ReadFile(f.previousPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Debugf("read previous target: %v", err)
		}
		return "", false
	}
	return string(data), true
}

// SavePreviousTarget records name as the previously controlled target.
func (f *FileRepository) SavePreviousTarget(name string) error {
	if err := os.WriteFile(f.previousPath(), []byte(name), 0o644); err != nil {
		return fmt.Errorf("write previous target: %w", err)
	}
	return nil
}

// NotificationID returns the last notification id shown for target, or 0.
func (f *FileRepository) NotificationID(target string) uint32 {
	data, err := os.ReadFile(f.notificationPath(target))
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		logging.Debugf("parse notification id for %s: %v", target, err)
		return 0
	}
	return uint32(id)
}

// SaveNotificationID records the notification id shown for target.
func (f *FileRepository) SaveNotificationID(target string, id uint32) error {
	data := strconv.FormatUint(uint64(id), 10)
	if err := os.WriteFile(f.notificationPath(target), []byte(data), 0o644); err != nil {
		return fmt.Errorf("write notification id: %w", err)
	}
	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, name)
}
