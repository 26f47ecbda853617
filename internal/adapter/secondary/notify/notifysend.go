// Package notify shows volume notifications through notify-send.
package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"volume-control/internal/domain"
	"volume-control/internal/logging"
)

// DefaultCommand is used when no notify command line is configured.
const DefaultCommand = "notify-send"

// AppName is reported to the notification daemon.
const AppName = "volume-control"

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// NotifySend implements domain.Notifier using notify-send from libnotify.
// This is a secondary adapter.
type NotifySend struct {
	argv      []string
	run       Runner
	available bool
}

// NewNotifySend builds a notifier for command, e.g. "notify-send -u low".
// When the tool or a display is missing, Show degrades to a no-op.
func NewNotifySend(command string) (*NotifySend, error) {
	n, err := NewNotifySendWithRunner(command, execRunner)
	if err != nil {
		return nil, err
	}
	n.available = toolAvailable(n.argv[0]) && hasDisplay()
	if !n.available {
		logging.Warnf("%s or a display is not available, notifications disabled", n.argv[0])
	}
	return n, nil
}

// NewNotifySendWithRunner is NewNotifySend with a custom runner; the tool is
// assumed to be available.
func NewNotifySendWithRunner(command string, run Runner) (*NotifySend, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse notify command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty notify command")
	}
	return &NotifySend{argv: argv, run: run, available: true}, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return out, fmt.Errorf("%s failed: %w, output: %s", name, err, strings.TrimSpace(string(ee.Stderr)))
		}
		return out, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// Show displays n and returns the id notify-send printed.
func (s *NotifySend) Show(ctx context.Context, n domain.Notification) (uint32, error) {
	if !s.available {
		return n.ReplaceID, nil
	}

	args := append([]string{}, s.argv[1:]...)
	args = append(args, "--print-id", "--app-name="+AppName)
	if n.ReplaceID != 0 {
		args = append(args, "--replace-id="+strconv.FormatUint(uint64(n.ReplaceID), 10))
	}
	if n.Icon != "" {
		args = append(args, "--icon="+n.Icon)
	}
	args = append(args,
		"--expire-time="+strconv.FormatInt(n.Timeout.Milliseconds(), 10),
		"--hint=int:value:"+strconv.Itoa(n.Progress),
		"--", n.Summary, n.Body,
	)

	logging.Tracef("exec %s %s", s.argv[0], strings.Join(args, " "))
	out, err := s.run(ctx, s.argv[0], args...)
	if err != nil {
		return n.ReplaceID, err
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return n.ReplaceID, nil
	}
	id, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return n.ReplaceID, fmt.Errorf("parse notification id %q: %w", fields[0], err)
	}
	return uint32(id), nil
}
