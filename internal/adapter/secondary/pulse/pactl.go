// Package pulse talks to a PulseAudio (or pipewire-pulse) server through the
// pactl command line client.
package pulse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"volume-control/internal/domain"
	"volume-control/internal/logging"
)

// DefaultCommand is used when no pactl command line is configured.
const DefaultCommand = "pactl"

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client implements domain.AudioServer on top of pactl.
// This is a secondary adapter.
type Client struct {
	argv []string
	run  Runner
}

// NewClient builds a client for command, a shell-like command line such as
// "pactl --server unix:/run/user/1000/pulse/native". An empty command means pactl.
func NewClient(command string) (*Client, error) {
	return NewClientWithRunner(command, execRunner)
}

// NewClientWithRunner is NewClient with a custom command runner.
func NewClientWithRunner(command string, run Runner) (*Client, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse pactl command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty pactl command")
	}
	return &Client{argv: argv, run: run}, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w, output: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (c *Client) pactl(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, c.argv[1:]...), args...)
	logging.Tracef("exec %s %s", c.argv[0], strings.Join(full, " "))
	return c.run(ctx, c.argv[0], full...)
}

type channelVolume struct {
	Value uint32 `json:"value"`
}

type sinkInfo struct {
	Index       uint32                   `json:"index"`
	State       string                   `json:"state"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	ChannelMap  string                   `json:"channel_map"`
	Mute        bool                     `json:"mute"`
	Volume      map[string]channelVolume `json:"volume"`
}

type sinkInputInfo struct {
	Index      uint32                   `json:"index"`
	ChannelMap string                   `json:"channel_map"`
	Corked     bool                     `json:"corked"`
	Mute       bool                     `json:"mute"`
	Volume     map[string]channelVolume `json:"volume"`
	Properties map[string]string        `json:"properties"`
}

// ListTargets lists sinks for devices and sink inputs for applications.
func (c *Client) ListTargets(ctx context.Context, kind domain.Kind) ([]domain.Target, error) {
	switch kind {
	case domain.KindDevice:
		return c.listSinks(ctx)
	case domain.KindApplication:
		return c.listSinkInputs(ctx)
	default:
		return nil, domain.ErrUnknownKind
	}
}

func (c *Client) listSinks(ctx context.Context) ([]domain.Target, error) {
	out, err := c.pactl(ctx, "--format=json", "list", "sinks")
	if err != nil {
		return nil, err
	}
	var sinks []sinkInfo
	if err := json.Unmarshal(out, &sinks); err != nil {
		return nil, fmt.Errorf("decode sinks: %w", err)
	}

	targets := make([]domain.Target, 0, len(sinks))
	for _, s := range sinks {
		targets = append(targets, domain.Target{
			Kind:        domain.KindDevice,
			Index:       s.Index,
			Name:        s.Name,
			Description: firstNonEmpty(s.Description, s.Name),
			Running:     strings.EqualFold(s.State, "running"),
			Muted:       s.Mute,
			Volume:      channelVolumes(s.ChannelMap, s.Volume),
		})
	}
	return targets, nil
}

func (c *Client) listSinkInputs(ctx context.Context) ([]domain.Target, error) {
	out, err := c.pactl(ctx, "--format=json", "list", "sink-inputs")
	if err != nil {
		return nil, err
	}
	var inputs []sinkInputInfo
	if err := json.Unmarshal(out, &inputs); err != nil {
		return nil, fmt.Errorf("decode sink inputs: %w", err)
	}

	targets := make([]domain.Target, 0, len(inputs))
	for _, in := range inputs {
		name := firstNonEmpty(
			in.Properties["application.name"],
			in.Properties["media.name"],
			"sink-input-"+strconv.FormatUint(uint64(in.Index), 10),
		)
		targets = append(targets, domain.Target{
			Kind:        domain.KindApplication,
			Index:       in.Index,
			Name:        name,
			Description: firstNonEmpty(in.Properties["media.name"], name),
			Running:     !in.Corked,
			Muted:       in.Mute,
			Volume:      channelVolumes(in.ChannelMap, in.Volume),
		})
	}
	return targets, nil
}

// DefaultTargetName returns the default sink. Applications have no default.
func (c *Client) DefaultTargetName(ctx context.Context, kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindDevice:
		out, err := c.pactl(ctx, "get-default-sink")
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	case domain.KindApplication:
		return "", nil
	default:
		return "", domain.ErrUnknownKind
	}
}

// SetMute sets the mute flag of target.
func (c *Client) SetMute(ctx context.Context, target domain.Target, mute bool) error {
	cmd, id, err := address(target, "set-sink-mute", "set-sink-input-mute")
	if err != nil {
		return err
	}
	flag := "0"
	if mute {
		flag = "1"
	}
	_, err = c.pactl(ctx, cmd, id, flag)
	return err
}

// SetVolume sets every channel of target.
func (c *Client) SetVolume(ctx context.Context, target domain.Target, volume domain.ChannelVolumes) error {
	cmd, id, err := address(target, "set-sink-volume", "set-sink-input-volume")
	if err != nil {
		return err
	}
	if len(volume) == 0 {
		return errors.New("no channels to set")
	}
	args := []string{cmd, id}
	for _, v := range volume {
		args = append(args, strconv.FormatUint(uint64(v), 10))
	}
	_, err = c.pactl(ctx, args...)
	return err
}

func address(target domain.Target, sinkCmd, inputCmd string) (string, string, error) {
	switch target.Kind {
	case domain.KindDevice:
		return sinkCmd, target.Name, nil
	case domain.KindApplication:
		return inputCmd, strconv.FormatUint(uint64(target.Index), 10), nil
	default:
		return "", "", domain.ErrUnknownKind
	}
}

// channelVolumes orders the per-channel volumes by the channel map, falling
// back to channel name order when the map is missing or incomplete.
func channelVolumes(channelMap string, volumes map[string]channelVolume) domain.ChannelVolumes {
	var names []string
	if channelMap != "" {
		names = strings.Split(channelMap, ",")
	}
	complete := len(names) == len(volumes)
	for _, n := range names {
		if _, ok := volumes[n]; !ok {
			complete = false
			break
		}
	}
	if !complete {
		names = names[:0]
		for n := range volumes {
			names = append(names, n)
		}
		sort.Strings(names)
	}

	out := make(domain.ChannelVolumes, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Volume(volumes[n].Value))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
