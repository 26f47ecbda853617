package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.False(t, cfg.Application)
	assert.Equal(t, 1.0, cfg.Duration)
	assert.Equal(t, "audio-volume-high", cfg.Icon)
	assert.Equal(t, "audio-volume-muted", cfg.IconMuted)
	assert.Equal(t, "Volume", cfg.Title)
	assert.Equal(t, uint64(1), cfg.Steps)
	assert.Equal(t, uint64(0), cfg.StepIntervalMS)
	assert.Equal(t, os.TempDir(), cfg.StateDir)
	assert.Equal(t, "pactl", cfg.PactlCommand)
	assert.Equal(t, "notify-send", cfg.NotifyCommand)
	assert.Equal(t, time.Second, cfg.NotificationTimeout())
}

func TestLoad_Formats(t *testing.T) {
	tests := map[string]string{
		"config.json": `{"steps": 4, "step_interval_ms": 25, "title": "Sound", "duration": 2.5}`,
		"config.yaml": "steps: 4\nstep_interval_ms: 25\ntitle: Sound\nduration: 2.5\n",
		"config.toml": "steps = 4\nstep_interval_ms = 25\ntitle = \"Sound\"\nduration = 2.5\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, uint64(4), cfg.Steps)
			assert.Equal(t, 25*time.Millisecond, cfg.StepInterval())
			assert.Equal(t, "Sound", cfg.Title)
			assert.Equal(t, 2500*time.Millisecond, cfg.NotificationTimeout())
			assert.Equal(t, "audio-volume-high", cfg.Icon)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"steps": 4, "icon_muted": "from-file"}`)
	t.Setenv("VOLUME_CONTROL_STEPS", "8")
	t.Setenv("VOLUME_CONTROL_APPLICATION", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), cfg.Steps)
	assert.True(t, cfg.Application)
	assert.Equal(t, "from-file", cfg.IconMuted)
}

func TestLoad_LargeSteps(t *testing.T) {
	path := writeFile(t, "config.json", `{"steps": 20000, "step_interval_ms": 120000}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(20000), cfg.Steps)
	assert.Equal(t, 2*time.Minute, cfg.StepInterval())
}

func TestLoad_ExpandsStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeFile(t, "config.yml", "state_dir: ~/state\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "state"), cfg.StateDir)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		name    string
		content string
	}{
		"zero steps":       {name: "c.json", content: `{"steps": 0}`},
		"negative timeout": {name: "c.json", content: `{"duration": -1}`},
		"empty icon":       {name: "c.json", content: `{"icon": ""}`},
		"broken json":      {name: "c.json", content: `{"steps": `},
		"broken yaml":      {name: "c.yaml", content: "steps: [\n"},
		"unknown format":   {name: "c.ini", content: "steps=2"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.name, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "volume-control", "config.json"), DefaultPath())
}
