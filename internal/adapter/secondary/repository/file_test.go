package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volume-control/internal/domain"
)

var (
	_ domain.StateRepository = (*FileRepository)(nil)
	_ domain.StateRepository = (*MemoryRepository)(nil)
)

func TestFileRepository_PreviousTarget(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	_, ok := repo.PreviousTarget()
	assert.False(t, ok)

	name := "alsa_output.pci-0000_00_1f.3.analog-stereo"
	require.NoError(t, repo.SavePreviousTarget(name))

	got, ok := repo.PreviousTarget()
	assert.True(t, ok)
	assert.Equal(t, name, got)

	raw, err := os.ReadFile(filepath.Join(dir, "volume-control_previously_controlled_device_name"))
	require.NoError(t, err)
	assert.Equal(t, name, string(raw))
}

func TestFileRepository_NotificationID(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), repo.NotificationID("speakers"))

	require.NoError(t, repo.SaveNotificationID("speakers", 1234))
	assert.Equal(t, uint32(1234), repo.NotificationID("speakers"))
	assert.Equal(t, uint32(0), repo.NotificationID("hdmi"))

	raw, err := os.ReadFile(filepath.Join(dir, "volume-control_speakers_notification-id"))
	require.NoError(t, err)
	assert.Equal(t, "1234", string(raw))
}

func TestFileRepository_CorruptNotificationID(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "volume-control_speakers_notification-id")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o644))
	assert.Equal(t, uint32(0), repo.NotificationID("speakers"))

	require.NoError(t, os.WriteFile(path, []byte(" 77\n"), 0o644))
	assert.Equal(t, uint32(77), repo.NotificationID("speakers"))
}

func TestFileRepository_SanitizesNames(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.SaveNotificationID("a/b", 5))
	assert.Equal(t, uint32(5), repo.NotificationID("a/b"))
	assert.FileExists(t, filepath.Join(dir, "volume-control_a_b_notification-id"))
}

func TestFileRepository_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	// A directory where the file should be makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "volume-control_previously_controlled_device_name"), 0o755))
	assert.Error(t, repo.SavePreviousTarget("speakers"))
}

func TestFileRepository_LockPath(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "volume-control.lock"), repo.LockPath())
}

func TestNewFileRepository_RequiresDir(t *testing.T) {
	_, err := NewFileRepository("")
	assert.Error(t, err)
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()

	_, ok := repo.PreviousTarget()
	assert.False(t, ok)
	require.NoError(t, repo.SavePreviousTarget(""))
	prev, ok := repo.PreviousTarget()
	assert.True(t, ok)
	assert.Empty(t, prev)

	require.NoError(t, repo.SaveNotificationID("x", 3))
	assert.Equal(t, uint32(3), repo.NotificationID("x"))
}
