package pidfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mars-sim/mars-sim-sub009/internal/infrastructure/pidfile"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run", "daemon.pid")
	p := pidfile.New(path)

	// Act
	require.NoError(t, p.Acquire())
	pid, err := p.Running()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.Error(t, pidfile.New(path).Acquire())

	require.NoError(t, p.Release())
	_, err = p.Running()
	assert.ErrorIs(t, err, pidfile.ErrNotRunning)
}

func TestPIDFile_ReplacesGarbage(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0644))
	p := pidfile.New(path)

	// Act
	err := p.Acquire()

	// Assert
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Release() })
	pid, err := p.Running()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}
