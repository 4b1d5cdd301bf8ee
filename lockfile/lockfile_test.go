package lockfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWritesPidAndTimestamp(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "manifest.json.lock")
	lock, err := Acquire(path)
	require.NoError(err)
	defer lock.Release()

	raw, err := os.ReadFile(path)
	require.NoError(err)
	assert.True(strings.HasPrefix(string(raw), "pid="))
	assert.Contains(string(raw), "ts=")
}

func TestAcquireSecondTimeFailsWhileHeld(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "manifest.json.lock")
	lock, err := Acquire(path)
	require.NoError(err)
	defer lock.Release()

	_, err = Acquire(path)
	assert.Error(err)
}

func TestReleaseThenReacquireSucceeds(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "manifest.json.lock")
	lock, err := Acquire(path)
	require.NoError(err)
	require.NoError(lock.Release())

	lock2, err := Acquire(path)
	require.NoError(err)
	require.NoError(lock2.Release())
}
