package logutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconfigureWritesDebugLevelToFile(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.log")
	Reconfigure(path)
	defer Reconfigure("latest.log")

	Debugf("hello %s", "world")
	_ = Sync()

	raw, err := os.ReadFile(path)
	require.NoError(err)
	assert.Contains(string(raw), "hello world")
}

func TestReconfigureToUnwritableFileStillLogsToConsole(t *testing.T) {
	Reconfigure(filepath.Join(t.TempDir(), "nonexistent-dir", "test.log"))
	defer Reconfigure("latest.log")

	Infof("should not panic")
}
