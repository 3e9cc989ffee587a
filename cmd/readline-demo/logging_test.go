package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	chdir(t, t.TempDir())

	log, logFile := setupLogging(false)
	assert.Nil(t, logFile, "no log file when debug=false")
	assert.False(t, log.Core().Enabled(zap.ErrorLevel), "expected a no-op logger")

	_, err := os.Stat(logDir)
	assert.True(t, os.IsNotExist(err), "logs directory must not be created")
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	chdir(t, t.TempDir())

	log, logFile := setupLogging(true)
	require.NotNil(t, logFile)
	defer logFile.Close()

	log.Debug("test log message", zap.String("key", "value"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test log message")
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestSetupLogging_Rotation(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(logDir, 0755))

	logPath := filepath.Join(logDir, logFileName)

	// Write just over 10MB
	require.NoError(t, os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644))

	_, logFile := setupLogging(true)
	require.NotNil(t, logFile)
	defer logFile.Close()

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)

	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	assert.True(t, rotatedFound, "expected a rotated log file")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize), "new log file should start small")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
