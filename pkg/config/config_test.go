package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
key:
  bits: 512
  threshold: 40
  parallel: true
store:
  type: sqlite
  path: /tmp/keys.db
logger:
  log_level: debug
  log_type: file
  file_path: /tmp/rsa.log
  max_size: 5
  max_backups: 2
  max_age: 7
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, s.Key.Bits)
	assert.Equal(t, 40, s.Key.Threshold)
	assert.True(t, s.Key.Parallel)
	assert.Equal(t, StoreTypeSQLite, s.Store.Type)
	assert.Equal(t, "/tmp/keys.db", s.Store.Path)
	assert.Equal(t, LogLevelDebug, s.Logger.LogLevel)
	assert.Equal(t, LogTypeFile, s.Logger.LogType)
	assert.Equal(t, 7, s.Logger.MaxAge)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "key:\n  bits: 512\n")
	t.Setenv("RSA_KEY_BITS", "256")
	t.Setenv("RSA_KEY_THRESHOLD", "12")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256, s.Key.Bits)
	assert.Equal(t, 12, s.Key.Threshold)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"small key":      "key:\n  bits: 4\n",
		"zero threshold": "key:\n  threshold: 0\n",
		"unknown store":  "store:\n  type: etcd\n",
		"sqlite no path": "store:\n  type: sqlite\n",
		"bad log level":  "logger:\n  log_level: loud\n",
		"file no path":   "logger:\n  log_type: file\n",
	}
	for name, content := range cases {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")

	_, err = Load(writeConfig(t, "key:\n  bits: 4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: validation failed")
}

func TestLoggerSettings_Validate(t *testing.T) {
	s := Default().Logger
	assert.NoError(t, s.Validate())

	s.LogType = "syslog"
	assert.Error(t, s.Validate())
}
