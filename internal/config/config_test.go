package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.ConsoleEnabled())
}

func TestLoadMissingFileReturnsDefaultsWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekday.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadPartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekday.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_dir: /var/log/weekday\nformat: JSON\nconsole: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/weekday", cfg.LogDir)
	assert.Equal(t, "log", cfg.LogName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.ConsoleEnabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad level", "log_level: chatty\n"},
		{"bad format", "format: xml\n"},
		{"name with separator", "log_name: a/b\n"},
		{"not yaml", "log_dir: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "weekday.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "weekday.yaml")

	cfg := DefaultConfig()
	cfg.LogDir = "out"
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestSaveRejectsBadInput(t *testing.T) {
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))

	cfg := DefaultConfig()
	cfg.Format = "xml"
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), cfg))
}

func TestApplyEnvOverridesFields(t *testing.T) {
	t.Setenv(EnvLogDir, "/tmp/weekday-logs")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvFormat, "")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(""))
	assert.Equal(t, "/tmp/weekday-logs", cfg.LogDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Format)
}

func TestApplyEnvLoadsDotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvLogName+"=fromfile\n"), 0o644))

	// Register cleanup for the variable godotenv will set.
	t.Setenv(EnvLogName, "")
	require.NoError(t, os.Unsetenv(EnvLogName))

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envFile))
	assert.Equal(t, "fromfile", cfg.LogName)
}

func TestApplyEnvMissingDotEnvIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))

	_, err = LoadFile("")
	assert.Error(t, err)
}

func TestLoadKeepsLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekday.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: \"{{.Level}} {{.Message}}\"\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{{.Level}} {{.Message}}", cfg.LogFormat)
}
