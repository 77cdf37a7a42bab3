package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so a stray config.yaml
// in the working tree cannot leak into the run.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
	t.Setenv("HOME", dir)
	return dir
}

func TestInitializeConfigDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "budget.db", cfg.Database.Path)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, "", cfg.Seed.RulesFile)
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BUDGET_LOG_LEVEL", "debug")
	t.Setenv("BUDGET_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("BUDGET_SERVER_ADDR", ":9000")
	t.Setenv("BUDGET_CSV_DELIMITER", ";")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
}

func TestInitializeConfigFromFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`log:
  level: warn
  format: json
database:
  path: finance.db
`), 0o600))

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "finance.db", cfg.Database.Path)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, ":8000", cfg.Server.Addr)
}

func TestInitializeConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "BUDGET_LOG_LEVEL", "verbose"},
		{"bad log format", "BUDGET_LOG_FORMAT", "xml"},
		{"multi-char delimiter", "BUDGET_CSV_DELIMITER", ";;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.value)

			_, err := InitializeConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	var cfg Config
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(&cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "nonsense"
	cfg.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(&cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
