package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data/uploads", cfg.Paths.UploadDir)
	assert.Equal(t, int64(50<<20), cfg.Processing.MaxUploadBytes)
	assert.Equal(t, 4, cfg.Processing.MaxConcurrent)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "at least one allowed origin",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Processing.MaxUploadBytes = 0 },
			wantErr: "max upload bytes must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestValidateClampsConcurrency(t *testing.T) {
	cfg := Default()
	cfg.Processing.MaxConcurrent = -3

	require.NoError(t, cfg.validate())
	assert.Equal(t, 1, cfg.Processing.MaxConcurrent)
}

func TestMergeConfigsEnvPrecedence(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Logging.Level = "debug"
	fileCfg.Paths.UploadDir = "file/uploads"

	envCfg := Config{}
	envCfg.Server.Port = 8081

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 8081, merged.Server.Port, "env value wins")
	assert.Equal(t, "debug", merged.Logging.Level, "file fills gaps")
	assert.Equal(t, "file/uploads", merged.Paths.UploadDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9191\nlogging:\n  level: warn\npaths:\n  upload_dir: incoming\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "incoming", cfg.Paths.UploadDir)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := loadFromFile(path)
	require.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.UploadDir = filepath.Join(dir, "data", "uploads")
	cfg.Paths.ReferenceDir = filepath.Join(dir, "data", "reference")
	cfg.Paths.ExportDir = filepath.Join(dir, "data", "exports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirectories())

	for _, p := range []string{cfg.Paths.UploadDir, cfg.Paths.ReferenceDir, cfg.Paths.ExportDir, cfg.Paths.LogsDir} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestReferencePath(t *testing.T) {
	cfg := Default()
	cfg.Paths.ReferenceDir = "ref"
	assert.Equal(t, filepath.Join("ref", "plants.xlsx"), cfg.ReferencePath("plants.xlsx"))
}
