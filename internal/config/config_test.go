package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .cexpand/config.yml and .cexpand/config.yaml
// - LoadConfig() merges config file with defaults
// - Environment variables override config file values and defaults
// - WithConfigFile() reads an explicit file and fails when it is missing
// - LoadConfig() returns error for malformed YAML and invalid values
// - Validate() rejects empty sources, bad globs, non-positive workers/cache, bad format
// - Validate() reports every invalid field and keeps sentinels matchable
// - GetSourceExtensions() extracts unique extensions

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	cexpandDir := filepath.Join(dir, ".cexpand")
	require.NoError(t, os.MkdirAll(cexpandDir, 0755))
	path := filepath.Join(cexpandDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Contains(t, cfg.Paths.Sources, "**/*.c")
	assert.Contains(t, cfg.Paths.Sources, "**/*.hpp")
	assert.Contains(t, cfg.Paths.Ignore, ".git/**")

	assert.True(t, cfg.Search.Definitions)
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.Equal(t, 1024, cfg.Search.CacheSize)
	assert.Equal(t, 0, cfg.Search.MaxFiles)

	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Output.Color)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
paths:
  sources:
    - "src/**/*.cpp"
  ignore:
    - "out/**"
search:
  definitions: false
  workers: 8
  cache_size: 64
output:
  format: text
  color: false
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.cpp"}, cfg.Paths.Sources)
	assert.Equal(t, []string{"out/**"}, cfg.Paths.Ignore)
	assert.False(t, cfg.Search.Definitions)
	assert.Equal(t, 8, cfg.Search.Workers)
	assert.Equal(t, 64, cfg.Search.CacheSize)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", `
search:
  workers: 2
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Search.Workers)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
output:
  format: text
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, defaults.Paths.Sources, cfg.Paths.Sources)
	assert.Equal(t, defaults.Search.Workers, cfg.Search.Workers)
	assert.Equal(t, defaults.Search.CacheSize, cfg.Search.CacheSize)
	assert.True(t, cfg.Search.Definitions)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
search:
  workers: 8
output:
  format: json
`)

	t.Setenv("CEXPAND_SEARCH_WORKERS", "16")
	t.Setenv("CEXPAND_OUTPUT_FORMAT", "text")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Search.Workers)
	assert.Equal(t, FormatText, cfg.Output.Format)
}

func TestLoadConfig_EnvironmentVariablesOverrideDefaults(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	t.Setenv("CEXPAND_SEARCH_DEFINITIONS", "false")
	t.Setenv("CEXPAND_SEARCH_CACHE_SIZE", "12")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.False(t, cfg.Search.Definitions)
	assert.Equal(t, 12, cfg.Search.CacheSize)
}

func TestLoadConfig_WithConfigFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  workers: 3\n"), 0644))

	cfg, err := NewLoader(t.TempDir(), WithConfigFile(path)).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.Workers)
}

func TestLoadConfig_WithMissingConfigFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.yml")

	cfg, err := NewLoader(t.TempDir(), WithConfigFile(path)).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
search:
  workers: "unclosed quote
  cache_size: not-a-number
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
search:
  workers: 0
`)

	cfg, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty sources", func(c *Config) { c.Paths.Sources = nil }, ErrEmptySources},
		{"bad source glob", func(c *Config) { c.Paths.Sources = []string{"src/[a-"} }, ErrInvalidPattern},
		{"bad ignore glob", func(c *Config) { c.Paths.Ignore = []string{"out/[!"} }, ErrInvalidPattern},
		{"zero workers", func(c *Config) { c.Search.Workers = 0 }, ErrInvalidWorkers},
		{"negative cache", func(c *Config) { c.Search.CacheSize = -1 }, ErrInvalidCacheSize},
		{"negative max files", func(c *Config) { c.Search.MaxFiles = -5 }, ErrInvalidMaxFiles},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_AcceptsUppercaseFormat(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Output.Format = "TEXT"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Paths.Sources = nil
	cfg.Search.Workers = -1
	cfg.Search.CacheSize = 0
	cfg.Output.Format = "yaml"

	err := Validate(cfg)
	require.Error(t, err)

	errMsg := err.Error()
	assert.Contains(t, errMsg, "validation failed")
	assert.Contains(t, errMsg, "source")
	assert.Contains(t, errMsg, "workers")
	assert.Contains(t, errMsg, "cache_size")
	assert.Contains(t, errMsg, "yaml")

	assert.True(t, errors.Is(err, ErrEmptySources))
	assert.True(t, errors.Is(err, ErrInvalidWorkers))
	assert.True(t, errors.Is(err, ErrInvalidCacheSize))
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestGetSourceExtensions(t *testing.T) {
	t.Parallel()

	cfg := &Config{Paths: PathsConfig{Sources: []string{"**/*.c", "src/*.c", "**/*.hpp", "Makefile"}}}
	assert.Equal(t, []string{".c", ".hpp"}, cfg.GetSourceExtensions())
}
