package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "2021", cfg.Edition)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, ".ruchy/cache.json", cfg.CachePath)
	assert.Equal(t, 100, cfg.Fuzz.Iterations)
	assert.Equal(t, 100, cfg.PropertyTests.Cases)
}

func TestExplicitYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruchy.yaml")
	data, err := yaml.Marshal(map[string]any{
		"edition":    "2024",
		"output_dir": "build",
		"lint":       map[string]any{"max_warnings": 5},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2024", cfg.Edition)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Equal(t, 5, cfg.Lint.MaxWarnings)
	// Unset keys keep their defaults.
	assert.Equal(t, 100, cfg.Fuzz.Iterations)
}

func TestTOMLConfigDiscoveredInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ruchy.toml"), []byte("edition = \"2018\"\n"), 0644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "2018", cfg.Edition)
}
