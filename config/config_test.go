package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "ollama", cfg.Model.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Model.BaseURL)
	assert.False(t, cfg.Retrieval.Enabled)
	assert.Equal(t, time.Duration(0), cfg.Orchestrator.DispatchTimeout)
	assert.Equal(t, 30*time.Second, cfg.Orchestrator.StreamTimeout)
	assert.Equal(t, 5*time.Second, cfg.Orchestrator.ChunkTimeout)
	assert.Equal(t, 5*time.Second, cfg.Orchestrator.SelectTimeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
model:
  provider: openai
  model: gpt-4o-mini
orchestrator:
  stream_timeout: 45s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Model)
	assert.Equal(t, 45*time.Second, cfg.Orchestrator.StreamTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Orchestrator.ChunkTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HEALTHMESH_LOG_LEVEL", "warn")
	t.Setenv("HEALTHMESH_MODEL_PROVIDER", "anthropic")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "anthropic", cfg.Model.Provider)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
