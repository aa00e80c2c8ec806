// Package config loads HealthMesh configuration from an optional YAML
// file with HEALTHMESH_ environment overrides (HEALTHMESH_MODEL_PROVIDER
// maps to model.provider). Defaults are safe for local development
// against an Ollama instance.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration.
type Config struct {
	Log          LogConfig          `koanf:"log"`
	Model        ModelConfig        `koanf:"model"`
	Retrieval    RetrievalConfig    `koanf:"retrieval"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// ModelConfig selects and parameterizes the generation service.
type ModelConfig struct {
	Provider string `koanf:"provider"` // openai, anthropic, ollama
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

// RetrievalConfig wires the optional knowledge store.
type RetrievalConfig struct {
	Enabled       bool   `koanf:"enabled"`
	QdrantAddr    string `koanf:"qdrant_addr"`
	EmbedderURL   string `koanf:"embedder_url"`
	EmbedderModel string `koanf:"embedder_model"`
}

// OrchestratorConfig carries the pipeline's time budgets. A zero
// dispatch timeout leaves the fan-in join unbounded.
type OrchestratorConfig struct {
	DispatchTimeout time.Duration `koanf:"dispatch_timeout"`
	StreamTimeout   time.Duration `koanf:"stream_timeout"`
	ChunkTimeout    time.Duration `koanf:"chunk_timeout"`
	SelectTimeout   time.Duration `koanf:"select_timeout"`
}

// Load reads configuration from path (may be empty) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("model.provider", "ollama")
	k.Set("model.model", "llama3.2:latest")
	k.Set("model.base_url", "http://localhost:11434")
	k.Set("retrieval.enabled", false)
	k.Set("retrieval.qdrant_addr", "localhost:6334")
	k.Set("retrieval.embedder_url", "http://localhost:11434")
	k.Set("retrieval.embedder_model", "nomic-embed-text")
	k.Set("orchestrator.dispatch_timeout", "0s")
	k.Set("orchestrator.stream_timeout", "30s")
	k.Set("orchestrator.chunk_timeout", "5s")
	k.Set("orchestrator.select_timeout", "5s")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// HEALTHMESH_MODEL_PROVIDER -> model.provider
	if err := k.Load(env.Provider("HEALTHMESH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "HEALTHMESH_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
