// Copyright 2025 RAGDocs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// GeneratorHost is the base URL for the text-generation service API
	// used for query enhancement and answer writing.
	GeneratorHost string

	// ProseEmbeddingModel is the model identifier for the prose embedding
	// space. Example: "all-minilm", "text-embedding-3-small"
	ProseEmbeddingModel string

	// CodeEmbeddingModel is the model identifier for the code embedding
	// space. Example: "jina-embeddings-v2-base-code"
	CodeEmbeddingModel string

	// GeneratorModel is the model identifier for the text-generation
	// service. Leave empty to run without a generator; query analysis then
	// always uses the heuristic path and answers use the basic formatter.
	GeneratorModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the text-generation service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithHost sets both embedding and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GeneratorHost = host
	}
}

// WithProseEmbeddingModel sets the prose embedding model identifier.
func WithProseEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.ProseEmbeddingModel = model
	}
}

// WithCodeEmbeddingModel sets the code embedding model identifier.
func WithCodeEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.CodeEmbeddingModel = model
	}
}

// WithGeneratorModel sets the text-generation model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, all services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:       defaultHost,
		GeneratorHost:       defaultHost,
		ProseEmbeddingModel: "all-minilm",
		CodeEmbeddingModel:  "unclemusclez/jina-embeddings-v2-base-code",
		GeneratorModel:      "qwen2.5:3b",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config with
// custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434/v1"),
//	    ai.WithProseEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.GeneratorHost != "" && !strings.HasSuffix(c.GeneratorHost, "/v1") {
		c.GeneratorHost = strings.TrimSuffix(c.GeneratorHost, "/")
		c.GeneratorHost = c.GeneratorHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// A missing GeneratorModel is valid: generation is optional and the
// retrieval pipeline degrades to its heuristic paths without it.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ProseEmbeddingModel == "" {
		return errors.New("ai config: ProseEmbeddingModel is required")
	}
	if c.CodeEmbeddingModel == "" {
		return errors.New("ai config: CodeEmbeddingModel is required")
	}
	if c.GeneratorModel != "" && c.GeneratorHost == "" {
		return errors.New("ai config: GeneratorHost is required when GeneratorModel is set")
	}
	return nil
}

// GeneratorEnabled reports whether a text-generation model is configured.
func (c *Config) GeneratorEnabled() bool {
	return c.GeneratorModel != ""
}
