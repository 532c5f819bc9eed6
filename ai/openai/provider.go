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


package openai

import (
	"context"
	"log/slog"

	"github.com/kejr2/RAGDocs/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder, enhancer and generator instances. The enhancer
// and generator are nil when no generator model is configured; the
// accessors then return disabled stand-ins.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	enhancer  *Enhancer
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	// Enhancer and generator are nil when generation is not configured
	enhancer, err := newEnhancer(config)
	if err != nil {
		return nil, err
	}
	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		enhancer:  enhancer,
		generator: generator,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the dual-space embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Enhancer returns the query enhancement service. When no generator
// model is configured it returns a stand-in whose Enhance always fails
// with ai.ErrGeneratorDisabled, so callers take their heuristic path.
func (p *Provider) Enhancer() ai.QueryEnhancer {
	if p.enhancer == nil {
		return disabledService{}
	}
	return p.enhancer
}

// Generator returns the answer generation service. When no generator
// model is configured it returns a stand-in whose GenerateAnswer always
// fails with ai.ErrGeneratorDisabled.
func (p *Provider) Generator() ai.AnswerGenerator {
	if p.generator == nil {
		return disabledService{}
	}
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

// disabledService satisfies ai.QueryEnhancer and ai.AnswerGenerator for
// deployments without a text-generation model.
type disabledService struct{}

func (disabledService) Enhance(context.Context, string) (*ai.EnhancedQuery, error) {
	return nil, ai.ErrGeneratorDisabled
}

func (disabledService) GenerateAnswer(context.Context, string, string) (string, error) {
	return "", ai.ErrGeneratorDisabled
}
