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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Enhancer implements ai.QueryEnhancer using OpenAI-compatible chat APIs.
type Enhancer struct {
	client llms.Model
	logger *slog.Logger
}

// newEnhancer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance. Returns (nil, nil) when no
// generator model is configured; callers must handle the nil.
func newEnhancer(config *ai.Config) (*Enhancer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.GeneratorEnabled() {
		return nil, nil
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Enhancer{
		client: client,
		logger: slog.Default().With("component", "openai-enhancer"),
	}, nil
}

// NewEnhancer creates a new query enhancer using the provided configuration.
//
// Returns ai.QueryEnhancer interface to enforce abstraction.
func NewEnhancer(config *ai.Config) (ai.QueryEnhancer, error) {
	e, err := newEnhancer(config)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ai.ErrGeneratorDisabled
	}
	return e, nil
}

// Enhance analyzes a query with an LLM and returns its structured
// retrieval plan. The raw plan may have missing fields; callers are
// expected to backfill them from a heuristic plan.
func (e *Enhancer) Enhance(ctx context.Context, query string) (*ai.EnhancedQuery, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildEnhancementPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(strings.TrimSpace(query)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result ai.EnhancedQuery
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return nil, fmt.Errorf("%w: empty response", ai.ErrMalformedResponse)
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = extractJSONObject(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing enhancer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse enhancer response after retries", "err", lastErr)
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, lastErr)
	}

	e.logger.Debug("enhanced query",
		"type", result.QueryType,
		"keywords", len(result.Keywords),
		"topics", len(result.RequiredTopics),
		"multi_query", result.MultiQueryNeeded)
	return &result, nil
}
