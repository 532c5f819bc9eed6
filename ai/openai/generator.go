package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Returns (nil, nil) when no generator model is configured.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.GeneratorEnabled() {
		return nil, nil
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	g, err := newGenerator(config)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ai.ErrGeneratorDisabled
	}
	return g, nil
}

// GenerateAnswer writes an answer to the query grounded in the assembled
// evidence context.
func (g *Generator) GenerateAnswer(ctx context.Context, query, evidence string) (string, error) {
	g.logger.Debug("generating answer", "query_length", len(query), "context_length", len(evidence))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnswerPrompt(query, evidence)),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.1))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: empty response", ai.ErrMalformedResponse)
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return "", fmt.Errorf("%w: blank answer", ai.ErrMalformedResponse)
	}
	return answer, nil
}
