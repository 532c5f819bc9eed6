package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// It keeps two independent clients, one per embedding space, because the
// prose and code models usually differ in dimensionality.
type Embedder struct {
	prose  embeddings.Embedder
	code   embeddings.Embedder
	logger *slog.Logger

	// Dimensions are discovered lazily by embedding a probe string and
	// cached for the process lifetime.
	mu       sync.Mutex
	proseDim int
	codeDim  int
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	prose, err := newSpaceEmbedder(config.EmbeddingHost, config.ProseEmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("prose embedder: %w", err)
	}
	code, err := newSpaceEmbedder(config.EmbeddingHost, config.CodeEmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("code embedder: %w", err)
	}

	return &Embedder{
		prose:  prose,
		code:   code,
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// newSpaceEmbedder builds a langchaingo embedder bound to a single model.
// Use "none" as token for local OpenAI-compatible services that don't
// require authentication.
func newSpaceEmbedder(host, model string) (embeddings.Embedder, error) {
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
}

// NewEmbedder creates a new dual-space embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedProse generates a prose-space vector for a single text string.
func (e *Embedder) EmbedProse(ctx context.Context, text string) ([]float32, error) {
	return e.embedOne(ctx, e.prose, "prose", text)
}

// EmbedCode generates a code-space vector for a single text string.
func (e *Embedder) EmbedCode(ctx context.Context, text string) ([]float32, error) {
	return e.embedOne(ctx, e.code, "code", text)
}

// EmbedProseBatch generates prose-space vectors for multiple texts.
func (e *Embedder) EmbedProseBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embedBatch(ctx, e.prose, "prose", texts)
}

// EmbedCodeBatch generates code-space vectors for multiple texts.
func (e *Embedder) EmbedCodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embedBatch(ctx, e.code, "code", texts)
}

func (e *Embedder) embedOne(ctx context.Context, space embeddings.Embedder, name, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "space", name, "length", len(text))

	vectors, err := space.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "space", name, "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result", "space", name)
		return []float32{}, nil
	}

	return vectors[0], nil
}

func (e *Embedder) embedBatch(ctx context.Context, space embeddings.Embedder, name string, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "space", name, "count", len(texts))

	vectors, err := space.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "space", name, "count", len(texts), "err", err)
		return nil, err
	}

	return vectors, nil
}

// ProseDim reports the dimensionality of the prose embedding space,
// probing the service on first use.
func (e *Embedder) ProseDim(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proseDim > 0 {
		return e.proseDim, nil
	}
	dim, err := e.probeDim(ctx, e.prose, "prose")
	if err != nil {
		return 0, err
	}
	e.proseDim = dim
	return dim, nil
}

// CodeDim reports the dimensionality of the code embedding space,
// probing the service on first use.
func (e *Embedder) CodeDim(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.codeDim > 0 {
		return e.codeDim, nil
	}
	dim, err := e.probeDim(ctx, e.code, "code")
	if err != nil {
		return 0, err
	}
	e.codeDim = dim
	return dim, nil
}

func (e *Embedder) probeDim(ctx context.Context, space embeddings.Embedder, name string) (int, error) {
	vectors, err := space.EmbedDocuments(ctx, []string{"dimension probe"})
	if err != nil {
		e.logger.Error("failed to probe embedding dimension", "space", name, "err", err)
		return 0, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return 0, fmt.Errorf("embedding service returned empty probe vector for %s space", name)
	}
	e.logger.Debug("probed embedding dimension", "space", name, "dim", len(vectors[0]))
	return len(vectors[0]), nil
}
