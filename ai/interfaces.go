package ai

import "context"

// Embedder generates vector embeddings for semantic similarity search.
// Prose and code live in independently-loaded embedding spaces whose
// dimensions may differ. Implementations must be thread-safe for
// concurrent use.
type Embedder interface {
	// EmbedProse generates a prose-space vector for a single text string.
	EmbedProse(ctx context.Context, text string) ([]float32, error)

	// EmbedCode generates a code-space vector for a single text string.
	EmbedCode(ctx context.Context, text string) ([]float32, error)

	// EmbedProseBatch generates prose-space vectors for multiple texts.
	// The returned slice contains embeddings in the same order as the input.
	EmbedProseBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedCodeBatch generates code-space vectors for multiple texts.
	EmbedCodeBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ProseDim reports the dimensionality of the prose embedding space.
	// The value is queried from the service once and cached for the
	// process lifetime.
	ProseDim(ctx context.Context) (int, error)

	// CodeDim reports the dimensionality of the code embedding space.
	CodeDim(ctx context.Context) (int, error)
}

// QueryEnhancer rewrites a user query into a structured retrieval plan
// using a text-generation service. Implementations must be thread-safe.
//
// Enhance is allowed to fail; callers are expected to fall back to a
// deterministic heuristic plan when it does.
type QueryEnhancer interface {
	// Enhance analyzes a query and returns the service's structured plan.
	// The returned plan may have missing fields; callers backfill them.
	Enhance(ctx context.Context, query string) (*EnhancedQuery, error)
}

// AnswerGenerator writes the final answer from a query and its assembled
// evidence context. Implementations must be thread-safe.
type AnswerGenerator interface {
	// GenerateAnswer produces an answer grounded in the provided context.
	// Returns ErrGeneratorDisabled when no generation service is configured.
	GenerateAnswer(ctx context.Context, query, context string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder,
// QueryEnhancer and AnswerGenerator instances, ensuring they share
// configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the dual-space embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Enhancer returns the query enhancement service.
	Enhancer() QueryEnhancer

	// Generator returns the answer generation service.
	Generator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
