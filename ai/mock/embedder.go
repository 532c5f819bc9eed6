package mock

import (
	"context"
	"hash/fnv"
)

// ProseDim and CodeDim are the embedding dimensions the mock embedder
// reports, matching typical prose and code embedding models.
const (
	ProseDim = 384
	CodeDim  = 768
)

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedProseFunc is called by EmbedProse if set.
	// If nil, uses default deterministic behavior.
	EmbedProseFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedCodeFunc is called by EmbedCode if set.
	EmbedCodeFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedProseBatchFunc is called by EmbedProseBatch if set.
	EmbedProseBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedCodeBatchFunc is called by EmbedCodeBatch if set.
	EmbedCodeBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockEmbedder().
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedProse generates a deterministic prose-space embedding from the text hash.
func (m *MockEmbedder) EmbedProse(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedProseFunc != nil {
		return m.EmbedProseFunc(ctx, text)
	}

	return generateDeterministicVector(text, ProseDim), nil
}

// EmbedCode generates a deterministic code-space embedding from the text hash.
func (m *MockEmbedder) EmbedCode(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedCodeFunc != nil {
		return m.EmbedCodeFunc(ctx, text)
	}

	return generateDeterministicVector(text, CodeDim), nil
}

// EmbedProseBatch generates deterministic prose-space embeddings for multiple texts.
func (m *MockEmbedder) EmbedProseBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedProseBatchFunc != nil {
		return m.EmbedProseBatchFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = generateDeterministicVector(text, ProseDim)
	}
	return embeddings, nil
}

// EmbedCodeBatch generates deterministic code-space embeddings for multiple texts.
func (m *MockEmbedder) EmbedCodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedCodeBatchFunc != nil {
		return m.EmbedCodeBatchFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = generateDeterministicVector(text, CodeDim)
	}
	return embeddings, nil
}

// ProseDim reports the prose embedding dimension.
func (m *MockEmbedder) ProseDim(ctx context.Context) (int, error) {
	return ProseDim, nil
}

// CodeDim reports the code embedding dimension.
func (m *MockEmbedder) CodeDim(ctx context.Context) (int, error) {
	return CodeDim, nil
}

// CallCount returns the number of times any embedding method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedProseFunc = nil
	m.EmbedCodeFunc = nil
	m.EmbedProseBatchFunc = nil
	m.EmbedCodeBatchFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	// Normalize to unit vector
	var sumSquares float32
	for _, v := range vector {
		sumSquares += v * v
	}
	norm := float32(1.0)
	if sumSquares > 0 {
		norm = float32(1.0) / float32(sumSquares)
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
