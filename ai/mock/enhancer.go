package mock

import (
	"context"
	"strings"

	"github.com/kejr2/RAGDocs/ai"
)

// MockEnhancer is a test double for ai.QueryEnhancer.
// It allows custom behavior injection via function fields.
type MockEnhancer struct {
	// EnhanceFunc is called by Enhance if set.
	// If nil, uses default deterministic behavior.
	EnhanceFunc func(ctx context.Context, query string) (*ai.EnhancedQuery, error)

	callCount int
}

// NewMockEnhancer creates a mock enhancer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockEnhancer().
func NewMockEnhancer() *MockEnhancer {
	return &MockEnhancer{}
}

// Enhance returns a minimal deterministic plan: the query itself as the
// enhanced query, its whitespace-split words as keywords, and the
// "general" type. Tests inject EnhanceFunc for anything richer.
func (m *MockEnhancer) Enhance(ctx context.Context, query string) (*ai.EnhancedQuery, error) {
	m.callCount++

	if m.EnhanceFunc != nil {
		return m.EnhanceFunc(ctx, query)
	}

	return &ai.EnhancedQuery{
		EnhancedQuery: query,
		Keywords:      strings.Fields(strings.ToLower(query)),
		QueryType:     "general",
	}, nil
}

// CallCount returns the number of times Enhance was called.
func (m *MockEnhancer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEnhancer) Reset() {
	m.callCount = 0
	m.EnhanceFunc = nil
}
