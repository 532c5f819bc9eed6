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

package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/ai/mock"
	"github.com/kejr2/RAGDocs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectQueryType(t *testing.T) {
	tests := []struct {
		query string
		want  core.QueryType
	}{
		{"what is a webhook", core.QueryTypeDefinition},
		{"how to charge a card", core.QueryTypeHowTo},
		{"example of charging a card", core.QueryTypeExample},
		{"stripe vs paypal", core.QueryTypeComparison},
		{"fix payment declined issue", core.QueryTypeTroubleshooting},
		{"create a customer and charge them", core.QueryTypeMultiStep},
		{"process refunds then notify the customer", core.QueryTypeMultiStep},
		{"pricing overview", core.QueryTypeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, detectQueryType(tt.query))
		})
	}
}

func TestDetectTopics(t *testing.T) {
	assert.Equal(t, []string{"general"}, detectTopics("pricing overview"))
	assert.Equal(t, []string{"webhooks"}, detectTopics("verify a webhook signature"))
	assert.Equal(t,
		[]string{"customer creation", "payment charging"},
		detectTopics("create a customer and charge them"))
}

func TestAnalyzeHeuristicOnly(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "What is a webhook?"})
	assert.Equal(t, "What is a webhook?", plan.SearchQuery)
	assert.Equal(t, core.QueryTypeDefinition, plan.Type)
	assert.Equal(t, []string{"webhook"}, plan.Keywords)
	assert.Equal(t, []string{"webhooks"}, plan.Topics)
	assert.Equal(t, DefaultTopK, plan.TopK)
	assert.False(t, plan.FanOut)
}

func TestAnalyzeMultiTopicForcesFanOut(t *testing.T) {
	a := NewAnalyzer(nil, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "create a customer and charge them"})
	assert.Equal(t, core.QueryTypeMultiStep, plan.Type)
	assert.True(t, plan.FanOut)
	assert.Equal(t, []string{"customer creation", "payment charging"}, plan.Topics)
	// Recommendation grows to three chunks per topic.
	assert.Equal(t, 6, plan.TopK)
}

func TestAnalyzeMergesEnhancement(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	enhancer.EnhanceFunc = func(_ context.Context, _ string) (*ai.EnhancedQuery, error) {
		return &ai.EnhancedQuery{
			EnhancedQuery:   "webhook signature verification process",
			Keywords:        []string{"webhook", "signature", "verify"},
			Concepts:        []string{"security", "webhook"},
			QueryType:       "how-to",
			RequiredTopics:  []string{"webhooks"},
			RecommendedTopK: 8,
		}, nil
	}
	a := NewAnalyzer(enhancer, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "how do I verify webhooks"})
	assert.Equal(t, core.QueryTypeHowTo, plan.Type)
	assert.Equal(t, []string{"webhook", "signature", "verify"}, plan.Keywords)
	assert.Equal(t, []string{"webhooks"}, plan.Topics)
	assert.Equal(t, 8, plan.TopK)

	// Search query widens with keywords and concepts, deduplicated.
	assert.Equal(t,
		"webhook signature verification process webhook signature verify security",
		plan.SearchQuery)
}

func TestAnalyzeRejectsUnknownQueryType(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	enhancer.EnhanceFunc = func(_ context.Context, _ string) (*ai.EnhancedQuery, error) {
		return &ai.EnhancedQuery{QueryType: "philosophical"}, nil
	}
	a := NewAnalyzer(enhancer, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "what is a webhook"})
	assert.Equal(t, core.QueryTypeDefinition, plan.Type)
}

func TestAnalyzeEnhancerFailureFallsBack(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	enhancer.EnhanceFunc = func(_ context.Context, _ string) (*ai.EnhancedQuery, error) {
		return nil, errors.New("model unavailable")
	}
	a := NewAnalyzer(enhancer, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "what is a webhook"})
	require.NotNil(t, plan)
	assert.Equal(t, "what is a webhook", plan.SearchQuery)
	assert.Equal(t, core.QueryTypeDefinition, plan.Type)
}

func TestAnalyzeEnhancerDisabledFallsBack(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	enhancer.EnhanceFunc = func(_ context.Context, _ string) (*ai.EnhancedQuery, error) {
		return nil, ai.ErrGeneratorDisabled
	}
	a := NewAnalyzer(enhancer, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "what is a webhook"})
	require.NotNil(t, plan)
	assert.Equal(t, core.QueryTypeDefinition, plan.Type)
}

func TestAnalyzeMultiQueryNeededFansOut(t *testing.T) {
	enhancer := mock.NewMockEnhancer()
	enhancer.EnhanceFunc = func(_ context.Context, query string) (*ai.EnhancedQuery, error) {
		return &ai.EnhancedQuery{
			EnhancedQuery:    query,
			QueryType:        "multi-step",
			RequiredTopics:   []string{"customer creation", "payment charging"},
			RecommendedTopK:  4,
			MultiQueryNeeded: true,
		}, nil
	}
	a := NewAnalyzer(enhancer, nil)

	plan := a.Analyze(context.Background(), core.Query{Text: "set up billing"})
	assert.True(t, plan.FanOut)
	// Four is not enough for two topics; raised to 3 per topic.
	assert.Equal(t, 6, plan.TopK)
}

func TestBuildSearchQuery(t *testing.T) {
	got := buildSearchQuery("charge a customer", []string{"charge", "customer", "payment", "extra"}, []string{"payments api"})
	assert.Equal(t, "charge a customer charge customer payment payments api", got)
}
