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
	"log/slog"
	"strings"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/core"
)

// actionVerbs mark operations a query asks to perform. More than one of
// them, or an explicit conjunction, classifies the query as multi-step.
var actionVerbs = []string{"create", "make", "add", "charge", "process", "handle", "include"}

var multiStepConjunctions = []string{" and ", " then ", " also ", " plus "}

// typeIndicators is checked in order; the first type with a matching
// indicator wins.
var typeIndicators = []struct {
	Type       core.QueryType
	Indicators []string
}{
	{core.QueryTypeDefinition, []string{"what is", "what are", "define", "definition", "explain"}},
	{core.QueryTypeHowTo, []string{"how to", "how do", "how can", "steps", "tutorial"}},
	{core.QueryTypeExample, []string{"example", "sample", "code", "snippet"}},
	{core.QueryTypeComparison, []string{"compare", "difference", "vs", "versus"}},
	{core.QueryTypeTroubleshooting, []string{"error", "fix", "issue", "problem", "troubleshoot"}},
}

// topicGroups map recognizable sub-topic labels to their indicator terms.
// A query mentioning indicators from more than one group is answered by
// fanning out one search per matched group.
var topicGroups = []struct {
	Label      string
	Indicators []string
}{
	{"customer creation", []string{"customer", "create customer", "new customer"}},
	{"payment charging", []string{"payment", "charge", "charge them", "pay", "amount", "$"}},
	{"error handling", []string{"error", "error handling", "try", "catch", "exception"}},
	{"subscription", []string{"subscription", "subscribe", "recurring"}},
	{"webhooks", []string{"webhook", "webhooks", "event", "callback"}},
}

// Analyzer turns a raw query into a QueryPlan. It always computes a
// deterministic heuristic plan, then lets the enhancement service refine
// it field by field; when the service fails or is disabled the heuristic
// plan is used as-is.
type Analyzer struct {
	enhancer ai.QueryEnhancer
	logger   *slog.Logger
}

// NewAnalyzer creates a query analyzer. enhancer may be nil, in which
// case only the heuristic plan is produced.
func NewAnalyzer(enhancer ai.QueryEnhancer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		enhancer: enhancer,
		logger:   logger.With("component", "analyzer"),
	}
}

// Analyze derives the query plan for one request. It never fails: any
// enhancement error falls back to the heuristic plan.
func (a *Analyzer) Analyze(ctx context.Context, query core.Query) *core.QueryPlan {
	plan := a.heuristicPlan(query.Text)

	if a.enhancer != nil {
		enhanced, err := a.enhancer.Enhance(ctx, query.Text)
		switch {
		case errors.Is(err, ai.ErrGeneratorDisabled):
			// Heuristic-only mode, nothing to log per request.
		case err != nil:
			a.logger.Warn("query enhancement failed, using heuristic plan", "error", err)
		default:
			a.merge(plan, enhanced)
		}
	}

	// More than one required topic always fans out, whatever the
	// enhancer said, and the recommendation grows to cover every topic.
	if len(plan.Topics) > 1 {
		plan.FanOut = true
		if plan.TopK < 3*len(plan.Topics) {
			plan.TopK = 3 * len(plan.Topics)
		}
	}

	return plan
}

// heuristicPlan derives a plan from the query text alone.
func (a *Analyzer) heuristicPlan(text string) *core.QueryPlan {
	lower := strings.ToLower(text)
	return &core.QueryPlan{
		SearchQuery: text,
		Keywords:    extractKeywords(text),
		Topics:      detectTopics(lower),
		Type:        detectQueryType(lower),
		TopK:        DefaultTopK,
	}
}

// merge backfills the heuristic plan with the enhancer's output,
// field by field: each field is taken from the service only when it is
// present and valid.
func (a *Analyzer) merge(plan *core.QueryPlan, enhanced *ai.EnhancedQuery) {
	base := plan.SearchQuery
	if strings.TrimSpace(enhanced.EnhancedQuery) != "" {
		base = strings.TrimSpace(enhanced.EnhancedQuery)
	}
	plan.SearchQuery = buildSearchQuery(base, enhanced.Keywords, enhanced.Concepts)

	if len(enhanced.Keywords) > 0 {
		keywords := dedupTerms(enhanced.Keywords)
		if len(keywords) > maxKeywords {
			keywords = keywords[:maxKeywords]
		}
		plan.Keywords = keywords
	}

	if qt, err := core.ParseQueryType(enhanced.QueryType); err == nil {
		plan.Type = qt
	} else if enhanced.QueryType != "" {
		a.logger.Debug("enhancer returned unknown query type", "queryType", enhanced.QueryType)
	}

	if topics := dedupTerms(enhanced.RequiredTopics); len(topics) > 0 {
		plan.Topics = topics
	}

	if enhanced.RecommendedTopK >= 1 && enhanced.RecommendedTopK <= 20 {
		plan.TopK = enhanced.RecommendedTopK
	}

	plan.FanOut = enhanced.MultiQueryNeeded
}

// buildSearchQuery widens the embedding query with the top keywords and
// concepts, deduplicated and in stable order.
func buildSearchQuery(base string, keywords, concepts []string) string {
	parts := []string{base}
	parts = append(parts, topN(keywords, 3)...)
	parts = append(parts, topN(concepts, 3)...)

	seen := make(map[string]bool)
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		if part == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		kept = append(kept, part)
	}
	return strings.Join(kept, " ")
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// detectQueryType classifies a lowercased query. Multi-step wins over the
// indicator tables: a query performing several actions needs procedural
// context regardless of its phrasing.
func detectQueryType(lower string) core.QueryType {
	verbs := 0
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			verbs++
		}
	}
	if verbs > 1 || containsAny(lower, multiStepConjunctions) {
		return core.QueryTypeMultiStep
	}

	for _, entry := range typeIndicators {
		if containsAny(lower, entry.Indicators) {
			return entry.Type
		}
	}
	return core.QueryTypeGeneral
}

// detectTopics returns the matched topic-group labels in table order,
// or ["general"] when no group matches.
func detectTopics(lower string) []string {
	topics := make([]string, 0, 2)
	for _, group := range topicGroups {
		if containsAny(lower, group.Indicators) {
			topics = append(topics, group.Label)
		}
	}
	if len(topics) == 0 {
		return []string{"general"}
	}
	return topics
}
