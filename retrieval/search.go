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
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/vectorstore"
	"github.com/panjf2000/ants/v2"
)

// codeTermTriggers are code-flavored words that make the code collection
// worth searching when they appear as whole words in the query.
var codeTermTriggers = map[string]bool{
	"function": true, "class": true, "method": true, "import": true,
	"def": true, "async": true, "const": true, "let": true, "var": true,
	"return": true, "api": true, "endpoint": true, "code": true,
	"implementation": true, "syntax": true,
}

// codeIntentTriggers are phrasings whose answers usually benefit from a
// code snippet even without code vocabulary in the query.
var codeIntentTriggers = []string{"what is", "what are", "explain", "describe", "define"}

// searcher fans the query out over the prose and code collections,
// one branch per required topic, and merges the results in a
// deterministic discovery order.
type searcher struct {
	store    vectorstore.Store
	embedder ai.Embedder
	config   *Config
	pool     *ants.Pool
	logger   *slog.Logger
}

func newSearcher(store vectorstore.Store, embedder ai.Embedder, config *Config, pool *ants.Pool, logger *slog.Logger) *searcher {
	return &searcher{
		store:    store,
		embedder: embedder,
		config:   config,
		pool:     pool,
		logger:   logger.With("component", "searcher"),
	}
}

// searchBranch is one unit of fan-out: a query text with its own
// embedding and per-collection budgets.
type searchBranch struct {
	topic      string
	queryText  string
	proseLimit int
	codeLimit  int
	searchCode bool
}

// branchResult holds one branch's outcome. The prose and code legs fail
// independently; a failed leg leaves its slice empty.
type branchResult struct {
	prose    []vectorstore.ScoredPoint
	code     []vectorstore.ScoredPoint
	proseErr error
	codeErr  error
}

// failed reports whether the branch produced no leg at all.
func (r *branchResult) failed(searchCode bool) bool {
	if r.proseErr == nil {
		return false
	}
	return !searchCode || r.codeErr != nil
}

// Search runs the plan's search branches and returns the merged hits in
// discovery order: branches in topic order, prose before code within a
// branch, store rank within a leg. The order does not depend on which
// branch finished first.
//
// Branch failures are isolated: a branch that fails after retries
// contributes no hits. Search fails outright only when every branch
// failed completely.
func (s *searcher) Search(ctx context.Context, plan *core.QueryPlan, query core.Query, topK int, mon Monitor) ([]core.ScoredHit, error) {
	filter := vectorstore.Filter{DocId: query.DocId}
	branches := s.buildBranches(plan, query, topK)

	results := make([]branchResult, len(branches))
	var wg sync.WaitGroup
	for i := range branches {
		wg.Add(1)
		run := func() {
			defer wg.Done()
			s.runBranch(ctx, &branches[i], filter, &results[i])
		}
		if err := s.pool.Submit(run); err != nil {
			// Pool released or overloaded; run on the caller's goroutine.
			run()
		}
	}
	wg.Wait()

	hits := make([]core.ScoredHit, 0, len(branches)*(topK+s.config.SearchMargin))
	failedBranches := 0
	var firstErr error
	for i := range branches {
		b := &branches[i]
		r := &results[i]

		if r.proseErr != nil {
			mon.BranchDegraded(b.topic, r.proseErr)
			if firstErr == nil {
				firstErr = r.proseErr
			}
		}
		if r.codeErr != nil {
			mon.BranchDegraded(b.topic, r.codeErr)
			if firstErr == nil {
				firstErr = r.codeErr
			}
		}
		if r.failed(b.searchCode) {
			failedBranches++
			continue
		}

		for _, p := range r.prose {
			hits = append(hits, core.ScoredHit{Chunk: p.Chunk, Distance: p.Distance, Collection: s.config.ProseCollection})
		}
		for _, p := range r.code {
			hits = append(hits, core.ScoredHit{Chunk: p.Chunk, Distance: p.Distance, Collection: s.config.CodeCollection})
		}
		mon.BranchSearched(b.topic, len(r.prose), len(r.code))
	}

	if failedBranches == len(branches) && firstErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, firstErr)
	}
	return hits, nil
}

// buildBranches derives the fan-out shape: one branch per required topic
// when fanning out, a single branch over the enhanced query otherwise.
func (s *searcher) buildBranches(plan *core.QueryPlan, query core.Query, topK int) []searchBranch {
	searchCode := codeSearchWanted(plan, query.Text)

	if !plan.FanOut || plan.TopicCount() <= 1 {
		return []searchBranch{{
			queryText:  plan.SearchQuery,
			proseLimit: topK + s.config.SearchMargin,
			codeLimit:  max(topK+s.config.SearchMargin, s.config.CodeSearchFloor),
			searchCode: searchCode,
		}}
	}

	// Each topic gets an equal share of the budget plus the margin, so
	// a dominant topic cannot starve the others.
	budget := ceilDiv(topK, len(plan.Topics)) + s.config.SearchMargin
	branches := make([]searchBranch, 0, len(plan.Topics))
	for _, topic := range plan.Topics {
		branches = append(branches, searchBranch{
			topic:      topic,
			queryText:  topic + " " + query.Text,
			proseLimit: budget,
			codeLimit:  budget,
			searchCode: searchCode,
		})
	}
	return branches
}

// runBranch embeds the branch query in both spaces and searches each
// collection. The prose and code legs run concurrently and fail
// independently.
func (s *searcher) runBranch(ctx context.Context, b *searchBranch, filter vectorstore.Filter, result *branchResult) {
	bctx, cancel := context.WithTimeout(ctx, s.config.BranchTimeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result.prose, result.proseErr = s.runLeg(bctx, s.config.ProseCollection, b.queryText, filter, b.proseLimit, s.embedder.EmbedProse)
		if result.proseErr != nil {
			s.logger.Warn("prose search leg failed", "topic", b.topic, "error", result.proseErr)
		}
	}()

	if b.searchCode {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.code, result.codeErr = s.runLeg(bctx, s.config.CodeCollection, b.queryText, filter, b.codeLimit, s.embedder.EmbedCode)
			if result.codeErr != nil {
				s.logger.Warn("code search leg failed", "topic", b.topic, "error", result.codeErr)
			}
		}()
	}
	wg.Wait()
}

// runLeg embeds the query in one space and searches its collection, with
// retries around both calls. A missing collection is an empty result,
// not an error: nothing has been ingested into it yet.
func (s *searcher) runLeg(ctx context.Context, collection, queryText string, filter vectorstore.Filter, limit int, embed func(context.Context, string) ([]float32, error)) ([]vectorstore.ScoredPoint, error) {
	var vector []float32
	err := retryWithBackoff(ctx, s.logger, s.config.MaxRetries, s.config.RetryBaseDelay, func() error {
		v, err := embed(ctx, queryText)
		if err != nil {
			return err
		}
		vector = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding query for %s: %w", collection, err)
	}

	var points []vectorstore.ScoredPoint
	err = retryWithBackoff(ctx, s.logger, s.config.MaxRetries, s.config.RetryBaseDelay, func() error {
		p, err := s.store.Search(ctx, collection, vector, filter, limit)
		if err != nil {
			if errors.Is(err, vectorstore.ErrCollectionNotFound) {
				s.logger.Debug("collection not found, treating as empty", "collection", collection)
				points = nil
				return nil
			}
			return err
		}
		points = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", collection, err)
	}
	return points, nil
}

// codeSearchWanted decides whether the code collection is worth searching
// for this query. The predicate is deterministic: procedural query types
// always search code, and so do queries using code vocabulary or
// explanation phrasings.
func codeSearchWanted(plan *core.QueryPlan, rawQuery string) bool {
	switch plan.Type {
	case core.QueryTypeExample, core.QueryTypeHowTo, core.QueryTypeMultiStep:
		return true
	}

	lower := strings.ToLower(rawQuery)
	for _, token := range tokenize(lower) {
		if codeTermTriggers[token] {
			return true
		}
	}
	return containsAny(lower, codeIntentTriggers)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
