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

	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/vectorstore"
	"github.com/panjf2000/ants/v2"
)

// insufficientEvidenceGuidance is returned in place of an answer when no
// hit survives relevance filtering. It is an outcome, not an error.
const insufficientEvidenceGuidance = "No relevant documentation was found for this question. " +
	"Try rephrasing it, or ingest the documents that cover it."

// Answer is the result of a full question-answering request.
type Answer struct {
	// Text is the answer body: model-generated when a generation
	// service is available, formatted evidence otherwise.
	Text string

	// Evidence is the retrieval result the answer is grounded in.
	Evidence *core.EvidenceSet

	// Generated is true when Text came from the generation service.
	Generated bool
}

// Engine runs the retrieval pipeline: query analysis, concurrent
// collection fan-out, deterministic ranking, relevance filtering and
// context assembly. Safe for concurrent use.
type Engine struct {
	store     vectorstore.Store
	embedder  ai.Embedder
	generator ai.AnswerGenerator
	analyzer  *Analyzer
	searcher  *searcher
	ranker    *ranker
	selector  *selector
	assembler *assembler
	cache     *queryCache
	pool      *ants.Pool
	config    *Config
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithConfig replaces the default config.
func WithConfig(config *Config) Option {
	return func(e *Engine) error {
		if config == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		if err := config.Validate(); err != nil {
			return err
		}
		e.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor installs a pipeline monitor for every request.
func WithMonitor(monitor Monitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// NewEngine creates a retrieval engine over the vector store and AI
// provider. The caller keeps ownership of both and closes them after
// Release.
func NewEngine(store vectorstore.Store, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		store:     store,
		embedder:  provider.Embedder(),
		generator: provider.Generator(),
		config:    DefaultConfig(),
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(e.config.FanOutWorkers)
	if err != nil {
		return nil, fmt.Errorf("creating fan-out pool: %w", err)
	}
	e.pool = pool

	logger := e.logger.With("component", "retrieval")
	e.analyzer = NewAnalyzer(provider.Enhancer(), e.logger)
	e.searcher = newSearcher(store, e.embedder, e.config, pool, logger)
	e.ranker = newRanker(e.config)
	e.selector = newSelector(e.config)
	e.assembler = newAssembler(e.config)
	if e.config.CacheSize > 0 {
		e.cache = newQueryCache(e.config.CacheSize)
	}
	e.logger = logger

	return e, nil
}

// EnsureCollections provisions the prose and code collections with the
// embedder's dimensions. Idempotent; call on startup and before
// ingestion-free query sessions alike.
func (e *Engine) EnsureCollections(ctx context.Context) error {
	proseDim, err := e.embedder.ProseDim(ctx)
	if err != nil {
		return fmt.Errorf("probing prose dimension: %w", err)
	}
	codeDim, err := e.embedder.CodeDim(ctx)
	if err != nil {
		return fmt.Errorf("probing code dimension: %w", err)
	}

	if err := e.store.EnsureCollection(ctx, e.config.ProseCollection, proseDim); err != nil {
		return fmt.Errorf("ensuring collection %s: %w", e.config.ProseCollection, err)
	}
	if err := e.store.EnsureCollection(ctx, e.config.CodeCollection, codeDim); err != nil {
		return fmt.Errorf("ensuring collection %s: %w", e.config.CodeCollection, err)
	}
	return nil
}

// Plan exposes the analyzer's plan for a query. Used by diagnostic
// tooling; Retrieve derives its own plan.
func (e *Engine) Plan(ctx context.Context, query core.Query) (*core.QueryPlan, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, ErrEmptyQuery
	}
	return e.analyzer.Analyze(ctx, query), nil
}

// Retrieve runs the full pipeline for a query and returns its evidence
// set. An empty result is not an error: the evidence set comes back with
// Insufficient set and user-facing guidance.
func (e *Engine) Retrieve(ctx context.Context, query core.Query) (*core.EvidenceSet, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, ErrEmptyQuery
	}
	e.monitor.Start(query.Text)

	key := cacheKey(query)
	if e.cache != nil {
		if evidence, ok := e.cache.Get(key); ok {
			e.monitor.CacheHit(query.Text)
			e.monitor.Finish(evidence)
			return evidence, nil
		}
	}

	plan := e.analyzer.Analyze(ctx, query)
	e.monitor.PlanReady(plan)

	topK := e.effectiveTopK(query, plan)
	hits, err := e.searcher.Search(ctx, plan, query, topK, e.monitor)
	if err != nil {
		return nil, err
	}

	ranked := e.ranker.Rank(hits, plan, query.Text, topK)
	e.monitor.AfterRank(ranked)

	selected := e.selector.Select(ranked, plan, query.Text)
	e.monitor.AfterSelect(selected)

	evidence := &core.EvidenceSet{Hits: selected}
	if len(selected) == 0 {
		evidence.Insufficient = true
		evidence.Guidance = insufficientEvidenceGuidance
	} else {
		evidence.Context = e.assembler.Assemble(selected, plan)
	}

	if e.cache != nil {
		e.cache.Put(key, evidence)
	}
	e.monitor.Finish(evidence)
	return evidence, nil
}

// Ask retrieves evidence for the query and writes an answer from it.
// When the generation service is unavailable the evidence is formatted
// directly; when the evidence is insufficient the guidance message is
// the answer.
func (e *Engine) Ask(ctx context.Context, query core.Query) (*Answer, error) {
	evidence, err := e.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	if evidence.Insufficient {
		return &Answer{Text: evidence.Guidance, Evidence: evidence}, nil
	}

	text, err := e.generator.GenerateAnswer(ctx, query.Text, evidence.Context)
	if err != nil {
		if !errors.Is(err, ai.ErrGeneratorDisabled) {
			e.logger.Warn("answer generation failed, formatting evidence directly", "error", err)
		}
		return &Answer{Text: FormatBasicAnswer(evidence.Hits), Evidence: evidence}, nil
	}
	return &Answer{Text: text, Evidence: evidence, Generated: true}, nil
}

// Stats returns the engine's aggregate counters when the installed
// monitor collects them.
func (e *Engine) Stats() (Stats, bool) {
	if m, ok := e.monitor.(*StatsMonitor); ok {
		return m.Snapshot(), true
	}
	return Stats{}, false
}

// Release frees the fan-out worker pool. The engine must not be used
// afterwards. The store and provider are the caller's to close.
func (e *Engine) Release() {
	e.pool.Release()
}

// effectiveTopK is the caller's explicit TopK when given, the plan's
// recommendation otherwise.
func (e *Engine) effectiveTopK(query core.Query, plan *core.QueryPlan) int {
	if query.TopK > 0 {
		return query.TopK
	}
	if plan.TopK > 0 {
		return plan.TopK
	}
	return e.config.TopK
}
