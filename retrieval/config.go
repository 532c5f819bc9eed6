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
	"fmt"
	"time"
)

// Default tuning values. They were chosen against small documentation
// corpora; callers with very large corpora will want a higher TopK and
// threshold.
const (
	DefaultTopK               = 5
	DefaultSearchMargin       = 10
	DefaultCodeSearchFloor    = 15
	DefaultFanOutWorkers      = 4
	DefaultRelevanceThreshold = 0.30
	DefaultMinContentLength   = 10
	DefaultMaxContextChars    = 12000
	DefaultMaxRetries         = 3
	DefaultRetryBaseDelay     = 500 * time.Millisecond
	DefaultBranchTimeout      = 15 * time.Second
	DefaultCacheSize          = 100

	// DefaultProseCollection and DefaultCodeCollection name the two
	// vector collections the engine searches. They must match the
	// collections the ingestion pipeline writes to.
	DefaultProseCollection = "prose_chunks"
	DefaultCodeCollection  = "code_chunks"
)

// Config holds the tuning knobs of the retrieval engine.
type Config struct {
	// TopK is the default number of results when neither the caller nor
	// the query plan recommends one.
	TopK int

	// SearchMargin is fetched on top of the top-K budget so that ranking
	// and filtering have slack to work with.
	SearchMargin int

	// CodeSearchFloor is the minimum code-collection fetch size outside
	// fan-out. Code hits score lower than prose on average, so the code
	// lookup over-fetches.
	CodeSearchFloor int

	// FanOutWorkers bounds how many search branches run concurrently.
	FanOutWorkers int

	// RelevanceThreshold is the minimum similarity a prose hit needs to
	// survive filtering. Code hits use 0.8x this value.
	RelevanceThreshold float64

	// MinContentLength drops hits whose trimmed content is shorter.
	MinContentLength int

	// MaxContextChars caps the assembled context handed to the answer
	// writer.
	MaxContextChars int

	// MaxRetries and RetryBaseDelay control per-lookup retry with
	// exponential backoff.
	MaxRetries     int
	RetryBaseDelay time.Duration

	// BranchTimeout bounds a single search branch, embedding included.
	BranchTimeout time.Duration

	// ProseCollection and CodeCollection are the vector collections to
	// search.
	ProseCollection string
	CodeCollection  string

	// CacheSize is the maximum number of cached evidence sets.
	// Zero disables the cache.
	CacheSize int
}

// DefaultConfig returns a Config populated with the default tuning values.
func DefaultConfig() *Config {
	return &Config{
		TopK:               DefaultTopK,
		SearchMargin:       DefaultSearchMargin,
		CodeSearchFloor:    DefaultCodeSearchFloor,
		FanOutWorkers:      DefaultFanOutWorkers,
		RelevanceThreshold: DefaultRelevanceThreshold,
		MinContentLength:   DefaultMinContentLength,
		MaxContextChars:    DefaultMaxContextChars,
		MaxRetries:         DefaultMaxRetries,
		RetryBaseDelay:     DefaultRetryBaseDelay,
		BranchTimeout:      DefaultBranchTimeout,
		ProseCollection:    DefaultProseCollection,
		CodeCollection:     DefaultCodeCollection,
		CacheSize:          DefaultCacheSize,
	}
}

// Validate checks that every knob is inside its legal range.
func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("%w: TopK must be positive", ErrInvalidConfig)
	}
	if c.SearchMargin < 0 {
		return fmt.Errorf("%w: SearchMargin must not be negative", ErrInvalidConfig)
	}
	if c.CodeSearchFloor < 0 {
		return fmt.Errorf("%w: CodeSearchFloor must not be negative", ErrInvalidConfig)
	}
	if c.FanOutWorkers <= 0 {
		return fmt.Errorf("%w: FanOutWorkers must be positive", ErrInvalidConfig)
	}
	if c.RelevanceThreshold <= 0 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("%w: RelevanceThreshold must be in (0, 1]", ErrInvalidConfig)
	}
	if c.MinContentLength < 0 {
		return fmt.Errorf("%w: MinContentLength must not be negative", ErrInvalidConfig)
	}
	if c.MaxContextChars <= 0 {
		return fmt.Errorf("%w: MaxContextChars must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: MaxRetries must be positive", ErrInvalidConfig)
	}
	if c.RetryBaseDelay <= 0 {
		return fmt.Errorf("%w: RetryBaseDelay must be positive", ErrInvalidConfig)
	}
	if c.BranchTimeout <= 0 {
		return fmt.Errorf("%w: BranchTimeout must be positive", ErrInvalidConfig)
	}
	if c.ProseCollection == "" || c.CodeCollection == "" {
		return fmt.Errorf("%w: collection names must not be empty", ErrInvalidConfig)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: CacheSize must not be negative", ErrInvalidConfig)
	}
	return nil
}
