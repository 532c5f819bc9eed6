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


package vectorstore

import (
	"context"

	"github.com/kejr2/RAGDocs/core"
)

// Point is a stored vector together with its chunk payload.
type Point struct {
	Vector []float32
	Chunk  core.Chunk
}

// ScoredPoint is a search hit: the chunk payload and its raw distance
// from the query vector. Lower distance means closer.
type ScoredPoint struct {
	Chunk    core.Chunk
	Distance float64
}

// Filter restricts a search or scroll to a subset of points.
// The zero value matches everything.
type Filter struct {
	// DocId, when non-zero, restricts results to chunks of one document.
	DocId core.ID
}

// Matches reports whether the chunk passes the filter.
func (f Filter) Matches(c *core.Chunk) bool {
	return f.DocId == 0 || f.DocId == c.DocId
}

// Store is a named-collection vector index. Each collection holds points
// of a fixed dimensionality and is searched independently.
//
// Implementations must be safe for concurrent use: the retrieval engine
// issues Search calls from multiple goroutines at once.
type Store interface {
	// EnsureCollection creates the collection if it does not exist.
	// Calling it for an existing collection with the same dimension is a
	// no-op; a different dimension is an error. Safe to call on every
	// startup.
	EnsureCollection(ctx context.Context, name string, dim int) error

	// Upsert inserts or replaces points by chunk ID.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to limit points nearest to vector, ordered by
	// ascending distance. Points failing the filter are not counted
	// against the limit.
	Search(ctx context.Context, collection string, vector []float32, filter Filter, limit int) ([]ScoredPoint, error)

	// Scroll lists stored chunks in stable ID order, skipping offset
	// matches first. Used for chunk inspection, not retrieval.
	Scroll(ctx context.Context, collection string, filter Filter, offset, limit int) ([]core.Chunk, error)

	// Count reports how many stored points pass the filter.
	Count(ctx context.Context, collection string, filter Filter) (int, error)

	// Delete removes every point passing the filter and reports how many
	// were removed.
	Delete(ctx context.Context, collection string, filter Filter) (int, error)

	// Close releases resources held by the store.
	Close() error
}
