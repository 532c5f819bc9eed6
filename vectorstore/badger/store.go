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


package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/vectorstore"
)

// Store is an embedded vector index backed by BadgerDB. Collections are
// key ranges; search is an exact cosine-distance sweep over the
// collection's points. That holds up well into the tens of thousands of
// chunks typical for a documentation corpus.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a vector store at the specified path.
// Creates the directory if it doesn't exist. With inMemory set, the
// path is ignored and nothing is persisted.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "vectorstore"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx executes a function within a BadgerDB transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// EnsureCollection creates the collection if it does not exist. Existing
// collections are checked against dim: a match is a no-op, a mismatch is
// an error rather than a silent re-provision.
func (s *Store) EnsureCollection(ctx context.Context, name string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("collection %s: invalid dimension %d", name, dim)
	}

	return s.withTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(name)

		item, err := tx.Get(key)
		if err == nil {
			var existing int
			err = item.Value(func(val []byte) error {
				existing, err = unmarshalDim(val)
				return err
			})
			if err != nil {
				return err
			}
			if existing != dim {
				return fmt.Errorf("collection %s has dimension %d, want %d: %w",
					name, existing, dim, vectorstore.ErrDimensionMismatch)
			}
			s.logger.Debug("collection exists", "collection", name, "dim", dim)
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		s.logger.Info("creating collection", "collection", name, "dim", dim)
		return tx.Set(key, marshalDim(dim))
	}, true)
}

// collectionDim reads a collection's dimension within a transaction.
func (s *Store) collectionDim(tx *badger.Txn, name string) (int, error) {
	item, err := tx.Get(makeCollectionKey(name))
	if err == badger.ErrKeyNotFound {
		return 0, fmt.Errorf("collection %s: %w", name, vectorstore.ErrCollectionNotFound)
	}
	if err != nil {
		return 0, err
	}
	var dim int
	err = item.Value(func(val []byte) error {
		dim, err = unmarshalDim(val)
		return err
	})
	return dim, err
}

// Upsert inserts or replaces points by chunk ID.
func (s *Store) Upsert(ctx context.Context, collection string, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	return s.withTx(func(tx *badger.Txn) error {
		dim, err := s.collectionDim(tx, collection)
		if err != nil {
			return err
		}

		for i := range points {
			p := &points[i]
			if len(p.Vector) == 0 {
				return fmt.Errorf("point %s: %w", p.Chunk.Id, vectorstore.ErrEmptyVector)
			}
			if len(p.Vector) != dim {
				return fmt.Errorf("point %s has dimension %d, collection %s wants %d: %w",
					p.Chunk.Id, len(p.Vector), collection, dim, vectorstore.ErrDimensionMismatch)
			}
			if err := tx.Set(makePointKey(collection, p.Chunk.Id), marshalPoint(p)); err != nil {
				return err
			}
		}

		s.logger.Debug("upserted points", "collection", collection, "count", len(points))
		return nil
	}, true)
}

// Search returns up to limit points nearest to vector, ordered by
// ascending cosine distance. Equal distances keep their scan order, so
// results are stable across calls.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, filter vectorstore.Filter, limit int) ([]vectorstore.ScoredPoint, error) {
	if len(vector) == 0 {
		return nil, vectorstore.ErrEmptyVector
	}
	if limit <= 0 {
		return nil, nil
	}

	var results []vectorstore.ScoredPoint

	err := s.withTx(func(tx *badger.Txn) error {
		dim, err := s.collectionDim(tx, collection)
		if err != nil {
			return err
		}
		if len(vector) != dim {
			return fmt.Errorf("query vector has dimension %d, collection %s wants %d: %w",
				len(vector), collection, dim, vectorstore.ErrDimensionMismatch)
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePointScanPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var point *vectorstore.Point
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = unmarshalPoint(val)
				return err
			})
			if err != nil {
				return err
			}

			if !filter.Matches(&point.Chunk) {
				continue
			}

			results = append(results, vectorstore.ScoredPoint{
				Chunk:    point.Chunk,
				Distance: cosineDistance(vector, point.Vector),
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by distance ascending, stable so ties keep scan order
	slices.SortStableFunc(results, func(a, b vectorstore.ScoredPoint) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Scroll lists stored chunks in stable ID order, skipping offset
// matching chunks first.
func (s *Store) Scroll(ctx context.Context, collection string, filter vectorstore.Filter, offset, limit int) ([]core.Chunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	var chunks []core.Chunk

	err := s.withTx(func(tx *badger.Txn) error {
		if _, err := s.collectionDim(tx, collection); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePointScanPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		skipped := 0
		for iter.Rewind(); iter.Valid() && len(chunks) < limit; iter.Next() {
			var point *vectorstore.Point
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = unmarshalPoint(val)
				return err
			})
			if err != nil {
				return err
			}

			if !filter.Matches(&point.Chunk) {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}

			chunks = append(chunks, point.Chunk)
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// Count reports how many stored points pass the filter.
func (s *Store) Count(ctx context.Context, collection string, filter vectorstore.Filter) (int, error) {
	count := 0

	err := s.withTx(func(tx *badger.Txn) error {
		if _, err := s.collectionDim(tx, collection); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePointScanPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var point *vectorstore.Point
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = unmarshalPoint(val)
				return err
			})
			if err != nil {
				return err
			}
			if filter.Matches(&point.Chunk) {
				count++
			}
		}

		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes every point passing the filter and reports how many
// were removed.
func (s *Store) Delete(ctx context.Context, collection string, filter vectorstore.Filter) (int, error) {
	deleted := 0

	err := s.withTx(func(tx *badger.Txn) error {
		if _, err := s.collectionDim(tx, collection); err != nil {
			return err
		}

		// Collect matching keys first; deleting under an open iterator
		// invalidates it.
		var keys [][]byte

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePointScanPrefix(collection)
		iter := tx.NewIterator(opts)

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			var point *vectorstore.Point
			err := item.Value(func(val []byte) error {
				var err error
				point, err = unmarshalPoint(val)
				return err
			})
			if err != nil {
				iter.Close()
				return err
			}
			if filter.Matches(&point.Chunk) {
				keys = append(keys, item.KeyCopy(nil))
			}
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		deleted = len(keys)

		s.logger.Debug("deleted points", "collection", collection, "count", deleted)
		return nil
	}, true)

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// cosineDistance computes 1 - cosine similarity. Identical directions
// give 0; orthogonal vectors give 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	// Float rounding can push parallel vectors a hair below zero.
	return math.Max(0, 1-dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
