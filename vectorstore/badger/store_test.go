package badger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/vectorstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func makePoint(id, docId core.ID, content string, vector []float32) vectorstore.Point {
	return vectorstore.Point{
		Vector: vector,
		Chunk: core.Chunk{
			Id:      id,
			DocId:   docId,
			Kind:    core.KindProse,
			Content: content,
		},
	}
}

func TestEnsureCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 4); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	// Idempotent with the same dimension
	if err := store.EnsureCollection(ctx, "prose_chunks", 4); err != nil {
		t.Fatalf("Expected repeated ensure to succeed: %v", err)
	}

	// Different dimension is an error
	err := store.EnsureCollection(ctx, "prose_chunks", 8)
	if !errors.Is(err, vectorstore.ErrDimensionMismatch) {
		t.Fatalf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSearchUnknownCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Search(context.Background(), "missing", []float32{1, 0}, vectorstore.Filter{}, 5)
	if !errors.Is(err, vectorstore.ErrCollectionNotFound) {
		t.Fatalf("Expected ErrCollectionNotFound, got %v", err)
	}
}

func TestSearchOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 2); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	// Three points: aligned, orthogonal, and diagonal to the query
	points := []vectorstore.Point{
		makePoint(1, 100, "aligned", []float32{1, 0}),
		makePoint(2, 100, "orthogonal", []float32{0, 1}),
		makePoint(3, 100, "diagonal", []float32{1, 1}),
	}
	if err := store.Upsert(ctx, "prose_chunks", points); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.Search(ctx, "prose_chunks", []float32{1, 0}, vectorstore.Filter{}, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Chunk.Content != "aligned" {
		t.Fatalf("Expected aligned chunk first, got %q", results[0].Chunk.Content)
	}
	if results[1].Chunk.Content != "diagonal" {
		t.Fatalf("Expected diagonal chunk second, got %q", results[1].Chunk.Content)
	}
	if results[2].Chunk.Content != "orthogonal" {
		t.Fatalf("Expected orthogonal chunk last, got %q", results[2].Chunk.Content)
	}

	if math.Abs(results[0].Distance) > 1e-6 {
		t.Fatalf("Expected aligned distance ~0, got %f", results[0].Distance)
	}
	if math.Abs(results[2].Distance-1) > 1e-6 {
		t.Fatalf("Expected orthogonal distance ~1, got %f", results[2].Distance)
	}
}

func TestCosineDistanceNeverNegative(t *testing.T) {
	// Rounding in the norm product can push the distance of parallel
	// vectors a few ULP below zero; the clamp keeps it at exactly 0 so
	// similarity downstream stays within (0, 1].
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{0.7071068, 0.7071068},
		{1e-3, 2e-3, 3e-3, 4e-3},
		{3.1415927, 2.7182817, 1.4142135},
	}
	for _, v := range vectors {
		scaled := make([]float32, len(v))
		for i, x := range v {
			scaled[i] = x * 3
		}
		for _, w := range [][]float32{v, scaled} {
			d := cosineDistance(v, w)
			if d < 0 {
				t.Fatalf("Expected non-negative distance for parallel vectors, got %g", d)
			}
			if d > 1e-6 {
				t.Fatalf("Expected near-zero distance for parallel vectors, got %g", d)
			}
		}
	}
}

func TestSearchLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 2); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	points := []vectorstore.Point{
		makePoint(1, 100, "a", []float32{1, 0}),
		makePoint(2, 100, "b", []float32{0.9, 0.1}),
		makePoint(3, 100, "c", []float32{0.8, 0.2}),
	}
	if err := store.Upsert(ctx, "prose_chunks", points); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.Search(ctx, "prose_chunks", []float32{1, 0}, vectorstore.Filter{}, 2)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
}

func TestSearchDocFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 2); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	points := []vectorstore.Point{
		makePoint(1, 100, "in doc", []float32{1, 0}),
		makePoint(2, 200, "other doc", []float32{1, 0}),
	}
	if err := store.Upsert(ctx, "prose_chunks", points); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.Search(ctx, "prose_chunks", []float32{1, 0}, vectorstore.Filter{DocId: 100}, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Chunk.DocId != 100 {
		t.Fatalf("Expected doc 100, got %d", results[0].Chunk.DocId)
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 4); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	_, err := store.Search(ctx, "prose_chunks", []float32{1, 0}, vectorstore.Filter{}, 5)
	if !errors.Is(err, vectorstore.ErrDimensionMismatch) {
		t.Fatalf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestUpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 2); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	first := []vectorstore.Point{makePoint(1, 100, "original", []float32{1, 0})}
	if err := store.Upsert(ctx, "prose_chunks", first); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	second := []vectorstore.Point{makePoint(1, 100, "replaced", []float32{0, 1})}
	if err := store.Upsert(ctx, "prose_chunks", second); err != nil {
		t.Fatalf("Failed to re-upsert: %v", err)
	}

	count, err := store.Count(ctx, "prose_chunks", vectorstore.Filter{})
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 point after replace, got %d", count)
	}

	results, err := store.Search(ctx, "prose_chunks", []float32{0, 1}, vectorstore.Filter{}, 1)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if results[0].Chunk.Content != "replaced" {
		t.Fatalf("Expected replaced content, got %q", results[0].Chunk.Content)
	}
}

func TestScroll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "code_chunks", 2); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	points := []vectorstore.Point{
		makePoint(3, 100, "third", []float32{1, 0}),
		makePoint(1, 100, "first", []float32{1, 0}),
		makePoint(2, 200, "second", []float32{1, 0}),
	}
	if err := store.Upsert(ctx, "code_chunks", points); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	// Keys sort by ID, so scroll order is 1, 2, 3
	chunks, err := store.Scroll(ctx, "code_chunks", vectorstore.Filter{}, 0, 10)
	if err != nil {
		t.Fatalf("Failed to scroll: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "first" || chunks[2].Content != "third" {
		t.Fatalf("Unexpected scroll order: %q, %q, %q",
			chunks[0].Content, chunks[1].Content, chunks[2].Content)
	}

	// Offset skips matching chunks
	chunks, err = store.Scroll(ctx, "code_chunks", vectorstore.Filter{}, 1, 10)
	if err != nil {
		t.Fatalf("Failed to scroll with offset: %v", err)
	}
	if len(chunks) != 2 || chunks[0].Content != "second" {
		t.Fatalf("Expected offset scroll to start at second, got %d chunks", len(chunks))
	}

	// Filter applies before offset and limit
	chunks, err = store.Scroll(ctx, "code_chunks", vectorstore.Filter{DocId: 100}, 0, 10)
	if err != nil {
		t.Fatalf("Failed to scroll with filter: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks for doc 100, got %d", len(chunks))
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "prose_chunks", 2); err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	points := []vectorstore.Point{
		makePoint(1, 100, "keep", []float32{1, 0}),
		makePoint(2, 200, "drop", []float32{1, 0}),
		makePoint(3, 200, "drop too", []float32{0, 1}),
	}
	if err := store.Upsert(ctx, "prose_chunks", points); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	deleted, err := store.Delete(ctx, "prose_chunks", vectorstore.Filter{DocId: 200})
	if err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("Expected 2 deleted, got %d", deleted)
	}

	count, err := store.Count(ctx, "prose_chunks", vectorstore.Filter{})
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 remaining, got %d", count)
	}
}

func TestPointRoundTrip(t *testing.T) {
	point := makePoint(42, 7, "some content", []float32{0.25, -1.5, 3})
	point.Chunk.SourceFile = "guide.md"
	point.Chunk.Heading = "Getting Started"

	data := marshalPoint(&point)
	got, err := unmarshalPoint(data)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if got.Chunk != point.Chunk {
		t.Fatalf("Chunk mismatch: got %+v, want %+v", got.Chunk, point.Chunk)
	}
	if len(got.Vector) != len(point.Vector) {
		t.Fatalf("Vector length mismatch: got %d, want %d", len(got.Vector), len(point.Vector))
	}
	for i := range point.Vector {
		if got.Vector[i] != point.Vector[i] {
			t.Fatalf("Vector element %d mismatch: got %f, want %f", i, got.Vector[i], point.Vector[i])
		}
	}
}
