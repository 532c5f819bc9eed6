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


package ingestion

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/core"
	"github.com/kejr2/RAGDocs/storage"
	"github.com/kejr2/RAGDocs/vectorstore"
	"github.com/panjf2000/ants/v2"
)

// Default collection names for the two embedding spaces.
const (
	DefaultProseCollection = "prose_chunks"
	DefaultCodeCollection  = "code_chunks"
)

// embedBatchSize caps how many chunks one embedding request carries.
const embedBatchSize = 16

// Pipeline orchestrates document ingestion: chunking, dual-space
// embedding, vector upserts, and catalog bookkeeping.
type Pipeline struct {
	docRepository   storage.DocumentRepository
	store           vectorstore.Store
	embedder        ai.Embedder
	pool            *ants.Pool
	proseCollection string
	codeCollection  string
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithCollections overrides the prose and code collection names.
func WithCollections(prose, code string) Option {
	return func(p *Pipeline) error {
		if prose != "" {
			p.proseCollection = prose
		}
		if code != "" {
			p.codeCollection = code
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	docRepository storage.DocumentRepository,
	store vectorstore.Store,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if docRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		docRepository:   docRepository,
		store:           store,
		embedder:        embedder,
		pool:            pool,
		proseCollection: DefaultProseCollection,
		codeCollection:  DefaultCodeCollection,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// EnsureCollections provisions both collections, probing the embedder
// for each space's dimensionality. Safe to call on every startup.
func (p *Pipeline) EnsureCollections(ctx context.Context) error {
	proseDim, err := p.embedder.ProseDim(ctx)
	if err != nil {
		return err
	}
	if err := p.store.EnsureCollection(ctx, p.proseCollection, proseDim); err != nil {
		return err
	}

	codeDim, err := p.embedder.CodeDim(ctx)
	if err != nil {
		return err
	}
	return p.store.EnsureCollection(ctx, p.codeCollection, codeDim)
}

// IngestFile reads a file from disk and ingests it under its base name.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*core.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Ingest(ctx, filepath.Base(path), string(content))
}

// Ingest chunks the document, embeds prose and code chunks in their
// respective spaces, replaces the document's points in both collections,
// and upserts the catalog entry. Re-ingesting a filename replaces its
// previous chunks.
func (p *Pipeline) Ingest(ctx context.Context, filename, content string) (*core.Document, error) {
	docId := core.IDFromContent([]byte(filename))

	chunks := ChunkMarkdown(filename, docId, content)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	var prose, code []core.Chunk
	for _, chunk := range chunks {
		if chunk.Kind == core.KindCode {
			code = append(code, chunk)
		} else {
			prose = append(prose, chunk)
		}
	}

	p.logger.Info("ingesting document",
		"filename", filename,
		"prose_chunks", len(prose),
		"code_chunks", len(code))

	prosePoints, err := p.embedChunks(ctx, prose, p.embedder.EmbedProseBatch)
	if err != nil {
		return nil, err
	}
	codePoints, err := p.embedChunks(ctx, code, p.embedder.EmbedCodeBatch)
	if err != nil {
		return nil, err
	}

	// Drop stale points before writing the new ones
	filter := vectorstore.Filter{DocId: docId}
	if _, err := p.store.Delete(ctx, p.proseCollection, filter); err != nil {
		return nil, err
	}
	if _, err := p.store.Delete(ctx, p.codeCollection, filter); err != nil {
		return nil, err
	}

	if err := p.store.Upsert(ctx, p.proseCollection, prosePoints); err != nil {
		return nil, err
	}
	if err := p.store.Upsert(ctx, p.codeCollection, codePoints); err != nil {
		return nil, err
	}

	return p.docRepository.UpsertDocument(ctx, &core.Document{
		Filename:    filename,
		ProseChunks: len(prose),
		CodeChunks:  len(code),
		TotalChunks: len(chunks),
	})
}

// DeleteDocument removes a document's points from both collections and
// its catalog entry.
func (p *Pipeline) DeleteDocument(ctx context.Context, docId core.ID) error {
	filter := vectorstore.Filter{DocId: docId}
	if _, err := p.store.Delete(ctx, p.proseCollection, filter); err != nil {
		return err
	}
	if _, err := p.store.Delete(ctx, p.codeCollection, filter); err != nil {
		return err
	}
	return p.docRepository.DeleteDocument(ctx, docId)
}

// embedChunks embeds chunks in batches submitted to the worker pool and
// pairs each chunk with its vector. The first batch error wins; later
// batches still run to completion.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []core.Chunk, embed func(context.Context, []string) ([][]float32, error)) ([]vectorstore.Point, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	points := make([]vectorstore.Point, len(chunks))
	for i := range chunks {
		points[i].Chunk = chunks[i]
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batchStart, batchEnd := start, end
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, batchEnd-batchStart)
			for i := batchStart; i < batchEnd; i++ {
				texts[i-batchStart] = chunks[i].Content
			}

			vectors, err := embed(ctx, texts)
			if err == nil && len(vectors) != len(texts) {
				err = ErrEmbeddingCountMismatch
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i := batchStart; i < batchEnd; i++ {
				points[i].Vector = vectors[i-batchStart]
			}
		})
		if submitErr != nil {
			wg.Done()
			return nil, submitErr
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return points, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
