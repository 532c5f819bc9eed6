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

package ragdocs

import (
	"log/slog"
	"path/filepath"

	"github.com/kejr2/RAGDocs/ai"
	"github.com/kejr2/RAGDocs/ai/openai"
	"github.com/kejr2/RAGDocs/ingestion"
	"github.com/kejr2/RAGDocs/retrieval"
	"github.com/kejr2/RAGDocs/storage"
	storagebadger "github.com/kejr2/RAGDocs/storage/badger"
	"github.com/kejr2/RAGDocs/vectorstore"
	vectorbadger "github.com/kejr2/RAGDocs/vectorstore/badger"
)

// Library bundles the document catalog, the vector index and the AI
// provider behind one open/close lifecycle. It is the entry point for
// embedding the system into another program; the CLI is a thin wrapper
// around it.
type Library struct {
	backend  *storagebadger.Backend
	docRepo  storage.DocumentRepository
	store    vectorstore.Store
	provider ai.AIProvider
	options  *libraryOptions
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig        *ai.Config
	retrievalConfig *retrieval.Config
	provider        ai.AIProvider
	inMemory        bool
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithRetrievalConfig sets the retrieval engine configuration.
func WithRetrievalConfig(config *retrieval.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.retrievalConfig = config
	}
}

// WithAIProvider injects a pre-built provider instead of constructing
// one from the AI config. The library takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps both stores in memory. For tests and scratch
// sessions; nothing survives Close.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// OpenLibrary opens (or creates) a library rooted at dataDir. The
// document catalog and the vector index live in separate subdirectories
// so either can be rebuilt without the other.
func OpenLibrary(dataDir string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := storagebadger.OpenBackend(filepath.Join(dataDir, "catalog"), options.inMemory)
	if err != nil {
		return nil, err
	}

	docRepo, err := storagebadger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store, err := vectorbadger.OpenStore(filepath.Join(dataDir, "vectors"), options.inMemory)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Library{
		backend:  backend,
		docRepo:  docRepo,
		store:    store,
		provider: provider,
		options:  options,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider and both stores. The library must not be
// used afterwards.
func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if err := l.docRepo.Close(); err != nil {
		l.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := l.store.Close(); err != nil {
		l.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing catalog backend", "err", err)
		return err
	}
	return nil
}

// DocumentRepository exposes the catalog of ingested documents.
func (l *Library) DocumentRepository() storage.DocumentRepository {
	return l.docRepo
}

// VectorStore exposes the underlying vector index.
func (l *Library) VectorStore() vectorstore.Store {
	return l.store
}

// Provider exposes the AI services the library was opened with.
func (l *Library) Provider() ai.AIProvider {
	return l.provider
}

// NewIngestionPipeline creates an ingestion pipeline over the library's
// stores and embedder.
func (l *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(l.docRepo, l.store, l.provider.Embedder(), opts...)
}

// NewEngine creates a retrieval engine over the library's vector store
// and provider. The library's retrieval config, when set, applies before
// the caller's options.
func (l *Library) NewEngine(opts ...retrieval.Option) (*retrieval.Engine, error) {
	if l.options.retrievalConfig != nil {
		opts = append([]retrieval.Option{retrieval.WithConfig(l.options.retrievalConfig)}, opts...)
	}
	return retrieval.NewEngine(l.store, l.provider, opts...)
}
