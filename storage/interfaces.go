package storage

import (
	"context"

	"github.com/kejr2/RAGDocs/core"
)

// DocumentRepository tracks the catalog of ingested documents.
// Implementations must be thread-safe and support concurrent access.
//
// The catalog is bookkeeping only: chunk contents and vectors live in
// the vector store. A document's identity is derived from its filename,
// so re-ingesting a file updates its catalog entry in place.
type DocumentRepository interface {
	// UpsertDocument inserts or updates a document's catalog entry.
	// The ID is derived from the filename; an existing entry keeps its
	// InsertedAt while UpdatedAt is refreshed.
	UpsertDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// FindDocumentByFilename retrieves a document by its filename.
	// Returns ErrNotFound if no document with that filename exists.
	FindDocumentByFilename(ctx context.Context, filename string) (*core.Document, error)

	// ListDocuments returns all catalog entries ordered by filename.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocument removes a document's catalog entry.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// Close closes the storage backend and releases resources.
	Close() error
}
