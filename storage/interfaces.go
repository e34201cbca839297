package storage

import (
	"context"

	"github.com/sembox/mailseek/core"
)

// DocumentRepository stores imported email documents.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// Put stores a document, overwriting any document with the same uid.
	Put(ctx context.Context, doc *core.Document) error

	// PutBatch stores documents, skipping any whose content hash matches
	// the stored copy. Returns the number of documents actually written.
	PutBatch(ctx context.Context, docs []*core.Document) (int, error)

	// Get retrieves a document by uid.
	// Returns ErrNotFound if the document does not exist.
	Get(ctx context.Context, uid string) (*core.Document, error)

	// Delete removes a document by uid.
	// Deleting a missing document is not an error.
	Delete(ctx context.Context, uid string) error

	// All returns every stored document.
	All(ctx context.Context) ([]*core.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
