// ABOUTME: Document store boundary for CRM collections
// ABOUTME: Defines Document, the Store interface, and store-level errors
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidDocument = errors.New("invalid document")
)

// Document is one record in a collection: an ID, a free-form field map, and
// server-side timestamps.
type Document struct {
	ID        string                 `json:"id"`
	Fields    map[string]interface{} `json:"fields"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Store is the persistence boundary consumed by the CRM services. Embedded
// arrays (activities, checklist, blockers) are always written as whole field
// values through Update, never patched element by element.
type Store interface {
	// Get retrieves a document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// List retrieves every document in a collection, newest first.
	List(ctx context.Context, collection string) ([]*Document, error)

	// Create stores a new document and returns its generated ID.
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)

	// Update merges fields into an existing document. Each named field is
	// replaced wholesale. Returns ErrNotFound for unknown documents.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Delete removes a document. Returns ErrNotFound for unknown documents.
	Delete(ctx context.Context, collection, id string) error

	Close() error
}
