// Package documents declares the repository contract for the per-user synced
// document store. Characters, presets, and the settings singleton all live in
// one table keyed by (user, collection, id); payloads are opaque JSON.
package documents

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/charkeeper/internal/server/models"
)

type Repository interface {
	// Upsert inserts the document or replaces it if the (collection, id) pair
	// already exists for the user.
	Upsert(ctx context.Context, userID, collection, id string, doc json.RawMessage) error

	// Get returns a single document, or a not-found error when absent.
	Get(ctx context.Context, userID, collection, id string) (*models.Document, error)

	// ListByCollection returns every document the user has in collection,
	// ordered by id for stable output.
	ListByCollection(ctx context.Context, userID, collection string) ([]*models.Document, error)

	// Delete removes a document. Deleting a non-existent document is not an error.
	Delete(ctx context.Context, userID, collection, id string) error
}
