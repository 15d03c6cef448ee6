// Package store persists generated layouts for later retrieval.
//
// The API server saves every successful layout under a generated ID so
// clients can fetch it again (GET /layouts/{id}) without regenerating.
// Two backends are provided: an in-memory store for development and tests,
// and a MongoDB store for deployments.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/roomforge/pkg/layout"
)

// ErrNotFound is returned when no layout exists under the given ID.
var ErrNotFound = errors.New("layout not found")

// Store persists layouts keyed by ID.
type Store interface {
	// Save stores the layout and returns its ID. A layout without an ID is
	// assigned a fresh one; a layout with an ID is upserted.
	Save(ctx context.Context, l layout.Layout) (string, error)

	// Get retrieves a layout by ID. Returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (layout.Layout, error)

	// List returns the IDs of all stored layouts.
	List(ctx context.Context) ([]string, error)

	// Delete removes a layout. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
