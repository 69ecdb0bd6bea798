package repository

import (
	"context"

	"babytracker/internal/model"
)

// DocumentStore is the schemaless document store behind the record gateway.
// Implementations own their concurrency control; callers hold no locks.
type DocumentStore interface {
	// Insert stores doc in collection and returns the identifier the store assigned to it.
	// Any IDField already present in doc is ignored.
	Insert(ctx context.Context, collection string, doc model.Document) (model.ObjectID, error)

	// Find returns every document of collection matching filter, in store order.
	// Each returned document carries its identifier under model.IDField.
	Find(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error)

	// ListCollectionNames returns the names of collections holding at least one document.
	ListCollectionNames(ctx context.Context) ([]string, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Name is the database name reported by diagnostics.
	Name() string
}
