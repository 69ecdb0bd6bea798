package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"babytracker/internal/model"
	"babytracker/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentStore.
// Every collection shares the documents table; a document is a JSONB value keyed by its object id.
type DocumentPostgres struct {
	db    *sql.DB
	name  string
	newID func() model.ObjectID
}

// NewDocumentPostgres creates a new DocumentPostgres store. name is the database name reported by diagnostics.
func NewDocumentPostgres(db *sql.DB, name string) *DocumentPostgres {
	return &DocumentPostgres{db: db, name: name, newID: model.NewObjectID}
}

var _ repository.DocumentStore = (*DocumentPostgres)(nil)

// Insert assigns a new object id and stores the document body.
func (r *DocumentPostgres) Insert(ctx context.Context, collection string, doc model.Document) (model.ObjectID, error) {
	body := make(model.Document, len(doc))
	for k, v := range doc {
		if k == model.IDField {
			continue
		}
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		return model.NilObjectID, fmt.Errorf("encode document: %w", err)
	}

	id := r.newID()
	const q = `
		INSERT INTO documents (id, collection, data)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, q, id.Hex(), collection, string(data)); err != nil {
		return model.NilObjectID, err
	}
	return id, nil
}

// Find returns the documents of a collection in insertion order.
// Equality filters are evaluated with JSONB containment.
func (r *DocumentPostgres) Find(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	match := "{}"
	if len(filter) > 0 {
		b, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		match = string(b)
	}

	const q = `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, collection, match)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var (
			rawID string
			data  []byte
		)
		if err := rows.Scan(&rawID, &data); err != nil {
			return nil, err
		}
		doc := model.Document{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", rawID, err)
		}
		id, err := model.ObjectIDFromHex(strings.TrimSpace(rawID))
		if err != nil {
			return nil, err
		}
		doc[model.IDField] = id
		items = append(items, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCollectionNames returns the distinct collections that hold documents.
func (r *DocumentPostgres) ListCollectionNames(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT collection FROM documents ORDER BY collection`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *DocumentPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *DocumentPostgres) Name() string {
	return r.name
}
