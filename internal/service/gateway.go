package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"babytracker/internal/model"
	"babytracker/internal/repository"
)

var tracer = otel.Tracer("babytracker/internal/service")

// RecordGateway validates typed payloads and moves them in and out of the document store.
type RecordGateway interface {
	// Create validates rec, inserts it into collection and returns the store-assigned id as a string.
	// Validation failures return *ValidationError without touching the store; store failures return *StoreError.
	Create(ctx context.Context, collection string, rec model.Record) (string, error)

	// List returns every document of collection matching filter (all documents when filter is empty),
	// in store order, each with its identifier normalized into an "id" string field.
	List(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error)

	// Diagnose reports store reachability. It never fails.
	Diagnose(ctx context.Context) Diagnostics
}

// recordGateway is stateless apart from its collaborators. store may be nil when no database is configured.
type recordGateway struct {
	store         repository.DocumentStore
	urlConfigured bool
}

// NewRecordGateway constructs a RecordGateway. urlConfigured tells diagnostics whether a database URL was supplied.
func NewRecordGateway(store repository.DocumentStore, urlConfigured bool) RecordGateway {
	return &recordGateway{store: store, urlConfigured: urlConfigured}
}

func (g *recordGateway) Create(ctx context.Context, collection string, rec model.Record) (string, error) {
	ctx, span := tracer.Start(ctx, "RecordGateway.Create", trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	if err := checkRecord(collection, rec); err != nil {
		return "", failSpan(span, err)
	}
	if g.store == nil {
		return "", failSpan(span, &StoreError{Op: "insert", Err: ErrStoreUnavailable})
	}

	id, err := g.store.Insert(ctx, collection, rec.Document())
	if err != nil {
		return "", failSpan(span, &StoreError{Op: "insert", Err: err})
	}
	span.SetAttributes(attribute.String("record.id", id.Hex()))
	return id.Hex(), nil
}

func (g *recordGateway) List(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	ctx, span := tracer.Start(ctx, "RecordGateway.List", trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	if _, ok := model.LookupSchema(collection); !ok {
		return nil, failSpan(span, &ValidationError{Err: fmt.Errorf("%w: %q", ErrUnknownCollection, collection)})
	}
	if g.store == nil {
		return nil, failSpan(span, &StoreError{Op: "find", Err: ErrStoreUnavailable})
	}

	docs, err := g.store.Find(ctx, collection, filter)
	if err != nil {
		return nil, failSpan(span, &StoreError{Op: "find", Err: err})
	}

	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.NormalizeID(d))
	}
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

// checkRecord resolves the collection schema and validates rec against it.
func checkRecord(collection string, rec model.Record) error {
	if rec == nil {
		return &ValidationError{Err: ErrPayloadRequired}
	}
	if _, ok := model.LookupSchema(collection); !ok {
		return &ValidationError{Err: fmt.Errorf("%w: %q", ErrUnknownCollection, collection)}
	}
	if rec.Collection() != collection {
		return &ValidationError{Err: fmt.Errorf("%s payload cannot be stored in collection %q", rec.Collection(), collection)}
	}
	if err := rec.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
