package model

import (
	"fmt"
	"reflect"
)

// Document is a schemaless record as held by the document store.
// The store keeps its identifier under IDField; outbound documents carry it as PublicIDField.
type Document map[string]any

// Filter holds equality constraints matched against top-level document fields.
// A nil or empty filter matches every document.
type Filter map[string]any

const (
	// IDField is the field name the store uses for its own identifier.
	IDField = "_id"
	// PublicIDField is the field name exposed to API callers.
	PublicIDField = "id"
)

// NormalizeID moves the store identifier from IDField into a string PublicIDField.
// Documents without an identifier (and nil documents) are returned unchanged, so applying it twice is safe.
func NormalizeID(doc Document) Document {
	if doc == nil {
		return doc
	}
	raw, ok := doc[IDField]
	if !ok || raw == nil {
		return doc
	}

	out := make(Document, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	out[PublicIDField] = idString(raw)
	return out
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

// Matches reports whether every constraint in f equals the corresponding document field.
func (f Filter) Matches(doc Document) bool {
	for k, want := range f {
		got, ok := doc[k]
		if !ok || !equalValues(got, want) {
			return false
		}
	}
	return true
}

// equalValues compares decoded JSON values; numbers compare by value regardless of Go type.
func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
