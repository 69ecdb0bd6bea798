package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"babytracker/internal/model"
	"babytracker/internal/repository"
)

type entry struct {
	id  model.ObjectID
	doc model.Document
}

// DocumentMemory keeps every collection in memory. Data is lost on restart.
// Safe for concurrent use.
type DocumentMemory struct {
	mu          sync.RWMutex
	collections map[string][]entry
}

func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{collections: make(map[string][]entry)}
}

var _ repository.DocumentStore = (*DocumentMemory)(nil)

// deepCopy round-trips a document through JSON so stored values match what a real store would return.
func deepCopy(src model.Document) (model.Document, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	dst := model.Document{}
	if err := json.Unmarshal(b, &dst); err != nil {
		return nil, err
	}
	return dst, nil
}

func (m *DocumentMemory) Insert(ctx context.Context, collection string, doc model.Document) (model.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return model.NilObjectID, err
	}
	body := make(model.Document, len(doc))
	for k, v := range doc {
		if k != model.IDField {
			body[k] = v
		}
	}
	stored, err := deepCopy(body)
	if err != nil {
		return model.NilObjectID, fmt.Errorf("encode document: %w", err)
	}

	id := model.NewObjectID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], entry{id: id, doc: stored})
	return id, nil
}

func (m *DocumentMemory) Find(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]model.Document, 0)
	for _, e := range m.collections[collection] {
		if !filter.Matches(e.doc) {
			continue
		}
		doc, err := deepCopy(e.doc)
		if err != nil {
			return nil, err
		}
		doc[model.IDField] = e.id
		items = append(items, doc)
	}
	return items, nil
}

func (m *DocumentMemory) ListCollectionNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name, docs := range m.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *DocumentMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *DocumentMemory) Name() string {
	return "memory"
}
