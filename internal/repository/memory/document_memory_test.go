package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babytracker/internal/model"
)

func TestDocumentMemory_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentMemory()

	a, err := store.Insert(ctx, "milestone", model.Document{"baby_id": "a", "title": "First Smile"})
	require.NoError(t, err)
	b, err := store.Insert(ctx, "milestone", model.Document{"baby_id": "b", "title": "First Crawl"})
	require.NoError(t, err)
	c, err := store.Insert(ctx, "milestone", model.Document{"baby_id": "a", "title": "First Steps"})
	require.NoError(t, err)

	all, err := store.Find(ctx, "milestone", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, a, all[0][model.IDField])
	assert.Equal(t, b, all[1][model.IDField])
	assert.Equal(t, c, all[2][model.IDField])

	onlyA, err := store.Find(ctx, "milestone", model.Filter{"baby_id": "a"})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	for _, doc := range onlyA {
		assert.Equal(t, "a", doc["baby_id"])
	}

	none, err := store.Find(ctx, "baby", nil)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDocumentMemory_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentMemory()

	doc := model.Document{"name": "Ava", model.IDField: "caller"}
	_, err := store.Insert(ctx, "baby", doc)
	require.NoError(t, err)
	doc["name"] = "changed"

	got, err := store.Find(ctx, "baby", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ava", got[0]["name"])
	assert.IsType(t, model.ObjectID{}, got[0][model.IDField])

	got[0]["name"] = "mutated"
	again, err := store.Find(ctx, "baby", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ava", again[0]["name"])
}

func TestDocumentMemory_ListCollectionNames(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentMemory()

	names, err := store.ListCollectionNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, _ = store.Insert(ctx, "milestone", model.Document{"title": "x"})
	_, _ = store.Insert(ctx, "baby", model.Document{"name": "y"})

	names, err = store.ListCollectionNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"baby", "milestone"}, names)
	assert.Equal(t, "memory", store.Name())
}

func TestDocumentMemory_CanceledContext(t *testing.T) {
	store := NewDocumentMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Insert(ctx, "baby", model.Document{"name": "Ava"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Ping(ctx), context.Canceled)
}

func TestDocumentMemory_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Insert(ctx, "growthrecord", model.Document{"baby_id": fmt.Sprint(i % 2)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	docs, err := store.Find(ctx, "growthrecord", model.Filter{"baby_id": "0"})
	require.NoError(t, err)
	assert.Len(t, docs, 25)
}
