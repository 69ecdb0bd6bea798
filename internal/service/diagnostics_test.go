package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	repoMocks "babytracker/internal/repository/mocks"
)

func TestRecordGateway_Diagnose(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		d := NewRecordGateway(nil, false).Diagnose(ctx)

		assert.Equal(t, BackendRunning, d.Backend)
		assert.Equal(t, DatabaseNotAvailable, d.Database)
		assert.Equal(t, ConnectionNotConnected, d.ConnectionStatus)
		assert.Nil(t, d.DatabaseURL)
		assert.Nil(t, d.DatabaseName)
		assert.NotNil(t, d.Collections)
		assert.Empty(t, d.Collections)
	})

	t.Run("fully working caps collections", func(t *testing.T) {
		mStore := new(repoMocks.MockDocumentStore)
		names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
		mStore.On("Name").Return("babytracker")
		mStore.On("Ping", mock.Anything).Return(nil)
		mStore.On("ListCollectionNames", mock.Anything).Return(names, nil)

		d := NewRecordGateway(mStore, true).Diagnose(ctx)

		assert.Equal(t, DatabaseWorking, d.Database)
		assert.Equal(t, ConnectionConnected, d.ConnectionStatus)
		require.NotNil(t, d.DatabaseURL)
		assert.Equal(t, URLSet, *d.DatabaseURL)
		require.NotNil(t, d.DatabaseName)
		assert.Equal(t, "babytracker", *d.DatabaseName)
		assert.Equal(t, names[:10], d.Collections)
		mStore.AssertExpectations(t)
	})

	t.Run("ping error is truncated", func(t *testing.T) {
		mStore := new(repoMocks.MockDocumentStore)
		long := strings.Repeat("x", 80)
		mStore.On("Name").Return("babytracker")
		mStore.On("Ping", mock.Anything).Return(errors.New(long))

		d := NewRecordGateway(mStore, false).Diagnose(ctx)

		assert.Equal(t, DatabaseErrorPrefix+strings.Repeat("x", 50), d.Database)
		assert.Equal(t, ConnectionConnected, d.ConnectionStatus)
		assert.Equal(t, URLNotSet, *d.DatabaseURL)
		mStore.AssertNotCalled(t, "ListCollectionNames", mock.Anything)
	})

	t.Run("listing error", func(t *testing.T) {
		mStore := new(repoMocks.MockDocumentStore)
		mStore.On("Name").Return("babytracker")
		mStore.On("Ping", mock.Anything).Return(nil)
		mStore.On("ListCollectionNames", mock.Anything).Return(nil, errors.New("permission denied"))

		d := NewRecordGateway(mStore, true).Diagnose(ctx)

		assert.Equal(t, DatabaseErrorPrefix+"permission denied", d.Database)
		assert.Empty(t, d.Collections)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "héé", truncate("hééllo", 3))
}
