package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"babytracker/internal/model"
	repoMocks "babytracker/internal/repository/mocks"
	"babytracker/internal/storage"
	storeMocks "babytracker/internal/storage/mocks"
)

func TestExportService_Export(t *testing.T) {
	ctx := context.Background()
	oid := model.NewObjectID()
	fixedNow := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	keyPrefix := "exports/growthrecord/20240301T083000Z-"

	newService := func(mRepo *repoMocks.MockDocumentStore, mStore *storeMocks.MockStorage) *exportService {
		svc := NewExportService(NewRecordGateway(mRepo, true), mStore, 15*time.Minute).(*exportService)
		svc.now = func() time.Time { return fixedNow }
		return svc
	}
	isExportKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, ".json")
	})

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentStore)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("Find", mock.Anything, "growthrecord", model.Filter(nil)).
			Return([]model.Document{{model.IDField: oid, "baby_id": "abc123", "weight_kg": 3.4}}, nil)

		var uploaded []byte
		mStore.On("Put", ctx, isExportKey, mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "application/json" && opt.Metadata["record-count"] == "1" &&
				opt.ContentDisposition == `attachment; filename="growthrecord-20240301T083000Z.json"`
		})).Return(func(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			uploaded, _ = io.ReadAll(r)
			return storage.ObjectInfo{Key: key, Size: opt.Size}
		}, nil)
		mStore.On("PresignGet", ctx, isExportKey, 15*time.Minute).Return("https://minio.local/signed", nil)

		res, err := newService(mRepo, mStore).Export(ctx, model.CollectionGrowthRecord)

		require.NoError(t, err)
		assert.Equal(t, "growthrecord", res.Collection)
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, "https://minio.local/signed", res.URL)
		assert.Equal(t, int64(len(uploaded)), res.Size)
		assert.Equal(t, fixedNow.Add(15*time.Minute), res.ExpiresAt)
		assert.True(t, strings.HasPrefix(res.Key, keyPrefix))

		var docs []map[string]any
		require.NoError(t, json.Unmarshal(uploaded, &docs))
		require.Len(t, docs, 1)
		assert.Equal(t, oid.Hex(), docs[0]["id"])

		mRepo.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("unknown collection", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		_, err := newService(new(repoMocks.MockDocumentStore), mStore).Export(ctx, "diaper")

		assert.True(t, IsValidation(err))
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentStore)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("Find", mock.Anything, "baby", model.Filter(nil)).Return([]model.Document{}, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("bucket missing"))

		_, err := newService(mRepo, mStore).Export(ctx, model.CollectionBaby)

		assert.True(t, IsStore(err))
		assert.EqualError(t, err, "upload to storage: bucket missing")
	})

	t.Run("presign error rolls back", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentStore)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("Find", mock.Anything, "baby", model.Filter(nil)).Return([]model.Document{}, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		mStore.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("", errors.New("clock skew"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := newService(mRepo, mStore).Export(ctx, model.CollectionBaby)

		assert.EqualError(t, err, "presign failed: clock skew")
		mStore.AssertExpectations(t)
	})

	t.Run("presign and rollback errors", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentStore)
		mStore := new(storeMocks.MockStorage)
		mRepo.On("Find", mock.Anything, "baby", model.Filter(nil)).Return([]model.Document{}, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		mStore.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("", errors.New("clock skew"))
		mStore.On("Delete", ctx, mock.Anything).Return(errors.New("access denied"))

		_, err := newService(mRepo, mStore).Export(ctx, model.CollectionBaby)

		assert.ErrorContains(t, err, "rollback delete failed: access denied")
	})
}
