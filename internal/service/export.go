package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"babytracker/internal/storage"
)

// ExportResult describes a collection snapshot written to object storage.
type ExportResult struct {
	Key        string    `json:"key"`
	Collection string    `json:"collection"`
	Count      int       `json:"count"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ExportService writes collection snapshots to object storage.
type ExportService interface {
	// Export stores every document of collection as a JSON array and returns a presigned download URL.
	Export(ctx context.Context, collection string) (*ExportResult, error)
}

type exportService struct {
	records RecordGateway
	store   storage.Storage
	expiry  time.Duration
	now     func() time.Time
}

// NewExportService constructs an ExportService. expiry bounds the lifetime of returned download URLs.
func NewExportService(records RecordGateway, store storage.Storage, expiry time.Duration) ExportService {
	return &exportService{records: records, store: store, expiry: expiry, now: time.Now}
}

func (s *exportService) Export(ctx context.Context, collection string) (*ExportResult, error) {
	docs, err := s.records.List(ctx, collection, nil)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(docs)
	if err != nil {
		return nil, &StoreError{Op: "export", Err: fmt.Errorf("encode export: %w", err)}
	}

	now := s.now().UTC()
	stamp := now.Format("20060102T150405Z")
	key := path.Join("exports", collection, stamp+"-"+uuid.NewString()+".json")

	info, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:               int64(len(body)),
		ContentType:        "application/json",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", collection+"-"+stamp+".json"),
		Metadata: map[string]string{
			"collection":   collection,
			"record-count": strconv.Itoa(len(docs)),
		},
	})
	if err != nil {
		return nil, &StoreError{Op: "export", Err: fmt.Errorf("upload to storage: %w", err)}
	}

	url, err := s.store.PresignGet(ctx, info.Key, s.expiry)
	if err != nil {
		// Rollback: an export nobody can download is removed again
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, &StoreError{Op: "export", Err: fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)}
		}
		return nil, &StoreError{Op: "export", Err: fmt.Errorf("presign failed: %w", err)}
	}

	return &ExportResult{
		Key:        info.Key,
		Collection: collection,
		Count:      len(docs),
		Size:       info.Size,
		URL:        url,
		ExpiresAt:  now.Add(s.expiry),
	}, nil
}
