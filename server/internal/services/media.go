package services

import (
	"context"
	"encoding/base64"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"fmt"

	"github.com/google/uuid"
)

// MediaStore persists uploaded media blobs.
type MediaStore interface {
	InsertMediaBlob(ctx context.Context, blob *models.MediaBlob) error
	GetMediaBlob(ctx context.Context, id string) (*models.MediaBlob, error)
}

type MediaService struct {
	store          MediaStore
	maxInlineBytes int
	appLogger      *logger.Logger
}

var ErrMediaTooLarge = fmt.Errorf("media payload exceeds inline size limit")

func NewMediaService(store MediaStore, maxInlineBytes int, appLogger *logger.Logger) *MediaService {
	return &MediaService{store: store, maxInlineBytes: maxInlineBytes, appLogger: appLogger}
}

// Put stores the raw bytes under a fresh uuid key and returns the blob record.
// The returned ID doubles as the media URL path segment.
func (ms *MediaService) Put(ctx context.Context, owner, filename, mimeType string, data []byte) (*models.MediaBlob, error) {
	if len(data) == 0 {
		return nil, ErrEmptyText
	}
	if ms.maxInlineBytes > 0 && len(data) > ms.maxInlineBytes {
		return nil, ErrMediaTooLarge
	}

	blob := &models.MediaBlob{
		ID:           uuid.NewString(),
		OwnerAddress: owner,
		Filename:     filename,
		MimeType:     mimeType,
		SizeBytes:    int64(len(data)),
		Payload:      base64.StdEncoding.EncodeToString(data),
	}
	if err := ms.store.InsertMediaBlob(ctx, blob); err != nil {
		return nil, err
	}

	ms.appLogger.Info("Stored media blob", "id", blob.ID, "owner", owner, "size", blob.SizeBytes, "mime", mimeType)
	return blob, nil
}

// Get decodes and returns the blob bytes plus its metadata.
func (ms *MediaService) Get(ctx context.Context, id string) (*models.MediaBlob, []byte, error) {
	blob, err := ms.store.GetMediaBlob(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if blob == nil {
		return nil, nil, ErrNotFound
	}
	data, err := base64.StdEncoding.DecodeString(blob.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("corrupt media payload for %s: %w", id, err)
	}
	return blob, data, nil
}
