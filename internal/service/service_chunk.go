package service

import (
	"context"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type chunkService struct {
	chunks store.ChunkRepository
	logger *logger.Logger
}

func NewChunkService(chunks store.ChunkRepository, log *logger.Logger) ChunkService {
	return &chunkService{chunks: chunks, logger: log}
}

func (s *chunkService) Upload(ctx context.Context, userID int64, collectionUID, chunkUID string, body []byte) error {
	if !models.ValidUID(chunkUID) {
		return fmt.Errorf("%w: %q", ErrMalformedUID, chunkUID)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: body", ErrMissingField)
	}

	return s.chunks.Upload(ctx, userID, collectionUID, chunkUID, body)
}

func (s *chunkService) Download(ctx context.Context, userID int64, collectionUID, chunkUID string) ([]byte, error) {
	if !models.ValidUID(chunkUID) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedUID, chunkUID)
	}

	return s.chunks.Download(ctx, userID, collectionUID, chunkUID)
}
