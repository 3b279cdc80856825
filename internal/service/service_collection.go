package service

import (
	"context"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type collectionService struct {
	collections store.CollectionRepository
	stokens     store.StokenRepository
	logger      *logger.Logger
}

func NewCollectionService(collections store.CollectionRepository, stokens store.StokenRepository, log *logger.Logger) CollectionService {
	return &collectionService{collections: collections, stokens: stokens, logger: log}
}

func (s *collectionService) List(ctx context.Context, userID int64, stoken *string, limit int, types [][]byte) (models.CollectionList, error) {
	cursor, err := resolveStoken(ctx, s.stokens, stoken)
	if err != nil {
		return models.CollectionList{}, err
	}

	return s.collections.List(ctx, userID, store.CollectionListOptions{
		Cursor: cursor,
		Limit:  limit,
		Types:  types,
	})
}

func (s *collectionService) Get(ctx context.Context, userID int64, uid string) (models.Collection, error) {
	if !models.ValidUID(uid) {
		return models.Collection{}, fmt.Errorf("%w: %q", ErrMalformedUID, uid)
	}

	return s.collections.Get(ctx, userID, uid)
}

// Create validates and persists a new collection, then reads it back so
// the response carries the stamped stoken and etag.
func (s *collectionService) Create(ctx context.Context, ownerID int64, create models.CollectionCreate) (models.Collection, error) {
	switch {
	case !models.ValidUID(create.Item.UID):
		return models.Collection{}, fmt.Errorf("%w: %q", ErrMalformedUID, create.Item.UID)
	case !models.ValidUID(create.Item.Content.UID):
		return models.Collection{}, fmt.Errorf("%w: revision %q", ErrMalformedUID, create.Item.Content.UID)
	case len(create.CollectionType) == 0:
		return models.Collection{}, fmt.Errorf("%w: collectionType", ErrMissingField)
	case len(create.CollectionKey) == 0:
		return models.Collection{}, fmt.Errorf("%w: collectionKey", ErrMissingField)
	case len(create.Item.Content.Meta) == 0:
		return models.Collection{}, fmt.Errorf("%w: meta", ErrMissingField)
	}

	if err := s.collections.Create(ctx, ownerID, create); err != nil {
		return models.Collection{}, err
	}

	return s.collections.Get(ctx, ownerID, create.Item.UID)
}
