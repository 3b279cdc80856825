package service

import (
	"context"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type itemService struct {
	items   store.ItemRepository
	stokens store.StokenRepository
	logger  *logger.Logger
}

func NewItemService(items store.ItemRepository, stokens store.StokenRepository, log *logger.Logger) ItemService {
	return &itemService{items: items, stokens: stokens, logger: log}
}

func (s *itemService) List(ctx context.Context, userID int64, collectionUID string, stoken *string, limit int, withCollection bool) (models.ItemList, error) {
	cursor, err := resolveStoken(ctx, s.stokens, stoken)
	if err != nil {
		return models.ItemList{}, err
	}

	return s.items.List(ctx, userID, collectionUID, store.ItemListOptions{
		Cursor:         cursor,
		Limit:          limit,
		WithCollection: withCollection,
	})
}

func (s *itemService) Get(ctx context.Context, userID int64, collectionUID, itemUID string) (models.Item, error) {
	if !models.ValidUID(itemUID) {
		return models.Item{}, fmt.Errorf("%w: %q", ErrMalformedUID, itemUID)
	}

	return s.items.Get(ctx, userID, collectionUID, itemUID)
}

func (s *itemService) ListRevisions(ctx context.Context, userID int64, collectionUID, itemUID string, iterator *string, limit int) (models.RevisionList, error) {
	if !models.ValidUID(itemUID) {
		return models.RevisionList{}, fmt.Errorf("%w: %q", ErrMalformedUID, itemUID)
	}

	return s.items.ListRevisions(ctx, userID, collectionUID, itemUID, iterator, limit)
}

func (s *itemService) FetchUpdates(ctx context.Context, userID int64, collectionUID string, pairs []models.ItemDep, stoken *string) (models.ItemList, error) {
	if len(pairs) > models.FetchUpdatesLimit {
		return models.ItemList{}, fmt.Errorf("%w: %d pairs, limit %d", ErrTooManyItems, len(pairs), models.FetchUpdatesLimit)
	}
	for _, pair := range pairs {
		if !models.ValidUID(pair.UID) {
			return models.ItemList{}, fmt.Errorf("%w: %q", ErrMalformedUID, pair.UID)
		}
	}

	cursor, err := resolveStoken(ctx, s.stokens, stoken)
	if err != nil {
		return models.ItemList{}, err
	}

	return s.items.FetchUpdates(ctx, userID, collectionUID, pairs, cursor)
}

// Transaction applies a batch with full optimistic concurrency: every
// written item's etag is validated against its stored current revision.
func (s *itemService) Transaction(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, stoken *string) error {
	if err := s.validateBatch(batch); err != nil {
		return err
	}

	return s.items.ApplyBatch(ctx, userID, collectionUID, batch, normalizeStoken(stoken), true)
}

// Batch applies a batch unconditionally: only deps and the optional
// stoken guard are validated, written items overwrite whatever is
// current.
func (s *itemService) Batch(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, stoken *string) error {
	if err := s.validateBatch(batch); err != nil {
		return err
	}

	return s.items.ApplyBatch(ctx, userID, collectionUID, batch, normalizeStoken(stoken), false)
}

func (s *itemService) validateBatch(batch models.BatchRequest) error {
	if len(batch.Items) == 0 {
		return fmt.Errorf("%w: items", ErrMissingField)
	}
	if len(batch.Items) > models.FetchUpdatesLimit {
		return fmt.Errorf("%w: %d items, limit %d", ErrTooManyItems, len(batch.Items), models.FetchUpdatesLimit)
	}

	for _, item := range batch.Items {
		if !models.ValidUID(item.UID) {
			return fmt.Errorf("%w: %q", ErrMalformedUID, item.UID)
		}
		if !models.ValidUID(item.Content.UID) {
			return fmt.Errorf("%w: revision %q", ErrMalformedUID, item.Content.UID)
		}
	}
	for _, dep := range batch.Deps {
		if !models.ValidUID(dep.UID) {
			return fmt.Errorf("%w: %q", ErrMalformedUID, dep.UID)
		}
	}

	return nil
}

func normalizeStoken(stoken *string) *string {
	if stoken == nil || *stoken == "" {
		return nil
	}
	return stoken
}
