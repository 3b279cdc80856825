package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

// fakeItemRepository records the last ApplyBatch call.
type fakeItemRepository struct {
	store.ItemRepository

	lastEnforceEtag bool
	lastStoken      *string
	applied         bool
}

func (f *fakeItemRepository) ApplyBatch(_ context.Context, _ int64, _ string, _ models.BatchRequest, expectedStoken *string, enforceEtag bool) error {
	f.applied = true
	f.lastEnforceEtag = enforceEtag
	f.lastStoken = expectedStoken
	return nil
}

type fakeStokenRepository struct {
	known map[string]int64
}

func (f *fakeStokenRepository) Resolve(_ context.Context, uid string) (models.Stoken, error) {
	id, ok := f.known[uid]
	if !ok {
		return models.Stoken{}, store.ErrInvalidStoken
	}
	return models.Stoken{ID: id, UID: uid}, nil
}

func validBatch() models.BatchRequest {
	return models.BatchRequest{Items: []models.Item{{
		UID:     "itemuid0123456789012345678901234",
		Content: models.Revision{UID: "revisionuid012345678901234567890"},
	}}}
}

func TestTransaction_EnforcesEtags(t *testing.T) {
	repo := &fakeItemRepository{}
	svc := NewItemService(repo, &fakeStokenRepository{}, logger.Nop())

	stoken := "somestokenuid0123456789012345678"
	err := svc.Transaction(context.Background(), 1, "collectionuid012345678901234567", validBatch(), &stoken)
	require.NoError(t, err)

	assert.True(t, repo.applied)
	assert.True(t, repo.lastEnforceEtag)
	require.NotNil(t, repo.lastStoken)
	assert.Equal(t, stoken, *repo.lastStoken)
}

func TestBatch_SkipsEtagEnforcement(t *testing.T) {
	repo := &fakeItemRepository{}
	svc := NewItemService(repo, &fakeStokenRepository{}, logger.Nop())

	err := svc.Batch(context.Background(), 1, "collectionuid012345678901234567", validBatch(), nil)
	require.NoError(t, err)

	assert.True(t, repo.applied)
	assert.False(t, repo.lastEnforceEtag)
	assert.Nil(t, repo.lastStoken)
}

func TestBatch_Validation(t *testing.T) {
	repo := &fakeItemRepository{}
	svc := NewItemService(repo, &fakeStokenRepository{}, logger.Nop())
	ctx := context.Background()

	t.Run("empty items", func(t *testing.T) {
		err := svc.Batch(ctx, 1, "collectionuid012345678901234567", models.BatchRequest{}, nil)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("malformed item uid", func(t *testing.T) {
		batch := validBatch()
		batch.Items[0].UID = "../evil"
		err := svc.Batch(ctx, 1, "collectionuid012345678901234567", batch, nil)
		assert.ErrorIs(t, err, ErrMalformedUID)
	})

	t.Run("malformed revision uid", func(t *testing.T) {
		batch := validBatch()
		batch.Items[0].Content.UID = "short"
		err := svc.Batch(ctx, 1, "collectionuid012345678901234567", batch, nil)
		assert.ErrorIs(t, err, ErrMalformedUID)
	})

	t.Run("too many items", func(t *testing.T) {
		batch := models.BatchRequest{}
		for i := 0; i <= models.FetchUpdatesLimit; i++ {
			batch.Items = append(batch.Items, validBatch().Items[0])
		}
		err := svc.Batch(ctx, 1, "collectionuid012345678901234567", batch, nil)
		assert.ErrorIs(t, err, ErrTooManyItems)
	})

	assert.False(t, repo.applied, "rejected batches must never reach the store")
}

func TestFetchUpdates_PairLimit(t *testing.T) {
	repo := &fakeItemRepository{}
	svc := NewItemService(repo, &fakeStokenRepository{}, logger.Nop())

	pairs := make([]models.ItemDep, models.FetchUpdatesLimit+1)
	for i := range pairs {
		pairs[i] = models.ItemDep{UID: strings.Repeat("a", 24)}
	}

	_, err := svc.FetchUpdates(context.Background(), 1, "collectionuid012345678901234567", pairs, nil)
	assert.ErrorIs(t, err, ErrTooManyItems)
}
