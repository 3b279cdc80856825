package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type fakeCollectionRepository struct {
	store.CollectionRepository

	created  []models.CollectionCreate
	lastOpts store.CollectionListOptions
}

func (f *fakeCollectionRepository) Create(_ context.Context, _ int64, create models.CollectionCreate) error {
	f.created = append(f.created, create)
	return nil
}

func (f *fakeCollectionRepository) Get(_ context.Context, _ int64, uid string) (models.Collection, error) {
	return models.Collection{Item: models.Item{UID: uid}, Stoken: "stampedstoken0123456789012345678"}, nil
}

func (f *fakeCollectionRepository) List(_ context.Context, _ int64, opts store.CollectionListOptions) (models.CollectionList, error) {
	f.lastOpts = opts
	return models.CollectionList{Done: true}, nil
}

func validCollectionCreate() models.CollectionCreate {
	return models.CollectionCreate{
		Item: models.Item{
			UID: "collectionuid012345678901234567",
			Content: models.Revision{
				UID:  "revisionuid012345678901234567890",
				Meta: []byte("encrypted-meta"),
			},
		},
		CollectionType: []byte("collectiontypeuid012345678901234"),
		CollectionKey:  []byte("wrapped-key"),
	}
}

func TestCreateCollection_Validation(t *testing.T) {
	repo := &fakeCollectionRepository{}
	svc := NewCollectionService(repo, &fakeStokenRepository{}, logger.Nop())
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.CollectionCreate)
		wantErr error
	}{
		{"malformed collection uid", func(c *models.CollectionCreate) { c.Item.UID = "bad" }, ErrMalformedUID},
		{"malformed revision uid", func(c *models.CollectionCreate) { c.Item.Content.UID = "bad" }, ErrMalformedUID},
		{"missing collection type", func(c *models.CollectionCreate) { c.CollectionType = nil }, ErrMissingField},
		{"missing collection key", func(c *models.CollectionCreate) { c.CollectionKey = nil }, ErrMissingField},
		{"missing meta", func(c *models.CollectionCreate) { c.Item.Content.Meta = nil }, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := validCollectionCreate()
			tt.mutate(&create)

			_, err := svc.Create(ctx, 1, create)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, repo.created, "invalid payloads must never reach the store")
}

func TestCreateCollection_ReturnsStampedState(t *testing.T) {
	repo := &fakeCollectionRepository{}
	svc := NewCollectionService(repo, &fakeStokenRepository{}, logger.Nop())

	col, err := svc.Create(context.Background(), 1, validCollectionCreate())
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "collectionuid012345678901234567", col.UID())
	assert.NotEmpty(t, col.Stoken, "created collections come back with their fresh stoken")
}

func TestListCollections_ResolvesStoken(t *testing.T) {
	repo := &fakeCollectionRepository{}
	stokens := &fakeStokenRepository{known: map[string]int64{"knownstokenuid012345678901234567": 42}}
	svc := NewCollectionService(repo, stokens, logger.Nop())
	ctx := context.Background()

	t.Run("known cursor", func(t *testing.T) {
		cursor := "knownstokenuid012345678901234567"
		_, err := svc.List(ctx, 1, &cursor, 50, nil)
		require.NoError(t, err)
		require.NotNil(t, repo.lastOpts.Cursor)
		assert.Equal(t, int64(42), repo.lastOpts.Cursor.ID)
	})

	t.Run("unknown cursor", func(t *testing.T) {
		cursor := "unknownstoken0123456789012345678"
		_, err := svc.List(ctx, 1, &cursor, 50, nil)
		assert.ErrorIs(t, err, store.ErrInvalidStoken)
	})

	t.Run("no cursor", func(t *testing.T) {
		_, err := svc.List(ctx, 1, nil, 50, nil)
		require.NoError(t, err)
		assert.Nil(t, repo.lastOpts.Cursor)
	})
}
