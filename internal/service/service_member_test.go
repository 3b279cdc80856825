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

// fakeMemberRepository serves a fixed membership per user id.
type fakeMemberRepository struct {
	store.MemberRepository

	members map[int64]models.Member
	revoked []string
	left    []int64
}

func (f *fakeMemberRepository) GetMember(_ context.Context, userID int64, collectionUID string) (models.Member, error) {
	member, ok := f.members[userID]
	if !ok {
		return models.Member{}, store.ErrCollectionNotFound
	}
	return member, nil
}

func (f *fakeMemberRepository) Revoke(_ context.Context, _ string, username string) error {
	f.revoked = append(f.revoked, username)
	return nil
}

func (f *fakeMemberRepository) Leave(_ context.Context, userID int64, _ string) error {
	f.left = append(f.left, userID)
	return nil
}

func (f *fakeMemberRepository) List(_ context.Context, _ int64, _ string, _ *models.Stoken, _ int) (models.MemberList, error) {
	return models.MemberList{Done: true}, nil
}

func (f *fakeMemberRepository) UpdateAccessLevel(_ context.Context, _ string, _ string, _ models.AccessLevel) error {
	return nil
}

func TestMemberOperations_RequireAdmin(t *testing.T) {
	repo := &fakeMemberRepository{members: map[int64]models.Member{
		1: {UserID: 1, AccessLevel: models.AccessLevelAdmin},
		2: {UserID: 2, AccessLevel: models.AccessLevelReadWrite},
	}}
	svc := NewMemberService(repo, &fakeStokenRepository{}, logger.Nop())
	ctx := context.Background()

	t.Run("admin can revoke", func(t *testing.T) {
		err := svc.Revoke(ctx, 1, "collectionuid012345678901234567", "bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, repo.revoked)
	})

	t.Run("writer cannot revoke", func(t *testing.T) {
		err := svc.Revoke(ctx, 2, "collectionuid012345678901234567", "bob")
		assert.ErrorIs(t, err, store.ErrNotAdmin)
	})

	t.Run("writer cannot list members", func(t *testing.T) {
		_, err := svc.List(ctx, 2, "collectionuid012345678901234567", nil, 0)
		assert.ErrorIs(t, err, store.ErrNotAdmin)
	})

	t.Run("non-member sees nothing", func(t *testing.T) {
		err := svc.Revoke(ctx, 99, "collectionuid012345678901234567", "bob")
		assert.ErrorIs(t, err, store.ErrCollectionNotFound)
	})
}

func TestUpdateAccessLevel_Validation(t *testing.T) {
	repo := &fakeMemberRepository{members: map[int64]models.Member{
		1: {UserID: 1, AccessLevel: models.AccessLevelAdmin},
	}}
	svc := NewMemberService(repo, &fakeStokenRepository{}, logger.Nop())

	err := svc.UpdateAccessLevel(context.Background(), 1, "collectionuid012345678901234567", "bob",
		models.MemberUpdate{AccessLevel: 42})
	assert.ErrorIs(t, err, ErrInvalidAccessLevel)
}

func TestLeave_NoAdminRequired(t *testing.T) {
	repo := &fakeMemberRepository{members: map[int64]models.Member{
		2: {UserID: 2, AccessLevel: models.AccessLevelReadOnly},
	}}
	svc := NewMemberService(repo, &fakeStokenRepository{}, logger.Nop())

	err := svc.Leave(context.Background(), 2, "collectionuid012345678901234567")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, repo.left)
}
