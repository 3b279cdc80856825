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

type fakeInvitationRepository struct {
	store.InvitationRepository

	created  []models.InvitationCreate
	accepted []string
}

func (f *fakeInvitationRepository) Create(_ context.Context, _ int64, inv models.InvitationCreate) error {
	f.created = append(f.created, inv)
	return nil
}

func (f *fakeInvitationRepository) Accept(_ context.Context, _ int64, uid string, _ models.InvitationAccept) error {
	f.accepted = append(f.accepted, uid)
	return nil
}

func validInvitation() models.InvitationCreate {
	return models.InvitationCreate{
		UID:                 "invitationuid0123456789012345678",
		Version:             1,
		Username:            "bob",
		CollectionUID:       "collectionuid012345678901234567",
		SignedEncryptionKey: []byte("signed-key"),
		AccessLevel:         models.AccessLevelReadOnly,
	}
}

func TestCreateInvitation_Validation(t *testing.T) {
	repo := &fakeInvitationRepository{}
	svc := NewInvitationService(repo, newFakeUserRepository(), logger.Nop())
	ctx := context.Background()
	alice := models.User{UserID: 1, Username: "alice"}

	t.Run("valid", func(t *testing.T) {
		err := svc.Create(ctx, alice, validInvitation())
		require.NoError(t, err)
		require.Len(t, repo.created, 1)
	})

	t.Run("self invite", func(t *testing.T) {
		inv := validInvitation()
		inv.Username = "Alice"
		err := svc.Create(ctx, alice, inv)
		assert.ErrorIs(t, err, ErrSelfInvite)
	})

	t.Run("malformed uid", func(t *testing.T) {
		inv := validInvitation()
		inv.UID = "nope"
		err := svc.Create(ctx, alice, inv)
		assert.ErrorIs(t, err, ErrMalformedUID)
	})

	t.Run("missing signed key", func(t *testing.T) {
		inv := validInvitation()
		inv.SignedEncryptionKey = nil
		err := svc.Create(ctx, alice, inv)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("invalid access level", func(t *testing.T) {
		inv := validInvitation()
		inv.AccessLevel = 9
		err := svc.Create(ctx, alice, inv)
		assert.ErrorIs(t, err, ErrInvalidAccessLevel)
	})
}

func TestAcceptInvitation_RequiresKey(t *testing.T) {
	repo := &fakeInvitationRepository{}
	svc := NewInvitationService(repo, newFakeUserRepository(), logger.Nop())

	err := svc.Accept(context.Background(), 2, "invitationuid0123456789012345678", models.InvitationAccept{})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, repo.accepted)

	err = svc.Accept(context.Background(), 2, "invitationuid0123456789012345678",
		models.InvitationAccept{EncryptionKey: []byte("wrapped")})
	require.NoError(t, err)
	assert.Len(t, repo.accepted, 1)
}
