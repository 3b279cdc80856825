package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type invitationService struct {
	invitations store.InvitationRepository
	users       store.UserRepository
	logger      *logger.Logger
}

func NewInvitationService(invitations store.InvitationRepository, users store.UserRepository, log *logger.Logger) InvitationService {
	return &invitationService{invitations: invitations, users: users, logger: log}
}

func (s *invitationService) ListOutgoing(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error) {
	return s.invitations.ListOutgoing(ctx, userID, iterator, limit)
}

func (s *invitationService) ListIncoming(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error) {
	return s.invitations.ListIncoming(ctx, userID, iterator, limit)
}

func (s *invitationService) Create(ctx context.Context, from models.User, inv models.InvitationCreate) error {
	inv.Username = strings.ToLower(strings.TrimSpace(inv.Username))
	switch {
	case !models.ValidUID(inv.UID):
		return fmt.Errorf("%w: %q", ErrMalformedUID, inv.UID)
	case inv.Username == "":
		return fmt.Errorf("%w: username", ErrMissingField)
	case len(inv.SignedEncryptionKey) == 0:
		return fmt.Errorf("%w: signedEncryptionKey", ErrMissingField)
	case !inv.AccessLevel.Valid():
		return fmt.Errorf("%w: %d", ErrInvalidAccessLevel, inv.AccessLevel)
	case inv.Username == from.Username:
		return ErrSelfInvite
	}

	return s.invitations.Create(ctx, from.UserID, inv)
}

func (s *invitationService) DeleteOutgoing(ctx context.Context, userID int64, invitationUID string) error {
	return s.invitations.DeleteOutgoing(ctx, userID, invitationUID)
}

func (s *invitationService) DeleteIncoming(ctx context.Context, userID int64, invitationUID string) error {
	return s.invitations.DeleteIncoming(ctx, userID, invitationUID)
}

func (s *invitationService) Accept(ctx context.Context, userID int64, invitationUID string, accept models.InvitationAccept) error {
	if len(accept.EncryptionKey) == 0 {
		return fmt.Errorf("%w: encryptionKey", ErrMissingField)
	}

	return s.invitations.Accept(ctx, userID, invitationUID, accept)
}

// FetchUserProfile exposes the public key material a client needs to
// encrypt an invitation for another user.
func (s *invitationService) FetchUserProfile(ctx context.Context, username string) (models.UserProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return models.UserProfile{}, fmt.Errorf("%w: username", ErrMissingField)
	}

	return s.users.GetUserProfile(ctx, username)
}
