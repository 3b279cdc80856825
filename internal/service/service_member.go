package service

import (
	"context"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type memberService struct {
	members store.MemberRepository
	stokens store.StokenRepository
	logger  *logger.Logger
}

func NewMemberService(members store.MemberRepository, stokens store.StokenRepository, log *logger.Logger) MemberService {
	return &memberService{members: members, stokens: stokens, logger: log}
}

// List pages through a collection's members. Requires admin access.
func (s *memberService) List(ctx context.Context, userID int64, collectionUID string, iterator *string, limit int) (models.MemberList, error) {
	if err := s.requireAdmin(ctx, userID, collectionUID); err != nil {
		return models.MemberList{}, err
	}

	cursor, err := resolveStoken(ctx, s.stokens, iterator)
	if err != nil {
		return models.MemberList{}, err
	}

	return s.members.List(ctx, userID, collectionUID, cursor, limit)
}

// Revoke removes another user's membership. Requires admin access; a
// member leaving on their own uses [memberService.Leave].
func (s *memberService) Revoke(ctx context.Context, userID int64, collectionUID, username string) error {
	if err := s.requireAdmin(ctx, userID, collectionUID); err != nil {
		return err
	}

	return s.members.Revoke(ctx, collectionUID, username)
}

func (s *memberService) UpdateAccessLevel(ctx context.Context, userID int64, collectionUID, username string, update models.MemberUpdate) error {
	if !update.AccessLevel.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAccessLevel, update.AccessLevel)
	}
	if err := s.requireAdmin(ctx, userID, collectionUID); err != nil {
		return err
	}

	return s.members.UpdateAccessLevel(ctx, collectionUID, username, update.AccessLevel)
}

func (s *memberService) Leave(ctx context.Context, userID int64, collectionUID string) error {
	return s.members.Leave(ctx, userID, collectionUID)
}

func (s *memberService) requireAdmin(ctx context.Context, userID int64, collectionUID string) error {
	member, err := s.members.GetMember(ctx, userID, collectionUID)
	if err != nil {
		return err
	}
	if member.AccessLevel != models.AccessLevelAdmin {
		return store.ErrNotAdmin
	}

	return nil
}
