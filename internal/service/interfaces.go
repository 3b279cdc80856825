package service

import (
	"context"

	"github.com/avolkhin/go-sync-vault/models"
)

type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (models.LoginResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	VerifyToken(token string) (models.User, error)
}

type CollectionService interface {
	List(ctx context.Context, userID int64, stoken *string, limit int, types [][]byte) (models.CollectionList, error)
	Get(ctx context.Context, userID int64, uid string) (models.Collection, error)
	Create(ctx context.Context, ownerID int64, create models.CollectionCreate) (models.Collection, error)
}

type ItemService interface {
	List(ctx context.Context, userID int64, collectionUID string, stoken *string, limit int, withCollection bool) (models.ItemList, error)
	Get(ctx context.Context, userID int64, collectionUID, itemUID string) (models.Item, error)
	ListRevisions(ctx context.Context, userID int64, collectionUID, itemUID string, iterator *string, limit int) (models.RevisionList, error)
	FetchUpdates(ctx context.Context, userID int64, collectionUID string, pairs []models.ItemDep, stoken *string) (models.ItemList, error)
	Transaction(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, stoken *string) error
	Batch(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, stoken *string) error
}

type MemberService interface {
	List(ctx context.Context, userID int64, collectionUID string, iterator *string, limit int) (models.MemberList, error)
	Revoke(ctx context.Context, userID int64, collectionUID, username string) error
	UpdateAccessLevel(ctx context.Context, userID int64, collectionUID, username string, update models.MemberUpdate) error
	Leave(ctx context.Context, userID int64, collectionUID string) error
}

type InvitationService interface {
	ListOutgoing(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error)
	ListIncoming(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error)
	Create(ctx context.Context, from models.User, inv models.InvitationCreate) error
	DeleteOutgoing(ctx context.Context, userID int64, invitationUID string) error
	DeleteIncoming(ctx context.Context, userID int64, invitationUID string) error
	Accept(ctx context.Context, userID int64, invitationUID string, accept models.InvitationAccept) error
	FetchUserProfile(ctx context.Context, username string) (models.UserProfile, error)
}

type ChunkService interface {
	Upload(ctx context.Context, userID int64, collectionUID, chunkUID string, body []byte) error
	Download(ctx context.Context, userID int64, collectionUID, chunkUID string) ([]byte, error)
}
