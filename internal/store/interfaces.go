package store

import (
	"context"

	"github.com/avolkhin/go-sync-vault/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User, info models.UserInfo) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserProfile(ctx context.Context, username string) (models.UserProfile, error)
}

// StokenRepository is the read side of the token authority: it resolves
// externally supplied cursor uids to their internal order. Minting always
// happens inside the mutating transaction that the token stamps.
type StokenRepository interface {
	Resolve(ctx context.Context, uid string) (models.Stoken, error)
}

// CollectionListOptions scopes one page of a collection sync listing.
type CollectionListOptions struct {
	// Cursor is the resolved stoken the client last consumed; nil means
	// list from the beginning.
	Cursor *models.Stoken

	Limit int

	// Types filters the listing by collection-type uids. Members without
	// a collection type are always included. Nil disables the filter.
	Types [][]byte
}

type CollectionRepository interface {
	Create(ctx context.Context, ownerID int64, create models.CollectionCreate) error
	Get(ctx context.Context, userID int64, uid string) (models.Collection, error)
	List(ctx context.Context, userID int64, opts CollectionListOptions) (models.CollectionList, error)
}

// ItemListOptions scopes one page of an item sync listing.
type ItemListOptions struct {
	Cursor *models.Stoken
	Limit  int

	// WithCollection includes the collection's main item in the listing.
	WithCollection bool
}

type ItemRepository interface {
	List(ctx context.Context, userID int64, collectionUID string, opts ItemListOptions) (models.ItemList, error)
	Get(ctx context.Context, userID int64, collectionUID, itemUID string) (models.Item, error)
	ListRevisions(ctx context.Context, userID int64, collectionUID, itemUID string, iterator *string, limit int) (models.RevisionList, error)
	FetchUpdates(ctx context.Context, userID int64, collectionUID string, pairs []models.ItemDep, cursor *models.Stoken) (models.ItemList, error)

	// ApplyBatch atomically applies a batch of item writes to one
	// collection under an exclusive collection row lock. When
	// expectedStoken is non-nil the collection's current stoken must
	// match or the batch fails with [ErrStaleStoken]. When enforceEtag
	// is true every item's Etag is validated against the stored current
	// revision; deps are always validated. Any conflict aborts the whole
	// batch with a [*BatchConflictError]; nothing is applied.
	ApplyBatch(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, expectedStoken *string, enforceEtag bool) error
}

type MemberRepository interface {
	GetMember(ctx context.Context, userID int64, collectionUID string) (models.Member, error)
	List(ctx context.Context, userID int64, collectionUID string, iterator *models.Stoken, limit int) (models.MemberList, error)
	Revoke(ctx context.Context, collectionUID, username string) error
	Leave(ctx context.Context, userID int64, collectionUID string) error
	UpdateAccessLevel(ctx context.Context, collectionUID, username string, level models.AccessLevel) error
}

type InvitationRepository interface {
	ListOutgoing(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error)
	ListIncoming(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error)
	Create(ctx context.Context, fromUserID int64, inv models.InvitationCreate) error
	DeleteOutgoing(ctx context.Context, userID int64, invitationUID string) error
	DeleteIncoming(ctx context.Context, userID int64, invitationUID string) error
	Accept(ctx context.Context, userID int64, invitationUID string, accept models.InvitationAccept) error
}

type ChunkRepository interface {
	Upload(ctx context.Context, userID int64, collectionUID, chunkUID string, body []byte) error
	Download(ctx context.Context, userID int64, collectionUID, chunkUID string) ([]byte, error)
}

// ChunkStore is the content-addressable blob store holding chunk bodies.
// Keys are derived from the owning user, collection, and chunk uid; a
// chunk body is immutable once written.
type ChunkStore interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
