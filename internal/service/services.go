package service

import (
	"github.com/avolkhin/go-sync-vault/internal/config"
	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
)

// Services bundles the application services consumed by the transport
// layer.
type Services struct {
	Auth       AuthService
	Collection CollectionService
	Item       ItemService
	Member     MemberService
	Invitation InvitationService
	Chunk      ChunkService
}

func NewServices(storages *store.Storages, authCfg config.Auth, log *logger.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(storages.UserRepository, authCfg, log),
		Collection: NewCollectionService(storages.CollectionRepository, storages.StokenRepository, log),
		Item:       NewItemService(storages.ItemRepository, storages.StokenRepository, log),
		Member:     NewMemberService(storages.MemberRepository, storages.StokenRepository, log),
		Invitation: NewInvitationService(storages.InvitationRepository, storages.UserRepository, log),
		Chunk:      NewChunkService(storages.ChunkRepository, log),
	}
}
