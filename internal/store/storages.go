package store

import (
	"github.com/avolkhin/go-sync-vault/internal/logger"
)

// Storages bundles every repository over a single database handle.
type Storages struct {
	UserRepository       UserRepository
	StokenRepository     StokenRepository
	CollectionRepository CollectionRepository
	ItemRepository       ItemRepository
	MemberRepository     MemberRepository
	InvitationRepository InvitationRepository
	ChunkRepository      ChunkRepository
}

func NewStorages(db *DB, chunks ChunkStore, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		StokenRepository:     NewStokenRepository(db, log),
		CollectionRepository: NewCollectionRepository(db, chunks, log),
		ItemRepository:       NewItemRepository(db, chunks, log),
		MemberRepository:     NewMemberRepository(db, log),
		InvitationRepository: NewInvitationRepository(db, log),
		ChunkRepository:      NewChunkRepository(db, chunks, log),
	}
}
