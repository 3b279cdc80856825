package service

import (
	"context"

	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

// resolveStoken turns an optional client-supplied cursor uid into a
// resolved stoken. Nil stays nil; an unknown uid surfaces
// [store.ErrInvalidStoken].
func resolveStoken(ctx context.Context, stokens store.StokenRepository, uid *string) (*models.Stoken, error) {
	if uid == nil || *uid == "" {
		return nil, nil
	}

	stoken, err := stokens.Resolve(ctx, *uid)
	if err != nil {
		return nil, err
	}

	return &stoken, nil
}
