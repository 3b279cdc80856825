package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

type stokenRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewStokenRepository(db *DB, log *logger.Logger) StokenRepository {
	return &stokenRepository{db: db, logger: log}
}

// Resolve maps a client-supplied cursor uid to its position in the global
// mint order. Unknown uids fail with [ErrInvalidStoken].
func (s *stokenRepository) Resolve(ctx context.Context, uid string) (models.Stoken, error) {
	var stoken models.Stoken
	err := s.db.QueryRowContext(ctx, getStokenByUIDQuery, uid).Scan(&stoken.ID, &stoken.UID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Stoken{}, fmt.Errorf("%w: %q", ErrInvalidStoken, uid)
	}
	if err != nil {
		s.logger.Err(err).Str("func", "Resolve").Msg("error resolving stoken")
		return models.Stoken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return stoken, nil
}

// mintStokenTx creates a fresh stoken inside the caller's transaction and
// returns it. The bigserial id it receives fixes the event's position in
// the sync order.
func mintStokenTx(ctx context.Context, q queryer) (models.Stoken, error) {
	stoken := models.Stoken{UID: models.NewStokenUID()}
	err := q.QueryRowContext(ctx, mintStokenQuery, stoken.UID).Scan(&stoken.ID)
	if err != nil {
		return models.Stoken{}, fmt.Errorf("minting stoken: %w: %w", ErrExecutingQuery, err)
	}

	return stoken, nil
}

// stokenUIDByID loads the uid of a previously minted stoken.
func stokenUIDByID(ctx context.Context, q queryer, id int64) (models.Stoken, error) {
	var stoken models.Stoken
	err := q.QueryRowContext(ctx, getStokenByIDQuery, id).Scan(&stoken.ID, &stoken.UID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Stoken{}, fmt.Errorf("%w: id %d", ErrInvalidStoken, id)
	}
	if err != nil {
		return models.Stoken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return stoken, nil
}
