package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
)

type chunkRepository struct {
	db     *DB
	blobs  ChunkStore
	logger *logger.Logger
}

func NewChunkRepository(db *DB, blobs ChunkStore, log *logger.Logger) ChunkRepository {
	return &chunkRepository{db: db, blobs: blobs, logger: log}
}

// Upload stores a chunk body under the collection. Chunk content is
// immutable: a second upload of the same uid fails with [ErrChunkExists]
// and the stored body stays untouched.
func (c *chunkRepository) Upload(ctx context.Context, userID int64, collectionUID, chunkUID string, body []byte) error {
	log := c.logger.With().Str("func", "Upload").Str("chunkUID", chunkUID).Logger()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	col, err := resolveCollection(ctx, tx, userID, collectionUID, false)
	if err != nil {
		return err
	}
	if !col.AccessLevel.CanWrite() {
		return ErrNoWriteAccess
	}

	var id int64
	if err = tx.QueryRowContext(ctx, insertChunkQuery, chunkUID, col.ID).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrChunkExists, chunkUID)
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = c.blobs.Put(ctx, chunkKey(col.OwnerID, collectionUID, chunkUID), body); err != nil {
		return fmt.Errorf("storing chunk %q: %w", chunkUID, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (c *chunkRepository) Download(ctx context.Context, userID int64, collectionUID, chunkUID string) ([]byte, error) {
	col, err := resolveCollection(ctx, c.db, userID, collectionUID, false)
	if err != nil {
		return nil, err
	}

	var id int64
	err = c.db.QueryRowContext(ctx, getChunkByUIDQuery, col.ID, chunkUID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrChunkNotFound, chunkUID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	body, err := c.blobs.Get(ctx, chunkKey(col.OwnerID, collectionUID, chunkUID))
	if err != nil {
		c.logger.Err(err).Str("func", "Download").Str("chunkUID", chunkUID).Msg("error reading chunk body")
		return nil, fmt.Errorf("reading chunk %q: %w", chunkUID, err)
	}

	return body, nil
}
