package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkhin/go-sync-vault/models"
)

// collectionRow is the membership-scoped view of a collection shared by
// the repositories: the row only resolves when the requesting user holds
// a membership, so holding one is the visibility check.
type collectionRow struct {
	ID            int64
	OwnerID       int64
	MainItemID    sql.NullInt64
	AccessLevel   models.AccessLevel
	CollectionKey []byte
	TypeUID       []byte
}

func resolveCollection(ctx context.Context, q queryer, userID int64, uid string, locked bool) (collectionRow, error) {
	query := getCollectionForUserQuery
	if locked {
		query = getCollectionForUserLockedQuery
	}

	var row collectionRow
	err := q.QueryRowContext(ctx, query, userID, uid).
		Scan(&row.ID, &row.OwnerID, &row.MainItemID, &row.AccessLevel, &row.CollectionKey, &row.TypeUID)
	if errors.Is(err, sql.ErrNoRows) {
		return collectionRow{}, fmt.Errorf("%w: %q", ErrCollectionNotFound, uid)
	}
	if err != nil {
		return collectionRow{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return row, nil
}

func collectionMaxStoken(ctx context.Context, q queryer, collectionID int64) (int64, error) {
	var max int64
	if err := q.QueryRowContext(ctx, getCollectionMaxStokenQuery, collectionID).Scan(&max); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return max, nil
}

// loadItem assembles the full wire shape of an item: its identity, its
// current revision, and the revision's chunk uids in upload order.
func loadItem(ctx context.Context, q queryer, itemID int64) (models.Item, error) {
	item := models.Item{ID: itemID}
	err := q.QueryRowContext(ctx, getItemByIDQuery, itemID).
		Scan(&item.UID, &item.Version, &item.EncryptionKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rev, err := loadCurrentRevision(ctx, q, itemID)
	if err != nil {
		return models.Item{}, err
	}
	item.Content = rev

	etag := rev.UID
	item.Etag = &etag

	return item, nil
}

func loadCurrentRevision(ctx context.Context, q queryer, itemID int64) (models.Revision, error) {
	var rev models.Revision
	err := q.QueryRowContext(ctx, getCurrentRevisionQuery, itemID).
		Scan(&rev.ID, &rev.UID, &rev.Meta, &rev.Deleted, &rev.StokenID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Revision{}, ErrRevisionNotFound
	}
	if err != nil {
		return models.Revision{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	chunks, err := loadRevisionChunks(ctx, q, rev.ID)
	if err != nil {
		return models.Revision{}, err
	}
	rev.Chunks = chunks

	return rev, nil
}

func loadRevisionChunks(ctx context.Context, q queryer, revisionID int64) ([]models.ChunkRef, error) {
	rows, err := q.QueryContext(ctx, listRevisionChunksQuery, revisionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	chunks := make([]models.ChunkRef, 0)
	for rows.Next() {
		var ref models.ChunkRef
		if err = rows.Scan(&ref.UID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		chunks = append(chunks, ref)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return chunks, nil
}

func getOrCreateCollectionType(ctx context.Context, q queryer, ownerID int64, uid []byte) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, getCollectionTypeQuery, ownerID, uid).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		if err = q.QueryRowContext(ctx, insertCollectionTypeQuery, ownerID, uid).Scan(&id); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return id, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return id, nil
}

// ensureChunk resolves a chunk reference inside a write, creating the
// chunk from inline content when it does not exist yet. A reference to a
// chunk that neither exists nor carries content fails with
// [ErrChunkNotFound].
func ensureChunk(ctx context.Context, q queryer, blobs ChunkStore, ownerID int64, collectionID int64, collectionUID string, ref models.ChunkRef) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, getChunkByUIDQuery, collectionID, ref.UID).Scan(&id)
	if err == nil {
		// Chunk content is immutable, inline content on an existing
		// chunk is ignored.
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if ref.Content == nil {
		return 0, fmt.Errorf("%w: %q", ErrChunkNotFound, ref.UID)
	}

	if err = q.QueryRowContext(ctx, insertChunkQuery, ref.UID, collectionID).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = blobs.Put(ctx, chunkKey(ownerID, collectionUID, ref.UID), ref.Content); err != nil {
		return 0, fmt.Errorf("storing chunk %q: %w", ref.UID, err)
	}

	return id, nil
}

// applyRevision makes rev the item's new current revision: the previous
// current is demoted, the new one stamped with stokenID, and the chunk
// references linked in order.
func applyRevision(ctx context.Context, q queryer, blobs ChunkStore, ownerID, collectionID int64, collectionUID string, itemID int64, rev models.Revision, stokenID int64) error {
	if _, err := q.ExecContext(ctx, clearCurrentRevisionQuery, itemID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var revisionID int64
	err := q.QueryRowContext(ctx, insertRevisionQuery, rev.UID, itemID, stokenID, rev.Meta, rev.Deleted).
		Scan(&revisionID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	for _, ref := range rev.Chunks {
		chunkID, err := ensureChunk(ctx, q, blobs, ownerID, collectionID, collectionUID, ref)
		if err != nil {
			return err
		}
		if _, err = q.ExecContext(ctx, linkRevisionChunkQuery, chunkID, revisionID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	return nil
}
