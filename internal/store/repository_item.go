package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

// itemMaxStokenExpr annotates an item with the stoken of its newest
// revision.
const itemMaxStokenExpr = `COALESCE((SELECT MAX(r.stoken_id)
	FROM collection_item_revisions r
	WHERE r.item_id = i.id), 0)`

type itemRepository struct {
	db     *DB
	blobs  ChunkStore
	logger *logger.Logger
}

func NewItemRepository(db *DB, blobs ChunkStore, log *logger.Logger) ItemRepository {
	return &itemRepository{db: db, blobs: blobs, logger: log}
}

func (i *itemRepository) List(ctx context.Context, userID int64, collectionUID string, opts ItemListOptions) (models.ItemList, error) {
	log := i.logger.With().Str("func", "List").Str("collectionUID", collectionUID).Logger()

	col, err := resolveCollection(ctx, i.db, userID, collectionUID, false)
	if err != nil {
		return models.ItemList{}, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}

	inner := sq.Select("i.id", itemMaxStokenExpr+" AS max_stoken").
		From("collection_items i").
		Where(sq.Eq{"i.collection_id": col.ID})
	if !opts.WithCollection && col.MainItemID.Valid {
		inner = inner.Where(sq.NotEq{"i.id": col.MainItemID.Int64})
	}

	outer := sq.Select("id", "max_stoken").
		FromSelect(inner, "annotated").
		OrderBy("max_stoken").
		Limit(uint64(limit + 1)).
		PlaceholderFormat(sq.Dollar)
	if opts.Cursor != nil {
		outer = outer.Where(sq.Gt{"max_stoken": opts.Cursor.ID})
	}

	query, args, err := outer.ToSql()
	if err != nil {
		log.Err(err).Msg("error building query")
		return models.ItemList{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ids, stokenIDs, err := i.scanAnnotated(ctx, query, args)
	if err != nil {
		log.Err(err).Msg("error listing items")
		return models.ItemList{}, err
	}

	done := len(ids) <= limit
	if !done {
		ids = ids[:limit]
		stokenIDs = stokenIDs[:limit]
	}

	list := models.ItemList{Data: make([]models.Item, 0, len(ids)), Done: done}
	for _, id := range ids {
		item, err := loadItem(ctx, i.db, id)
		if err != nil {
			return models.ItemList{}, err
		}
		list.Data = append(list.Data, item)
	}

	list.Stoken, err = i.pageStoken(ctx, stokenIDs, opts.Cursor)
	if err != nil {
		return models.ItemList{}, err
	}

	return list, nil
}

func (i *itemRepository) Get(ctx context.Context, userID int64, collectionUID, itemUID string) (models.Item, error) {
	col, err := resolveCollection(ctx, i.db, userID, collectionUID, false)
	if err != nil {
		return models.Item{}, err
	}

	itemID, err := i.itemID(ctx, i.db, col.ID, itemUID)
	if err != nil {
		return models.Item{}, err
	}

	return loadItem(ctx, i.db, itemID)
}

// ListRevisions pages through an item's revision history, most recent
// first. The iterator is the uid of the last revision of the previous
// page.
func (i *itemRepository) ListRevisions(ctx context.Context, userID int64, collectionUID, itemUID string, iterator *string, limit int) (models.RevisionList, error) {
	log := i.logger.With().Str("func", "ListRevisions").Str("itemUID", itemUID).Logger()

	col, err := resolveCollection(ctx, i.db, userID, collectionUID, false)
	if err != nil {
		return models.RevisionList{}, err
	}

	itemID, err := i.itemID(ctx, i.db, col.ID, itemUID)
	if err != nil {
		return models.RevisionList{}, err
	}

	if limit <= 0 {
		limit = models.DefaultPageLimit
	}

	builder := sq.Select("id", "uid", "meta", "deleted", "stoken_id").
		From("collection_item_revisions").
		Where(sq.Eq{"item_id": itemID}).
		OrderBy("id DESC").
		Limit(uint64(limit + 1)).
		PlaceholderFormat(sq.Dollar)
	if iterator != nil {
		var iterID int64
		err = i.db.QueryRowContext(ctx, getRevisionIDByUIDQuery, itemID, *iterator).Scan(&iterID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.RevisionList{}, fmt.Errorf("%w: %q", ErrRevisionNotFound, *iterator)
		}
		if err != nil {
			return models.RevisionList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		builder = builder.Where(sq.Lt{"id": iterID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Msg("error building query")
		return models.RevisionList{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Msg("error listing revisions")
		return models.RevisionList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	revisions := make([]models.Revision, 0, limit+1)
	for rows.Next() {
		var rev models.Revision
		if err = rows.Scan(&rev.ID, &rev.UID, &rev.Meta, &rev.Deleted, &rev.StokenID); err != nil {
			return models.RevisionList{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		revisions = append(revisions, rev)
	}
	if err = rows.Err(); err != nil {
		return models.RevisionList{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	done := len(revisions) <= limit
	if !done {
		revisions = revisions[:limit]
	}

	for idx := range revisions {
		revisions[idx].Chunks, err = loadRevisionChunks(ctx, i.db, revisions[idx].ID)
		if err != nil {
			return models.RevisionList{}, err
		}
	}

	list := models.RevisionList{Data: revisions, Done: done}
	if len(revisions) > 0 {
		uid := revisions[len(revisions)-1].UID
		list.Iterator = &uid
	}

	return list, nil
}

// FetchUpdates returns the current state of the named items, filtered to
// those that changed: items whose current etag matches the declared one
// are never resent, and a cursor further narrows the page to changes
// past it.
func (i *itemRepository) FetchUpdates(ctx context.Context, userID int64, collectionUID string, pairs []models.ItemDep, cursor *models.Stoken) (models.ItemList, error) {
	log := i.logger.With().Str("func", "FetchUpdates").Str("collectionUID", collectionUID).Logger()

	col, err := resolveCollection(ctx, i.db, userID, collectionUID, false)
	if err != nil {
		return models.ItemList{}, err
	}

	uids := make([]string, 0, len(pairs))
	etags := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		uids = append(uids, pair.UID)
		if pair.Etag != nil {
			etags = append(etags, *pair.Etag)
		}
	}

	inner := sq.Select(
		"i.id",
		itemMaxStokenExpr+" AS max_stoken",
		`(SELECT r.uid FROM collection_item_revisions r
			WHERE r.item_id = i.id AND r.current) AS current_uid`,
	).
		From("collection_items i").
		Where(sq.Eq{"i.collection_id": col.ID}).
		Where(sq.Eq{"i.uid": uids})

	outer := sq.Select("id", "max_stoken").
		FromSelect(inner, "annotated").
		OrderBy("max_stoken").
		PlaceholderFormat(sq.Dollar)
	if cursor != nil {
		outer = outer.Where(sq.Gt{"max_stoken": cursor.ID})
	}
	if len(etags) > 0 {
		outer = outer.Where(sq.NotEq{"current_uid": etags})
	}

	query, args, err := outer.ToSql()
	if err != nil {
		log.Err(err).Msg("error building query")
		return models.ItemList{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	ids, stokenIDs, err := i.scanAnnotated(ctx, query, args)
	if err != nil {
		log.Err(err).Msg("error fetching updates")
		return models.ItemList{}, err
	}

	list := models.ItemList{Data: make([]models.Item, 0, len(ids)), Done: true}
	for _, id := range ids {
		item, err := loadItem(ctx, i.db, id)
		if err != nil {
			return models.ItemList{}, err
		}
		list.Data = append(list.Data, item)
	}

	list.Stoken, err = i.pageStoken(ctx, stokenIDs, cursor)
	if err != nil {
		return models.ItemList{}, err
	}

	return list, nil
}

func (i *itemRepository) ApplyBatch(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, expectedStoken *string, enforceEtag bool) error {
	log := i.logger.With().
		Str("func", "ApplyBatch").
		Str("collectionUID", collectionUID).
		Int("items", len(batch.Items)).
		Logger()

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	col, err := resolveCollection(ctx, tx, userID, collectionUID, true)
	if err != nil {
		return err
	}
	if !col.AccessLevel.CanWrite() {
		return ErrNoWriteAccess
	}

	if expectedStoken != nil {
		maxStoken, err := collectionMaxStoken(ctx, tx, col.ID)
		if err != nil {
			return err
		}
		current, err := stokenUIDByID(ctx, tx, maxStoken)
		if err != nil {
			return err
		}
		if current.UID != *expectedStoken {
			return fmt.Errorf("%w: have %q, collection is at %q", ErrStaleStoken, *expectedStoken, current.UID)
		}
	}

	if err = i.validateBatch(ctx, tx, col.ID, batch, enforceEtag); err != nil {
		return err
	}

	for _, item := range batch.Items {
		itemID, err := i.itemID(ctx, tx, col.ID, item.UID)
		if errors.Is(err, ErrItemNotFound) {
			err = tx.QueryRowContext(ctx, insertItemQuery,
				item.UID, col.ID, item.Version, item.EncryptionKey).Scan(&itemID)
			if err != nil {
				err = fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
		}
		if err != nil {
			return err
		}

		stoken, err := mintStokenTx(ctx, tx)
		if err != nil {
			return err
		}
		if err = applyRevision(ctx, tx, i.blobs, col.OwnerID, col.ID, collectionUID, itemID, item.Content, stoken.ID); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	log.Info().Msg("batch applied")

	return nil
}

// validateBatch runs every conflict check before anything is written so a
// rejection can enumerate all offending entries at once.
func (i *itemRepository) validateBatch(ctx context.Context, tx *sql.Tx, collectionID int64, batch models.BatchRequest, enforceEtag bool) error {
	conflict := &BatchConflictError{}

	for _, dep := range batch.Deps {
		if c, err := i.checkEtag(ctx, tx, collectionID, dep.UID, dep.Etag); err != nil {
			return err
		} else if c != nil {
			conflict.Deps = append(conflict.Deps, *c)
		}
	}

	for _, item := range batch.Items {
		if enforceEtag {
			if c, err := i.checkEtag(ctx, tx, collectionID, item.UID, item.Etag); err != nil {
				return err
			} else if c != nil {
				conflict.Items = append(conflict.Items, *c)
				continue
			}
		}

		var exists bool
		err := tx.QueryRowContext(ctx, revisionUIDExistsQuery, item.Content.UID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if exists {
			conflict.Items = append(conflict.Items, models.ItemConflict{
				UID:    item.UID,
				Code:   ConflictUniqueUID,
				Detail: fmt.Sprintf("revision %q already exists", item.Content.UID),
			})
			continue
		}

		for _, ref := range item.Content.Chunks {
			if ref.Content != nil {
				continue
			}
			var chunkID int64
			err = tx.QueryRowContext(ctx, getChunkByUIDQuery, collectionID, ref.UID).Scan(&chunkID)
			if errors.Is(err, sql.ErrNoRows) {
				conflict.Items = append(conflict.Items, models.ItemConflict{
					UID:    item.UID,
					Code:   ConflictChunkMissing,
					Detail: fmt.Sprintf("chunk %q was never uploaded", ref.UID),
				})
				break
			}
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
		}
	}

	if len(conflict.Items) > 0 || len(conflict.Deps) > 0 {
		return conflict
	}

	return nil
}

// checkEtag validates a claimed etag against the stored current revision.
// A nil etag claims the item must not exist yet.
func (i *itemRepository) checkEtag(ctx context.Context, q queryer, collectionID int64, itemUID string, etag *string) (*models.ItemConflict, error) {
	var current string
	err := q.QueryRowContext(ctx, getCurrentEtagQuery, collectionID, itemUID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if etag != nil {
			return &models.ItemConflict{
				UID:    itemUID,
				Code:   ConflictEtagMismatch,
				Detail: "item does not exist",
			}, nil
		}
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if etag == nil {
		return &models.ItemConflict{
			UID:    itemUID,
			Code:   ConflictUniqueUID,
			Detail: "item already exists",
		}, nil
	}
	if *etag != current {
		return &models.ItemConflict{
			UID:    itemUID,
			Code:   ConflictEtagMismatch,
			Detail: fmt.Sprintf("expected %q, current is %q", *etag, current),
		}, nil
	}

	return nil, nil
}

func (i *itemRepository) itemID(ctx context.Context, q queryer, collectionID int64, itemUID string) (int64, error) {
	var (
		id            int64
		uid           string
		version       int
		encryptionKey []byte
	)
	err := q.QueryRowContext(ctx, getItemByUIDQuery, collectionID, itemUID).
		Scan(&id, &uid, &version, &encryptionKey)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrItemNotFound, itemUID)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return id, nil
}

func (i *itemRepository) scanAnnotated(ctx context.Context, query string, args []any) (ids, stokenIDs []int64, err error) {
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, stokenID int64
		if err = rows.Scan(&id, &stokenID); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
		stokenIDs = append(stokenIDs, stokenID)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ids, stokenIDs, nil
}

// pageStoken resolves the page cursor: the newest returned position, or
// the input cursor when the page is empty.
func (i *itemRepository) pageStoken(ctx context.Context, stokenIDs []int64, cursor *models.Stoken) (*string, error) {
	if len(stokenIDs) > 0 {
		newest := stokenIDs[len(stokenIDs)-1]
		if newest > 0 {
			stoken, err := stokenUIDByID(ctx, i.db, newest)
			if err != nil {
				return nil, err
			}
			return &stoken.UID, nil
		}
	}
	if cursor != nil {
		uid := cursor.UID
		return &uid, nil
	}

	return nil, nil
}
