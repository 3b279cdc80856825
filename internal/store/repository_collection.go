package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

// collectionMaxStokenExpr annotates a collection with its sync position:
// the newest stoken stamped on any of its revisions or memberships.
const collectionMaxStokenExpr = `GREATEST(
	COALESCE((SELECT MAX(r.stoken_id) FROM collection_item_revisions r
		JOIN collection_items i ON i.id = r.item_id
		WHERE i.collection_id = c.id), 0),
	COALESCE((SELECT MAX(m2.stoken_id) FROM collection_members m2
		WHERE m2.collection_id = c.id), 0))`

type collectionRepository struct {
	db     *DB
	blobs  ChunkStore
	logger *logger.Logger
}

func NewCollectionRepository(db *DB, blobs ChunkStore, log *logger.Logger) CollectionRepository {
	return &collectionRepository{db: db, blobs: blobs, logger: log}
}

// List returns one page of the user's collections ordered by sync
// position, together with the cursor for the next page and the uids of
// collections the user has been removed from since the given cursor.
func (c *collectionRepository) List(ctx context.Context, userID int64, opts CollectionListOptions) (models.CollectionList, error) {
	log := c.logger.With().Str("func", "List").Int64("userID", userID).Logger()

	limit := opts.Limit
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}

	inner := sq.Select(
		"c.main_item_id",
		"m.access_level",
		"m.encryption_key AS collection_key",
		"ct.uid AS collection_type",
		collectionMaxStokenExpr+" AS max_stoken",
	).
		From("collections c").
		Join("collection_members m ON m.collection_id = c.id").
		LeftJoin("collection_types ct ON ct.id = m.collection_type_id").
		Where(sq.Eq{"m.user_id": userID})
	if opts.Types != nil {
		inner = inner.Where(sq.Or{
			sq.Eq{"ct.uid": opts.Types},
			sq.Eq{"m.collection_type_id": nil},
		})
	}

	outer := sq.Select("main_item_id", "access_level", "collection_key", "collection_type", "max_stoken").
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
		return models.CollectionList{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Msg("error listing collections")
		return models.CollectionList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	type annotated struct {
		mainItemID    sql.NullInt64
		accessLevel   models.AccessLevel
		collectionKey []byte
		typeUID       []byte
		maxStoken     int64
	}

	page := make([]annotated, 0, limit+1)
	for rows.Next() {
		var a annotated
		if err = rows.Scan(&a.mainItemID, &a.accessLevel, &a.collectionKey, &a.typeUID, &a.maxStoken); err != nil {
			return models.CollectionList{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		page = append(page, a)
	}
	if err = rows.Err(); err != nil {
		return models.CollectionList{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	done := len(page) <= limit
	if !done {
		page = page[:limit]
	}

	list := models.CollectionList{Data: make([]models.Collection, 0, len(page)), Done: done}
	var newStokenID int64
	for _, a := range page {
		// Every consumed row advances the cursor, even one whose main
		// item is not set yet.
		newStokenID = a.maxStoken
		if !a.mainItemID.Valid {
			continue
		}

		item, err := loadItem(ctx, c.db, a.mainItemID.Int64)
		if err != nil {
			return models.CollectionList{}, err
		}

		stoken, err := stokenUIDByID(ctx, c.db, a.maxStoken)
		if err != nil {
			return models.CollectionList{}, err
		}

		list.Data = append(list.Data, models.Collection{
			Item:           item,
			CollectionType: a.typeUID,
			CollectionKey:  a.collectionKey,
			AccessLevel:    a.accessLevel,
			Stoken:         stoken.UID,
		})
	}

	// The page cursor advances to the newest returned position and
	// falls back to the input cursor when the page is empty.
	switch {
	case newStokenID > 0:
		stoken, err := stokenUIDByID(ctx, c.db, newStokenID)
		if err != nil {
			return models.CollectionList{}, err
		}
		list.Stoken = &stoken.UID
	case opts.Cursor != nil:
		uid := opts.Cursor.UID
		list.Stoken = &uid
	}

	if opts.Cursor != nil {
		removed, err := c.listRemovedMemberships(ctx, userID, opts.Cursor.ID, newStokenID, done)
		if err != nil {
			return models.CollectionList{}, err
		}
		list.RemovedMemberships = removed
	}

	return list, nil
}

// listRemovedMemberships returns tombstones newer than the input cursor.
// On a partial page the tombstones are additionally capped at the page's
// new cursor so a later page can still report them.
func (c *collectionRepository) listRemovedMemberships(ctx context.Context, userID, afterID, newStokenID int64, done bool) ([]models.RemovedMembership, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if done {
		rows, err = c.db.QueryContext(ctx, listRemovedMembershipsQuery, userID, afterID)
	} else {
		rows, err = c.db.QueryContext(ctx, listRemovedMembershipsBoundedQuery, userID, afterID, newStokenID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	removed := make([]models.RemovedMembership, 0)
	for rows.Next() {
		var r models.RemovedMembership
		if err = rows.Scan(&r.UID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		removed = append(removed, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return removed, nil
}

func (c *collectionRepository) Get(ctx context.Context, userID int64, uid string) (models.Collection, error) {
	row, err := resolveCollection(ctx, c.db, userID, uid, false)
	if err != nil {
		return models.Collection{}, err
	}

	item, err := loadItem(ctx, c.db, row.MainItemID.Int64)
	if err != nil {
		return models.Collection{}, err
	}

	maxStoken, err := collectionMaxStoken(ctx, c.db, row.ID)
	if err != nil {
		return models.Collection{}, err
	}
	stoken, err := stokenUIDByID(ctx, c.db, maxStoken)
	if err != nil {
		return models.Collection{}, err
	}

	return models.Collection{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Item:           item,
		CollectionType: row.TypeUID,
		CollectionKey:  row.CollectionKey,
		AccessLevel:    row.AccessLevel,
		Stoken:         stoken.UID,
	}, nil
}

// Create sets up a collection in one transaction: the collection row, its
// main item with the first revision, and the owner's admin membership.
// Both the revision and the membership mint their own stoken.
func (c *collectionRepository) Create(ctx context.Context, ownerID int64, create models.CollectionCreate) error {
	log := c.logger.With().Str("func", "Create").Int64("ownerID", ownerID).Logger()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var exists bool
	if err = tx.QueryRowContext(ctx, collectionExistsQuery, ownerID, create.Item.UID).Scan(&exists); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrCollectionExists, create.Item.UID)
	}

	var collectionID int64
	if err = tx.QueryRowContext(ctx, insertCollectionQuery, ownerID).Scan(&collectionID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var itemID int64
	err = tx.QueryRowContext(ctx, insertItemQuery,
		create.Item.UID, collectionID, create.Item.Version, create.Item.EncryptionKey).Scan(&itemID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err = tx.ExecContext(ctx, setCollectionMainItemQuery, itemID, collectionID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	revStoken, err := mintStokenTx(ctx, tx)
	if err != nil {
		return err
	}
	if err = applyRevision(ctx, tx, c.blobs, ownerID, collectionID, create.Item.UID, itemID, create.Item.Content, revStoken.ID); err != nil {
		return err
	}

	typeID, err := getOrCreateCollectionType(ctx, tx, ownerID, create.CollectionType)
	if err != nil {
		return err
	}

	memberStoken, err := mintStokenTx(ctx, tx)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, insertMemberQuery,
		collectionID, ownerID, memberStoken.ID, create.CollectionKey, typeID, models.AccessLevelAdmin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	log.Info().Str("collectionUID", create.Item.UID).Msg("collection created")

	return nil
}
