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

type invitationRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewInvitationRepository(db *DB, log *logger.Logger) InvitationRepository {
	return &invitationRepository{db: db, logger: log}
}

func (r *invitationRepository) ListOutgoing(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error) {
	return r.list(ctx, userID, iterator, limit, false)
}

func (r *invitationRepository) ListIncoming(ctx context.Context, userID int64, iterator *string, limit int) (models.InvitationList, error) {
	return r.list(ctx, userID, iterator, limit, true)
}

func (r *invitationRepository) list(ctx context.Context, userID int64, iterator *string, limit int, incoming bool) (models.InvitationList, error) {
	log := r.logger.With().Str("func", "list").Int64("userID", userID).Bool("incoming", incoming).Logger()

	if limit <= 0 {
		limit = models.DefaultPageLimit
	}

	builder := sq.Select(
		"inv.id", "inv.uid", "inv.version", "u.username",
		"mi.uid AS collection_uid", "fu.username AS from_username",
		"fui.pubkey", "inv.signed_encryption_key", "inv.access_level",
	).
		From("collection_invitations inv").
		Join("users u ON u.user_id = inv.user_id").
		Join("collection_members fm ON fm.id = inv.from_member_id").
		Join("users fu ON fu.user_id = fm.user_id").
		LeftJoin("user_infos fui ON fui.owner_id = fm.user_id").
		Join("collections c ON c.id = fm.collection_id").
		Join("collection_items mi ON mi.id = c.main_item_id").
		OrderBy("inv.id").
		Limit(uint64(limit + 1)).
		PlaceholderFormat(sq.Dollar)
	if incoming {
		builder = builder.Where(sq.Eq{"inv.user_id": userID})
	} else {
		builder = builder.Where(sq.Eq{"fm.user_id": userID})
	}

	if iterator != nil {
		iterID, err := r.invitationID(ctx, userID, *iterator, incoming)
		if err != nil {
			return models.InvitationList{}, err
		}
		builder = builder.Where(sq.Gt{"inv.id": iterID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Msg("error building query")
		return models.InvitationList{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Msg("error listing invitations")
		return models.InvitationList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	invitations := make([]models.Invitation, 0, limit+1)
	for rows.Next() {
		var inv models.Invitation
		err = rows.Scan(&inv.ID, &inv.UID, &inv.Version, &inv.Username,
			&inv.CollectionUID, &inv.FromUsername, &inv.FromPubkey,
			&inv.SignedEncryptionKey, &inv.AccessLevel)
		if err != nil {
			return models.InvitationList{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		invitations = append(invitations, inv)
	}
	if err = rows.Err(); err != nil {
		return models.InvitationList{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	done := len(invitations) <= limit
	if !done {
		invitations = invitations[:limit]
	}

	list := models.InvitationList{Data: invitations, Done: done}
	if len(invitations) > 0 {
		uid := invitations[len(invitations)-1].UID
		list.Iterator = &uid
	}

	return list, nil
}

func (r *invitationRepository) invitationID(ctx context.Context, userID int64, uid string, incoming bool) (int64, error) {
	query := getOutgoingInvitationIDQuery
	if incoming {
		query = getIncomingInvitationIDQuery
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, uid).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrInvitationNotFound, uid)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return id, nil
}

// Create issues an invitation on behalf of an admin member. The inviter
// must hold an admin membership in the collection; a user without one
// cannot see the collection at all.
func (r *invitationRepository) Create(ctx context.Context, fromUserID int64, inv models.InvitationCreate) error {
	log := r.logger.With().Str("func", "Create").Str("collectionUID", inv.CollectionUID).Logger()

	var fromMember models.Member
	err := r.db.QueryRowContext(ctx, getMemberQuery, fromUserID, inv.CollectionUID).
		Scan(&fromMember.ID, &fromMember.CollectionID, &fromMember.UserID,
			&fromMember.Username, &fromMember.AccessLevel, &fromMember.StokenID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrCollectionNotFound, inv.CollectionUID)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if fromMember.AccessLevel != models.AccessLevelAdmin {
		return ErrNotAdmin
	}

	var invitee models.User
	err = r.db.QueryRowContext(ctx, findUserByUsernameQuery, inv.Username).
		Scan(&invitee.UserID, &invitee.Username, &invitee.PasswordHash, &invitee.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrUserNotFound, inv.Username)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	_, err = r.db.ExecContext(ctx, insertInvitationQuery,
		inv.UID, inv.Version, fromMember.ID, invitee.UserID, inv.SignedEncryptionKey, inv.AccessLevel)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrInvitationExists, inv.Username)
		}
		log.Err(err).Msg("error inserting invitation")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	log.Info().Str("username", inv.Username).Msg("invitation created")

	return nil
}

func (r *invitationRepository) DeleteOutgoing(ctx context.Context, userID int64, invitationUID string) error {
	return r.delete(ctx, deleteOutgoingInvitationQuery, userID, invitationUID)
}

func (r *invitationRepository) DeleteIncoming(ctx context.Context, userID int64, invitationUID string) error {
	return r.delete(ctx, deleteIncomingInvitationQuery, userID, invitationUID)
}

func (r *invitationRepository) delete(ctx context.Context, query string, userID int64, invitationUID string) error {
	res, err := r.db.ExecContext(ctx, query, userID, invitationUID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrInvitationNotFound, invitationUID)
	}

	return nil
}

// Accept turns an invitation into a membership in one transaction: the
// member row is created with a fresh stoken, any stale removal tombstone
// is cleared, and the invitation itself is consumed.
func (r *invitationRepository) Accept(ctx context.Context, userID int64, invitationUID string, accept models.InvitationAccept) error {
	log := r.logger.With().Str("func", "Accept").Int64("userID", userID).Logger()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var (
		invitationID int64
		accessLevel  models.AccessLevel
		collectionID int64
		fromUserID   int64
	)
	err = tx.QueryRowContext(ctx, getInvitationForUserQuery, invitationUID, userID).
		Scan(&invitationID, &accessLevel, &collectionID, &fromUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrInvitationNotFound, invitationUID)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var typeID *int64
	if accept.CollectionType != nil {
		id, err := getOrCreateCollectionType(ctx, tx, userID, accept.CollectionType)
		if err != nil {
			return err
		}
		typeID = &id
	}

	stoken, err := mintStokenTx(ctx, tx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, insertMemberQuery,
		collectionID, userID, stoken.ID, accept.EncryptionKey, typeID, accessLevel)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	// A rejoining member must not look removed to their other devices.
	if _, err = tx.ExecContext(ctx, deleteRemovedMembershipQuery, collectionID, userID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if _, err = tx.ExecContext(ctx, deleteInvitationQuery, invitationID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	log.Info().Msg("invitation accepted")

	return nil
}
