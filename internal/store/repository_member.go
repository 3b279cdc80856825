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

type memberRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewMemberRepository(db *DB, log *logger.Logger) MemberRepository {
	return &memberRepository{db: db, logger: log}
}

// GetMember returns the requesting user's own membership in the
// collection. A user without a membership cannot see the collection at
// all, so the miss is reported as [ErrCollectionNotFound].
func (m *memberRepository) GetMember(ctx context.Context, userID int64, collectionUID string) (models.Member, error) {
	var member models.Member
	err := m.db.QueryRowContext(ctx, getMemberQuery, userID, collectionUID).
		Scan(&member.ID, &member.CollectionID, &member.UserID, &member.Username, &member.AccessLevel, &member.StokenID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, fmt.Errorf("%w: %q", ErrCollectionNotFound, collectionUID)
	}
	if err != nil {
		m.logger.Err(err).Str("func", "GetMember").Msg("error querying member")
		return models.Member{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return member, nil
}

// List pages through a collection's members ordered by membership stoken.
func (m *memberRepository) List(ctx context.Context, userID int64, collectionUID string, iterator *models.Stoken, limit int) (models.MemberList, error) {
	log := m.logger.With().Str("func", "List").Str("collectionUID", collectionUID).Logger()

	col, err := resolveCollection(ctx, m.db, userID, collectionUID, false)
	if err != nil {
		return models.MemberList{}, err
	}

	if limit <= 0 {
		limit = models.DefaultPageLimit
	}

	builder := sq.Select("m.id", "m.collection_id", "m.user_id", "u.username", "m.access_level", "COALESCE(m.stoken_id, 0)").
		From("collection_members m").
		Join("users u ON u.user_id = m.user_id").
		Where(sq.Eq{"m.collection_id": col.ID}).
		OrderBy("COALESCE(m.stoken_id, 0)", "m.id").
		Limit(uint64(limit + 1)).
		PlaceholderFormat(sq.Dollar)
	if iterator != nil {
		builder = builder.Where(sq.Gt{"COALESCE(m.stoken_id, 0)": iterator.ID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Msg("error building query")
		return models.MemberList{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Msg("error listing members")
		return models.MemberList{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	members := make([]models.Member, 0, limit+1)
	for rows.Next() {
		var member models.Member
		if err = rows.Scan(&member.ID, &member.CollectionID, &member.UserID, &member.Username, &member.AccessLevel, &member.StokenID); err != nil {
			return models.MemberList{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return models.MemberList{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	done := len(members) <= limit
	if !done {
		members = members[:limit]
	}

	list := models.MemberList{Data: members, Done: done}
	if len(members) > 0 {
		if last := members[len(members)-1].StokenID; last > 0 {
			stoken, err := stokenUIDByID(ctx, m.db, last)
			if err != nil {
				return models.MemberList{}, err
			}
			list.Iterator = &stoken.UID
		}
	}

	return list, nil
}

// Revoke removes the named user's membership and stamps a removal
// tombstone with a fresh stoken so the user's other devices learn about
// the loss of access through sync.
func (m *memberRepository) Revoke(ctx context.Context, collectionUID, username string) error {
	user, err := m.userByUsername(ctx, username)
	if err != nil {
		return err
	}

	return m.revoke(ctx, collectionUID, user.UserID)
}

// Leave is a self-revocation: the member gives up their own access.
func (m *memberRepository) Leave(ctx context.Context, userID int64, collectionUID string) error {
	if _, err := resolveCollection(ctx, m.db, userID, collectionUID, false); err != nil {
		return err
	}

	return m.revoke(ctx, collectionUID, userID)
}

func (m *memberRepository) revoke(ctx context.Context, collectionUID string, userID int64) error {
	log := m.logger.With().Str("func", "revoke").Str("collectionUID", collectionUID).Int64("userID", userID).Logger()

	collectionID, _, err := m.collectionID(ctx, collectionUID)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, deleteMemberQuery, collectionID, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	stoken, err := mintStokenTx(ctx, tx)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, upsertRemovedMembershipQuery, collectionID, userID, stoken.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	log.Info().Msg("membership revoked")

	return nil
}

// UpdateAccessLevel changes a member's access level and stamps the
// membership with a fresh stoken so the change is visible to sync.
func (m *memberRepository) UpdateAccessLevel(ctx context.Context, collectionUID, username string, level models.AccessLevel) error {
	log := m.logger.With().Str("func", "UpdateAccessLevel").Str("collectionUID", collectionUID).Logger()

	user, err := m.userByUsername(ctx, username)
	if err != nil {
		return err
	}
	collectionID, _, err := m.collectionID(ctx, collectionUID)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stoken, err := mintStokenTx(ctx, tx)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, updateMemberAccessLevelQuery, level, stoken.ID, collectionID, user.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (m *memberRepository) collectionID(ctx context.Context, collectionUID string) (collectionID, ownerID int64, err error) {
	err = m.db.QueryRowContext(ctx, getCollectionIDByUIDQuery, collectionUID).Scan(&collectionID, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: %q", ErrCollectionNotFound, collectionUID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return collectionID, ownerID, nil
}

func (m *memberRepository) userByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := m.db.QueryRowContext(ctx, findUserByUsernameQuery, username).
		Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrMemberNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}
