package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

type userRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewUserRepository(db *DB, log *logger.Logger) UserRepository {
	return &userRepository{db: db, logger: log}
}

// CreateUser registers a user together with their public account info in
// one transaction.
func (u *userRepository) CreateUser(ctx context.Context, user models.User, info models.UserInfo) (models.User, error) {
	log := u.logger.With().Str("func", "CreateUser").Logger()

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("error beginning transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var created models.User
	err = tx.QueryRowContext(ctx, createUserQuery, user.Username, user.PasswordHash).
		Scan(&created.UserID, &created.Username, &created.PasswordHash, &created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %q", ErrUsernameTaken, user.Username)
		}
		log.Err(err).Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	_, err = tx.ExecContext(ctx, createUserInfoQuery,
		created.UserID, info.Version, info.LoginPubkey, info.Pubkey, info.EncryptedContent, info.Salt)
	if err != nil {
		log.Err(err).Msg("error inserting user info")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("error committing transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	log.Info().Str("username", created.Username).Msg("user created")

	return created, nil
}

func (u *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := u.db.QueryRowContext(ctx, findUserByUsernameQuery, username).
		Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		u.logger.Err(err).Str("func", "FindUserByUsername").Msg("error querying user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

func (u *userRepository) GetUserProfile(ctx context.Context, username string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := u.db.QueryRowContext(ctx, getUserProfileQuery, username).Scan(&profile.Pubkey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, ErrUserNotFound
	}
	if err != nil {
		u.logger.Err(err).Str("func", "GetUserProfile").Msg("error querying user profile")
		return models.UserProfile{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return profile, nil
}
