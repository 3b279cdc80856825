package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestCreateUser_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &userRepository{db: db, logger: logger.Nop()}

	now := time.Now()
	user := models.User{Username: "alice", PasswordHash: "hash"}
	info := models.UserInfo{Version: 1, LoginPubkey: []byte{1}, Pubkey: []byte{2}, EncryptedContent: []byte{3}, Salt: []byte{4}}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.PasswordHash).
		WillReturnRows(sqlmock.
			NewRows([]string{"user_id", "username", "password_hash", "created_at"}).
			AddRow(1, user.Username, user.PasswordHash, now))
	mock.ExpectExec("INSERT INTO user_infos").
		WithArgs(int64(1), info.Version, info.LoginPubkey, info.Pubkey, info.EncryptedContent, info.Salt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateUser(context.Background(), user, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &userRepository{db: db, logger: logger.Nop()}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectRollback()

	_, err := repo.CreateUser(context.Background(), models.User{Username: "alice"}, models.UserInfo{})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestFindUserByUsername_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &userRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("SELECT user_id, username, password_hash, created_at").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUserProfile_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &userRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("SELECT ui.pubkey").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"pubkey"}).AddRow([]byte{7, 7}))

	profile, err := repo.GetUserProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profile.Pubkey) != 2 {
		t.Errorf("expected 2-byte pubkey, got %v", profile.Pubkey)
	}
}
