package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avolkhin/go-sync-vault/internal/logger"
)

func TestRevoke_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &memberRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("SELECT user_id, username, password_hash, created_at").
		WithArgs("bob").
		WillReturnRows(sqlmock.
			NewRows([]string{"user_id", "username", "password_hash", "created_at"}).
			AddRow(7, "bob", "hash", time.Now()))
	mock.ExpectQuery("SELECT c.id, c.owner_id").
		WithArgs("collectionuid012345678901234567").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).AddRow(3, 1))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM collection_members").
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO stokens").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectExec("INSERT INTO collection_member_removeds").
		WithArgs(int64(3), int64(7), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Revoke(context.Background(), "collectionuid012345678901234567", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRevoke_MemberNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &memberRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("SELECT user_id, username, password_hash, created_at").
		WithArgs("bob").
		WillReturnRows(sqlmock.
			NewRows([]string{"user_id", "username", "password_hash", "created_at"}).
			AddRow(7, "bob", "hash", time.Now()))
	mock.ExpectQuery("SELECT c.id, c.owner_id").
		WithArgs("collectionuid012345678901234567").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).AddRow(3, 1))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM collection_members").
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Revoke(context.Background(), "collectionuid012345678901234567", "bob")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestUpdateAccessLevel_MintsStoken(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &memberRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("SELECT user_id, username, password_hash, created_at").
		WithArgs("bob").
		WillReturnRows(sqlmock.
			NewRows([]string{"user_id", "username", "password_hash", "created_at"}).
			AddRow(7, "bob", "hash", time.Now()))
	mock.ExpectQuery("SELECT c.id, c.owner_id").
		WithArgs("collectionuid012345678901234567").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).AddRow(3, 1))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO stokens").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectExec("UPDATE collection_members").
		WithArgs(2, int64(101), int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateAccessLevel(context.Background(), "collectionuid012345678901234567", "bob", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
