package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avolkhin/go-sync-vault/internal/logger"
)

func TestResolveStoken_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &stokenRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("FROM stokens").
		WithArgs("abcdefghijklmnopqrstuvwxyz012345").
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid"}).AddRow(42, "abcdefghijklmnopqrstuvwxyz012345"))

	stoken, err := repo.Resolve(context.Background(), "abcdefghijklmnopqrstuvwxyz012345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stoken.ID != 42 {
		t.Errorf("expected id 42, got %d", stoken.ID)
	}
}

func TestResolveStoken_Unknown(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &stokenRepository{db: db, logger: logger.Nop()}

	mock.ExpectQuery("FROM stokens").
		WithArgs("unknownunknownunknownunknown1234").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Resolve(context.Background(), "unknownunknownunknownunknown1234")
	if !errors.Is(err, ErrInvalidStoken) {
		t.Fatalf("expected ErrInvalidStoken, got %v", err)
	}
}
