package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/service"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

type mockChunkService struct {
	uploadFn   func(ctx context.Context, userID int64, collectionUID, chunkUID string, body []byte) error
	downloadFn func(ctx context.Context, userID int64, collectionUID, chunkUID string) ([]byte, error)
}

func (m *mockChunkService) Upload(ctx context.Context, userID int64, collectionUID, chunkUID string, body []byte) error {
	return m.uploadFn(ctx, userID, collectionUID, chunkUID, body)
}

func (m *mockChunkService) Download(ctx context.Context, userID int64, collectionUID, chunkUID string) ([]byte, error) {
	return m.downloadFn(ctx, userID, collectionUID, chunkUID)
}

func newChunkRouter(chunks service.ChunkService) http.Handler {
	auth := &mockAuthService{
		verifyFn: func(string) (models.User, error) {
			return models.User{UserID: 7, Username: "alice"}, nil
		},
	}
	h := NewHandler(&service.Services{Auth: auth, Chunk: chunks}, logger.Nop())
	return h.Init()
}

const chunkURL = "/api/v1/collection/collectionuid012345678901234567/chunk/chunkuid012345678901234567890123"

func TestUploadChunk_Created(t *testing.T) {
	var gotBody []byte
	chunks := &mockChunkService{
		uploadFn: func(_ context.Context, userID int64, collectionUID, chunkUID string, body []byte) error {
			assert.Equal(t, int64(7), userID)
			assert.Equal(t, "collectionuid012345678901234567", collectionUID)
			assert.Equal(t, "chunkuid012345678901234567890123", chunkUID)
			gotBody = body
			return nil
		},
	}
	router := newChunkRouter(chunks)

	req := httptest.NewRequest(http.MethodPut, chunkURL, bytes.NewReader([]byte("encrypted-chunk-bytes")))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []byte("encrypted-chunk-bytes"), gotBody)
}

func TestUploadChunk_TooLarge(t *testing.T) {
	chunks := &mockChunkService{
		uploadFn: func(_ context.Context, _ int64, _, _ string, _ []byte) error {
			t.Fatal("oversized chunks must never reach the service")
			return nil
		},
	}
	router := newChunkRouter(chunks)

	req := httptest.NewRequest(http.MethodPut, chunkURL, bytes.NewReader(make([]byte, maxChunkSize+1)))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadChunk_Duplicate(t *testing.T) {
	chunks := &mockChunkService{
		uploadFn: func(_ context.Context, _ int64, _, _ string, _ []byte) error {
			return store.ErrChunkExists
		},
	}
	router := newChunkRouter(chunks)

	req := httptest.NewRequest(http.MethodPut, chunkURL, bytes.NewReader([]byte("x")))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDownloadChunk_OctetStream(t *testing.T) {
	chunks := &mockChunkService{
		downloadFn: func(_ context.Context, _ int64, _, _ string) ([]byte, error) {
			return []byte("encrypted-chunk-bytes"), nil
		},
	}
	router := newChunkRouter(chunks)

	req := httptest.NewRequest(http.MethodGet, chunkURL+"/download", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "encrypted-chunk-bytes", rec.Body.String())
}
