package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

// maxChunkSize caps a single chunk upload body.
const maxChunkSize = 32 << 20

func (h *Handler) uploadChunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxChunkSize+1))
	if err != nil {
		log.Warn().Err(err).Msg("error reading chunk body")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "error reading request body"})
		return
	}
	if len(body) > maxChunkSize {
		writeJSON(w, r, http.StatusRequestEntityTooLarge, models.APIError{Code: "chunk_too_large", Detail: "chunk exceeds the maximum allowed size"})
		return
	}

	err = h.services.Chunk.Upload(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), chi.URLParam(r, "chunkUID"), body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) downloadChunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	body, err := h.services.Chunk.Download(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), chi.URLParam(r, "chunkUID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing chunk body")
	}
}
