package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	list, err := h.services.Item.List(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"),
		optionalQuery(r, "stoken"),
		limitQuery(r),
		boolQuery(r, "withCollection"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	item, err := h.services.Item.Get(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), chi.URLParam(r, "itemUID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, item)
}

func (h *Handler) listRevisions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	list, err := h.services.Item.ListRevisions(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), chi.URLParam(r, "itemUID"),
		optionalQuery(r, "iterator"), limitQuery(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) fetchUpdates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var pairs []models.ItemDep
	if err := json.NewDecoder(r.Body).Decode(&pairs); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	list, err := h.services.Item.FetchUpdates(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), pairs, optionalQuery(r, "stoken"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) transaction(w http.ResponseWriter, r *http.Request) {
	h.applyBatch(w, r, h.services.Item.Transaction)
}

func (h *Handler) batch(w http.ResponseWriter, r *http.Request) {
	h.applyBatch(w, r, h.services.Item.Batch)
}

func (h *Handler) applyBatch(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID int64, collectionUID string, batch models.BatchRequest, stoken *string) error) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var batch models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	err := apply(ctx, user.UserID, chi.URLParam(r, "collectionUID"), batch, optionalQuery(r, "stoken"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
