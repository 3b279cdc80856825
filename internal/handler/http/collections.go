package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	list, err := h.services.Collection.List(ctx, user.UserID, optionalQuery(r, "stoken"), limitQuery(r), nil)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) listCollectionsMulti(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var req models.ListMultiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	types := req.CollectionTypes
	if types == nil {
		types = [][]byte{}
	}

	list, err := h.services.Collection.List(ctx, user.UserID, optionalQuery(r, "stoken"), limitQuery(r), types)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var req models.CollectionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	collection, err := h.services.Collection.Create(ctx, user.UserID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, collection)
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	collection, err := h.services.Collection.Get(ctx, user.UserID, chi.URLParam(r, "collectionUID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, collection)
}
