package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	list, err := h.services.Member.List(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), optionalQuery(r, "iterator"), limitQuery(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) revokeMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	err := h.services.Member.Revoke(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) patchMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var update models.MemberUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	err := h.services.Member.UpdateAccessLevel(ctx, user.UserID,
		chi.URLParam(r, "collectionUID"), chi.URLParam(r, "username"), update)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) leaveCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	if err := h.services.Member.Leave(ctx, user.UserID, chi.URLParam(r, "collectionUID")); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
