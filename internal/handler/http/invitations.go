package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

func (h *Handler) listOutgoingInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	list, err := h.services.Invitation.ListOutgoing(ctx, user.UserID, optionalQuery(r, "iterator"), limitQuery(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) listIncomingInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	list, err := h.services.Invitation.ListIncoming(ctx, user.UserID, optionalQuery(r, "iterator"), limitQuery(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) createInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var inv models.InvitationCreate
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	if err := h.services.Invitation.Create(ctx, user, inv); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) deleteOutgoingInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	if err := h.services.Invitation.DeleteOutgoing(ctx, user.UserID, chi.URLParam(r, "invitationUID")); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteIncomingInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := userFromContext(ctx)

	if err := h.services.Invitation.DeleteIncoming(ctx, user.UserID, chi.URLParam(r, "invitationUID")); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	user, _ := userFromContext(ctx)

	var accept models.InvitationAccept
	if err := json.NewDecoder(r.Body).Decode(&accept); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	err := h.services.Invitation.Accept(ctx, user.UserID, chi.URLParam(r, "invitationUID"), accept)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) fetchUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := r.URL.Query().Get("username")
	profile, err := h.services.Invitation.FetchUserProfile(ctx, username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, profile)
}
