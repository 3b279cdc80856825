package http

import (
	"encoding/json"
	"net/http"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	resp, err := h.services.Auth.Signup(ctx, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, resp)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("invalid JSON was passed")
		writeJSON(w, r, http.StatusBadRequest, models.APIError{Code: "bad_request", Detail: "invalid JSON was passed"})
		return
	}

	resp, err := h.services.Auth.Login(ctx, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// logout acknowledges the client discarding its token. Tokens are
// stateless and expire on their own; there is no server-side session to
// tear down.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
