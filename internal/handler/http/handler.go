// Package http implements the HTTP transport layer of the sync server:
// routing, authentication middleware, request decoding, and the mapping
// of service errors onto HTTP statuses. Handlers stay thin and delegate
// all domain logic to the service layer.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/service"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromRequest(r).Err(err).Msg("error encoding response body")
	}
}
