package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/models"
)

type ctxKey int

const userCtxKey ctxKey = iota

// auth enforces bearer-token authentication. On success the
// authenticated user is stored in the request context for downstream
// handlers.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Warn().Err(ErrEmptyAuthorizationHeader).Send()
			respondUnauthorized(w, r, ErrEmptyAuthorizationHeader.Error())
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Warn().Err(err).Send()
			respondUnauthorized(w, r, err.Error())
			return
		}

		user, err := h.services.Auth.VerifyToken(tokenString)
		if err != nil {
			log.Warn().Err(err).Msg("token verification failed")
			respondUnauthorized(w, r, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	writeJSON(w, r, http.StatusUnauthorized, models.APIError{Code: "unauthorized", Detail: detail})
}

// getTokenFromAuthHeader extracts the token from a "Bearer <token>"
// Authorization header value.
func getTokenFromAuthHeader(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// userFromContext returns the authenticated user placed in the context by
// the auth middleware.
func userFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userCtxKey).(models.User)
	return user, ok
}
