package http

import (
	"errors"
	"net/http"

	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/service"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrInvalidToken:       http.StatusUnauthorized,

	service.ErrMissingField:       http.StatusBadRequest,
	service.ErrMalformedUID:       http.StatusBadRequest,
	service.ErrInvalidAccessLevel: http.StatusBadRequest,
	service.ErrSelfInvite:         http.StatusBadRequest,
	service.ErrTooManyItems:       http.StatusBadRequest,
	store.ErrInvalidStoken:        http.StatusBadRequest,

	store.ErrNoWriteAccess: http.StatusForbidden,
	store.ErrNotAdmin:      http.StatusForbidden,

	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrCollectionNotFound: http.StatusNotFound,
	store.ErrItemNotFound:       http.StatusNotFound,
	store.ErrRevisionNotFound:   http.StatusNotFound,
	store.ErrChunkNotFound:      http.StatusNotFound,
	store.ErrMemberNotFound:     http.StatusNotFound,
	store.ErrInvitationNotFound: http.StatusNotFound,

	store.ErrUsernameTaken:    http.StatusConflict,
	store.ErrCollectionExists: http.StatusConflict,
	store.ErrChunkExists:      http.StatusConflict,
	store.ErrStaleStoken:      http.StatusConflict,
	store.ErrInvitationExists: http.StatusConflict,
	store.ErrAlreadyMember:    http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

var errorCodeMap = map[error]string{
	service.ErrInvalidCredentials: "login_failed",
	service.ErrInvalidToken:       "unauthorized",
	service.ErrMissingField:       "field_required",
	service.ErrMalformedUID:       "malformed_uid",
	service.ErrInvalidAccessLevel: "invalid_access_level",
	service.ErrSelfInvite:         "no_self_invite",
	service.ErrTooManyItems:       "limit_exceeded",
	store.ErrInvalidStoken:        "bad_stoken",
	store.ErrStaleStoken:          "stale_stoken",
	store.ErrUsernameTaken:        "user_exists",
	store.ErrCollectionExists:     "unique_uid",
	store.ErrChunkExists:          "chunk_exists",
	store.ErrInvitationExists:     "invitation_exists",
	store.ErrAlreadyMember:        "already_member",
	store.ErrNoWriteAccess:        "permission_denied",
	store.ErrNotAdmin:             "permission_denied",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func codeFromError(err error, status int) string {
	for target, code := range errorCodeMap {
		if errors.Is(err, target) {
			return code
		}
	}

	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		return "generic"
	}
}

// respondError writes the machine-readable error body for any service or
// store error. Batch conflicts get their structured 409 report; internal
// errors never leak their detail to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var conflict *store.BatchConflictError
	if errors.As(err, &conflict) {
		log.Warn().Int("items", len(conflict.Items)).Int("deps", len(conflict.Deps)).Msg("batch rejected")
		writeJSON(w, r, http.StatusConflict, models.BatchConflict{
			Code:  "conflict",
			Items: conflict.Items,
			Deps:  conflict.Deps,
		})
		return
	}

	status := statusFromError(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("internal error")
		detail = http.StatusText(http.StatusInternalServerError)
	} else {
		log.Warn().Err(err).Int("status", status).Send()
	}

	writeJSON(w, r, status, models.APIError{Code: codeFromError(err, status), Detail: detail})
}
