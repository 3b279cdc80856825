package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/go-sync-vault/internal/service"
	"github.com/avolkhin/go-sync-vault/models"
)

func TestSignup_Created(t *testing.T) {
	auth := &mockAuthService{
		signupFn: func(_ context.Context, req models.SignupRequest) (models.LoginResponse, error) {
			return models.LoginResponse{
				Token: "signed.jwt.token",
				User:  models.User{UserID: 1, Username: req.User.Username},
			}, nil
		},
	}
	h := newHandlerWithAuth(auth)

	body := `{"user":{"username":"alice"},"password":"secret"}`
	req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/api/v1/authentication/signup", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestSignup_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(&mockAuthService{})

	req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/api/v1/authentication/signup", strings.NewReader("{not json")))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, _ models.LoginRequest) (models.LoginResponse, error) {
			return models.LoginResponse{}, service.ErrInvalidCredentials
		},
	}
	h := newHandlerWithAuth(auth)

	body := `{"username":"alice","password":"wrong"}`
	req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/api/v1/authentication/login", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var apiErr models.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	assert.Equal(t, "login_failed", apiErr.Code)
}

func TestLogout_NoContent(t *testing.T) {
	h := newHandlerWithAuth(&mockAuthService{})

	req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/api/v1/authentication/logout", nil))
	rec := httptest.NewRecorder()

	h.logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
