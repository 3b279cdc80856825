package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/go-sync-vault/internal/config"
	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

// fakeUserRepository is an in-memory store.UserRepository for service
// tests.
type fakeUserRepository struct {
	users  map[string]models.User
	infos  map[string]models.UserInfo
	nextID int64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users: make(map[string]models.User),
		infos: make(map[string]models.UserInfo),
	}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user models.User, info models.UserInfo) (models.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return models.User{}, store.ErrUsernameTaken
	}

	f.nextID++
	user.UserID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.Username] = user
	f.infos[user.Username] = info

	return user, nil
}

func (f *fakeUserRepository) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserProfile(_ context.Context, username string) (models.UserProfile, error) {
	info, ok := f.infos[username]
	if !ok {
		return models.UserProfile{}, store.ErrUserNotFound
	}
	return models.UserProfile{Pubkey: info.Pubkey}, nil
}

func newTestAuthService(users store.UserRepository) AuthService {
	return NewAuthService(users, config.Auth{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "sync-vault-test",
		TokenDuration: time.Hour,
	}, logger.Nop())
}

func validSignup() models.SignupRequest {
	return models.SignupRequest{
		User:             models.User{Username: "Alice"},
		Password:         "correct horse battery staple",
		Salt:             []byte("salt"),
		LoginPubkey:      []byte("login-pubkey"),
		Pubkey:           []byte("pubkey"),
		EncryptedContent: []byte("content"),
	}
}

func TestSignup_Validation(t *testing.T) {
	auth := newTestAuthService(newFakeUserRepository())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.SignupRequest)
	}{
		{"empty username", func(r *models.SignupRequest) { r.User.Username = "" }},
		{"empty password", func(r *models.SignupRequest) { r.Password = "" }},
		{"missing login pubkey", func(r *models.SignupRequest) { r.LoginPubkey = nil }},
		{"missing pubkey", func(r *models.SignupRequest) { r.Pubkey = nil }},
		{"missing salt", func(r *models.SignupRequest) { r.Salt = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			_, err := auth.Signup(ctx, req)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestSignupLoginRoundTrip(t *testing.T) {
	users := newFakeUserRepository()
	auth := newTestAuthService(users)
	ctx := context.Background()

	signedUp, err := auth.Signup(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, "alice", signedUp.User.Username, "usernames are stored lowercase")
	assert.NotEmpty(t, signedUp.Token)

	// Password hash never stores the plaintext.
	stored := users.users["alice"]
	assert.NotContains(t, stored.PasswordHash, "correct horse")

	loggedIn, err := auth.Login(ctx, models.LoginRequest{
		Username: "ALICE",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	user, err := auth.VerifyToken(loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.UserID, user.UserID)
	assert.Equal(t, "alice", user.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newFakeUserRepository()
	auth := newTestAuthService(users)
	ctx := context.Background()

	_, err := auth.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, err = auth.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, models.LoginRequest{Username: "nobody", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown user is indistinguishable from wrong password")
}

func TestVerifyToken_Invalid(t *testing.T) {
	auth := newTestAuthService(newFakeUserRepository())

	_, err := auth.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different key must be rejected.
	other := NewAuthService(newFakeUserRepository(), config.Auth{
		TokenSignKey:  "other-key",
		TokenDuration: time.Hour,
	}, logger.Nop())
	resp, err := other.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = auth.VerifyToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
