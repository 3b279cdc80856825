package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkhin/go-sync-vault/internal/config"
	"github.com/avolkhin/go-sync-vault/internal/logger"
	"github.com/avolkhin/go-sync-vault/internal/store"
	"github.com/avolkhin/go-sync-vault/models"
)

const defaultTokenDuration = 24 * time.Hour

// TokenClaims is the JWT payload of an issued bearer token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

type authService struct {
	users  store.UserRepository
	cfg    config.Auth
	logger *logger.Logger
}

func NewAuthService(users store.UserRepository, cfg config.Auth, log *logger.Logger) AuthService {
	return &authService{users: users, cfg: cfg, logger: log}
}

// Signup registers a new account and immediately issues a bearer token
// for it.
func (a *authService) Signup(ctx context.Context, req models.SignupRequest) (models.LoginResponse, error) {
	log := a.logger.With().Str("func", "Signup").Logger()

	username := strings.ToLower(strings.TrimSpace(req.User.Username))
	switch {
	case username == "":
		return models.LoginResponse{}, fmt.Errorf("%w: username", ErrMissingField)
	case req.Password == "":
		return models.LoginResponse{}, fmt.Errorf("%w: password", ErrMissingField)
	case len(req.LoginPubkey) == 0:
		return models.LoginResponse{}, fmt.Errorf("%w: loginPubkey", ErrMissingField)
	case len(req.Pubkey) == 0:
		return models.LoginResponse{}, fmt.Errorf("%w: pubkey", ErrMissingField)
	case len(req.Salt) == 0:
		return models.LoginResponse{}, fmt.Errorf("%w: salt", ErrMissingField)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("error hashing password")
		return models.LoginResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := a.users.CreateUser(ctx,
		models.User{Username: username, PasswordHash: string(hash)},
		models.UserInfo{
			Version:          1,
			LoginPubkey:      req.LoginPubkey,
			Pubkey:           req.Pubkey,
			EncryptedContent: req.EncryptedContent,
			Salt:             req.Salt,
		})
	if err != nil {
		return models.LoginResponse{}, err
	}

	return a.issueToken(user)
}

// Login verifies the credentials and issues a bearer token. A missing
// user and a wrong password are reported identically.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return models.LoginResponse{}, ErrInvalidCredentials
	}

	user, err := a.users.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.LoginResponse{}, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return models.LoginResponse{}, ErrInvalidCredentials
	}

	return a.issueToken(user)
}

func (a *authService) issueToken(user models.User) (models.LoginResponse, error) {
	duration := a.cfg.TokenDuration
	if duration <= 0 {
		duration = defaultTokenDuration
	}

	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.cfg.TokenIssuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
		Username: user.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.TokenSignKey))
	if err != nil {
		a.logger.Err(err).Str("func", "issueToken").Msg("error signing token")
		return models.LoginResponse{}, fmt.Errorf("signing token: %w", err)
	}

	return models.LoginResponse{Token: token, User: user}, nil
}

// VerifyToken checks a bearer token's signature and expiry and returns
// the user identity embedded in it.
func (a *authService) VerifyToken(tokenString string) (models.User, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(a.cfg.TokenSignKey), nil
	})
	if err != nil || !token.Valid {
		return models.User{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	return models.User{UserID: userID, Username: claims.Username}, nil
}
