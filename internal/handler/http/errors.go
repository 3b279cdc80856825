package http

import "errors"

var (
	ErrEmptyAuthorizationHeader   = errors.New("empty Authorization header")
	ErrInvalidAuthorizationHeader = errors.New("invalid Authorization header: expected 'Bearer <token>'")
	ErrEmptyToken                 = errors.New("empty bearer token")
)
