package service

import "errors"

// Validation and authentication errors returned by the service layer.
// Handlers map these onto HTTP statuses.
var (
	// ErrInvalidCredentials is returned on login when the username or
	// password does not match. The two cases are indistinguishable so
	// that usernames cannot be probed.
	ErrInvalidCredentials = errors.New("wrong username or password")

	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingField is wrapped with the field name when a required
	// request field is empty.
	ErrMissingField = errors.New("required field is missing")

	// ErrMalformedUID is returned when a uid does not match the expected
	// shape.
	ErrMalformedUID = errors.New("malformed uid")

	// ErrInvalidAccessLevel is returned when an access level is outside
	// the defined set.
	ErrInvalidAccessLevel = errors.New("invalid access level")

	// ErrSelfInvite is returned when a user invites themselves.
	ErrSelfInvite = errors.New("cannot invite yourself")

	// ErrTooManyItems is returned when a batch or fetch request exceeds
	// the per-request item limit.
	ErrTooManyItems = errors.New("too many items in request")
)
