package models

import "time"

// User represents an account entity used for authentication and as the
// owner of collections and memberships.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Username is the unique login identifier, stored lowercase.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed via JSON.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"-"`
}

// UserInfo carries the user's public key material and salt. It is not
// versioned by stoken and is not part of the sync protocol; clients fetch
// it when verifying invitations.
type UserInfo struct {
	OwnerID int64 `json:"-"`

	Version int `json:"version"`

	// LoginPubkey verifies login challenges. Opaque to the server.
	LoginPubkey []byte `json:"loginPubkey"`

	// Pubkey is the user's public encryption key, used by other users
	// to wrap invitation keys.
	Pubkey []byte `json:"pubkey"`

	// EncryptedContent is the user's encrypted account-level key
	// material. Opaque to the server.
	EncryptedContent []byte `json:"encryptedContent"`

	Salt []byte `json:"salt"`
}

// UserProfile is the public subset of a user's key material exposed to
// other users (e.g. when preparing an invitation).
type UserProfile struct {
	Pubkey []byte `json:"pubkey"`
}
