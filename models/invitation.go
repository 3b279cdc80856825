package models

// Invitation is a pending, signed, not-yet-accepted grant from one
// collection member to a candidate user. Accepting it atomically creates
// a member row and deletes the invitation.
type Invitation struct {
	ID           int64 `json:"-"`
	FromMemberID int64 `json:"-"`
	UserID       int64 `json:"-"`

	UID     string `json:"uid"`
	Version int    `json:"version"`

	// Username is the invitee.
	Username string `json:"username"`

	// CollectionUID identifies the collection the invitation grants
	// access to.
	CollectionUID string `json:"collection"`

	// FromUsername and FromPubkey identify the inviting member so the
	// invitee can verify the signature on the wrapped key.
	FromUsername string `json:"fromUsername"`
	FromPubkey   []byte `json:"fromPubkey"`

	// SignedEncryptionKey is the collection key wrapped for the invitee
	// and signed by the inviter. Opaque to the server.
	SignedEncryptionKey []byte `json:"signedEncryptionKey"`

	AccessLevel AccessLevel `json:"accessLevel"`
}

// InvitationAccept is the payload for accepting an invitation: the
// collection key re-wrapped by the invitee for themselves, plus the
// collection type label the invitee files the collection under.
type InvitationAccept struct {
	CollectionType []byte `json:"collectionType,omitempty"`
	EncryptionKey  []byte `json:"encryptionKey"`
}
