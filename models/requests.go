package models

// FetchUpdatesLimit is the maximum number of (uid, etag) pairs accepted
// by a single fetch-updates call.
const FetchUpdatesLimit = 200

// DefaultPageLimit is the page size used when a list request does not
// specify one.
const DefaultPageLimit = 50

// BatchRequest is the payload of the batch and transaction endpoints:
// the items to write and the deps whose state is asserted but not
// modified. The optional stoken guard travels in the query string.
type BatchRequest struct {
	Items []Item    `json:"items"`
	Deps  []ItemDep `json:"deps,omitempty"`
}

// ListMultiRequest filters a collection listing by collection-type uids.
type ListMultiRequest struct {
	CollectionTypes [][]byte `json:"collectionTypes"`
}

// SignupRequest creates a new account together with its public key
// material. The password is hashed server-side; all key blobs are opaque.
type SignupRequest struct {
	User     User   `json:"user"`
	Password string `json:"password"`

	Salt             []byte `json:"salt"`
	LoginPubkey      []byte `json:"loginPubkey"`
	Pubkey           []byte `json:"pubkey"`
	EncryptedContent []byte `json:"encryptedContent"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// InvitationCreate is the payload of the outgoing-invitation endpoint.
type InvitationCreate struct {
	UID                 string      `json:"uid"`
	Version             int         `json:"version"`
	Username            string      `json:"username"`
	CollectionUID       string      `json:"collection"`
	SignedEncryptionKey []byte      `json:"signedEncryptionKey"`
	AccessLevel         AccessLevel `json:"accessLevel"`
}
