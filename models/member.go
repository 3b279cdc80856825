package models

// Member grants one user one access level on a collection, together with
// a per-member wrapped copy of the collection key. Each grant or access
// change carries its own stoken so membership events are independently
// sync-visible.
type Member struct {
	ID           int64 `json:"-"`
	CollectionID int64 `json:"-"`
	UserID       int64 `json:"-"`

	Username    string      `json:"username"`
	AccessLevel AccessLevel `json:"accessLevel"`

	// StokenID orders this membership event relative to all other
	// changes in the collection. Persistence-layer only.
	StokenID int64 `json:"-"`
}

// RemovedMembership is the sync-visible tombstone of a revoked
// membership: the removed user's other devices learn the loss of access
// by observing the tombstone's stoken, even though they can no longer
// query the collection itself.
type RemovedMembership struct {
	UID string `json:"uid"`
}

// MemberUpdate changes a member's access level.
type MemberUpdate struct {
	AccessLevel AccessLevel `json:"accessLevel"`
}
