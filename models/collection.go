package models

// Collection is an encrypted container owned by a user. It is represented
// by a distinguished main item: the collection's uid is the main item's
// uid and its etag is the main item's current revision uid.
//
// Stoken is derived, not stored: the most recent stoken across all the
// collection's item revisions and membership changes. AccessLevel and
// CollectionKey are per-requesting-member attributes filled in when the
// collection is loaded for a specific user.
type Collection struct {
	ID      int64 `json:"-"`
	OwnerID int64 `json:"-"`

	Item Item `json:"item"`

	// CollectionType is the opaque uid of the member's collection type
	// label, if any. Not used for access control.
	CollectionType []byte `json:"collectionType,omitempty"`

	// CollectionKey is the collection's symmetric key wrapped for the
	// requesting member.
	CollectionKey []byte `json:"collectionKey"`

	AccessLevel AccessLevel `json:"accessLevel"`

	Stoken string `json:"stoken"`
}

// UID returns the collection's external identifier, which is the uid of
// its main item.
func (c *Collection) UID() string {
	return c.Item.UID
}

// CollectionCreate is the payload for creating a new collection: the
// main item (whose first revision becomes the collection content), the
// collection key wrapped for the owner, and an optional collection type.
type CollectionCreate struct {
	Item           Item   `json:"item"`
	CollectionType []byte `json:"collectionType,omitempty"`
	CollectionKey  []byte `json:"collectionKey"`
}
