package models

// ChunkRef references one content-addressed chunk from a revision.
//
// Content is optional: batch requests may inline a chunk body together
// with its uid, in which case the server stores the chunk as part of the
// same transaction. A reference without a body requires the chunk to have
// been uploaded beforehand.
type ChunkRef struct {
	UID     string `json:"uid"`
	Content []byte `json:"content,omitempty"`
}

// Revision is an immutable snapshot of an item: an opaque encrypted meta
// blob, a deletion flag, and the ordered chunk list that reconstructs the
// item's encrypted body. Revisions are never mutated after creation;
// editing an item means creating a new revision and flipping which one is
// current.
type Revision struct {
	// ID is the internal row id, used as the iterator for revision
	// history listing. Never exposed via JSON.
	ID int64 `json:"-"`

	UID     string     `json:"uid"`
	Meta    []byte     `json:"meta"`
	Deleted bool       `json:"deleted"`
	Chunks  []ChunkRef `json:"chunks"`

	// StokenID is the internal order of the stoken minted for this
	// revision. Persistence-layer only.
	StokenID int64 `json:"-"`
}

// Item is a versioned named blob inside a collection. The uid is stable
// across revisions and unique within the collection; Content holds the
// current revision.
type Item struct {
	ID           int64 `json:"-"`
	CollectionID int64 `json:"-"`

	UID string `json:"uid"`

	// Version is the client-side schema version of the item payload.
	// Opaque to the server and immutable after the first write.
	Version int `json:"version"`

	// EncryptionKey is the item's symmetric key, itself encrypted with
	// the collection key. Null for the main item.
	EncryptionKey []byte `json:"encryptionKey,omitempty"`

	// Etag is the uid of the item's current revision as known to the
	// client. On writes it is the expected prior state: nil means the
	// item must not exist yet.
	Etag *string `json:"etag"`

	Content Revision `json:"content"`
}

// ItemDep asserts the unchanged state of an item that a batch depends on
// but does not modify.
type ItemDep struct {
	UID  string  `json:"uid"`
	Etag *string `json:"etag"`
}
