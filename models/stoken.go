package models

// Stoken is an opaque, strictly-ordered sync token. Its uid is random and
// carries no meaning; the only meaningful property is the relative order
// of the internal id, which is allocated by insertion order. Every
// mutating event (new revision, membership grant or change, membership
// removal) stamps exactly one fresh stoken.
type Stoken struct {
	// ID is the internal, strictly increasing allocation order.
	// Never exposed to clients.
	ID int64 `json:"-"`

	UID string `json:"stoken"`
}
