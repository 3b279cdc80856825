package models

// AccessLevel describes what a collection member is allowed to do.
//
// The numeric values are part of the wire protocol and must not change.
type AccessLevel int

const (
	// AccessLevelReadOnly members can list and download but never write.
	AccessLevelReadOnly AccessLevel = 0

	// AccessLevelAdmin members can write and additionally manage
	// membership: invite users, revoke members, change access levels.
	AccessLevelAdmin AccessLevel = 1

	// AccessLevelReadWrite members can write item batches and chunks but
	// cannot manage membership.
	AccessLevelReadWrite AccessLevel = 2
)

// Valid reports whether l is one of the defined access levels.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessLevelReadOnly, AccessLevelAdmin, AccessLevelReadWrite:
		return true
	}
	return false
}

// CanWrite reports whether a member with this level may modify collection
// content (item batches, chunk uploads).
func (l AccessLevel) CanWrite() bool {
	return l != AccessLevelReadOnly
}
