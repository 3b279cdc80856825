package store

import (
	"errors"
	"fmt"

	"github.com/avolkhin/go-sync-vault/models"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameTaken is returned when an attempt to register a new user
	// fails because a user with the same username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUserNotFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrUserNotFound = errors.New("no user was found")

	// ErrCollectionNotFound is returned when a collection does not exist
	// or is not visible to the requesting user. The two cases are
	// deliberately indistinguishable so that access scope is never
	// leaked.
	ErrCollectionNotFound = errors.New("collection was not found")

	// ErrItemNotFound is returned when an item uid does not exist in the
	// target collection.
	ErrItemNotFound = errors.New("item was not found")

	// ErrRevisionNotFound is returned when a revision-history iterator
	// does not name an existing revision of the item.
	ErrRevisionNotFound = errors.New("revision was not found")

	// ErrChunkNotFound is returned when a referenced chunk was never
	// uploaded to the collection.
	ErrChunkNotFound = errors.New("chunk was not found")

	// ErrChunkExists is returned when a chunk upload targets a uid that
	// already exists in the collection. Chunk content is immutable, so
	// re-uploads are rejected rather than overwritten.
	ErrChunkExists = errors.New("chunk already exists")

	// ErrCollectionExists is returned when creating a collection whose
	// main item uid is already taken by another collection of the owner.
	ErrCollectionExists = errors.New("collection with this uid already exists")

	// ErrInvalidStoken is returned when a sync cursor does not name any
	// known stoken.
	ErrInvalidStoken = errors.New("invalid stoken")

	// ErrStaleStoken is returned by the write engine when the caller's
	// expected collection stoken no longer matches the current one:
	// another batch has been applied since the caller last synced.
	ErrStaleStoken = errors.New("stoken is too old")

	// ErrNoWriteAccess is returned when a read-only member submits a
	// write.
	ErrNoWriteAccess = errors.New("write access required")

	// ErrNotAdmin is returned when a non-admin member attempts a
	// membership operation.
	ErrNotAdmin = errors.New("admin access required")

	// ErrMemberNotFound is returned when the named user is not a member
	// of the collection.
	ErrMemberNotFound = errors.New("member was not found")

	// ErrInvitationNotFound is returned when an invitation uid does not
	// exist for the requesting user.
	ErrInvitationNotFound = errors.New("invitation was not found")

	// ErrInvitationExists is returned when inviting a user who already
	// has a pending invitation from the same member.
	ErrInvitationExists = errors.New("invitation already exists")

	// ErrAlreadyMember is returned when accepting an invitation to a
	// collection the user is already a member of.
	ErrAlreadyMember = errors.New("user is already a member")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
)

// Conflict codes reported per item in a [BatchConflictError].
const (
	ConflictEtagMismatch = "etag_mismatch"
	ConflictUniqueUID    = "unique_uid"
	ConflictChunkMissing = "chunk_missing"
)

// BatchConflictError carries the structured conflict report of a rejected
// batch or transaction. The batch was rolled back in full; Items and Deps
// enumerate every offending entry.
type BatchConflictError struct {
	Items []models.ItemConflict
	Deps  []models.ItemConflict
}

func (e *BatchConflictError) Error() string {
	return fmt.Sprintf("batch rejected: %d conflicting items, %d conflicting deps", len(e.Items), len(e.Deps))
}
