package models

// CollectionList is one page of a collection sync listing. Stoken is the
// cursor to resume from; Done reports whether further pages remain.
//
// RemovedMemberships surfaces collections the user lost access to since
// the request cursor. It is bounded by the page's token range so that a
// client never learns about a removal it has not yet consumed the
// surrounding changes for.
type CollectionList struct {
	Data   []Collection `json:"data"`
	Stoken *string      `json:"stoken"`
	Done   bool         `json:"done"`

	RemovedMemberships []RemovedMembership `json:"removedMemberships,omitempty"`
}

// ItemList is one page of an item sync listing.
type ItemList struct {
	Data   []Item  `json:"data"`
	Stoken *string `json:"stoken"`
	Done   bool    `json:"done"`
}

// RevisionList is one page of an item's revision history, most recent
// first. Iterator is the uid of the last returned revision.
type RevisionList struct {
	Data     []Revision `json:"data"`
	Iterator *string    `json:"iterator"`
	Done     bool       `json:"done"`
}

// MemberList is one page of a collection's member listing.
type MemberList struct {
	Data     []Member `json:"data"`
	Iterator *string  `json:"iterator"`
	Done     bool     `json:"done"`
}

// InvitationList is one page of an invitation listing.
type InvitationList struct {
	Data     []Invitation `json:"data"`
	Iterator *string      `json:"iterator"`
	Done     bool         `json:"done"`
}

// LoginResponse carries the bearer token issued on signup or login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// APIError is the machine-readable error body returned for every
// non-2xx response.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// ItemConflict names one offending item of a rejected batch and the rule
// it violated.
type ItemConflict struct {
	UID    string `json:"uid"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// BatchConflict is the 409 body of a rejected batch or transaction: every
// offending item is enumerated, and nothing was applied.
type BatchConflict struct {
	Code  string         `json:"code"`
	Items []ItemConflict `json:"items"`
	Deps  []ItemConflict `json:"deps"`
}
