package models

import (
	"crypto/rand"
	"regexp"
)

// uidAlphabet is the set of characters allowed in every external
// identifier: uids of items, revisions, chunks, invitations, and stokens.
// It matches the URL-safe base64 alphabet used by clients when encoding
// random ids and content hashes.
const uidAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

// StokenUIDLength is the length of server-generated stoken uids.
const StokenUIDLength = 32

var uidPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]{20,}$`)

// ValidUID reports whether uid is a well-formed external identifier:
// at least 20 characters from the URL-safe base64 alphabet.
// Maximum lengths are enforced per entity at the persistence layer.
func ValidUID(uid string) bool {
	return uidPattern.MatchString(uid)
}

// NewStokenUID generates a random stoken uid of [StokenUIDLength]
// characters from the uid alphabet.
//
// The uid carries no ordering information: the relative order of stokens
// is defined solely by their insertion order in the database.
func NewStokenUID() string {
	return randomUID(StokenUIDLength)
}

// NewUID generates a random 32-character uid from the uid alphabet,
// suitable for server-generated entities such as invitations.
func NewUID() string {
	return randomUID(32)
}

func randomUID(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	for i, b := range buf {
		buf[i] = uidAlphabet[int(b)%len(uidAlphabet)]
	}

	return string(buf)
}
