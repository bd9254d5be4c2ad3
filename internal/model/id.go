package model

import "github.com/oklog/ulid/v2"

// NewID returns a new lexicographically sortable identifier.
func NewID() string {
	return ulid.Make().String()
}

// ValidID reports whether s is a well-formed identifier produced by NewID.
func ValidID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
