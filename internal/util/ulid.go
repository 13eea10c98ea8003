package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string.
// ulid.Make uses a process-wide monotonic entropy source, so ids created in the
// same millisecond still sort in creation order.
func NewULID() string {
	return ulid.Make().String()
}

// IsULID reports whether s is a canonical 26-character ULID.
func IsULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
