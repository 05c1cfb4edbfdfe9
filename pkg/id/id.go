package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// New returns a random (v4) UUID rendered as 32 lowercase hex characters.
// Record ids are compared as plain strings, so the hyphens are dropped.
func New() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Valid reports whether s looks like an id produced by New.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
