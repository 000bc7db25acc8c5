package domain

import (
	"strings"

	"github.com/google/uuid"
)

// IDLength is the number of hex characters in a generated record id.
const IDLength = 32

// GenerateID returns a new random record id: a version 4 UUID rendered as
// 32 lowercase hex characters without dashes.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidateData reports whether v is an object-shaped payload that can be
// stored as a record: non-nil and neither an array nor a scalar.
func ValidateData(v any) bool {
	switch t := v.(type) {
	case Record:
		return t != nil
	case map[string]any:
		return t != nil
	default:
		return false
	}
}

// ToRecord converts a validated payload into a Record copy.
func ToRecord(v any) (Record, bool) {
	if !ValidateData(v) {
		return nil, false
	}
	switch t := v.(type) {
	case Record:
		return t.Clone(), true
	case map[string]any:
		return Record(t).Clone(), true
	}
	return nil, false
}
