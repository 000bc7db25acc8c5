package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_CloneIsDeep(t *testing.T) {
	orig := Record{
		"id":      "abc",
		"profile": map[string]any{"city": "Lagos"},
		"scores":  []any{1.0, 2.0},
	}

	clone := orig.Clone()
	clone["profile"].(map[string]any)["city"] = "Abuja"
	clone["scores"].([]any)[0] = 9.0

	assert.Equal(t, "Lagos", orig["profile"].(map[string]any)["city"])
	assert.Equal(t, 1.0, orig["scores"].([]any)[0])
	assert.Equal(t, "abc", clone.ID())
}

func TestRecord_MergePreservesID(t *testing.T) {
	orig := Record{"id": "abc", "name": "Alice", "age": 30}

	merged := orig.Merge(Record{"id": "evil", "age": 31, "city": "Lagos"})

	assert.Equal(t, "abc", merged.ID())
	assert.Equal(t, 31, merged["age"])
	assert.Equal(t, "Lagos", merged["city"])
	assert.Equal(t, "Alice", merged["name"])
	assert.Equal(t, 30, orig["age"], "merge must not mutate the receiver")
}

func TestResult_OK(t *testing.T) {
	assert.True(t, Success(1).OK())
	assert.False(t, Failure[int](StatusNotFound).OK())
	assert.Equal(t, 429, StatusTooManyConnections.Code)
}
