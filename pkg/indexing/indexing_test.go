package indexing

import (
	"testing"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []domain.Record {
	return []domain.Record{
		{"id": "1", "name": "Alice", "age": 25, "city": "Lagos"},
		{"id": "2", "name": "Bob", "age": 30.0, "city": "Abuja"},
		{"id": "3", "name": "Charlie", "profile": map[string]any{"x": 1}},
	}
}

func TestFieldIndex_AddFieldRebuilds(t *testing.T) {
	idx := NewFieldIndex()
	idx.AddField("name", testRecords())

	id, ok := idx.Lookup("name", "Bob")
	require.True(t, ok)
	assert.Equal(t, "2", id)
	assert.Equal(t, 3, idx.Len())

	idx.AddField("age", testRecords())
	assert.Equal(t, []string{"age", "name"}, idx.Fields())
	assert.Equal(t, 5, idx.Len())
}

func TestFieldIndex_LookupUnregisteredField(t *testing.T) {
	idx := NewFieldIndex()
	idx.AddField("name", testRecords())

	_, ok := idx.Lookup("city", "Lagos")
	assert.False(t, ok)
	assert.False(t, idx.Has("city"))
	assert.True(t, idx.Has("name"))
}

func TestFieldIndex_NumericValuesNormalize(t *testing.T) {
	idx := NewFieldIndex()
	idx.AddField("age", testRecords())

	// int in the record, float64 from decoded JSON in the query, and the reverse
	id, ok := idx.Lookup("age", 25.0)
	require.True(t, ok)
	assert.Equal(t, "1", id)

	id, ok = idx.Lookup("age", 30)
	require.True(t, ok)
	assert.Equal(t, "2", id)
}

func TestFieldIndex_StructuredValuesSkipped(t *testing.T) {
	idx := NewFieldIndex()
	idx.AddField("profile", testRecords())

	assert.Equal(t, 0, idx.Len())
	_, ok := idx.Lookup("profile", map[string]any{"x": 1})
	assert.False(t, ok)
}

func TestFieldIndex_InsertUpdateDelete(t *testing.T) {
	idx := NewFieldIndex()
	idx.AddField("email", nil)

	rec := domain.Record{"id": "a1", "email": "old@example.com"}
	idx.OnInsert(rec)

	id, ok := idx.Lookup("email", "old@example.com")
	require.True(t, ok)
	assert.Equal(t, "a1", id)

	updated := rec.Merge(domain.Record{"email": "new@example.com"})
	idx.OnUpdate(rec, updated)

	_, ok = idx.Lookup("email", "old@example.com")
	assert.False(t, ok, "stale entry must be removed on update")
	id, ok = idx.Lookup("email", "new@example.com")
	require.True(t, ok)
	assert.Equal(t, "a1", id)

	idx.OnDelete(updated)
	_, ok = idx.Lookup("email", "new@example.com")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestFieldIndex_DeleteKeepsOtherOwner(t *testing.T) {
	idx := NewFieldIndex()
	idx.AddField("city", nil)

	first := domain.Record{"id": "1", "city": "Lagos"}
	second := domain.Record{"id": "2", "city": "Lagos"}
	idx.OnInsert(first)
	idx.OnInsert(second)

	idx.OnDelete(first)

	id, ok := idx.Lookup("city", "Lagos")
	require.True(t, ok)
	assert.Equal(t, "2", id)
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, ValuesEqual(1, 1.0))
	assert.True(t, ValuesEqual("x", "x"))
	assert.False(t, ValuesEqual("x", "X"))
	assert.False(t, ValuesEqual([]any{1}, []any{1}))
	assert.True(t, ValuesEqual(nil, nil))
}
