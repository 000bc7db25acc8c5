package indexing

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"

	"github.com/Chidera261/koraDB/pkg/domain"
)

var _ domain.FieldIndexer = (*FieldIndex)(nil)

// FieldIndex implements domain.FieldIndexer. It maps "field:value" keys to
// a single record id for every registered field.
type FieldIndex struct {
	mu      sync.RWMutex
	fields  map[string]struct{}
	entries map[string]string // "field:value" -> record id
}

// NewFieldIndex creates an empty index with no registered fields
func NewFieldIndex() *FieldIndex {
	return &FieldIndex{
		fields:  make(map[string]struct{}),
		entries: make(map[string]string),
	}
}

// Key builds the index key for a field/value pair. ok is false for values
// that cannot be indexed (objects and arrays).
func Key(field string, value any) (string, bool) {
	s, ok := FormatValue(value)
	if !ok {
		return "", false
	}
	return field + ":" + s, true
}

// FormatValue renders a scalar value the same way regardless of whether it
// came from Go code (int) or decoded JSON (float64).
func FormatValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "null", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// ValuesEqual reports whether two values would share an index key
func ValuesEqual(a, b any) bool {
	sa, ok := FormatValue(a)
	if !ok {
		return false
	}
	sb, ok := FormatValue(b)
	return ok && sa == sb
}

// AddField registers a field and rebuilds every registered field's entries
// from records.
func (idx *FieldIndex) AddField(field string, records []domain.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.fields[field] = struct{}{}
	idx.entries = make(map[string]string, len(records)*len(idx.fields))
	for _, rec := range records {
		idx.addLocked(rec)
	}
}

// Has reports whether field is registered
func (idx *FieldIndex) Has(field string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.fields[field]
	return ok
}

// Fields returns the registered field names, sorted
func (idx *FieldIndex) Fields() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	fields := make([]string, 0, len(idx.fields))
	for f := range idx.fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Len returns the number of index entries
func (idx *FieldIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Lookup returns the id stored for field=value. It only answers for
// registered fields.
func (idx *FieldIndex) Lookup(field string, value any) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if _, ok := idx.fields[field]; !ok {
		return "", false
	}
	key, ok := Key(field, value)
	if !ok {
		return "", false
	}
	id, ok := idx.entries[key]
	return id, ok
}

// OnInsert adds entries for every registered field present on rec
func (idx *FieldIndex) OnInsert(rec domain.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addLocked(rec)
}

// OnUpdate replaces the entries of oldRec with those of newRec. Entries for
// values that changed are removed so lookups on the old value miss.
func (idx *FieldIndex) OnUpdate(oldRec, newRec domain.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(oldRec)
	idx.addLocked(newRec)
}

// OnDelete removes entries for every registered field present on rec
func (idx *FieldIndex) OnDelete(rec domain.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(rec)
}

func (idx *FieldIndex) addLocked(rec domain.Record) {
	id := rec.ID()
	if id == "" {
		return
	}
	for field := range idx.fields {
		val, ok := rec[field]
		if !ok {
			continue
		}
		if key, ok := Key(field, val); ok {
			idx.entries[key] = id
		}
	}
}

func (idx *FieldIndex) removeLocked(rec domain.Record) {
	id := rec.ID()
	for field := range idx.fields {
		val, ok := rec[field]
		if !ok {
			continue
		}
		key, ok := Key(field, val)
		if !ok {
			continue
		}
		// Another record may own the key now; only drop our own entry.
		if idx.entries[key] == id {
			delete(idx.entries, key)
		}
	}
}
