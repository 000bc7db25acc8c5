package domain

// IDField is the name of the system-assigned identifier field.
const IDField = "id"

// Record represents a single schema-less record in a collection
type Record map[string]any

// ID returns the record's identifier, or "" if it has none
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Clone returns a deep copy of the record. Nested objects and arrays are
// copied so the clone can be mutated without touching the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a copy of r with every field of updates applied on top.
// The id of r is always preserved.
func (r Record) Merge(updates Record) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	for k, v := range updates {
		if k == IDField {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// CloneRecords deep-copies a slice of records
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
