package domain

// FieldIndexer defines the secondary index maintained alongside a collection
type FieldIndexer interface {
	AddField(field string, records []Record)
	Has(field string) bool
	Fields() []string
	Lookup(field string, value any) (string, bool)
	OnInsert(rec Record)
	OnUpdate(oldRec, newRec Record)
	OnDelete(rec Record)
}
