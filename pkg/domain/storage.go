package domain

// RecordStore defines the record operations a collection exposes.
// Expected conditions are reported through the Result status; the error is
// reserved for internal faults such as unreadable storage.
type RecordStore interface {
	Insert(data any) (Result[Record], error)
	FindByID(id string) (Result[Record], error)
	FindByField(field string, value any) (Result[Record], error)
	FindAll() (Result[[]Record], error)
	Update(id string, fields any) (Result[Record], error)
	Delete(id string) (Result[Record], error)
	Count() (Result[int], error)
}
