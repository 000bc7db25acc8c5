package storage

import (
	"github.com/Chidera261/koraDB/pkg/domain"
)

// AddIndexField registers field for indexing and rebuilds the index from the
// current records. It returns the full list of indexed fields.
func (c *Collection) AddIndexField(field string) (domain.Result[[]string], error) {
	if !c.admit("add_index") {
		return domain.Failure[[]string](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	if field == "" || field == domain.IDField {
		return finish(c, "add_index", domain.Failure[[]string](domain.StatusInvalidData), nil)
	}

	records, err := c.readAll()
	if err != nil {
		return finish(c, "add_index", domain.Result[[]string]{}, err)
	}
	c.index.AddField(field, records)
	c.logger.Info("Indexed field", "field", field, "records", len(records))
	return finish(c, "add_index", domain.Success(c.index.Fields()), nil)
}

// IndexedFields returns the fields registered for indexing
func (c *Collection) IndexedFields() []string {
	return c.index.Fields()
}
