package storage

import (
	"errors"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/Chidera261/koraDB/pkg/indexing"
)

// Insert stores data as a new record with a freshly generated id. Any id
// carried by data is replaced.
func (c *Collection) Insert(data any) (domain.Result[domain.Record], error) {
	if !c.admit("insert") {
		return domain.Failure[domain.Record](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	res, err := c.insert(data)
	return finish(c, "insert", res, err)
}

func (c *Collection) insert(data any) (domain.Result[domain.Record], error) {
	rec, ok := domain.ToRecord(data)
	if !ok {
		return domain.Failure[domain.Record](domain.StatusInvalidData), nil
	}

	records, err := c.readAll()
	if err != nil {
		return domain.Result[domain.Record]{}, err
	}

	rec[domain.IDField] = domain.GenerateID()
	records = append(records, rec)

	if err := c.writeAll(records); err != nil {
		return sizeLimitOr[domain.Record](err)
	}

	c.cache.Put(rec.ID(), rec)
	c.index.OnInsert(rec)
	return domain.Success(rec.Clone()), nil
}

// FindByID returns the record with the given id, from the cache when
// possible.
func (c *Collection) FindByID(id string) (domain.Result[domain.Record], error) {
	if !c.admit("find_by_id") {
		return domain.Failure[domain.Record](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	res, err := c.findByID(id)
	return finish(c, "find_by_id", res, err)
}

func (c *Collection) findByID(id string) (domain.Result[domain.Record], error) {
	if rec, ok := c.cache.Get(id); ok {
		countCacheLookup(c.name, true)
		return domain.Success(rec), nil
	}
	countCacheLookup(c.name, false)

	records, err := c.readAll()
	if err != nil {
		return domain.Result[domain.Record]{}, err
	}
	i := findRecord(records, id)
	if i < 0 {
		return domain.Failure[domain.Record](domain.StatusNotFound), nil
	}
	c.cache.Put(id, records[i])
	return domain.Success(records[i]), nil
}

// FindByField returns a record whose field equals value. Registered fields
// are answered from the index; others fall back to a full scan using the
// same value equality.
func (c *Collection) FindByField(field string, value any) (domain.Result[domain.Record], error) {
	if !c.admit("find_by_field") {
		return domain.Failure[domain.Record](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	res, err := c.findByField(field, value)
	return finish(c, "find_by_field", res, err)
}

func (c *Collection) findByField(field string, value any) (domain.Result[domain.Record], error) {
	if field == "" {
		return domain.Failure[domain.Record](domain.StatusInvalidData), nil
	}

	if c.index.Has(field) {
		id, ok := c.index.Lookup(field, value)
		if !ok {
			return domain.Failure[domain.Record](domain.StatusNotFound), nil
		}
		return c.findByID(id)
	}

	records, err := c.readAll()
	if err != nil {
		return domain.Result[domain.Record]{}, err
	}
	for _, rec := range records {
		if MatchesField(rec, field, value) {
			c.cache.Put(rec.ID(), rec)
			return domain.Success(rec), nil
		}
	}
	return domain.Failure[domain.Record](domain.StatusNotFound), nil
}

// FindAll returns every record in the collection
func (c *Collection) FindAll() (domain.Result[[]domain.Record], error) {
	if !c.admit("find_all") {
		return domain.Failure[[]domain.Record](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	records, err := c.readAll()
	if err != nil {
		return finish(c, "find_all", domain.Result[[]domain.Record]{}, err)
	}
	return finish(c, "find_all", domain.Success(records), nil)
}

// Count returns the number of records in the collection
func (c *Collection) Count() (domain.Result[int], error) {
	if !c.admit("count") {
		return domain.Failure[int](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	records, err := c.readAll()
	if err != nil {
		return finish(c, "count", domain.Result[int]{}, err)
	}
	return finish(c, "count", domain.Success(len(records)), nil)
}

// Update merges fields into the record with the given id. The id itself
// cannot be changed.
func (c *Collection) Update(id string, fields any) (domain.Result[domain.Record], error) {
	if !c.admit("update") {
		return domain.Failure[domain.Record](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	res, err := c.update(id, fields)
	return finish(c, "update", res, err)
}

func (c *Collection) update(id string, fields any) (domain.Result[domain.Record], error) {
	updates, ok := domain.ToRecord(fields)
	if !ok {
		return domain.Failure[domain.Record](domain.StatusInvalidData), nil
	}

	records, err := c.readAll()
	if err != nil {
		return domain.Result[domain.Record]{}, err
	}
	i := findRecord(records, id)
	if i < 0 {
		return domain.Failure[domain.Record](domain.StatusNotFound), nil
	}

	c.cache.Invalidate(id)

	old := records[i]
	merged := old.Merge(updates)
	records[i] = merged

	if err := c.writeAll(records); err != nil {
		return sizeLimitOr[domain.Record](err)
	}

	c.index.OnUpdate(old, merged)
	c.cache.Put(id, merged)
	return domain.Success(merged.Clone()), nil
}

// Delete removes the record with the given id from the file, the cache and
// the index. The removed record is returned.
func (c *Collection) Delete(id string) (domain.Result[domain.Record], error) {
	if !c.admit("delete") {
		return domain.Failure[domain.Record](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	res, err := c.delete(id)
	return finish(c, "delete", res, err)
}

func (c *Collection) delete(id string) (domain.Result[domain.Record], error) {
	records, err := c.readAll()
	if err != nil {
		return domain.Result[domain.Record]{}, err
	}
	i := findRecord(records, id)
	if i < 0 {
		return domain.Failure[domain.Record](domain.StatusNotFound), nil
	}

	removed := records[i]
	records = append(records[:i], records[i+1:]...)

	if err := c.writeAll(records); err != nil {
		return sizeLimitOr[domain.Record](err)
	}

	c.cache.Invalidate(id)
	c.index.OnDelete(removed)
	return domain.Success(removed), nil
}

// replaceAll swaps the whole record set, used when loading a snapshot.
// Cache and index are rebuilt from the new records.
func (c *Collection) replaceAll(records []domain.Record) (domain.Result[int], error) {
	if !c.admit("replace_all") {
		return domain.Failure[int](domain.StatusTooManyConnections), nil
	}
	defer c.gate.Release()

	if err := c.writeAll(records); err != nil {
		res, err := sizeLimitOr[int](err)
		return finish(c, "replace_all", res, err)
	}

	c.cache.Clear()
	for _, field := range c.index.Fields() {
		c.index.AddField(field, records)
	}
	return finish(c, "replace_all", domain.Success(len(records)), nil)
}

func sizeLimitOr[T any](err error) (domain.Result[T], error) {
	if errors.Is(err, ErrSizeLimitExceeded) {
		return domain.Failure[T](domain.StatusSizeLimitExceeded), nil
	}
	return domain.Result[T]{}, err
}

// MatchesField reports whether rec has field equal to value, using the same
// equality as the field index.
func MatchesField(rec domain.Record, field string, value any) bool {
	actual, exists := rec[field]
	if !exists {
		return false
	}
	return indexing.ValuesEqual(actual, value)
}
