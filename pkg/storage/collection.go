package storage

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/Chidera261/koraDB/pkg/indexing"
	"github.com/Chidera261/koraDB/pkg/syncer"
)

// Collection is a named, file-backed set of records with its own cache,
// field index and admission gate.
type Collection struct {
	name   string
	file   *File
	writer *WriteCoalescer
	cache  *RecordCache
	index  domain.FieldIndexer
	gate   *Gate
	logger *slog.Logger

	syncOnce sync.Once
	sync     *syncer.Manager
}

var _ domain.RecordStore = (*Collection)(nil)

// CollectionStats is a point-in-time view of a collection's state
type CollectionStats struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	SizeOnDisk    int64    `json:"size_on_disk"`
	CachedRecords int      `json:"cached_records"`
	CacheCapacity int      `json:"cache_capacity"`
	IndexedFields []string `json:"indexed_fields"`
	ActiveOps     int      `json:"active_ops"`
	OpLimit       int      `json:"op_limit"`
	WritePending  bool     `json:"write_pending"`
	LastWriteErr  string   `json:"last_write_error,omitempty"`
}

// OpenCollection creates a collection bound to the document at path and
// makes sure the document exists.
func OpenCollection(name, path string, cfg Config) (*Collection, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("collection", name)

	file := NewFile(path, cfg.MaxFileSize, logger)
	if err := file.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize collection %s: %w", name, err)
	}

	c := &Collection{
		name:   name,
		file:   file,
		cache:  NewRecordCache(cfg.CacheCapacity),
		index:  indexing.NewFieldIndex(),
		gate:   NewGate(cfg.ConcurrencyLimit),
		logger: logger,
	}
	c.writer = NewWriteCoalescer(cfg.DebounceWindow, cfg.SyncWrites, file.WriteAll, logger)
	c.writer.SetOnWrite(func(err error) {
		countPhysicalWrite(name, err)
	})
	return c, nil
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

// Path returns the location of the backing document
func (c *Collection) Path() string {
	return c.file.Path()
}

// Sync returns the sync manager bound to this collection
func (c *Collection) Sync() *syncer.Manager {
	c.syncOnce.Do(func() {
		c.sync = syncer.New(c, syncer.WithCollectionName(c.name))
	})
	return c.sync
}

// Flush forces any debounced write to disk
func (c *Collection) Flush() error {
	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush collection %s: %w", c.name, err)
	}
	return nil
}

// Close flushes pending writes. The collection stays usable afterwards.
func (c *Collection) Close() error {
	return c.Flush()
}

// Stats reports the collection's cache, index, gate and write state
func (c *Collection) Stats() CollectionStats {
	size, err := c.file.Size()
	if err != nil {
		c.logger.Warn("Failed to stat collection file", "err", err)
	}
	_, pending := c.writer.Pending()
	stats := CollectionStats{
		Name:          c.name,
		Path:          c.file.Path(),
		SizeOnDisk:    size,
		CachedRecords: c.cache.Len(),
		CacheCapacity: c.cache.Capacity(),
		IndexedFields: c.index.Fields(),
		ActiveOps:     c.gate.Active(),
		OpLimit:       c.gate.Limit(),
		WritePending:  pending,
	}
	if err := c.writer.Err(); err != nil {
		stats.LastWriteErr = err.Error()
	}
	return stats
}

// admit takes a gate slot or reports the rejection. Callers that are
// admitted must release the slot.
func (c *Collection) admit(op string) bool {
	if c.gate.TryAdmit() {
		return true
	}
	c.logger.Warn("Operation rejected: too many in flight", "op", op, "limit", c.gate.Limit())
	countOperation(c.name, op, domain.StatusTooManyConnections)
	return false
}

// readAll returns the latest logical record set: the snapshot waiting in
// the coalescer if there is one, the file otherwise.
func (c *Collection) readAll() ([]domain.Record, error) {
	if pending, ok := c.writer.Pending(); ok {
		return pending, nil
	}
	return c.file.ReadAll()
}

// writeAll submits a full rewrite. The size check runs against the file as
// it is on disk now, before this write lands.
func (c *Collection) writeAll(records []domain.Record) error {
	if err := c.file.CheckSize(); err != nil {
		return err
	}
	return c.writer.Submit(records)
}

func findRecord(records []domain.Record, id string) int {
	for i, rec := range records {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}

// finish records the outcome of an admitted operation
func finish[T any](c *Collection, op string, res domain.Result[T], err error) (domain.Result[T], error) {
	if err != nil {
		c.logger.Error("Operation failed", "op", op, "err", err)
		countOperation(c.name, op, domain.Status{Code: 500})
		return res, err
	}
	countOperation(c.name, op, res.Status)
	return res, nil
}
