package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// ErrInvalidCollectionName is returned for names that cannot be mapped to a
// file inside the data directory.
var ErrInvalidCollectionName = errors.New("invalid collection name")

var collectionNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Database maps collection names to <DataDir>/<name>.json and lazily opens
// each collection once.
type Database struct {
	cfg         Config
	logger      *slog.Logger
	collections *xsync.MapOf[string, *Collection]
}

// NewDatabase creates a database from the default configuration with
// options applied. Call Init before use.
func NewDatabase(options ...StorageOption) *Database {
	cfg := DefaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Database{
		cfg:         cfg,
		logger:      cfg.Logger,
		collections: xsync.NewMapOf[string, *Collection](),
	}
}

// Init creates the data directory
func (db *Database) Init() error {
	if err := os.MkdirAll(db.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", db.cfg.DataDir, err)
	}
	db.logger.Info("Database initialized", "dir", db.cfg.DataDir)
	return nil
}

// Config returns the configuration the database was built with
func (db *Database) Config() Config {
	return db.cfg
}

// Collection returns the collection called name, opening it on first use.
// The same instance is returned for the lifetime of the database.
func (db *Database) Collection(name string) (*Collection, error) {
	if !collectionNameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCollectionName, name)
	}

	if coll, ok := db.collections.Load(name); ok {
		return coll, nil
	}

	var openErr error
	coll, ok := db.collections.Compute(name, func(existing *Collection, loaded bool) (*Collection, bool) {
		if loaded {
			return existing, false
		}
		c, err := OpenCollection(name, db.pathFor(name), db.cfg)
		if err != nil {
			openErr = err
			return nil, true
		}
		db.logger.Debug("Opened collection", "collection", name)
		return c, false
	})
	if openErr != nil {
		return nil, openErr
	}
	if !ok {
		return nil, fmt.Errorf("failed to open collection %s", name)
	}
	return coll, nil
}

// OpenAll opens every collection document found in the data directory and
// returns their names, sorted.
func (db *Database) OpenAll() ([]string, error) {
	entries, err := os.ReadDir(db.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory %s: %w", db.cfg.DataDir, err)
	}
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok || !collectionNameRe.MatchString(name) {
			continue
		}
		if _, err := db.Collection(name); err != nil {
			return nil, err
		}
	}
	return db.Collections(), nil
}

func (db *Database) pathFor(name string) string {
	return filepath.Join(db.cfg.DataDir, name+".json")
}

// Collections returns the names of the collections opened so far, sorted
func (db *Database) Collections() []string {
	var names []string
	db.collections.Range(func(name string, _ *Collection) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Flush forces every pending collection write to disk
func (db *Database) Flush() error {
	var errs []error
	db.collections.Range(func(_ string, coll *Collection) bool {
		if err := coll.Flush(); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

// Close flushes every collection. Collections stay open.
func (db *Database) Close() error {
	err := db.Flush()
	if err != nil {
		db.logger.Error("Failed to flush collections on close", "err", err)
	} else {
		db.logger.Info("Flushed all collections")
	}
	return err
}
