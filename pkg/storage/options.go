package storage

import (
	"log/slog"
	"time"
)

// Config holds the tunables shared by every collection of a Database.
type Config struct {
	// DataDir is the root directory holding one <name>.json file per
	// collection. Default "./data".
	DataDir string
	// CacheCapacity bounds the per-collection record cache. Default 100.
	CacheCapacity int
	// ConcurrencyLimit is the number of operations a collection admits at
	// once; further callers are rejected. Default 10.
	ConcurrencyLimit int
	// MaxFileSize is the size ceiling of a collection file in bytes; 0
	// disables it. Default 10 MiB.
	MaxFileSize int64
	// DebounceWindow is how long rewrites are coalesced before hitting disk.
	// Default 100ms.
	DebounceWindow time.Duration
	// SyncWrites disables debouncing so every mutation is written before it
	// returns. Default false.
	SyncWrites bool
	// Logger receives storage logs. Default slog.Default().
	Logger *slog.Logger
}

const (
	DefaultDataDir          = "./data"
	DefaultCacheCapacity    = 100
	DefaultConcurrencyLimit = 10
	DefaultMaxFileSize      = 10 << 20
	DefaultDebounceWindow   = 100 * time.Millisecond
)

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		DataDir:          DefaultDataDir,
		CacheCapacity:    DefaultCacheCapacity,
		ConcurrencyLimit: DefaultConcurrencyLimit,
		MaxFileSize:      DefaultMaxFileSize,
		DebounceWindow:   DefaultDebounceWindow,
	}
}

type StorageOption func(*Config)

// WithConfig replaces the whole configuration; later options still apply
func WithConfig(cfg Config) StorageOption {
	return func(c *Config) {
		*c = cfg
	}
}

func WithDataDir(dir string) StorageOption {
	return func(c *Config) {
		c.DataDir = dir
	}
}

func WithCacheCapacity(n int) StorageOption {
	return func(c *Config) {
		c.CacheCapacity = n
	}
}

func WithConcurrencyLimit(n int) StorageOption {
	return func(c *Config) {
		c.ConcurrencyLimit = n
	}
}

// WithMaxFileSize sets the collection file ceiling in bytes (0 disables it)
func WithMaxFileSize(bytes int64) StorageOption {
	return func(c *Config) {
		c.MaxFileSize = bytes
	}
}

func WithDebounceWindow(d time.Duration) StorageOption {
	return func(c *Config) {
		c.DebounceWindow = d
	}
}

// WithSyncWrites writes every mutation before returning (useful in tests)
func WithSyncWrites(enabled bool) StorageOption {
	return func(c *Config) {
		c.SyncWrites = enabled
	}
}

func WithLogger(logger *slog.Logger) StorageOption {
	return func(c *Config) {
		c.Logger = logger
	}
}
