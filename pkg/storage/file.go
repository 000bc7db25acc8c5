package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// ErrSizeLimitExceeded is returned when a write is attempted against a
// collection file that is already larger than its configured ceiling.
var ErrSizeLimitExceeded = errors.New("collection file exceeds size limit")

// File is the JSON array document holding every record of one collection.
// It only supports whole-document reads and rewrites.
type File struct {
	path    string
	maxSize int64
	logger  *slog.Logger
}

// NewFile creates a handle for the document at path. maxSize <= 0 disables
// the size ceiling.
func NewFile(path string, maxSize int64, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	return &File{path: path, maxSize: maxSize, logger: logger}
}

// Path returns the location of the backing document
func (f *File) Path() string {
	return f.path
}

// Init makes sure the document exists, creating an empty array if missing
func (f *File) Init() error {
	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat collection file %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
	}
	if err := f.WriteAll([]domain.Record{}); err != nil {
		return fmt.Errorf("failed to create collection file %s: %w", f.path, err)
	}
	f.logger.Debug("Created collection file", "path", f.path)
	return nil
}

// ReadAll parses and returns every record in the document. A missing file is
// an empty collection; any other read or parse failure is returned.
func (f *File) ReadAll() ([]domain.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Record{}, nil
		}
		f.logger.Error("Failed to read collection file", "path", f.path, "err", err)
		return nil, fmt.Errorf("failed to read collection file %s: %w", f.path, err)
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		f.logger.Error("Failed to parse collection file", "path", f.path, "err", err)
		return nil, fmt.Errorf("failed to parse collection file %s: %w", f.path, err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// Size returns the current on-disk size of the document
func (f *File) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat collection file %s: %w", f.path, err)
	}
	return info.Size(), nil
}

// CheckSize rejects with ErrSizeLimitExceeded once the document on disk is
// larger than the ceiling. The check uses the size before the pending write
// lands, so a single write may overshoot and only the next one is refused.
func (f *File) CheckSize() error {
	if f.maxSize <= 0 {
		return nil
	}
	size, err := f.Size()
	if err != nil {
		return err
	}
	if size > f.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrSizeLimitExceeded, f.path, size, f.maxSize)
	}
	return nil
}

// WriteAll replaces the document with records, pretty-printed. The content
// is written to a temporary file and renamed into place.
func (f *File) WriteAll(records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write collection file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace collection file %s: %w", f.path, err)
	}
	return nil
}
