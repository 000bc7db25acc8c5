package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// EncodeSnapshot writes data as header + lz4-compressed msgpack
func EncodeSnapshot(w io.Writer, data *SnapshotData) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	var flags uint8
	if n == 0 {
		// incompressible input: lz4 reports 0, store it raw
		compressed = payload
		flags |= FlagUncompressed
	} else {
		compressed = compressed[:n]
	}

	if err := WriteHeader(w, len(payload), flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("failed to write compressed data: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot
func DecodeSnapshot(r io.Reader) (*SnapshotData, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot header: %w", err)
	}
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}

	var payload []byte
	if header.Flags&FlagUncompressed != 0 {
		payload = compressed
	} else {
		payload = make([]byte, header.RawSize)
		n, err := lz4.UncompressBlock(compressed, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		payload = payload[:n]
	}

	data := NewSnapshotData()
	if err := msgpack.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return data, nil
}

// SaveSnapshot writes every opened collection, and its indexed fields, to
// filename.
func (db *Database) SaveSnapshot(filename string) error {
	start := time.Now()
	data := NewSnapshotData()

	for _, name := range db.Collections() {
		coll, err := db.Collection(name)
		if err != nil {
			return err
		}
		res, err := coll.FindAll()
		if err != nil {
			return fmt.Errorf("failed to read collection %s: %w", name, err)
		}
		if !res.OK() {
			return fmt.Errorf("failed to read collection %s: %s", name, res.Status.Message)
		}
		data.Collections[name] = res.Data
		if fields := coll.IndexedFields(); len(fields) > 0 {
			data.Indexes[name] = fields
		}
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, data); err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", filename, err)
	}

	db.logger.Info("Saved snapshot", "file", filename, "collections", len(data.Collections),
		"bytes", buf.Len(), "elapsed", time.Since(start))
	return nil
}

// LoadSnapshot replaces the contents of every collection named in the
// snapshot, opening collections as needed, and re-registers their indexes.
// Collections not in the snapshot are left alone.
func (db *Database) LoadSnapshot(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open snapshot %s: %w", filename, err)
	}
	defer f.Close()

	data, err := DecodeSnapshot(f)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", filename, err)
	}

	for name, records := range data.Collections {
		coll, err := db.Collection(name)
		if err != nil {
			return err
		}
		if records == nil {
			records = []domain.Record{}
		}
		res, err := coll.replaceAll(records)
		if err != nil {
			return fmt.Errorf("failed to restore collection %s: %w", name, err)
		}
		if !res.OK() {
			return fmt.Errorf("failed to restore collection %s: %s", name, res.Status.Message)
		}
		for _, field := range data.Indexes[name] {
			if _, err := coll.AddIndexField(field); err != nil {
				return fmt.Errorf("failed to restore index %s.%s: %w", name, field, err)
			}
		}
	}

	db.logger.Info("Loaded snapshot", "file", filename, "collections", len(data.Collections))
	return nil
}
