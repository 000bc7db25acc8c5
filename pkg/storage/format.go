package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Chidera261/koraDB/pkg/domain"
)

const (
	// MagicBytes identifies a snapshot file
	MagicBytes = "KORA"
	// FormatVersion is the current snapshot layout
	FormatVersion = 1
	// SnapshotExtension is the conventional snapshot file extension
	SnapshotExtension = ".kdb"
)

// FileHeader is the fixed-size prefix of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "KORA"
	Version  uint8
	Flags    uint8
	Reserved [2]byte // reserved
	RawSize  uint64  // length of the uncompressed payload
}

// headerSize is the encoded size of FileHeader
const headerSize = 16

// FlagUncompressed marks a payload stored without lz4 compression
const FlagUncompressed uint8 = 1 << 0

// WriteHeader writes a snapshot header for a payload of rawSize bytes
func WriteHeader(w io.Writer, rawSize int, flags uint8) error {
	header := FileHeader{
		Magic:   [4]byte{'K', 'O', 'R', 'A'},
		Version: FormatVersion,
		Flags:   flags,
		RawSize: uint64(rawSize),
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates a snapshot header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}
	return &header, nil
}

// SnapshotData is the msgpack payload of a snapshot
type SnapshotData struct {
	Collections map[string][]domain.Record `msgpack:"collections"`
	Indexes     map[string][]string        `msgpack:"indexes,omitempty"`
}

// NewSnapshotData creates an empty payload
func NewSnapshotData() *SnapshotData {
	return &SnapshotData{
		Collections: make(map[string][]domain.Record),
		Indexes:     make(map[string][]string),
	}
}
