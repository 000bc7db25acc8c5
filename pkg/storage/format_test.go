package storage

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_WriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHeader(&buf, 1234, 0)
	require.NoError(t, err)

	// 4 bytes magic + version + flags + 2 reserved + 8 bytes raw size
	assert.Len(t, buf.Bytes(), headerSize)

	header, err := ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.EqualValues(t, FormatVersion, header.Version)
	assert.Equal(t, uint8(0), header.Flags)
	assert.Equal(t, [2]byte{0, 0}, header.Reserved)
	assert.Equal(t, uint64(1234), header.RawSize)
}

func TestFileHeader_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, 0x0102, FlagUncompressed))

	data := buf.Bytes()
	assert.Equal(t, []byte("KORA"), data[0:4])
	assert.Equal(t, byte(FormatVersion), data[4])
	assert.Equal(t, FlagUncompressed, data[5])
	assert.Equal(t, []byte{0, 0}, data[6:8])
	// raw size is little endian
	assert.Equal(t, byte(0x02), data[8])
	assert.Equal(t, byte(0x01), data[9])
}

func TestFileHeader_InvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'I', 'N', 'V', 'L'},
		Version: FormatVersion,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestFileHeader_InvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'K', 'O', 'R', 'A'},
		Version: 99,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file version")
}

func TestFileHeader_ShortBuffer(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 2, 3})

	_, err := ReadHeader(buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read header")
}

func TestNewSnapshotData(t *testing.T) {
	data := NewSnapshotData()

	assert.NotNil(t, data.Collections)
	assert.NotNil(t, data.Indexes)
	assert.Empty(t, data.Collections)
	assert.Empty(t, data.Indexes)
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "KORA", MagicBytes)
	assert.EqualValues(t, 1, FormatVersion)
	assert.Equal(t, ".kdb", SnapshotExtension)
}
