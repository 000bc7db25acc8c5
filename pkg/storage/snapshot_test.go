package storage

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/Chidera261/koraDB/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSnapshot(t *testing.T) {
	data := NewSnapshotData()
	for i := 0; i < 50; i++ {
		data.Collections["users"] = append(data.Collections["users"], domain.Record{
			"id":   fmt.Sprintf("user-%d", i),
			"name": "repeated name for compression",
		})
	}
	data.Collections["empty"] = []domain.Record{}
	data.Indexes["users"] = []string{"name"}

	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, data))

	header, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Zero(t, header.Flags&FlagUncompressed)

	decoded, err := DecodeSnapshot(&buf)
	require.NoError(t, err)

	require.Len(t, decoded.Collections["users"], 50)
	assert.Equal(t, "user-7", decoded.Collections["users"][7].ID())
	assert.Equal(t, "repeated name for compression", decoded.Collections["users"][7]["name"])
	assert.Empty(t, decoded.Collections["empty"])
	assert.Equal(t, []string{"name"}, decoded.Indexes["users"])
}

func TestEncodeDecodeSnapshot_Incompressible(t *testing.T) {
	noise := make([]byte, 64)
	_, err := rand.Read(noise)
	require.NoError(t, err)

	data := NewSnapshotData()
	data.Collections["c"] = []domain.Record{{"id": "x", "blob": hex.EncodeToString(noise)[:17]}}

	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, data))

	decoded, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Collections["c"], 1)
	assert.Equal(t, data.Collections["c"][0]["blob"], decoded.Collections["c"][0]["blob"])
}

func TestDecodeSnapshot_Garbage(t *testing.T) {
	_, err := DecodeSnapshot(bytes.NewReader([]byte("definitely not a snapshot file")))
	assert.Error(t, err)
}
