package chunkgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadU32LE(t *testing.T) {
	buf := []byte{0x10, 0x00, 0x00, 0x80}
	v, err := readU32LE("test", buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80000010), v)
}

func TestReadU32LETruncated(t *testing.T) {
	_, err := readU32LE("test", []byte{0x01, 0x02}, 0)
	require.Error(t, err)
	var cgErr *Error
	require.ErrorAs(t, err, &cgErr)
	assert.Equal(t, ErrTruncated, cgErr.Kind)
}

func TestReadU64LE(t *testing.T) {
	buf := []byte{0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	v, err := readU64LE("test", buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10), v)
}

func TestWriteU32LERoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	require.NoError(t, writeU32LE("test", buf, 0, 0x80000010))
	v, err := readU32LE("test", buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80000010), v)
}

func TestWriteU64LERoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, writeU64LE("test", buf, 0, 0xdeadbeefcafef00d))
	v, err := readU64LE("test", buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeefcafef00d), v)
}

func TestWriteU32LETruncated(t *testing.T) {
	err := writeU32LE("test", make([]byte, 2), 0, 1)
	require.Error(t, err)
}
