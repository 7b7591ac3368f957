package chunkgroup

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packV2(offset uint64, size, flags uint32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], offset)
	binary.LittleEndian.PutUint32(buf[8:], size)
	binary.LittleEndian.PutUint32(buf[12:], flags)
	return buf
}

func TestFillV2PatternFill(t *testing.T) {
	idx := NewChunkIndex()
	entries := packV2(0xDEAD, 4096, 0x5)
	section := SectionRef{StartOffset: 0}

	require.NoError(t, FillV2(idx, 0x10000, 1, section, 1, 24, entries, false, nil))
	require.Equal(t, 1, idx.Len())

	desc, rng, err := idx.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(24), desc.FileOffset)
	assert.Equal(t, uint64(8), desc.ByteSize)
	assert.True(t, desc.Flags.Has(RangeCompressed))
	assert.True(t, desc.Flags.Has(RangePatternFill))
	assert.False(t, desc.Flags.Has(RangeHasChecksum))
	assert.Equal(t, MappedRange{MediaOffset: 0, Length: 0x10000}, rng)
}

func TestFillV2NonPatternUsesStoredOffsetAndSize(t *testing.T) {
	idx := NewChunkIndex()
	entries := packV2(0x123456, 99, 0x2)
	section := SectionRef{StartOffset: 0}

	require.NoError(t, FillV2(idx, 0x10000, 1, section, 1, 24, entries, false, nil))

	desc, _, err := idx.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0x123456), desc.FileOffset)
	assert.Equal(t, uint64(99), desc.ByteSize)
	assert.True(t, desc.Flags.Has(RangeHasChecksum))
}

func TestFillV2MultipleEntriesAdvanceTableEntryOffset(t *testing.T) {
	idx := NewChunkIndex()
	entries := append(packV2(0, 0, 0x4), packV2(0, 0, 0x4)...)
	section := SectionRef{StartOffset: 100}

	require.NoError(t, FillV2(idx, 0x1000, 1, section, 2, 24, entries, false, nil))
	require.Equal(t, 2, idx.Len())

	first, _, err := idx.Get(0)
	require.NoError(t, err)
	second, _, err := idx.Get(1)
	require.NoError(t, err)

	assert.Equal(t, int64(100+24), first.FileOffset)
	assert.Equal(t, int64(100+24+16), second.FileOffset)
}

func TestFillV2UnsupportedFlagBitsReported(t *testing.T) {
	idx := NewChunkIndex()
	entries := packV2(0, 1, 0x8)
	section := SectionRef{StartOffset: 0}
	diag := &recordingDiagnostics{}

	require.NoError(t, FillV2(idx, 0x1000, 1, section, 1, 24, entries, false, diag))
	require.Len(t, diag.lines, 1)
}

func TestFillV2StopsAtFewerThan16BytesRemaining(t *testing.T) {
	idx := NewChunkIndex()
	entries := packV2(0, 1, 0x2)
	entries = entries[:15]
	section := SectionRef{StartOffset: 0}

	require.NoError(t, FillV2(idx, 0x1000, 1, section, 5, 24, entries, false, nil))
	assert.Equal(t, 0, idx.Len())
}

func TestFillV2TaintedPropagates(t *testing.T) {
	idx := NewChunkIndex()
	entries := packV2(0, 1, 0x2)
	section := SectionRef{StartOffset: 0}

	require.NoError(t, FillV2(idx, 0x1000, 1, section, 1, 24, entries, true, nil))

	desc, _, err := idx.Get(0)
	require.NoError(t, err)
	assert.True(t, desc.Flags.Has(RangeTainted))
}
