package chunkgroup

// ChunkDescriptor names where the compressed (or checksummed, or
// pattern-filled) payload of one chunk lives within a segment file.
//
// Invariant: on a well-formed entry exactly one of COMPRESSED or
// HAS_CHECKSUM is set, and PATTERN_FILL implies COMPRESSED.
type ChunkDescriptor struct {
	// PoolTag identifies which segment file FileOffset is relative to.
	// It is an opaque identifier as far as this package is concerned;
	// callers decide what it means (a file handle index, a segment
	// number, ...).
	PoolTag uint32
	// FileOffset is absolute within the segment file named by PoolTag.
	FileOffset int64
	// ByteSize is the length of the compressed/checksummed payload, or 8
	// for a pattern-fill chunk.
	ByteSize uint64
	// Flags is a subset of {COMPRESSED, HAS_CHECKSUM, PATTERN_FILL,
	// CORRUPTED, TAINTED}.
	Flags RangeFlags
}

// MappedRange is the logical storage-media interval a ChunkDescriptor
// covers: [MediaOffset, MediaOffset+Length).
type MappedRange struct {
	MediaOffset uint64
	Length      uint64
}

// ChunkIndex is an append-only, randomly addressable sequence of
// ChunkDescriptors with a parallel MappedRange per element. It is owned
// exclusively by whichever fill/reconcile/emit call is running against
// it; there is no internal locking (§5).
type ChunkIndex struct {
	descriptors []ChunkDescriptor
	ranges      []MappedRange
}

// NewChunkIndex returns an empty index ready to be populated by a fill
// pass.
func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{}
}

// Len returns the number of elements currently in the index.
func (idx *ChunkIndex) Len() int {
	return len(idx.descriptors)
}

// Append adds a new descriptor to the end of the index and returns its
// element index.
func (idx *ChunkIndex) Append(tag uint32, fileOffset int64, byteSize uint64, flags RangeFlags) int {
	idx.descriptors = append(idx.descriptors, ChunkDescriptor{
		PoolTag:    tag,
		FileOffset: fileOffset,
		ByteSize:   byteSize,
		Flags:      flags,
	})
	idx.ranges = append(idx.ranges, MappedRange{})
	return len(idx.descriptors) - 1
}

// SetMappedRange assigns the logical media interval of the element at
// elementIndex.
func (idx *ChunkIndex) SetMappedRange(elementIndex int, mediaOffset, length uint64) error {
	if elementIndex < 0 || elementIndex >= len(idx.ranges) {
		return newError("ChunkIndex.SetMappedRange", ErrNotFound, nil)
	}
	idx.ranges[elementIndex] = MappedRange{MediaOffset: mediaOffset, Length: length}
	return nil
}

// Get returns the descriptor and mapped range at elementIndex.
func (idx *ChunkIndex) Get(elementIndex int) (ChunkDescriptor, MappedRange, error) {
	if elementIndex < 0 || elementIndex >= len(idx.descriptors) {
		return ChunkDescriptor{}, MappedRange{}, newError("ChunkIndex.Get", ErrNotFound, nil)
	}
	return idx.descriptors[elementIndex], idx.ranges[elementIndex], nil
}

// Set overwrites the descriptor at elementIndex in place, preserving its
// existing mapped range.
func (idx *ChunkIndex) Set(elementIndex int, tag uint32, fileOffset int64, byteSize uint64, flags RangeFlags) error {
	if elementIndex < 0 || elementIndex >= len(idx.descriptors) {
		return newError("ChunkIndex.Set", ErrNotFound, nil)
	}
	idx.descriptors[elementIndex] = ChunkDescriptor{
		PoolTag:    tag,
		FileOffset: fileOffset,
		ByteSize:   byteSize,
		Flags:      flags,
	}
	return nil
}

// All returns a copy of the descriptors in the index, in table-entry
// order. Intended for read-only consumers (reporting, testing); it does
// not alias the index's internal storage.
func (idx *ChunkIndex) All() []ChunkDescriptor {
	out := make([]ChunkDescriptor, len(idx.descriptors))
	copy(out, idx.descriptors)
	return out
}

// RangeAt returns only the mapped range at elementIndex; convenience
// wrapper kept separate from Get so callers that only need the range
// don't have to discard the descriptor.
func (idx *ChunkIndex) RangeAt(elementIndex int) (MappedRange, error) {
	if elementIndex < 0 || elementIndex >= len(idx.ranges) {
		return MappedRange{}, newError("ChunkIndex.RangeAt", ErrNotFound, nil)
	}
	return idx.ranges[elementIndex], nil
}
