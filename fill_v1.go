package chunkgroup

const (
	v1EntrySize         = 4
	maxInt32            = 1<<31 - 1
	compressedBit       = 1 << 31
	offsetOrSizeMask32  = 0x7fffffff
)

// FillV1 derives per-chunk sizes from consecutive v1 table entries and
// appends one ChunkDescriptor per entry to index. The v1 format stores
// only an offset per entry (§4.4); the size of entry i is recovered by
// differencing stored[i+1] - stored[i], under the overflow regime
// described in §3 (OverflowState) and §9. The terminal entry has no
// successor, so its size is bounded by section instead.
//
// The overflow latch is a heuristic: it engages, for the rest of the pass,
// after the first entry whose offset plus derived size exceeds INT32_MAX.
// Nothing in the table itself confirms that the top bit has become an
// address bit, so a crafted table can set the latch.
//
// entries must contain numberOfEntries*4 bytes of v1 table entry data
// (ewf_table_entry_v1_t, §6.1). baseOffset is added to every decoded
// offset to produce an absolute FileOffset; it must be non-negative.
func FillV1(index *ChunkIndex, chunkSize uint64, poolTag uint32, section SectionRef, baseOffset int64, numberOfEntries uint32, entries []byte, tainted bool, diag Diagnostics) error {
	const op = "FillV1"

	if baseOffset < 0 {
		return newError(op, ErrInvalidArgument, nil)
	}
	if numberOfEntries == 0 {
		return newError(op, ErrInvalidArgument, nil)
	}

	var (
		overflow            bool
		mediaOffset         uint64
		storedOffset        uint32
		isCompressed        bool
		currentOffset       uint32
		err                 error
	)

	storedOffset, err = readU32LE(op, entries, 0)
	if err != nil {
		return err
	}

	var i uint32
	for i = 0; i < numberOfEntries-1; i++ {
		if !overflow {
			isCompressed = storedOffset&compressedBit != 0
			currentOffset = storedOffset & offsetOrSizeMask32
		} else {
			currentOffset = storedOffset
		}

		nextStoredOffset, err := readU32LE(op, entries, int((i+1)*v1EntrySize))
		if err != nil {
			return err
		}

		var nextOffset uint32
		if !overflow {
			nextOffset = nextStoredOffset & offsetOrSizeMask32
		} else {
			nextOffset = nextStoredOffset
		}

		corrupted := false
		var chunkDataSize uint32

		// Compensates for the EnCase 6.7 > 2 GiB segment file quirk: once
		// the offset rolls over 2^31, the raw stored value (top bit
		// included) recovers the true length.
		if nextOffset < currentOffset {
			if nextStoredOffset < currentOffset {
				corrupted = true
			}
			chunkDataSize = nextStoredOffset - currentOffset
		} else {
			chunkDataSize = nextOffset - currentOffset
		}
		if chunkDataSize == 0 {
			corrupted = true
		}
		if chunkDataSize > maxInt32 {
			corrupted = true
		}

		flags := rangeFlagsForV1(isCompressed, corrupted, tainted)

		notef(diag, "%s: entry %d base=0x%x offset=0x%x size=%d flags=%s", op, i, baseOffset, currentOffset, chunkDataSize, flags)

		elementIndex := index.Append(poolTag, baseOffset+int64(currentOffset), uint64(chunkDataSize), flags)
		if err := index.SetMappedRange(elementIndex, mediaOffset, chunkSize); err != nil {
			return err
		}
		mediaOffset += chunkSize

		if !overflow && currentOffset+chunkDataSize > maxInt32 {
			overflow = true
			isCompressed = false
		}

		storedOffset = nextStoredOffset
	}

	return fillV1Terminal(op, index, chunkSize, poolTag, section, baseOffset, i, storedOffset, overflow, tainted, mediaOffset, diag)
}

// fillV1Terminal handles the last entry in a v1 table, which has no
// successor to difference against: its size must be derived from the
// enclosing section's start/end offsets instead (§4.4).
func fillV1Terminal(op string, index *ChunkIndex, chunkSize uint64, poolTag uint32, section SectionRef, baseOffset int64, entryIndex uint32, storedOffset uint32, overflow bool, tainted bool, mediaOffset uint64, diag Diagnostics) error {
	var (
		isCompressed  bool
		currentOffset uint32
	)
	if !overflow {
		isCompressed = storedOffset&compressedBit != 0
		currentOffset = storedOffset & offsetOrSizeMask32
	} else {
		currentOffset = storedOffset
	}

	lastChunkDataOffset := baseOffset + int64(currentOffset)
	if lastChunkDataOffset < 0 {
		return newError(op, ErrOverflow, nil)
	}

	var lastChunkDataSize int64
	corrupted := false

	switch {
	case lastChunkDataOffset < section.StartOffset:
		lastChunkDataSize = section.StartOffset - lastChunkDataOffset
	case lastChunkDataOffset < section.EndOffset:
		lastChunkDataSize = section.EndOffset - lastChunkDataOffset
	default:
		// Undetermined; fall through to the corruption checks below with
		// lastChunkDataSize left at 0.
	}

	if lastChunkDataSize <= 0 {
		corrupted = true
	}
	if lastChunkDataSize > maxInt32 {
		corrupted = true
	}

	flags := rangeFlagsForV1(isCompressed, corrupted, tainted)

	notef(diag, "%s: terminal entry %d base=0x%x offset=0x%x size=%d (derived) flags=%s", op, entryIndex, baseOffset, currentOffset, lastChunkDataSize, flags)

	elementIndex := index.Append(poolTag, lastChunkDataOffset, uint64(max64(lastChunkDataSize, 0)), flags)
	return index.SetMappedRange(elementIndex, mediaOffset, chunkSize)
}

func rangeFlagsForV1(isCompressed, corrupted, tainted bool) RangeFlags {
	var flags RangeFlags
	if isCompressed {
		flags = RangeCompressed
	} else {
		flags = RangeHasChecksum
	}
	if corrupted {
		flags |= RangeCorrupted
	}
	if tainted {
		flags |= RangeTainted
	}
	return flags
}

func max64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
