package chunkgroup

// ReconcileV1 re-derives per-chunk sizes from a backup v1 table exactly as
// FillV1 does, but instead of appending to index it compares each derived
// descriptor against the element already at that position and selectively
// overwrites it, following the precedence rule in §4.6:
//
//  1. mismatch && neither corrupted nor tainted  -> overwrite
//  2. mismatch && previous was CORRUPTED && new is not corrupted -> overwrite
//     (even if the new entry is tainted; preserved verbatim from the
//     source this was derived from, see §9)
//  3. no mismatch && previous was TAINTED -> overwrite (clears the taint)
//  4. otherwise -> keep the previous descriptor
//
// index must already contain numberOfEntries elements, normally produced
// by an earlier FillV1 call against the primary table.
func ReconcileV1(index *ChunkIndex, chunkSize uint64, poolTag uint32, section SectionRef, baseOffset int64, numberOfEntries uint32, entries []byte, tainted bool, diag Diagnostics) error {
	const op = "ReconcileV1"

	if baseOffset < 0 {
		return newError(op, ErrInvalidArgument, nil)
	}
	if numberOfEntries == 0 {
		return newError(op, ErrInvalidArgument, nil)
	}

	var (
		overflow      bool
		storedOffset  uint32
		isCompressed  bool
		currentOffset uint32
	)

	storedOffset, err := readU32LE(op, entries, 0)
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
		newOffset := baseOffset + int64(currentOffset)

		if err := reconcileElement(op, index, int(i), poolTag, newOffset, uint64(chunkDataSize), flags, corrupted, tainted, diag); err != nil {
			return err
		}

		if !overflow && currentOffset+chunkDataSize > maxInt32 {
			overflow = true
			isCompressed = false
		}

		storedOffset = nextStoredOffset
	}

	return reconcileV1Terminal(op, index, section, baseOffset, i, storedOffset, overflow, tainted, poolTag, diag)
}

// reconcileV1Terminal reconciles the last entry of a backup v1 table. It
// re-derives the size exactly as fillV1Terminal does, but then subtracts
// section.Size from the result before running the corruption checks — a
// legacy accounting adjustment with no symmetric step in FillV1 (§4.6,
// §9), preserved here for bit-compatibility with existing images rather
// than unified with the fill path.
func reconcileV1Terminal(op string, index *ChunkIndex, section SectionRef, baseOffset int64, entryIndex uint32, storedOffset uint32, overflow bool, tainted bool, poolTag uint32, diag Diagnostics) error {
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
	switch {
	case lastChunkDataOffset < section.StartOffset:
		lastChunkDataSize = section.StartOffset - lastChunkDataOffset
	case lastChunkDataOffset < section.EndOffset:
		lastChunkDataSize = section.EndOffset - lastChunkDataOffset
	}
	lastChunkDataSize -= section.Size

	corrupted := false
	if lastChunkDataSize <= 0 {
		corrupted = true
	}
	if lastChunkDataSize > maxInt32 {
		corrupted = true
	}

	flags := rangeFlagsForV1(isCompressed, corrupted, tainted)

	return reconcileElement(op, index, int(entryIndex), poolTag, lastChunkDataOffset, uint64(max64(lastChunkDataSize, 0)), flags, corrupted, tainted, diag)
}

// reconcileElement implements the precedence rule shared by every v1
// reconcile entry (regular and terminal).
func reconcileElement(op string, index *ChunkIndex, elementIndex int, poolTag uint32, newOffset int64, newSize uint64, newFlags RangeFlags, corrupted, tainted bool, diag Diagnostics) error {
	previous, _, err := index.Get(elementIndex)
	if err != nil {
		return err
	}

	mismatch := previous.FileOffset != newOffset ||
		previous.ByteSize != newSize ||
		previous.Flags.Has(RangeCompressed) != newFlags.Has(RangeCompressed)

	update := false
	switch {
	case mismatch && !corrupted && !tainted:
		update = true
	case mismatch && previous.Flags.Has(RangeCorrupted) && !corrupted:
		update = true
	case !mismatch && previous.Flags.Has(RangeTainted):
		update = true
	}

	notef(diag, "%s: entry %d mismatch=%v update=%v previous=%+v new offset=0x%x size=%d flags=%s",
		op, elementIndex, mismatch, update, previous, newOffset, newSize, newFlags)

	if !update {
		return nil
	}
	return index.Set(elementIndex, poolTag, newOffset, newSize, newFlags)
}
