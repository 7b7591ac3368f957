package chunkgroup

const v2EntrySize = 16

// FillV2 parses self-describing v2 table entries and appends one
// ChunkDescriptor per entry to index. Unlike v1, each entry carries its
// own absolute offset, size and flags (§4.5, §6.1), so there is no
// overflow regime and no terminal special case: parsing simply stops once
// fewer than 16 bytes remain, or numberOfOffsets entries have been
// consumed, whichever comes first.
//
// tableHeaderSize is the byte length of the v2 table header preceding
// the entries (ewf_table_header_v2_t, typically 24); it is needed to
// compute the absolute segment-file address of a pattern-fill entry,
// whose 8-byte pattern is stored inline in the table rather than
// referencing a payload elsewhere in the file.
func FillV2(index *ChunkIndex, chunkSize uint64, poolTag uint32, section SectionRef, numberOfOffsets uint32, tableHeaderSize int, entries []byte, tainted bool, diag Diagnostics) error {
	const op = "FillV2"

	if tableHeaderSize < 0 {
		return newError(op, ErrInvalidArgument, nil)
	}

	var mediaOffset uint64
	tableEntryOffset := section.StartOffset + int64(tableHeaderSize)

	for i := uint32(0); i < numberOfOffsets && (i+1)*v2EntrySize <= uint32(len(entries)); i++ {
		base := int(i) * v2EntrySize

		chunkDataOffset, err := readU64LE(op, entries, base)
		if err != nil {
			return err
		}
		chunkDataSize, err := readU32LE(op, entries, base+8)
		if err != nil {
			return err
		}
		chunkDataFlags, err := readU32LE(op, entries, base+12)
		if err != nil {
			return err
		}

		flags, unsupported := rangeFlagsFromDisk(chunkDataFlags)
		if unsupported {
			notef(diag, "%s: unsupported chunk data flags 0x%08x in table entry %d", op, chunkDataFlags, i)
		}
		if tainted {
			flags |= RangeTainted
		}

		fileOffset := int64(chunkDataOffset)
		size := uint64(chunkDataSize)
		if flags.Has(RangePatternFill) {
			fileOffset = tableEntryOffset
			size = 8
		}
		tableEntryOffset += v2EntrySize

		if unsupported {
			notef(diag, "%s: entry %d offset=0x%x size=%d flags=%s unsupported chunk data flags 0x%08x", op, i, fileOffset, size, flags, chunkDataFlags)
		} else {
			notef(diag, "%s: entry %d offset=0x%x size=%d flags=%s", op, i, fileOffset, size, flags)
		}

		elementIndex := index.Append(poolTag, fileOffset, size, flags)
		if err := index.SetMappedRange(elementIndex, mediaOffset, chunkSize); err != nil {
			return err
		}
		mediaOffset += chunkSize
	}
	return nil
}
