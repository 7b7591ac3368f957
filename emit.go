package chunkgroup

// Emit dispatches to EmitV1 or EmitV2 depending on formatVersion. It
// exists for parity with the spec's unified emit(index, format_version,
// ...) entry point; callers that already know their format should prefer
// calling EmitV1/EmitV2 directly.
func Emit(index *ChunkIndex, formatVersion int, baseOffset int64, out []byte) error {
	switch formatVersion {
	case 1:
		return EmitV1(index, baseOffset, out)
	case 2:
		return EmitV2(index, out)
	default:
		return newError("Emit", ErrInvalidArgument, nil)
	}
}

// EmitV1 walks index once, from element 0, and serializes each descriptor
// back into a v1 table entry: FileOffset-baseOffset in the low 31 bits,
// the COMPRESSED flag in bit 31. CORRUPTED and TAINTED never round-trip
// (§4.7, §9). out must be at least index.Len()*4 bytes.
func EmitV1(index *ChunkIndex, baseOffset int64, out []byte) error {
	const op = "EmitV1"

	if baseOffset < 0 {
		return newError(op, ErrInvalidArgument, nil)
	}

	for i := 0; i < index.Len(); i++ {
		desc, _, err := index.Get(i)
		if err != nil {
			return err
		}

		relative := desc.FileOffset - baseOffset
		if relative < 0 || relative > maxInt32 {
			return newError(op, ErrOutOfRange, nil)
		}

		tableOffset := uint32(relative)
		if desc.Flags.Has(RangeCompressed) {
			tableOffset |= compressedBit
		}
		if err := writeU32LE(op, out, i*v1EntrySize, tableOffset); err != nil {
			return err
		}
	}
	return nil
}

// EmitV2 walks index once and serializes each descriptor back into a v2
// table entry: absolute FileOffset, ByteSize, and a flags word built from
// the inverse of the §4.2 translation table. CORRUPTED and TAINTED never
// round-trip. out must be at least index.Len()*16 bytes.
func EmitV2(index *ChunkIndex, out []byte) error {
	const op = "EmitV2"

	for i := 0; i < index.Len(); i++ {
		desc, _, err := index.Get(i)
		if err != nil {
			return err
		}
		if desc.ByteSize > 0xffffffff {
			return newError(op, ErrOutOfRange, nil)
		}

		base := i * v2EntrySize
		if err := writeU64LE(op, out, base, uint64(desc.FileOffset)); err != nil {
			return err
		}
		if err := writeU32LE(op, out, base+8, uint32(desc.ByteSize)); err != nil {
			return err
		}
		if err := writeU32LE(op, out, base+12, desc.Flags.toDisk()); err != nil {
			return err
		}
	}
	return nil
}
