package chunkgroup

// Stats summarizes a finished ChunkIndex for forensic reporting: how many
// descriptors carry each doubt/encoding flag, and how many media bytes
// the index covers in total. It is the supplemented-feature counterpart
// to spec §7's note that corruption is "always recoverable" and intended
// for "downstream best-effort recovery" — a caller deciding whether an
// image is usable wants these counts before walking every descriptor.
type Stats struct {
	TotalChunks      int
	CompressedChunks int
	ChecksumChunks   int
	PatternFillChunks int
	CorruptedChunks  int
	TaintedChunks    int
	TotalMediaBytes  uint64
}

// Summarize computes Stats over every descriptor currently in index.
func Summarize(index *ChunkIndex) Stats {
	var s Stats
	s.TotalChunks = index.Len()
	for i := 0; i < index.Len(); i++ {
		desc, rng, err := index.Get(i)
		if err != nil {
			continue
		}
		if desc.Flags.Has(RangeCompressed) {
			s.CompressedChunks++
		}
		if desc.Flags.Has(RangeHasChecksum) {
			s.ChecksumChunks++
		}
		if desc.Flags.Has(RangePatternFill) {
			s.PatternFillChunks++
		}
		if desc.Flags.Has(RangeCorrupted) {
			s.CorruptedChunks++
		}
		if desc.Flags.Has(RangeTainted) {
			s.TaintedChunks++
		}
		s.TotalMediaBytes += rng.Length
	}
	return s
}
