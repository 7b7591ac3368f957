package chunkgroup

// SectionRef is a read-only view of the table section enclosing a group
// of table entries. V1 fill/reconcile use it to bound the size of the
// terminal chunk, which has no successor entry to difference against.
type SectionRef struct {
	// StartOffset is the absolute offset, in the segment file, at which
	// the table section begins.
	StartOffset int64
	// EndOffset is the absolute offset, in the segment file, at which
	// the table section ends (i.e. where the next section begins).
	EndOffset int64
	// Size is the section's own on-disk size in bytes, including its
	// header. Only consulted by v1 reconcile's terminal-entry quirk
	// (§4.6, §9).
	Size int64
}
