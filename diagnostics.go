package chunkgroup

// Diagnostics receives one formatted line per table entry processed by
// Fill/Reconcile, mirroring the HAVE_DEBUG_OUTPUT-gated libcnotify_printf
// tracing in the original C implementation (chunk offset, derived size,
// compressed/checksum/corrupted/tainted flags). The teacher has no
// structured logging of its own (ewf.go falls back to fmt.Println for
// anything it wants to surface); rather than pull in a concrete logging
// library for a package with no I/O of its own, callers wire their own
// logger through this single-method interface. A nil Diagnostics is the
// default and turns every call into a no-op.
type Diagnostics interface {
	Notef(format string, args ...any)
}

func notef(d Diagnostics, format string, args ...any) {
	if d == nil {
		return
	}
	d.Notef(format, args...)
}
