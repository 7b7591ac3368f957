// Package chunkgroup implements the EWF chunk group subsystem: the
// translation between on-disk v1/v2 table entries and an in-memory,
// random-access ChunkIndex of chunk descriptors. It does no file or
// network I/O of its own; callers supply raw table-entry bytes and a
// SectionRef and get back descriptors naming where each chunk's payload
// lives.
package chunkgroup
