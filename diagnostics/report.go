// Package diagnostics renders a finished chunkgroup.ChunkIndex as a
// human-readable forensic report. It is new surface area beyond the
// original library this was distilled from (which has no such reporter)
// but follows directly from the chunk group core's own design note that
// corruption is "always recoverable ... enabling downstream best-effort
// recovery": an examiner wants a one-line-per-chunk summary before
// deciding which descriptors to trust.
package diagnostics

import (
	"bytes"
	"fmt"
	"io"

	"github.com/laenix/ewfchunkgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding selects the text encoding a report is written in. UTF-16
// variants exist so a report can be embedded back into an EWF
// header-shaped text section, which is itself BOM-tagged UTF-16 (the same
// byte order marks the teacher's own header parser sniffs for).
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF16LE
	EncodingUTF16BE
)

// WriteReport writes one line per chunk descriptor in index, followed by
// a "---" separator line and a summary line, to w in the requested
// encoding.
func WriteReport(w io.Writer, index *chunkgroup.ChunkIndex, enc Encoding) error {
	var buf bytes.Buffer

	descriptors := index.All()
	for i, d := range descriptors {
		rng, err := index.RangeAt(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "chunk %d pool=%d offset=0x%x size=%d flags=%s media=[0x%x,0x%x)\n",
			i, d.PoolTag, d.FileOffset, d.ByteSize, d.Flags, rng.MediaOffset, rng.MediaOffset+rng.Length)
	}

	s := chunkgroup.Summarize(index)
	fmt.Fprintf(&buf, "---\ntotal=%d compressed=%d checksum=%d pattern_fill=%d corrupted=%d tainted=%d media_bytes=%d\n",
		s.TotalChunks, s.CompressedChunks, s.ChecksumChunks, s.PatternFillChunks, s.CorruptedChunks, s.TaintedChunks, s.TotalMediaBytes)

	if enc == EncodingUTF8 {
		_, err := w.Write(buf.Bytes())
		return err
	}

	endian := unicode.LittleEndian
	if enc == EncodingUTF16BE {
		endian = unicode.BigEndian
	}
	encoder := unicode.UTF16(endian, unicode.UseBOM).NewEncoder()

	out, _, err := transform.Bytes(encoder, buf.Bytes())
	if err != nil {
		return fmt.Errorf("diagnostics: encode report: %w", err)
	}
	_, err = w.Write(out)
	return err
}
