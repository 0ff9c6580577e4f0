package bisect

import (
	"errors"
	"io"
)

// IncompleteLineTrimmer shrinks a ByteReader's effective size to exclude a
// trailing line that is not terminated by LF, as can happen when a writer
// is still appending to the file. Without this, bisection could treat a
// half-written line as real data and return a truncated key or phantom
// match for it.
type IncompleteLineTrimmer struct{}

// NewIncompleteLineTrimmer returns a trimmer. It holds no state; it exists
// as a type mainly so its one operation reads like the rest of the
// package's single-purpose components.
func NewIncompleteLineTrimmer() *IncompleteLineTrimmer {
	return &IncompleteLineTrimmer{}
}

// TrimIncomplete scans backward from r's current end of file, byte by
// byte, until it finds a trailing LF (or reaches the start of the file),
// and calls r.Limit to exclude everything after that LF. If the file
// already ends in LF (or is empty), it is left unchanged.
func (t *IncompleteLineTrimmer) TrimIncomplete(r *ByteReader) error {
	size := r.Size()
	for size != 0 {
		r.SeekAbs(size - 1)
		c, err := r.GetByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if c == '\n' {
			break
		}
		size--
	}
	r.Limit(size)
	return nil
}
