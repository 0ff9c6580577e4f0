package bisect

import (
	"errors"
	"io"
)

// LineLocator resolves byte offsets to line starts. It is the only
// primitive that answers "what line contains this byte offset?", and
// every other component that needs a line boundary goes through it.
type LineLocator struct {
	r *ByteReader
}

// NewLineLocator returns a LineLocator reading through r.
func NewLineLocator(r *ByteReader) *LineLocator {
	return &LineLocator{r: r}
}

// LineStartAt returns the smallest line-start offset s such that s >= off:
// off itself if it is already a line start, otherwise the start of the
// line following the one that contains off. Size() counts as a line start.
//
// Concretely: off == 0 returns 0; off > Size() returns Size(); otherwise
// the reader seeks to off-1 and scans forward for LF, returning the offset
// of the byte following it. If end-of-file is reached first, the result is
// Size().
func (l *LineLocator) LineStartAt(off int64) (int64, error) {
	if off == 0 {
		return 0, nil
	}
	size := l.r.Size()
	if off > size {
		return size, nil
	}

	l.r.SeekAbs(off - 1)
	ofs := off - 1
	for {
		c, err := l.r.GetByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ofs, nil
			}
			return 0, err
		}
		ofs++
		if c == '\n' {
			return ofs, nil
		}
	}
}
