package bisect

import (
	"errors"
	"io"
)

// CompareMode selects which monotonic predicate the bisector evaluates
// against each line. The set is closed and performance-critical, so it is
// a plain int-based enum rather than an interface.
type CompareMode int

const (
	// LE is the predicate "key <= line".
	LE CompareMode = iota
	// LT is the predicate "key < line".
	LT
	// LP is the prefix predicate "key followed by a virtual byte greater
	// than any real byte is < line", used to find the right boundary of
	// a prefix search.
	LP
)

func (m CompareMode) String() string {
	switch m {
	case LE:
		return "LE"
	case LT:
		return "LT"
	case LP:
		return "LP"
	default:
		return "CompareMode(?)"
	}
}

// LineComparator evaluates a CompareMode predicate against a single line
// read on demand from a ByteReader, short-circuiting on the first
// differing byte so long shared prefixes never cost more than their
// common length.
type LineComparator struct {
	r *ByteReader
}

// NewLineComparator returns a LineComparator reading through r.
func NewLineComparator(r *ByteReader) *LineComparator {
	return &LineComparator{r: r}
}

// Predicate reads the line beginning at lineStart and evaluates mode's
// predicate against key. key must not contain LF.
func (c *LineComparator) Predicate(lineStart int64, key []byte, mode CompareMode) (bool, error) {
	c.r.SeekAbs(lineStart)

	if _, err := c.r.GetByte(); err != nil {
		if errors.Is(err, io.EOF) {
			// Phantom past-end line: treat as "infinity" so bisection
			// always terminates on the right regardless of mode.
			return true, nil
		}
		return false, err
	}
	c.r.UngetByte()

	i := 0
	for {
		b, err := c.r.GetByte()
		atEnd := errors.Is(err, io.EOF)
		if err != nil && !atEnd {
			return false, err
		}
		if atEnd || b == '\n' {
			// Line ended (LF or EOF) before the key was exhausted (or
			// exactly when it was): the line is a prefix of (or equal
			// to) the key's bytes examined so far, so line <= key.
			return mode == LE && i == len(key), nil
		}
		if i == len(key) {
			// Key ended first: the line continues beyond the key, so
			// key < line for LE/LT. For LP, key is merely a prefix of
			// line, which fails the strict "key* < line" relation.
			return mode != LP, nil
		}
		if key[i] != b {
			return key[i] < b, nil
		}
		i++
	}
}
