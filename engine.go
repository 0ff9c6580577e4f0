package bisect

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// EngineOptions configures NewEngine.
type EngineOptions struct {
	// Logger, if non-nil, receives structured debug tracing of bisection
	// steps and info-level summaries of each interval query.
	Logger *zerolog.Logger

	// BufferSize overrides the ByteReader's granule size. Zero means
	// DefaultBufferSize.
	BufferSize int

	// TrimIncompleteLastLine, if true, shrinks the effective file size to
	// exclude a trailing line not terminated by LF before any query runs.
	TrimIncompleteLastLine bool
}

// Engine ties a ByteReader, LineLocator, LineComparator and Bisector
// together behind the package's collaborator-facing API. It owns the open
// file for its whole lifetime; callers must call Close when done.
//
// An Engine binds a single open file and must not be used concurrently
// from more than one goroutine.
type Engine struct {
	r       *ByteReader
	loc     *LineLocator
	cmp     *LineComparator
	bisect  *Bisector
	logger  *zerolog.Logger
	trimmed bool
}

// NewEngine opens path, optionally trims a trailing incomplete line, and
// returns a ready Engine.
func NewEngine(path string, opts EngineOptions) (*Engine, error) {
	bufSize := opts.BufferSize
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	r, err := OpenBuffered(path, -1, bufSize)
	if err != nil {
		return nil, fmt.Errorf("bisect: open engine: %w", err)
	}

	e := &Engine{
		r:      r,
		loc:    NewLineLocator(r),
		logger: opts.Logger,
	}
	e.cmp = NewLineComparator(r)
	e.bisect = NewBisector(e.loc, e.cmp, e.logger)

	if opts.TrimIncompleteLastLine {
		if err := NewIncompleteLineTrimmer().TrimIncomplete(r); err != nil {
			r.Close()
			return nil, fmt.Errorf("bisect: trim incomplete line: %w", err)
		}
		e.trimmed = true
	}

	return e, nil
}

// Close releases the Engine's underlying file descriptor.
func (e *Engine) Close() error {
	return e.r.Close()
}

// IntervalOffsets searches [lo, hi) for the half-open interval of lines
// whose keys fall in [keyX, keyY] under mode, and returns its [start, end)
// byte bounds. start >= end means no line matched.
func (e *Engine) IntervalOffsets(lo, hi int64, keyX, keyY []byte, mode CompareMode) (start, end int64, err error) {
	start, end, err = e.bisect.BisectInterval(lo, hi, keyX, keyY, mode)
	if err != nil {
		return 0, 0, fmt.Errorf("bisect: interval offsets: %w", err)
	}
	if e.logger != nil {
		e.logger.Info().
			Int64("lo", lo).
			Int64("hi", hi).
			Bytes("keyX", keyX).
			Bytes("keyY", keyY).
			Str("mode", mode.String()).
			Int64("start", start).
			Int64("end", end).
			Msg("interval offsets")
	}
	return start, end, nil
}

// LeftOffset searches [lo, hi) for a single boundary against key under
// startMode, which must be LE or LT. It is used for the "append position"
// query: where a new line equal to key should be inserted to keep the file
// sorted (LE), or the start of the run of lines strictly greater than key
// (LT).
func (e *Engine) LeftOffset(lo, hi int64, key []byte, startMode CompareMode) (int64, error) {
	start, err := e.bisect.Bisect(lo, hi, key, startMode)
	if err != nil {
		return 0, fmt.Errorf("bisect: left offset: %w", err)
	}
	if e.logger != nil {
		e.logger.Info().
			Int64("lo", lo).
			Int64("hi", hi).
			Bytes("key", key).
			Str("mode", startMode.String()).
			Int64("start", start).
			Msg("left offset")
	}
	return start, nil
}

// Contains reports whether any line in the file matches key under mode,
// without computing a full interval. It mirrors the original CLI's
// detect-only shortcut: a single CM_LE bisect to find the candidate line,
// followed by one predicate evaluation against mode, instead of a second
// full bisection.
func (e *Engine) Contains(key []byte, mode CompareMode) (bool, error) {
	if mode == LE {
		// A single-key LE interval is always empty (start == end), by the
		// same reasoning as BisectInterval's keyX==keyY shortcut.
		return false, nil
	}

	start, err := e.bisect.Bisect(0, -1, key, LE)
	if err != nil {
		return false, fmt.Errorf("bisect: contains: %w", err)
	}
	pred, err := e.cmp.Predicate(start, key, mode)
	if err != nil {
		return false, fmt.Errorf("bisect: contains: %w", err)
	}
	return !pred, nil
}

// ReadRange writes the bytes [start, end) of the underlying file to w, in
// order. A short write by w is reported as ErrShortWrite.
func (e *Engine) ReadRange(start, end int64, w io.Writer) error {
	if start >= end {
		return nil
	}

	e.r.SeekAbs(start)
	remaining := end - start
	for remaining > 0 {
		chunk := int64(e.r.bufSize)
		if chunk > remaining {
			chunk = remaining
		}
		buf, err := e.r.Peek(int(chunk))
		if err != nil {
			return fmt.Errorf("bisect: read range: %w", err)
		}
		if len(buf) == 0 {
			break
		}
		n, err := w.Write(buf)
		if err != nil {
			return fmt.Errorf("bisect: write range: %w", err)
		}
		if n != len(buf) {
			return ErrShortWrite
		}
		e.r.SeekRel(int64(len(buf)))
		remaining -= int64(len(buf))
	}
	return nil
}
