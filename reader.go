package bisect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// DefaultBufferSize is the default granule size used by ByteReader, in
// bytes. Must be a power of two; larger values rarely make a measurable
// difference for interactive queries.
const DefaultBufferSize = 8192

// ByteReader is a random-access buffered reader over a read-only file of
// known size. It is the single choke point through which the bisection
// engine touches the filesystem: every seek and read passes through it, so
// that no lseek(2) is issued when the desired offset is already buffered,
// no read(2) larger than the buffer is ever issued, and buffer refills are
// always aligned to the buffer's granule.
//
// A ByteReader is not safe for concurrent use; it belongs to exactly one
// Engine for exactly one query at a time.
type ByteReader struct {
	f       *os.File
	size    int64 // effective size; may be less than the file's real size after Limit
	bufSize int   // B, a power of two
	buf     []byte
	ofs     int64 // absolute file offset of buf[0]
	p       int   // read cursor within buf
	end     int   // one past the last valid byte in buf
}

// Open opens path for random access. If size is negative, the reader
// determines the file size itself by seeking to its end. It returns
// ErrNotSeekable if the descriptor cannot be positioned (e.g. a pipe), and
// ErrNotFile if path names a directory.
func Open(path string, size int64) (*ByteReader, error) {
	return OpenBuffered(path, size, DefaultBufferSize)
}

// OpenBuffered is Open with an explicit granule size, mainly useful for
// tests that want to exercise multi-granule behavior on small files.
// bufSize must be a power of two.
func OpenBuffered(path string, size int64, bufSize int) (*ByteReader, error) {
	if bufSize <= 0 || bufSize&(bufSize-1) != 0 {
		return nil, fmt.Errorf("bisect: buffer size %d is not a positive power of two", bufSize)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bisect: stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, ErrNotFile
	}

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("bisect: open %s: %w", path, err)
	}

	if size < 0 {
		size, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			f.Close()
			if errors.Is(err, syscall.ESPIPE) {
				return nil, ErrNotSeekable
			}
			return nil, fmt.Errorf("bisect: seek end of %s: %w", path, err)
		}
	}

	r := &ByteReader{
		f:       f,
		size:    size,
		bufSize: bufSize,
		buf:     make([]byte, bufSize+1),
	}
	r.goCold()
	return r, nil
}

// goCold invalidates the buffer such that the logical cursor sits at
// offset 0 and the next read realigns from scratch.
func (r *ByteReader) goCold() {
	r.p = r.bufSize + 1
	r.end = r.bufSize + 1
	r.ofs = -int64(r.bufSize + 1)
}

// isCold reports whether the buffer window holds no valid bytes: either it
// was never filled, or SeekAbs or Limit invalidated it. After any real
// fill, end never exceeds bufSize, so this structural check is unambiguous.
func (r *ByteReader) isCold() bool {
	return r.p == r.end && r.end == r.bufSize+1
}

// Close releases the underlying file descriptor.
func (r *ByteReader) Close() error {
	return r.f.Close()
}

// Size returns the reader's current effective size.
func (r *ByteReader) Size() int64 {
	return r.size
}

// Tell returns the reader's current logical cursor offset.
func (r *ByteReader) Tell() int64 {
	return r.ofs + int64(r.p)
}

// Limit shrinks the reader's effective size to newSize, if newSize is
// smaller than the current size. Buffered bytes beyond the new limit are
// trimmed (or the whole buffer window invalidated, if the cursor itself
// now lies beyond newSize).
func (r *ByteReader) Limit(newSize int64) {
	if newSize >= r.size {
		return
	}
	r.size = newSize
	if r.isCold() {
		return
	}
	bufEndAbs := r.ofs + int64(r.end)
	if bufEndAbs <= r.size {
		return
	}
	curAbs := r.Tell()
	if curAbs > r.size {
		ofs := curAbs
		r.goCold()
		r.ofs = ofs - int64(r.bufSize+1)
	} else {
		r.end = int(r.size - r.ofs)
		r.buf[r.end] = 0
	}
}

// SeekAbs positions the logical cursor at the absolute offset off, which
// may exceed Size() (no error). If off already lies within the buffered
// window, no I/O is performed; otherwise the buffer is invalidated and the
// next read realigns to off's containing granule.
func (r *ByteReader) SeekAbs(off int64) {
	if !r.isCold() && off >= r.ofs && off-r.ofs <= int64(r.end) {
		r.p = int(off - r.ofs)
		return
	}
	r.p = r.bufSize + 1
	r.end = r.bufSize + 1
	r.ofs = off - int64(r.bufSize+1)
}

// SeekRel moves the logical cursor by delta relative to its current
// position. It takes a fast path when delta is non-negative and stays
// within the already-buffered region; otherwise it delegates to SeekAbs.
func (r *ByteReader) SeekRel(delta int64) {
	if delta >= 0 && delta <= int64(r.end-r.p) {
		r.p += int(delta)
		return
	}
	r.SeekAbs(r.Tell() + delta)
}

// GetByte returns the next byte at the logical cursor and advances it by
// one, or io.EOF if the cursor is at or past Size(). Any other error is a
// terminating I/O failure.
func (r *ByteReader) GetByte() (byte, error) {
	if r.p != r.end {
		b := r.buf[r.p]
		r.p++
		return b, nil
	}
	return r.fill()
}

// fill performs the cold path of GetByte: align to the containing granule,
// issue exactly one read, update the buffer window, and retry.
func (r *ByteReader) fill() (byte, error) {
	a := r.Tell()
	if a >= r.size {
		return 0, io.EOF
	}

	b := a &^ int64(r.bufSize-1)
	r.p = int(a - b)
	if r.ofs != b {
		if _, err := r.f.Seek(b, io.SeekStart); err != nil {
			return 0, fmt.Errorf("bisect: seek: %w", err)
		}
		r.ofs = b
	}

	need := r.bufSize
	if b+int64(need) > r.size {
		need = int(r.size - b)
	}
	got, err := r.f.Read(r.buf[:need])
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("bisect: read: %w", err)
	}
	r.end = got
	r.buf[r.end] = 0

	gotEnd := b + int64(got)
	if got < need && gotEnd < r.size {
		// The kernel's short read is the new truth about the file's length.
		r.size = gotEnd
	}
	if gotEnd <= a {
		r.p = r.end
		return 0, io.EOF
	}

	res := r.buf[r.p]
	r.p++
	return res, nil
}

// UngetByte rewinds the logical cursor by one byte. It is only legal to
// call immediately after a GetByte call that did not return io.EOF.
func (r *ByteReader) UngetByte() {
	r.p--
}

// Peek returns a contiguous slice of up to maxLen buffered bytes starting
// at the current cursor, forcing one fill if the buffer is presently
// empty at the cursor. The cursor is not advanced; the caller must call
// SeekRel(len(result)) to consume the returned bytes. A nil slice means
// end-of-stream.
func (r *ByteReader) Peek(maxLen int) ([]byte, error) {
	if maxLen <= 0 {
		return nil, nil
	}
	available := r.end - r.p
	if available <= 0 {
		_, err := r.GetByte()
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		r.UngetByte()
		available = r.end - r.p
	}
	if maxLen > available {
		maxLen = available
	}
	return r.buf[r.p : r.p+maxLen], nil
}
