package bisect

import (
	"bytes"

	"github.com/rs/zerolog"
)

// Bisector drives a binary search over a line-sorted file, probing lines
// through a BisectCache so that repeated probes at the same offset (which
// binary search produces constantly near the answer) cost no extra I/O.
type Bisector struct {
	loc    *LineLocator
	cmp    *LineComparator
	logger *zerolog.Logger
}

// NewBisector returns a Bisector reading line boundaries through loc and
// comparing lines through cmp. logger may be nil.
func NewBisector(loc *LineLocator, cmp *LineComparator, logger *zerolog.Logger) *Bisector {
	return &Bisector{loc: loc, cmp: cmp, logger: logger}
}

// Bisect searches the half-open byte range [lo, hi) for the boundary
// mode's predicate crosses from false to true, and returns the start offset
// of the line at that boundary. hi may be negative or greater than the
// file size, meaning "end of file". key must not contain LF.
//
// The search assumes the predicate is false for all lines before the
// boundary and true for all lines at or after it; behavior is undefined
// (though it terminates) if the file is not actually sorted with respect
// to key and mode.
func (b *Bisector) Bisect(lo, hi int64, key []byte, mode CompareMode) (int64, error) {
	cache := NewBisectCache(b.loc, b.cmp)
	return b.bisect(cache, lo, hi, key, mode)
}

func (b *Bisector) bisect(cache *BisectCache, lo, hi int64, key []byte, mode CompareMode) (int64, error) {
	size := b.loc.r.Size()
	if hi < 0 || hi > size {
		hi = size
	}

	if len(key) == 0 {
		if mode == LE {
			// bisect_way's CM_LE shortcut: an empty key is <= every line,
			// so the answer is always the line start at lo.
			hi = lo
		}
		if mode == LP && hi == size {
			// An empty-key prefix search never excludes anything, so if
			// the upper bound is already the end of file, it is the answer.
			return hi, nil
		}
	}

	if lo >= hi {
		return cache.LookupLineStartOnly(lo)
	}

	var mid, midf int64
	for {
		mid = (lo + hi) >> 1
		f, pred, err := cache.LookupWithPredicate(mid, key, mode)
		if err != nil {
			return 0, err
		}
		midf = f
		if b.logger != nil {
			b.logger.Debug().
				Int64("lo", lo).
				Int64("hi", hi).
				Int64("mid", mid).
				Int64("lineStart", f).
				Bool("predicate", pred).
				Str("mode", mode.String()).
				Msg("bisect probe")
		}
		if pred {
			hi = mid
		} else {
			lo = mid + 1
		}
		if lo >= hi {
			break
		}
	}

	if mid == lo {
		return midf, nil
	}
	return cache.LookupLineStartOnly(lo)
}

// BisectInterval searches [lo, hi) for the half-open (or, with mode==LE on
// the end key, closed-then-reopened) interval of lines matching keys in
// [keyX, keyY]. start is always computed with CM_LE against keyX (bisect
// left); end is computed against keyY with mode. If keyX and keyY are
// identical and mode is LE, end reuses start without a second search.
//
// Each half of the search gets its own BisectCache: the two searches use
// different keys (and possibly different modes), so nothing cached for one
// is valid for the other.
func (b *Bisector) BisectInterval(lo, hi int64, keyX, keyY []byte, mode CompareMode) (start, end int64, err error) {
	startCache := NewBisectCache(b.loc, b.cmp)
	start, err = b.bisect(startCache, lo, hi, keyX, LE)
	if err != nil {
		return 0, 0, err
	}

	if mode == LE && bytes.Equal(keyX, keyY) {
		return start, start, nil
	}

	endCache := NewBisectCache(b.loc, b.cmp)
	end, err = b.bisect(endCache, start, hi, keyY, mode)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
