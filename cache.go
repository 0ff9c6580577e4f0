package bisect

// cacheStatus tracks which of the cache's two slots are populated and
// which one is "active" (the one an immediate requery at the same probe
// would return). It mirrors the C original's packed int encoding
// (CACHE_HAS_0/CACHE_HAS_1/CACHE_GET_ACTIVE) as an explicit small enum,
// since Go has no reason to pack the state into bitfields.
type cacheStatus int

const (
	cacheNone             cacheStatus = iota // neither slot populated
	cacheSlot0ActiveOnly                     // only slot 0 populated, active
	cacheBothSlot0Active                     // both populated, slot 0 active
	cacheBothSlot1Active                     // both populated, slot 1 active
)

type cacheEntry struct {
	probeOfs     int64
	lineStartOfs int64
	predicate    bool
}

// BisectCache is a two-entry memoization of (probe offset -> line start,
// predicate) valid for a single (key, mode) pair during one bisection.
// Binary search probes cluster around a small number of line starts, so
// two slots capture nearly all of the reuse an unbounded cache would.
type BisectCache struct {
	status cacheStatus
	e      [2]cacheEntry

	loc *LineLocator
	cmp *LineComparator
}

// NewBisectCache returns a fresh, empty cache for use in exactly one
// bisection over loc/cmp.
func NewBisectCache(loc *LineLocator, cmp *LineComparator) *BisectCache {
	return &BisectCache{loc: loc, cmp: cmp}
}

// Reset clears the cache. Callers must reset between independent
// bisections, and must never share a cache across different (key, mode)
// pairs: the stored predicate values are only meaningful for the inputs
// that produced them.
func (c *BisectCache) Reset() {
	c.status = cacheNone
}

func (c *BisectCache) has0() bool { return c.status != cacheNone }
func (c *BisectCache) has1() bool {
	return c.status == cacheBothSlot0Active || c.status == cacheBothSlot1Active
}
func (c *BisectCache) active() int {
	if c.status == cacheBothSlot1Active {
		return 1
	}
	return 0
}

// LookupWithPredicate resolves probe to its containing line start and the
// predicate of key/mode evaluated on that line, consulting (and updating)
// the cache.
func (c *BisectCache) LookupWithPredicate(probe int64, key []byte, mode CompareMode) (lineStart int64, predicate bool, err error) {
	if c.has0() && c.e[0].probeOfs <= probe && probe <= c.e[0].lineStartOfs {
		if c.active() == 1 {
			c.status = cacheBothSlot0Active
		}
		return c.e[0].lineStartOfs, c.e[0].predicate, nil
	}
	if c.has1() && c.e[1].probeOfs <= probe && probe <= c.e[1].lineStartOfs {
		if c.active() == 0 {
			c.status = cacheBothSlot1Active
		}
		return c.e[1].lineStartOfs, c.e[1].predicate, nil
	}

	f, err := c.loc.LineStartAt(probe)
	if err != nil {
		return 0, false, err
	}

	if c.has0() && c.e[0].lineStartOfs == f {
		if c.active() == 1 {
			c.status = cacheBothSlot0Active
		}
		if c.e[0].probeOfs > probe {
			c.e[0].probeOfs = probe
		}
		return c.e[0].lineStartOfs, c.e[0].predicate, nil
	}
	if c.has1() && c.e[1].lineStartOfs == f {
		if c.active() == 0 {
			c.status = cacheBothSlot1Active
		}
		if c.e[1].probeOfs > probe {
			c.e[1].probeOfs = probe
		}
		return c.e[1].lineStartOfs, c.e[1].predicate, nil
	}

	// Allocate a slot: fill slot 0 if both free, fill the other slot if
	// one is in use, or evict the inactive slot via round-robin flip.
	var slot int
	if c.has0() {
		slot = 1 - c.active()
		if slot == 1 {
			c.status = cacheBothSlot1Active
		} else {
			c.status = cacheBothSlot0Active
		}
	} else {
		slot = 0
		c.status = cacheSlot0ActiveOnly
	}

	pred, err := c.cmp.Predicate(f, key, mode)
	if err != nil {
		return 0, false, err
	}
	c.e[slot] = cacheEntry{probeOfs: probe, lineStartOfs: f, predicate: pred}
	return f, pred, nil
}

// LookupLineStartOnly resolves probe to its containing line start without
// evaluating any predicate. If the discovered line start is not already
// held by a cache slot, the cache is left unchanged — there is no
// predicate value to store for it.
func (c *BisectCache) LookupLineStartOnly(probe int64) (int64, error) {
	if c.has0() && c.e[0].probeOfs <= probe && probe <= c.e[0].lineStartOfs {
		if c.active() == 1 {
			c.status = cacheBothSlot0Active
		}
		return c.e[0].lineStartOfs, nil
	}
	if c.has1() && c.e[1].probeOfs <= probe && probe <= c.e[1].lineStartOfs {
		if c.active() == 0 {
			c.status = cacheBothSlot1Active
		}
		return c.e[1].lineStartOfs, nil
	}

	f, err := c.loc.LineStartAt(probe)
	if err != nil {
		return 0, err
	}

	if c.has0() && c.e[0].lineStartOfs == f {
		if c.active() == 1 {
			c.status = cacheBothSlot0Active
		}
		if c.e[0].probeOfs > probe {
			c.e[0].probeOfs = probe
		}
	} else if c.has1() && c.e[1].lineStartOfs == f {
		if c.active() == 0 {
			c.status = cacheBothSlot1Active
		}
		if c.e[1].probeOfs > probe {
			c.e[1].probeOfs = probe
		}
	}
	return f, nil
}
