package bisect

import "testing"

// Lines: "apple" [0,6), "banana" [6,13), "cherry" [13,20). Size 20.
func openFruitFile(t *testing.T) *ByteReader {
	t.Helper()
	path := writeTempFile(t, "apple\nbanana\ncherry\n")
	r, err := OpenBuffered(path, -1, 8)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestPredicateLE(t *testing.T) {
	r := openFruitFile(t)
	cmp := NewLineComparator(r)

	var tests = []struct {
		lineStart int64
		key       string
		want      bool
	}{
		{0, "apple", true},  // equal
		{0, "aaa", true},    // key < line
		{0, "zzz", false},   // key > line
		{6, "banana", true}, // equal
		{13, "cherry", true},
		{13, "date", false},
	}
	for _, tc := range tests {
		got, err := cmp.Predicate(tc.lineStart, []byte(tc.key), LE)
		if err != nil {
			t.Errorf("Predicate(%d, %q, LE): unexpected error %s", tc.lineStart, tc.key, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Predicate(%d, %q, LE) = %v, want %v", tc.lineStart, tc.key, got, tc.want)
		}
	}
}

func TestPredicateLT(t *testing.T) {
	r := openFruitFile(t)
	cmp := NewLineComparator(r)

	var tests = []struct {
		lineStart int64
		key       string
		want      bool
	}{
		{0, "apple", false}, // equal, not strictly less
		{0, "aaa", true},
		{0, "zzz", false},
		{6, "banan", true}, // key < line by prefix shortness
	}
	for _, tc := range tests {
		got, err := cmp.Predicate(tc.lineStart, []byte(tc.key), LT)
		if err != nil {
			t.Errorf("Predicate(%d, %q, LT): unexpected error %s", tc.lineStart, tc.key, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Predicate(%d, %q, LT) = %v, want %v", tc.lineStart, tc.key, got, tc.want)
		}
	}
}

func TestPredicateLP(t *testing.T) {
	r := openFruitFile(t)
	cmp := NewLineComparator(r)

	var tests = []struct {
		lineStart int64
		key       string
		want      bool
	}{
		{0, "app", false},    // key is a prefix of the line: not past it yet
		{0, "apple", false},  // exact match: not past it yet
		{0, "aaa", true},     // key sorts strictly before the line
		{13, "a", true},      // line "cherry" sorts after key "a"
		{13, "d", false},     // line "cherry" sorts before key "d"
	}
	for _, tc := range tests {
		got, err := cmp.Predicate(tc.lineStart, []byte(tc.key), LP)
		if err != nil {
			t.Errorf("Predicate(%d, %q, LP): unexpected error %s", tc.lineStart, tc.key, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Predicate(%d, %q, LP) = %v, want %v", tc.lineStart, tc.key, got, tc.want)
		}
	}
}

func TestPredicateAtEOF(t *testing.T) {
	r := openFruitFile(t)
	cmp := NewLineComparator(r)

	// lineStart == size: a phantom past-end line behaves as +infinity, so
	// every mode's predicate is true.
	for _, mode := range []CompareMode{LE, LT, LP} {
		got, err := cmp.Predicate(r.Size(), []byte("anything"), mode)
		if err != nil {
			t.Fatal(err)
		}
		if !got {
			t.Errorf("Predicate(size, ..., %s) = false, want true", mode)
		}
	}
}
