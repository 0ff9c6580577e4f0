package bisect

import "testing"

func TestLineStartAt(t *testing.T) {
	// Lines: "aa\n" (0-3), "bbb\n" (3-7), "c\n" (7-9). Size 9.
	path := writeTempFile(t, "aa\nbbb\nc\n")
	r, err := OpenBuffered(path, -1, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	loc := NewLineLocator(r)

	var tests = []struct {
		off  int64
		want int64
	}{
		{0, 0},
		{1, 3}, // mid-line, next boundary
		{2, 3},
		{3, 3}, // already a line start
		{4, 7},
		{6, 7},
		{7, 7},
		{8, 9},
		{9, 9},  // at EOF
		{20, 9}, // past EOF clamps to size
	}
	for _, tc := range tests {
		got, err := loc.LineStartAt(tc.off)
		if err != nil {
			t.Errorf("LineStartAt(%d): unexpected error %s", tc.off, err)
			continue
		}
		if got != tc.want {
			t.Errorf("LineStartAt(%d) = %d, want %d", tc.off, got, tc.want)
		}
	}
}

func TestLineStartAtIsIdempotent(t *testing.T) {
	path := writeTempFile(t, "aa\nbbb\nc\n")
	r, err := OpenBuffered(path, -1, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	loc := NewLineLocator(r)

	for off := int64(0); off <= r.Size(); off++ {
		once, err := loc.LineStartAt(off)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := loc.LineStartAt(once)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("LineStartAt(%d) = %d, but LineStartAt(%d) = %d", off, once, once, twice)
		}
	}
}

func TestLineStartAtNoTrailingNewline(t *testing.T) {
	path := writeTempFile(t, "aa\nbbb")
	r, err := OpenBuffered(path, -1, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	loc := NewLineLocator(r)

	got, err := loc.LineStartAt(4)
	if err != nil {
		t.Fatal(err)
	}
	if got != r.Size() {
		t.Errorf("LineStartAt(4) = %d, want size %d", got, r.Size())
	}
}
