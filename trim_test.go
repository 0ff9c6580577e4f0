package bisect

import "testing"

func TestTrimIncompleteDropsUnterminatedTail(t *testing.T) {
	path := writeTempFile(t, "one\ntwo\nthree")
	r, err := OpenBuffered(path, -1, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := NewIncompleteLineTrimmer().TrimIncomplete(r); err != nil {
		t.Fatal(err)
	}
	if want := int64(len("one\ntwo\n")); r.Size() != want {
		t.Errorf("Size() = %d after trim, want %d", r.Size(), want)
	}
}

func TestTrimIncompleteNoOpWhenTerminated(t *testing.T) {
	path := writeTempFile(t, "one\ntwo\n")
	r, err := OpenBuffered(path, -1, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	orig := r.Size()
	if err := NewIncompleteLineTrimmer().TrimIncomplete(r); err != nil {
		t.Fatal(err)
	}
	if r.Size() != orig {
		t.Errorf("Size() = %d after no-op trim, want unchanged %d", r.Size(), orig)
	}
}

func TestTrimIncompleteEmptyFile(t *testing.T) {
	path := writeTempFile(t, "")
	r, err := OpenBuffered(path, -1, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := NewIncompleteLineTrimmer().TrimIncomplete(r); err != nil {
		t.Fatal(err)
	}
	if r.Size() != 0 {
		t.Errorf("Size() = %d for empty file, want 0", r.Size())
	}
}

func TestTrimIncompleteAllIncomplete(t *testing.T) {
	path := writeTempFile(t, "no newline at all")
	r, err := OpenBuffered(path, -1, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := NewIncompleteLineTrimmer().TrimIncomplete(r); err != nil {
		t.Fatal(err)
	}
	if r.Size() != 0 {
		t.Errorf("Size() = %d, want 0 when no line is ever terminated", r.Size())
	}
}
