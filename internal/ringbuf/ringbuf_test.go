package ringbuf

import (
	"bytes"
	"strings"
	"testing"
)

func TestFillAndByteAt(t *testing.T) {
	b := New(16)
	r := strings.NewReader("hello")

	n, err := b.Fill(r)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if n != 5 {
		t.Fatalf("n = %d, want 5", n)
	}

	for i, want := range []byte("hello") {
		got, err := b.ByteAt(uint64(i))
		if err != nil {
			t.Fatalf("ByteAt(%d) error: %v", i, err)
		}
		if got != want {
			t.Errorf("ByteAt(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestAdvanceMonotonic(t *testing.T) {
	b := New(8)
	b.Fill(strings.NewReader("abcd"))
	b.Advance(2)
	if b.Pos() != 2 {
		t.Fatalf("Pos() = %d, want 2", b.Pos())
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestAdvancePastLastPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic advancing past last")
		}
	}()
	b := New(8)
	b.Fill(strings.NewReader("ab"))
	b.Advance(5)
}

func TestOverflow(t *testing.T) {
	b := New(4)
	_, err := b.Fill(strings.NewReader("abcd"))
	if err != nil {
		t.Fatalf("first fill should fit exactly: %v", err)
	}
	_, err = b.Fill(strings.NewReader("e"))
	if err != ErrOverflow {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
}

func TestSliceNoWrap(t *testing.T) {
	b := New(16)
	b.Fill(strings.NewReader("0123456789"))
	s, err := b.Slice(2, 5)
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if !bytes.Equal(s, []byte("234")) {
		t.Errorf("Slice(2,5) = %q, want %q", s, "234")
	}
}

func TestSliceAcrossWrap(t *testing.T) {
	b := New(8)
	// Fill and drain repeatedly to push pos/last past a multiple of
	// capacity, forcing the next fill to wrap.
	b.Fill(strings.NewReader("12345678"))
	b.Advance(6)
	b.Fill(strings.NewReader("ab")) // last now wraps: positions 8,9 -> slots 0,1

	s, err := b.Slice(6, 10)
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if !bytes.Equal(s, []byte("78ab")) {
		t.Errorf("Slice(6,10) = %q, want %q", s, "78ab")
	}
}

func TestByteAtOutOfRange(t *testing.T) {
	b := New(8)
	b.Fill(strings.NewReader("ab"))
	b.Advance(1)

	if _, err := b.ByteAt(0); err != ErrOutOfRange {
		t.Errorf("ByteAt(0) after advance: err = %v, want ErrOutOfRange", err)
	}
	if _, err := b.ByteAt(2); err != ErrOutOfRange {
		t.Errorf("ByteAt(2) beyond last: err = %v, want ErrOutOfRange", err)
	}
}

func TestResetRewindsCursors(t *testing.T) {
	b := New(8)
	b.Fill(strings.NewReader("abcd"))
	b.Advance(2)
	b.Reset()
	if b.Pos() != 0 || b.Last() != 0 {
		t.Fatalf("Reset did not rewind cursors: pos=%d last=%d", b.Pos(), b.Last())
	}
}
