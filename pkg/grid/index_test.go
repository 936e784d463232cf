package grid

import (
	"errors"
	"testing"
)

func TestBoundsIndex(t *testing.T) {
	b := Bounds{MaxRows: 3, MaxCols: 4}

	idx, err := b.Index(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Linear(idx); got != 11 {
		t.Errorf("Linear(%v) = %d, want 11", idx, got)
	}

	for _, rc := range [][2]int{{3, 0}, {0, 4}, {-1, 0}, {0, -1}} {
		if _, err := b.Index(rc[0], rc[1]); !errors.Is(err, ErrIndexOutOfBounds) {
			t.Errorf("Index(%d, %d) error = %v", rc[0], rc[1], err)
		}
	}
}

func TestBoundsLinearRoundTrip(t *testing.T) {
	b := Bounds{MaxRows: 3, MaxCols: 5}
	seen := make(map[int]bool)
	for row := 0; row < b.MaxRows; row++ {
		for col := 0; col < b.MaxCols; col++ {
			idx := b.MustIndex(row, col)
			n := b.Linear(idx)
			if seen[n] {
				t.Fatalf("offset %d produced twice", n)
			}
			seen[n] = true
			back, err := b.FromLinear(n)
			if err != nil || back != idx {
				t.Errorf("FromLinear(%d) = %v, %v; want %v", n, back, err, idx)
			}
		}
	}
	if _, err := b.FromLinear(b.Size()); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("FromLinear(Size) error = %v", err)
	}
}

func TestBoundsValidate(t *testing.T) {
	if err := (Bounds{}).Validate(); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("zero Bounds should be invalid, got %v", err)
	}
	if err := DefaultBounds.Validate(); err != nil {
		t.Errorf("DefaultBounds invalid: %v", err)
	}
}
