package grid

import "fmt"

// Bounds is the configured maximum grid shape. It must be fixed before any
// Index or content digest is computed; changing it changes every linear
// offset.
type Bounds struct {
	MaxRows int
	MaxCols int
}

// DefaultBounds is used when no configuration overrides it.
var DefaultBounds = Bounds{MaxRows: 8, MaxCols: 8}

// Validate reports whether both maxima are positive.
func (b Bounds) Validate() error {
	if b.MaxRows <= 0 || b.MaxCols <= 0 {
		return fmt.Errorf("%w: bounds %dx%d", ErrInvalidShape, b.MaxRows, b.MaxCols)
	}
	return nil
}

// Size is the number of linear offsets the bounds address.
func (b Bounds) Size() int { return b.MaxRows * b.MaxCols }

// Index validates (row, col) against the bounds.
func (b Bounds) Index(row, col int) (Index, error) {
	if row < 0 || row >= b.MaxRows || col < 0 || col >= b.MaxCols {
		return Index{}, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrIndexOutOfBounds, row, col, b.MaxRows, b.MaxCols)
	}
	return Index{Row: row, Col: col}, nil
}

// MustIndex is like Index but panics on invalid coordinates. Intended for
// tests and literals.
func (b Bounds) MustIndex(row, col int) Index {
	idx, err := b.Index(row, col)
	if err != nil {
		panic(err)
	}
	return idx
}

// Linear maps idx to its offset row*MaxCols + col.
func (b Bounds) Linear(idx Index) int { return idx.Row*b.MaxCols + idx.Col }

// FromLinear is the inverse of Linear.
func (b Bounds) FromLinear(n int) (Index, error) {
	if n < 0 || n >= b.Size() {
		return Index{}, fmt.Errorf("%w: offset %d outside %dx%d", ErrIndexOutOfBounds, n, b.MaxRows, b.MaxCols)
	}
	return Index{Row: n / b.MaxCols, Col: n % b.MaxCols}, nil
}

// Index is a (row, col) coordinate. Values obtained from [Bounds.Index] are
// guaranteed to lie inside the bounds; equality is plain struct equality.
type Index struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (i Index) String() string { return fmt.Sprintf("(%d, %d)", i.Row, i.Col) }
