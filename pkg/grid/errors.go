package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrCellOccupied is returned by [Grid.Set] when the target cell already
	// holds a chip.
	ErrCellOccupied = errors.New("cell occupied")

	// ErrCellDangling is returned by [Grid.Set] when the cell below the target
	// is empty and the target is not on the bottom row.
	ErrCellDangling = errors.New("cell dangling")

	// ErrColumnFull is returned by [Grid.Drop] when a column has no empty row.
	ErrColumnFull = errors.New("column full")

	// ErrIndexOutOfBounds is returned when a coordinate lies outside the
	// configured bounds or the grid's shape.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidChip is returned when a non-placeable chip is written.
	ErrInvalidChip = errors.New("invalid chip")

	// ErrInvalidShape is returned by [New] for shapes that are empty or exceed
	// the bounds.
	ErrInvalidShape = errors.New("invalid grid shape")

	// ErrEmptyStructure is returned by [UnionFind.Largest] before any index
	// was added.
	ErrEmptyStructure = errors.New("union-find structure is empty")
)

// CellError reports a placement failure at a specific cell.
type CellError struct {
	Index Index
	Err   error
}

func (e *CellError) Error() string { return fmt.Sprintf("cell %s: %v", e.Index, e.Err) }

// Unwrap returns the sentinel describing the failure.
func (e *CellError) Unwrap() error { return e.Err }

// ColumnError reports a placement failure for a whole column.
type ColumnError struct {
	Col int
	Err error
}

func (e *ColumnError) Error() string { return fmt.Sprintf("column %d: %v", e.Col, e.Err) }

// Unwrap returns the sentinel describing the failure.
func (e *ColumnError) Unwrap() error { return e.Err }
