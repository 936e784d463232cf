package grid

import (
	"fmt"
	"slices"

	"github.com/matzehuels/inarow/pkg/game"
)

// Direction selects one of the four line orientations a run can follow.
type Direction int

const (
	// Horizontal runs along a row.
	Horizontal Direction = iota
	// Vertical runs along a column.
	Vertical
	// Diagonal runs from top-left to bottom-right.
	Diagonal
	// AntiDiagonal runs from top-right to bottom-left.
	AntiDiagonal

	numDirections
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "row"
	case Vertical:
		return "column"
	case Diagonal:
		return "diagonal"
	case AntiDiagonal:
		return "anti-diagonal"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// neighbours maps every neighbour offset to the structure it is united in.
var neighbours = [...]struct {
	dr, dc int
	dir    Direction
}{
	{0, -1, Horizontal}, {0, 1, Horizontal},
	{-1, 0, Vertical}, {1, 0, Vertical},
	{-1, -1, Diagonal}, {1, 1, Diagonal},
	{-1, 1, AntiDiagonal}, {1, -1, AntiDiagonal},
}

// Grid is a rows x cols board obeying gravity. Cells not written are
// implicitly [game.Empty]. Cells are never removed.
//
// The zero value is not usable - use New. Grid is not safe for concurrent
// mutation; a Grid owned by a state is treated as immutable.
type Grid struct {
	bounds Bounds
	rows   int
	cols   int
	cells  []game.Chip // row-major, rows*cols
	filled []int       // chips per column
	unions [numDirections]*UnionFind
	placed int
}

// New creates an empty grid. The shape must be positive and fit within b.
func New(b Bounds, rows, cols int) (*Grid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 || rows > b.MaxRows || cols > b.MaxCols {
		return nil, fmt.Errorf("%w: %dx%d within bounds %dx%d", ErrInvalidShape, rows, cols, b.MaxRows, b.MaxCols)
	}
	g := &Grid{
		bounds: b,
		rows:   rows,
		cols:   cols,
		cells:  make([]game.Chip, rows*cols),
		filled: make([]int, cols),
	}
	for d := range g.unions {
		g.unions[d] = NewUnionFind(b.Size())
	}
	return g, nil
}

// Bounds returns the bounds the grid was created with.
func (g *Grid) Bounds() Bounds { return g.bounds }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Placed returns the number of occupied cells.
func (g *Grid) Placed() int { return g.placed }

// ColumnHeight returns the number of chips in col.
func (g *Grid) ColumnHeight(col int) int { return g.filled[col] }

// Clone returns a deep copy sharing no state with g.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		bounds: g.bounds,
		rows:   g.rows,
		cols:   g.cols,
		cells:  slices.Clone(g.cells),
		filled: slices.Clone(g.filled),
		placed: g.placed,
	}
	for d, uf := range g.unions {
		c.unions[d] = uf.Clone()
	}
	return c
}

// Index validates (row, col) against both the bounds and the grid's shape.
func (g *Grid) Index(row, col int) (Index, error) {
	idx, err := g.bounds.Index(row, col)
	if err != nil {
		return Index{}, err
	}
	if err := g.check(idx); err != nil {
		return Index{}, err
	}
	return idx, nil
}

func (g *Grid) check(idx Index) error {
	if idx.Row < 0 || idx.Row >= g.rows || idx.Col < 0 || idx.Col >= g.cols {
		return &CellError{Index: idx, Err: ErrIndexOutOfBounds}
	}
	return nil
}

func (g *Grid) at(row, col int) game.Chip { return g.cells[row*g.cols+col] }

// Get returns the chip at idx.
func (g *Grid) Get(idx Index) (game.Chip, error) {
	if err := g.check(idx); err != nil {
		return game.Empty, err
	}
	return g.at(idx.Row, idx.Col), nil
}

// Set writes chip at idx. It fails with ErrCellOccupied if the cell is taken
// and with ErrCellDangling if the cell below it is empty.
func (g *Grid) Set(idx Index, chip game.Chip) error {
	if err := g.check(idx); err != nil {
		return err
	}
	if !chip.Placeable() {
		return &CellError{Index: idx, Err: fmt.Errorf("%w: %v", ErrInvalidChip, chip)}
	}
	if g.at(idx.Row, idx.Col) != game.Empty {
		return &CellError{Index: idx, Err: ErrCellOccupied}
	}
	if below := idx.Row + 1; below < g.rows && g.at(below, idx.Col) == game.Empty {
		return &CellError{Index: idx, Err: ErrCellDangling}
	}
	g.place(idx, chip)
	return nil
}

// EmptyRow returns the lowest empty row of col, or -1 if the column is full.
func (g *Grid) EmptyRow(col int) (int, error) {
	if col < 0 || col >= g.cols {
		return 0, &ColumnError{Col: col, Err: ErrIndexOutOfBounds}
	}
	return g.rows - g.filled[col] - 1, nil
}

// Drop places chip at the lowest empty row of col and returns where it
// landed.
func (g *Grid) Drop(col int, chip game.Chip) (Index, error) {
	row, err := g.EmptyRow(col)
	if err != nil {
		return Index{}, err
	}
	if row < 0 {
		return Index{}, &ColumnError{Col: col, Err: ErrColumnFull}
	}
	if !chip.Placeable() {
		return Index{}, &ColumnError{Col: col, Err: fmt.Errorf("%w: %v", ErrInvalidChip, chip)}
	}
	idx := Index{Row: row, Col: col}
	g.place(idx, chip)
	return idx, nil
}

// Moves returns one index per non-full column, in column order, each at the
// column's lowest empty row.
func (g *Grid) Moves() []Index {
	moves := make([]Index, 0, g.cols)
	for col := 0; col < g.cols; col++ {
		if row := g.rows - g.filled[col] - 1; row >= 0 {
			moves = append(moves, Index{Row: row, Col: col})
		}
	}
	return moves
}

// IsFull reports whether every column is filled to the top.
func (g *Grid) IsFull() bool {
	for _, n := range g.filled {
		if n != g.rows {
			return false
		}
	}
	return true
}

// WinState reports the outcome for the given run length. The boolean is
// false while the game is still undecided.
//
// A run of at least runLength in any direction wins for the chip owning it;
// otherwise a full grid is a draw.
func (g *Grid) WinState(runLength int) (game.WinState, bool) {
	if g.placed > 0 {
		for _, uf := range g.unions {
			root, size, err := uf.Largest()
			if err != nil || size < runLength {
				continue
			}
			idx, _ := g.bounds.FromLinear(root)
			if w, err := game.FromChip(g.at(idx.Row, idx.Col)); err == nil {
				return w, true
			}
		}
	}
	if g.IsFull() {
		return game.Draw, true
	}
	return game.Draw, false
}

// LongestRun returns the length of the longest run in direction d.
func (g *Grid) LongestRun(d Direction) int {
	_, size, err := g.unions[d].Largest()
	if err != nil {
		return 0
	}
	return size
}

// Cells returns a row-major copy of the cell contents.
func (g *Grid) Cells() []game.Chip { return slices.Clone(g.cells) }

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.rows == other.rows && g.cols == other.cols && slices.Equal(g.cells, other.cells)
}

// FromCells rebuilds a grid from row-major contents, replaying placements
// bottom-up so that the union-find state matches a grid built move by move.
func FromCells(b Bounds, rows, cols int, cells []game.Chip) (*Grid, error) {
	g, err := New(b, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(cells) != rows*cols {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d grid", ErrInvalidShape, len(cells), rows, cols)
	}
	for row := rows - 1; row >= 0; row-- {
		for col := 0; col < cols; col++ {
			chip := cells[row*cols+col]
			if chip == game.Empty {
				continue
			}
			if err := g.Set(Index{Row: row, Col: col}, chip); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *Grid) place(idx Index, chip game.Chip) {
	g.cells[idx.Row*g.cols+idx.Col] = chip
	g.filled[idx.Col]++
	g.placed++

	n := g.bounds.Linear(idx)
	for _, uf := range g.unions {
		uf.Add(n)
	}
	for _, nb := range neighbours {
		r, c := idx.Row+nb.dr, idx.Col+nb.dc
		if r < 0 || r >= g.rows || c < 0 || c >= g.cols || g.at(r, c) != chip {
			continue
		}
		g.unions[nb.dir].Union(n, g.bounds.Linear(Index{Row: r, Col: c}))
	}
}
