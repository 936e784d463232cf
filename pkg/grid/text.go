package grid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/inarow/pkg/game"
)

// String renders the grid top row first, one line per row, using
// [game.Chip.Symbol] glyphs.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < g.cols; col++ {
			sb.WriteByte(g.at(row, col).Symbol())
		}
	}
	return sb.String()
}

// Parse builds a grid from the text form produced by String. Blank lines and
// surrounding whitespace are ignored; every row must have the same width.
//
//	g, err := grid.Parse(grid.DefaultBounds, `
//	    R.
//	    GG`)
func Parse(b Bounds, text string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidShape)
	}

	rows, cols := len(lines), len(lines[0])
	cells := make([]game.Chip, 0, rows*cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidShape, r, len(line), cols)
		}
		for _, ch := range line {
			chip, err := game.ParseChip(string(ch))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			cells = append(cells, chip)
		}
	}
	return FromCells(b, rows, cols, cells)
}
