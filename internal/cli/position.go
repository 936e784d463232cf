package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/config"
	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/state"
)

// Position flag defaults: the smallest board with a forced result.
const (
	defaultRows = 2
	defaultCols = 2
	defaultRun  = 2
)

// positionFlags describe a position as a board shape plus the column drops
// leading to it.
type positionFlags struct {
	rows  int
	cols  int
	run   int
	moves string
	first string
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&p.rows, "rows", "r", defaultRows, "board rows")
	cmd.Flags().IntVarP(&p.cols, "cols", "c", defaultCols, "board columns")
	cmd.Flags().IntVarP(&p.run, "run", "n", defaultRun, "chips in a row needed to win")
	cmd.Flags().StringVarP(&p.moves, "moves", "m", "", "columns played from the empty board, e.g. 0,1,1")
	cmd.Flags().StringVar(&p.first, "first", "green", "chip that moves first: green or red")
}

// position builds the described position under cfg's bounds.
func (p *positionFlags) position(cfg config.Config, d *state.Digester) (*state.State, error) {
	b := cfg.Bounds()
	if err := errors.ValidateShape(p.rows, p.cols, p.run, b.MaxRows, b.MaxCols); err != nil {
		return nil, err
	}
	moves, err := errors.ParseMoves(p.moves)
	if err != nil {
		return nil, err
	}
	first, err := game.ParseChip(p.first)
	if err != nil || !first.Placeable() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--first must be green or red, got %q", p.first)
	}
	g, err := grid.New(b, p.rows, p.cols)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "grid")
	}
	s, err := state.FromMoves(d, g, first, p.run, moves...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMove, err, "replay moves")
	}
	return s, nil
}
