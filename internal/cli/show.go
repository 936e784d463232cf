package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/vault"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var pos positionFlags

	cmd := &cobra.Command{
		Use:   "show [digest]",
		Short: "Print a stored position with its outcome and children",
		Long: `Show loads a position from the store, either by digest or by the
board shape and moves leading to it, and prints its grid, its outcome
counts and one line per legal move.`,
		Example: `  inarow show 3f5a1c...
  inarow show --rows 3 --cols 3 --run 3 --moves 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(ctx context.Context, b *backend) error {
				d, err := c.resolveDigest(b, args, &pos)
				if err != nil {
					return err
				}
				return c.runShow(ctx, b, d)
			})
		},
	}
	pos.register(cmd)
	return cmd
}

// resolveDigest takes the digest argument if present, otherwise the
// position described by the flags.
func (c *CLI) resolveDigest(b *backend, args []string, pos *positionFlags) (state.Digest, error) {
	if len(args) == 1 {
		if err := errors.ValidateDigest(args[0]); err != nil {
			return "", err
		}
		return state.Digest(args[0]), nil
	}
	s, err := pos.position(b.cfg, b.vault.Digester())
	if err != nil {
		return "", err
	}
	return s.Digest(), nil
}

func (c *CLI) runShow(ctx context.Context, b *backend, d state.Digest) error {
	s, err := loadPosition(ctx, b.vault, d)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, StyleTitle.Render("Position ")+StyleValue.Render(string(d)))
	printBoard(c.out, s.Board())
	printKeyValue(c.out, "Run length", fmt.Sprint(s.RunLength()))
	if w, done := s.WinState(); done {
		printKeyValue(c.out, "Result", w.String())
	} else {
		printKeyValue(c.out, "Next", s.Next().String())
	}
	if o := s.Outcome(); o != nil {
		printKeyValue(c.out, "Outcomes", formatHistogram(o.Histogram))
	} else {
		printWarning(c.out, "not solved")
	}
	printKeyValue(c.out, "Parents", fmt.Sprint(len(s.Parents())))

	children := s.Children()
	if len(children) == 0 {
		return nil
	}
	type move struct {
		col   int
		child *state.State
	}
	moves := make([]move, 0, len(children))
	for _, ref := range children {
		child, err := ref.Resolve(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "load child %s", ref.Digest().Short())
		}
		moves = append(moves, move{col: playedColumn(s, child), child: child})
	}
	slices.SortFunc(moves, func(a, b move) int { return a.col - b.col })

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, StyleTitle.Render("Moves"))
	for _, m := range moves {
		summary := StyleDim.Render("not solved")
		if o := m.child.Outcome(); o != nil {
			summary = formatHistogram(o.Histogram)
		}
		if w, done := m.child.WinState(); done {
			summary = winStyles[w].Render(w.String()) + StyleDim.Render(" (final)")
		}
		fmt.Fprintf(c.out, "  %s %s  %s\n",
			StyleNumber.Render(fmt.Sprintf("col %d", m.col)),
			StyleDim.Render(m.child.Digest().Short()),
			summary)
	}
	return nil
}

func loadPosition(ctx context.Context, v *vault.Vault, d state.Digest) (*state.State, error) {
	s, err := v.Load(ctx, d)
	switch {
	case err == nil:
		return s, nil
	case vault.IsNotInVault(err):
		return nil, errors.New(errors.ErrCodeNotFound, "position %s is not stored; solve it first", d.Short())
	default:
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", d.Short())
	}
}

// playedColumn returns the column of the one cell that is empty in parent
// and filled in child, or -1.
func playedColumn(parent, child *state.State) int {
	pc, cc := parent.Cells(), child.Cells()
	for i := range pc {
		if pc[i] == game.Empty && i < len(cc) && cc[i] != game.Empty {
			return i % parent.Cols()
		}
	}
	return -1
}
