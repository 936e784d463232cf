package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inarow/pkg/errors"
	"github.com/matzehuels/inarow/pkg/solver"
	"github.com/matzehuels/inarow/pkg/state"
)

type solveOpts struct {
	pos     positionFlags
	json    bool
	noSpin  bool
	workers int
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a position and print its outcome counts",
		Long: `Solve builds every position reachable from the given one, merges
positions reached through different move orders, and counts the terminal
outcomes below each of them. Results are written to the configured store;
solving a stored position again only reads it back.`,
		Example: `  inarow solve --rows 3 --cols 3 --run 3
  inarow solve -r 4 -c 4 -n 3 --moves 1,2
  inarow solve --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBackend(cmd, func(ctx context.Context, b *backend) error {
				if cmd.Flags().Changed("workers") {
					b.cfg.Workers = max(opts.workers, 1)
				}
				return c.runSolve(ctx, b, &opts)
			})
		},
	}

	opts.pos.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.noSpin, "no-spinner", false, "disable the progress spinner")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "concurrent updates per propagation level (overrides config)")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, b *backend, opts *solveOpts) error {
	root, err := opts.pos.position(b.cfg, b.vault.Digester())
	if err != nil {
		return err
	}
	c.Logger.Debug("solving", "digest", root.Digest().Short(), "rows", opts.pos.rows, "cols", opts.pos.cols, "run", opts.pos.run)

	var spin *Spinner
	if !opts.noSpin && !opts.json {
		spin = newSpinner(ctx, c.errOut, fmt.Sprintf("Solving %dx%d, %d in a row", opts.pos.rows, opts.pos.cols, opts.pos.run))
		spin.Start()
	}
	res, err := b.builder(c.Logger).Build(ctx, root)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return solveError(err)
	}

	if opts.json {
		return c.printSolveJSON(res)
	}

	printSuccess(c.out, "Solved %s", StyleValue.Render(res.Root.Digest().Short()))
	printBoard(c.out, res.Root.Board())
	printKeyValue(c.out, "Next", res.Root.Next().String())
	printKeyValue(c.out, "Outcomes", formatHistogram(res.Root.Outcome().Histogram))
	if res.Cached {
		printStats(c.out, nil, true)
		return nil
	}
	printStats(c.out, []string{
		fmt.Sprintf("%d positions", res.Stats.Nodes),
		fmt.Sprintf("%d leaves", res.Stats.Leaves),
		fmt.Sprintf("%d transpositions", res.Stats.Transpositions),
		fmt.Sprintf("%d levels", res.Stats.Levels),
		(res.Stats.ExpandTime + res.Stats.PropagateTime).Round(time.Millisecond).String(),
	}, false)
	return nil
}

type solveJSON struct {
	Digest    string          `json:"digest"`
	Histogram state.Histogram `json:"histogram"`
	Cached    bool            `json:"cached"`
	RunID     string          `json:"run_id"`
	Stats     solver.Stats    `json:"stats"`
}

func (c *CLI) printSolveJSON(res *solver.Result) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(solveJSON{
		Digest:    string(res.Root.Digest()),
		Histogram: res.Root.Outcome().Histogram,
		Cached:    res.Cached,
		RunID:     res.RunID,
		Stats:     res.Stats,
	})
}

// solveError attaches a code to solver failures that need user action.
func solveError(err error) error {
	switch {
	case stderrors.Is(err, solver.ErrIncompleteSolve):
		return errors.Wrap(errors.ErrCodeNotSolved, err, "an earlier solve was interrupted; run 'inarow store clear' and retry")
	case stderrors.Is(err, solver.ErrModeMismatch):
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "the store holds outcomes of another propagation mode")
	case stderrors.Is(err, solver.ErrInconsistentGraph):
		return errors.Wrap(errors.ErrCodeInternal, err, "solve")
	case stderrors.Is(err, context.Canceled):
		return err
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "solve")
}
