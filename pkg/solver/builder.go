package solver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/observability"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/vault"
)

var (
	// ErrIncompleteSolve is returned when a position is stored without an
	// outcome by an earlier, interrupted build. The vault must be cleared
	// before solving through that position again.
	ErrIncompleteSolve = errors.New("position stored without outcome")

	// ErrModeMismatch is returned when a stored outcome was counted in a
	// different [Mode] than the builder's.
	ErrModeMismatch = errors.New("stored outcome uses a different propagation mode")

	// ErrInconsistentGraph is returned when levelling does not reach every
	// expanded node, or a child has no outcome when its parent is settled.
	ErrInconsistentGraph = errors.New("inconsistent game graph")
)

// Options configures a Builder.
type Options struct {
	// Logger receives progress messages. Defaults to log.Default().
	Logger *log.Logger

	// Mode selects outcome counting. Defaults to ModeLeaves.
	Mode Mode

	// Workers bounds concurrent node updates within one level. Values
	// below one mean sequential propagation.
	Workers int
}

// Builder runs the expand, level and propagate phases against a vault.
//
// A Builder holds no per-build state, so one value may serve several
// builds, but two concurrent builds must not share a vault.
type Builder struct {
	vault   *vault.Vault
	logger  *log.Logger
	mode    Mode
	workers int
}

// NewBuilder creates a builder. Invalid options fall back to defaults.
func NewBuilder(v *vault.Vault, opts Options) *Builder {
	b := &Builder{
		vault:   v,
		logger:  opts.Logger,
		mode:    opts.Mode,
		workers: opts.Workers,
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	if !slices.Contains(Modes, b.mode) {
		b.mode = DefaultMode
	}
	if b.workers < 1 {
		b.workers = 1
	}
	return b
}

// Mode returns the counting mode in use.
func (b *Builder) Mode() Mode { return b.mode }

// Stats summarizes one build.
type Stats struct {
	Nodes          int           `json:"nodes"`
	Leaves         int           `json:"leaves"`
	Transpositions int           `json:"transpositions"`
	Reused         int           `json:"reused"`
	Levels         int           `json:"levels"`
	ExpandTime     time.Duration `json:"expand_time"`
	PropagateTime  time.Duration `json:"propagate_time"`
	Vault          vault.Stats   `json:"vault"`
}

// Result is the outcome of [Builder.Build].
type Result struct {
	RunID  string       `json:"run_id"`
	Root   *state.State `json:"-"`
	Cached bool         `json:"cached"`
	Stats  Stats        `json:"stats"`
}

// Build solves root. If the root is already stored with an outcome the
// stored state is returned and nothing is written.
func (b *Builder) Build(ctx context.Context, root *state.State) (res *Result, err error) {
	start := time.Now()
	before := b.vault.Stats()
	res = &Result{RunID: uuid.NewString()}
	logger := b.logger.With("run", res.RunID[:8])

	observability.Solver().OnBuildStart(ctx, string(root.Digest()))
	defer func() {
		nodes := 0
		if res != nil {
			res.Stats.Vault = b.vault.Stats().Sub(before)
			nodes = res.Stats.Nodes
		}
		observability.Solver().OnBuildComplete(ctx, nodes, time.Since(start), err)
	}()

	stored, err := b.vault.Load(ctx, root.Digest())
	switch {
	case err == nil:
		if err := b.checkReusable(stored); err != nil {
			return nil, fmt.Errorf("solve: %w", err)
		}
		logger.Info("loaded solved root", "digest", root.Digest().Short(), "outcome", stored.Outcome().Histogram)
		res.Root = stored
		res.Cached = true
		return res, nil
	case !vault.IsNotInVault(err):
		return nil, err
	}

	exp, err := b.Expand(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	res.Stats.Nodes = exp.Nodes
	res.Stats.Leaves = len(exp.Leaves)
	res.Stats.Transpositions = exp.Transpositions
	res.Stats.Reused = len(exp.Frontier)
	res.Stats.ExpandTime = exp.Duration
	logger.Info("expanded graph",
		"nodes", exp.Nodes,
		"leaves", len(exp.Leaves),
		"transpositions", exp.Transpositions,
		"reused", len(exp.Frontier),
		"duration", exp.Duration)

	propStart := time.Now()
	levels, err := b.Levels(ctx, exp.Members)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	if n := countNodes(levels); n != exp.Nodes {
		return nil, fmt.Errorf("level: %w: %d of %d nodes levelled", ErrInconsistentGraph, n, exp.Nodes)
	}
	res.Stats.Levels = len(levels)
	logger.Debug("levelled graph", "levels", len(levels))

	if err := b.Propagate(ctx, levels); err != nil {
		return nil, fmt.Errorf("propagate: %w", err)
	}
	res.Stats.PropagateTime = time.Since(propStart)

	res.Root, err = b.vault.Load(ctx, root.Digest())
	if err != nil {
		return nil, err
	}
	logger.Info("propagated outcomes",
		"levels", len(levels),
		"outcome", res.Root.Outcome().Histogram,
		"duration", res.Stats.PropagateTime)
	return res, nil
}

// Expansion describes the graph written by [Builder.Expand].
type Expansion struct {
	// Nodes is the number of positions written by this expansion.
	Nodes int
	// Members lists those positions in discovery order, root first.
	Members []state.Digest
	// Leaves lists the terminal members.
	Leaves []state.Digest
	// Frontier lists positions reached that an earlier build had already
	// solved. They are linked to their new parents but not expanded again.
	Frontier       []state.Digest
	Transpositions int
	Duration       time.Duration
}

// Expand writes every position reachable from root to the vault.
//
// New children are saved as soon as they are discovered, so a position
// waiting on the stack is already visible to later lookups and is never
// expanded twice. Nodes are pushed as digests and loaded again when popped,
// which picks up parent edges merged in the meantime.
//
// A stored position that is neither part of this expansion nor solved was
// left behind by an interrupted build and fails with [ErrIncompleteSolve].
func (b *Builder) Expand(ctx context.Context, root *state.State) (*Expansion, error) {
	start := time.Now()
	if _, err := b.vault.Save(ctx, root, true); err != nil {
		return nil, err
	}
	exp := &Expansion{Nodes: 1, Members: []state.Digest{root.Digest()}}
	if root.Terminal() {
		exp.Leaves = append(exp.Leaves, root.Digest())
		exp.Duration = time.Since(start)
		observability.Solver().OnExpandComplete(ctx, exp.Nodes, len(exp.Leaves), exp.Duration)
		return exp, nil
	}

	members := map[state.Digest]bool{root.Digest(): true}
	frontier := map[state.Digest]bool{}
	stack := []state.Digest{root.Digest()}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur, err := b.vault.Load(ctx, d)
		if err != nil {
			return nil, err
		}
		for _, idx := range cur.Moves() {
			child, err := cur.MakeMove(idx)
			if err != nil {
				return nil, fmt.Errorf("move %s from %s: %w", idx, d.Short(), err)
			}
			cd := child.Digest()

			known, err := b.vault.Load(ctx, cd)
			switch {
			case err == nil:
				if members[cd] || frontier[cd] {
					exp.Transpositions++
					observability.Solver().OnTransposition(ctx)
				} else {
					if err := b.checkReusable(known); err != nil {
						return nil, err
					}
					frontier[cd] = true
					exp.Frontier = append(exp.Frontier, cd)
				}
				if known.AddParent(state.RefTo(cur)) {
					if _, err := b.vault.Save(ctx, known, true); err != nil {
						return nil, err
					}
				}
			case vault.IsNotInVault(err):
				if _, err := b.vault.Save(ctx, child, true); err != nil {
					return nil, err
				}
				members[cd] = true
				exp.Members = append(exp.Members, cd)
				exp.Nodes++
				if child.Terminal() {
					exp.Leaves = append(exp.Leaves, cd)
				} else {
					stack = append(stack, cd)
				}
			default:
				return nil, err
			}
		}
		if _, err := b.vault.Save(ctx, cur, true); err != nil {
			return nil, err
		}
	}

	exp.Duration = time.Since(start)
	observability.Solver().OnExpandComplete(ctx, exp.Nodes, len(exp.Leaves), exp.Duration)
	return exp, nil
}

// Levels groups members bottom-up. Every member appears in exactly one
// level, after all of its member children; edges to positions outside
// members are ignored. The first level holds the members without member
// children: the leaves plus any position whose children were all solved
// before. Each level is sorted by digest.
func (b *Builder) Levels(ctx context.Context, members []state.Digest) ([][]state.Digest, error) {
	inBuild := make(map[state.Digest]bool, len(members))
	for _, d := range members {
		inBuild[d] = true
	}

	remaining := make(map[state.Digest]int, len(inBuild))
	parents := make(map[state.Digest][]state.Digest, len(inBuild))
	var level []state.Digest
	for d := range inBuild {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := b.vault.Load(ctx, d)
		if err != nil {
			return nil, err
		}
		n := 0
		for _, c := range s.Children() {
			if inBuild[c.Digest()] {
				n++
			}
		}
		remaining[d] = n
		for _, p := range s.Parents() {
			if inBuild[p.Digest()] {
				parents[d] = append(parents[d], p.Digest())
			}
		}
		if n == 0 {
			level = append(level, d)
		}
	}
	slices.Sort(level)

	var levels [][]state.Digest
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		levels = append(levels, level)

		var next []state.Digest
		for _, d := range level {
			for _, pd := range parents[d] {
				remaining[pd]--
				switch n := remaining[pd]; {
				case n == 0:
					next = append(next, pd)
				case n < 0:
					return nil, fmt.Errorf("%w: %s has more finished children than edges", ErrInconsistentGraph, pd.Short())
				}
			}
		}
		slices.Sort(next)
		level = next
	}
	return levels, nil
}

// Propagate computes and stores the outcome of every node, level by level.
func (b *Builder) Propagate(ctx context.Context, levels [][]state.Digest) error {
	for i, level := range levels {
		start := time.Now()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.workers)
		for _, d := range level {
			g.Go(func() error {
				return b.settle(gctx, d)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		elapsed := time.Since(start)
		observability.Solver().OnLevelComplete(ctx, i, len(level), elapsed)
		b.logger.Debug("settled level", "level", i, "nodes", len(level), "duration", elapsed)
	}
	return nil
}

// settle computes the outcome of d from its children and stores it.
func (b *Builder) settle(ctx context.Context, d state.Digest) error {
	s, err := b.vault.Load(ctx, d)
	if err != nil {
		return err
	}
	withLeaves := b.mode == ModeLeaves

	if w, done := s.WinState(); done {
		s.SetOutcome(state.TerminalOutcome(d, w, withLeaves))
	} else {
		out := &state.Outcome{Histogram: state.Histogram{}}
		if withLeaves {
			out.Leaves = make(map[state.Digest]game.WinState)
		}
		for _, ref := range s.Children() {
			child, err := ref.Resolve(ctx)
			if err != nil {
				return err
			}
			co := child.Outcome()
			if co == nil {
				return fmt.Errorf("%w: child %s of %s has no outcome", ErrInconsistentGraph, ref.Digest().Short(), d.Short())
			}
			if (co.Leaves != nil) != withLeaves {
				return fmt.Errorf("%w: child %s of %s", ErrModeMismatch, ref.Digest().Short(), d.Short())
			}
			if withLeaves {
				maps.Copy(out.Leaves, co.Leaves)
			} else {
				out.Histogram.Add(co.Histogram)
			}
		}
		if withLeaves {
			for _, w := range out.Leaves {
				out.Histogram[w]++
			}
		}
		s.SetOutcome(out)
	}

	_, err = b.vault.Save(ctx, s, true)
	return err
}

// checkReusable reports whether a stored position from an earlier build can
// stand in for its subgraph.
func (b *Builder) checkReusable(s *state.State) error {
	o := s.Outcome()
	if o == nil {
		return fmt.Errorf("%w: %s", ErrIncompleteSolve, s.Digest().Short())
	}
	if (o.Leaves != nil) != (b.mode == ModeLeaves) {
		return fmt.Errorf("%w: %s", ErrModeMismatch, s.Digest().Short())
	}
	return nil
}

func countNodes(levels [][]state.Digest) int {
	n := 0
	for _, l := range levels {
		n += len(l)
	}
	return n
}
