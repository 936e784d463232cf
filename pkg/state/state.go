package state

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
)

var (
	// ErrGameFinished is returned by [State.MakeMove] on a terminal position.
	ErrGameFinished = errors.New("game finished")

	// ErrInvalidRunLength is returned for run lengths below one.
	ErrInvalidRunLength = errors.New("run length must be positive")
)

// State is one node of the game graph: a grid snapshot, the chip to move,
// the run length needed to win and the cached result.
//
// Identity is structural. Two states are equal when grid contents, next
// chip and run length are equal, and their digests agree. Parent and child
// links are graph edges held as [Ref] values; they never influence identity.
//
// The grid never changes after construction. Edges and the outcome are
// guarded by a mutex so that a state can be shared between propagation
// workers.
type State struct {
	digester  *Digester
	grid      *grid.Grid
	next      game.Chip
	runLength int
	win       game.WinState
	finished  bool
	digest    Digest

	mu       sync.RWMutex
	outcome  *Outcome
	parents  []*Ref
	children []*Ref
}

// New creates a root state. The grid is copied; later changes to g do not
// affect the state.
func New(d *Digester, g *grid.Grid, next game.Chip, runLength int) (*State, error) {
	return build(d, g.Clone(), next, runLength)
}

// NewRoot creates a state over an empty rows x cols grid.
func NewRoot(d *Digester, b grid.Bounds, rows, cols, runLength int, first game.Chip) (*State, error) {
	g, err := grid.New(b, rows, cols)
	if err != nil {
		return nil, err
	}
	return build(d, g, first, runLength)
}

// Restore reassembles a persisted state. It takes ownership of g.
func Restore(d *Digester, g *grid.Grid, next game.Chip, runLength int, parents, children []*Ref, outcome *Outcome) (*State, error) {
	s, err := build(d, g, next, runLength)
	if err != nil {
		return nil, err
	}
	s.parents = parents
	s.children = children
	s.outcome = outcome
	return s, nil
}

func build(d *Digester, g *grid.Grid, next game.Chip, runLength int) (*State, error) {
	if !next.Placeable() {
		return nil, fmt.Errorf("next chip: %w", game.ErrEmptyChip)
	}
	if runLength < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRunLength, runLength)
	}
	s := &State{
		digester:  d,
		grid:      g,
		next:      next,
		runLength: runLength,
	}
	s.win, s.finished = g.WinState(runLength)
	s.digest = d.Sum(g, next, runLength)
	return s, nil
}

// Digest returns the content digest.
func (s *State) Digest() Digest { return s.digest }

// Digester returns the digester the state was built with.
func (s *State) Digester() *Digester { return s.digester }

// Grid returns a copy of the position's grid.
func (s *State) Grid() *grid.Grid { return s.grid.Clone() }

// Next returns the chip to move.
func (s *State) Next() game.Chip { return s.next }

// RunLength returns the number of chips in a row needed to win.
func (s *State) RunLength() int { return s.runLength }

// Rows returns the grid's row count.
func (s *State) Rows() int { return s.grid.Rows() }

// Cols returns the grid's column count.
func (s *State) Cols() int { return s.grid.Cols() }

// Cells returns the row-major grid contents.
func (s *State) Cells() []game.Chip { return s.grid.Cells() }

// Board returns the text form of the grid.
func (s *State) Board() string { return s.grid.String() }

// WinState returns the result and whether the game is finished.
func (s *State) WinState() (game.WinState, bool) { return s.win, s.finished }

// Terminal reports whether no further moves are allowed.
func (s *State) Terminal() bool { return s.finished }

// Moves returns the legal moves, or nil for a terminal state.
func (s *State) Moves() []grid.Index {
	if s.finished {
		return nil
	}
	return s.grid.Moves()
}

// MakeMove plays the next chip at idx and returns the resulting child,
// linking it to s in both directions. Placement errors from the grid are
// returned unchanged.
func (s *State) MakeMove(idx grid.Index) (*State, error) {
	if s.finished {
		return nil, ErrGameFinished
	}
	g := s.grid.Clone()
	if err := g.Set(idx, s.next); err != nil {
		return nil, err
	}
	next, err := s.next.Swap()
	if err != nil {
		return nil, err
	}
	child, err := build(s.digester, g, next, s.runLength)
	if err != nil {
		return nil, err
	}
	child.parents = []*Ref{RefTo(s)}

	s.mu.Lock()
	s.children = append(s.children, RefTo(child))
	s.mu.Unlock()
	return child, nil
}

// Drop plays the next chip into col.
func (s *State) Drop(col int) (*State, error) {
	if s.finished {
		return nil, ErrGameFinished
	}
	row, err := s.grid.EmptyRow(col)
	if err != nil {
		return nil, err
	}
	if row < 0 {
		return nil, &grid.ColumnError{Col: col, Err: grid.ErrColumnFull}
	}
	return s.MakeMove(grid.Index{Row: row, Col: col})
}

// Play drops chips into cols in order, starting from s.
func (s *State) Play(cols ...int) (*State, error) {
	cur := s
	for i, col := range cols {
		next, err := cur.Drop(col)
		if err != nil {
			return nil, fmt.Errorf("move %d (column %d): %w", i+1, col, err)
		}
		cur = next
	}
	return cur, nil
}

// Parents returns the parent edges.
func (s *State) Parents() []*Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.parents)
}

// Children returns the child edges.
func (s *State) Children() []*Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.children)
}

// AddParent records an additional parent edge. It reports false if the edge
// was already present.
func (s *State) AddParent(r *Ref) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parents {
		if p.Is(r.Digest()) {
			return false
		}
	}
	s.parents = append(s.parents, r)
	return true
}

// Outcome returns the propagated outcome, or nil before propagation.
func (s *State) Outcome() *Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}

// Solved reports whether an outcome has been propagated into s.
func (s *State) Solved() bool { return s.Outcome() != nil }

// SetOutcome stores the propagated outcome.
func (s *State) SetOutcome(o *Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = o
}

// Equal reports structural equality: grid, next chip and run length.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.next == other.next && s.runLength == other.runLength && s.grid.Equal(other.grid)
}

func (s *State) String() string {
	status := "undecided"
	if s.finished {
		status = s.win.String()
	}
	return fmt.Sprintf("State(%s, %dx%d, next=%s, run=%d, %s)",
		s.digest.Short(), s.grid.Rows(), s.grid.Cols(), s.next, s.runLength, status)
}

// FromMoves replays column drops on g, starting with first, and returns the
// resulting position. g is copied.
func FromMoves(d *Digester, g *grid.Grid, first game.Chip, runLength int, cols ...int) (*State, error) {
	root, err := New(d, g, first, runLength)
	if err != nil {
		return nil, err
	}
	return root.Play(cols...)
}
