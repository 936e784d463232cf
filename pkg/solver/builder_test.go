package solver

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/store"
	"github.com/matzehuels/inarow/pkg/vault"
)

var quiet = log.New(io.Discard)

type fixture struct {
	vault   *vault.Vault
	store   *store.MemoryStore
	builder *Builder
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	d, err := state.NewDigester(state.SHA256)
	if err != nil {
		t.Fatal(err)
	}
	s := store.NewMemoryStore()
	v := vault.New(s, d, grid.DefaultBounds)
	if opts.Logger == nil {
		opts.Logger = quiet
	}
	return &fixture{vault: v, store: s, builder: NewBuilder(v, opts)}
}

func (f *fixture) root(t *testing.T, rows, cols, run int) *state.State {
	t.Helper()
	r, err := state.NewRoot(f.vault.Digester(), f.vault.Bounds(), rows, cols, run, game.Green)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func (f *fixture) build(t *testing.T, root *state.State) *Result {
	t.Helper()
	res, err := f.builder.Build(context.Background(), root)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return res
}

// stored loads the persisted node reached by playing cols from root.
func (f *fixture) stored(t *testing.T, root *state.State, cols ...int) *state.State {
	t.Helper()
	pos, err := root.Play(cols...)
	if err != nil {
		t.Fatal(err)
	}
	s, err := f.vault.Load(context.Background(), pos.Digest())
	if err != nil {
		t.Fatalf("Load(%v) error: %v", cols, err)
	}
	return s
}

func TestTwoByTwo(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, Options{Mode: mode})
			root := f.root(t, 2, 2, 2)
			res := f.build(t, root)

			tests := []struct {
				moves []int
				want  state.Histogram
			}{
				{nil, state.Histogram{game.GreenWin: 6}},
				{[]int{0}, state.Histogram{game.GreenWin: 3}},
				{[]int{1}, state.Histogram{game.GreenWin: 3}},
				{[]int{0, 0}, state.Histogram{game.GreenWin: 1}},
				{[]int{0, 1}, state.Histogram{game.GreenWin: 2}},
				{[]int{0, 0, 1}, state.Histogram{game.GreenWin: 1}},
			}
			for _, tt := range tests {
				got := f.stored(t, root, tt.moves...).Outcome()
				if got == nil || !got.Histogram.Equal(tt.want) {
					t.Errorf("moves %v: outcome = %v, want %v", tt.moves, got, tt.want)
				}
			}

			if !res.Root.Outcome().Histogram.Equal(state.Histogram{game.GreenWin: 6}) {
				t.Errorf("root outcome = %v", res.Root.Outcome().Histogram)
			}
			if n := len(res.Root.Parents()); n != 0 {
				t.Errorf("root has %d parents", n)
			}
			if n := len(res.Root.Children()); n != 2 {
				t.Errorf("root has %d children, want 2", n)
			}
			for _, col := range []int{0, 1} {
				child := f.stored(t, root, col)
				parents := child.Parents()
				if len(parents) != 1 || !parents[0].Is(root.Digest()) {
					t.Errorf("child %d parents = %v, want [root]", col, parents)
				}
			}
			if res.Stats.Transpositions != 0 {
				t.Errorf("transpositions = %d, want 0", res.Stats.Transpositions)
			}
			if res.Stats.Leaves != 6 {
				t.Errorf("leaves = %d, want 6", res.Stats.Leaves)
			}
			if res.Cached {
				t.Error("first build reported cached")
			}
		})
	}
}

func TestTranspositionMerged(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.root(t, 2, 3, 3)
	f.build(t, root)

	a, _ := root.Play(0, 1, 2)
	b, _ := root.Play(2, 1, 0)
	if a.Digest() != b.Digest() {
		t.Fatal("move orders should reach one digest")
	}

	node := f.stored(t, root, 0, 1, 2)
	parents := node.Parents()
	if len(parents) != 2 {
		t.Fatalf("merged node has %d parents, want 2", len(parents))
	}
	want := map[state.Digest]bool{
		a.Parents()[0].Digest(): true,
		b.Parents()[0].Digest(): true,
	}
	for _, p := range parents {
		if !want[p.Digest()] {
			t.Errorf("unexpected parent %s", p)
		}
	}

	keys, _ := f.store.Keys(context.Background(), "")
	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k] {
			t.Fatalf("duplicate key %s", k)
		}
		seen[k] = true
	}
}

func TestIdempotentBuild(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.root(t, 3, 3, 3)
	first := f.build(t, root)

	before := f.vault.Stats()
	second := f.build(t, root)
	delta := f.vault.Stats().Sub(before)

	if delta.Saves != 0 {
		t.Errorf("second build wrote %d entries, want 0", delta.Saves)
	}
	if second.Stats.Vault.Saves != 0 {
		t.Errorf("result vault saves = %d", second.Stats.Vault.Saves)
	}
	if !second.Cached {
		t.Error("second build not reported cached")
	}
	if !second.Root.Equal(first.Root) {
		t.Error("second build returned another root")
	}
	if !second.Root.Outcome().Histogram.Equal(first.Root.Outcome().Histogram) {
		t.Errorf("outcome changed: %v vs %v", second.Root.Outcome().Histogram, first.Root.Outcome().Histogram)
	}
}

func TestIncompleteSolve(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.root(t, 2, 2, 2)
	if _, err := f.vault.Save(context.Background(), root, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.builder.Build(context.Background(), root); !errors.Is(err, ErrIncompleteSolve) {
		t.Errorf("Build() error = %v, want ErrIncompleteSolve", err)
	}
}

func TestTerminalRoot(t *testing.T) {
	f := newFixture(t, Options{})
	g, err := grid.Parse(grid.DefaultBounds, "GR")
	if err != nil {
		t.Fatal(err)
	}
	root, err := state.New(f.vault.Digester(), g, game.Green, 3)
	if err != nil {
		t.Fatal(err)
	}
	res := f.build(t, root)
	if !res.Root.Outcome().Histogram.Equal(state.Histogram{game.Draw: 1}) {
		t.Errorf("outcome = %v, want {draw: 1}", res.Root.Outcome().Histogram)
	}
	if res.Stats.Nodes != 1 || res.Stats.Levels != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestDegenerateBoardDraws(t *testing.T) {
	f := newFixture(t, Options{Mode: ModePaths})
	res := f.build(t, f.root(t, 2, 2, 3))
	h := res.Root.Outcome().Histogram
	if h[game.GreenWin] != 0 || h[game.RedWin] != 0 || h[game.Draw] == 0 {
		t.Errorf("outcome = %v, want draws only", h)
	}
}

func TestCanceledBuild(t *testing.T) {
	f := newFixture(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.builder.Build(ctx, f.root(t, 3, 3, 3)); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestLevelsOrder(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.root(t, 3, 3, 3)
	ctx := context.Background()

	exp, err := f.builder.Expand(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	levels, err := f.builder.Levels(ctx, exp.Members)
	if err != nil {
		t.Fatal(err)
	}

	levelOf := make(map[state.Digest]int)
	for i, level := range levels {
		for _, d := range level {
			if _, dup := levelOf[d]; dup {
				t.Fatalf("%s appears in two levels", d.Short())
			}
			levelOf[d] = i
		}
	}
	if len(levelOf) != exp.Nodes {
		t.Fatalf("levelled %d nodes, expanded %d", len(levelOf), exp.Nodes)
	}
	if last := levels[len(levels)-1]; len(last) != 1 || last[0] != root.Digest() {
		t.Errorf("last level = %v, want [root]", last)
	}
	for d, i := range levelOf {
		s, err := f.vault.Load(ctx, d)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range s.Children() {
			if levelOf[c.Digest()] >= i {
				t.Errorf("child %s (level %d) not before parent %s (level %d)",
					c.Digest().Short(), levelOf[c.Digest()], d.Short(), i)
			}
		}
	}
}

func TestMatchesBruteForce(t *testing.T) {
	shapes := []struct{ rows, cols, run int }{
		{2, 3, 2},
		{2, 3, 3},
		{3, 3, 3},
		{2, 4, 3},
	}
	for _, sh := range shapes {
		for _, mode := range Modes {
			f := newFixture(t, Options{Mode: mode, Workers: 4})
			root := f.root(t, sh.rows, sh.cols, sh.run)
			f.build(t, root)

			keys, err := f.store.Keys(context.Background(), "")
			if err != nil {
				t.Fatal(err)
			}
			for _, k := range keys {
				s, err := f.vault.Load(context.Background(), state.Digest(k))
				if err != nil {
					t.Fatal(err)
				}
				want := bruteForce(t, s, mode)
				if got := s.Outcome(); got == nil || !got.Histogram.Equal(want) {
					t.Fatalf("%dx%d run %d %s: %s outcome = %v, want %v",
						sh.rows, sh.cols, sh.run, mode, s, got, want)
				}
			}
		}
	}
}

func TestModesDivergeOnTranspositions(t *testing.T) {
	leaves := newFixture(t, Options{Mode: ModeLeaves})
	paths := newFixture(t, Options{Mode: ModePaths})
	lr := leaves.build(t, leaves.root(t, 3, 3, 3))
	pr := paths.build(t, paths.root(t, 3, 3, 3))

	if lr.Stats.Transpositions == 0 {
		t.Fatal("expected transpositions on a 3x3 board")
	}
	lt := lr.Root.Outcome().Histogram.Total()
	pt := pr.Root.Outcome().Histogram.Total()
	if lt >= pt {
		t.Errorf("distinct leaves %d should be fewer than paths %d", lt, pt)
	}
	if lt != lr.Stats.Leaves {
		t.Errorf("root counts %d leaves, graph has %d", lt, lr.Stats.Leaves)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := newFixture(t, Options{Workers: 1})
	par := newFixture(t, Options{Workers: 8})
	sr := seq.build(t, seq.root(t, 3, 3, 3))
	pr := par.build(t, par.root(t, 3, 3, 3))
	if !sr.Root.Outcome().Histogram.Equal(pr.Root.Outcome().Histogram) {
		t.Errorf("parallel %v != sequential %v", pr.Root.Outcome().Histogram, sr.Root.Outcome().Histogram)
	}
	if sr.Stats.Nodes != pr.Stats.Nodes || sr.Stats.Levels != pr.Stats.Levels {
		t.Errorf("stats differ: %+v vs %+v", sr.Stats, pr.Stats)
	}
}

func TestBuildReusesSolvedSubgraph(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			fresh := newFixture(t, Options{Mode: mode})
			want := fresh.build(t, fresh.root(t, 2, 3, 3))

			f := newFixture(t, Options{Mode: mode})
			root := f.root(t, 2, 3, 3)
			sub, err := root.Play(0)
			if err != nil {
				t.Fatal(err)
			}
			first := f.build(t, sub)
			if first.Stats.Reused != 0 {
				t.Errorf("first build reused %d positions", first.Stats.Reused)
			}

			res := f.build(t, root)
			if res.Stats.Reused == 0 {
				t.Error("second build should reuse the solved subgraph")
			}
			if res.Stats.Nodes+first.Stats.Nodes != want.Stats.Nodes {
				t.Errorf("nodes %d + %d, want %d in total", first.Stats.Nodes, res.Stats.Nodes, want.Stats.Nodes)
			}
			if !res.Root.Outcome().Histogram.Equal(want.Root.Outcome().Histogram) {
				t.Errorf("outcome = %v, want %v", res.Root.Outcome().Histogram, want.Root.Outcome().Histogram)
			}
			if got := f.stored(t, root, 0); len(got.Parents()) != 1 {
				t.Errorf("reused child parents = %v, want [root]", got.Parents())
			}
		})
	}
}

func TestBuildRejectsStaleSubgraph(t *testing.T) {
	f := newFixture(t, Options{})
	root := f.root(t, 2, 2, 2)
	child, err := root.Play(0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.vault.Save(context.Background(), child, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.builder.Build(context.Background(), root); !errors.Is(err, ErrIncompleteSolve) {
		t.Errorf("Build() error = %v, want ErrIncompleteSolve", err)
	}
}

func TestBuildModeMismatch(t *testing.T) {
	f := newFixture(t, Options{Mode: ModePaths})
	root := f.root(t, 2, 2, 2)
	f.build(t, root)

	leaves := NewBuilder(f.vault, Options{Mode: ModeLeaves, Logger: quiet})
	if _, err := leaves.Build(context.Background(), root); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("cached root: error = %v, want ErrModeMismatch", err)
	}

	bigger := f.root(t, 2, 3, 2)
	sub, err := bigger.Play(0)
	if err != nil {
		t.Fatal(err)
	}
	f.build(t, sub)
	if _, err := leaves.Build(context.Background(), bigger); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("reused child: error = %v, want ErrModeMismatch", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeLeaves, false},
		{"leaves", ModeLeaves, false},
		{"PATHS", ModePaths, false},
		{"tree", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := ParseMode("x"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("error = %v, want ErrUnknownMode", err)
	}
}

func TestNewBuilderDefaults(t *testing.T) {
	b := NewBuilder(nil, Options{Mode: "bogus", Workers: -3})
	if b.Mode() != DefaultMode || b.workers != 1 || b.logger == nil {
		t.Errorf("defaults not applied: mode=%s workers=%d", b.Mode(), b.workers)
	}
}

// bruteForce enumerates every line of play below s without any sharing.
func bruteForce(t *testing.T, s *state.State, mode Mode) state.Histogram {
	t.Helper()
	fresh, err := state.New(s.Digester(), s.Grid(), s.Next(), s.RunLength())
	if err != nil {
		t.Fatal(err)
	}
	leaves := make(map[state.Digest]game.WinState)
	paths := enumerate(t, fresh, leaves)
	if mode == ModePaths {
		return paths
	}
	h := state.Histogram{}
	for _, w := range leaves {
		h[w]++
	}
	return h
}

func enumerate(t *testing.T, s *state.State, leaves map[state.Digest]game.WinState) state.Histogram {
	if w, done := s.WinState(); done {
		leaves[s.Digest()] = w
		return state.Histogram{w: 1}
	}
	h := state.Histogram{}
	for _, idx := range s.Moves() {
		child, err := s.MakeMove(idx)
		if err != nil {
			t.Fatal(err)
		}
		h.Add(enumerate(t, child, leaves))
	}
	return h
}
