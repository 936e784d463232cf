package render

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/solver"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/store"
	"github.com/matzehuels/inarow/pkg/vault"
)

func solved(t *testing.T) (*vault.Vault, *state.State) {
	t.Helper()
	d, _ := state.NewDigester(state.SHA256)
	v := vault.New(store.NewMemoryStore(), d, grid.DefaultBounds)
	root, err := state.NewRoot(d, grid.DefaultBounds, 2, 2, 2, game.Green)
	if err != nil {
		t.Fatal(err)
	}
	b := solver.NewBuilder(v, solver.Options{Logger: log.New(io.Discard)})
	if _, err := b.Build(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	return v, root
}

func TestWalkFull(t *testing.T) {
	v, root := solved(t)
	g, err := Walk(context.Background(), v, root.Digest(), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 13 {
		t.Errorf("nodes = %d, want 13", len(g.Nodes))
	}
	if len(g.Edges) != 12 {
		t.Errorf("edges = %d, want 12", len(g.Edges))
	}
	if g.Nodes[0].Digest != root.Digest() || g.Nodes[0].Depth != 0 {
		t.Error("walk should start at the root")
	}
	leaves := 0
	for _, n := range g.Nodes {
		if n.Truncated {
			t.Errorf("%s truncated without limits", n.Digest.Short())
		}
		if n.Win != nil {
			leaves++
		}
	}
	if leaves != 6 {
		t.Errorf("leaves = %d, want 6", leaves)
	}
}

func TestWalkLimits(t *testing.T) {
	v, root := solved(t)
	ctx := context.Background()

	g, err := Walk(ctx, v, root.Digest(), Limits{MaxNodes: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}

	g, err = Walk(ctx, v, root.Digest(), Limits{MaxDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("depth 1: nodes = %d, want 3", len(g.Nodes))
	}
	for _, n := range g.Nodes[1:] {
		if !n.Truncated {
			t.Errorf("%s should be marked truncated", n.Digest.Short())
		}
	}
}

func TestWalkMissingRoot(t *testing.T) {
	v, _ := solved(t)
	if _, err := Walk(context.Background(), v, "00ff", Limits{}); !vault.IsNotInVault(err) {
		t.Errorf("Walk() error = %v, want not in vault", err)
	}
}

func TestToDOT(t *testing.T) {
	v, root := solved(t)
	g, err := Walk(context.Background(), v, root.Digest(), Limits{})
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g, Options{Detailed: true})
	for _, want := range []string{
		"digraph G {",
		root.Digest().Short(),
		`{green: 6}`,
		`..\l..\l`,
		"fillcolor=palegreen",
		"->",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if n := strings.Count(dot, "->"); n != 12 {
		t.Errorf("DOT has %d edges, want 12", n)
	}

	plain := ToDOT(g, Options{})
	if strings.Contains(plain, "{green: 6}") {
		t.Error("plain labels should not include outcomes")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), "digraph G { a -> b; }")
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="10" height="20"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("without viewBox the input should be unchanged, got %s", got)
	}
}
