package render

import (
	"context"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/vault"
)

// Limits bounds a walk. Zero values mean no limit.
type Limits struct {
	MaxNodes int
	MaxDepth int
}

// Node is one position in a walked graph.
type Node struct {
	Digest    state.Digest
	Depth     int
	Board     string
	Next      game.Chip
	Win       *game.WinState
	Outcome   *state.Outcome
	Truncated bool
}

// Edge is a move from one walked node to another.
type Edge struct {
	From, To state.Digest
}

// Graph is the result of [Walk]. Nodes are in breadth-first order.
type Graph struct {
	Nodes []*Node
	Edges []Edge
}

// Walk loads the graph below root breadth-first within lim.
func Walk(ctx context.Context, v *vault.Vault, root state.Digest, lim Limits) (*Graph, error) {
	type item struct {
		state *state.State
		node  *Node
	}

	rs, err := v.Load(ctx, root)
	if err != nil {
		return nil, err
	}
	g := &Graph{}
	seen := map[state.Digest]*Node{}
	visit := func(s *state.State, depth int) *Node {
		n := &Node{
			Digest:  s.Digest(),
			Depth:   depth,
			Board:   s.Board(),
			Next:    s.Next(),
			Outcome: s.Outcome(),
		}
		if w, done := s.WinState(); done {
			n.Win = &w
		}
		seen[n.Digest] = n
		g.Nodes = append(g.Nodes, n)
		return n
	}

	queue := []item{{rs, visit(rs, 0)}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := queue[0]
		queue = queue[1:]

		for _, ref := range cur.state.Children() {
			if known, ok := seen[ref.Digest()]; ok {
				g.Edges = append(g.Edges, Edge{From: cur.node.Digest, To: known.Digest})
				continue
			}
			if (lim.MaxNodes > 0 && len(g.Nodes) >= lim.MaxNodes) ||
				(lim.MaxDepth > 0 && cur.node.Depth >= lim.MaxDepth) {
				cur.node.Truncated = true
				continue
			}
			child, err := ref.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			n := visit(child, cur.node.Depth+1)
			g.Edges = append(g.Edges, Edge{From: cur.node.Digest, To: n.Digest})
			queue = append(queue, item{child, n})
		}
	}
	return g, nil
}
