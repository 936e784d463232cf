// Package pkg provides the core libraries for inarow, an exhaustive solver
// for N-in-a-row games on small boards.
//
// # Overview
//
// inarow builds the complete game graph below a position, merges positions
// reached by different move orders, and counts the terminal outcomes
// reachable from every node. The pkg directory is organized by layer:
//
//  1. [game], [grid] - Chips, win states, boards and union-find win detection
//  2. [state] - Content-addressed positions and their parent/child edges
//  3. [store], [vault] - Key-value backends and the state codec over them
//  4. [solver] - Expansion and level-synchronized outcome propagation
//  5. [render] - Graphviz export of stored subgraphs
//  6. [config], [errors], [observability], [buildinfo] - Shared plumbing
//
// # Architecture
//
//	Position (grid + next chip + run length)
//	         ↓
//	    [solver] expand (DFS, transpositions merged by digest)
//	         ↓
//	    [vault] persist states keyed by digest
//	         ↓
//	    [solver] propagate outcomes leaves-first, one level at a time
//	         ↓
//	    Histogram per position
//
// # Quick Start
//
//	d, _ := state.NewDigester(state.DefaultAlgorithm)
//	root, _ := state.NewRoot(d, grid.DefaultBounds, 3, 3, 3, game.Green)
//	v := vault.New(store.NewMemoryStore(), d, grid.DefaultBounds)
//	res, _ := solver.NewBuilder(v, solver.Options{}).Build(ctx, root)
//	fmt.Println(res.Root.Outcome().Histogram)
package pkg
