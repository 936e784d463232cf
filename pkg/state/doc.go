// Package state models positions of an N-in-a-row game as nodes of a
// content-addressed graph.
//
// A [State] couples an immutable grid snapshot with the chip to move and the
// run length needed to win. Its identity is a [Digest] computed by a
// [Digester] from exactly those inputs, so two move orders that reach the
// same board collapse onto one node. Parent and child links are [Ref]
// values: a digest plus an optional cached state that is loaded through a
// [Resolver] on first use.
//
// # Outcomes
//
// After propagation every state carries an [Outcome]: a [Histogram] of
// terminal results reachable below it and, when counting distinct leaves,
// the leaf set itself.
//
//	d, _ := state.NewDigester(state.SHA256)
//	root, _ := state.NewRoot(d, grid.DefaultBounds, 6, 7, 4, game.Green)
//	child, _ := root.Drop(3)
//	fmt.Println(child.Next()) // red
package state
