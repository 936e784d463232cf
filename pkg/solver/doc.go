// Package solver exhaustively solves N-in-a-row positions.
//
// A [Builder] takes a root position and a [vault.Vault] and runs three
// phases:
//
//  1. Expand: depth-first walk over every legal move with an explicit stack.
//     Each child is looked up by digest; a hit records the extra parent edge
//     (a transposition) instead of expanding the subtree again. Positions
//     solved by an earlier build are linked but not expanded.
//  2. Level: group the new nodes bottom-up so that every node lands in a
//     level after all of its children. Nodes without new children form
//     level 0; a parent is promoted once its count of unfinished children
//     reaches zero.
//  3. Propagate: walk the levels in order and compute each node's
//     [state.Outcome] from its children. Nodes inside one level are
//     independent and are processed by up to Workers goroutines.
//
// Every node is persisted before the next phase reads it, and the root is
// written last with its final outcome. Calling Build again for a solved root
// returns the stored result without writing anything.
//
// # Counting
//
// [ModeLeaves] counts each distinct terminal position reachable from a node
// once, however many move orders lead to it. [ModePaths] counts complete
// lines of play, so a leaf reached by k different paths counts k times. The
// two agree until a transposition appears below the node. Outcomes of both
// modes cannot be mixed in one vault; reuse across modes fails with
// [ErrModeMismatch].
package solver
