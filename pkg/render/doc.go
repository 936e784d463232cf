// Package render draws solved game graphs.
//
// # Overview
//
// [Walk] loads a bounded part of the graph from a vault, breadth-first from
// a root digest. [ToDOT] turns the result into Graphviz DOT source in which
// every node shows its board and, once solved, its outcome histogram.
// Finished positions are filled with the winner's colour.
//
//	g, err := render.Walk(ctx, v, root.Digest(), render.Limits{MaxNodes: 200})
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Limits
//
// Full graphs grow quickly with board size. [Limits] caps the number of
// nodes and the depth of the walk; edges to nodes outside the limits are
// dropped and their parents are marked as truncated.
//
// # Formats
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through go-graphviz,
// so no external binaries are required.
package render
