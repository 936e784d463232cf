// Package grid implements the gravity-bound board of an N-in-a-row game and
// incremental win detection.
//
// # Coordinates
//
// Cells are addressed by [Index] values created through a [Bounds], which
// carries the configured maximum grid shape (MAX_ROWS x MAX_COLS). Bounds
// are fixed for the lifetime of a process; every Index and every union-find
// offset is derived from them through the linear mapping
// row*MaxCols + col. Row 0 is the top of the board and row Rows-1 the
// bottom.
//
// # Placement
//
// A [Grid] only accepts writes that respect gravity: the target must be
// empty and either sit on the bottom row or on top of an occupied cell.
// [Grid.Drop] resolves a column to its lowest empty row.
//
// # Win detection
//
// Each placement unites the new cell with same-colored neighbours in one of
// four [UnionFind] structures, one per direction (row, column, diagonal,
// anti-diagonal). A direction's largest component is therefore the longest
// run in that direction, so [Grid.WinState] answers in constant time without
// rescanning the board.
package grid
