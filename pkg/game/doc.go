// Package game defines the closed enumerations shared by every layer of the
// solver: the [Chip] occupying a grid cell and the [WinState] of a finished
// game.
//
// Both types are small integers with stable numeric values. Those values are
// part of the content digest of a position, so they must never be reordered.
//
// # Conversions
//
// GREEN and RED are opposites under [Chip.Swap]; swapping [Empty] is an error.
// Every non-empty chip maps to exactly one win state through [FromChip], and
// [Draw] has no chip of its own.
//
//	next, _ := game.Green.Swap()     // game.Red
//	win, _ := game.FromChip(game.Red) // game.RedWin
//
// Both types implement [encoding.TextMarshaler] so they serialize as
// lowercase names ("green", "red", "draw") in persisted entries, config files
// and HTTP responses.
package game
