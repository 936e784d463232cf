package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownWinState is returned when a value is outside the WinState enumeration.
var ErrUnknownWinState = errors.New("unknown win state")

// WinState is the result of a finished game.
//
// The numeric values of GreenWin and RedWin equal those of the corresponding
// chips. "Not finished yet" is not a WinState; APIs report it through a
// separate boolean.
type WinState uint8

const (
	// Draw means the grid filled up without a qualifying run.
	Draw WinState = iota
	// GreenWin means green completed a run.
	GreenWin
	// RedWin means red completed a run.
	RedWin
)

// WinStates lists every win state in a stable order.
var WinStates = []WinState{Draw, GreenWin, RedWin}

// FromChip returns the win state of the player owning c.
func FromChip(c Chip) (WinState, error) {
	switch c {
	case Green:
		return GreenWin, nil
	case Red:
		return RedWin, nil
	case Empty:
		return Draw, fmt.Errorf("%w: no win state for an empty chip", ErrEmptyChip)
	}
	return Draw, fmt.Errorf("%w: %d", ErrUnknownChip, c)
}

// Chip returns the chip that produced w. Draw has no chip and reports false.
func (w WinState) Chip() (Chip, bool) {
	switch w {
	case GreenWin:
		return Green, true
	case RedWin:
		return Red, true
	}
	return Empty, false
}

// Valid reports whether w is one of the defined win states.
func (w WinState) Valid() bool { return w <= RedWin }

func (w WinState) String() string {
	switch w {
	case Draw:
		return "draw"
	case GreenWin:
		return "green"
	case RedWin:
		return "red"
	}
	return fmt.Sprintf("winstate(%d)", w)
}

// ParseWinState parses the textual form produced by String.
func ParseWinState(s string) (WinState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw":
		return Draw, nil
	case "green":
		return GreenWin, nil
	case "red":
		return RedWin, nil
	}
	return Draw, fmt.Errorf("%w: %q", ErrUnknownWinState, s)
}

// MarshalText implements encoding.TextMarshaler.
func (w WinState) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWinState, w)
	}
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WinState) UnmarshalText(text []byte) error {
	parsed, err := ParseWinState(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
