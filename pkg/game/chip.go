package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyChip is returned when an operation needs a placeable chip but
	// got [Empty].
	ErrEmptyChip = errors.New("empty chip")

	// ErrUnknownChip is returned when a value is outside the Chip enumeration.
	ErrUnknownChip = errors.New("unknown chip")
)

// Chip is the content of a single grid cell.
type Chip uint8

const (
	// Empty marks an unoccupied cell. It is never a placeable value.
	Empty Chip = iota
	// Green is the first player's chip.
	Green
	// Red is the second player's chip.
	Red
)

// Chips lists the placeable chips in move order.
var Chips = []Chip{Green, Red}

// Valid reports whether c is one of the defined chips.
func (c Chip) Valid() bool { return c <= Red }

// Placeable reports whether c can be written into a cell.
func (c Chip) Placeable() bool { return c == Green || c == Red }

// Swap returns the opponent's chip.
func (c Chip) Swap() (Chip, error) {
	switch c {
	case Green:
		return Red, nil
	case Red:
		return Green, nil
	case Empty:
		return Empty, ErrEmptyChip
	}
	return Empty, fmt.Errorf("%w: %d", ErrUnknownChip, c)
}

// Symbol returns the single-character board glyph for c.
func (c Chip) Symbol() byte {
	switch c {
	case Green:
		return 'G'
	case Red:
		return 'R'
	}
	return '.'
}

func (c Chip) String() string {
	switch c {
	case Empty:
		return "empty"
	case Green:
		return "green"
	case Red:
		return "red"
	}
	return fmt.Sprintf("chip(%d)", c)
}

// ParseChip parses a chip name or board glyph, case-insensitively.
func ParseChip(s string) (Chip, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty", ".", "0":
		return Empty, nil
	case "green", "g", "1":
		return Green, nil
	case "red", "r", "2":
		return Red, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownChip, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Chip) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChip, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Chip) UnmarshalText(text []byte) error {
	parsed, err := ParseChip(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
