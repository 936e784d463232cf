package solver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by [ParseMode] for unsupported names.
var ErrUnknownMode = errors.New("unknown propagation mode")

// Mode selects how terminal outcomes are counted.
type Mode string

const (
	// ModeLeaves counts distinct terminal positions.
	ModeLeaves Mode = "leaves"

	// ModePaths counts lines of play.
	ModePaths Mode = "paths"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModeLeaves

// Modes lists the supported modes.
var Modes = []Mode{ModeLeaves, ModePaths}

// ParseMode parses a mode name. The empty string selects [DefaultMode].
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeLeaves:
		return ModeLeaves, nil
	case ModePaths:
		return ModePaths, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string { return string(m) }
