package state

import (
	"fmt"
	"maps"
	"strings"

	"github.com/matzehuels/inarow/pkg/game"
)

// Histogram counts terminal outcomes by win state.
type Histogram map[game.WinState]int

// Total returns the sum of all counts.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Add merges other into h.
func (h Histogram) Add(other Histogram) {
	for w, n := range other {
		h[w] += n
	}
}

// Equal reports whether both histograms hold the same non-zero counts.
func (h Histogram) Equal(other Histogram) bool {
	for _, w := range game.WinStates {
		if h[w] != other[w] {
			return false
		}
	}
	return true
}

func (h Histogram) String() string {
	parts := make([]string, 0, len(game.WinStates))
	for _, w := range game.WinStates {
		if n := h[w]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", w, n))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Outcome is the result of propagation for one position.
//
// Histogram is always set. Leaves holds the distinct terminal positions
// reachable from the node and is only populated when outcomes are counted per
// distinct leaf.
type Outcome struct {
	Histogram Histogram                 `json:"histogram"`
	Leaves    map[Digest]game.WinState `json:"leaves,omitempty"`
}

// TerminalOutcome is the outcome of a finished position: itself, once.
func TerminalOutcome(d Digest, w game.WinState, withLeaves bool) *Outcome {
	o := &Outcome{Histogram: Histogram{w: 1}}
	if withLeaves {
		o.Leaves = map[Digest]game.WinState{d: w}
	}
	return o
}

// Clone returns a deep copy.
func (o *Outcome) Clone() *Outcome {
	if o == nil {
		return nil
	}
	return &Outcome{
		Histogram: maps.Clone(o.Histogram),
		Leaves:    maps.Clone(o.Leaves),
	}
}
