package vault

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/state"
)

// Entry is the persisted form of a position. Relations are stored as
// digests only, which keeps every entry bounded in size.
type Entry struct {
	Rows      int            `json:"rows"`
	Cols      int            `json:"cols"`
	Cells     string         `json:"cells"`
	Next      game.Chip      `json:"next"`
	RunLength int            `json:"run_length"`
	Win       *game.WinState `json:"win"`
	Outcome   *state.Outcome `json:"outcome"`
	Parents   []state.Digest `json:"parents"`
	Children  []state.Digest `json:"children"`
}

// NewEntry captures s. Cells are row-major chip glyphs.
func NewEntry(s *state.State) *Entry {
	cells := s.Cells()
	glyphs := make([]byte, len(cells))
	for i, c := range cells {
		glyphs[i] = c.Symbol()
	}
	e := &Entry{
		Rows:      s.Rows(),
		Cols:      s.Cols(),
		Cells:     string(glyphs),
		Next:      s.Next(),
		RunLength: s.RunLength(),
		Outcome:   s.Outcome(),
		Parents:   state.Digests(s.Parents()),
		Children:  state.Digests(s.Children()),
	}
	if w, done := s.WinState(); done {
		e.Win = &w
	}
	return e
}

// Grid rebuilds the board described by the entry.
func (e *Entry) Grid(b grid.Bounds) (*grid.Grid, error) {
	if len(e.Cells) != e.Rows*e.Cols {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d grid", ErrCorruptEntry, len(e.Cells), e.Rows, e.Cols)
	}
	cells := make([]game.Chip, len(e.Cells))
	for i := 0; i < len(e.Cells); i++ {
		c, err := game.ParseChip(e.Cells[i : i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrCorruptEntry, i, err)
		}
		cells[i] = c
	}
	return grid.FromCells(b, e.Rows, e.Cols, cells)
}

// zstd frame magic, little endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

func marshal(e *Entry, compress bool) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	if compress {
		return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	}
	return data, nil
}

// unmarshal accepts plain and compressed entries, so toggling compression
// does not invalidate a store.
func unmarshal(data []byte) (*Entry, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		raw, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
		}
		data = raw
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return &e, nil
}
