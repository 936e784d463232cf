package state

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/inarow/pkg/game"
	"github.com/matzehuels/inarow/pkg/grid"
)

// ErrUnknownAlgorithm is returned by [NewDigester] for unsupported algorithm names.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Digest is the content identity of a position: the lowercase hex encoding
// of a hash over grid shape, grid contents, next chip and run length.
// Digests are used directly as store keys.
type Digest string

// Short returns the first 12 characters, for display.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12])
}

// Algorithm names a hash function usable for digests.
type Algorithm string

// Supported algorithms.
const (
	SHA256 Algorithm = "sha256"
	SHA1   Algorithm = "sha1"
	SHA512 Algorithm = "sha512"
	MD5    Algorithm = "md5"
	XXHash Algorithm = "xxhash"
)

// DefaultAlgorithm is used when no configuration overrides it.
const DefaultAlgorithm = SHA256

var algorithms = map[Algorithm]func() hash.Hash{
	SHA256: sha256.New,
	SHA1:   sha1.New,
	SHA512: sha512.New,
	MD5:    md5.New,
	XXHash: func() hash.Hash { return xxhash.New() },
}

// Algorithms returns the supported algorithm names, sorted.
func Algorithms() []Algorithm {
	names := make([]Algorithm, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Digester computes content digests with a fixed algorithm. Changing the
// algorithm invalidates every previously stored digest.
//
// A Digester is safe for concurrent use.
type Digester struct {
	alg     Algorithm
	newHash func() hash.Hash
}

// NewDigester returns a digester for alg.
func NewDigester(alg Algorithm) (*Digester, error) {
	newHash, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	return &Digester{alg: alg, newHash: newHash}, nil
}

// Algorithm returns the configured algorithm.
func (d *Digester) Algorithm() Algorithm { return d.alg }

// Sum digests the identity-defining fields of a position. Parent and child
// links never participate, so equal positions reached through different
// move orders share a digest.
func (d *Digester) Sum(g *grid.Grid, next game.Chip, runLength int) Digest {
	h := d.newHash()
	var buf [4]byte
	putUint32 := func(v int) {
		binary.BigEndian.PutUint32(buf[:], uint32(v))
		h.Write(buf[:])
	}

	putUint32(g.Rows())
	putUint32(g.Cols())
	cells := g.Cells()
	raw := make([]byte, len(cells))
	for i, c := range cells {
		raw[i] = byte(c)
	}
	h.Write(raw)
	putUint32(int(next))
	putUint32(runLength)

	return Digest(hex.EncodeToString(h.Sum(nil)))
}
