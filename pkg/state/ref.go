package state

import (
	"context"
	"errors"
	"sync"
)

// ErrUnresolvable is returned by [Ref.Resolve] for a reference with neither a
// cached state nor a resolver.
var ErrUnresolvable = errors.New("reference has no resolver")

// Resolver loads a state by digest. The vault implements it.
type Resolver interface {
	Load(ctx context.Context, d Digest) (*State, error)
}

// Ref is a graph edge: the digest of a related position plus, once
// resolved, the position itself. Refs loaded from a vault start unresolved
// and load on first Resolve; refs created by [State.MakeMove] are resolved
// from the start.
//
// A Ref is safe for concurrent use.
type Ref struct {
	digest   Digest
	resolver Resolver

	mu    sync.Mutex
	state *State
}

// NewRef returns an unresolved reference bound to r.
func NewRef(d Digest, r Resolver) *Ref {
	return &Ref{digest: d, resolver: r}
}

// RefTo returns a resolved reference to s.
func RefTo(s *State) *Ref {
	return &Ref{digest: s.Digest(), state: s}
}

// Digest returns the referenced digest without resolving.
func (r *Ref) Digest() Digest { return r.digest }

// Loaded reports whether the state is cached.
func (r *Ref) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != nil
}

// Resolve returns the referenced state, loading it through the resolver on
// first use.
func (r *Ref) Resolve(ctx context.Context) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		return r.state, nil
	}
	if r.resolver == nil {
		return nil, ErrUnresolvable
	}
	s, err := r.resolver.Load(ctx, r.digest)
	if err != nil {
		return nil, err
	}
	r.state = s
	return s, nil
}

// Is reports whether r points at d.
func (r *Ref) Is(d Digest) bool { return r.digest == d }

// Matches reports whether r points at a position equal to s. Identity is
// the digest, so no load is needed.
func (r *Ref) Matches(s *State) bool { return s != nil && r.digest == s.Digest() }

func (r *Ref) String() string { return r.digest.Short() }

// Digests returns the digests of refs in order.
func Digests(refs []*Ref) []Digest {
	out := make([]Digest, len(refs))
	for i, r := range refs {
		out[i] = r.digest
	}
	return out
}
