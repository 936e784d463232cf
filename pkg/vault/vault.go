// Package vault persists positions in a content-addressed key-value store.
//
// Entries are keyed by [state.Digest]. Parent and child relations are stored
// as digests and come back as [state.Ref] values bound to the vault, so a
// loaded position resolves its neighbours on demand and only the active part
// of the graph has to live in memory.
package vault

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/matzehuels/inarow/pkg/grid"
	"github.com/matzehuels/inarow/pkg/observability"
	"github.com/matzehuels/inarow/pkg/state"
	"github.com/matzehuels/inarow/pkg/store"
)

// Vault is a content-addressed facade over a [store.Store].
//
// It is safe for concurrent use as long as the underlying store is.
type Vault struct {
	store    store.Store
	digester *state.Digester
	bounds   grid.Bounds
	compress bool

	loads, saves, hits, misses atomic.Int64
}

// Option configures a Vault.
type Option func(*Vault)

// WithCompression compresses entries with zstd on write.
func WithCompression(on bool) Option {
	return func(v *Vault) { v.compress = on }
}

// New creates a vault. The digester and bounds must match the ones used to
// build the positions that will be saved.
func New(s store.Store, d *state.Digester, b grid.Bounds, opts ...Option) *Vault {
	v := &Vault{store: s, digester: d, bounds: b}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Digester returns the digester used to verify loaded entries.
func (v *Vault) Digester() *state.Digester { return v.digester }

// Bounds returns the grid bounds used to rebuild loaded entries.
func (v *Vault) Bounds() grid.Bounds { return v.bounds }

// Store returns the underlying store.
func (v *Vault) Store() store.Store { return v.store }

// Save writes s under its digest and returns the digest. With overwrite
// false an existing entry is left untouched.
func (v *Vault) Save(ctx context.Context, s *state.State, overwrite bool) (state.Digest, error) {
	d := s.Digest()
	if !overwrite {
		ok, err := v.store.Exists(ctx, string(d))
		if err != nil {
			return "", fmt.Errorf("vault: exists %s: %w", d.Short(), err)
		}
		if ok {
			return d, nil
		}
	}

	data, err := marshal(NewEntry(s), v.compress)
	if err != nil {
		return "", fmt.Errorf("vault: encode %s: %w", d.Short(), err)
	}
	if err := v.store.Set(ctx, string(d), data); err != nil {
		return "", fmt.Errorf("vault: save %s: %w", d.Short(), err)
	}
	v.saves.Add(1)
	observability.Vault().OnSave(ctx, len(data))
	return d, nil
}

// Load reads the entry for d. A missing entry yields a [NotInVaultError].
// Relations of the returned state are unresolved refs bound to v.
func (v *Vault) Load(ctx context.Context, d state.Digest) (*state.State, error) {
	v.loads.Add(1)
	data, ok, err := v.store.Get(ctx, string(d))
	if err != nil {
		return nil, fmt.Errorf("vault: load %s: %w", d.Short(), err)
	}
	if !ok {
		v.misses.Add(1)
		observability.Vault().OnLoad(ctx, false)
		return nil, &NotInVaultError{Digest: d}
	}
	v.hits.Add(1)
	observability.Vault().OnLoad(ctx, true)

	e, err := unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("vault: load %s: %w", d.Short(), err)
	}
	g, err := e.Grid(v.bounds)
	if err != nil {
		return nil, fmt.Errorf("vault: load %s: %w", d.Short(), err)
	}
	s, err := state.Restore(v.digester, g, e.Next, e.RunLength, v.refs(e.Parents), v.refs(e.Children), e.Outcome)
	if err != nil {
		return nil, fmt.Errorf("vault: load %s: %w", d.Short(), err)
	}
	if s.Digest() != d {
		return nil, fmt.Errorf("vault: load %s: %w: content hashes to %s", d.Short(), ErrCorruptEntry, s.Digest().Short())
	}
	if w, done := s.WinState(); done != (e.Win != nil) || (done && w != *e.Win) {
		return nil, fmt.Errorf("vault: load %s: %w: stored win state disagrees with the grid", d.Short(), ErrCorruptEntry)
	}
	return s, nil
}

// Exists reports whether d has an entry.
func (v *Vault) Exists(ctx context.Context, d state.Digest) (bool, error) {
	ok, err := v.store.Exists(ctx, string(d))
	if err != nil {
		return false, fmt.Errorf("vault: exists %s: %w", d.Short(), err)
	}
	return ok, nil
}

// Ref returns an unresolved reference to d bound to v.
func (v *Vault) Ref(d state.Digest) *state.Ref { return state.NewRef(d, v) }

func (v *Vault) refs(ds []state.Digest) []*state.Ref {
	refs := make([]*state.Ref, len(ds))
	for i, d := range ds {
		refs[i] = v.Ref(d)
	}
	return refs
}

// Stats counts vault operations since creation.
type Stats struct {
	Loads  int64 `json:"loads"`
	Saves  int64 `json:"saves"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Stats returns a snapshot of the operation counters.
func (v *Vault) Stats() Stats {
	return Stats{
		Loads:  v.loads.Load(),
		Saves:  v.saves.Load(),
		Hits:   v.hits.Load(),
		Misses: v.misses.Load(),
	}
}

// Sub returns the difference s - o.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Loads:  s.Loads - o.Loads,
		Saves:  s.Saves - o.Saves,
		Hits:   s.Hits - o.Hits,
		Misses: s.Misses - o.Misses,
	}
}

var _ state.Resolver = (*Vault)(nil)
