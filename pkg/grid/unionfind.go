package grid

import "slices"

// absent marks an offset that was never added.
const absent = -1

// UnionFind is a disjoint-set forest over linear cell offsets with union by
// size and path halving. Components only grow; there is no removal.
//
// Sizes are kept at roots only. The structure also tracks the root of the
// largest component seen so far, which is always a current root: any union
// involving it produces a strictly larger or equal component whose root
// replaces it.
//
// The zero value is not usable - use NewUnionFind.
type UnionFind struct {
	parent  []int32
	size    []int32
	count   int
	maxRoot int32
	maxSize int32
}

// NewUnionFind creates a structure able to hold offsets in [0, n).
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent:  make([]int32, n),
		size:    make([]int32, n),
		maxRoot: absent,
	}
	for i := range uf.parent {
		uf.parent[i] = absent
	}
	return uf
}

// Clone returns an independent copy.
func (uf *UnionFind) Clone() *UnionFind {
	return &UnionFind{
		parent:  slices.Clone(uf.parent),
		size:    slices.Clone(uf.size),
		count:   uf.count,
		maxRoot: uf.maxRoot,
		maxSize: uf.maxSize,
	}
}

// Len returns the number of registered offsets.
func (uf *UnionFind) Len() int { return uf.count }

// Contains reports whether n was added.
func (uf *UnionFind) Contains(n int) bool {
	return n >= 0 && n < len(uf.parent) && uf.parent[n] != absent
}

// Add registers n as a singleton component. Adding an existing offset is a
// no-op.
func (uf *UnionFind) Add(n int) {
	if uf.parent[n] != absent {
		return
	}
	uf.parent[n] = int32(n)
	uf.size[n] = 1
	uf.count++
	if uf.maxSize < 1 {
		uf.maxRoot, uf.maxSize = int32(n), 1
	}
}

// Find returns the root of n's component, halving the traversed path.
// n must have been added.
func (uf *UnionFind) Find(n int) int {
	i := int32(n)
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return int(i)
}

// Connected reports whether a and b belong to the same component.
func (uf *UnionFind) Connected(a, b int) bool { return uf.Find(a) == uf.Find(b) }

// Union merges the components of a and b. The smaller tree is attached under
// the larger root; on a tie b's root goes under a's. Uniting an already
// united pair is a no-op.
func (uf *UnionFind) Union(a, b int) {
	ra, rb := int32(uf.Find(a)), int32(uf.Find(b))
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
	uf.size[rb] = 0
	if uf.size[ra] >= uf.maxSize {
		uf.maxRoot, uf.maxSize = ra, uf.size[ra]
	}
}

// Size returns the size of n's component.
func (uf *UnionFind) Size(n int) int { return int(uf.size[uf.Find(n)]) }

// Largest returns the root and size of the largest component.
func (uf *UnionFind) Largest() (root, size int, err error) {
	if uf.count == 0 {
		return 0, 0, ErrEmptyStructure
	}
	return int(uf.maxRoot), int(uf.maxSize), nil
}
