package grid

import (
	"errors"
	"testing"
)

func TestUnionFindEmpty(t *testing.T) {
	uf := NewUnionFind(4)
	if _, _, err := uf.Largest(); !errors.Is(err, ErrEmptyStructure) {
		t.Errorf("Largest() on empty structure error = %v", err)
	}
}

func TestUnionFindUnion(t *testing.T) {
	uf := NewUnionFind(8)
	for i := 0; i < 6; i++ {
		uf.Add(i)
	}

	uf.Union(0, 1)
	uf.Union(2, 3)
	uf.Union(3, 4)

	if !uf.Connected(2, 4) {
		t.Error("2 and 4 should be connected")
	}
	if uf.Connected(0, 2) {
		t.Error("0 and 2 should not be connected")
	}
	if got := uf.Size(4); got != 3 {
		t.Errorf("Size(4) = %d, want 3", got)
	}

	root, size, err := uf.Largest()
	if err != nil {
		t.Fatal(err)
	}
	if size != 3 || root != uf.Find(2) {
		t.Errorf("Largest() = (%d, %d), want (%d, 3)", root, size, uf.Find(2))
	}

	// Uniting an already united pair changes nothing.
	uf.Union(2, 4)
	if got := uf.Size(2); got != 3 {
		t.Errorf("Size after redundant union = %d, want 3", got)
	}

	uf.Union(1, 3)
	if _, size, _ := uf.Largest(); size != 5 {
		t.Errorf("Largest size after merge = %d, want 5", size)
	}
	if uf.Len() != 6 {
		t.Errorf("Len() = %d, want 6", uf.Len())
	}
}

func TestUnionFindTieAttachesRightUnderLeft(t *testing.T) {
	uf := NewUnionFind(4)
	uf.Add(0)
	uf.Add(1)
	uf.Union(0, 1)
	if uf.Find(1) != 0 {
		t.Errorf("Find(1) = %d, want 0", uf.Find(1))
	}

	uf.Add(2)
	uf.Add(3)
	uf.Union(3, 2)
	if uf.Find(2) != 3 {
		t.Errorf("Find(2) = %d, want 3", uf.Find(2))
	}
}

func TestUnionFindSmallerUnderLarger(t *testing.T) {
	uf := NewUnionFind(4)
	for i := 0; i < 3; i++ {
		uf.Add(i)
	}
	uf.Union(1, 2)
	uf.Union(0, 1)
	if uf.Find(0) != 1 {
		t.Errorf("singleton should attach under the larger root, Find(0) = %d", uf.Find(0))
	}
}

func TestUnionFindCloneIndependent(t *testing.T) {
	uf := NewUnionFind(4)
	uf.Add(0)
	uf.Add(1)
	c := uf.Clone()
	c.Union(0, 1)
	if uf.Connected(0, 1) {
		t.Error("union on clone leaked into original")
	}
	if c.Contains(2) {
		t.Error("clone should not contain unadded offsets")
	}
}
