package hornlog

import "testing"

func TestUnionFindBind(t *testing.T) {
	uf := newUnionFind(3)

	if _, ok := uf.resolve(0); ok {
		t.Fatal("fresh slot should be unbound")
	}
	if !uf.bind(0, 7) {
		t.Fatal("binding a fresh slot should succeed")
	}
	if !uf.bind(0, 7) {
		t.Fatal("rebinding to the same constant should succeed")
	}
	if uf.bind(0, 8) {
		t.Fatal("rebinding to a different constant should fail")
	}

	sym, ok := uf.resolve(0)
	if !ok || sym != 7 {
		t.Fatalf("expected binding 7; got %d (bound=%v)", sym, ok)
	}
}

func TestUnionFindUnionPropagatesBindings(t *testing.T) {
	uf := newUnionFind(4)

	// Bind one slot, then union an unbound slot into its class.
	uf.bind(0, 5)
	if !uf.union(0, 1) {
		t.Fatal("union with one bound side should succeed")
	}
	sym, ok := uf.resolve(1)
	if !ok || sym != 5 {
		t.Fatalf("expected slot 1 to see binding 5; got %d (bound=%v)", sym, ok)
	}

	// Binding through either member of the class must conflict now.
	if uf.bind(1, 6) {
		t.Fatal("conflicting bind through a unioned slot should fail")
	}

	// Two differently-bound classes cannot merge.
	uf.bind(2, 9)
	uf.bind(3, 10)
	if uf.union(2, 3) {
		t.Fatal("union of differently-bound classes should fail")
	}
}

func TestUnionFindTransitive(t *testing.T) {
	uf := newUnionFind(5)

	uf.union(0, 1)
	uf.union(1, 2)
	uf.union(3, 4)
	uf.union(2, 3)

	// All five slots are one class; a single bind covers them all.
	uf.bind(4, 11)
	for slot := 0; slot < 5; slot++ {
		sym, ok := uf.resolve(slot)
		if !ok || sym != 11 {
			t.Fatalf("slot %d: expected 11; got %d (bound=%v)", slot, sym, ok)
		}
	}
}
