package hornlog

// unionFind tracks variable bindings for one rule-application attempt:
// an array-backed union-find over the rule's variable slots, where each
// equivalence class can carry at most one constant. A fresh instance is
// allocated per attempt, so bindings never leak between attempts.
type unionFind struct {
	parent  []int
	binding []symbol // valid at class roots; noBinding if unbound
}

const noBinding symbol = -1

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	binding := make([]symbol, n)
	for i := range parent {
		parent[i] = i
		binding[i] = noBinding
	}
	return &unionFind{
		parent:  parent,
		binding: binding,
	}
}

// find returns the representative of x's class, compressing the path.
func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// bind attaches a constant to x's class. Reports false if the class is
// already bound to a different constant.
func (uf *unionFind) bind(x int, sym symbol) bool {
	root := uf.find(x)
	if uf.binding[root] == noBinding {
		uf.binding[root] = sym
		return true
	}
	return uf.binding[root] == sym
}

// union merges the classes of x and y, reconciling their bindings.
// Reports false if the classes are bound to different constants.
func (uf *unionFind) union(x, y int) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return true
	}
	bx, by := uf.binding[rx], uf.binding[ry]
	if bx != noBinding && by != noBinding && bx != by {
		return false
	}
	uf.parent[rx] = ry
	if uf.binding[ry] == noBinding {
		uf.binding[ry] = bx
	}
	return true
}

// resolve returns the constant bound to x's class, if any.
func (uf *unionFind) resolve(x int) (symbol, bool) {
	root := uf.find(x)
	if uf.binding[root] == noBinding {
		return noBinding, false
	}
	return uf.binding[root], true
}
