package hornlog

// DerivationTree is a proof: an atom plus the subproofs of the premises
// that justified it. Leaves are exactly the seed axioms. Trees are built
// on demand from the justification map and never stored in engine state.
type DerivationTree struct {
	Atom     SurfaceAtom       `json:"atom"`
	Children []*DerivationTree `json:"children,omitempty"`
}

// derivationTree reconstructs the proof of root, which must be present in
// the fact set.
func (e *Engine) derivationTree(root *atom) (*DerivationTree, error) {
	return e.buildSubtree(root, make(map[string]bool))
}

// buildSubtree recurses through justifications, terminating at seed
// axioms (empty justification list). inFlight holds the atoms on the
// current path: revisiting one would mean the justification map has a
// cycle, which insertion order is supposed to rule out, so fail fast
// instead of recursing forever.
func (e *Engine) buildSubtree(a *atom, inFlight map[string]bool) (*DerivationTree, error) {
	key := a.key()
	surface := e.mustSurfaceAtom(a)
	if inFlight[key] {
		return nil, &derivationCycleError{atom: surface}
	}
	premises, ok := e.justifications[key]
	if !ok {
		return nil, &missingJustificationError{atom: surface}
	}
	inFlight[key] = true
	defer delete(inFlight, key)

	tree := &DerivationTree{Atom: surface}
	for _, p := range premises {
		child, err := e.buildSubtree(p, inFlight)
		if err != nil {
			return nil, err
		}
		tree.Children = append(tree.Children, child)
	}
	return tree, nil
}
