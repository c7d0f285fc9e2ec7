package hornlog

// unify unifies two atoms argument by argument, threading bindings through
// one union-find. Both atoms must draw their variable slots from the same
// scope (one rule application). There is no occurs-check: terms are flat
// predicate applications over constants and variables, so a variable can
// never appear inside the thing it binds to.
func unify(a, b *atom, uf *unionFind) error {
	if a.predicate != b.predicate || len(a.args) != len(b.args) {
		return &predicateMismatchError{}
	}
	for i := range a.args {
		if err := unifyTerm(a.args[i], b.args[i], uf); err != nil {
			return err
		}
	}
	return nil
}

func unifyTerm(a, b term, uf *unionFind) error {
	switch {
	case !a.variable && !b.variable:
		if a.sym != b.sym {
			return &argumentMismatchError{}
		}
	case a.variable && b.variable:
		if !uf.union(a.slot, b.slot) {
			return &argumentMismatchError{}
		}
	case a.variable:
		if !uf.bind(a.slot, b.sym) {
			return &argumentMismatchError{}
		}
	default:
		if !uf.bind(b.slot, a.sym) {
			return &argumentMismatchError{}
		}
	}
	return nil
}

// assign unifies the rule's premises positionally against a same-length
// tuple of ground facts, accumulating one substitution across all of them
// (a variable shared between premises must resolve consistently), then
// instantiates the conclusion. A conclusion argument with no ground
// binding fails the attempt: only fully ground facts may enter the fact
// set. Any positional failure discards the whole combination.
func assign(r *rule, facts []*atom) (*atom, error) {
	if len(facts) != len(r.premises) {
		return nil, &premiseMismatchError{premise: -1}
	}
	uf := newUnionFind(r.numVars())
	for i, premise := range r.premises {
		if err := unify(premise, facts[i], uf); err != nil {
			return nil, &premiseMismatchError{premise: i}
		}
	}
	args := make([]term, len(r.conclusion.args))
	for i, arg := range r.conclusion.args {
		if !arg.variable {
			args[i] = arg
			continue
		}
		sym, ok := uf.resolve(arg.slot)
		if !ok {
			return nil, &unboundConclusionError{varName: r.varNames[arg.slot]}
		}
		args[i] = term{sym: sym}
	}
	return &atom{predicate: r.conclusion.predicate, args: args}, nil
}
