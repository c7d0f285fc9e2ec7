package hornlog

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/vilterp/hornlog/pkg/parse"
)

// Engine saturates a set of facts under a set of Horn rules: every rule is
// unified against every combination of known facts, round after round,
// until a queried fact appears or nothing new can be derived. Alongside
// the fact set it maintains the justification map linking every derived
// fact back to the premises that licensed it, which is what proof
// reconstruction walks.
//
// An Engine is single-threaded: callers sharing one across goroutines
// must serialize access (see Database).
type Engine struct {
	interner *interner

	rules          []*rule          // generative rules, in load order
	facts          []*fact          // ground atoms, in derivation order
	factIndex      map[string]*fact // key() -> fact
	justifications map[string][]*atom

	round         int
	fixpoint      bool // no rule can derive anything new from the current facts
	bottom        symbol
	bottomWitness *atom // first derived contradiction, if any

	limits EngineLimits
}

// fact is a ground atom plus the saturation round that produced it (0 for
// seed axioms). Premises always carry a strictly smaller round than their
// conclusion, which is what makes the justification map well-founded.
type fact struct {
	atom  *atom
	round int
}

// EngineLimits bounds saturation. The search is combinatorial in the fact
// count, so the ceilings turn a runaway rule set into a
// resourceExhaustedError instead of an unbounded burn. MaxRounds is a
// per-query budget; MaxFacts caps the fact set for the engine's lifetime.
// Zero means default.
type EngineLimits struct {
	MaxRounds int
	MaxFacts  int
}

const (
	DefaultMaxRounds = 100
	DefaultMaxFacts  = 100000
)

// BottomPredicate is the distinguished contradiction predicate. Deriving
// it means the axioms are inconsistent; saturation halts immediately and
// the engine instance stays poisoned.
const BottomPredicate = "bottom"

func NewEngine(limits EngineLimits) *Engine {
	if limits.MaxRounds == 0 {
		limits.MaxRounds = DefaultMaxRounds
	}
	if limits.MaxFacts == 0 {
		limits.MaxFacts = DefaultMaxFacts
	}
	in := newInterner()
	return &Engine{
		interner:       in,
		factIndex:      make(map[string]*fact),
		justifications: make(map[string][]*atom),
		bottom:         in.intern(BottomPredicate),
		limits:         limits,
	}
}

// NewEngineFromSource builds an engine from rule-file text.
func NewEngineFromSource(src string, limits EngineLimits) (*Engine, error) {
	file, err := parse.Parse(src)
	if err != nil {
		return nil, &parseError{error: err}
	}
	e := NewEngine(limits)
	for _, stmt := range file.Statements {
		if err := e.Assert(stmt); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// NewEngineFromFile builds an engine from a rule file on disk.
func NewEngineFromFile(path string, limits EngineLimits) (*Engine, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading rule file")
	}
	e, err := NewEngineFromSource(string(contents), limits)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return e, nil
}

// Assert loads one parsed assertion. An empty-premise statement is a seed
// axiom: its atom goes straight into the fact set with an empty
// justification entry, marking it as a proof-tree leaf. Anything else
// becomes a generative rule. Rules are fixed after construction; they are
// never themselves derived.
func (e *Engine) Assert(stmt *parse.Statement) error {
	if stmt.Query {
		return &validationError{error: fmt.Errorf("cannot assert a query")}
	}
	conclusion := stmt.ConclusionAtom()
	if conclusion == nil {
		return &validationError{error: fmt.Errorf("assertion of %d atoms with no conclusion", len(stmt.Atoms))}
	}

	vs := newVarScope()
	premises := stmt.Premises()
	if len(premises) == 0 {
		a := e.interner.internAtom(surfaceAtomFromAST(conclusion), vs)
		if !a.ground() {
			return &validationError{error: fmt.Errorf("axiom %s contains variables", conclusion.Predicate)}
		}
		e.insertFact(a, []*atom{}, 0)
		return nil
	}

	r := &rule{}
	for _, p := range premises {
		r.premises = append(r.premises, e.interner.internAtom(surfaceAtomFromAST(p), vs))
	}
	r.conclusion = e.interner.internAtom(surfaceAtomFromAST(conclusion), vs)
	r.varNames = vs.names
	e.rules = append(e.rules, r)
	e.fixpoint = false
	return nil
}

// Query saturates until target is derived and returns its proof tree.
// Terminal failures: saturatedError if the rule set reaches a fixpoint
// without deriving the target, bottomDerivedError if a contradiction is
// (or ever was) derived, resourceExhaustedError if a ceiling is hit first.
// The round budget is per call: a query that fails with saturatedError
// leaves the engine able to answer the same query the same way forever.
func (e *Engine) Query(target SurfaceAtom) (*DerivationTree, error) {
	if e.bottomWitness != nil {
		return nil, e.bottomError()
	}
	vs := newVarScope()
	inner := e.interner.internAtom(target, vs)
	if !inner.ground() {
		return nil, &validationError{error: fmt.Errorf("query %s contains variables", target.Predicate)}
	}
	startRound := e.round
	for {
		if _, ok := e.factIndex[inner.key()]; ok {
			return e.derivationTree(inner)
		}
		if e.fixpoint {
			// Nothing new can be derived; no point burning rounds.
			return nil, &saturatedError{target: target}
		}
		if e.round-startRound >= e.limits.MaxRounds {
			return nil, &resourceExhaustedError{rounds: e.round - startRound, facts: len(e.facts)}
		}
		productive, err := e.saturate()
		if err != nil {
			return nil, err
		}
		if e.bottomWitness != nil {
			// A contradiction outranks the original target: the axioms
			// are inconsistent, so "derivable" stops meaning anything.
			return nil, e.bottomError()
		}
		if !productive {
			return nil, &saturatedError{target: target}
		}
	}
}

// saturate runs one fixpoint round: every rule is assigned against every
// same-size combination of current facts, and all novel conclusions are
// committed after the sweep. Candidates only draw on facts that existed
// when the round started, which keeps justifications well-founded by
// construction. Reports whether anything new was inserted.
func (e *Engine) saturate() (bool, error) {
	type candidate struct {
		conclusion *atom
		premises   []*atom
	}
	var derived []candidate

	snapshot := e.facts
	for _, r := range e.rules {
		k := len(r.premises)
		combos := newCombinations(len(snapshot), k)
		for idx, ok := combos.next(); ok; idx, ok = combos.next() {
			input := make([]*atom, k)
			for i, j := range idx {
				input[i] = snapshot[j].atom
			}
			conclusion, err := assign(r, input)
			if err != nil {
				// Mismatches are the normal case; try the next combination.
				continue
			}
			derived = append(derived, candidate{conclusion: conclusion, premises: input})
		}
	}

	e.round++
	modified := false
	for _, c := range derived {
		if e.insertFact(c.conclusion, c.premises, e.round) {
			modified = true
		}
		if len(e.facts) > e.limits.MaxFacts {
			return false, &resourceExhaustedError{rounds: e.round, facts: len(e.facts)}
		}
	}
	e.fixpoint = !modified
	return modified, nil
}

// insertFact adds a ground atom together with its justification. The two
// structures move in lockstep: a fact present without a justification
// entry would make tree reconstruction non-terminating. Reports false if
// the fact was already known (first writer wins, so the recorded
// derivation of a fact never changes).
func (e *Engine) insertFact(a *atom, justifiedBy []*atom, round int) bool {
	key := a.key()
	if _, ok := e.factIndex[key]; ok {
		return false
	}
	f := &fact{atom: a, round: round}
	e.facts = append(e.facts, f)
	e.factIndex[key] = f
	e.justifications[key] = justifiedBy
	e.fixpoint = false
	if a.predicate == e.bottom && e.bottomWitness == nil {
		e.bottomWitness = a
	}
	return true
}

func (e *Engine) bottomError() error {
	return &bottomDerivedError{witness: e.mustSurfaceAtom(e.bottomWitness)}
}

// mustSurfaceAtom resolves a ground internal atom; symbols in engine state
// always originate from the engine's own interner.
func (e *Engine) mustSurfaceAtom(a *atom) SurfaceAtom {
	sa, err := e.interner.surfaceAtom(a, nil)
	if err != nil {
		panic(err)
	}
	return sa
}

// Rules returns the generative rules in surface form, in load order.
func (e *Engine) Rules() []SurfaceRule {
	var out []SurfaceRule
	for _, r := range e.rules {
		sr, err := e.interner.surfaceRule(r)
		if err != nil {
			panic(err)
		}
		out = append(out, sr)
	}
	return out
}

// Facts returns every known fact in surface form, in derivation order.
func (e *Engine) Facts() []SurfaceAtom {
	var out []SurfaceAtom
	for _, f := range e.facts {
		out = append(out, e.mustSurfaceAtom(f.atom))
	}
	return out
}

// NumRounds returns how many saturation rounds have run.
func (e *Engine) NumRounds() int {
	return e.round
}

// combinations enumerates the k-element index subsets of [0, n) in
// lexicographic order, so every unordered selection of facts is
// considered exactly once. The returned slice is reused between calls.
type combinations struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

func newCombinations(n, k int) *combinations {
	c := &combinations{n: n, k: k, idx: make([]int, k)}
	if k > n {
		c.done = true
	}
	return c
}

func (c *combinations) next() ([]int, bool) {
	if c.done {
		return nil, false
	}
	if !c.started {
		c.started = true
		for i := range c.idx {
			c.idx[i] = i
		}
		return c.idx, true
	}
	// Advance the rightmost index that still has room.
	i := c.k - 1
	for ; i >= 0; i-- {
		if c.idx[i] < c.n-c.k+i {
			break
		}
	}
	if i < 0 {
		c.done = true
		return nil, false
	}
	c.idx[i]++
	for j := i + 1; j < c.k; j++ {
		c.idx[j] = c.idx[j-1] + 1
	}
	return c.idx, true
}
