package hornlog

import (
	"testing"

	"github.com/vilterp/hornlog/pkg/parse"
)

func mustEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e, err := NewEngineFromSource(src, EngineLimits{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func mustQuery(t *testing.T, e *Engine, query string) *DerivationTree {
	t.Helper()
	tree, err := e.Query(MustParseAtom(query))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestQuerySingleStep(t *testing.T) {
	e := mustEngine(t, `
		bird(tweety).
		bird(X) => flies(X).
	`)

	tree := mustQuery(t, e, "flies(tweety)")
	expected := "flies(tweety)\n" +
		"  bird(tweety)"
	if tree.String() != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, tree.String())
	}
}

func TestQuerySeedIsLeaf(t *testing.T) {
	e := mustEngine(t, `bird(tweety).`)

	tree := mustQuery(t, e, "bird(tweety)")
	if len(tree.Children) != 0 {
		t.Fatalf("seed axiom should be a leaf; got %d children", len(tree.Children))
	}
}

func TestQuerySaturated(t *testing.T) {
	e := mustEngine(t, `
		bird(tweety).
		bird(X) => flies(X).
	`)

	_, err := e.Query(MustParseAtom("flies(polly)"))
	if !IsSaturated(err) {
		t.Fatalf("expected saturated; got %v", err)
	}

	// A failed query does not poison the engine.
	mustQuery(t, e, "flies(tweety)")
}

func TestQueryGrandparent(t *testing.T) {
	e := mustEngine(t, `
		parent(ann, bob).
		parent(bob, carl).
		parent(X, Y), parent(Y, Z) => grandparent(X, Z).
	`)

	tree := mustQuery(t, e, "grandparent(ann, carl)")
	expected := "grandparent(ann, carl)\n" +
		"  parent(ann, bob)\n" +
		"  parent(bob, carl)"
	if tree.String() != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, tree.String())
	}
}

func TestQueryRecursiveRule(t *testing.T) {
	e := mustEngine(t, `
		parent(ann, bob).
		parent(bob, carl).
		parent(X, Y) => ancestor(X, Y).
		parent(X, Y), ancestor(Y, Z) => ancestor(X, Z).
	`)

	tree := mustQuery(t, e, "ancestor(ann, carl)")
	expected := "ancestor(ann, carl)\n" +
		"  parent(ann, bob)\n" +
		"  ancestor(bob, carl)\n" +
		"    parent(bob, carl)"
	if tree.String() != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, tree.String())
	}
}

func TestQueryIdempotent(t *testing.T) {
	e := mustEngine(t, `
		parent(ann, bob).
		parent(bob, carl).
		parent(X, Y) => ancestor(X, Y).
		parent(X, Y), ancestor(Y, Z) => ancestor(X, Z).
	`)

	first := mustQuery(t, e, "ancestor(ann, carl)")
	second := mustQuery(t, e, "ancestor(ann, carl)")
	if first.String() != second.String() {
		t.Fatalf("repeated query changed its proof:\n%s\nvs:\n%s", first, second)
	}
}

func TestQueryZeroArity(t *testing.T) {
	e := mustEngine(t, `
		raining.
		raining => wet.
	`)

	tree := mustQuery(t, e, "wet")
	expected := "wet\n" +
		"  raining"
	if tree.String() != expected {
		t.Fatalf("expected:\n%s\ngot:\n%s", expected, tree.String())
	}
}

func TestUnboundConclusionNeverDerives(t *testing.T) {
	// Y has no binding, so the rule can never produce a ground fact. Each
	// attempt is discarded; the query saturates.
	e := mustEngine(t, `
		person(ann).
		person(X) => knows(X, Y).
	`)

	_, err := e.Query(MustParseAtom("knows(ann, bob)"))
	if !IsSaturated(err) {
		t.Fatalf("expected saturated; got %v", err)
	}
}

func TestBottomHaltsSaturation(t *testing.T) {
	e := mustEngine(t, `
		penguin(tux).
		penguin(X) => bottom(X).
	`)

	_, err := e.Query(MustParseAtom("flies(tux)"))
	if !IsBottomDerived(err) {
		t.Fatalf("expected bottom; got %v", err)
	}
}

func TestBottomPoisonsEngine(t *testing.T) {
	e := mustEngine(t, `
		penguin(tux).
		penguin(X) => bottom(X).
	`)

	if _, err := e.Query(MustParseAtom("flies(tux)")); !IsBottomDerived(err) {
		t.Fatalf("expected bottom; got %v", err)
	}

	// Even a query for a fact that is present reports the contradiction.
	if _, err := e.Query(MustParseAtom("penguin(tux)")); !IsBottomDerived(err) {
		t.Fatalf("expected bottom on poisoned engine; got %v", err)
	}
}

func TestMaxRoundsExceeded(t *testing.T) {
	src := `
		a(x).
		a(X) => b(X).
		b(X) => c(X).
		c(X) => d(X).
	`
	e, err := NewEngineFromSource(src, EngineLimits{MaxRounds: 2})
	if err != nil {
		t.Fatal(err)
	}

	// d(x) needs three rounds; the ceiling stops the search at two.
	if _, err := e.Query(MustParseAtom("d(x)")); !IsResourceExhausted(err) {
		t.Fatalf("expected resource exhaustion; got %v", err)
	}
}

func TestMaxFactsExceeded(t *testing.T) {
	src := `
		p(a).
		p(b).
		p(X) => q(X).
		q(X) => r(X).
	`
	e, err := NewEngineFromSource(src, EngineLimits{MaxFacts: 3})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Query(MustParseAtom("r(b)")); !IsResourceExhausted(err) {
		t.Fatalf("expected resource exhaustion; got %v", err)
	}
}

func TestRoundBudgetIsPerQuery(t *testing.T) {
	// A failed query must not eat into later queries' round budget: the
	// same non-entailed query answers saturated forever, never flipping to
	// resource exhaustion as lifetime rounds accumulate.
	e, err := NewEngineFromSource(`
		bird(tweety).
		bird(X) => flies(X).
	`, EngineLimits{MaxRounds: 2})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		_, err := e.Query(MustParseAtom("flies(polly)"))
		if !IsSaturated(err) {
			t.Fatalf("query %d: expected saturated; got %v", i, err)
		}
	}
	mustQuery(t, e, "flies(tweety)")
}

func TestAssertRejectsVariableAxiom(t *testing.T) {
	_, err := NewEngineFromSource(`flies(X).`, EngineLimits{})
	if err == nil {
		t.Fatal("expected validation error for variable in axiom")
	}
}

func TestAssertRejectsQuery(t *testing.T) {
	e := NewEngine(EngineLimits{})
	stmt, err := parse.ParseStatement("bird(tweety)?")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Assert(stmt); err == nil {
		t.Fatal("expected validation error asserting a query")
	}
}

func TestQueryRejectsVariables(t *testing.T) {
	e := mustEngine(t, `bird(tweety).`)
	if _, err := e.Query(MustParseAtom("bird(X)")); err == nil {
		t.Fatal("expected validation error for variable in query")
	}
}

func TestPremiseOrderMatters(t *testing.T) {
	// Premises unify against fact combinations positionally, in fact
	// insertion order. Here the rule wants q before p but the facts were
	// seeded p first, so the rule never fires.
	e := mustEngine(t, `
		p(a).
		q(a).
		q(X), p(X) => r(X).
	`)

	if _, err := e.Query(MustParseAtom("r(a)")); !IsSaturated(err) {
		t.Fatalf("expected saturated; got %v", err)
	}
}

func TestRulesAndFactsListing(t *testing.T) {
	e := mustEngine(t, `
		bird(tweety).
		bird(X) => flies(X).
	`)
	mustQuery(t, e, "flies(tweety)")

	rules := e.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule; got %d", len(rules))
	}
	if rules[0].String() != "bird(X) => flies(X)." {
		t.Fatalf(`unexpected rule rendering: "%s"`, rules[0])
	}

	facts := e.Facts()
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts; got %d", len(facts))
	}
	if facts[0].String() != "bird(tweety)" || facts[1].String() != "flies(tweety)" {
		t.Fatalf("unexpected fact listing: %v", facts)
	}
}

func TestParseErrorFromSource(t *testing.T) {
	_, err := NewEngineFromSource(`bird(tweety`, EngineLimits{})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errorKind(err) != "parse_error" {
		t.Fatalf(`expected kind "parse_error"; got "%s"`, errorKind(err))
	}
}

func TestCommentsAndWhitespace(t *testing.T) {
	e := mustEngine(t, `
		# the canonical example
		bird(tweety).   # seed
		bird(X) => flies(X).
	`)
	mustQuery(t, e, "flies(tweety)")
}
