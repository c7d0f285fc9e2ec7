package parse

import "testing"

func TestParseFile(t *testing.T) {
	file, err := Parse(`
		# a small taxonomy
		bird(tweety).
		bird(X) => flies(X).
		parent(ann, bob).
		parent(X, Y), parent(Y, Z) => grandparent(X, Z).
	`)
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Statements) != 4 {
		t.Fatalf("expected 4 statements; got %d", len(file.Statements))
	}

	axiom := file.Statements[0]
	if axiom.Query {
		t.Fatal("expected assertion; got query")
	}
	if len(axiom.Premises()) != 0 {
		t.Fatalf("expected axiom to have no premises; got %d", len(axiom.Premises()))
	}
	if axiom.ConclusionAtom().Predicate != "bird" {
		t.Fatalf("expected conclusion predicate bird; got %s", axiom.ConclusionAtom().Predicate)
	}

	rule := file.Statements[3]
	if len(rule.Premises()) != 2 {
		t.Fatalf("expected 2 premises; got %d", len(rule.Premises()))
	}
	if rule.ConclusionAtom().Predicate != "grandparent" {
		t.Fatalf("expected conclusion predicate grandparent; got %s", rule.ConclusionAtom().Predicate)
	}
}

func TestParseStatement(t *testing.T) {
	query, err := ParseStatement(`flies(tweety)?`)
	if err != nil {
		t.Fatal(err)
	}
	if !query.Query {
		t.Fatal("expected query")
	}
	if len(query.Atoms) != 1 || query.Atoms[0].Predicate != "flies" {
		t.Fatalf("unexpected query atoms: %+v", query.Atoms)
	}

	zeroArg, err := ParseStatement(`raining => wet.`)
	if err != nil {
		t.Fatal(err)
	}
	if len(zeroArg.Premises()) != 1 || len(zeroArg.Premises()[0].Args) != 0 {
		t.Fatalf("expected one zero-argument premise; got %+v", zeroArg.Premises())
	}
}

func TestParseVariables(t *testing.T) {
	stmt, err := ParseStatement(`parent(X, bob) => ancestor(X, bob).`)
	if err != nil {
		t.Fatal(err)
	}
	args := stmt.Premises()[0].Args
	if !args[0].IsVariable() {
		t.Fatalf("expected %s to be a variable", args[0].Name)
	}
	if args[1].IsVariable() {
		t.Fatalf("expected %s to be a constant", args[1].Name)
	}
}

func TestParseError(t *testing.T) {
	if _, err := ParseStatement(`bird(tweety`); err == nil {
		t.Fatal("expected parse error for unterminated statement")
	}
}
