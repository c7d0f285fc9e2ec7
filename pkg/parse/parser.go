package parse

import (
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

var (
	ruleLexer = lexer.Must(lexer.Regexp(`(\s+)` +
		`|(#[^\n]*)` +
		`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_-]*)` +
		`|(?P<Arrow>=>)` +
		`|(?P<Punct>[(),.?])`,
	))
	fileParser      = participle.MustBuild(&File{}, ruleLexer)
	statementParser = participle.MustBuild(&Statement{}, ruleLexer)
)

// File is a sequence of statements, e.g. the contents of a rule file.
type File struct {
	Statements []*Statement `{ @@ }`
}

// Statement is either an assertion (terminated by ".") or a query
// (terminated by "?").
//
//	bird(tweety).                                  axiom
//	parent(X,Y), parent(Y,Z) => grandparent(X,Z).  rule
//	flies(tweety)?                                 query
type Statement struct {
	Atoms      []*Atom `@@ { "," @@ }`
	Conclusion *Atom   `[ "=>" @@ ]`
	Query      bool    `( @"?" | "." )`
}

// Atom is a predicate applied to zero or more arguments.
type Atom struct {
	Predicate string  `@Ident`
	Args      []*Term `[ "(" @@ { "," @@ } ")" ]`
}

type Term struct {
	Name string `@Ident`
}

// IsVariable reports whether the term names a variable. Identifiers
// starting with an uppercase letter or an underscore are variables;
// everything else is a constant.
func (t *Term) IsVariable() bool {
	r, _ := utf8.DecodeRuneInString(t.Name)
	return unicode.IsUpper(r) || r == '_'
}

// Premises returns the statement's premise atoms. For an assertion with
// no "=>" the single atom is the conclusion, not a premise.
func (s *Statement) Premises() []*Atom {
	if s.Conclusion == nil {
		return nil
	}
	return s.Atoms
}

// ConclusionAtom returns the asserted atom: the conclusion of a rule, or
// the atom itself for an axiom.
func (s *Statement) ConclusionAtom() *Atom {
	if s.Conclusion != nil {
		return s.Conclusion
	}
	if len(s.Atoms) == 1 {
		return s.Atoms[0]
	}
	return nil
}

// Parse parses a rule file.
func Parse(src string) (*File, error) {
	result := &File{}
	err := fileParser.ParseString(src, result)
	return result, err
}

// ParseStatement parses a single statement.
func ParseStatement(src string) (*Statement, error) {
	result := &Statement{}
	err := statementParser.ParseString(src, result)
	return result, err
}
