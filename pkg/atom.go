package hornlog

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/vilterp/hornlog/pkg/parse"
)

// SurfaceTerm is an argument in surface form: a plain name, flagged as
// variable or constant.
type SurfaceTerm struct {
	Name     string `json:"name"`
	Variable bool   `json:"variable,omitempty"`
}

// Const returns a constant surface term.
func Const(name string) SurfaceTerm {
	return SurfaceTerm{Name: name}
}

// Var returns a variable surface term.
func Var(name string) SurfaceTerm {
	return SurfaceTerm{Name: name, Variable: true}
}

// SurfaceAtom is a predicate applied to arguments, in the human-readable
// form used at the engine's boundary.
type SurfaceAtom struct {
	Predicate string        `json:"predicate"`
	Args      []SurfaceTerm `json:"args,omitempty"`
}

// SurfaceRule is premises plus a conclusion, in surface form. An empty
// premise list denotes an axiom.
type SurfaceRule struct {
	Premises   []SurfaceAtom `json:"premises,omitempty"`
	Conclusion SurfaceAtom   `json:"conclusion"`
}

// ParseAtom parses a single atom, e.g. "parent(ann, bob)". A trailing
// "." or "?" is accepted and ignored.
func ParseAtom(src string) (SurfaceAtom, error) {
	trimmed := strings.TrimSpace(src)
	if !strings.HasSuffix(trimmed, "?") && !strings.HasSuffix(trimmed, ".") {
		trimmed += "?"
	}
	stmt, err := parse.ParseStatement(trimmed)
	if err != nil {
		return SurfaceAtom{}, &parseError{error: err}
	}
	if len(stmt.Atoms) != 1 || stmt.Conclusion != nil {
		return SurfaceAtom{}, &validationError{error: errNotAnAtom}
	}
	return surfaceAtomFromAST(stmt.Atoms[0]), nil
}

// MustParseAtom is ParseAtom, panicking on error.
func MustParseAtom(src string) SurfaceAtom {
	a, err := ParseAtom(src)
	if err != nil {
		panic(err)
	}
	return a
}

// surfaceAtomFromAST converts a parsed atom to surface form, classifying
// each argument as variable or constant by its spelling.
func surfaceAtomFromAST(a *parse.Atom) SurfaceAtom {
	args := make([]SurfaceTerm, len(a.Args))
	for i, t := range a.Args {
		args[i] = SurfaceTerm{Name: t.Name, Variable: t.IsVariable()}
	}
	return SurfaceAtom{Predicate: a.Predicate, Args: args}
}

// Internal form: predicates and constants are symbols, variables are slot
// indices into the enclosing rule's variable table. This keeps engine
// state identifier-only, with O(1) equality via key().

type term struct {
	variable bool
	sym      symbol // constant symbol; valid if !variable
	slot     int    // variable slot within the enclosing rule; valid if variable
}

type atom struct {
	predicate symbol
	args      []term
}

// rule is an interned generative rule. varNames maps variable slots back
// to their source names, for rendering only; the slots themselves are
// freshly rebound on every application attempt.
type rule struct {
	premises   []*atom
	conclusion *atom
	varNames   []string
}

func (r *rule) numVars() int {
	return len(r.varNames)
}

func (a *atom) ground() bool {
	for _, arg := range a.args {
		if arg.variable {
			return false
		}
	}
	return true
}

// key returns a canonical map key for a ground atom. Only ground atoms are
// ever indexed, so a variable argument here is an engine bug.
func (a *atom) key() string {
	buf := bytes.NewBufferString(strconv.Itoa(int(a.predicate)))
	buf.WriteByte('(')
	for i, arg := range a.args {
		if arg.variable {
			panic("key() called on a non-ground atom")
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(arg.sym)))
	}
	buf.WriteByte(')')
	return buf.String()
}

// varScope assigns variable slots while interning one statement: the same
// name is the same slot within a statement, and nothing beyond it.
type varScope struct {
	slots map[string]int
	names []string
}

func newVarScope() *varScope {
	return &varScope{
		slots: make(map[string]int),
	}
}

func (vs *varScope) slot(name string) int {
	if s, ok := vs.slots[name]; ok {
		return s
	}
	s := len(vs.names)
	vs.names = append(vs.names, name)
	vs.slots[name] = s
	return s
}

func (in *interner) internAtom(sa SurfaceAtom, vs *varScope) *atom {
	args := make([]term, len(sa.Args))
	for i, t := range sa.Args {
		if t.Variable {
			args[i] = term{variable: true, slot: vs.slot(t.Name)}
		} else {
			args[i] = term{sym: in.intern(t.Name)}
		}
	}
	return &atom{predicate: in.intern(sa.Predicate), args: args}
}

// surfaceAtom maps an internal atom back through the interner. varNames
// supplies names for variable slots; pass nil for ground atoms.
func (in *interner) surfaceAtom(a *atom, varNames []string) (SurfaceAtom, error) {
	predicate, err := in.resolve(a.predicate)
	if err != nil {
		return SurfaceAtom{}, err
	}
	var args []SurfaceTerm
	for _, arg := range a.args {
		if arg.variable {
			args = append(args, SurfaceTerm{Name: varNames[arg.slot], Variable: true})
			continue
		}
		name, err := in.resolve(arg.sym)
		if err != nil {
			return SurfaceAtom{}, err
		}
		args = append(args, SurfaceTerm{Name: name})
	}
	return SurfaceAtom{Predicate: predicate, Args: args}, nil
}

func (in *interner) surfaceRule(r *rule) (SurfaceRule, error) {
	var premises []SurfaceAtom
	for _, p := range r.premises {
		sp, err := in.surfaceAtom(p, r.varNames)
		if err != nil {
			return SurfaceRule{}, err
		}
		premises = append(premises, sp)
	}
	conclusion, err := in.surfaceAtom(r.conclusion, r.varNames)
	if err != nil {
		return SurfaceRule{}, err
	}
	return SurfaceRule{Premises: premises, Conclusion: conclusion}, nil
}
