package hornlog

import (
	pp "github.com/vilterp/hornlog/pkg/prettyprint"
)

// Surface-form rendering, used by the shell and by error messages. The
// renderer only ever sees surface forms; internal symbols never escape.

func (t SurfaceTerm) Format() pp.Doc {
	return pp.Text(t.Name)
}

func (a SurfaceAtom) Format() pp.Doc {
	if len(a.Args) == 0 {
		return pp.Text(a.Predicate)
	}
	var args []pp.Doc
	for _, arg := range a.Args {
		args = append(args, arg.Format())
	}
	return pp.Seq([]pp.Doc{
		pp.Text(a.Predicate),
		pp.Text("("),
		pp.Join(args, pp.CommaSpace),
		pp.Text(")"),
	})
}

func (a SurfaceAtom) String() string {
	return a.Format().String()
}

func (r SurfaceRule) Format() pp.Doc {
	if len(r.Premises) == 0 {
		return pp.Seq([]pp.Doc{r.Conclusion.Format(), pp.Text(".")})
	}
	var premises []pp.Doc
	for _, p := range r.Premises {
		premises = append(premises, p.Format())
	}
	return pp.Seq([]pp.Doc{
		pp.Join(premises, pp.CommaSpace),
		pp.Text(" => "),
		r.Conclusion.Format(),
		pp.Text("."),
	})
}

func (r SurfaceRule) String() string {
	return r.Format().String()
}

// Format renders the proof with each fact's justifying premises indented
// beneath it; leaves are seed axioms.
func (t *DerivationTree) Format() pp.Doc {
	if len(t.Children) == 0 {
		return t.Atom.Format()
	}
	var children []pp.Doc
	for _, child := range t.Children {
		children = append(children, child.Format())
	}
	return pp.Seq([]pp.Doc{
		t.Atom.Format(),
		pp.Newline,
		pp.Nest(2, pp.Lines(children)),
	})
}

func (t *DerivationTree) String() string {
	return t.Format().String()
}

// FormatState renders the rule and fact listing, for the shell's \d.
func FormatState(rules []SurfaceRule, facts []SurfaceAtom) pp.Doc {
	docs := []pp.Doc{pp.Text("Rules:")}
	for _, r := range rules {
		docs = append(docs, pp.Seq([]pp.Doc{pp.Text("  "), r.Format()}))
	}
	docs = append(docs, pp.Text("Facts:"))
	for _, f := range facts {
		docs = append(docs, pp.Seq([]pp.Doc{pp.Text("  "), f.Format()}))
	}
	return pp.Lines(docs)
}
