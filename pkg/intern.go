package hornlog

// symbol is a compact, cheaply comparable handle for an interned name.
type symbol int

// interner owns the bidirectional name <-> symbol table for one engine
// instance. The same name always yields the same symbol within an instance;
// symbols are never portable across instances, and names are never removed.
// Variables are not interned: they are slot indices scoped to a single rule.
type interner struct {
	names []string
	syms  map[string]symbol
}

func newInterner() *interner {
	return &interner{
		syms: make(map[string]symbol),
	}
}

// intern returns the symbol for name, assigning one on first sight.
func (in *interner) intern(name string) symbol {
	if sym, ok := in.syms[name]; ok {
		return sym
	}
	sym := symbol(len(in.names))
	in.names = append(in.names, name)
	in.syms[name] = sym
	return sym
}

// resolve maps a symbol back to its name. A symbol that did not originate
// from this interner is a contract violation.
func (in *interner) resolve(sym symbol) (string, error) {
	if sym < 0 || int(sym) >= len(in.names) {
		return "", &unknownSymbolError{sym: sym}
	}
	return in.names[sym], nil
}
