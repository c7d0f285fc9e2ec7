package hornlog

import (
	"errors"
	"fmt"
)

var errNotAnAtom = errors.New("expected a single atom")

type parseError struct {
	error error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.error.Error())
}

type validationError struct {
	error error
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.error.Error())
}

// unknownSymbolError means a symbol did not originate from this engine's
// interner. That's a contract violation at the boundary, not something to
// recover from.
type unknownSymbolError struct {
	sym symbol
}

func (e *unknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol: %d", int(e.sym))
}

// The next three are local to one rule-application attempt inside a
// saturation round. They never escape the round: the candidate combination
// is discarded and the sweep continues.

type predicateMismatchError struct{}

func (e *predicateMismatchError) Error() string {
	return "predicate mismatch"
}

type argumentMismatchError struct{}

func (e *argumentMismatchError) Error() string {
	return "argument mismatch"
}

type premiseMismatchError struct {
	premise int
}

func (e *premiseMismatchError) Error() string {
	return fmt.Sprintf("premise %d does not match", e.premise)
}

type unboundConclusionError struct {
	varName string
}

func (e *unboundConclusionError) Error() string {
	return fmt.Sprintf("conclusion variable %s is unbound", e.varName)
}

// saturatedError is the expected terminal outcome of a query whose target
// is not entailed: the rule set reached a fixpoint without deriving it.
type saturatedError struct {
	target SurfaceAtom
}

func (e *saturatedError) Error() string {
	return fmt.Sprintf("not derivable: %s (rule set saturated)", e.target)
}

// bottomDerivedError means the contradiction predicate was derived: the
// axioms are inconsistent, so further derivation is meaningless. The
// engine instance stays poisoned; every later query reports it again.
type bottomDerivedError struct {
	witness SurfaceAtom
}

func (e *bottomDerivedError) Error() string {
	return fmt.Sprintf("contradiction derived: %s", e.witness)
}

// resourceExhaustedError means a round or fact ceiling was hit before
// reaching either a fixpoint or the target.
type resourceExhaustedError struct {
	rounds int
	facts  int
}

func (e *resourceExhaustedError) Error() string {
	return fmt.Sprintf("saturation limits exceeded after %d rounds (%d facts)", e.rounds, e.facts)
}

// derivationCycleError means the justification map has a cycle. Insertion
// order is supposed to rule that out, so this is an engine bug surfacing.
type derivationCycleError struct {
	atom SurfaceAtom
}

func (e *derivationCycleError) Error() string {
	return fmt.Sprintf("justification cycle at %s", e.atom)
}

type missingJustificationError struct {
	atom SurfaceAtom
}

func (e *missingJustificationError) Error() string {
	return fmt.Sprintf("fact %s has no justification entry", e.atom)
}

// IsSaturated reports whether err is the not-entailed query outcome.
func IsSaturated(err error) bool {
	_, ok := err.(*saturatedError)
	return ok
}

// IsBottomDerived reports whether err signals a derived contradiction.
func IsBottomDerived(err error) bool {
	_, ok := err.(*bottomDerivedError)
	return ok
}

// IsResourceExhausted reports whether err signals a saturation ceiling.
func IsResourceExhausted(err error) bool {
	_, ok := err.(*resourceExhaustedError)
	return ok
}

// errorKind names an error's taxonomy kind for the wire protocol.
func errorKind(err error) string {
	switch err.(type) {
	case *saturatedError:
		return "saturated"
	case *bottomDerivedError:
		return "bottom_derived"
	case *resourceExhaustedError:
		return "resource_exhausted"
	case *parseError:
		return "parse_error"
	case *validationError:
		return "validation_error"
	default:
		return "internal"
	}
}
