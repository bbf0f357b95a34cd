// Package modelerr provides the structured error taxonomy shared across the
// network, parameter, recorder, solver and model packages.
package modelerr

import "fmt"

// Kind identifies the category of a model error. Callers should switch on
// Kind (or use errors.Is against the sentinel values below) rather than
// string-matching Error().
type Kind string

const (
	KindNodeIndexNotFound        Kind = "NodeIndexNotFound"
	KindNodeNameAlreadyExists    Kind = "NodeNameAlreadyExists"
	KindParameterIndexNotFound   Kind = "ParameterIndexNotFound"
	KindParameterNameExists      Kind = "ParameterNameAlreadyExists"
	KindParameterForwardRef      Kind = "ParameterForwardReference"
	KindRecorderIndexNotFound    Kind = "RecorderIndexNotFound"
	KindRecorderNameExists       Kind = "RecorderNameAlreadyExists"
	KindInvalidNodeConnection    Kind = "InvalidNodeConnection"
	KindInvalidConnectionForRole Kind = "InvalidConnectionForRole"
	KindStorageConstraintsUndef  Kind = "StorageConstraintsUndefined"
	KindFlowConstraintsUndef     Kind = "FlowConstraintsUndefined"
	KindScenarioStateNotFound    Kind = "ScenarioStateNotFound"
	KindSolverSetupFailed        Kind = "SolverSetupFailed"
	KindSolverInfeasible         Kind = "SolverInfeasible"
	KindSolverUnbounded          Kind = "SolverUnbounded"
	KindSolverNumeric            Kind = "SolverNumeric"
	KindExternalParameterError   Kind = "ExternalParameterError"
	KindAssertionFailed          Kind = "AssertionFailed"
)

// Error is the concrete error type returned by every fallible operation in
// this module. Name and Index are populated when meaningful for the Kind;
// zero values (empty string / -1) mean "not applicable".
type Error struct {
	Kind  Kind
	Name  string
	Index int
	// Detail carries kind-specific free text (e.g. an external parameter's
	// underlying failure message, or an assertion mismatch description).
	Detail string
	// Err wraps an underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Name != "" && e.Index >= 0:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %q (index %d): %s", e.Kind, e.Name, e.Index, e.Detail)
		}
		return fmt.Sprintf("%s: %q (index %d)", e.Kind, e.Name, e.Index)
	case e.Name != "":
		if e.Detail != "" {
			return fmt.Sprintf("%s: %q: %s", e.Kind, e.Name, e.Detail)
		}
		return fmt.Sprintf("%s: %q", e.Kind, e.Name)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying cause, enabling errors.Is/errors.As to reach
// through to a wrapped solver or storage error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Kind, so that
// errors.Is(err, modelerr.New(modelerr.KindNodeIndexNotFound)) works without
// requiring Name/Index to match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Name != "" && t.Name != e.Name {
		return false
	}
	return true
}

// New constructs a bare *Error of the given kind with no name/index.
func New(kind Kind) *Error {
	return &Error{Kind: kind, Index: -1}
}

// NewNamed constructs a *Error carrying the offending name and index, the
// shape every construction-time error in spec.md §6 requires
// (NodeNameAlreadyExists(name, idx), ParameterNameAlreadyExists(name, idx), …).
func NewNamed(kind Kind, name string, index int) *Error {
	return &Error{Kind: kind, Name: name, Index: index}
}

// Wrap constructs a *Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Index: -1, Detail: detail, Err: err}
}
