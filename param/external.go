package param

import (
	"reflect"

	"github.com/relloyd/pywr-go/modelerr"
	"github.com/relloyd/pywr-go/scenario"
	"github.com/relloyd/pywr-go/state"
	"github.com/relloyd/pywr-go/timestep"
)

// External implements the scripted-parameter embedding surface from
// spec.md §6: a host binding wraps a foreign object into a Parameter by
// holding a handle and invoking a named method during Compute. No foreign
// memory is retained across Compute calls — Handle is read, the method is
// invoked, and the result (or error) is returned immediately.
//
// Go has no embedded scripting host of its own, so Handle stands in for
// "the foreign object": it may be a value from a scripting runtime bound
// via cgo, a gRPC/plugin client, or simply another Go value whose method
// set is not known until runtime. The method is located and invoked via
// reflection, which is the idiomatic Go equivalent of "invoke a named
// method on an opaque handle" absent a concrete embedded interpreter.
//
// Method must have one of these signatures:
//
//	func() float64
//	func() (float64, error)
type External struct {
	meta   Meta
	Handle any
	Method string
}

// NewExternal returns an External parameter named name that will invoke
// methodName on handle during Compute.
func NewExternal(name string, handle any, methodName string) *External {
	return &External{meta: Meta{Name: name}, Handle: handle, Method: methodName}
}

func (e *External) Meta() Meta { return e.meta }

func (e *External) Compute(timestep.Timestep, scenario.Index, state.NetworkState, *state.ParameterState) (float64, error) {
	v := reflect.ValueOf(e.Handle)
	m := v.MethodByName(e.Method)
	if !m.IsValid() {
		return 0, modelerr.Wrap(modelerr.KindExternalParameterError,
			"handle has no method "+e.Method, nil)
	}

	results := m.Call(nil)
	switch len(results) {
	case 1:
		f, ok := results[0].Interface().(float64)
		if !ok {
			return 0, modelerr.Wrap(modelerr.KindExternalParameterError,
				e.Method+" did not return a float64", nil)
		}
		return f, nil
	case 2:
		f, ok := results[0].Interface().(float64)
		if !ok {
			return 0, modelerr.Wrap(modelerr.KindExternalParameterError,
				e.Method+" did not return a float64", nil)
		}
		if errVal := results[1].Interface(); errVal != nil {
			err, ok := errVal.(error)
			if !ok {
				return 0, modelerr.Wrap(modelerr.KindExternalParameterError,
					e.Method+" second return value is not an error", nil)
			}
			return 0, modelerr.Wrap(modelerr.KindExternalParameterError, err.Error(), err)
		}
		return f, nil
	default:
		return 0, modelerr.Wrap(modelerr.KindExternalParameterError,
			e.Method+" must return (float64) or (float64, error)", nil)
	}
}
