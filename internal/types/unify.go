package types

import "fmt"

// ConflictError reports that one type parameter was unified against two
// structurally different types.
type ConflictError struct {
	Param    string
	Previous Type
	Current  Type
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("type parameter %s bound to both %s and %s",
		e.Param, e.Previous, e.Current)
}

// Unify walks a declared type against an actual type, binding every type
// parameter it encounters to its concrete occurrence in bindings. The same
// parameter unified with two structurally different types is a conflict.
// Unknown on the actual side unifies with anything without binding.
func Unify(declared, actual Type, bindings map[string]Type) error {
	if declared == nil || actual == nil || IsUnknown(actual) {
		return nil
	}

	switch dt := declared.(type) {
	case *Var:
		return bind(dt.Name, actual, bindings)
	case *EffectVar:
		return bind(dt.Name, actual, bindings)
	case *Named:
		// Names that never got an explicit declaration still act as
		// parameters when a binding for them already exists.
		if prev, ok := bindings[dt.Name]; ok {
			if !Equal(prev, actual) {
				return &ConflictError{Param: dt.Name, Previous: prev, Current: actual}
			}
		}
		return nil
	case *App:
		at, ok := actual.(*App)
		if !ok || dt.Base != at.Base || len(dt.Args) != len(at.Args) {
			return nil
		}
		for i := range dt.Args {
			if err := Unify(dt.Args[i], at.Args[i], bindings); err != nil {
				return err
			}
		}
		return nil
	case *Maybe:
		if at, ok := actual.(*Maybe); ok {
			return Unify(dt.Elem, at.Elem, bindings)
		}
		return nil
	case *Option:
		if at, ok := actual.(*Option); ok {
			return Unify(dt.Elem, at.Elem, bindings)
		}
		return nil
	case *Result:
		if at, ok := actual.(*Result); ok {
			if err := Unify(dt.OK, at.OK, bindings); err != nil {
				return err
			}
			return Unify(dt.Err, at.Err, bindings)
		}
		return nil
	case *List:
		if at, ok := actual.(*List); ok {
			return Unify(dt.Elem, at.Elem, bindings)
		}
		return nil
	case *Map:
		if at, ok := actual.(*Map); ok {
			if err := Unify(dt.Key, at.Key, bindings); err != nil {
				return err
			}
			return Unify(dt.Val, at.Val, bindings)
		}
		return nil
	case *Func:
		at, ok := actual.(*Func)
		if !ok || len(dt.Params) != len(at.Params) {
			return nil
		}
		for i := range dt.Params {
			if err := Unify(dt.Params[i], at.Params[i], bindings); err != nil {
				return err
			}
		}
		return Unify(dt.Ret, at.Ret, bindings)
	case *Pii:
		if at, ok := actual.(*Pii); ok {
			return Unify(dt.Base, at.Base, bindings)
		}
		return nil
	default:
		return nil
	}
}

func bind(param string, actual Type, bindings map[string]Type) error {
	if prev, ok := bindings[param]; ok {
		if !Equal(prev, actual) {
			return &ConflictError{Param: param, Previous: prev, Current: actual}
		}
		return nil
	}
	bindings[param] = actual
	return nil
}

// Substitute replaces bound type parameters inside t, bottom-up. Unbound
// parameters are left in place.
func Substitute(t Type, bindings map[string]Type) Type {
	if t == nil || len(bindings) == 0 {
		return t
	}

	switch tt := t.(type) {
	case *Var:
		if b, ok := bindings[tt.Name]; ok {
			return b
		}
		return t
	case *EffectVar:
		if b, ok := bindings[tt.Name]; ok {
			return b
		}
		return t
	case *Named:
		if b, ok := bindings[tt.Name]; ok {
			return b
		}
		return t
	case *App:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = Substitute(a, bindings)
		}
		return &App{Base: tt.Base, Args: args}
	case *Maybe:
		return &Maybe{Elem: Substitute(tt.Elem, bindings)}
	case *Option:
		return &Option{Elem: Substitute(tt.Elem, bindings)}
	case *Result:
		return &Result{OK: Substitute(tt.OK, bindings), Err: Substitute(tt.Err, bindings)}
	case *List:
		return &List{Elem: Substitute(tt.Elem, bindings)}
	case *Map:
		return &Map{Key: Substitute(tt.Key, bindings), Val: Substitute(tt.Val, bindings)}
	case *Func:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = Substitute(p, bindings)
		}
		return &Func{Params: params, Ret: Substitute(tt.Ret, bindings)}
	case *Pii:
		return &Pii{Base: Substitute(tt.Base, bindings), Sensitivity: tt.Sensitivity, Category: tt.Category}
	default:
		return t
	}
}
