// Package types defines the Clarity type grammar and the structural
// operations the checker needs: equality, normalization helpers, generics
// unification, and match-exhaustiveness bookkeeping.
//
// The grammar is a closed union: every Type is one of the concrete structs
// below, and checker code switches over them exhaustively. Adding a new
// type form means visiting every switch, which is intentional.
package types

import (
	"fmt"
	"strings"
)

// Type is the closed interface over all Clarity types.
type Type interface {
	isType()
	String() string
}

// Named is a concrete named type: a built-in (Int, String, ...), a Data or
// Enum name, or an unresolved alias name.
type Named struct {
	Name string
}

// Var is a type variable introduced by a function's type-parameter list.
type Var struct {
	Name string
}

// EffectVar is an effect variable introduced by a function's
// effect-parameter list. It lives in the type grammar so effect-polymorphic
// signatures can be written down and unified.
type EffectVar struct {
	Name string
}

// App is a generic type application: Base<Args...> for user-declared
// generic Data types.
type App struct {
	Base string
	Args []Type
}

// Maybe is the nullable type: Maybe<Elem> holds Elem or null.
type Maybe struct {
	Elem Type
}

// Option holds Some(Elem) or None.
type Option struct {
	Elem Type
}

// Result holds Ok(OK) or Err(ERR).
type Result struct {
	OK  Type
	Err Type
}

// List is a homogeneous sequence.
type List struct {
	Elem Type
}

// Map is a key/value dictionary.
type Map struct {
	Key Type
	Val Type
}

// Func is a function type.
type Func struct {
	Params []Type
	Ret    Type
}

// Sensitivity is the PII sensitivity level attached to a Pii type.
type Sensitivity string

const (
	SensitivityL1 Sensitivity = "L1"
	SensitivityL2 Sensitivity = "L2"
	SensitivityL3 Sensitivity = "L3"
)

// Pii wraps a base type with a sensitivity level and a category tag
// (for example "email" or "ssn"). Sensitivity and category are part of
// the type: two Pii types are equal only when both match exactly.
type Pii struct {
	Base        Type
	Sensitivity Sensitivity
	Category    string
}

// Unknown is the type of expressions the checker could not resolve. It
// defers to any other type in branch-agreement checks and unifies with
// everything, so one resolution failure does not cascade.
type Unknown struct{}

func (*Named) isType()     {}
func (*Var) isType()       {}
func (*EffectVar) isType() {}
func (*App) isType()       {}
func (*Maybe) isType()     {}
func (*Option) isType()    {}
func (*Result) isType()    {}
func (*List) isType()      {}
func (*Map) isType()       {}
func (*Func) isType()      {}
func (*Pii) isType()       {}
func (*Unknown) isType()   {}

func (t *Named) String() string     { return t.Name }
func (t *Var) String() string       { return t.Name }
func (t *EffectVar) String() string { return "effect " + t.Name }

func (t *App) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Base, strings.Join(args, ", "))
}

func (t *Maybe) String() string  { return fmt.Sprintf("Maybe<%s>", t.Elem) }
func (t *Option) String() string { return fmt.Sprintf("Option<%s>", t.Elem) }
func (t *Result) String() string { return fmt.Sprintf("Result<%s, %s>", t.OK, t.Err) }
func (t *List) String() string   { return fmt.Sprintf("List<%s>", t.Elem) }
func (t *Map) String() string    { return fmt.Sprintf("Map<%s, %s>", t.Key, t.Val) }

func (t *Func) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Ret)
}

func (t *Pii) String() string {
	return fmt.Sprintf("Pii<%s, %s, %s>", t.Base, t.Sensitivity, t.Category)
}

func (t *Unknown) String() string { return "Unknown" }

// Built-in scalar types.
var (
	IntType    = &Named{Name: "Int"}
	LongType   = &Named{Name: "Long"}
	DoubleType = &Named{Name: "Double"}
	BoolType   = &Named{Name: "Bool"}
	StringType = &Named{Name: "String"}
	NullType   = &Named{Name: "Null"}
	UnitType   = &Named{Name: "Unit"}
)

// builtinNames lists type names the parser must not mistake for implicit
// type parameters.
var builtinNames = map[string]bool{
	"Int": true, "Long": true, "Double": true, "Bool": true,
	"String": true, "Null": true, "Unit": true,
	"Maybe": true, "Option": true, "Result": true,
	"List": true, "Map": true, "Pii": true, "Unknown": true,
}

// IsBuiltinName reports whether name denotes a built-in type.
func IsBuiltinName(name string) bool {
	return builtinNames[name]
}

// IsUnknown reports whether t is the Unknown type.
func IsUnknown(t Type) bool {
	_, ok := t.(*Unknown)
	return ok || t == nil
}

// Equal reports structural equality over the full type grammar.
// Pii sensitivity and category must match exactly.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	switch at := a.(type) {
	case *Named:
		bt, ok := b.(*Named)
		return ok && at.Name == bt.Name
	case *Var:
		bt, ok := b.(*Var)
		return ok && at.Name == bt.Name
	case *EffectVar:
		bt, ok := b.(*EffectVar)
		return ok && at.Name == bt.Name
	case *App:
		bt, ok := b.(*App)
		if !ok || at.Base != bt.Base || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		return true
	case *Maybe:
		bt, ok := b.(*Maybe)
		return ok && Equal(at.Elem, bt.Elem)
	case *Option:
		bt, ok := b.(*Option)
		return ok && Equal(at.Elem, bt.Elem)
	case *Result:
		bt, ok := b.(*Result)
		return ok && Equal(at.OK, bt.OK) && Equal(at.Err, bt.Err)
	case *List:
		bt, ok := b.(*List)
		return ok && Equal(at.Elem, bt.Elem)
	case *Map:
		bt, ok := b.(*Map)
		return ok && Equal(at.Key, bt.Key) && Equal(at.Val, bt.Val)
	case *Func:
		bt, ok := b.(*Func)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Ret, bt.Ret)
	case *Pii:
		bt, ok := b.(*Pii)
		return ok && at.Sensitivity == bt.Sensitivity &&
			at.Category == bt.Category && Equal(at.Base, bt.Base)
	case *Unknown:
		_, ok := b.(*Unknown)
		return ok
	default:
		return false
	}
}

// Merge resolves branch agreement: an Unknown side defers to the other.
// Returns the agreed type and whether the branches agree.
func Merge(a, b Type) (Type, bool) {
	if IsUnknown(a) {
		return b, true
	}
	if IsUnknown(b) {
		return a, true
	}
	if Equal(a, b) {
		return a, true
	}
	return a, false
}
