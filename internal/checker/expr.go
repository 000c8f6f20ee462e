package checker

import (
	"errors"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/symbols"
	"github.com/clarity-lang/clarity/internal/types"
)

// exprType infers the type of an expression, reporting problems as it
// goes.
func (fc *funcChecker) exprType(e core.Expr) types.Type {
	switch ee := e.(type) {
	case *core.Lit:
		return litType(ee)
	case *core.Name:
		return fc.nameType(ee)
	case *core.Call:
		return fc.callType(ee)
	case *core.Construct:
		return fc.constructType(ee)
	case *core.Ctor:
		inner := fc.exprType(ee.Value)
		switch ee.Kind {
		case core.CtorOk:
			return &types.Result{OK: inner, Err: &types.Unknown{}}
		case core.CtorErr:
			return &types.Result{OK: &types.Unknown{}, Err: inner}
		default:
			return &types.Option{Elem: inner}
		}
	case *core.Lambda:
		return fc.lambdaType(ee)
	case *core.Await:
		return fc.exprType(ee.Value)
	}
	return &types.Unknown{}
}

// exprTypeQuiet types an already-checked expression without repeating
// its diagnostics.
func (fc *funcChecker) exprTypeQuiet(e core.Expr) types.Type {
	saved := fc.diags
	t := fc.exprType(e)
	fc.diags = saved
	return t
}

func litType(lit *core.Lit) types.Type {
	switch lit.Kind {
	case core.LitInt:
		return types.IntType
	case core.LitLong:
		return types.LongType
	case core.LitDouble:
		return types.DoubleType
	case core.LitBool:
		return types.BoolType
	case core.LitString:
		return types.StringType
	case core.LitNull:
		return types.NullType
	case core.LitNone:
		return &types.Option{Elem: &types.Unknown{}}
	}
	return &types.Unknown{}
}

func (fc *funcChecker) nameType(name *core.Name) types.Type {
	base := name.Ident()

	sym, found := fc.table.Lookup(base)
	if found && fc.closureDepth > 0 {
		fc.table.MarkCaptured(base)
	}

	if len(name.Parts) == 1 {
		if found {
			return sym.Type
		}
		if enum, isVariant := fc.env.variants[base]; isVariant {
			return &types.Named{Name: enum}
		}
		fc.undefinedName(base, name.Span)
		return &types.Unknown{}
	}

	// Dotted access: walk fields when the base is a known record;
	// an unresolved base is a namespace call target, not an error.
	if !found {
		return &types.Unknown{}
	}

	current := sym.Type
	for _, field := range name.Parts[1:] {
		current = fc.fieldType(current, field)
	}
	return current
}

func (fc *funcChecker) fieldType(t types.Type, field string) types.Type {
	named, ok := t.(*types.Named)
	if !ok {
		return &types.Unknown{}
	}
	data, ok := fc.env.data[named.Name]
	if !ok {
		return &types.Unknown{}
	}
	for _, f := range data.Fields {
		if f.Name == field {
			return f.Type
		}
	}
	return &types.Unknown{}
}

func (fc *funcChecker) callType(call *core.Call) types.Type {
	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = fc.exprType(a)
	}

	if fc.cfg.EnforcePii {
		fc.checkPiiFlow(call, argTypes)
	}

	if len(call.Target.Parts) != 1 {
		return &types.Unknown{}
	}

	fn, ok := fc.env.funcs[call.Target.Ident()]
	if !ok {
		// The target may be a lambda-typed local.
		if sym, found := fc.table.Lookup(call.Target.Ident()); found {
			if ft, isFunc := sym.Type.(*types.Func); isFunc {
				return ft.Ret
			}
			return &types.Unknown{}
		}
		return &types.Unknown{}
	}

	bindings := make(map[string]types.Type)
	for i, p := range fn.Params {
		if i >= len(argTypes) {
			break
		}
		var conflict *types.ConflictError
		if err := types.Unify(p.Type, argTypes[i], bindings); errors.As(err, &conflict) {
			fc.errorf(diagnostic.CodeTypeParamConflict, call.Span,
				"call to %s binds parameter %s to both %s and %s",
				fn.Name, conflict.Param, conflict.Previous, conflict.Current)
		}
	}

	return types.Substitute(fn.Ret, bindings)
}

// checkPiiFlow rejects sensitive Pii arguments flowing into io calls.
func (fc *funcChecker) checkPiiFlow(call *core.Call, argTypes []types.Type) {
	_, effect := fc.effCfg.CapabilityOf(call.Target.Dotted())
	if effect != "io" {
		return
	}

	for i, t := range argTypes {
		pii, ok := t.(*types.Pii)
		if !ok || pii.Sensitivity == types.SensitivityL1 {
			continue
		}
		fc.errorf(diagnostic.CodePiiFlow, call.Args[i].Origin(),
			"argument %d of %s carries %s data and may not cross an io boundary",
			i+1, call.Target.Dotted(), pii.Sensitivity)
	}
}

func (fc *funcChecker) constructType(c *core.Construct) types.Type {
	data, known := fc.env.data[c.TypeName]

	for _, f := range c.Fields {
		fc.exprType(f.Value)
		if !known {
			continue
		}
		if !dataHasField(data, f.Name) {
			d := diagnostic.Errorf(diagnostic.CodeUndefinedName, c.Span,
				"%s has no field %q", c.TypeName, f.Name)
			d.Suggestions = diagnostic.Suggest(f.Name, fieldNames(data))
			fc.diags = append(fc.diags, d)
		}
	}

	if !known {
		return &types.Unknown{}
	}
	return &types.Named{Name: c.TypeName}
}

func dataHasField(data *core.Data, name string) bool {
	for _, f := range data.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func fieldNames(data *core.Data) []string {
	out := make([]string, len(data.Fields))
	for i, f := range data.Fields {
		out[i] = f.Name
	}
	return out
}

func (fc *funcChecker) lambdaType(l *core.Lambda) types.Type {
	fc.table.EnterScope(symbols.ScopeClosure)
	fc.closureDepth++

	params := make([]types.Type, len(l.Params))
	for i, p := range l.Params {
		params[i] = p.Type
		fc.table.Define(p.Name, p.Type, symbols.KindParam)
	}

	bodyType := fc.exprType(l.Body)

	fc.closureDepth--
	fc.table.ExitScope()

	ret := l.Ret
	if ret == nil || types.IsUnknown(ret) {
		ret = bodyType
	}
	return &types.Func{Params: params, Ret: ret}
}
