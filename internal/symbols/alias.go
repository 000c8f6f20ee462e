package symbols

import "github.com/clarity-lang/clarity/internal/types"

// DefineTypeAlias records a module-scoped alias. Redefinition replaces
// the previous target and drops any memoized resolution.
func (t *Table) DefineTypeAlias(name string, typ types.Type) {
	t.aliases[name] = typ
	delete(t.resolved, name)
}

// ResolveTypeAlias resolves an alias to its final type, following alias
// chains. Results are memoized. A cyclic alias resolves to its own name
// as a Named type instead of recursing forever; that keeps the resolver
// total on a cold path where failing the whole checker would be
// disproportionate.
func (t *Table) ResolveTypeAlias(name string) (types.Type, bool) {
	if cached, ok := t.resolved[name]; ok {
		return cached, true
	}

	target, ok := t.aliases[name]
	if !ok {
		return nil, false
	}

	if t.resolving[name] {
		return &types.Named{Name: name}, true
	}
	t.resolving[name] = true
	defer delete(t.resolving, name)

	result := t.ExpandAliasType(target)
	t.resolved[name] = result
	return result, true
}

// ExpandAliasType substitutes aliases inside compound types bottom-up.
// Non-alias leaves pass through untouched.
func (t *Table) ExpandAliasType(typ types.Type) types.Type {
	switch tt := typ.(type) {
	case *types.Named:
		if expanded, ok := t.ResolveTypeAlias(tt.Name); ok {
			return expanded
		}
		return tt
	case *types.App:
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = t.ExpandAliasType(a)
		}
		return &types.App{Base: tt.Base, Args: args}
	case *types.Maybe:
		return &types.Maybe{Elem: t.ExpandAliasType(tt.Elem)}
	case *types.Option:
		return &types.Option{Elem: t.ExpandAliasType(tt.Elem)}
	case *types.Result:
		return &types.Result{OK: t.ExpandAliasType(tt.OK), Err: t.ExpandAliasType(tt.Err)}
	case *types.List:
		return &types.List{Elem: t.ExpandAliasType(tt.Elem)}
	case *types.Map:
		return &types.Map{Key: t.ExpandAliasType(tt.Key), Val: t.ExpandAliasType(tt.Val)}
	case *types.Func:
		params := make([]types.Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = t.ExpandAliasType(p)
		}
		return &types.Func{Params: params, Ret: t.ExpandAliasType(tt.Ret)}
	case *types.Pii:
		return &types.Pii{
			Base:        t.ExpandAliasType(tt.Base),
			Sensitivity: tt.Sensitivity,
			Category:    tt.Category,
		}
	default:
		return typ
	}
}
