package checker

import (
	"errors"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/position"
	"github.com/clarity-lang/clarity/internal/symbols"
	"github.com/clarity-lang/clarity/internal/types"
)

// funcChecker type-checks one function body.
type funcChecker struct {
	fn     *core.Func
	env    *moduleEnv
	cfg    *Config
	effCfg *effects.Config

	table *symbols.Table
	diags []diagnostic.Diagnostic

	// closureDepth > 0 while inside a lambda body; name references then
	// mark their symbols captured.
	closureDepth int
}

func newFuncChecker(fn *core.Func, env *moduleEnv, cfg *Config, effCfg *effects.Config) *funcChecker {
	return &funcChecker{fn: fn, env: env, cfg: cfg, effCfg: effCfg, table: symbols.NewTable()}
}

func (fc *funcChecker) check() []diagnostic.Diagnostic {
	fc.table.EnterScope(symbols.ScopeFunction)

	for _, p := range fc.fn.Params {
		if _, err := fc.table.Define(p.Name, p.Type, symbols.KindParam); err != nil {
			var dup *symbols.DuplicateSymbolError
			if errors.As(err, &dup) {
				fc.errorf(diagnostic.CodeDuplicateSymbol, p.Span,
					"parameter %q is declared twice", p.Name)
			}
		}
	}

	fc.checkBlock(fc.fn.Body)
	return fc.diags
}

func (fc *funcChecker) checkBlock(stmts []core.Stmt) {
	for _, s := range stmts {
		fc.checkStmt(s)
	}
}

func (fc *funcChecker) checkStmt(s core.Stmt) {
	switch ss := s.(type) {
	case *core.Let:
		fc.checkLet(ss)
	case *core.Set:
		fc.checkSet(ss)
	case *core.Return:
		fc.checkReturn(ss)
	case *core.If:
		fc.checkIf(ss)
	case *core.Match:
		fc.checkMatch(ss)
	case *core.Scope:
		fc.table.EnterScope(symbols.ScopeBlock)
		fc.checkBlock(ss.Statements)
		fc.table.ExitScope()
	case *core.Start:
		t := fc.exprType(ss.Value)
		// Duplicate starts are the async checker's concern; redefining
		// the handle here would double-report them.
		if _, exists := fc.table.LookupInCurrentScope(ss.Name); !exists {
			fc.table.Define(ss.Name, t, symbols.KindVar)
		}
	case *core.Wait:
		// Pairing is validated by the async checker.
	case *core.Workflow:
		fc.table.EnterScope(symbols.ScopeBlock)
		fc.checkBlock(ss.Steps)
		fc.table.ExitScope()
	}
}

func (fc *funcChecker) checkLet(let *core.Let) {
	valueType := fc.exprType(let.Value)

	declared := let.Type
	if declared == nil || types.IsUnknown(declared) {
		declared = valueType
	}

	if _, err := fc.table.Define(let.Name, declared, symbols.KindVar); err != nil {
		var dup *symbols.DuplicateSymbolError
		if errors.As(err, &dup) {
			fc.errorf(diagnostic.CodeDuplicateSymbol, let.Span,
				"%q is already defined in this scope", let.Name)
		}
	}
}

func (fc *funcChecker) checkSet(set *core.Set) {
	valueType := fc.exprType(set.Value)

	sym, ok := fc.table.Lookup(set.Name)
	if !ok {
		fc.undefinedName(set.Name, set.Span)
		return
	}

	if types.IsUnknown(sym.Type) {
		sym.Type = valueType
	}
}

func (fc *funcChecker) checkReturn(ret *core.Return) {
	var actual types.Type = types.UnitType
	if ret.Value != nil {
		actual = fc.exprType(ret.Value)
	}

	if fc.fn.RetTypeInferred && types.IsUnknown(fc.fn.Ret) {
		return
	}

	if len(fc.fn.TypeParams) > 0 {
		bindings := make(map[string]types.Type)
		var conflict *types.ConflictError
		if err := types.Unify(fc.fn.Ret, actual, bindings); errors.As(err, &conflict) {
			fc.errorf(diagnostic.CodeTypeParamConflict, ret.Span,
				"%s returns %s where parameter %s was already %s",
				fc.fn.Name, conflict.Current, conflict.Param, conflict.Previous)
		}
		return
	}

	if _, agree := types.Merge(fc.fn.Ret, actual); !agree {
		fc.errorf(diagnostic.CodeReturnTypeMismatch, ret.Span,
			"%s declares return type %s but returns %s", fc.fn.Name, fc.fn.Ret, actual)
	}
}

func (fc *funcChecker) checkIf(stmt *core.If) {
	fc.exprType(stmt.Cond)

	fc.table.EnterScope(symbols.ScopeBlock)
	fc.checkBlock(stmt.ThenBlock)
	fc.table.ExitScope()

	if stmt.ElseBlock == nil {
		return
	}

	fc.table.EnterScope(symbols.ScopeBlock)
	fc.checkBlock(stmt.ElseBlock)
	fc.table.ExitScope()

	thenType := fc.blockType(stmt.ThenBlock)
	elseType := fc.blockType(stmt.ElseBlock)
	if _, agree := types.Merge(thenType, elseType); !agree {
		fc.errorf(diagnostic.CodeIfBranchMismatch, stmt.Span,
			"if branches disagree: %s versus %s", thenType, elseType)
	}
}

// blockType is the merged type of a block's return statements, Unknown
// when the block never returns a value.
func (fc *funcChecker) blockType(stmts []core.Stmt) types.Type {
	var merged types.Type = &types.Unknown{}
	agree := true

	var walk func([]core.Stmt)
	walk = func(stmts []core.Stmt) {
		for _, s := range stmts {
			switch ss := s.(type) {
			case *core.Return:
				if !agree || ss.Value == nil {
					continue
				}
				t := fc.exprTypeQuiet(ss.Value)
				if m, ok := types.Merge(merged, t); ok {
					merged = m
				} else {
					agree = false
				}
			case *core.If:
				walk(ss.ThenBlock)
				walk(ss.ElseBlock)
			case *core.Match:
				for _, c := range ss.Cases {
					walk(c.Block)
				}
			case *core.Scope:
				walk(ss.Statements)
			case *core.Workflow:
				walk(ss.Steps)
			}
		}
	}
	walk(stmts)

	if !agree {
		return &types.Unknown{}
	}
	return merged
}

func (fc *funcChecker) errorf(code string, span position.Span, format string, args ...any) {
	fc.diags = append(fc.diags, diagnostic.Errorf(code,
		position.FirstReal(span, fc.fn.NameOrigin), format, args...))
}

func (fc *funcChecker) warnf(code string, span position.Span, format string, args ...any) {
	fc.diags = append(fc.diags, diagnostic.Warnf(code,
		position.FirstReal(span, fc.fn.NameOrigin), format, args...))
}

func (fc *funcChecker) undefinedName(name string, span position.Span) {
	d := diagnostic.Errorf(diagnostic.CodeUndefinedName,
		position.FirstReal(span, fc.fn.NameOrigin), "undefined name %q", name)
	d.Suggestions = diagnostic.Suggest(name, fc.visibleNames())
	fc.diags = append(fc.diags, d)
}

// visibleNames collects candidate spellings for did-you-mean hints.
func (fc *funcChecker) visibleNames() []string {
	var out []string
	for _, p := range fc.fn.Params {
		out = append(out, p.Name)
	}
	for name := range fc.env.funcs {
		out = append(out, name)
	}
	for name := range fc.env.variants {
		out = append(out, name)
	}
	return out
}
