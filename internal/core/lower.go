package core

import (
	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/types"
)

// LowerModule converts an AST module into Core IR. Lowering is total:
// grammatical validity was enforced by the parser, so no user-facing
// errors arise here. It is structure preserving: declaration counts and
// kinds map one to one. Along the way it resolves implicit return types
// where a simple scan of the return statements succeeds, collapses
// trivially nested scopes, and stamps every node's span as its origin.
func LowerModule(m *ast.Module) *Module {
	out := &Module{
		Name:       m.Name,
		NameOrigin: m.NameSpan,
		Span:       m.SpanAll,
		Decls:      make([]Decl, len(m.Decls)),
	}
	for i, d := range m.Decls {
		out.Decls[i] = lowerDecl(d)
	}
	return out
}

func lowerDecl(d ast.Decl) Decl {
	switch dd := d.(type) {
	case *ast.Import:
		return &Import{
			Name:       dd.Name,
			AsName:     dd.AsName,
			Span:       dd.SpanAll,
			NameOrigin: dd.NameSpan,
		}
	case *ast.Data:
		fields := make([]Field, len(dd.Fields))
		for i, f := range dd.Fields {
			fields[i] = Field{
				Name:        f.Name,
				Type:        f.Type,
				Annotations: f.Annotations,
				Span:        f.SpanAll,
			}
		}
		return &Data{
			Name:       dd.Name,
			Fields:     fields,
			Span:       dd.SpanAll,
			NameOrigin: dd.NameSpan,
		}
	case *ast.Enum:
		return &Enum{
			Name:       dd.Name,
			Variants:   dd.Variants,
			Span:       dd.SpanAll,
			NameOrigin: dd.NameSpan,
		}
	case *ast.Func:
		return lowerFunc(dd)
	}
	panic("unreachable declaration kind")
}

func lowerFunc(fn *ast.Func) *Func {
	params := make([]Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = Param{Name: p.Name, Type: p.Type, Span: p.SpanAll}
	}

	out := &Func{
		Name:               fn.Name,
		TypeParams:         fn.TypeParams,
		EffectParams:       fn.EffectParams,
		Params:             params,
		Ret:                fn.Ret,
		RetTypeInferred:    fn.RetTypeInferred,
		Effects:            fn.Effects,
		EffectCaps:         fn.EffectCaps,
		EffectCapsExplicit: fn.EffectCapsExplicit,
		Body:               lowerBlock(fn.Body),
		Span:               fn.SpanAll,
		NameOrigin:         fn.NameSpan,
	}

	if out.RetTypeInferred {
		if inferred := inferReturnType(out.Body); !types.IsUnknown(inferred) {
			out.Ret = inferred
		}
	}

	return out
}

func lowerBlock(stmts []ast.Stmt) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = lowerStmt(s)
	}
	return out
}

func lowerStmt(s ast.Stmt) Stmt {
	switch ss := s.(type) {
	case *ast.Let:
		return &Let{Name: ss.Name, Type: ss.Type, Value: lowerExpr(ss.Value), Span: ss.SpanAll}
	case *ast.Set:
		return &Set{Name: ss.Name, Value: lowerExpr(ss.Value), Span: ss.SpanAll}
	case *ast.Return:
		var v Expr
		if ss.Value != nil {
			v = lowerExpr(ss.Value)
		}
		return &Return{Value: v, Span: ss.SpanAll}
	case *ast.If:
		var elseBlock []Stmt
		if ss.ElseBlock != nil {
			elseBlock = lowerBlock(ss.ElseBlock)
		}
		return &If{
			Cond:      lowerExpr(ss.Cond),
			ThenBlock: lowerBlock(ss.ThenBlock),
			ElseBlock: elseBlock,
			Span:      ss.SpanAll,
		}
	case *ast.Match:
		cases := make([]MatchCase, len(ss.Cases))
		for i, c := range ss.Cases {
			cases[i] = MatchCase{
				Pattern: lowerPattern(c.Pattern),
				Block:   lowerBlock(c.Block),
				Span:    c.SpanAll,
			}
		}
		return &Match{Expr: lowerExpr(ss.Expr), Cases: cases, Span: ss.SpanAll}
	case *ast.Scope:
		return lowerScope(ss)
	case *ast.Start:
		return &Start{Name: ss.Name, Value: lowerExpr(ss.Value), Span: ss.SpanAll}
	case *ast.Wait:
		return &Wait{Names: ss.Names, Span: ss.SpanAll}
	case *ast.Workflow:
		return &Workflow{
			Steps:   lowerBlock(ss.Steps),
			Retry:   ss.Retry,
			Timeout: ss.Timeout,
			Span:    ss.SpanAll,
		}
	}
	panic("unreachable statement kind")
}

// lowerScope collapses scope-in-scope sugar: a Scope whose only statement
// is another Scope lowers to the innermost block, keeping the outermost
// span as the origin.
func lowerScope(s *ast.Scope) Stmt {
	inner := s.Statements
	for len(inner) == 1 {
		nested, ok := inner[0].(*ast.Scope)
		if !ok {
			break
		}
		inner = nested.Statements
	}
	return &Scope{Statements: lowerBlock(inner), Span: s.SpanAll}
}

func lowerExpr(e ast.Expr) Expr {
	switch ee := e.(type) {
	case *ast.Lit:
		return &Lit{Kind: LitKind(ee.Kind), Text: ee.Text, Span: ee.SpanAll}
	case *ast.Name:
		return &Name{Parts: ee.Parts, Span: ee.SpanAll}
	case *ast.Call:
		args := make([]Expr, len(ee.Args))
		for i, a := range ee.Args {
			args[i] = lowerExpr(a)
		}
		return &Call{
			Target: &Name{Parts: ee.Target.Parts, Span: ee.Target.SpanAll},
			Args:   args,
			Span:   ee.SpanAll,
		}
	case *ast.Construct:
		fields := make([]ConstructField, len(ee.Fields))
		for i, f := range ee.Fields {
			fields[i] = ConstructField{Name: f.Name, Value: lowerExpr(f.Value)}
		}
		return &Construct{TypeName: ee.TypeName, Fields: fields, Span: ee.SpanAll}
	case *ast.Ctor:
		return &Ctor{Kind: CtorKind(ee.Kind), Value: lowerExpr(ee.Value), Span: ee.SpanAll}
	case *ast.Lambda:
		params := make([]Param, len(ee.Params))
		for i, p := range ee.Params {
			params[i] = Param{Name: p.Name, Type: p.Type, Span: p.SpanAll}
		}
		return &Lambda{Params: params, Ret: ee.Ret, Body: lowerExpr(ee.Body), Span: ee.SpanAll}
	case *ast.Await:
		return &Await{Value: lowerExpr(ee.Value), Span: ee.SpanAll}
	}
	panic("unreachable expression kind")
}

func lowerPattern(p ast.Pattern) Pattern {
	switch pp := p.(type) {
	case *ast.PatNull:
		return &PatNull{Span: pp.SpanAll}
	case *ast.PatName:
		return &PatName{Name: pp.Name, Span: pp.SpanAll}
	case *ast.PatInt:
		return &PatInt{Text: pp.Text, Span: pp.SpanAll}
	case *ast.PatCtor:
		return &PatCtor{TypeName: pp.TypeName, Names: pp.Names, Span: pp.SpanAll}
	}
	panic("unreachable pattern kind")
}

// inferReturnType merges the literal types of every reachable return
// statement. It only looks at shapes that are decidable without a symbol
// table; anything else stays Unknown and is left for the checker.
func inferReturnType(body []Stmt) types.Type {
	var merged types.Type = &types.Unknown{}
	ok := true

	walkReturns(body, func(r *Return) {
		if !ok {
			return
		}
		t := simpleExprType(r.Value)
		if m, agreed := types.Merge(merged, t); agreed {
			merged = m
		} else {
			ok = false
		}
	})

	if !ok {
		return &types.Unknown{}
	}
	return merged
}

// walkReturns visits Return statements in the block and its nested
// blocks, skipping lambda bodies, which have their own return type.
func walkReturns(stmts []Stmt, visit func(*Return)) {
	for _, s := range stmts {
		switch ss := s.(type) {
		case *Return:
			visit(ss)
		case *If:
			walkReturns(ss.ThenBlock, visit)
			walkReturns(ss.ElseBlock, visit)
		case *Match:
			for _, c := range ss.Cases {
				walkReturns(c.Block, visit)
			}
		case *Scope:
			walkReturns(ss.Statements, visit)
		case *Workflow:
			walkReturns(ss.Steps, visit)
		}
	}
}

func simpleExprType(e Expr) types.Type {
	lit, ok := e.(*Lit)
	if !ok {
		return &types.Unknown{}
	}
	switch lit.Kind {
	case LitInt:
		return types.IntType
	case LitLong:
		return types.LongType
	case LitDouble:
		return types.DoubleType
	case LitBool:
		return types.BoolType
	case LitString:
		return types.StringType
	default:
		return &types.Unknown{}
	}
}
