package checker

import (
	"strings"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/symbols"
	"github.com/clarity-lang/clarity/internal/types"
)

func (fc *funcChecker) checkMatch(m *core.Match) {
	scrutinee := fc.exprType(m.Expr)

	var enumCov *types.EnumCoverage
	var maybeCov *types.MaybeCoverage

	switch st := scrutinee.(type) {
	case *types.Named:
		if enum, ok := fc.env.enums[st.Name]; ok {
			enumCov = types.NewEnumCoverage(enum.Variants)
		}
	case *types.Maybe:
		maybeCov = &types.MaybeCoverage{}
	}

	var agreed types.Type = &types.Unknown{}
	reported := false

	for _, c := range m.Cases {
		fc.table.EnterScope(symbols.ScopeBlock)
		fc.bindPattern(c.Pattern, scrutinee)
		fc.checkBlock(c.Block)

		caseType := fc.blockType(c.Block)
		fc.table.ExitScope()

		if enumCov != nil {
			markEnumPattern(enumCov, c.Pattern)
		}
		if maybeCov != nil {
			markMaybePattern(maybeCov, c.Pattern)
		}

		if reported {
			continue
		}
		if merged, ok := types.Merge(agreed, caseType); ok {
			agreed = merged
		} else {
			fc.errorf(diagnostic.CodeMatchBranchMismatch, c.Span,
				"match case yields %s where earlier cases yield %s", caseType, agreed)
			reported = true
		}
	}

	if enumCov != nil {
		if missing := enumCov.Missing(); len(missing) > 0 {
			fc.warnf(diagnostic.CodeNonExhaustiveEnum, m.Span,
				"match does not cover variants: %s", strings.Join(missing, ", "))
		}
	}
	if maybeCov != nil && !maybeCov.Complete() {
		fc.warnf(diagnostic.CodeNonExhaustiveMaybe, m.Span,
			"match over a Maybe must cover both the null and the non-null case")
	}
}

func markEnumPattern(cov *types.EnumCoverage, p core.Pattern) {
	switch pp := p.(type) {
	case *core.PatName:
		if cov.IsVariant(pp.Name) {
			cov.MarkVariant(pp.Name)
		} else {
			cov.MarkWildcard()
		}
	case *core.PatCtor:
		if cov.IsVariant(pp.TypeName) {
			cov.MarkVariant(pp.TypeName)
		}
	}
}

func markMaybePattern(cov *types.MaybeCoverage, p core.Pattern) {
	switch p.(type) {
	case *core.PatNull:
		cov.HasNull = true
	case *core.PatName:
		// A bare name binds the whole scrutinee and so covers both
		// cases.
		cov.HasNull = true
		cov.HasNonNull = true
	default:
		cov.HasNonNull = true
	}
}

// bindPattern introduces the names a pattern binds, typed from the
// scrutinee. Unknown constructors degrade to Unknown-typed bindings
// rather than failing hard.
func (fc *funcChecker) bindPattern(p core.Pattern, scrutinee types.Type) {
	switch pp := p.(type) {
	case *core.PatName:
		if _, isVariant := fc.env.variants[pp.Name]; isVariant {
			return
		}
		fc.table.Define(pp.Name, scrutinee, symbols.KindVar)
	case *core.PatCtor:
		fc.bindCtorPattern(pp, scrutinee)
	}
}

func (fc *funcChecker) bindCtorPattern(p *core.PatCtor, scrutinee types.Type) {
	payload := func(i int) types.Type { return &types.Unknown{} }

	switch p.TypeName {
	case "Ok":
		if r, ok := scrutinee.(*types.Result); ok {
			payload = func(int) types.Type { return r.OK }
		}
	case "Err":
		if r, ok := scrutinee.(*types.Result); ok {
			payload = func(int) types.Type { return r.Err }
		}
	case "Some":
		switch s := scrutinee.(type) {
		case *types.Option:
			payload = func(int) types.Type { return s.Elem }
		case *types.Maybe:
			payload = func(int) types.Type { return s.Elem }
		}
	case "None":
		return
	default:
		if data, ok := fc.env.data[p.TypeName]; ok {
			payload = func(i int) types.Type {
				if i < len(data.Fields) {
					return data.Fields[i].Type
				}
				return &types.Unknown{}
			}
		}
	}

	for i, name := range p.Names {
		fc.table.Define(name, payload(i), symbols.KindVar)
	}
}
