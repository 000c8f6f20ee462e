package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/types"
)

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch {
	case p.cur().Is(lexicon.KindImport):
		return p.parseImport()
	case p.cur().Is(lexicon.KindData):
		return p.parseData()
	case p.cur().Is(lexicon.KindEnum):
		return p.parseEnum()
	case p.cur().Is(lexicon.KindFunc):
		return p.parseFunc()
	default:
		return nil, p.fail("expected a declaration, found %q", p.cur().Value)
	}
}

func (p *Parser) parseImport() (ast.Decl, error) {
	kw, err := p.expectKeyword(lexicon.KindImport)
	if err != nil {
		return nil, err
	}

	name, nameSpan, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}

	imp := &ast.Import{Name: name, NameSpan: nameSpan, SpanAll: kw.Span.Union(nameSpan)}

	if p.cur().Is(lexicon.KindAs) {
		p.next()
		alias, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		imp.AsName = alias.Value
		imp.SpanAll = imp.SpanAll.Union(alias.Span)
	}

	if p.cur().Type == lexer.TokenPeriod {
		p.next()
	}

	return imp, nil
}

func (p *Parser) parseData() (ast.Decl, error) {
	kw, err := p.expectKeyword(lexicon.KindData)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}

	p.skipNewlines()
	if _, err := p.expect(lexer.TokenIndent); err != nil {
		return nil, err
	}

	data := &ast.Data{
		Name:     name.Value,
		NameSpan: name.Span,
		SpanAll:  kw.Span.Union(name.Span),
	}

	for {
		p.skipNewlines()
		if p.cur().Type == lexer.TokenDedent {
			p.next()
			break
		}

		field, err := p.parseField()
		if err != nil {
			return nil, err
		}

		data.Fields = append(data.Fields, field)
		data.SpanAll = data.SpanAll.Union(field.SpanAll)
	}

	p.declared[data.Name] = true
	return data, nil
}

func (p *Parser) parseField() (ast.Field, error) {
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return ast.Field{}, err
	}

	if _, err := p.expect(lexer.TokenColon); err != nil {
		return ast.Field{}, err
	}

	typ, err := p.parseType()
	if err != nil {
		return ast.Field{}, err
	}

	field := ast.Field{Name: name.Value, Type: typ, SpanAll: name.Span}

	for p.cur().Type == lexer.TokenAt {
		p.next()
		ann, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return ast.Field{}, err
		}
		field.Annotations = append(field.Annotations, ann.Value)
		field.SpanAll = field.SpanAll.Union(ann.Span)
	}

	return field, nil
}

func (p *Parser) parseEnum() (ast.Decl, error) {
	kw, err := p.expectKeyword(lexicon.KindEnum)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}

	enum := &ast.Enum{
		Name:     name.Value,
		NameSpan: name.Span,
		SpanAll:  kw.Span.Union(name.Span),
	}

	for {
		variant, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		enum.Variants = append(enum.Variants, variant.Value)
		enum.SpanAll = enum.SpanAll.Union(variant.Span)

		if p.cur().Type != lexer.TokenComma {
			break
		}
		p.next()
	}

	if p.cur().Type == lexer.TokenPeriod {
		p.next()
	}

	p.declared[enum.Name] = true
	return enum, nil
}

// parseFunc parses a function declaration. The body may begin in one of
// three shapes: directly after the return type, after an inline effect
// clause, or after a bare period followed by an effect clause on its own
// line.
func (p *Parser) parseFunc() (ast.Decl, error) {
	kw, err := p.expectKeyword(lexicon.KindFunc)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	fn := &ast.Func{
		Name:     name.Value,
		NameSpan: name.Span,
		SpanAll:  kw.Span.Union(name.Span),
	}

	explicitTypeParams := false

	if p.cur().Is(lexicon.KindOf) {
		p.next()
		explicitTypeParams = true
		fn.TypeParams, err = p.parseIdentList()
		if err != nil {
			return nil, err
		}
	}

	if p.cur().Is(lexicon.KindEffect) {
		p.next()
		fn.EffectParams, err = p.parseIdentList()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	fn.Params, err = p.parseParams()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}

	if p.cur().Is(lexicon.KindGives) {
		p.next()
		fn.Ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	} else {
		fn.Ret = &types.Unknown{}
		fn.RetTypeInferred = true
	}

	// Implicit type parameters: capitalized identifiers in the signature
	// that are neither built-ins nor previously declared types.
	if !explicitTypeParams {
		fn.TypeParams = p.inferTypeParams(fn)
	}
	p.rewriteSignatureVars(fn)

	// Body tail, three shapes.
	switch {
	case p.cur().Type == lexer.TokenColon:
		fn.Body, err = p.parseBlock()
	case p.cur().Is(lexicon.KindWith):
		err = p.parseEffectClause(fn)
		if err == nil {
			fn.Body, err = p.parseBlock()
		}
	case p.cur().Type == lexer.TokenPeriod:
		p.next()
		p.skipNewlines()
		if err = p.parseEffectClause(fn); err == nil {
			fn.Body, err = p.parseBlock()
		}
	default:
		err = p.fail("expected function body, found %q", p.cur().Value)
	}
	if err != nil {
		return nil, err
	}

	if len(fn.Body) > 0 {
		fn.SpanAll = fn.SpanAll.Union(fn.Body[len(fn.Body)-1].Span())
	}

	return fn, nil
}

// parseEffectClause reads "with io, cpu" optionally followed by
// "using Http, Sql". A written capability list, even an empty clause,
// marks the capabilities as explicit.
func (p *Parser) parseEffectClause(fn *ast.Func) error {
	if _, err := p.expectKeyword(lexicon.KindWith); err != nil {
		return err
	}

	effects, err := p.parseIdentList()
	if err != nil {
		return err
	}
	fn.Effects = effects

	if p.cur().Is(lexicon.KindUsing) {
		p.next()
		fn.EffectCaps, err = p.parseIdentList()
		if err != nil {
			return err
		}
		fn.EffectCapsExplicit = true
	}

	return nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	out := make([]string, 0, 2)

	for {
		id, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		out = append(out, id.Value)

		if p.cur().Type != lexer.TokenComma {
			return out, nil
		}
		p.next()
	}
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	params := make([]ast.Param, 0, 4)

	if p.cur().Type == lexer.TokenRParen {
		return params, nil
	}

	for {
		name, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}

		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		params = append(params, ast.Param{Name: name.Value, Type: typ, SpanAll: name.Span})

		if p.cur().Type != lexer.TokenComma {
			return params, nil
		}
		p.next()
	}
}

// inferTypeParams scans parameter and return types for capitalized names
// that are neither built-ins nor previously declared types, in order of
// first appearance.
func (p *Parser) inferTypeParams(fn *ast.Func) []string {
	seen := make(map[string]bool)
	effectParams := make(map[string]bool, len(fn.EffectParams))
	for _, e := range fn.EffectParams {
		effectParams[e] = true
	}

	var params []string

	visit := func(name string) {
		if seen[name] || effectParams[name] {
			return
		}
		if !isCapitalized(name) || types.IsBuiltinName(name) || p.declared[name] {
			return
		}
		seen[name] = true
		params = append(params, name)
	}

	for _, param := range fn.Params {
		walkTypeNames(param.Type, visit)
	}
	walkTypeNames(fn.Ret, visit)

	return params
}

// rewriteSignatureVars replaces named references to the function's type
// and effect parameters with Var and EffectVar nodes throughout the
// signature.
func (p *Parser) rewriteSignatureVars(fn *ast.Func) {
	if len(fn.TypeParams) == 0 && len(fn.EffectParams) == 0 {
		return
	}

	typeParams := make(map[string]bool, len(fn.TypeParams))
	for _, t := range fn.TypeParams {
		typeParams[t] = true
	}
	effectParams := make(map[string]bool, len(fn.EffectParams))
	for _, e := range fn.EffectParams {
		effectParams[e] = true
	}

	for i := range fn.Params {
		fn.Params[i].Type = rewriteVars(fn.Params[i].Type, typeParams, effectParams)
	}
	fn.Ret = rewriteVars(fn.Ret, typeParams, effectParams)
}

func walkTypeNames(t types.Type, visit func(string)) {
	switch tt := t.(type) {
	case *types.Named:
		visit(tt.Name)
	case *types.App:
		visit(tt.Base)
		for _, a := range tt.Args {
			walkTypeNames(a, visit)
		}
	case *types.Maybe:
		walkTypeNames(tt.Elem, visit)
	case *types.Option:
		walkTypeNames(tt.Elem, visit)
	case *types.Result:
		walkTypeNames(tt.OK, visit)
		walkTypeNames(tt.Err, visit)
	case *types.List:
		walkTypeNames(tt.Elem, visit)
	case *types.Map:
		walkTypeNames(tt.Key, visit)
		walkTypeNames(tt.Val, visit)
	case *types.Func:
		for _, pr := range tt.Params {
			walkTypeNames(pr, visit)
		}
		walkTypeNames(tt.Ret, visit)
	case *types.Pii:
		walkTypeNames(tt.Base, visit)
	}
}

func rewriteVars(t types.Type, typeParams, effectParams map[string]bool) types.Type {
	switch tt := t.(type) {
	case *types.Named:
		if typeParams[tt.Name] {
			return &types.Var{Name: tt.Name}
		}
		if effectParams[tt.Name] {
			return &types.EffectVar{Name: tt.Name}
		}
		return t
	case *types.App:
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = rewriteVars(a, typeParams, effectParams)
		}
		return &types.App{Base: tt.Base, Args: args}
	case *types.Maybe:
		return &types.Maybe{Elem: rewriteVars(tt.Elem, typeParams, effectParams)}
	case *types.Option:
		return &types.Option{Elem: rewriteVars(tt.Elem, typeParams, effectParams)}
	case *types.Result:
		return &types.Result{
			OK:  rewriteVars(tt.OK, typeParams, effectParams),
			Err: rewriteVars(tt.Err, typeParams, effectParams),
		}
	case *types.List:
		return &types.List{Elem: rewriteVars(tt.Elem, typeParams, effectParams)}
	case *types.Map:
		return &types.Map{
			Key: rewriteVars(tt.Key, typeParams, effectParams),
			Val: rewriteVars(tt.Val, typeParams, effectParams),
		}
	case *types.Func:
		params := make([]types.Type, len(tt.Params))
		for i, pr := range tt.Params {
			params[i] = rewriteVars(pr, typeParams, effectParams)
		}
		return &types.Func{Params: params, Ret: rewriteVars(tt.Ret, typeParams, effectParams)}
	case *types.Pii:
		return &types.Pii{
			Base:        rewriteVars(tt.Base, typeParams, effectParams),
			Sensitivity: tt.Sensitivity,
			Category:    tt.Category,
		}
	default:
		return t
	}
}

func isCapitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
