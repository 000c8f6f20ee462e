package parser

import (
	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/types"
)

func (p *Parser) parseExpr() (ast.Expr, error) {
	switch {
	case p.cur().Is(lexicon.KindAwait):
		kw := p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Await{Value: inner, SpanAll: kw.Span.Union(inner.Span())}, nil

	case p.cur().Is(lexicon.KindNew):
		return p.parseConstruct()

	case p.cur().Is(lexicon.KindNull):
		tok := p.next()
		return &ast.Lit{Kind: ast.LitNull, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Is(lexicon.KindNone):
		tok := p.next()
		return &ast.Lit{Kind: ast.LitNone, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Is(lexicon.KindTrue), p.cur().Is(lexicon.KindFalse):
		tok := p.next()
		return &ast.Lit{Kind: ast.LitBool, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenInt:
		tok := p.next()
		return &ast.Lit{Kind: ast.LitInt, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenLong:
		tok := p.next()
		return &ast.Lit{Kind: ast.LitLong, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenDouble:
		tok := p.next()
		return &ast.Lit{Kind: ast.LitDouble, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenString:
		tok := p.next()
		return &ast.Lit{Kind: ast.LitString, Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenLParen:
		return p.parseLambda()

	case p.cur().Type == lexer.TokenIdent:
		return p.parseNameOrCall()

	default:
		return nil, p.fail("expected an expression, found %q", p.cur().Value)
	}
}

// parseNameOrCall reads a dotted name and, when followed by an argument
// list, a call. Ok, Err, and Some calls become payload constructors.
func (p *Parser) parseNameOrCall() (ast.Expr, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	if p.cur().Type != lexer.TokenLParen {
		return name, nil
	}

	p.next()
	args := make([]ast.Expr, 0, 4)
	for p.cur().Type != lexer.TokenRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.cur().Type != lexer.TokenComma {
			break
		}
		p.next()
	}

	closeParen, err := p.expect(lexer.TokenRParen)
	if err != nil {
		return nil, err
	}

	span := name.Span().Union(closeParen.Span)

	if len(name.Parts) == 1 && len(args) == 1 {
		switch name.Parts[0] {
		case "Ok":
			return &ast.Ctor{Kind: ast.CtorOk, Value: args[0], SpanAll: span}, nil
		case "Err":
			return &ast.Ctor{Kind: ast.CtorErr, Value: args[0], SpanAll: span}, nil
		case "Some":
			return &ast.Ctor{Kind: ast.CtorSome, Value: args[0], SpanAll: span}, nil
		}
	}

	return &ast.Call{Target: name, Args: args, SpanAll: span}, nil
}

func (p *Parser) parseName() (*ast.Name, error) {
	first, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	name := &ast.Name{Parts: []string{first.Value}, SpanAll: first.Span}

	for p.cur().Type == lexer.TokenDot {
		p.next()
		part, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		name.Parts = append(name.Parts, part.Value)
		name.SpanAll = name.SpanAll.Union(part.Span)
	}

	return name, nil
}

// parseConstruct reads "New TypeName(field = expr, ...)".
func (p *Parser) parseConstruct() (ast.Expr, error) {
	kw := p.next()

	typeName, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	construct := &ast.Construct{TypeName: typeName.Value, SpanAll: kw.Span}

	for p.cur().Type != lexer.TokenRParen {
		field, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.TokenAssign); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		construct.Fields = append(construct.Fields, ast.ConstructField{
			Name:  field.Value,
			Value: value,
		})

		if p.cur().Type != lexer.TokenComma {
			break
		}
		p.next()
	}

	closeParen, err := p.expect(lexer.TokenRParen)
	if err != nil {
		return nil, err
	}
	construct.SpanAll = construct.SpanAll.Union(closeParen.Span)

	return construct, nil
}

// parseLambda reads "(params) [-> type] => expr".
func (p *Parser) parseLambda() (ast.Expr, error) {
	open, err := p.expect(lexer.TokenLParen)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}

	lambda := &ast.Lambda{Params: params, SpanAll: open.Span}

	if p.cur().Type == lexer.TokenArrow {
		p.next()
		lambda.Ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenFatArrow); err != nil {
		return nil, err
	}

	lambda.Body, err = p.parseExpr()
	if err != nil {
		return nil, err
	}
	lambda.SpanAll = lambda.SpanAll.Union(lambda.Body.Span())

	return lambda, nil
}

func (p *Parser) parsePattern() (ast.Pattern, error) {
	switch {
	case p.cur().Is(lexicon.KindNull):
		tok := p.next()
		return &ast.PatNull{SpanAll: tok.Span}, nil

	case p.cur().Is(lexicon.KindNone):
		tok := p.next()
		return &ast.PatCtor{TypeName: "None", SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenInt:
		tok := p.next()
		return &ast.PatInt{Text: tok.Value, SpanAll: tok.Span}, nil

	case p.cur().Type == lexer.TokenIdent:
		name := p.next()

		if p.cur().Type != lexer.TokenLParen {
			return &ast.PatName{Name: name.Value, SpanAll: name.Span}, nil
		}

		p.next()
		pat := &ast.PatCtor{TypeName: name.Value, SpanAll: name.Span}

		for p.cur().Type != lexer.TokenRParen {
			bind, err := p.expect(lexer.TokenIdent)
			if err != nil {
				return nil, err
			}
			pat.Names = append(pat.Names, bind.Value)

			if p.cur().Type != lexer.TokenComma {
				break
			}
			p.next()
		}

		closeParen, err := p.expect(lexer.TokenRParen)
		if err != nil {
			return nil, err
		}
		pat.SpanAll = pat.SpanAll.Union(closeParen.Span)

		return pat, nil

	default:
		return nil, p.fail("expected a pattern, found %q", p.cur().Value)
	}
}

func (p *Parser) parseType() (types.Type, error) {
	if p.cur().Type == lexer.TokenLParen {
		return p.parseFuncType()
	}

	base, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	if p.cur().Type != lexer.TokenLAngle {
		return &types.Named{Name: base.Value}, nil
	}

	p.next()

	switch base.Value {
	case "Maybe", "Option", "List":
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRAngle); err != nil {
			return nil, err
		}
		switch base.Value {
		case "Maybe":
			return &types.Maybe{Elem: elem}, nil
		case "Option":
			return &types.Option{Elem: elem}, nil
		default:
			return &types.List{Elem: elem}, nil
		}

	case "Result", "Map":
		first, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenComma); err != nil {
			return nil, err
		}
		second, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRAngle); err != nil {
			return nil, err
		}
		if base.Value == "Result" {
			return &types.Result{OK: first, Err: second}, nil
		}
		return &types.Map{Key: first, Val: second}, nil

	case "Pii":
		return p.parsePiiType()

	default:
		app := &types.App{Base: base.Value}
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			app.Args = append(app.Args, arg)

			if p.cur().Type != lexer.TokenComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(lexer.TokenRAngle); err != nil {
			return nil, err
		}
		return app, nil
	}
}

// parsePiiType reads the tail of "Pii<Base, L2, category>"; the opening
// angle is already consumed.
func (p *Parser) parsePiiType() (types.Type, error) {
	base, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenComma); err != nil {
		return nil, err
	}

	sens, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	switch sens.Value {
	case "L1", "L2", "L3":
	default:
		return nil, p.fail("PII sensitivity must be L1, L2, or L3, found %q", sens.Value)
	}

	if _, err := p.expect(lexer.TokenComma); err != nil {
		return nil, err
	}

	category, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenRAngle); err != nil {
		return nil, err
	}

	return &types.Pii{
		Base:        base,
		Sensitivity: types.Sensitivity(sens.Value),
		Category:    category.Value,
	}, nil
}

func (p *Parser) parseFuncType() (types.Type, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}

	fn := &types.Func{}

	for p.cur().Type != lexer.TokenRParen {
		param, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)

		if p.cur().Type != lexer.TokenComma {
			break
		}
		p.next()
	}

	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenArrow); err != nil {
		return nil, err
	}

	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	fn.Ret = ret

	return fn, nil
}
