package parser

import (
	"strconv"

	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
)

// parseBlock reads ":" NEWLINE INDENT stmt* DEDENT.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}

	p.skipNewlines()
	if _, err := p.expect(lexer.TokenIndent); err != nil {
		return nil, err
	}

	stmts := make([]ast.Stmt, 0, 8)

	for {
		p.skipNewlines()
		if p.cur().Type == lexer.TokenDedent {
			p.next()
			return stmts, nil
		}
		if p.atEOF() {
			return stmts, nil
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.cur().Is(lexicon.KindLet):
		return p.parseLet()
	case p.cur().Is(lexicon.KindSet):
		return p.parseSet()
	case p.cur().Is(lexicon.KindReturn):
		return p.parseReturn()
	case p.cur().Is(lexicon.KindIf):
		return p.parseIf()
	case p.cur().Is(lexicon.KindMatch):
		return p.parseMatch()
	case p.cur().Is(lexicon.KindScope):
		return p.parseScope()
	case p.cur().Is(lexicon.KindStart):
		return p.parseStart()
	case p.cur().Is(lexicon.KindWait):
		return p.parseWait()
	case p.cur().Is(lexicon.KindWorkflow):
		return p.parseWorkflow()
	default:
		return nil, p.fail("expected a statement, found %q", p.cur().Value)
	}
}

func (p *Parser) expectPeriod() error {
	if p.cur().Type != lexer.TokenPeriod {
		return p.fail("expected '.' to end the statement, found %q", p.cur().Value)
	}
	p.next()
	return nil
}

func (p *Parser) parseLet() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	stmt := &ast.Let{Name: name.Value, SpanAll: kw.Span.Union(name.Span)}

	if p.cur().Type == lexer.TokenColon {
		p.next()
		stmt.Type, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenAssign); err != nil {
		return nil, err
	}

	stmt.Value, err = p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.SpanAll = stmt.SpanAll.Union(stmt.Value.Span())

	return stmt, p.expectPeriod()
}

func (p *Parser) parseSet() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.expect(lexer.TokenIdent)
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

	stmt := &ast.Set{
		Name:    name.Value,
		Value:   value,
		SpanAll: kw.Span.Union(value.Span()),
	}

	return stmt, p.expectPeriod()
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.next()
	stmt := &ast.Return{SpanAll: kw.Span}

	if p.cur().Type != lexer.TokenPeriod {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
		stmt.SpanAll = stmt.SpanAll.Union(value.Span())
	}

	return stmt, p.expectPeriod()
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.next()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Cond: cond, ThenBlock: thenBlock, SpanAll: kw.Span}

	p.skipNewlines()
	if p.cur().Is(lexicon.KindElse) {
		p.next()
		stmt.ElseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (p *Parser) parseMatch() (ast.Stmt, error) {
	kw := p.next()

	expr, err := p.parseExpr()
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

	stmt := &ast.Match{Expr: expr, SpanAll: kw.Span}

	for {
		p.skipNewlines()
		if p.cur().Type == lexer.TokenDedent {
			p.next()
			break
		}
		if p.atEOF() {
			break
		}

		caseKw, err := p.expectKeyword(lexicon.KindCase)
		if err != nil {
			return nil, err
		}

		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}

		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		stmt.Cases = append(stmt.Cases, ast.MatchCase{
			Pattern: pattern,
			Block:   block,
			SpanAll: caseKw.Span.Union(pattern.Span()),
		})
	}

	return stmt, nil
}

func (p *Parser) parseScope() (ast.Stmt, error) {
	kw := p.next()

	stmts, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Scope{Statements: stmts, SpanAll: kw.Span}, nil
}

func (p *Parser) parseStart() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.expect(lexer.TokenIdent)
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

	stmt := &ast.Start{
		Name:    name.Value,
		Value:   value,
		SpanAll: kw.Span.Union(value.Span()),
	}

	return stmt, p.expectPeriod()
}

func (p *Parser) parseWait() (ast.Stmt, error) {
	kw := p.next()

	names, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}

	stmt := &ast.Wait{Names: names, SpanAll: kw.Span}

	return stmt, p.expectPeriod()
}

// parseWorkflow reads "Workflow [retry N] [timeout N]:" block. The steps
// are ordinary statements; compensation semantics live outside the
// frontend.
func (p *Parser) parseWorkflow() (ast.Stmt, error) {
	kw := p.next()
	stmt := &ast.Workflow{SpanAll: kw.Span}

	for {
		switch {
		case p.cur().Is(lexicon.KindRetry):
			p.next()
			n, err := p.expect(lexer.TokenInt)
			if err != nil {
				return nil, err
			}
			stmt.Retry, _ = strconv.Atoi(n.Value)
		case p.cur().Is(lexicon.KindTimeout):
			p.next()
			n, err := p.expect(lexer.TokenInt)
			if err != nil {
				return nil, err
			}
			stmt.Timeout, _ = strconv.Atoi(n.Value)
		default:
			var err error
			stmt.Steps, err = p.parseBlock()
			return stmt, err
		}
	}
}
