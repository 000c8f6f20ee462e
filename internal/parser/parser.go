// Package parser implements the Clarity recursive descent parser.
// The parser never aborts a file on one bad declaration: a syntax error
// is collected as a diagnostic and the parser resynchronizes at the next
// declaration-start keyword.
package parser

import (
	"fmt"

	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/position"
)

// Parser holds the token cursor and accumulated diagnostics.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  []diagnostic.Diagnostic

	// Type names declared so far in this module, for implicit
	// type-parameter inference.
	declared map[string]bool
}

// parseError aborts the enclosing declaration; the top-level loop catches
// it and resynchronizes.
type parseError struct {
	span position.Span
	msg  string
}

func (e *parseError) Error() string { return e.msg }

// Parse builds a module AST from a token stream. Trivia-channel tokens
// are ignored. The returned diagnostics hold every syntax error that was
// recovered from.
func Parse(tokens []lexer.Token) (*ast.Module, []diagnostic.Diagnostic) {
	significant := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Channel == lexer.ChannelDefault {
			significant = append(significant, tok)
		}
	}

	p := &Parser{
		tokens:   significant,
		declared: make(map[string]bool),
	}

	module := p.parseModule()
	return module, p.diags
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return lexer.Token{Type: lexer.TokenEOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) next() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) atEOF() bool {
	return p.cur().Type == lexer.TokenEOF
}

// skipNewlines advances past newline tokens.
func (p *Parser) skipNewlines() {
	for p.cur().Type == lexer.TokenNewline {
		p.next()
	}
}

func (p *Parser) fail(format string, args ...any) error {
	return &parseError{span: p.cur().Span, msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.cur().Type != tt {
		return lexer.Token{}, p.fail("expected %s, found %s %q", tt, p.cur().Type, p.cur().Value)
	}
	return p.next(), nil
}

func (p *Parser) expectKeyword(kind lexicon.Kind) (lexer.Token, error) {
	if !p.cur().Is(kind) {
		return lexer.Token{}, p.fail("expected keyword %s, found %q", kind, p.cur().Value)
	}
	return p.next(), nil
}

// isDeclStart reports whether the current token can begin a top-level
// declaration. Used as the resynchronization anchor after a syntax error.
func (p *Parser) isDeclStart() bool {
	tok := p.cur()
	return tok.Is(lexicon.KindImport) || tok.Is(lexicon.KindData) ||
		tok.Is(lexicon.KindEnum) || tok.Is(lexicon.KindFunc)
}

// synchronize skips tokens until the next declaration-start keyword or EOF.
func (p *Parser) synchronize() {
	for !p.atEOF() && !p.isDeclStart() {
		p.next()
	}
}

func (p *Parser) recover(err error) {
	pe, ok := err.(*parseError)
	if !ok {
		pe = &parseError{span: p.cur().Span, msg: err.Error()}
	}

	p.diags = append(p.diags, diagnostic.Errorf(diagnostic.CodeSyntaxError, pe.span, "%s", pe.msg))
	if !p.isDeclStart() {
		p.next()
	}
	p.synchronize()
}

func (p *Parser) parseModule() *ast.Module {
	module := &ast.Module{}
	p.skipNewlines()

	if p.cur().Is(lexicon.KindModule) {
		p.next()
		name, nameSpan, err := p.parseDottedName()
		if err != nil {
			p.recover(err)
		} else {
			module.Name = name
			module.NameSpan = nameSpan
			if p.cur().Type == lexer.TokenPeriod {
				p.next()
			}
		}
	}

	for {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		if !p.isDeclStart() {
			p.recover(p.fail("expected a declaration, found %q", p.cur().Value))
			continue
		}

		decl, err := p.parseDecl()
		if err != nil {
			p.recover(err)
			continue
		}
		module.Decls = append(module.Decls, decl)
	}

	if len(module.Decls) > 0 {
		module.SpanAll = module.Decls[0].Span().Union(module.Decls[len(module.Decls)-1].Span())
	}

	return module
}

// parseDottedName reads Ident (Dot Ident)* and returns the joined name.
func (p *Parser) parseDottedName() (string, position.Span, error) {
	first, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return "", position.Span{}, err
	}

	name := first.Value
	span := first.Span

	for p.cur().Type == lexer.TokenDot {
		p.next()
		part, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return "", position.Span{}, err
		}
		name += "." + part.Value
		span = span.Union(part.Span)
	}

	return name, span, nil
}
