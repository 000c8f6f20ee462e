// Package lexer implements the Clarity lexical analyzer. Keyword,
// comment, and string-delimiter recognition is driven by the lexicon
// passed to Lex, with ASCII double-quoted strings and // or # comments
// always accepted as a fallback. Indentation is 2-space significant and
// produces INDENT/DEDENT tokens from a stack.
package lexer

import (
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/position"
)

// Lexer scans one source document into a token stream.
type Lexer struct {
	input    string
	lex      *lexicon.Lexicon
	filename string

	pos    int // byte offset of the current rune
	line   int // 1-based
	col    int // 1-based
	ch     rune
	chSize int

	indents []int
	tokens  []Token
}

// Lex tokenizes source using the given lexicon. Lexical errors are fatal:
// the first one aborts and is returned as a *Error.
func Lex(source string, lex *lexicon.Lexicon) ([]Token, error) {
	return LexFile(source, lex, "")
}

// LexFile is Lex with a filename for position reporting.
func LexFile(source string, lex *lexicon.Lexicon, filename string) ([]Token, error) {
	if lex == nil {
		lex = lexicon.English()
	}

	l := &Lexer{
		input:    source,
		lex:      lex,
		filename: filename,
		line:     1,
		col:      1,
		indents:  []int{0},
	}
	l.decode()

	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// decode loads the rune at the current offset without advancing.
func (l *Lexer) decode() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.chSize = 0
		return
	}
	l.ch, l.chSize = utf8.DecodeRuneInString(l.input[l.pos:])
}

// advance moves past the current rune, tracking line and column.
// A \r\n pair counts as a single newline.
func (l *Lexer) advance() {
	if l.ch == '\r' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '\n' {
		l.pos += 2
		l.line++
		l.col = 1
		l.decode()
		return
	}

	if l.ch == '\n' || l.ch == '\r' {
		l.pos += l.chSize
		l.line++
		l.col = 1
		l.decode()
		return
	}

	l.pos += l.chSize
	l.col++
	l.decode()
}

func (l *Lexer) here() position.Position {
	return position.Position{Filename: l.filename, Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) emit(tt TokenType, value string, start position.Position) {
	l.emitOn(tt, value, start, ChannelDefault)
}

func (l *Lexer) emitOn(tt TokenType, value string, start position.Position, ch Channel) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Value:   value,
		Channel: ch,
		Span:    position.Span{Start: start, End: l.here()},
	})
}

func (l *Lexer) atNewline() bool {
	return l.ch == '\n' || l.ch == '\r'
}

func (l *Lexer) run() error {
	atLineStart := true

	for {
		if atLineStart {
			if err := l.handleIndentation(); err != nil {
				return err
			}
			atLineStart = false
		}

		switch {
		case l.ch == 0:
			l.flushDedents()
			l.emit(TokenEOF, "", l.here())
			return nil

		case l.atNewline():
			start := l.here()
			l.advance()
			l.emit(TokenNewline, "\n", start)
			atLineStart = true

		case l.ch == ' ' || l.ch == '\t':
			l.advance()

		case l.isCommentStart():
			l.readComment()

		case l.isStringStart():
			if err := l.readString(); err != nil {
				return err
			}

		case unicode.IsLetter(l.ch) || l.ch == '_':
			l.readWord()

		case unicode.IsDigit(l.ch):
			if err := l.readNumber(); err != nil {
				return err
			}

		default:
			if err := l.readPunctuation(); err != nil {
				return err
			}
		}
	}
}

// handleIndentation measures leading spaces and emits INDENT/DEDENT
// tokens against the indentation stack. Blank and comment-only lines do
// not affect the stack.
func (l *Lexer) handleIndentation() error {
	start := l.here()
	width := 0

	for l.ch == ' ' {
		width++
		l.advance()
	}

	if l.ch == '\t' {
		return unexpectedCharacter(l.here(), '\t')
	}

	// Blank or comment-only line: indentation is not significant.
	if l.atNewline() || l.ch == 0 || l.isCommentStart() {
		return nil
	}

	if width%2 != 0 {
		return invalidIndentation(start, width)
	}

	top := l.indents[len(l.indents)-1]

	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(TokenIndent, "", start)
	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(TokenDedent, "", start)
		}
		if l.indents[len(l.indents)-1] != width {
			return inconsistentDedent(start, width)
		}
	}

	return nil
}

func (l *Lexer) flushDedents() {
	start := l.here()
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(TokenDedent, "", start)
	}
}

func (l *Lexer) isCommentStart() bool {
	if l.ch == '#' {
		return true
	}
	if l.ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
		return true
	}
	for _, marker := range l.lex.LineComments {
		if strings.HasPrefix(l.input[l.pos:], marker) {
			return true
		}
	}
	return false
}

func (l *Lexer) readComment() {
	start := l.here()
	for !l.atNewline() && l.ch != 0 {
		l.advance()
	}
	l.emitOn(TokenComment, l.input[start.Offset:l.pos], start, ChannelTrivia)
}

func (l *Lexer) isStringStart() bool {
	if l.ch == '"' {
		return true
	}
	for _, q := range l.lex.Quotes {
		if strings.HasPrefix(l.input[l.pos:], q.Open) {
			return true
		}
	}
	return false
}

func (l *Lexer) readString() error {
	start := l.here()

	closer := `"`
	if l.ch != '"' {
		for _, q := range l.lex.Quotes {
			if strings.HasPrefix(l.input[l.pos:], q.Open) {
				closer = q.Close
				for range q.Open {
					l.advance()
				}
				break
			}
		}
	} else {
		l.advance()
	}

	var b strings.Builder

	for {
		if l.ch == 0 || l.atNewline() {
			return unterminatedString(start)
		}

		if strings.HasPrefix(l.input[l.pos:], closer) {
			for range closer {
				l.advance()
			}
			l.emit(TokenString, b.String(), start)
			return nil
		}

		if l.ch == '\\' {
			l.advance()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteRune(l.ch)
			}
			l.advance()
			continue
		}

		b.WriteRune(l.ch)
		l.advance()
	}
}

func (l *Lexer) readWord() {
	start := l.here()

	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		l.advance()
	}

	word := l.input[start.Offset:l.pos]

	if kind, ok := l.lex.Keyword(word); ok {
		l.tokens = append(l.tokens, Token{
			Type:    TokenKeyword,
			Keyword: kind,
			Value:   word,
			Span:    position.Span{Start: start, End: l.here()},
		})
		return
	}

	l.emit(TokenIdent, word, start)
}

// readNumber scans integer, decimal, and L-suffixed long literals.
// Literals are validated through math/big so large values survive without
// precision loss.
func (l *Lexer) readNumber() error {
	start := l.here()
	isDouble := false

	for unicode.IsDigit(l.ch) {
		l.advance()
	}

	if l.ch == '.' && l.pos+1 < len(l.input) && isDigitByte(l.input[l.pos+1]) {
		isDouble = true
		l.advance()
		for unicode.IsDigit(l.ch) {
			l.advance()
		}
	}

	literal := l.input[start.Offset:l.pos]

	if isDouble {
		if _, _, err := big.ParseFloat(literal, 10, 256, big.ToNearestEven); err != nil {
			return unexpectedCharacter(start, rune(literal[0]))
		}
		l.emit(TokenDouble, literal, start)
		return nil
	}

	if l.ch == 'L' {
		l.advance()
		if _, ok := new(big.Int).SetString(literal, 10); !ok {
			return unexpectedCharacter(start, rune(literal[0]))
		}
		l.emit(TokenLong, literal, start)
		return nil
	}

	if _, ok := new(big.Int).SetString(literal, 10); !ok {
		return unexpectedCharacter(start, rune(literal[0]))
	}
	l.emit(TokenInt, literal, start)
	return nil
}

func (l *Lexer) readPunctuation() error {
	start := l.here()

	switch l.ch {
	case '(':
		l.advance()
		l.emit(TokenLParen, "(", start)
	case ')':
		l.advance()
		l.emit(TokenRParen, ")", start)
	case '<':
		l.advance()
		l.emit(TokenLAngle, "<", start)
	case '>':
		l.advance()
		l.emit(TokenRAngle, ">", start)
	case ',':
		l.advance()
		l.emit(TokenComma, ",", start)
	case ':':
		l.advance()
		l.emit(TokenColon, ":", start)
	case '=':
		l.advance()
		if l.ch == '>' {
			l.advance()
			l.emit(TokenFatArrow, "=>", start)
		} else {
			l.emit(TokenAssign, "=", start)
		}
	case '-':
		l.advance()
		if l.ch == '>' {
			l.advance()
			l.emit(TokenArrow, "->", start)
		} else {
			return unexpectedCharacter(start, '-')
		}
	case '@':
		l.advance()
		l.emit(TokenAt, "@", start)
	case '.':
		l.advance()
		// A dot continuing into a name is member access; anything else
		// terminates the statement.
		if unicode.IsLetter(l.ch) || l.ch == '_' {
			l.emit(TokenDot, ".", start)
		} else {
			l.emit(TokenPeriod, ".", start)
		}
	default:
		return unexpectedCharacter(start, l.ch)
	}

	return nil
}

func isDigitByte(b byte) bool {
	return '0' <= b && b <= '9'
}
