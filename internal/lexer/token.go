package lexer

import (
	"fmt"

	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/position"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenNewline
	TokenIndent
	TokenDedent
	TokenComment

	// Literals and names
	TokenIdent
	TokenInt
	TokenLong
	TokenDouble
	TokenString

	// Keywords carry their semantic lexicon kind in Token.Keyword
	TokenKeyword

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLAngle
	TokenRAngle
	TokenComma
	TokenColon
	TokenPeriod // statement terminator
	TokenDot    // member access
	TokenAssign
	TokenArrow    // ->
	TokenFatArrow // =>
	TokenAt       // @, introduces a field annotation
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:      "EOF",
	TokenNewline:  "NEWLINE",
	TokenIndent:   "INDENT",
	TokenDedent:   "DEDENT",
	TokenComment:  "COMMENT",
	TokenIdent:    "IDENT",
	TokenInt:      "INT",
	TokenLong:     "LONG",
	TokenDouble:   "DOUBLE",
	TokenString:   "STRING",
	TokenKeyword:  "KEYWORD",
	TokenLParen:   "LPAREN",
	TokenRParen:   "RPAREN",
	TokenLAngle:   "LANGLE",
	TokenRAngle:   "RANGLE",
	TokenComma:    "COMMA",
	TokenColon:    "COLON",
	TokenPeriod:   "PERIOD",
	TokenDot:      "DOT",
	TokenAssign:   "ASSIGN",
	TokenArrow:    "ARROW",
	TokenFatArrow: "FAT_ARROW",
	TokenAt:       "AT",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Channel separates significant tokens from trivia.
type Channel int

const (
	ChannelDefault Channel = iota
	ChannelTrivia
)

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Keyword lexicon.Kind // valid when Type == TokenKeyword
	Value   string
	Channel Channel
	Span    position.Span
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenKeyword {
		return fmt.Sprintf("{KEYWORD(%s) %q %s}", t.Keyword, t.Value, t.Span)
	}
	return fmt.Sprintf("{%s %q %s}", t.Type, t.Value, t.Span)
}

// Is reports whether the token is a keyword of the given semantic kind.
func (t Token) Is(kind lexicon.Kind) bool {
	return t.Type == TokenKeyword && t.Keyword == kind
}
