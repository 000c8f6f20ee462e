package lexer

import (
	"fmt"

	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/position"
)

// Error is a fatal lexical error. Token-stream corruption cannot be
// recovered from safely, so lexing aborts on the first one; syntax-level
// recovery happens one layer up, in the parser.
type Error struct {
	Code    string
	Message string
	Pos     position.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
}

func invalidIndentation(pos position.Position, width int) *Error {
	return &Error{
		Code:    diagnostic.CodeInvalidIndentation,
		Message: fmt.Sprintf("indentation of %d spaces is not a multiple of 2", width),
		Pos:     pos,
	}
}

func inconsistentDedent(pos position.Position, width int) *Error {
	return &Error{
		Code:    diagnostic.CodeInconsistentDedent,
		Message: fmt.Sprintf("dedent to %d spaces does not match any open block", width),
		Pos:     pos,
	}
}

func unterminatedString(pos position.Position) *Error {
	return &Error{
		Code:    diagnostic.CodeUnterminatedString,
		Message: "string literal is not terminated",
		Pos:     pos,
	}
}

func unexpectedCharacter(pos position.Position, ch rune) *Error {
	return &Error{
		Code:    diagnostic.CodeUnexpectedCharacter,
		Message: fmt.Sprintf("unexpected character %q", ch),
		Pos:     pos,
	}
}
