// Package position provides unified source code position tracking
// for the Clarity compiler. Every token, AST node, and Core IR node
// carries a Span from this package so diagnostics can point at real
// source locations.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name or document URI
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// After returns true if this position comes after other
func (p Position) After(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename > other.Filename
	}
	return p.Offset > other.Offset
}

// Span represents a range of source code between two positions
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// IsPlaceholder reports whether the span is the zero/zero sentinel used
// for synthetic nodes that have no real source position. Diagnostics must
// never point at a placeholder span when a real one is available.
func (s Span) IsPlaceholder() bool {
	return s.Start.Line == 0 && s.Start.Column == 0
}

// String returns a string representation of the span
func (s Span) String() string {
	if s.Start.Filename != "" {
		filename := filepath.Base(s.Start.Filename)
		if s.Start.Line == s.End.Line {
			return fmt.Sprintf("%s:%d:%d-%d", filename, s.Start.Line, s.Start.Column, s.End.Column)
		}
		return fmt.Sprintf("%s:%d:%d-%d:%d", filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
	}

	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Contains returns true if the span contains the given position
func (s Span) Contains(pos Position) bool {
	if !s.IsValid() || !pos.IsValid() {
		return false
	}
	if s.Start.Filename != pos.Filename {
		return false
	}
	return s.Start.Offset <= pos.Offset && pos.Offset < s.End.Offset
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	if s.Start.Filename != other.Start.Filename {
		return s // Cannot union spans from different files
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if other.End.After(end) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// Length returns the length of the span in bytes
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

// FirstReal returns the first span in candidates that is not a
// placeholder, or the zero span when none qualifies.
func FirstReal(candidates ...Span) Span {
	for _, c := range candidates {
		if !c.IsPlaceholder() {
			return c
		}
	}
	return Span{}
}

// SourceFile keeps a file's lines so diagnostics can quote the
// offending source text.
type SourceFile struct {
	Filename string
	lines    []string
}

// NewSourceFile splits content into lines for excerpting.
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		lines:    strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n"),
	}
}

// Line returns the 1-based source line, without its terminator, or the
// empty string when the line number is out of range.
func (sf *SourceFile) Line(n int) string {
	if n < 1 || n > len(sf.lines) {
		return ""
	}
	return sf.lines[n-1]
}

// Excerpt renders the line under the span's start together with a caret
// marker for the spanned columns. Placeholder spans and spans outside
// the file render as the empty string.
func (sf *SourceFile) Excerpt(span Span) string {
	if span.IsPlaceholder() || span.Start.Line < 1 || span.Start.Column < 1 {
		return ""
	}

	line := sf.Line(span.Start.Line)
	if line == "" {
		return ""
	}

	width := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		width = span.End.Column - span.Start.Column
	}
	if rest := len(line) - (span.Start.Column - 1); width > rest && rest > 0 {
		width = rest
	}

	marker := strings.Repeat(" ", span.Start.Column-1) + strings.Repeat("^", width)
	return line + "\n" + marker
}
