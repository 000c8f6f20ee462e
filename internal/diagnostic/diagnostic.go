// Diagnostic system for the Clarity compiler.
// Diagnostics carry stable string codes consumed by editor tooling;
// codes are never renamed or renumbered once published.

package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clarity-lang/clarity/internal/position"
)

// Severity represents the severity level of a diagnostic message.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Stable diagnostic codes. Downstream tooling matches on these strings.
const (
	// Lexer (fatal, reported through lexer.Error).
	CodeInvalidIndentation  = "INVALID_INDENTATION"
	CodeUnterminatedString  = "UNTERMINATED_STRING"
	CodeUnexpectedCharacter = "UNEXPECTED_CHARACTER"
	CodeInconsistentDedent  = "INCONSISTENT_DEDENT"

	// Parser.
	CodeSyntaxError = "SYNTAX_ERROR"

	// Symbols and types.
	CodeDuplicateSymbol     = "DUPLICATE_SYMBOL"
	CodeUndefinedName       = "UNDEFINED_NAME"
	CodeShadowedImport      = "SHADOWED_IMPORT"
	CodeReturnTypeMismatch  = "RETURN_TYPE_MISMATCH"
	CodeIfBranchMismatch    = "IF_BRANCH_MISMATCH"
	CodeMatchBranchMismatch = "MATCH_BRANCH_MISMATCH"
	CodeNonExhaustiveEnum   = "NON_EXHAUSTIVE_ENUM"
	CodeNonExhaustiveMaybe  = "NON_EXHAUSTIVE_MAYBE"
	CodeTypeParamConflict   = "TYPE_PARAM_CONFLICT"

	// Effects and capabilities.
	CodeEffectUndeclaredIO  = "EFF_UNDECLARED_IO"
	CodeEffectUndeclaredCPU = "EFF_UNDECLARED_CPU"
	CodeEffectRedundant     = "EFF_REDUNDANT"
	CodeCapMissing          = "EFF_CAP_MISSING"
	CodeCapSuperfluous      = "EFF_CAP_SUPERFLUOUS"
	CodeCapUnknown          = "EFF_CAP_UNKNOWN"
	CodeCapNotAllowed       = "CAPABILITY_NOT_ALLOWED"
	CodeModuleNotFound      = "MODULE_NOT_FOUND"
	CodePiiFlow             = "PII_DISALLOWED_FLOW"
	CodeManifestVersion     = "MANIFEST_LANGUAGE_VERSION"

	// Async discipline.
	CodeAsyncWaitBeforeStart = "ASYNC_WAIT_BEFORE_START"
	CodeAsyncDuplicateStart  = "ASYNC_DUPLICATE_START"
	CodeAsyncStartNotWaited  = "ASYNC_START_NOT_WAITED"
	CodeAsyncWaitNotStarted  = "ASYNC_WAIT_NOT_STARTED"
	CodeAsyncDuplicateWait   = "ASYNC_DUPLICATE_WAIT"
)

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code        string
	Message     string
	Suggestions []string
	Severity    Severity
	Span        position.Span
	Origin      position.Span
}

// Errorf builds an error diagnostic with a formatted message.
func Errorf(code string, span position.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Warnf builds a warning diagnostic with a formatted message.
func Warnf(code string, span position.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Infof builds an info diagnostic with a formatted message.
func Infof(code string, span position.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// String returns the single-line rendering used by the CLI.
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Span.IsValid() {
		b.WriteString(d.Span.Start.String())
		b.WriteString(": ")
	}

	fmt.Fprintf(&b, "%s[%s]: %s", d.Severity, d.Code, d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	return b.String()
}

// Engine manages the collection and ordering of diagnostics produced by a
// single checker run.
type Engine struct {
	diagnostics []Diagnostic
}

// NewEngine creates an empty diagnostic engine.
func NewEngine() *Engine {
	return &Engine{diagnostics: make([]Diagnostic, 0)}
}

// Add appends a diagnostic.
func (e *Engine) Add(d Diagnostic) {
	e.diagnostics = append(e.diagnostics, d)
}

// AddAll appends a batch of diagnostics.
func (e *Engine) AddAll(ds []Diagnostic) {
	e.diagnostics = append(e.diagnostics, ds...)
}

// Diagnostics returns all collected diagnostics.
func (e *Engine) Diagnostics() []Diagnostic {
	return e.diagnostics
}

// Errors returns only error-level diagnostics.
func (e *Engine) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)

	for _, d := range e.diagnostics {
		if d.Severity == SeverityError {
			errors = append(errors, d)
		}
	}

	return errors
}

// HasErrors returns true if there are any errors.
func (e *Engine) HasErrors() bool {
	return len(e.Errors()) > 0
}

// Sort orders diagnostics by position, then by severity (errors first).
// Ordering is deterministic: two runs over the same module produce the
// same sequence.
func (e *Engine) Sort() {
	sort.SliceStable(e.diagnostics, func(i, j int) bool {
		a, b := e.diagnostics[i], e.diagnostics[j]

		if a.Span.Start.Filename != b.Span.Start.Filename {
			return a.Span.Start.Filename < b.Span.Start.Filename
		}

		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}

		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}

		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}

		return a.Code < b.Code
	})
}

// Format returns a formatted listing of all diagnostics plus a summary.
func (e *Engine) Format() string {
	if len(e.diagnostics) == 0 {
		return "no issues found"
	}

	e.Sort()

	var result strings.Builder

	for _, d := range e.diagnostics {
		result.WriteString(d.String())
		result.WriteString("\n")
	}

	errorCount := 0
	warningCount := 0

	for _, d := range e.diagnostics {
		switch d.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarning:
			warningCount++
		}
	}

	fmt.Fprintf(&result, "%d error(s), %d warning(s)", errorCount, warningCount)

	return result.String()
}
