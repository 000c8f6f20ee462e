// Package ast defines the Clarity abstract syntax tree produced by the
// parser. Node families are closed unions: Decl, Stmt, Expr, and Pattern
// are sealed interfaces and downstream code switches over the concrete
// structs exhaustively. Every node carries a span; declarations also
// record a separate name span for navigation tooling.
package ast

import (
	"github.com/clarity-lang/clarity/internal/position"
	"github.com/clarity-lang/clarity/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	Span() position.Span
}

// Module is one parsed source document.
type Module struct {
	Name     string
	NameSpan position.Span
	Decls    []Decl
	SpanAll  position.Span
}

func (m *Module) Span() position.Span { return m.SpanAll }

// Decl is the closed interface over top-level declarations.
type Decl interface {
	Node
	isDecl()
}

// Import brings another module into scope, optionally under an alias.
type Import struct {
	Name     string // dotted module name
	AsName   string // optional alias; empty when absent
	SpanAll  position.Span
	NameSpan position.Span
}

// Field is one field of a Data declaration. Order is significant for
// positional pattern matching.
type Field struct {
	Name        string
	Type        types.Type
	Annotations []string
	SpanAll     position.Span
}

// Data declares a record type.
type Data struct {
	Name     string
	Fields   []Field
	SpanAll  position.Span
	NameSpan position.Span
}

// Enum declares a closed set of variants.
type Enum struct {
	Name     string
	Variants []string
	SpanAll  position.Span
	NameSpan position.Span
}

// Param is one function parameter.
type Param struct {
	Name    string
	Type    types.Type
	SpanAll position.Span
}

// Func declares a function. TypeParams and EffectParams introduce fresh
// variables scoped to the body only. EffectCapsExplicit records whether
// the capability list was written in the source; an absent list is not
// the same as an empty one.
type Func struct {
	Name               string
	TypeParams         []string
	EffectParams       []string
	Params             []Param
	Ret                types.Type
	RetTypeInferred    bool
	Effects            []string // declared coarse effects: io, cpu
	EffectCaps         []string // declared fine-grained capabilities
	EffectCapsExplicit bool
	Body               []Stmt
	SpanAll            position.Span
	NameSpan           position.Span
}

func (d *Import) Span() position.Span { return d.SpanAll }
func (d *Data) Span() position.Span   { return d.SpanAll }
func (d *Enum) Span() position.Span   { return d.SpanAll }
func (d *Func) Span() position.Span   { return d.SpanAll }

func (*Import) isDecl() {}
func (*Data) isDecl()   {}
func (*Enum) isDecl()   {}
func (*Func) isDecl()   {}

// Stmt is the closed interface over statements.
type Stmt interface {
	Node
	isStmt()
}

// Let binds a new name.
type Let struct {
	Name    string
	Type    types.Type // nil when inferred
	Value   Expr
	SpanAll position.Span
}

// Set assigns to an existing binding.
type Set struct {
	Name    string
	Value   Expr
	SpanAll position.Span
}

// Return exits the function, optionally with a value.
type Return struct {
	Value   Expr // nil for bare return
	SpanAll position.Span
}

// If branches on a condition.
type If struct {
	Cond      Expr
	ThenBlock []Stmt
	ElseBlock []Stmt // nil when absent
	SpanAll   position.Span
}

// MatchCase is one case arm of a Match.
type MatchCase struct {
	Pattern Pattern
	Block   []Stmt
	SpanAll position.Span
}

// Match branches on a scrutinee by pattern.
type Match struct {
	Expr    Expr
	Cases   []MatchCase
	SpanAll position.Span
}

// Scope is a nested lexical block.
type Scope struct {
	Statements []Stmt
	SpanAll    position.Span
}

// Start spawns a named asynchronous task.
type Start struct {
	Name    string
	Value   Expr
	SpanAll position.Span
}

// Wait joins on previously started tasks.
type Wait struct {
	Names   []string
	SpanAll position.Span
}

// Workflow is a saga-style sequence of compensating steps. It is accepted
// structurally; execution semantics live outside the frontend.
type Workflow struct {
	Steps   []Stmt
	Retry   int // 0 when absent
	Timeout int // 0 when absent
	SpanAll position.Span
}

func (s *Let) Span() position.Span      { return s.SpanAll }
func (s *Set) Span() position.Span      { return s.SpanAll }
func (s *Return) Span() position.Span   { return s.SpanAll }
func (s *If) Span() position.Span       { return s.SpanAll }
func (s *Match) Span() position.Span    { return s.SpanAll }
func (s *Scope) Span() position.Span    { return s.SpanAll }
func (s *Start) Span() position.Span    { return s.SpanAll }
func (s *Wait) Span() position.Span     { return s.SpanAll }
func (s *Workflow) Span() position.Span { return s.SpanAll }

func (*Let) isStmt()      {}
func (*Set) isStmt()      {}
func (*Return) isStmt()   {}
func (*If) isStmt()       {}
func (*Match) isStmt()    {}
func (*Scope) isStmt()    {}
func (*Start) isStmt()    {}
func (*Wait) isStmt()     {}
func (*Workflow) isStmt() {}

// Expr is the closed interface over expressions.
type Expr interface {
	Node
	isExpr()
}

// LitKind distinguishes literal expressions.
type LitKind int

const (
	LitInt LitKind = iota
	LitLong
	LitDouble
	LitBool
	LitString
	LitNull
	LitNone
)

// Lit is a literal value. Numeric values keep their source text so
// arbitrary precision survives until lowering decides a representation.
type Lit struct {
	Kind    LitKind
	Text    string
	SpanAll position.Span
}

// Name references a binding, possibly through dotted field access.
type Name struct {
	Parts   []string // at least one element
	SpanAll position.Span
}

// Ident returns the base identifier of the name.
func (n *Name) Ident() string { return n.Parts[0] }

// Dotted returns the full dotted spelling.
func (n *Name) Dotted() string {
	out := n.Parts[0]
	for _, p := range n.Parts[1:] {
		out += "." + p
	}
	return out
}

// Call invokes a function.
type Call struct {
	Target  *Name
	Args    []Expr
	SpanAll position.Span
}

// ConstructField is one named field in a Construct expression.
type ConstructField struct {
	Name  string
	Value Expr
}

// Construct builds a Data value.
type Construct struct {
	TypeName string
	Fields   []ConstructField
	SpanAll  position.Span
}

// CtorKind distinguishes the built-in payload constructors.
type CtorKind int

const (
	CtorOk CtorKind = iota
	CtorErr
	CtorSome
)

// Ctor wraps a payload in Ok, Err, or Some.
type Ctor struct {
	Kind    CtorKind
	Value   Expr
	SpanAll position.Span
}

// Lambda is an anonymous function.
type Lambda struct {
	Params  []Param
	Ret     types.Type // nil when inferred
	Body    Expr
	SpanAll position.Span
}

// Await suspends on an asynchronous expression.
type Await struct {
	Value   Expr
	SpanAll position.Span
}

func (e *Lit) Span() position.Span       { return e.SpanAll }
func (e *Name) Span() position.Span      { return e.SpanAll }
func (e *Call) Span() position.Span      { return e.SpanAll }
func (e *Construct) Span() position.Span { return e.SpanAll }
func (e *Ctor) Span() position.Span      { return e.SpanAll }
func (e *Lambda) Span() position.Span    { return e.SpanAll }
func (e *Await) Span() position.Span     { return e.SpanAll }

func (*Lit) isExpr()       {}
func (*Name) isExpr()      {}
func (*Call) isExpr()      {}
func (*Construct) isExpr() {}
func (*Ctor) isExpr()      {}
func (*Lambda) isExpr()    {}
func (*Await) isExpr()     {}

// Pattern is the closed interface over match patterns.
type Pattern interface {
	Node
	isPattern()
}

// PatNull matches the null case of a Maybe scrutinee.
type PatNull struct {
	SpanAll position.Span
}

// PatName binds the whole scrutinee to a name (a wildcard).
type PatName struct {
	Name    string
	SpanAll position.Span
}

// PatInt matches an integer literal.
type PatInt struct {
	Text    string
	SpanAll position.Span
}

// PatCtor covers Ok, Err, Some, enum-variant, and record-destructuring
// forms. Names bind the constructor's payload or fields positionally.
type PatCtor struct {
	TypeName string
	Names    []string
	SpanAll  position.Span
}

func (p *PatNull) Span() position.Span { return p.SpanAll }
func (p *PatName) Span() position.Span { return p.SpanAll }
func (p *PatInt) Span() position.Span  { return p.SpanAll }
func (p *PatCtor) Span() position.Span { return p.SpanAll }

func (*PatNull) isPattern() {}
func (*PatName) isPattern() {}
func (*PatInt) isPattern()  {}
func (*PatCtor) isPattern() {}
