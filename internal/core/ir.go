// Package core defines the Core IR, the fully lowered representation that
// the checker and downstream emitters consume. The node families mirror
// the AST but every node carries an origin span stamped during lowering,
// and inferred return types have been resolved where simple inference
// succeeds. Like the AST, the families are closed unions.
package core

import (
	"github.com/clarity-lang/clarity/internal/position"
	"github.com/clarity-lang/clarity/internal/types"
)

// Node is implemented by every Core IR node.
type Node interface {
	Origin() position.Span
}

// Module is one lowered source document.
type Module struct {
	Name       string
	NameOrigin position.Span
	Decls      []Decl
	Span       position.Span
}

func (m *Module) Origin() position.Span { return m.Span }

// Decl is the closed interface over lowered declarations.
type Decl interface {
	Node
	isDecl()
}

type Import struct {
	Name       string
	AsName     string
	Span       position.Span
	NameOrigin position.Span
}

type Field struct {
	Name        string
	Type        types.Type
	Annotations []string
	Span        position.Span
}

type Data struct {
	Name       string
	Fields     []Field
	Span       position.Span
	NameOrigin position.Span
}

type Enum struct {
	Name       string
	Variants   []string
	Span       position.Span
	NameOrigin position.Span
}

type Param struct {
	Name string
	Type types.Type
	Span position.Span
}

// Func is a lowered function. Ret is never nil: when the source left the
// return type implicit and inference could not resolve it, Ret is Unknown
// and RetTypeInferred is true.
type Func struct {
	Name               string
	TypeParams         []string
	EffectParams       []string
	Params             []Param
	Ret                types.Type
	RetTypeInferred    bool
	Effects            []string
	EffectCaps         []string
	EffectCapsExplicit bool
	Body               []Stmt
	Span               position.Span
	NameOrigin         position.Span
}

func (d *Import) Origin() position.Span { return d.Span }
func (d *Data) Origin() position.Span   { return d.Span }
func (d *Enum) Origin() position.Span   { return d.Span }
func (d *Func) Origin() position.Span   { return d.Span }

func (*Import) isDecl() {}
func (*Data) isDecl()   {}
func (*Enum) isDecl()   {}
func (*Func) isDecl()   {}

// Stmt is the closed interface over lowered statements.
type Stmt interface {
	Node
	isStmt()
}

type Let struct {
	Name  string
	Type  types.Type // nil when inferred
	Value Expr
	Span  position.Span
}

type Set struct {
	Name  string
	Value Expr
	Span  position.Span
}

type Return struct {
	Value Expr // nil for bare return
	Span  position.Span
}

type If struct {
	Cond      Expr
	ThenBlock []Stmt
	ElseBlock []Stmt // nil when absent
	Span      position.Span
}

type MatchCase struct {
	Pattern Pattern
	Block   []Stmt
	Span    position.Span
}

type Match struct {
	Expr  Expr
	Cases []MatchCase
	Span  position.Span
}

type Scope struct {
	Statements []Stmt
	Span       position.Span
}

type Start struct {
	Name  string
	Value Expr
	Span  position.Span
}

type Wait struct {
	Names []string
	Span  position.Span
}

type Workflow struct {
	Steps   []Stmt
	Retry   int
	Timeout int
	Span    position.Span
}

func (s *Let) Origin() position.Span      { return s.Span }
func (s *Set) Origin() position.Span      { return s.Span }
func (s *Return) Origin() position.Span   { return s.Span }
func (s *If) Origin() position.Span       { return s.Span }
func (s *Match) Origin() position.Span    { return s.Span }
func (s *Scope) Origin() position.Span    { return s.Span }
func (s *Start) Origin() position.Span    { return s.Span }
func (s *Wait) Origin() position.Span     { return s.Span }
func (s *Workflow) Origin() position.Span { return s.Span }

func (*Let) isStmt()      {}
func (*Set) isStmt()      {}
func (*Return) isStmt()   {}
func (*If) isStmt()       {}
func (*Match) isStmt()    {}
func (*Scope) isStmt()    {}
func (*Start) isStmt()    {}
func (*Wait) isStmt()     {}
func (*Workflow) isStmt() {}

// Expr is the closed interface over lowered expressions.
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

type Lit struct {
	Kind LitKind
	Text string
	Span position.Span
}

type Name struct {
	Parts []string
	Span  position.Span
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

type Call struct {
	Target *Name
	Args   []Expr
	Span   position.Span
}

type ConstructField struct {
	Name  string
	Value Expr
}

type Construct struct {
	TypeName string
	Fields   []ConstructField
	Span     position.Span
}

// CtorKind distinguishes the built-in payload constructors.
type CtorKind int

const (
	CtorOk CtorKind = iota
	CtorErr
	CtorSome
)

type Ctor struct {
	Kind  CtorKind
	Value Expr
	Span  position.Span
}

type Lambda struct {
	Params []Param
	Ret    types.Type // nil when inferred
	Body   Expr
	Span   position.Span
}

type Await struct {
	Value Expr
	Span  position.Span
}

func (e *Lit) Origin() position.Span       { return e.Span }
func (e *Name) Origin() position.Span      { return e.Span }
func (e *Call) Origin() position.Span      { return e.Span }
func (e *Construct) Origin() position.Span { return e.Span }
func (e *Ctor) Origin() position.Span      { return e.Span }
func (e *Lambda) Origin() position.Span    { return e.Span }
func (e *Await) Origin() position.Span     { return e.Span }

func (*Lit) isExpr()       {}
func (*Name) isExpr()      {}
func (*Call) isExpr()      {}
func (*Construct) isExpr() {}
func (*Ctor) isExpr()      {}
func (*Lambda) isExpr()    {}
func (*Await) isExpr()     {}

// Pattern is the closed interface over lowered match patterns.
type Pattern interface {
	Node
	isPattern()
}

type PatNull struct {
	Span position.Span
}

type PatName struct {
	Name string
	Span position.Span
}

type PatInt struct {
	Text string
	Span position.Span
}

type PatCtor struct {
	TypeName string
	Names    []string
	Span     position.Span
}

func (p *PatNull) Origin() position.Span { return p.Span }
func (p *PatName) Origin() position.Span { return p.Span }
func (p *PatInt) Origin() position.Span  { return p.Span }
func (p *PatCtor) Origin() position.Span { return p.Span }

func (*PatNull) isPattern() {}
func (*PatName) isPattern() {}
func (*PatInt) isPattern()  {}
func (*PatCtor) isPattern() {}
