// Package symbols implements the scoped symbol table used during
// checking: variable bindings with shadowing links and closure-capture
// tracking, plus a module-scoped, memoized type-alias cache.
package symbols

import (
	"errors"
	"fmt"

	"github.com/clarity-lang/clarity/internal/types"
)

// Kind classifies how a symbol was introduced.
type Kind int

const (
	KindParam Kind = iota
	KindVar
)

// ScopeKind classifies a lexical scope. Closure scopes are the capture
// boundary: a lookup that crosses one marks the found symbol captured.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeClosure
)

// Symbol is one binding. ShadowedFrom links to the outer binding this one
// occludes; the outer symbol is never destroyed, only unreachable until
// the inner scope exits. Captured flips true the first time a nested
// closure references the symbol.
type Symbol struct {
	Name         string
	Type         types.Type
	Kind         Kind
	ScopeID      int
	ShadowedFrom *Symbol
	Captured     bool
}

// DuplicateSymbolError reports a same-scope redefinition.
type DuplicateSymbolError struct {
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q is already defined in this scope", e.Name)
}

// ErrRootScope is returned by ExitScope when no scope is left to exit.
var ErrRootScope = errors.New("cannot exit the root scope")

type scope struct {
	id     int
	kind   ScopeKind
	parent *scope
	names  map[string]*Symbol
	order  []string
}

// ShadowHook observes a definition that occludes an outer binding.
type ShadowHook func(sym, outer *Symbol)

// DefineOption configures a single Define call.
type DefineOption func(*defineConfig)

type defineConfig struct {
	onShadow ShadowHook
}

// OnShadow installs a hook invoked when the new definition shadows an
// outer binding.
func OnShadow(hook ShadowHook) DefineOption {
	return func(c *defineConfig) { c.onShadow = hook }
}

// Table is a scoped symbol table. Not safe for concurrent use; each
// checker run owns its own table.
type Table struct {
	root    *scope
	current *scope
	nextID  int

	aliases   map[string]types.Type
	resolved  map[string]types.Type
	resolving map[string]bool

	defined []*Symbol // insertion order, for deterministic capture reports
}

// NewTable returns a table with the root (module) scope open.
func NewTable() *Table {
	root := &scope{id: 0, kind: ScopeModule, names: make(map[string]*Symbol)}
	return &Table{
		root:      root,
		current:   root,
		nextID:    1,
		aliases:   make(map[string]types.Type),
		resolved:  make(map[string]types.Type),
		resolving: make(map[string]bool),
	}
}

// EnterScope opens a nested scope of the given kind.
func (t *Table) EnterScope(kind ScopeKind) {
	t.current = &scope{
		id:     t.nextID,
		kind:   kind,
		parent: t.current,
		names:  make(map[string]*Symbol),
	}
	t.nextID++
}

// ExitScope closes the current scope. Exiting the root scope is an error.
func (t *Table) ExitScope() error {
	if t.current.parent == nil {
		return ErrRootScope
	}
	t.current = t.current.parent
	return nil
}

// Define binds a name in the current scope. Redefining a name in the
// same scope is a DuplicateSymbolError; occluding an outer binding is
// allowed and reported through the OnShadow option.
func (t *Table) Define(name string, typ types.Type, kind Kind, opts ...DefineOption) (*Symbol, error) {
	var cfg defineConfig
	for _, o := range opts {
		o(&cfg)
	}

	if _, exists := t.current.names[name]; exists {
		return nil, &DuplicateSymbolError{Name: name}
	}

	sym := &Symbol{Name: name, Type: typ, Kind: kind, ScopeID: t.current.id}

	if outer, ok := t.lookupFrom(t.current.parent, name); ok {
		sym.ShadowedFrom = outer
		if cfg.onShadow != nil {
			cfg.onShadow(sym, outer)
		}
	}

	t.current.names[name] = sym
	t.current.order = append(t.current.order, name)
	t.defined = append(t.defined, sym)
	return sym, nil
}

// Lookup walks outward through enclosing scopes.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	return t.lookupFrom(t.current, name)
}

// LookupInCurrentScope checks only the innermost scope.
func (t *Table) LookupInCurrentScope(name string) (*Symbol, bool) {
	sym, ok := t.current.names[name]
	return sym, ok
}

func (t *Table) lookupFrom(s *scope, name string) (*Symbol, bool) {
	for ; s != nil; s = s.parent {
		if sym, ok := s.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// MarkCaptured flags the named symbol as captured by a closure. It
// reports whether the name resolved. Symbols defined inside the current
// closure scope itself are not captures.
func (t *Table) MarkCaptured(name string) bool {
	crossedClosure := false
	for s := t.current; s != nil; s = s.parent {
		if sym, ok := s.names[name]; ok {
			if crossedClosure {
				sym.Captured = true
			}
			return true
		}
		if s.kind == ScopeClosure {
			crossedClosure = true
		}
	}
	return false
}

// CapturedSymbols returns every captured symbol in definition order.
func (t *Table) CapturedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range t.defined {
		if sym.Captured {
			out = append(out, sym)
		}
	}
	return out
}
