package effects

import (
	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/position"
)

// CallSite is one effectful call found in a function body.
type CallSite struct {
	Target     string
	Capability Capability
	Effect     string
	Span       position.Span
}

// Usage is the inferred effect surface of one function body.
type Usage struct {
	Sites []CallSite
}

// HasIO reports whether any site carries the io effect.
func (u *Usage) HasIO() bool { return u.hasEffect(EffectIO) }

// HasCPU reports whether any site carries the cpu effect.
func (u *Usage) HasCPU() bool { return u.hasEffect(EffectCPU) }

func (u *Usage) hasEffect(name string) bool {
	for _, s := range u.Sites {
		if s.Effect == name {
			return true
		}
	}
	return false
}

// FirstSite returns the first site with the given effect.
func (u *Usage) FirstSite(effect string) (CallSite, bool) {
	for _, s := range u.Sites {
		if s.Effect == effect {
			return s, true
		}
	}
	return CallSite{}, false
}

// UsedCapabilities returns the distinct capabilities in use, in stable
// order.
func (u *Usage) UsedCapabilities() []Capability {
	set := make(map[Capability]bool)
	for _, s := range u.Sites {
		if s.Capability != "" {
			set[s.Capability] = true
		}
	}
	return sortedCaps(set)
}

// SitesOf returns the call sites using one capability, in source order.
func (u *Usage) SitesOf(cap Capability) []CallSite {
	var out []CallSite
	for _, s := range u.Sites {
		if s.Capability == cap {
			out = append(out, s)
		}
	}
	return out
}

// InferUsage walks a function body and classifies every call target
// against the pattern config and the imported effect signatures. An
// imported function's declared effects count as local usage, so calling
// an effectful import without redeclaring the effect is caught here.
func InferUsage(fn *core.Func, cfg *Config, imports map[string]Signature) *Usage {
	u := &Usage{}
	walkStmts(fn.Body, func(call *core.Call) {
		target := call.Target.Dotted()

		if cap, effect := cfg.CapabilityOf(target); effect != "" {
			u.Sites = append(u.Sites, CallSite{
				Target:     target,
				Capability: cap,
				Effect:     effect,
				Span:       call.Span,
			})
			return
		}

		sig, ok := imports[target]
		if !ok {
			return
		}
		for _, effect := range sig.Effects {
			site := CallSite{Target: target, Effect: effect, Span: call.Span}
			if len(sig.Capabilities) > 0 {
				for _, c := range sig.Capabilities {
					site.Capability = c
					u.Sites = append(u.Sites, site)
				}
			} else {
				u.Sites = append(u.Sites, site)
			}
		}
	})
	return u
}

func walkStmts(stmts []core.Stmt, visit func(*core.Call)) {
	for _, s := range stmts {
		switch ss := s.(type) {
		case *core.Let:
			walkExpr(ss.Value, visit)
		case *core.Set:
			walkExpr(ss.Value, visit)
		case *core.Return:
			walkExpr(ss.Value, visit)
		case *core.If:
			walkExpr(ss.Cond, visit)
			walkStmts(ss.ThenBlock, visit)
			walkStmts(ss.ElseBlock, visit)
		case *core.Match:
			walkExpr(ss.Expr, visit)
			for _, c := range ss.Cases {
				walkStmts(c.Block, visit)
			}
		case *core.Scope:
			walkStmts(ss.Statements, visit)
		case *core.Start:
			walkExpr(ss.Value, visit)
		case *core.Workflow:
			walkStmts(ss.Steps, visit)
		}
	}
}

func walkExpr(e core.Expr, visit func(*core.Call)) {
	switch ee := e.(type) {
	case *core.Call:
		visit(ee)
		for _, a := range ee.Args {
			walkExpr(a, visit)
		}
	case *core.Construct:
		for _, f := range ee.Fields {
			walkExpr(f.Value, visit)
		}
	case *core.Ctor:
		walkExpr(ee.Value, visit)
	case *core.Lambda:
		walkExpr(ee.Body, visit)
	case *core.Await:
		walkExpr(ee.Value, visit)
	}
}
