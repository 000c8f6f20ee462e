// Package checker is the module driver: it runs the type, effect,
// capability, and async discipline checks over a lowered module and
// aggregates their diagnostics. Checking is a pure function of the
// module and its options; all declarations are checked even after
// errors, for maximal diagnostic yield.
package checker

import (
	"github.com/clarity-lang/clarity/internal/asynccheck"
	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/modules"
)

// Options configures one checker run. The zero value checks a module
// with no imports resolvable, the English lexicon, and default feature
// flags.
type Options struct {
	// Store caches imported effect signatures across runs. Nil loads
	// signatures directly without caching.
	Store *modules.Store

	// SearchPaths are the directories searched, in order, for imported
	// module sources.
	SearchPaths []string

	// Lexicon drives lexing of imported modules and localized message
	// text. Nil selects English.
	Lexicon *lexicon.Lexicon

	// DocumentURI stamps diagnostics that carry no filename of their
	// own, so editor tooling can attribute them.
	DocumentURI string

	// Config carries feature flags; nil resolves from the environment.
	Config *Config
}

// CheckModule type-checks a module and validates its effect and async
// discipline. The returned diagnostics are deterministically ordered.
func CheckModule(module *core.Module, opts Options) []diagnostic.Diagnostic {
	return CheckModuleWithCapabilities(module, nil, opts)
}

// CheckModuleWithCapabilities additionally applies a capability
// manifest to every capability-bearing call site. The manifest check is
// independent of the per-function effect check and runs after it.
func CheckModuleWithCapabilities(module *core.Module, manifest *effects.Manifest, opts Options) []diagnostic.Diagnostic {
	cfg := ResolveConfig(opts.Config)
	effCfg := effects.LoadConfig(cfg.EffectsConfigPath)

	engine := diagnostic.NewEngine()

	env, envDiags := buildEnv(module, opts)
	engine.AddAll(envDiags)

	for _, d := range module.Decls {
		fn, ok := d.(*core.Func)
		if !ok {
			continue
		}

		fc := newFuncChecker(fn, env, cfg, effCfg)
		engine.AddAll(fc.check())

		usage := effects.InferUsage(fn, effCfg, env.imports)
		engine.AddAll(effects.CheckFunc(fn, usage))
		engine.AddAll(effects.CheckDeclaredCapabilities(fn))
		if manifest != nil {
			engine.AddAll(manifest.Apply(usage))
		}

		engine.AddAll(asynccheck.Check(fn))
	}

	engine.Sort()
	return stampOrigin(engine.Diagnostics(), opts.DocumentURI)
}

// stampOrigin fills in the document URI on diagnostics that have no
// filename of their own.
func stampOrigin(diags []diagnostic.Diagnostic, uri string) []diagnostic.Diagnostic {
	if uri == "" {
		return diags
	}
	for i := range diags {
		if diags[i].Span.Start.Filename == "" {
			diags[i].Span.Start.Filename = uri
			diags[i].Span.End.Filename = uri
		}
	}
	return diags
}
