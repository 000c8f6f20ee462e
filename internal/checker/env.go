package checker

import (
	"strings"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/modules"
)

// moduleEnv is the declaration environment of one module: its own data,
// enum, and function declarations plus the effect signatures of its
// imports, qualified by import alias.
type moduleEnv struct {
	data     map[string]*core.Data
	enums    map[string]*core.Enum
	variants map[string]string // variant name -> enum name
	funcs    map[string]*core.Func
	imports  map[string]effects.Signature // "Alias.fn" -> signature
}

// buildEnv collects declarations and loads import signatures, reporting
// module-load failures and shadowed import aliases.
func buildEnv(module *core.Module, opts Options) (*moduleEnv, []diagnostic.Diagnostic) {
	env := &moduleEnv{
		data:     make(map[string]*core.Data),
		enums:    make(map[string]*core.Enum),
		variants: make(map[string]string),
		funcs:    make(map[string]*core.Func),
		imports:  make(map[string]effects.Signature),
	}
	var diags []diagnostic.Diagnostic

	aliases := make(map[string]string) // alias -> module name

	for _, d := range module.Decls {
		switch dd := d.(type) {
		case *core.Data:
			env.data[dd.Name] = dd
		case *core.Enum:
			env.enums[dd.Name] = dd
			for _, v := range dd.Variants {
				env.variants[v] = dd.Name
			}
		case *core.Func:
			env.funcs[dd.Name] = dd
		case *core.Import:
			diags = append(diags, loadImport(dd, env, aliases, opts)...)
		}
	}

	return env, diags
}

func loadImport(imp *core.Import, env *moduleEnv, aliases map[string]string, opts Options) []diagnostic.Diagnostic {
	// Names without a module separator are library aliases supplied by
	// the runtime, not local modules; there is nothing to load.
	if !modules.IsLocalModule(imp.Name) {
		return nil
	}

	alias := imp.AsName
	if alias == "" {
		parts := strings.Split(imp.Name, ".")
		alias = parts[len(parts)-1]
	}

	var diags []diagnostic.Diagnostic
	if previous, taken := aliases[alias]; taken {
		diags = append(diags, diagnostic.Warnf(diagnostic.CodeShadowedImport,
			imp.NameOrigin, "import alias %q shadows the earlier import of %s", alias, previous))
	}
	aliases[alias] = imp.Name

	sigs, err := loadSignatures(imp.Name, opts)
	if err != nil {
		diags = append(diags, diagnostic.Errorf(diagnostic.CodeModuleNotFound,
			imp.NameOrigin, "cannot load module %q: %v", imp.Name, err))
		return diags
	}

	for fnName, sig := range sigs {
		env.imports[alias+"."+fnName] = sig
	}
	return diags
}

func loadSignatures(name string, opts Options) (map[string]effects.Signature, error) {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.English()
	}
	if opts.Store != nil {
		return opts.Store.Load(name, opts.SearchPaths, lex)
	}
	return modules.LoadSignatures(name, opts.SearchPaths, lex)
}
