// Package modules resolves imported module names to source files,
// extracts their declared effect signatures, and caches those
// signatures in a store that is safe for concurrent readers with
// explicit invalidation. It also reads the clarity.json project
// manifest.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/parser"
)

// SourceExt is the extension of Clarity source files.
const SourceExt = ".src"

// NotFoundError reports a module that resolved to no file on any
// search path.
type NotFoundError struct {
	Name  string
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found on search paths %v", e.Name, e.Paths)
}

// Resolve maps a dotted module name to a source file, trying each
// search path in order. A module a.b.c resolves to a.b.c.src.
func Resolve(name string, searchPaths []string) (string, error) {
	filename := name + SourceExt
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &NotFoundError{Name: name, Paths: searchPaths}
}

// IsLocalModule reports whether an import name looks like a local
// module rather than a package or library alias. Names without a
// module separator are treated as library aliases and skipped by the
// checker instead of hard-failing.
func IsLocalModule(name string) bool {
	return strings.Contains(name, ".")
}

// LoadSignatures resolves a module and extracts the declared effect
// surface of each of its functions, keyed by bare function name.
// Callers qualify the keys with the import alias.
func LoadSignatures(name string, searchPaths []string, lex *lexicon.Lexicon) (map[string]effects.Signature, error) {
	path, err := Resolve(name, searchPaths)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module %q: %w", name, err)
	}

	tokens, err := lexer.LexFile(string(source), lex, path)
	if err != nil {
		return nil, fmt.Errorf("lexing module %q: %w", name, err)
	}

	// Parse diagnostics are the owning module's problem; the importer
	// only needs whatever declared effects survived recovery.
	astModule, _ := parser.Parse(tokens)

	sigs := make(map[string]effects.Signature)
	for _, d := range astModule.Decls {
		fn, ok := d.(*ast.Func)
		if !ok {
			continue
		}
		sig := effects.Signature{Effects: fn.Effects}
		for _, c := range fn.EffectCaps {
			sig.Capabilities = append(sig.Capabilities, effects.Capability(c))
		}
		sigs[fn.Name] = sig
	}
	return sigs, nil
}
