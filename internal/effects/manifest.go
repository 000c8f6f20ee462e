package effects

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/clarity-lang/clarity/internal/diagnostic"
)

// Manifest restricts which call sites a capability may reach, with
// allow and deny glob patterns over dotted call targets. It is applied
// after the per-function effect and capability check and independently
// of it: a locally declared capability can still be forbidden here.
type Manifest struct {
	Allow map[Capability][]string `json:"allow,omitempty"`
	Deny  map[Capability][]string `json:"deny,omitempty"`
}

// LoadManifest reads a capability manifest from a JSON file.
func LoadManifest(p string) (*Manifest, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading capability manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing capability manifest %s: %w", p, err)
	}
	return &m, nil
}

// Apply checks every capability-bearing call site against the manifest.
// A site is forbidden when a deny pattern matches it, or when an allow
// list exists for its capability and no allow pattern matches.
func (m *Manifest) Apply(usage *Usage) []diagnostic.Diagnostic {
	if m == nil {
		return nil
	}

	var diags []diagnostic.Diagnostic
	for _, site := range usage.Sites {
		if site.Capability == "" {
			continue
		}

		if matchesGlob(site.Target, m.Deny[site.Capability]) {
			diags = append(diags, diagnostic.Errorf(diagnostic.CodeCapNotAllowed,
				site.Span, "call to %q is denied by the %s capability manifest",
				site.Target, site.Capability))
			continue
		}

		allow, restricted := m.Allow[site.Capability]
		if restricted && !matchesGlob(site.Target, allow) {
			diags = append(diags, diagnostic.Errorf(diagnostic.CodeCapNotAllowed,
				site.Span, "call to %q is outside the %s capability allow list",
				site.Target, site.Capability))
		}
	}
	return diags
}

// matchesGlob tests a dotted call target against glob patterns. Dotted
// names contain no path separator, so path.Match semantics give plain
// shell-style wildcards.
func matchesGlob(target string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, target); err == nil && ok {
			return true
		}
	}
	return false
}
