package effects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/parser"
)

func lowerFunc(t *testing.T, src string) *core.Func {
	t.Helper()
	tokens, err := lexer.Lex(src, lexicon.English())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	astModule, diags := parser.Parse(tokens)
	for _, d := range diags {
		t.Fatalf("parse diagnostic: %s", d)
	}
	module := core.LowerModule(astModule)
	for _, d := range module.Decls {
		if fn, ok := d.(*core.Func); ok {
			return fn
		}
	}
	t.Fatal("no function in source")
	return nil
}

func codesOf(diags []diagnostic.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func hasCode(diags []diagnostic.Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestInferHTTPUsage(t *testing.T) {
	fn := lowerFunc(t, `To fetch (url: String) gives String with io:
  Return Http.get(url).
`)
	usage := InferUsage(fn, DefaultConfig(), nil)

	if !usage.HasIO() {
		t.Error("Http.get should infer io")
	}
	if usage.HasCPU() {
		t.Error("no cpu work here")
	}
	caps := usage.UsedCapabilities()
	if len(caps) != 1 || caps[0] != CapHTTP {
		t.Errorf("capabilities = %v, want [Http]", caps)
	}
}

func TestUndeclaredIOIsError(t *testing.T) {
	fn := lowerFunc(t, `To fetch (url: String) gives String:
  Return Http.get(url).
`)
	usage := InferUsage(fn, DefaultConfig(), nil)
	diags := CheckFunc(fn, usage)

	if !hasCode(diags, diagnostic.CodeEffectUndeclaredIO) {
		t.Errorf("diagnostics = %v, want EFF_UNDECLARED_IO", codesOf(diags))
	}
}

func TestRedundantEffectIsWarning(t *testing.T) {
	fn := lowerFunc(t, `To pure (n: Int) gives Int with io:
  Return n.
`)
	diags := CheckFunc(fn, InferUsage(fn, DefaultConfig(), nil))

	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want one", codesOf(diags))
	}
	if diags[0].Code != diagnostic.CodeEffectRedundant || diags[0].Severity != diagnostic.SeverityWarning {
		t.Errorf("got %s at severity %s", diags[0].Code, diags[0].Severity)
	}
}

func TestCapabilityMissingAndSuperfluous(t *testing.T) {
	fn := lowerFunc(t, `To mixed (url: String) gives String with io using Sql:
  Return Http.get(url).
`)
	diags := CheckFunc(fn, InferUsage(fn, DefaultConfig(), nil))

	if !hasCode(diags, diagnostic.CodeCapMissing) {
		t.Errorf("diagnostics = %v, want EFF_CAP_MISSING for Http", codesOf(diags))
	}
	found := false
	for _, d := range diags {
		if d.Code == diagnostic.CodeCapSuperfluous && d.Severity == diagnostic.SeverityInfo {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want info EFF_CAP_SUPERFLUOUS for Sql", codesOf(diags))
	}
}

func TestImplicitCapabilityListIsNotChecked(t *testing.T) {
	fn := lowerFunc(t, `To fetch (url: String) gives String with io:
  Return Http.get(url).
`)
	diags := CheckFunc(fn, InferUsage(fn, DefaultConfig(), nil))

	if hasCode(diags, diagnostic.CodeCapMissing) {
		t.Error("absent capability list must not behave like an empty one")
	}
}

func TestImportedSignatureCountsAsUsage(t *testing.T) {
	fn := lowerFunc(t, `To total (id: String) gives Double:
  Return Tax.compute(id).
`)
	imports := map[string]Signature{
		"Tax.compute": {Effects: []string{EffectIO}, Capabilities: []Capability{CapSQL}},
	}
	usage := InferUsage(fn, DefaultConfig(), imports)

	if !usage.HasIO() {
		t.Error("imported io signature should count as local usage")
	}
	diags := CheckFunc(fn, usage)
	if !hasCode(diags, diagnostic.CodeEffectUndeclaredIO) {
		t.Errorf("diagnostics = %v, want EFF_UNDECLARED_IO", codesOf(diags))
	}
}

func TestUnknownCapabilitySuggestion(t *testing.T) {
	fn := lowerFunc(t, `To fetch (url: String) gives String with io using http:
  Return Http.get(url).
`)
	diags := CheckDeclaredCapabilities(fn)

	if len(diags) != 1 || diags[0].Code != diagnostic.CodeCapUnknown {
		t.Fatalf("diagnostics = %v, want one EFF_CAP_UNKNOWN", codesOf(diags))
	}
	if len(diags[0].Suggestions) == 0 || diags[0].Suggestions[0] != "Http" {
		t.Errorf("suggestions = %v, want Http first", diags[0].Suggestions)
	}
}

func TestManifestDeny(t *testing.T) {
	fn := lowerFunc(t, `To fetch (url: String) gives String with io using Http:
  Return Http.get(url).
`)
	usage := InferUsage(fn, DefaultConfig(), nil)

	m := &Manifest{Deny: map[Capability][]string{CapHTTP: {"Http.get"}}}
	diags := m.Apply(usage)

	if len(diags) != 1 || diags[0].Code != diagnostic.CodeCapNotAllowed {
		t.Fatalf("diagnostics = %v, want one CAPABILITY_NOT_ALLOWED", codesOf(diags))
	}
}

func TestManifestAllowList(t *testing.T) {
	fn := lowerFunc(t, `To fetch (url: String) gives String with io using Http:
  Return Http.post(url).
`)
	usage := InferUsage(fn, DefaultConfig(), nil)

	m := &Manifest{Allow: map[Capability][]string{CapHTTP: {"Http.get"}}}
	diags := m.Apply(usage)

	if !hasCode(diags, diagnostic.CodeCapNotAllowed) {
		t.Errorf("Http.post is outside the allow list; diagnostics = %v", codesOf(diags))
	}

	allowed := &Manifest{Allow: map[Capability][]string{CapHTTP: {"Http.*"}}}
	if diags := allowed.Apply(usage); len(diags) != 0 {
		t.Errorf("wildcard allow rejected the call: %v", codesOf(diags))
	}
}

func TestLoadManifestFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "capabilities.json")
	content := `{"deny": {"Http": ["Http.post"]}, "allow": {"Sql": ["Db.rate"]}}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(file)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Deny[CapHTTP]; len(got) != 1 || got[0] != "Http.post" {
		t.Errorf("deny patterns = %v", got)
	}

	fn := lowerFunc(t, `To push (url: String) gives String with io using Http:
  Return Http.post(url).
`)
	diags := m.Apply(InferUsage(fn, DefaultConfig(), nil))
	if len(diags) != 1 || diags[0].Code != diagnostic.CodeCapNotAllowed {
		t.Fatalf("diagnostics = %v, want one CAPABILITY_NOT_ALLOWED", codesOf(diags))
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing manifest must be an error")
	}
}

func TestLoadConfigFallback(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if cap, effect := cfg.CapabilityOf("Http.get"); cap != CapHTTP || effect != EffectIO {
		t.Errorf("fallback defaults missing: %s %s", cap, effect)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0o644)
	cfg = LoadConfig(bad)
	if cap, _ := cfg.CapabilityOf("Db.query"); cap != CapSQL {
		t.Error("malformed config should fall back to defaults")
	}
}

func TestLoadConfigCustomPatterns(t *testing.T) {
	file := filepath.Join(t.TempDir(), "effects.json")
	content := `{"patterns": {"io": {"http": ["Web."]}, "cpu": ["Hash."]}}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(file)
	if cap, _ := cfg.CapabilityOf("Web.fetch"); cap != CapHTTP {
		t.Errorf("custom pattern not applied: %s", cap)
	}
	if cap, effect := cfg.CapabilityOf("Hash.sum"); cap != CapCPU || effect != EffectCPU {
		t.Errorf("custom cpu pattern not applied: %s %s", cap, effect)
	}
}
