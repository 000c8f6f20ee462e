package checker

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/parser"
)

func lowerModule(t *testing.T, src string) *core.Module {
	t.Helper()
	tokens, err := lexer.Lex(src, lexicon.English())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	astModule, diags := parser.Parse(tokens)
	for _, d := range diags {
		t.Fatalf("parse diagnostic: %s", d)
	}
	return core.LowerModule(astModule)
}

func checkSource(t *testing.T, src string, opts Options) []diagnostic.Diagnostic {
	t.Helper()
	return CheckModule(lowerModule(t, src), opts)
}

func codesOf(diags []diagnostic.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func countCode(diags []diagnostic.Diagnostic, code string) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestCleanModule(t *testing.T) {
	src := `Module shop.orders

Data Order:
  id: String
  total: Double

To total (order: Order) gives Double:
  Return order.total.
`
	diags := checkSource(t, src, Options{})
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", codesOf(diags))
	}
}

func TestDeterminism(t *testing.T) {
	src := `Enum Status: Pending, Done.

To describe (status: Status) gives Int:
  Match status:
    Case Pending:
      Return 1.
  Wait ghost.
  Return 0.
`
	first := checkSource(t, src, Options{})
	second := checkSource(t, src, Options{})

	if len(first) != len(second) {
		t.Fatalf("runs disagree: %v vs %v", codesOf(first), codesOf(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i], second[i]) {
			t.Errorf("diagnostic %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestReturnTypeMismatch(t *testing.T) {
	src := `To answer (n: Int) gives String:
  Return n.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeReturnTypeMismatch) != 1 {
		t.Errorf("diagnostics = %v, want RETURN_TYPE_MISMATCH", codesOf(diags))
	}
}

func TestIfBranchMismatch(t *testing.T) {
	src := `To pick (flag: Bool):
  If flag:
    Return 1.
  Else:
    Return "one".
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeIfBranchMismatch) != 1 {
		t.Errorf("diagnostics = %v, want IF_BRANCH_MISMATCH", codesOf(diags))
	}
}

func TestIfBranchUnknownDefers(t *testing.T) {
	src := `To pick (flag: Bool) gives Int:
  If flag:
    Return 1.
  Else:
    Let unused = 2.
  Return 3.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeIfBranchMismatch) != 0 {
		t.Errorf("a branch without returns defers; diagnostics = %v", codesOf(diags))
	}
}

func TestEnumExhaustiveness(t *testing.T) {
	src := `Enum Status: Pending, Shipped, Done.

To describe (status: Status) gives Int:
  Match status:
    Case Pending:
      Return 1.
    Case Shipped:
      Return 2.
  Return 0.
`
	diags := checkSource(t, src, Options{})

	if countCode(diags, diagnostic.CodeNonExhaustiveEnum) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one NON_EXHAUSTIVE_ENUM", codesOf(diags))
	}
	for _, d := range diags {
		if d.Code == diagnostic.CodeNonExhaustiveEnum {
			if d.Severity != diagnostic.SeverityWarning {
				t.Errorf("severity = %s, want warning", d.Severity)
			}
			if !strings.Contains(d.Message, "Done") {
				t.Errorf("message %q does not name the missing variant", d.Message)
			}
		}
	}
}

func TestEnumWildcardSilencesExhaustiveness(t *testing.T) {
	src := `Enum Status: Pending, Shipped, Done.

To describe (status: Status) gives Int:
  Match status:
    Case Pending:
      Return 1.
    Case other:
      Return 0.
  Return 0.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeNonExhaustiveEnum) != 0 {
		t.Errorf("wildcard present; diagnostics = %v", codesOf(diags))
	}
}

func TestMaybeCoverage(t *testing.T) {
	incomplete := `To unwrap (value: Maybe<Int>) gives Int:
  Match value:
    Case Some(v):
      Return v.
  Return 0.
`
	diags := checkSource(t, incomplete, Options{})
	if countCode(diags, diagnostic.CodeNonExhaustiveMaybe) != 1 {
		t.Errorf("diagnostics = %v, want NON_EXHAUSTIVE_MAYBE", codesOf(diags))
	}

	complete := `To unwrap (value: Maybe<Int>) gives Int:
  Match value:
    Case null:
      Return 0.
    Case Some(v):
      Return v.
  Return 0.
`
	diags = checkSource(t, complete, Options{})
	if countCode(diags, diagnostic.CodeNonExhaustiveMaybe) != 0 {
		t.Errorf("both cases covered; diagnostics = %v", codesOf(diags))
	}
}

func TestResultPatternBindsPayload(t *testing.T) {
	src := `To unwrap (r: Result<Int, String>) gives Int:
  Match r:
    Case Ok(v):
      Return v.
    Case Err(e):
      Return e.
  Return 0.
`
	diags := checkSource(t, src, Options{})

	// Ok binds v to Int, which matches; Err binds e to String, which
	// does not.
	if countCode(diags, diagnostic.CodeReturnTypeMismatch) != 1 {
		t.Errorf("diagnostics = %v, want one RETURN_TYPE_MISMATCH from Err arm", codesOf(diags))
	}
}

func TestMatchBranchMismatch(t *testing.T) {
	src := `Enum Status: Pending, Done.

To describe (status: Status):
  Match status:
    Case Pending:
      Return 1.
    Case Done:
      Return "done".
  Return 0.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeMatchBranchMismatch) != 1 {
		t.Errorf("diagnostics = %v, want MATCH_BRANCH_MISMATCH", codesOf(diags))
	}
}

func TestUndefinedNameWithSuggestion(t *testing.T) {
	src := `To compute (total: Int) gives Int:
  Set tota = 2.
  Return total.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeUndefinedName) != 1 {
		t.Fatalf("diagnostics = %v, want UNDEFINED_NAME", codesOf(diags))
	}
	for _, d := range diags {
		if d.Code == diagnostic.CodeUndefinedName {
			if len(d.Suggestions) == 0 || d.Suggestions[0] != "total" {
				t.Errorf("suggestions = %v, want total first", d.Suggestions)
			}
		}
	}
}

func TestDuplicateSymbol(t *testing.T) {
	src := `To compute (n: Int) gives Int:
  Let x = 1.
  Let x = 2.
  Return n.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeDuplicateSymbol) != 1 {
		t.Errorf("diagnostics = %v, want DUPLICATE_SYMBOL", codesOf(diags))
	}
}

func TestShadowingAcrossScopesIsAllowed(t *testing.T) {
	src := `To compute (n: Int) gives Int:
  Let x = 1.
  Scope:
    Let x = 2.
  Return n.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeDuplicateSymbol) != 0 {
		t.Errorf("shadowing in a nested scope is legal; diagnostics = %v", codesOf(diags))
	}
}

func TestTypeParamConflict(t *testing.T) {
	src := `To pick (a: T, b: T) gives T:
  Return a.

To use (n: Int, s: String) gives Int:
  Let v = pick(n, s).
  Return n.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeTypeParamConflict) != 1 {
		t.Errorf("diagnostics = %v, want TYPE_PARAM_CONFLICT", codesOf(diags))
	}
}

func TestGenericCallSubstitutes(t *testing.T) {
	src := `To identity (value: T) gives T:
  Return value.

To use (n: Int) gives Int:
  Return identity(n).
`
	diags := checkSource(t, src, Options{})
	if len(diags) != 0 {
		t.Errorf("identity(n) is Int; diagnostics = %v", codesOf(diags))
	}
}

func TestMissingModuleImport(t *testing.T) {
	src := `Import shop.ghost as Ghost.

To run (n: Int) gives Int:
  Return n.
`
	diags := checkSource(t, src, Options{SearchPaths: []string{t.TempDir()}})
	if countCode(diags, diagnostic.CodeModuleNotFound) != 1 {
		t.Errorf("diagnostics = %v, want MODULE_NOT_FOUND", codesOf(diags))
	}
}

func TestSeparatorlessImportIsSkipped(t *testing.T) {
	src := `Import Http.

To run (n: Int) gives Int:
  Return n.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeModuleNotFound) != 0 {
		t.Errorf("library aliases are skipped; diagnostics = %v", codesOf(diags))
	}
}

func writeTestModule(t *testing.T, dir, name, source string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".src"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
}

const taxSource = `Module shop.tax

To compute (id: String) gives Double with io using Sql:
  Return Db.rate(id).
`

func TestCrossModuleEffectPropagation(t *testing.T) {
	dir := t.TempDir()
	writeTestModule(t, dir, "shop.tax", taxSource)

	src := `Import shop.tax as Tax.

To total (id: String) gives Double:
  Return Tax.compute(id).
`
	diags := checkSource(t, src, Options{SearchPaths: []string{dir}})
	if countCode(diags, diagnostic.CodeEffectUndeclaredIO) != 1 {
		t.Errorf("diagnostics = %v, want EFF_UNDECLARED_IO from the imported signature", codesOf(diags))
	}

	declared := `Import shop.tax as Tax.

To total (id: String) gives Double with io:
  Return Tax.compute(id).
`
	diags = checkSource(t, declared, Options{SearchPaths: []string{dir}})
	if countCode(diags, diagnostic.CodeEffectUndeclaredIO) != 0 {
		t.Errorf("effect declared; diagnostics = %v", codesOf(diags))
	}
}

func TestShadowedImportAlias(t *testing.T) {
	dir := t.TempDir()
	writeTestModule(t, dir, "shop.tax", taxSource)
	writeTestModule(t, dir, "other.tax", taxSource)

	src := `Import shop.tax as Tax.
Import other.tax as Tax.

To run (n: Int) gives Int:
  Return n.
`
	diags := checkSource(t, src, Options{SearchPaths: []string{dir}})
	if countCode(diags, diagnostic.CodeShadowedImport) != 1 {
		t.Errorf("diagnostics = %v, want SHADOWED_IMPORT", codesOf(diags))
	}
}

func TestCapabilityManifestApplies(t *testing.T) {
	src := `To fetch (url: String) gives String with io using Http:
  Return Http.get(url).
`
	manifest := &effects.Manifest{Deny: map[effects.Capability][]string{
		effects.CapHTTP: {"Http.*"},
	}}

	diags := CheckModuleWithCapabilities(lowerModule(t, src), manifest, Options{})
	if countCode(diags, diagnostic.CodeCapNotAllowed) != 1 {
		t.Errorf("diagnostics = %v, want CAPABILITY_NOT_ALLOWED", codesOf(diags))
	}
}

func TestAsyncRunsInDriver(t *testing.T) {
	src := `To run (n: Int) gives Int:
  Start x = compute(n).
  Return n.
`
	diags := checkSource(t, src, Options{})
	if countCode(diags, diagnostic.CodeAsyncStartNotWaited) != 1 {
		t.Errorf("diagnostics = %v, want ASYNC_START_NOT_WAITED", codesOf(diags))
	}
}

const piiSource = `Data User:
  email: Pii<String, L2, email>

To push (user: User) gives String with io using Http:
  Return Http.post(user.email).
`

func TestPiiFlowEnforced(t *testing.T) {
	diags := checkSource(t, piiSource, Options{Config: &Config{EnforcePii: true}})
	if countCode(diags, diagnostic.CodePiiFlow) != 1 {
		t.Errorf("diagnostics = %v, want PII_DISALLOWED_FLOW", codesOf(diags))
	}
}

func TestPiiFlowOffByDefault(t *testing.T) {
	diags := checkSource(t, piiSource, Options{})
	if countCode(diags, diagnostic.CodePiiFlow) != 0 {
		t.Errorf("enforcement defaults off; diagnostics = %v", codesOf(diags))
	}
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv(envEnforcePii, "1")

	cfg := ResolveConfig(nil)
	if !cfg.EnforcePii {
		t.Error("environment should enable enforcement when no explicit config exists")
	}

	explicit := ResolveConfig(&Config{EnforcePii: false})
	if explicit.EnforcePii {
		t.Error("explicit config must win over the environment")
	}
}

func TestDocumentURIStamping(t *testing.T) {
	src := `To answer (n: Int) gives String:
  Return n.
`
	diags := checkSource(t, src, Options{DocumentURI: "file:///work/answer.src"})
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic")
	}
	if diags[0].Span.Start.Filename != "file:///work/answer.src" {
		t.Errorf("filename = %q", diags[0].Span.Start.Filename)
	}
}
