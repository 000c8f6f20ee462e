package asynccheck

import (
	"testing"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/parser"
)

func checkBody(t *testing.T, body string) []diagnostic.Diagnostic {
	t.Helper()
	src := "To run (n: Int) gives Int:\n" + body + "  Return n.\n"
	tokens, err := lexer.Lex(src, lexicon.English())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	astModule, diags := parser.Parse(tokens)
	for _, d := range diags {
		t.Fatalf("parse diagnostic: %s", d)
	}
	module := core.LowerModule(astModule)
	return Check(module.Decls[0].(*core.Func))
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

func TestStartThenWaitIsClean(t *testing.T) {
	diags := checkBody(t, `  Start x = fetch(n).
  Wait x.
`)
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", codesOf(diags))
	}
}

func TestStartWithoutWait(t *testing.T) {
	diags := checkBody(t, `  Start x = fetch(n).
`)
	if countCode(diags, diagnostic.CodeAsyncStartNotWaited) != 1 {
		t.Errorf("diagnostics = %v, want exactly one ASYNC_START_NOT_WAITED", codesOf(diags))
	}
}

func TestWaitWithoutStart(t *testing.T) {
	diags := checkBody(t, `  Wait x.
`)
	if countCode(diags, diagnostic.CodeAsyncWaitNotStarted) != 1 {
		t.Errorf("diagnostics = %v, want exactly one ASYNC_WAIT_NOT_STARTED", codesOf(diags))
	}
}

func TestWaitBeforeStart(t *testing.T) {
	diags := checkBody(t, `  Wait x.
  Start x = fetch(n).
`)
	if countCode(diags, diagnostic.CodeAsyncWaitBeforeStart) != 1 {
		t.Errorf("diagnostics = %v, want ASYNC_WAIT_BEFORE_START", codesOf(diags))
	}
}

func TestBranchesJointlyCoverWait(t *testing.T) {
	diags := checkBody(t, `  If ready:
    Start x = fast(n).
  Else:
    Start x = slow(n).
  Wait x.
`)
	if countCode(diags, diagnostic.CodeAsyncWaitBeforeStart) != 0 {
		t.Errorf("both branches start x; diagnostics = %v", codesOf(diags))
	}
	if countCode(diags, diagnostic.CodeAsyncDuplicateStart) != 0 {
		t.Errorf("exclusive branches are not duplicates; diagnostics = %v", codesOf(diags))
	}
}

func TestSingleBranchDoesNotCoverWait(t *testing.T) {
	diags := checkBody(t, `  If ready:
    Start x = fast(n).
  Wait x.
`)
	if countCode(diags, diagnostic.CodeAsyncWaitBeforeStart) != 1 {
		t.Errorf("the fall-through path never starts x; diagnostics = %v", codesOf(diags))
	}
}

func TestDuplicateStartOnSamePath(t *testing.T) {
	diags := checkBody(t, `  Start x = fetch(n).
  Start x = fetch(n).
  Wait x.
`)
	if countCode(diags, diagnostic.CodeAsyncDuplicateStart) != 1 {
		t.Errorf("diagnostics = %v, want ASYNC_DUPLICATE_START", codesOf(diags))
	}
}

func TestDuplicateWaitIsWarning(t *testing.T) {
	diags := checkBody(t, `  Start x = fetch(n).
  Wait x.
  Wait x.
`)
	if countCode(diags, diagnostic.CodeAsyncDuplicateWait) != 1 {
		t.Fatalf("diagnostics = %v, want ASYNC_DUPLICATE_WAIT", codesOf(diags))
	}
	for _, d := range diags {
		if d.Code == diagnostic.CodeAsyncDuplicateWait && d.Severity != diagnostic.SeverityWarning {
			t.Errorf("duplicate wait severity = %s, want warning", d.Severity)
		}
	}
}

func TestMatchCasesCoverWait(t *testing.T) {
	diags := checkBody(t, `  Match status:
    Case Pending:
      Start x = fast(n).
    Case Done:
      Start x = slow(n).
  Wait x.
`)
	if countCode(diags, diagnostic.CodeAsyncWaitBeforeStart) != 0 {
		t.Errorf("all match arms start x; diagnostics = %v", codesOf(diags))
	}
}

func TestWaitInsideSameBranchAsStart(t *testing.T) {
	diags := checkBody(t, `  If ready:
    Start x = fast(n).
    Wait x.
`)
	if len(diags) != 0 {
		t.Errorf("start and wait share a branch; diagnostics = %v", codesOf(diags))
	}
}

func TestMultiNameWait(t *testing.T) {
	diags := checkBody(t, `  Start a = fast(n).
  Start b = slow(n).
  Wait a, b.
`)
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", codesOf(diags))
	}
}

func TestCollectFlatMaps(t *testing.T) {
	src := `To run (n: Int) gives Int:
  Start a = fast(n).
  If ready:
    Start b = slow(n).
  Wait a, b.
  Return n.
`
	tokens, err := lexer.Lex(src, lexicon.English())
	if err != nil {
		t.Fatal(err)
	}
	astModule, _ := parser.Parse(tokens)
	fn := core.LowerModule(astModule).Decls[0].(*core.Func)

	starts, waits := Collect(fn.Body)
	if len(starts["a"]) != 1 || len(starts["b"]) != 1 {
		t.Errorf("starts = %v", starts)
	}
	if len(waits["a"]) != 1 || len(waits["b"]) != 1 {
		t.Errorf("waits = %v", waits)
	}
}
