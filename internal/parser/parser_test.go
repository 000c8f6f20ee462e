package parser

import (
	"testing"

	"github.com/clarity-lang/clarity/internal/ast"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/types"
)

func parseSource(t *testing.T, src string) (*ast.Module, []lexer.Token) {
	t.Helper()
	tokens, err := lexer.Lex(src, lexicon.English())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	module, diags := Parse(tokens)
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s", d)
	}
	return module, tokens
}

func TestParseModuleHeader(t *testing.T) {
	src := "Module orders.api\n\nEnum Status: Pending, Done.\n"
	module, _ := parseSource(t, src)

	if module.Name != "orders.api" {
		t.Errorf("module name = %q, want orders.api", module.Name)
	}
	if len(module.Decls) != 1 {
		t.Fatalf("decls = %d, want 1", len(module.Decls))
	}
}

func TestParseDataDecl(t *testing.T) {
	src := `Data Order:
  id: String
  email: Pii<String, L2, email> @masked
  total: Double
`
	module, _ := parseSource(t, src)

	data, ok := module.Decls[0].(*ast.Data)
	if !ok {
		t.Fatalf("decl is %T, want *ast.Data", module.Decls[0])
	}

	if len(data.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(data.Fields))
	}

	// Field order is significant for positional patterns.
	if data.Fields[0].Name != "id" || data.Fields[2].Name != "total" {
		t.Errorf("field order wrong: %v", data.Fields)
	}

	pii, ok := data.Fields[1].Type.(*types.Pii)
	if !ok {
		t.Fatalf("email type is %T, want *types.Pii", data.Fields[1].Type)
	}
	if pii.Sensitivity != types.SensitivityL2 || pii.Category != "email" {
		t.Errorf("pii = %s", pii)
	}
	if len(data.Fields[1].Annotations) != 1 || data.Fields[1].Annotations[0] != "masked" {
		t.Errorf("annotations = %v", data.Fields[1].Annotations)
	}
}

func TestParseEnumDecl(t *testing.T) {
	module, _ := parseSource(t, "Enum Status: Pending, Shipped, Done.\n")

	enum := module.Decls[0].(*ast.Enum)
	want := []string{"Pending", "Shipped", "Done"}
	if len(enum.Variants) != len(want) {
		t.Fatalf("variants = %v", enum.Variants)
	}
	for i, v := range want {
		if enum.Variants[i] != v {
			t.Errorf("variant[%d] = %q, want %q", i, enum.Variants[i], v)
		}
	}
}

func TestParseFuncSignature(t *testing.T) {
	src := `To total (order: Order, rate: Double) gives Double:
  Return order.amount.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)
	if fn.Name != "total" {
		t.Errorf("name = %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("params = %d", len(fn.Params))
	}
	if fn.RetTypeInferred {
		t.Error("return type was explicit")
	}
	if !types.Equal(fn.Ret, types.DoubleType) {
		t.Errorf("ret = %s", fn.Ret)
	}
	if fn.NameSpan.IsPlaceholder() {
		t.Error("name span missing")
	}
	if fn.NameSpan == fn.SpanAll {
		t.Error("name span must be narrower than the declaration span")
	}
}

func TestParseInferredReturnType(t *testing.T) {
	src := `To greet (name: String):
  Return name.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)
	if !fn.RetTypeInferred {
		t.Error("return type should be marked inferred")
	}
	if !types.IsUnknown(fn.Ret) {
		t.Errorf("ret = %s, want Unknown", fn.Ret)
	}
}

func TestParseExplicitTypeParams(t *testing.T) {
	src := `To first of T (items: List<T>) gives Maybe<T>:
  Return null.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)
	if len(fn.TypeParams) != 1 || fn.TypeParams[0] != "T" {
		t.Fatalf("type params = %v", fn.TypeParams)
	}

	list := fn.Params[0].Type.(*types.List)
	if _, ok := list.Elem.(*types.Var); !ok {
		t.Errorf("List element is %T, want *types.Var", list.Elem)
	}
}

func TestInferImplicitTypeParams(t *testing.T) {
	src := `Data Order:
  id: String

To pick (items: List<T>, fallback: Order) gives T:
  Return fallback.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[1].(*ast.Func)
	if len(fn.TypeParams) != 1 || fn.TypeParams[0] != "T" {
		t.Fatalf("inferred type params = %v, want [T]", fn.TypeParams)
	}

	// Order is previously declared, String is a built-in: neither is a
	// type parameter.
	if _, ok := fn.Ret.(*types.Var); !ok {
		t.Errorf("return type is %T, want *types.Var", fn.Ret)
	}
	if _, ok := fn.Params[1].Type.(*types.Named); !ok {
		t.Errorf("Order param is %T, want *types.Named", fn.Params[1].Type)
	}
}

func TestParseEffectClauseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			"inline effect clause",
			"To fetch (url: String) gives String with io using Http:\n  Return url.\n",
		},
		{
			"period then effect clause",
			"To fetch (url: String) gives String.\nwith io using Http:\n  Return url.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, _ := parseSource(t, tt.src)

			fn := module.Decls[0].(*ast.Func)
			if len(fn.Effects) != 1 || fn.Effects[0] != "io" {
				t.Errorf("effects = %v", fn.Effects)
			}
			if !fn.EffectCapsExplicit {
				t.Error("capability list should be explicit")
			}
			if len(fn.EffectCaps) != 1 || fn.EffectCaps[0] != "Http" {
				t.Errorf("caps = %v", fn.EffectCaps)
			}
		})
	}
}

func TestParseEffectClauseWithoutCaps(t *testing.T) {
	src := "To crunch (n: Int) gives Int with cpu:\n  Return n.\n"
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)
	if fn.EffectCapsExplicit {
		t.Error("no using clause: capabilities must not be explicit")
	}
	if len(fn.Effects) != 1 || fn.Effects[0] != "cpu" {
		t.Errorf("effects = %v", fn.Effects)
	}
}

func TestParseStatements(t *testing.T) {
	src := `To handle (order: Order) gives Int:
  Let t: Int = 1.
  Set t = 2.
  If ready:
    Start task = fetch(order).
    Wait task.
  Else:
    Scope:
      Let inner = 3.
  Match status:
    Case Pending:
      Return 1.
    Case other:
      Return 2.
  Workflow retry 3 timeout 60:
    Let step = 1.
  Return t.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)
	if len(fn.Body) != 5 {
		t.Fatalf("body statements = %d, want 5", len(fn.Body))
	}

	ifStmt := fn.Body[2].(*ast.If)
	if len(ifStmt.ThenBlock) != 2 {
		t.Errorf("then block = %d statements, want 2", len(ifStmt.ThenBlock))
	}
	if _, ok := ifStmt.ElseBlock[0].(*ast.Scope); !ok {
		t.Errorf("else block statement is %T, want *ast.Scope", ifStmt.ElseBlock[0])
	}

	match := fn.Body[3].(*ast.Match)
	if len(match.Cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(match.Cases))
	}
	if _, ok := match.Cases[0].Pattern.(*ast.PatName); !ok {
		t.Errorf("case pattern is %T, want *ast.PatName", match.Cases[0].Pattern)
	}

	wf := fn.Body[4].(*ast.Workflow)
	if wf.Retry != 3 || wf.Timeout != 60 {
		t.Errorf("workflow retry/timeout = %d/%d", wf.Retry, wf.Timeout)
	}
}

func TestParseExpressions(t *testing.T) {
	src := `To build (id: String) gives Order:
  Let order = New Order(id = id, total = 3.5).
  Let wrapped = Ok(order).
  Let f = (n: Int) => n.
  Let v = Await fetch(id).
  Return order.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)

	construct := fn.Body[0].(*ast.Let).Value.(*ast.Construct)
	if construct.TypeName != "Order" || len(construct.Fields) != 2 {
		t.Errorf("construct = %+v", construct)
	}

	ctor := fn.Body[1].(*ast.Let).Value.(*ast.Ctor)
	if ctor.Kind != ast.CtorOk {
		t.Errorf("ctor kind = %d, want Ok", ctor.Kind)
	}

	if _, ok := fn.Body[2].(*ast.Let).Value.(*ast.Lambda); !ok {
		t.Errorf("lambda is %T", fn.Body[2].(*ast.Let).Value)
	}

	await := fn.Body[3].(*ast.Let).Value.(*ast.Await)
	if _, ok := await.Value.(*ast.Call); !ok {
		t.Errorf("await wraps %T, want *ast.Call", await.Value)
	}
}

func TestParsePatterns(t *testing.T) {
	src := `To inspect (r: Result<Int, String>) gives Int:
  Match r:
    Case Ok(v):
      Return v.
    Case Err(e):
      Return 0.
  Match m:
    Case null:
      Return 1.
    Case 42:
      Return 2.
    Case other:
      Return 3.
  Return 0.
`
	module, _ := parseSource(t, src)

	fn := module.Decls[0].(*ast.Func)

	first := fn.Body[0].(*ast.Match)
	ok := first.Cases[0].Pattern.(*ast.PatCtor)
	if ok.TypeName != "Ok" || len(ok.Names) != 1 || ok.Names[0] != "v" {
		t.Errorf("Ok pattern = %+v", ok)
	}

	second := fn.Body[1].(*ast.Match)
	if _, isNull := second.Cases[0].Pattern.(*ast.PatNull); !isNull {
		t.Errorf("pattern is %T, want *ast.PatNull", second.Cases[0].Pattern)
	}
	if pi, isInt := second.Cases[1].Pattern.(*ast.PatInt); !isInt || pi.Text != "42" {
		t.Errorf("pattern = %+v", second.Cases[1].Pattern)
	}
}

func TestRecoveryContinuesAfterBadDecl(t *testing.T) {
	src := `Data Broken
  id String

Enum Status: Pending, Done.
`
	tokens, err := lexer.Lex(src, lexicon.English())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	module, diags := Parse(tokens)

	if len(diags) == 0 {
		t.Fatal("expected at least one syntax diagnostic")
	}

	// The bad Data declaration must not hide the Enum that follows.
	found := false
	for _, d := range module.Decls {
		if e, ok := d.(*ast.Enum); ok && e.Name == "Status" {
			found = true
		}
	}
	if !found {
		t.Errorf("recovery lost the Enum declaration; decls = %v", module.Decls)
	}
}

func TestImportWithAlias(t *testing.T) {
	module, _ := parseSource(t, "Import net.http as Http.\n")

	imp := module.Decls[0].(*ast.Import)
	if imp.Name != "net.http" || imp.AsName != "Http" {
		t.Errorf("import = %+v", imp)
	}
}
