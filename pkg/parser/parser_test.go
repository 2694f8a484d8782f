package parser

import (
	"errors"
	"strings"
	"testing"

	"tsdecl/frontend-go/pkg/ast"
)

func TestParseVariableDeclarations(t *testing.T) {
	source := `let x: number = 1;
const [a, , ...rest]: number[] = xs;
var { id, name: label, ...others } = obj;
let pending;
`
	mod := mustParse(t, source)
	assertDeclarations(t, mod,
		"x: number",
		"[a, , ...rest]: number[]",
		"{ id, name: label, ...others }",
		"pending",
	)

	first := mod.Declarations[0]
	checkSpan(t, "declaration", first.Span(), 1, 5, 1, 14)
	checkSpan(t, "pattern", first.Pattern.Span(), 1, 5, 1, 6)
	checkSpan(t, "type", first.Type.Span(), 1, 8, 1, 14)
	if mod.Declarations[3].Type != nil {
		t.Fatalf("unannotated declaration carries a type: %v", mod.Declarations[3].Type)
	}

	list, ok := mod.Declarations[1].Pattern.(*ast.ListPattern)
	if !ok {
		t.Fatalf("expected list pattern, got %T", mod.Declarations[1].Pattern)
	}
	if len(list.Elements) != 3 || list.Elements[1] != nil {
		t.Fatalf("list elements = %v, want a hole in the middle", list.Elements)
	}
}

func TestParseParameters(t *testing.T) {
	source := `function f(a: string, { b }: Opts, cb: (err: Error | null, n) => void) {
  const y = a;
}
class C {
  constructor(private readonly svc: Service) {}
  run(this: C, ...args: string[]) {}
}
`
	mod := mustParse(t, source)
	assertDeclarations(t, mod,
		"a: string",
		"{ b }: Opts",
		"cb: (err: Error | null, n) => void",
		"y",
		"svc: Service",
		"this: C",
		"...args: string[]",
	)

	fn, ok := mod.Declarations[2].Type.(*ast.FunctionType)
	if !ok {
		t.Fatalf("expected function type, got %T", mod.Declarations[2].Type)
	}
	if len(fn.Params) != 2 || fn.Params[1].Type != nil {
		t.Fatalf("function type params = %v", fn.Params)
	}
	checkSpan(t, "function type", fn.Span(), 1, 40, 1, 70)
}

func TestParseTypes(t *testing.T) {
	source := `let m: Map<string, [number, boolean]>;
let u: "a" | "b" | null;
let arr: (string | number)[];
let q: ns.Thing;
let h: (() => void)[];
`
	mod := mustParse(t, source)
	assertDeclarations(t, mod,
		"m: Map<string, [number, boolean]>",
		`u: "a" | "b" | null`,
		"arr: (string | number)[]",
		"q: ns.Thing",
		"h: (() => void)[]",
	)
	union, ok := mod.Declarations[1].Type.(*ast.UnionType)
	if !ok || len(union.Members) != 3 {
		t.Fatalf("union not flattened: %#v", mod.Declarations[1].Type)
	}
}

func TestParseNestedScopes(t *testing.T) {
	source := `const g = (p: number) => q => p + q;
try {
  run();
} catch (e: unknown) {
  let inner = 1;
}
for (let i = 0; i < 3; i++) {}
for (const [k, v] of entries) {}
for (const key in obj) {
  let seen = key;
}
for (item of items) {}
`
	mod := mustParse(t, source)
	assertDeclarations(t, mod, "g", "p: number", "q", "e: unknown", "inner", "i", "[k, v]", "key", "seen")
	checkSpan(t, "for-of binding", mod.Declarations[6].Span(), 8, 12, 8, 18)
	checkSpan(t, "for-in binding", mod.Declarations[7].Span(), 9, 12, 9, 15)
}

func TestParseSkipsTypeLevelParameters(t *testing.T) {
	source := `type Handler = (event: Event) => void;
interface Store {
  get(key: string): number;
}
let handler: Handler;
`
	mod := mustParse(t, source)
	assertDeclarations(t, mod, "handler: Handler")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := parseSource(t, "let = ;\nlet y = 2;\n")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if parseErr.Location.Line != 1 {
		t.Fatalf("error line = %d, want 1", parseErr.Location.Line)
	}
	if !strings.HasPrefix(parseErr.Error(), "parser: syntax error") {
		t.Fatalf("message = %q", parseErr.Error())
	}
	if ast.IsInternal(err) {
		t.Fatalf("syntax error classified as internal")
	}
}

func TestParseIncompleteInput(t *testing.T) {
	_, err := parseSource(t, "let x: ")
	if err == nil {
		t.Fatalf("expected error for truncated input")
	}
	if !IsIncomplete(err) {
		t.Fatalf("IsIncomplete(%v) = false", err)
	}
}

func TestParseUnsupportedConstructs(t *testing.T) {
	cases := []struct {
		source string
		kind   string
	}{
		{"let [a = 1] = xs;", "assignment_pattern"},
		{"function f(a?: string) {}", "optional_parameter"},
		{"let o: { a: string };", "object_type"},
		{"let t: [a: string];", ""},
		{"let { [k]: v } = o;", "computed_property_name"},
	}
	for _, tc := range cases {
		_, err := parseSource(t, tc.source)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%q: expected *ParseError, got %v", tc.source, err)
		}
		if !strings.Contains(parseErr.Error(), "unsupported") || !strings.Contains(parseErr.Error(), tc.kind) {
			t.Fatalf("%q: message = %q, want kind %q", tc.source, parseErr.Error(), tc.kind)
		}
		if parseErr.Location.Line != 1 {
			t.Fatalf("%q: location = %+v", tc.source, parseErr.Location)
		}
	}
}

func TestParseModuleNilParser(t *testing.T) {
	var p *DeclarationParser
	if _, err := p.ParseModule([]byte("let x;")); err == nil {
		t.Fatalf("expected error from nil parser")
	}
	p.Close()
}
