package ast

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPatternRendering(t *testing.T) {
	cases := []struct {
		node Pattern
		want string
	}{
		{ID("x"), "x"},
		{List(), "[]"},
		{List(ID("a"), ID("b")), "[a, b]"},
		{List(nil, ID("b")), "[, b]"},
		{List(ID("a"), List(ID("b"), ID("c"))), "[a, [b, c]]"},
		{Record(nil), "{}"},
		{Record(nil, Field("a", nil), Field("b", ID("c"))), "{ a, b: c }"},
		{Record(Rest(ID("others")), Field("id", nil)), "{ id, ...others }"},
		{Record(nil, Field("pos", List(ID("x"), ID("y")))), "{ pos: [x, y] }"},
		{Rest(ID("tail")), "...tail"},
	}
	for _, tc := range cases {
		if got := tc.node.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestTypeRendering(t *testing.T) {
	fn := FnType([]*Declaration{Decl(ID("a"), Ty("number")), Decl(ID("b"), nil)}, Ty("void"))
	cases := []struct {
		node TypeExpression
		want string
	}{
		{Ty("number"), "number"},
		{Ty("ns.Thing"), "ns.Thing"},
		{Lit(`"on"`), `"on"`},
		{Gen("Map", Ty("string"), ArrayOf(Ty("number"))), "Map<string, number[]>"},
		{TupleOf(Ty("string"), Ty("boolean")), "[string, boolean]"},
		{TupleOf(), "[]"},
		{UnionOf(Ty("string"), Lit("undefined")), "string | undefined"},
		{ArrayOf(UnionOf(Ty("a"), Ty("b"))), "(a | b)[]"},
		{fn, "(a: number, b) => void"},
		{ArrayOf(fn), "((a: number, b) => void)[]"},
		{UnionOf(fn, Lit("null")), "((a: number, b) => void) | null"},
		{FnType(nil, fn), "() => (a: number, b) => void"},
	}
	for _, tc := range cases {
		if got := tc.node.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestCompositeBuildersValidate(t *testing.T) {
	if _, err := BuildGenericType(ZeroSpan(), []any{Ty("Map"), []any{Ty("K"), Ty("V")}}); err != nil {
		t.Fatalf("BuildGenericType: %v", err)
	}
	if _, err := BuildGenericType(ZeroSpan(), []any{Gen("Box", Ty("T")), []any{}}); !IsInternal(err) {
		t.Fatalf("generic base must be a named type, got %v", err)
	}
	if _, err := BuildTupleType(ZeroSpan(), []any{Ty("a"), ID("b")}); !IsInternal(err) {
		t.Fatalf("tuple member must be a type, got %v", err)
	}
	if _, err := BuildUnionType(ZeroSpan(), []any{Ty("a"), Ty("b")}); err != nil {
		t.Fatalf("BuildUnionType: %v", err)
	}
	if _, err := BuildFunctionType(ZeroSpan(), []any{[]any{Decl(ID("x"), nil)}, []any{Arrow}}); !IsInternal(err) {
		t.Fatalf("function result pair must have two elements, got %v", err)
	}
	if _, err := BuildListPattern(ZeroSpan(), []any{ID("a"), nil, Ty("b")}); !IsInternal(err) {
		t.Fatalf("list element must be a pattern, got %v", err)
	}
	if _, err := BuildRecordPattern(ZeroSpan(), []any{[]any{Field("a", nil)}, ID("rest")}); !IsInternal(err) {
		t.Fatalf("record rest must be a rest pattern, got %v", err)
	}
	if _, err := BuildRecordPatternField(ZeroSpan(), []any{ID("a"), []any{Colon, ID("b")}}); err != nil {
		t.Fatalf("BuildRecordPatternField: %v", err)
	}
	if _, err := BuildRestPattern(ZeroSpan(), []any{"...", nil}); !IsInternal(err) {
		t.Fatalf("rest target must be a pattern, got %v", err)
	}
}

func TestWalkAndDeclarations(t *testing.T) {
	inner := Decl(ID("cb"), FnType([]*Declaration{Decl(ID("err"), Ty("Error"))}, Ty("void")))
	module := NewModule([]*Declaration{
		Decl(Record(nil, Field("a", nil)), nil),
		inner,
	})

	var kinds []string
	Walk(module, func(node Node) bool {
		kinds = append(kinds, string(node.NodeType()))
		return true
	})
	want := "Module Declaration RecordPattern RecordPatternField Identifier Declaration Identifier FunctionType Declaration Identifier NamedType NamedType"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("walk order = %s\nwant %s", got, want)
	}

	decls := Declarations(module)
	if len(decls) != 3 || decls[2].String() != "err: Error" {
		t.Fatalf("Declarations = %v", decls)
	}

	var skipped int
	Walk(module, func(node Node) bool {
		skipped++
		return node.NodeType() != NodeDeclaration
	})
	if skipped != 3 {
		t.Fatalf("visited %d nodes with declarations pruned, want 3", skipped)
	}
}

func TestSpansAndOrigins(t *testing.T) {
	id := ID("x")
	decl := Decl(id, Ty("number"))
	SetSpan(id, Span{Start: Position{Line: 1, Column: 5}, End: Position{Line: 1, Column: 6}})
	SetSpan(decl, Span{Start: Position{Line: 1, Column: 5}, End: Position{Line: 1, Column: 14}})
	SetSpan(nil, Span{})
	SetSpan((*Identifier)(nil), Span{})

	ShiftSpans(decl, 9)
	if got := id.Span().Start; got != (Position{Line: 10, Column: 5}) {
		t.Fatalf("shifted identifier start = %v", got)
	}
	if got := decl.Type.Span(); !got.IsZero() {
		t.Fatalf("zero span moved: %+v", got)
	}

	table := AnnotateOrigins(NewModule([]*Declaration{decl}), "src/a.ts", nil)
	if table[id] != "src/a.ts" || table[decl.Type] != "src/a.ts" {
		t.Fatalf("origins missing nodes: %v", table)
	}
	table = AnnotateOrigins(decl, "src/b.ts", table)
	if table[id] != "src/a.ts" {
		t.Fatalf("existing origin overwritten: %s", table[id])
	}
}

func TestModuleRenderingAndJSON(t *testing.T) {
	module := NewModule([]*Declaration{
		Decl(ID("a"), Ty("number")),
		Decl(List(ID("b"), ID("c")), nil),
	})
	if got, want := module.String(), "a: number\n[b, c]"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	data, err := json.Marshal(module.Declarations[0])
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	want := `{"type":"Declaration","pattern":{"type":"Identifier","name":"a"},"typeAnnotation":{"type":"NamedType","name":"number"}}`
	if string(data) != want {
		t.Fatalf("json = %s\nwant %s", data, want)
	}
}
