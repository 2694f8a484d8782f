package parser

import (
	"strings"
	"testing"

	"tsdecl/frontend-go/pkg/ast"
)

func checkSpan(t testing.TB, label string, span ast.Span, startLine, startCol, endLine, endCol int) {
	t.Helper()
	if span.Start.Line != startLine || span.Start.Column != startCol {
		t.Fatalf("%s start span mismatch: got (%d,%d), want (%d,%d)", label, span.Start.Line, span.Start.Column, startLine, startCol)
	}
	if span.End.Line != endLine || span.End.Column != endCol {
		t.Fatalf("%s end span mismatch: got (%d,%d), want (%d,%d)", label, span.End.Line, span.End.Column, endLine, endCol)
	}
}

func parseSource(t testing.TB, source string) (*ast.Module, error) {
	t.Helper()
	p, err := NewDeclarationParser()
	if err != nil {
		t.Fatalf("NewDeclarationParser error: %v", err)
	}
	defer p.Close()
	return p.ParseModule([]byte(source))
}

func mustParse(t testing.TB, source string) *ast.Module {
	t.Helper()
	mod, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("ParseModule error: %v", err)
	}
	return mod
}

func assertDeclarations(t testing.TB, mod *ast.Module, want ...string) {
	t.Helper()
	got := make([]string, len(mod.Declarations))
	for i, decl := range mod.Declarations {
		got[i] = decl.String()
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("declarations mismatch\nexpected: %q\n   actual: %q", want, got)
	}
}
