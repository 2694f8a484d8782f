package driver

import (
	"errors"
	"fmt"
	"strings"

	"tsdecl/frontend-go/pkg/ast"
	"tsdecl/frontend-go/pkg/parser"
)

// DiagnosticKind separates problems in the source text from problems in
// the front-end itself.
type DiagnosticKind string

const (
	KindSyntax   DiagnosticKind = "syntax"
	KindInternal DiagnosticKind = "internal"
)

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Diagnostic represents a structured loader diagnostic.
type Diagnostic struct {
	Kind     DiagnosticKind
	Message  string
	Location DiagnosticLocation
}

// DiagnosticError wraps a diagnostic for error handling.
type DiagnosticError struct {
	Diagnostic Diagnostic
	Err        error
}

func (e *DiagnosticError) Error() string {
	return DescribeDiagnostic(e.Diagnostic)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// DiagnosticFromError classifies err. Syntax and unsupported-construct errors
// become syntax diagnostics, shape mismatches become internal ones; anything
// else is not a diagnostic.
func DiagnosticFromError(path string, err error) (Diagnostic, bool) {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return Diagnostic{
			Kind:    KindSyntax,
			Message: parseErr.Message,
			Location: DiagnosticLocation{
				Path:      path,
				Line:      parseErr.Location.Line,
				Column:    parseErr.Location.Column,
				EndLine:   parseErr.Location.EndLine,
				EndColumn: parseErr.Location.EndColumn,
			},
		}, true
	}
	var shapeErr *ast.ShapeError
	if errors.As(err, &shapeErr) {
		return Diagnostic{
			Kind:    KindInternal,
			Message: shapeErr.Error(),
			Location: DiagnosticLocation{
				Path:      path,
				Line:      shapeErr.Span.Start.Line,
				Column:    shapeErr.Span.Start.Column,
				EndLine:   shapeErr.Span.End.Line,
				EndColumn: shapeErr.Span.End.Column,
			},
		}, true
	}
	return Diagnostic{}, false
}

// DescribeDiagnostic formats a diagnostic for CLI output.
func DescribeDiagnostic(diag Diagnostic) string {
	message := strings.TrimSpace(diag.Message)
	prefix := "parser: "
	switch diag.Kind {
	case KindInternal:
		message = strings.TrimSpace(strings.TrimPrefix(message, "ast: internal error:"))
		prefix = "internal error: "
	default:
		message = strings.TrimSpace(strings.TrimPrefix(message, "parser:"))
	}
	location := formatDiagnosticLocation(diag.Location)
	if location != "" {
		return fmt.Sprintf("%s%s %s", prefix, location, message)
	}
	return prefix + message
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
