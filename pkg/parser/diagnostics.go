package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SourceLocation captures a source span for parser diagnostics.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError includes a message plus a best-effort source location.
// Incomplete is set when the first error sits at the end of the input, which
// usually means more text is on its way.
type ParseError struct {
	Message    string
	Location   SourceLocation
	Incomplete bool
}

func (e *ParseError) Error() string {
	return e.Message
}

// IsIncomplete reports whether err is a syntax error caused by input that
// ended too early.
func IsIncomplete(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr) && parseErr.Incomplete
}

func unsupported(node *sitter.Node, what string) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf("parser: unsupported %s %s", what, node.Kind()),
		Location: locationForNode(node),
	}
}

func syntaxError(root *sitter.Node, source []byte) *ParseError {
	missing := findFirstMissingNode(root)
	errorNode := missing
	if errorNode == nil {
		errorNode = findFirstErrorNode(root)
	}
	if errorNode == nil {
		errorNode = root
	}
	expected := ""
	if missing != nil {
		expected = formatExpectedKind(missing.Kind())
	}
	message := "parser: syntax error"
	if expected != "" {
		message = fmt.Sprintf("parser: syntax error: expected %s", expected)
	}
	end := len(bytes.TrimRightFunc(source, unicode.IsSpace))
	return &ParseError{
		Message:    message,
		Location:   locationForNode(errorNode),
		Incomplete: int(errorNode.EndByte()) >= end,
	}
}

func locationForNode(node *sitter.Node) SourceLocation {
	if node == nil {
		return SourceLocation{}
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return SourceLocation{
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}

func findFirstMissingNode(root *sitter.Node) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if !node.IsMissing() {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func findFirstErrorNode(root *sitter.Node) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if !node.IsError() {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func walkNodes(root *sitter.Node, visit func(node *sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := uint(0); i < root.ChildCount(); i++ {
		if child := root.Child(i); child != nil {
			walkNodes(child, visit)
		}
	}
}

func formatExpectedKind(kind string) string {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "token"
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return strings.ReplaceAll(trimmed, "_", " ")
		}
	}
	return fmt.Sprintf("'%s'", trimmed)
}
