package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"tsdecl/frontend-go/pkg/ast"
)

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	return node.Kind() == "comment"
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			return child
		}
	}
	return nil
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			children = append(children, child)
		}
	}
	return children
}

// anonymousChild returns the first unnamed child spelled exactly like text.
func anonymousChild(node *sitter.Node, text string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == text {
			return child
		}
	}
	return nil
}

// marker turns a punctuation child into the token carried in raw tuples.
func (ctx *parseContext) marker(node *sitter.Node, text string) ast.Token {
	child := anonymousChild(node, text)
	if child == nil {
		return ast.NewToken(text, ast.Span{})
	}
	return ast.NewToken(sliceContent(child, ctx.source), spanFromNode(child))
}
