package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"tsdecl/frontend-go/pkg/ast"
)

func spanFromNode(node *sitter.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	return spanBetween(node, node)
}

// spanBetween covers start through end, both inclusive.
func spanBetween(start, end *sitter.Node) ast.Span {
	from := start.StartPosition()
	to := end.EndPosition()
	return ast.Span{
		Start: ast.Position{Line: int(from.Row) + 1, Column: int(from.Column) + 1},
		End:   ast.Position{Line: int(to.Row) + 1, Column: int(to.Column) + 1},
	}
}

func annotateSpan(node ast.Node, tsNode *sitter.Node) {
	if node == nil || tsNode == nil {
		return
	}
	ast.SetSpan(node, spanFromNode(tsNode))
}

func annotatePattern(pattern ast.Pattern, tsNode *sitter.Node) ast.Pattern {
	annotateSpan(pattern, tsNode)
	return pattern
}

func annotateType(typ ast.TypeExpression, tsNode *sitter.Node) ast.TypeExpression {
	annotateSpan(typ, tsNode)
	return typ
}
