package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tsdecl/frontend-go/pkg/ast"
)

func (ctx *parseContext) parseParameter(node *sitter.Node) (*ast.Declaration, error) {
	if node == nil || node.Kind() != "required_parameter" {
		return nil, fmt.Errorf("parser: expected required_parameter")
	}
	pattern := node.ChildByFieldName("pattern")
	if pattern == nil {
		return nil, unsupported(node, "parameter")
	}
	return ctx.parseDeclaration(node, pattern, node.ChildByFieldName("type"))
}

// parseDeclaration lowers a binding and its optional type annotation into the
// declaration tuple [pattern, [':', type] | nil]. Initializers are not part
// of the declaration and are never consulted here.
func (ctx *parseContext) parseDeclaration(owner, patternNode, annotationNode *sitter.Node) (*ast.Declaration, error) {
	if patternNode == nil {
		return nil, unsupported(owner, "declaration")
	}
	pattern, err := ctx.parsePattern(patternNode)
	if err != nil {
		return nil, err
	}

	var annotation any
	end := patternNode
	if annotationNode != nil {
		pair, err := ctx.parseAnnotation(annotationNode)
		if err != nil {
			return nil, err
		}
		annotation = pair
		end = annotationNode
	}

	return ast.BuildDeclaration(spanBetween(patternNode, end), []any{pattern, annotation})
}

// parseAnnotation lowers `: T` into the [marker, type] pair.
func (ctx *parseContext) parseAnnotation(node *sitter.Node) ([]any, error) {
	if node.Kind() != "type_annotation" {
		return nil, unsupported(node, "annotation")
	}
	typeNode := firstNamedChild(node)
	if typeNode == nil {
		return nil, fmt.Errorf("parser: type annotation missing type")
	}
	typ, err := ctx.parseType(typeNode)
	if err != nil {
		return nil, err
	}
	return []any{ctx.marker(node, ":"), typ}, nil
}
