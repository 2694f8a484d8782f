package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tsdecl/frontend-go/pkg/ast"
)

func (ctx *parseContext) parsePattern(node *sitter.Node) (ast.Pattern, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: nil pattern")
	}

	switch node.Kind() {
	case "pattern":
		inner := firstNamedChild(node)
		if inner == nil {
			return nil, unsupported(node, "pattern")
		}
		return ctx.parsePattern(inner)
	case "identifier", "shorthand_property_identifier_pattern", "this":
		return annotatePattern(ast.NewIdentifier(sliceContent(node, ctx.source)), node), nil
	case "array_pattern":
		return ctx.parseListPattern(node)
	case "object_pattern":
		return ctx.parseRecordPattern(node)
	case "rest_pattern":
		return ctx.parseRestPattern(node)
	default:
		return nil, unsupported(node, "pattern")
	}
}

// parseListPattern keeps elisions: every comma not preceded by an element
// contributes a hole.
func (ctx *parseContext) parseListPattern(node *sitter.Node) (ast.Pattern, error) {
	elements := make([]any, 0, node.NamedChildCount())
	expectElement := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		if !child.IsNamed() {
			switch child.Kind() {
			case "[":
				expectElement = true
			case ",":
				if expectElement {
					elements = append(elements, nil)
				}
				expectElement = true
			}
			continue
		}
		element, err := ctx.parsePattern(child)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		expectElement = false
	}
	return ast.BuildListPattern(spanFromNode(node), elements)
}

func (ctx *parseContext) parseRecordPattern(node *sitter.Node) (ast.Pattern, error) {
	fields := make([]any, 0, node.NamedChildCount())
	var rest any
	for _, child := range namedChildren(node) {
		if rest != nil {
			return nil, unsupported(child, "pattern after rest")
		}
		switch child.Kind() {
		case "rest_pattern":
			restPattern, err := ctx.parseRestPattern(child)
			if err != nil {
				return nil, err
			}
			rest = restPattern
		case "shorthand_property_identifier_pattern":
			key := annotatePattern(ast.NewIdentifier(sliceContent(child, ctx.source)), child)
			field, err := ast.BuildRecordPatternField(spanFromNode(child), []any{key, nil})
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		case "pair_pattern":
			field, err := ctx.parseRecordField(child)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		default:
			return nil, unsupported(child, "record pattern entry")
		}
	}
	return ast.BuildRecordPattern(spanFromNode(node), []any{fields, rest})
}

func (ctx *parseContext) parseRecordField(node *sitter.Node) (*ast.RecordPatternField, error) {
	keyNode := node.ChildByFieldName("key")
	valueNode := node.ChildByFieldName("value")
	if keyNode == nil || valueNode == nil {
		return nil, unsupported(node, "record pattern entry")
	}
	if keyNode.Kind() != "property_identifier" {
		return nil, unsupported(keyNode, "record key")
	}
	key := ast.NewIdentifier(sliceContent(keyNode, ctx.source))
	annotateSpan(key, keyNode)
	value, err := ctx.parsePattern(valueNode)
	if err != nil {
		return nil, err
	}
	return ast.BuildRecordPatternField(spanFromNode(node), []any{key, []any{ctx.marker(node, ":"), value}})
}

func (ctx *parseContext) parseRestPattern(node *sitter.Node) (*ast.RestPattern, error) {
	targetNode := firstNamedChild(node)
	if targetNode == nil {
		return nil, unsupported(node, "rest pattern")
	}
	target, err := ctx.parsePattern(targetNode)
	if err != nil {
		return nil, err
	}
	return ast.BuildRestPattern(spanFromNode(node), []any{ctx.marker(node, "..."), target})
}
