package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tsdecl/frontend-go/pkg/ast"
)

func (ctx *parseContext) parseType(node *sitter.Node) (ast.TypeExpression, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: nil type")
	}

	switch node.Kind() {
	case "type", "primary_type", "parenthesized_type":
		inner := firstNamedChild(node)
		if inner == nil {
			return nil, unsupported(node, "type")
		}
		return ctx.parseType(inner)
	case "predefined_type", "type_identifier", "nested_type_identifier", "this_type":
		return annotateType(ast.NewNamedType(sliceContent(node, ctx.source)), node), nil
	case "literal_type":
		return annotateType(ast.NewLiteralType(sliceContent(node, ctx.source)), node), nil
	case "array_type":
		element, err := ctx.parseType(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return annotateType(ast.NewArrayType(element), node), nil
	case "generic_type":
		return ctx.parseGenericType(node)
	case "tuple_type":
		members, err := ctx.parseTypeList(namedChildren(node))
		if err != nil {
			return nil, err
		}
		return ast.BuildTupleType(spanFromNode(node), members)
	case "union_type":
		members, err := ctx.parseTypeList(ctx.unionMembers(node, nil))
		if err != nil {
			return nil, err
		}
		return ast.BuildUnionType(spanFromNode(node), members)
	case "function_type":
		return ctx.parseFunctionType(node)
	default:
		return nil, unsupported(node, "type")
	}
}

func (ctx *parseContext) parseTypeList(nodes []*sitter.Node) ([]any, error) {
	types := make([]any, 0, len(nodes))
	for _, node := range nodes {
		typ, err := ctx.parseType(node)
		if err != nil {
			return nil, err
		}
		types = append(types, typ)
	}
	return types, nil
}

// unionMembers flattens `A | B | C`, which the grammar nests to the left.
func (ctx *parseContext) unionMembers(node *sitter.Node, acc []*sitter.Node) []*sitter.Node {
	for _, child := range namedChildren(node) {
		if child.Kind() == "union_type" {
			acc = ctx.unionMembers(child, acc)
			continue
		}
		acc = append(acc, child)
	}
	return acc
}

func (ctx *parseContext) parseGenericType(node *sitter.Node) (ast.TypeExpression, error) {
	nameNode := node.ChildByFieldName("name")
	argsNode := node.ChildByFieldName("type_arguments")
	if nameNode == nil || argsNode == nil {
		return nil, unsupported(node, "type")
	}
	base := ast.NewNamedType(sliceContent(nameNode, ctx.source))
	annotateSpan(base, nameNode)
	args, err := ctx.parseTypeList(namedChildren(argsNode))
	if err != nil {
		return nil, err
	}
	return ast.BuildGenericType(spanFromNode(node), []any{base, args})
}

// parseFunctionType lowers `(a: A, b) => R` into [[params...], ['=>', R]].
func (ctx *parseContext) parseFunctionType(node *sitter.Node) (ast.TypeExpression, error) {
	paramsNode := node.ChildByFieldName("parameters")
	returnNode := node.ChildByFieldName("return_type")
	if paramsNode == nil || returnNode == nil {
		return nil, unsupported(node, "type")
	}
	if node.ChildByFieldName("type_parameters") != nil {
		return nil, unsupported(node, "generic function type")
	}

	params := make([]any, 0, paramsNode.NamedChildCount())
	for _, param := range namedChildren(paramsNode) {
		if param.Kind() != "required_parameter" {
			return nil, unsupported(param, "parameter")
		}
		decl, err := ctx.parseParameter(param)
		if err != nil {
			return nil, err
		}
		params = append(params, decl)
	}

	result, err := ctx.parseType(returnNode)
	if err != nil {
		return nil, err
	}
	return ast.BuildFunctionType(spanFromNode(node), []any{params, []any{ctx.marker(node, "=>"), result}})
}
