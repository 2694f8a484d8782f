package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tsdecl/frontend-go/pkg/ast"
	"tsdecl/frontend-go/pkg/parser/language"
)

// DeclarationParser wraps a tree-sitter parser configured for TypeScript and
// extracts the declarations of a source file.
type DeclarationParser struct {
	parser *sitter.Parser
}

// NewDeclarationParser constructs a parser with the TypeScript language loaded.
func NewDeclarationParser() (*DeclarationParser, error) {
	lang := language.TypeScript()
	if lang == nil {
		return nil, fmt.Errorf("parser: typescript language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &DeclarationParser{parser: p}, nil
}

// Close releases parser resources.
func (p *DeclarationParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseModule parses source and returns its declarations in source order.
func (p *DeclarationParser) ParseModule(source []byte) (*ast.Module, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	tree := p.parser.Parse(source, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, syntaxError(root, source)
	}
	if root.Kind() != "program" {
		return nil, fmt.Errorf("parser: unexpected root node %s", root.Kind())
	}

	ctx := newParseContext(source)
	declarations := make([]*ast.Declaration, 0)
	if err := ctx.collect(root, &declarations); err != nil {
		return nil, err
	}

	module := ast.NewModule(declarations)
	annotateSpan(module, root)
	return module, nil
}

type parseContext struct {
	source []byte
}

func newParseContext(source []byte) *parseContext {
	return &parseContext{source: source}
}

// Type-level constructs hold parameter lists of their own (function types,
// method signatures) which are part of a type, not bindings.
var typeLevelKinds = map[string]struct{}{
	"type_annotation":        {},
	"type_alias_declaration": {},
	"interface_declaration":  {},
	"type_arguments":         {},
	"type_parameters":        {},
	"function_type":          {},
	"constructor_type":       {},
	"object_type":            {},
}

func (ctx *parseContext) collect(node *sitter.Node, out *[]*ast.Declaration) error {
	if node == nil || isIgnorableNode(node) {
		return nil
	}
	if _, skip := typeLevelKinds[node.Kind()]; skip {
		return nil
	}

	switch node.Kind() {
	case "variable_declarator":
		decl, err := ctx.parseDeclaration(node, node.ChildByFieldName("name"), node.ChildByFieldName("type"))
		if err != nil {
			return err
		}
		*out = append(*out, decl)
		return ctx.collect(node.ChildByFieldName("value"), out)
	case "required_parameter":
		decl, err := ctx.parseParameter(node)
		if err != nil {
			return err
		}
		*out = append(*out, decl)
		return ctx.collect(node.ChildByFieldName("value"), out)
	case "optional_parameter":
		return unsupported(node, "parameter")
	case "arrow_function":
		if param := node.ChildByFieldName("parameter"); param != nil {
			decl, err := ctx.parseDeclaration(param, param, nil)
			if err != nil {
				return err
			}
			*out = append(*out, decl)
		}
	case "catch_clause":
		if param := node.ChildByFieldName("parameter"); param != nil {
			decl, err := ctx.parseDeclaration(param, param, node.ChildByFieldName("type"))
			if err != nil {
				return err
			}
			*out = append(*out, decl)
		}
		return ctx.collect(node.ChildByFieldName("body"), out)
	case "for_in_statement":
		// Only `for (const x of ...)` binds; `for (x of ...)` assigns.
		if node.ChildByFieldName("kind") != nil {
			left := node.ChildByFieldName("left")
			decl, err := ctx.parseDeclaration(node, left, nil)
			if err != nil {
				return err
			}
			*out = append(*out, decl)
		}
		if err := ctx.collect(node.ChildByFieldName("right"), out); err != nil {
			return err
		}
		return ctx.collect(node.ChildByFieldName("body"), out)
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if err := ctx.collect(node.NamedChild(i), out); err != nil {
			return err
		}
	}
	return nil
}
