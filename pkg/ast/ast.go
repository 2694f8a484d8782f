package ast

import (
	"reflect"
	"strings"
)

type NodeType string

const (
	NodeIdentifier         NodeType = "Identifier"
	NodeListPattern        NodeType = "ListPattern"
	NodeRecordPattern      NodeType = "RecordPattern"
	NodeRecordPatternField NodeType = "RecordPatternField"
	NodeRestPattern        NodeType = "RestPattern"
	NodeNamedType          NodeType = "NamedType"
	NodeLiteralType        NodeType = "LiteralType"
	NodeGenericType        NodeType = "GenericType"
	NodeArrayType          NodeType = "ArrayType"
	NodeTupleType          NodeType = "TupleType"
	NodeUnionType          NodeType = "UnionType"
	NodeFunctionType       NodeType = "FunctionType"
	NodeDeclaration        NodeType = "Declaration"
	NodeModule             NodeType = "Module"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	// Children lists the direct child nodes in source order.
	Children() []Node
	String() string
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// nodeImpl is the base every node embeds: its kind, its span and the child
// list handed over by the constructor.
type nodeImpl struct {
	Type     NodeType `json:"type"`
	span     Span
	children []Node
}

func newNodeImpl(kind NodeType, span Span, children ...Node) nodeImpl {
	kept := make([]Node, 0, len(children))
	for _, child := range children {
		if !isNilNode(child) {
			kept = append(kept, child)
		}
	}
	return nodeImpl{Type: kind, span: span, children: kept}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (n nodeImpl) Children() []Node   { return append([]Node(nil), n.children...) }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

func isNilNode(node Node) bool {
	if node == nil {
		return true
	}
	val := reflect.ValueOf(node)
	return val.Kind() == reflect.Pointer && val.IsNil()
}

// Marker interfaces.

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

type TypeExpression interface {
	Node
	typeExpressionNode()
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

// IsPattern narrows v to a non-nil Pattern.
func IsPattern(v any) (Pattern, bool) {
	p, ok := v.(Pattern)
	if !ok || isNilNode(p) {
		return nil, false
	}
	return p, true
}

// IsType narrows v to a non-nil TypeExpression.
func IsType(v any) (TypeExpression, bool) {
	t, ok := v.(TypeExpression)
	if !ok || isNilNode(t) {
		return nil, false
	}
	return t, true
}

// Token is a lexical marker carried in raw tuples, such as the ':' that
// introduces a type annotation. Nodes validate its presence but do not keep it.
type Token struct {
	Text string `json:"text"`
	Span Span   `json:"span"`
}

func NewToken(text string, span Span) Token {
	return Token{Text: text, Span: span}
}

func (t Token) String() string { return t.Text }

// Module holds the declarations of one source file in source order.
type Module struct {
	nodeImpl

	Declarations []*Declaration `json:"declarations"`
}

func NewModule(declarations []*Declaration) *Module {
	children := make([]Node, len(declarations))
	for i, decl := range declarations {
		children[i] = decl
	}
	return &Module{nodeImpl: newNodeImpl(NodeModule, Span{}, children...), Declarations: declarations}
}

func (m *Module) String() string {
	lines := make([]string, len(m.Declarations))
	for i, decl := range m.Declarations {
		lines[i] = decl.String()
	}
	return strings.Join(lines, "\n")
}

func joinNodes[N Node](nodes []N, sep string) string {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		if !isNilNode(node) {
			parts[i] = node.String()
		}
	}
	return strings.Join(parts, sep)
}
