package ast

import (
	"strings"

	"tsdecl/frontend-go/pkg/schema"
)

// Type expressions

var (
	typeGuard      = schema.Guard("Type", IsType)
	namedTypeGuard = schema.Guard("NamedType", func(v any) (*NamedType, bool) {
		named, ok := v.(*NamedType)
		return named, ok && named != nil
	})
	declarationGuard = schema.Guard("Declaration", func(v any) (*Declaration, bool) {
		decl, ok := v.(*Declaration)
		return decl, ok && decl != nil
	})
)

// NamedType is a type reference by name, possibly qualified (`ns.Name`).
type NamedType struct {
	nodeImpl
	typeExpressionMarker

	Name string `json:"name"`
}

func NewNamedType(name string) *NamedType {
	return &NamedType{nodeImpl: newNodeImpl(NodeNamedType, Span{}), Name: name}
}

func (n *NamedType) String() string { return n.Name }

// LiteralType is a literal used as a type, kept as written.
type LiteralType struct {
	nodeImpl
	typeExpressionMarker

	Text string `json:"text"`
}

func NewLiteralType(text string) *LiteralType {
	return &LiteralType{nodeImpl: newNodeImpl(NodeLiteralType, Span{}), Text: text}
}

func (l *LiteralType) String() string { return l.Text }

type ArrayType struct {
	nodeImpl
	typeExpressionMarker

	Element TypeExpression `json:"element"`
}

func NewArrayType(element TypeExpression) *ArrayType {
	return &ArrayType{nodeImpl: newNodeImpl(NodeArrayType, Span{}, element), Element: element}
}

func (a *ArrayType) String() string {
	return wrapCompound(a.Element) + "[]"
}

type GenericType struct {
	nodeImpl
	typeExpressionMarker

	Base      *NamedType       `json:"base"`
	Arguments []TypeExpression `json:"arguments"`
}

// GenericTypeRaw is [base, arguments].
type GenericTypeRaw = schema.Pair[*NamedType, []TypeExpression]

var GenericTypeShape schema.Schema[GenericTypeRaw] = schema.Tuple2(namedTypeGuard, schema.SliceOf(typeGuard))

func NewGenericType(span Span, raw GenericTypeRaw) *GenericType {
	children := make([]Node, 0, len(raw.Second)+1)
	children = append(children, raw.First)
	for _, arg := range raw.Second {
		children = append(children, arg)
	}
	return &GenericType{
		nodeImpl:  newNodeImpl(NodeGenericType, span, children...),
		Base:      raw.First,
		Arguments: raw.Second,
	}
}

func BuildGenericType(span Span, raw any) (*GenericType, error) {
	return build(NodeGenericType, GenericTypeShape, span, raw, NewGenericType)
}

func (g *GenericType) String() string {
	return g.Base.String() + "<" + joinNodes(g.Arguments, ", ") + ">"
}

type TupleType struct {
	nodeImpl
	typeExpressionMarker

	Elements []TypeExpression `json:"elements"`
}

// TupleTypeRaw lists the element types.
type TupleTypeRaw = []TypeExpression

var TupleTypeShape schema.Schema[TupleTypeRaw] = schema.SliceOf(typeGuard)

func NewTupleType(span Span, raw TupleTypeRaw) *TupleType {
	return &TupleType{nodeImpl: newNodeImpl(NodeTupleType, span, typeNodes(raw)...), Elements: raw}
}

func BuildTupleType(span Span, raw any) (*TupleType, error) {
	return build(NodeTupleType, TupleTypeShape, span, raw, NewTupleType)
}

func (t *TupleType) String() string {
	return "[" + joinNodes(t.Elements, ", ") + "]"
}

type UnionType struct {
	nodeImpl
	typeExpressionMarker

	Members []TypeExpression `json:"members"`
}

// UnionTypeRaw lists the member types in source order.
type UnionTypeRaw = []TypeExpression

var UnionTypeShape schema.Schema[UnionTypeRaw] = schema.SliceOf(typeGuard)

func NewUnionType(span Span, raw UnionTypeRaw) *UnionType {
	return &UnionType{nodeImpl: newNodeImpl(NodeUnionType, span, typeNodes(raw)...), Members: raw}
}

func BuildUnionType(span Span, raw any) (*UnionType, error) {
	return build(NodeUnionType, UnionTypeShape, span, raw, NewUnionType)
}

func (u *UnionType) String() string {
	parts := make([]string, len(u.Members))
	for i, member := range u.Members {
		if _, ok := member.(*FunctionType); ok {
			parts[i] = "(" + member.String() + ")"
			continue
		}
		parts[i] = member.String()
	}
	return strings.Join(parts, " | ")
}

// FunctionType is `(params) => result`. Its parameters are declarations.
type FunctionType struct {
	nodeImpl
	typeExpressionMarker

	Params     []*Declaration `json:"params"`
	ReturnType TypeExpression `json:"returnType"`
}

// FunctionTypeRaw is [params, [marker, result]].
type FunctionTypeRaw = schema.Pair[[]*Declaration, schema.Pair[any, TypeExpression]]

var FunctionTypeShape schema.Schema[FunctionTypeRaw] = schema.Tuple2(
	schema.SliceOf(declarationGuard),
	schema.Tuple2(schema.Any(), typeGuard),
)

func NewFunctionType(span Span, raw FunctionTypeRaw) *FunctionType {
	children := make([]Node, 0, len(raw.First)+1)
	for _, param := range raw.First {
		children = append(children, param)
	}
	children = append(children, raw.Second.Second)
	return &FunctionType{
		nodeImpl:   newNodeImpl(NodeFunctionType, span, children...),
		Params:     raw.First,
		ReturnType: raw.Second.Second,
	}
}

func BuildFunctionType(span Span, raw any) (*FunctionType, error) {
	return build(NodeFunctionType, FunctionTypeShape, span, raw, NewFunctionType)
}

func (f *FunctionType) String() string {
	return "(" + joinNodes(f.Params, ", ") + ") => " + f.ReturnType.String()
}

func typeNodes(types []TypeExpression) []Node {
	nodes := make([]Node, len(types))
	for i, typ := range types {
		nodes[i] = typ
	}
	return nodes
}

func wrapCompound(typ TypeExpression) string {
	switch typ.(type) {
	case *UnionType, *FunctionType:
		return "(" + typ.String() + ")"
	default:
		return typ.String()
	}
}
