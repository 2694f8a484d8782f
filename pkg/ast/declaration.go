package ast

import "tsdecl/frontend-go/pkg/schema"

// Declaration binds a pattern, optionally annotated with a type.
type Declaration struct {
	nodeImpl

	Pattern Pattern        `json:"pattern"`
	Type    TypeExpression `json:"typeAnnotation,omitempty"`
}

// DeclarationRaw is the raw tuple accepted by DeclarationShape:
// [pattern, nil] or [pattern, [marker, type]].
type DeclarationRaw = schema.Pair[Pattern, schema.Option[schema.Pair[any, TypeExpression]]]

// DeclarationShape describes the raw tuple a Declaration is built from. The
// marker in the annotation pair is required to be present but is not
// inspected.
var DeclarationShape schema.Schema[DeclarationRaw] = schema.Tuple2(
	patternGuard,
	schema.Nullable(schema.Tuple2(schema.Any(), typeGuard)),
)

// NewDeclaration builds the node from an already matched raw tuple.
func NewDeclaration(span Span, raw DeclarationRaw) *Declaration {
	var typ TypeExpression
	if annotation, ok := raw.Second.Get(); ok {
		typ = annotation.Second
	}
	return &Declaration{
		nodeImpl: newNodeImpl(NodeDeclaration, span, raw.First, typ),
		Pattern:  raw.First,
		Type:     typ,
	}
}

// BuildDeclaration checks raw against DeclarationShape before building the
// node. A mismatch is reported as a *ShapeError.
func BuildDeclaration(span Span, raw any) (*Declaration, error) {
	return build(NodeDeclaration, DeclarationShape, span, raw, NewDeclaration)
}

func (d *Declaration) String() string {
	if d.Type != nil {
		return d.Pattern.String() + ": " + d.Type.String()
	}
	return d.Pattern.String()
}
