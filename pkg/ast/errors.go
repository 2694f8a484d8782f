package ast

import (
	"errors"
	"fmt"

	"tsdecl/frontend-go/pkg/schema"
)

// ShapeError reports a raw tuple that does not match the shape of the node
// being built from it. It means the producer of the tuple and the AST disagree,
// never that the source text is wrong.
type ShapeError struct {
	Node  NodeType
	Span  Span
	Shape string
	Cause *schema.MismatchError
}

func (e *ShapeError) Error() string {
	location := ""
	if e.Span.Start.Line > 0 {
		location = fmt.Sprintf(" at %d:%d", e.Span.Start.Line, e.Span.Start.Column)
	}
	return fmt.Sprintf("ast: internal error: %s%s: raw value does not match %s: %v", e.Node, location, e.Shape, e.Cause)
}

func (e *ShapeError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// IsInternal reports whether err stems from a node built from a malformed raw
// tuple.
func IsInternal(err error) bool {
	var shapeErr *ShapeError
	return errors.As(err, &shapeErr)
}

func build[R any, N Node](kind NodeType, shape schema.Schema[R], span Span, raw any, construct func(Span, R) N) (N, error) {
	matched, err := schema.Validate(shape, raw)
	if err != nil {
		var zero N
		cause, _ := err.(*schema.MismatchError)
		return zero, &ShapeError{Node: kind, Span: span, Shape: shape.String(), Cause: cause}
	}
	return construct(span, matched), nil
}
