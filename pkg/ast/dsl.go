package ast

import "tsdecl/frontend-go/pkg/schema"

// Helpers for building trees in tests and fixtures. They take already typed
// children, so they go through the typed constructors and cannot mismatch.

// Colon is the marker the helpers place in annotation pairs.
var Colon = NewToken(":", Span{})

// Arrow is the marker the helpers place before a function type's result.
var Arrow = NewToken("=>", Span{})

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Ty(name string) *NamedType {
	return NewNamedType(name)
}

func Lit(text string) *LiteralType {
	return NewLiteralType(text)
}

func Decl(pattern Pattern, typ TypeExpression) *Declaration {
	raw := DeclarationRaw{First: pattern}
	if typ != nil {
		raw.Second = schema.Option[schema.Pair[any, TypeExpression]]{
			Value: schema.Pair[any, TypeExpression]{First: Colon, Second: typ},
			Valid: true,
		}
	}
	return NewDeclaration(Span{}, raw)
}

func List(elements ...Pattern) *ListPattern {
	raw := make(ListPatternRaw, len(elements))
	for i, elem := range elements {
		if elem != nil {
			raw[i] = schema.Option[Pattern]{Value: elem, Valid: true}
		}
	}
	return NewListPattern(Span{}, raw)
}

func Rest(target Pattern) *RestPattern {
	return NewRestPattern(Span{}, RestPatternRaw{First: NewToken("...", Span{}), Second: target})
}

func Field(key string, value Pattern) *RecordPatternField {
	raw := RecordPatternFieldRaw{First: ID(key)}
	if value != nil {
		raw.Second = schema.Option[schema.Pair[any, Pattern]]{
			Value: schema.Pair[any, Pattern]{First: Colon, Second: value},
			Valid: true,
		}
	}
	return NewRecordPatternField(Span{}, raw)
}

func Record(rest *RestPattern, fields ...*RecordPatternField) *RecordPattern {
	raw := RecordPatternRaw{First: fields}
	if rest != nil {
		raw.Second = schema.Option[*RestPattern]{Value: rest, Valid: true}
	}
	return NewRecordPattern(Span{}, raw)
}

func Gen(base string, args ...TypeExpression) *GenericType {
	return NewGenericType(Span{}, GenericTypeRaw{First: Ty(base), Second: args})
}

func ArrayOf(element TypeExpression) *ArrayType {
	return NewArrayType(element)
}

func TupleOf(elements ...TypeExpression) *TupleType {
	return NewTupleType(Span{}, elements)
}

func UnionOf(members ...TypeExpression) *UnionType {
	return NewUnionType(Span{}, members)
}

func FnType(params []*Declaration, result TypeExpression) *FunctionType {
	return NewFunctionType(Span{}, FunctionTypeRaw{
		First:  params,
		Second: schema.Pair[any, TypeExpression]{First: Arrow, Second: result},
	})
}
