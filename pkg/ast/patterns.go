package ast

import (
	"strings"

	"tsdecl/frontend-go/pkg/schema"
)

// Patterns

var (
	patternGuard    = schema.Guard("Pattern", IsPattern)
	identifierGuard = schema.Guard("Identifier", func(v any) (*Identifier, bool) {
		id, ok := v.(*Identifier)
		return id, ok && id != nil
	})
	restPatternGuard = schema.Guard("RestPattern", func(v any) (*RestPattern, bool) {
		rest, ok := v.(*RestPattern)
		return rest, ok && rest != nil
	})
	recordFieldGuard = schema.Guard("RecordPatternField", func(v any) (*RecordPatternField, bool) {
		field, ok := v.(*RecordPatternField)
		return field, ok && field != nil
	})
)

type Identifier struct {
	nodeImpl
	patternMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, Span{}), Name: name}
}

func (i *Identifier) String() string { return i.Name }

// RestPattern is `...target`.
type RestPattern struct {
	nodeImpl
	patternMarker

	Target Pattern `json:"target"`
}

// RestPatternRaw is [marker, target].
type RestPatternRaw = schema.Pair[any, Pattern]

var RestPatternShape schema.Schema[RestPatternRaw] = schema.Tuple2(schema.Any(), patternGuard)

func NewRestPattern(span Span, raw RestPatternRaw) *RestPattern {
	return &RestPattern{nodeImpl: newNodeImpl(NodeRestPattern, span, raw.Second), Target: raw.Second}
}

func BuildRestPattern(span Span, raw any) (*RestPattern, error) {
	return build(NodeRestPattern, RestPatternShape, span, raw, NewRestPattern)
}

func (r *RestPattern) String() string { return "..." + r.Target.String() }

// ListPattern destructures a sequence. A nil element is a hole.
type ListPattern struct {
	nodeImpl
	patternMarker

	Elements []Pattern `json:"elements"`
}

// ListPatternRaw holds one entry per element; nil entries are holes.
type ListPatternRaw = []schema.Option[Pattern]

var ListPatternShape schema.Schema[ListPatternRaw] = schema.SliceOf(schema.Nullable(patternGuard))

func NewListPattern(span Span, raw ListPatternRaw) *ListPattern {
	elements := make([]Pattern, len(raw))
	children := make([]Node, 0, len(raw))
	for i, entry := range raw {
		if elem, ok := entry.Get(); ok {
			elements[i] = elem
			children = append(children, elem)
		}
	}
	return &ListPattern{nodeImpl: newNodeImpl(NodeListPattern, span, children...), Elements: elements}
}

func BuildListPattern(span Span, raw any) (*ListPattern, error) {
	return build(NodeListPattern, ListPatternShape, span, raw, NewListPattern)
}

func (l *ListPattern) String() string {
	return "[" + joinNodes(l.Elements, ", ") + "]"
}

// RecordPatternField is `key` or `key: value`.
type RecordPatternField struct {
	nodeImpl

	Key   *Identifier `json:"key"`
	Value Pattern     `json:"value,omitempty"`
}

// RecordPatternFieldRaw is [key, maybe [marker, value]].
type RecordPatternFieldRaw = schema.Pair[*Identifier, schema.Option[schema.Pair[any, Pattern]]]

var RecordPatternFieldShape schema.Schema[RecordPatternFieldRaw] = schema.Tuple2(
	identifierGuard,
	schema.Nullable(schema.Tuple2(schema.Any(), patternGuard)),
)

func NewRecordPatternField(span Span, raw RecordPatternFieldRaw) *RecordPatternField {
	var value Pattern
	if pair, ok := raw.Second.Get(); ok {
		value = pair.Second
	}
	return &RecordPatternField{
		nodeImpl: newNodeImpl(NodeRecordPatternField, span, raw.First, value),
		Key:      raw.First,
		Value:    value,
	}
}

func BuildRecordPatternField(span Span, raw any) (*RecordPatternField, error) {
	return build(NodeRecordPatternField, RecordPatternFieldShape, span, raw, NewRecordPatternField)
}

func (f *RecordPatternField) String() string {
	if f.Value == nil {
		return f.Key.String()
	}
	return f.Key.String() + ": " + f.Value.String()
}

// RecordPattern destructures named fields, optionally collecting the rest.
type RecordPattern struct {
	nodeImpl
	patternMarker

	Fields []*RecordPatternField `json:"fields"`
	Rest   *RestPattern          `json:"rest,omitempty"`
}

// RecordPatternRaw is [fields, maybe rest].
type RecordPatternRaw = schema.Pair[[]*RecordPatternField, schema.Option[*RestPattern]]

var RecordPatternShape schema.Schema[RecordPatternRaw] = schema.Tuple2(
	schema.SliceOf(recordFieldGuard),
	schema.Nullable(restPatternGuard),
)

func NewRecordPattern(span Span, raw RecordPatternRaw) *RecordPattern {
	rest, _ := raw.Second.Get()
	children := make([]Node, 0, len(raw.First)+1)
	for _, field := range raw.First {
		children = append(children, field)
	}
	if rest != nil {
		children = append(children, rest)
	}
	return &RecordPattern{
		nodeImpl: newNodeImpl(NodeRecordPattern, span, children...),
		Fields:   raw.First,
		Rest:     rest,
	}
}

func BuildRecordPattern(span Span, raw any) (*RecordPattern, error) {
	return build(NodeRecordPattern, RecordPatternShape, span, raw, NewRecordPattern)
}

func (r *RecordPattern) String() string {
	parts := make([]string, 0, len(r.Fields)+1)
	for _, field := range r.Fields {
		parts = append(parts, field.String())
	}
	if r.Rest != nil {
		parts = append(parts, r.Rest.String())
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
