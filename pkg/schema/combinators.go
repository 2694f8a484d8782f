package schema

import (
	"fmt"
	"strings"
)

// Pair is the accepted type of a two-element tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the accepted type of a three-element tuple.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Option is the accepted type of a nullable descriptor. Valid is false when
// the raw value was nil.
type Option[T any] struct {
	Value T
	Valid bool
}

// Get returns the wrapped value and whether it was present.
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Any

type anySchema struct{}

// Any matches every value, nil included.
func Any() Schema[any] {
	return anySchema{}
}

func (anySchema) String() string { return "any" }

func (anySchema) match(v any) (any, *MismatchError) {
	return v, nil
}

// Guard

type guardSchema[T any] struct {
	name string
	pred func(any) (T, bool)
}

// Guard matches the values pred accepts. pred narrows its argument: it reports
// whether v is specifically a T and returns it as one. name is used when the
// descriptor is rendered.
func Guard[T any](name string, pred func(any) (T, bool)) Schema[T] {
	if pred == nil {
		panic("schema: Guard requires a predicate")
	}
	return guardSchema[T]{name: name, pred: pred}
}

// Is is the guard built from a type assertion to T.
func Is[T any](name string) Schema[T] {
	return Guard(name, func(v any) (T, bool) {
		out, ok := v.(T)
		return out, ok
	})
}

func (g guardSchema[T]) String() string { return "guard(" + g.name + ")" }

func (g guardSchema[T]) match(v any) (T, *MismatchError) {
	out, ok := g.pred(v)
	if !ok {
		var zero T
		return zero, mismatch(g, v, "")
	}
	return out, nil
}

// Tuples

func sequence(s fmt.Stringer, v any, n int) ([]any, *MismatchError) {
	items, ok := v.([]any)
	if !ok {
		return nil, mismatch(s, v, "not a sequence")
	}
	if n >= 0 && len(items) != n {
		return nil, mismatch(s, v, fmt.Sprintf("length %d, want %d", len(items), n))
	}
	return items, nil
}

func renderList(name string, parts ...fmt.Stringer) string {
	rendered := make([]string, len(parts))
	for i, part := range parts {
		rendered[i] = part.String()
	}
	return name + "(" + strings.Join(rendered, ", ") + ")"
}

type tupleSchema struct {
	elems []Schema[any]
}

// Tuple matches a sequence of exactly len(elems) values where the i-th value
// matches elems[i]. Use Erase to pass typed descriptors.
func Tuple(elems ...Schema[any]) Schema[[]any] {
	return tupleSchema{elems: append([]Schema[any](nil), elems...)}
}

func (t tupleSchema) String() string {
	parts := make([]fmt.Stringer, len(t.elems))
	for i, elem := range t.elems {
		parts[i] = elem
	}
	return renderList("tuple", parts...)
}

func (t tupleSchema) match(v any) ([]any, *MismatchError) {
	items, err := sequence(t, v, len(t.elems))
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, elem := range t.elems {
		view, err := elem.match(items[i])
		if err != nil {
			return nil, err.at(i)
		}
		out[i] = view
	}
	return out, nil
}

type tuple2Schema[A, B any] struct {
	first  Schema[A]
	second Schema[B]
}

// Tuple2 matches a two-element sequence.
func Tuple2[A, B any](first Schema[A], second Schema[B]) Schema[Pair[A, B]] {
	return tuple2Schema[A, B]{first: first, second: second}
}

func (t tuple2Schema[A, B]) String() string {
	return renderList("tuple", t.first, t.second)
}

func (t tuple2Schema[A, B]) match(v any) (Pair[A, B], *MismatchError) {
	var out Pair[A, B]
	items, err := sequence(t, v, 2)
	if err != nil {
		return out, err
	}
	if out.First, err = t.first.match(items[0]); err != nil {
		return Pair[A, B]{}, err.at(0)
	}
	if out.Second, err = t.second.match(items[1]); err != nil {
		return Pair[A, B]{}, err.at(1)
	}
	return out, nil
}

type tuple3Schema[A, B, C any] struct {
	first  Schema[A]
	second Schema[B]
	third  Schema[C]
}

// Tuple3 matches a three-element sequence.
func Tuple3[A, B, C any](first Schema[A], second Schema[B], third Schema[C]) Schema[Triple[A, B, C]] {
	return tuple3Schema[A, B, C]{first: first, second: second, third: third}
}

func (t tuple3Schema[A, B, C]) String() string {
	return renderList("tuple", t.first, t.second, t.third)
}

func (t tuple3Schema[A, B, C]) match(v any) (Triple[A, B, C], *MismatchError) {
	var out Triple[A, B, C]
	items, err := sequence(t, v, 3)
	if err != nil {
		return out, err
	}
	if out.First, err = t.first.match(items[0]); err != nil {
		return Triple[A, B, C]{}, err.at(0)
	}
	if out.Second, err = t.second.match(items[1]); err != nil {
		return Triple[A, B, C]{}, err.at(1)
	}
	if out.Third, err = t.third.match(items[2]); err != nil {
		return Triple[A, B, C]{}, err.at(2)
	}
	return out, nil
}

// Nullable

type nullableSchema[T any] struct {
	inner Schema[T]
}

// Nullable matches nil, or any value inner matches.
func Nullable[T any](inner Schema[T]) Schema[Option[T]] {
	return nullableSchema[T]{inner: inner}
}

func (n nullableSchema[T]) String() string {
	return renderList("nullable", n.inner)
}

func (n nullableSchema[T]) match(v any) (Option[T], *MismatchError) {
	if v == nil {
		return Option[T]{}, nil
	}
	out, err := n.inner.match(v)
	if err != nil {
		return Option[T]{}, err
	}
	return Option[T]{Value: out, Valid: true}, nil
}

// Slices

type sliceSchema[T any] struct {
	elem Schema[T]
}

// SliceOf matches a sequence of any length whose elements all match elem.
func SliceOf[T any](elem Schema[T]) Schema[[]T] {
	return sliceSchema[T]{elem: elem}
}

func (s sliceSchema[T]) String() string {
	return renderList("slice", s.elem)
}

func (s sliceSchema[T]) match(v any) ([]T, *MismatchError) {
	items, err := sequence(s, v, -1)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		view, err := s.elem.match(item)
		if err != nil {
			return nil, err.at(i)
		}
		out[i] = view
	}
	return out, nil
}

// Erase

type erasedSchema[T any] struct {
	inner Schema[T]
}

// Erase views s as a Schema[any] with the same matching rule.
func Erase[T any](s Schema[T]) Schema[any] {
	if already, ok := any(s).(Schema[any]); ok {
		return already
	}
	return erasedSchema[T]{inner: s}
}

func (e erasedSchema[T]) String() string { return e.inner.String() }

func (e erasedSchema[T]) match(v any) (any, *MismatchError) {
	out, err := e.inner.match(v)
	if err != nil {
		return nil, err
	}
	return out, nil
}
