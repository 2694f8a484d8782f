// Package schema describes the shape of raw syntax values and checks values
// against those descriptions.
//
// A Schema[T] is an immutable descriptor. Its type parameter is the type of
// the values it accepts: composing descriptors composes their accepted types,
// so a constructor written against a descriptor's T cannot disagree with the
// rule the descriptor enforces. For example
//
//	Tuple2(Is[Pattern]("Pattern"), Nullable(Tuple2(Any(), Is[Type]("Type"))))
//
// has type Schema[Pair[Pattern, Option[Pair[any, Type]]]].
//
// Raw sequences are []any and absence is the untyped nil. Matching is
// structural and stops at the first mismatch. A descriptor never repairs or
// converts its input; on success it hands back the same values viewed at the
// accepted type.
package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Schema is a shape descriptor accepting values of type T.
//
// The set of descriptors is closed; build them with the constructors in this
// package.
type Schema[T any] interface {
	fmt.Stringer
	match(v any) (T, *MismatchError)
}

// ErrMismatch is matched by every *MismatchError via errors.Is.
var ErrMismatch = errors.New("schema: shape mismatch")

// Path locates a value inside nested sequences, outermost index first.
type Path []int

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, idx := range p {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(']')
	}
	return b.String()
}

// MismatchError reports the first position where a value departs from a
// descriptor.
type MismatchError struct {
	Path     Path
	Expected string
	Actual   string
	Reason   string
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("schema: at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// at prefixes the path with the index of the enclosing sequence element.
func (e *MismatchError) at(idx int) *MismatchError {
	e.Path = append(Path{idx}, e.Path...)
	return e
}

func mismatch(expected fmt.Stringer, v any, reason string) *MismatchError {
	return &MismatchError{
		Expected: expected.String(),
		Actual:   describeValue(v),
		Reason:   reason,
	}
}

func describeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case []any:
		return fmt.Sprintf("[]any(len=%d)", len(val))
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Match reports whether v has the shape described by s and, when it does,
// returns v viewed at the accepted type.
func Match[T any](s Schema[T], v any) (T, bool) {
	out, err := s.match(v)
	if err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// Check reports whether v has the shape described by s.
func Check[T any](s Schema[T], v any) bool {
	_, err := s.match(v)
	return err == nil
}

// Validate is Match with a descriptive failure. The returned error is always
// a *MismatchError.
func Validate[T any](s Schema[T], v any) (T, error) {
	out, err := s.match(v)
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
