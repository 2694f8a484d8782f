package ast

import "fmt"

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if isNilNode(node) {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// ZeroSpan returns an empty span value.
func ZeroSpan() Span {
	return Span{}
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ShiftSpans moves every span under root by the given number of lines, as
// needed when a snippet parsed on its own is spliced into a larger file.
// Zero spans are left alone.
func ShiftSpans(root Node, lines int) {
	if lines == 0 {
		return
	}
	Walk(root, func(node Node) bool {
		span := node.Span()
		if !span.IsZero() {
			span.Start.Line += lines
			span.End.Line += lines
			SetSpan(node, span)
		}
		return true
	})
}
