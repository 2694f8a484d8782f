package ast

// Walk visits root and its descendants depth-first in source order. When visit
// returns false the children of that node are skipped.
func Walk(root Node, visit func(Node) bool) {
	walk(root, visit, make(map[Node]struct{}))
}

func walk(node Node, visit func(Node) bool, visited map[Node]struct{}) {
	if isNilNode(node) {
		return
	}
	if _, ok := visited[node]; ok {
		return
	}
	visited[node] = struct{}{}
	if !visit(node) {
		return
	}
	for _, child := range node.Children() {
		walk(child, visit, visited)
	}
}

// Declarations collects every declaration reachable from root, including the
// parameters of function types.
func Declarations(root Node) []*Declaration {
	var out []*Declaration
	Walk(root, func(node Node) bool {
		if decl, ok := node.(*Declaration); ok {
			out = append(out, decl)
		}
		return true
	})
	return out
}
