package ast

// Visitor's Visit is called for each node reached by Walk. If the returned
// visitor w is not nil, Walk visits each child of node with w, followed by a
// call of w.Visit(nil).
type Visitor interface {
	Visit(node *Node) (w Visitor)
}

// Walk traverses the subtree rooted at node in depth-first order.
func Walk(v Visitor, node *Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range node.Children {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(*Node) bool

func (f inspector) Visit(node *Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for node and its descendants while f returns true.
// After the children of a node are done, f(nil) is called.
func Inspect(node *Node, f func(*Node) bool) {
	Walk(inspector(f), node)
}

// Inspect runs Inspect over every top-level node in order.
func (t *Tree) Inspect(f func(*Node) bool) {
	for _, n := range t.nodes {
		Inspect(n, f)
	}
}

// Count returns the number of nodes in the tree, nested ones included.
func (t *Tree) Count() int {
	total := 0
	t.Inspect(func(n *Node) bool {
		if n != nil {
			total++
		}
		return true
	})
	return total
}
