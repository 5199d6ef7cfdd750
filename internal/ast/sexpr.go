package ast

import (
	"strconv"
	"strings"
)

// SExpr renders n compactly: Operator(Add)[Number(1) Number(2)].
// String values are quoted.
func (n *Node) SExpr() string {
	var sb strings.Builder
	writeSExpr(&sb, n)
	return sb.String()
}

func writeSExpr(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	sb.WriteString(n.Type.String())
	if n.HasValue {
		sb.WriteByte('(')
		if n.Type == NodeString {
			sb.WriteString(strconv.Quote(n.Value))
		} else {
			sb.WriteString(n.Value)
		}
		sb.WriteByte(')')
	}
	if len(n.Children) > 0 {
		sb.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeSExpr(sb, c)
		}
		sb.WriteByte(']')
	}
}

// SExpr renders every top-level node on its own line.
func (t *Tree) SExpr() string {
	parts := make([]string, 0, len(t.nodes))
	for _, n := range t.nodes {
		parts = append(parts, n.SExpr())
	}
	return strings.Join(parts, "\n")
}
