package ast

import (
	"fmt"

	"crane/internal/source"
)

// NodeType labels a Node.
type NodeType uint8

const (
	NodeErr NodeType = iota
	NodeNumber
	NodeString
	NodeIdentifier
	NodeOperator
	NodeKeyword
	NodeFunctionCall
	NodeFunction
	NodeConditional
	NodeBlock
	NodeReassignment
	NodeExpression
)

var nodeTypeNames = [...]string{
	NodeErr:          "Err",
	NodeNumber:       "Number",
	NodeString:       "String",
	NodeIdentifier:   "Identifier",
	NodeOperator:     "Operator",
	NodeKeyword:      "Keyword",
	NodeFunctionCall: "FunctionCall",
	NodeFunction:     "Function",
	NodeConditional:  "Conditional",
	NodeBlock:        "Block",
	NodeReassignment: "Reassignment",
	NodeExpression:   "Expression",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

// ParseNodeType is the inverse of NodeType.String.
func ParseNodeType(s string) (NodeType, error) {
	for i, name := range nodeTypeNames {
		if name == s {
			return NodeType(i), nil
		}
	}
	return NodeErr, fmt.Errorf("unknown node type %q", s)
}

// Node is one vertex of the syntax tree.
// HasValue distinguishes an empty string literal from a node without a value.
type Node struct {
	Type     NodeType
	Value    string
	HasValue bool
	Line     uint32
	Span     source.Span
	Children []*Node
}

// NewNode creates a node without a value (Block, Err, Conditional, ...).
func NewNode(t NodeType, line uint32, span source.Span, children ...*Node) *Node {
	return &Node{Type: t, Line: line, Span: span, Children: children}
}

// NewValued creates a node carrying value, optionally with children.
func NewValued(t NodeType, value string, line uint32, span source.Span, children ...*Node) *Node {
	return &Node{Type: t, Value: value, HasValue: true, Line: line, Span: span, Children: children}
}

// NewLeaf creates a childless node carrying value.
func NewLeaf(t NodeType, value string, line uint32, span source.Span) *Node {
	return NewValued(t, value, line, span)
}

// AddChild appends c. Only call it while n is still under construction.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
	if c != nil {
		n.Span = n.Span.Cover(c.Span)
	}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Equal compares type, value and children recursively; positions are ignored.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Type != o.Type || n.HasValue != o.HasValue || n.Value != o.Value || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Tree is the ordered list of top-level nodes.
type Tree struct {
	nodes []*Node
}

func NewTree() *Tree { return &Tree{} }

func (t *Tree) Add(n *Node)    { t.nodes = append(t.nodes, n) }
func (t *Tree) Len() int       { return len(t.nodes) }
func (t *Tree) Nodes() []*Node { return t.nodes }
func (t *Tree) At(i int) *Node { return t.nodes[i] }
