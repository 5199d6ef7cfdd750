package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"crane/internal/ast"
	"crane/internal/source"
)

// ASTFormatVersion is bumped whenever ASTDocument changes shape.
const ASTFormatVersion = 1

// ASTNodeOutput is the serialized form of one ast.Node.
// Value is a pointer so an empty string literal survives a round trip.
type ASTNodeOutput struct {
	Type     string          `json:"type" yaml:"type" msgpack:"type"`
	Value    *string         `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Line     uint32          `json:"line" yaml:"line" msgpack:"line"`
	Span     source.Span     `json:"span" yaml:"span" msgpack:"span"`
	Children []ASTNodeOutput `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// ASTDocument — корень экспорта AST (JSON/YAML/msgpack).
type ASTDocument struct {
	Version int             `json:"version" yaml:"version" msgpack:"version"`
	File    string          `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Nodes   []ASTNodeOutput `json:"nodes" yaml:"nodes" msgpack:"nodes"`
}

// BuildASTDocument converts tree into its serializable form. file may be empty.
func BuildASTDocument(tree *ast.Tree, file string) ASTDocument {
	doc := ASTDocument{Version: ASTFormatVersion, File: file, Nodes: []ASTNodeOutput{}}
	if tree == nil {
		return doc
	}
	for _, n := range tree.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeOutput(n))
	}
	return doc
}

func nodeOutput(n *ast.Node) ASTNodeOutput {
	out := ASTNodeOutput{
		Type: n.Type.String(),
		Line: n.Line,
		Span: n.Span,
	}
	if n.HasValue {
		v := n.Value
		out.Value = &v
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, nodeOutput(c))
	}
	return out
}

// Tree rebuilds an ast.Tree from a decoded document.
func (doc ASTDocument) Tree() (*ast.Tree, error) {
	if doc.Version != ASTFormatVersion {
		return nil, fmt.Errorf("unsupported AST format version %d (want %d)", doc.Version, ASTFormatVersion)
	}
	tree := ast.NewTree()
	for i := range doc.Nodes {
		n, err := doc.Nodes[i].node()
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		tree.Add(n)
	}
	return tree, nil
}

func (o ASTNodeOutput) node() (*ast.Node, error) {
	t, err := ast.ParseNodeType(o.Type)
	if err != nil {
		return nil, err
	}
	children := make([]*ast.Node, 0, len(o.Children))
	for _, c := range o.Children {
		child, err := c.node()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if o.Value != nil {
		return ast.NewValued(t, *o.Value, o.Line, o.Span, children...), nil
	}
	return ast.NewNode(t, o.Line, o.Span, children...), nil
}

// nodeLabel: Type(value), строки в кавычках.
func nodeLabel(n *ast.Node) string {
	if !n.HasValue {
		return n.Type.String()
	}
	if n.Type == ast.NodeString {
		return n.Type.String() + "(" + strconv.Quote(n.Value) + ")"
	}
	return n.Type.String() + "(" + n.Value + ")"
}

// FormatASTPretty prints the tree as an indented outline with positions.
func FormatASTPretty(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	nodes := tree.Nodes()
	fmt.Fprintf(w, "Tree (%d statements)\n", len(nodes))
	for i, n := range nodes {
		if err := formatNodePretty(w, n, fs, "", i == len(nodes)-1); err != nil {
			return err
		}
	}
	return nil
}

func formatNodePretty(w io.Writer, n *ast.Node, fs *source.FileSet, prefix string, isLast bool) error {
	branch, childPrefix := "├─ ", prefix+"│  "
	if isLast {
		branch, childPrefix = "└─ ", prefix+"   "
	}
	if _, err := fmt.Fprintf(w, "%s%s%s %s\n", prefix, branch, nodeLabel(n), formatPos(n, fs)); err != nil {
		return err
	}
	for i, c := range n.Children {
		if err := formatNodePretty(w, c, fs, childPrefix, i == len(n.Children)-1); err != nil {
			return err
		}
	}
	return nil
}

// formatPos: "@line:col" при наличии FileSet, иначе "@line".
func formatPos(n *ast.Node, fs *source.FileSet) string {
	if fs == nil || int(n.Span.File) >= fs.Len() {
		return fmt.Sprintf("@%d", n.Line)
	}
	start, _ := fs.Resolve(n.Span)
	return fmt.Sprintf("@%d:%d", start.Line, start.Col)
}

func FormatASTJSON(w io.Writer, tree *ast.Tree) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildASTDocument(tree, ""))
}

func FormatASTYAML(w io.Writer, tree *ast.Tree) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(BuildASTDocument(tree, "")); err != nil {
		return err
	}
	return encoder.Close()
}

// FormatASTMsgpack writes the binary export read by the bytecode emitter.
func FormatASTMsgpack(w io.Writer, tree *ast.Tree) error {
	return msgpack.NewEncoder(w).Encode(BuildASTDocument(tree, ""))
}

// DecodeASTMsgpack is the inverse of FormatASTMsgpack.
func DecodeASTMsgpack(r io.Reader) (*ast.Tree, error) {
	var doc ASTDocument
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ast: %w", err)
	}
	return doc.Tree()
}
