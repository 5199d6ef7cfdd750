package ast

import (
	"errors"
	"fmt"
	"strconv"
)

// LiteralKind tells the emitter which constant instruction a literal needs.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota + 1
	LitFloat
	LitStr
	LitBool
	LitNone
)

func (k LiteralKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	case LitBool:
		return "bool"
	case LitNone:
		return "none"
	}
	return "unknown"
}

// Literal is a decoded constant.
type Literal interface {
	Kind() LiteralKind
	String() string
}

type (
	Int     int64
	Float   float64
	Str     string
	Bool    bool
	NoneLit struct{}
)

func (Int) Kind() LiteralKind     { return LitInt }
func (Float) Kind() LiteralKind   { return LitFloat }
func (Str) Kind() LiteralKind     { return LitStr }
func (Bool) Kind() LiteralKind    { return LitBool }
func (NoneLit) Kind() LiteralKind { return LitNone }

func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Str) String() string   { return strconv.Quote(string(v)) }
func (v Bool) String() string  { return strconv.FormatBool(bool(v)) }
func (NoneLit) String() string { return "None" }

// ErrNotLiteral is returned by LiteralOf for nodes that are not constants.
var ErrNotLiteral = errors.New("node is not a literal")

// LiteralOf decodes a literal leaf. Number values are parsed as base-10 int64
// and fall back to float64 when they do not fit or use float syntax.
func LiteralOf(n *Node) (Literal, error) {
	if n == nil {
		return nil, ErrNotLiteral
	}
	switch n.Type {
	case NodeNumber:
		if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number %q: %w", n.Line, n.Value, err)
		}
		return Float(f), nil
	case NodeString:
		return Str(n.Value), nil
	case NodeKeyword:
		switch n.Value {
		case "True":
			return Bool(true), nil
		case "False":
			return Bool(false), nil
		case "None":
			return NoneLit{}, nil
		}
	}
	return nil, fmt.Errorf("line %d: %s(%s): %w", n.Line, n.Type, n.Value, ErrNotLiteral)
}
