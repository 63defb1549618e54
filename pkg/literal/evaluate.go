package literal

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
)

// Evaluate reduces a literal node to its value. Arrays and pairs evaluate
// to arrays of their children, hashes to maps built from their pairs, and
// inclusive or exclusive ranges to ranges. Any other node kind, or a
// malformed literal payload, fails with ErrUnevaluableLiteral.
func Evaluate(node *ast.Node) (Value, error) {
	if node == nil {
		return Value{}, &EvalError{Kind: ast.NodeOther, Reason: "missing node"}
	}

	switch node.Kind {
	case ast.NodeNil:
		return Nil(), nil
	case ast.NodeTrue:
		return Bool(true), nil
	case ast.NodeFalse:
		return Bool(false), nil
	case ast.NodeInt:
		return evaluateInt(node)
	case ast.NodeFloat:
		return evaluateFloat(node)
	case ast.NodeStr:
		return String(node.Value), nil
	case ast.NodeSym:
		return Symbol(node.Value), nil
	case ast.NodeArray, ast.NodePair:
		elems, err := childValues(node)
		if err != nil {
			return Value{}, err
		}
		return Array(elems...), nil
	case ast.NodeHash:
		return evaluateHash(node)
	case ast.NodeIrange, ast.NodeErange:
		from, to, err := rangeBounds(node)
		if err != nil {
			return Value{}, err
		}
		return Range(from, to, node.Kind == ast.NodeIrange), nil
	default:
		return Value{}, unevaluable(node, "")
	}
}

// PrintsAsSelf reports whether node is a basic literal, or a composite
// literal whose children all print as themselves.
func PrintsAsSelf(node *ast.Node) bool {
	if node == nil {
		return false
	}
	if node.Kind.IsBasicLiteral() {
		return true
	}
	if !node.Kind.IsComposite() {
		return false
	}
	for _, child := range node.Children {
		if !PrintsAsSelf(child) {
			return false
		}
	}
	return true
}

func childValues(node *ast.Node) ([]Value, error) {
	values := make([]Value, 0, len(node.Children))
	for _, child := range node.Children {
		value, err := Evaluate(child)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// rangeBounds evaluates both endpoints of a range. An endless or beginless
// range has one child; the missing endpoint is nil. Which one is missing
// follows from whether the child starts the range.
func rangeBounds(node *ast.Node) (Value, Value, error) {
	switch node.ChildCount() {
	case 2:
		bounds, err := childValues(node)
		if err != nil {
			return Value{}, Value{}, err
		}
		return bounds[0], bounds[1], nil
	case 1:
		child := node.Children[0]
		if !node.Loc.Expression.Valid() || !child.Loc.Expression.Valid() {
			return Value{}, Value{}, unevaluable(node, "range endpoint without location")
		}
		bound, err := Evaluate(child)
		if err != nil {
			return Value{}, Value{}, err
		}
		if child.Loc.Expression.Begin() == node.Loc.Expression.Begin() {
			return bound, Nil(), nil
		}
		return Nil(), bound, nil
	default:
		return Value{}, Value{}, unevaluable(node, "range without endpoints")
	}
}

func evaluateHash(node *ast.Node) (Value, error) {
	entries := make([]Entry, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Kind != ast.NodePair || child.ChildCount() != 2 {
			return Value{}, unevaluable(child, "hash element is not a pair")
		}
		pair, err := childValues(child)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: pair[0], Value: pair[1]})
	}
	return Map(entries...), nil
}

func evaluateInt(node *ast.Node) (Value, error) {
	text := node.Value
	if text == "" {
		text = node.Source()
	}

	negative := strings.HasPrefix(text, "-")
	text = strings.TrimLeft(text, "+-")
	if rest, ok := strings.CutPrefix(strings.ToLower(text), "0d"); ok {
		text = rest
	}

	n, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return Value{}, unevaluable(node, "malformed integer")
	}
	if negative {
		n.Neg(n)
	}
	return Integer(n), nil
}

func evaluateFloat(node *ast.Node) (Value, error) {
	text := node.Value
	if text == "" {
		text = node.Source()
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return Value{}, unevaluable(node, "malformed float")
	}
	return Float(f), nil
}

func unevaluable(node *ast.Node, reason string) *EvalError {
	return &EvalError{Kind: node.Kind, Source: node.Source(), Reason: reason}
}
