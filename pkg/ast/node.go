package ast

import "github.com/yaklabco/rbfix/pkg/source"

// Loc holds the named source locations of a node. Absent locations are
// zero Ranges (Valid reports false).
type Loc struct {
	// Expression covers the whole node.
	Expression source.Range

	// Begin is the opening delimiter: a quote, a percent-literal opener,
	// "#{" for interpolation segments, "[" or "(" for collections.
	Begin source.Range

	// End is the closing delimiter or the closing "end" keyword.
	End source.Range

	// Keyword is the leading keyword of definitions and control flow.
	Keyword source.Range

	// HeredocBody and HeredocEnd are set on heredoc literals.
	HeredocBody source.Range
	HeredocEnd  source.Range
}

// Node is one AST node. Nodes carry no parent pointers; use Parents for
// upward lookups.
type Node struct {
	// ID is unique within one tree and assigned in pre-order.
	ID int

	// Kind identifies what type of node this is.
	Kind NodeKind

	// Children are the ordered child nodes. Non-node children of the
	// parser's tree (names, operators) are not represented.
	Children []*Node

	// Value is the normalized literal payload: decimal digits for int,
	// a float literal for float, the unescaped text for str and sym,
	// the method name for send, the identifier for variables.
	Value string

	// Loc holds the node's source locations.
	Loc Loc
}

// SourceRange returns the node's expression range.
func (n *Node) SourceRange() source.Range {
	return n.Loc.Expression
}

// Source returns the node's source text.
func (n *Node) Source() string {
	return n.Loc.Expression.Source()
}

// HasDelimiters reports whether the node has both begin and end locations.
func (n *Node) HasDelimiters() bool {
	return n.Loc.Begin.Valid() && n.Loc.End.Valid()
}

// IsHeredoc reports whether the node is a heredoc literal.
func (n *Node) IsHeredoc() bool {
	return n.Loc.HeredocBody.Valid()
}

// HasChildren returns true if the node has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Is reports whether the node is one of the given kinds.
func (n *Node) Is(kinds ...NodeKind) bool {
	for _, kind := range kinds {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
