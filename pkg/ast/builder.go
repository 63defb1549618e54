package ast

import (
	"errors"
	"fmt"

	"github.com/yaklabco/rbfix/pkg/source"
)

// ErrRangeContainment is returned when a child's range escapes its parent.
var ErrRangeContainment = errors.New("child range outside parent expression")

// ContainmentError identifies the offending parent/child pair.
type ContainmentError struct {
	Parent *Node
	Child  *Node
}

// Error implements the error interface.
func (e *ContainmentError) Error() string {
	return fmt.Sprintf("%s %s escapes parent %s %s",
		e.Child.Kind, e.Child.Loc.Expression, e.Parent.Kind, e.Parent.Loc.Expression)
}

// Unwrap allows errors.Is(err, ErrRangeContainment).
func (e *ContainmentError) Unwrap() error {
	return ErrRangeContainment
}

// NewNode creates a node with the given kind and expression range.
func NewNode(kind NodeKind, expr source.Range, children ...*Node) *Node {
	return &Node{
		Kind:     kind,
		Children: children,
		Loc:      Loc{Expression: expr},
	}
}

// AppendChild adds child as the last child of parent.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	parent.Children = append(parent.Children, child)
}

// Number assigns pre-order IDs starting at zero and returns the node count.
func Number(root *Node) int {
	next := 0

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		node.ID = next
		next++
		return nil
	})

	return next
}

// Validate checks that every child's expression lies within its parent's.
// Heredoc children may instead lie within the heredoc body. Children or
// parents without an expression range are not checked.
func Validate(root *Node) error {
	return Walk(root, func(node *Node) error {
		parent := node.Loc.Expression
		if !parent.Valid() {
			return nil
		}
		for _, child := range node.Children {
			expr := child.Loc.Expression
			if !expr.Valid() || expr.Within(parent) {
				continue
			}
			if node.IsHeredoc() && expr.Within(node.Loc.HeredocBody.Join(node.Loc.HeredocEnd)) {
				continue
			}
			return &ContainmentError{Parent: node, Child: child}
		}
		return nil
	})
}
