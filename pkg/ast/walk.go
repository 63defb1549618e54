package ast

import (
	"iter"
	"slices"
)

// Preorder yields root and its descendants, each node before its children.
func Preorder(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if root == nil {
			return
		}
		stack := []*Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			for _, child := range slices.Backward(n.Children) {
				stack = append(stack, child)
			}
		}
	}
}

// Walk calls fn on every node in pre-order and returns the first error.
func Walk(root *Node, fn func(*Node) error) error {
	for n := range Preorder(root) {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the nodes satisfying match, in pre-order.
func Find(root *Node, match func(*Node) bool) []*Node {
	var found []*Node
	for n := range Preorder(root) {
		if match(n) {
			found = append(found, n)
		}
	}
	return found
}

// First returns the first node in pre-order satisfying match, or nil.
func First(root *Node, match func(*Node) bool) *Node {
	for n := range Preorder(root) {
		if match(n) {
			return n
		}
	}
	return nil
}

// OfKind returns the nodes of any of kinds.
func OfKind(root *Node, kinds ...NodeKind) []*Node {
	return Find(root, func(n *Node) bool { return n.Is(kinds...) })
}
