package ast

// Parents is a parent lookup table for one tree, keyed by node ID.
// It is built once per tree and never mutated afterwards.
type Parents struct {
	parent map[int]*Node
}

// NewParents indexes every node under root.
func NewParents(root *Node) *Parents {
	parents := &Parents{parent: make(map[int]*Node)}

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		for _, child := range node.Children {
			parents.parent[child.ID] = node
		}
		return nil
	})

	return parents
}

// Parent returns the parent of n, or nil for the root and unknown nodes.
func (p *Parents) Parent(n *Node) *Node {
	if p == nil || n == nil {
		return nil
	}
	return p.parent[n.ID]
}

// Ancestors returns the ancestors of n, nearest first.
func (p *Parents) Ancestors(n *Node) []*Node {
	var result []*Node
	for current := p.Parent(n); current != nil; current = p.Parent(current) {
		result = append(result, current)
	}
	return result
}

// EachAncestor calls fn for each ancestor of n, nearest first, until fn
// returns false.
func (p *Parents) EachAncestor(n *Node, fn func(*Node) bool) {
	for current := p.Parent(n); current != nil; current = p.Parent(current) {
		if !fn(current) {
			return
		}
	}
}
