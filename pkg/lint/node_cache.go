package lint

import "github.com/yaklabco/rbfix/pkg/ast"

// NodeCache indexes the nodes of one tree by kind.
//
// The tree is walked once, on first access, and every rule of the pass
// shares the result instead of walking the tree again.
//
// # Do Not Mutate Returned Slices
//
// The slices returned by NodeCache are shared across all rules of a pass.
// Sorting, appending or filtering them in place corrupts the cache for the
// rules that run afterwards. Copy first:
//
//	strs := ctx.Nodes(ast.NodeDstr)
//	sorted := slices.Clone(strs)
//	slices.SortFunc(sorted, ...)
//
// # Thread Safety
//
// NodeCache is not thread-safe. Rules of one file run sequentially against
// one RuleContext; files processed in parallel each get their own cache.
type NodeCache struct {
	byKind map[ast.NodeKind][]*ast.Node
	all    []*ast.Node
	built  bool
}

// initCapNodes is the initial capacity of the pre-order node list.
const initCapNodes = 256

func newNodeCache() *NodeCache {
	return &NodeCache{}
}

// build walks the tree once and categorizes all nodes by kind, in pre-order.
func (nc *NodeCache) build(root *ast.Node) {
	if nc.built {
		return
	}
	nc.built = true
	nc.byKind = make(map[ast.NodeKind][]*ast.Node)
	if root == nil {
		return
	}

	nc.all = make([]*ast.Node, 0, initCapNodes)
	for node := range ast.Preorder(root) {
		nc.all = append(nc.all, node)
		nc.byKind[node.Kind] = append(nc.byKind[node.Kind], node)
	}
}

// ByKind returns the nodes of one kind in pre-order. Do not mutate the returned slice.
func (nc *NodeCache) ByKind(kind ast.NodeKind) []*ast.Node {
	return nc.byKind[kind]
}

// All returns every node in pre-order. Do not mutate the returned slice.
func (nc *NodeCache) All() []*ast.Node {
	return nc.all
}
