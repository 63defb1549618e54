// Package protect finds the source regions whose bytes a layout correction
// must never touch: string bodies, heredoc bodies and document comments.
package protect

import (
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/source"
)

// Reason says why a region is protected.
type Reason uint8

const (
	// ReasonStringBody is the interior of a delimited string-like literal.
	ReasonStringBody Reason = iota + 1

	// ReasonHeredocBody is a heredoc body joined with its terminator.
	ReasonHeredocBody

	// ReasonComment is a document comment.
	ReasonComment
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonStringBody:
		return "string body"
	case ReasonHeredocBody:
		return "heredoc body"
	case ReasonComment:
		return "document comment"
	default:
		return "unknown"
	}
}

// Region is a protected range.
type Region struct {
	Range  source.Range
	Reason Reason
}

// Detect returns the protected regions of the subtree rooted at node,
// in pre-order, followed by the document comments of ps inside the node.
func Detect(ps *ast.ParsedSource, node *ast.Node) []Region {
	if node == nil {
		return nil
	}

	var regions []Region

	for n := range ast.Preorder(node) {
		if region, ok := literalRegion(n); ok {
			regions = append(regions, region)
		}
	}

	if ps != nil {
		regions = append(regions, commentRegions(ps.Comments, node.SourceRange())...)
	}

	return regions
}

// DetectRange returns the document comment regions inside r. A bare range
// has no nodes, so string and heredoc bodies cannot be found for it.
func DetectRange(ps *ast.ParsedSource, r source.Range) []Region {
	if ps == nil {
		return nil
	}
	return commentRegions(ps.Comments, r)
}

func literalRegion(n *ast.Node) (Region, bool) {
	if !n.Kind.IsStringFamily() {
		return Region{}, false
	}

	if n.IsHeredoc() {
		body := n.Loc.HeredocBody
		if n.Loc.HeredocEnd.Valid() {
			body = body.Join(n.Loc.HeredocEnd)
		}
		return Region{Range: body, Reason: ReasonHeredocBody}, true
	}

	if !n.HasDelimiters() {
		return Region{}, false
	}

	interior, err := source.NewRange(n.Loc.Begin.Buffer(), n.Loc.Begin.End(), n.Loc.End.Begin())
	if err != nil {
		return Region{}, false
	}

	return Region{Range: interior, Reason: ReasonStringBody}, true
}

func commentRegions(comments []ast.Comment, within source.Range) []Region {
	var regions []Region
	for _, comment := range comments {
		if !comment.Document() || !comment.Range.Within(within) {
			continue
		}

		r := comment.Range
		if strings.HasSuffix(r.Source(), "\n") {
			if trimmed, err := r.Adjust(0, -1); err == nil {
				r = trimmed
			}
		}
		regions = append(regions, Region{Range: r, Reason: ReasonComment})
	}
	return regions
}

// Guards reports whether r lies within or overlaps any region. A zero-width
// range at either end of a region counts as within it.
func Guards(regions []Region, r source.Range) bool {
	_, ok := Find(regions, r)
	return ok
}

// Find returns the first region guarding r.
func Find(regions []Region, r source.Range) (Region, bool) {
	for _, region := range regions {
		if r.Within(region.Range) || r.Overlaps(region.Range) {
			return region, true
		}
	}
	return Region{}, false
}
