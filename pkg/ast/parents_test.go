package ast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/internal/testkit"
	"github.com/yaklabco/rbfix/pkg/ast"
)

func TestParents(t *testing.T) {
	t.Parallel()

	src := testkit.New(t, `x = "a #{1} b"`)
	one := src.Literal(ast.NodeInt, "1", "1")
	segment := src.Interpolation("#{1}", one)
	dstr := src.Delimited(ast.NodeDstr, src.Find(`"a #{1} b"`), 1, 1, segment)
	assign := src.Node(ast.NodeLvasgn, src.Buf.FullRange(), dstr)

	ps := src.Parsed(assign)
	parents := ps.Parents()

	assert.Same(t, segment, parents.Parent(one))
	assert.Same(t, dstr, parents.Parent(segment))
	assert.Nil(t, parents.Parent(assign))

	ancestors := parents.Ancestors(one)
	require.Len(t, ancestors, 3)
	assert.Equal(t, []ast.NodeKind{ast.NodeBegin, ast.NodeDstr, ast.NodeLvasgn},
		[]ast.NodeKind{ancestors[0].Kind, ancestors[1].Kind, ancestors[2].Kind})

	var visited []ast.NodeKind
	parents.EachAncestor(one, func(n *ast.Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != ast.NodeDstr
	})
	assert.Equal(t, []ast.NodeKind{ast.NodeBegin, ast.NodeDstr}, visited)
}

func TestNumberAndWalk(t *testing.T) {
	t.Parallel()

	src := testkit.New(t, "[1, [2]]")
	inner := src.Node(ast.NodeArray, src.Find("[2]"), src.Literal(ast.NodeInt, "2", "2"))
	outer := src.Node(ast.NodeArray, src.Buf.FullRange(), src.Literal(ast.NodeInt, "1", "1"), inner)

	assert.Equal(t, 4, ast.Number(outer))

	var ids []int
	require.NoError(t, ast.Walk(outer, func(n *ast.Node) error {
		ids = append(ids, n.ID)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 2, 3}, ids)

	arrays := ast.OfKind(outer, ast.NodeArray)
	assert.Len(t, arrays, 2)

	first := ast.First(outer, func(n *ast.Node) bool { return n.Kind == ast.NodeInt })
	require.NotNil(t, first)
	assert.Equal(t, "1", first.Value)

	stop := errors.New("stop")
	visited := 0
	err := ast.Walk(outer, func(n *ast.Node) error {
		visited++
		if n == inner {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 3, visited)

	for range ast.Preorder(outer) {
		break
	}
	assert.Empty(t, ast.Find(nil, func(*ast.Node) bool { return true }))
}

func TestValidate_RangeContainment(t *testing.T) {
	t.Parallel()

	src := testkit.New(t, "foo(1)\nbar")
	call := src.Node(ast.NodeSend, src.Find("foo(1)"), src.Literal(ast.NodeInt, "bar", ""))

	err := ast.Validate(call)
	require.ErrorIs(t, err, ast.ErrRangeContainment)

	_, err = ast.NewParsedSource(src.Buf, call, nil, nil)
	require.ErrorIs(t, err, ast.ErrRangeContainment)
}

func TestValidate_HeredocChildren(t *testing.T) {
	t.Parallel()

	src := testkit.New(t, "x = <<~EOS\n  body\nEOS\n")
	body := src.Node(ast.NodeStr, src.Find("  body\n"))
	heredoc := src.Node(ast.NodeStr, src.Find("<<~EOS"), body)
	heredoc.Loc.HeredocBody = src.Find("  body\n")
	heredoc.Loc.HeredocEnd = src.FindNth("EOS", 1)

	require.NoError(t, ast.Validate(heredoc))
}
