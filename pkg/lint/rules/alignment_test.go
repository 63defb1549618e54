package rules

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/internal/testkit"
	"github.com/yaklabco/rbfix/pkg/align"
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
)

func TestEndAlignmentRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		tree    treeFunc
		wantMsg []string
		wantFix string
	}{
		{
			name:  "aligned def",
			input: "def foo\n  bar\nend\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(keyword(ast.NodeDef, s.Find("def foo\n  bar\nend"), s.Find("def"), s.Find("end")))
			},
			wantMsg: []string{},
			wantFix: "def foo\n  bar\nend\n",
		},
		{
			name:  "indented end",
			input: "def foo\n  bar\n  end\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(keyword(ast.NodeDef, s.Find("def foo\n  bar\n  end"), s.Find("def"), s.Find("end")))
			},
			wantMsg: []string{"`end` at 3, 2 is not aligned with `def` at 1, 0."},
			wantFix: "def foo\n  bar\nend\n",
		},
		{
			name:  "nested def",
			input: "class A\n  def b\n    c\n    end\nend\n",
			tree: func(s *testkit.Source) *ast.Node {
				def := keyword(ast.NodeDef, s.Find("def b\n    c\n    end"), s.Find("def"), s.FindNth("end", 0))
				class := keyword(ast.NodeClass, s.Find("class A\n  def b\n    c\n    end\nend"), s.Find("class"), s.FindNth("end", 1), def)
				return s.Program(class)
			},
			wantMsg: []string{"`end` at 4, 4 is not aligned with `def` at 2, 2."},
			wantFix: "class A\n  def b\n    c\n  end\nend\n",
		},
		{
			name:  "outdented end",
			input: "  if x\n    y\nend\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(keyword(ast.NodeIf, s.Find("if x\n    y\nend"), s.Find("if"), s.Find("end")))
			},
			wantMsg: []string{"`end` at 3, 0 is not aligned with `if` at 1, 2."},
			wantFix: "  if x\n    y\n  end\n",
		},
		{
			name:  "one-line definition",
			input: "def foo; end\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(keyword(ast.NodeDef, s.Find("def foo; end"), s.Find("def"), s.Find("end")))
			},
			wantMsg: []string{},
			wantFix: "def foo; end\n",
		},
		{
			name:  "end after code",
			input: "while x\n  y end\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(keyword(ast.NodeWhile, s.Find("while x\n  y end"), s.Find("while"), s.Find("end")))
			},
			wantMsg: []string{},
			wantFix: "while x\n  y end\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := testkit.New(t, tt.input)
			diags := applyRule(t, NewEndAlignmentRule(), src, tt.tree, nil)

			assert.Equal(t, tt.wantMsg, messages(diags))
			for _, diag := range diags {
				assert.Equal(t, "end", diag.Range.Source())
				assert.True(t, diag.HasFix())
			}
			assert.Equal(t, tt.wantFix, correct(t, src.Buf, diags))
		})
	}
}

func TestIndentationConsistencyRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		tree      treeFunc
		wantDiags int
		wantFix   string
	}{
		{
			name:  "consistent body",
			input: "def foo\n  a\n  b\nend\n",
			tree: func(s *testkit.Source) *ast.Node {
				body := s.Node(ast.NodeBegin, s.Find("a\n  b"), s.Node(ast.NodeSend, s.Find("a")), s.Node(ast.NodeSend, s.Find("b")))
				return s.Program(keyword(ast.NodeDef, s.Find("def foo\n  a\n  b\nend"), s.Find("def"), s.Find("end"), body))
			},
			wantDiags: 0,
			wantFix:   "def foo\n  a\n  b\nend\n",
		},
		{
			name:  "statement indented too far",
			input: "def foo\n  a\n   b\n  c\nend\n",
			tree: func(s *testkit.Source) *ast.Node {
				body := s.Node(ast.NodeBegin, s.Find("a\n   b\n  c"),
					s.Node(ast.NodeSend, s.Find("a")), s.Node(ast.NodeSend, s.Find("b")), s.Node(ast.NodeSend, s.Find("c")))
				return s.Program(keyword(ast.NodeDef, s.Find("def foo\n  a\n   b\n  c\nend"), s.Find("def"), s.Find("end"), body))
			},
			wantDiags: 1,
			wantFix:   "def foo\n  a\n  b\n  c\nend\n",
		},
		{
			name:  "top-level statement not indented enough",
			input: "  a = 1\nb = 2\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeLvasgn, s.Find("a = 1")), s.Node(ast.NodeLvasgn, s.Find("b = 2")))
			},
			wantDiags: 1,
			wantFix:   "  a = 1\n  b = 2\n",
		},
		{
			name:  "explicit begin block",
			input: "begin\n  a\n b\nend\n",
			tree: func(s *testkit.Source) *ast.Node {
				kwbegin := s.Node(ast.NodeKwbegin, s.Find("begin\n  a\n b\nend"),
					s.Node(ast.NodeSend, s.Find("a")), s.Node(ast.NodeSend, s.FindNth("b", 1)))
				kwbegin.Loc.Begin = s.Find("begin")
				kwbegin.Loc.End = s.Find("end")
				return s.Program(kwbegin)
			},
			wantDiags: 1,
			wantFix:   "begin\n  a\n  b\nend\n",
		},
		{
			name:  "statement sharing a line",
			input: "a; b\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeSend, s.Find("a")), s.Node(ast.NodeSend, s.Find("b")))
			},
			wantDiags: 0,
			wantFix:   "a; b\n",
		},
		{
			name:  "multi-line statement keeps its shape",
			input: "x = 1\n  foo(1,\n      2)\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeLvasgn, s.Find("x = 1")), s.Node(ast.NodeSend, s.Find("foo(1,\n      2)")))
			},
			wantDiags: 1,
			wantFix:   "x = 1\nfoo(1,\n    2)\n",
		},
		{
			name:  "parenthesized group is not a body",
			input: "(a\n  b)\n",
			tree: func(s *testkit.Source) *ast.Node {
				group := s.Delimited(ast.NodeBegin, s.Find("(a\n  b)"), 1, 1,
					s.Node(ast.NodeSend, s.Find("a")), s.Node(ast.NodeSend, s.Find("b")))
				return s.Program(group)
			},
			wantDiags: 0,
			wantFix:   "(a\n  b)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := testkit.New(t, tt.input)
			diags := applyRule(t, NewIndentationConsistencyRule(), src, tt.tree, nil)

			require.Len(t, diags, tt.wantDiags)
			for _, diag := range diags {
				assert.Equal(t, "Inconsistent indentation detected.", diag.Message)
				assert.NoError(t, diag.FixError)
			}
			assert.Equal(t, tt.wantFix, correct(t, src.Buf, diags))
		})
	}
}

// alignmentDirective matches "# >> 2" and "# << 2" comments.
var alignmentDirective = regexp.MustCompile(`\A#\s*(<<|>>)\s*(\d+)\s*\z`)

// alignmentDirectiveRule shifts the node starting on the line after a
// directive comment by the number of columns it names.
type alignmentDirectiveRule struct {
	lint.BaseRule
}

func newAlignmentDirectiveRule() *alignmentDirectiveRule {
	return &alignmentDirectiveRule{
		BaseRule: lint.NewBaseRule("Test/AlignmentDirective", "alignment-directive", "", nil, true),
	}
}

func (r *alignmentDirectiveRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, comment := range ctx.Source.Comments {
		match := alignmentDirective.FindStringSubmatch(comment.Text())
		if match == nil {
			continue
		}

		delta, err := strconv.Atoi(match[2])
		if err != nil {
			return nil, fmt.Errorf("directive: %w", err)
		}
		if match[1] == "<<" {
			delta = -delta
		}

		target := ast.First(ctx.Root, func(n *ast.Node) bool {
			return n != ctx.Root && n.SourceRange().Line() == comment.Line()+1
		})
		if target == nil {
			continue
		}

		builder := ctx.Diagnostic(r.ID(), target.SourceRange(), "Indent this node")
		edits, err := align.Correct(ctx.Source, target, delta)
		if err != nil {
			builder = builder.WithFixError(err)
		} else {
			builder = builder.WithFix(edits)
		}
		diags = append(diags, builder.Build())
	}

	return diags, nil
}

func TestAlignmentDirective_Pipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		tree    testkit.TreeFunc
		want    string
		wantErr error
	}{
		{
			name:  "indent keeps string body",
			input: "# >> 2\nx = \"a\nb\"\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeLvasgn, s.Find("x = \"a\nb\""), s.Str("\"a\nb\"")))
			},
			want: "# >> 2\n  x = \"a\nb\"\n",
		},
		{
			name:  "indent multi-line call",
			input: "# >> 2\nfoo(1,\n    2)\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeSend, s.Find("foo(1,\n    2)")))
			},
			want: "# >> 2\n  foo(1,\n      2)\n",
		},
		{
			name:  "outdent",
			input: "# << 2\n    y = 1\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeLvasgn, s.Find("y = 1")))
			},
			want: "# << 2\n  y = 1\n",
		},
		{
			name:  "outdent into code",
			input: "# << 2\ny = 1\n",
			tree: func(s *testkit.Source) *ast.Node {
				return s.Program(s.Node(ast.NodeLvasgn, s.Find("y = 1")))
			},
			want:    "# << 2\ny = 1\n",
			wantErr: fix.ErrNonBlankRemoval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parser := testkit.NewParser(t)
			parser.Trees[tt.input] = tt.tree

			registry := lint.NewRegistry()
			registry.Register(newAlignmentDirectiveRule())
			pipeline := lint.NewPipeline(lint.NewEngine(parser, registry))

			cfg := config.NewConfig()
			cfg.Fix = true
			opts := lint.DefaultPipelineOptions()
			opts.Fix = true

			result, err := pipeline.ProcessContent(context.Background(), "test.rb", []byte(tt.input), cfg, opts)
			require.NoError(t, err)

			got := tt.input
			if result.Modified {
				got = string(result.ModifiedContent)
			}
			assert.Equal(t, tt.want, got)

			if tt.wantErr != nil {
				require.Len(t, result.Diagnostics, 1)
				assert.True(t, errors.Is(result.Diagnostics[0].FixError, tt.wantErr), "FixError = %v", result.Diagnostics[0].FixError)
				return
			}
			assert.Empty(t, result.Diagnostics, "reparsed content has no directive target")
		})
	}
}
