// Package testkit builds source buffers, ASTs and token streams from small
// Ruby snippets for tests. Node ranges are located by searching the snippet
// text, so trees stay readable next to the code they describe.
package testkit

import (
	"strings"
	"testing"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/source"
)

// Source wraps one snippet.
type Source struct {
	tb  testing.TB
	Buf *source.Buffer
}

// New creates a Source for src, named "test.rb".
func New(tb testing.TB, src string) *Source {
	tb.Helper()
	return &Source{tb: tb, Buf: source.NewBufferString("test.rb", src)}
}

// Range returns [begin, end), failing the test on invalid bounds.
func (s *Source) Range(begin, end int) source.Range {
	s.tb.Helper()
	r, err := s.Buf.Range(begin, end)
	if err != nil {
		s.tb.Fatalf("testkit: %v", err)
	}
	return r
}

// Find returns the range of the first occurrence of substr.
func (s *Source) Find(substr string) source.Range {
	s.tb.Helper()
	return s.FindNth(substr, 0)
}

// FindNth returns the range of the nth (0-based) occurrence of substr.
func (s *Source) FindNth(substr string, nth int) source.Range {
	s.tb.Helper()

	offset := 0
	for idx := 0; ; idx++ {
		pos := strings.Index(s.Buf.Source()[offset:], substr)
		if pos < 0 {
			s.tb.Fatalf("testkit: occurrence %d of %q not found", nth, substr)
		}
		if idx == nth {
			return s.Range(offset+pos, offset+pos+len(substr))
		}
		offset += pos + 1
	}
}

// Node creates a node with the given expression range.
func (s *Source) Node(kind ast.NodeKind, expr source.Range, children ...*ast.Node) *ast.Node {
	return ast.NewNode(kind, expr, children...)
}

// Literal creates an atomic literal node over the first occurrence of text.
func (s *Source) Literal(kind ast.NodeKind, text, value string) *ast.Node {
	s.tb.Helper()
	node := ast.NewNode(kind, s.Find(text))
	node.Value = value
	return node
}

// Delimited creates a node over expr whose first beginLen bytes form the
// begin delimiter and last endLen bytes the end delimiter.
func (s *Source) Delimited(kind ast.NodeKind, expr source.Range, beginLen, endLen int, children ...*ast.Node) *ast.Node {
	s.tb.Helper()
	node := ast.NewNode(kind, expr, children...)
	node.Loc.Begin = s.Range(expr.Begin(), expr.Begin()+beginLen)
	node.Loc.End = s.Range(expr.End()-endLen, expr.End())
	return node
}

// Str creates a delimited str node over the first occurrence of quoted,
// which must include its one-byte delimiters.
func (s *Source) Str(quoted string) *ast.Node {
	s.tb.Helper()
	node := s.Delimited(ast.NodeStr, s.Find(quoted), 1, 1)
	node.Value = quoted[1 : len(quoted)-1]
	return node
}

// Interpolation creates the "#{...}" begin node wrapping child.
func (s *Source) Interpolation(segment string, child *ast.Node) *ast.Node {
	s.tb.Helper()
	return s.Delimited(ast.NodeBegin, s.Find(segment), 2, 1, child)
}

// Parsed builds a ParsedSource for root with tokens and comments from Lex.
func (s *Source) Parsed(root *ast.Node) *ast.ParsedSource {
	s.tb.Helper()

	tokens, comments := Lex(s.Buf)
	ps, err := ast.NewParsedSource(s.Buf, root, tokens, comments)
	if err != nil {
		s.tb.Fatalf("testkit: %v", err)
	}
	return ps
}

// Program wraps statements in a begin node covering the whole buffer.
func (s *Source) Program(statements ...*ast.Node) *ast.Node {
	return ast.NewNode(ast.NodeBegin, s.Buf.FullRange(), statements...)
}
