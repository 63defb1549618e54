package testkit

import (
	"context"
	"sync"
	"testing"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/source"
)

// TreeFunc builds the AST for one exact snippet.
type TreeFunc func(s *Source) *ast.Node

// Parser is a stand-in for the external parser. Tokens and comments come
// from Lex; the AST comes from Trees when the content matches a key and is
// otherwise a single begin node over the whole buffer.
type Parser struct {
	tb    testing.TB
	Trees map[string]TreeFunc

	// Err, when set, is returned by every Parse call.
	Err error

	mu    sync.Mutex
	calls int
}

// NewParser creates a Parser reporting builder failures to tb.
func NewParser(tb testing.TB) *Parser {
	return &Parser{tb: tb, Trees: map[string]TreeFunc{}}
}

// Parse implements the lint parser contract.
func (p *Parser) Parse(_ context.Context, path string, content []byte) (*ast.ParsedSource, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	buf := source.NewBuffer(path, content)
	snippet := &Source{tb: p.tb, Buf: buf}

	root := snippet.Program()
	if build, ok := p.Trees[string(content)]; ok {
		root = build(snippet)
	}

	tokens, comments := Lex(buf)
	return ast.NewParsedSource(buf, root, tokens, comments)
}

// Calls returns the number of Parse calls so far.
func (p *Parser) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
