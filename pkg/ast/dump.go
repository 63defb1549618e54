package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/rbfix/pkg/source"
)

// DumpVersion is the dump schema version this package reads and writes.
const DumpVersion = 1

// ErrDumpVersion is returned for dumps written with an unknown schema.
var ErrDumpVersion = errors.New("unsupported dump version")

// Location keys used in DumpNode.Loc.
const (
	LocExpression  = "expression"
	LocBegin       = "begin"
	LocEnd         = "end"
	LocKeyword     = "keyword"
	LocHeredocBody = "heredoc_body"
	LocHeredocEnd  = "heredoc_end"
)

// Dump is the serialized parser output exchanged with the external parser
// command, as JSON or MessagePack.
type Dump struct {
	Version  int           `json:"version"            msgpack:"version"`
	Path     string        `json:"path,omitempty"     msgpack:"path,omitempty"`
	AST      *DumpNode     `json:"ast"                msgpack:"ast"`
	Tokens   []DumpToken   `json:"tokens,omitempty"   msgpack:"tokens,omitempty"`
	Comments []DumpComment `json:"comments,omitempty" msgpack:"comments,omitempty"`
}

// DumpNode is one serialized AST node. Loc maps location names to
// [begin, end) byte offsets.
type DumpNode struct {
	Type     string              `json:"type"               msgpack:"type"`
	Value    string              `json:"value,omitempty"    msgpack:"value,omitempty"`
	Loc      map[string][2]int64 `json:"loc,omitempty"      msgpack:"loc,omitempty"`
	Children []*DumpNode         `json:"children,omitempty" msgpack:"children,omitempty"`
}

// DumpToken is one serialized token.
type DumpToken struct {
	Type  string `json:"type"  msgpack:"type"`
	Begin int64  `json:"begin" msgpack:"begin"`
	End   int64  `json:"end"   msgpack:"end"`
	Line  int64  `json:"line"  msgpack:"line"`
}

// DumpComment is one serialized comment.
type DumpComment struct {
	Begin    int64 `json:"begin"              msgpack:"begin"`
	End      int64 `json:"end"                msgpack:"end"`
	Document bool  `json:"document,omitempty" msgpack:"document,omitempty"`
}

// DecodeJSON reads a JSON dump.
func DecodeJSON(data []byte) (*Dump, error) {
	var dump Dump
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode json dump: %w", err)
	}
	return checkVersion(&dump)
}

// DecodeMsgpack reads a MessagePack dump.
func DecodeMsgpack(data []byte) (*Dump, error) {
	var dump Dump
	if err := msgpack.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("decode msgpack dump: %w", err)
	}
	return checkVersion(&dump)
}

// EncodeMsgpack writes the dump as MessagePack.
func EncodeMsgpack(dump *Dump) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(dump); err != nil {
		return nil, fmt.Errorf("encode msgpack dump: %w", err)
	}
	return buf.Bytes(), nil
}

func checkVersion(dump *Dump) (*Dump, error) {
	if dump.Version != DumpVersion {
		return nil, fmt.Errorf("%w: %d", ErrDumpVersion, dump.Version)
	}
	return dump, nil
}

// Build converts the dump into a ParsedSource over buf. Every offset is
// checked against the buffer.
func (d *Dump) Build(buf *source.Buffer) (*ParsedSource, error) {
	root, err := buildNode(buf, d.AST)
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, len(d.Tokens))
	for _, dt := range d.Tokens {
		rng, err := dumpRange(buf, dt.Begin, dt.End)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", dt.Type, err)
		}
		line, err := safecast.Conv[int](dt.Line)
		if err != nil {
			return nil, fmt.Errorf("token %s line: %w", dt.Type, err)
		}
		tokens = append(tokens, Token{Kind: ParseTokenKind(dt.Type), Range: rng, Line: line})
	}

	comments := make([]Comment, 0, len(d.Comments))
	for _, dc := range d.Comments {
		rng, err := dumpRange(buf, dc.Begin, dc.End)
		if err != nil {
			return nil, fmt.Errorf("comment: %w", err)
		}
		kind := CommentLine
		if dc.Document {
			kind = CommentDocument
		}
		comments = append(comments, Comment{Kind: kind, Range: rng})
	}

	return NewParsedSource(buf, root, tokens, comments)
}

func buildNode(buf *source.Buffer, dn *DumpNode) (*Node, error) {
	if dn == nil {
		return nil, nil
	}

	node := &Node{Kind: ParseNodeKind(dn.Type), Value: dn.Value}
	for name, offsets := range dn.Loc {
		rng, err := dumpRange(buf, offsets[0], offsets[1])
		if err != nil {
			return nil, fmt.Errorf("%s loc %q: %w", dn.Type, name, err)
		}
		switch name {
		case LocExpression:
			node.Loc.Expression = rng
		case LocBegin:
			node.Loc.Begin = rng
		case LocEnd:
			node.Loc.End = rng
		case LocKeyword:
			node.Loc.Keyword = rng
		case LocHeredocBody:
			node.Loc.HeredocBody = rng
		case LocHeredocEnd:
			node.Loc.HeredocEnd = rng
		}
	}

	for _, dc := range dn.Children {
		child, err := buildNode(buf, dc)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

func dumpRange(buf *source.Buffer, begin, end int64) (source.Range, error) {
	b, err := safecast.Conv[uint32](begin)
	if err != nil {
		return source.Range{}, fmt.Errorf("%w: begin %d: %w", source.ErrInvalidRange, begin, err)
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return source.Range{}, fmt.Errorf("%w: end %d: %w", source.ErrInvalidRange, end, err)
	}
	return buf.Range(int(b), int(e))
}

// NewDump serializes a ParsedSource. Used to cache parser output.
func NewDump(ps *ParsedSource) *Dump {
	dump := &Dump{Version: DumpVersion, Path: ps.Path, AST: dumpNode(ps.Root)}

	for _, tok := range ps.Tokens {
		dump.Tokens = append(dump.Tokens, DumpToken{
			Type:  tok.Kind.String(),
			Begin: int64(tok.Range.Begin()),
			End:   int64(tok.Range.End()),
			Line:  int64(tok.Line),
		})
	}
	for _, comment := range ps.Comments {
		dump.Comments = append(dump.Comments, DumpComment{
			Begin:    int64(comment.Range.Begin()),
			End:      int64(comment.Range.End()),
			Document: comment.Document(),
		})
	}

	return dump
}

func dumpNode(node *Node) *DumpNode {
	if node == nil {
		return nil
	}

	dn := &DumpNode{Type: node.Kind.String(), Value: node.Value, Loc: map[string][2]int64{}}
	locs := map[string]source.Range{
		LocExpression:  node.Loc.Expression,
		LocBegin:       node.Loc.Begin,
		LocEnd:         node.Loc.End,
		LocKeyword:     node.Loc.Keyword,
		LocHeredocBody: node.Loc.HeredocBody,
		LocHeredocEnd:  node.Loc.HeredocEnd,
	}
	for name, rng := range locs {
		if rng.Valid() {
			dn.Loc[name] = [2]int64{int64(rng.Begin()), int64(rng.End())}
		}
	}
	for _, child := range node.Children {
		dn.Children = append(dn.Children, dumpNode(child))
	}

	return dn
}
