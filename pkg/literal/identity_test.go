package literal_test

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/internal/testkit"
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/literal"
)

// reader parses the inspect form of literal values back into Values.
type reader struct {
	text string
	pos  int
}

func readValue(text string) (literal.Value, error) {
	rd := &reader{text: text}
	value, err := rd.expr()
	if err != nil {
		return literal.Value{}, err
	}
	if rd.pos != len(rd.text) {
		return literal.Value{}, fmt.Errorf("trailing input at %d: %q", rd.pos, rd.text[rd.pos:])
	}
	return value, nil
}

func (rd *reader) expr() (literal.Value, error) {
	from, err := rd.primary()
	if err != nil {
		return literal.Value{}, err
	}
	if !strings.HasPrefix(rd.text[rd.pos:], "..") {
		return from, nil
	}

	inclusive := true
	rd.pos += 2
	if rd.peek() == '.' {
		inclusive = false
		rd.pos++
	}
	to, err := rd.primary()
	if err != nil {
		return literal.Value{}, err
	}
	return literal.Range(from, to, inclusive), nil
}

func (rd *reader) peek() byte {
	if rd.pos < len(rd.text) {
		return rd.text[rd.pos]
	}
	return 0
}

func (rd *reader) consume(token string) bool {
	if strings.HasPrefix(rd.text[rd.pos:], token) {
		rd.pos += len(token)
		return true
	}
	return false
}

func (rd *reader) primary() (literal.Value, error) {
	switch char := rd.peek(); {
	case rd.consume("nil"):
		return literal.Nil(), nil
	case rd.consume("true"):
		return literal.Bool(true), nil
	case rd.consume("false"):
		return literal.Bool(false), nil
	case char == '"':
		text, err := rd.quoted()
		return literal.String(text), err
	case char == ':':
		rd.pos++
		if rd.peek() == '"' {
			text, err := rd.quoted()
			return literal.Symbol(text), err
		}
		start := rd.pos
		for rd.pos < len(rd.text) && !strings.ContainsRune(",]}=> ", rune(rd.text[rd.pos])) {
			rd.pos++
		}
		return literal.Symbol(rd.text[start:rd.pos]), nil
	case char == '[':
		rd.pos++
		elems, err := rd.list(']')
		if err != nil {
			return literal.Value{}, err
		}
		return literal.Array(elems...), nil
	case char == '{':
		return rd.hash()
	case char == '-' || (char >= '0' && char <= '9'):
		return rd.number()
	default:
		return literal.Value{}, fmt.Errorf("unexpected %q at %d", char, rd.pos)
	}
}

func (rd *reader) list(closing byte) ([]literal.Value, error) {
	var elems []literal.Value
	for !rd.consume(string(closing)) {
		if len(elems) > 0 && !rd.consume(", ") {
			return nil, fmt.Errorf("expected separator at %d", rd.pos)
		}
		elem, err := rd.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

func (rd *reader) hash() (literal.Value, error) {
	rd.pos++

	var entries []literal.Entry
	for !rd.consume("}") {
		if len(entries) > 0 && !rd.consume(", ") {
			return literal.Value{}, fmt.Errorf("expected separator at %d", rd.pos)
		}
		key, err := rd.expr()
		if err != nil {
			return literal.Value{}, err
		}
		if !rd.consume("=>") {
			return literal.Value{}, fmt.Errorf("expected => at %d", rd.pos)
		}
		value, err := rd.expr()
		if err != nil {
			return literal.Value{}, err
		}
		entries = append(entries, literal.Entry{Key: key, Value: value})
	}
	return literal.Map(entries...), nil
}

func (rd *reader) number() (literal.Value, error) {
	start := rd.pos
	float := false
	if rd.peek() == '-' {
		rd.pos++
	}
	for rd.pos < len(rd.text) {
		char := rd.text[rd.pos]
		switch {
		case char >= '0' && char <= '9':
		case char == '.' && rd.pos+1 < len(rd.text) && rd.text[rd.pos+1] >= '0' && rd.text[rd.pos+1] <= '9':
			float = true
		case char == 'e' && float:
			if next := rd.pos + 1; next < len(rd.text) && (rd.text[next] == '+' || rd.text[next] == '-') {
				rd.pos++
			}
		default:
			return rd.numberValue(rd.text[start:rd.pos], float)
		}
		rd.pos++
	}
	return rd.numberValue(rd.text[start:rd.pos], float)
}

func (rd *reader) numberValue(text string, float bool) (literal.Value, error) {
	if float {
		f, err := strconv.ParseFloat(text, 64)
		return literal.Float(f), err
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return literal.Value{}, fmt.Errorf("bad integer %q", text)
	}
	return literal.Integer(n), nil
}

func (rd *reader) quoted() (string, error) {
	rd.pos++
	var out strings.Builder
	for rd.pos < len(rd.text) {
		char := rd.text[rd.pos]
		rd.pos++
		switch char {
		case '"':
			return out.String(), nil
		case '\\':
			if rd.pos >= len(rd.text) {
				return "", fmt.Errorf("dangling escape")
			}
			esc := rd.text[rd.pos]
			rd.pos++
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			case 'e':
				out.WriteByte(0x1b)
			case 'u':
				hex := rd.text[rd.pos : rd.pos+4]
				rd.pos += 4
				code, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return "", err
				}
				out.WriteRune(rune(code))
			default:
				out.WriteByte(esc)
			}
		default:
			out.WriteByte(char)
		}
	}
	return "", fmt.Errorf("unterminated string")
}

// A literal that prints as itself reads back to an equal value.
func TestPrintIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		build func(src *testkit.Source) *ast.Node
	}{
		{
			name:  "integer",
			src:   "1_234",
			build: func(src *testkit.Source) *ast.Node { return src.Literal(ast.NodeInt, "1_234", "1_234") },
		},
		{
			name:  "float",
			src:   "2.5e20",
			build: func(src *testkit.Source) *ast.Node { return src.Literal(ast.NodeFloat, "2.5e20", "2.5e20") },
		},
		{
			name:  "string with quotes",
			src:   `'say "hi"\n'`,
			build: func(src *testkit.Source) *ast.Node { return src.Literal(ast.NodeStr, src.Buf.Source(), "say \"hi\"\n\t#{x}") },
		},
		{
			name: "array of atoms",
			src:  `[1, :a, nil, true, 'x']`,
			build: func(src *testkit.Source) *ast.Node {
				return src.Delimited(ast.NodeArray, src.Buf.FullRange(), 1, 1,
					src.Literal(ast.NodeInt, "1", "1"),
					src.Literal(ast.NodeSym, ":a", "a"),
					src.Literal(ast.NodeNil, "nil", ""),
					src.Literal(ast.NodeTrue, "true", ""),
					src.Str("'x'"))
			},
		},
		{
			name: "hash of arrays",
			src:  `{1 => [2.0], :k => -3}`,
			build: func(src *testkit.Source) *ast.Node {
				inner := src.Delimited(ast.NodeArray, src.Find("[2.0]"), 1, 1, src.Literal(ast.NodeFloat, "2.0", "2.0"))
				first := src.Node(ast.NodePair, src.Find("1 => [2.0]"), src.Literal(ast.NodeInt, "1", "1"), inner)
				second := src.Node(ast.NodePair, src.Find(":k => -3"),
					src.Literal(ast.NodeSym, ":k", "k"), src.Literal(ast.NodeInt, "-3", "-3"))
				return src.Delimited(ast.NodeHash, src.Buf.FullRange(), 1, 1, first, second)
			},
		},
		{
			name: "range",
			src:  "1...10",
			build: func(src *testkit.Source) *ast.Node {
				return src.Node(ast.NodeErange, src.Buf.FullRange(),
					src.Literal(ast.NodeInt, "1", "1"), src.Literal(ast.NodeInt, "10", "10"))
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			src := testkit.New(t, testCase.src)
			node := testCase.build(src)
			require.True(t, literal.PrintsAsSelf(node))

			value, err := literal.Evaluate(node)
			require.NoError(t, err)

			read, err := readValue(value.Inspect())
			require.NoError(t, err)
			assert.True(t, value.Equal(read), "%s read back as %s", value.Inspect(), read.Inspect())
		})
	}
}
