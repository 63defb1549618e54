// Package literal evaluates Ruby literal nodes to values, renders them the
// way Ruby prints them and escapes the result for a string container.
package literal

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind tags a Value.
type Kind uint8

// Value kinds.
const (
	KindNil Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindSymbol
	KindArray
	KindMap
	KindRange
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindRange:
		return "range"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is an evaluated literal. Only the fields of its Kind are set.
type Value struct {
	Kind Kind

	Bool  bool
	Int   *big.Int
	Float float64

	// Text is the content of a string or the name of a symbol.
	Text string

	// Elems are the elements of an array.
	Elems []Value

	// Entries are the ordered entries of a map.
	Entries []Entry

	// From and To are the range endpoints.
	From, To  *Value
	Inclusive bool
}

// Entry is one key/value association of a map.
type Entry struct {
	Key   Value
	Value Value
}

// Nil returns the nil value.
func Nil() Value { return Value{Kind: KindNil} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Integer returns an integer value. n is not copied.
func Integer(n *big.Int) Value { return Value{Kind: KindInteger, Int: n} }

// Int returns an integer value from an int64.
func Int(n int64) Value { return Integer(big.NewInt(n)) }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Symbol returns a symbol value.
func Symbol(name string) Value { return Value{Kind: KindSymbol, Text: name} }

// Array returns an array value.
func Array(elems ...Value) Value { return Value{Kind: KindArray, Elems: elems} }

// Range returns a range value.
func Range(from, to Value, inclusive bool) Value {
	return Value{Kind: KindRange, From: &from, To: &to, Inclusive: inclusive}
}

// Map returns a map value. A later entry with a key equal to an earlier one
// replaces the earlier value in place, keeping the first key's position.
func Map(entries ...Entry) Value {
	out := Value{Kind: KindMap, Entries: make([]Entry, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = setEntry(out.Entries, entry)
	}
	return out
}

func setEntry(entries []Entry, entry Entry) []Entry {
	for idx := range entries {
		if entries[idx].Key.Equal(entry.Key) {
			entries[idx].Value = entry.Value
			return entries
		}
	}
	return append(entries, entry)
}

// Equal reports structural equality. Integers compare by value, floats by
// ==, containers element-wise in order.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInteger:
		return v.Int.Cmp(other.Int) == 0
	case KindFloat:
		return v.Float == other.Float
	case KindString, KindSymbol:
		return v.Text == other.Text
	case KindArray:
		if len(v.Elems) != len(other.Elems) {
			return false
		}
		for idx := range v.Elems {
			if !v.Elems[idx].Equal(other.Elems[idx]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Entries) != len(other.Entries) {
			return false
		}
		for idx := range v.Entries {
			if !v.Entries[idx].Key.Equal(other.Entries[idx].Key) ||
				!v.Entries[idx].Value.Equal(other.Entries[idx].Value) {
				return false
			}
		}
		return true
	case KindRange:
		return v.Inclusive == other.Inclusive && v.From.Equal(*other.From) && v.To.Equal(*other.To)
	default:
		return false
	}
}

// String returns the canonical print form, as Ruby's to_s renders it.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return ""
	case KindString, KindSymbol:
		return v.Text
	case KindRange:
		return v.From.String() + v.dots() + v.To.String()
	default:
		return v.Inspect()
	}
}

// Inspect returns the value as Ruby's inspect renders it.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInteger:
		return v.Int.String()
	case KindFloat:
		return formatFloat(v.Float)
	case KindString:
		return quote(v.Text)
	case KindSymbol:
		if plainSymbol.MatchString(v.Text) {
			return ":" + v.Text
		}
		return ":" + quote(v.Text)
	case KindArray:
		parts := make([]string, len(v.Elems))
		for idx, elem := range v.Elems {
			parts[idx] = elem.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.Entries))
		for idx, entry := range v.Entries {
			parts[idx] = entry.Key.Inspect() + "=>" + entry.Value.Inspect()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindRange:
		// A nil endpoint is left out unless both are nil.
		from, to := v.From.Inspect(), v.To.Inspect()
		switch {
		case v.From.Kind == KindNil && v.To.Kind != KindNil:
			from = ""
		case v.To.Kind == KindNil && v.From.Kind != KindNil:
			to = ""
		}
		return from + v.dots() + to
	default:
		return fmt.Sprintf("#<%s>", v.Kind)
	}
}

// CanonicalString returns v.String().
func CanonicalString(v Value) string {
	return v.String()
}

func (v Value) dots() string {
	if v.Inclusive {
		return ".."
	}
	return "..."
}

// plainSymbol matches symbol names that inspect without quotes.
var plainSymbol = regexp.MustCompile(
	`^(?:[A-Za-z_][A-Za-z0-9_]*[?!=]?|@@?[A-Za-z_][A-Za-z0-9_]*|\$[A-Za-z_][A-Za-z0-9_]*|` +
		`\[\]=?|[+\-]@?|\*\*?|/|%|==?=?|=~|!=?|!~|<=>|<<?|<=|>>?|>=|&|\||\^|~)$`)

// quote renders s as a double-quoted Ruby string literal.
func quote(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 2)
	out.WriteByte('"')

	for idx := 0; idx < len(s); {
		char, size := utf8.DecodeRuneInString(s[idx:])
		next := byte(0)
		if idx+size < len(s) {
			next = s[idx+size]
		}

		switch {
		case char == utf8.RuneError && size == 1:
			fmt.Fprintf(&out, `\x%02X`, s[idx])
		case char == '"' || char == '\\':
			out.WriteByte('\\')
			out.WriteRune(char)
		case char == '#' && (next == '{' || next == '$' || next == '@'):
			out.WriteString(`\#`)
		case char == '\n':
			out.WriteString(`\n`)
		case char == '\t':
			out.WriteString(`\t`)
		case char == '\r':
			out.WriteString(`\r`)
		case char == '\f':
			out.WriteString(`\f`)
		case char == '\v':
			out.WriteString(`\v`)
		case char == '\a':
			out.WriteString(`\a`)
		case char == '\b':
			out.WriteString(`\b`)
		case char == 0x1b:
			out.WriteString(`\e`)
		case !unicode.IsPrint(char) && char > 0xFFFF:
			fmt.Fprintf(&out, `\u{%X}`, char)
		case !unicode.IsPrint(char):
			fmt.Fprintf(&out, `\u%04X`, char)
		default:
			out.WriteRune(char)
		}
		idx += size
	}

	out.WriteByte('"')
	return out.String()
}
