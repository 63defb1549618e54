package literal_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rbfix/pkg/literal"
)

func TestValue_StringAndInspect(t *testing.T) {
	t.Parallel()

	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name    string
		value   literal.Value
		str     string
		inspect string
	}{
		{name: "nil", value: literal.Nil(), str: "", inspect: "nil"},
		{name: "true", value: literal.Bool(true), str: "true", inspect: "true"},
		{name: "false", value: literal.Bool(false), str: "false", inspect: "false"},
		{name: "int", value: literal.Int(-42), str: "-42", inspect: "-42"},
		{name: "bignum", value: literal.Integer(huge), str: "123456789012345678901234567890", inspect: "123456789012345678901234567890"},
		{name: "float", value: literal.Float(1.5), str: "1.5", inspect: "1.5"},
		{name: "string", value: literal.String(`a "b"`), str: `a "b"`, inspect: `"a \"b\""`},
		{name: "string escapes", value: literal.String("x\n\t\\#{y}\x1b"), str: "x\n\t\\#{y}\x1b", inspect: `"x\n\t\\\#{y}\e"`},
		{name: "plain hash sign", value: literal.String("#1"), str: "#1", inspect: `"#1"`},
		{name: "symbol", value: literal.Symbol("foo?"), str: "foo?", inspect: ":foo?"},
		{name: "operator symbol", value: literal.Symbol("<=>"), str: "<=>", inspect: ":<=>"},
		{name: "quoted symbol", value: literal.Symbol("a b"), str: "a b", inspect: `:"a b"`},
		{
			name:    "array",
			value:   literal.Array(literal.Int(1), literal.String("a"), literal.Nil(), literal.Symbol("s")),
			str:     `[1, "a", nil, :s]`,
			inspect: `[1, "a", nil, :s]`,
		},
		{name: "empty array", value: literal.Array(), str: "[]", inspect: "[]"},
		{
			name: "map",
			value: literal.Map(
				literal.Entry{Key: literal.Symbol("a"), Value: literal.Int(1)},
				literal.Entry{Key: literal.String("b"), Value: literal.Array()},
			),
			str:     `{:a=>1, "b"=>[]}`,
			inspect: `{:a=>1, "b"=>[]}`,
		},
		{name: "inclusive range", value: literal.Range(literal.Int(1), literal.Int(5), true), str: "1..5", inspect: "1..5"},
		{name: "endless range", value: literal.Range(literal.Int(1), literal.Nil(), true), str: "1..", inspect: "1.."},
		{name: "beginless range", value: literal.Range(literal.Nil(), literal.Int(5), false), str: "...5", inspect: "...5"},
		{name: "nil range", value: literal.Range(literal.Nil(), literal.Nil(), true), str: "..", inspect: "nil..nil"},
		{
			name:    "exclusive string range",
			value:   literal.Range(literal.String("a"), literal.String("c"), false),
			str:     "a...c",
			inspect: `"a"..."c"`,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.str, testCase.value.String())
			assert.Equal(t, testCase.str, literal.CanonicalString(testCase.value))
			assert.Equal(t, testCase.inspect, testCase.value.Inspect())
		})
	}
}

func TestValue_FloatFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value float64
		want  string
	}{
		{value: 0, want: "0.0"},
		{value: math.Copysign(0, -1), want: "-0.0"},
		{value: 1, want: "1.0"},
		{value: 100, want: "100.0"},
		{value: -2.5, want: "-2.5"},
		{value: 3.14159, want: "3.14159"},
		{value: 0.1, want: "0.1"},
		{value: 0.0001, want: "0.0001"},
		{value: 0.00001, want: "1.0e-05"},
		{value: 1.25e-7, want: "1.25e-07"},
		{value: 1e15, want: "1000000000000000.0"},
		{value: 1e16, want: "1.0e+16"},
		{value: 1.5e100, want: "1.5e+100"},
		{value: math.Inf(1), want: "Infinity"},
		{value: math.Inf(-1), want: "-Infinity"},
		{value: math.NaN(), want: "NaN"},
	}

	for _, testCase := range tests {
		t.Run(testCase.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, literal.Float(testCase.value).String())
		})
	}
}

func TestMap_LaterDuplicateWinsInPlace(t *testing.T) {
	t.Parallel()

	m := literal.Map(
		literal.Entry{Key: literal.Int(1), Value: literal.String("a")},
		literal.Entry{Key: literal.Int(2), Value: literal.String("b")},
		literal.Entry{Key: literal.Int(1), Value: literal.String("c")},
	)

	assert.Equal(t, `{1=>"c", 2=>"b"}`, m.String())
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	nested := func() literal.Value {
		return literal.Array(
			literal.Range(literal.Int(1), literal.Int(2), false),
			literal.Map(literal.Entry{Key: literal.Symbol("k"), Value: literal.Float(1)}),
		)
	}

	assert.True(t, nested().Equal(nested()))
	assert.True(t, literal.Int(7).Equal(literal.Integer(big.NewInt(7))))
	assert.False(t, literal.Int(1).Equal(literal.Float(1)))
	assert.False(t, literal.String("a").Equal(literal.Symbol("a")))
	assert.False(t, literal.Range(literal.Int(1), literal.Int(2), true).
		Equal(literal.Range(literal.Int(1), literal.Int(2), false)))
	assert.False(t, literal.Array(literal.Int(1)).Equal(literal.Array(literal.Int(1), literal.Int(2))))
	assert.Equal(t, "integer", literal.KindInteger.String())
}
