package jsontree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalSkipsAbsentFields(t *testing.T) {
	t.Parallel()

	obj := Object{
		Optional(false, "a", Int(1)),
		Required("b", Int(2)),
		Optional(false, "c", Int(3)),
		Optional(true, "d", String("x")),
		Optional(false, "e", Int(5)),
	}
	require.Equal(t, `{"b":2,"d":"x"}`, string(Marshal(obj)))
}

func TestMarshalEmptyObject(t *testing.T) {
	t.Parallel()

	obj := Object{Optional(false, "a", Int(1))}
	require.Equal(t, `{}`, string(Marshal(obj)))
	require.Equal(t, `[]`, string(Marshal(Array{})))
}

func TestMarshalNested(t *testing.T) {
	t.Parallel()

	obj := Object{
		Required("v", Floats([]float32{1, 0.5, -2.25})),
		Required("i", Ints([]int{0, 7})),
		Required("o", Object{Required("t", Bool(true))}),
	}
	require.Equal(t, `{"v":[1,0.5,-2.25],"i":[0,7],"o":{"t":true}}`, string(Marshal(obj)))
}

func TestFloatShortestForm(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.1", string(Marshal(Float(0.1))))
	require.Equal(t, "1e+06", string(Marshal(Float(1e6))))
}

func TestStringEscaping(t *testing.T) {
	t.Parallel()

	out := Marshal(String("a\"b\\c\n"))
	root, err := Parse(out)
	require.NoError(t, err)
	s, ok := root.Str()
	require.True(t, ok)
	require.Equal(t, "a\"b\\c\n", s)
}
