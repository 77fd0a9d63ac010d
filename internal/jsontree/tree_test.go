package jsontree

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesMemberOrder(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`{"b":1,"a":2,"c":{"z":true,"y":null}}`))
	require.NoError(t, err)
	require.True(t, root.IsObject())

	var keys []string
	for _, m := range root.Members() {
		keys = append(keys, m.Key)
	}
	require.Equal(t, []string{"b", "a", "c"}, keys)

	inner := root.Get("c")
	require.Equal(t, KindObject, inner.Kind())
	require.Equal(t, "z", inner.Members()[0].Key)
	require.Equal(t, KindNull, inner.Get("y").Kind())
}

func TestDuplicateKeyLastWins(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`{"k":1,"other":true,"k":2}`))
	require.NoError(t, err)
	require.Len(t, root.Members(), 3)

	k, ok := root.Get("k").Int()
	require.True(t, ok)
	require.Equal(t, 2, k)
}

func TestParseScalars(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`{"i":42,"f":0.25,"neg":-3,"s":"x\"y","t":true,"f1":1.0,"big":1e3}`))
	require.NoError(t, err)

	i, ok := root.Get("i").Int()
	require.True(t, ok)
	require.Equal(t, 42, i)

	f, ok := root.Get("f").Float()
	require.True(t, ok)
	require.Equal(t, 0.25, f)

	n, ok := root.Get("neg").Int()
	require.True(t, ok)
	require.Equal(t, -3, n)

	s, ok := root.Get("s").Str()
	require.True(t, ok)
	require.Equal(t, `x"y`, s)

	b, ok := root.Get("t").Bool()
	require.True(t, ok)
	require.True(t, b)

	one, ok := root.Get("f1").Int()
	require.True(t, ok)
	require.Equal(t, 1, one)

	big, ok := root.Get("big").Int()
	require.True(t, ok)
	require.Equal(t, 1000, big)
}

func TestWrongKindIsAbsent(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`{"n":"7","arr":{}}`))
	require.NoError(t, err)

	_, ok := root.Get("n").Int()
	require.False(t, ok)
	require.Nil(t, root.Get("arr").Elements())

	missing, ok := root.Member("missing")
	require.False(t, ok)
	require.Equal(t, KindInvalid, missing.Kind())
	// Chained lookups on absent values stay absent.
	_, ok = missing.Get("deeper").Str()
	require.False(t, ok)
}

func TestParseArrays(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`[1,[2,3],[]]`))
	require.NoError(t, err)
	require.True(t, root.IsArray())
	require.Equal(t, 3, root.Len())
	require.Equal(t, 2, root.Elements()[1].Len())
	require.Equal(t, 0, root.Elements()[2].Len())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil)
	require.True(t, errors.Is(err, ErrEmpty))

	_, err = Parse([]byte("   "))
	require.True(t, errors.Is(err, ErrEmpty))

	for _, in := range []string{`{"a":`, `[1,2`, `{"a":1} x`, `{"a" 1}`} {
		_, err := Parse([]byte(in))
		require.Error(t, err, "input %q", in)
	}
}
