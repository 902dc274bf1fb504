package evx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLookupTypeListIdentity(t *testing.T) {
	ctx := NewContext()
	a := ctx.LookupTypeList(TypeInt)
	b := ctx.LookupTypeList(TypeInt)
	assert.Same(t, a, b)
	assert.NotSame(t, a, ctx.LookupTypeList(TypeString))
	assert.Equal(t, "list<int>", a.String())
}

func TestLookupTypeMapIdentity(t *testing.T) {
	ctx := NewContext()
	a, err := ctx.LookupTypeMap(TypeString, TypeInt)
	require.NoError(t, err)
	b, err := ctx.LookupTypeMap(TypeString, TypeInt)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "map<string,int>", a.String())

	_, err = ctx.LookupTypeMap(TypeDouble, TypeInt)
	assert.ErrorIs(t, err, ErrBadMapKey)
	_, err = ctx.LookupTypeMap(TypeBytes, TypeInt)
	assert.ErrorIs(t, err, ErrBadMapKey)
}

func TestLookupTypeStructIdentity(t *testing.T) {
	ctx := NewContext()
	fields := []Field{NewField("a", 1, TypeInt)}
	a, err := ctx.LookupTypeStruct("S", fields)
	require.NoError(t, err)
	b, err := ctx.LookupTypeStruct("S", fields)
	require.NoError(t, err)
	assert.Same(t, a, b)

	t.Run("duplicate field name", func(t *testing.T) {
		_, err := ctx.LookupTypeStruct("Dup", []Field{
			NewField("a", 1, TypeInt),
			NewField("a", 2, TypeInt),
		})
		assert.Error(t, err)
	})
	t.Run("duplicate field number", func(t *testing.T) {
		_, err := ctx.LookupTypeStruct("Dup", []Field{
			NewField("a", 1, TypeInt),
			NewField("b", 1, TypeInt),
		})
		assert.Error(t, err)
	})
	t.Run("rebinding a name to a different shape fails", func(t *testing.T) {
		_, err := ctx.LookupTypeStruct("S", []Field{NewField("b", 1, TypeInt)})
		assert.ErrorIs(t, err, ErrTypeExists)
	})
}

func TestLookupTypeEnumIdentity(t *testing.T) {
	ctx := NewContext()
	syms := []Symbol{{"A", 1}, {"B", 2}}
	a, err := ctx.LookupTypeEnum("E", syms)
	require.NoError(t, err)
	b, err := ctx.LookupTypeEnum("E", syms)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestLookupTypeOpaqueIdentity(t *testing.T) {
	ctx := NewContext()
	a, err := ctx.LookupTypeOpaque("matrix", []Type{TypeDouble})
	require.NoError(t, err)
	b, err := ctx.LookupTypeOpaque("matrix", []Type{TypeDouble})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "matrix<double>", a.String())
}

func TestLookupByName(t *testing.T) {
	ctx := NewContext()
	cases := []struct {
		in   string
		want Type
	}{
		{"int", TypeInt},
		{"string", TypeString},
		{"list<int>", ctx.LookupTypeList(TypeInt)},
		{"map<string,list<int>>", ctx.MustLookupTypeMap(TypeString, ctx.LookupTypeList(TypeInt))},
		{"optional<double>", ctx.LookupTypeOptional(TypeDouble)},
		{" list< int > ", ctx.LookupTypeList(TypeInt)},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ctx.LookupByName(c.in)
			require.NoError(t, err)
			assert.Same(t, c.want, got)
		})
	}

	t.Run("declared names resolve", func(t *testing.T) {
		typ, err := ctx.LookupTypeStruct("Named", []Field{NewField("a", 1, TypeInt)})
		require.NoError(t, err)
		got, err := ctx.LookupByName("Named")
		require.NoError(t, err)
		assert.Same(t, Type(typ), got)
	})
	t.Run("unknown names fail", func(t *testing.T) {
		_, err := ctx.LookupByName("wat")
		assert.Error(t, err)
		_, err = ctx.LookupByName("map<string>")
		assert.Error(t, err)
	})
	t.Run("results are memoized", func(t *testing.T) {
		a, err := ctx.LookupByName("list<list<string>>")
		require.NoError(t, err)
		b, err := ctx.LookupByName("list<list<string>>")
		require.NoError(t, err)
		assert.Same(t, a, b)
	})
}

func TestLocalize(t *testing.T) {
	src := NewContext()
	dst := NewContext()

	inner, err := src.LookupTypeStruct("Inner", []Field{NewField("n", 1, TypeInt)})
	require.NoError(t, err)
	foreign, err := src.LookupTypeMap(TypeString, src.LookupTypeList(inner))
	require.NoError(t, err)

	local, err := dst.Localize(foreign)
	require.NoError(t, err)
	assert.NotSame(t, Type(foreign), local)
	assert.Equal(t, foreign.String(), local.String())

	again, err := dst.Localize(foreign)
	require.NoError(t, err)
	assert.Same(t, local, again)

	t.Run("primitives pass through", func(t *testing.T) {
		got, err := dst.Localize(TypeInt)
		require.NoError(t, err)
		assert.Same(t, TypeInt, got)
	})
}

func TestContextConcurrentLookups(t *testing.T) {
	ctx := NewContext()
	var g errgroup.Group
	results := make([]*TypeList, 16)
	for i := range results {
		i := i
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				ctx.LookupTypeList(TypeString)
				if _, err := ctx.LookupTypeMap(TypeInt, TypeBool); err != nil {
					return err
				}
				if _, err := ctx.LookupTypeStruct("C", []Field{NewField("a", 1, TypeInt)}); err != nil {
					return err
				}
			}
			results[i] = ctx.LookupTypeList(TypeInt)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
}

func TestTypeIDsAreUnique(t *testing.T) {
	ctx := NewContext()
	a := ctx.LookupTypeList(TypeInt)
	b := ctx.LookupTypeList(TypeString)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.GreaterOrEqual(t, a.ID(), IDTypeDef)
}
