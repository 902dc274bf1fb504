package evx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMap(t *testing.T) {
	ctx := NewContext()
	typ := ctx.MustLookupTypeMap(TypeString, TypeInt)

	v, err := NewMap(typ,
		MapEntry{MustNewString("a"), NewInt(1)},
		MapEntry{MustNewString("b"), NewInt(2)})
	require.NoError(t, err)
	m := v.Map()
	assert.Equal(t, 2, m.Size())

	t.Run("get and find agree", func(t *testing.T) {
		got, err := m.Get(MustNewString("a"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Int())

		found, ok := m.Find(MustNewString("a"))
		require.True(t, ok)
		assert.True(t, got.Equal(found))
		assert.True(t, m.Has(MustNewString("a")))
	})
	t.Run("absent key", func(t *testing.T) {
		_, err := m.Get(MustNewString("z"))
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, ok := m.Find(MustNewString("z"))
		assert.False(t, ok)
		assert.False(t, m.Has(MustNewString("z")))
	})
	t.Run("wrong key kind is absence, not corruption", func(t *testing.T) {
		assert.False(t, m.Has(NewInt(1)))
		_, ok := m.Find(Null)
		assert.False(t, ok)
	})
	t.Run("list keys", func(t *testing.T) {
		keys := m.ListKeys()
		assert.Len(t, keys, 2)
		for _, k := range keys {
			assert.True(t, m.Has(k))
		}
	})
}

func TestMapIntAndUintKeysDistinct(t *testing.T) {
	// int 1 and uint 2 have identical payload encodings; the key kind must
	// still separate them.
	ctx := NewContext()
	intMap, err := NewMap(ctx.MustLookupTypeMap(TypeInt, TypeString),
		MapEntry{NewInt(1), MustNewString("int")})
	require.NoError(t, err)
	assert.True(t, intMap.Map().Has(NewInt(1)))
	assert.False(t, intMap.Map().Has(NewUint(2)))
}

func TestMapValueBuilder(t *testing.T) {
	ctx := NewContext()
	typ := ctx.MustLookupTypeMap(TypeString, TypeInt)

	b := NewMapValueBuilder(typ)
	b.Reserve(2)
	require.NoError(t, b.Put(MustNewString("x"), NewInt(1)))

	t.Run("duplicate key", func(t *testing.T) {
		err := b.Put(MustNewString("x"), NewInt(2))
		assert.ErrorContains(t, err, "duplicate")
	})
	t.Run("wrong key type", func(t *testing.T) {
		assert.Error(t, b.Put(NewInt(1), NewInt(2)))
	})
	t.Run("invalid key kind", func(t *testing.T) {
		other := NewMapValueBuilder(ctx.MustLookupTypeMap(TypeString, TypeDyn))
		err := other.Put(NewDouble(1), NewInt(1))
		assert.ErrorIs(t, err, ErrBadMapKey)
	})
	t.Run("wrong value type", func(t *testing.T) {
		assert.Error(t, b.Put(MustNewString("y"), MustNewString("nope")))
	})

	v := b.Build()
	assert.Equal(t, 1, v.Map().Size())
	assert.PanicsWithValue(t, "evx: use of consumed MapValueBuilder", func() {
		b.Build()
	})
}

func TestMapIterator(t *testing.T) {
	ctx := NewContext()
	v := mustMap(t, ctx,
		MapEntry{MustNewString("a"), NewInt(1)},
		MapEntry{MustNewString("b"), NewInt(2)})
	keys := Collect(v.Map().NewIterator())
	assert.Len(t, keys, 2)
	for _, k := range keys {
		assert.True(t, v.Map().Has(k))
	}
}
