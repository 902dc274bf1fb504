package evx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnum(t *testing.T) {
	ctx := NewContext()
	typ, err := ctx.LookupTypeEnum("Color", []Symbol{{"RED", 1}, {"GREEN", 2}})
	require.NoError(t, err)

	v := NewEnum(typ, 2)
	assert.Equal(t, EnumKind, v.Kind())
	assert.Equal(t, int64(2), v.EnumNumber())

	t.Run("by name", func(t *testing.T) {
		v, err := NewEnumByName(typ, "RED")
		require.NoError(t, err)
		assert.Equal(t, int64(1), v.EnumNumber())

		_, err = NewEnumByName(typ, "MAUVE")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
	t.Run("open semantics admit undeclared numbers", func(t *testing.T) {
		v := NewEnum(typ, 99)
		assert.Equal(t, int64(99), v.EnumNumber())
		_, ok := typ.SymbolByNumber(99)
		assert.False(t, ok)
	})
	t.Run("symbol lookups", func(t *testing.T) {
		sym, ok := typ.SymbolByName("GREEN")
		require.True(t, ok)
		assert.Equal(t, int64(2), sym.Number)
		sym, ok = typ.SymbolByNumber(1)
		require.True(t, ok)
		assert.Equal(t, "RED", sym.Name)
	})
}
