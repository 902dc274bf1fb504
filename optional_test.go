package evx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	ctx := NewContext()
	typ := ctx.LookupTypeOptional(TypeInt)

	some, err := OptionalOf(typ, NewInt(7))
	require.NoError(t, err)
	none := OptionalNone(typ)

	assert.Equal(t, OptionalKind, some.Kind())
	assert.True(t, some.Optional().HasValue())
	assert.Equal(t, int64(7), some.Optional().GetValue().Int())

	assert.False(t, none.Optional().HasValue())
	assert.PanicsWithValue(t, "evx: GetValue on absent optional", func() {
		none.Optional().GetValue()
	})

	t.Run("safe probe", func(t *testing.T) {
		v, ok := some.Optional().Value()
		require.True(t, ok)
		assert.Equal(t, int64(7), v.Int())
		_, ok = none.Optional().Value()
		assert.False(t, ok)
	})
	t.Run("equality", func(t *testing.T) {
		other, err := OptionalOf(typ, NewInt(7))
		require.NoError(t, err)
		assert.True(t, some.Equal(other))
		assert.False(t, some.Equal(none))
		assert.True(t, none.Equal(OptionalNone(typ)))
	})
	t.Run("element type is enforced", func(t *testing.T) {
		_, err := OptionalOf(typ, MustNewString("no"))
		assert.Error(t, err)
	})
}
