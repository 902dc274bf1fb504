package evx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountType(t *testing.T, ctx *Context) *TypeStruct {
	t.Helper()
	typ, err := ctx.LookupTypeStruct("Account", []Field{
		NewField("name", 1, TypeString),
		NewField("balance", 2, TypeDouble),
		NewField("tags", 3, ctx.LookupTypeList(TypeString)),
	})
	require.NoError(t, err)
	return typ
}

func TestNewStruct(t *testing.T) {
	ctx := NewContext()
	typ := accountType(t, ctx)

	v, err := NewStruct(typ, MustNewString("alice"), NewDouble(10))
	require.NoError(t, err)
	s := v.Struct()

	name, err := s.FieldByName("name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name.StringOf())

	balance, err := s.FieldByNumber(2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, balance.Double())

	t.Run("missing trailing fields are null", func(t *testing.T) {
		tags, err := s.FieldByName("tags")
		require.NoError(t, err)
		assert.True(t, tags.IsNull())
		assert.False(t, s.HasFieldByName("tags"))
		assert.True(t, s.HasFieldByName("name"))
	})
	t.Run("undeclared field is an error", func(t *testing.T) {
		_, err := s.FieldByName("owner")
		assert.ErrorIs(t, err, ErrNoSuchField)
		_, err = s.FieldByNumber(9)
		assert.ErrorIs(t, err, ErrNoSuchField)
		assert.False(t, s.HasFieldByName("owner"))
		assert.False(t, s.HasFieldByNumber(9))
	})
	t.Run("near-miss names get a suggestion", func(t *testing.T) {
		_, err := s.FieldByName("balanse")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `did you mean "balance"?`)
	})
	t.Run("too many values", func(t *testing.T) {
		_, err := NewStruct(typ, Null, Null, Null, Null)
		assert.Error(t, err)
	})
	t.Run("field type is enforced", func(t *testing.T) {
		_, err := NewStruct(typ, NewInt(1))
		assert.Error(t, err)
	})
}

func TestForEachFieldOrder(t *testing.T) {
	ctx := NewContext()
	typ := accountType(t, ctx)
	v, err := NewStruct(typ, MustNewString("a"))
	require.NoError(t, err)

	var names []string
	v.Struct().ForEachField(func(f Field, _ Value) bool {
		names = append(names, f.Name)
		return true
	})
	assert.Equal(t, []string{"name", "balance", "tags"}, names)
}

func TestQualify(t *testing.T) {
	ctx := NewContext()
	typ := accountType(t, ctx)
	tags, err := NewList(ctx.LookupTypeList(TypeString), MustNewString("vip"))
	require.NoError(t, err)
	v, err := NewStruct(typ, MustNewString("alice"), NewDouble(10), tags)
	require.NoError(t, err)

	t.Run("field then index", func(t *testing.T) {
		got, ok, err := Qualify(v, []Qualifier{
			FieldQualifier{Name: "tags"},
			IndexQualifier{Index: 0},
		}, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "vip", got.StringOf())
	})
	t.Run("presence test resolves without materializing", func(t *testing.T) {
		got, ok, err := Qualify(v, []Qualifier{
			FieldQualifier{Name: "tags"},
			IndexQualifier{Index: 0},
		}, true)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, got.IsValid(), "presence test returns no value")
	})
	t.Run("presence test on an absent path is false, not an error", func(t *testing.T) {
		_, ok, err := Qualify(v, []Qualifier{
			FieldQualifier{Name: "tags"},
			IndexQualifier{Index: 5},
		}, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})
	t.Run("value mode propagates absence as an error", func(t *testing.T) {
		_, _, err := Qualify(v, []Qualifier{
			FieldQualifier{Name: "tags"},
			IndexQualifier{Index: 5},
		}, false)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
	t.Run("undeclared field fails in both modes", func(t *testing.T) {
		_, _, err := Qualify(v, []Qualifier{FieldQualifier{Name: "nope"}}, true)
		assert.ErrorIs(t, err, ErrNoSuchField)
	})
	t.Run("kind mismatch along the path", func(t *testing.T) {
		_, _, err := Qualify(v, []Qualifier{
			FieldQualifier{Name: "name"},
			IndexQualifier{Index: 0},
		}, false)
		assert.Error(t, err)
	})
	t.Run("map key step", func(t *testing.T) {
		m := mustMap(t, ctx, MapEntry{MustNewString("a"), NewInt(7)})
		got, ok, err := Qualify(m, []Qualifier{KeyQualifier{Key: MustNewString("a")}}, false)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(7), got.Int())

		_, _, err = Qualify(m, []Qualifier{KeyQualifier{Key: MustNewString("z")}}, false)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestStructValueBuilder(t *testing.T) {
	ctx := NewContext()
	typ := accountType(t, ctx)

	t.Run("set by name and number", func(t *testing.T) {
		b := NewStructValueBuilder(typ)
		b.SetFieldByName("name", MustNewString("bob"))
		b.SetFieldByNumber(2, NewDouble(5))
		v, err := b.Build()
		require.NoError(t, err)

		name, err := v.Struct().FieldByName("name")
		require.NoError(t, err)
		assert.Equal(t, "bob", name.StringOf())
	})
	t.Run("errors accumulate and report together", func(t *testing.T) {
		b := NewStructValueBuilder(typ)
		b.SetFieldByName("nope", NewInt(1))
		b.SetFieldByName("name", NewInt(1)) // wrong type
		b.SetFieldByNumber(99, NewInt(1))
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope")
		assert.Contains(t, err.Error(), "not assignable")
		assert.Contains(t, err.Error(), "99")
	})
	t.Run("builder is consumed by Build", func(t *testing.T) {
		b := NewStructValueBuilder(typ)
		_, err := b.Build()
		require.NoError(t, err)
		assert.PanicsWithValue(t, "evx: use of consumed StructValueBuilder", func() {
			b.Build()
		})
	})
}
