package protoval

import (
	"testing"

	"github.com/evx-dev/evx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestWrapScalars(t *testing.T) {
	ctx := evx.NewContext()
	cases := []struct {
		name string
		in   *structpb.Value
		want evx.Value
	}{
		{"null", structpb.NewNullValue(), evx.Null},
		{"bool", structpb.NewBoolValue(true), evx.True},
		{"number", structpb.NewNumberValue(2.5), evx.NewDouble(2.5)},
		{"string", structpb.NewStringValue("hi"), evx.MustNewString("hi")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := Wrap(ctx, c.in)
			require.NoError(t, err)
			assert.True(t, v.Equal(c.want))
		})
	}
}

func TestList(t *testing.T) {
	ctx := evx.NewContext()
	backing, err := structpb.NewList([]any{1.0, "two", true})
	require.NoError(t, err)
	v := NewList(ctx, backing)
	require.Equal(t, evx.ListKind, v.Kind())
	assert.True(t, evx.IsLegacyBacked(v))

	l := v.List()
	assert.Equal(t, 3, l.Size())
	assert.False(t, l.IsEmpty())

	elem, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "two", elem.StringOf())

	_, err = l.Get(3)
	assert.ErrorIs(t, err, evx.ErrOutOfRange)
	_, err = l.Get(-1)
	assert.ErrorIs(t, err, evx.ErrOutOfRange)

	it := l.NewIterator()
	var n int
	for it.HasNext() {
		it.Next(nil)
		n++
	}
	assert.Equal(t, 3, n)
	assert.Panics(t, func() { it.Next(nil) })
}

func TestListEqualsParsed(t *testing.T) {
	ctx := evx.NewContext()
	backing, err := structpb.NewList([]any{1.5, 2.5})
	require.NoError(t, err)
	legacy := NewList(ctx, backing)

	parsed, err := evx.NewList(ctx.LookupTypeList(evx.TypeDyn),
		evx.NewDouble(1.5), evx.NewDouble(2.5))
	require.NoError(t, err)

	assert.True(t, legacy.Equal(parsed))
	assert.True(t, parsed.Equal(legacy))
}

func TestMap(t *testing.T) {
	ctx := evx.NewContext()
	backing, err := structpb.NewStruct(map[string]any{"a": 1.0, "b": "two"})
	require.NoError(t, err)
	v := NewMap(ctx, backing)
	require.Equal(t, evx.MapKind, v.Kind())
	assert.True(t, evx.IsLegacyBacked(v))

	m := v.Map()
	assert.Equal(t, 2, m.Size())
	assert.True(t, m.Has(evx.MustNewString("a")))
	assert.False(t, m.Has(evx.MustNewString("z")))
	assert.False(t, m.Has(evx.NewInt(1)))

	got, ok := m.Find(evx.MustNewString("b"))
	require.True(t, ok)
	assert.Equal(t, "two", got.StringOf())

	_, err = m.Get(evx.MustNewString("z"))
	assert.ErrorIs(t, err, evx.ErrKeyNotFound)

	keys := m.ListKeys()
	require.Len(t, keys, 2)
	assert.Equal(t, "a", keys[0].StringOf())
	assert.Equal(t, "b", keys[1].StringOf())
}

func TestMapEqualsParsed(t *testing.T) {
	ctx := evx.NewContext()
	backing, err := structpb.NewStruct(map[string]any{"x": 1.0})
	require.NoError(t, err)
	legacy := NewMap(ctx, backing)

	parsed, err := evx.NewMap(ctx.MustLookupTypeMap(evx.TypeString, evx.TypeDyn),
		evx.MapEntry{Key: evx.MustNewString("x"), Val: evx.NewDouble(1.0)})
	require.NoError(t, err)

	assert.True(t, legacy.Equal(parsed))
	assert.True(t, parsed.Equal(legacy))
}

func TestStruct(t *testing.T) {
	ctx := evx.NewContext()
	typ, err := ctx.LookupTypeStruct("Account", []evx.Field{
		evx.NewField("name", 1, evx.TypeString),
		evx.NewField("balance", 2, evx.TypeDouble),
		evx.NewField("note", 3, evx.TypeString),
	})
	require.NoError(t, err)

	backing, err := structpb.NewStruct(map[string]any{
		"name":    "alice",
		"balance": 10.0,
		"note":    nil,
	})
	require.NoError(t, err)
	v := NewStruct(ctx, typ, backing)
	require.Equal(t, evx.StructKind, v.Kind())
	s := v.Struct()

	name, err := s.FieldByName("name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name.StringOf())

	balance, err := s.FieldByNumber(2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, balance.Double())

	_, err = s.FieldByName("owner")
	assert.ErrorIs(t, err, evx.ErrNoSuchField)

	assert.True(t, s.HasFieldByName("name"))
	assert.False(t, s.HasFieldByName("note"), "null member is unset")
	assert.False(t, s.HasFieldByNumber(9))

	got, ok, err := s.Qualify([]evx.Qualifier{evx.FieldQualifier{Name: "name"}}, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", got.StringOf())
}

func TestStructEqualsParsed(t *testing.T) {
	ctx := evx.NewContext()
	typ, err := ctx.LookupTypeStruct("Point", []evx.Field{
		evx.NewField("x", 1, evx.TypeDouble),
		evx.NewField("y", 2, evx.TypeDouble),
	})
	require.NoError(t, err)

	backing, err := structpb.NewStruct(map[string]any{"x": 1.0, "y": 2.0})
	require.NoError(t, err)
	legacy := NewStruct(ctx, typ, backing)

	parsed, err := evx.NewStruct(typ, evx.NewDouble(1.0), evx.NewDouble(2.0))
	require.NoError(t, err)

	assert.True(t, legacy.Equal(parsed))
	assert.True(t, parsed.Equal(legacy))
}

func TestUnpackAny(t *testing.T) {
	ctx := evx.NewContext()
	any, err := anypb.New(&emptypb.Empty{})
	require.NoError(t, err)

	v, err := evx.UnmarshalAny(ctx, any)
	require.NoError(t, err)
	require.Equal(t, evx.MapKind, v.Kind())
	assert.True(t, evx.IsLegacyBacked(v))
	assert.True(t, v.Map().IsEmpty())
}
