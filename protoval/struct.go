package protoval

import (
	"fmt"

	"github.com/evx-dev/evx"
	"google.golang.org/protobuf/types/known/structpb"
)

// Struct proxies a google.protobuf.Struct as a backing for a declared
// struct type.  Members are resolved by field name; declared fields absent
// from the message read as null.
type Struct struct {
	ctx     *evx.Context
	typ     *evx.TypeStruct
	backing *structpb.Struct
}

// NewStruct wraps a Struct message as a value of the declared struct type.
func NewStruct(ctx *evx.Context, typ *evx.TypeStruct, backing *structpb.Struct) evx.Value {
	return evx.NewLegacyStruct(typ, &Struct{ctx: ctx, typ: typ, backing: backing})
}

func (s *Struct) field(name string) (evx.Value, error) {
	if j, ok := s.backing.GetFields()[name]; ok {
		return Wrap(s.ctx, j)
	}
	return evx.Null, nil
}

func (s *Struct) FieldByName(name string) (evx.Value, error) {
	if !s.typ.HasField(name) {
		return evx.Value{}, fmt.Errorf("%s.%s: %w", s.typ.Name, name, evx.ErrNoSuchField)
	}
	return s.field(name)
}

func (s *Struct) FieldByNumber(number int) (evx.Value, error) {
	i, ok := s.typ.IndexOfFieldByNumber(number)
	if !ok {
		return evx.Value{}, fmt.Errorf("%s field number %d: %w", s.typ.Name, number, evx.ErrNoSuchField)
	}
	return s.field(s.typ.Fields[i].Name)
}

func (s *Struct) HasFieldByName(name string) bool {
	if !s.typ.HasField(name) {
		return false
	}
	j, ok := s.backing.GetFields()[name]
	if !ok {
		return false
	}
	_, isNull := j.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (s *Struct) HasFieldByNumber(number int) bool {
	i, ok := s.typ.IndexOfFieldByNumber(number)
	if !ok {
		return false
	}
	return s.HasFieldByName(s.typ.Fields[i].Name)
}

func (s *Struct) ForEachField(fn func(f evx.Field, v evx.Value) bool) {
	for _, f := range s.typ.Fields {
		v, err := s.field(f.Name)
		if err != nil {
			v = evx.NewErrorValue(err)
		}
		if !fn(f, v) {
			return
		}
	}
}

func (s *Struct) Qualify(quals []evx.Qualifier, presenceTest bool) (evx.Value, bool, error) {
	return evx.Qualify(NewStruct(s.ctx, s.typ, s.backing), quals, presenceTest)
}

var _ evx.StructValue = (*Struct)(nil)
