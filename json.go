package evx

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// maxSafeJSONInt bounds the integers representable exactly as a JSON
// number; larger magnitudes convert to decimal strings.
const maxSafeJSONInt = 1 << 53

// ToJSON converts v to a JSON tree.  The tree is the closed variant
// structpb.Value: null, bool, number, string, array, object.  Lists convert
// to arrays; maps and structs convert to objects with non-string keys
// stringified.  Error and unknown values are not convertible.
func (v Value) ToJSON() (*structpb.Value, error) {
	v.check()
	switch v.Kind() {
	case NullKind:
		return structpb.NewNullValue(), nil
	case BoolKind:
		return structpb.NewBoolValue(v.Bool()), nil
	case IntKind:
		i := v.Int()
		if i > maxSafeJSONInt || i < -maxSafeJSONInt {
			return structpb.NewStringValue(strconv.FormatInt(i, 10)), nil
		}
		return structpb.NewNumberValue(float64(i)), nil
	case UintKind:
		u := v.Uint()
		if u > maxSafeJSONInt {
			return structpb.NewStringValue(strconv.FormatUint(u, 10)), nil
		}
		return structpb.NewNumberValue(float64(u)), nil
	case DoubleKind:
		return structpb.NewNumberValue(v.Double()), nil
	case StringKind:
		return structpb.NewStringValue(v.StringOf()), nil
	case BytesKind:
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(v.BytesOf())), nil
	case DurationKind:
		secs, nanos := v.Duration()
		return structpb.NewStringValue(jsonDuration(secs, nanos)), nil
	case TimestampKind:
		secs, nanos := v.Timestamp()
		return structpb.NewStringValue(formatTimestamp(secs, nanos)), nil
	case EnumKind:
		t := v.Type().(*TypeEnum)
		n := v.EnumNumber()
		if sym, ok := t.SymbolByNumber(n); ok {
			return structpb.NewStringValue(sym.Name), nil
		}
		return structpb.NewNumberValue(float64(n)), nil
	case ListKind:
		var elems []*structpb.Value
		var convErr error
		v.List().ForEach(func(_ int, elem Value) bool {
			j, err := elem.ToJSON()
			if err != nil {
				convErr = err
				return false
			}
			elems = append(elems, j)
			return true
		})
		if convErr != nil {
			return nil, convErr
		}
		return structpb.NewListValue(&structpb.ListValue{Values: elems}), nil
	case MapKind:
		obj := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
		var convErr error
		v.Map().ForEach(func(key, val Value) bool {
			j, err := val.ToJSON()
			if err != nil {
				convErr = err
				return false
			}
			obj.Fields[jsonKey(key)] = j
			return true
		})
		if convErr != nil {
			return nil, convErr
		}
		return structpb.NewStructValue(obj), nil
	case StructKind:
		obj := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
		var convErr error
		v.Struct().ForEachField(func(f Field, fv Value) bool {
			if fv.IsNull() {
				return true // unset fields are omitted
			}
			j, err := fv.ToJSON()
			if err != nil {
				convErr = err
				return false
			}
			obj.Fields[f.Name] = j
			return true
		})
		if convErr != nil {
			return nil, convErr
		}
		return structpb.NewStructValue(obj), nil
	case OptionalKind:
		opt := v.Optional()
		if inner, ok := opt.Value(); ok {
			return inner.ToJSON()
		}
		return structpb.NewNullValue(), nil
	default:
		return nil, fmt.Errorf("%s to JSON: %w", v.Kind(), ErrNotSerializable)
	}
}

// jsonKey stringifies a map key for use as a JSON object member name.
func jsonKey(key Value) string {
	switch key.Kind() {
	case StringKind:
		return key.StringOf()
	case IntKind:
		return strconv.FormatInt(key.Int(), 10)
	case UintKind:
		return strconv.FormatUint(key.Uint(), 10)
	case BoolKind:
		return strconv.FormatBool(key.Bool())
	default:
		return key.DebugString()
	}
}

// jsonDuration renders a duration in protobuf JSON style: decimal seconds
// with up to nine fractional digits and an "s" suffix.
func jsonDuration(secs int64, nanos int32) string {
	s := strconv.FormatInt(secs, 10)
	if nanos != 0 {
		frac := strconv.FormatInt(int64(abs32(nanos))+1000000000, 10)
		s += "." + trimZeros(frac[1:])
		if secs == 0 && nanos < 0 {
			s = "-" + s
		}
	}
	return s + "s"
}

// FromJSON converts a JSON tree to a dyn-typed value: numbers become
// doubles, arrays become list<dyn>, and objects become map<string,dyn>.
func FromJSON(ctx *Context, j *structpb.Value) (Value, error) {
	switch k := j.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return Null, nil
	case *structpb.Value_BoolValue:
		return NewBool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return NewDouble(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return NewString(k.StringValue)
	case *structpb.Value_ListValue:
		b := NewListValueBuilder(ctx.LookupTypeList(TypeDyn))
		b.Reserve(len(k.ListValue.GetValues()))
		for _, ej := range k.ListValue.GetValues() {
			elem, err := FromJSON(ctx, ej)
			if err != nil {
				return Value{}, err
			}
			if err := b.Add(elem); err != nil {
				return Value{}, err
			}
		}
		return b.Build(), nil
	case *structpb.Value_StructValue:
		typ, err := ctx.LookupTypeMap(TypeString, TypeDyn)
		if err != nil {
			return Value{}, err
		}
		b := NewMapValueBuilder(typ)
		b.Reserve(len(k.StructValue.GetFields()))
		for name, fj := range k.StructValue.GetFields() {
			key, err := NewString(name)
			if err != nil {
				return Value{}, err
			}
			val, err := FromJSON(ctx, fj)
			if err != nil {
				return Value{}, err
			}
			if err := b.Put(key, val); err != nil {
				return Value{}, err
			}
		}
		return b.Build(), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON node %T", k)
	}
}
