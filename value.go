package evx

import (
	"bytes"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/evx-dev/evx/vcode"
)

// Value is an immutable, dynamically typed expression value.  A Value is a
// small struct passed by value: copying one shares the underlying payload
// and never deep-copies.  Exactly one kind is active at a time, given by
// Kind().  The zero Value is an invalid sentinel; every operation on it
// panics, in all build modes.
type Value struct {
	typ   Type
	bytes vcode.Bytes
	rep   any
}

// NewValue constructs a value of typ from an encoded payload.  It is the
// low-level constructor used by allocators and deserializers; most callers
// want the kind-specific constructors.
func NewValue(typ Type, b vcode.Bytes) Value {
	return Value{typ: typ, bytes: b}
}

// IsValid returns false for the zero Value sentinel.
func (v Value) IsValid() bool {
	return v.typ != nil
}

func (v Value) check() {
	if v.typ == nil {
		panic("evx: use of invalid Value")
	}
}

func (v Value) mustBe(k Kind) {
	v.check()
	if v.typ.Kind() != k {
		panic(fmt.Sprintf("evx: %s value accessed as %s", v.typ.Kind(), k))
	}
}

// Kind returns the active kind.
func (v Value) Kind() Kind {
	v.check()
	return v.typ.Kind()
}

// Type returns the value's type.
func (v Value) Type() Type {
	v.check()
	return v.typ
}

// IsNull returns true iff v is the null value.
func (v Value) IsNull() bool {
	v.check()
	return v.typ == TypeNull
}

// IsError returns true iff v is an error value.
func (v Value) IsError() bool {
	v.check()
	return v.typ.Kind() == ErrorKind
}

// IsUnknown returns true iff v is an unknown value.
func (v Value) IsUnknown() bool {
	v.check()
	return v.typ.Kind() == UnknownKind
}

// IsMissing returns true iff v is an error value wrapping ErrMissing.
func (v Value) IsMissing() bool {
	return v.IsError() && bytes.Equal(v.bytes, []byte(ErrMissing.Error()))
}

// Bool returns the boolean payload, panicking on a kind mismatch.
func (v Value) Bool() bool {
	v.mustBe(BoolKind)
	return DecodeBool(v.bytes)
}

// Int returns the int payload, panicking on a kind mismatch.
func (v Value) Int() int64 {
	v.mustBe(IntKind)
	return DecodeInt(v.bytes)
}

// Uint returns the uint payload, panicking on a kind mismatch.
func (v Value) Uint() uint64 {
	v.mustBe(UintKind)
	return DecodeUint(v.bytes)
}

// Double returns the double payload, panicking on a kind mismatch.
func (v Value) Double() float64 {
	v.mustBe(DoubleKind)
	return DecodeDouble(v.bytes)
}

// StringOf returns the string payload, panicking on a kind mismatch.
func (v Value) StringOf() string {
	v.mustBe(StringKind)
	return DecodeString(v.bytes)
}

// BytesOf returns the bytes payload, panicking on a kind mismatch.  The
// returned slice is shared; callers must not modify it.
func (v Value) BytesOf() []byte {
	v.mustBe(BytesKind)
	return v.bytes
}

// Duration returns the seconds-and-nanos payload of a duration value.
func (v Value) Duration() (secs int64, nanos int32) {
	v.mustBe(DurationKind)
	return DecodeTimeOfDay(v.bytes)
}

// Timestamp returns the seconds-and-nanos payload of a timestamp value.
func (v Value) Timestamp() (secs int64, nanos int32) {
	v.mustBe(TimestampKind)
	return DecodeTimeOfDay(v.bytes)
}

// Err returns the wrapped error of an error value.
func (v Value) Err() error {
	v.mustBe(ErrorKind)
	return v.rep.(error)
}

// List returns the list interface of a list value, regardless of backing.
func (v Value) List() ListValue {
	v.mustBe(ListKind)
	return v.rep.(ListValue)
}

// Map returns the map interface of a map value, regardless of backing.
func (v Value) Map() MapValue {
	v.mustBe(MapKind)
	return v.rep.(MapValue)
}

// Struct returns the struct interface of a struct value, regardless of
// backing.
func (v Value) Struct() StructValue {
	v.mustBe(StructKind)
	return v.rep.(StructValue)
}

// Optional returns the optional wrapper of an optional value.
func (v Value) Optional() *OptionalValue {
	v.mustBe(OptionalKind)
	return v.rep.(*OptionalValue)
}

// Opaque returns the host-supplied backing of an opaque value.
func (v Value) Opaque() OpaqueValue {
	v.mustBe(OpaqueKind)
	return v.rep.(OpaqueValue)
}

// EnumNumber returns the numeric payload of an enum value.
func (v Value) EnumNumber() int64 {
	v.mustBe(EnumKind)
	return DecodeInt(v.bytes)
}

// TypeValue returns the type held by a first-class type value.
func (v Value) TypeValue() Type {
	v.mustBe(TypeKind)
	return v.rep.(Type)
}

func (v Value) unknown() *Unknown {
	v.mustBe(UnknownKind)
	return v.rep.(*Unknown)
}

// UnknownOf returns the payload of an unknown value.
func (v Value) UnknownOf() *Unknown {
	return v.unknown()
}

// AsBool returns the boolean payload or false if v is not a bool.  Unlike
// Bool, it never panics on a kind mismatch.
func (v Value) AsBool() bool {
	v.check()
	if v.typ == TypeBool {
		return DecodeBool(v.bytes)
	}
	return false
}

// AsInt returns the integer payload or 0 if v is not an int.
func (v Value) AsInt() int64 {
	v.check()
	if v.typ == TypeInt {
		return DecodeInt(v.bytes)
	}
	return 0
}

// AsString returns the string payload or "" if v is not a string.
func (v Value) AsString() string {
	v.check()
	if v.typ == TypeString {
		return DecodeString(v.bytes)
	}
	return ""
}

// Copy returns a copy of v that shares no payload bytes with v.
func (v Value) Copy() Value {
	v.check()
	if v.bytes == nil {
		return v
	}
	return Value{typ: v.typ, bytes: append(vcode.Bytes(nil), v.bytes...), rep: v.rep}
}

// Equal reports structural equality.  It is total across all kind pairs:
// values of different kinds are unequal, never an error.  Composite values
// compare representation-independently, so a parsed list and a legacy-backed
// list with the same elements are equal.
func (v Value) Equal(o Value) bool {
	v.check()
	o.check()
	if v.typ.Kind() != o.typ.Kind() {
		return false
	}
	switch v.typ.Kind() {
	case NullKind:
		return true
	case DoubleKind:
		// Decode so that 0.0 == -0.0 and NaN != NaN.
		return DecodeDouble(v.bytes) == DecodeDouble(o.bytes)
	case BoolKind, IntKind, UintKind, BytesKind, StringKind,
		DurationKind, TimestampKind, ErrorKind:
		return bytes.Equal(v.bytes, o.bytes)
	case UnknownKind:
		return v.unknown().equal(o.unknown())
	case EnumKind:
		return v.typ == o.typ && bytes.Equal(v.bytes, o.bytes)
	case ListKind:
		return listsEqual(v.List(), o.List())
	case MapKind:
		return mapsEqual(v.Map(), o.Map())
	case StructKind:
		return structsEqual(v.Struct(), o.Struct())
	case OptionalKind:
		return v.Optional().equal(o.Optional())
	case OpaqueKind:
		return v.Opaque().Equal(o.Opaque())
	case TypeKind:
		return typesEqual(v.TypeValue(), o.TypeValue())
	}
	panic("evx: unreachable kind in Equal")
}

// typesEqual compares types structurally by canonical syntax so that types
// minted by different Contexts still compare equal.
func typesEqual(a, b Type) bool {
	return a == b || a.String() == b.String()
}

// IsZeroValue reports whether v is its kind's default instance: null, false,
// 0, 0.0, empty string or bytes, zero duration, the epoch timestamp, an
// empty container, or a struct whose every field is unset or zero.
func (v Value) IsZeroValue() bool {
	v.check()
	switch v.typ.Kind() {
	case NullKind:
		return true
	case BoolKind:
		return !DecodeBool(v.bytes)
	case IntKind:
		return DecodeInt(v.bytes) == 0
	case UintKind:
		return DecodeUint(v.bytes) == 0
	case DoubleKind:
		return DecodeDouble(v.bytes) == 0
	case BytesKind, StringKind:
		return len(v.bytes) == 0
	case DurationKind, TimestampKind:
		secs, nanos := DecodeTimeOfDay(v.bytes)
		return secs == 0 && nanos == 0
	case EnumKind:
		return DecodeInt(v.bytes) == 0
	case ListKind:
		return v.List().IsEmpty()
	case MapKind:
		return v.Map().IsEmpty()
	case StructKind:
		zero := true
		v.Struct().ForEachField(func(_ Field, fv Value) bool {
			if !fv.IsNull() && !fv.IsZeroValue() {
				zero = false
			}
			return zero
		})
		return zero
	case OptionalKind:
		return !v.Optional().HasValue()
	case OpaqueKind:
		return v.Opaque().IsZeroValue()
	default:
		return false
	}
}

// DebugString renders v in literal style.  It is intended for logs, test
// failures, and error messages; callers needing a stable interchange format
// should use ToJSON or MarshalAny.
func (v Value) DebugString() string {
	v.check()
	switch v.typ.Kind() {
	case NullKind:
		return "null"
	case BoolKind:
		if DecodeBool(v.bytes) {
			return "true"
		}
		return "false"
	case IntKind:
		return fmt.Sprintf("%d", DecodeInt(v.bytes))
	case UintKind:
		return fmt.Sprintf("%du", DecodeUint(v.bytes))
	case DoubleKind:
		return formatDouble(DecodeDouble(v.bytes))
	case BytesKind:
		return "b" + QuotedString(v.bytes, true)
	case StringKind:
		return QuotedString(v.bytes, false)
	case DurationKind:
		secs, nanos := DecodeTimeOfDay(v.bytes)
		return formatDuration(secs, nanos)
	case TimestampKind:
		secs, nanos := DecodeTimeOfDay(v.bytes)
		return formatTimestamp(secs, nanos)
	case ErrorKind:
		return "error(" + QuotedString(v.bytes, false) + ")"
	case UnknownKind:
		return v.unknown().debugString()
	case ListKind:
		var b strings.Builder
		b.WriteByte('[')
		sep := ""
		v.List().ForEach(func(_ int, elem Value) bool {
			b.WriteString(sep)
			b.WriteString(elem.DebugString())
			sep = ", "
			return true
		})
		b.WriteByte(']')
		return b.String()
	case MapKind:
		var b strings.Builder
		b.WriteByte('{')
		sep := ""
		v.Map().ForEach(func(key, val Value) bool {
			b.WriteString(sep)
			b.WriteString(key.DebugString())
			b.WriteString(": ")
			b.WriteString(val.DebugString())
			sep = ", "
			return true
		})
		b.WriteByte('}')
		return b.String()
	case StructKind:
		var b strings.Builder
		if t, ok := v.typ.(*TypeStruct); ok {
			b.WriteString(t.Name)
		}
		b.WriteByte('{')
		sep := ""
		v.Struct().ForEachField(func(f Field, fv Value) bool {
			b.WriteString(sep)
			b.WriteString(QuotedName(f.Name))
			b.WriteString(": ")
			b.WriteString(fv.DebugString())
			sep = ", "
			return true
		})
		b.WriteByte('}')
		return b.String()
	case EnumKind:
		t := v.typ.(*TypeEnum)
		n := DecodeInt(v.bytes)
		if sym, ok := t.SymbolByNumber(n); ok {
			return t.Name + "." + sym.Name
		}
		return fmt.Sprintf("%s(%d)", t.Name, n)
	case OpaqueKind:
		return v.Opaque().DebugString()
	case OptionalKind:
		opt := v.Optional()
		if !opt.HasValue() {
			return "optional.none()"
		}
		return "optional(" + opt.GetValue().DebugString() + ")"
	case TypeKind:
		return v.TypeValue().String()
	}
	panic("evx: unreachable kind in DebugString")
}

// String implements fmt.Stringer.  It should only be used for logs and
// debugging.
func (v Value) String() string {
	if v.typ == nil {
		return "invalid"
	}
	return v.DebugString()
}

// Hash returns a hash consistent with Equal: equal values hash equally,
// regardless of backing representation.
func (v Value) Hash() uint64 {
	v.check()
	h := fnv.New64a()
	v.hashInto(h)
	return h.Sum64()
}

func (v Value) hashInto(h hash.Hash64) {
	var kindTag [1]byte
	kindTag[0] = byte(v.typ.Kind())
	h.Write(kindTag[:])
	switch v.typ.Kind() {
	case NullKind:
	case DoubleKind:
		f := DecodeDouble(v.bytes)
		if f == 0 {
			f = 0 // collapse -0.0 and +0.0
		}
		var b [8]byte
		putUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	case ListKind:
		v.List().ForEach(func(_ int, elem Value) bool {
			elem.hashInto(h)
			return true
		})
	case MapKind:
		// Commutative combine: map iteration order is unspecified.
		var sum uint64
		v.Map().ForEach(func(key, val Value) bool {
			sum += key.Hash() * 31
			sum += val.Hash()
			return true
		})
		var b [8]byte
		putUint64(b[:], sum)
		h.Write(b[:])
	case StructKind:
		v.Struct().ForEachField(func(f Field, fv Value) bool {
			h.Write([]byte(f.Name))
			fv.hashInto(h)
			return true
		})
	case OptionalKind:
		opt := v.Optional()
		if opt.HasValue() {
			opt.GetValue().hashInto(h)
		}
	case OpaqueKind:
		h.Write([]byte(v.Opaque().DebugString()))
	case TypeKind:
		h.Write([]byte(v.TypeValue().String()))
	case UnknownKind:
		h.Write([]byte(v.unknown().debugString()))
	default:
		h.Write(v.bytes)
	}
}

func putUint64(b []byte, u uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

// Encode appends the canonical payload encoding of v to dst as a tagged
// item.  Composite and rep-backed values are materialized.  Unknown and
// opaque values have no payload encoding; encoding them panics.
func (v Value) Encode(dst vcode.Bytes) vcode.Bytes {
	v.check()
	return vcode.Append(dst, v.payload())
}

// payload returns the canonical payload bytes for v, materializing
// rep-backed composites.  The null value's payload is nil.
func (v Value) payload() vcode.Bytes {
	switch v.typ.Kind() {
	case NullKind:
		return nil
	case ListKind:
		body := vcode.Bytes{}
		v.List().ForEach(func(_ int, elem Value) bool {
			body = elem.Encode(body)
			return true
		})
		return body
	case MapKind:
		body := vcode.Bytes{}
		v.Map().ForEach(func(key, val Value) bool {
			body = key.Encode(body)
			body = val.Encode(body)
			return true
		})
		return body
	case StructKind:
		body := vcode.Bytes{}
		v.Struct().ForEachField(func(_ Field, fv Value) bool {
			body = fv.Encode(body)
			return true
		})
		return body
	case OptionalKind:
		opt := v.Optional()
		body := vcode.Bytes{}
		if opt.HasValue() {
			body = opt.GetValue().Encode(body)
		}
		return body
	case TypeKind:
		return []byte(v.TypeValue().String())
	case UnknownKind, OpaqueKind:
		panic(fmt.Sprintf("evx: %s value has no payload encoding", v.typ.Kind()))
	default:
		if v.bytes == nil {
			return vcode.Bytes{}
		}
		return v.bytes
	}
}

// utf8Len returns the Unicode scalar count of a string value, which is its
// logical size (not its byte count).
func (v Value) utf8Len() int {
	return utf8.RuneCount(v.bytes)
}

// Size returns the logical size of a string (in Unicode scalars), bytes (in
// bytes), list, or map value.
func (v Value) Size() int {
	v.check()
	switch v.typ.Kind() {
	case StringKind:
		return v.utf8Len()
	case BytesKind:
		return len(v.bytes)
	case ListKind:
		return v.List().Size()
	case MapKind:
		return v.Map().Size()
	}
	panic(fmt.Sprintf("evx: %s value has no size", v.typ.Kind()))
}
