package evx

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/evx-dev/evx/vcode"
)

// Null is the singleton null value.
var Null = Value{typ: TypeNull}

type TypeOfNull struct{}

func (t *TypeOfNull) ID() int        { return IDNull }
func (t *TypeOfNull) Kind() Kind     { return NullKind }
func (t *TypeOfNull) String() string { return "null" }

type TypeOfBool struct{}

var (
	False = Value{typ: TypeBool, bytes: []byte{0}}
	True  = Value{typ: TypeBool, bytes: []byte{1}}
)

func NewBool(b bool) Value {
	if b {
		return True
	}
	return False
}

func AppendBool(dst vcode.Bytes, b bool) vcode.Bytes {
	if b {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func EncodeBool(b bool) vcode.Bytes {
	return AppendBool(nil, b)
}

func DecodeBool(b vcode.Bytes) bool {
	return len(b) > 0 && b[0] != 0
}

func (t *TypeOfBool) ID() int        { return IDBool }
func (t *TypeOfBool) Kind() Kind     { return BoolKind }
func (t *TypeOfBool) String() string { return "bool" }

type TypeOfInt struct{}

func NewInt(i int64) Value {
	return Value{typ: TypeInt, bytes: EncodeInt(i)}
}

func AppendInt(dst vcode.Bytes, i int64) vcode.Bytes {
	return binary.AppendVarint(dst, i)
}

func EncodeInt(i int64) vcode.Bytes {
	return AppendInt(nil, i)
}

func DecodeInt(b vcode.Bytes) int64 {
	i, _ := binary.Varint(b)
	return i
}

func (t *TypeOfInt) ID() int        { return IDInt }
func (t *TypeOfInt) Kind() Kind     { return IntKind }
func (t *TypeOfInt) String() string { return "int" }

type TypeOfUint struct{}

func NewUint(u uint64) Value {
	return Value{typ: TypeUint, bytes: EncodeUint(u)}
}

func AppendUint(dst vcode.Bytes, u uint64) vcode.Bytes {
	return binary.AppendUvarint(dst, u)
}

func EncodeUint(u uint64) vcode.Bytes {
	return AppendUint(nil, u)
}

func DecodeUint(b vcode.Bytes) uint64 {
	u, _ := binary.Uvarint(b)
	return u
}

func (t *TypeOfUint) ID() int        { return IDUint }
func (t *TypeOfUint) Kind() Kind     { return UintKind }
func (t *TypeOfUint) String() string { return "uint" }

type TypeOfDouble struct{}

func NewDouble(f float64) Value {
	return Value{typ: TypeDouble, bytes: EncodeDouble(f)}
}

func AppendDouble(dst vcode.Bytes, f float64) vcode.Bytes {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f))
}

func EncodeDouble(f float64) vcode.Bytes {
	return AppendDouble(nil, f)
}

func DecodeDouble(b vcode.Bytes) float64 {
	if len(b) != 8 {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// formatDouble renders a double in literal style: whole numbers keep a
// trailing ".0" so they cannot be mistaken for ints, and the non-finite
// values render as "nan", "+infinity", and "-infinity".
func formatDouble(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 1) {
		return "+infinity"
	}
	if math.IsInf(f, -1) {
		return "-infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (t *TypeOfDouble) ID() int        { return IDDouble }
func (t *TypeOfDouble) Kind() Kind     { return DoubleKind }
func (t *TypeOfDouble) String() string { return "double" }

type TypeOfBytes struct{}

// NewBytes returns a bytes value backed by b.  The value retains b, so the
// caller must not modify it afterward.
func NewBytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{typ: TypeBytes, bytes: b}
}

func (t *TypeOfBytes) ID() int        { return IDBytes }
func (t *TypeOfBytes) Kind() Kind     { return BytesKind }
func (t *TypeOfBytes) String() string { return "bytes" }

type TypeOfString struct{}

// NewString returns a string value for s.  Strings must be valid UTF-8;
// malformed input is rejected here rather than corrupting later stages.
func NewString(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return Value{}, ErrInvalidUTF8
	}
	return newString(s), nil
}

// MustNewString is NewString for strings known to be valid UTF-8.
func MustNewString(s string) Value {
	v, err := NewString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// newString trusts s to be valid UTF-8.
func newString(s string) Value {
	return Value{typ: TypeString, bytes: []byte(s)}
}

func DecodeString(b vcode.Bytes) string {
	return string(b)
}

func (t *TypeOfString) ID() int        { return IDString }
func (t *TypeOfString) Kind() Kind     { return StringKind }
func (t *TypeOfString) String() string { return "string" }

type TypeOfDyn struct{}

func (t *TypeOfDyn) ID() int        { return IDDyn }
func (t *TypeOfDyn) Kind() Kind     { return DynKind }
func (t *TypeOfDyn) String() string { return "dyn" }

type TypeOfType struct{}

// NewTypeValue returns a first-class value holding typ.
func NewTypeValue(typ Type) Value {
	return Value{typ: TypeType, rep: typ}
}

func (t *TypeOfType) ID() int        { return IDType }
func (t *TypeOfType) Kind() Kind     { return TypeKind }
func (t *TypeOfType) String() string { return "type" }
