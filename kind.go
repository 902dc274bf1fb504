package evx

// Kind is the discriminant tag of the Value sum type.  The set of kinds is
// closed: backing representations may vary per kind, but no new kinds may be
// added by callers.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	UintKind
	DoubleKind
	BytesKind
	StringKind
	DurationKind
	TimestampKind
	ErrorKind
	UnknownKind
	ListKind
	MapKind
	StructKind
	EnumKind
	OpaqueKind
	OptionalKind
	TypeKind
	// DynKind is a type-only kind: no value ever carries it, but the dyn
	// type needs a discriminant like any other type.
	DynKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case DoubleKind:
		return "double"
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case DurationKind:
		return "duration"
	case TimestampKind:
		return "timestamp"
	case ErrorKind:
		return "error"
	case UnknownKind:
		return "unknown"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	case StructKind:
		return "struct"
	case EnumKind:
		return "enum"
	case OpaqueKind:
		return "opaque"
	case OptionalKind:
		return "optional"
	case TypeKind:
		return "type"
	case DynKind:
		return "dyn"
	default:
		return "invalid"
	}
}

// IsComposite returns true for kinds whose values contain other values.
func (k Kind) IsComposite() bool {
	switch k {
	case ListKind, MapKind, StructKind, OptionalKind:
		return true
	}
	return false
}

// IsValidMapKey returns true for the kinds permitted as map keys.
func (k Kind) IsValidMapKey() bool {
	switch k {
	case BoolKind, IntKind, UintKind, StringKind:
		return true
	}
	return false
}
