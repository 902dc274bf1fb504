// Package evx implements the value representation for an embeddable,
// side-effect-free expression language.  Every type implements the Type
// interface and every value conforms to exactly one type.  Values are
// immutable once constructed and safe for concurrent read access.  Composite
// types are minted by a Context so that structurally identical types are the
// same Type pointer and type equality is a pointer comparison.
package evx

// A Type describes the static type of a Value.
type Type interface {
	// ID returns an identifier for this type that is unique within the
	// Context that minted it.  Primitive types have fixed IDs shared by
	// all Contexts.
	ID() int
	Kind() Kind
	// String returns the canonical type syntax, e.g. "list<string>".
	String() string
}

var (
	TypeNull      = &TypeOfNull{}
	TypeBool      = &TypeOfBool{}
	TypeInt       = &TypeOfInt{}
	TypeUint      = &TypeOfUint{}
	TypeDouble    = &TypeOfDouble{}
	TypeBytes     = &TypeOfBytes{}
	TypeString    = &TypeOfString{}
	TypeDuration  = &TypeOfDuration{}
	TypeTimestamp = &TypeOfTimestamp{}
	TypeError     = &TypeOfError{}
	TypeUnknown   = &TypeOfUnknown{}
	TypeDyn       = &TypeOfDyn{}
	TypeType      = &TypeOfType{}
)

const (
	IDNull = iota
	IDBool
	IDInt
	IDUint
	IDDouble
	IDBytes
	IDString
	IDDuration
	IDTimestamp
	IDError
	IDUnknown
	IDDyn
	IDType

	// IDTypeDef is the first identifier assigned by a Context to a
	// composite type.
	IDTypeDef
)

// LookupPrimitive returns the primitive type with the given canonical name
// or nil if the name does not denote a primitive type.
func LookupPrimitive(name string) Type {
	switch name {
	case "null":
		return TypeNull
	case "bool":
		return TypeBool
	case "int":
		return TypeInt
	case "uint":
		return TypeUint
	case "double":
		return TypeDouble
	case "bytes":
		return TypeBytes
	case "string":
		return TypeString
	case "duration":
		return TypeDuration
	case "timestamp":
		return TypeTimestamp
	case "error":
		return TypeError
	case "unknown":
		return TypeUnknown
	case "dyn":
		return TypeDyn
	case "type":
		return TypeType
	}
	return nil
}

// LookupPrimitiveByID returns the primitive type with the given fixed ID or
// nil if the ID is not a primitive type ID.
func LookupPrimitiveByID(id int) Type {
	switch id {
	case IDNull:
		return TypeNull
	case IDBool:
		return TypeBool
	case IDInt:
		return TypeInt
	case IDUint:
		return TypeUint
	case IDDouble:
		return TypeDouble
	case IDBytes:
		return TypeBytes
	case IDString:
		return TypeString
	case IDDuration:
		return TypeDuration
	case IDTimestamp:
		return TypeTimestamp
	case IDError:
		return TypeError
	case IDUnknown:
		return TypeUnknown
	case IDDyn:
		return TypeDyn
	case IDType:
		return TypeType
	}
	return nil
}

// InnerType returns the element type of a list or optional type, or nil.
func InnerType(typ Type) Type {
	switch typ := typ.(type) {
	case *TypeList:
		return typ.Elem
	case *TypeOptional:
		return typ.Elem
	default:
		return nil
	}
}

func IsCompositeType(typ Type) bool {
	return typ.Kind().IsComposite()
}

func IsPrimitiveType(typ Type) bool {
	return !IsCompositeType(typ)
}

// AssignableTo reports whether a value of type from may appear where type to
// is expected.  Dyn accepts every type and null is assignable anywhere.
func AssignableTo(from, to Type) bool {
	return to == TypeDyn || from == TypeNull || from == to
}
