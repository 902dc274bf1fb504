package evx

import "fmt"

// TypeOptional is the type of optional values wrapping an element type.
type TypeOptional struct {
	id   int
	Elem Type
}

func NewTypeOptional(id int, elem Type) *TypeOptional {
	return &TypeOptional{id: id, Elem: elem}
}

func (t *TypeOptional) ID() int        { return t.id }
func (t *TypeOptional) Kind() Kind     { return OptionalKind }
func (t *TypeOptional) String() string { return "optional<" + t.Elem.String() + ">" }

// OptionalValue is the payload of an optional value: either a present
// element or nothing.
type OptionalValue struct {
	value   Value
	present bool
}

// HasValue reports whether the optional holds an element.
func (o *OptionalValue) HasValue() bool {
	return o.present
}

// GetValue returns the held element.  Calling it on an absent optional is a
// contract violation and panics; use Value to probe safely.
func (o *OptionalValue) GetValue() Value {
	if !o.present {
		panic("evx: GetValue on absent optional")
	}
	return o.value
}

// Value returns the held element and whether one is present.
func (o *OptionalValue) Value() (Value, bool) {
	return o.value, o.present
}

func (o *OptionalValue) equal(p *OptionalValue) bool {
	if o.present != p.present {
		return false
	}
	return !o.present || o.value.Equal(p.value)
}

// OptionalOf returns an optional value of typ holding v.
func OptionalOf(typ *TypeOptional, v Value) (Value, error) {
	v.check()
	if !AssignableTo(v.Type(), typ.Elem) {
		return Value{}, fmt.Errorf("optional element %s is not assignable to %s", v.Type(), typ.Elem)
	}
	return Value{typ: typ, rep: &OptionalValue{value: v, present: true}}, nil
}

// OptionalNone returns the absent optional value of typ.
func OptionalNone(typ *TypeOptional) Value {
	return Value{typ: typ, rep: &OptionalValue{}}
}
