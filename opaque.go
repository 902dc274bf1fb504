package evx

import "strings"

// TypeOpaque is a named, optionally parameterized type whose values are
// backed entirely by host-supplied behavior.
type TypeOpaque struct {
	id     int
	Name   string
	Params []Type
}

func NewTypeOpaque(id int, name string, params []Type) *TypeOpaque {
	return &TypeOpaque{id: id, Name: name, Params: params}
}

func (t *TypeOpaque) ID() int    { return t.id }
func (t *TypeOpaque) Kind() Kind { return OpaqueKind }

func (t *TypeOpaque) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('<')
	for i, p := range t.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Signature returns the structural key used by Context caches.
func (t *TypeOpaque) Signature() string {
	return "opaque " + t.String()
}

// OpaqueValue is the behavior a host supplies to back an opaque value.  The
// core never inspects the backing beyond this interface.
type OpaqueValue interface {
	DebugString() string
	Equal(other OpaqueValue) bool
	IsZeroValue() bool
}

// NewOpaque returns an opaque value of typ backed by the given behavior.
func NewOpaque(typ *TypeOpaque, backing OpaqueValue) Value {
	if backing == nil {
		panic("evx: nil opaque backing")
	}
	return Value{typ: typ, rep: backing}
}
