package evx

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/multierr"
)

// A Field is one named, numbered field of a struct type.
type Field struct {
	Name   string
	Number int
	Type   Type
}

func NewField(name string, number int, typ Type) Field {
	return Field{Name: name, Number: number, Type: typ}
}

// TypeStruct is a named struct type with fields addressable by name or by
// number.  Field enumeration order is declaration order.
type TypeStruct struct {
	id       int
	Name     string
	Fields   []Field
	byName   map[string]int
	byNumber map[int]int
}

func NewTypeStruct(id int, name string, fields []Field) *TypeStruct {
	t := &TypeStruct{
		id:       id,
		Name:     name,
		Fields:   fields,
		byName:   make(map[string]int, len(fields)),
		byNumber: make(map[int]int, len(fields)),
	}
	for i, f := range fields {
		t.byName[f.Name] = i
		t.byNumber[f.Number] = i
	}
	return t
}

func (t *TypeStruct) ID() int        { return t.id }
func (t *TypeStruct) Kind() Kind     { return StructKind }
func (t *TypeStruct) String() string { return t.Name }

// Signature returns the structural key used by Context caches.
func (t *TypeStruct) Signature() string {
	var b strings.Builder
	b.WriteString("struct ")
	b.WriteString(t.Name)
	b.WriteByte('{')
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%d:%s", f.Name, f.Number, f.Type)
	}
	b.WriteByte('}')
	return b.String()
}

func (t *TypeStruct) IndexOfField(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

func (t *TypeStruct) IndexOfFieldByNumber(number int) (int, bool) {
	i, ok := t.byNumber[number]
	return i, ok
}

func (t *TypeStruct) HasField(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// noSuchField builds the not-found error for name, suggesting the nearest
// declared field when one is plausibly a misspelling.
func (t *TypeStruct) noSuchField(name string) error {
	best, dist := "", 4
	for _, f := range t.Fields {
		if d := levenshtein.ComputeDistance(name, f.Name); d < dist {
			best, dist = f.Name, d
		}
	}
	if best != "" {
		return fmt.Errorf("%s.%s (did you mean %q?): %w", t.Name, name, best, ErrNoSuchField)
	}
	return fmt.Errorf("%s.%s: %w", t.Name, name, ErrNoSuchField)
}

// StructValue is the read interface shared by every struct backing.
type StructValue interface {
	// FieldByName returns the field's value, failing with ErrNoSuchField
	// for an undeclared name.  Unset fields are null.
	FieldByName(name string) (Value, error)
	FieldByNumber(number int) (Value, error)
	HasFieldByName(name string) bool
	HasFieldByNumber(number int) bool
	// ForEachField visits fields in declaration order until fn returns
	// false.
	ForEachField(fn func(f Field, v Value) bool)
	// Qualify applies a field/index/key access chain.  In presence-test
	// mode it answers whether the full path resolves without
	// materializing intermediate values for the caller; the returned
	// Value is then invalid and only the bool is meaningful.
	Qualify(quals []Qualifier, presenceTest bool) (Value, bool, error)
}

// parsedStruct is the directly-owned struct representation: one positional
// value per declared field, null when unset.
type parsedStruct struct {
	typ    *TypeStruct
	fields []Value
}

func (s *parsedStruct) FieldByName(name string) (Value, error) {
	i, ok := s.typ.IndexOfField(name)
	if !ok {
		return Value{}, s.typ.noSuchField(name)
	}
	return s.fields[i], nil
}

func (s *parsedStruct) FieldByNumber(number int) (Value, error) {
	i, ok := s.typ.IndexOfFieldByNumber(number)
	if !ok {
		return Value{}, fmt.Errorf("%s field number %d: %w", s.typ.Name, number, ErrNoSuchField)
	}
	return s.fields[i], nil
}

func (s *parsedStruct) HasFieldByName(name string) bool {
	i, ok := s.typ.IndexOfField(name)
	return ok && !s.fields[i].IsNull()
}

func (s *parsedStruct) HasFieldByNumber(number int) bool {
	i, ok := s.typ.IndexOfFieldByNumber(number)
	return ok && !s.fields[i].IsNull()
}

func (s *parsedStruct) ForEachField(fn func(f Field, v Value) bool) {
	for i, f := range s.typ.Fields {
		if !fn(f, s.fields[i]) {
			return
		}
	}
}

func (s *parsedStruct) Qualify(quals []Qualifier, presenceTest bool) (Value, bool, error) {
	return qualify(structValueOf(s.typ, s), quals, presenceTest)
}

func structValueOf(typ *TypeStruct, s StructValue) Value {
	return Value{typ: typ, rep: s}
}

// NewStruct returns a struct value of typ with fields given positionally.
// Missing trailing fields are unset (null).
func NewStruct(typ *TypeStruct, fields ...Value) (Value, error) {
	if len(fields) > len(typ.Fields) {
		return Value{}, fmt.Errorf("%s: %d values for %d fields", typ.Name, len(fields), len(typ.Fields))
	}
	vals := make([]Value, len(typ.Fields))
	for i := range vals {
		vals[i] = Null
	}
	for i, v := range fields {
		v.check()
		if !AssignableTo(v.Type(), typ.Fields[i].Type) {
			return Value{}, fmt.Errorf("%s.%s: %s is not assignable to %s",
				typ.Name, typ.Fields[i].Name, v.Type(), typ.Fields[i].Type)
		}
		vals[i] = v
	}
	return Value{typ: typ, rep: &parsedStruct{typ: typ, fields: vals}}, nil
}

// structsEqual is the one equality algorithm shared across struct backings:
// field-wise equality by name.
func structsEqual(a, b StructValue) bool {
	equal := true
	n := 0
	a.ForEachField(func(f Field, av Value) bool {
		bv, err := b.FieldByName(f.Name)
		if err != nil || !av.Equal(bv) {
			equal = false
		}
		n++
		return equal
	})
	if !equal {
		return false
	}
	m := 0
	b.ForEachField(func(Field, Value) bool {
		m++
		return true
	})
	return n == m
}

// A Qualifier is one step of a batched access chain: a struct field by name
// or number, a list index, or a map key.
type Qualifier interface {
	isQualifier()
}

type FieldQualifier struct{ Name string }

type FieldNumberQualifier struct{ Number int }

type IndexQualifier struct{ Index int }

type KeyQualifier struct{ Key Value }

func (FieldQualifier) isQualifier()       {}
func (FieldNumberQualifier) isQualifier() {}
func (IndexQualifier) isQualifier()       {}
func (KeyQualifier) isQualifier()         {}

// Qualify applies an access chain starting at v.  With presenceTest false it
// returns the value at the end of the path, propagating not-found as an
// error.  With presenceTest true it reports whether the full path resolves;
// the returned Value is invalid and no intermediate value escapes.
func Qualify(v Value, quals []Qualifier, presenceTest bool) (Value, bool, error) {
	return qualify(v, quals, presenceTest)
}

func qualify(v Value, quals []Qualifier, presenceTest bool) (Value, bool, error) {
	for _, q := range quals {
		var err error
		var present bool
		v, present, err = applyQualifier(v, q)
		if err != nil {
			return Value{}, false, err
		}
		if !present {
			if presenceTest {
				return Value{}, false, nil
			}
			return Value{}, false, notFoundError(q)
		}
	}
	if presenceTest {
		return Value{}, true, nil
	}
	return v, true, nil
}

func applyQualifier(v Value, q Qualifier) (Value, bool, error) {
	switch q := q.(type) {
	case FieldQualifier:
		if v.Kind() != StructKind {
			return Value{}, false, fmt.Errorf("cannot select field %q from %s", q.Name, v.Kind())
		}
		s := v.Struct()
		if !s.HasFieldByName(q.Name) {
			// Distinguish undeclared fields (an error) from unset
			// ones (absence).
			if t, ok := v.Type().(*TypeStruct); ok && !t.HasField(q.Name) {
				return Value{}, false, t.noSuchField(q.Name)
			}
			return Value{}, false, nil
		}
		fv, err := s.FieldByName(q.Name)
		return fv, err == nil, err
	case FieldNumberQualifier:
		if v.Kind() != StructKind {
			return Value{}, false, fmt.Errorf("cannot select field %d from %s", q.Number, v.Kind())
		}
		s := v.Struct()
		if !s.HasFieldByNumber(q.Number) {
			return Value{}, false, nil
		}
		fv, err := s.FieldByNumber(q.Number)
		return fv, err == nil, err
	case IndexQualifier:
		if v.Kind() != ListKind {
			return Value{}, false, fmt.Errorf("cannot index %s", v.Kind())
		}
		l := v.List()
		if q.Index < 0 || q.Index >= l.Size() {
			return Value{}, false, nil
		}
		ev, err := l.Get(q.Index)
		return ev, err == nil, err
	case KeyQualifier:
		if v.Kind() != MapKind {
			return Value{}, false, fmt.Errorf("cannot key into %s", v.Kind())
		}
		mv, ok := v.Map().Find(q.Key)
		return mv, ok, nil
	default:
		return Value{}, false, fmt.Errorf("unsupported qualifier %T", q)
	}
}

func notFoundError(q Qualifier) error {
	switch q := q.(type) {
	case FieldQualifier:
		return fmt.Errorf("field %q: %w", q.Name, ErrNoSuchField)
	case FieldNumberQualifier:
		return fmt.Errorf("field number %d: %w", q.Number, ErrNoSuchField)
	case IndexQualifier:
		return fmt.Errorf("index %d: %w", q.Index, ErrOutOfRange)
	case KeyQualifier:
		return fmt.Errorf("key %s: %w", q.Key.DebugString(), ErrKeyNotFound)
	default:
		return ErrMissing
	}
}

// StructValueBuilder incrementally assembles a struct value.  Field-set
// errors are accumulated and reported together from Build.
type StructValueBuilder struct {
	typ    *TypeStruct
	fields []Value
	errs   error
	done   bool
}

func NewStructValueBuilder(typ *TypeStruct) *StructValueBuilder {
	fields := make([]Value, len(typ.Fields))
	for i := range fields {
		fields[i] = Null
	}
	return &StructValueBuilder{typ: typ, fields: fields}
}

// SetFieldByName records a field value by name.
func (b *StructValueBuilder) SetFieldByName(name string, v Value) {
	b.checkOpen()
	i, ok := b.typ.IndexOfField(name)
	if !ok {
		b.errs = multierr.Append(b.errs, b.typ.noSuchField(name))
		return
	}
	b.set(i, v)
}

// SetFieldByNumber records a field value by number.
func (b *StructValueBuilder) SetFieldByNumber(number int, v Value) {
	b.checkOpen()
	i, ok := b.typ.IndexOfFieldByNumber(number)
	if !ok {
		b.errs = multierr.Append(b.errs,
			fmt.Errorf("%s field number %d: %w", b.typ.Name, number, ErrNoSuchField))
		return
	}
	b.set(i, v)
}

func (b *StructValueBuilder) set(i int, v Value) {
	v.check()
	f := b.typ.Fields[i]
	if !AssignableTo(v.Type(), f.Type) {
		b.errs = multierr.Append(b.errs, fmt.Errorf("%s.%s: %s is not assignable to %s",
			b.typ.Name, f.Name, v.Type(), f.Type))
		return
	}
	b.fields[i] = v
}

// Build finalizes the struct value and invalidates the builder.  It returns
// the combined error if any field set failed.
func (b *StructValueBuilder) Build() (Value, error) {
	b.checkOpen()
	b.done = true
	if b.errs != nil {
		return Value{}, b.errs
	}
	fields := b.fields
	b.fields = nil
	return Value{typ: b.typ, rep: &parsedStruct{typ: b.typ, fields: fields}}, nil
}

func (b *StructValueBuilder) checkOpen() {
	if b.done {
		panic("evx: use of consumed StructValueBuilder")
	}
}
