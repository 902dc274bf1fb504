package evx

import "fmt"

// TypeList is the type of lists with a fixed element type.  Lists of mixed
// elements use an element type of dyn.
type TypeList struct {
	id   int
	Elem Type
}

func NewTypeList(id int, elem Type) *TypeList {
	return &TypeList{id: id, Elem: elem}
}

func (t *TypeList) ID() int        { return t.id }
func (t *TypeList) Kind() Kind     { return ListKind }
func (t *TypeList) String() string { return "list<" + t.Elem.String() + ">" }

// ListValue is the read interface shared by every list backing.  Iteration
// order is insertion order, always.
type ListValue interface {
	Size() int
	IsEmpty() bool
	// Get returns the i-th element, failing with ErrOutOfRange (never
	// panicking) when i is outside [0, Size()).
	Get(i int) (Value, error)
	// ForEach visits elements in insertion order until fn returns false.
	ForEach(fn func(i int, v Value) bool)
	// NewIterator returns a fresh single-pass iterator over the elements.
	NewIterator() ValueIterator
}

// parsedList is the directly-owned list representation produced by literal
// construction and by builders.
type parsedList struct {
	elems []Value
}

func (l *parsedList) Size() int     { return len(l.elems) }
func (l *parsedList) IsEmpty() bool { return len(l.elems) == 0 }

func (l *parsedList) Get(i int) (Value, error) {
	if i < 0 || i >= len(l.elems) {
		return Value{}, fmt.Errorf("list index %d of %d: %w", i, len(l.elems), ErrOutOfRange)
	}
	return l.elems[i], nil
}

func (l *parsedList) ForEach(fn func(i int, v Value) bool) {
	for i, v := range l.elems {
		if !fn(i, v) {
			return
		}
	}
}

func (l *parsedList) NewIterator() ValueIterator {
	return &sliceIterator{vals: l.elems}
}

// NewList returns a list value of typ with the given elements.  Each element
// must be assignable to the list's element type.
func NewList(typ *TypeList, elems ...Value) (Value, error) {
	for i, e := range elems {
		e.check()
		if !AssignableTo(e.Type(), typ.Elem) {
			return Value{}, fmt.Errorf("list element %d: %s is not assignable to %s",
				i, e.Type(), typ.Elem)
		}
	}
	return Value{typ: typ, rep: &parsedList{elems: append([]Value(nil), elems...)}}, nil
}

// listsEqual is the one equality algorithm shared across list backings:
// same length, then element-wise equality in order.
func listsEqual(a, b ListValue) bool {
	if a.Size() != b.Size() {
		return false
	}
	equal := true
	a.ForEach(func(i int, av Value) bool {
		bv, err := b.Get(i)
		if err != nil || !av.Equal(bv) {
			equal = false
		}
		return equal
	})
	return equal
}

// ListValueBuilder incrementally assembles a list value.  Builders are
// single-threaded; Build consumes the builder and a second Build or any
// mutation after Build panics.
type ListValueBuilder struct {
	typ   *TypeList
	elems []Value
	done  bool
}

func NewListValueBuilder(typ *TypeList) *ListValueBuilder {
	return &ListValueBuilder{typ: typ}
}

// Reserve hints the expected element count.
func (b *ListValueBuilder) Reserve(capacity int) {
	b.checkOpen()
	if cap(b.elems) < capacity {
		elems := make([]Value, len(b.elems), capacity)
		copy(elems, b.elems)
		b.elems = elems
	}
}

// Add appends an element, failing if it is not assignable to the element
// type.
func (b *ListValueBuilder) Add(v Value) error {
	b.checkOpen()
	v.check()
	if !AssignableTo(v.Type(), b.typ.Elem) {
		return fmt.Errorf("list element %d: %s is not assignable to %s",
			len(b.elems), v.Type(), b.typ.Elem)
	}
	b.elems = append(b.elems, v)
	return nil
}

// Build finalizes the accumulated elements into an immutable list value and
// invalidates the builder.
func (b *ListValueBuilder) Build() Value {
	b.checkOpen()
	b.done = true
	elems := b.elems
	b.elems = nil
	return Value{typ: b.typ, rep: &parsedList{elems: elems}}
}

func (b *ListValueBuilder) checkOpen() {
	if b.done {
		panic("evx: use of consumed ListValueBuilder")
	}
}
