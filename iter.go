package evx

// A ValueIterator lazily produces the contents of a list or the keys of a
// map.  Iterators are single-pass and forward-only: they cannot be rewound,
// and calling Next after HasNext has returned false is a contract violation
// that panics.
type ValueIterator interface {
	HasNext() bool
	// Next returns the next value.  When the backing cannot hand out a
	// view into its own storage it writes through scratch to avoid a
	// fresh allocation; scratch may be nil.
	Next(scratch *Value) Value
}

type listIterator struct {
	list ListValue
	i    int
}

func (it *listIterator) HasNext() bool {
	return it.i < it.list.Size()
}

func (it *listIterator) Next(scratch *Value) Value {
	if it.i >= it.list.Size() {
		panic("evx: Next called on exhausted iterator")
	}
	v, err := it.list.Get(it.i)
	if err != nil {
		panic("evx: iterator out of sync with list: " + err.Error())
	}
	it.i++
	if scratch != nil {
		*scratch = v
		return *scratch
	}
	return v
}

type sliceIterator struct {
	vals []Value
	i    int
}

func (it *sliceIterator) HasNext() bool {
	return it.i < len(it.vals)
}

func (it *sliceIterator) Next(scratch *Value) Value {
	if it.i >= len(it.vals) {
		panic("evx: Next called on exhausted iterator")
	}
	v := it.vals[it.i]
	it.i++
	if scratch != nil {
		*scratch = v
		return *scratch
	}
	return v
}

// Collect drains it into a slice.  It is a convenience for tests and
// debugging; production consumers should iterate.
func Collect(it ValueIterator) []Value {
	var out []Value
	var scratch Value
	for it.HasNext() {
		out = append(out, it.Next(&scratch))
	}
	return out
}
