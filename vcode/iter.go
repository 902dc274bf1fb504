package vcode

// Iter iterates over a sequence of encoded items.
type Iter Bytes

// Done returns true if no items remain.
func (i *Iter) Done() bool {
	return len(*i) == 0
}

// Next returns the body of the next item and advances the iterator.  It
// returns nil for a null item and panics if the encoding is malformed.
func (i *Iter) Next() Bytes {
	u64, n := uvarint(*i)
	if n <= 0 {
		panic("vcode: bad uvarint")
	}
	if tagIsNull(u64) {
		*i = (*i)[n:]
		return nil
	}
	end := n + tagLength(u64)
	val := (*i)[n:end]
	*i = (*i)[end:]
	return Bytes(val)
}

// NextTagAndBody returns the next item as a Bytes including both its tag and
// body, and advances the iterator.  It is used when an item must be
// preserved verbatim, as when normalizing map entries.
func (i *Iter) NextTagAndBody() Bytes {
	u64, n := uvarint(*i)
	if n <= 0 {
		panic("vcode: bad uvarint")
	}
	end := n
	if !tagIsNull(u64) {
		end += tagLength(u64)
	}
	val := (*i)[:end]
	*i = (*i)[end:]
	return Bytes(val)
}
