// Package vcode implements the tag-counted binary encoding used for evx
// value payloads.
//
// A payload is a sequence of tagged items.  Each item is an unsigned varint
// tag followed by an optional body.  A tag of zero indicates a null item and
// no body follows.  A nonzero tag indicates the body's length plus one.
// Composite values (lists, maps, structs, optionals) encode their
// constituents as a nested sequence in the item body; the static type of the
// enclosing value determines how a body is interpreted, so the encoding
// itself carries no kind information.
package vcode

import "encoding/binary"

// Bytes is the serialized representation of a sequence of evx values.
type Bytes []byte

// Iter returns an Iter for the receiver.
func (b Bytes) Iter() Iter {
	return Iter(b)
}

// Body returns the body of the single item in the receiver, or nil if the
// receiver does not hold exactly one item.
func (b Bytes) Body() Bytes {
	it := b.Iter()
	body := it.Next()
	if !it.Done() {
		return nil
	}
	return body
}

// Append appends val to dst as a tagged item and returns the extended
// buffer.  A nil val appends a null item.
func Append(dst Bytes, val []byte) Bytes {
	if val == nil {
		return appendUvarint(dst, tagNull)
	}
	dst = appendUvarint(dst, tag(len(val)))
	return append(dst, val...)
}

// appendUvarint is like encoding/binary.PutUvarint but appends to dst
// instead of writing into it.
func appendUvarint(dst []byte, u64 uint64) []byte {
	for u64 >= 0x80 {
		dst = append(dst, byte(u64)|0x80)
		u64 >>= 7
	}
	return append(dst, byte(u64))
}

// sizeOfUvarint returns the number of bytes required by appendUvarint to
// represent u64.
func sizeOfUvarint(u64 uint64) int {
	n := 1
	for u64 >= 0x80 {
		n++
		u64 >>= 7
	}
	return n
}

func uvarint(buf []byte) (uint64, int) {
	return binary.Uvarint(buf)
}

const tagNull = 0

func tag(length int) uint64 {
	return uint64(length) + 1
}

func tagIsNull(t uint64) bool {
	return t == tagNull
}

func tagLength(t uint64) int {
	return int(t - 1)
}
