package vcode

import "encoding/binary"

// Builder provides an efficient API for constructing nested encoded values.
type Builder struct {
	bytes      Bytes
	containers []int // stack of open containers (as body offsets within bytes)
}

// Reset resets the Builder to be empty.
func (b *Builder) Reset() {
	b.bytes = nil
	b.containers = b.containers[:0]
}

// Append appends val as a tagged item.  A nil val appends a null item.
func (b *Builder) Append(val []byte) {
	b.bytes = Append(b.bytes, val)
}

// BeginContainer opens a new nested container.
func (b *Builder) BeginContainer() {
	// Allocate one byte for the container tag.  When EndContainer writes
	// the tag, it will arrange for additional space if required.
	b.bytes = append(b.bytes, 0)
	b.containers = append(b.containers, len(b.bytes))
}

// EndContainer closes the most recently opened container.  It panics if the
// receiver has no open container.
func (b *Builder) EndContainer() {
	bodyOff := b.containers[len(b.containers)-1]
	b.containers = b.containers[:len(b.containers)-1]
	t := tag(len(b.bytes) - bodyOff)
	tagSize := sizeOfUvarint(t)
	// BeginContainer allocated one byte for the container tag.
	tagOff := bodyOff - 1
	if tagSize > 1 {
		// Need additional space for the tag, so move the body over.
		b.bytes = append(b.bytes[:tagOff+tagSize], b.bytes[bodyOff:]...)
	}
	if binary.PutUvarint(b.bytes[tagOff:], t) != tagSize {
		panic("vcode: bad container tag size")
	}
}

// TransformContainer applies fn to the body of the most recently opened
// container.  It panics if the receiver has no open container.
func (b *Builder) TransformContainer(fn func(Bytes) Bytes) {
	bodyOff := b.containers[len(b.containers)-1]
	body := fn(b.bytes[bodyOff:])
	b.bytes = append(b.bytes[:bodyOff], body...)
}

// Bytes returns the constructed value.  It panics if the receiver has an
// open container.
func (b *Builder) Bytes() Bytes {
	if len(b.containers) > 0 {
		panic("vcode: open container")
	}
	return b.bytes
}
