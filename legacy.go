package evx

import (
	"sync"

	"google.golang.org/protobuf/types/known/anypb"
)

// Legacy backings let list, map, and struct values proxy to an externally
// supplied representation -- typically one backed by protocol-buffer
// messages -- without the core depending on the adapter.  A backing is any
// implementation of the corresponding read interface; the adapter module
// binds its implementation at compile time and wraps values through these
// constructors.  Both representations expose identical read semantics, so
// callers never need to know which backing is active except through type
// introspection.

// NewLegacyList wraps an externally backed list representation as a value of
// typ.
func NewLegacyList(typ *TypeList, backing ListValue) Value {
	if backing == nil {
		panic("evx: nil list backing")
	}
	return Value{typ: typ, rep: backing}
}

// NewLegacyMap wraps an externally backed map representation as a value of
// typ.
func NewLegacyMap(typ *TypeMap, backing MapValue) Value {
	if backing == nil {
		panic("evx: nil map backing")
	}
	return Value{typ: typ, rep: backing}
}

// NewLegacyStruct wraps an externally backed struct representation as a
// value of typ.
func NewLegacyStruct(typ *TypeStruct, backing StructValue) Value {
	if backing == nil {
		panic("evx: nil struct backing")
	}
	return Value{typ: typ, rep: backing}
}

// IsLegacyBacked reports whether a composite value proxies to an external
// backing rather than the parsed representation.
func IsLegacyBacked(v Value) bool {
	v.check()
	switch v.rep.(type) {
	case *parsedList, *parsedMap, *parsedStruct:
		return false
	case ListValue, MapValue, StructValue:
		return true
	}
	return false
}

// An AnyUnpacker deserializes an Any envelope whose type URL the core does
// not recognize.  The protobuf adapter registers one at init so that
// message-typed envelopes round-trip without the core linking against
// message reflection.
type AnyUnpacker func(ctx *Context, any *anypb.Any) (Value, error)

var anyUnpacker struct {
	mu  sync.Mutex
	fn  AnyUnpacker
	set bool
}

// RegisterAnyUnpacker installs the process-wide fallback deserializer.  It
// may be called exactly once, before any deserialization; a second call
// panics.  Reads after installation are unsynchronized by design: callers
// must register during initialization.
func RegisterAnyUnpacker(fn AnyUnpacker) {
	anyUnpacker.mu.Lock()
	defer anyUnpacker.mu.Unlock()
	if anyUnpacker.set {
		panic("evx: AnyUnpacker registered twice")
	}
	anyUnpacker.fn = fn
	anyUnpacker.set = true
}

func lookupAnyUnpacker() AnyUnpacker {
	anyUnpacker.mu.Lock()
	defer anyUnpacker.mu.Unlock()
	return anyUnpacker.fn
}
