package evx

import "github.com/evx-dev/evx/vcode"

// An Allocator abstracts the allocation strategy behind value construction.
// The two provided strategies are the garbage-collected heap (values own
// independent payloads and may cross goroutines freely) and the Arena
// (payloads are bump-allocated into a pooled buffer and released in bulk).
// Evaluators thread an Allocator through value-producing operations so the
// allocation policy is chosen per evaluation, not baked into the core.
type Allocator interface {
	// NewValue returns a value of typ whose payload is b.  Whether b is
	// retained or copied is up to the strategy.
	NewValue(typ Type, b vcode.Bytes) Value
	NewBytes(b []byte) Value
	NewString(s string) (Value, error)
	// CopyValue returns a copy of v whose payload is owned by this
	// allocator.
	CopyValue(v Value) Value
}

type heapAllocator struct{}

// HeapAllocator returns the garbage-collected allocation strategy.
func HeapAllocator() Allocator {
	return heapAllocator{}
}

func (heapAllocator) NewValue(typ Type, b vcode.Bytes) Value {
	return NewValue(typ, b)
}

func (heapAllocator) NewBytes(b []byte) Value {
	return NewBytes(b)
}

func (heapAllocator) NewString(s string) (Value, error) {
	return NewString(s)
}

func (heapAllocator) CopyValue(v Value) Value {
	return v.Copy()
}
