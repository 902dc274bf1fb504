package evx

import (
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/evx-dev/evx/vcode"
)

// A Releaser is a value backing with externally visible cleanup that must
// run when its arena is torn down.
type Releaser interface {
	Release()
}

// A TrivialReleaser opts out of per-object cleanup at arena teardown.  A
// backing should return true only when skipping its Release has no
// externally visible effect; this is an explicit safety/performance
// trade-off.
type TrivialReleaser interface {
	TrivialRelease() bool
}

// smallPayload is the threshold below which string and bytes payloads are
// stored inline in the value rather than retained by the arena buffer.  The
// two backings behave identically; the split only avoids buffer churn for
// tiny payloads.
const smallPayload = 16

// Arena is a reference-counted bulk allocator for value payloads.  Payloads
// are appended to a single buffer and released together when the reference
// count reaches zero, at which point the arena is recycled through a pool.
// An arena must remain referenced at any point where its values are
// accessed.  Arenas are not concurrent allocators: allocate from one
// goroutine per arena, though Ref and Unref are atomic and may be called
// from any goroutine.
type Arena struct {
	pool *sync.Pool
	refs int32

	buf       []byte
	free      func()
	releasers []Releaser
}

var (
	arenaPool           sync.Pool
	arenaWithBufferPool sync.Pool
)

// NewArena returns an empty arena with a reference count of one.
func NewArena() *Arena {
	return newArena(&arenaPool)
}

// NewArenaWithBuffer returns an arena whose buffer is initialized to buf.
// If free is not nil, it is called when Unref drops the reference count to
// zero and can return buf to an outside allocator.
func NewArenaWithBuffer(buf []byte, free func()) *Arena {
	a := newArena(&arenaWithBufferPool)
	a.buf = buf
	a.free = free
	return a
}

func newArena(pool *sync.Pool) *Arena {
	a, ok := pool.Get().(*Arena)
	if !ok {
		a = &Arena{pool: pool}
	}
	a.refs = 1
	if a.buf == nil {
		a.buf = []byte{}
	}
	return a
}

func (a *Arena) Ref() {
	atomic.AddInt32(&a.refs, 1)
}

// Unref drops a reference.  When the count reaches zero the arena runs the
// Release of every registered backing that has not opted out, invokes the
// buffer free callback, and recycles itself.
func (a *Arena) Unref() {
	refs := atomic.AddInt32(&a.refs, -1)
	if refs < 0 {
		panic("evx: negative arena reference count")
	}
	if refs > 0 {
		return
	}
	for _, r := range a.releasers {
		if t, ok := r.(TrivialReleaser); ok && t.TrivialRelease() {
			continue
		}
		r.Release()
	}
	if a.free != nil {
		a.buf = nil
		a.free()
	}
	a.Reset()
	a.pool.Put(a)
}

// Reset discards the arena's contents without releasing backings.
func (a *Arena) Reset() {
	a.buf = a.buf[:0]
	a.releasers = a.releasers[:0]
}

// alloc appends b to the arena buffer and returns the stable slice holding
// the copy.
func (a *Arena) alloc(b []byte) []byte {
	off := len(a.buf)
	a.buf = append(a.buf, b...)
	return a.buf[off : off+len(b) : off+len(b)]
}

// NewValue returns a value of typ whose payload is copied into the arena
// buffer.  A nil payload yields the null payload without allocation.
func (a *Arena) NewValue(typ Type, b vcode.Bytes) Value {
	if b == nil {
		return Value{typ: typ}
	}
	return Value{typ: typ, bytes: a.alloc(b)}
}

// NewBytes returns a bytes value.  Small payloads are stored inline rather
// than retained by the arena.
func (a *Arena) NewBytes(b []byte) Value {
	if len(b) < smallPayload {
		return NewBytes(append([]byte{}, b...))
	}
	return a.NewValue(TypeBytes, b)
}

// NewString returns a string value, validating UTF-8.  Small payloads are
// stored inline rather than retained by the arena.
func (a *Arena) NewString(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return Value{}, ErrInvalidUTF8
	}
	if len(s) < smallPayload {
		return newString(s), nil
	}
	return a.NewValue(TypeString, []byte(s)), nil
}

// CopyValue copies v's payload into the arena.
func (a *Arena) CopyValue(v Value) Value {
	v.check()
	if v.bytes == nil {
		return v
	}
	return Value{typ: v.Type(), bytes: a.alloc(v.bytes), rep: v.rep}
}

// NewOpaque returns an opaque value whose backing is released at arena
// teardown if it implements Releaser.
func (a *Arena) NewOpaque(typ *TypeOpaque, backing OpaqueValue) Value {
	if r, ok := backing.(Releaser); ok {
		a.releasers = append(a.releasers, r)
	}
	return NewOpaque(typ, backing)
}

var _ Allocator = (*Arena)(nil)
