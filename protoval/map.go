package protoval

import (
	"fmt"
	"sort"

	"github.com/evx-dev/evx"
	"google.golang.org/protobuf/types/known/structpb"
)

// Map proxies a google.protobuf.Struct as a string-keyed map backing.
// Values convert on access; the underlying message is never copied.
type Map struct {
	ctx     *evx.Context
	backing *structpb.Struct
}

// NewMap wraps a Struct message as a map<string,dyn> value.
func NewMap(ctx *evx.Context, backing *structpb.Struct) evx.Value {
	return evx.NewLegacyMap(ctx.MustLookupTypeMap(evx.TypeString, evx.TypeDyn),
		&Map{ctx: ctx, backing: backing})
}

func (m *Map) Size() int     { return len(m.backing.GetFields()) }
func (m *Map) IsEmpty() bool { return m.Size() == 0 }

func (m *Map) find(key evx.Value) (*structpb.Value, bool) {
	if key.Kind() != evx.StringKind {
		return nil, false
	}
	j, ok := m.backing.GetFields()[key.StringOf()]
	return j, ok
}

func (m *Map) Get(key evx.Value) (evx.Value, error) {
	if j, ok := m.find(key); ok {
		return Wrap(m.ctx, j)
	}
	return evx.Value{}, fmt.Errorf("map key %s: %w", key.DebugString(), evx.ErrKeyNotFound)
}

func (m *Map) Find(key evx.Value) (evx.Value, bool) {
	j, ok := m.find(key)
	if !ok {
		return evx.Value{}, false
	}
	return wrapOrError(m.ctx, j), true
}

func (m *Map) Has(key evx.Value) bool {
	_, ok := m.find(key)
	return ok
}

// names returns the member names in sorted order so iteration is stable
// even though the wire representation is an unordered map.
func (m *Map) names() []string {
	fields := m.backing.GetFields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Map) ListKeys() []evx.Value {
	names := m.names()
	keys := make([]evx.Value, len(names))
	for i, name := range names {
		keys[i] = evx.MustNewString(name)
	}
	return keys
}

func (m *Map) ForEach(fn func(key, val evx.Value) bool) {
	fields := m.backing.GetFields()
	for _, name := range m.names() {
		if !fn(evx.MustNewString(name), wrapOrError(m.ctx, fields[name])) {
			return
		}
	}
}

func (m *Map) NewIterator() evx.ValueIterator {
	return &keyIterator{keys: m.ListKeys()}
}

type keyIterator struct {
	keys []evx.Value
	next int
}

func (it *keyIterator) HasNext() bool {
	return it.next < len(it.keys)
}

func (it *keyIterator) Next(scratch *evx.Value) evx.Value {
	if !it.HasNext() {
		panic("evx: Next called on exhausted iterator")
	}
	v := it.keys[it.next]
	it.next++
	if scratch != nil {
		*scratch = v
	}
	return v
}

var _ evx.MapValue = (*Map)(nil)
