package evx

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/evx-dev/evx/vcode"
)

// TypeMap is the type of maps with fixed key and value types.  Key types are
// restricted to bool, int, uint, and string; Context.LookupTypeMap enforces
// the restriction at construction time.
type TypeMap struct {
	id  int
	Key Type
	Val Type
}

func NewTypeMap(id int, key, val Type) *TypeMap {
	return &TypeMap{id: id, Key: key, Val: val}
}

func (t *TypeMap) ID() int    { return t.id }
func (t *TypeMap) Kind() Kind { return MapKind }
func (t *TypeMap) String() string {
	return "map<" + t.Key.String() + "," + t.Val.String() + ">"
}

// MapValue is the read interface shared by every map backing.  Iteration and
// key-listing order is unspecified; callers must not depend on it.
type MapValue interface {
	Size() int
	IsEmpty() bool
	// Get returns the value bound to key, failing with ErrKeyNotFound
	// when the key is absent.
	Get(key Value) (Value, error)
	// Find is the non-throwing existence probe: it returns the bound
	// value and whether the key was present.
	Find(key Value) (Value, bool)
	Has(key Value) bool
	ListKeys() []Value
	// ForEach visits entries until fn returns false.
	ForEach(fn func(key, val Value) bool)
	// NewIterator returns a fresh single-pass iterator over the keys.
	NewIterator() ValueIterator
}

type mapEntry struct {
	keyBytes vcode.Bytes // canonical key payload, the sort key
	key, val Value
}

// parsedMap is the directly-owned map representation.  Entries are kept
// sorted by encoded key so lookups can binary-search and so two parsed maps
// with the same entries have identical layouts regardless of insertion
// order.
type parsedMap struct {
	entries []mapEntry
}

func (m *parsedMap) Size() int     { return len(m.entries) }
func (m *parsedMap) IsEmpty() bool { return len(m.entries) == 0 }

func (m *parsedMap) find(key Value) (int, bool) {
	key.check()
	if !key.Kind().IsValidMapKey() {
		return 0, false
	}
	kb := key.payload()
	i := sort.Search(len(m.entries), func(i int) bool {
		return bytes.Compare(m.entries[i].keyBytes, kb) >= 0
	})
	if i < len(m.entries) && bytes.Equal(m.entries[i].keyBytes, kb) &&
		m.entries[i].key.Kind() == key.Kind() {
		return i, true
	}
	return 0, false
}

func (m *parsedMap) Get(key Value) (Value, error) {
	if i, ok := m.find(key); ok {
		return m.entries[i].val, nil
	}
	return Value{}, fmt.Errorf("map key %s: %w", key.DebugString(), ErrKeyNotFound)
}

func (m *parsedMap) Find(key Value) (Value, bool) {
	if i, ok := m.find(key); ok {
		return m.entries[i].val, true
	}
	return Value{}, false
}

func (m *parsedMap) Has(key Value) bool {
	_, ok := m.find(key)
	return ok
}

func (m *parsedMap) ListKeys() []Value {
	keys := make([]Value, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

func (m *parsedMap) ForEach(fn func(key, val Value) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}

func (m *parsedMap) NewIterator() ValueIterator {
	return &sliceIterator{vals: m.ListKeys()}
}

// A MapEntry is a key-value pair for literal map construction.
type MapEntry struct {
	Key Value
	Val Value
}

// NewMap returns a map value of typ with the given entries.  Keys must match
// the map's key type, values must be assignable to its value type, and keys
// must be unique.
func NewMap(typ *TypeMap, entries ...MapEntry) (Value, error) {
	b := NewMapValueBuilder(typ)
	b.Reserve(len(entries))
	for _, e := range entries {
		if err := b.Put(e.Key, e.Val); err != nil {
			return Value{}, err
		}
	}
	return b.Build(), nil
}

// mapsEqual is the one equality algorithm shared across map backings: same
// size, then every key of a maps to an equal value in b.  Entry order never
// matters.
func mapsEqual(a, b MapValue) bool {
	if a.Size() != b.Size() {
		return false
	}
	equal := true
	a.ForEach(func(key, av Value) bool {
		bv, ok := b.Find(key)
		if !ok || !av.Equal(bv) {
			equal = false
		}
		return equal
	})
	return equal
}

// MapValueBuilder incrementally assembles a map value.  Builders are
// single-threaded; Build consumes the builder.
type MapValueBuilder struct {
	typ     *TypeMap
	entries []mapEntry
	seen    map[string]struct{}
	done    bool
}

func NewMapValueBuilder(typ *TypeMap) *MapValueBuilder {
	return &MapValueBuilder{typ: typ, seen: make(map[string]struct{})}
}

// Reserve hints the expected entry count.
func (b *MapValueBuilder) Reserve(capacity int) {
	b.checkOpen()
	if cap(b.entries) < capacity {
		entries := make([]mapEntry, len(b.entries), capacity)
		copy(entries, b.entries)
		b.entries = entries
	}
}

// Put adds an entry.  It fails for a key whose kind is not a legal map key,
// a key or value not matching the map type, and a duplicate key.
func (b *MapValueBuilder) Put(key, val Value) error {
	b.checkOpen()
	key.check()
	val.check()
	if !key.Kind().IsValidMapKey() {
		return fmt.Errorf("map key %s: %w", key.Kind(), ErrBadMapKey)
	}
	if !AssignableTo(key.Type(), b.typ.Key) {
		return fmt.Errorf("map key %s is not assignable to %s", key.Type(), b.typ.Key)
	}
	if !AssignableTo(val.Type(), b.typ.Val) {
		return fmt.Errorf("map value %s is not assignable to %s", val.Type(), b.typ.Val)
	}
	kb := key.payload()
	if _, ok := b.seen[string(kb)]; ok {
		return fmt.Errorf("duplicate map key %s", key.DebugString())
	}
	b.seen[string(kb)] = struct{}{}
	b.entries = append(b.entries, mapEntry{keyBytes: kb, key: key, val: val})
	return nil
}

// Build finalizes the accumulated entries into an immutable map value and
// invalidates the builder.
func (b *MapValueBuilder) Build() Value {
	b.checkOpen()
	b.done = true
	entries := b.entries
	b.entries = nil
	b.seen = nil
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].keyBytes, entries[j].keyBytes) < 0
	})
	return Value{typ: b.typ, rep: &parsedMap{entries: entries}}
}

func (b *MapValueBuilder) checkOpen() {
	if b.done {
		panic("evx: use of consumed MapValueBuilder")
	}
}
