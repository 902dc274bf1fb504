package evx

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrTypeExists = errors.New("named type exists with a different definition")

const parseCacheSize = 1024

// A Context mints composite types and guarantees that structurally identical
// composite types are returned as the same Type pointer, so later type
// equality is an O(1) pointer comparison.  Each composite cache has its own
// lock; type creation in one cache never blocks another.  IDs are assigned
// from a shared atomic counter.
type Context struct {
	nextID int32

	listMu sync.Mutex
	lists  map[Type]*TypeList

	mapMu sync.Mutex
	maps  map[[2]Type]*TypeMap

	optionalMu sync.Mutex
	optionals  map[Type]*TypeOptional

	structMu sync.Mutex
	structs  map[string]*TypeStruct

	enumMu sync.Mutex
	enums  map[string]*TypeEnum

	opaqueMu sync.Mutex
	opaques  map[string]*TypeOpaque

	namedMu sync.RWMutex
	named   map[string]Type

	// parsed memoizes LookupByName results.  It is bounded because type
	// strings may arrive from untrusted input.
	parsed *lru.Cache[string, Type]
}

func NewContext() *Context {
	parsed, err := lru.New[string, Type](parseCacheSize)
	if err != nil {
		panic(err)
	}
	return &Context{
		nextID:    IDTypeDef,
		lists:     make(map[Type]*TypeList),
		maps:      make(map[[2]Type]*TypeMap),
		optionals: make(map[Type]*TypeOptional),
		structs:   make(map[string]*TypeStruct),
		enums:     make(map[string]*TypeEnum),
		opaques:   make(map[string]*TypeOpaque),
		named:     make(map[string]Type),
		parsed:    parsed,
	}
}

func (c *Context) allocID() int {
	return int(atomic.AddInt32(&c.nextID, 1) - 1)
}

// LookupTypeList returns the list type with the given element type.
// Subsequent calls with the same element type return the same pointer.
func (c *Context) LookupTypeList(elem Type) *TypeList {
	c.listMu.Lock()
	defer c.listMu.Unlock()
	if typ, ok := c.lists[elem]; ok {
		return typ
	}
	typ := NewTypeList(c.allocID(), elem)
	c.lists[elem] = typ
	return typ
}

// LookupTypeMap returns the map type with the given key and value types.  A
// key type outside bool, int, uint, and string is a construction-time error.
func (c *Context) LookupTypeMap(key, val Type) (*TypeMap, error) {
	if !key.Kind().IsValidMapKey() {
		return nil, fmt.Errorf("map key type %s: %w", key, ErrBadMapKey)
	}
	c.mapMu.Lock()
	defer c.mapMu.Unlock()
	k := [2]Type{key, val}
	if typ, ok := c.maps[k]; ok {
		return typ, nil
	}
	typ := NewTypeMap(c.allocID(), key, val)
	c.maps[k] = typ
	return typ, nil
}

// MustLookupTypeMap is LookupTypeMap for key types known to be valid.
func (c *Context) MustLookupTypeMap(key, val Type) *TypeMap {
	typ, err := c.LookupTypeMap(key, val)
	if err != nil {
		panic(err)
	}
	return typ
}

// LookupTypeOptional returns the optional type wrapping elem.
func (c *Context) LookupTypeOptional(elem Type) *TypeOptional {
	c.optionalMu.Lock()
	defer c.optionalMu.Unlock()
	if typ, ok := c.optionals[elem]; ok {
		return typ
	}
	typ := NewTypeOptional(c.allocID(), elem)
	c.optionals[elem] = typ
	return typ
}

// LookupTypeStruct returns the struct type with the given name and fields,
// minting it on first use.  Duplicate field names or numbers are rejected.
func (c *Context) LookupTypeStruct(name string, fields []Field) (*TypeStruct, error) {
	names := make(map[string]struct{}, len(fields))
	numbers := make(map[int]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := names[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field %q in %s", f.Name, name)
		}
		if _, ok := numbers[f.Number]; ok {
			return nil, fmt.Errorf("duplicate field number %d in %s", f.Number, name)
		}
		names[f.Name] = struct{}{}
		numbers[f.Number] = struct{}{}
	}
	tmp := &TypeStruct{Name: name, Fields: fields}
	key := tmp.Signature()
	c.structMu.Lock()
	if typ, ok := c.structs[key]; ok {
		c.structMu.Unlock()
		return typ, nil
	}
	typ := NewTypeStruct(c.allocID(), name, append([]Field(nil), fields...))
	c.structs[key] = typ
	c.structMu.Unlock()
	return typ, c.registerNamed(name, typ)
}

// LookupTypeEnum returns the enum type with the given name and symbols.
func (c *Context) LookupTypeEnum(name string, symbols []Symbol) (*TypeEnum, error) {
	tmp := &TypeEnum{Name: name, Symbols: symbols}
	key := tmp.Signature()
	c.enumMu.Lock()
	if typ, ok := c.enums[key]; ok {
		c.enumMu.Unlock()
		return typ, nil
	}
	typ := NewTypeEnum(c.allocID(), name, append([]Symbol(nil), symbols...))
	c.enums[key] = typ
	c.enumMu.Unlock()
	return typ, c.registerNamed(name, typ)
}

// LookupTypeOpaque returns the opaque type with the given name and type
// parameters.
func (c *Context) LookupTypeOpaque(name string, params []Type) (*TypeOpaque, error) {
	tmp := &TypeOpaque{Name: name, Params: params}
	key := tmp.Signature()
	c.opaqueMu.Lock()
	if typ, ok := c.opaques[key]; ok {
		c.opaqueMu.Unlock()
		return typ, nil
	}
	typ := NewTypeOpaque(c.allocID(), name, append([]Type(nil), params...))
	c.opaques[key] = typ
	c.opaqueMu.Unlock()
	return typ, c.registerNamed(typ.String(), typ)
}

// registerNamed binds a declared name to its type for LookupByName.  A name
// may be bound once; rebinding to a structurally different type fails.
func (c *Context) registerNamed(name string, typ Type) error {
	c.namedMu.Lock()
	defer c.namedMu.Unlock()
	if existing, ok := c.named[name]; ok {
		if existing != typ {
			return fmt.Errorf("%q: %w", name, ErrTypeExists)
		}
		return nil
	}
	c.named[name] = typ
	return nil
}

func (c *Context) lookupNamed(name string) Type {
	c.namedMu.RLock()
	defer c.namedMu.RUnlock()
	return c.named[name]
}

// LookupByName resolves canonical type syntax: primitive names, list<T>,
// map<K,V>, optional<T>, and the names of structs, enums, and opaque types
// already declared in this Context.
func (c *Context) LookupByName(s string) (Type, error) {
	if typ, ok := c.parsed.Get(s); ok {
		return typ, nil
	}
	typ, err := c.parseType(s)
	if err != nil {
		return nil, err
	}
	c.parsed.Add(s, typ)
	return typ, nil
}

// Localize takes a type from another Context and returns the equivalent
// type minted by this one.
func (c *Context) Localize(foreign Type) (Type, error) {
	switch foreign := foreign.(type) {
	case *TypeList:
		elem, err := c.Localize(foreign.Elem)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeList(elem), nil
	case *TypeMap:
		key, err := c.Localize(foreign.Key)
		if err != nil {
			return nil, err
		}
		val, err := c.Localize(foreign.Val)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeMap(key, val)
	case *TypeOptional:
		elem, err := c.Localize(foreign.Elem)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeOptional(elem), nil
	case *TypeStruct:
		fields := make([]Field, len(foreign.Fields))
		for i, f := range foreign.Fields {
			typ, err := c.Localize(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Number: f.Number, Type: typ}
		}
		return c.LookupTypeStruct(foreign.Name, fields)
	case *TypeEnum:
		return c.LookupTypeEnum(foreign.Name, foreign.Symbols)
	case *TypeOpaque:
		params := make([]Type, len(foreign.Params))
		for i, p := range foreign.Params {
			typ, err := c.Localize(p)
			if err != nil {
				return nil, err
			}
			params[i] = typ
		}
		return c.LookupTypeOpaque(foreign.Name, params)
	default:
		// Primitive singletons are shared by all Contexts.
		return foreign, nil
	}
}

func (c *Context) parseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if typ := LookupPrimitive(s); typ != nil {
		return typ, nil
	}
	if inner, ok := angleArg(s, "list"); ok {
		elem, err := c.parseType(inner)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeList(elem), nil
	}
	if inner, ok := angleArg(s, "optional"); ok {
		elem, err := c.parseType(inner)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeOptional(elem), nil
	}
	if inner, ok := angleArg(s, "map"); ok {
		keyStr, valStr, ok := splitTopLevel(inner)
		if !ok {
			return nil, fmt.Errorf("parsing type %q: map needs two type arguments", s)
		}
		key, err := c.parseType(keyStr)
		if err != nil {
			return nil, err
		}
		val, err := c.parseType(valStr)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeMap(key, val)
	}
	if typ := c.lookupNamed(s); typ != nil {
		return typ, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

// angleArg returns the argument of "name<arg>" when s has that shape.
func angleArg(s, name string) (string, bool) {
	if strings.HasPrefix(s, name+"<") && strings.HasSuffix(s, ">") {
		return s[len(name)+1 : len(s)-1], true
	}
	return "", false
}

// splitTopLevel splits s at the first comma not nested inside angle
// brackets.
func splitTopLevel(s string) (string, string, bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
