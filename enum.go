package evx

import (
	"fmt"
	"strings"
)

// A Symbol is one named constant of an enum type.
type Symbol struct {
	Name   string
	Number int64
}

// TypeEnum is a named enumeration type.  Enum values carry a number; numbers
// without a declared symbol are permitted, matching open enum semantics.
type TypeEnum struct {
	id       int
	Name     string
	Symbols  []Symbol
	byName   map[string]int
	byNumber map[int64]int
}

func NewTypeEnum(id int, name string, symbols []Symbol) *TypeEnum {
	t := &TypeEnum{
		id:       id,
		Name:     name,
		Symbols:  symbols,
		byName:   make(map[string]int, len(symbols)),
		byNumber: make(map[int64]int, len(symbols)),
	}
	for i, s := range symbols {
		t.byName[s.Name] = i
		if _, ok := t.byNumber[s.Number]; !ok {
			t.byNumber[s.Number] = i
		}
	}
	return t
}

func (t *TypeEnum) ID() int        { return t.id }
func (t *TypeEnum) Kind() Kind     { return EnumKind }
func (t *TypeEnum) String() string { return t.Name }

// Signature returns the structural key used by Context caches.
func (t *TypeEnum) Signature() string {
	var b strings.Builder
	b.WriteString("enum ")
	b.WriteString(t.Name)
	b.WriteByte('{')
	for i, s := range t.Symbols {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%d", s.Name, s.Number)
	}
	b.WriteByte('}')
	return b.String()
}

func (t *TypeEnum) SymbolByName(name string) (Symbol, bool) {
	if i, ok := t.byName[name]; ok {
		return t.Symbols[i], true
	}
	return Symbol{}, false
}

func (t *TypeEnum) SymbolByNumber(number int64) (Symbol, bool) {
	if i, ok := t.byNumber[number]; ok {
		return t.Symbols[i], true
	}
	return Symbol{}, false
}

// NewEnum returns an enum value of typ with the given number.
func NewEnum(typ *TypeEnum, number int64) Value {
	return Value{typ: typ, bytes: EncodeInt(number)}
}

// NewEnumByName returns the enum value for a declared symbol name.
func NewEnumByName(typ *TypeEnum, name string) (Value, error) {
	sym, ok := typ.SymbolByName(name)
	if !ok {
		return Value{}, fmt.Errorf("enum %s has no symbol %q: %w", typ.Name, name, ErrKeyNotFound)
	}
	return NewEnum(typ, sym.Number), nil
}
