package evx

import (
	"sort"
	"strings"
)

// An Attribute identifies a variable, possibly narrowed by a qualifier path,
// whose value was not available during evaluation.
type Attribute struct {
	Variable string
	Path     []string
}

func (a Attribute) String() string {
	if len(a.Path) == 0 {
		return a.Variable
	}
	return a.Variable + "." + strings.Join(a.Path, ".")
}

// A FunctionResult identifies a function invocation whose result was not
// available during evaluation.
type FunctionResult struct {
	Function string
	ID       int64
}

// Unknown is the payload of an unknown value: the sets of attributes and
// function results that, had they been available, would have let evaluation
// produce a concrete result.
type Unknown struct {
	attrs []Attribute
	funcs []FunctionResult
}

type TypeOfUnknown struct{}

// NewUnknown returns an unknown value carrying the given sets.  The sets are
// stored in sorted order so that set equality is a sequence comparison.
func NewUnknown(attrs []Attribute, funcs []FunctionResult) Value {
	u := &Unknown{
		attrs: append([]Attribute(nil), attrs...),
		funcs: append([]FunctionResult(nil), funcs...),
	}
	sort.Slice(u.attrs, func(i, j int) bool {
		return u.attrs[i].String() < u.attrs[j].String()
	})
	sort.Slice(u.funcs, func(i, j int) bool {
		a, b := u.funcs[i], u.funcs[j]
		return a.Function < b.Function || a.Function == b.Function && a.ID < b.ID
	})
	return Value{typ: TypeUnknown, rep: u}
}

// MergeUnknowns combines the attribute and function-result sets of two
// unknown values, dropping duplicates.
func MergeUnknowns(a, b Value) Value {
	ua, ub := a.unknown(), b.unknown()
	attrs := append(append([]Attribute(nil), ua.attrs...), ub.attrs...)
	funcs := append(append([]FunctionResult(nil), ua.funcs...), ub.funcs...)
	merged := NewUnknown(attrs, funcs)
	u := merged.unknown()
	u.attrs = dedupAttrs(u.attrs)
	u.funcs = dedupFuncs(u.funcs)
	return merged
}

func dedupAttrs(attrs []Attribute) []Attribute {
	out := attrs[:0]
	for i, a := range attrs {
		if i == 0 || a.String() != attrs[i-1].String() {
			out = append(out, a)
		}
	}
	return out
}

func dedupFuncs(funcs []FunctionResult) []FunctionResult {
	out := funcs[:0]
	for i, f := range funcs {
		if i == 0 || f != funcs[i-1] {
			out = append(out, f)
		}
	}
	return out
}

// Attributes returns the attribute set of an unknown value.
func (u *Unknown) Attributes() []Attribute { return u.attrs }

// FunctionResults returns the function-result set of an unknown value.
func (u *Unknown) FunctionResults() []FunctionResult { return u.funcs }

func (u *Unknown) equal(o *Unknown) bool {
	if len(u.attrs) != len(o.attrs) || len(u.funcs) != len(o.funcs) {
		return false
	}
	for i, a := range u.attrs {
		if a.String() != o.attrs[i].String() {
			return false
		}
	}
	for i, f := range u.funcs {
		if f != o.funcs[i] {
			return false
		}
	}
	return true
}

func (u *Unknown) debugString() string {
	var b strings.Builder
	b.WriteString("unknown{")
	sep := ""
	for _, a := range u.attrs {
		b.WriteString(sep)
		b.WriteString(a.String())
		sep = ", "
	}
	for _, f := range u.funcs {
		b.WriteString(sep)
		b.WriteString(f.Function)
		b.WriteString("()")
		sep = ", "
	}
	b.WriteString("}")
	return b.String()
}

func (t *TypeOfUnknown) ID() int        { return IDUnknown }
func (t *TypeOfUnknown) Kind() Kind     { return UnknownKind }
func (t *TypeOfUnknown) String() string { return "unknown" }
