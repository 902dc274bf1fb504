package protoval

import (
	"fmt"

	"github.com/evx-dev/evx"
	"google.golang.org/protobuf/types/known/structpb"
)

// List proxies a google.protobuf.ListValue as a list backing.  Elements
// convert on access; the underlying message is never copied.
type List struct {
	ctx     *evx.Context
	backing *structpb.ListValue
}

// NewList wraps a ListValue message as a list<dyn> value.
func NewList(ctx *evx.Context, backing *structpb.ListValue) evx.Value {
	return evx.NewLegacyList(ctx.LookupTypeList(evx.TypeDyn), &List{ctx: ctx, backing: backing})
}

func (l *List) Size() int     { return len(l.backing.GetValues()) }
func (l *List) IsEmpty() bool { return l.Size() == 0 }

func (l *List) Get(i int) (evx.Value, error) {
	vals := l.backing.GetValues()
	if i < 0 || i >= len(vals) {
		return evx.Value{}, fmt.Errorf("list index %d of %d: %w", i, len(vals), evx.ErrOutOfRange)
	}
	return Wrap(l.ctx, vals[i])
}

func (l *List) ForEach(fn func(i int, v evx.Value) bool) {
	for i, j := range l.backing.GetValues() {
		if !fn(i, wrapOrError(l.ctx, j)) {
			return
		}
	}
}

func (l *List) NewIterator() evx.ValueIterator {
	return &listIterator{list: l}
}

type listIterator struct {
	list *List
	next int
}

func (it *listIterator) HasNext() bool {
	return it.next < it.list.Size()
}

func (it *listIterator) Next(scratch *evx.Value) evx.Value {
	if !it.HasNext() {
		panic("evx: Next called on exhausted iterator")
	}
	v := wrapOrError(it.list.ctx, it.list.backing.GetValues()[it.next])
	it.next++
	if scratch != nil {
		*scratch = v
	}
	return v
}

var _ evx.ListValue = (*List)(nil)
