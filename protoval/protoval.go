// Package protoval adapts protocol-buffer data to evx values.  JSON-shaped
// messages (google.protobuf.Value trees) wrap as legacy-backed containers
// that read straight from the underlying message, and arbitrary registered
// message types deserialize from Any envelopes through their protojson
// form.  Importing the package installs the evx Any unpacker.
package protoval

import (
	"fmt"

	"github.com/evx-dev/evx"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func init() {
	evx.RegisterAnyUnpacker(unpackAny)
}

// Wrap converts a JSON tree to a value.  Scalars convert directly; arrays
// and objects wrap as legacy-backed containers that keep reading from the
// tree rather than copying it.
func Wrap(ctx *evx.Context, j *structpb.Value) (evx.Value, error) {
	switch k := j.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return evx.Null, nil
	case *structpb.Value_BoolValue:
		return evx.NewBool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return evx.NewDouble(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return evx.NewString(k.StringValue)
	case *structpb.Value_ListValue:
		return NewList(ctx, k.ListValue), nil
	case *structpb.Value_StructValue:
		return NewMap(ctx, k.StructValue), nil
	default:
		return evx.Value{}, fmt.Errorf("unsupported JSON node %T", k)
	}
}

// wrapOrError is Wrap for contexts that cannot propagate an error; a
// conversion failure becomes an error value so it surfaces downstream.
func wrapOrError(ctx *evx.Context, j *structpb.Value) evx.Value {
	v, err := Wrap(ctx, j)
	if err != nil {
		return evx.NewErrorValue(err)
	}
	return v
}

// unpackAny deserializes an Any envelope holding a message type registered
// in the process-wide protobuf registry.  The message is unmarshaled
// dynamically and converted through its protojson form, so any registered
// type works without generated adapter code.
func unpackAny(ctx *evx.Context, any *anypb.Any) (evx.Value, error) {
	mt, err := protoregistry.GlobalTypes.FindMessageByURL(any.GetTypeUrl())
	if err != nil {
		return evx.Value{}, fmt.Errorf("unpacking %q: %w", any.GetTypeUrl(), err)
	}
	msg := mt.New().Interface()
	if err := any.UnmarshalTo(msg); err != nil {
		return evx.Value{}, fmt.Errorf("unpacking %q: %w", any.GetTypeUrl(), err)
	}
	data, err := protojson.Marshal(msg)
	if err != nil {
		return evx.Value{}, err
	}
	var j structpb.Value
	if err := protojson.Unmarshal(data, &j); err != nil {
		return evx.Value{}, err
	}
	return Wrap(ctx, &j)
}
