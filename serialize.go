package evx

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const typeURLPrefix = "type.googleapis.com/"

// TypeURL returns the Any type URL under which v serializes.
func (v Value) TypeURL() (string, error) {
	v.check()
	switch v.Kind() {
	case NullKind:
		return typeURLPrefix + "google.protobuf.Value", nil
	case BoolKind:
		return typeURLPrefix + "google.protobuf.BoolValue", nil
	case IntKind, EnumKind:
		return typeURLPrefix + "google.protobuf.Int64Value", nil
	case UintKind:
		return typeURLPrefix + "google.protobuf.UInt64Value", nil
	case DoubleKind:
		return typeURLPrefix + "google.protobuf.DoubleValue", nil
	case BytesKind:
		return typeURLPrefix + "google.protobuf.BytesValue", nil
	case StringKind:
		return typeURLPrefix + "google.protobuf.StringValue", nil
	case DurationKind:
		return typeURLPrefix + "google.protobuf.Duration", nil
	case TimestampKind:
		return typeURLPrefix + "google.protobuf.Timestamp", nil
	case ListKind:
		return typeURLPrefix + "google.protobuf.ListValue", nil
	case MapKind, StructKind:
		// Maps and structs serialize as the generic struct envelope.
		return typeURLPrefix + "google.protobuf.Struct", nil
	default:
		return "", fmt.Errorf("%s: %w", v.Kind(), ErrNotSerializable)
	}
}

// wireMessage returns the well-known protobuf message carrying v's
// serialized form.
func (v Value) wireMessage() (proto.Message, error) {
	switch v.Kind() {
	case NullKind:
		return structpb.NewNullValue(), nil
	case BoolKind:
		return wrapperspb.Bool(v.Bool()), nil
	case IntKind:
		return wrapperspb.Int64(v.Int()), nil
	case UintKind:
		return wrapperspb.UInt64(v.Uint()), nil
	case DoubleKind:
		return wrapperspb.Double(v.Double()), nil
	case BytesKind:
		return wrapperspb.Bytes(v.BytesOf()), nil
	case StringKind:
		return wrapperspb.String(v.StringOf()), nil
	case DurationKind:
		secs, nanos := v.Duration()
		return &durationpb.Duration{Seconds: secs, Nanos: nanos}, nil
	case TimestampKind:
		secs, nanos := v.Timestamp()
		return &timestamppb.Timestamp{Seconds: secs, Nanos: nanos}, nil
	case EnumKind:
		return wrapperspb.Int64(v.EnumNumber()), nil
	case ListKind:
		j, err := v.ToJSON()
		if err != nil {
			return nil, err
		}
		return j.GetListValue(), nil
	case MapKind, StructKind:
		j, err := v.ToJSON()
		if err != nil {
			return nil, err
		}
		return j.GetStructValue(), nil
	default:
		return nil, fmt.Errorf("%s: %w", v.Kind(), ErrNotSerializable)
	}
}

// SerializedSize returns the size of v's serialized form.  Kinds that do
// not serialize fail with ErrNotSerializable; legacy-backed containers
// serialize only on demand and report ErrNotImplemented here.
func (v Value) SerializedSize() (int, error) {
	v.check()
	if v.Kind().IsComposite() && IsLegacyBacked(v) {
		return 0, fmt.Errorf("legacy %s size: %w", v.Kind(), ErrNotImplemented)
	}
	msg, err := v.wireMessage()
	if err != nil {
		return 0, err
	}
	return proto.Size(msg), nil
}

// AppendSerialized appends v's serialized form to dst and returns the
// extended buffer.
func (v Value) AppendSerialized(dst []byte) ([]byte, error) {
	v.check()
	msg, err := v.wireMessage()
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{}.MarshalAppend(dst, msg)
}

// MarshalAny wraps v's serialized form in a self-describing Any envelope.
func (v Value) MarshalAny() (*anypb.Any, error) {
	v.check()
	msg, err := v.wireMessage()
	if err != nil {
		return nil, err
	}
	return anypb.New(msg)
}

// UnmarshalAny deserializes an Any envelope produced by MarshalAny.  Type
// URLs the core does not recognize fall through to the registered
// AnyUnpacker, if any.  Container envelopes deserialize with JSON value
// semantics: numbers become doubles and objects become string-keyed maps.
func UnmarshalAny(ctx *Context, any *anypb.Any) (Value, error) {
	name := any.GetTypeUrl()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	switch name {
	case "google.protobuf.BoolValue":
		var m wrapperspb.BoolValue
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewBool(m.Value), nil
	case "google.protobuf.Int64Value", "google.protobuf.Int32Value":
		var m wrapperspb.Int64Value
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewInt(m.Value), nil
	case "google.protobuf.UInt64Value", "google.protobuf.UInt32Value":
		var m wrapperspb.UInt64Value
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewUint(m.Value), nil
	case "google.protobuf.DoubleValue", "google.protobuf.FloatValue":
		var m wrapperspb.DoubleValue
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewDouble(m.Value), nil
	case "google.protobuf.BytesValue":
		var m wrapperspb.BytesValue
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewBytes(m.Value), nil
	case "google.protobuf.StringValue":
		var m wrapperspb.StringValue
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewString(m.Value)
	case "google.protobuf.Duration":
		var m durationpb.Duration
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewDuration(m.Seconds, m.Nanos)
	case "google.protobuf.Timestamp":
		var m timestamppb.Timestamp
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return NewTimestamp(m.Seconds, m.Nanos)
	case "google.protobuf.Value":
		var m structpb.Value
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return FromJSON(ctx, &m)
	case "google.protobuf.ListValue":
		var m structpb.ListValue
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return FromJSON(ctx, structpb.NewListValue(&m))
	case "google.protobuf.Struct":
		var m structpb.Struct
		if err := any.UnmarshalTo(&m); err != nil {
			return Value{}, err
		}
		return FromJSON(ctx, structpb.NewStructValue(&m))
	}
	if unpack := lookupAnyUnpacker(); unpack != nil {
		return unpack(ctx, any)
	}
	return Value{}, fmt.Errorf("unsupported type URL %q: %w", any.GetTypeUrl(), ErrNotSerializable)
}
