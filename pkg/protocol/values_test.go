package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValues(t *testing.T) {
	proto, ok := LookupPrototype(PrototypeTwoUint8s)
	require.True(t, ok)
	vals, err := proto.Values([]byte{3, 9})
	require.NoError(t, err)
	require.Equal(t, []interface{}{byte(3), byte(9)}, vals)

	proto, ok = LookupPrototype(PrototypeOneUint32)
	require.True(t, ok)
	vals, err = proto.Values([]byte{0x50, 0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, []interface{}{uint32(80)}, vals)
}

func TestValuesSizeMismatch(t *testing.T) {
	proto, ok := LookupPrototype(PrototypeOneUint16)
	require.True(t, ok)
	_, err := proto.Values([]byte{1})
	require.Error(t, err)
}

func TestAppendElemRoundTrip(t *testing.T) {
	values := []interface{}{
		true, byte(7), int8(-3), uint16(666), int16(-1000),
		uint32(1 << 20), int32(-5), float32(1.5),
		uint64(1 << 40), int64(-9), float64(-2.25),
	}
	for _, value := range values {
		proto, ok := PrototypeFor(elemKindOf(value), 1)
		require.True(t, ok, "%T", value)
		object := AppendElem(nil, value)
		require.Len(t, object, proto.Size())
		vals, err := proto.Values(object)
		require.NoError(t, err)
		require.Equal(t, value, vals[0])
	}
}

func elemKindOf(value interface{}) ElemKind {
	switch value.(type) {
	case bool:
		return ElemBool
	case uint8:
		return ElemUint8
	case int8:
		return ElemInt8
	case uint16:
		return ElemUint16
	case int16:
		return ElemInt16
	case uint32:
		return ElemUint32
	case int32:
		return ElemInt32
	case float32:
		return ElemFloat32
	case uint64:
		return ElemUint64
	case int64:
		return ElemInt64
	default:
		return ElemFloat64
	}
}
