package protocol

import (
	"encoding/binary"
	"math"
)

// Values unpacks a wire object into its element values. The object size
// must exactly match the prototype.
func (p Prototype) Values(object []byte) ([]interface{}, error) {
	if len(object) != p.Size() {
		return nil, &PackError{Prototype: p.Code, Size: len(object)}
	}
	w := p.Elem.Width()
	vals := make([]interface{}, p.Count)
	for i := range vals {
		vals[i] = decodeElem(p.Elem, object[i*w:])
	}
	return vals, nil
}

func decodeElem(elem ElemKind, b []byte) interface{} {
	switch elem {
	case ElemBool:
		return b[0] != 0
	case ElemUint8:
		return b[0]
	case ElemInt8:
		return int8(b[0])
	case ElemUint16:
		return binary.LittleEndian.Uint16(b)
	case ElemInt16:
		return int16(binary.LittleEndian.Uint16(b))
	case ElemUint32:
		return binary.LittleEndian.Uint32(b)
	case ElemInt32:
		return int32(binary.LittleEndian.Uint32(b))
	case ElemFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case ElemUint64:
		return binary.LittleEndian.Uint64(b)
	case ElemInt64:
		return int64(binary.LittleEndian.Uint64(b))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
}

// AppendElem appends one element value in wire encoding. Unsupported
// value types append nothing.
func AppendElem(dst []byte, value interface{}) []byte {
	switch v := value.(type) {
	case bool:
		return append(dst, boolByte(v))
	case uint8:
		return append(dst, v)
	case int8:
		return append(dst, byte(v))
	case uint16:
		return binary.LittleEndian.AppendUint16(dst, v)
	case int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case uint32:
		return binary.LittleEndian.AppendUint32(dst, v)
	case int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	case float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, v)
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(v))
	case float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
	}
	return dst
}
