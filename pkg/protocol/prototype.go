package protocol

// ElemKind identifies the primitive element type of a data object.
type ElemKind byte

// Element primitives supported by the prototype scheme.
const (
	ElemBool ElemKind = iota
	ElemUint8
	ElemInt8
	ElemUint16
	ElemInt16
	ElemUint32
	ElemInt32
	ElemFloat32
	ElemUint64
	ElemInt64
	ElemFloat64
)

// Width returns the element size in bytes.
func (k ElemKind) Width() int {
	switch k {
	case ElemBool, ElemUint8, ElemInt8:
		return 1
	case ElemUint16, ElemInt16:
		return 2
	case ElemUint32, ElemInt32, ElemFloat32:
		return 4
	default:
		return 8
	}
}

var elemNames = map[ElemKind]string{
	ElemBool:    "bool",
	ElemUint8:   "uint8",
	ElemInt8:    "int8",
	ElemUint16:  "uint16",
	ElemInt16:   "int16",
	ElemUint32:  "uint32",
	ElemInt32:   "int32",
	ElemFloat32: "float32",
	ElemUint64:  "uint64",
	ElemInt64:   "int64",
	ElemFloat64: "float64",
}

// String returns a readable element type name.
func (k ElemKind) String() string {
	if n, ok := elemNames[k]; ok {
		return n
	}
	return "unknown"
}

// Prototype describes the element type and count of a data object attached
// to a data message. The host and controller share an identical code table.
type Prototype struct {
	Code  byte
	Elem  ElemKind
	Count int
}

// Size returns the wire size of an object matching the prototype.
func (p Prototype) Size() int {
	return p.Count * p.Elem.Width()
}

// MaxPrototypeCode is the highest assigned prototype code.
const MaxPrototypeCode = 165

// Commonly used prototype codes.
const (
	PrototypeOneBool   byte = 1
	PrototypeOneUint8  byte = 2
	PrototypeTwoUint8s byte = 5
	PrototypeOneUint16 byte = 7
	PrototypeOneUint32 byte = 17
	PrototypeOneUint64 byte = 39
)

var prototypes [MaxPrototypeCode + 1]Prototype

// The table assigns codes in ascending order of total object size. Within
// one total size, element width ascends; within one width the order is
// bool, unsigned, signed, float. Element counts run 1 through 15.
func init() {
	order := []ElemKind{
		ElemBool, ElemUint8, ElemInt8,
		ElemUint16, ElemInt16,
		ElemUint32, ElemInt32, ElemFloat32,
		ElemUint64, ElemInt64, ElemFloat64,
	}
	code := byte(0)
	for total := 1; total <= 15*8; total++ {
		for _, elem := range order {
			w := elem.Width()
			if total%w != 0 {
				continue
			}
			if n := total / w; n >= 1 && n <= 15 {
				code++
				prototypes[code] = Prototype{Code: code, Elem: elem, Count: n}
			}
		}
	}
	if code != MaxPrototypeCode {
		panic("protocol: prototype table construction mismatch")
	}
}

// LookupPrototype resolves a prototype code. It reports false for code 0
// and codes beyond the table.
func LookupPrototype(code byte) (Prototype, bool) {
	if code == 0 || int(code) > MaxPrototypeCode {
		return Prototype{}, false
	}
	return prototypes[code], true
}

// PrototypeFor finds the code describing count elements of the given kind.
func PrototypeFor(elem ElemKind, count int) (Prototype, bool) {
	for _, p := range prototypes[1:] {
		if p.Elem == elem && p.Count == count {
			return p, true
		}
	}
	return Prototype{}, false
}
