package scanner

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags one of the recognized scalar widths. Typed operations
// dispatch on this tag rather than through per-kind generated methods
// or reflection.
type Kind int

const (
	U8 Kind = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
)

// Size returns the fixed byte width of a Kind.
func (k Kind) Size() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case I32:
		return "i32"
	case U64:
		return "u64"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// ParseKind maps a shell-facing kind name to its Kind tag.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "u8":
		return U8, true
	case "i8":
		return I8, true
	case "u16":
		return U16, true
	case "i16":
		return I16, true
	case "u32":
		return U32, true
	case "i32":
		return I32, true
	case "u64":
		return U64, true
	case "i64":
		return I64, true
	case "f32":
		return F32, true
	case "f64":
		return F64, true
	default:
		return 0, false
	}
}

// ToBytes encodes text as host-native little-endian bytes of the given
// Kind. Integer text may be "0x"-prefixed hex or plain decimal; float
// text is decimal. The result is always exactly Kind.Size() bytes -
// the codec never allocates beyond that fixed width.
func ToBytes(k Kind, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	buf := make([]byte, k.Size())

	switch k {
	case U8, U16, U32, U64:
		v, err := parseUint(text, k.Size()*8)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseValue, err)
		}
		putUint(buf, k, v)
		return buf, nil

	case I8, I16, I32, I64:
		v, err := parseInt(text, k.Size()*8)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseValue, err)
		}
		putInt(buf, k, v)
		return buf, nil

	case F32:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseValue, err)
		}
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		return buf, nil

	case F64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseValue, err)
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		return buf, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind", ErrParseValue)
	}
}

// FromBytes decodes exactly Kind.Size() little-endian bytes into its
// canonical text representation. Integers render in decimal, floats in
// Go's shortest round-trippable decimal form.
func FromBytes(k Kind, data []byte) (string, error) {
	if len(data) != k.Size() {
		return "", fmt.Errorf("scanner: %d bytes is not a valid %s", len(data), k)
	}

	switch k {
	case U8:
		return strconv.FormatUint(uint64(data[0]), 10), nil
	case I8:
		return strconv.FormatInt(int64(int8(data[0])), 10), nil
	case U16:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint16(data)), 10), nil
	case I16:
		return strconv.FormatInt(int64(int16(binary.LittleEndian.Uint16(data))), 10), nil
	case U32:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(data)), 10), nil
	case I32:
		return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(data))), 10), nil
	case U64:
		return strconv.FormatUint(binary.LittleEndian.Uint64(data), 10), nil
	case I64:
		return strconv.FormatInt(int64(binary.LittleEndian.Uint64(data)), 10), nil
	case F32:
		bits := binary.LittleEndian.Uint32(data)
		return strconv.FormatFloat(float64(math.Float32frombits(bits)), 'g', -1, 32), nil
	case F64:
		bits := binary.LittleEndian.Uint64(data)
		return strconv.FormatFloat(math.Float64frombits(bits), 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("scanner: unknown kind")
	}
}

func parseUint(text string, bits int) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, bits)
	}
	return strconv.ParseUint(text, 10, bits)
}

func parseInt(text string, bits int) (int64, error) {
	neg := strings.HasPrefix(text, "-")
	unsigned := text
	if neg {
		unsigned = text[1:]
	}
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		v, err := strconv.ParseUint(unsigned[2:], 16, bits)
		if err != nil {
			return 0, err
		}
		if neg {
			return -int64(v), nil
		}
		return int64(v), nil
	}
	return strconv.ParseInt(text, 10, bits)
}

func putUint(buf []byte, k Kind, v uint64) {
	switch k {
	case U8:
		buf[0] = byte(v)
	case U16:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case U32:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case U64:
		binary.LittleEndian.PutUint64(buf, v)
	}
}

func putInt(buf []byte, k Kind, v int64) {
	switch k {
	case I8:
		buf[0] = byte(v)
	case I16:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case I32:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case I64:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	}
}
