package reader

import (
	"math/bits"

	"github.com/wippyai/dwarfread/errors"
)

// Offset is the set of integer types usable for positions and lengths
// within a section. Callers pick the width that fits their address space:
// uint32 for compact sections, uint64 for large ones, uint for the
// platform's pointer width.
type Offset interface {
	~uint32 | ~uint64 | ~uint
}

// OffsetFromU8 converts a u8 to an offset.
func OffsetFromU8[O Offset](v uint8) O {
	return O(v)
}

// OffsetFromI8 converts an i8 to an offset. Negative values are sign
// extended and reinterpreted, as with a Go conversion.
func OffsetFromI8[O Offset](v int8) O {
	return O(v)
}

// OffsetFromU16 converts a u16 to an offset.
func OffsetFromU16[O Offset](v uint16) O {
	return O(v)
}

// OffsetFromI16 converts an i16 to an offset. Negative values are sign
// extended and reinterpreted, as with a Go conversion.
func OffsetFromI16[O Offset](v int16) O {
	return O(v)
}

// OffsetFromU32 converts a u32 to an offset.
func OffsetFromU32[O Offset](v uint32) O {
	return O(v)
}

// OffsetFromU64 converts a u64 to an offset.
//
// Returns an unsupported_offset error carrying v if it cannot be
// represented exactly in O.
func OffsetFromU64[O Offset](v uint64) (O, error) {
	o := O(v)
	if uint64(o) != v {
		return 0, errors.UnsupportedOffset(v, OffsetBits[O]())
	}
	return o, nil
}

// OffsetToU64 converts an offset to a u64. It never loses information.
func OffsetToU64[O Offset](o O) uint64 {
	return uint64(o)
}

// OffsetBits returns the width of O in bits.
func OffsetBits[O Offset]() int {
	return bits.Len64(uint64(^O(0)))
}

// WrappingAdd computes a + b modulo the width of O.
func WrappingAdd[O Offset](a, b O) O {
	return a + b
}

// CheckedSub computes a - b, reporting false if the result would be negative.
func CheckedSub[O Offset](a, b O) (O, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
