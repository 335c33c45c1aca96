// Package leb128 encodes integers in the LEB128 variable-length format used
// throughout DWARF.
//
// Decoding is done by reader.ReadULEB128 and reader.ReadSLEB128, which work
// against any section reader.
package leb128

// MaxLen is the longest encoding of a 64-bit value.
const MaxLen = 10

// AppendUnsigned appends the unsigned LEB128 encoding of v to dst.
func AppendUnsigned(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// AppendSigned appends the signed LEB128 encoding of v to dst.
func AppendSigned(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// EncodeUnsigned encodes an unsigned 64-bit LEB128 value to bytes.
func EncodeUnsigned(v uint64) []byte {
	return AppendUnsigned(make([]byte, 0, MaxLen), v)
}

// EncodeSigned encodes a signed 64-bit LEB128 value to bytes.
func EncodeSigned(v int64) []byte {
	return AppendSigned(make([]byte, 0, MaxLen), v)
}

// UnsignedLen returns the number of bytes needed to encode v.
func UnsignedLen(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}
