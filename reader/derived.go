package reader

import (
	"fmt"
	"math"

	"github.com/wippyai/dwarfread/errors"
)

// Format is the DWARF container format of a unit: 32-bit or 64-bit
// section offsets.
type Format uint8

const (
	Dwarf32 Format = 4
	Dwarf64 Format = 8
)

// WordSize returns the size in bytes of offsets and lengths in this format.
func (f Format) WordSize() uint8 { return uint8(f) }

func (f Format) String() string {
	switch f {
	case Dwarf32:
		return "Dwarf32"
	case Dwarf64:
		return "Dwarf64"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Initial length escapes.
const (
	initialLengthReserved = 0xfffffff0
	initialLength64       = 0xffffffff
)

const (
	continuationBit = 0x80
	signBit         = 0x40
	payloadMask     = 0x7f
)

// ReadNullTerminatedSlice reads up to the next zero byte and returns a
// reader over the bytes before it. The terminator is consumed but not
// included.
func ReadNullTerminatedSlice[O Offset](r Reader[O]) (Reader[O], error) {
	idx, err := r.Find(0)
	if err != nil {
		return nil, err
	}
	val, err := r.Split(idx)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(OffsetFromU8[O](1)); err != nil {
		return nil, err
	}
	return val, nil
}

// ReadULEB128 reads an unsigned LEB128 encoded integer.
//
// Encodings whose value does not fit in 64 bits fail with overflow rather
// than being truncated.
func ReadULEB128(r ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadU8()
		if err != nil {
			return 0, err
		}
		// Only one payload bit is left at shift 63, and no continuation.
		if shift == 63 && b != 0x00 && b != 0x01 {
			return 0, stamp(r, errors.Overflow(fmt.Sprintf("uleb128 byte %#02x at shift 63", b), "u64"))
		}
		result |= uint64(b&payloadMask) << shift
		if b&continuationBit == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadSLEB128 reads a signed LEB128 encoded integer.
func ReadSLEB128(r ByteReader) (int64, error) {
	var result int64
	var shift uint
	for {
		b, err := r.ReadU8()
		if err != nil {
			return 0, err
		}
		// At shift 63 the final byte must be pure sign extension.
		if shift == 63 && b != 0x00 && b != 0x7f {
			return 0, stamp(r, errors.Overflow(fmt.Sprintf("sleb128 byte %#02x at shift 63", b), "i64"))
		}
		result |= int64(b&payloadMask) << shift
		shift += 7
		if b&continuationBit == 0 {
			if shift < 64 && b&signBit != 0 {
				result |= ^int64(0) << shift
			}
			return result, nil
		}
	}
}

// ReadULEB128U16 reads an unsigned LEB128 value that must fit in 16 bits,
// such as an attribute or form code.
func ReadULEB128U16(r ByteReader) (uint16, error) {
	v, err := ReadULEB128(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, stamp(r, errors.Overflow(v, "u16"))
	}
	return uint16(v), nil
}

// ReadULEB128U32 reads an unsigned LEB128 value that must fit in 32 bits.
func ReadULEB128U32(r ByteReader) (uint32, error) {
	v, err := ReadULEB128(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, stamp(r, errors.Overflow(v, "u32"))
	}
	return uint32(v), nil
}

// ReadAddress reads an address of the given byte width and widens it to
// a u64. Widths other than 1, 2, 4 and 8 fail with
// unsupported_address_size carrying the width.
func ReadAddress(r FixedReader, size uint8) (uint64, error) {
	switch size {
	case 1:
		v, err := r.ReadU8()
		return uint64(v), err
	case 2:
		v, err := r.ReadU16()
		return uint64(v), err
	case 4:
		v, err := r.ReadU32()
		return uint64(v), err
	case 8:
		return r.ReadU64()
	}
	return 0, stamp(r, errors.UnsupportedAddressSize(size))
}

// ReadWord reads a word-sized integer for the given format and returns it
// as a u64.
func ReadWord(r FixedReader, format Format) (uint64, error) {
	switch format {
	case Dwarf32:
		v, err := r.ReadU32()
		return uint64(v), err
	case Dwarf64:
		return r.ReadU64()
	}
	return 0, stamp(r, errors.InvalidData(errors.PhaseRead, "unknown format "+format.String()))
}

// ReadOffset reads a word-sized integer for the given format and returns it
// as an offset. Fails with unsupported_offset if the value does not fit O.
func ReadOffset[O Offset](r Reader[O], format Format) (O, error) {
	start, positioned := position(r)
	v, err := ReadWord(r, format)
	if err != nil {
		return 0, err
	}
	o, err := OffsetFromU64[O](v)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && positioned {
			return 0, e.At(start)
		}
		return 0, err
	}
	return o, nil
}

// ReadInitialLength reads a unit length and detects the unit's format from
// it: a 32-bit length below 0xfffffff0, or the escape 0xffffffff followed
// by a 64-bit length. The reserved range 0xfffffff0..0xfffffffe fails
// with invalid_data.
func ReadInitialLength[O Offset](r Reader[O]) (O, Format, error) {
	start, positioned := position(r)
	v, err := r.ReadU32()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case v < initialLengthReserved:
		return OffsetFromU32[O](v), Dwarf32, nil
	case v == initialLength64:
		l, err := ReadOffset(r, Dwarf64)
		if err != nil {
			return 0, 0, err
		}
		return l, Dwarf64, nil
	}
	e := errors.InvalidData(errors.PhaseRead, fmt.Sprintf("reserved initial length %#x", v))
	if positioned {
		return 0, 0, e.At(start)
	}
	return 0, 0, e
}

func position(r any) (uint64, bool) {
	p, ok := r.(Positioner)
	if !ok {
		return 0, false
	}
	return p.Position(), true
}

func stamp(r any, e *errors.Error) error {
	if off, ok := position(r); ok {
		return e.At(off)
	}
	return e
}
