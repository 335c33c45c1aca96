// Package sectionbuf builds section bytes in a chosen byte order. It is the
// writing mirror of the reader package and is used to synthesize sections
// for tests and tooling.
package sectionbuf

import (
	"bytes"
	"encoding/binary"

	"github.com/wippyai/dwarfread/leb128"
)

// Writer provides buffered writing utilities for section encoding.
type Writer struct {
	buf   *bytes.Buffer
	order binary.ByteOrder
}

// NewWriter creates a new Writer. A nil order selects little-endian.
func NewWriter(order binary.ByteOrder) *Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{buf: &bytes.Buffer{}, order: order}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// U8 writes a single byte.
func (w *Writer) U8(b byte) *Writer {
	w.buf.WriteByte(b)
	return w
}

// Raw writes a byte slice.
func (w *Writer) Raw(data []byte) *Writer {
	w.buf.Write(data)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

// Address writes v in size bytes. Sizes other than 1, 2, 4 and 8 are
// written as raw little-endian truncations, for producing malformed input.
func (w *Writer) Address(v uint64, size int) *Writer {
	switch size {
	case 1:
		return w.U8(byte(v))
	case 2:
		return w.U16(uint16(v))
	case 4:
		return w.U32(uint32(v))
	case 8:
		return w.U64(v)
	}
	for i := 0; i < size; i++ {
		w.buf.WriteByte(byte(v >> (8 * i)))
	}
	return w
}

// ULEB128 writes an unsigned LEB128 value.
func (w *Writer) ULEB128(v uint64) *Writer {
	var scratch [leb128.MaxLen]byte
	w.buf.Write(leb128.AppendUnsigned(scratch[:0], v))
	return w
}

// SLEB128 writes a signed LEB128 value.
func (w *Writer) SLEB128(v int64) *Writer {
	var scratch [leb128.MaxLen]byte
	w.buf.Write(leb128.AppendSigned(scratch[:0], v))
	return w
}

// CString writes s followed by a zero byte.
func (w *Writer) CString(s string) *Writer {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
	return w
}

// InitialLength writes a DWARF unit length, using the 64-bit escape when
// dwarf64 is set.
func (w *Writer) InitialLength(length uint64, dwarf64 bool) *Writer {
	if dwarf64 {
		return w.U32(0xffffffff).U64(length)
	}
	return w.U32(uint32(length))
}
