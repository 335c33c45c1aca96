package sectionbuf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/dwarfread/reader"
)

func TestWriterLittleEndian(t *testing.T) {
	w := NewWriter(nil).
		U8(0x01).
		U16(0x0203).
		U32(0x04050607).
		U64(0x08090a0b0c0d0e0f)

	require.Equal(t, []byte{
		0x01,
		0x03, 0x02,
		0x07, 0x06, 0x05, 0x04,
		0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08,
	}, w.Bytes())
	require.Equal(t, 15, w.Len())
}

func TestWriterBigEndian(t *testing.T) {
	w := NewWriter(binary.BigEndian).U16(0x0102).U32(0x03040506)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, w.Bytes())
}

func TestWriterAddress(t *testing.T) {
	w := NewWriter(nil).
		Address(0x11, 1).
		Address(0x2233, 2).
		Address(0x445566, 3)
	require.Equal(t, []byte{0x11, 0x33, 0x22, 0x66, 0x55, 0x44}, w.Bytes())
}

func TestWriterReadBack(t *testing.T) {
	w := NewWriter(binary.BigEndian).
		InitialLength(0x20, false).
		InitialLength(0x1_0000_0000, true).
		ULEB128(624485).
		SLEB128(-123456).
		Address(0xdeadbeef, 4).
		CString("main").
		Raw([]byte{0xaa})

	r, err := reader.NewEndianSlice[uint64](w.Bytes(), reader.BigEndian{})
	require.NoError(t, err)

	l32, f32, err := reader.ReadInitialLength[uint64](r)
	require.NoError(t, err)
	require.Equal(t, uint64(0x20), l32)
	require.Equal(t, reader.Dwarf32, f32)

	l64, f64, err := reader.ReadInitialLength[uint64](r)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1_0000_0000), l64)
	require.Equal(t, reader.Dwarf64, f64)

	u, err := reader.ReadULEB128(r)
	require.NoError(t, err)
	require.Equal(t, uint64(624485), u)

	s, err := reader.ReadSLEB128(r)
	require.NoError(t, err)
	require.Equal(t, int64(-123456), s)

	addr, err := reader.ReadAddress(r, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xdeadbeef), addr)

	str, err := reader.ReadNullTerminatedSlice[uint64](r)
	require.NoError(t, err)
	text, err := str.ToString()
	require.NoError(t, err)
	require.Equal(t, "main", text.String())

	last, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, byte(0xaa), last)
	require.True(t, r.IsEmpty())
}

func TestWriterLEB128(t *testing.T) {
	w := NewWriter(nil).
		ULEB128(0).
		ULEB128(624485).
		ULEB128(^uint64(0)).
		SLEB128(-1).
		SLEB128(-123456)

	require.Equal(t, []byte{
		0x00,
		0xe5, 0x8e, 0x26,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01,
		0x7f,
		0xc0, 0xbb, 0x78,
	}, w.Bytes())
}
