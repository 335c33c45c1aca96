package reader

import (
	"bytes"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/dwarfread/errors"
)

// EndianSlice is a zero-copy Reader over an in-memory section.
//
// The section bytes are shared by every reader split or cloned from it.
// Materialization returns borrowed views.
type EndianSlice[O Offset] struct {
	endian  Endianity
	section []byte // whole section, shared
	data    []byte // remaining view
	pos     int    // offset of data within section
}

var _ Reader[uint64] = (*EndianSlice[uint64])(nil)

// NewEndianSlice creates a reader over data in the given byte order. A nil
// endian selects little-endian.
//
// Fails with unsupported_offset if len(data) cannot be represented in O.
func NewEndianSlice[O Offset](data []byte, endian Endianity) (*EndianSlice[O], error) {
	if _, err := OffsetFromU64[O](uint64(len(data))); err != nil {
		return nil, err
	}
	if endian == nil {
		endian = LittleEndian{}
	}
	return &EndianSlice[O]{
		endian:  endian,
		section: data,
		data:    data,
	}, nil
}

func (s *EndianSlice[O]) Endian() Endianity { return s.endian }

func (s *EndianSlice[O]) Len() O { return O(len(s.data)) }

func (s *EndianSlice[O]) IsEmpty() bool { return len(s.data) == 0 }

// Position returns the offset of the reader within its section.
func (s *EndianSlice[O]) Position() uint64 { return uint64(s.pos) }

func (s *EndianSlice[O]) Empty() {
	s.data = s.data[:0]
}

func (s *EndianSlice[O]) Truncate(n O) error {
	if uint64(n) > uint64(len(s.data)) {
		return s.fail(errors.OutOfBounds(uint64(n), uint64(len(s.data))))
	}
	s.data = s.data[:int(n)]
	return nil
}

func (s *EndianSlice[O]) OffsetFrom(base Reader[O]) O {
	b := unwrapSlice(base)
	if !sameSection(s.section, b.section) ||
		s.pos < b.pos || s.pos+len(s.data) > b.pos+len(b.data) {
		panic("reader: OffsetFrom base does not contain reader")
	}
	return O(s.pos - b.pos)
}

func (s *EndianSlice[O]) Find(c byte) (O, error) {
	i := bytes.IndexByte(s.data, c)
	if i < 0 {
		return 0, s.fail(errors.ByteNotFound(c))
	}
	return O(i), nil
}

func (s *EndianSlice[O]) Skip(n O) error {
	if uint64(n) > uint64(len(s.data)) {
		return s.fail(errors.OutOfBounds(uint64(n), uint64(len(s.data))))
	}
	s.advance(int(n))
	return nil
}

func (s *EndianSlice[O]) Split(n O) (Reader[O], error) {
	head, err := s.split(n)
	if err != nil {
		return nil, err
	}
	return head, nil
}

func (s *EndianSlice[O]) split(n O) (*EndianSlice[O], error) {
	if uint64(n) > uint64(len(s.data)) {
		return nil, s.fail(errors.OutOfBounds(uint64(n), uint64(len(s.data))))
	}
	head := *s
	head.data = s.data[:int(n)]
	s.advance(int(n))
	return &head, nil
}

func (s *EndianSlice[O]) Clone() Reader[O] {
	c := *s
	return &c
}

func (s *EndianSlice[O]) ToSlice() (Bytes, error) {
	return BorrowedBytes(s.data), nil
}

func (s *EndianSlice[O]) ToString() (Text, error) {
	if !utf8.Valid(s.data) {
		return Text{}, s.fail(errors.InvalidUTF8(s.data))
	}
	return BorrowedText(borrowString(s.data)), nil
}

func (s *EndianSlice[O]) ToStringLossy() (Text, error) {
	if utf8.Valid(s.data) {
		return BorrowedText(borrowString(s.data)), nil
	}
	return OwnedText(lossyString(s.data)), nil
}

func (s *EndianSlice[O]) ReadBytes(dst []byte) error {
	b, err := s.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (s *EndianSlice[O]) ReadU8() (uint8, error) {
	b, err := s.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *EndianSlice[O]) ReadI8() (int8, error) {
	v, err := s.ReadU8()
	return int8(v), err
}

func (s *EndianSlice[O]) ReadU16() (uint16, error) {
	b, err := s.take(2)
	if err != nil {
		return 0, err
	}
	return s.endian.Uint16(b), nil
}

func (s *EndianSlice[O]) ReadI16() (int16, error) {
	v, err := s.ReadU16()
	return int16(v), err
}

func (s *EndianSlice[O]) ReadU32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return s.endian.Uint32(b), nil
}

func (s *EndianSlice[O]) ReadI32() (int32, error) {
	v, err := s.ReadU32()
	return int32(v), err
}

func (s *EndianSlice[O]) ReadU64() (uint64, error) {
	b, err := s.take(8)
	if err != nil {
		return 0, err
	}
	return s.endian.Uint64(b), nil
}

func (s *EndianSlice[O]) ReadI64() (int64, error) {
	v, err := s.ReadU64()
	return int64(v), err
}

// take consumes n bytes or nothing.
func (s *EndianSlice[O]) take(n int) ([]byte, error) {
	if len(s.data) < n {
		return nil, s.fail(errors.UnexpectedEOF(uint64(n), uint64(len(s.data))))
	}
	b := s.data[:n]
	s.advance(n)
	return b, nil
}

func (s *EndianSlice[O]) advance(n int) {
	s.data = s.data[n:]
	s.pos += n
}

func (s *EndianSlice[O]) fail(e *errors.Error) error {
	return e.At(uint64(s.pos))
}

func unwrapSlice[O Offset](r Reader[O]) *EndianSlice[O] {
	switch b := r.(type) {
	case *EndianSlice[O]:
		return b
	case *OwnedSlice[O]:
		return &b.EndianSlice
	}
	panic("reader: OffsetFrom base is not a slice reader")
}

func sameSection(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// borrowString aliases b as a string. Section bytes are immutable for the
// lifetime of every reader over them.
func borrowString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func lossyString(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte(string(utf8.RuneError))))
	}
	return string(out)
}
