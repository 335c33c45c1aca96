package reader

// ByteReader reads a single byte. LEB128 decoding needs nothing more.
type ByteReader interface {
	ReadU8() (uint8, error)
}

// FixedReader reads unsigned fixed-width integers in the reader's byte order.
type FixedReader interface {
	ByteReader
	ReadU16() (uint16, error)
	ReadU32() (uint32, error)
	ReadU64() (uint64, error)
}

// Positioner is implemented by readers that know their absolute offset
// within the section. Derived reads use it to stamp errors.
type Positioner interface {
	Position() uint64
}

// Reader reads data from a debug-info section.
//
// All read operations advance the reader unless documented otherwise. A
// failed operation consumes nothing; the reader remains usable.
//
// Readers are views: Clone and Split never copy section bytes, and the
// underlying bytes must stay valid and unmodified while any reader derived
// from them exists.
type Reader[O Offset] interface {
	FixedReader

	// Endian returns the byte order used for multi-byte reads.
	Endian() Endianity

	// Len returns the number of bytes remaining.
	Len() O

	// IsEmpty reports whether no bytes remain.
	IsEmpty() bool

	// Empty sets the number of bytes remaining to zero.
	Empty()

	// Truncate sets the number of bytes remaining to n.
	Truncate(n O) error

	// OffsetFrom returns the offset of this reader's data relative to the
	// start of base's data.
	//
	// Panics if base does not contain this reader's data.
	OffsetFrom(base Reader[O]) O

	// Find returns the index of the first occurrence of b without
	// advancing the reader.
	Find(b byte) (O, error)

	// Skip discards n bytes.
	Skip(n O) error

	// Split returns a reader over the next n bytes and advances this
	// reader past them.
	Split(n O) (Reader[O], error)

	// Clone returns an independent reader over the same remaining bytes.
	Clone() Reader[O]

	// ToSlice returns the remaining bytes without advancing. The view is
	// borrowed where the backend allows it.
	ToSlice() (Bytes, error)

	// ToString returns the remaining bytes as text without advancing.
	// Fails if the bytes are not valid UTF-8.
	ToString() (Text, error)

	// ToStringLossy is ToString with invalid sequences replaced by U+FFFD.
	ToStringLossy() (Text, error)

	// ReadBytes fills dst with the next len(dst) bytes.
	ReadBytes(dst []byte) error

	ReadI8() (int8, error)
	ReadI16() (int16, error)
	ReadI32() (int32, error)
	ReadI64() (int64, error)
}

// Bytes is a materialized byte range that is either borrowed from the
// section or an owned copy. The backend decides which.
type Bytes struct {
	b     []byte
	owned bool
}

// BorrowedBytes wraps section bytes without copying.
func BorrowedBytes(b []byte) Bytes {
	return Bytes{b: b}
}

// OwnedBytes wraps a private copy.
func OwnedBytes(b []byte) Bytes {
	return Bytes{b: b, owned: true}
}

// Bytes returns the data. Borrowed data must not be modified.
func (b Bytes) Bytes() []byte { return b.b }

// Len returns the number of bytes.
func (b Bytes) Len() int { return len(b.b) }

// IsOwned reports whether the data is a private copy.
func (b Bytes) IsOwned() bool { return b.owned }

// Text is the string counterpart of Bytes.
type Text struct {
	s     string
	owned bool
}

// BorrowedText wraps a string that aliases section bytes.
func BorrowedText(s string) Text {
	return Text{s: s}
}

// OwnedText wraps a string backed by its own memory.
func OwnedText(s string) Text {
	return Text{s: s, owned: true}
}

func (t Text) String() string { return t.s }

// IsOwned reports whether the string is backed by its own memory.
func (t Text) IsOwned() bool { return t.owned }
