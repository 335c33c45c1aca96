package reader

import (
	"unicode/utf8"

	"github.com/wippyai/dwarfread/errors"
)

// OwnedSlice is a Reader over a private copy of section bytes, for sections
// that had to be reconstructed (decompressed, relocated) before reading.
// Materialization always returns owned copies, so results never alias the
// reader's storage.
type OwnedSlice[O Offset] struct {
	EndianSlice[O]
}

var _ Reader[uint32] = (*OwnedSlice[uint32])(nil)

// NewOwnedSlice copies data and creates a reader over the copy.
func NewOwnedSlice[O Offset](data []byte, endian Endianity) (*OwnedSlice[O], error) {
	buf := make([]byte, len(data))
	copy(buf, data)
	s, err := NewEndianSlice[O](buf, endian)
	if err != nil {
		return nil, err
	}
	return &OwnedSlice[O]{EndianSlice: *s}, nil
}

func (o *OwnedSlice[O]) Split(n O) (Reader[O], error) {
	head, err := o.split(n)
	if err != nil {
		return nil, err
	}
	return &OwnedSlice[O]{EndianSlice: *head}, nil
}

func (o *OwnedSlice[O]) Clone() Reader[O] {
	c := *o
	return &c
}

func (o *OwnedSlice[O]) ToSlice() (Bytes, error) {
	buf := make([]byte, len(o.data))
	copy(buf, o.data)
	return OwnedBytes(buf), nil
}

func (o *OwnedSlice[O]) ToString() (Text, error) {
	if !utf8.Valid(o.data) {
		return Text{}, o.fail(errors.InvalidUTF8(o.data))
	}
	return OwnedText(string(o.data)), nil
}

func (o *OwnedSlice[O]) ToStringLossy() (Text, error) {
	return OwnedText(lossyString(o.data)), nil
}
