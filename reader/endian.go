package reader

import "encoding/binary"

// Endianity interprets fixed-size byte groups as unsigned integers in a
// specific byte order.
type Endianity interface {
	binary.ByteOrder
	IsBigEndian() bool
}

// LittleEndian is the little-endian byte order.
type LittleEndian struct{}

func (LittleEndian) Uint16(b []byte) uint16       { return binary.LittleEndian.Uint16(b) }
func (LittleEndian) Uint32(b []byte) uint32       { return binary.LittleEndian.Uint32(b) }
func (LittleEndian) Uint64(b []byte) uint64       { return binary.LittleEndian.Uint64(b) }
func (LittleEndian) PutUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func (LittleEndian) PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func (LittleEndian) PutUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func (LittleEndian) String() string               { return "LittleEndian" }
func (LittleEndian) IsBigEndian() bool            { return false }

// BigEndian is the big-endian byte order.
type BigEndian struct{}

func (BigEndian) Uint16(b []byte) uint16       { return binary.BigEndian.Uint16(b) }
func (BigEndian) Uint32(b []byte) uint32       { return binary.BigEndian.Uint32(b) }
func (BigEndian) Uint64(b []byte) uint64       { return binary.BigEndian.Uint64(b) }
func (BigEndian) PutUint16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }
func (BigEndian) PutUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func (BigEndian) PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }
func (BigEndian) String() string               { return "BigEndian" }
func (BigEndian) IsBigEndian() bool            { return true }

// RunTimeEndian is a byte order chosen at runtime, for example from an
// object file header.
type RunTimeEndian uint8

const (
	RunTimeLittle RunTimeEndian = iota
	RunTimeBig
)

// NativeEndian returns the byte order of the host.
func NativeEndian() RunTimeEndian {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return RunTimeLittle
	}
	return RunTimeBig
}

func (e RunTimeEndian) order() binary.ByteOrder {
	if e == RunTimeBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e RunTimeEndian) Uint16(b []byte) uint16       { return e.order().Uint16(b) }
func (e RunTimeEndian) Uint32(b []byte) uint32       { return e.order().Uint32(b) }
func (e RunTimeEndian) Uint64(b []byte) uint64       { return e.order().Uint64(b) }
func (e RunTimeEndian) PutUint16(b []byte, v uint16) { e.order().PutUint16(b, v) }
func (e RunTimeEndian) PutUint32(b []byte, v uint32) { e.order().PutUint32(b, v) }
func (e RunTimeEndian) PutUint64(b []byte, v uint64) { e.order().PutUint64(b, v) }
func (e RunTimeEndian) IsBigEndian() bool            { return e == RunTimeBig }

func (e RunTimeEndian) String() string {
	if e == RunTimeBig {
		return "RunTimeBig"
	}
	return "RunTimeLittle"
}

// ParseEndian maps "little"/"le" and "big"/"be" to a RunTimeEndian.
// "native" selects the host order.
func ParseEndian(s string) (RunTimeEndian, bool) {
	switch s {
	case "little", "le", "":
		return RunTimeLittle, true
	case "big", "be":
		return RunTimeBig, true
	case "native":
		return NativeEndian(), true
	}
	return 0, false
}
