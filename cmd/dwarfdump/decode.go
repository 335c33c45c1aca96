package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/dwarfread/reader"
)

// valueKinds lists what `read` and the explorer can decode.
var valueKinds = []string{
	"u8", "i8", "u16", "i16", "u32", "i32", "u64", "i64",
	"uleb", "sleb", "addr", "word", "offset", "initial-length", "cstr",
}

type decodeParams struct {
	format      reader.Format
	addressSize uint8
}

// decodeValue reads one value of the given kind and renders it.
func decodeValue[O reader.Offset](r reader.Reader[O], kind string, p decodeParams) (string, error) {
	switch kind {
	case "u8":
		v, err := r.ReadU8()
		return fmt.Sprintf("%d (%#02x)", v, v), err
	case "i8":
		v, err := r.ReadI8()
		return fmt.Sprint(v), err
	case "u16":
		v, err := r.ReadU16()
		return fmt.Sprintf("%d (%#04x)", v, v), err
	case "i16":
		v, err := r.ReadI16()
		return fmt.Sprint(v), err
	case "u32":
		v, err := r.ReadU32()
		return fmt.Sprintf("%d (%#08x)", v, v), err
	case "i32":
		v, err := r.ReadI32()
		return fmt.Sprint(v), err
	case "u64":
		v, err := r.ReadU64()
		return fmt.Sprintf("%d (%#016x)", v, v), err
	case "i64":
		v, err := r.ReadI64()
		return fmt.Sprint(v), err
	case "uleb":
		v, err := reader.ReadULEB128(r)
		return fmt.Sprintf("%d (%#x)", v, v), err
	case "sleb":
		v, err := reader.ReadSLEB128(r)
		return fmt.Sprint(v), err
	case "addr":
		v, err := reader.ReadAddress(r, p.addressSize)
		return fmt.Sprintf("%#x", v), err
	case "word":
		v, err := reader.ReadWord(r, p.format)
		return fmt.Sprintf("%#x", v), err
	case "offset":
		v, err := reader.ReadOffset(r, p.format)
		return fmt.Sprintf("%#x", uint64(v)), err
	case "initial-length":
		v, f, err := reader.ReadInitialLength(r)
		return fmt.Sprintf("%#x (%s)", uint64(v), f), err
	case "cstr":
		s, err := reader.ReadNullTerminatedSlice(r)
		if err != nil {
			return "", err
		}
		t, err := s.ToStringLossy()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%q", t.String()), nil
	}
	return "", fmt.Errorf("unknown value kind %q (want one of %s)", kind, strings.Join(valueKinds, ", "))
}

// hexPreview renders up to n upcoming bytes without consuming them.
func hexPreview[O reader.Offset](r reader.Reader[O], n int) string {
	b, err := r.ToSlice()
	if err != nil {
		return ""
	}
	data := b.Bytes()
	if len(data) > n {
		data = data[:n]
	}
	var sb strings.Builder
	for i, c := range data {
		if i > 0 {
			if i%16 == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}

// stringEntry is one null-terminated string and its section offset.
type stringEntry struct {
	text   string
	offset uint64
}

// walkStrings splits a string table into its entries. A trailing
// unterminated fragment is reported as an error after the complete
// entries.
func walkStrings[O reader.Offset](r reader.Reader[O]) ([]stringEntry, error) {
	base := r.Clone()
	var out []stringEntry
	for !r.IsEmpty() {
		off := r.OffsetFrom(base)
		s, err := reader.ReadNullTerminatedSlice(r)
		if err != nil {
			return out, err
		}
		t, err := s.ToStringLossy()
		if err != nil {
			return out, err
		}
		out = append(out, stringEntry{offset: uint64(off), text: t.String()})
	}
	return out, nil
}
