package section_test

import (
	"bytes"
	"compress/zlib"
	"context"
	"debug/elf"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	dwerrors "github.com/wippyai/dwarfread/errors"
	"github.com/wippyai/dwarfread/leb128"
	"github.com/wippyai/dwarfread/reader"
	"github.com/wippyai/dwarfread/section"
)

// buildWasm assembles a module containing only custom sections.
func buildWasm(sections map[string][]byte, order []string) []byte {
	out := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	for _, name := range order {
		var payload []byte
		payload = leb128.AppendUnsigned(payload, uint64(len(name)))
		payload = append(payload, name...)
		payload = append(payload, sections[name]...)

		out = append(out, 0x00)
		out = leb128.AppendUnsigned(out, uint64(len(payload)))
		out = append(out, payload...)
	}
	return out
}

type elfSection struct {
	name       string
	data       []byte
	typ        elf.SectionType
	compressed bool
}

// buildELF assembles a relocatable ELF64 image with the given sections.
func buildELF(t *testing.T, order binary.ByteOrder, secs []elfSection) []byte {
	t.Helper()

	shstrtab := []byte{0}
	nameOff := make([]uint32, len(secs))
	for i, s := range secs {
		nameOff[i] = uint32(len(shstrtab))
		shstrtab = append(append(shstrtab, s.name...), 0)
	}
	shstrName := uint32(len(shstrtab))
	shstrtab = append(append(shstrtab, ".shstrtab"...), 0)

	var body bytes.Buffer
	body.Write(make([]byte, 64))

	headers := []elf.Section64{{}}
	for i, s := range secs {
		payload := s.data
		flags := uint64(0)
		if s.compressed {
			var z bytes.Buffer
			if err := binary.Write(&z, order, elf.Chdr64{Type: uint32(elf.COMPRESS_ZLIB), Size: uint64(len(s.data)), Addralign: 1}); err != nil {
				t.Fatal(err)
			}
			zw := zlib.NewWriter(&z)
			if _, err := zw.Write(s.data); err != nil {
				t.Fatal(err)
			}
			if err := zw.Close(); err != nil {
				t.Fatal(err)
			}
			payload = z.Bytes()
			flags |= uint64(elf.SHF_COMPRESSED)
		}
		headers = append(headers, elf.Section64{
			Name:      nameOff[i],
			Type:      uint32(s.typ),
			Flags:     flags,
			Off:       uint64(body.Len()),
			Size:      uint64(len(payload)),
			Addralign: 1,
		})
		body.Write(payload)
	}
	headers = append(headers, elf.Section64{
		Name:      shstrName,
		Type:      uint32(elf.SHT_STRTAB),
		Off:       uint64(body.Len()),
		Size:      uint64(len(shstrtab)),
		Addralign: 1,
	})
	body.Write(shstrtab)
	for body.Len()%8 != 0 {
		body.WriteByte(0)
	}

	shoff := body.Len()
	for _, h := range headers {
		if err := binary.Write(&body, order, h); err != nil {
			t.Fatal(err)
		}
	}

	data := elf.ELFDATA2LSB
	if order == binary.BigEndian {
		data = elf.ELFDATA2MSB
	}
	hdr := elf.Header64{
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     uint64(shoff),
		Ehsize:    64,
		Shentsize: 64,
		Shnum:     uint16(len(headers)),
		Shstrndx:  uint16(len(headers) - 1),
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(data)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var h bytes.Buffer
	if err := binary.Write(&h, order, hdr); err != nil {
		t.Fatal(err)
	}
	out := body.Bytes()
	copy(out, h.Bytes())
	return out
}

func readAll[O reader.Offset](t *testing.T, r reader.Reader[O]) []byte {
	t.Helper()
	b, err := r.ToSlice()
	if err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestLoadWasm(t *testing.T) {
	ctx := context.Background()
	module := buildWasm(map[string][]byte{
		".debug_str":  []byte("main\x00int\x00"),
		".debug_info": {0x01, 0x02},
		"producers":   {0x00},
	}, []string{".debug_str", "producers", ".debug_info"})

	core, logs := observer.New(zap.DebugLevel)
	set, err := section.LoadWasm(ctx, module, section.WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("LoadWasm: %v", err)
	}
	defer set.Close()

	if diff := cmp.Diff([]string{".debug_info", ".debug_str"}, set.Names()); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	if set.Endian != reader.RunTimeLittle || set.AddressSize != 4 || set.Container != "wasm" {
		t.Errorf("set metadata: %v %d %s", set.Endian, set.AddressSize, set.Container)
	}
	if logs.FilterMessage("section loaded").Len() != 2 {
		t.Errorf("expected 2 section loaded logs, got %d", logs.FilterMessage("section loaded").Len())
	}

	r, err := section.Open[uint32](set, ".debug_str")
	if err != nil {
		t.Fatal(err)
	}
	s, err := reader.ReadNullTerminatedSlice(r)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(readAll(t, s)); got != "main" {
		t.Errorf("first string: %q", got)
	}
}

func TestLoadWasmAllSections(t *testing.T) {
	module := buildWasm(map[string][]byte{"producers": {0x00}}, []string{"producers"})
	set, err := section.LoadWasm(context.Background(), module, section.WithPrefix(""))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := set.Section("producers"); !ok {
		t.Error("empty prefix should keep every custom section")
	}
}

func TestLoadWasmInvalid(t *testing.T) {
	_, err := section.LoadWasm(context.Background(), []byte{0x00, 'a', 's', 'm', 0x02, 0, 0, 0})
	var de *dwerrors.Error
	if !errors.As(err, &de) || de.Phase != dwerrors.PhaseLoad {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestLoadELFBytes(t *testing.T) {
	line := []byte("line program bytes")
	img := buildELF(t, binary.LittleEndian, []elfSection{
		{name: ".text", data: []byte{0x90}, typ: elf.SHT_PROGBITS},
		{name: ".debug_str", data: []byte("a\x00bc\x00"), typ: elf.SHT_PROGBITS},
		{name: ".debug_line", data: line, typ: elf.SHT_PROGBITS, compressed: true},
	})

	set, err := section.LoadELFBytes(img)
	if err != nil {
		t.Fatalf("LoadELFBytes: %v", err)
	}
	if diff := cmp.Diff([]string{".debug_line", ".debug_str"}, set.Names()); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	if set.AddressSize != 8 || set.Container != "elf64" || set.Endian != reader.RunTimeLittle {
		t.Errorf("set metadata: %d %s %v", set.AddressSize, set.Container, set.Endian)
	}

	str, ok := set.Section(".debug_str")
	if !ok || str.Reconstructed {
		t.Fatalf(".debug_str: ok=%v reconstructed=%v", ok, str.Reconstructed)
	}
	r, err := section.Open[uint64](set, ".debug_str")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.ToSlice()
	if b.IsOwned() {
		t.Error("uncompressed section should be borrowed")
	}

	lr, err := section.Open[uint32](set, ".debug_line")
	if err != nil {
		t.Fatal(err)
	}
	lb, _ := lr.ToSlice()
	if !lb.IsOwned() {
		t.Error("compressed section should be owned")
	}
	if diff := cmp.Diff(line, lb.Bytes()); diff != "" {
		t.Errorf(".debug_line (-want +got):\n%s", diff)
	}
}

func TestLoadELFBigEndian(t *testing.T) {
	img := buildELF(t, binary.BigEndian, []elfSection{
		{name: ".debug_addr", data: []byte{0x00, 0x00, 0x12, 0x34}, typ: elf.SHT_PROGBITS},
	})
	set, err := section.LoadELFBytes(img)
	if err != nil {
		t.Fatal(err)
	}
	if set.Endian != reader.RunTimeBig {
		t.Fatalf("endian: %v", set.Endian)
	}
	r, err := section.Open[uint32](set, ".debug_addr")
	if err != nil {
		t.Fatal(err)
	}
	if v, err := reader.ReadAddress(r, 4); err != nil || v != 0x1234 {
		t.Errorf("ReadAddress: %#x, %v", v, err)
	}
}

func TestOpenMissingSection(t *testing.T) {
	set, err := section.LoadELFBytes(buildELF(t, binary.LittleEndian, nil))
	if err != nil {
		t.Fatal(err)
	}
	_, err = section.Open[uint64](set, ".debug_info")
	if !errors.Is(err, dwerrors.ErrNotFound) {
		t.Errorf("got %v, want not found", err)
	}
	var de *dwerrors.Error
	if !errors.As(err, &de) || de.Section != ".debug_info" || de.Phase != dwerrors.PhaseLoad {
		t.Errorf("error fields: %+v", de)
	}
}

func TestLoadELFSectionPastEnd(t *testing.T) {
	img := buildELF(t, binary.LittleEndian, []elfSection{
		{name: ".debug_str", data: []byte("a\x00"), typ: elf.SHT_PROGBITS},
	})
	// Grow the first real section header's size past the end of the image.
	shoff := binary.LittleEndian.Uint64(img[40:])
	binary.LittleEndian.PutUint64(img[shoff+64+32:], uint64(len(img))*2)

	_, err := section.LoadELFBytes(img)
	if !errors.Is(err, dwerrors.ErrInvalidData) {
		t.Fatalf("got %v, want invalid data", err)
	}
	var de *dwerrors.Error
	if !errors.As(err, &de) {
		t.Fatalf("not a structured error: %v", err)
	}
	if de.Section != ".debug_str" || !de.HasOffset || de.Value != uint64(len(img))*2 {
		t.Errorf("error fields: section=%q hasOffset=%v value=%v", de.Section, de.HasOffset, de.Value)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	elfPath := filepath.Join(dir, "prog.o")
	wasmPath := filepath.Join(dir, "prog.wasm")
	junkPath := filepath.Join(dir, "junk")

	img := buildELF(t, binary.LittleEndian, []elfSection{
		{name: ".debug_str", data: []byte("x\x00"), typ: elf.SHT_PROGBITS},
	})
	mod := buildWasm(map[string][]byte{".debug_str": []byte("y\x00")}, []string{".debug_str"})
	for path, data := range map[string][]byte{elfPath: img, wasmPath: mod, junkPath: []byte("junk")} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for path, want := range map[string]string{elfPath: "x\x00", wasmPath: "y\x00"} {
		set, err := section.LoadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", path, err)
		}
		r, err := section.Open[uint64](set, ".debug_str")
		if err != nil {
			t.Fatal(err)
		}
		if got := string(readAll(t, r)); got != want {
			t.Errorf("%s: got %q, want %q", path, got, want)
		}
		if err := set.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
		if err := set.Close(); err != nil {
			t.Errorf("second Close: %v", err)
		}
	}

	if _, err := section.LoadFile(context.Background(), junkPath); err == nil {
		t.Error("expected error for unknown container")
	}
	if _, err := section.LoadFile(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSniffing(t *testing.T) {
	if !section.IsWasm([]byte("\x00asm\x01\x00\x00\x00")) || section.IsWasm([]byte("\x7fELF")) {
		t.Error("IsWasm mismatch")
	}
	if !section.IsELF([]byte("\x7fELF\x02")) || section.IsELF([]byte("\x00asm")) {
		t.Error("IsELF mismatch")
	}
}

func TestPackageLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	section.SetLogger(zap.New(core))
	defer section.SetLogger(nil)

	if _, err := section.LoadELFBytes(buildELF(t, binary.LittleEndian, nil)); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("elf file loaded").Len() != 1 {
		t.Error("package logger not used")
	}
}
