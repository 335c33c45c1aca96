package section

import (
	"bytes"
	"debug/elf"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/dwarfread/errors"
	"github.com/wippyai/dwarfread/reader"
)

var elfMagic = []byte(elf.ELFMAG)

// IsELF reports whether data starts with the ELF magic number.
func IsELF(data []byte) bool {
	return bytes.HasPrefix(data, elfMagic)
}

// LoadELF maps an ELF file and collects its sections. Uncompressed
// sections alias the mapping; compressed ones are inflated into owned
// buffers. Close the set to release the mapping.
func LoadELF(path string, opts ...Option) (*Set, error) {
	m, err := MapFile(path)
	if err != nil {
		return nil, err
	}
	set, err := LoadELFBytes(m.Bytes(), opts...)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	set.closer = m.Close
	return set, nil
}

// LoadELFBytes collects the sections of an in-memory ELF image.
func LoadELFBytes(data []byte, opts ...Option) (*Set, error) {
	o := buildOptions(opts)
	log := o.logger.With(zap.String("loader", "elf"))

	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "parse ELF header")
	}
	defer f.Close()

	endian := reader.RunTimeLittle
	if f.Data == elf.ELFDATA2MSB {
		endian = reader.RunTimeBig
	}
	var addrSize uint8
	container := "elf"
	switch f.Class {
	case elf.ELFCLASS32:
		addrSize, container = 4, "elf32"
	case elf.ELFCLASS64:
		addrSize, container = 8, "elf64"
	}

	set := newSet(container, endian, addrSize)
	for _, s := range f.Sections {
		if s.Type == elf.SHT_NOBITS || !strings.HasPrefix(s.Name, o.prefix) {
			continue
		}

		if s.Flags&elf.SHF_COMPRESSED != 0 {
			inflated, err := s.Data()
			if err != nil {
				return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
					Section(s.Name).
					Cause(err).
					Detail("decompress section").
					Build()
			}
			set.add(Section{Name: s.Name, Data: inflated, Reconstructed: true}, log)
			continue
		}

		end := s.Offset + s.FileSize
		if end < s.Offset || end > uint64(len(data)) {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Section(s.Name).
				Offset(s.Offset).
				Value(s.FileSize).
				Detail("section extends past end of file (%d bytes)", len(data)).
				Build()
		}
		set.add(Section{Name: s.Name, Data: data[s.Offset:end:end]}, log)
	}

	log.Info("elf file loaded",
		zap.String("class", container),
		zap.Stringer("endian", endian),
		zap.Int("sections", set.Len()))
	return set, nil
}
