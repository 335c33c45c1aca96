package section

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/dwarfread/errors"
	"github.com/wippyai/dwarfread/reader"
)

// DefaultPrefix selects DWARF sections by name.
const DefaultPrefix = ".debug_"

// Section is the raw contents of one named section.
type Section struct {
	Name string
	Data []byte
	// Reconstructed is set when Data was decompressed or otherwise rebuilt
	// rather than borrowed from the container.
	Reconstructed bool
}

// Set is the collection of sections found in one container.
type Set struct {
	sections map[string]Section
	closer   func() error
	// Endian is the byte order of the container.
	Endian reader.RunTimeEndian
	// AddressSize is the target address width in bytes, or zero if the
	// container does not say.
	AddressSize uint8
	// Container names the file format, e.g. "wasm" or "elf64".
	Container string
}

func newSet(container string, endian reader.RunTimeEndian, addrSize uint8) *Set {
	return &Set{
		sections:    make(map[string]Section),
		Endian:      endian,
		AddressSize: addrSize,
		Container:   container,
	}
}

func (s *Set) add(sec Section, log *zap.Logger) {
	s.sections[sec.Name] = sec
	log.Debug("section loaded",
		zap.String("container", s.Container),
		zap.String("name", sec.Name),
		zap.Int("size", len(sec.Data)),
		zap.Bool("reconstructed", sec.Reconstructed))
}

// Names returns the section names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.sections))
	for name := range s.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of sections.
func (s *Set) Len() int { return len(s.sections) }

// Section returns the named section.
func (s *Set) Section(name string) (Section, bool) {
	sec, ok := s.sections[name]
	return sec, ok
}

// Close releases any mapping backing the sections. Readers over the
// sections must not be used afterwards.
func (s *Set) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer()
	s.closer = nil
	return err
}

// Open returns a reader over the named section in the set's byte order.
// Reconstructed sections get an owned reader, others a zero-copy one.
func Open[O reader.Offset](s *Set, name string) (reader.Reader[O], error) {
	sec, ok := s.sections[name]
	if !ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Section(name).
			Detail("section not present in %s", s.Container).
			Build()
	}
	if sec.Reconstructed {
		r, err := reader.NewOwnedSlice[O](sec.Data, s.Endian)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	r, err := reader.NewEndianSlice[O](sec.Data, s.Endian)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Option configures a loader.
type Option func(*options)

type options struct {
	logger *zap.Logger
	prefix string
}

// WithLogger sets the logger for one load, overriding the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPrefix selects sections whose names start with prefix. An empty
// prefix keeps every section.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func buildOptions(opts []Option) options {
	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}
