package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRead        Phase = "read"        // primitive and derived reads
	PhaseConvert     Phase = "convert"     // offset width conversions
	PhaseMaterialize Phase = "materialize" // slice/string views
	PhaseLoad        Phase = "load"        // section discovery
)

// Kind categorizes the error
type Kind string

const (
	KindUnexpectedEOF          Kind = "unexpected_eof"
	KindOutOfBounds            Kind = "out_of_bounds"
	KindUnsupportedOffset      Kind = "unsupported_offset"
	KindUnsupportedAddressSize Kind = "unsupported_address_size"
	KindInvalidUTF8            Kind = "invalid_utf8"
	KindOverflow               Kind = "overflow"
	KindInvalidData            Kind = "invalid_data"
	KindNotFound               Kind = "not_found"
	KindIO                     Kind = "io"
)

// Sentinels for errors.Is. They carry no phase, so they match any error of
// the same kind.
var (
	ErrUnexpectedEOF          = &Error{Kind: KindUnexpectedEOF}
	ErrOutOfBounds            = &Error{Kind: KindOutOfBounds}
	ErrUnsupportedOffset      = &Error{Kind: KindUnsupportedOffset}
	ErrUnsupportedAddressSize = &Error{Kind: KindUnsupportedAddressSize}
	ErrInvalidUTF8            = &Error{Kind: KindInvalidUTF8}
	ErrOverflow               = &Error{Kind: KindOverflow}
	ErrInvalidData            = &Error{Kind: KindInvalidData}
	ErrNotFound               = &Error{Kind: KindNotFound}
)

// Error is the structured error type returned by every fallible operation
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Section   string
	Detail    string
	Offset    uint64
	HasOffset bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Section != "" {
		b.WriteString(" in ")
		b.WriteString(e.Section)
	}

	if e.HasOffset {
		fmt.Fprintf(&b, " at offset %#x", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty Phase on the
// target matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// At returns a copy of e stamped with a section offset. An error that
// already has an offset is returned unchanged.
func (e *Error) At(offset uint64) *Error {
	if e.HasOffset {
		return e
	}
	c := *e
	c.Offset = offset
	c.HasOffset = true
	return &c
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Section sets the section name
func (b *Builder) Section(name string) *Builder {
	b.err.Section = name
	return b
}

// Offset sets the section offset where the failure was detected
func (b *Builder) Offset(off uint64) *Builder {
	b.err.Offset = off
	b.err.HasOffset = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the reader's failure conditions

// UnexpectedEOF creates an error for a read that needs more bytes than remain
func UnexpectedEOF(need, have uint64) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnexpectedEOF,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
		Value:  need,
	}
}

// ByteNotFound creates an unexpected end of input error for a failed scan
func ByteNotFound(b byte) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnexpectedEOF,
		Detail: fmt.Sprintf("byte %#02x not found before end of input", b),
		Value:  b,
	}
}

// OutOfBounds creates an error for a length exceeding the remaining bytes
func OutOfBounds(length, remaining uint64) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("length %d out of bounds (remaining %d)", length, remaining),
		Value:  length,
	}
}

// UnsupportedOffset creates an error for a value that does not fit the
// configured offset width
func UnsupportedOffset(value uint64, bits int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindUnsupportedOffset,
		Detail: fmt.Sprintf("value %#x does not fit a %d-bit offset", value, bits),
		Value:  value,
	}
}

// UnsupportedAddressSize creates an error for an address width other than 1, 2, 4 or 8
func UnsupportedAddressSize(size uint8) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnsupportedAddressSize,
		Detail: fmt.Sprintf("unsupported address size %d", size),
		Value:  size,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseMaterialize,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Overflow creates an overflow error
func Overflow(value any, targetType string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a section loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}
