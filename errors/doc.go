// Package errors provides structured error types for the dwarfread library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Every data-driven failure carries the kind, the offending value
// where one exists, and the section offset at which it was detected when the
// reader knows it.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRead, errors.KindUnsupportedAddressSize).
//		Section(".debug_info").
//		Offset(0x1234).
//		Value(uint8(3)).
//		Detail("unsupported address size %d", 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(10, 5)
//	err := errors.UnsupportedOffset(1<<32, 32)
//
// Match kinds with the standard library:
//
//	if errors.Is(err, dwerrors.ErrUnexpectedEOF) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
