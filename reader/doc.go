// Package reader turns raw debug-info section bytes into primitive values.
//
// The package has three layers:
//
//	Offset      integer width for positions and lengths (uint32, uint64, uint)
//	Reader[O]   the cursor contract every storage backend implements
//	Read*       derived algorithms written only against the contract
//
// # Readers
//
// A Reader is a view over the remaining bytes of a section. Reads consume
// from the front; Split carves the next n bytes into a new reader without
// copying; Clone duplicates the view. Two backends are provided:
//
//	r, err := reader.NewEndianSlice[uint64](data, reader.LittleEndian{})
//	r, err := reader.NewOwnedSlice[uint32](decompressed, reader.RunTimeBig)
//
// EndianSlice borrows the caller's bytes; OwnedSlice keeps a private copy
// and hands out owned copies on materialization.
//
// # Derived reads
//
//	name, err := reader.ReadNullTerminatedSlice(r)
//	code, err := reader.ReadULEB128(r)
//	addr, err := reader.ReadAddress(r, addrSize)
//	length, format, err := reader.ReadInitialLength(r)
//	off, err := reader.ReadOffset(r, format)
//
// # Errors
//
// Every failure is an *errors.Error from the dwarfread errors package,
// stamped with the section offset where it was detected. A failed read
// consumes nothing.
//
// # Concurrency
//
// A reader is not safe for concurrent use, but readers split or cloned
// from one another share only immutable bytes and may be used from
// different goroutines.
package reader
