// Package dwarfread reads DWARF debugging sections with zero-copy cursors.
//
// The library is organized into several packages with distinct responsibilities:
//
//	dwarfread/
//	├── reader/          Offset types, byte orders, the Reader cursor and derived reads
//	├── leb128/          LEB128 encoding helpers
//	├── errors/          Structured error types stamped with section offsets
//	├── section/         Loading debug sections from ELF and WebAssembly files
//	├── internal/
//	│   └── sectionbuf/  Builds section bytes for tests and tooling
//	└── cmd/dwarfdump/   Command-line inspector and interactive explorer
//
// # Quick Start
//
// Load the debug sections of a binary and walk the string table:
//
//	set, err := section.LoadFile(ctx, "prog.wasm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer set.Close()
//
//	r, err := section.Open[uint32](set, ".debug_str")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for !r.IsEmpty() {
//	    s, err := reader.ReadNullTerminatedSlice(r)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    text, _ := s.ToStringLossy()
//	    fmt.Println(text)
//	}
//
// # Offsets
//
// Every Reader is parameterized by its offset type, uint32 or uint64.
// Lengths, skips and positions use that type, and values read from the
// data that do not fit it are reported as unsupported_offset errors rather
// than truncated.
//
// # Errors
//
// Failures are *errors.Error values carrying a phase, a kind and, where the
// reader knows it, the offset within the section where decoding failed.
// Match them with errors.Is against the sentinels in the errors package.
package dwarfread
