// Package section locates debug-info sections in container files and hands
// them to the reader package.
//
// Supported containers:
//
//	WebAssembly  custom sections, via wazero's module compiler
//	ELF          section headers, via debug/elf; compressed sections are inflated
//
// Files are memory-mapped where the platform supports it, so uncompressed
// ELF sections are read without copying.
//
//	set, err := section.LoadFile(ctx, "prog.wasm")
//	if err != nil {
//	    return err
//	}
//	defer set.Close()
//
//	info, err := section.Open[uint64](set, ".debug_info")
//
// Loaders log through zap; the package logger is a no-op until SetLogger
// is called.
package section
