package section

import (
	"bytes"
	"context"
	"strings"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/dwarfread/errors"
	"github.com/wippyai/dwarfread/reader"
)

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// IsWasm reports whether data starts with the WebAssembly magic number.
func IsWasm(data []byte) bool {
	return bytes.HasPrefix(data, wasmMagic)
}

// LoadWasm compiles a WebAssembly module and collects its custom sections.
// DWARF for WebAssembly lives in custom sections named like ELF sections,
// always little-endian. The module is validated but never instantiated.
func LoadWasm(ctx context.Context, data []byte, opts ...Option) (*Set, error) {
	o := buildOptions(opts)
	log := o.logger.With(zap.String("loader", "wasm"))

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCustomSections(true))
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "compile wasm module")
	}
	defer compiled.Close(ctx)

	// wasm32 is the only address space with DWARF producers today.
	set := newSet("wasm", reader.RunTimeLittle, 4)
	for _, cs := range compiled.CustomSections() {
		name := cs.Name()
		if !strings.HasPrefix(name, o.prefix) {
			log.Debug("skipping custom section", zap.String("name", name))
			continue
		}
		set.add(Section{Name: name, Data: cs.Data()}, log)
	}

	log.Info("wasm module loaded", zap.Int("sections", set.Len()))
	return set, nil
}
