//go:build !unix

package section

import (
	"os"

	"github.com/wippyai/dwarfread/errors"
)

// Mapping holds a file's bytes. Platforms without mmap read the whole file.
type Mapping struct {
	data []byte
}

// MapFile reads path into memory.
func MapFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	return &Mapping{data: data}, nil
}

// Bytes returns the file bytes.
func (m *Mapping) Bytes() []byte { return m.data }

// Close releases the bytes.
func (m *Mapping) Close() error {
	m.data = nil
	return nil
}
