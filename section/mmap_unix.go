//go:build unix

package section

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/wippyai/dwarfread/errors"
)

// Mapping is a read-only view of a file.
type Mapping struct {
	data []byte
}

// MapFile maps path read-only into memory. The bytes stay valid until
// Close.
func MapFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open "+path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Load("stat "+path, err)
	}
	if st.Size() == 0 {
		return &Mapping{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Load("mmap "+path, err)
	}
	Logger().Debug("mapped file", zap.String("path", path), zap.Int64("size", st.Size()))
	return &Mapping{data: data}, nil
}

// Bytes returns the mapped bytes. They must not be modified.
func (m *Mapping) Bytes() []byte { return m.data }

// Close unmaps the file.
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return errors.Load("munmap", err)
	}
	return nil
}
