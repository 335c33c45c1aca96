package section

import (
	"context"

	"github.com/wippyai/dwarfread/errors"
)

// LoadFile maps path and loads its sections, detecting the container from
// the magic number. The mapping stays open until the set is closed.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Set, error) {
	m, err := MapFile(path)
	if err != nil {
		return nil, err
	}

	var set *Set
	switch data := m.Bytes(); {
	case IsELF(data):
		set, err = LoadELFBytes(data, opts...)
	case IsWasm(data):
		set, err = LoadWasm(ctx, data, opts...)
	default:
		err = errors.InvalidData(errors.PhaseLoad, "unrecognized container format in "+path)
	}
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	set.closer = m.Close
	return set, nil
}
