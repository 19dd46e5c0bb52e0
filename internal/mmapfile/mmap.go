// Package mmapfile provides scoped read-only memory-mapping of index files,
// exposing each mapping as an immutable byte slice and typed views over it
// ([]uint32 / []uint64) with explicit length checks.
//
// The rest of this module never touches an *os.File or raw pointer for the
// on-disk arrays directly; it only ever holds a *mmapfile.File and asks for
// a typed view, so acquisition and release stay centralized the way the
// twobit.Reader pattern centralizes its file lifecycle.
package mmapfile

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/shenwei356/aindexgo/internal/aerrors"
)

// File is a read-only memory mapping of a file, released exactly once via
// Close on every exit path (including panics, if the caller defers Close
// immediately after a successful Open).
type File struct {
	path string
	f    *os.File
	data []byte
	size int64
}

// Open memory-maps path read-only, private (copy-on-write), for the
// lifetime of the returned *File.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", path)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "stat %s", path)
	}
	size := st.Size()

	if size == 0 {
		// mmap of a zero-length file fails on most platforms; represent it
		// as a valid, empty mapping instead.
		f.Close()
		return &File{path: path, size: 0}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "mmap %s", path)
	}

	return &File{path: path, f: f, data: data, size: size}, nil
}

// Close unmaps the region and closes the underlying file handle. It is safe
// to call on a zero-length mapping.
func (m *File) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.f = nil
	}
	if err != nil {
		return errors.Wrapf(err, "closing mapping of %s", m.path)
	}
	return nil
}

// Size returns the mapped byte length.
func (m *File) Size() int64 { return m.size }

// Bytes returns the raw mapped region. Callers must not retain it past
// Close.
func (m *File) Bytes() []byte { return m.data }

// Uint32View reinterprets the mapping in place as a slice of little-endian
// uint32s, verifying the byte length is an exact multiple of 4. The
// returned slice aliases the mapping directly (no copy): on the
// little-endian architectures this module targets, a uint32's in-memory
// layout already is its little-endian encoding, so the reinterpretation is
// just a pointer-and-length cast, the same trick twobit.Reader uses to hand
// out packed sequence words without copying them out of its buffer.
func (m *File) Uint32View() ([]uint32, error) {
	if len(m.data)%4 != 0 {
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"%s: length %d is not a multiple of 4", m.path, len(m.data))
	}
	if len(m.data) == 0 {
		return nil, nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&m.data[0])), len(m.data)/4), nil
}

// Uint64View is Uint32View's uint64 counterpart, aliasing the mapping
// eight bytes at a time.
func (m *File) Uint64View() ([]uint64, error) {
	if len(m.data)%8 != 0 {
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"%s: length %d is not a multiple of 8", m.path, len(m.data))
	}
	if len(m.data) == 0 {
		return nil, nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&m.data[0])), len(m.data)/8), nil
}
