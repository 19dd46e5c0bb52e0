// Package reads provides the read-only reads store: a memory-mapped blob
// of newline-terminated reads (paired reads joined by '~', second subread
// stored reverse-complemented) and its byte-offset-to-read-id interval
// index.
package reads

import (
	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/mmapfile"
)

const (
	pairSep    = '~'
	lineSep    = '\n'
	commentSep = '\t'
)

// Blob is a memory-mapped `.reads` file: a byte array addressed by
// absolute offset.
type Blob struct {
	mm   *mmapfile.File
	data []byte
}

// OpenBlob memory-maps path.
func OpenBlob(path string) (*Blob, error) {
	mm, err := mmapfile.Open(path)
	if err != nil {
		return nil, err
	}
	return &Blob{mm: mm, data: mm.Bytes()}, nil
}

// Len returns the blob's byte length.
func (b *Blob) Len() int64 { return b.mm.Size() }

// Bytes returns the raw underlying byte slice. Callers must not retain it
// past Close.
func (b *Blob) Bytes() []byte { return b.data }

// Slice returns b.data[start:end], validating bounds.
func (b *Blob) Slice(start, end int64) ([]byte, error) {
	n := int64(len(b.data))
	if start < 0 || end < start || end > n {
		return nil, aerrors.Wrapf(aerrors.KindIO, aerrors.ErrCorruptIndex,
			"reads blob slice [%d:%d) out of range [0,%d)", start, end, n)
	}
	return b.data[start:end], nil
}

// Close unmaps the blob.
func (b *Blob) Close() error { return b.mm.Close() }
