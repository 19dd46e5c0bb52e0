// Package hashmap bundles a minimal perfect hash function with a checker
// array (to reject foreign queries) and a term-frequency array, plus the
// k=13 direct-indexing specialization.
//
// Both variants satisfy the same Index interface — tagged variants over a
// common contract rather than a runtime flag, following LexicHash's own
// Index/tree.Tree split (one concrete implementation per concern, selected
// once at load time).
package hashmap

import (
	"sync/atomic"

	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/mmapfile"
	"github.com/shenwei356/aindexgo/internal/mphf"
)

// Index is the read/build contract shared by MphfIndex (general k) and
// DirectIndex (k=13). GetID/GetTF take an already-canonicalized packed
// k-mer; canonicalization is the caller's job (see Lookup below), because
// the wrapper itself has no opinion about which of the two strands a raw
// query came from.
type Index interface {
	K() int
	N() uint64
	GetID(canonical uint64) (id uint64, ok bool)
	GetTF(canonical uint64) uint32
	KmerAt(id uint64) (uint64, bool)
	// AddTF adds delta to id's counter and reports whether the counter
	// wrapped past uint32 max, so a caller doing a long accumulation pass
	// can detect saturation instead of silently keeping a wrapped count.
	AddTF(id uint64, delta uint32) (overflowed bool)
	TF() []uint32
	Close() error
}

// addTFCounter adds delta to *counter with a CAS loop instead of a plain
// atomic.AddUint32, so it can detect the add wrapping past uint32 max
// instead of silently keeping the wrapped value.
func addTFCounter(counter *uint32, delta uint32) bool {
	for {
		old := atomic.LoadUint32(counter)
		sum := old + delta
		if atomic.CompareAndSwapUint32(counter, old, sum) {
			return sum < old
		}
	}
}

// Lookup implements the full spec §4.C procedure for a raw query k-mer:
// validate length, encode, canonicalize, resolve id, and report which
// strand matched. It never returns an error for an out-of-set k-mer —
// ok=false with tf=0 is the neutral result, per the propagation policy of
// §7 (NotInSet is never fatal at query time).
func Lookup(idx Index, kmer []byte) (id uint64, strand dna.Strand, tf uint32, ok bool, err error) {
	if len(kmer) != idx.K() {
		return 0, dna.NotFound, 0, false, aerrors.Wrapf(aerrors.KindWrongLength, aerrors.ErrWrongLength,
			"expected length %d, got %d", idx.K(), len(kmer))
	}

	word, encErr := dna.Encode(kmer)
	if encErr != nil {
		return 0, dna.NotFound, 0, false, aerrors.Wrapf(aerrors.KindInvalidAlphabet, aerrors.ErrInvalidAlphabet, "%s", encErr)
	}

	canon, s := dna.Canonicalize(word, idx.K())
	gotID, found := idx.GetID(canon)
	if !found {
		return 0, dna.NotFound, 0, false, nil
	}

	return gotID, s, idx.GetTF(canon), true, nil
}

// MphfIndex is the general-k implementation: mphf + checker[N]uint64 +
// tf[N]uint32.
type MphfIndex struct {
	k       int
	mphf    *mphf.MPHF
	checker []uint64
	tf      []uint32

	checkerMmap *mmapfile.File
	tfMmap      *mmapfile.File
}

// NewMphfIndex wraps already-materialized slices (in-memory, used during
// build and by tests); checkerMmap and tfMmap stay nil since there is
// nothing to unmap.
func NewMphfIndex(k int, m *mphf.MPHF, checker []uint64, tf []uint32) *MphfIndex {
	return &MphfIndex{k: k, mphf: m, checker: checker, tf: tf}
}

func (idx *MphfIndex) K() int    { return idx.k }
func (idx *MphfIndex) N() uint64 { return idx.mphf.N() }

func (idx *MphfIndex) GetID(canonical uint64) (uint64, bool) {
	if idx.mphf.N() == 0 {
		return 0, false
	}
	id := idx.mphf.Lookup(canonical)
	if id >= idx.mphf.N() || idx.checker[id] != canonical {
		return 0, false
	}
	return id, true
}

func (idx *MphfIndex) GetTF(canonical uint64) uint32 {
	id, ok := idx.GetID(canonical)
	if !ok {
		return 0
	}
	return idx.tf[id]
}

func (idx *MphfIndex) KmerAt(id uint64) (uint64, bool) {
	if id >= uint64(len(idx.checker)) {
		return 0, false
	}
	return idx.checker[id], true
}

func (idx *MphfIndex) AddTF(id uint64, delta uint32) bool {
	return addTFCounter(&idx.tf[id], delta)
}

func (idx *MphfIndex) TF() []uint32 { return idx.tf }

func (idx *MphfIndex) Checker() []uint64 { return idx.checker }
func (idx *MphfIndex) MPHF() *mphf.MPHF  { return idx.mphf }

func (idx *MphfIndex) Close() error {
	var first error
	if idx.checkerMmap != nil {
		if err := idx.checkerMmap.Close(); err != nil {
			first = err
		}
	}
	if idx.tfMmap != nil {
		if err := idx.tfMmap.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
