package hashmap

import (
	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/mmapfile"
)

// DirectK is the only k value eligible for the direct-indexing
// specialization: at k=13 the canonical packed word already fits in 26
// bits and addresses a table small enough to hold every possible k-mer,
// so no MPHF or checker array is needed at all — the packed word IS the
// id.
const DirectK = 13

// DirectN is the size of that table: 4^13.
const DirectN = uint64(1) << (2 * DirectK)

// DirectIndex is the k=13 specialization of Index: an identity map from
// canonical packed word to id, backed by a tf array sized to the full
// 4^13 universe. There is no checker array (component H, spec §4.H) —
// every value in [0, DirectN) is, by construction, some 13-mer's packed
// word, so every canonical 13-mer has its own slot.
type DirectIndex struct {
	tf     []uint32
	tfMmap *mmapfile.File
}

// NewDirectIndex allocates a zeroed in-memory direct index, for building.
func NewDirectIndex() *DirectIndex {
	return &DirectIndex{tf: make([]uint32, DirectN)}
}

// NewDirectIndexFromTF wraps an already-populated tf array (e.g. mmapped
// from disk), which must have exactly DirectN entries. mm may be nil when
// tf is a plain in-memory slice with nothing to unmap.
func NewDirectIndexFromTF(tf []uint32, mm *mmapfile.File) *DirectIndex {
	return &DirectIndex{tf: tf, tfMmap: mm}
}

func (idx *DirectIndex) K() int    { return DirectK }
func (idx *DirectIndex) N() uint64 { return DirectN }

func (idx *DirectIndex) GetID(canonical uint64) (uint64, bool) {
	if canonical >= DirectN {
		return 0, false
	}
	return canonical, true
}

func (idx *DirectIndex) GetTF(canonical uint64) uint32 {
	id, ok := idx.GetID(canonical)
	if !ok {
		return 0
	}
	return idx.tf[id]
}

func (idx *DirectIndex) KmerAt(id uint64) (uint64, bool) {
	if id >= DirectN {
		return 0, false
	}
	return id, true
}

func (idx *DirectIndex) AddTF(id uint64, delta uint32) bool {
	return addTFCounter(&idx.tf[id], delta)
}

func (idx *DirectIndex) TF() []uint32 { return idx.tf }

func (idx *DirectIndex) Close() error {
	if idx.tfMmap != nil {
		return idx.tfMmap.Close()
	}
	return nil
}

var _ Index = (*DirectIndex)(nil)
var _ Index = (*MphfIndex)(nil)

// DecodeKmerAt renders the k-mer at id as an ASCII byte slice, for either
// variant, using the shared dna codec.
func DecodeKmerAt(idx Index, id uint64) ([]byte, bool) {
	word, ok := idx.KmerAt(id)
	if !ok {
		return nil, false
	}
	return dna.Decode(word, idx.K()), true
}
