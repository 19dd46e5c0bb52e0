// Package posbuild builds the positional inverted index (indices.bin +
// pos.bin) from a term-frequency-populated hash map and the reads blob,
// a prefix-sum Indices phase followed by a parallel Fill
// scan that reuses tfbuild's scanning core.
package posbuild

import (
	"sync/atomic"

	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/tfbuild"
)

// Options configures a position-index build.
type Options struct {
	Workers int
	// MaxTF caps the number of stored positions per id at build time. Zero
	// means uncapped. Ids whose tf exceeds MaxTF only get their first
	// MaxTF occurrences (in scan order, which is unspecified across
	// workers) recorded; remaining slots stay the zero sentinel.
	MaxTF uint32
}

// Indices computes the (N+1)-length prefix sum of tf: Indices()[i] is the
// start offset of id i's slice within the positions array, and
// Indices()[N] is Σtf, the required length of that array.
func Indices(tf []uint32) []uint64 {
	out := make([]uint64, len(tf)+1)
	var running uint64
	for i, v := range tf {
		out[i] = running
		running += uint64(v)
	}
	out[len(tf)] = running
	return out
}

// Fill runs the parallel scan's second phase: for every valid
// canonical-k-mer occurrence, write its 1-based absolute offset into
// positions at the next free slot for that id (indices[id]..indices[id+1]),
// tracked via a per-id atomic cursor initialized to indices[id]. Cursor
// advances past indices[id+1] (or past indices[id]+MaxTF, if capped) are
// discarded rather than causing an out-of-bounds write.
func Fill(idx hashmap.Index, blob []byte, indices []uint64, positions []uint64, opts Options) {
	n := len(indices) - 1
	cursor := make([]uint64, n)
	copy(cursor, indices[:n])

	limit := make([]uint64, n)
	for i := 0; i < n; i++ {
		limit[i] = indices[i+1]
		if opts.MaxTF > 0 && limit[i]-indices[i] > uint64(opts.MaxTF) {
			limit[i] = indices[i] + uint64(opts.MaxTF)
		}
	}

	visit := func(occ tfbuild.Occurrence) {
		id, ok := idx.GetID(occ.Canonical)
		if !ok {
			return
		}
		for {
			slot := atomic.LoadUint64(&cursor[id])
			if slot >= limit[id] {
				return
			}
			if atomic.CompareAndSwapUint64(&cursor[id], slot, slot+1) {
				positions[slot] = uint64(occ.Offset) + 1
				return
			}
		}
	}

	tfbuild.ScanCanonicalKmers(blob, idx.K(), opts.Workers, visit)
}
