// Package query implements the read-only query engine: k-mer
// frequency and positional lookups layered over a hash-map wrapper and a
// memory-mapped reads store.
package query

import (
	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/reads"
)

// Engine bundles everything a query needs: the hash-map wrapper, the
// positional arrays, the reads blob, and the interval resolver. Every
// method is safe for concurrent use — Engine holds no mutable state
// beyond the memory-mapped, write-once arrays.
type Engine struct {
	idx       hashmap.Index
	indices   []uint64
	positions []uint64
	blob      *reads.Blob
	ridx      *reads.RidxTable
	header    *reads.HeaderTable // nil unless the source was FASTA
}

// NewEngine assembles an Engine from already-loaded components. header may
// be nil.
func NewEngine(idx hashmap.Index, indices, positions []uint64, blob *reads.Blob, ridx *reads.RidxTable, header *reads.HeaderTable) (*Engine, error) {
	if uint64(len(indices)) != idx.N()+1 {
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"indices.bin has %d entries, want %d (N+1)", len(indices), idx.N()+1)
	}
	if uint64(len(positions)) != indices[len(indices)-1] {
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"pos.bin has %d entries, indices.bin's prefix sum wants %d", len(positions), indices[len(indices)-1])
	}
	return &Engine{idx: idx, indices: indices, positions: positions, blob: blob, ridx: ridx, header: header}, nil
}

// K returns the k-mer length this engine was built for.
func (e *Engine) K() int { return e.idx.K() }

// N returns the number of distinct canonical k-mers in the index.
func (e *Engine) N() uint64 { return e.idx.N() }

// Index returns the underlying hash-map wrapper, for callers (aindexctl's
// verify subcommand) that need to reach a concrete type's own extra
// consistency checks beyond what Engine itself exposes.
func (e *Engine) Index() hashmap.Index { return e.idx }

// Close releases every memory mapping held by the engine.
func (e *Engine) Close() error {
	var first error
	if err := e.idx.Close(); err != nil {
		first = err
	}
	if err := e.blob.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

func (e *Engine) idOf(kmer []byte) (id uint64, ok bool, err error) {
	id, _, _, ok, err = hashmap.Lookup(e.idx, kmer)
	return id, ok, err
}

// slotsFor returns e.positions[e.indices[id]:e.indices[id+1]].
func (e *Engine) slotsFor(id uint64) []uint64 {
	return e.positions[e.indices[id]:e.indices[id+1]]
}

// resolveStrand implements per-hit strand classification:
// compare the stored window's literal bytes against the query and its
// reverse complement.
func resolveStrand(window, query []byte) dna.Strand {
	if string(window) == string(query) {
		return dna.Forward
	}
	if string(dna.ComplementSeq(query)) == string(window) {
		return dna.Reverse
	}
	return dna.NotFound
}
