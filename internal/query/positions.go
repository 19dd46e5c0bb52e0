package query

import (
	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/reads"
)

// Positions implements positions(kmer) -> Vec<u64>: the
// non-zero stored offsets for the k-mer's id, converted from the on-disk
// 1-based/0-sentinel convention back to 0-based offsets. Order is
// unspecified; treat the result as a multiset.
func (e *Engine) Positions(kmer []byte) ([]uint64, error) {
	id, ok, err := e.idOf(kmer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	slots := e.slotsFor(id)
	out := make([]uint64, 0, len(slots))
	for _, p := range slots {
		if p != 0 {
			out = append(out, p-1)
		}
	}
	return out, nil
}

// ReadOfOffset implements read_of_offset: resolve the
// read containing an absolute blob offset and return its view.
func (e *Engine) ReadOfOffset(off int64) (reads.ReadView, bool, error) {
	rid, ok := e.ridx.OffsetToRid(off)
	if !ok {
		return reads.ReadView{}, false, nil
	}
	v, err := reads.ReadAt(e.blob, e.ridx.At(rid))
	return v, err == nil, err
}

// ReadByRid implements read_by_rid(rid) -> &[u8]: constant-time via the
// start-offset array.
func (e *Engine) ReadByRid(rid int) (reads.ReadView, error) {
	return reads.ReadAt(e.blob, e.ridx.At(rid))
}

// ReadSlice implements read_slice(start, end, revcomp): the raw byte
// range, optionally base-wise reverse-complemented. non-ACGT bytes are
// their own complement.
func (e *Engine) ReadSlice(start, end int64, revcomp bool) ([]byte, error) {
	raw, err := e.blob.Slice(start, end)
	if err != nil {
		return nil, err
	}
	if !revcomp {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}
	return dna.ComplementSeq(raw), nil
}
