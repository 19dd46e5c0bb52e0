package query

import "github.com/shenwei356/aindexgo/internal/dna"

// ReadHit is one deduplicated read hit for a queried k-mer.
type ReadHit struct {
	Rid         int
	LocalOffset int64 // offset of the match within the read, 0-based
	ReadBytes   []byte
	Strand      dna.Strand
	// PairedMate is 1 or 2 when the hit falls inside a paired read's
	// subread, 0 for an unpaired read. Supplemental beyond the base
	// bare contract: a caller resolving a hit on a paired read otherwise
	// cannot tell which mate it landed on without re-deriving it.
	PairedMate int
}

// KmerToReads implements kmer_to_reads(kmer, max_reads): for each stored
// position of kmer, resolve to a read and emit a deduplicated hit (by
// rid), up to maxReads distinct reads.
func (e *Engine) KmerToReads(kmer []byte, maxReads int) ([]ReadHit, error) {
	positions, err := e.Positions(kmer)
	if err != nil || len(positions) == 0 {
		return nil, err
	}

	seen := make(map[int]bool, len(positions))
	hits := make([]ReadHit, 0, len(positions))

	for _, off := range positions {
		if maxReads > 0 && len(hits) >= maxReads {
			break
		}
		rid, ok := e.ridx.OffsetToRid(int64(off))
		if !ok {
			continue
		}
		if seen[rid] {
			continue
		}
		iv := e.ridx.At(rid)
		local := int64(off) - iv.Start
		view, err := e.ReadByRid(rid)
		if err != nil {
			return nil, err
		}
		k := e.K()
		if int(local)+k > len(view.Raw) {
			continue
		}
		window := view.Raw[local : int(local)+k]
		strand := resolveStrand(window, kmer)

		mate := 0
		if sub1, _, ok := view.StoredSubreads(); ok {
			if int(local) < len(sub1) {
				mate = 1
			} else if int(local) > len(sub1) {
				mate = 2
			}
		}

		seen[rid] = true
		hits = append(hits, ReadHit{Rid: rid, LocalOffset: local, ReadBytes: view.Raw, Strand: strand, PairedMate: mate})
	}

	return hits, nil
}
