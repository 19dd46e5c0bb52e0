package query

import "github.com/shenwei356/aindexgo/internal/reads"

// IterReads implements iter_reads(): a lazy walk over every read in rid
// order, calling visit for each. Stops early if visit returns false.
func (e *Engine) IterReads(visit func(reads.ReadView) bool) error {
	for rid := 0; rid < e.ridx.Len(); rid++ {
		v, err := reads.ReadAt(e.blob, e.ridx.At(rid))
		if err != nil {
			return err
		}
		if !visit(v) {
			return nil
		}
	}
	return nil
}

// PairedSubread is one half of a paired read, annotated with which mate it
// is and whether it is stored reverse-complemented.
type PairedSubread struct {
	Rid       int
	Mate      int // 1 or 2
	Revcomp   bool
	Bytes     []byte
	AbsOffset int64
}

// IterPairedSubreads implements iter_paired_subreads(): for every paired
// read, yields its two subreads in order, the second annotated as
// reverse-complemented per the paired-read storage convention.
// Unpaired reads are skipped.
func (e *Engine) IterPairedSubreads(visit func(PairedSubread) bool) error {
	for rid := 0; rid < e.ridx.Len(); rid++ {
		iv := e.ridx.At(rid)
		v, err := reads.ReadAt(e.blob, iv)
		if err != nil {
			return err
		}
		sub1, sub2, ok := v.StoredSubreads()
		if !ok {
			continue
		}
		if !visit(PairedSubread{Rid: rid, Mate: 1, Revcomp: false, Bytes: sub1, AbsOffset: iv.Start}) {
			return nil
		}
		sub2Off := iv.Start + int64(len(sub1)) + 1
		if !visit(PairedSubread{Rid: rid, Mate: 2, Revcomp: true, Bytes: sub2, AbsOffset: sub2Off}) {
			return nil
		}
	}
	return nil
}
