package tfbuild

import "github.com/shenwei356/aindexgo/internal/dna"

// kmerizer incrementally tracks the forward and reverse-complement packed
// words of a sliding k-window over a byte slice, updating both in O(1) per
// step instead of re-encoding the whole window every time. Grounded on the
// fast-path/slow-path split of a rolling k-mer scanner: the fast path
// shifts in one base when the next byte is valid; the slow path
// re-synchronizes by jumping past a run of invalid bases.
type kmerizer struct {
	k    int
	mask uint64

	seq []byte
	si  int // index of the next base not yet folded into cur

	curForward uint64
	curRC      uint64
	curPos     int
}

func newKmerizer(k int) *kmerizer {
	var mask uint64
	if k >= 32 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1) << uint(2*k)) - 1
	}
	return &kmerizer{k: k, mask: mask}
}

func (kz *kmerizer) Reset(seq []byte) {
	kz.seq = seq
	kz.si = 0
}

// Scan advances to the next valid window, returning false once the
// sequence is exhausted. A window is valid only if every base within it is
// one of A/C/G/T; the separator/newline characters trimmed out before this
// point never appear inside seq.
func (kz *kmerizer) Scan() bool {
	if kz.si > 0 && kz.si+kz.k <= len(kz.seq) {
		nextCh := kz.seq[kz.si+kz.k-1]
		if bits, ok := dna.BaseBits(nextCh); ok {
			kz.curPos = kz.si
			kz.curForward = ((kz.curForward << 2) | uint64(bits)) & kz.mask
			shift := uint(kz.k-1) * 2
			kz.curRC = (kz.curRC >> 2) | (uint64(bits^3) << shift)
			kz.si++
			return true
		}
	}

	for kz.si+kz.k <= len(kz.seq) {
		window := kz.seq[kz.si : kz.si+kz.k]
		fwd, ok := encodeWindow(window)
		if !ok {
			kz.si = nextValidStart(kz.seq, kz.si)
			continue
		}
		kz.curForward = fwd
		kz.curRC = dna.ReverseComplement(fwd, kz.k)
		kz.curPos = kz.si
		kz.si++
		return true
	}
	return false
}

// Canonical returns the smaller of the current window's forward and
// reverse-complement words.
func (kz *kmerizer) Canonical() uint64 {
	if kz.curForward <= kz.curRC {
		return kz.curForward
	}
	return kz.curRC
}

// Pos returns the current window's start offset within seq.
func (kz *kmerizer) Pos() int { return kz.curPos }

func encodeWindow(window []byte) (uint64, bool) {
	var word uint64
	for _, b := range window {
		bits, ok := dna.BaseBits(b)
		if !ok {
			return 0, false
		}
		word = (word << 2) | uint64(bits)
	}
	return word, true
}

// nextValidStart returns the index one past the first invalid base at or
// after from, i.e. the earliest position a new window could possibly
// start clean.
func nextValidStart(seq []byte, from int) int {
	for i := from; i < len(seq); i++ {
		if _, ok := dna.BaseBits(seq[i]); !ok {
			return i + 1
		}
	}
	return len(seq)
}
