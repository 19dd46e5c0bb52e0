// Package tfbuild computes term frequencies by a multithreaded scan over
// the reads blob: partition the blob into
// contiguous byte ranges, one per worker, each sliding a k-window and
// incrementing tf[id] atomically (a CAS loop that also detects uint32
// wrap).
package tfbuild

import (
	"bytes"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shenwei356/aindexgo/internal/hashmap"
)

// Occurrence is a single valid canonical-k-mer window found during the
// scan: its canonical packed word and the absolute 0-based byte offset of
// the window's first base within the reads blob.
type Occurrence struct {
	Canonical uint64
	Offset    int64
}

// ScanCanonicalKmers partitions blob into `workers` contiguous, line-
// aligned byte ranges and, for every read (splitting paired reads on `~`),
// slides a k-window over each subread, invoking visit once per valid
// window. posbuild.Fill reuses this exact scan
// verbatim for the positional index builder's Fill phase — tfbuild and
// posbuild share this one scanning core rather than reimplementing it
// twice.
//
// visit may be called concurrently from multiple goroutines; the caller
// is responsible for its own synchronization (an atomic CAS loop, in
// both of this module's builders).
func ScanCanonicalKmers(blob []byte, k int, workers int, visit func(Occurrence)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(blob) == 0 {
		return
	}

	bounds := make([]int64, workers+1)
	n := int64(len(blob))
	bounds[0] = 0
	bounds[workers] = n
	for i := 1; i < workers; i++ {
		bounds[i] = alignToLineStart(blob, int64(i)*n/int64(workers))
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start, end := bounds[i], bounds[i+1]
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int64) {
			defer wg.Done()
			scanRange(blob[start:end], start, k, visit)
		}(start, end)
	}
	wg.Wait()
}

// alignToLineStart returns the offset of the first byte after the next
// '\n' at or after pos, or len(blob) if none remains. Using the same
// alignment function for every worker's start and the previous worker's
// end guarantees no line is scanned twice and none is skipped.
func alignToLineStart(blob []byte, pos int64) int64 {
	if pos <= 0 {
		return 0
	}
	n := int64(len(blob))
	if pos >= n {
		return n
	}
	idx := bytes.IndexByte(blob[pos:], '\n')
	if idx < 0 {
		return n
	}
	return pos + int64(idx) + 1
}

func scanRange(chunk []byte, baseOffset int64, k int, visit func(Occurrence)) {
	kz := newKmerizer(k)
	pos := 0
	for pos < len(chunk) {
		nl := bytes.IndexByte(chunk[pos:], '\n')
		var line []byte
		lineStart := pos
		if nl < 0 {
			line = chunk[pos:]
			pos = len(chunk)
		} else {
			line = chunk[pos : pos+nl]
			pos = pos + nl + 1
		}
		if len(line) < k {
			continue
		}

		if sep := bytes.IndexByte(line, '~'); sep >= 0 {
			scanSubread(line[:sep], baseOffset+int64(lineStart), k, kz, visit)
			scanSubread(line[sep+1:], baseOffset+int64(lineStart+sep+1), k, kz, visit)
		} else {
			scanSubread(line, baseOffset+int64(lineStart), k, kz, visit)
		}
	}
}

func scanSubread(sub []byte, subOffset int64, k int, kz *kmerizer, visit func(Occurrence)) {
	if len(sub) < k {
		return
	}
	kz.Reset(sub)
	for kz.Scan() {
		visit(Occurrence{Canonical: kz.Canonical(), Offset: subOffset + int64(kz.Pos())})
	}
}

// countingVisit is the tf-accumulation callback: resolve the id for a
// canonical word (skipping silently if it is not in the build set, per
// not-in-set) and atomically increment its tf. overflowed latches true the
// first time any counter wraps past uint32 max; it is never cleared, so
// Run can report the condition once the whole scan finishes.
func countingVisit(idx hashmap.Index, overflowed *atomic.Bool) func(Occurrence) {
	return func(occ Occurrence) {
		id, ok := idx.GetID(occ.Canonical)
		if !ok {
			return
		}
		if idx.AddTF(id, 1) {
			overflowed.Store(true)
		}
	}
}
