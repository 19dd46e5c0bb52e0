package tfbuild

import (
	"sync/atomic"

	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/hashmap"
)

// Options configures a TF build pass.
type Options struct {
	// Workers is the number of concurrent scan goroutines. Zero means
	// runtime.NumCPU().
	Workers int
}

// Run scans blob and accumulates term frequencies into idx's tf array via
// AddTF. idx's tf entries must already be zeroed; Run only ever increments.
// It returns aerrors.ErrBuildOverflow if any counter wrapped past uint32
// max during the scan; the resulting tf array is still fully written, just
// no longer trustworthy for the ids that wrapped.
func Run(idx hashmap.Index, blob []byte, opts Options) error {
	var overflowed atomic.Bool
	ScanCanonicalKmers(blob, idx.K(), opts.Workers, countingVisit(idx, &overflowed))
	if overflowed.Load() {
		return aerrors.ErrBuildOverflow
	}
	return nil
}
