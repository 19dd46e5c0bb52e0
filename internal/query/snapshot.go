package query

import "gonum.org/v1/gonum/stat"

// Snapshot is an aggregate view of the tf array. Neither the original
// Python wrapper's get_hash_size nor the tf/positions calls name a single
// call for "how big is this index and how skewed is
// its frequency distribution", but both are one pass over an array
// already resident via mmap, so it is cheap to offer.
type Snapshot struct {
	N        uint64
	SumTF    uint64
	MeanTF   float64
	StdDevTF float64
}

// Snapshot computes aggregate statistics over the tf array in one pass.
func (e *Engine) Snapshot() Snapshot {
	tf := e.idx.TF()
	n := len(tf)
	if n == 0 {
		return Snapshot{}
	}

	values := make([]float64, n)
	var sum uint64
	for i, v := range tf {
		values[i] = float64(v)
		sum += uint64(v)
	}

	mean := stat.Mean(values, nil)
	sd := stat.StdDev(values, nil)

	return Snapshot{N: uint64(n), SumTF: sum, MeanTF: mean, StdDevTF: sd}
}
