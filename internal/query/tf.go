package query

import "github.com/shenwei356/aindexgo/internal/hashmap"

// TF implements tf(kmer) -> u32: canonicalize, resolve id,
// return its stored count (0 if the k-mer is not in the build set).
func (e *Engine) TF(kmer []byte) (uint32, error) {
	_, _, tf, _, err := hashmap.Lookup(e.idx, kmer)
	return tf, err
}
