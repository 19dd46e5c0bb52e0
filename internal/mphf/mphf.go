// Package mphf implements a minimal perfect hash function over a static
// set of uint64 keys using hypergraph peeling: a 3-uniform random
// hypergraph is peeled to an acyclic core, then each vertex is given a
// 2-bit displacement so that summing the three displacements of a key's
// vertices modulo 3 identifies which vertex is that key's "critical"
// vertex; a rank dictionary over the set of critical vertices then turns
// that vertex into a dense id in [0,N).
package mphf

import "math/bits"

// MPHF is a built, immutable minimal perfect hash function.
type MPHF struct {
	n    uint64
	seg  uint64
	seed uint64

	g    []uint8 // one entry per vertex, values in {0,1,2}
	used []uint64 // bitset, 1 bit per vertex: is this vertex a key's critical vertex
	blockRank []uint32 // prefix popcount of `used` at each 64-vertex block boundary
}

// N returns the number of keys the function was built over; Lookup always
// returns a value in [0, N) for keys in the build set.
func (m *MPHF) N() uint64 { return m.n }

// Lookup returns a value in [0, N) for keys in the build set. For keys
// outside the build set, the result is unspecified — callers MUST verify
// membership independently (via a checker array).
func (m *MPHF) Lookup(key uint64) uint64 {
	if m.n == 0 {
		return 0
	}
	v0, v1, v2 := vertexHashes(key, m.seed, m.seg)
	s := (int(m.g[v0]) + int(m.g[v1]) + int(m.g[v2])) % 3

	var vc uint64
	switch s {
	case 0:
		vc = v0
	case 1:
		vc = v1
	default:
		vc = v2
	}

	return m.rank(vc)
}

// rank returns the number of set bits in `used` strictly before position v.
func (m *MPHF) rank(v uint64) uint64 {
	block := v / 64
	within := v % 64
	r := uint64(m.blockRank[block])
	if within > 0 {
		word := m.used[block]
		mask := (uint64(1) << within) - 1
		r += uint64(bits.OnesCount64(word & mask))
	}
	return r
}

// buildRank constructs the `used` bitset (1 bit per vertex in usedVerts)
// and a per-64-vertex-block cumulative popcount array over m vertices.
func buildRank(usedVerts []uint64, m uint64) ([]uint64, []uint32) {
	nWords := (m + 63) / 64
	used := make([]uint64, nWords)
	for _, v := range usedVerts {
		used[v/64] |= uint64(1) << (v % 64)
	}

	blockRank := make([]uint32, nWords+1)
	var running uint32
	for i, w := range used {
		blockRank[i] = running
		running += uint32(bits.OnesCount64(w))
	}
	blockRank[nWords] = running

	return used, blockRank
}
