package mphf

import (
	"math"

	"github.com/pkg/errors"
)

// gammaExpansion is the vertex-to-key expansion factor c for a 3-uniform
// hypergraph to be peelable with high probability (Botelho/Pagh/Ziviani).
const gammaExpansion = 1.23

// maxBuildAttempts bounds the number of distinct hypergraph seeds tried
// before giving up; peeling fails only with vanishing probability at
// c=1.23, so a handful of retries is generous.
const maxBuildAttempts = 32

// ErrPeelingFailed means the hypergraph could not be fully peeled after
// maxBuildAttempts distinct random seeds; this practically never happens at
// the standard expansion factor and indicates a build-set problem (e.g.
// massive duplicate collisions from a broken upstream counter).
var ErrPeelingFailed = errors.New("mphf: hypergraph peeling failed after maximum attempts")

type peelStep struct {
	edge  uint64 // index into the keys slice
	vc    uint64 // the critical (degree-1-at-peel-time) vertex, global index
	local uint8  // which of the 3 lanes (0,1,2) vc corresponds to
}

// Build constructs a minimal perfect hash function over the given set of
// distinct uint64 keys (canonical packed k-mers). Keys must be pairwise
// distinct; behavior is undefined (not validated) otherwise, matching the
// contract that the build set is already deduplicated upstream (the
// external k-mer counter emits one line per distinct canonical k-mer).
func Build(keys []uint64, seed int64) (*MPHF, error) {
	n := uint64(len(keys))
	if n == 0 {
		return &MPHF{n: 0, seg: 1}, nil
	}

	seg := uint64(math.Ceil(gammaExpansion*float64(n)/3)) + 1
	m := 3 * seg

	baseSeed := uint64(seed)
	for attempt := 0; attempt < maxBuildAttempts; attempt++ {
		trySeed := baseSeed + uint64(attempt)*0x2545f4914f6cdd1d + 1

		steps, ok := peel(keys, trySeed, seg)
		if !ok {
			continue
		}

		g := assign(keys, steps, trySeed, seg, m)

		usedVerts := make([]uint64, len(steps))
		for i, st := range steps {
			usedVerts[i] = st.vc
		}
		used, blockRank := buildRank(usedVerts, m)

		return &MPHF{
			n:         n,
			seg:       seg,
			seed:      trySeed,
			g:         g,
			used:      used,
			blockRank: blockRank,
		}, nil
	}

	return nil, ErrPeelingFailed
}

// peel runs the degree-1 peeling process over the 3-uniform hypergraph
// induced by (keys, seed, seg). It returns the peel order (one step per
// key) if the whole graph peels down to nothing, or ok=false if a cyclic
// core remains.
func peel(keys []uint64, seed uint64, seg uint64) ([]peelStep, bool) {
	n := uint64(len(keys))
	m := 3 * seg

	degree := make([]uint8, m)
	xorEdge := make([]uint64, m) // XOR of incident edge indices (+1 offset, see below)
	xorLocal := make([]uint64, m)

	// edges indices are stored 1-based inside xorEdge/xorLocal so that a
	// vertex with degree 0 (xorEdge==0) is distinguishable from edge 0.
	vertsOf := make([][3]uint64, n)
	localOf := make([][3]uint8, n)

	for i, key := range keys {
		v0, v1, v2 := vertexHashes(key, seed, seg)
		vertsOf[i] = [3]uint64{v0, v1, v2}
		localOf[i] = [3]uint8{0, 1, 2}

		eid := uint64(i) + 1
		for lane, v := range [3]uint64{v0, v1, v2} {
			degree[v]++
			xorEdge[v] ^= eid
			xorLocal[v] ^= uint64(lane)
		}
	}

	queue := make([]uint64, 0, m/4)
	for v := uint64(0); v < m; v++ {
		if degree[v] == 1 {
			queue = append(queue, v)
		}
	}

	steps := make([]peelStep, 0, n)
	removed := make([]bool, n)

	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if degree[v] != 1 {
			continue // stale queue entry
		}

		eid := xorEdge[v] - 1 // convert back to 0-based
		if removed[eid] {
			continue
		}
		removed[eid] = true

		local := xorLocal[v] // the lane at which v participates, since
		// degree==1 means exactly one edge remains touching v, so the xor
		// accumulator equals that edge's contribution exactly.

		steps = append(steps, peelStep{edge: eid, vc: v, local: uint8(local)})

		verts := vertsOf[eid]
		for lane, u := range verts {
			degree[u]--
			xorEdge[u] ^= (eid + 1)
			xorLocal[u] ^= uint64(lane)
			if degree[u] == 1 {
				queue = append(queue, u)
			}
		}
	}

	return steps, uint64(len(steps)) == n
}

// assign computes the 2-bit displacement g[v] for every vertex, by walking
// the peel order in reverse (last-peeled edge first) so that, for each
// edge, the two non-critical vertices already carry their final values
// (they are necessarily fixed by edges peeled strictly later in forward
// order, i.e. visited earlier in this reverse pass).
func assign(keys []uint64, steps []peelStep, seed uint64, seg uint64, m uint64) []uint8 {
	g := make([]uint8, m)
	touched := make([]bool, m)

	for i := len(steps) - 1; i >= 0; i-- {
		st := steps[i]
		v0, v1, v2 := vertexHashes(keys[st.edge], seed, seg)
		verts := [3]uint64{v0, v1, v2}

		var sumOthers int
		for lane, v := range verts {
			if uint8(lane) == st.local {
				continue
			}
			sumOthers += int(g[v])
			touched[v] = true
		}

		want := int(st.local)
		val := ((want-sumOthers)%3 + 3) % 3
		g[st.vc] = uint8(val)
		touched[st.vc] = true
	}

	return g
}
