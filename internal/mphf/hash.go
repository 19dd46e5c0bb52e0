package mphf

import (
	"encoding/binary"

	"github.com/zeebo/wyhash"
)

// vertexHashes computes the three hypergraph-edge endpoints for key,
// one per disjoint vertex segment of size seg, offset into the global
// vertex index space [0, 3*seg).
//
// Three independent hashes of the same 8-byte key are derived from a single
// wyhash invocation per "lane" by mixing in a small per-lane salt, grounded
// on github.com/zeebo/wyhash (present in
// LexicMap's go.mod for exactly this class of fast bucket-assignment
// hashing, unused by any code we copied verbatim).
func vertexHashes(key uint64, seed uint64, seg uint64) (v0, v1, v2 uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)

	h0 := wyhash.Hash(buf[:], seed^0x9e3779b97f4a7c15)
	h1 := wyhash.Hash(buf[:], seed^0xbf58476d1ce4e5b9)
	h2 := wyhash.Hash(buf[:], seed^0x94d049bb133111eb)

	v0 = h0 % seg
	v1 = seg + h1%seg
	v2 = 2*seg + h2%seg
	return
}
