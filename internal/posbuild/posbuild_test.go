package posbuild

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/mphf"
	"github.com/shenwei356/aindexgo/internal/tfbuild"
)

func buildIndexOver(t *testing.T, k int, kmers []string) *hashmap.MphfIndex {
	t.Helper()
	keys := make([]uint64, len(kmers))
	for i, s := range kmers {
		w, err := dna.Encode([]byte(s))
		require.NoError(t, err)
		c, _ := dna.Canonicalize(w, k)
		keys[i] = c
	}
	m, err := mphf.Build(keys, 11)
	require.NoError(t, err)
	checker := make([]uint64, m.N())
	for _, key := range keys {
		checker[m.Lookup(key)] = key
	}
	tf := make([]uint32, m.N())
	return hashmap.NewMphfIndex(k, m, checker, tf)
}

func TestIndicesPrefixSum(t *testing.T) {
	tf := []uint32{3, 0, 2, 5}
	idx := Indices(tf)
	require.Equal(t, []uint64{0, 3, 3, 5, 10}, idx)
}

func TestFillReconciliationAgainstTF(t *testing.T) {
	k := 4
	idx := buildIndexOver(t, k, []string{"AAAA", "CCCC"})
	blob := []byte("AAAAAA\nTTTTCCCC\n")

	tfbuild.Run(idx, blob, tfbuild.Options{Workers: 2})
	indices := Indices(idx.TF())
	positions := make([]uint64, indices[len(indices)-1])

	Fill(idx, blob, indices, positions, Options{Workers: 2})

	for id := 0; id < int(idx.N()); id++ {
		slice := positions[indices[id]:indices[id+1]]
		nonZero := 0
		for _, p := range slice {
			if p != 0 {
				nonZero++
			}
		}
		require.Equal(t, int(idx.TF()[id]), nonZero, "id %d", id)
	}
}

func TestFillPositionsDecodeToExpectedKmer(t *testing.T) {
	k := 4
	idx := buildIndexOver(t, k, []string{"ACGT", "GGCC"})
	blob := []byte("ACGTACGGCC\n")

	tfbuild.Run(idx, blob, tfbuild.Options{Workers: 1})
	indices := Indices(idx.TF())
	positions := make([]uint64, indices[len(indices)-1])
	Fill(idx, blob, indices, positions, Options{Workers: 1})

	for id := 0; id < int(idx.N()); id++ {
		want, ok := idx.KmerAt(uint64(id))
		require.True(t, ok)
		for _, p := range positions[indices[id]:indices[id+1]] {
			if p == 0 {
				continue
			}
			off := p - 1
			window := blob[off : off+uint64(k)]
			w, err := dna.Encode(window)
			require.NoError(t, err)
			canon, _ := dna.Canonicalize(w, k)
			require.Equal(t, want, canon)
		}
	}
}

func TestFillRespectsMaxTFCap(t *testing.T) {
	k := 4
	idx := buildIndexOver(t, k, []string{"AAAA"})
	blob := []byte("AAAAAAAAAA\n") // 7 overlapping AAAA windows

	tfbuild.Run(idx, blob, tfbuild.Options{Workers: 1})
	require.Equal(t, uint32(7), idx.TF()[0])

	indices := Indices(idx.TF())
	positions := make([]uint64, indices[len(indices)-1])
	Fill(idx, blob, indices, positions, Options{Workers: 1, MaxTF: 3})

	nonZero := 0
	for _, p := range positions {
		if p != 0 {
			nonZero++
		}
	}
	require.Equal(t, 3, nonZero)

	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
}
