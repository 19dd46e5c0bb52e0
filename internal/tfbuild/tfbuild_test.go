package tfbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/mphf"
)

func buildIndexOver(t *testing.T, k int, kmers []string) *hashmap.MphfIndex {
	t.Helper()
	// k-mers that are reverse complements of each other share one
	// canonical key; keep it once, since mphf.Build takes distinct keys.
	keys := make([]uint64, 0, len(kmers))
	seen := make(map[uint64]bool, len(kmers))
	for _, s := range kmers {
		w, err := dna.Encode([]byte(s))
		require.NoError(t, err)
		c, _ := dna.Canonicalize(w, k)
		if !seen[c] {
			seen[c] = true
			keys = append(keys, c)
		}
	}
	m, err := mphf.Build(keys, 3)
	require.NoError(t, err)
	checker := make([]uint64, m.N())
	for _, key := range keys {
		checker[m.Lookup(key)] = key
	}
	tf := make([]uint32, m.N())
	return hashmap.NewMphfIndex(k, m, checker, tf)
}

func TestScanCountsEveryOccurrenceOnBothStrands(t *testing.T) {
	k := 4
	// "AAAA" and its canonical partner "TTTT" both appear.
	idx := buildIndexOver(t, k, []string{"AAAA", "CCCC", "GGGG"})

	blob := []byte("AAAAAA\nTTTTCCCC\n")
	Run(idx, blob, Options{Workers: 3})

	id, _, tf, ok, err := hashmap.Lookup(idx, []byte("AAAA"))
	require.NoError(t, err)
	require.True(t, ok)
	// "AAAAAA" contains 3 windows of AAAA; "TTTTCCCC" contains one TTTT
	// window, whose canonical form is AAAA.
	require.Equal(t, uint32(4), tf)
	_ = id

	_, _, tfC, ok, err := hashmap.Lookup(idx, []byte("CCCC"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(1), tfC)
}

func TestScanSkipsPairSeparator(t *testing.T) {
	k := 4
	idx := buildIndexOver(t, k, []string{"ACGT"})

	blob := []byte("ACGT~ACGT\n")
	Run(idx, blob, Options{Workers: 1})

	_, _, tf, ok, err := hashmap.Lookup(idx, []byte("ACGT"))
	require.NoError(t, err)
	require.True(t, ok)
	// two separate 4-base subreads, one window each, none spans the '~'.
	require.Equal(t, uint32(2), tf)
}

func TestScanSingleVsMultiWorkerAgree(t *testing.T) {
	k := 5
	idx1 := buildIndexOver(t, k, []string{"ACGTA", "CGTAC", "GTACG", "TACGT"})
	idx2 := buildIndexOver(t, k, []string{"ACGTA", "CGTAC", "GTACG", "TACGT"})

	blob := []byte("ACGTACGTACGT\nGTACGTACG\nACGT\n")
	Run(idx1, blob, Options{Workers: 1})
	Run(idx2, blob, Options{Workers: 4})

	require.Equal(t, idx1.TF(), idx2.TF())
}
