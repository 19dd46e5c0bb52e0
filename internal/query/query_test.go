package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/mphf"
	"github.com/shenwei356/aindexgo/internal/posbuild"
	"github.com/shenwei356/aindexgo/internal/reads"
	"github.com/shenwei356/aindexgo/internal/tfbuild"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// buildEngine builds a tiny end-to-end index over a reads blob for the
// given k, exercising tfbuild -> posbuild -> query without touching disk
// for the hash map (in-memory MphfIndex) but through a real mmapped
// reads blob and ridx table.
func buildEngine(t *testing.T, blobText string, ridxText string, kmers []string, k int) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	blobPath := writeTemp(t, dir, "x.reads", blobText)
	ridxPath := writeTemp(t, dir, "x.ridx", ridxText)

	blob, err := reads.OpenBlob(blobPath)
	require.NoError(t, err)
	ridx, err := reads.LoadRidxTable(ridxPath)
	require.NoError(t, err)

	keys := make([]uint64, len(kmers))
	for i, s := range kmers {
		w, err := dna.Encode([]byte(s))
		require.NoError(t, err)
		c, _ := dna.Canonicalize(w, k)
		keys[i] = c
	}
	m, err := mphf.Build(keys, 17)
	require.NoError(t, err)
	checker := make([]uint64, m.N())
	for _, key := range keys {
		checker[m.Lookup(key)] = key
	}
	tf := make([]uint32, m.N())
	idx := hashmap.NewMphfIndex(k, m, checker, tf)

	tfbuild.Run(idx, blob.Bytes(), tfbuild.Options{Workers: 2})
	indices := posbuild.Indices(idx.TF())
	positions := make([]uint64, indices[len(indices)-1])
	posbuild.Fill(idx, blob.Bytes(), indices, positions, posbuild.Options{Workers: 2})

	e, err := NewEngine(idx, indices, positions, blob, ridx, nil)
	require.NoError(t, err)
	return e, dir
}

func TestTFAndPositionsRoundTrip(t *testing.T) {
	e, _ := buildEngine(t, "ACGTACGT\n", "0\t0\t9\n", []string{"ACGT", "CGTA", "GTAC"}, 4)
	defer e.Close()

	tf, err := e.TF([]byte("ACGT"))
	require.NoError(t, err)
	require.Equal(t, uint32(2), tf) // ACGT at offset 0 and 4

	positions, err := e.Positions([]byte("ACGT"))
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{0, 4}, positions)

	// revcomp query hits the same id.
	rc := dna.ReverseComplement(mustEncode(t, "ACGT"), 4)
	tf2, err := e.TF(dna.Decode(rc, 4))
	require.NoError(t, err)
	require.Equal(t, tf, tf2)
}

func mustEncode(t *testing.T, s string) uint64 {
	t.Helper()
	w, err := dna.Encode([]byte(s))
	require.NoError(t, err)
	return w
}

func TestReadOfOffsetAndReadByRid(t *testing.T) {
	e, _ := buildEngine(t, "AAAA\nCCCC\n", "0\t0\t5\n1\t5\t10\n", []string{"AAAA", "CCCC"}, 4)
	defer e.Close()

	v, ok, err := e.ReadOfOffset(6)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v.Rid)
	require.Equal(t, "CCCC", string(v.Raw))

	v2, err := e.ReadByRid(0)
	require.NoError(t, err)
	require.Equal(t, "AAAA", string(v2.Raw))
}

func TestReadSliceRevcomp(t *testing.T) {
	e, _ := buildEngine(t, "ACGTACGT\n", "0\t0\t9\n", []string{"ACGT"}, 4)
	defer e.Close()

	fwd, err := e.ReadSlice(0, 4, false)
	require.NoError(t, err)
	require.Equal(t, "ACGT", string(fwd))

	rc, err := e.ReadSlice(0, 4, true)
	require.NoError(t, err)
	require.Equal(t, string(dna.ComplementSeq([]byte("ACGT"))), string(rc))
}

func TestIterReads(t *testing.T) {
	e, _ := buildEngine(t, "AAAA\nCCCC\nGGGG\n", "0\t0\t5\n1\t5\t10\n2\t10\t15\n", []string{"AAAA"}, 4)
	defer e.Close()

	var got []string
	require.NoError(t, e.IterReads(func(v reads.ReadView) bool {
		got = append(got, string(v.Raw))
		return true
	}))
	require.Equal(t, []string{"AAAA", "CCCC", "GGGG"}, got)
}

func TestIterPairedSubreads(t *testing.T) {
	e, _ := buildEngine(t, "AAAAC~GTTTT\n", "0\t0\t12\n", []string{"AAAA"}, 4)
	defer e.Close()

	var mates []PairedSubread
	require.NoError(t, e.IterPairedSubreads(func(p PairedSubread) bool {
		mates = append(mates, p)
		return true
	}))
	require.Len(t, mates, 2)
	require.Equal(t, "AAAAC", string(mates[0].Bytes))
	require.False(t, mates[0].Revcomp)
	require.Equal(t, "GTTTT", string(mates[1].Bytes))
	require.True(t, mates[1].Revcomp)
}

func TestIterByFrequencyGeneralPath(t *testing.T) {
	e, _ := buildEngine(t, "AAAAAAA\nCCCC\n", "0\t0\t8\n1\t8\t13\n", []string{"AAAA", "CCCC"}, 4)
	defer e.Close()

	top := e.IterByFrequency(1, 2)
	require.Len(t, top, 2)
	require.Equal(t, uint32(4), top[0].TF) // AAAA occurs 4 times in "AAAAAAA"
	require.Equal(t, "AAAA", string(top[0].Kmer))
}

func TestSnapshot(t *testing.T) {
	e, _ := buildEngine(t, "AAAA\nCCCC\n", "0\t0\t5\n1\t5\t10\n", []string{"AAAA", "CCCC"}, 4)
	defer e.Close()

	snap := e.Snapshot()
	require.Equal(t, uint64(2), snap.N)
	require.Equal(t, uint64(2), snap.SumTF)
}

func TestKmerToReadsDedupesByRid(t *testing.T) {
	e, _ := buildEngine(t, "AAAAA\n", "0\t0\t6\n", []string{"AAAA"}, 4)
	defer e.Close()

	hits, err := e.KmerToReads([]byte("AAAA"), 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, 0, hits[0].Rid)
	require.Equal(t, dna.Forward, hits[0].Strand)
}
