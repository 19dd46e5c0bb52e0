package reads

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRidxLoadAndOffsetToRid(t *testing.T) {
	dir := t.TempDir()
	// three reads: "AAAA\n" [0,5), "CCCC\n" [5,10), "GGGG\n" [10,15)
	ridxPath := writeTemp(t, dir, "x.ridx", "0\t0\t5\n1\t5\t10\n2\t10\t15\n")

	table, err := LoadRidxTable(ridxPath)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	rid, ok := table.OffsetToRid(0)
	require.True(t, ok)
	require.Equal(t, 0, rid)

	rid, ok = table.OffsetToRid(7)
	require.True(t, ok)
	require.Equal(t, 1, rid)

	rid, ok = table.OffsetToRid(14)
	require.True(t, ok)
	require.Equal(t, 2, rid)

	_, ok = table.OffsetToRid(15)
	require.False(t, ok)

	require.Equal(t, 1, table.OffsetToRidFromPosition(7))
}

func TestRidxRejectsOverlapNonIncreasingAndBadRid(t *testing.T) {
	dir := t.TempDir()

	badRid := writeTemp(t, dir, "badrid.ridx", "1\t0\t5\n")
	_, err := LoadRidxTable(badRid)
	require.Error(t, err)

	overlap := writeTemp(t, dir, "overlap.ridx", "0\t0\t5\n1\t3\t10\n")
	_, err = LoadRidxTable(overlap)
	require.Error(t, err)

	notIncreasing := writeTemp(t, dir, "noninc.ridx", "0\t0\t5\n1\t5\t10\n2\t5\t20\n")
	_, err = LoadRidxTable(notIncreasing)
	require.Error(t, err)
}

func TestIntervalIndexAgreesWithRidx(t *testing.T) {
	dir := t.TempDir()
	ridxPath := writeTemp(t, dir, "x.ridx", "0\t0\t5\n1\t5\t10\n2\t10\t15\n")
	table, err := LoadRidxTable(ridxPath)
	require.NoError(t, err)

	rows := make([]Interval, table.Len())
	for i := 0; i < table.Len(); i++ {
		rows[i] = table.At(i)
	}
	itree := NewIntervalIndex(rows)

	for off := int64(0); off < 15; off++ {
		want, wantOk := table.OffsetToRid(off)
		got, gotOk := itree.OffsetToRid(off)
		require.Equal(t, wantOk, gotOk, "offset %d", off)
		if wantOk {
			require.Equal(t, want, got, "offset %d", off)
		}
	}
}

func TestBlobAndReadView(t *testing.T) {
	dir := t.TempDir()
	blobPath := writeTemp(t, dir, "x.reads", "ACGTA\nGATTA~TAATC\n")
	blob, err := OpenBlob(blobPath)
	require.NoError(t, err)
	defer blob.Close()

	v1, err := ReadAt(blob, Interval{Rid: 0, Start: 0, End: 6})
	require.NoError(t, err)
	require.Equal(t, "ACGTA", string(v1.Raw))
	require.False(t, v1.IsPaired())

	v2, err := ReadAt(blob, Interval{Rid: 1, Start: 6, End: 18})
	require.NoError(t, err)
	require.True(t, v2.IsPaired())

	sub1, sub2, ok := v2.Subreads()
	require.True(t, ok)
	require.Equal(t, "GATTA", string(sub1))
	// stored "TAATC" is the revcomp of the original second subread.
	require.Equal(t, "GATTA", string(sub2))
}

func TestHeaderTable(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "x.header", "chr1\t0\t2\nchr2\t2\t3\n")
	ht, err := LoadHeaderTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, ht.Len())

	row, ok := ht.RidToHeader(1)
	require.True(t, ok)
	require.Equal(t, "chr1", row.Header)

	row, ok = ht.RidToHeader(3)
	require.True(t, ok)
	require.Equal(t, "chr2", row.Header)

	_, ok = ht.RidToHeader(10)
	require.False(t, ok)
}
