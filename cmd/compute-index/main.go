// Command compute-index builds the checker (.kmers.bin) and term-frequency
// (.tf.bin) arrays from a `<kmer>\t<tf>` table produced by an external
// k-mer counter and a prebuilt minimal perfect hash function (.pf). At
// k=13 the direct-indexing specialization applies: there is
// no checker array and pf_file is ignored.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/dna"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/logging"
	"github.com/shenwei356/aindexgo/internal/mphf"
)

func usage() {
	fmt.Fprintf(os.Stderr, `
Build the checker and term-frequency arrays for a hash-map index.

Usage: %s <kmer_tf_tsv> <pf_file> <out_prefix> <threads> <cutoff>

  kmer_tf_tsv  tab-separated <kmer><TAB><tf> file, one distinct canonical
               k-mer per line, as emitted by an external k-mer counter
  pf_file      minimal perfect hash function built over the same k-mer set;
               ignored when the k-mer length is 13 (direct-indexed path)
  out_prefix   output path prefix; writes <out_prefix>.kmers.bin (skipped
               at k=13) and <out_prefix>.tf.bin
  threads      parallelism hint for future use (reserved; the current
               build is a single sequential pass over the TSV)
  cutoff       k-mers with tf below this value are recorded in the checker
               array (so lookups still resolve) but their tf is stored as
               zero, marking them excluded from frequency queries
`, filepath.Base(os.Args[0]))
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	if len(os.Args) != 6 {
		usage()
		os.Exit(1)
	}

	tsvPath := os.Args[1]
	pfPath := os.Args[2]
	outPrefix := os.Args[3]

	threads, err := strconv.Atoi(os.Args[4])
	checkError(err)
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	_ = threads // reserved: this build is a single sequential pass

	cutoff, err := strconv.ParseUint(os.Args[5], 10, 32)
	checkError(err)

	logging.Banner("compute-index")

	k, ok := peekKmerLength(tsvPath)
	if !ok {
		checkError(fmt.Errorf("%s: empty k-mer table", tsvPath))
	}
	total := countLines(tsvPath)

	fh, err := xopen.Ropen(tsvPath)
	checkError(err)
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	pbs, bar := newLineProgressBar(total, "reading k-mer table: ")

	if k == hashmap.DirectK {
		buildDirect(scanner, bar, outPrefix, cutoff)
	} else {
		buildMphf(scanner, bar, pfPath, k, outPrefix, cutoff)
	}
	pbs.Wait()
}

func peekKmerLength(tsvPath string) (int, bool) {
	fh, err := xopen.Ropen(tsvPath)
	checkError(err)
	defer fh.Close()

	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			checkError(fmt.Errorf("malformed line (no tab): %q", line))
		}
		return tab, true
	}
	return 0, false
}

func countLines(path string) int {
	fh, err := xopen.Ropen(path)
	checkError(err)
	defer fh.Close()
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
	}
	return n
}

// newLineProgressBar mirrors lib-index-build.go's buildAnIndex progress bar
// (mpb.New, decor.CountersNoUnit, decor.EwmaETA), scaled to a known line
// count rather than a file count.
func newLineProgressBar(total int, label string) (*mpb.Progress, *mpb.Bar) {
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{W: len(label), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.EwmaETA(decor.ET_STYLE_GO, 10),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return pbs, bar
}

func buildDirect(scanner *bufio.Scanner, bar *mpb.Bar, outPrefix string, cutoff uint64) {
	idx := hashmap.NewDirectIndex()

	var nLines, nExcluded int
	for scanner.Scan() {
		bar.Increment()
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		kmerStr, tfVal := splitKmerTFLine(line)

		word, err := dna.Encode([]byte(kmerStr))
		checkError(err)
		canon, _ := dna.Canonicalize(word, hashmap.DirectK)

		if tfVal >= cutoff {
			if idx.AddTF(canon, uint32(tfVal)) {
				checkError(fmt.Errorf("%s: %w", kmerStr, aerrors.ErrBuildOverflow))
			}
		} else {
			nExcluded++
		}
		nLines++
	}
	checkError(scanner.Err())
	logging.Infof("read %d k-mers (%d below cutoff %d, tf recorded as 0)", nLines, nExcluded, cutoff)

	checkError(hashmap.SaveDirectIndex(idx, outPrefix+".tf.bin"))
	logging.Infof("wrote %s.tf.bin (13-mer direct index, no checker array)", outPrefix)
}

func buildMphf(scanner *bufio.Scanner, bar *mpb.Bar, pfPath string, k int, outPrefix string, cutoff uint64) {
	pfFile, err := os.Open(pfPath)
	checkError(err)
	m, err := mphf.Deserialize(bufio.NewReader(pfFile))
	pfFile.Close()
	checkError(err)
	logging.Infof("loaded mphf over %d keys", m.N())

	checker := make([]uint64, m.N())
	tf := make([]uint32, m.N())

	var nLines, nExcluded int
	for scanner.Scan() {
		bar.Increment()
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		kmerStr, tfVal := splitKmerTFLine(line)
		if len(kmerStr) != k {
			checkError(fmt.Errorf("inconsistent k-mer length at line %d: %d, want %d", nLines+1, len(kmerStr), k))
		}

		word, err := dna.Encode([]byte(kmerStr))
		checkError(err)
		canon, _ := dna.Canonicalize(word, k)

		id := m.Lookup(canon)
		if id >= m.N() {
			checkError(fmt.Errorf("k-mer %s resolved outside the mphf's range; pf_file does not match kmer_tf_tsv", kmerStr))
		}
		checker[id] = canon
		if tfVal >= cutoff {
			tf[id] = uint32(tfVal)
		} else {
			nExcluded++
		}
		nLines++
	}
	checkError(scanner.Err())
	logging.Infof("read %d k-mers (%d below cutoff %d, tf recorded as 0)", nLines, nExcluded, cutoff)

	idx := hashmap.NewMphfIndex(k, m, checker, tf)
	checkError(hashmap.SaveMphfIndex(idx, outPrefix+".kmers.bin", outPrefix+".tf.bin"))
	logging.Infof("wrote %s.kmers.bin and %s.tf.bin", outPrefix, outPrefix)
}

func splitKmerTFLine(line string) (string, uint64) {
	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		checkError(fmt.Errorf("malformed line (no tab): %q", line))
	}
	tfVal, err := strconv.ParseUint(line[tab+1:], 10, 32)
	checkError(err)
	return line[:tab], tfVal
}
