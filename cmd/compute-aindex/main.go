// Command compute-aindex builds the positional inverted index — indices.bin
// and pos.bin — over a reads blob and a pre-built hash-map index, plus the
// .aindex.json provenance sidecar recording the max_tf cap mode used at
// build time.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shenwei356/aindexgo/internal/config"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/logging"
	"github.com/shenwei356/aindexgo/internal/posbuild"
	"github.com/shenwei356/aindexgo/internal/reads"
)

const builderVersion = "aindexgo-compute-aindex/1"

func usage() {
	fmt.Fprintf(os.Stderr, `
Build the positional inverted index over a reads blob.

Usage: %s <reads> <pf> <kmers_prefix> <out_prefix> <threads> <k> <tf_file> [config_file]

  reads         .reads blob produced by compute-reads
  pf            minimal perfect hash function (.pf); ignored at k=13
  kmers_prefix  prefix such that <kmers_prefix>.kmers.bin is the checker
                array; ignored at k=13, where the identity map needs no
                checker
  out_prefix    output path prefix; writes <out_prefix>.indices.bin,
                <out_prefix>.pos.bin, and <out_prefix>.aindex.json
  threads       worker count for the parallel scan (0 means AINDEX_THREADS,
                or NumCPU if that is unset)
  k             k-mer length; 13 selects the direct-indexing path
  tf_file       previously-built .tf.bin term-frequency array
  config_file   optional aindex.toml providing BuildDefaults.MaxTF/CapMode;
                a missing path or omitted argument means uncapped
`, filepath.Base(os.Args[0]))
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	if len(os.Args) != 8 && len(os.Args) != 9 {
		usage()
		os.Exit(1)
	}

	readsPath := os.Args[1]
	pfPath := os.Args[2]
	kmersPrefix := os.Args[3]
	outPrefix := os.Args[4]

	threadsArg, err := strconv.Atoi(os.Args[5])
	checkError(err)
	threads := config.ResolveThreads(threadsArg)

	k, err := strconv.Atoi(os.Args[6])
	checkError(err)

	tfPath := os.Args[7]

	cfgPath := ""
	if len(os.Args) == 9 {
		cfgPath = os.Args[8]
	}
	defaults, err := config.Load(cfgPath)
	checkError(err)

	logging.Banner("compute-aindex")
	if defaults.MaxTF > 0 {
		logging.Infof("max_tf cap %d (%s) from %s", defaults.MaxTF, defaults.CapMode, cfgPath)
	}

	blob, err := reads.OpenBlob(readsPath)
	checkError(err)
	defer blob.Close()

	var idx hashmap.Index
	if k == hashmap.DirectK {
		idx, err = hashmap.LoadDirectIndex(tfPath)
		checkError(err)
	} else {
		idx, err = hashmap.LoadMphfIndex(pfPath, kmersPrefix+".kmers.bin", tfPath, k)
		checkError(err)
	}
	defer idx.Close()
	logging.Infof("loaded index over %d k-mers (k=%d)", idx.N(), idx.K())

	opts := posbuild.Options{Workers: threads, MaxTF: defaults.MaxTF}
	indices := posbuild.Indices(idx.TF())
	sumTF := indices[len(indices)-1]

	positions := make([]uint64, sumTF)
	posbuild.Fill(idx, blob.Bytes(), indices, positions, opts)
	logging.Infof("filled %d positions across %d k-mer ids", sumTF, idx.N())

	checkError(hashmap.WriteUint64sLE(outPrefix+".indices.bin", indices))
	checkError(hashmap.WriteUint64sLE(outPrefix+".pos.bin", positions))
	logging.Infof("wrote %s.indices.bin and %s.pos.bin", outPrefix, outPrefix)

	capMode := "none"
	if opts.MaxTF > 0 {
		capMode = defaults.CapMode
		if capMode == "" {
			capMode = "truncate"
		}
	}
	checkError(config.WriteBuildProvenance(outPrefix+".aindex.json", config.BuildProvenance{
		K:          k,
		N:          idx.N(),
		SumTF:      sumTF,
		MaxTF:      opts.MaxTF,
		CapMode:    capMode,
		Threads:    threads,
		BuilderVer: builderVersion,
	}))
	logging.Infof("wrote %s.aindex.json", outPrefix)
}
