// Command compute-reads assembles a `.reads` blob, its `.ridx` interval
// table, and (FASTA input only) a `.header` provenance table, per
// the compute_reads command's contract. Paired input is joined per the
// paired-read storage convention: subread1 + `~` + reverse_complement
// (subread2), one read per line.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shenwei356/aindexgo/internal/config"
	"github.com/shenwei356/aindexgo/internal/logging"
	"github.com/shenwei356/aindexgo/internal/readsbuild"
)

func usage() {
	fmt.Fprintf(os.Stderr, `
Assemble a reads blob and its interval/header side tables.

Usage: %s <in1> <in2|-> <fastq|fasta|se> <out.reads> [force]

  in1        first (or only) input file; gzip-compressed input is detected
             automatically
  in2        second-mate input file for paired fastq, or "-" for
             single-end/fasta input
  format     fastq, fasta, or se (in1 is already one raw sequence per line)
  out.reads  output reads blob path; <out.reads> with its extension
             replaced writes the matching .ridx, and for fasta the
             matching .header
  force      if "1", wipe out.reads's directory if it already exists and
             is non-empty; otherwise a non-empty output directory is an
             error, so a build never silently overwrites another build's
             files
`, filepath.Base(os.Args[0]))
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	if len(os.Args) != 5 && len(os.Args) != 6 {
		usage()
		os.Exit(1)
	}

	in1 := os.Args[1]
	in2 := os.Args[2]
	formatStr := os.Args[3]
	outReads := os.Args[4]
	force := len(os.Args) == 6 && os.Args[5] == "1"

	format, err := readsbuild.ParseFormat(formatStr)
	checkError(err)

	logging.Banner("compute-reads")

	checkError(config.EnsureOutputDir(filepath.Dir(outReads), force))

	records, err := readsbuild.ReadAll(in1, in2, format)
	checkError(err)
	logging.Infof("read %d records from %s", len(records), in1)

	base := strings.TrimSuffix(outReads, filepath.Ext(outReads))
	ridxPath := base + ".ridx"
	headerPath := base + ".header"

	checkError(writeReadsAndRidx(records, outReads, ridxPath))
	logging.Infof("wrote %s and %s", outReads, ridxPath)

	if format == readsbuild.FASTA {
		checkError(writeHeaders(records, headerPath))
		logging.Infof("wrote %s", headerPath)
	}
}

// writeReadsAndRidx writes one record per line to outReads and a matching
// `rid\tstart\tend` row per line to ridxPath, tracking byte offsets as it
// goes so a single pass produces both files. Both are written to ".tmp"
// siblings and renamed into place only once both writes succeed, so a
// build killed mid-pass never leaves one final-named file without its
// matching half.
func writeReadsAndRidx(records []readsbuild.Record, outReads, ridxPath string) (err error) {
	outReadsTmp := outReads + ".tmp"
	ridxPathTmp := ridxPath + ".tmp"

	rf, err := os.Create(outReadsTmp)
	if err != nil {
		return err
	}
	rw := bufio.NewWriter(rf)

	xf, err := os.Create(ridxPathTmp)
	if err != nil {
		rf.Close()
		os.Remove(outReadsTmp)
		return err
	}
	xw := bufio.NewWriter(xf)

	defer func() {
		if err != nil {
			rf.Close()
			xf.Close()
			os.Remove(outReadsTmp)
			os.Remove(ridxPathTmp)
		}
	}()

	var offset int64
	for rid, rec := range records {
		start := offset
		if _, err = rw.Write(rec.Bytes); err != nil {
			return err
		}
		if _, err = rw.Write([]byte{'\n'}); err != nil {
			return err
		}
		offset += int64(len(rec.Bytes)) + 1

		if _, err = fmt.Fprintf(xw, "%d\t%d\t%d\n", rid, start, offset); err != nil {
			return err
		}
	}

	if err = rw.Flush(); err != nil {
		return err
	}
	if err = xw.Flush(); err != nil {
		return err
	}
	if err = rf.Close(); err != nil {
		return err
	}
	if err = xf.Close(); err != nil {
		return err
	}
	if err = os.Rename(outReadsTmp, outReads); err != nil {
		return err
	}
	if err = os.Rename(ridxPathTmp, ridxPath); err != nil {
		return err
	}
	return nil
}

// writeHeaders writes the FASTA provenance table: each record maps to
// exactly one read, so start==rid and length is always 1.
func writeHeaders(records []readsbuild.Record, headerPath string) (err error) {
	tmp := headerPath + ".tmp"
	hf, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			hf.Close()
			os.Remove(tmp)
		}
	}()
	hw := bufio.NewWriter(hf)

	for rid, rec := range records {
		if _, err = fmt.Fprintf(hw, "%s\t%s\t%d\n", rec.Header, strconv.Itoa(rid), 1); err != nil {
			return err
		}
	}
	if err = hw.Flush(); err != nil {
		return err
	}
	if err = hf.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, headerPath)
}
