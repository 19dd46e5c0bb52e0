// Package readsbuild implements the minimal FASTA/FASTQ/pre-split raw-line
// reader needed to produce a `.reads` blob, its `.ridx` interval table,
// and (FASTA only) a `.header` table, for the compute_reads command's
// contract. It does not attempt general-purpose sequence-format
// validation — the format parsers, k-mer enumerator, and downstream
// analysis wrappers remain external collaborators.
package readsbuild

import (
	"bufio"
	"strings"

	"github.com/shenwei356/xopen"

	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/dna"
)

// Format selects how the two input files are interpreted.
type Format int

const (
	// SE treats in1 as already-split single-end reads, one raw sequence
	// per line; in2 is ignored.
	SE Format = iota
	// FASTQ reads 4-line records from in1, and from in2 if it is not "-"
	// (in which case the pair is joined per the paired-read storage convention).
	FASTQ
	// FASTA reads multi-line records from in1; each record becomes
	// exactly one read, its full sequence with internal newlines removed.
	FASTA
)

// ParseFormat maps the compute_reads CLI's format token to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "se":
		return SE, nil
	case "fastq":
		return FASTQ, nil
	case "fasta":
		return FASTA, nil
	default:
		return 0, aerrors.New(aerrors.KindIO, "unknown format "+s+" (want fastq, fasta, or se)")
	}
}

// Record is one written read: its raw stored bytes (already joined with
// `~` and revcomped for pairs) and, for FASTA input, the
// header it came from.
type Record struct {
	Bytes  []byte
	Header string // empty unless FASTA
}

// ReadAll reads in1 (and in2, for paired FASTQ) under the given format and
// returns one Record per read, in file order.
func ReadAll(in1, in2 string, format Format) ([]Record, error) {
	switch format {
	case SE:
		return readSE(in1)
	case FASTQ:
		return readFASTQ(in1, in2)
	case FASTA:
		return readFASTA(in1)
	default:
		return nil, aerrors.New(aerrors.KindIO, "unknown format")
	}
}

func readSE(in1 string) ([]Record, error) {
	lines, err := readLines(in1)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(lines))
	for _, l := range lines {
		if l == "" {
			continue
		}
		out = append(out, Record{Bytes: []byte(l)})
	}
	return out, nil
}

func readFASTQ(in1, in2 string) ([]Record, error) {
	seqs1, err := fastqSeqs(in1)
	if err != nil {
		return nil, err
	}
	if in2 == "" || in2 == "-" {
		out := make([]Record, len(seqs1))
		for i, s := range seqs1 {
			out[i] = Record{Bytes: s}
		}
		return out, nil
	}

	seqs2, err := fastqSeqs(in2)
	if err != nil {
		return nil, err
	}
	if len(seqs1) != len(seqs2) {
		return nil, aerrors.Wrapf(aerrors.KindIO, aerrors.ErrCorruptIndex,
			"paired FASTQ inputs have different record counts: %d vs %d", len(seqs1), len(seqs2))
	}

	out := make([]Record, len(seqs1))
	for i := range seqs1 {
		stored2 := dna.ComplementSeq(seqs2[i])
		raw := make([]byte, 0, len(seqs1[i])+1+len(stored2))
		raw = append(raw, seqs1[i]...)
		raw = append(raw, '~')
		raw = append(raw, stored2...)
		out[i] = Record{Bytes: raw}
	}
	return out, nil
}

func fastqSeqs(path string) ([][]byte, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", path)
	}
	defer fh.Close()

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out [][]byte
	lineNo := 0
	for sc.Scan() {
		if lineNo%4 == 1 {
			seq := make([]byte, len(sc.Bytes()))
			copy(seq, sc.Bytes())
			out = append(out, seq)
		}
		lineNo++
	}
	if err := sc.Err(); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading %s", path)
	}
	if lineNo%4 != 0 {
		return nil, aerrors.Wrapf(aerrors.KindIO, aerrors.ErrCorruptIndex, "%s: truncated FASTQ record", path)
	}
	return out, nil
}

func readFASTA(in1 string) ([]Record, error) {
	fh, err := xopen.Ropen(in1)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", in1)
	}
	defer fh.Close()

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []Record
	var curHeader string
	var curSeq strings.Builder
	flush := func() {
		if curHeader == "" {
			return
		}
		out = append(out, Record{Bytes: []byte(curSeq.String()), Header: curHeader})
		curSeq.Reset()
	}

	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			curHeader = strings.TrimSpace(strings.TrimPrefix(line, ">"))
			continue
		}
		curSeq.WriteString(strings.TrimSpace(line))
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading %s", in1)
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", path)
	}
	defer fh.Close()

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []string
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}
