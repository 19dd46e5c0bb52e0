package reads

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/shenwei356/aindexgo/internal/aerrors"
)

// HeaderRow is one line of a `.header` table: the original FASTA record
// identifier for a run of reads occupying [Start, Start+Length) rids.
type HeaderRow struct {
	Header string
	Start  int
	Length int
}

// HeaderTable is the FASTA-only `.header` sidecar, loaded the
// same way as RidxTable — one fixed-shape record per line — grounded on
// kv.ReadKVIndex's "read fixed records into a slice" pattern.
type HeaderTable struct {
	rows []HeaderRow
}

// LoadHeaderTable reads a `<header>\t<start>\t<length>` table.
func LoadHeaderTable(path string) (*HeaderTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows []HeaderRow
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"header line %d: expected 3 tab-separated fields, got %d", lineNo, len(fields))
		}
		start, err1 := strconv.Atoi(fields[1])
		length, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"header line %d: malformed integer field", lineNo)
		}
		rows = append(rows, HeaderRow{Header: fields[0], Start: start, Length: length})
	}
	if err := sc.Err(); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading header table")
	}
	return &HeaderTable{rows: rows}, nil
}

// Len is the number of records.
func (t *HeaderTable) Len() int { return len(t.rows) }

// RidToHeader returns the header row covering rid, if any.
func (t *HeaderTable) RidToHeader(rid int) (HeaderRow, bool) {
	for _, row := range t.rows {
		if rid >= row.Start && rid < row.Start+row.Length {
			return row, true
		}
	}
	return HeaderRow{}, false
}
