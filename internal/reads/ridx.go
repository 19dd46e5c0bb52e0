package reads

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shenwei356/aindexgo/internal/aerrors"
)

// Interval is one (rid, start, end) row of a `.ridx` table: read rid
// occupies the reads blob's half-open byte range [Start, End).
type Interval struct {
	Rid   int
	Start int64
	End   int64
}

// RidxTable is the loaded `.ridx` interval index: starts strictly
// increasing, end_i <= start_{i+1} (half-open intervals may abut),
// rid_i == i (the load-time invariant).
type RidxTable struct {
	rows []Interval
}

// LoadRidxTable reads a tab-separated `(rid, start, end)` table and
// validates the load-time invariant. A violation is CorruptIndex, fatal at
// load.
func LoadRidxTable(path string) (*RidxTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", path)
	}
	defer f.Close()

	rows, err := parseRidx(f)
	if err != nil {
		return nil, err
	}
	if err := validateRidx(rows); err != nil {
		return nil, err
	}
	return &RidxTable{rows: rows}, nil
}

func parseRidx(r io.Reader) ([]Interval, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows []Interval
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
				"ridx line %d: expected 3 tab-separated fields, got %d", lineNo, len(fields))
		}
		rid, err1 := strconv.Atoi(fields[0])
		start, err2 := strconv.ParseInt(fields[1], 10, 64)
		end, err3 := strconv.ParseInt(fields[2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"ridx line %d: malformed integer field", lineNo)
		}
		rows = append(rows, Interval{Rid: rid, Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading ridx")
	}
	return rows, nil
}

func validateRidx(rows []Interval) error {
	for i, row := range rows {
		if row.Rid != i {
			return aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"ridx row %d: rid field is %d, want %d", i, row.Rid, i)
		}
		if row.End <= row.Start {
			return aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"ridx row %d: end %d must be greater than start %d", i, row.End, row.Start)
		}
		if i > 0 && row.Start <= rows[i-1].Start {
			return aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"ridx row %d: start %d not strictly increasing over row %d's start %d", i, row.Start, i-1, rows[i-1].Start)
		}
		// Equality (rows[i-1].End == row.Start) is allowed, not just
		// overlap: a stored interval spans a read's bytes plus its
		// trailing '\n', so consecutive reads legitimately abut.
		if i > 0 && rows[i-1].End > row.Start {
			return aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
				"ridx row %d: end %d overlaps row %d's start %d", i-1, rows[i-1].End, i, row.Start)
		}
	}
	return nil
}

// Len is the number of reads.
func (t *RidxTable) Len() int { return len(t.rows) }

// At returns the interval for rid, which must be in [0, Len()).
func (t *RidxTable) At(rid int) Interval { return t.rows[rid] }

// OffsetToRid implements the general point lookup: binary
// search over start offsets, O(log R).
func (t *RidxTable) OffsetToRid(off int64) (int, bool) {
	i := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].Start > off })
	if i == 0 {
		return 0, false
	}
	i--
	if off >= t.rows[i].End {
		return 0, false
	}
	return i, true
}

// OffsetToRidFromPosition is a specialization usable when the
// offset is known to originate from the positional index: because every
// stored position lies strictly inside some read interval, a binary search
// for the last start <= off suffices and no end comparison is made. An
// offset that lies in a gap yields the preceding row's rid, and one before
// the first start yields -1.
func (t *RidxTable) OffsetToRidFromPosition(off int64) int {
	i := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].Start > off }) - 1
	return i
}
