package reads

import (
	"bytes"

	"github.com/shenwei356/aindexgo/internal/dna"
)

// ReadView is one read's raw bytes and its rid, with the newline stripped.
// For a paired read, Raw still contains the `~` separator; use Subreads to
// split it.
type ReadView struct {
	Rid   int
	Start int64
	End   int64
	Raw   []byte
}

// ReadAt returns the read occupying interval iv within blob, with the
// trailing newline stripped.
func ReadAt(blob *Blob, iv Interval) (ReadView, error) {
	raw, err := blob.Slice(iv.Start, iv.End)
	if err != nil {
		return ReadView{}, err
	}
	if n := len(raw); n > 0 && raw[n-1] == lineSep {
		raw = raw[:n-1]
	}
	return ReadView{Rid: iv.Rid, Start: iv.Start, End: iv.End, Raw: raw}, nil
}

// IsPaired reports whether the read contains the `~` subread separator.
func (v ReadView) IsPaired() bool {
	return bytes.IndexByte(v.Raw, pairSep) >= 0
}

// Subreads splits a paired read into its two subreads. The second subread
// is un-reverse-complemented back to its original orientation, per the
// paired-read storage convention (subread2 is stored revcomped). If the
// read is unpaired, ok is false.
func (v ReadView) Subreads() (sub1, sub2Original []byte, ok bool) {
	i := bytes.IndexByte(v.Raw, pairSep)
	if i < 0 {
		return nil, nil, false
	}
	sub1 = v.Raw[:i]
	stored2 := v.Raw[i+1:]
	sub2Original = dna.ComplementSeq(stored2)
	return sub1, sub2Original, true
}

// StoredSubreads returns the two subreads exactly as stored (second one
// still reverse-complemented), for callers that need byte offsets into the
// blob rather than a logically-restored sequence.
func (v ReadView) StoredSubreads() (sub1, sub2Stored []byte, ok bool) {
	i := bytes.IndexByte(v.Raw, pairSep)
	if i < 0 {
		return nil, nil, false
	}
	return v.Raw[:i], v.Raw[i+1:], true
}
