package reads

import (
	"github.com/rdleal/intervalst/interval"
)

// IntervalIndex is an alternate, independent implementation of the
// offset->rid resolver backed by an interval search tree instead of a
// plain sorted-array binary search. Production code uses RidxTable's
// binary search (the production resolver); this type exists
// so property tests can cross-check the two against each other over the
// same fixture (§8) rather than trusting one implementation's own
// self-consistency.
type IntervalIndex struct {
	tree *interval.SearchTree[int, int64]
}

// NewIntervalIndex builds an interval tree over the same rows a RidxTable
// was validated from.
func NewIntervalIndex(rows []Interval) *IntervalIndex {
	cmpFn := func(x, y int64) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	tree := interval.NewSearchTree[int, int64](cmpFn)
	for _, row := range rows {
		// the tree's intervals are closed; a row covers [Start, End).
		tree.Insert(row.Start, row.End-1, row.Rid)
	}
	return &IntervalIndex{tree: tree}
}

// OffsetToRid returns the rid whose interval contains off, if any.
func (idx *IntervalIndex) OffsetToRid(off int64) (int, bool) {
	return idx.tree.AnyIntersection(off, off)
}
