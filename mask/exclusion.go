// Package mask implements the two interval sets that constrain segmentation: exclusion
// regions that no segment may span, and forced regions whose edges must appear as
// segment boundaries.
package mask

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/interval"
)

// Exclusion is a read-only set of excluded genomic intervals backed by an interval tree.
// A nil *Exclusion excludes nothing.
type Exclusion struct {
	tree map[string]*interval.IntervalNode
	n    int
}

// NewExclusion builds an exclusion mask. It returns a DataError for malformed intervals.
func NewExclusion(intervals []cnv.Interval) (*Exclusion, error) {
	if err := cnv.ValidateIntervals(intervals); err != nil {
		return nil, err
	}
	e := &Exclusion{n: len(intervals)}
	if len(intervals) == 0 {
		return e, nil
	}
	ivs := make([]interval.Interval, len(intervals))
	for i := range intervals {
		ivs[i] = intervals[i]
	}
	e.tree = interval.BuildTree(ivs)
	return e, nil
}

// Len is the number of intervals in the mask.
func (e *Exclusion) Len() int {
	if e == nil {
		return 0
	}
	return e.n
}

// Overlaps reports whether any excluded interval shares a base with [start, end) on chrom.
func (e *Exclusion) Overlaps(chrom string, start, end int) bool {
	if e == nil || start >= end || e.tree[chrom] == nil {
		return false
	}
	q := cnv.Interval{Chrom: chrom, Start: start, End: end}
	for _, hit := range interval.Query(e.tree, q, "any") {
		// the tree is used as a coarse filter; half-open overlap is confirmed here
		if hit.GetChromStart() < end && start < hit.GetChromEnd() {
			return true
		}
	}
	return false
}

// Kept returns the indices of the bins of c that do not overlap an excluded interval.
func (e *Exclusion) Kept(c *cnv.Chromosome) []int {
	ans := make([]int, 0, len(c.Bins))
	for i := range c.Bins {
		if e.Overlaps(c.Name, c.Bins[i].Start, c.Bins[i].End) {
			continue
		}
		ans = append(ans, i)
	}
	return ans
}

// Separates reports whether kept bins a < b of c must lie in different segments: either
// bins between them were dropped, or an excluded interval falls in the gap between them.
func (e *Exclusion) Separates(c *cnv.Chromosome, a, b int) bool {
	if e == nil {
		return false
	}
	if b-a > 1 {
		for i := a + 1; i < b; i++ {
			if e.Overlaps(c.Name, c.Bins[i].Start, c.Bins[i].End) {
				return true
			}
		}
	}
	return e.Overlaps(c.Name, c.Bins[a].End, c.Bins[b].Start)
}

// Breaks returns the positions p within idx (a sorted subset of bin indices of c, as
// returned by Kept) where idx[p-1] and idx[p] are separated by the mask.
func (e *Exclusion) Breaks(c *cnv.Chromosome, idx []int) []int {
	if e.Len() == 0 {
		return nil
	}
	var ans []int
	for p := 1; p < len(idx); p++ {
		if e.Separates(c, idx[p-1], idx[p]) {
			ans = append(ans, p)
		}
	}
	return ans
}
