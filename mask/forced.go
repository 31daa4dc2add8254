package mask

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/numbers"
	"sort"
)

// Forced is a read-only set of known recurrent CNV intervals (common CNVs). Overlapping
// intervals are merged on construction; touching intervals stay separate. A nil *Forced forces nothing.
type Forced struct {
	byChrom map[string][]cnv.Interval
}

// NewForced builds the forced interval set. It returns a DataError for malformed intervals.
func NewForced(intervals []cnv.Interval) (*Forced, error) {
	if err := cnv.ValidateIntervals(intervals); err != nil {
		return nil, err
	}
	sorted := make([]cnv.Interval, len(intervals))
	copy(sorted, intervals)
	cnv.SortIntervals(sorted)

	f := &Forced{byChrom: make(map[string][]cnv.Interval)}
	var last []cnv.Interval
	for _, iv := range sorted {
		last = f.byChrom[iv.Chrom]
		if len(last) > 0 && iv.Start < last[len(last)-1].End {
			last[len(last)-1].End = numbers.Max(last[len(last)-1].End, iv.End)
			continue
		}
		f.byChrom[iv.Chrom] = append(last, iv)
	}
	return f, nil
}

// Len is the number of merged intervals.
func (f *Forced) Len() int {
	if f == nil {
		return 0
	}
	var ans int
	for _, v := range f.byChrom {
		ans += len(v)
	}
	return ans
}

// On returns the merged forced intervals of chrom sorted by start.
func (f *Forced) On(chrom string) []cnv.Interval {
	if f == nil {
		return nil
	}
	return f.byChrom[chrom]
}

// Assign returns the index into On(chrom) of the forced interval that overlaps [start,end)
// by the most bases, or -1 when none overlaps. Ties go to the earlier interval, so a bin
// straddling two touching intervals belongs to the first.
func (f *Forced) Assign(chrom string, start, end int) int {
	ivs := f.On(chrom)
	ans, best := -1, 0
	var ov int
	for i := sort.Search(len(ivs), func(i int) bool { return ivs[i].End > start }); i < len(ivs) && ivs[i].Start < end; i++ {
		ov = numbers.Min(end, ivs[i].End) - numbers.Max(start, ivs[i].Start)
		if ov > best {
			ans, best = i, ov
		}
	}
	return ans
}

// Groups assigns each of the given bins of c to a forced interval with Assign. The result
// is parallel to idx; bins overlapping no forced interval get -1.
func (f *Forced) Groups(c *cnv.Chromosome, idx []int) []int {
	ans := make([]int, len(idx))
	for i, b := range idx {
		ans[i] = f.Assign(c.Name, c.Bins[b].Start, c.Bins[b].End)
	}
	return ans
}

// Breaks returns the positions within idx at which a forced interval begins or ends, i.e.
// every position p > 0 whose forced group differs from that of p-1. Positions are sorted.
func (f *Forced) Breaks(c *cnv.Chromosome, idx []int) []int {
	if len(f.On(c.Name)) == 0 {
		return nil
	}
	groups := f.Groups(c, idx)
	var ans []int
	for p := 1; p < len(groups); p++ {
		if groups[p] != groups[p-1] {
			ans = append(ans, p)
		}
	}
	return ans
}
