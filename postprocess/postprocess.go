// Package postprocess is the pass shared by every segmentation algorithm. It splits
// segments at large gaps between bins, removes excluded bins and forbids segments from
// spanning excluded regions, and inserts forced intervals as segments of their own.
package postprocess

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/mask"
)

// keptBin is one surviving bin in chromosome order along with why a segment may start at it.
type keptBin struct {
	idx   int  // index into Chromosome.Bins
	hard  bool // gap or exclusion split before this bin; never removed
	soft  bool // algorithmic breakpoint before this bin
	state int  // state of the raw segment the bin came from
	group int  // forced interval the bin is assigned to, or -1
}

// Apply post-processes the raw segments of one chromosome. Steps run in order:
//
//	(a) when maxInterBinDist >= 0 a segment is split wherever the distance between two
//	    consecutive bins exceeds it; a negative value disables gap splitting.
//	(b) bins overlapping ex are dropped and segments are split wherever an excluded
//	    interval lies between two kept bins.
//	(c) every kept bin overlapping a forced interval is assigned to the interval it
//	    overlaps most (the earlier one on ties). Each forced interval with at least one
//	    assigned bin becomes its own segment with edges at the interval's start and end,
//	    and neighbouring segments not separated from it by a gap or an excluded region
//	    end or begin exactly at those edges.
//
// Summary statistics of every returned segment are computed over its own bins only.
func Apply(c *cnv.Chromosome, raw []cnv.Segment, ex *mask.Exclusion, forced *mask.Forced, maxInterBinDist int) []cnv.Segment {
	kept := flatten(c, raw, ex, maxInterBinDist)
	if len(kept) == 0 {
		return nil
	}

	ivs := forced.On(c.Name)
	if len(ivs) > 0 {
		for k := range kept {
			b := c.Bins[kept[k].idx]
			kept[k].group = forced.Assign(c.Name, b.Start, b.End)
		}
	}

	var ans []cnv.Segment
	var joined []bool // segment i follows segment i-1 without a hard split
	var first int
	for k := 1; k <= len(kept); k++ {
		if k < len(kept) && !startsSegment(kept, k) {
			continue
		}
		ans = append(ans, build(c, kept, first, k, ivs, ex))
		joined = append(joined, first > 0 && !kept[first].hard)
		first = k
	}
	alignForcedEdges(ans, joined)
	return ans
}

// ApplyResult runs Apply on every chromosome of raw, looking bins up in series.
func ApplyResult(series *cnv.Series, raw *cnv.Result, ex *mask.Exclusion, forced *mask.Forced, maxInterBinDist int) *cnv.Result {
	ans := &cnv.Result{Sample: raw.Sample, Chroms: make([]cnv.ChromSegments, len(raw.Chroms))}
	for i := range raw.Chroms {
		ans.Chroms[i].Name = raw.Chroms[i].Name
		c := series.Chrom(raw.Chroms[i].Name)
		if c == nil {
			continue
		}
		ans.Chroms[i].Segments = Apply(c, raw.Chroms[i].Segments, ex, forced, maxInterBinDist)
	}
	return ans
}

// flatten lays the bins of all raw segments out in order, applying steps (a) and (b).
func flatten(c *cnv.Chromosome, raw []cnv.Segment, ex *mask.Exclusion, maxInterBinDist int) []keptBin {
	ans := make([]keptBin, 0, len(c.Bins))
	var prev int
	for s := range raw {
		for j, b := range raw[s].Bins {
			if ex.Overlaps(c.Name, c.Bins[b].Start, c.Bins[b].End) {
				continue
			}
			k := keptBin{idx: b, soft: j == 0, state: raw[s].State, group: -1}
			if len(ans) > 0 {
				prev = ans[len(ans)-1].idx
				switch {
				case b != prev+1: // dropped or uncovered bins in between
					k.hard = true
				case maxInterBinDist >= 0 && c.Bins[b].Start-c.Bins[prev].End > maxInterBinDist:
					k.hard = true
				case ex.Separates(c, prev, b):
					k.hard = true
				}
			}
			ans = append(ans, k)
		}
	}
	return ans
}

func startsSegment(kept []keptBin, k int) bool {
	switch {
	case kept[k].hard:
		return true
	case kept[k].group != kept[k-1].group:
		return true
	case kept[k].group >= 0:
		// algorithmic breaks inside a forced interval are removed
		return false
	default:
		return kept[k].soft
	}
}

// build makes a segment from kept[first:end].
func build(c *cnv.Chromosome, kept []keptBin, first, end int, ivs []cnv.Interval, ex *mask.Exclusion) cnv.Segment {
	idx := make([]int, 0, end-first)
	states := make(map[int]int)
	for k := first; k < end; k++ {
		idx = append(idx, kept[k].idx)
		states[kept[k].state]++
	}
	seg := cnv.NewSegment(c, idx)
	seg.State = modeState(kept[first:end], states)

	g := kept[first].group
	if g < 0 {
		return seg
	}
	seg.Forced = true
	iv := ivs[g]
	firstBin := c.Bins[idx[0]]
	lastBin := c.Bins[idx[len(idx)-1]]
	if first == 0 || kept[first-1].group != g {
		if iv.Start >= firstBin.Start || !ex.Overlaps(c.Name, iv.Start, firstBin.Start) {
			seg.Start = iv.Start
		}
	}
	if end == len(kept) || kept[end].group != g {
		if iv.End <= lastBin.End || !ex.Overlaps(c.Name, lastBin.End, iv.End) {
			seg.End = iv.End
		}
	}
	return seg
}

// modeState picks the most common state among the bins, preferring the earliest on ties.
func modeState(kept []keptBin, counts map[int]int) int {
	best := kept[0].state
	for k := range kept {
		if counts[kept[k].state] > counts[best] {
			best = kept[k].state
		}
	}
	return best
}

// alignForcedEdges moves the edge of every segment that directly follows or precedes a
// forced segment onto the forced edge. Neighbours across a hard split keep their bin edges.
func alignForcedEdges(segs []cnv.Segment, joined []bool) {
	for i := 1; i < len(segs); i++ {
		if !joined[i] {
			continue
		}
		a, b := &segs[i-1], &segs[i]
		switch {
		case b.Forced && !a.Forced:
			a.End = b.Start
		case a.Forced && !b.Forced:
			b.Start = a.End
		}
	}
}
