// Package cbs implements circular binary segmentation. A window of bins is split where the
// maximal arc statistic is significant under a permutation test, and the pieces are
// segmented recursively.
package cbs

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/numbers"
	"golang.org/x/exp/rand"
	"hash/fnv"
	"log"
	"math"
)

// tieTolerance is the relative slack used when comparing permuted statistics to the observed one.
const tieTolerance = 1e-12

// fullScanBins is the largest window searched over every arc. Larger windows only test
// arcs narrower than MaxArcWidth or wider than the window minus MaxArcWidth.
const fullScanBins = 200

// Run segments every chromosome of the series. Each chromosome draws permutations from its
// own generator seeded from p.Seed and the chromosome's name, so results do not depend
// on the order or the set of chromosomes in the series.
func Run(series *cnv.Series, p Params) (*cnv.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	sd := GenomeSD(series)
	ans := &cnv.Result{Sample: series.Sample, Chroms: make([]cnv.ChromSegments, len(series.Chroms))}
	for i, c := range series.Chroms {
		ans.Chroms[i] = cnv.ChromSegments{Name: c.Name, Segments: Chromosome(c, p, sd, ChromSeed(p.Seed, c.Name))}
		if p.Verbose > 1 {
			log.Printf("cbs: %s %s: %d bins, %d segments", series.Sample, c.Name, len(c.Bins), len(ans.Chroms[i].Segments))
		}
	}
	return ans, nil
}

// ChromSeed derives the permutation seed of the named chromosome.
func ChromSeed(seed uint64, name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ h.Sum64()
}

// GenomeSD is the robust noise estimate used by UndoSD: the scaled MAD of first
// differences pooled over every chromosome, never differencing across chromosomes.
func GenomeSD(series *cnv.Series) float64 {
	var d []float64
	for _, c := range series.Chroms {
		for i := 1; i < len(c.Bins); i++ {
			d = append(d, c.Bins[i].Signal-c.Bins[i-1].Signal)
		}
	}
	if len(d) == 0 {
		return 0
	}
	return cnv.RobustSD(d) / math.Sqrt2
}

// Chromosome segments one chromosome. sd is the genome-wide noise estimate for UndoSD.
func Chromosome(c *cnv.Chromosome, p Params, sd float64, seed uint64) []cnv.Segment {
	idx := p.Exclusion.Kept(c)
	if len(idx) == 0 {
		return nil
	}
	y := make([]float64, len(idx))
	for i, b := range idx {
		y[i] = c.Bins[b].Signal
	}
	windows := cnv.UnionSorted(p.Exclusion.Breaks(c, idx), gapBreaks(c, idx, p.MaxInterBinDistInSegment))

	s := &segmenter{
		y:        y,
		alpha:    p.Alpha,
		nPerm:    p.NPerm,
		minWidth: p.MinWidth,
		maxWidth: p.MaxArcWidth,
		rng:      rand.New(rand.NewSource(seed)),
	}
	starts := []int{0}
	lo := 0
	for _, hi := range append(windows, len(y)) {
		if lo > 0 {
			starts = append(starts, lo)
		}
		s.split(lo, hi)
		starts = append(starts, s.cuts...)
		s.cuts = s.cuts[:0]
		lo = hi
	}
	starts = cnv.UnionSorted(starts)

	switch p.Undo {
	case UndoPrune:
		starts = prune(y, starts, windows, p.PruneAlpha, sd)
	case UndoSD:
		starts = undoSD(y, starts, windows, p.UndoSD*sd)
	}
	return cnv.SegmentsFromStarts(c, idx, starts)
}

// gapBreaks returns the positions within idx where consecutive bins are more than maxDist
// apart. A negative maxDist disables gap breaks.
func gapBreaks(c *cnv.Chromosome, idx []int, maxDist int) []int {
	if maxDist < 0 {
		return nil
	}
	var ans []int
	for p := 1; p < len(idx); p++ {
		if c.Bins[idx[p]].Start-c.Bins[idx[p-1]].End > maxDist {
			ans = append(ans, p)
		}
	}
	return ans
}

type segmenter struct {
	y        []float64
	alpha    float64
	nPerm    int
	minWidth int
	maxWidth int // arc width cap for windows over fullScanBins; 0 scans every arc
	rng      *rand.Rand
	cuts     []int     // accepted cut positions, in discovery order
	buf      []float64 // permutation scratch
	sums     []float64 // partial sum scratch
}

// split recursively segments y[lo:hi], appending accepted cut positions to s.cuts.
func (s *segmenter) split(lo, hi int) {
	if hi-lo < 2*s.minWidth {
		return
	}
	x := s.y[lo:hi]
	if !hasVariance(x) {
		return
	}
	obs, i, j := s.maxArc(x)
	if i < 0 || !s.significant(x, obs) {
		return
	}
	m := hi - lo
	if i > 0 {
		s.cuts = append(s.cuts, lo+i)
		s.split(lo, lo+i)
	}
	if j < m {
		s.cuts = append(s.cuts, lo+j)
	}
	s.split(lo+i, lo+j)
	if j < m {
		s.split(lo+j, hi)
	}
}

// maxArc returns the largest arc statistic of x and the arc [i,j) it belongs to. i is -1
// when no arc satisfies the width constraints. Ties go to the lowest i, then the lowest j.
// In windows longer than fullScanBins with a width cap, arcs touching either end of x are
// always scanned and interior arcs only when they or their complement are at most
// s.maxWidth bins, which keeps the scan linear in the window length.
func (s *segmenter) maxArc(x []float64) (best float64, bi, bj int) {
	m := len(x)
	if cap(s.sums) < m+1 {
		s.sums = make([]float64, m+1)
	}
	sums := s.sums[:m+1]
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(m)
	sums[0] = 0
	for k := range x {
		sums[k+1] = sums[k] + x[k] - mean
	}

	bi, bj = -1, -1
	best = -1
	capped := s.maxWidth > 0 && m > fullScanBins
	var k int
	var t float64
	for i := 0; i < m; i++ {
		if i > 0 && i < s.minWidth {
			continue
		}
		for j := i + s.minWidth; j <= m; j++ {
			if j < m && m-j < s.minWidth {
				continue
			}
			k = j - i
			if m-k < s.minWidth {
				continue
			}
			if capped && i > 0 && j < m && k > s.maxWidth && m-k > s.maxWidth {
				// skip to the first arc whose complement is narrow enough, or to j == m
				j = numbers.Min(i+m-s.maxWidth, m) - 1
				continue
			}
			t = math.Abs(sums[j]-sums[i]) / math.Sqrt(float64(k)*float64(m-k)/float64(m))
			if t > best {
				best, bi, bj = t, i, j
			}
		}
	}
	return best, bi, bj
}

// significant runs the permutation test for the observed statistic of x. It stops as soon
// as enough permutations reach the observed value to rule out significance.
func (s *segmenter) significant(x []float64, obs float64) bool {
	if cap(s.buf) < len(x) {
		s.buf = make([]float64, len(x))
	}
	buf := s.buf[:len(x)]
	copy(buf, x)
	limit := s.alpha * float64(s.nPerm)
	threshold := obs * (1 - tieTolerance)
	var count int
	for r := 0; r < s.nPerm; r++ {
		s.rng.Shuffle(len(buf), func(a, b int) { buf[a], buf[b] = buf[b], buf[a] })
		if t, _, _ := s.maxArc(buf); t >= threshold {
			count++
			if float64(count) >= limit {
				return false
			}
		}
	}
	return float64(count)/float64(s.nPerm) < s.alpha
}

// hasVariance reports whether x holds at least two distinguishable values.
func hasVariance(x []float64) bool {
	scale := 1.0
	for i := range x {
		if math.Abs(x[i]) > scale {
			scale = math.Abs(x[i])
		}
	}
	for i := 1; i < len(x); i++ {
		if math.Abs(x[i]-x[0]) > 1e-12*scale {
			return true
		}
	}
	return false
}
