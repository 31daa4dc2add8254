// Package wavelets segments bin signals with a multiscale undecimated Haar wavelet
// changepoint detector. Breakpoints are flagged where a scale's coefficient is a local peak
// larger than a multiple of that scale's median absolute deviation.
package wavelets

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/mask"
	"golang.org/x/exp/slices"
	"log"
	"math"
)

const (
	DefaultMadFactor      float64 = 2.0
	DefaultLevels         int     = 3
	DefaultMinSegmentBins int     = 3
	DefaultGermlineFactor float64 = 1.5
	MaxLevels             int     = 30
)

// relativeFloor scales the smallest threshold considered a real step.
const relativeFloor = 1e-9

// Params configures the wavelet segmenter.
type Params struct {
	IsGermline     bool            // germline samples use a stricter threshold (MadFactor * GermlineFactor)
	Forced         *mask.Forced    // forced interval edges are kept as breakpoints
	Exclusion      *mask.Exclusion // excluded bins are skipped and masked regions act as breakpoints
	MadFactor      float64         // threshold in units of each scale's MAD
	Levels         int             // number of scales; scale l has a half window of 2^(l-1) bins
	MinSegmentBins int             // interior segments shorter than this are merged away
	GermlineFactor float64
	Verbose        int
}

// DefaultParams returns the default somatic parameters.
func DefaultParams() Params {
	return Params{
		MadFactor:      DefaultMadFactor,
		Levels:         DefaultLevels,
		MinSegmentBins: DefaultMinSegmentBins,
		GermlineFactor: DefaultGermlineFactor,
	}
}

// Validate returns a ConfigError for out of range parameters.
func (p Params) Validate() error {
	switch {
	case !(p.MadFactor > 0):
		return &cnv.ConfigError{Param: "madFactor", Msg: fmt.Sprintf("must be > 0, got %g", p.MadFactor)}
	case p.Levels < 1 || p.Levels > MaxLevels:
		return &cnv.ConfigError{Param: "levels", Msg: fmt.Sprintf("must be between 1 and %d, got %d", MaxLevels, p.Levels)}
	case p.MinSegmentBins < 1:
		return &cnv.ConfigError{Param: "minSegmentBins", Msg: fmt.Sprintf("must be >= 1, got %d", p.MinSegmentBins)}
	case p.IsGermline && !(p.GermlineFactor > 0):
		return &cnv.ConfigError{Param: "germlineFactor", Msg: fmt.Sprintf("must be > 0, got %g", p.GermlineFactor)}
	}
	return nil
}

func (p Params) factor() float64 {
	if p.IsGermline {
		return p.MadFactor * p.GermlineFactor
	}
	return p.MadFactor
}

// Run segments every chromosome of the series independently. The returned segments are raw
// algorithm output and still need post-processing.
func Run(series *cnv.Series, p Params) (*cnv.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	ans := &cnv.Result{Sample: series.Sample, Chroms: make([]cnv.ChromSegments, len(series.Chroms))}
	for i, c := range series.Chroms {
		ans.Chroms[i] = cnv.ChromSegments{Name: c.Name, Segments: Chromosome(c, p)}
		if p.Verbose > 1 {
			log.Printf("wavelets: %s %s: %d bins, %d segments", series.Sample, c.Name, len(c.Bins), len(ans.Chroms[i].Segments))
		}
	}
	return ans, nil
}

// Chromosome segments one chromosome. Bins overlapping p.Exclusion are left out.
func Chromosome(c *cnv.Chromosome, p Params) []cnv.Segment {
	idx := p.Exclusion.Kept(c)
	if len(idx) == 0 {
		return nil
	}
	y := make([]float64, len(idx))
	for i, b := range idx {
		y[i] = c.Bins[b].Signal
	}
	protected := cnv.UnionSorted(p.Exclusion.Breaks(c, idx), p.Forced.Breaks(c, idx))
	return cnv.SegmentsFromStarts(c, idx, Breakpoints(y, protected, p))
}

// Breakpoints returns the sorted segment start positions of y, always beginning with 0.
// protected positions are always breakpoints and are never merged away.
func Breakpoints(y []float64, protected []int, p Params) []int {
	n := len(y)
	if n < 1<<p.Levels {
		return cnv.UnionSorted([]int{0}, protected)
	}

	ps := cnv.NewPrefixSum(y)
	floor := relativeFloor * (1 + maxAbs(y))
	var accepted []int
	for l := 1; l <= p.Levels; l++ {
		h := 1 << (l - 1)
		c := haarCoefficients(ps, h)
		t := scaleThreshold(c, p.factor(), floor)
		if l == 1 {
			accepted = peaks(c, t)
			continue
		}
		accepted = unify(accepted, peaks(c, t), h)
	}

	starts := cnv.UnionSorted([]int{0}, accepted, protected)
	m := merger{
		ps:        ps,
		protected: protected,
		sigma:     math.Max(cnv.DiffSD(y), floor),
		minT:      p.factor() * math.Sqrt(math.Log(float64(n))),
	}
	starts = m.suppressShort(starts, p.MinSegmentBins)
	return m.mergeWeakSteps(starts)
}

// merger tests candidate breakpoints with a two sample statistic, the step between
// neighbouring segment means in units of its standard error. A step must reach minT,
// which grows with sqrt(log n) so that pure noise of any length stays in one segment.
type merger struct {
	ps        cnv.PrefixSum
	protected []int
	sigma     float64
	minT      float64
}

// stepScore is the step between y[a:b] and y[b:c] divided by its standard error.
func (m merger) stepScore(a, b, c int) float64 {
	n1, n2 := float64(b-a), float64(c-b)
	return math.Abs(m.ps.Mean(a, b)-m.ps.Mean(b, c)) / (m.sigma * math.Sqrt(1/n1+1/n2))
}

// suppressShort removes interior segments shorter than minBins. A short segment whose
// flanks are not separated by a significant step is a transient spike and is absorbed into
// both flanks; otherwise it joins the flank with the closer mean. Breakpoints in protected
// are left alone.
func (m merger) suppressShort(starts []int, minBins int) []int {
	n := len(m.ps) - 1
	for changed := true; changed; {
		changed = false
		for s := 1; s+1 < len(starts); s++ {
			lo, hi := starts[s], starts[s+1]
			if hi-lo >= minBins || isProtected(m.protected, lo) || isProtected(m.protected, hi) {
				continue
			}
			a, c := starts[s-1], end(starts, s+1, n)
			leftMean, rightMean, mean := m.ps.Mean(a, lo), m.ps.Mean(hi, c), m.ps.Mean(lo, hi)
			flankT := math.Abs(leftMean-rightMean) / (m.sigma * math.Sqrt(1/float64(lo-a)+1/float64(c-hi)))
			switch {
			case flankT < m.minT:
				starts = slices.Delete(starts, s, s+2)
			case math.Abs(mean-leftMean) <= math.Abs(mean-rightMean):
				starts = slices.Delete(starts, s, s+1)
			default:
				starts = slices.Delete(starts, s+1, s+2)
			}
			changed = true
			break
		}
	}
	return starts
}

// mergeWeakSteps repeatedly removes the unprotected breakpoint with the weakest step score
// while that score is below minT. Short segments at either end of the signal survive only
// when their step is significant for their length.
func (m merger) mergeWeakSteps(starts []int) []int {
	n := len(m.ps) - 1
	for {
		best := -1
		bestT := math.Inf(1)
		for s := 1; s < len(starts); s++ {
			if isProtected(m.protected, starts[s]) {
				continue
			}
			if t := m.stepScore(starts[s-1], starts[s], end(starts, s, n)); t < bestT {
				best, bestT = s, t
			}
		}
		if best < 0 || bestT >= m.minT {
			return starts
		}
		starts = slices.Delete(starts, best, best+1)
	}
}
func end(starts []int, s, n int) int {
	if s+1 < len(starts) {
		return starts[s+1]
	}
	return n
}

func isProtected(protected []int, pos int) bool {
	_, found := slices.BinarySearch(protected, pos)
	return found
}

func maxAbs(y []float64) float64 {
	var ans float64
	for i := range y {
		if math.Abs(y[i]) > ans {
			ans = math.Abs(y[i])
		}
	}
	return ans
}
