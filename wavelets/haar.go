package wavelets

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/numbers"
	"math"
)

// haarCoefficients computes the undecimated Haar wavelet coefficient at every interior bin
// boundary for a half window of h bins. c[i] measures the step between bins i-1 and i:
//
//	c[i] = (mean(y[i:i+h]) - mean(y[i-h:i])) * sqrt(h/2)
//
// Windows are clipped at the ends of the signal. c[0] is always 0.
func haarCoefficients(ps cnv.PrefixSum, h int) []float64 {
	n := len(ps) - 1
	c := make([]float64, n)
	scale := math.Sqrt(float64(h) / 2)
	var left, right int
	for i := 1; i < n; i++ {
		left = numbers.Max(0, i-h)
		right = numbers.Min(n, i+h)
		c[i] = (ps.Mean(i, right) - ps.Mean(left, i)) * scale
	}
	return c
}

// peaks returns the boundaries whose coefficient magnitude is a local maximum and exceeds
// threshold. On plateaus the leftmost boundary wins.
func peaks(c []float64, threshold float64) []int {
	var ans []int
	var curr, left, right float64
	for i := 1; i < len(c); i++ {
		curr = math.Abs(c[i])
		if curr <= threshold {
			continue
		}
		left, right = 0, 0
		if i > 1 {
			left = math.Abs(c[i-1])
		}
		if i+1 < len(c) {
			right = math.Abs(c[i+1])
		}
		if curr > left && curr >= right {
			ans = append(ans, i)
		}
	}
	return ans
}

// unify adds coarse scale peaks to the accepted breakpoints unless an accepted breakpoint
// already lies within window bins. accepted must be sorted; the result is sorted.
func unify(accepted, coarse []int, window int) []int {
	var add []int
	for _, p := range coarse {
		if !near(accepted, p, window) {
			add = append(add, p)
		}
	}
	return cnv.UnionSorted(accepted, add)
}

func near(sorted []int, p, window int) bool {
	for _, a := range sorted {
		if a < p-window {
			continue
		}
		return a <= p+window
	}
	return false
}

// scaleThreshold is factor times the MAD of the coefficients of one scale. A floor
// relative to the signal magnitude keeps rounding noise in flat signals from being flagged.
func scaleThreshold(c []float64, factor, floor float64) float64 {
	if len(c) < 2 {
		return floor
	}
	t := factor * cnv.MAD(c[1:])
	if t < floor {
		return floor
	}
	return t
}
