package cbs

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"math"
)

// undoSD repeatedly removes the breakpoint between the two adjacent segments with the
// smallest mean difference while that difference is below minDiff. Breakpoints in
// protected are never removed.
func undoSD(y []float64, starts, protected []int, minDiff float64) []int {
	for {
		best := -1
		bestDiff := math.Inf(1)
		for s := 1; s < len(starts); s++ {
			if isProtected(protected, starts[s]) {
				continue
			}
			left, right := pieces(y, starts, s)
			diff := math.Abs(mean(left) - mean(right))
			if diff < bestDiff {
				best, bestDiff = s, diff
			}
		}
		if best < 0 || !(bestDiff < minDiff) {
			return starts
		}
		starts = slices.Delete(starts, best, best+1)
	}
}

// prune repeatedly removes the breakpoint between the two adjacent segments whose means
// are least distinguishable by a two-sample t-test, while that p-value exceeds alpha.
// sd replaces the pooled standard deviation when the two segments cannot estimate one.
func prune(y []float64, starts, protected []int, alpha, sd float64) []int {
	for {
		best := -1
		bestP := math.Inf(-1)
		for s := 1; s < len(starts); s++ {
			if isProtected(protected, starts[s]) {
				continue
			}
			left, right := pieces(y, starts, s)
			p := tTestP(left, right, sd)
			if p > bestP {
				best, bestP = s, p
			}
		}
		if best < 0 || !(bestP > alpha) {
			return starts
		}
		starts = slices.Delete(starts, best, best+1)
	}
}

// tTestP is the two-sided p-value of a pooled-variance Student's t-test for equal means.
func tTestP(a, b []float64, sd float64) float64 {
	na, nb := float64(len(a)), float64(len(b))
	diff := mean(a) - mean(b)
	df := na + nb - 2
	var pooled float64
	if df >= 1 {
		var ss float64
		if len(a) > 1 {
			ss += stat.Variance(a, nil) * (na - 1)
		}
		if len(b) > 1 {
			ss += stat.Variance(b, nil) * (nb - 1)
		}
		pooled = ss / df
	} else {
		pooled = sd * sd
		df = 1
	}
	if pooled <= 0 {
		if diff == 0 {
			return 1
		}
		return 0
	}
	t := math.Abs(diff) / math.Sqrt(pooled*(1/na+1/nb))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(t)
}

// pieces returns the segments on either side of breakpoint starts[s].
func pieces(y []float64, starts []int, s int) (left, right []float64) {
	end := len(y)
	if s+1 < len(starts) {
		end = starts[s+1]
	}
	return y[starts[s-1]:starts[s]], y[starts[s]:end]
}

func mean(x []float64) float64 {
	return floats.Sum(x) / float64(len(x))
}

func isProtected(protected []int, pos int) bool {
	_, found := slices.BinarySearch(protected, pos)
	return found
}
