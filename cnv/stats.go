package cnv

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"math"
)

// madScale converts a median absolute deviation into a standard deviation estimate
// for normally distributed data.
const madScale = 1.4826

// Median returns the median of x, averaging the two middle values for even lengths.
// Median of an empty slice is NaN. x is not modified.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := slices.Clone(x)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// MAD returns the raw (unscaled) median absolute deviation of x from its median.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m := Median(x)
	dev := make([]float64, len(x))
	for i := range x {
		dev[i] = math.Abs(x[i] - m)
	}
	return Median(dev)
}

// RobustSD estimates the standard deviation of x from its MAD.
func RobustSD(x []float64) float64 {
	return madScale * MAD(x)
}

// DiffSD estimates the noise standard deviation of a piecewise constant signal from the
// MAD of its first differences, which is insensitive to the level shifts themselves.
func DiffSD(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	d := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		d[i-1] = x[i] - x[i-1]
	}
	return madScale * MAD(d) / math.Sqrt2
}

// Mean is the arithmetic mean of x.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// PrefixSum holds cumulative sums of a signal for constant time range means.
type PrefixSum []float64

// NewPrefixSum returns p with p[i] equal to the sum of x[:i].
func NewPrefixSum(x []float64) PrefixSum {
	p := make(PrefixSum, len(x)+1)
	for i := range x {
		p[i+1] = p[i] + x[i]
	}
	return p
}

// Sum of x[i:j].
func (p PrefixSum) Sum(i, j int) float64 {
	return p[j] - p[i]
}

// Mean of x[i:j]; NaN when the range is empty.
func (p PrefixSum) Mean(i, j int) float64 {
	if j <= i {
		return math.NaN()
	}
	return (p[j] - p[i]) / float64(j-i)
}

// UnionSorted merges any number of int lists into one sorted list without duplicates.
func UnionSorted(lists ...[]int) []int {
	var ans []int
	for _, l := range lists {
		ans = append(ans, l...)
	}
	slices.Sort(ans)
	return slices.Compact(ans)
}
