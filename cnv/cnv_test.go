package cnv

import (
	"errors"
	"math"
	"testing"
)

func makeBins(chrom string, signal []float64) []Bin {
	ans := make([]Bin, len(signal))
	for i := range signal {
		ans[i] = Bin{Chrom: chrom, Start: i * 1000, End: (i + 1) * 1000, Signal: signal[i]}
	}
	return ans
}

func TestMedian(t *testing.T) {
	if m := Median([]float64{3, 1, 2}); m != 2 {
		t.Error("problem with odd length median", m)
	}
	if m := Median([]float64{4, 1, 3, 2}); m != 2.5 {
		t.Error("problem with even length median", m)
	}
	if !math.IsNaN(Median(nil)) {
		t.Error("median of empty slice should be NaN")
	}
	x := []float64{3, 1, 2}
	Median(x)
	if x[0] != 3 || x[1] != 1 || x[2] != 2 {
		t.Error("median modified its input", x)
	}
}

func TestMAD(t *testing.T) {
	if m := MAD([]float64{1, 2, 3, 4, 100}); m != 1 {
		t.Error("problem with MAD", m)
	}
	if m := MAD([]float64{1, 1, 1, 5}); m != 0 {
		t.Error("problem with MAD of mostly constant data", m)
	}
	if sd := DiffSD([]float64{2, 2, 2, 2}); sd != 0 {
		t.Error("problem with DiffSD of constant signal", sd)
	}
	if sd := DiffSD([]float64{1}); sd != 0 {
		t.Error("problem with DiffSD of single value", sd)
	}
}

func TestPrefixSum(t *testing.T) {
	p := NewPrefixSum([]float64{1, 2, 3, 4})
	if p.Sum(1, 3) != 5 {
		t.Error("problem with prefix sum", p.Sum(1, 3))
	}
	if p.Mean(0, 4) != 2.5 {
		t.Error("problem with prefix mean", p.Mean(0, 4))
	}
	if !math.IsNaN(p.Mean(2, 2)) {
		t.Error("mean of empty range should be NaN")
	}
}

func TestUnionSorted(t *testing.T) {
	u := UnionSorted([]int{5, 1}, nil, []int{3, 5, 0})
	exp := []int{0, 1, 3, 5}
	if len(u) != len(exp) {
		t.Fatal("problem with union", u)
	}
	for i := range exp {
		if u[i] != exp[i] {
			t.Error("problem with union", u)
		}
	}
}

func TestNewSeries(t *testing.T) {
	bins := append(makeBins("chr1", []float64{1, 2, 3}), makeBins("chr2", []float64{4, 5})...)
	s, err := NewSeries("s1", bins)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Chroms) != 2 || s.Chroms[0].Name != "chr1" || s.Chroms[1].Name != "chr2" || s.NumBins() != 5 {
		t.Error("problem grouping bins by chromosome", s.Chroms)
	}
	if s.Chrom("chr2") == nil || s.Chrom("chr3") != nil {
		t.Error("problem with chromosome lookup")
	}

	split := append(append(makeBins("chr1", []float64{1}), makeBins("chr2", []float64{1})...), Bin{Chrom: "chr1", Start: 5000, End: 6000})
	if _, err = NewSeries("s1", split); !errors.Is(err, ErrData) {
		t.Error("expected data error for non-contiguous chromosome", err)
	}

	overlap := makeBins("chr1", []float64{1, 2})
	overlap[1].Start = 500
	if _, err = NewSeries("s1", overlap); !errors.Is(err, ErrData) {
		t.Error("expected data error for overlapping bins", err)
	}

	unsorted := makeBins("chr1", []float64{1, 2})
	unsorted[0], unsorted[1] = unsorted[1], unsorted[0]
	if _, err = NewSeries("s1", unsorted); !errors.Is(err, ErrData) {
		t.Error("expected data error for unsorted bins", err)
	}

	nan := makeBins("chr1", []float64{1, math.NaN()})
	if _, err = NewSeries("s1", nan); !errors.Is(err, ErrData) {
		t.Error("expected data error for NaN signal", err)
	}
	if errors.Is(err, ErrConfiguration) {
		t.Error("data error should not match configuration error")
	}
}

func TestSegmentsFromStarts(t *testing.T) {
	c := &Chromosome{Name: "chr1", Bins: makeBins("chr1", []float64{1, 1, 1, 5, 5, 9})}
	idx := []int{0, 1, 3, 4, 5} // bin 2 left out
	segs := SegmentsFromStarts(c, idx, []int{0, 2, 4})
	if len(segs) != 3 {
		t.Fatal("expected 3 segments", segs)
	}
	if segs[0].Start != 0 || segs[0].End != 2000 || segs[0].BinCount() != 2 || segs[0].Median != 1 {
		t.Error("problem with first segment", segs[0])
	}
	if segs[1].Start != 3000 || segs[1].End != 5000 || segs[1].Mean != 5 || segs[1].State != NoState {
		t.Error("problem with second segment", segs[1])
	}
	if segs[2].Bins[0] != 5 || segs[2].Median != 9 {
		t.Error("problem with last segment", segs[2])
	}
	b := Boundaries(segs)
	exp := []int{0, 2000, 3000, 5000, 6000}
	if len(b) != len(exp) {
		t.Fatal("problem with boundaries", b)
	}
	for i := range exp {
		if b[i] != exp[i] {
			t.Error("problem with boundaries", b)
		}
	}
}

func TestErrors(t *testing.T) {
	var err error = &ConfigError{Param: "alpha", Msg: "must be in (0,1)"}
	if !errors.Is(err, ErrConfiguration) || errors.Is(err, ErrData) {
		t.Error("problem matching configuration error")
	}
	if err.Error() != "configuration error: alpha: must be in (0,1)" {
		t.Error("problem with configuration error message", err)
	}
	err = &DataError{Unit: "s1:chr1", Msg: "bad"}
	if !errors.Is(err, ErrData) || err.Error() != "data error: s1:chr1: bad" {
		t.Error("problem with data error", err)
	}
}

func TestIntervals(t *testing.T) {
	iv := Interval{Chrom: "chr1", Start: 100, End: 200}
	if !iv.Contains(100) || iv.Contains(200) {
		t.Error("intervals are half open")
	}
	if iv.Overlaps(200, 300) || !iv.Overlaps(199, 300) {
		t.Error("problem with interval overlap")
	}
	if err := ValidateIntervals([]Interval{{Chrom: "chr1", Start: 5, End: 5}}); !errors.Is(err, ErrData) {
		t.Error("expected data error for empty interval", err)
	}
	ivs := []Interval{{"chr2", 0, 10}, {"chr1", 50, 60}, {"chr1", 10, 30}, {"chr1", 10, 20}}
	SortIntervals(ivs)
	if ivs[0].End != 20 || ivs[1].End != 30 || ivs[2].Start != 50 || ivs[3].Chrom != "chr2" {
		t.Error("problem sorting intervals", ivs)
	}
	if CompareIntervals(ivs[0], ivs[0]) != 0 || CompareIntervals(ivs[3], ivs[0]) <= 0 {
		t.Error("problem comparing intervals")
	}
}
