package hmm

import (
	"errors"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/mask"
	"golang.org/x/exp/rand"
	"math"
	"testing"
)

// makeSeries builds one sample with a diploid level of d and a copy-number 3 gain over
// bins [10,20) of every chromosome.
func makeSeries(sample string, d float64, chroms ...string) *cnv.Series {
	s := &cnv.Series{Sample: sample}
	for _, name := range chroms {
		c := &cnv.Chromosome{Name: name}
		for i := 0; i < 30; i++ {
			signal := d
			if i >= 10 && i < 20 {
				signal = d * 1.5
			}
			c.Bins = append(c.Bins, cnv.Bin{Chrom: name, Start: i * 1000, End: (i + 1) * 1000, Signal: signal})
		}
		s.Chroms = append(s.Chroms, c)
	}
	return s
}

func TestRun(t *testing.T) {
	series := []*cnv.Series{makeSeries("a", 2, "chr1"), makeSeries("b", 4, "chr1")}
	res, err := Run(series, DefaultParams(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 || res[0].Sample != "a" || res[1].Sample != "b" {
		t.Fatal("expected one result per sample in input order", res)
	}
	a, b := res[0].Chrom("chr1"), res[1].Chrom("chr1")
	if len(a) != 3 || len(b) != 3 {
		t.Fatal("expected 3 segments per sample", a, b)
	}
	for i := range a {
		if a[i].Start != b[i].Start || a[i].End != b[i].End {
			t.Error("segment boundaries should be identical across samples", a[i], b[i])
		}
	}
	if a[1].Start != 10000 || a[1].End != 20000 {
		t.Error("problem locating the gain", a[1])
	}
	if a[0].State != 2 || a[1].State != 3 || a[2].State != 2 {
		t.Error("problem with decoded states", a[0].State, a[1].State, a[2].State)
	}
	if a[1].Median != 3 || b[1].Median != 6 {
		t.Error("segment statistics should come from each sample's own signal", a[1].Median, b[1].Median)
	}
}

func TestThreads(t *testing.T) {
	series := []*cnv.Series{makeSeries("a", 2, "chr1", "chr2", "chr3"), makeSeries("b", 2, "chr1", "chr2", "chr3")}
	p := DefaultParams(2)
	single, err := Run(series, p)
	if err != nil {
		t.Fatal(err)
	}
	p.Threads = 3
	multi, err := Run(series, p)
	if err != nil {
		t.Fatal(err)
	}
	for c := range single[0].Chroms {
		if single[0].Chroms[c].Name != multi[0].Chroms[c].Name {
			t.Error("chromosome order should not depend on threads")
		}
		sb, mb := cnv.Boundaries(single[0].Chroms[c].Segments), cnv.Boundaries(multi[0].Chroms[c].Segments)
		if len(sb) != len(mb) {
			t.Fatal("results should not depend on threads", sb, mb)
		}
		for i := range sb {
			if sb[i] != mb[i] {
				t.Error("results should not depend on threads", sb, mb)
			}
		}
	}
}

func TestForcedCutsPath(t *testing.T) {
	series := []*cnv.Series{makeSeries("a", 2, "chr1"), makeSeries("b", 2, "chr1")}
	p := DefaultParams(2)
	var err error
	p.Forced, err = mask.NewForced([]cnv.Interval{{Chrom: "chr1", Start: 22000, End: 26000}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Run(series, p)
	if err != nil {
		t.Fatal(err)
	}
	b := cnv.Boundaries(res[0].Chrom("chr1"))
	var has22, has26 bool
	for _, pos := range b {
		has22 = has22 || pos == 22000
		has26 = has26 || pos == 26000
	}
	if !has22 || !has26 {
		t.Error("forced interval edges should be segment boundaries", b)
	}
}

func TestErrors(t *testing.T) {
	if _, err := Run([]*cnv.Series{makeSeries("a", 2, "chr1")}, DefaultParams(1)); !errors.Is(err, cnv.ErrConfiguration) {
		t.Error("expected configuration error for a single sample", err)
	}
	two := []*cnv.Series{makeSeries("a", 2, "chr1"), makeSeries("b", 2, "chr1")}
	if _, err := Run(two, DefaultParams(3)); !errors.Is(err, cnv.ErrConfiguration) {
		t.Error("expected configuration error for sample count mismatch", err)
	}
	diffChrom := []*cnv.Series{makeSeries("a", 2, "chr1"), makeSeries("b", 2, "chr2")}
	if _, err := Run(diffChrom, DefaultParams(2)); !errors.Is(err, cnv.ErrConfiguration) {
		t.Error("expected configuration error for different chromosomes", err)
	}
	diffBins := []*cnv.Series{makeSeries("a", 2, "chr1"), makeSeries("b", 2, "chr1")}
	diffBins[1].Chroms[0].Bins[5].End = 5500
	if _, err := Run(diffBins, DefaultParams(2)); !errors.Is(err, cnv.ErrConfiguration) {
		t.Error("expected configuration error for different bins", err)
	}
	p := DefaultParams(2)
	p.SwitchProb = 0
	if _, err := Run(two, p); !errors.Is(err, cnv.ErrConfiguration) {
		t.Error("expected configuration error for switch probability", err)
	}
}

func TestLevel(t *testing.T) {
	d, sigma := Level([]float64{2, 2, 2, 2}, 0.05)
	if d != 2 || math.Abs(sigma-0.1) > 1e-12 {
		t.Error("noise should be floored at a fraction of the diploid level", d, sigma)
	}
	_, sigma = Level([]float64{0, 0, 0}, 0.05)
	if sigma != minSigma {
		t.Error("noise should never be zero", sigma)
	}
}

func TestEmissionFloor(t *testing.T) {
	m := newModel([]*cnv.Series{makeSeries("a", 2, "chr1"), makeSeries("b", 2, "chr1")}, DefaultParams(2))
	em := make([]float64, m.states)
	m.logEmission(em, []float64{1e9, 2})
	for c := range em {
		if em[c] < MinLogEmission || math.IsNaN(em[c]) || math.IsInf(em[c], 0) {
			t.Error("emission should be clamped", c, em[c])
		}
	}
}

func TestViterbiTies(t *testing.T) {
	m := &model{states: 3, logStay: math.Log(0.9), logMove: math.Log(0.05), logInit: math.Log(1.0 / 3)}
	em := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	path := m.viterbi(em)
	for i := range path {
		if path[i] != 0 {
			t.Error("equal scores should resolve to the lowest state", path)
		}
	}
}

// noisySeries builds one chromosome of n bins at diploid level d with gaussian noise of
// sd*d/2 and, when gain is set, a copy-number 3 gain over bins [150,250).
func noisySeries(sample string, seed uint64, n int, d, sd float64, gain bool) *cnv.Series {
	r := rand.New(rand.NewSource(seed))
	c := &cnv.Chromosome{Name: "chr1"}
	for i := 0; i < n; i++ {
		signal := d + sd*d/2*r.NormFloat64()
		if gain && i >= 150 && i < 250 {
			signal += d / 2
		}
		c.Bins = append(c.Bins, cnv.Bin{Chrom: "chr1", Start: i * 1000, End: (i + 1) * 1000, Signal: signal})
	}
	return &cnv.Series{Sample: sample, Chroms: []*cnv.Chromosome{c}}
}

func TestNoisyGain(t *testing.T) {
	for seed := uint64(1); seed <= 3; seed++ {
		series := []*cnv.Series{noisySeries("a", seed, 400, 2, 0.25, true), noisySeries("b", seed+100, 400, 4, 0.25, true)}
		res, err := Run(series, DefaultParams(2))
		if err != nil {
			t.Fatal(err)
		}
		segs := res[0].Chrom("chr1")
		if len(segs) != 3 || segs[1].Start != 150000 || segs[1].End != 250000 {
			t.Errorf("seed %d: expected the gain at [150000,250000), got %v", seed, cnv.Boundaries(segs))
			continue
		}
		if segs[0].State != 2 || segs[1].State != 3 || segs[2].State != 2 {
			t.Errorf("seed %d: problem with decoded states %d %d %d", seed, segs[0].State, segs[1].State, segs[2].State)
		}

		series = []*cnv.Series{noisySeries("a", seed, 400, 2, 0.25, false), noisySeries("b", seed+100, 400, 4, 0.25, false)}
		if res, err = Run(series, DefaultParams(2)); err != nil {
			t.Fatal(err)
		}
		if segs = res[0].Chrom("chr1"); len(segs) != 1 || segs[0].State != 2 {
			t.Errorf("seed %d: pure noise should decode to one diploid segment, got %v", seed, cnv.Boundaries(segs))
		}
	}
}
