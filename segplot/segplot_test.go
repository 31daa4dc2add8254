package segplot

import (
	"errors"
	"github.com/dasnellings/cnvPartition/cnv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeSeries(signal []float64) *cnv.Series {
	c := &cnv.Chromosome{Name: "chr1"}
	for i := range signal {
		c.Bins = append(c.Bins, cnv.Bin{Chrom: "chr1", Start: i * 1000, End: (i + 1) * 1000, Signal: signal[i]})
	}
	return &cnv.Series{Sample: "s1", Chroms: []*cnv.Chromosome{c}}
}

func makeResult(s *cnv.Series, idx, starts []int) *cnv.Result {
	c := s.Chroms[0]
	return &cnv.Result{Sample: s.Sample, Chroms: []cnv.ChromSegments{{Name: c.Name, Segments: cnv.SegmentsFromStarts(c, idx, starts)}}}
}

func TestSegmentLevels(t *testing.T) {
	s := makeSeries([]float64{1, 1, 1, 1, 5, 5, 5, 5, 5, 1})
	// bin 0 and bin 4 are not in any segment
	res := makeResult(s, []int{1, 2, 3, 5, 6, 7, 8, 9}, []int{0, 3, 7})
	levels := SegmentLevels(s.Chroms[0], res.Chrom("chr1"))
	exp := []float64{1, 1, 1, 1, 1, 5, 5, 5, 5, 1}
	for i := range exp {
		if levels[i] != exp[i] {
			t.Error("problem with segment levels", levels)
			break
		}
	}
}

func TestAscii(t *testing.T) {
	s := makeSeries([]float64{1, 1, 1, 1, 5, 5, 5, 5, 5, 1})
	res := makeResult(s, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, []int{0, 4, 9})
	out := Ascii(s.Chroms[0], res.Chrom("chr1"), 40)
	if out == "" || !strings.Contains(out, "chr1") {
		t.Error("expected a captioned text graph", out)
	}
	if Ascii(&cnv.Chromosome{Name: "chr2"}, nil, 40) != "" {
		t.Error("empty chromosome should render nothing")
	}
}

func TestSave(t *testing.T) {
	s := makeSeries([]float64{1, 1, 1, 1, 5, 5, 5, 5, 5, 1})
	res := makeResult(s, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, []int{0, 4, 9})
	res.Chroms[0].Segments[1].Forced = true

	out := filepath.Join(t.TempDir(), "s1.png")
	if err := Save(out, s, res, nil, ""); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Error("expected a non-empty image", err)
	}

	if _, err := New(s, res, nil, "chr7"); !errors.Is(err, cnv.ErrData) {
		t.Error("expected data error for a chromosome without bins", err)
	}
}

func TestLayout(t *testing.T) {
	s := makeSeries([]float64{1, 2})
	s.Chroms = append(s.Chroms, &cnv.Chromosome{Name: "chr2", Bins: []cnv.Bin{{Chrom: "chr2", Start: 0, End: 500, Signal: 1}}})
	l := NewLayout(s, nil)
	if l.X("chr1", 100) != 100 || l.X("chr2", 100) != 2100 {
		t.Error("chromosomes should be laid end to end", l.X("chr1", 100), l.X("chr2", 100))
	}
	ticks := l.Ticks(0, 3000)
	if len(ticks) != 2 || ticks[0].Label != "chr1" || ticks[1].Value != 2250 {
		t.Error("problem with chromosome ticks", ticks)
	}
}
