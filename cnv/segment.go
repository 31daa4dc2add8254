package cnv

import (
	"fmt"
)

// NoState is the Segment.State of segments produced by algorithms without discrete states.
const NoState = -1

// Segment is a run of consecutive bins of one chromosome sharing a copy-number state.
// Bins holds indices into the owning Chromosome.Bins slice in increasing order.
type Segment struct {
	Chrom  string
	Start  int
	End    int
	Bins   []int
	Median float64
	Mean   float64
	State  int
	Forced bool
}

// NewSegment builds a segment over the given bin indices of c and computes its summary
// statistics. idx must be non-empty and increasing.
func NewSegment(c *Chromosome, idx []int) Segment {
	s := Segment{
		Chrom: c.Name,
		Start: c.Bins[idx[0]].Start,
		End:   c.Bins[idx[len(idx)-1]].End,
		Bins:  idx,
		State: NoState,
	}
	s.Summarize(c)
	return s
}

// Summarize recomputes the median and mean of the segment over its own bins.
func (s *Segment) Summarize(c *Chromosome) {
	signal := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		signal[i] = c.Bins[b].Signal
	}
	s.Median = Median(signal)
	s.Mean = Mean(signal)
}

// BinCount is the number of bins contributing to the segment.
func (s Segment) BinCount() int {
	return len(s.Bins)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%.4g\t%d", s.Chrom, s.Start, s.End, s.Median, len(s.Bins))
}

// SegmentsFromStarts converts a sorted list of segment start positions over the bin
// indices idx into segments. starts are positions within idx and must begin with 0.
func SegmentsFromStarts(c *Chromosome, idx []int, starts []int) []Segment {
	if len(idx) == 0 {
		return nil
	}
	ans := make([]Segment, 0, len(starts))
	var end int
	for i := range starts {
		if i+1 < len(starts) {
			end = starts[i+1]
		} else {
			end = len(idx)
		}
		ans = append(ans, NewSegment(c, idx[starts[i]:end:end]))
	}
	return ans
}

// ChromSegments are the segments of one chromosome.
type ChromSegments struct {
	Name     string
	Segments []Segment
}

// Result holds the segmentation of one sample: one entry per input chromosome in input order.
type Result struct {
	Sample string
	Chroms []ChromSegments
}

// Segments returns all segments of the result concatenated in chromosome order.
func (r *Result) Segments() []Segment {
	var ans []Segment
	for i := range r.Chroms {
		ans = append(ans, r.Chroms[i].Segments...)
	}
	return ans
}

// Chrom returns the segments of the named chromosome, or nil.
func (r *Result) Chrom(name string) []Segment {
	for i := range r.Chroms {
		if r.Chroms[i].Name == name {
			return r.Chroms[i].Segments
		}
	}
	return nil
}

// Boundaries returns the sorted start and end coordinates of every segment of a chromosome.
func Boundaries(segs []Segment) []int {
	ans := make([]int, 0, 2*len(segs))
	for i := range segs {
		if len(ans) == 0 || ans[len(ans)-1] != segs[i].Start {
			ans = append(ans, segs[i].Start)
		}
		ans = append(ans, segs[i].End)
	}
	return ans
}
