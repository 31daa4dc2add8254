// Package cnv holds the data model shared by every segmentation algorithm: bins grouped by
// chromosome for one sample, genomic intervals, and the segments produced from them.
package cnv

import (
	"fmt"
	"math"
)

// Bin is a single genomic bin with one aggregated signal value (read depth, normalized
// coverage, or a B-allele frequency derived value). Coordinates are 0-based, half-open.
type Bin struct {
	Chrom  string
	Start  int
	End    int
	Signal float64
}

// Mid returns the midpoint of the bin.
func (b Bin) Mid() int {
	return b.Start + (b.End-b.Start)/2
}

func (b Bin) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%g", b.Chrom, b.Start, b.End, b.Signal)
}

// Chromosome is the ordered run of bins for one chromosome of a sample.
type Chromosome struct {
	Name string
	Bins []Bin
}

// Signal returns the signal values of the chromosome's bins in order.
func (c *Chromosome) Signal() []float64 {
	ans := make([]float64, len(c.Bins))
	for i := range c.Bins {
		ans[i] = c.Bins[i].Signal
	}
	return ans
}

// Series is the full set of bins for one sample. Chromosomes are kept in input order.
type Series struct {
	Sample string
	Chroms []*Chromosome
}

// NewSeries groups an ordered list of bins by chromosome. All bins of a chromosome must be
// adjacent in the input; the order in which chromosomes first appear is retained.
func NewSeries(sample string, bins []Bin) (*Series, error) {
	s := &Series{Sample: sample}
	seen := make(map[string]bool)
	var curr *Chromosome
	for i := range bins {
		if curr == nil || bins[i].Chrom != curr.Name {
			if seen[bins[i].Chrom] {
				return nil, &DataError{Unit: sample, Msg: fmt.Sprintf("bins for %s are not contiguous in input (bin %d)", bins[i].Chrom, i)}
			}
			seen[bins[i].Chrom] = true
			curr = &Chromosome{Name: bins[i].Chrom}
			s.Chroms = append(s.Chroms, curr)
		}
		curr.Bins = append(curr.Bins, bins[i])
	}
	return s, s.Validate()
}

// Validate checks that every chromosome is well formed: bins carry the chromosome name,
// have positive length, finite signal, strictly increasing starts and do not overlap.
func (s *Series) Validate() error {
	seen := make(map[string]bool)
	var i int
	var prev, curr Bin
	for _, c := range s.Chroms {
		if seen[c.Name] {
			return &DataError{Unit: s.Sample, Msg: fmt.Sprintf("chromosome %s listed more than once", c.Name)}
		}
		seen[c.Name] = true
		for i = range c.Bins {
			curr = c.Bins[i]
			switch {
			case curr.Chrom != c.Name:
				return &DataError{Unit: s.unit(c), Msg: fmt.Sprintf("bin %d belongs to %s", i, curr.Chrom)}
			case curr.Start < 0 || curr.Start >= curr.End:
				return &DataError{Unit: s.unit(c), Msg: fmt.Sprintf("bin %d has invalid coordinates %d-%d", i, curr.Start, curr.End)}
			case math.IsNaN(curr.Signal) || math.IsInf(curr.Signal, 0):
				return &DataError{Unit: s.unit(c), Msg: fmt.Sprintf("bin %d has non-finite signal", i)}
			}
			if i == 0 {
				prev = curr
				continue
			}
			if curr.Start <= prev.Start {
				return &DataError{Unit: s.unit(c), Msg: fmt.Sprintf("bins are not sorted at bin %d (%d after %d)", i, curr.Start, prev.Start)}
			}
			if curr.Start < prev.End {
				return &DataError{Unit: s.unit(c), Msg: fmt.Sprintf("bin %d overlaps the previous bin", i)}
			}
			prev = curr
		}
	}
	return nil
}

// NumBins is the total number of bins in the series.
func (s *Series) NumBins() int {
	var ans int
	for _, c := range s.Chroms {
		ans += len(c.Bins)
	}
	return ans
}

// Chrom returns the chromosome with the given name, or nil.
func (s *Series) Chrom(name string) *Chromosome {
	for _, c := range s.Chroms {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Signal returns every bin signal of the series in genome order.
func (s *Series) Signal() []float64 {
	ans := make([]float64, 0, s.NumBins())
	for _, c := range s.Chroms {
		for i := range c.Bins {
			ans = append(ans, c.Bins[i].Signal)
		}
	}
	return ans
}

func (s *Series) unit(c *Chromosome) string {
	return s.Sample + ":" + c.Name
}
