package binfile

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/fileio"
	"io"
)

// WritePartition writes one line per segmented bin: chrom, start, end, signal and the
// genome-wide index of the segment holding the bin. Bins outside every segment (excluded
// bins) are not written.
func WritePartition(filename string, series *cnv.Series, res *cnv.Result) error {
	out := fileio.EasyCreate(filename)
	err := writePartition(out, series, res)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

func writePartition(out io.Writer, series *cnv.Series, res *cnv.Result) error {
	var segIdx int
	var c *cnv.Chromosome
	var b cnv.Bin
	var err error
	for _, chrom := range res.Chroms {
		c = series.Chrom(chrom.Name)
		if c == nil {
			return &cnv.DataError{Unit: series.Sample, Msg: fmt.Sprintf("result chromosome %s missing from series", chrom.Name)}
		}
		for _, seg := range chrom.Segments {
			for _, i := range seg.Bins {
				b = c.Bins[i]
				if _, err = fmt.Fprintf(out, "%s\t%d\t%d\t%g\t%d\n", b.Chrom, b.Start, b.End, b.Signal, segIdx); err != nil {
					return err
				}
			}
			segIdx++
		}
	}
	return nil
}

// WriteSegments writes one BED record per segment. The name column holds the segment
// median, followed by the copy-number state when the algorithm assigns one, and the score
// column holds the number of bins.
func WriteSegments(filename string, res *cnv.Result) error {
	out := fileio.EasyCreate(filename)
	for _, seg := range res.Segments() {
		bed.WriteBed(out, SegmentToBed(seg))
	}
	return out.Close()
}

// SegmentToBed converts a segment to a five column BED record.
func SegmentToBed(seg cnv.Segment) bed.Bed {
	name := fmt.Sprintf("%.6g", seg.Median)
	if seg.State != cnv.NoState {
		name += fmt.Sprintf("|CN=%d", seg.State)
	}
	if seg.Forced {
		name += "|forced"
	}
	return bed.Bed{
		Chrom:             seg.Chrom,
		ChromStart:        seg.Start,
		ChromEnd:          seg.End,
		Name:              name,
		Score:             seg.BinCount(),
		FieldsInitialized: 5,
	}
}
