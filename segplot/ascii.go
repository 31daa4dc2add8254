// Package segplot draws segmented bin signal, either as an image file with gonum/plot or as
// a text profile for logs.
package segplot

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/guptarohit/asciigraph"
	"math"
)

// DefaultAsciiWidth is the text profile width used when Ascii is given a width < 1.
const DefaultAsciiWidth = 100

// Ascii renders the signal of c (yellow) with the median of each of its segments (red)
// as a text graph. Bins outside every segment are drawn at the segment line's last value.
func Ascii(c *cnv.Chromosome, segs []cnv.Segment, width int) string {
	if len(c.Bins) == 0 {
		return ""
	}
	if width < 1 {
		width = DefaultAsciiWidth
	}
	signal := c.Signal()
	level := SegmentLevels(c, segs)
	return asciigraph.PlotMany([][]float64{signal, level},
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(c.Name),
		asciigraph.SeriesColors(asciigraph.Yellow, asciigraph.Red))
}

// SegmentLevels returns, for every bin of c, the median of the segment holding it. Bins
// without a segment take the previous bin's value, or the first segment median at the start.
func SegmentLevels(c *cnv.Chromosome, segs []cnv.Segment) []float64 {
	ans := make([]float64, len(c.Bins))
	for i := range ans {
		ans[i] = math.NaN()
	}
	for _, s := range segs {
		for _, b := range s.Bins {
			ans[b] = s.Median
		}
	}
	fill := 0.0
	if len(segs) > 0 {
		fill = segs[0].Median
	}
	for i := range ans {
		if math.IsNaN(ans[i]) {
			ans[i] = fill
		}
		fill = ans[i]
	}
	return ans
}
