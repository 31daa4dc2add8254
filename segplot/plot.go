package segplot

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/binfile"
	"github.com/dasnellings/cnvPartition/cnv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"image/color"
	"math"
)

var (
	binColor     = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	segmentColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	forcedColor  = color.RGBA{R: 30, G: 90, B: 220, A: 255}
)

// Layout places chromosomes along a single genome-wide x axis.
type Layout struct {
	offsets map[string]float64
	ticks   []plot.Tick
}

// NewLayout lays chromosomes end to end in fasta index order, or in series order using each
// chromosome's last bin end as its length when fai is nil.
func NewLayout(series *cnv.Series, fai *binfile.Fai) *Layout {
	l := &Layout{offsets: make(map[string]float64)}
	var pos float64
	add := func(name string, length int) {
		l.offsets[name] = pos
		l.ticks = append(l.ticks, plot.Tick{Value: pos + float64(length)/2, Label: name})
		pos += float64(length)
	}
	if fai != nil {
		for _, c := range fai.Contigs() {
			if series.Chrom(c.Name) != nil {
				add(c.Name, c.Len)
			}
		}
	}
	for _, c := range series.Chroms {
		if _, found := l.offsets[c.Name]; found || len(c.Bins) == 0 {
			continue
		}
		add(c.Name, c.Bins[len(c.Bins)-1].End)
	}
	return l
}

// X returns the genome-wide position of pos on chrom.
func (l *Layout) X(chrom string, pos int) float64 {
	return l.offsets[chrom] + float64(pos)
}

// Ticks labels each chromosome at its center.
func (l *Layout) Ticks(min, max float64) []plot.Tick {
	var ans []plot.Tick
	for i := range l.ticks {
		if l.ticks[i].Value >= min && l.ticks[i].Value <= max {
			ans = append(ans, l.ticks[i])
		}
	}
	return ans
}

// Save draws the bins of series as points and the segments of res as horizontal lines at
// their medians. The image format follows the extension of filename (.pdf, .png, .svg, ...).
// When chrom is not empty only that chromosome is drawn.
func Save(filename string, series *cnv.Series, res *cnv.Result, fai *binfile.Fai, chrom string) error {
	p, err := New(series, res, fai, chrom)
	if err != nil {
		return err
	}
	return p.Save(40*vg.Centimeter, 12*vg.Centimeter, filename)
}

// New builds the plot drawn by Save.
func New(series *cnv.Series, res *cnv.Result, fai *binfile.Fai, chrom string) (*plot.Plot, error) {
	layout := NewLayout(series, fai)
	var pts plotter.XYs
	for _, c := range series.Chroms {
		if chrom != "" && c.Name != chrom {
			continue
		}
		for _, b := range c.Bins {
			pts = append(pts, plotter.XY{X: layout.X(c.Name, b.Mid()), Y: b.Signal})
		}
	}
	if len(pts) == 0 {
		return nil, &cnv.DataError{Unit: series.Sample, Msg: fmt.Sprintf("no bins to plot for %q", chrom)}
	}

	p := plot.New()
	p.Title.Text = series.Sample
	p.X.Label.Text = "Position"
	p.Y.Label.Text = "Signal"
	p.X.Tick.Marker = layout

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle = draw.GlyphStyle{Color: binColor, Radius: vg.Points(1), Shape: draw.CircleGlyph{}}
	p.Add(scatter)

	var line *plotter.Line
	for _, s := range res.Segments() {
		if chrom != "" && s.Chrom != chrom {
			continue
		}
		if math.IsNaN(s.Median) {
			continue
		}
		line, err = plotter.NewLine(plotter.XYs{
			{X: layout.X(s.Chrom, s.Start), Y: s.Median},
			{X: layout.X(s.Chrom, s.End), Y: s.Median},
		})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = segmentColor
		if s.Forced {
			line.LineStyle.Color = forcedColor
		}
		p.Add(line)
	}
	return p, nil
}
