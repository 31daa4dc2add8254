// Package binfile reads and writes the text formats around segmentation: binned signal
// files, BED interval files, per-bin partition files, segment BED files and fasta indices.
// Files ending in .gz are handled transparently.
package binfile

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"strconv"
	"strings"
)

// SignalColumn is the default 0-based column holding the bin signal.
const SignalColumn = 3

// ReadBins reads a tab separated bin file with lines of chrom, start, end and signal.
// Further columns are ignored and lines starting with # are skipped.
func ReadBins(filename, sample string) (*cnv.Series, error) {
	return ReadBinsColumn(filename, sample, SignalColumn)
}

// ReadBinsColumn reads a bin file taking the signal from the given 0-based column.
func ReadBinsColumn(filename, sample string, column int) (*cnv.Series, error) {
	if column < SignalColumn {
		return nil, &cnv.ConfigError{Param: "column", Msg: fmt.Sprintf("signal column must be >= %d, got %d", SignalColumn, column)}
	}
	file := fileio.EasyOpen(filename)
	var bins []cnv.Bin
	var curr cnv.Bin
	var line string
	var done bool
	var lineNum int
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		lineNum++
		curr, err = parseBin(line, column)
		if err != nil {
			exception.PanicOnErr(file.Close())
			return nil, &cnv.DataError{Unit: fmt.Sprintf("%s:%d", filename, lineNum), Msg: err.Error()}
		}
		bins = append(bins, curr)
	}
	err = file.Close()
	exception.PanicOnErr(err)
	return cnv.NewSeries(sample, bins)
}

func parseBin(line string, column int) (cnv.Bin, error) {
	var b cnv.Bin
	var err error
	col := strings.Split(line, "\t")
	if len(col) <= column {
		return b, fmt.Errorf("expected at least %d columns, found %d", column+1, len(col))
	}
	b.Chrom = col[0]
	if b.Start, err = strconv.Atoi(col[1]); err != nil {
		return b, fmt.Errorf("bad start: %w", err)
	}
	if b.End, err = strconv.Atoi(col[2]); err != nil {
		return b, fmt.Errorf("bad end: %w", err)
	}
	if b.Signal, err = strconv.ParseFloat(col[column], 64); err != nil {
		return b, fmt.Errorf("bad signal: %w", err)
	}
	return b, nil
}

// ReadIntervals reads the first three columns of a BED file. An empty filename returns no
// intervals.
func ReadIntervals(filename string) ([]cnv.Interval, error) {
	if filename == "" {
		return nil, nil
	}
	records := bed.Read(filename)
	ans := make([]cnv.Interval, len(records))
	for i := range records {
		ans[i] = cnv.Interval{Chrom: records[i].Chrom, Start: records[i].ChromStart, End: records[i].ChromEnd}
	}
	return ans, cnv.ValidateIntervals(ans)
}

// ReadPartition reads a per-bin partition file written by WritePartition and rebuilds both
// the kept bins and their segments. Consecutive bins sharing a segment index form one segment.
func ReadPartition(filename, sample string) (*cnv.Series, *cnv.Result, error) {
	file := fileio.EasyOpen(filename)
	var bins []cnv.Bin
	var ids []int
	var curr cnv.Bin
	var id int
	var line string
	var done bool
	var col []string
	var lineNum int
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		lineNum++
		col = strings.Split(line, "\t")
		if len(col) < 5 {
			err = fmt.Errorf("expected 5 columns, found %d", len(col))
		}
		if err == nil {
			curr, err = parseBin(line, SignalColumn)
		}
		if err == nil {
			id, err = strconv.Atoi(col[4])
		}
		if err != nil {
			exception.PanicOnErr(file.Close())
			return nil, nil, &cnv.DataError{Unit: fmt.Sprintf("%s:%d", filename, lineNum), Msg: err.Error()}
		}
		bins = append(bins, curr)
		ids = append(ids, id)
	}
	err = file.Close()
	exception.PanicOnErr(err)

	series, err := cnv.NewSeries(sample, bins)
	if err != nil {
		return nil, nil, err
	}
	res := &cnv.Result{Sample: sample, Chroms: make([]cnv.ChromSegments, len(series.Chroms))}
	var offset, first int
	for i, c := range series.Chroms {
		res.Chroms[i].Name = c.Name
		first = 0
		for b := 1; b <= len(c.Bins); b++ {
			if b < len(c.Bins) && ids[offset+b] == ids[offset+b-1] {
				continue
			}
			res.Chroms[i].Segments = append(res.Chroms[i].Segments, cnv.NewSegment(c, indexRange(first, b)))
			first = b
		}
		offset += len(c.Bins)
	}
	return series, res, nil
}

func indexRange(start, end int) []int {
	ans := make([]int, end-start)
	for i := range ans {
		ans[i] = start + i
	}
	return ans
}
