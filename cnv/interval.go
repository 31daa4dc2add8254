package cnv

import (
	"fmt"
	"golang.org/x/exp/slices"
	"strings"
)

// Interval is a genomic region used for both exclusion and forced inclusion regions.
// Interval satisfies the gonomics interval.Interval interface so it can be stored in
// interval trees.
type Interval struct {
	Chrom string
	Start int
	End   int
}

func (i Interval) GetChrom() string {
	return i.Chrom
}

func (i Interval) GetChromStart() int {
	return i.Start
}

func (i Interval) GetChromEnd() int {
	return i.End
}

func (i Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", i.Chrom, i.Start, i.End)
}

// Contains reports whether pos falls inside the half-open interval.
func (i Interval) Contains(pos int) bool {
	return pos >= i.Start && pos < i.End
}

// Overlaps reports whether the interval shares at least one base with [start, end).
func (i Interval) Overlaps(start, end int) bool {
	return i.Start < end && start < i.End
}

// ValidateIntervals returns a DataError for the first interval with start >= end or a
// negative start.
func ValidateIntervals(intervals []Interval) error {
	for _, iv := range intervals {
		if iv.Start < 0 || iv.Start >= iv.End {
			return &DataError{Unit: iv.Chrom, Msg: fmt.Sprintf("invalid interval %d-%d", iv.Start, iv.End)}
		}
	}
	return nil
}

// SortIntervals sorts intervals by chromosome name, then start, then end.
func SortIntervals(intervals []Interval) {
	slices.SortFunc(intervals, CompareIntervals)
}

// CompareIntervals orders a and b by chromosome name, then start, then end.
func CompareIntervals(a, b Interval) int {
	if c := strings.Compare(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	if a.Start != b.Start {
		return a.Start - b.Start
	}
	return a.End - b.End
}
