package cbs

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/mask"
	"strings"
)

const (
	DefaultAlpha       float64 = 0.01
	DefaultNPerm       int     = 1000
	DefaultMinWidth    int     = 2
	DefaultMaxArcWidth int     = 25
	DefaultSeed        uint64  = 0x5eed
	DefaultPruneAlpha  float64 = 0.05
	DefaultUndoSD      float64 = 3
)

// UndoMethod selects the merging pass run after recursive splitting.
type UndoMethod int

const (
	UndoNone  UndoMethod = iota // keep every split
	UndoPrune                   // merge neighbours whose means are not different by a t-test at PruneAlpha
	UndoSD                      // merge neighbours whose means differ by less than UndoSD genome-wide SDs
)

var undoNames = []string{"None", "Prune", "SDUndo"}

func (u UndoMethod) String() string {
	if u < 0 || int(u) >= len(undoNames) {
		return fmt.Sprintf("UndoMethod(%d)", int(u))
	}
	return undoNames[u]
}

// ParseUndoMethod parses None, Prune or SDUndo (case insensitive).
func ParseUndoMethod(s string) (UndoMethod, error) {
	for i := range undoNames {
		if strings.EqualFold(s, undoNames[i]) {
			return UndoMethod(i), nil
		}
	}
	return UndoNone, &cnv.DataError{Msg: fmt.Sprintf("unsupported undo method %q (expected None, Prune or SDUndo)", s)}
}

// Params configures circular binary segmentation.
type Params struct {
	Alpha                    float64    // significance level of the permutation test
	Undo                     UndoMethod // merging pass after splitting
	MaxInterBinDistInSegment int        // bins further apart than this are never tested together; negative disables
	NPerm                    int        // permutations per test
	MinWidth                 int        // minimum number of bins of a segment created by a split
	Seed                     uint64     // permutation seed; identical seeds give identical output
	MaxArcWidth              int        // interior arc width cap for long windows; 0 tests every arc
	PruneAlpha               float64
	UndoSD                   float64
	Exclusion                *mask.Exclusion
	Verbose                  int
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{
		Alpha:                    DefaultAlpha,
		Undo:                     UndoNone,
		MaxInterBinDistInSegment: 1000000,
		NPerm:                    DefaultNPerm,
		MinWidth:                 DefaultMinWidth,
		MaxArcWidth:              DefaultMaxArcWidth,
		Seed:                     DefaultSeed,
		PruneAlpha:               DefaultPruneAlpha,
		UndoSD:                   DefaultUndoSD,
	}
}

// Validate returns a ConfigError for out of range parameters.
func (p Params) Validate() error {
	switch {
	case !(p.Alpha > 0 && p.Alpha < 1):
		return &cnv.ConfigError{Param: "alpha", Msg: fmt.Sprintf("must be in (0,1), got %g", p.Alpha)}
	case p.NPerm < 1:
		return &cnv.ConfigError{Param: "nPerm", Msg: fmt.Sprintf("must be >= 1, got %d", p.NPerm)}
	case p.MinWidth < 1:
		return &cnv.ConfigError{Param: "minWidth", Msg: fmt.Sprintf("must be >= 1, got %d", p.MinWidth)}
	case p.MaxArcWidth < 0:
		return &cnv.ConfigError{Param: "maxArcWidth", Msg: fmt.Sprintf("must be >= 0, got %d", p.MaxArcWidth)}
	case p.Undo < UndoNone || p.Undo > UndoSD:
		return &cnv.DataError{Msg: fmt.Sprintf("unsupported undo method %d", int(p.Undo))}
	case p.Undo == UndoPrune && !(p.PruneAlpha > 0 && p.PruneAlpha < 1):
		return &cnv.ConfigError{Param: "pruneAlpha", Msg: fmt.Sprintf("must be in (0,1), got %g", p.PruneAlpha)}
	case p.Undo == UndoSD && !(p.UndoSD > 0):
		return &cnv.ConfigError{Param: "undoSD", Msg: fmt.Sprintf("must be > 0, got %g", p.UndoSD)}
	}
	return nil
}
