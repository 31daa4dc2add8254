package hmm

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/mask"
)

const (
	DefaultMaxCopyNumber    int     = 5
	DefaultSwitchProb       float64 = 1e-3
	DefaultMinSigmaFraction float64 = 0.05
)

// MinLogEmission is the floor applied to per-bin joint log emissions so that one wildly
// outlying bin cannot drive every state to -Inf.
const MinLogEmission float64 = -1e4

// minSigma is the absolute floor of a sample's noise estimate.
const minSigma float64 = 1e-6

// Params configures joint multi-sample HMM segmentation.
type Params struct {
	Forced           *mask.Forced    // forced interval edges always cut the decoded path
	Exclusion        *mask.Exclusion // excluded bins are not decoded and masked regions cut the path
	SampleCount      int             // number of series passed to Run, at least 2
	MaxCopyNumber    int             // states are copy numbers 0..MaxCopyNumber
	SwitchProb       float64         // total probability of leaving the current state between bins
	MinSigmaFraction float64         // noise floor as a fraction of the diploid level
	Threads          int             // chromosomes decoded in parallel; values < 1 mean 1
	Verbose          int
}

// DefaultParams returns the default parameters for the given number of samples.
func DefaultParams(sampleCount int) Params {
	return Params{
		SampleCount:      sampleCount,
		MaxCopyNumber:    DefaultMaxCopyNumber,
		SwitchProb:       DefaultSwitchProb,
		MinSigmaFraction: DefaultMinSigmaFraction,
		Threads:          1,
	}
}

// Validate returns a ConfigError for out of range parameters.
func (p Params) Validate() error {
	switch {
	case p.SampleCount < 2:
		return &cnv.ConfigError{Param: "sampleCount", Msg: fmt.Sprintf("HMM segmentation needs at least 2 samples, got %d", p.SampleCount)}
	case p.MaxCopyNumber < 1:
		return &cnv.ConfigError{Param: "maxCopyNumber", Msg: fmt.Sprintf("must be >= 1, got %d", p.MaxCopyNumber)}
	case !(p.SwitchProb > 0 && p.SwitchProb < 1):
		return &cnv.ConfigError{Param: "switchProb", Msg: fmt.Sprintf("must be in (0,1), got %g", p.SwitchProb)}
	case !(p.MinSigmaFraction >= 0):
		return &cnv.ConfigError{Param: "minSigmaFraction", Msg: fmt.Sprintf("must be >= 0, got %g", p.MinSigmaFraction)}
	}
	return nil
}
