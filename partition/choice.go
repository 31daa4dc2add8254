package partition

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cbs"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/hmm"
	"github.com/dasnellings/cnvPartition/wavelets"
	"strings"
)

// Algorithm names a segmentation method.
type Algorithm int

const (
	AlgWavelets Algorithm = iota
	AlgCBS
	AlgHMM
)

var algorithmNames = []string{"Wavelets", "CBS", "HMM"}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm parses Wavelets, CBS or HMM (case insensitive).
func ParseAlgorithm(s string) (Algorithm, error) {
	for i := range algorithmNames {
		if strings.EqualFold(s, algorithmNames[i]) {
			return Algorithm(i), nil
		}
	}
	return AlgWavelets, &cnv.DataError{Msg: fmt.Sprintf("unsupported algorithm %q (expected Wavelets, CBS or HMM)", s)}
}

// Choice is an algorithm together with its parameters. The only implementations are
// WaveletsChoice, CBSChoice and HMMChoice.
type Choice interface {
	Algorithm() Algorithm
	isChoice()
}

type WaveletsChoice struct {
	Params wavelets.Params
}

type CBSChoice struct {
	Params cbs.Params
}

type HMMChoice struct {
	Params hmm.Params
}

func (WaveletsChoice) Algorithm() Algorithm { return AlgWavelets }
func (CBSChoice) Algorithm() Algorithm      { return AlgCBS }
func (HMMChoice) Algorithm() Algorithm      { return AlgHMM }

func (WaveletsChoice) isChoice() {}
func (CBSChoice) isChoice()      {}
func (HMMChoice) isChoice()      {}

// Wavelets selects wavelet segmentation.
func Wavelets(p wavelets.Params) Choice {
	return WaveletsChoice{Params: p}
}

// CBS selects circular binary segmentation.
func CBS(p cbs.Params) Choice {
	return CBSChoice{Params: p}
}

// HMM selects joint multi-sample HMM segmentation.
func HMM(p hmm.Params) Choice {
	return HMMChoice{Params: p}
}

// DefaultChoice returns the algorithm with default parameters for the given number of samples.
func DefaultChoice(a Algorithm, samples int) (Choice, error) {
	switch a {
	case AlgWavelets:
		return Wavelets(wavelets.DefaultParams()), nil
	case AlgCBS:
		return CBS(cbs.DefaultParams()), nil
	case AlgHMM:
		return HMM(hmm.DefaultParams(samples)), nil
	}
	return nil, &cnv.DataError{Msg: fmt.Sprintf("unsupported algorithm %s", a)}
}
