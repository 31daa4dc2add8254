package hmm

import (
	"github.com/dasnellings/cnvPartition/cnv"
	"gonum.org/v1/gonum/stat/distuv"
	"math"
)

// model holds the copy-number emission distributions of every sample and the shared
// transition log probabilities.
type model struct {
	states    int
	emissions [][]distuv.Normal // [sample][state]
	logStay   float64
	logMove   float64
	logInit   float64
}

// newModel fits each sample's diploid level and noise from its own signal. State c of
// sample s emits Normal(d_s*c/2, sigma_s*sqrt(max(c,1)/2)).
func newModel(series []*cnv.Series, p Params) *model {
	k := p.MaxCopyNumber + 1
	m := &model{
		states:    k,
		emissions: make([][]distuv.Normal, len(series)),
		logStay:   math.Log1p(-p.SwitchProb),
		logMove:   math.Log(p.SwitchProb / float64(k-1)),
		logInit:   -math.Log(float64(k)),
	}
	for s := range series {
		d, sigma := Level(series[s].Signal(), p.MinSigmaFraction)
		m.emissions[s] = make([]distuv.Normal, k)
		for c := 0; c < k; c++ {
			m.emissions[s][c] = distuv.Normal{
				Mu:    d * float64(c) / 2,
				Sigma: sigma * math.Sqrt(math.Max(float64(c), 1)/2),
			}
		}
	}
	return m
}

// Level returns the diploid signal level (median) and the floored robust noise estimate
// of a sample.
func Level(signal []float64, minSigmaFraction float64) (d, sigma float64) {
	if len(signal) == 0 {
		return 0, minSigma
	}
	d = cnv.Median(signal)
	sigma = cnv.RobustSD(signal)
	if floor := minSigmaFraction * math.Abs(d); sigma < floor {
		sigma = floor
	}
	if sigma < minSigma {
		sigma = minSigma
	}
	return d, sigma
}

// logEmission fills dst with the joint log emission of every state for one bin, given the
// signal of that bin in every sample.
func (m *model) logEmission(dst []float64, signal []float64) {
	for c := range dst {
		dst[c] = 0
		for s := range signal {
			dst[c] += m.emissions[s][c].LogProb(signal[s])
		}
		if math.IsNaN(dst[c]) || dst[c] < MinLogEmission {
			dst[c] = MinLogEmission
		}
	}
}
