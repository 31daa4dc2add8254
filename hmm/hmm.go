// Package hmm segments several samples jointly with a copy-number hidden Markov model.
// All samples share one decoded state path per chromosome, so segment boundaries are
// identical across samples while segment statistics come from each sample's own signal.
package hmm

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"log"
	"sync"
)

// Run decodes every chromosome of the samples jointly. All series must describe the same
// chromosomes in the same order with identical bins. Chromosomes are decoded on up to
// p.Threads goroutines; each chromosome is one unit of work spanning every sample.
func Run(series []*cnv.Series, p Params) ([]*cnv.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.SampleCount != len(series) {
		return nil, &cnv.ConfigError{Param: "sampleCount", Msg: fmt.Sprintf("expected %d samples, got %d", p.SampleCount, len(series))}
	}
	for _, s := range series {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	if err := checkAligned(series); err != nil {
		return nil, err
	}

	m := newModel(series, p)
	nChroms := len(series[0].Chroms)
	ans := make([]*cnv.Result, len(series))
	for s := range series {
		ans[s] = &cnv.Result{Sample: series[s].Sample, Chroms: make([]cnv.ChromSegments, nChroms)}
	}

	threads := p.Threads
	if threads < 1 {
		threads = 1
	}
	jobs := make(chan int)
	wg := new(sync.WaitGroup)
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go decodeWorker(jobs, series, m, p, ans, wg)
	}
	for c := 0; c < nChroms; c++ {
		jobs <- c
	}
	close(jobs)
	wg.Wait()
	return ans, nil
}

// decodeWorker decodes the chromosomes received on jobs. Every chromosome index is written
// by exactly one worker.
func decodeWorker(jobs <-chan int, series []*cnv.Series, m *model, p Params, ans []*cnv.Result, wg *sync.WaitGroup) {
	chroms := make([]*cnv.Chromosome, len(series))
	for c := range jobs {
		for s := range series {
			chroms[s] = series[s].Chroms[c]
		}
		segs := decode(chroms, m, p)
		for s := range series {
			ans[s].Chroms[c] = cnv.ChromSegments{Name: chroms[s].Name, Segments: segs[s]}
		}
		if p.Verbose > 1 {
			log.Printf("hmm: %s: %d bins, %d segments", chroms[0].Name, len(chroms[0].Bins), len(segs[0]))
		}
	}
	wg.Done()
}

// decode runs Viterbi over one chromosome of every sample and returns the segments of each
// sample. The path is decoded separately between masked regions and forced interval edges.
func decode(chroms []*cnv.Chromosome, m *model, p Params) [][]cnv.Segment {
	ref := chroms[0]
	ans := make([][]cnv.Segment, len(chroms))
	idx := p.Exclusion.Kept(ref)
	if len(idx) == 0 {
		return ans
	}

	em := make([][]float64, len(idx))
	signal := make([]float64, len(chroms))
	for t, b := range idx {
		for s := range chroms {
			signal[s] = chroms[s].Bins[b].Signal
		}
		em[t] = make([]float64, m.states)
		m.logEmission(em[t], signal)
	}

	cuts := cnv.UnionSorted(p.Exclusion.Breaks(ref, idx), p.Forced.Breaks(ref, idx))
	path := make([]int, 0, len(idx))
	lo := 0
	for _, hi := range append(cuts, len(idx)) {
		path = append(path, m.viterbi(em[lo:hi])...)
		lo = hi
	}

	starts := []int{0}
	for t := 1; t < len(path); t++ {
		if path[t] != path[t-1] {
			starts = append(starts, t)
		}
	}
	starts = cnv.UnionSorted(starts, cuts)

	for s := range chroms {
		ans[s] = cnv.SegmentsFromStarts(chroms[s], idx, starts)
		for j := range ans[s] {
			ans[s][j].State = path[starts[j]]
		}
	}
	return ans
}

// checkAligned returns a ConfigError unless every series has the same chromosomes in the
// same order with identical bin coordinates.
func checkAligned(series []*cnv.Series) error {
	ref := series[0]
	for _, s := range series[1:] {
		if len(s.Chroms) != len(ref.Chroms) {
			return &cnv.ConfigError{Param: "series", Msg: fmt.Sprintf("%s has %d chromosomes, %s has %d", s.Sample, len(s.Chroms), ref.Sample, len(ref.Chroms))}
		}
		for c := range ref.Chroms {
			a, b := ref.Chroms[c], s.Chroms[c]
			if a.Name != b.Name {
				return &cnv.ConfigError{Param: "series", Msg: fmt.Sprintf("chromosome %d is %s in %s but %s in %s", c, a.Name, ref.Sample, b.Name, s.Sample)}
			}
			if len(a.Bins) != len(b.Bins) {
				return &cnv.ConfigError{Param: "series", Msg: fmt.Sprintf("%s has %d bins in %s but %d in %s", a.Name, len(a.Bins), ref.Sample, len(b.Bins), s.Sample)}
			}
			for i := range a.Bins {
				if a.Bins[i].Start != b.Bins[i].Start || a.Bins[i].End != b.Bins[i].End {
					return &cnv.ConfigError{Param: "series", Msg: fmt.Sprintf("%s bin %d differs between %s and %s", a.Name, i, ref.Sample, s.Sample)}
				}
			}
		}
	}
	return nil
}
