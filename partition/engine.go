// Package partition is the single entry point for segmentation. It checks the inputs,
// dispatches to the selected algorithm and applies the shared post-processing pass, so
// every algorithm honors exclusion, gap and forced interval constraints the same way.
package partition

import (
	"errors"
	"fmt"
	"github.com/dasnellings/cnvPartition/cbs"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/hmm"
	"github.com/dasnellings/cnvPartition/mask"
	"github.com/dasnellings/cnvPartition/postprocess"
	"github.com/dasnellings/cnvPartition/segplot"
	"github.com/dasnellings/cnvPartition/wavelets"
	"github.com/vertgenlab/gonomics/numbers"
	"log"
	"sync"
)

// DefaultMaxInterBinDist is the largest distance between consecutive bins of one segment.
const DefaultMaxInterBinDist int = 1000000

// Engine holds the constraints shared by every algorithm. The zero value applies no masks,
// disables nothing and runs on a single thread; note that a zero MaxInterBinDist splits
// segments at any gap between bins, so use NewEngine for the usual defaults.
type Engine struct {
	Exclusion       *mask.Exclusion
	Forced          *mask.Forced
	MaxInterBinDist int // negative disables gap splitting
	Threads         int
	Verbose         int
}

// NewEngine returns an engine with DefaultMaxInterBinDist and one thread.
func NewEngine() *Engine {
	return &Engine{MaxInterBinDist: DefaultMaxInterBinDist, Threads: 1}
}

// Run segments the series with the chosen algorithm. HMM needs two or more series and
// returns one result per series with shared boundaries; every other algorithm takes
// exactly one series. Bin indices in the returned segments refer to the input bins.
func (e *Engine) Run(series []*cnv.Series, choice Choice) ([]*cnv.Result, error) {
	if choice == nil {
		return nil, &cnv.DataError{Msg: "unsupported algorithm: no algorithm selected"}
	}
	if err := checkCount(series, choice); err != nil {
		return nil, err
	}
	for _, s := range series {
		if s == nil {
			return nil, &cnv.DataError{Msg: "nil series"}
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	raw, err := e.dispatch(series, choice)
	if err != nil {
		return nil, err
	}

	ans := make([]*cnv.Result, len(raw))
	for i := range raw {
		ans[i] = postprocess.ApplyResult(series[i], raw[i], e.Exclusion, e.Forced, e.MaxInterBinDist)
		if e.Verbose > 0 {
			log.Printf("%s: %s produced %d segments over %d bins", ans[i].Sample, choice.Algorithm(), len(ans[i].Segments()), series[i].NumBins())
		}
		if e.Verbose > 2 {
			for _, c := range series[i].Chroms {
				log.Printf("%s %s\n%s", ans[i].Sample, c.Name, segplot.Ascii(c, ans[i].Chrom(c.Name), 0))
			}
		}
	}
	return ans, nil
}

// RunSamples segments independent samples concurrently on e.Threads goroutines with a
// single-sample algorithm. Results are returned in input order; a sample that fails has a
// nil result and its error is joined into the returned error without affecting the others.
// An HMM choice is run jointly over all series instead.
func (e *Engine) RunSamples(series []*cnv.Series, choice Choice) ([]*cnv.Result, error) {
	if choice != nil && choice.Algorithm() == AlgHMM {
		return e.Run(series, choice)
	}

	ans := make([]*cnv.Result, len(series))
	errs := make([]error, len(series))
	threads := e.Threads
	if threads < 1 {
		threads = 1
	}
	jobs := make(chan int)
	wg := new(sync.WaitGroup)
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go e.sampleWorker(jobs, series, choice, ans, errs, wg)
	}
	for i := range series {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return ans, errors.Join(errs...)
}

func (e *Engine) sampleWorker(jobs <-chan int, series []*cnv.Series, choice Choice, ans []*cnv.Result, errs []error, wg *sync.WaitGroup) {
	for i := range jobs {
		res, err := e.Run(series[i:i+1], choice)
		if err != nil {
			errs[i] = fmt.Errorf("sample %d: %w", i, err)
			continue
		}
		ans[i] = res[0]
	}
	wg.Done()
}

func checkCount(series []*cnv.Series, choice Choice) error {
	if choice.Algorithm() == AlgHMM {
		if len(series) < 2 {
			return &cnv.ConfigError{Param: "series", Msg: fmt.Sprintf("HMM needs at least 2 samples, got %d", len(series))}
		}
		return nil
	}
	if len(series) != 1 {
		return &cnv.ConfigError{Param: "series", Msg: fmt.Sprintf("%s segments exactly 1 sample, got %d", choice.Algorithm(), len(series))}
	}
	return nil
}

// dispatch hands the engine's masks to the chosen algorithm and runs it once.
func (e *Engine) dispatch(series []*cnv.Series, choice Choice) ([]*cnv.Result, error) {
	var res *cnv.Result
	var err error
	switch c := choice.(type) {
	case WaveletsChoice:
		p := c.Params
		p.Exclusion, p.Forced = e.Exclusion, e.Forced
		p.Verbose = numbers.Max(p.Verbose, e.Verbose)
		res, err = wavelets.Run(series[0], p)
	case CBSChoice:
		p := c.Params
		p.Exclusion = e.Exclusion
		p.Verbose = numbers.Max(p.Verbose, e.Verbose)
		res, err = cbs.Run(series[0], p)
	case HMMChoice:
		p := c.Params
		p.Exclusion, p.Forced = e.Exclusion, e.Forced
		p.Verbose = numbers.Max(p.Verbose, e.Verbose)
		if p.Threads < 1 {
			p.Threads = e.Threads
		}
		return hmm.Run(series, p)
	default:
		return nil, &cnv.DataError{Msg: fmt.Sprintf("unsupported algorithm %T", choice)}
	}
	if err != nil {
		return nil, err
	}
	return []*cnv.Result{res}, nil
}
