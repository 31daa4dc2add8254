package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/cnvPartition/binfile"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/dasnellings/cnvPartition/mask"
	"github.com/dasnellings/cnvPartition/partition"
	"github.com/vertgenlab/gonomics/exception"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"
)

func partitionUsage(partitionFlags *flag.FlagSet) {
	fmt.Print(
		"partition - segment binned copy-number signal\n\n" +
			"Usage:\n" +
			"  cnvpartition partition [options] -i sample.bins -o sample.partitioned\n" +
			"  cnvpartition partition [options] -m HMM -i a.bins -i b.bins -o a.partitioned -o b.partitioned\n\n" +
			"Input bins are tab separated: chrom, start, end, signal.\n" +
			"Output lists every segmented bin: chrom, start, end, signal, segment index.\n\n" +
			"Options:\n")
	partitionFlags.PrintDefaults()
}

// inputFiles collects a repeatable file flag.
type inputFiles []string

func (i *inputFiles) String() string {
	return strings.Join(*i, " ")
}

func (i *inputFiles) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// partitionOpts are the parsed partition flags.
type partitionOpts struct {
	inputs, outputs inputFiles
	excludeBed      string
	commonCnvBed    string
	faiFile         string
	column          int
	writeSegments   bool
	verbose         int
	cfg             Config
}

func runPartition(args []string) {
	var err error
	partitionFlags := flag.NewFlagSet("partition", flag.ExitOnError)
	def := DefaultConfig()

	var opts partitionOpts
	cpuprofile := partitionFlags.String("cpuprofile", "", "write cpu profile")
	partitionFlags.Var(&opts.inputs, "i", "Input bin file. Declare more than once for multi-sample HMM segmentation.")
	partitionFlags.Var(&opts.outputs, "o", "Output partition file. Declare once per input, in the same order.")
	configFile := partitionFlags.String("config", "", "YAML file with segmentation parameters. Flags given on the command line override values in the file.")
	method := partitionFlags.String("m", def.Algorithm, "Segmentation method: Wavelets, CBS or HMM.")
	alpha := partitionFlags.Float64("a", def.CBS.Alpha, "CBS significance level.")
	undo := partitionFlags.String("s", def.CBS.Undo, "CBS undo method: None, Prune or SDUndo.")
	madFactor := partitionFlags.Float64("f", def.Wavelets.MadFactor, "Wavelets threshold in units of the median absolute deviation.")
	germline := partitionFlags.Bool("g", false, "Input is a germline sample; use the stricter wavelet threshold.")
	maxInterBinDist := partitionFlags.Int("d", def.MaxInterBinDist, "Maximum distance between consecutive bins of one segment. Set to -1 for no limit.")
	seed := partitionFlags.Uint64("seed", def.CBS.Seed, "Seed for CBS permutations.")
	threads := partitionFlags.Int("threads", def.Threads, "Number of chromosomes to segment in parallel (HMM).")
	partitionFlags.StringVar(&opts.excludeBed, "b", "", "Bed file with regions to exclude. Excluded bins are dropped and no segment spans an excluded region.")
	partitionFlags.StringVar(&opts.commonCnvBed, "c", "", "Bed file with common CNV regions. Each becomes its own segment.")
	partitionFlags.StringVar(&opts.faiFile, "fai", "", "Fasta index used to order chromosomes in the output.")
	partitionFlags.IntVar(&opts.column, "column", binfile.SignalColumn, "0-based column of the signal in the input bin files.")
	partitionFlags.BoolVar(&opts.writeSegments, "segments", false, "Also write one BED record per segment to <output>.segments.bed")
	partitionFlags.IntVar(&opts.verbose, "v", 0, "Level of verbosity in log.")

	partitionFlags.Usage = func() { partitionUsage(partitionFlags) }
	err = partitionFlags.Parse(args)
	exception.PanicOnErr(err)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			errExit(err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			errExit(err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	opts.cfg = def
	if *configFile != "" {
		if err = LoadConfig(*configFile, &opts.cfg); err != nil {
			errExit(err.Error())
		}
	}
	partitionFlags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "m":
			opts.cfg.Algorithm = *method
		case "a":
			opts.cfg.CBS.Alpha = *alpha
		case "s":
			opts.cfg.CBS.Undo = *undo
		case "f":
			opts.cfg.Wavelets.MadFactor = *madFactor
		case "g":
			opts.cfg.Wavelets.Germline = *germline
		case "d":
			opts.cfg.MaxInterBinDist = *maxInterBinDist
		case "seed":
			opts.cfg.CBS.Seed = *seed
		case "threads":
			opts.cfg.Threads = *threads
		}
	})

	if msg := checkPartitionArgs(opts); msg != "" {
		partitionFlags.Usage()
		errExit("\nERROR: " + msg)
	}

	partitionFiles(opts)
}

// checkPartitionArgs returns a description of the first invalid argument combination, or
// an empty string.
func checkPartitionArgs(opts partitionOpts) string {
	alg, err := partition.ParseAlgorithm(opts.cfg.Algorithm)
	switch {
	case err != nil:
		return err.Error()
	case len(opts.inputs) == 0:
		return "must specify at least one input (-i)"
	case alg == partition.AlgHMM && len(opts.inputs) < 2:
		return "HMM segmentation requires more than one input (-i)"
	case alg != partition.AlgHMM && len(opts.outputs) != 1:
		return fmt.Sprintf("%s segmentation requires exactly one output (-o), got %d", alg, len(opts.outputs))
	case len(opts.outputs) != len(opts.inputs):
		return fmt.Sprintf("number of outputs (-o) must match number of inputs (-i): %d != %d", len(opts.outputs), len(opts.inputs))
	case opts.cfg.Threads < 1:
		return "threads must be >= 1"
	}
	return ""
}

func partitionFiles(opts partitionOpts) {
	startTime := time.Now()
	var err error

	series := make([]*cnv.Series, len(opts.inputs))
	for i := range opts.inputs {
		series[i], err = binfile.ReadBinsColumn(opts.inputs[i], sampleName(opts.inputs[i]), opts.column)
		if err != nil {
			log.Fatal(err)
		}
		if opts.verbose > 0 {
			log.Printf("Read %d bins on %d chromosomes from %s", series[i].NumBins(), len(series[i].Chroms), opts.inputs[i])
		}
	}

	if opts.faiFile != "" {
		fai, err := binfile.ReadFai(opts.faiFile)
		if err != nil {
			log.Fatal(err)
		}
		for i := range series {
			fai.SortSeries(series[i])
		}
	}

	engine := partition.NewEngine()
	engine.MaxInterBinDist = opts.cfg.MaxInterBinDist
	engine.Threads = opts.cfg.Threads
	engine.Verbose = opts.verbose
	engine.Exclusion, engine.Forced = readMasks(opts.excludeBed, opts.commonCnvBed)

	choice, err := opts.cfg.Choice(len(series))
	if err != nil {
		log.Fatal(err)
	}
	results, err := engine.Run(series, choice)
	if err != nil {
		log.Fatal(err)
	}

	for i := range results {
		err = binfile.WritePartition(opts.outputs[i], series[i], results[i])
		exception.PanicOnErr(err)
		if opts.writeSegments {
			err = binfile.WriteSegments(opts.outputs[i]+".segments.bed", results[i])
			exception.PanicOnErr(err)
		}
	}

	if opts.verbose > 0 {
		log.Printf("Successfully Completed\nTotal Runtime: %s\n", time.Since(startTime).Round(time.Millisecond))
	}
}

func readMasks(excludeBed, commonCnvBed string) (*mask.Exclusion, *mask.Forced) {
	excluded, err := binfile.ReadIntervals(excludeBed)
	if err != nil {
		log.Fatal(err)
	}
	ex, err := mask.NewExclusion(excluded)
	if err != nil {
		log.Fatal(err)
	}
	common, err := binfile.ReadIntervals(commonCnvBed)
	if err != nil {
		log.Fatal(err)
	}
	forced, err := mask.NewForced(common)
	if err != nil {
		log.Fatal(err)
	}
	return ex, forced
}

// sampleName is the input file name without directories or extensions.
func sampleName(file string) string {
	name := filepath.Base(file)
	name = strings.TrimSuffix(name, ".gz")
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}
