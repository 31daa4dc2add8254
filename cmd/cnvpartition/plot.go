package main

import (
	"flag"
	"fmt"
	"github.com/dasnellings/cnvPartition/binfile"
	"github.com/dasnellings/cnvPartition/segplot"
	"github.com/vertgenlab/gonomics/exception"
	"log"
)

func plotUsage(plotFlags *flag.FlagSet) {
	fmt.Print(
		"plot - draw a partition file as signal points with segment medians\n\n" +
			"Usage:\n" +
			"  cnvpartition plot [options] -p sample.partitioned -o sample.pdf\n\n" +
			"The image format follows the output extension (pdf, png, svg).\n\n" +
			"Options:\n")
	plotFlags.PrintDefaults()
}

func runPlot(args []string) {
	var err error
	plotFlags := flag.NewFlagSet("plot", flag.ExitOnError)
	partitionFile := plotFlags.String("p", "", "Partition file written by 'cnvpartition partition'.")
	output := plotFlags.String("o", "", "Output image file.")
	faiFile := plotFlags.String("fai", "", "Fasta index used to lay out chromosomes. Defaults to file order.")
	chrom := plotFlags.String("chrom", "", "Only plot this chromosome.")
	ascii := plotFlags.Bool("ascii", false, "Print a text profile of each chromosome to stdout instead of writing an image.")

	plotFlags.Usage = func() { plotUsage(plotFlags) }
	err = plotFlags.Parse(args)
	exception.PanicOnErr(err)

	if *partitionFile == "" || (*output == "" && !*ascii) {
		plotFlags.Usage()
		errExit("\nERROR: must specify a partition file (-p) and an output (-o)")
	}

	series, res, err := binfile.ReadPartition(*partitionFile, sampleName(*partitionFile))
	if err != nil {
		log.Fatal(err)
	}

	if *ascii {
		for _, c := range series.Chroms {
			if *chrom != "" && c.Name != *chrom {
				continue
			}
			fmt.Println(segplot.Ascii(c, res.Chrom(c.Name), 0))
		}
		return
	}

	var fai *binfile.Fai
	if *faiFile != "" {
		fai, err = binfile.ReadFai(*faiFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	err = segplot.Save(*output, series, res, fai, *chrom)
	exception.PanicOnErr(err)
}
