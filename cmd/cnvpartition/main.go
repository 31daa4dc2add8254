// Command cnvpartition segments binned copy-number signal and plots the result.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

const version string = "0.1.0"
const gonomicsVersion string = "1.0.1-0.20240426183757-e6c6ab634c20"

type subcommand struct {
	name  string
	run   func(args []string)
	blurb string
	notes string // printed under the command list
}

// commands lists every subcommand in the order shown by usage.
var commands = []subcommand{
	{
		name:  "partition",
		run:   runPartition,
		blurb: "segment binned signal into copy-number segments",
		notes: "Wavelets and CBS segment one sample per run; HMM segments two or more samples jointly.",
	},
	{
		name:  "plot",
		run:   runPlot,
		blurb: "plot a partition file as signal and segment medians",
		notes: "Reads the output of partition; use -ascii for a quick look in the terminal.",
	},
}

func usage() {
	s := new(strings.Builder)
	fmt.Fprintf(s, "cnvpartition %s (gonomics %s)\nsegmentation of binned copy-number signal\n\n", version, gonomicsVersion)
	s.WriteString("Usage:\tcnvpartition <command> [options]\n\tcnvpartition help <command>\n\nCommands:\n")

	w := tabwriter.NewWriter(s, 0, 8, 3, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\t%s\n", c.name, c.blurb)
	}
	w.Flush()

	s.WriteString("\nNotes:\n")
	for _, c := range commands {
		fmt.Fprintf(s, "  %s: %s\n", c.name, c.notes)
	}
	fmt.Fprint(os.Stderr, s.String())
}

func lookup(name string) *subcommand {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

func main() {
	flag.Usage = usage
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cnvpartition %s\n", version)
		return
	}

	name, args := flag.Arg(0), flag.Args()
	if name == "help" {
		if c := lookup(flag.Arg(1)); c != nil {
			c.run([]string{"-h"})
			return
		}
		flag.Usage()
		return
	}

	c := lookup(name)
	if c == nil {
		flag.Usage()
		if name != "" {
			errExit(fmt.Sprintf("\nERROR: unknown command %q", name))
		}
		os.Exit(2)
	}
	c.run(args[1:])
}

func errExit(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
