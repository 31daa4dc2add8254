package main

import (
	"github.com/dasnellings/cnvPartition/cbs"
	"github.com/dasnellings/cnvPartition/hmm"
	"github.com/dasnellings/cnvPartition/partition"
	"github.com/dasnellings/cnvPartition/wavelets"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	yml := "algorithm: CBS\ncbs:\n  undo: SDUndo\n  undo_sd: 2.5\n  max_arc_width: 40\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadConfig(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Algorithm != "CBS" || cfg.CBS.Undo != "SDUndo" || cfg.CBS.UndoSD != 2.5 {
		t.Error("problem reading config values", cfg)
	}
	if cfg.CBS.Alpha != cbs.DefaultAlpha || cfg.CBS.NPerm != cbs.DefaultNPerm || cfg.MaxInterBinDist != partition.DefaultMaxInterBinDist {
		t.Error("keys missing from the file should keep their defaults", cfg)
	}

	choice, err := cfg.Choice(1)
	if err != nil {
		t.Fatal(err)
	}
	p := choice.(partition.CBSChoice).Params
	if p.Undo != cbs.UndoSD || p.UndoSD != 2.5 || p.MaxArcWidth != 40 || p.MaxInterBinDistInSegment != partition.DefaultMaxInterBinDist {
		t.Error("problem converting config to parameters", p)
	}

	if err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("expected error for missing config file")
	}
	if err = os.WriteFile(path, []byte("cbs: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if err = LoadConfig(path, &cfg); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestChoice(t *testing.T) {
	cfg := DefaultConfig()
	choice, err := cfg.Choice(1)
	if err != nil || choice.Algorithm() != partition.AlgWavelets {
		t.Error("default config should choose wavelets", choice, err)
	}
	if w := choice.(partition.WaveletsChoice).Params; w.MadFactor != wavelets.DefaultMadFactor {
		t.Error("problem with wavelet defaults", w)
	}

	cfg.Algorithm = "hmm"
	cfg.Threads = 4
	choice, err = cfg.Choice(3)
	if err != nil {
		t.Fatal(err)
	}
	if h := choice.(partition.HMMChoice).Params; h.SampleCount != 3 || h.Threads != 4 || h.MaxCopyNumber != hmm.DefaultMaxCopyNumber {
		t.Error("problem converting HMM config", h)
	}

	cfg.Algorithm = "CBS"
	cfg.CBS.Undo = "sometimes"
	if _, err = cfg.Choice(1); err == nil {
		t.Error("expected error for unknown undo method")
	}
	cfg = DefaultConfig()
	cfg.Wavelets.MadFactor = -1
	if _, err = cfg.Choice(1); err == nil {
		t.Error("expected error for invalid wavelet threshold")
	}
}

func TestCheckPartitionArgs(t *testing.T) {
	var tests = []struct {
		alg     string
		in, out int
		ok      bool
	}{
		{"Wavelets", 1, 1, true},
		{"CBS", 1, 1, true},
		{"CBS", 1, 0, false},
		{"Wavelets", 2, 2, false},
		{"HMM", 1, 1, false},
		{"HMM", 2, 2, true},
		{"HMM", 3, 2, false},
		{"GMM", 1, 1, false},
		{"CBS", 0, 1, false},
	}
	for _, test := range tests {
		opts := partitionOpts{cfg: DefaultConfig()}
		opts.cfg.Algorithm = test.alg
		for i := 0; i < test.in; i++ {
			opts.inputs = append(opts.inputs, "in.bins")
		}
		for i := 0; i < test.out; i++ {
			opts.outputs = append(opts.outputs, "out.partitioned")
		}
		if msg := checkPartitionArgs(opts); (msg == "") != test.ok {
			t.Errorf("%s with %d inputs and %d outputs: got %q", test.alg, test.in, test.out, msg)
		}
	}
}

func TestSampleName(t *testing.T) {
	var tests = []struct {
		file string
		exp  string
	}{
		{"data/tumor.bins", "tumor"},
		{"/tmp/normal.bins.gz", "normal"},
		{"sample", "sample"},
	}
	for _, test := range tests {
		if got := sampleName(test.file); got != test.exp {
			t.Errorf("sampleName(%s) = %s, expected %s", test.file, got, test.exp)
		}
	}
}
