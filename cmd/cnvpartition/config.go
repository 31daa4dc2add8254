package main

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cbs"
	"github.com/dasnellings/cnvPartition/hmm"
	"github.com/dasnellings/cnvPartition/partition"
	"github.com/dasnellings/cnvPartition/wavelets"
	"gopkg.in/yaml.v3"
	"os"
)

// Config is the optional YAML parameter file given with -config. Values present in the
// file replace the defaults; flags given on the command line replace both.
type Config struct {
	Algorithm       string         `yaml:"algorithm"`
	MaxInterBinDist int            `yaml:"max_inter_bin_dist"`
	Threads         int            `yaml:"threads"`
	Wavelets        WaveletsConfig `yaml:"wavelets"`
	CBS             CBSConfig      `yaml:"cbs"`
	HMM             HMMConfig      `yaml:"hmm"`
}

// WaveletsConfig holds wavelet segmentation parameters.
type WaveletsConfig struct {
	Germline       bool    `yaml:"germline"`
	MadFactor      float64 `yaml:"mad_factor"`
	Levels         int     `yaml:"levels"`
	MinSegmentBins int     `yaml:"min_segment_bins"`
	GermlineFactor float64 `yaml:"germline_factor"`
}

// CBSConfig holds circular binary segmentation parameters.
type CBSConfig struct {
	Alpha       float64 `yaml:"alpha"`
	Undo        string  `yaml:"undo"`
	NPerm       int     `yaml:"n_perm"`
	MinWidth    int     `yaml:"min_width"`
	MaxArcWidth int     `yaml:"max_arc_width"`
	Seed        uint64  `yaml:"seed"`
	PruneAlpha  float64 `yaml:"prune_alpha"`
	UndoSD      float64 `yaml:"undo_sd"`
}

// HMMConfig holds joint HMM parameters.
type HMMConfig struct {
	MaxCopyNumber    int     `yaml:"max_copy_number"`
	SwitchProb       float64 `yaml:"switch_prob"`
	MinSigmaFraction float64 `yaml:"min_sigma_fraction"`
}

// DefaultConfig mirrors the library defaults.
func DefaultConfig() Config {
	w := wavelets.DefaultParams()
	c := cbs.DefaultParams()
	h := hmm.DefaultParams(0)
	return Config{
		Algorithm:       partition.AlgWavelets.String(),
		MaxInterBinDist: partition.DefaultMaxInterBinDist,
		Threads:         1,
		Wavelets: WaveletsConfig{
			MadFactor:      w.MadFactor,
			Levels:         w.Levels,
			MinSegmentBins: w.MinSegmentBins,
			GermlineFactor: w.GermlineFactor,
		},
		CBS: CBSConfig{
			Alpha:       c.Alpha,
			Undo:        c.Undo.String(),
			NPerm:       c.NPerm,
			MinWidth:    c.MinWidth,
			MaxArcWidth: c.MaxArcWidth,
			Seed:        c.Seed,
			PruneAlpha:  c.PruneAlpha,
			UndoSD:      c.UndoSD,
		},
		HMM: HMMConfig{
			MaxCopyNumber:    h.MaxCopyNumber,
			SwitchProb:       h.SwitchProb,
			MinSigmaFraction: h.MinSigmaFraction,
		},
	}
}

// LoadConfig reads a YAML parameter file on top of the values already in cfg, so keys
// missing from the file keep their current value.
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("cannot read config file %q: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return nil
}

// Choice converts the configuration into an algorithm choice for the given number of samples.
func (c Config) Choice(samples int) (partition.Choice, error) {
	alg, err := partition.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	switch alg {
	case partition.AlgWavelets:
		p := wavelets.DefaultParams()
		p.IsGermline = c.Wavelets.Germline
		p.MadFactor = c.Wavelets.MadFactor
		p.Levels = c.Wavelets.Levels
		p.MinSegmentBins = c.Wavelets.MinSegmentBins
		p.GermlineFactor = c.Wavelets.GermlineFactor
		return partition.Wavelets(p), p.Validate()
	case partition.AlgCBS:
		p := cbs.DefaultParams()
		if p.Undo, err = cbs.ParseUndoMethod(c.CBS.Undo); err != nil {
			return nil, err
		}
		p.Alpha = c.CBS.Alpha
		p.NPerm = c.CBS.NPerm
		p.MinWidth = c.CBS.MinWidth
		p.MaxArcWidth = c.CBS.MaxArcWidth
		p.Seed = c.CBS.Seed
		p.PruneAlpha = c.CBS.PruneAlpha
		p.UndoSD = c.CBS.UndoSD
		p.MaxInterBinDistInSegment = c.MaxInterBinDist
		return partition.CBS(p), p.Validate()
	default:
		p := hmm.DefaultParams(samples)
		p.MaxCopyNumber = c.HMM.MaxCopyNumber
		p.SwitchProb = c.HMM.SwitchProb
		p.MinSigmaFraction = c.HMM.MinSigmaFraction
		p.Threads = c.Threads
		return partition.HMM(p), p.Validate()
	}
}
