// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Saran-nns/Neurogenesis/sorn"
	"github.com/emer/etable/v2/etensor"
	"gopkg.in/yaml.v3"
)

// Config is the YAML run configuration.  Zero values fall back to the
// engine defaults, so a minimal config file only names what it changes.
type Config struct {
	// Name labels the run in log output.
	Name string `yaml:"name"`

	// Seed is the random seed; runs with the same seed and config are
	// bit-identical.
	Seed int64 `yaml:"seed"`

	// Phase is "plasticity" or "training".
	Phase string `yaml:"phase"`

	// Timesteps is the number of simulation steps.
	Timesteps int `yaml:"timesteps"`

	// Noise disables the white-noise drive when set to false.
	Noise *bool `yaml:"noise,omitempty"`

	// Freeze lists plasticity mechanisms to disable: stdp, ip, sp,
	// istdp, ss.
	Freeze []string `yaml:"freeze,omitempty"`

	// Metrics lists the per-step metrics to record.
	Metrics []string `yaml:"metrics,omitempty"`

	Network    NetworkConfig    `yaml:"network"`
	Plasticity PlasticityConfig `yaml:"plasticity"`
	Genesis    GenesisConfig    `yaml:"genesis"`

	// Input is an optional path to a JSON stimulus file holding
	// {"Shape": [nu, timesteps], "Values": [...]}.
	Input string `yaml:"input,omitempty"`

	// StateIn continues the run from a saved state dict instead of a
	// fresh initialization.
	StateIn string `yaml:"state_in,omitempty"`

	// StateOut saves the terminal state dict (gzip when the path ends
	// in .gz).
	StateOut string `yaml:"state_out,omitempty"`

	// MetricsOut writes the collected metrics as a TSV table.
	MetricsOut string `yaml:"metrics_out,omitempty"`
}

type NetworkConfig struct {
	Nu       int     `yaml:"nu"`
	Ne       int     `yaml:"ne"`
	NiFrac   float64 `yaml:"ni_frac"`
	LambdaEE int     `yaml:"lambda_ee"`
	LambdaEI int     `yaml:"lambda_ei"`
	LambdaIE int     `yaml:"lambda_ie"`
}

type PlasticityConfig struct {
	EtaSTDP  float64 `yaml:"eta_stdp"`
	EtaInhib float64 `yaml:"eta_inhib"`
	EtaIP    float64 `yaml:"eta_ip"`
	MuIP     float64 `yaml:"mu_ip"`
	NewWt    float64 `yaml:"new_wt"`
	PNew     float64 `yaml:"p_new"`
}

type GenesisConfig struct {
	On         bool `yaml:"on"`
	NumNew     int  `yaml:"num_new"`
	InitStep   int  `yaml:"init_step"`
	InhibEvery int  `yaml:"inhib_every"`
}

// DefaultConfig returns a config matching the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:      "sorn",
		Phase:     "plasticity",
		Timesteps: 10000,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// BuildNetwork builds a configured network from the config.  Only
// explicitly set values override the engine defaults.
func (cfg *Config) BuildNetwork() (*sorn.Network, error) {
	nt := sorn.NewNetwork(cfg.Name)
	nt.Seed = cfg.Seed

	ph, err := sorn.PhaseFromString(cfg.Phase)
	if err != nil {
		return nil, err
	}
	nt.Phase = ph
	if cfg.Noise != nil {
		nt.Noise = *cfg.Noise
	}
	for _, nm := range cfg.Freeze {
		mech, err := sorn.MechFromString(nm)
		if err != nil {
			return nil, err
		}
		nt.Freeze = append(nt.Freeze, mech)
	}
	nt.Metrics = cfg.Metrics

	np := &nt.Params.Net
	if cfg.Network.Nu > 0 {
		np.Nu = cfg.Network.Nu
	}
	if cfg.Network.Ne > 0 {
		np.Ne = cfg.Network.Ne
	}
	if cfg.Network.NiFrac > 0 {
		np.NiFrac = cfg.Network.NiFrac
	}
	if cfg.Network.LambdaEE > 0 {
		np.LambdaEE = cfg.Network.LambdaEE
	}
	if cfg.Network.LambdaEI > 0 {
		np.LambdaEI = cfg.Network.LambdaEI
	}
	if cfg.Network.LambdaIE > 0 {
		np.LambdaIE = cfg.Network.LambdaIE
	}

	pp := &nt.Params.Plast
	if cfg.Plasticity.EtaSTDP > 0 {
		pp.EtaSTDP = cfg.Plasticity.EtaSTDP
	}
	if cfg.Plasticity.EtaInhib > 0 {
		pp.EtaInhib = cfg.Plasticity.EtaInhib
	}
	if cfg.Plasticity.EtaIP > 0 {
		pp.EtaIP = cfg.Plasticity.EtaIP
	}
	if cfg.Plasticity.MuIP > 0 {
		pp.MuIP = cfg.Plasticity.MuIP
	}
	if cfg.Plasticity.NewWt > 0 {
		pp.NewWt = cfg.Plasticity.NewWt
	}
	if cfg.Plasticity.PNew > 0 {
		pp.PNew = cfg.Plasticity.PNew
	}

	gp := &nt.Params.Genesis
	gp.On = cfg.Genesis.On
	if cfg.Genesis.NumNew > 0 {
		gp.NumNew = cfg.Genesis.NumNew
	}
	if cfg.Genesis.InitStep > 0 {
		gp.InitStep = cfg.Genesis.InitStep
	}
	if cfg.Genesis.InhibEvery > 0 {
		gp.InhibEvery = cfg.Genesis.InhibEvery
	}

	return nt, nil
}

// stimulusJSON is the on-disk stimulus format.
type stimulusJSON struct {
	Shape  []int     `json:"Shape"`
	Values []float64 `json:"Values"`
}

// LoadInputs reads a JSON stimulus file into a [nu, timesteps] tensor.
func LoadInputs(path string) (*etensor.Float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inputs: %w", err)
	}
	var sj stimulusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, fmt.Errorf("parsing inputs %s: %w", path, err)
	}
	if len(sj.Shape) != 2 {
		return nil, fmt.Errorf("inputs %s: shape must be [channels, timesteps], got %v", path, sj.Shape)
	}
	n := sj.Shape[0] * sj.Shape[1]
	if n != len(sj.Values) {
		return nil, fmt.Errorf("inputs %s: shape %v does not match %d values", path, sj.Shape, len(sj.Values))
	}
	in := etensor.NewFloat64(sj.Shape, nil, []string{"Units", "Time"})
	copy(in.Values, sj.Values)
	return in, nil
}
