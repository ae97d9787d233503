// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/v2/erand"
	"github.com/emer/etable/v2/minmax"
)

// NetParams are the population-size and pathway-connectivity parameters.
// The values here describe the network at initialization; the current
// population sizes during a run live on the State, since neurogenesis
// grows them mid-run.
type NetParams struct {
	Nu int `def:"10" min:"1" desc:"number of external input channels -- the raw stimulus vector must have exactly this length"`

	Ne int `def:"200" min:"2" desc:"initial number of excitatory units"`

	NiFrac float64 `def:"0.2" min:"0" max:"1" desc:"initial inhibitory population size as a fraction of Ne -- only an initial ratio, the two populations grow independently once neurogenesis begins"`

	TypeEE ConnType `desc:"connectivity type for the excitatory-excitatory pathway Wee"`

	TypeEI ConnType `desc:"connectivity type for the inhibitory-excitatory pathway Wei"`

	TypeIE ConnType `desc:"connectivity type for the excitatory-inhibitory pathway Wie -- Dense in the standard model"`

	LambdaEE int `def:"20" desc:"target average number of incoming and outgoing Wee connections per neuron (sparse pathways only)"`

	LambdaEI int `def:"20" desc:"target average number of Wei connections per neuron (sparse pathways only)"`

	LambdaIE int `def:"100" desc:"fan-in for the Wie pathway -- unused when TypeIE is Dense"`

	TeRange minmax.F64 `view:"inline" desc:"bounds for the excitatory firing thresholds Te -- enforced after every IP update"`

	TiRange minmax.F64 `view:"inline" desc:"bounds for the inhibitory firing thresholds Ti"`
}

func (np *NetParams) Defaults() {
	np.Nu = 10
	np.Ne = 200
	np.NiFrac = 0.2
	np.TypeEE = Sparse
	np.TypeEI = Sparse
	np.TypeIE = Dense
	np.LambdaEE = 20
	np.LambdaEI = 20
	np.LambdaIE = 100
	np.TeRange.Set(0, 1)
	np.TiRange.Set(0, 0.5)
}

func (np *NetParams) Update() {
}

// Ni returns the initial inhibitory population size.
func (np *NetParams) Ni() int {
	return int(np.NiFrac * float64(np.Ne))
}

// Validate checks the structural preconditions on the network parameters.
func (np *NetParams) Validate() error {
	if np.Nu < 1 || np.Ne < 2 {
		return fmt.Errorf("sorn.NetParams: need Nu >= 1 and Ne >= 2, got Nu=%d Ne=%d", np.Nu, np.Ne)
	}
	if np.Nu > np.Ne {
		return fmt.Errorf("sorn.NetParams: number of input channels Nu=%d exceeds Ne=%d", np.Nu, np.Ne)
	}
	if np.Ni() < 1 {
		return fmt.Errorf("sorn.NetParams: NiFrac=%g yields an empty inhibitory pool for Ne=%d", np.NiFrac, np.Ne)
	}
	if np.TypeEE == Sparse && np.LambdaEE > np.Ne {
		return fmt.Errorf("sorn.NetParams: LambdaEE=%d exceeds excitatory pool size Ne=%d", np.LambdaEE, np.Ne)
	}
	if np.TypeEI == Sparse && np.LambdaEI > np.Ne {
		return fmt.Errorf("sorn.NetParams: LambdaEI=%d exceeds excitatory pool size Ne=%d", np.LambdaEI, np.Ne)
	}
	return nil
}

// PlastParams are the learning rates, targets and weight bounds for the
// plasticity mechanisms.  All plasticity functions are methods on this
// struct and retain no state between calls.
type PlastParams struct {
	EtaSTDP float64 `def:"0.004" min:"0" desc:"STDP learning rate on Wee"`

	EtaInhib float64 `def:"0.001" min:"0" desc:"inhibitory STDP learning rate on Wei"`

	EtaIP float64 `def:"0.01" min:"0" desc:"intrinsic plasticity learning rate on the excitatory thresholds Te"`

	MuIP float64 `def:"0.1" desc:"mean target firing rate entering the iSTDP rule as (1 + 1/MuIP)"`

	SigmaIP float64 `def:"0" desc:"standard deviation of the target firing rate -- 0 in the standard model"`

	WtRange minmax.F64 `view:"inline" desc:"weight cutoffs applied after STDP and iSTDP -- values below Min are floored (not removed), values above Max are capped"`

	NewWt float64 `def:"0.001" desc:"weight assigned to a synapse newly created by structural plasticity"`

	PNew float64 `def:"0.1" min:"0" max:"1" desc:"per-step probability that structural plasticity creates one new Wee synapse"`
}

func (pp *PlastParams) Defaults() {
	pp.EtaSTDP = 0.004
	pp.EtaInhib = 0.001
	pp.EtaIP = 0.01
	pp.MuIP = 0.1
	pp.SigmaIP = 0
	pp.WtRange.Set(0, 1)
	pp.NewWt = 0.001
	pp.PNew = 0.1
}

func (pp *PlastParams) Update() {
}

// TargetRate returns the IP target firing rate 2*Nu/Ne for the current
// excitatory population size.
func (pp *PlastParams) TargetRate(nu, ne int) float64 {
	return 2 * float64(nu) / float64(ne)
}

// ActParams parameterize the activation model: the noise distribution
// added to the synaptic drive of each population.
type ActParams struct {
	Noise erand.RndParams `view:"inline" desc:"distribution of the white noise added to the total incoming drive of every unit -- Gaussian with mean 0 and sigma (Var) 0.04 in the standard model"`
}

func (ap *ActParams) Defaults() {
	ap.Noise.Dist = erand.Gaussian
	ap.Noise.Mean = 0
	ap.Noise.Var = 0.04
}

func (ap *ActParams) Update() {
}

// GenNoise fills a noise vector of length n from the configured
// distribution, using the run-owned random source.
func (ap *ActParams) GenNoise(vec []float64, rnd *rand.Rand) {
	switch ap.Noise.Dist {
	case erand.Gaussian:
		for i := range vec {
			vec[i] = ap.Noise.Mean + ap.Noise.Var*rnd.NormFloat64()
		}
	case erand.Uniform:
		for i := range vec {
			vec[i] = ap.Noise.Mean + ap.Noise.Var*(rnd.Float64()-0.5)
		}
	default: // erand.Mean: constant
		for i := range vec {
			vec[i] = ap.Noise.Mean
		}
	}
}

// GenesisParams control neurogenesis: how many neurons are added, when
// the additions start, and the coupling between excitatory and
// inhibitory growth.
type GenesisParams struct {
	On bool `desc:"enable neurogenesis for this run"`

	NumNew int `min:"1" desc:"number of excitatory neurons to add over the run -- required when On"`

	InitStep int `min:"0" desc:"first time step at which neuron addition may occur -- required when On"`

	InhibEvery int `def:"5" min:"1" desc:"inhibitory growth is coupled to every InhibEvery-th excitatory growth event once the pool has grown past its initial size -- keeps the excitatory:inhibitory ratio from drifting during growth"`

	FanInEI int `def:"5" desc:"number of afferent inhibitory synapses sampled for a new excitatory neuron"`

	WtMax float64 `def:"0.1" desc:"new synaptic weights for grown neurons are sampled uniformly in [0, WtMax)"`

	ThrMax float64 `def:"0.1" desc:"thresholds for grown neurons are sampled uniformly in [0, ThrMax)"`
}

func (gp *GenesisParams) Defaults() {
	gp.On = false
	gp.NumNew = 0
	gp.InitStep = 0
	gp.InhibEvery = 5
	gp.FanInEI = 5
	gp.WtMax = 0.1
	gp.ThrMax = 0.1
}

func (gp *GenesisParams) Update() {
}

// Validate checks the neurogenesis preconditions for a run of the given
// number of time steps.
func (gp *GenesisParams) Validate(timesteps int) error {
	if !gp.On {
		return nil
	}
	if gp.NumNew < 1 {
		return fmt.Errorf("sorn.GenesisParams: number of new neurons missing")
	}
	if gp.InitStep < 0 || gp.InitStep >= timesteps {
		return fmt.Errorf("sorn.GenesisParams: neurogenesis init step %d outside of run horizon %d", gp.InitStep, timesteps)
	}
	if gp.NumNew > timesteps-gp.InitStep {
		return fmt.Errorf("sorn.GenesisParams: %d new neurons do not fit in %d remaining steps", gp.NumNew, timesteps-gp.InitStep)
	}
	return nil
}

// Params aggregates all simulation parameters.  A Params value is
// treated as immutable once a run starts; anything that changes during
// a run (population sizes) lives on the State instead.
type Params struct {
	Net NetParams `view:"inline" desc:"population sizes and connectivity"`

	Plast PlastParams `view:"inline" desc:"plasticity learning rates and bounds"`

	Act ActParams `view:"inline" desc:"activation noise"`

	Genesis GenesisParams `view:"inline" desc:"neurogenesis schedule and growth"`
}

func (pr *Params) Defaults() {
	pr.Net.Defaults()
	pr.Plast.Defaults()
	pr.Act.Defaults()
	pr.Genesis.Defaults()
}

func (pr *Params) Update() {
	pr.Net.Update()
	pr.Plast.Update()
	pr.Act.Update()
	pr.Genesis.Update()
}
