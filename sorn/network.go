// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/emer/etable/v2/etensor"
)

// Network orchestrates one simulation run: the per-timestep loop
// composing activation, plasticity and neurogenesis in a fixed order,
// committing each step's state to the History.  The update at step t+1
// depends on step t's committed state, so the loop is strictly
// sequential; independent runs with different seeds are embarrassingly
// parallel (see RunEnsemble).
type Network struct {
	Nm string `desc:"name of the network -- helps discriminate when running ensembles"`

	Params Params `desc:"all simulation parameters -- immutable once Run starts"`

	Phase Phase `desc:"run phase: Plasticity applies the enabled plasticity mechanisms and neurogenesis, Training runs activation dynamics only"`

	Noise bool `def:"true" desc:"add white noise to the incoming drive of every unit; when off, a zero noise vector is substituted"`

	Freeze []Mech `desc:"plasticity mechanisms disabled for this run"`

	Metrics []string `desc:"metric names recorded each step into the Collector -- subset of AvailMetrics"`

	Collector Collector `view:"-" desc:"optional metrics collector -- a Step failure aborts the run"`

	Seed int64 `desc:"random seed -- the run is deterministic given a fixed seed and fixed step order"`

	RunSt RunState `inactive:"+" desc:"current run state -- transitions are linear: Initialized -> Running -> Complete"`

	Hist *History `view:"-" desc:"per-timestep state history for the run"`

	Rnd *rand.Rand `view:"-" desc:"random source owned by this run"`

	NeInit int `inactive:"+" desc:"excitatory population size at the start of the run, for the inhibitory growth coupling rule"`

	Sched map[int]bool `view:"-" desc:"neurogenesis schedule: the steps at which neuron addition is attempted"`
}

// NewNetwork returns a new network with default parameters, ready to
// configure and Run.
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Params.Defaults()
	nt.Phase = Plasticity
	nt.Noise = true
	nt.RunSt = Initialized
	return nt
}

// validate checks every precondition before the loop starts.
func (nt *Network) validate(inputs *etensor.Float64, timesteps int, init *State) error {
	if nt.RunSt != Initialized {
		return fmt.Errorf("sorn.Network %s: run state is %s, a network runs exactly once", nt.Nm, nt.RunSt)
	}
	if timesteps < 1 {
		return fmt.Errorf("sorn.Network %s: timesteps must be >= 1, got %d", nt.Nm, timesteps)
	}
	if err := nt.Params.Net.Validate(); err != nil {
		return err
	}
	if inputs != nil {
		if inputs.NumDims() != 2 || inputs.Dim(0) != nt.Params.Net.Nu {
			return fmt.Errorf("sorn.Network %s: inputs must be [Nu=%d, timesteps], got shape %v", nt.Nm, nt.Params.Net.Nu, inputs.Shape.Shp)
		}
		if inputs.Dim(1) < timesteps {
			return fmt.Errorf("sorn.Network %s: inputs cover %d steps, need %d", nt.Nm, inputs.Dim(1), timesteps)
		}
	}
	if nt.Phase == Plasticity && nt.Params.Genesis.On {
		if err := nt.Params.Genesis.Validate(timesteps); err != nil {
			return err
		}
	}
	if len(nt.Metrics) > 0 {
		if err := ValidMetrics(nt.Metrics); err != nil {
			return err
		}
		if nt.Collector == nil {
			return fmt.Errorf("sorn.Network %s: metrics requested but no collector supplied", nt.Nm)
		}
	}
	if init != nil {
		if err := init.CheckShapes(); err != nil {
			return err
		}
		if init.Ne() < nt.Params.Net.Nu {
			return fmt.Errorf("sorn.Network %s: imported state has %d excitatory units, fewer than the %d input channels", nt.Nm, init.Ne(), nt.Params.Net.Nu)
		}
	}
	return nil
}

// Run simulates the network for the given number of time steps.
// inputs holds the external stimulus, one column of length Nu per step
// (nil for no external input).  init is the initial state dict: nil
// starts a fresh run from the Initializer, non-nil continues from a
// previous phase's exported state.  Returns the terminal state dict;
// if a Collector was supplied, its accumulated series are available
// from Collector.Get().
func (nt *Network) Run(inputs *etensor.Float64, timesteps int, init *State) (*State, error) {
	if err := nt.validate(inputs, timesteps, init); err != nil {
		return nil, err
	}
	nt.RunSt = Running
	nt.Rnd = rand.New(rand.NewSource(nt.Seed))

	var st0 *State
	if init != nil {
		st0 = init.Clone()
	} else {
		st0 = NewState(&nt.Params, nt.Rnd)
	}
	nt.Hist = NewHistory(timesteps, st0)
	nt.NeInit = st0.Ne()

	genesis := nt.Phase == Plasticity && nt.Params.Genesis.On
	if genesis {
		nt.Sched = nt.Params.Genesis.Schedule(timesteps, nt.Rnd)
	}

	frozen := MechSet(nt.Freeze)
	pp := &nt.Params.Plast

	for t := 0; t < timesteps; t++ {
		cur := nt.Hist.StateAt(t)
		ne := cur.Ne()
		ni := cur.Ni()

		// connection counts from the step's pre-plasticity state
		eeConn := NumConns(cur.Wee)
		eiConn := NumConns(cur.Wei)

		noiseE := make([]float64, ne)
		noiseI := make([]float64, ni)
		if nt.Noise {
			nt.Params.Act.GenNoise(noiseE, nt.Rnd)
			nt.Params.Act.GenNoise(noiseI, nt.Rnd)
		}

		var vt []float64
		if inputs != nil {
			nu := nt.Params.Net.Nu
			cols := inputs.Dim(1)
			raw := make([]float64, nu)
			for i := 0; i < nu; i++ {
				raw[i] = inputs.Values[i*cols+t]
			}
			var err error
			vt, err = PadInput(raw, nu, ne)
			if err != nil {
				return nil, err
			}
		} else {
			vt = make([]float64, ne)
		}

		// next-step activations from the committed step-t state
		rec := RecurrentDrive(cur.Wee, cur.Wei, cur.Te, cur.X, cur.Y, noiseE)
		xNew := ExcitatoryState(cur.Wee, cur.Wei, cur.Te, cur.X, cur.Y, noiseE, vt)
		yNew := InhibitoryState(cur.Wie, cur.Ti, cur.X, noiseI)

		xBuf := ShiftActivity(cur.X, xNew)
		yBuf := ShiftActivity(cur.Y, yNew)

		// work on copies: slot t is never retroactively mutated
		wee := cloneF64(cur.Wee)
		wei := cloneF64(cur.Wei)
		wie := cloneF64(cur.Wie)
		te := cloneF64(cur.Te)
		ti := cloneF64(cur.Ti)

		if nt.Phase == Plasticity {
			if !frozen[STDP] {
				pp.STDP(wee, xBuf)
			}
			if !frozen[IP] {
				pp.IP(te, xBuf, pp.TargetRate(nt.Params.Net.Nu, ne), nt.Params.Net.TeRange)
			}
			if !frozen[SP] {
				pp.StructuralPlasticity(wee, nt.Rnd)
			}
			if !frozen[ISTDP] {
				pp.ISTDP(wei, xBuf, yBuf)
			}
			if genesis && nt.Sched[t] {
				growInhib := ne > nt.NeInit && (ne+1)%nt.Params.Genesis.InhibEvery == 0
				gst := &State{Wee: wee, Wei: wei, Wie: wie, Te: te, Ti: ti, X: xBuf, Y: yBuf}
				nt.Params.Genesis.Step(gst, growInhib, nt.Params.Net.LambdaEE, nt.Params.Net.LambdaEI, nt.Rnd)
				wee, wei, wie = gst.Wee, gst.Wei, gst.Wie
				te, ti = gst.Te, gst.Ti
				xBuf, yBuf = gst.X, gst.Y
			}
			// scaling last: new connections from structural plasticity or
			// neurogenesis participate in this step's normalization
			if !frozen[SS] {
				pp.SynScale(wee)
				pp.SynScale(wei)
			}
		}

		nt.Hist.CommitWeights(t, wee, wei, wie)
		nt.Hist.CommitThresholds(t, te, ti)
		nt.Hist.CommitActivity(t, xBuf, yBuf)

		if nt.Collector != nil && len(nt.Metrics) > 0 {
			vals := nt.stepMetrics(xBuf, yBuf, rec, wee, wei, te, ti, eeConn, eiConn)
			if err := nt.Collector.Step(vals, t); err != nil {
				return nil, fmt.Errorf("sorn.Network %s: metrics collector failed at step %d: %w", nt.Nm, t, err)
			}
		}
	}

	nt.RunSt = Complete
	term := nt.Hist.Terminal()
	log.Printf("%s: %s phase complete: %d steps, Ne %d -> %d, Ni %d", nt.Nm, nt.Phase, timesteps, nt.NeInit, term.Ne(), term.Ni())
	return term, nil
}

// stepMetrics computes the requested scalar summaries for one step.
func (nt *Network) stepMetrics(x, y *etensor.Float64, rec []float64, wee, wei, te, ti *etensor.Float64, eeConn, eiConn int) map[string]float64 {
	cur := func(a *etensor.Float64) []float64 {
		n := a.Dim(0)
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			col[i] = a.Values[i*2+1]
		}
		return col
	}
	vals := make(map[string]float64, len(nt.Metrics))
	for _, nm := range nt.Metrics {
		switch nm {
		case ExcitatoryActivation:
			vals[nm] = meanOf(cur(x))
		case InhibitoryActivation:
			vals[nm] = meanOf(cur(y))
		case RecurrentActivation:
			vals[nm] = meanOf(rec)
		case WEE:
			vals[nm] = meanPos(wee.Values)
		case WEI:
			vals[nm] = meanPos(wei.Values)
		case TE:
			vals[nm] = meanOf(te.Values)
		case TI:
			vals[nm] = meanOf(ti.Values)
		case EEConnectionCounts:
			vals[nm] = float64(eeConn)
		case EIConnectionCounts:
			vals[nm] = float64(eiConn)
		}
	}
	return vals
}
