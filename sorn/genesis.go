// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"math/rand"

	"github.com/emer/etable/v2/etensor"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// genesis.go implements neurogenesis: the scheduled addition of new
// units to the excitatory and inhibitory populations, growing all
// affected matrices by one row / column while leaving every existing
// entry unchanged.

// Schedule samples NumNew distinct growth steps with exponentially
// distributed offsets from InitStep, so growth events cluster toward
// the start of the window [InitStep, timesteps).  Offsets past the
// window or landing on an already scheduled step are redrawn; Validate
// must have passed, so the window can hold NumNew distinct steps.  The
// exponential source is seeded from the run's random stream, keeping
// the schedule deterministic per seed.
func (gp *GenesisParams) Schedule(timesteps int, rnd *rand.Rand) map[int]bool {
	window := timesteps - gp.InitStep
	exp := distuv.Exponential{
		Rate: 3 / float64(window), // mean offset at a third of the window
		Src:  xrand.NewSource(rnd.Uint64()),
	}
	sched := make(map[int]bool, gp.NumNew)
	for len(sched) < gp.NumNew {
		off := int(exp.Rand())
		if off >= window || sched[gp.InitStep+off] {
			continue
		}
		sched[gp.InitStep+off] = true
	}
	return sched
}

// growMatrix returns a copy of w padded with addRows extra rows and
// addCols extra columns, new cells zero.
func growMatrix(w *etensor.Float64, addRows, addCols int) *etensor.Float64 {
	rows := w.Dim(0)
	cols := w.Dim(1)
	nw := NewMatrix(rows+addRows, cols+addCols)
	ncols := cols + addCols
	for j := 0; j < rows; j++ {
		copy(nw.Values[j*ncols:j*ncols+cols], w.Values[j*cols:(j+1)*cols])
	}
	return nw
}

// growVector returns a copy of v with one appended element.
func growVector(v *etensor.Float64, val float64) *etensor.Float64 {
	n := v.Len()
	nv := NewVector(n + 1)
	copy(nv.Values, v.Values)
	nv.Values[n] = val
	return nv
}

// growActivity returns a copy of an activity buffer padded with one
// zero row for a newly added unit.
func growActivity(a *etensor.Float64) *etensor.Float64 {
	n := a.Dim(0)
	na := NewActivity(n + 1)
	copy(na.Values, a.Values)
	return na
}

// sampleWeights returns n weights sampled uniformly in [0, WtMax).
func (gp *GenesisParams) sampleWeights(n int, rnd *rand.Rand) []float64 {
	ws := make([]float64, n)
	for i := range ws {
		ws[i] = gp.WtMax * rnd.Float64()
	}
	return ws
}

// GrowExcitatory appends one unit to the excitatory pool: Wee gains one
// row and column with lambdaEE sampled efferent and afferent synapses,
// Wei gains one column with FanInEI afferent inhibitory synapses, Wie
// gains one dense efferent row, and Te gains one threshold sampled
// uniformly in [0, ThrMax).  Existing weights are unchanged; new cells
// default to zero before being selectively populated.
func (gp *GenesisParams) GrowExcitatory(st *State, lambdaEE int, rnd *rand.Rand) {
	ne := st.Wee.Dim(0)
	ni := st.Wie.Dim(1)

	// Wee: efferent row and afferent column for the new unit
	wee := growMatrix(st.Wee, 1, 1)
	effIdxs := sampleIndices(ne, lambdaEE, -1, false, rnd)
	effWts := gp.sampleWeights(lambdaEE, rnd)
	for k, i := range effIdxs {
		wee.Values[ne*(ne+1)+i] = effWts[k]
	}
	affIdxs := sampleIndices(ne, lambdaEE, -1, false, rnd)
	affWts := gp.sampleWeights(lambdaEE, rnd)
	for k, j := range affIdxs {
		wee.Values[j*(ne+1)+ne] = affWts[k]
	}

	// Wei: sparse afferent inhibitory synapses onto the new unit
	fanInh := gp.FanInEI
	if fanInh > ni {
		fanInh = ni
	}
	wei := growMatrix(st.Wei, 0, 1)
	inhIdxs := sampleIndices(ni, fanInh, -1, false, rnd)
	inhWts := gp.sampleWeights(fanInh, rnd)
	for k, j := range inhIdxs {
		wei.Values[j*(ne+1)+ne] = inhWts[k]
	}

	// Wie: dense efferent connections to the entire inhibitory pool
	wie := growMatrix(st.Wie, 1, 0)
	copy(wie.Values[ne*ni:(ne+1)*ni], gp.sampleWeights(ni, rnd))

	st.Wee = wee
	st.Wei = wei
	st.Wie = wie
	st.Te = growVector(st.Te, gp.ThrMax*rnd.Float64())
	st.X = growActivity(st.X)
}

// GrowInhibitory appends one unit to the inhibitory pool: Wei gains one
// row with lambdaEI sampled efferent synapses, Wie gains one dense
// afferent column with fan-in equal to the current excitatory
// population size, and Ti gains one threshold in [0, ThrMax).
func (gp *GenesisParams) GrowInhibitory(st *State, lambdaEI int, rnd *rand.Rand) {
	ni := st.Wei.Dim(0)
	ne := st.Wei.Dim(1)

	wei := growMatrix(st.Wei, 1, 0)
	if lambdaEI > ne {
		lambdaEI = ne
	}
	effIdxs := sampleIndices(ne, lambdaEI, -1, false, rnd)
	effWts := gp.sampleWeights(lambdaEI, rnd)
	for k, i := range effIdxs {
		wei.Values[ni*ne+i] = effWts[k]
	}

	wie := growMatrix(st.Wie, 0, 1)
	affWts := gp.sampleWeights(ne, rnd)
	for j := 0; j < ne; j++ {
		wie.Values[j*(ni+1)+ni] = affWts[j]
	}

	st.Wei = wei
	st.Wie = wie
	st.Ti = growVector(st.Ti, gp.ThrMax*rnd.Float64())
	st.Y = growActivity(st.Y)
}

// Step performs one scheduled neurogenesis event on the state:
// excitatory growth always, inhibitory growth when growInhib is set.
// The activity buffers are padded before the caller's commit so the
// next step's activation sees consistent sizes.
func (gp *GenesisParams) Step(st *State, growInhib bool, lambdaEE, lambdaEI int, rnd *rand.Rand) {
	gp.GrowExcitatory(st, lambdaEE, rnd)
	if growInhib {
		gp.GrowInhibitory(st, lambdaEI, rnd)
	}
	if err := st.CheckShapes(); err != nil {
		panic(err.Error()) // engine bug: growth produced inconsistent shapes
	}
}
