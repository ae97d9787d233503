// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"math/rand"

	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/minmax"
)

// plast.go implements the plasticity mechanisms.  All functions mutate
// the matrices they are given for the current step and retain no state
// between calls.  The call order within a step is fixed: STDP -> IP ->
// structural plasticity -> iSTDP -> (neurogenesis, if scheduled) ->
// synaptic scaling.  Scaling runs last so that connections created by
// structural plasticity or neurogenesis participate in the current
// step's normalization.

// STDP applies spike-timing-dependent plasticity to the Wee weights:
// for every existing connection from presynaptic unit j to postsynaptic
// unit i, delta = EtaSTDP * (x_i(t)*x_j(t-1) - x_i(t-1)*x_j(t)).
// Connections with zero weight are untouched, so STDP never creates new
// synapses.  The result is clipped elementwise to WtRange: values below
// Min are floored, not removed.
func (pp *PlastParams) STDP(wee, x *etensor.Float64) {
	ne := wee.Dim(1)
	for i := 0; i < ne; i++ { // postsynaptic
		xti := x.Values[i*2+1]
		xpi := x.Values[i*2+0]
		for j := 0; j < ne; j++ { // presynaptic
			w := wee.Values[j*ne+i]
			if w == 0 {
				continue
			}
			xtj := x.Values[j*2+1]
			xpj := x.Values[j*2+0]
			w += pp.EtaSTDP * (xti*xpj - xpi*xtj)
			wee.Values[j*ne+i] = pp.WtRange.ClipVal(w)
		}
	}
}

// IP applies intrinsic plasticity to the excitatory thresholds: an
// active unit raises its threshold and an inactive one lowers it,
// driving each unit toward the target firing rate 2*Nu/Ne.  Thresholds
// are clipped to teRange afterwards.
func (pp *PlastParams) IP(te, x *etensor.Float64, targetRate float64, teRange minmax.F64) {
	for i := range te.Values {
		v := te.Values[i] + pp.EtaIP*(x.Values[i*2+1]-targetRate)
		te.Values[i] = teRange.ClipVal(v)
	}
}

// SynScale applies synaptic scaling: each column of w is divided by its
// sum, so the total incoming weight of every postsynaptic unit is 1.
// An all-zero column is left unchanged (identity), which keeps the
// operation free of division by zero and idempotent.
func (pp *PlastParams) SynScale(w *etensor.Float64) {
	NormalizeColumns(w)
}

// ISTDP applies inhibitory STDP to the Wei weights: for every existing
// connection from inhibitory unit j to excitatory unit i,
// delta = -EtaInhib * y_j(t-1) * (1 - x_i(t)*(1 + 1/MuIP)).
// Result is clipped to WtRange as in STDP.
func (pp *PlastParams) ISTDP(wei, x, y *etensor.Float64) {
	ni := wei.Dim(0)
	ne := wei.Dim(1)
	for i := 0; i < ne; i++ { // postsynaptic excitatory
		xti := x.Values[i*2+1]
		for j := 0; j < ni; j++ { // presynaptic inhibitory
			w := wei.Values[j*ne+i]
			if w == 0 {
				continue
			}
			ypj := y.Values[j*2+0]
			w += -pp.EtaInhib * ypj * (1 - xti*(1+1/pp.MuIP))
			wei.Values[j*ne+i] = pp.WtRange.ClipVal(w)
		}
	}
}

// StructuralPlasticity creates, with probability PNew, one new synapse
// of weight NewWt at a uniformly random currently-unconnected,
// off-diagonal site of wee.  At most one connection is added per call.
func (pp *PlastParams) StructuralPlasticity(wee *etensor.Float64, rnd *rand.Rand) {
	if rnd.Float64() >= pp.PNew {
		return
	}
	pairs := UnconnectedIndexPairs(wee)
	if len(pairs) == 0 {
		return
	}
	pick := pairs[rnd.Intn(len(pairs))]
	ne := wee.Dim(1)
	wee.Values[pick[0]*ne+pick[1]] = pp.NewWt
}
