// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"fmt"

	"github.com/emer/etable/v2/etensor"
)

// act.go implements the activation model: the next binary state of each
// population from weighted input, threshold and noise, via a Heaviside
// step over the total incoming drive (strict inequality -- zero drive
// yields an inactive unit).

// PadInput zero-pads a raw external stimulus vector of length nu up to
// population size ne.  A raw input whose length differs from the
// configured input-channel count is a precondition violation.
func PadInput(raw []float64, nu, ne int) ([]float64, error) {
	if len(raw) != nu {
		return nil, fmt.Errorf("sorn: input units and input size mismatch: %d != %d", nu, len(raw))
	}
	vt := make([]float64, ne)
	copy(vt, raw)
	return vt, nil
}

// IncomingDrive computes the total synaptic drive onto each
// postsynaptic unit: for each column i of w, the sum over presynaptic
// rows j of w[j][i] * act_j, where act is the sender population's
// current activity (column 1 of its activity buffer).
func IncomingDrive(w, act *etensor.Float64) []float64 {
	rows := w.Dim(0)
	cols := w.Dim(1)
	drive := make([]float64, cols)
	for j := 0; j < rows; j++ {
		aj := act.Values[j*2+1]
		if aj == 0 {
			continue
		}
		row := w.Values[j*cols : (j+1)*cols]
		for i, wv := range row {
			drive[i] += aj * wv
		}
	}
	return drive
}

// heaviside returns the binary state vector for the given drive: 1
// where drive > 0, else 0.
func heaviside(drive []float64) []float64 {
	out := make([]float64, len(drive))
	for i, d := range drive {
		if d > 0 {
			out[i] = 1
		}
	}
	return out
}

// ExcitatoryState computes the next binary state of the excitatory
// population: Heaviside of excitatory drive minus inhibitory drive,
// plus noise and the (padded) external stimulus, minus the threshold.
func ExcitatoryState(wee, wei, te, x, y *etensor.Float64, noise, input []float64) []float64 {
	drive := IncomingDrive(wee, x)
	di := IncomingDrive(wei, y)
	for i := range drive {
		drive[i] += -di[i] + noise[i] + input[i] - te.Values[i]
	}
	return heaviside(drive)
}

// InhibitoryState computes the next binary state of the inhibitory
// population: Heaviside of the excitatory->inhibitory drive plus noise,
// minus the threshold.  There is no external stimulus term.
func InhibitoryState(wie, ti, x *etensor.Float64, noise []float64) []float64 {
	drive := IncomingDrive(wie, x)
	for i := range drive {
		drive[i] += noise[i] - ti.Values[i]
	}
	return heaviside(drive)
}

// RecurrentDrive computes the excitatory state due to recurrent input
// alone, omitting the external stimulus term.  It is a diagnostic /
// predictive signal only and is never fed back into the committed
// state.
func RecurrentDrive(wee, wei, te, x, y *etensor.Float64, noise []float64) []float64 {
	drive := IncomingDrive(wee, x)
	di := IncomingDrive(wei, y)
	for i := range drive {
		drive[i] += -di[i] + noise[i] - te.Values[i]
	}
	return heaviside(drive)
}

// ShiftActivity assembles the next activity buffer [previous, new] for
// a population: column 1 of cur becomes column 0 of the result, and
// next becomes column 1.
func ShiftActivity(cur *etensor.Float64, next []float64) *etensor.Float64 {
	n := len(next)
	buf := NewActivity(n)
	for i := 0; i < n; i++ {
		buf.Values[i*2+0] = cur.Values[i*2+1]
		buf.Values[i*2+1] = next[i]
	}
	return buf
}
