// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float64(1.0e-9)

func TestIncomingDrive(t *testing.T) {
	// 3 senders, 2 receivers
	w := NewMatrix(3, 2)
	w.Values = []float64{
		0.5, 0.2,
		0.1, 0.0,
		0.3, 0.4,
	}
	act := NewActivity(3)
	act.Values = []float64{
		0, 1, // sender 0 active
		1, 0, // sender 1 inactive
		0, 1, // sender 2 active
	}
	cor := []float64{0.8, 0.6}
	drive := IncomingDrive(w, act)
	for i := range cor {
		dif := math.Abs(drive[i] - cor[i])
		if dif > difTol {
			t.Errorf("drive err: idx: %v, drive: %v, cor: %v, dif: %v\n", i, drive[i], cor[i], dif)
		}
	}
}

func TestHeavisideStrict(t *testing.T) {
	// zero total drive must leave the unit inactive: the step is > 0,
	// not >= 0
	ne := 3
	wee := NewMatrix(ne, ne)
	wei := NewMatrix(1, ne)
	te := NewVector(ne)
	te.Values = []float64{0.5, 0.5, 0.5}
	x := NewActivity(ne)
	y := NewActivity(1)
	noise := make([]float64, ne)
	input := []float64{0.5, 0.4, 0.6} // drive - te = 0, -0.1, +0.1
	cor := []float64{0, 0, 1}
	xn := ExcitatoryState(wee, wei, te, x, y, noise, input)
	for i := range cor {
		if xn[i] != cor[i] {
			t.Errorf("excitatory state err: idx: %v, got: %v, cor: %v\n", i, xn[i], cor[i])
		}
	}
}

func TestInhibitoryState(t *testing.T) {
	ne, ni := 2, 2
	wie := NewMatrix(ne, ni)
	wie.Values = []float64{
		0.6, 0.1,
		0.2, 0.1,
	}
	ti := NewVector(ni)
	ti.Values = []float64{0.5, 0.2}
	x := NewActivity(ne)
	x.Values = []float64{
		0, 1,
		0, 0,
	}
	noise := make([]float64, ni)
	// drives: 0.6, 0.1; minus thresholds: +0.1, -0.1
	cor := []float64{1, 0}
	yn := InhibitoryState(wie, ti, x, noise)
	for i := range cor {
		if yn[i] != cor[i] {
			t.Errorf("inhibitory state err: idx: %v, got: %v, cor: %v\n", i, yn[i], cor[i])
		}
	}
}

func TestPadInput(t *testing.T) {
	vt, err := PadInput([]float64{1, 2}, 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cor := []float64{1, 2, 0, 0, 0}
	for i := range cor {
		if vt[i] != cor[i] {
			t.Errorf("pad err: idx: %v, got: %v, cor: %v\n", i, vt[i], cor[i])
		}
	}
	if _, err := PadInput([]float64{1, 2, 3}, 2, 5); err == nil {
		t.Errorf("expected error for raw input length 3 with 2 input channels")
	}
}

func TestShiftActivity(t *testing.T) {
	cur := NewActivity(2)
	cur.Values = []float64{
		1, 0,
		0, 1,
	}
	buf := ShiftActivity(cur, []float64{1, 1})
	cor := []float64{
		0, 1,
		1, 1,
	}
	for i := range cor {
		if buf.Values[i] != cor[i] {
			t.Errorf("shift err: idx: %v, got: %v, cor: %v\n", i, buf.Values[i], cor[i])
		}
	}
}
