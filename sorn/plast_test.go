// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"math"
	"math/rand"
	"testing"
)

func TestSTDP(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()

	wee := NewMatrix(2, 2)
	wee.Values = []float64{
		0, 0.5,
		0.3, 0,
	}
	// unit 0: active at t-1, silent at t; unit 1: the reverse
	x := NewActivity(2)
	x.Values = []float64{
		1, 0,
		0, 1,
	}
	pp.STDP(wee, x)

	// 0 -> 1 potentiates, 1 -> 0 depresses
	cor := []float64{
		0, 0.504,
		0.296, 0,
	}
	for i := range cor {
		dif := math.Abs(wee.Values[i] - cor[i])
		if dif > difTol {
			t.Errorf("stdp err: idx: %v, got: %v, cor: %v, dif: %v\n", i, wee.Values[i], cor[i], dif)
		}
	}
}

func TestSTDPNoSpontaneousConnections(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()

	ne := 10
	wee := NewMatrix(ne, ne)
	x := NewActivity(ne)
	for i := 0; i < ne; i++ {
		x.Values[i*2+0] = float64(i % 2)
		x.Values[i*2+1] = float64((i + 1) % 2)
	}
	pp.STDP(wee, x)
	for i, v := range wee.Values {
		if v != 0 {
			t.Errorf("stdp created connection at idx %v: %v", i, v)
		}
	}
}

func TestIP(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()
	np := NetParams{}
	np.Defaults()

	target := pp.TargetRate(np.Nu, np.Ne) // 2*10/200
	if dif := math.Abs(target - 0.1); dif > difTol {
		t.Errorf("target rate err: got: %v, cor: 0.1, dif: %v\n", target, dif)
	}

	te := NewVector(3)
	te.Values = []float64{0.5, 0.5, 0.999}
	x := NewActivity(3)
	x.Values = []float64{
		0, 1,
		0, 0,
		0, 1,
	}
	pp.IP(te, x, target, np.TeRange)

	// active raises, inactive lowers, result clipped to the bounds
	cor := []float64{0.509, 0.499, 1.0}
	for i := range cor {
		dif := math.Abs(te.Values[i] - cor[i])
		if dif > difTol {
			t.Errorf("ip err: idx: %v, got: %v, cor: %v, dif: %v\n", i, te.Values[i], cor[i], dif)
		}
	}
}

func TestISTDP(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()

	wei := NewMatrix(1, 2)
	wei.Values = []float64{0.5, 0.5}
	y := NewActivity(1)
	y.Values = []float64{1, 0} // active at t-1
	x := NewActivity(2)
	x.Values = []float64{
		0, 1, // post 0 active
		0, 0, // post 1 silent
	}
	pp.ISTDP(wei, x, y)

	// delta = -0.001 * 1 * (1 - x*(1 + 1/0.1))
	cor := []float64{0.51, 0.499}
	for i := range cor {
		dif := math.Abs(wei.Values[i] - cor[i])
		if dif > difTol {
			t.Errorf("istdp err: idx: %v, got: %v, cor: %v, dif: %v\n", i, wei.Values[i], cor[i], dif)
		}
	}
}

func TestSynScale(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()

	rnd := rand.New(rand.NewSource(3))
	w := SparseConnectivity(20, 20, 5, 1, rnd)
	pp.SynScale(w)

	cols := w.Dim(1)
	for i := 0; i < cols; i++ {
		sum := 0.0
		for j := 0; j < w.Dim(0); j++ {
			sum += w.Values[j*cols+i]
		}
		dif := math.Abs(sum - 1)
		if dif > difTol {
			t.Errorf("scale err: col: %v, sum: %v, dif: %v\n", i, sum, dif)
		}
	}

	// scaling an already scaled matrix must be a near no-op
	before := make([]float64, len(w.Values))
	copy(before, w.Values)
	pp.SynScale(w)
	for i := range before {
		dif := math.Abs(w.Values[i] - before[i])
		if dif > difTol {
			t.Errorf("rescale err: idx: %v, got: %v, cor: %v, dif: %v\n", i, w.Values[i], before[i], dif)
		}
	}
}

func TestSynScaleZeroColumn(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()

	w := NewMatrix(3, 2)
	w.Values = []float64{
		0.5, 0,
		0.5, 0,
		1.0, 0,
	}
	pp.SynScale(w)
	cor := []float64{
		0.25, 0,
		0.25, 0,
		0.5, 0,
	}
	for i := range cor {
		dif := math.Abs(w.Values[i] - cor[i])
		if dif > difTol {
			t.Errorf("zero col err: idx: %v, got: %v, cor: %v, dif: %v\n", i, w.Values[i], cor[i], dif)
		}
	}
}

func TestStructuralPlasticityRate(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()

	rnd := rand.New(rand.NewSource(11))
	ne := 100
	wee := NewMatrix(ne, ne)
	steps := 10000
	added := 0
	for s := 0; s < steps; s++ {
		before := NumConns(wee)
		pp.StructuralPlasticity(wee, rnd)
		after := NumConns(wee)
		if after > before+1 {
			t.Fatalf("more than one connection added in one step: %v -> %v", before, after)
		}
		added += after - before
	}
	// binomial(10000, 0.1): mean 1000, sd 30
	if added < 910 || added > 1090 {
		t.Errorf("structural plasticity rate err: added %v connections in %v steps, expected ~1000", added, steps)
	}
	for i := 0; i < ne; i++ {
		if wee.Values[i*ne+i] != 0 {
			t.Errorf("structural plasticity wrote diagonal at %v", i)
		}
	}
}

func TestStructuralPlasticityRateNonReciprocal(t *testing.T) {
	// probabilities that are not 1/k for integer k must not be distorted
	cases := []struct {
		pnew   float64
		lo, hi int
	}{
		{0.15, 1390, 1610}, // mean 1500, sd 36
		{0.3, 2860, 3140},  // mean 3000, sd 46
		{0.6, 5850, 6150},  // mean 6000, sd 49
	}
	for _, cs := range cases {
		pp := PlastParams{}
		pp.Defaults()
		pp.PNew = cs.pnew

		rnd := rand.New(rand.NewSource(23))
		ne := 150
		wee := NewMatrix(ne, ne)
		steps := 10000
		before := NumConns(wee)
		for s := 0; s < steps; s++ {
			pp.StructuralPlasticity(wee, rnd)
		}
		added := NumConns(wee) - before
		if added < cs.lo || added > cs.hi {
			t.Errorf("rate err: pnew %v added %v connections in %v steps, want [%v, %v]", cs.pnew, added, steps, cs.lo, cs.hi)
		}
	}
}

func TestStructuralPlasticityWeight(t *testing.T) {
	pp := PlastParams{}
	pp.Defaults()
	pp.PNew = 1 // force creation

	wee := NewMatrix(4, 4)
	rnd := rand.New(rand.NewSource(1))
	pp.StructuralPlasticity(wee, rnd)
	n := 0
	for _, v := range wee.Values {
		if v != 0 {
			if dif := math.Abs(v - pp.NewWt); dif > difTol {
				t.Errorf("new weight err: got: %v, cor: %v, dif: %v\n", v, pp.NewWt, dif)
			}
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected exactly one new connection, got %v", n)
	}
}
