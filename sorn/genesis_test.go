// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"math/rand"
	"testing"
)

func smallState(t *testing.T, seed int64) (*Params, *State, *rand.Rand) {
	t.Helper()
	pr := &Params{}
	pr.Defaults()
	pr.Net.Nu = 5
	pr.Net.Ne = 30
	pr.Net.LambdaEE = 8
	pr.Net.LambdaEI = 8
	rnd := rand.New(rand.NewSource(seed))
	st := NewState(pr, rnd)
	if err := st.CheckShapes(); err != nil {
		t.Fatalf("initial state inconsistent: %v", err)
	}
	return pr, st, rnd
}

func TestSchedule(t *testing.T) {
	gp := GenesisParams{}
	gp.Defaults()
	gp.On = true
	gp.NumNew = 40
	gp.InitStep = 100
	timesteps := 1100
	if err := gp.Validate(timesteps); err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}
	rnd := rand.New(rand.NewSource(7))
	sched := gp.Schedule(timesteps, rnd)
	if len(sched) != gp.NumNew {
		t.Errorf("schedule size: got %v, want %v", len(sched), gp.NumNew)
	}
	sum := 0
	for step := range sched {
		if step < gp.InitStep || step >= timesteps {
			t.Errorf("scheduled step %v outside [%v, %v)", step, gp.InitStep, timesteps)
		}
		sum += step
	}
	// exponential offsets cluster toward the start of the window: the
	// mean scheduled step falls in its first half
	mean := float64(sum) / float64(len(sched))
	mid := float64(gp.InitStep) + float64(timesteps-gp.InitStep)/2
	if mean >= mid {
		t.Errorf("schedule mean step %v not below window midpoint %v", mean, mid)
	}
}

func TestScheduleDeterminism(t *testing.T) {
	gp := GenesisParams{}
	gp.Defaults()
	gp.On = true
	gp.NumNew = 10
	gp.InitStep = 50
	s1 := gp.Schedule(200, rand.New(rand.NewSource(7)))
	s2 := gp.Schedule(200, rand.New(rand.NewSource(7)))
	if len(s1) != len(s2) {
		t.Fatalf("schedule sizes differ: %v != %v", len(s1), len(s2))
	}
	for step := range s1 {
		if !s2[step] {
			t.Errorf("step %v missing from same-seed schedule", step)
		}
	}
}

func TestGrowExcitatory(t *testing.T) {
	pr, st, rnd := smallState(t, 5)
	ne := st.Ne()
	ni := st.Ni()

	prior := st.Clone()
	pr.Genesis.GrowExcitatory(st, pr.Net.LambdaEE, rnd)

	if st.Ne() != ne+1 {
		t.Fatalf("excitatory size: got %v, want %v", st.Ne(), ne+1)
	}
	if st.Ni() != ni {
		t.Fatalf("inhibitory size changed: got %v, want %v", st.Ni(), ni)
	}
	if err := st.CheckShapes(); err != nil {
		t.Fatalf("state inconsistent after growth: %v", err)
	}

	// existing entries must be untouched
	for j := 0; j < ne; j++ {
		for i := 0; i < ne; i++ {
			if st.Wee.Values[j*(ne+1)+i] != prior.Wee.Values[j*ne+i] {
				t.Fatalf("Wee[%v][%v] changed by growth", j, i)
			}
		}
	}
	for j := 0; j < ni; j++ {
		for i := 0; i < ne; i++ {
			if st.Wei.Values[j*(ne+1)+i] != prior.Wei.Values[j*ne+i] {
				t.Fatalf("Wei[%v][%v] changed by growth", j, i)
			}
		}
	}
	for i := 0; i < ne; i++ {
		if st.Te.Values[i] != prior.Te.Values[i] {
			t.Fatalf("Te[%v] changed by growth", i)
		}
	}

	// new unit: no self-connection, bounded threshold, silent activity
	if st.Wee.Values[ne*(ne+1)+ne] != 0 {
		t.Errorf("new unit has a self-connection")
	}
	thr := st.Te.Values[ne]
	if thr < 0 || thr >= pr.Genesis.ThrMax {
		t.Errorf("new threshold %v outside [0, %v)", thr, pr.Genesis.ThrMax)
	}
	if st.X.Values[ne*2+0] != 0 || st.X.Values[ne*2+1] != 0 {
		t.Errorf("new unit starts active")
	}

	// afferent synapse counts for the new unit
	nAff := 0
	for j := 0; j < ne; j++ {
		if st.Wee.Values[j*(ne+1)+ne] > 0 {
			nAff++
		}
	}
	if nAff != pr.Net.LambdaEE {
		t.Errorf("new unit Wee afferents: got %v, want %v", nAff, pr.Net.LambdaEE)
	}
	nInh := 0
	for j := 0; j < ni; j++ {
		if st.Wei.Values[j*(ne+1)+ne] > 0 {
			nInh++
		}
	}
	if nInh != pr.Genesis.FanInEI {
		t.Errorf("new unit inhibitory afferents: got %v, want %v", nInh, pr.Genesis.FanInEI)
	}
}

func TestGrowInhibitory(t *testing.T) {
	pr, st, rnd := smallState(t, 9)
	ne := st.Ne()
	ni := st.Ni()

	prior := st.Clone()
	pr.Genesis.GrowInhibitory(st, pr.Net.LambdaEI, rnd)

	if st.Ni() != ni+1 {
		t.Fatalf("inhibitory size: got %v, want %v", st.Ni(), ni+1)
	}
	if st.Ne() != ne {
		t.Fatalf("excitatory size changed: got %v, want %v", st.Ne(), ne)
	}
	if err := st.CheckShapes(); err != nil {
		t.Fatalf("state inconsistent after growth: %v", err)
	}

	for j := 0; j < ne; j++ {
		for i := 0; i < ni; i++ {
			if st.Wie.Values[j*(ni+1)+i] != prior.Wie.Values[j*ni+i] {
				t.Fatalf("Wie[%v][%v] changed by growth", j, i)
			}
		}
	}

	// efferent synapses of the new inhibitory unit
	nEff := 0
	for i := 0; i < ne; i++ {
		if st.Wei.Values[ni*ne+i] > 0 {
			nEff++
		}
	}
	if nEff != pr.Net.LambdaEI {
		t.Errorf("new unit Wei efferents: got %v, want %v", nEff, pr.Net.LambdaEI)
	}
	// dense afferent column from the full excitatory pool
	nAff := 0
	for j := 0; j < ne; j++ {
		if st.Wie.Values[j*(ni+1)+ni] > 0 {
			nAff++
		}
	}
	if nAff != ne {
		t.Errorf("new unit Wie afferents: got %v, want %v", nAff, ne)
	}
}

func TestGenesisStep(t *testing.T) {
	pr, st, rnd := smallState(t, 13)
	ne := st.Ne()
	ni := st.Ni()

	pr.Genesis.Step(st, false, pr.Net.LambdaEE, pr.Net.LambdaEI, rnd)
	if st.Ne() != ne+1 || st.Ni() != ni {
		t.Errorf("step without inhibitory growth: got ne=%v ni=%v, want ne=%v ni=%v", st.Ne(), st.Ni(), ne+1, ni)
	}

	pr.Genesis.Step(st, true, pr.Net.LambdaEE, pr.Net.LambdaEI, rnd)
	if st.Ne() != ne+2 || st.Ni() != ni+1 {
		t.Errorf("step with inhibitory growth: got ne=%v ni=%v, want ne=%v ni=%v", st.Ne(), st.Ni(), ne+2, ni+1)
	}
}
