// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"log"
	"math"
	"math/rand"

	"github.com/emer/etable/v2/etensor"
)

// inits.go contains the weight, threshold and activity initialization
// utilities, consumed once at the start of a fresh run.

// SparseConnectivity returns a [rows, cols] weight matrix where each
// postsynaptic column receives on average fanIn connections (normally
// jittered by fanStd, at least 1), from distinct presynaptic rows with
// weights sampled uniformly in [0, 1).  When the matrix is square, the
// diagonal is excluded (no self-connections).
func SparseConnectivity(rows, cols, fanIn int, fanStd float64, rnd *rand.Rand) *etensor.Float64 {
	w := NewMatrix(rows, cols)
	for i := 0; i < cols; i++ {
		k := fanIn
		if fanStd > 0 {
			k = int(math.Round(float64(fanIn) + fanStd*rnd.NormFloat64()))
		}
		maxk := rows
		if rows == cols {
			maxk = rows - 1 // no self-connection
		}
		if k < 1 {
			k = 1
		}
		if k > maxk {
			k = maxk
		}
		for _, j := range sampleIndices(rows, k, i, rows == cols, rnd) {
			w.Values[j*cols+i] = rnd.Float64()
		}
	}
	return w
}

// DenseConnectivity returns a fully connected [rows, cols] weight
// matrix with weights sampled uniformly in [0, wtMax).
func DenseConnectivity(rows, cols int, wtMax float64, rnd *rand.Rand) *etensor.Float64 {
	w := NewMatrix(rows, cols)
	for i := range w.Values {
		w.Values[i] = wtMax * rnd.Float64()
	}
	return w
}

// sampleIndices draws k distinct indices in [0, n), excluding excl when
// noSelf is set.
func sampleIndices(n, k, excl int, noSelf bool, rnd *rand.Rand) []int {
	perm := rnd.Perm(n)
	idxs := make([]int, 0, k)
	for _, j := range perm {
		if noSelf && j == excl {
			continue
		}
		idxs = append(idxs, j)
		if len(idxs) == k {
			break
		}
	}
	return idxs
}

// ClipBelow floors every element of w at floor: values below it are set
// to floor, not removed.
func ClipBelow(w *etensor.Float64, floor float64) {
	for i, v := range w.Values {
		if v < floor {
			w.Values[i] = floor
		}
	}
}

// ClipAbove caps every element of w at ceiling.
func ClipAbove(w *etensor.Float64, ceiling float64) {
	for i, v := range w.Values {
		if v > ceiling {
			w.Values[i] = ceiling
		}
	}
}

// FixUnconnected gives every zero-sum column of w one uniformly random
// incoming connection, so that no postsynaptic unit starts with zero
// total drive and column normalization stays well defined.
func FixUnconnected(w *etensor.Float64, rnd *rand.Rand) {
	rows := w.Dim(0)
	cols := w.Dim(1)
	for i := 0; i < cols; i++ {
		sum := 0.0
		for j := 0; j < rows; j++ {
			sum += w.Values[j*cols+i]
		}
		if sum != 0 {
			continue
		}
		j := rnd.Intn(rows)
		if rows == cols && j == i { // keep diagonal zero
			j = (j + 1) % rows
		}
		w.Values[j*cols+i] = rnd.Float64()
	}
}

// NormalizeColumns divides each column of w by its sum, so that the
// incoming weights of each postsynaptic unit sum to 1.  An all-zero
// column is left unchanged.
func NormalizeColumns(w *etensor.Float64) {
	rows := w.Dim(0)
	cols := w.Dim(1)
	for i := 0; i < cols; i++ {
		sum := 0.0
		for j := 0; j < rows; j++ {
			sum += w.Values[j*cols+i]
		}
		if sum == 0 {
			continue
		}
		for j := 0; j < rows; j++ {
			w.Values[j*cols+i] /= sum
		}
	}
}

// WhiteNoise returns a vector of n samples from N(mean, std).
func WhiteNoise(mean, std float64, n int, rnd *rand.Rand) []float64 {
	vec := make([]float64, n)
	for i := range vec {
		vec[i] = mean + std*rnd.NormFloat64()
	}
	return vec
}

// UnconnectedIndexPairs returns all off-diagonal (row, col) index pairs
// of w holding a zero weight, i.e. candidate sites for structural
// plasticity.
func UnconnectedIndexPairs(w *etensor.Float64) [][2]int {
	rows := w.Dim(0)
	cols := w.Dim(1)
	pairs := make([][2]int, 0, rows*cols/4)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			if j == i {
				continue
			}
			if w.Values[j*cols+i] == 0 {
				pairs = append(pairs, [2]int{j, i})
			}
		}
	}
	return pairs
}

// NumConns returns the number of positive weights in w.
func NumConns(w *etensor.Float64) int {
	n := 0
	for _, v := range w.Values {
		if v > 0 {
			n++
		}
	}
	return n
}

// NewState builds a fresh initial network state from the parameters:
// sparse or dense connectivity per pathway, uniformly random thresholds
// within their bounds, and zeroed activity buffers.  All weight
// matrices are column normalized.
func NewState(pr *Params, rnd *rand.Rand) *State {
	ne := pr.Net.Ne
	ni := pr.Net.Ni()

	var wee, wei, wie *etensor.Float64
	if pr.Net.TypeEE == Sparse {
		wee = SparseConnectivity(ne, ne, pr.Net.LambdaEE, 1, rnd)
	} else {
		wee = DenseConnectivity(ne, ne, 0.1, rnd)
		for i := 0; i < ne; i++ {
			wee.Values[i*ne+i] = 0 // no self-connections
		}
	}
	if pr.Net.TypeEI == Sparse {
		wei = SparseConnectivity(ni, ne, pr.Net.LambdaEI, 1, rnd)
	} else {
		wei = DenseConnectivity(ni, ne, 0.1, rnd)
	}
	if pr.Net.TypeIE == Sparse {
		wie = SparseConnectivity(ne, ni, pr.Net.LambdaIE, 1, rnd)
	} else {
		wie = DenseConnectivity(ne, ni, 0.1, rnd)
	}

	FixUnconnected(wee, rnd)
	FixUnconnected(wei, rnd)
	FixUnconnected(wie, rnd)

	log.Printf("network initialized: connections Wee %d, Wei %d, Wie %d", NumConns(wee), NumConns(wei), NumConns(wie))

	NormalizeColumns(wee)
	NormalizeColumns(wei)
	NormalizeColumns(wie)

	te := NewVector(ne)
	for i := range te.Values {
		te.Values[i] = pr.Net.TeRange.Min + rnd.Float64()*pr.Net.TeRange.Range()
	}
	ti := NewVector(ni)
	for i := range ti.Values {
		ti.Values[i] = pr.Net.TiRange.Min + rnd.Float64()*pr.Net.TiRange.Range()
	}

	return &State{
		Wee: wee,
		Wei: wei,
		Wie: wie,
		Te:  te,
		Ti:  ti,
		X:   NewActivity(ne),
		Y:   NewActivity(ni),
	}
}
