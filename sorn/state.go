// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emer/etable/v2/etensor"
)

// NewMatrix returns a zero-filled row-major [rows, cols] float64 tensor.
// For weight matrices, the row index is the presynaptic (sending) unit
// and the column index is the postsynaptic (receiving) unit.
func NewMatrix(rows, cols int) *etensor.Float64 {
	return etensor.NewFloat64([]int{rows, cols}, nil, []string{"Send", "Recv"})
}

// NewVector returns a zero-filled float64 vector of length n.
func NewVector(n int) *etensor.Float64 {
	return etensor.NewFloat64([]int{n}, nil, []string{"Units"})
}

// NewActivity returns a zero-filled [n, 2] activity buffer: column 0
// holds the previous step's binary state, column 1 the current one.
func NewActivity(n int) *etensor.Float64 {
	return etensor.NewFloat64([]int{n, 2}, nil, []string{"Units", "PrevCur"})
}

func cloneF64(t *etensor.Float64) *etensor.Float64 {
	c := etensor.NewFloat64(t.Shape.Shp, nil, t.Shape.Nms)
	copy(c.Values, t.Values)
	return c
}

// State is the complete network state at one point in time: the three
// weight matrices, the two threshold vectors and the two activity
// buffers.  This is the sole format for transferring state between
// phases or runs.
type State struct {
	Wee *etensor.Float64 `desc:"excitatory-excitatory weights [ne, ne], zero diagonal"`
	Wei *etensor.Float64 `desc:"inhibitory-excitatory weights [ni, ne]"`
	Wie *etensor.Float64 `desc:"excitatory-inhibitory weights [ne, ni], dense"`
	Te  *etensor.Float64 `desc:"excitatory firing thresholds [ne]"`
	Ti  *etensor.Float64 `desc:"inhibitory firing thresholds [ni]"`
	X   *etensor.Float64 `desc:"excitatory activity buffer [ne, 2]"`
	Y   *etensor.Float64 `desc:"inhibitory activity buffer [ni, 2]"`
}

// Ne returns the current excitatory population size.
func (st *State) Ne() int { return st.Te.Len() }

// Ni returns the current inhibitory population size.
func (st *State) Ni() int { return st.Ti.Len() }

// Clone returns a deep copy of the state.
func (st *State) Clone() *State {
	return &State{
		Wee: cloneF64(st.Wee),
		Wei: cloneF64(st.Wei),
		Wie: cloneF64(st.Wie),
		Te:  cloneF64(st.Te),
		Ti:  cloneF64(st.Ti),
		X:   cloneF64(st.X),
		Y:   cloneF64(st.Y),
	}
}

// CheckShapes verifies the mutual consistency of all matrix dimensions.
// A failure here after growth indicates an engine bug, not user error.
func (st *State) CheckShapes() error {
	ne := st.Ne()
	ni := st.Ni()
	chk := func(t *etensor.Float64, name string, want ...int) error {
		if t.NumDims() != len(want) {
			return fmt.Errorf("sorn.State: %s has %d dims, want %d", name, t.NumDims(), len(want))
		}
		for d, w := range want {
			if t.Dim(d) != w {
				return fmt.Errorf("sorn.State: %s dim %d = %d, want %d", name, d, t.Dim(d), w)
			}
		}
		return nil
	}
	if err := chk(st.Wee, "Wee", ne, ne); err != nil {
		return err
	}
	if err := chk(st.Wei, "Wei", ni, ne); err != nil {
		return err
	}
	if err := chk(st.Wie, "Wie", ne, ni); err != nil {
		return err
	}
	if err := chk(st.X, "X", ne, 2); err != nil {
		return err
	}
	return chk(st.Y, "Y", ni, 2)
}

// tensorJSON is the on-disk form of one matrix or vector.
type tensorJSON struct {
	Shape  []int     `json:"Shape"`
	Values []float64 `json:"Values"`
}

func toJSON(t *etensor.Float64) tensorJSON {
	return tensorJSON{Shape: t.Shape.Shp, Values: t.Values}
}

func fromJSON(tj tensorJSON) (*etensor.Float64, error) {
	n := 1
	for _, d := range tj.Shape {
		n *= d
	}
	if n != len(tj.Values) {
		return nil, fmt.Errorf("sorn.State: shape %v does not match %d values", tj.Shape, len(tj.Values))
	}
	t := etensor.NewFloat64(tj.Shape, nil, nil)
	copy(t.Values, tj.Values)
	return t, nil
}

// MarshalJSON writes the state dict with exactly the keys
// Wee, Wei, Wie, Te, Ti, X, Y.
func (st *State) MarshalJSON() ([]byte, error) {
	m := map[string]tensorJSON{
		"Wee": toJSON(st.Wee),
		"Wei": toJSON(st.Wei),
		"Wie": toJSON(st.Wie),
		"Te":  toJSON(st.Te),
		"Ti":  toJSON(st.Ti),
		"X":   toJSON(st.X),
		"Y":   toJSON(st.Y),
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a state dict previously written by MarshalJSON.
func (st *State) UnmarshalJSON(b []byte) error {
	m := map[string]tensorJSON{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for _, key := range []string{"Wee", "Wei", "Wie", "Te", "Ti", "X", "Y"} {
		tj, ok := m[key]
		if !ok {
			return fmt.Errorf("sorn.State: state dict missing key %q", key)
		}
		t, err := fromJSON(tj)
		if err != nil {
			return err
		}
		switch key {
		case "Wee":
			st.Wee = t
		case "Wei":
			st.Wei = t
		case "Wie":
			st.Wie = t
		case "Te":
			st.Te = t
		case "Ti":
			st.Ti = t
		case "X":
			st.X = t
		case "Y":
			st.Y = t
		}
	}
	return st.CheckShapes()
}

// WriteJSON writes the state dict as JSON to the given writer.
func (st *State) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(st)
}

// ReadJSON reads a state dict as JSON from the given reader.
func (st *State) ReadJSON(r io.Reader) error {
	dec := json.NewDecoder(r)
	return dec.Decode(st)
}

// SaveJSON saves the state dict to a JSON file.  If the filename ends
// in .gz, the output is gzip compressed.
func (st *State) SaveJSON(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gz := gzip.NewWriter(fp)
		defer gz.Close()
		return st.WriteJSON(gz)
	}
	return st.WriteJSON(fp)
}

// OpenJSON loads a state dict from a JSON file saved by SaveJSON.
func (st *State) OpenJSON(filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	if filepath.Ext(filename) == ".gz" {
		gz, err := gzip.NewReader(fp)
		if err != nil {
			return err
		}
		defer gz.Close()
		return st.ReadJSON(gz)
	}
	return st.ReadJSON(fp)
}

// History is the time-indexed store of every weight matrix, threshold
// vector and activity buffer across a run: the single source of truth
// for "state at step t".  Each series has timesteps+1 slots; slot 0 is
// the initial state and slot t+1 receives the state committed at the
// end of step t.  Slots are written exactly once; committing past the
// allocated horizon or into an occupied slot panics, since both
// indicate an engine bug rather than user error.
type History struct {
	Steps int `desc:"number of simulation steps this history was allocated for -- each series holds Steps+1 slots"`

	Wee []*etensor.Float64
	Wei []*etensor.Float64
	Wie []*etensor.Float64
	Te  []*etensor.Float64
	Ti  []*etensor.Float64
	X   []*etensor.Float64
	Y   []*etensor.Float64
}

// NewHistory allocates a history for the given number of steps, with
// the given state in slot 0.
func NewHistory(timesteps int, init *State) *History {
	hs := &History{Steps: timesteps}
	n := timesteps + 1
	hs.Wee = make([]*etensor.Float64, n)
	hs.Wei = make([]*etensor.Float64, n)
	hs.Wie = make([]*etensor.Float64, n)
	hs.Te = make([]*etensor.Float64, n)
	hs.Ti = make([]*etensor.Float64, n)
	hs.X = make([]*etensor.Float64, n)
	hs.Y = make([]*etensor.Float64, n)
	hs.Wee[0] = init.Wee
	hs.Wei[0] = init.Wei
	hs.Wie[0] = init.Wie
	hs.Te[0] = init.Te
	hs.Ti[0] = init.Ti
	hs.X[0] = init.X
	hs.Y[0] = init.Y
	return hs
}

func (hs *History) slot(t int) int {
	if t < 0 || t >= hs.Steps {
		panic(fmt.Sprintf("sorn.History: commit at step %d outside allocated horizon %d", t, hs.Steps))
	}
	return t + 1
}

// CommitWeights writes the weight matrices for step t into slot t+1.
func (hs *History) CommitWeights(t int, wee, wei, wie *etensor.Float64) {
	i := hs.slot(t)
	if hs.Wee[i] != nil {
		panic(fmt.Sprintf("sorn.History: weights slot %d written twice", i))
	}
	hs.Wee[i] = wee
	hs.Wei[i] = wei
	hs.Wie[i] = wie
}

// CommitThresholds writes the threshold vectors for step t into slot t+1.
func (hs *History) CommitThresholds(t int, te, ti *etensor.Float64) {
	i := hs.slot(t)
	if hs.Te[i] != nil {
		panic(fmt.Sprintf("sorn.History: thresholds slot %d written twice", i))
	}
	hs.Te[i] = te
	hs.Ti[i] = ti
}

// CommitActivity writes the activity buffers for step t into slot t+1.
func (hs *History) CommitActivity(t int, x, y *etensor.Float64) {
	i := hs.slot(t)
	if hs.X[i] != nil {
		panic(fmt.Sprintf("sorn.History: activity slot %d written twice", i))
	}
	hs.X[i] = x
	hs.Y[i] = y
}

// StateAt returns the state at slot t (0 = initial state).  The
// returned State shares storage with the history; callers must not
// mutate it outside the step-t update.
func (hs *History) StateAt(t int) *State {
	if t < 0 || t > hs.Steps {
		panic(fmt.Sprintf("sorn.History: read at slot %d outside allocated horizon %d", t, hs.Steps))
	}
	return &State{
		Wee: hs.Wee[t],
		Wei: hs.Wei[t],
		Wie: hs.Wie[t],
		Te:  hs.Te[t],
		Ti:  hs.Ti[t],
		X:   hs.X[t],
		Y:   hs.Y[t],
	}
}

// Terminal returns the final committed state, exported as the phase's
// terminal state dict.
func (hs *History) Terminal() *State {
	return hs.StateAt(hs.Steps)
}
