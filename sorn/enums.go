// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"fmt"
	"strings"

	"github.com/goki/ki/kit"
)

// Phase is the simulation phase, which determines whether plasticity
// mechanisms and neurogenesis are applied during the run.
type Phase int

//go:generate stringer -type=Phase

var KiT_Phase = kit.Enums.AddEnum(PhaseN, kit.NotBitFlag, nil)

func (ev Phase) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Phase) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Plasticity phase: all enabled plasticity mechanisms and neurogenesis run
	Plasticity Phase = iota

	// Training phase: activation dynamics only -- weights and thresholds are
	// carried forward unchanged from the imported state
	Training

	PhaseN
)

// PhaseFromString parses a phase name, case-insensitively.
func PhaseFromString(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "plasticity":
		return Plasticity, nil
	case "training":
		return Training, nil
	}
	return PhaseN, fmt.Errorf("sorn.PhaseFromString: phase can be either 'plasticity' or 'training', got %q", s)
}

// Mech enumerates the plasticity mechanisms, used in freeze lists to
// disable individual mechanisms for a run.
type Mech int

//go:generate stringer -type=Mech

var KiT_Mech = kit.Enums.AddEnum(MechN, kit.NotBitFlag, nil)

func (ev Mech) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Mech) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// STDP is spike-timing-dependent plasticity on Wee
	STDP Mech = iota

	// IP is intrinsic plasticity on the excitatory thresholds Te
	IP

	// SP is structural plasticity: probabilistic creation of new Wee synapses
	SP

	// ISTDP is inhibitory STDP on Wei
	ISTDP

	// SS is synaptic scaling: column normalization of Wee and Wei
	SS

	MechN
)

// MechFromString parses a mechanism name ("stdp", "ip", "sp", "istdp",
// "ss"), case-insensitively.
func MechFromString(s string) (Mech, error) {
	for m := STDP; m < MechN; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return MechN, fmt.Errorf("sorn.MechFromString: unknown plasticity mechanism %q", s)
}

// MechSet builds the set of frozen mechanisms from a list.
func MechSet(mechs []Mech) map[Mech]bool {
	fz := make(map[Mech]bool, len(mechs))
	for _, m := range mechs {
		fz[m] = true
	}
	return fz
}

// ConnType is the connectivity type of a synaptic pathway.
type ConnType int

//go:generate stringer -type=ConnType

var KiT_ConnType = kit.Enums.AddEnum(ConnTypeN, kit.NotBitFlag, nil)

func (ev ConnType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ConnType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Sparse connectivity with a target fan-in (lambda) per neuron
	Sparse ConnType = iota

	// Dense (fully connected) connectivity
	Dense

	ConnTypeN
)

// RunState is the state of a simulation run.  Transitions are linear:
// Initialized -> Running -> Complete.
type RunState int

//go:generate stringer -type=RunState

var KiT_RunState = kit.Enums.AddEnum(RunStateN, kit.NotBitFlag, nil)

func (ev RunState) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *RunState) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	Initialized RunState = iota
	Running
	Complete

	RunStateN
)
