// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package sorn implements a Self-Organizing Recurrent Network (SORN):
two coupled populations of binary-threshold units (excitatory and
inhibitory) whose synaptic weights and firing thresholds evolve through
local plasticity rules, and whose population sizes grow over time via
neurogenesis.

The network state at each time step consists of three weight matrices
(Wee, Wei, Wie), two threshold vectors (Te, Ti) and two activity buffers
(X, Y).  Every step, the activation model computes the next binary state
of each population via a Heaviside step over the summed synaptic drive,
the plasticity mechanisms (STDP, intrinsic plasticity, structural
plasticity, inhibitory STDP, synaptic scaling) mutate the weights and
thresholds in a fixed order, and the resulting state is committed to a
time-indexed History.  At scheduled steps, the neurogenesis engine
appends new units to the populations, growing all affected matrices.

The Network type orchestrates the whole loop for a "plasticity" or
"training" phase and exports the terminal state for continuation runs.
All matrices and vectors are etensor.Float64 tensors, and an optional
metrics Collector records per-step scalar series into an etable.Table.
*/
package sorn
