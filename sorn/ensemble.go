// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"fmt"
	"sync"

	"github.com/emer/etable/v2/etensor"
)

// RunEnsemble runs each network concurrently over the same inputs and
// horizon.  Runs are fully independent: every network owns its random
// source and history, and Run clones the initial state before touching
// it, so the networks share nothing but read-only inputs.  Results are
// ordered as the networks are.  The first error encountered (in network
// order) is returned, with the remaining runs still driven to
// completion.
func RunEnsemble(nets []*Network, inputs *etensor.Float64, timesteps int, init *State) ([]*State, error) {
	states := make([]*State, len(nets))
	errs := make([]error, len(nets))
	var wg sync.WaitGroup
	for i, nt := range nets {
		wg.Add(1)
		go func(i int, nt *Network) {
			defer wg.Done()
			states[i], errs[i] = nt.Run(inputs, timesteps, init)
		}(i, nt)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return states, fmt.Errorf("sorn ensemble: run %d (%s): %w", i, nets[i].Nm, err)
		}
	}
	return states, nil
}
