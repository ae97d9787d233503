// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"fmt"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"gonum.org/v1/gonum/floats"
)

// LogPrec is precision for saving float values in metrics tables.
const LogPrec = 6

// Collector accumulates named per-step values during a run.  The core
// engine only ever calls Step and Get; how values are stored or
// rendered is up to the implementation.  A Step error aborts the run,
// since collected data is typically the run's only output of interest.
type Collector interface {
	// Step records the values for one time step.
	Step(values map[string]float64, timeStep int) error

	// Get returns the accumulated series for each collected name, in
	// time-step order.
	Get() map[string][]float64
}

// The metric names the simulation driver can compute each step.
// Activation metrics are mean fractions of active units, weight and
// threshold metrics are means over existing connections / units, and
// connection counts are taken from the step's pre-plasticity state.
const (
	ExcitatoryActivation = "ExcitatoryActivation"
	InhibitoryActivation = "InhibitoryActivation"
	RecurrentActivation  = "RecurrentActivation"
	WEE                  = "WEE"
	WEI                  = "WEI"
	TE                   = "TE"
	TI                   = "TI"
	EEConnectionCounts   = "EEConnectionCounts"
	EIConnectionCounts   = "EIConnectionCounts"
)

// AvailMetrics lists every metric name the driver can record.
var AvailMetrics = []string{
	ExcitatoryActivation,
	InhibitoryActivation,
	RecurrentActivation,
	WEE,
	WEI,
	TE,
	TI,
	EEConnectionCounts,
	EIConnectionCounts,
}

// ValidMetrics checks a requested metric-name list against
// AvailMetrics; an unknown name is a precondition violation.
func ValidMetrics(names []string) error {
	for _, nm := range names {
		ok := false
		for _, av := range AvailMetrics {
			if nm == av {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("sorn: unknown metric %q, available: %v", nm, AvailMetrics)
		}
	}
	return nil
}

// meanPos returns the mean of the positive values of vals, 0 if none.
func meanPos(vals []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range vals {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// meanOf returns the mean of vals, 0 for an empty slice.
func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}

// TableCollector records per-step metric values into an etable.Table
// with one row per time step and one float column per metric.
type TableCollector struct {
	Table *etable.Table `view:"no-inline" desc:"the accumulated metrics, one row per time step"`

	names []string
}

// NewTableCollector returns a collector for the given metric names.
func NewTableCollector(names []string) (*TableCollector, error) {
	if err := ValidMetrics(names); err != nil {
		return nil, err
	}
	tc := &TableCollector{Table: &etable.Table{}, names: names}
	tc.ConfigTable(tc.Table)
	return tc, nil
}

// ConfigTable sets up the table schema: a TimeStep column plus one
// float64 column per requested metric.
func (tc *TableCollector) ConfigTable(dt *etable.Table) {
	dt.SetMetaData("name", "SornMetrics")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	sch := etable.Schema{
		{Name: "TimeStep", Type: etensor.INT64},
	}
	for _, nm := range tc.names {
		sch = append(sch, etable.Column{Name: nm, Type: etensor.FLOAT64})
	}
	dt.SetFromSchema(sch, 0)
}

// Step appends one row with the given values.  A value for a name the
// collector was not configured with is an error.
func (tc *TableCollector) Step(values map[string]float64, timeStep int) error {
	dt := tc.Table
	dt.AddRows(1)
	row := dt.Rows - 1
	dt.SetCellFloat("TimeStep", row, float64(timeStep))
	for nm, v := range values {
		found := false
		for _, cn := range tc.names {
			if cn == nm {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("sorn.TableCollector: value for unconfigured metric %q", nm)
		}
		dt.SetCellFloat(nm, row, v)
	}
	return nil
}

// Get returns the accumulated series per metric name.
func (tc *TableCollector) Get() map[string][]float64 {
	out := make(map[string][]float64, len(tc.names))
	for _, nm := range tc.names {
		ser := make([]float64, tc.Table.Rows)
		for row := 0; row < tc.Table.Rows; row++ {
			ser[row] = tc.Table.CellFloat(nm, row)
		}
		out[nm] = ser
	}
	return out
}
