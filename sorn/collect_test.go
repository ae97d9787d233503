// Copyright (c) 2024, Saranraj Nambusubramaniyan. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sorn

import (
	"math"
	"testing"
)

func TestValidMetrics(t *testing.T) {
	if err := ValidMetrics(AvailMetrics); err != nil {
		t.Errorf("unexpected error for available metrics: %v", err)
	}
	if err := ValidMetrics([]string{"NotAMetric"}); err == nil {
		t.Errorf("expected error for unknown metric name")
	}
}

func TestTableCollector(t *testing.T) {
	tc, err := NewTableCollector([]string{WEE, TE})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	vals := [][2]float64{{0.5, 0.1}, {0.6, 0.2}, {0.7, 0.3}}
	for s, v := range vals {
		if err := tc.Step(map[string]float64{WEE: v[0], TE: v[1]}, s); err != nil {
			t.Fatalf("step %v: %v", s, err)
		}
	}
	got := tc.Get()
	for s, v := range vals {
		if dif := math.Abs(got[WEE][s] - v[0]); dif > difTol {
			t.Errorf("WEE[%v]: got %v, want %v", s, got[WEE][s], v[0])
		}
		if dif := math.Abs(got[TE][s] - v[1]); dif > difTol {
			t.Errorf("TE[%v]: got %v, want %v", s, got[TE][s], v[1])
		}
	}
	if tc.Table.Rows != len(vals) {
		t.Errorf("table rows: got %v, want %v", tc.Table.Rows, len(vals))
	}
	if err := tc.Step(map[string]float64{TI: 0.1}, 3); err == nil {
		t.Errorf("expected error for unconfigured metric value")
	}
}

func TestNewTableCollectorUnknown(t *testing.T) {
	if _, err := NewTableCollector([]string{"Bogus"}); err == nil {
		t.Errorf("expected error for unknown metric name")
	}
}

func TestMeanHelpers(t *testing.T) {
	if v := meanOf([]float64{1, 2, 3}); math.Abs(v-2) > difTol {
		t.Errorf("meanOf: got %v, want 2", v)
	}
	if v := meanOf(nil); v != 0 {
		t.Errorf("meanOf empty: got %v, want 0", v)
	}
	if v := meanPos([]float64{0, 0.5, 0, 1.5}); math.Abs(v-1) > difTol {
		t.Errorf("meanPos: got %v, want 1", v)
	}
	if v := meanPos([]float64{0, 0}); v != 0 {
		t.Errorf("meanPos all zero: got %v, want 0", v)
	}
}
