/*
Copyright © 2026 the clouds authors.
This file is part of clouds.

clouds is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

clouds is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with clouds.  If not, see <http://www.gnu.org/licenses/>.
*/

package clouds

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var exampleLevels = PressureLevels{100000, 70000, 45000, 5000}

func TestComputeBandWeights(t *testing.T) {
	w, err := ComputeBandWeights(exampleLevels, BandBoundaries{70000, 45000})
	if err != nil {
		t.Fatal(err)
	}
	// Layer edges are 115000, 85000, 57500, 25000 and -15000 Pa.
	want := [][]float64{
		{30000 / g, 15000 / g, 0, 0},
		{0, 12500 / g, 12500 / g, 0},
		{0, 0, 20000 / g, 40000 / g},
	}
	nb, nl := w.Dims()
	if nb != 3 || nl != 4 {
		t.Fatalf("dims: have %dx%d, want 3x4", nb, nl)
	}
	for i := range want {
		if diff := cmp.Diff(want[i], w.Band(i), cmpopts.EquateApprox(0, 1e-10)); diff != "" {
			t.Errorf("band %d (-want +have):\n%s", i, diff)
		}
	}
}

func TestBandWeightsConserveMass(t *testing.T) {
	tests := []struct {
		name       string
		levels     PressureLevels
		boundaries BandBoundaries
	}{
		{
			name:       "example",
			levels:     exampleLevels,
			boundaries: BandBoundaries{70000, 45000},
		},
		{
			name:       "cmip plev19",
			levels:     PressureLevels{100000, 92500, 85000, 70000, 60000, 50000, 40000, 30000, 25000, 20000, 15000, 10000, 7000, 5000, 3000, 2000, 1000, 500, 100},
			boundaries: DefaultBands.Boundaries,
		},
		{
			name:       "boundary on level",
			levels:     PressureLevels{100000, 80000, 68000, 50000},
			boundaries: BandBoundaries{68000},
		},
		{
			name:       "all levels in one band",
			levels:     PressureLevels{30000, 20000, 10000},
			boundaries: BandBoundaries{90000, 80000},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, err := ComputeBandWeights(test.levels, test.boundaries)
			if err != nil {
				t.Fatal(err)
			}
			nb, nl := w.Dims()
			for n := 0; n < nl; n++ {
				var sum float64
				for i := 0; i < nb; i++ {
					v := w.At(i, n)
					if v < 0 {
						t.Errorf("band %d level %d: negative weight %g", i, n, v)
					}
					sum += v
				}
				want := test.levels.Thickness(n) / g
				if math.Abs(sum-want) > 1e-9*want {
					t.Errorf("level %d: weights sum to %g but layer mass is %g", n, sum, want)
				}
			}
		})
	}
}

func TestBandWeightsInvalid(t *testing.T) {
	tests := []struct {
		name       string
		levels     PressureLevels
		boundaries BandBoundaries
	}{
		{name: "one level", levels: PressureLevels{100000}, boundaries: BandBoundaries{50000}},
		{name: "increasing", levels: PressureLevels{5000, 45000, 100000}, boundaries: BandBoundaries{50000}},
		{name: "repeated", levels: PressureLevels{100000, 100000, 5000}, boundaries: BandBoundaries{50000}},
		{name: "nan", levels: PressureLevels{100000, math.NaN(), 5000}, boundaries: BandBoundaries{50000}},
		{name: "no boundaries", levels: exampleLevels},
		{name: "boundaries increasing", levels: exampleLevels, boundaries: BandBoundaries{45000, 70000}},
		{name: "negative boundary", levels: exampleLevels, boundaries: BandBoundaries{-1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ComputeBandWeights(test.levels, test.boundaries)
			var e *InvalidInputError
			if !errors.As(err, &e) {
				t.Errorf("have error %v, want *InvalidInputError", err)
			}
		})
	}
}

func TestBandsValidate(t *testing.T) {
	if err := DefaultBands.Validate(); err != nil {
		t.Errorf("default bands: %v", err)
	}
	bad := []Bands{
		{Names: []string{"low", "high"}, Boundaries: BandBoundaries{70000, 45000}},
		{Names: []string{"low", "low"}, Boundaries: BandBoundaries{70000}},
		{Names: []string{"low", ""}, Boundaries: BandBoundaries{70000}},
	}
	for i, b := range bad {
		if err := b.Validate(); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
	w, err := DefaultBands.Weights(exampleLevels)
	if err != nil {
		t.Fatal(err)
	}
	if w.BandName(2) != "high" {
		t.Errorf("band name: have %s, want high", w.BandName(2))
	}
}

func TestLevelBounds(t *testing.T) {
	tests := []struct {
		n          int
		pbot, ptop float64
	}{
		{n: 0, pbot: 115000, ptop: 85000},
		{n: 1, pbot: 85000, ptop: 57500},
		{n: 2, pbot: 57500, ptop: 25000},
		{n: 3, pbot: 25000, ptop: -15000},
	}
	for _, test := range tests {
		pbot, ptop := exampleLevels.Bounds(test.n)
		if pbot != test.pbot || ptop != test.ptop {
			t.Errorf("level %d: have (%g, %g), want (%g, %g)", test.n, pbot, ptop, test.pbot, test.ptop)
		}
	}
}
