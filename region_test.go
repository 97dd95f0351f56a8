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
)

func testMap(lat, lon []float64, f func(lat, lon float64) float64) *Map {
	m := NewMap(Metadata{ShortName: "clt", LongName: "cloud cover", Units: "%"}, lat, lon)
	for j, y := range lat {
		for i, x := range lon {
			m.Data.Set(f(y, x), j, i)
		}
	}
	return m
}

var (
	testLat = []float64{-75, -45, -15, 15, 45, 75}
	testLon = []float64{0, 90, 180, 270}
)

func TestLookupRegion(t *testing.T) {
	for _, name := range []string{"Global", "tropics", "NH mid latitudes", " Arctic "} {
		if _, err := LookupRegion(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	_, err := LookupRegion("Atlantis")
	var e *ConfigError
	if !errors.As(err, &e) {
		t.Errorf("have error %v, want *ConfigError", err)
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{MinLat: -10, MaxLat: 10, MinLon: 350, MaxLon: 20}
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{lat: 0, lon: 0, want: true},
		{lat: 0, lon: 355, want: true},
		{lat: 0, lon: -5, want: true},
		{lat: 0, lon: 180, want: false},
		{lat: 20, lon: 0, want: false},
	}
	for _, test := range tests {
		if have := r.Contains(test.lat, test.lon); have != test.want {
			t.Errorf("(%g, %g): have %v, want %v", test.lat, test.lon, have, test.want)
		}
	}
}

func TestAreaMean(t *testing.T) {
	global, _ := LookupRegion("Global")
	m := testMap(testLat, testLon, func(_, _ float64) float64 { return 7 })
	if have := AreaMean(m, global); math.Abs(have-7) > 1e-12 {
		t.Errorf("constant field: have %g, want 7", have)
	}

	// Values equal to latitude cancel out in a symmetric global mean.
	m = testMap(testLat, testLon, func(lat, _ float64) float64 { return lat })
	if have := AreaMean(m, global); math.Abs(have) > 1e-12 {
		t.Errorf("antisymmetric field: have %g, want 0", have)
	}

	nh, _ := LookupRegion("NH")
	w := []float64{math.Cos(15 * math.Pi / 180), math.Cos(45 * math.Pi / 180), math.Cos(75 * math.Pi / 180)}
	want := (15*w[0] + 45*w[1] + 75*w[2]) / (w[0] + w[1] + w[2])
	if have := AreaMean(m, nh); math.Abs(have-want) > 1e-10 {
		t.Errorf("NH: have %g, want %g", have, want)
	}

	for i := range m.Data.Elements {
		m.Data.Elements[i] = math.NaN()
	}
	if have := AreaMean(m, global); !math.IsNaN(have) {
		t.Errorf("missing field: have %g, want NaN", have)
	}
}
