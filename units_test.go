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

import "testing"

func TestCheckPressureUnits(t *testing.T) {
	tests := []struct {
		units string
		ok    bool
	}{
		{units: "Pa", ok: true},
		{units: " Pa ", ok: true},
		{units: "hPa", ok: false},
		{units: "K", ok: false},
		{units: "", ok: false},
		{units: "furlongs", ok: false},
	}
	for _, test := range tests {
		err := CheckPressureUnits(test.units)
		if (err == nil) != test.ok {
			t.Errorf("%q: have error %v, want ok=%v", test.units, err, test.ok)
		}
	}
}

func TestIntegratedUnits(t *testing.T) {
	tests := map[string]string{
		"kg kg-1": "kg m-2",
		"1":       "kg m-2",
		"":        "kg m-2",
		"%":       "% kg m-2",
		"K":       "K kg m-2",
	}
	for in, want := range tests {
		if have := IntegratedUnits(in); have != want {
			t.Errorf("%q: have %q, want %q", in, have, want)
		}
	}
}
