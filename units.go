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
	"strings"

	"github.com/ctessum/unit"
)

var kilogramPerMeter2 = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -2}

// knownUnits maps unit strings found in input files to their value in SI
// units.
var knownUnits = map[string]*unit.Unit{
	"Pa":       unit.New(1, unit.Pascal),
	"hPa":      unit.New(100, unit.Pascal),
	"mbar":     unit.New(100, unit.Pascal),
	"millibar": unit.New(100, unit.Pascal),
	"bar":      unit.New(1e5, unit.Pascal),
	"K":        unit.New(1, unit.Kelvin),
	"m":        unit.New(1, unit.Meter),
	"km":       unit.New(1000, unit.Meter),
	"1":        unit.New(1, unit.Dimless),
	"%":        unit.New(0.01, unit.Dimless),
	"kg kg-1":  unit.New(1, unit.Dimless),
	"kg/kg":    unit.New(1, unit.Dimless),
	"kg m-2":   unit.New(1, kilogramPerMeter2),
	"g m-2":    unit.New(0.001, kilogramPerMeter2),
}

// ParseUnits returns the SI value of one of the given units.
func ParseUnits(s string) (*unit.Unit, error) {
	u, ok := knownUnits[strings.TrimSpace(s)]
	if !ok {
		return nil, invalidInput("units", "unrecognized units %q", s)
	}
	return u.Clone(), nil
}

// CheckPressureUnits returns an error unless s specifies Pa.
func CheckPressureUnits(s string) error {
	u, err := ParseUnits(s)
	if err != nil {
		return invalidInput("level units", "units %q are not a pressure; levels must be in Pa", s)
	}
	if err := u.Check(unit.Pascal); err != nil {
		return invalidInput("level units", "units %q: %v; levels must be in Pa", s, err)
	}
	if u.Value() != 1 {
		return invalidInput("level units", "levels are in %s but must be in Pa", s)
	}
	return nil
}

// IntegratedUnits returns the units of a quantity with the given units after
// it has been integrated over pressure and divided by gravity.
func IntegratedUnits(units string) string {
	if units == "" {
		return "kg m-2"
	}
	u, err := ParseUnits(units)
	if err == nil && u.Dimensions().Matches(unit.Dimless) && u.Value() == 1 {
		return "kg m-2"
	}
	return units + " kg m-2"
}
