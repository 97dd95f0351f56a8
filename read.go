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
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/sparse"
)

type axis int

const (
	otherAxis axis = iota
	timeAxis
	levelAxis
	latAxis
	lonAxis
)

var levelNames = map[string]bool{
	"plev": true, "lev": true, "level": true, "levels": true,
	"pressure": true, "air_pressure": true, "pres": true,
}

func classifyDim(name string) axis {
	n := strings.ToLower(name)
	switch {
	case n == "time" || n == "t":
		return timeAxis
	case levelNames[n]:
		return levelAxis
	case strings.HasPrefix(n, "lat"):
		return latAxis
	case strings.HasPrefix(n, "lon"):
		return lonAxis
	}
	return otherAxis
}

// ReadField reads the named variable from the NetCDF file at path.
//
// The variable must have latitude and longitude as its last two
// dimensions, optionally preceded by a pressure level dimension and a
// time dimension, in that order. Other dimensions are allowed only if
// they have length 1. Fill values become NaN and packed data are
// unpacked. Levels must be in Pa; they are returned starting at the
// surface and latitudes are returned in increasing order, with the data
// reordered to match.
func ReadField(path, name string) (*Field, error) {
	s, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	f, err := readField(s, name)
	if err != nil {
		return nil, fmt.Errorf("clouds: reading %s from %s: %w", name, path, err)
	}
	return f, nil
}

func readField(s source, name string) (*Field, error) {
	v, err := s.variable(name)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Meta: Metadata{
			ShortName:    name,
			LongName:     attrString(v.attrs, "long_name"),
			StandardName: attrString(v.attrs, "standard_name"),
			Units:        attrString(v.attrs, "units"),
		},
	}
	if f.Meta.LongName == "" {
		f.Meta.LongName = name
	}
	fill, hasFill := attrFloat(v.attrs, "_FillValue")
	if !hasFill {
		fill, hasFill = attrFloat(v.attrs, "missing_value")
	}
	f.Meta.FillValue, f.Meta.HasFill = fill, hasFill
	scale, hasScale := attrFloat(v.attrs, "scale_factor")
	offset, _ := attrFloat(v.attrs, "add_offset")
	if !hasScale {
		scale = 1
	}
	for i, x := range v.values {
		if hasFill && x == fill {
			v.values[i] = math.NaN()
			continue
		}
		v.values[i] = x*scale + offset
	}

	var shape []int
	var last axis
	for i, d := range v.dims {
		a := classifyDim(d)
		if a == otherAxis {
			if v.shape[i] != 1 {
				return nil, invalidInput("read "+name, "unsupported dimension %s with length %d", d, v.shape[i])
			}
			continue
		}
		if a <= last {
			return nil, invalidInput("read "+name, "dimensions %v are not in (time, level, lat, lon) order", v.dims)
		}
		last = a
		shape = append(shape, v.shape[i])
		switch a {
		case timeAxis:
			c, err := s.variable(d)
			if err != nil {
				return nil, err
			}
			f.Time = c.values
			f.TimeUnits = attrString(c.attrs, "units")
		case levelAxis:
			c, err := s.variable(d)
			if err != nil {
				return nil, err
			}
			if err := CheckPressureUnits(attrString(c.attrs, "units")); err != nil {
				return nil, err
			}
			f.Levels = PressureLevels(c.values)
		case latAxis:
			c, err := s.variable(d)
			if err != nil {
				return nil, err
			}
			f.Lat = c.values
		case lonAxis:
			c, err := s.variable(d)
			if err != nil {
				return nil, err
			}
			f.Lon = c.values
		}
	}
	if f.Lat == nil || f.Lon == nil {
		return nil, invalidInput("read "+name, "need latitude and longitude dimensions but have %v", v.dims)
	}
	if product(shape) != len(v.values) {
		return nil, invalidInput("read "+name, "have %d values for shape %v", len(v.values), shape)
	}
	f.Data = &sparse.DenseArray{Elements: v.values, Shape: shape}
	f.Data.Fix()
	if err := f.check(); err != nil {
		return nil, err
	}

	if len(f.Levels) > 1 && f.Levels[0] < f.Levels[1] {
		reverse(f.Levels)
		reverseAxis(f.Data, axisIndex(f, levelAxis))
	}
	if len(f.Lat) > 1 && f.Lat[0] > f.Lat[1] {
		reverse(f.Lat)
		reverseAxis(f.Data, axisIndex(f, latAxis))
	}
	if f.Levels != nil {
		if err := f.Levels.Validate(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// axisIndex returns the position of axis a in f.Data.
func axisIndex(f *Field, a axis) int {
	i := 0
	if f.Time != nil {
		if a == timeAxis {
			return i
		}
		i++
	}
	if f.Levels != nil {
		if a == levelAxis {
			return i
		}
		i++
	}
	if a == latAxis {
		return i
	}
	return i + 1
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// reverseAxis reverses the order of the elements of d along dimension ax.
func reverseAxis(d *sparse.DenseArray, ax int) {
	outer := product(d.Shape[:ax])
	n := d.Shape[ax]
	inner := product(d.Shape[ax+1:])
	for o := 0; o < outer; o++ {
		base := o * n * inner
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			a := d.Elements[base+i*inner : base+(i+1)*inner]
			b := d.Elements[base+j*inner : base+(j+1)*inner]
			for k := range a {
				a[k], b[k] = b[k], a[k]
			}
		}
	}
}

// ReadMap reads the named variable from the file at path and averages it
// over time. The variable must not have a level dimension.
func ReadMap(path, name string) (*Map, error) {
	f, err := ReadField(path, name)
	if err != nil {
		return nil, err
	}
	if f, err = TimeMean(f); err != nil {
		return nil, err
	}
	return f.Map()
}
