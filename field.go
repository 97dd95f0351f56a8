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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// DefaultFillValue is the fill value written for missing data when a
// variable does not specify its own.
const DefaultFillValue = 1.0e20

// Metadata describes a physical quantity.
type Metadata struct {
	ShortName    string
	LongName     string
	StandardName string
	Units        string

	// FillValue marks missing data in files and is only meaningful when
	// HasFill is set. In memory, missing data are always NaN.
	FillValue float64
	HasFill   bool
}

// IsMissing returns whether v represents missing data.
func (m Metadata) IsMissing(v float64) bool {
	return math.IsNaN(v) || (m.HasFill && v == m.FillValue)
}

func (m Metadata) fillValue() float64 {
	if !m.HasFill {
		return DefaultFillValue
	}
	return m.FillValue
}

// Field is a gridded quantity read from a dataset. Data dimensions are
// ordered [time,] [level,] lat, lon; Time and Levels are nil when the
// corresponding dimension is absent.
type Field struct {
	Meta Metadata
	Data *sparse.DenseArray

	// Time holds the time coordinate in TimeUnits, for example
	// "days since 1850-01-01".
	Time      []float64
	TimeUnits string

	Levels PressureLevels
	Lat    []float64
	Lon    []float64
}

// Dims returns the names of the dimensions of f.Data.
func (f *Field) Dims() []string {
	var d []string
	if f.Time != nil {
		d = append(d, "time")
	}
	if f.Levels != nil {
		d = append(d, "plev")
	}
	return append(d, "lat", "lon")
}

// check makes sure the shape of the data agrees with the coordinates.
func (f *Field) check() error {
	want := make([]int, 0, 4)
	if f.Time != nil {
		want = append(want, len(f.Time))
	}
	if f.Levels != nil {
		want = append(want, len(f.Levels))
	}
	want = append(want, len(f.Lat), len(f.Lon))
	if len(f.Data.Shape) != len(want) {
		return invalidInput("field "+f.Meta.ShortName, "data has %d dimensions but coordinates describe %d",
			len(f.Data.Shape), len(want))
	}
	for i, n := range want {
		if f.Data.Shape[i] != n {
			return invalidInput("field "+f.Meta.ShortName, "dimension %s has length %d but coordinate has length %d",
				f.Dims()[i], f.Data.Shape[i], n)
		}
	}
	return nil
}

// Map returns f as a two-dimensional (lat, lon) map. It returns an error
// if f has time or level dimensions.
func (f *Field) Map() (*Map, error) {
	if f.Time != nil || f.Levels != nil {
		return nil, invalidInput("field "+f.Meta.ShortName, "need a (lat, lon) field but have dimensions %v", f.Dims())
	}
	return &Map{Meta: f.Meta, Data: f.Data, Lat: f.Lat, Lon: f.Lon}, nil
}

// Map is a two-dimensional (lat, lon) field.
type Map struct {
	Meta     Metadata
	Data     *sparse.DenseArray
	Lat, Lon []float64
}

// NewMap returns a map of the given quantity filled with zeros.
func NewMap(meta Metadata, lat, lon []float64) *Map {
	return &Map{
		Meta: meta,
		Data: sparse.ZerosDense(len(lat), len(lon)),
		Lat:  lat,
		Lon:  lon,
	}
}

// Range returns the minimum and maximum non-missing values in m. If every
// value is missing, both are NaN.
func (m *Map) Range() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range m.Data.Elements {
		if m.Meta.IsMissing(v) || math.IsInf(v, 0) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if math.IsInf(min, 1) {
		return math.NaN(), math.NaN()
	}
	return min, max
}

// gridTolerance is the largest difference between two coordinate values
// that are considered equal.
const gridTolerance = 1e-4

// CheckSameGrid returns a *GridMismatchError if a and b do not share the
// same latitude and longitude coordinates.
func CheckSameGrid(a, b *Map) error {
	mismatch := func(reason string, args ...interface{}) error {
		return &GridMismatchError{A: a.Meta.ShortName, B: b.Meta.ShortName, Reason: fmt.Sprintf(reason, args...)}
	}
	if len(a.Lat) != len(b.Lat) || len(a.Lon) != len(b.Lon) {
		return mismatch("shape %dx%d != %dx%d", len(a.Lat), len(a.Lon), len(b.Lat), len(b.Lon))
	}
	if !floats.EqualApprox(a.Lat, b.Lat, gridTolerance) {
		return mismatch("latitudes differ")
	}
	if !floats.EqualApprox(a.Lon, b.Lon, gridTolerance) {
		return mismatch("longitudes differ")
	}
	return nil
}
