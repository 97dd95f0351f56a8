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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

// BandField holds a quantity integrated over vertical bands, with
// dimensions (band, lat, lon).
type BandField struct {
	Names []string
	Meta  Metadata
	Data  *sparse.DenseArray

	Lat, Lon []float64
}

// Map returns band i as a two-dimensional map. The map shares its data
// with b.
func (b *BandField) Map(i int) *Map {
	ny, nx := b.Data.Shape[1], b.Data.Shape[2]
	m := &Map{
		Meta: b.Meta,
		Data: sparse.ZerosDense(ny, nx),
		Lat:  b.Lat,
		Lon:  b.Lon,
	}
	m.Meta.ShortName = b.Meta.ShortName + "_" + b.Names[i]
	m.Data.Elements = b.Data.Elements[i*ny*nx : (i+1)*ny*nx]
	return m
}

// IntegrateBands integrates a (level, lat, lon) field over the vertical
// bands described by weights. Missing values contribute nothing to the
// sums. A column in which every level is missing is missing in every band
// of the result.
func IntegrateBands(field *Field, weights *WeightMatrix) (*BandField, error) {
	shape := field.Data.Shape
	if len(shape) != 3 {
		return nil, invalidInput("integrate bands", "need a (level, lat, lon) field but %s has %d dimensions",
			field.Meta.ShortName, len(shape))
	}
	nb, nl := weights.Dims()
	if shape[0] != nl {
		return nil, invalidInput("integrate bands", "field %s has %d levels but weights have %d",
			field.Meta.ShortName, shape[0], nl)
	}
	ncol := shape[1] * shape[2]

	clean := make([]float64, len(field.Data.Elements))
	valid := make([]bool, ncol)
	for k := 0; k < nl; k++ {
		for c := 0; c < ncol; c++ {
			v := field.Data.Elements[k*ncol+c]
			if field.Meta.IsMissing(v) {
				continue
			}
			clean[k*ncol+c] = v
			valid[c] = true
		}
	}

	var sum mat.Dense
	sum.Mul(weights.m, mat.NewDense(nl, ncol, clean))

	out := &BandField{
		Names: make([]string, nb),
		Meta:  field.Meta,
		Data:  sparse.ZerosDense(nb, shape[1], shape[2]),
		Lat:   field.Lat,
		Lon:   field.Lon,
	}
	out.Meta.Units = IntegratedUnits(field.Meta.Units)
	out.Meta.StandardName = ""
	out.Meta.FillValue, out.Meta.HasFill = 0, false
	for i := 0; i < nb; i++ {
		out.Names[i] = weights.BandName(i)
		for c := 0; c < ncol; c++ {
			if !valid[c] {
				out.Data.Elements[i*ncol+c] = math.NaN()
				continue
			}
			out.Data.Elements[i*ncol+c] = sum.At(i, c)
		}
	}
	return out, nil
}
