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

	"gonum.org/v1/gonum/stat"
)

// Difference returns model - ref. Cells missing in either map are missing
// in the result.
func Difference(model, ref *Map) (*Map, error) {
	if err := CheckSameGrid(model, ref); err != nil {
		return nil, err
	}
	o := NewMap(model.Meta, model.Lat, model.Lon)
	o.Meta.ShortName = model.Meta.ShortName + "_diff"
	o.Meta.LongName = "difference in " + model.Meta.LongName
	for i, m := range model.Data.Elements {
		r := ref.Data.Elements[i]
		if model.Meta.IsMissing(m) || ref.Meta.IsMissing(r) {
			o.Data.Elements[i] = math.NaN()
			continue
		}
		o.Data.Elements[i] = m - r
	}
	return o, nil
}

// RelativeDifference returns 100 * (model - ref) / ref [%]. Cells where
// |ref| <= relDiffMin are missing in the result, so the result never
// contains infinities.
func RelativeDifference(model, ref *Map, relDiffMin float64) (*Map, error) {
	if err := CheckSameGrid(model, ref); err != nil {
		return nil, err
	}
	if relDiffMin < 0 || math.IsNaN(relDiffMin) {
		return nil, NewConfigError("rel_diff_min", "must be a non-negative number but is %g", relDiffMin)
	}
	o := NewMap(model.Meta, model.Lat, model.Lon)
	o.Meta.ShortName = model.Meta.ShortName + "_reldiff"
	o.Meta.LongName = "relative difference in " + model.Meta.LongName
	o.Meta.Units = "%"
	for i, m := range model.Data.Elements {
		r := ref.Data.Elements[i]
		if model.Meta.IsMissing(m) || ref.Meta.IsMissing(r) || math.Abs(r) <= relDiffMin {
			o.Data.Elements[i] = math.NaN()
			continue
		}
		o.Data.Elements[i] = 100 * (m - r) / r
	}
	return o, nil
}

// pairedValues returns the values of a and b at cells inside r where
// neither is missing, with cosine-of-latitude weights.
func pairedValues(a, b *Map, r Region) (x, y, w []float64, err error) {
	if err := CheckSameGrid(a, b); err != nil {
		return nil, nil, nil, err
	}
	nx := len(a.Lon)
	for j, lat := range a.Lat {
		wt := math.Cos(lat * math.Pi / 180)
		for i, lon := range a.Lon {
			if !r.Contains(lat, lon) {
				continue
			}
			va, vb := a.Data.Elements[j*nx+i], b.Data.Elements[j*nx+i]
			if a.Meta.IsMissing(va) || b.Meta.IsMissing(vb) {
				continue
			}
			x = append(x, va)
			y = append(y, vb)
			w = append(w, wt)
		}
	}
	return x, y, w, nil
}

// Bias returns the area-weighted mean of model - ref within r.
func Bias(model, ref *Map, r Region) (float64, error) {
	x, y, w, err := pairedValues(model, ref, r)
	if err != nil {
		return math.NaN(), err
	}
	if len(x) == 0 {
		return math.NaN(), nil
	}
	d := make([]float64, len(x))
	for i := range x {
		d[i] = x[i] - y[i]
	}
	return stat.Mean(d, w), nil
}

// RMSD returns the area-weighted root-mean-square difference between
// model and ref within r.
func RMSD(model, ref *Map, r Region) (float64, error) {
	x, y, w, err := pairedValues(model, ref, r)
	if err != nil {
		return math.NaN(), err
	}
	if len(x) == 0 {
		return math.NaN(), nil
	}
	d := make([]float64, len(x))
	for i := range x {
		d[i] = (x[i] - y[i]) * (x[i] - y[i])
	}
	return math.Sqrt(stat.Mean(d, w)), nil
}

// Correlation returns the area-weighted Pearson correlation coefficient
// between model and ref within r. It is NaN if either map is constant.
func Correlation(model, ref *Map, r Region) (float64, error) {
	x, y, w, err := pairedValues(model, ref, r)
	if err != nil {
		return math.NaN(), err
	}
	if len(x) < 2 {
		return math.NaN(), nil
	}
	return stat.Correlation(x, y, w), nil
}

// Statistics summarizes the agreement of a map with a reference.
type Statistics struct {
	Bias, RMSD, Correlation float64
}

// Compare calculates the bias, RMSD and correlation of model relative to
// ref within r.
func Compare(model, ref *Map, r Region) (Statistics, error) {
	var s Statistics
	var err error
	if s.Bias, err = Bias(model, ref, r); err != nil {
		return s, err
	}
	if s.RMSD, err = RMSD(model, ref, r); err != nil {
		return s, err
	}
	s.Correlation, err = Correlation(model, ref, r)
	return s, err
}
