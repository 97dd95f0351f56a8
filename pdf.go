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
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins returns n+1 equally spaced dividers for n bins spanning [min, max].
func Bins(min, max float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, NewConfigError("pdf.nbins", "need at least one bin but have %d", n)
	}
	if !(max > min) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, NewConfigError("pdf.xmax", "pdf.xmax (%g) must be greater than pdf.xmin (%g)", max, min)
	}
	return floats.Span(make([]float64, n+1), min, max), nil
}

// PDF is a probability density function of a sample, expressed as the
// percentage of samples falling in each bin.
type PDF struct {
	// Dividers are the bin edges; bin i spans [Dividers[i], Dividers[i+1]).
	Dividers []float64

	// Values [%] has one element per bin. All values are NaN if there
	// were no samples.
	Values []float64

	// Samples is the number of non-missing samples. Below and Above count
	// the samples that fell outside the bins.
	Samples, Below, Above int
}

// Centers returns the center of each bin.
func (p *PDF) Centers() []float64 {
	o := make([]float64, len(p.Dividers)-1)
	for i := range o {
		o[i] = (p.Dividers[i] + p.Dividers[i+1]) / 2
	}
	return o
}

// ComputePDF bins the non-NaN values in x using the given dividers. The
// percentages are relative to all non-missing samples, so they only sum
// to 100 when every sample falls within the bins.
func ComputePDF(x, dividers []float64) (*PDF, error) {
	if len(dividers) < 2 {
		return nil, invalidInput("pdf", "need at least 2 bin dividers but have %d", len(dividers))
	}
	if !sort.Float64sAreSorted(dividers) {
		return nil, invalidInput("pdf", "bin dividers must be increasing")
	}
	p := &PDF{
		Dividers: append([]float64(nil), dividers...),
		Values:   make([]float64, len(dividers)-1),
	}
	lo, hi := dividers[0], dividers[len(dividers)-1]
	in := make([]float64, 0, len(x))
	for _, v := range x {
		switch {
		case math.IsNaN(v):
			continue
		case v < lo:
			p.Below++
		case v >= hi:
			p.Above++
		default:
			in = append(in, v)
		}
		p.Samples++
	}
	if p.Samples == 0 {
		for i := range p.Values {
			p.Values[i] = math.NaN()
		}
		return p, nil
	}
	sort.Float64s(in)
	stat.Histogram(p.Values, p.Dividers, in, nil)
	floats.Scale(100/float64(p.Samples), p.Values)
	return p, nil
}

// MapPDF returns the PDF of the non-missing values of m inside r.
func MapPDF(m *Map, r Region, dividers []float64) (*PDF, error) {
	v, _ := RegionValues(m, r)
	return ComputePDF(v, dividers)
}

// PDFDifference returns p - ref for each bin. The two PDFs must use the
// same bins.
func PDFDifference(p, ref *PDF) (*PDF, error) {
	if !floats.EqualApprox(p.Dividers, ref.Dividers, 1e-10) {
		return nil, invalidInput("pdf difference", "PDFs have different bins")
	}
	o := &PDF{
		Dividers: append([]float64(nil), p.Dividers...),
		Values:   make([]float64, len(p.Values)),
		Samples:  p.Samples,
		Below:    p.Below,
		Above:    p.Above,
	}
	floats.SubTo(o.Values, p.Values, ref.Values)
	return o, nil
}
