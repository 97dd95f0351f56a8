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
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Output collects derived fields from one or more datasets to be written
// to a single NetCDF file.
type Output struct {
	dims  map[string]int
	vars  map[string]*outputVariable
	attrs map[string]string
}

type outputVariable struct {
	dims   []string
	meta   Metadata
	data   []float64
	double bool // coordinates are written in double precision
}

// NewOutput returns an empty output file.
func NewOutput() *Output {
	return &Output{
		dims:  make(map[string]int),
		vars:  make(map[string]*outputVariable),
		attrs: make(map[string]string),
	}
}

// VarName returns a NetCDF-safe variable name built from the given parts.
func VarName(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, strings.Join(nonEmpty, "_"))
}

// AddDimension adds a dimension with length n. Adding a dimension that
// already exists is allowed as long as the length is the same.
func (o *Output) AddDimension(name string, n int) error {
	if n < 1 {
		return invalidInput("output", "dimension %s must have positive length but has %d", name, n)
	}
	if l, ok := o.dims[name]; ok && l != n {
		return invalidInput("output", "dimension %s already has length %d, cannot set to %d", name, l, n)
	}
	o.dims[name] = n
	return nil
}

// AddCoordinate adds a dimension and a coordinate variable of the same
// name holding the given values.
func (o *Output) AddCoordinate(name string, values []float64, units, longName string) error {
	if err := o.AddDimension(name, len(values)); err != nil {
		return err
	}
	o.vars[name] = &outputVariable{
		dims:   []string{name},
		meta:   Metadata{ShortName: name, LongName: longName, Units: units},
		data:   values,
		double: true,
	}
	return nil
}

// AddVariable adds a variable with the given dimensions, which must
// already exist.
func (o *Output) AddVariable(name string, dims []string, meta Metadata, data *sparse.DenseArray) error {
	if _, ok := o.vars[name]; ok {
		return invalidInput("output", "variable %s already exists", name)
	}
	n := 1
	for _, d := range dims {
		l, ok := o.dims[d]
		if !ok {
			return invalidInput("output", "variable %s: dimension %s does not exist", name, d)
		}
		n *= l
	}
	if len(data.Elements) != n {
		return invalidInput("output", "variable %s: dims are %d but array length is %d", name, n, len(data.Elements))
	}
	o.vars[name] = &outputVariable{dims: dims, meta: meta, data: data.Elements}
	return nil
}

// AddMap adds m to the output as variable <prefix>_<short name>, with
// latitude and longitude dimensions specific to prefix so that datasets
// on different grids can share a file. It returns the variable name.
func (o *Output) AddMap(prefix string, m *Map) (string, error) {
	latDim, lonDim := VarName("lat", prefix), VarName("lon", prefix)
	if err := o.AddCoordinate(latDim, m.Lat, "degrees_north", "latitude"); err != nil {
		return "", err
	}
	if err := o.AddCoordinate(lonDim, m.Lon, "degrees_east", "longitude"); err != nil {
		return "", err
	}
	name := VarName(prefix, m.Meta.ShortName)
	return name, o.AddVariable(name, []string{latDim, lonDim}, m.Meta, m.Data)
}

// AddField adds f with its coordinates under their usual names: time,
// plev, lat and lon.
func (o *Output) AddField(f *Field) error {
	if err := f.check(); err != nil {
		return err
	}
	if f.Time != nil {
		if err := o.AddCoordinate("time", f.Time, f.TimeUnits, "time"); err != nil {
			return err
		}
	}
	if f.Levels != nil {
		if err := o.AddCoordinate("plev", f.Levels, "Pa", "pressure"); err != nil {
			return err
		}
	}
	if err := o.AddCoordinate("lat", f.Lat, "degrees_north", "latitude"); err != nil {
		return err
	}
	if err := o.AddCoordinate("lon", f.Lon, "degrees_east", "longitude"); err != nil {
		return err
	}
	return o.AddVariable(f.Meta.ShortName, f.Dims(), f.Meta, f.Data)
}

// AddBandField adds each band of b as a separate map. It returns the
// variable names.
func (o *Output) AddBandField(prefix string, b *BandField) ([]string, error) {
	names := make([]string, len(b.Names))
	for i := range b.Names {
		m := b.Map(i)
		m.Meta.LongName = fmt.Sprintf("%s (%s)", b.Meta.LongName, b.Names[i])
		var err error
		if names[i], err = o.AddMap(prefix, m); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// AddPDF adds p as variable name on the shared "bin" dimension.
func (o *Output) AddPDF(name string, meta Metadata, p *PDF) error {
	c := p.Centers()
	if _, ok := o.vars["bin"]; !ok {
		if err := o.AddCoordinate("bin", c, meta.Units, "bin center"); err != nil {
			return err
		}
	} else if err := o.AddDimension("bin", len(c)); err != nil {
		return err
	}
	meta.Units = "%"
	return o.AddVariable(name, []string{"bin"}, meta, &sparse.DenseArray{Elements: p.Values, Shape: []int{len(c)}})
}

// SetAttribute sets a global attribute.
func (o *Output) SetAttribute(name, value string) { o.attrs[name] = value }

func sortedKeys[T any](m map[string]T) []string {
	k := make([]string, 0, len(m))
	for n := range m {
		k = append(k, n)
	}
	sort.Strings(k)
	return k
}

// Write writes o to w in NetCDF classic format.
func (o *Output) Write(w *os.File) error {
	// Sort the names so they write in the same order every time.
	dimNames := sortedKeys(o.dims)
	lengths := make([]int, len(dimNames))
	for i, d := range dimNames {
		lengths[i] = o.dims[d]
	}
	h := cdf.NewHeader(dimNames, lengths)
	for _, a := range sortedKeys(o.attrs) {
		if o.attrs[a] != "" {
			h.AddAttribute("", a, o.attrs[a])
		}
	}
	names := sortedKeys(o.vars)
	for _, name := range names {
		v := o.vars[name]
		if v.double {
			h.AddVariable(name, v.dims, []float64{0})
		} else {
			h.AddVariable(name, v.dims, []float32{0})
			h.AddAttribute(name, "_FillValue", []float32{float32(v.meta.fillValue())})
		}
		if v.meta.LongName != "" {
			h.AddAttribute(name, "long_name", v.meta.LongName)
		}
		if v.meta.StandardName != "" {
			h.AddAttribute(name, "standard_name", v.meta.StandardName)
		}
		if v.meta.Units != "" {
			h.AddAttribute(name, "units", v.meta.Units)
		}
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, name := range names {
		if err = writeNCF(f, name, o.vars[name]); err != nil {
			return fmt.Errorf("clouds: writing variable %s to netcdf file: %w", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCF(f *cdf.File, name string, v *outputVariable) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if v.double {
		_, err := w.Write(v.data)
		return err
	}
	fill := float32(v.meta.fillValue())
	data32 := make([]float32, len(v.data))
	for i, e := range v.data {
		if v.meta.IsMissing(e) || math.IsInf(e, 0) {
			data32[i] = fill
			continue
		}
		data32[i] = float32(e)
	}
	_, err := w.Write(data32)
	return err
}

// WriteFile writes o to a new file at path.
func (o *Output) WriteFile(path string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := o.Write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
