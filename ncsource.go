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
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/cdf"
	"github.com/spf13/cast"
)

// rawVariable is a NetCDF variable before any interpretation of its
// attributes.
type rawVariable struct {
	dims   []string
	shape  []int
	values []float64
	attrs  map[string]interface{}
}

// source is an open NetCDF file.
type source interface {
	variable(name string) (*rawVariable, error)
	Close() error
}

var (
	classicMagic = []byte("CDF")
	hdf5Magic    = []byte("\x89HDF")
)

// openSource opens the NetCDF file at path. Classic (CDF-1 and CDF-2)
// files are read with the cdf package; NetCDF-4 files, which are HDF5
// files, are read with go-native-netcdf.
func openSource(path string) (source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		f.Close()
		return nil, fmt.Errorf("clouds: reading %s: %w", path, err)
	}
	switch {
	case bytes.HasPrefix(magic, classicMagic):
		cf, err := cdf.Open(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("clouds: opening %s: %w", path, err)
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		return &classicSource{f: f, cf: cf, size: fi.Size()}, nil
	case bytes.HasPrefix(magic, hdf5Magic):
		f.Close()
		g, err := netcdf.Open(path)
		if err != nil {
			return nil, fmt.Errorf("clouds: opening %s: %w", path, err)
		}
		return &nativeSource{g: g}, nil
	default:
		f.Close()
		return nil, invalidInput("open "+path, "not a NetCDF file")
	}
}

type classicSource struct {
	f    *os.File
	cf   *cdf.File
	size int64
}

func (s *classicSource) Close() error { return s.f.Close() }

func (s *classicSource) variable(name string) (*rawVariable, error) {
	h := s.cf.Header
	lengths := h.Lengths(name)
	if lengths == nil {
		return nil, invalidInput("read netcdf", "variable %s not in file", name)
	}
	v := &rawVariable{
		dims:  h.Dimensions(name),
		shape: append([]int(nil), lengths...),
		attrs: make(map[string]interface{}),
	}
	var end []int
	if h.IsRecordVariable(name) {
		v.shape[0] = int(h.NumRecs(s.size))
		end = v.shape
	}
	n := 1
	for _, l := range v.shape {
		n *= l
	}
	for _, a := range h.Attributes(name) {
		v.attrs[a] = h.GetAttribute(name, a)
	}
	if n == 0 {
		return v, nil
	}
	r := s.cf.Reader(name, nil, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("clouds: read netcdf variable %s: %w", name, err)
	}
	var err error
	v.values, _, err = flatten(buf)
	if err != nil {
		return nil, fmt.Errorf("clouds: read netcdf variable %s: %w", name, err)
	}
	return v, nil
}

type nativeSource struct {
	g api.Group
}

func (s *nativeSource) Close() error {
	s.g.Close()
	return nil
}

func (s *nativeSource) variable(name string) (*rawVariable, error) {
	nv, err := s.g.GetVariable(name)
	if err != nil {
		return nil, invalidInput("read netcdf", "variable %s: %v", name, err)
	}
	v := &rawVariable{
		dims:  nv.Dimensions,
		attrs: make(map[string]interface{}),
	}
	v.values, v.shape, err = flatten(nv.Values)
	if err != nil {
		return nil, fmt.Errorf("clouds: read netcdf variable %s: %w", name, err)
	}
	if nv.Attributes != nil {
		for _, k := range nv.Attributes.Keys() {
			a, _ := nv.Attributes.Get(k)
			v.attrs[k] = a
		}
	}
	return v, nil
}

// flatten converts a numeric scalar or a (possibly nested) slice of
// numbers into a flat slice of float64 in row-major order, along with the
// length of each nesting level.
func flatten(v interface{}) ([]float64, []int, error) {
	switch t := v.(type) {
	case []float64:
		return append([]float64(nil), t...), []int{len(t)}, nil
	case []float32:
		o := make([]float64, len(t))
		for i, x := range t {
			o[i] = float64(x)
		}
		return o, []int{len(t)}, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, nil, err
		}
		return []float64{f}, nil, nil
	}
	var shape []int
	for t := rv; t.Kind() == reflect.Slice; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	o := make([]float64, 0, product(shape))
	var walk func(reflect.Value, int) error
	walk = func(x reflect.Value, depth int) error {
		if x.Kind() != reflect.Slice {
			f, err := cast.ToFloat64E(x.Interface())
			if err != nil {
				return err
			}
			o = append(o, f)
			return nil
		}
		if depth >= len(shape) || x.Len() != shape[depth] {
			return fmt.Errorf("ragged array at dimension %d", depth)
		}
		for i := 0; i < x.Len(); i++ {
			if err := walk(x.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rv, 0); err != nil {
		return nil, nil, err
	}
	return o, shape, nil
}

func product(s []int) int {
	n := 1
	for _, v := range s {
		n *= v
	}
	return n
}

// attrString returns a text attribute, or "" if it is missing or not text.
func attrString(attrs map[string]interface{}, name string) string {
	switch v := attrs[name].(type) {
	case string:
		return v
	case []uint8:
		return string(bytes.TrimRight(v, "\x00"))
	}
	return ""
}

// attrFloat returns the first value of a numeric attribute.
func attrFloat(attrs map[string]interface{}, name string) (float64, bool) {
	a, ok := attrs[name]
	if !ok {
		return 0, false
	}
	if _, isText := a.(string); isText {
		return 0, false
	}
	v, _, err := flatten(a)
	if err != nil || len(v) == 0 {
		return 0, false
	}
	return v[0], true
}
