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
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// testValue gives a distinct value for each point that is exactly
// representable in single precision.
func testValue(t, p, lat, lon float64) float64 {
	return t*1000 + p/1000 + lat*10 + lon/90
}

func writeTestField(t *testing.T, dir string) string {
	f := &Field{
		Meta: Metadata{
			ShortName:    "clw",
			LongName:     "Mass Fraction of Cloud Liquid Water",
			StandardName: "mass_fraction_of_cloud_liquid_water_in_air",
			Units:        "kg kg-1",
		},
		Time:      []float64{15, 45},
		TimeUnits: "days since 2000-01-01",
		// Levels and latitudes are stored in the opposite order to the
		// one used in memory.
		Levels: PressureLevels{5000, 45000, 70000, 100000},
		Lat:    []float64{10, -10},
		Lon:    []float64{0, 90, 180},
	}
	f.Data = sparse.ZerosDense(2, 4, 2, 3)
	for ti, tv := range f.Time {
		for k, p := range f.Levels {
			for j, lat := range f.Lat {
				for i, lon := range f.Lon {
					f.Data.Set(testValue(tv, p, lat, lon), ti, k, j, i)
				}
			}
		}
	}
	f.Data.Set(math.NaN(), 0, 0, 0, 0)

	o := NewOutput()
	if err := o.AddField(f); err != nil {
		t.Fatal(err)
	}
	o.SetAttribute("title", "test data")
	path := filepath.Join(dir, "clw.nc")
	if err := o.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadWriteField(t *testing.T) {
	path := writeTestField(t, t.TempDir())
	f, err := ReadField(path, "clw")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(PressureLevels{100000, 70000, 45000, 5000}, f.Levels); diff != "" {
		t.Errorf("levels (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{-10, 10}, f.Lat); diff != "" {
		t.Errorf("lat (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{15, 45}, f.Time); diff != "" {
		t.Errorf("time (-want +have):\n%s", diff)
	}
	if f.TimeUnits != "days since 2000-01-01" {
		t.Errorf("time units: %q", f.TimeUnits)
	}
	wantMeta := Metadata{
		ShortName:    "clw",
		LongName:     "Mass Fraction of Cloud Liquid Water",
		StandardName: "mass_fraction_of_cloud_liquid_water_in_air",
		Units:        "kg kg-1",
		FillValue:    float64(float32(DefaultFillValue)),
		HasFill:      true,
	}
	if diff := cmp.Diff(wantMeta, f.Meta); diff != "" {
		t.Errorf("metadata (-want +have):\n%s", diff)
	}

	for ti, tv := range f.Time {
		for k, p := range f.Levels {
			for j, lat := range f.Lat {
				for i, lon := range f.Lon {
					have := f.Data.Get(ti, k, j, i)
					if ti == 0 && p == 5000 && lat == 10 && lon == 0 {
						if !math.IsNaN(have) {
							t.Errorf("missing value: have %g, want NaN", have)
						}
						continue
					}
					if want := testValue(tv, p, lat, lon); have != want {
						t.Errorf("(%d, %d, %d, %d): have %g, want %g", ti, k, j, i, have, want)
					}
				}
			}
		}
	}
}

func TestZeroFillValue(t *testing.T) {
	dir := t.TempDir()
	f := &Field{
		Meta: Metadata{ShortName: "clt", Units: "%", HasFill: true},
		Data: &sparse.DenseArray{Elements: []float64{math.NaN(), 5}, Shape: []int{1, 2}},
		Lat:  []float64{0},
		Lon:  []float64{0, 180},
	}
	f.Data.Fix()
	path := filepath.Join(dir, "clt.nc")
	for i := 0; i < 2; i++ {
		o := NewOutput()
		if err := o.AddField(f); err != nil {
			t.Fatal(err)
		}
		if err := o.WriteFile(path); err != nil {
			t.Fatal(err)
		}
		var err error
		if f, err = ReadField(path, "clt"); err != nil {
			t.Fatal(err)
		}
		if !f.Meta.HasFill || f.Meta.FillValue != 0 {
			t.Fatalf("round %d: have fill value %g (%v), want 0", i, f.Meta.FillValue, f.Meta.HasFill)
		}
		if diff := cmp.Diff([]float64{math.NaN(), 5}, f.Data.Elements, cmpopts.EquateNaNs()); diff != "" {
			t.Errorf("round %d (-want +have):\n%s", i, diff)
		}
	}
}

func TestReadMap(t *testing.T) {
	dir := t.TempDir()
	f := &Field{
		Meta:      Metadata{ShortName: "clt", Units: "%"},
		Data:      sparse.ZerosDense(2, 1, 2),
		Time:      []float64{0, 1},
		TimeUnits: "days since 2000-01-01",
		Lat:       []float64{0},
		Lon:       []float64{0, 180},
	}
	f.Data.Elements = []float64{10, 20, 30, math.NaN()}
	o := NewOutput()
	if err := o.AddField(f); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "clt.nc")
	if err := o.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	m, err := ReadMap(path, "clt")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{20, 20}, m.Data.Elements); diff != "" {
		t.Errorf("(-want +have):\n%s", diff)
	}
}

func TestReadFieldErrors(t *testing.T) {
	dir := t.TempDir()

	o := NewOutput()
	if err := o.AddCoordinate("plev", []float64{1000, 500}, "hPa", "pressure"); err != nil {
		t.Fatal(err)
	}
	if err := o.AddCoordinate("lat", []float64{0}, "degrees_north", "latitude"); err != nil {
		t.Fatal(err)
	}
	if err := o.AddCoordinate("lon", []float64{0, 1}, "degrees_east", "longitude"); err != nil {
		t.Fatal(err)
	}
	if err := o.AddVariable("cli", []string{"plev", "lat", "lon"}, Metadata{}, sparse.ZerosDense(2, 1, 2)); err != nil {
		t.Fatal(err)
	}
	if err := o.AddVariable("swapped", []string{"lon", "lat"}, Metadata{}, sparse.ZerosDense(2, 1)); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "bad.nc")
	if err := o.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"cli", "swapped", "missing"} {
		_, err := ReadField(path, name)
		var e *InvalidInputError
		if !errors.As(err, &e) {
			t.Errorf("%s: have error %v, want *InvalidInputError", name, err)
		}
	}

	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("not a netcdf file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadField(text, "clt"); err == nil {
		t.Error("expected an error for a text file")
	}
}

func TestOutputDimensions(t *testing.T) {
	o := NewOutput()
	if err := o.AddDimension("bin", 3); err != nil {
		t.Fatal(err)
	}
	if err := o.AddDimension("bin", 3); err != nil {
		t.Errorf("same length: %v", err)
	}
	if err := o.AddDimension("bin", 4); err == nil {
		t.Error("expected an error for a different length")
	}
	if err := o.AddVariable("x", []string{"nope"}, Metadata{}, sparse.ZerosDense(1)); err == nil {
		t.Error("expected an error for a missing dimension")
	}
	if err := o.AddVariable("x", []string{"bin"}, Metadata{}, sparse.ZerosDense(2)); err == nil {
		t.Error("expected an error for a wrong length")
	}
}

func TestVarName(t *testing.T) {
	if have := VarName("ESACCI-CLOUD", "", "clw low"); have != "ESACCI_CLOUD_clw_low" {
		t.Errorf("have %s", have)
	}
}

func TestFlatten(t *testing.T) {
	v, shape, err := flatten([][]int16{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5, 6}, v); diff != "" {
		t.Errorf("values (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 3}, shape); diff != "" {
		t.Errorf("shape (-want +have):\n%s", diff)
	}
	if v, _, err := flatten(float32(2.5)); err != nil || v[0] != 2.5 {
		t.Errorf("scalar: have %v, %v", v, err)
	}
	if _, _, err := flatten([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("expected an error for a ragged array")
	}
}

func TestAttributes(t *testing.T) {
	attrs := map[string]interface{}{
		"units":        "K",
		"scale_factor": []float32{0.5},
		"_FillValue":   []int16{-32767},
		"flag":         []uint8("yes\x00"),
	}
	if s := attrString(attrs, "units"); s != "K" {
		t.Errorf("units: %q", s)
	}
	if s := attrString(attrs, "flag"); s != "yes" {
		t.Errorf("flag: %q", s)
	}
	opts := cmpopts.EquateApprox(0, 1e-12)
	if v, ok := attrFloat(attrs, "scale_factor"); !ok || !cmp.Equal(v, 0.5, opts) {
		t.Errorf("scale_factor: %g %v", v, ok)
	}
	if v, ok := attrFloat(attrs, "_FillValue"); !ok || v != -32767 {
		t.Errorf("_FillValue: %g %v", v, ok)
	}
	if _, ok := attrFloat(attrs, "units"); ok {
		t.Error("text attribute should not be numeric")
	}
}
