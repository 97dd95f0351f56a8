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

package cloudplot

import (
	"bytes"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/clouds"
)

func testBandField(scale float64) *clouds.BandField {
	lat := []float64{-60, -20, 20, 60}
	lon := []float64{0, 90, 180, 270}
	b := &clouds.BandField{
		Names: []string{"low", "mid", "high"},
		Meta:  clouds.Metadata{ShortName: "clw", LongName: "liquid water path", Units: "kg m-2"},
		Data:  sparse.ZerosDense(3, len(lat), len(lon)),
		Lat:   lat,
		Lon:   lon,
	}
	for i := range b.Data.Elements {
		b.Data.Elements[i] = scale * float64(i%7)
	}
	b.Data.Elements[5] = math.NaN()
	return b
}

func checkPNG(t *testing.T, b []byte) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}
	if r := img.Bounds(); r.Dx() == 0 || r.Dy() == 0 {
		t.Errorf("empty image: %v", r)
	}
}

func TestBandPanels(t *testing.T) {
	fields := []*clouds.BandField{testBandField(1), testBandField(2)}
	tests := []struct {
		name string
		opts Options
	}{
		{name: "data range", opts: Options{Title: "Liquid water path"}},
		{name: "explicit levels", opts: Options{Levels: []float64{0, 2, 4, 6, 8}}},
		{name: "diverging", opts: Options{Diverging: true}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := BandPanels(&buf, []string{"ESACCI-CLOUD", "ModelA"}, fields, test.opts); err != nil {
				t.Fatal(err)
			}
			checkPNG(t, buf.Bytes())
		})
	}
}

func TestBandPanelsErrors(t *testing.T) {
	f := testBandField(1)
	if err := BandPanels(io.Discard, []string{"a", "b"}, []*clouds.BandField{f}, Options{}); err == nil {
		t.Error("expected an error for mismatched names")
	}
	if err := BandPanels(io.Discard, nil, nil, Options{}); err == nil {
		t.Error("expected an error for no fields")
	}
	if err := BandPanels(io.Discard, []string{"a"}, []*clouds.BandField{f}, Options{Levels: []float64{2, 1}}); err == nil {
		t.Error("expected an error for decreasing levels")
	}
}

func TestMapPanelsMissing(t *testing.T) {
	m := testBandField(1).Map(0)
	empty := clouds.NewMap(m.Meta, m.Lat, m.Lon)
	for i := range empty.Data.Elements {
		empty.Data.Elements[i] = math.NaN()
	}
	maps := [][]*clouds.Map{{m, nil}, {empty, empty}}
	var buf bytes.Buffer
	if err := MapPanels(&buf, []string{"a", "b"}, []string{"x", "y"}, maps, Options{}); err != nil {
		t.Fatal(err)
	}
	checkPNG(t, buf.Bytes())
}

func TestColorScale(t *testing.T) {
	m := testBandField(1).Map(0)
	s, err := newColorScale([]*clouds.Map{m}, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.min != -6 || s.max != 6 {
		t.Errorf("diverging range: have [%g, %g], want [-6, 6]", s.min, s.max)
	}
	s, err = newColorScale(nil, []float64{0, 1, 2}, false)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(s.Palette().Colors()); n != 2 {
		t.Errorf("colours: have %d, want 2", n)
	}
	c := clouds.NewMap(m.Meta, m.Lat, m.Lon)
	s, err = newColorScale([]*clouds.Map{c}, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if !(s.max > s.min) {
		t.Errorf("constant field should still give a range, have [%g, %g]", s.min, s.max)
	}
}

func TestPDFPlot(t *testing.T) {
	bins, err := clouds.Bins(0, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	ref, _ := clouds.ComputePDF([]float64{5, 15, 15, 55, 95}, bins)
	model, _ := clouds.ComputePDF([]float64{25, 35, 45}, bins)
	empty, _ := clouds.ComputePDF(nil, bins)
	series := []Series{
		{Name: "ESACCI-CLOUD", PDF: ref},
		{Name: "ModelA", PDF: model},
		{Name: "ModelB", PDF: empty},
	}
	path := filepath.Join(t.TempDir(), "pdf.png")
	err = SaveFile(path, func(w io.Writer) error {
		return PDFPlot(w, series, "Cloud cover (%)", Options{Title: "Tropics"})
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	checkPNG(t, b)

	if err := PDFPlot(io.Discard, nil, "", Options{}); err == nil {
		t.Error("expected an error for no series")
	}
}
