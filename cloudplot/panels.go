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

// Package cloudplot draws maps and distributions of cloud diagnostics.
package cloudplot

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spatialmodel/clouds"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Options controls the appearance of a figure.
type Options struct {
	Title string

	// Levels, if set, fix the colour scale of panel plots. The first and
	// last levels set its range and there is one colour between each
	// pair of levels.
	Levels []float64

	// Diverging selects a palette centred on zero, for differences.
	Diverging bool

	// PanelWidth and PanelHeight set the size of each map panel. Zero
	// values select the defaults.
	PanelWidth, PanelHeight vg.Length
}

const (
	defaultPanelWidth  = 3 * vg.Inch
	defaultPanelHeight = 1.8 * vg.Inch
	titleHeight        = 0.35 * vg.Inch
	colorBarHeight     = 0.65 * vg.Inch
	dpi                = 96
)

func (o Options) panelSize() (w, h vg.Length) {
	w, h = o.PanelWidth, o.PanelHeight
	if w == 0 {
		w = defaultPanelWidth
	}
	if h == 0 {
		h = defaultPanelHeight
	}
	return w, h
}

// gridMap adapts a map to plotter.GridXYZ with columns along longitude
// and rows along latitude.
type gridMap struct {
	m *clouds.Map
}

func (g gridMap) Dims() (c, r int) { return len(g.m.Lon), len(g.m.Lat) }

func (g gridMap) Z(c, r int) float64 {
	v := g.m.Data.Get(r, c)
	if g.m.Meta.IsMissing(v) {
		return math.NaN()
	}
	return v
}

func (g gridMap) X(c int) float64 { return g.m.Lon[c] }
func (g gridMap) Y(r int) float64 { return g.m.Lat[r] }

func heatMap(m *clouds.Map, s *colorScale) *plotter.HeatMap {
	pal := s.Palette()
	h := plotter.NewHeatMap(gridMap{m: m}, pal)
	h.Min, h.Max = s.min, s.max
	c := pal.Colors()
	h.Underflow, h.Overflow = c[0], c[len(c)-1]
	h.NaN = missingColor
	return h
}

// MapPanels draws a grid of maps with one row per entry of rows and one
// column per entry of cols; maps[i][j] is drawn at row i, column j and
// may be nil to leave the panel empty. Each column has its own colour
// scale and colour bar. The figure is written to w as a PNG image.
func MapPanels(w io.Writer, rows, cols []string, maps [][]*clouds.Map, opts Options) error {
	if len(rows) == 0 || len(cols) == 0 {
		return fmt.Errorf("cloudplot: no panels to draw")
	}
	if len(maps) != len(rows) {
		return fmt.Errorf("cloudplot: have %d rows of maps but %d row labels", len(maps), len(rows))
	}
	for i, r := range maps {
		if len(r) != len(cols) {
			return fmt.Errorf("cloudplot: row %s has %d maps but there are %d columns", rows[i], len(r), len(cols))
		}
	}

	scales := make([]*colorScale, len(cols))
	for j := range cols {
		var col []*clouds.Map
		for i := range rows {
			if maps[i][j] != nil {
				col = append(col, maps[i][j])
			}
		}
		var err error
		if scales[j], err = newColorScale(col, opts.Levels, opts.Diverging); err != nil {
			return err
		}
	}

	pw, ph := opts.panelSize()
	figWidth := pw * vg.Length(len(cols))
	figHeight := titleHeight + ph*vg.Length(len(rows)) + colorBarHeight

	c := vgimg.NewWith(vgimg.UseWH(figWidth, figHeight), vgimg.UseDPI(dpi))
	dc := draw.New(c)
	titlec := draw.Crop(dc, 0, 0, figHeight-titleHeight, 0)
	mainc := draw.Crop(dc, 0, 0, colorBarHeight, -titleHeight)
	legendc := draw.Crop(dc, 0, 0, 0, -figHeight+colorBarHeight)

	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      len(cols),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(1),
		PadX:      2 * vg.Millimeter,
		PadY:      2 * vg.Millimeter,
	}
	for i, row := range rows {
		for j, col := range cols {
			m := maps[i][j]
			if m == nil {
				continue
			}
			p := plot.New()
			p.Title.Text = fmt.Sprintf("%s: %s", row, col)
			p.Add(heatMap(m, scales[j]))
			p.Draw(tiles.At(mainc, j, i))
		}
	}

	legendTiles := draw.Tiles{
		Rows:      1,
		Cols:      len(cols),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(8),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(2),
		PadX:      6 * vg.Millimeter,
	}
	for j := range cols {
		p := plot.New()
		p.Add(&plotter.ColorBar{ColorMap: scales[j].cmap, Colors: scales[j].colors})
		p.HideY()
		p.X.Padding = 0
		p.X.Label.Text = columnUnits(maps, j)
		p.Draw(legendTiles.At(legendc, j, 0))
	}

	if opts.Title != "" {
		p := plot.New()
		p.Title.Text = opts.Title
		p.HideAxes()
		p.Draw(titlec)
	}

	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

// columnUnits returns the units of the first map in column j.
func columnUnits(maps [][]*clouds.Map, j int) string {
	for _, r := range maps {
		if r[j] != nil {
			return r[j].Meta.Units
		}
	}
	return ""
}

// BandPanels draws one row per dataset and one column per band. All
// fields must have the same bands.
func BandPanels(w io.Writer, datasets []string, fields []*clouds.BandField, opts Options) error {
	if len(fields) == 0 {
		return fmt.Errorf("cloudplot: no fields to draw")
	}
	if len(datasets) != len(fields) {
		return fmt.Errorf("cloudplot: have %d fields but %d dataset names", len(fields), len(datasets))
	}
	bands := fields[0].Names
	maps := make([][]*clouds.Map, len(fields))
	for i, f := range fields {
		if len(f.Names) != len(bands) {
			return fmt.Errorf("cloudplot: dataset %s has %d bands but %s has %d",
				datasets[i], len(f.Names), datasets[0], len(bands))
		}
		maps[i] = make([]*clouds.Map, len(bands))
		for j := range bands {
			maps[i][j] = f.Map(j)
		}
	}
	return MapPanels(w, datasets, bands, maps, opts)
}

// SaveFile creates the file at path and passes it to write.
func SaveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("cloudplot: drawing %s: %w", path, err)
	}
	return f.Close()
}
