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
	"fmt"
	"io"
	"math"

	"github.com/spatialmodel/clouds"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Series is a named distribution.
type Series struct {
	Name string
	PDF  *clouds.PDF
}

const (
	pdfWidth  = 6 * vg.Inch
	pdfHeight = 4 * vg.Inch
)

// pdfPoints returns the bin centres and values of p, skipping bins
// without a value.
func pdfPoints(p *clouds.PDF) plotter.XYs {
	c := p.Centers()
	xy := make(plotter.XYs, 0, len(c))
	for i, x := range c {
		if math.IsNaN(p.Values[i]) || math.IsInf(p.Values[i], 0) {
			continue
		}
		xy = append(xy, plotter.XY{X: x, Y: p.Values[i]})
	}
	return xy
}

// PDFPlot draws one line per series, in order, and writes the figure to w
// as a PNG image. The first series is drawn with a thicker line, so the
// reference dataset should come first. Series without any values are
// left out of the plot but kept in the legend.
func PDFPlot(w io.Writer, series []Series, xLabel string, opts Options) error {
	if len(series) == 0 {
		return fmt.Errorf("cloudplot: no distributions to draw")
	}
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Frequency (%)"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		l, err := plotter.NewLine(pdfPoints(s.PDF))
		if err != nil {
			return fmt.Errorf("cloudplot: %s: %w", s.Name, err)
		}
		l.Color = plotutil.Color(i)
		l.Dashes = plotutil.Dashes(i)
		if i == 0 {
			l.Width = vg.Points(2)
		}
		if len(l.XYs) > 0 {
			p.Add(l)
		}
		p.Legend.Add(s.Name, l)
	}

	c := vgimg.NewWith(vgimg.UseWH(pdfWidth, pdfHeight), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
