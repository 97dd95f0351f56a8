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
	"image/color"
	"math"

	"github.com/spatialmodel/clouds"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// defaultColors is the number of colours used when no explicit levels are
// given.
const defaultColors = 32

// missingColor is used for grid cells without data.
var missingColor = color.Gray{Y: 200}

// colorScale maps values in [min, max] onto a discrete set of colours.
type colorScale struct {
	cmap     palette.ColorMap
	min, max float64
	colors   int
}

// newColorScale returns a scale for the given maps. Explicit levels fix
// the range to [levels[0], levels[len-1]] with one colour between each
// pair of levels. Otherwise the range spans the finite data, made
// symmetric about zero when diverging is true.
func newColorScale(maps []*clouds.Map, levels []float64, diverging bool) (*colorScale, error) {
	s := &colorScale{colors: defaultColors}
	if len(levels) > 0 {
		if len(levels) < 2 {
			return nil, fmt.Errorf("cloudplot: need at least two levels but have %d", len(levels))
		}
		for i := 1; i < len(levels); i++ {
			if !(levels[i] > levels[i-1]) {
				return nil, fmt.Errorf("cloudplot: levels must be increasing but have %v", levels)
			}
		}
		s.min, s.max = levels[0], levels[len(levels)-1]
		s.colors = len(levels) - 1
	} else {
		s.min, s.max = math.Inf(1), math.Inf(-1)
		for _, m := range maps {
			lo, hi := m.Range()
			if math.IsNaN(lo) {
				continue
			}
			s.min = math.Min(s.min, lo)
			s.max = math.Max(s.max, hi)
		}
		if math.IsInf(s.min, 1) {
			s.min, s.max = 0, 1
		}
		if diverging {
			a := math.Max(math.Abs(s.min), math.Abs(s.max))
			s.min, s.max = -a, a
		}
		if s.max <= s.min {
			s.min, s.max = s.min-1, s.max+1
		}
	}
	if s.colors < 2 {
		s.colors = 2
	}

	if diverging {
		s.cmap = moreland.SmoothBlueRed()
	} else {
		s.cmap = moreland.ExtendedBlackBody()
	}
	s.cmap.SetMax(s.max)
	s.cmap.SetMin(s.min)
	return s, nil
}

// colorList holds a fixed list of colours.
type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }

// Palette returns the discrete colours of s. The end points are clamped
// to the range of the colour map so rounding cannot push them outside it.
func (s *colorScale) Palette() palette.Palette {
	c := make(colorList, s.colors)
	for i := range c {
		v := s.min + (s.max-s.min)*float64(i)/float64(s.colors-1)
		v = math.Max(s.min, math.Min(s.max, v))
		col, err := s.cmap.At(v)
		if err != nil {
			col = missingColor
		}
		c[i] = col
	}
	return c
}
