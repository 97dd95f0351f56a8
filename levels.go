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
	"strings"
)

// PressureLevels are the pressures [Pa] of the vertical levels of a field,
// ordered from the level nearest the surface to the top of the atmosphere.
type PressureLevels []float64

// Validate checks that there are at least two levels and that they are
// finite and strictly decreasing.
func (p PressureLevels) Validate() error {
	if len(p) < 2 {
		return invalidInput("pressure levels", "need at least 2 levels but have %d", len(p))
	}
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidInput("pressure levels", "level %d is not finite (%g)", i, v)
		}
		if i > 0 && !(v < p[i-1]) {
			return invalidInput("pressure levels",
				"levels must be strictly decreasing but level %d (%g Pa) >= level %d (%g Pa)",
				i, v, i-1, p[i-1])
		}
	}
	return nil
}

// Bounds returns the pressures at the bottom and top edges of the layer
// represented by level n. Interior edges are the midpoints between
// neighbouring levels. The outermost edges are extrapolated by half the
// distance to the adjacent level, so the top edge of a coarse top level
// may fall below 0 Pa.
func (p PressureLevels) Bounds(n int) (pbot, ptop float64) {
	last := len(p) - 1
	if n == 0 {
		pbot = p[0] + (p[0]-p[1])/2
	} else {
		pbot = (p[n] + p[n-1]) / 2
	}
	if n == last {
		ptop = p[n] - (p[n-1]-p[n])/2
	} else {
		ptop = (p[n] + p[n+1]) / 2
	}
	return pbot, ptop
}

// Thickness returns the pressure thickness [Pa] of the layer represented by
// level n.
func (p PressureLevels) Thickness(n int) float64 {
	pbot, ptop := p.Bounds(n)
	return pbot - ptop
}

// BandBoundaries are the pressures [Pa] that separate adjacent vertical
// bands, ordered from high to low pressure. N-1 boundaries make N bands.
type BandBoundaries []float64

// Validate checks that there is at least one boundary and that the
// boundaries are positive, finite and strictly decreasing.
func (b BandBoundaries) Validate() error {
	if len(b) == 0 {
		return invalidInput("band boundaries", "need at least one boundary")
	}
	for i, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return invalidInput("band boundaries", "boundary %d must be a positive pressure but is %g", i, v)
		}
		if i > 0 && !(v < b[i-1]) {
			return invalidInput("band boundaries",
				"boundaries must be strictly decreasing but boundary %d (%g Pa) >= boundary %d (%g Pa)",
				i, v, i-1, b[i-1])
		}
	}
	return nil
}

// edges returns the pressure at the bottom (lower) and top (upper) edges of
// band i. The lowest band has no lower edge and the highest band no upper
// edge, so the extrapolated half-layers at either end of the column are
// counted in full.
func (b BandBoundaries) edges(i int) (lower, upper float64) {
	lower, upper = math.Inf(1), math.Inf(-1)
	if i > 0 {
		lower = b[i-1]
	}
	if i < len(b) {
		upper = b[i]
	}
	return lower, upper
}

// Bands pairs the names of vertical bands with the pressures that separate
// them.
type Bands struct {
	Names      []string
	Boundaries BandBoundaries
}

// DefaultBands are the low, middle and high cloud bands of the ISCCP
// cloud-top pressure classification.
var DefaultBands = Bands{
	Names:      []string{"low", "mid", "high"},
	Boundaries: BandBoundaries{68000, 44000},
}

// Validate checks that there is exactly one more name than boundaries, that
// names are unique and non-empty, and that the boundaries are valid.
func (b Bands) Validate() error {
	if len(b.Names) != len(b.Boundaries)+1 {
		return invalidInput("bands", "%d band names need %d boundaries but have %d",
			len(b.Names), len(b.Names)-1, len(b.Boundaries))
	}
	seen := make(map[string]bool)
	for _, n := range b.Names {
		n = strings.TrimSpace(n)
		if n == "" {
			return invalidInput("bands", "band names must not be empty")
		}
		if seen[n] {
			return invalidInput("bands", "band name %q is repeated", n)
		}
		seen[n] = true
	}
	return b.Boundaries.Validate()
}

// Weights returns the band weights for the given levels, labelled with the
// band names.
func (b Bands) Weights(levels PressureLevels) (*WeightMatrix, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	w, err := ComputeBandWeights(levels, b.Boundaries)
	if err != nil {
		return nil, err
	}
	w.Names = append([]string(nil), b.Names...)
	return w, nil
}
