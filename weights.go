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

	"gonum.org/v1/gonum/mat"
)

// physical constants
const (
	g = 9.806 // m/s2
)

// WeightMatrix holds, for each band and level, the mass of air per unit
// area [kg/m2] that the layer around the level contributes to the band.
// Multiplying a mixing ratio [kg/kg] by the weights and summing over levels
// gives a band-integrated path [kg/m2].
type WeightMatrix struct {
	// Names are the band names. They may be nil, in which case bands
	// are named by index.
	Names []string

	m *mat.Dense // bands × levels
}

// Dims returns the number of bands and levels.
func (w *WeightMatrix) Dims() (bands, levels int) { return w.m.Dims() }

// At returns the weight of the given level in the given band.
func (w *WeightMatrix) At(band, level int) float64 { return w.m.At(band, level) }

// Band returns a copy of the weights of all levels for band i.
func (w *WeightMatrix) Band(i int) []float64 { return mat.Row(nil, i, w.m) }

// BandName returns the name of band i.
func (w *WeightMatrix) BandName(i int) string {
	if i < len(w.Names) {
		return w.Names[i]
	}
	return fmt.Sprintf("band%d", i)
}

// ComputeBandWeights calculates the weights needed to integrate a field on
// the given pressure levels over the vertical bands separated by the given
// boundaries. levels must be strictly decreasing, starting nearest the
// surface.
//
// The layer around each level extends halfway to its neighbours. The weight
// of a level in a band is the part of that layer's pressure thickness that
// falls within the band, divided by gravitational acceleration. A layer that
// straddles a boundary is split between the adjacent bands, and a layer
// outside a band contributes nothing to it.
func ComputeBandWeights(levels PressureLevels, boundaries BandBoundaries) (*WeightMatrix, error) {
	if err := levels.Validate(); err != nil {
		return nil, err
	}
	if err := boundaries.Validate(); err != nil {
		return nil, err
	}
	nb := len(boundaries) + 1
	w := mat.NewDense(nb, len(levels), nil)
	for n := range levels {
		pbot, ptop := levels.Bounds(n)
		for i := 0; i < nb; i++ {
			lower, upper := boundaries.edges(i)
			v := math.Min(pbot, lower) - math.Max(ptop, upper)
			if v < 0 {
				v = 0
			}
			w.Set(i, n, v/g)
		}
	}
	return &WeightMatrix{m: w}, nil
}
