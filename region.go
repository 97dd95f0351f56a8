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
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Region is a latitude-longitude box. Longitudes are in degrees east in
// [0, 360); a region with MinLon > MaxLon wraps around the prime meridian.
type Region struct {
	Name           string
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// regions are the named regions that can be selected by the user.
var regions = []Region{
	{Name: "Global", MinLat: -90, MaxLat: 90, MinLon: 0, MaxLon: 360},
	{Name: "Tropics", MinLat: -20, MaxLat: 20, MinLon: 0, MaxLon: 360},
	{Name: "NH extratropics", MinLat: 20, MaxLat: 90, MinLon: 0, MaxLon: 360},
	{Name: "SH extratropics", MinLat: -90, MaxLat: -20, MinLon: 0, MaxLon: 360},
	{Name: "NH", MinLat: 0, MaxLat: 90, MinLon: 0, MaxLon: 360},
	{Name: "SH", MinLat: -90, MaxLat: 0, MinLon: 0, MaxLon: 360},
	{Name: "NH mid latitudes", MinLat: 35, MaxLat: 60, MinLon: 0, MaxLon: 360},
	{Name: "SH mid latitudes", MinLat: -60, MaxLat: -35, MinLon: 0, MaxLon: 360},
	{Name: "Arctic", MinLat: 60, MaxLat: 90, MinLon: 0, MaxLon: 360},
	{Name: "Antarctic", MinLat: -90, MaxLat: -60, MinLon: 0, MaxLon: 360},
	{Name: "Equatorial", MinLat: -10, MaxLat: 10, MinLon: 0, MaxLon: 360},
}

// RegionNames returns the names of the available regions.
func RegionNames() []string {
	o := make([]string, len(regions))
	for i, r := range regions {
		o[i] = r.Name
	}
	sort.Strings(o)
	return o
}

// LookupRegion returns the region with the given name. Names are not case
// sensitive.
func LookupRegion(name string) (Region, error) {
	for _, r := range regions {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return Region{}, NewConfigError("region", "unknown region %q; valid regions are %s",
		name, strings.Join(RegionNames(), ", "))
}

// Contains returns whether the point at lat, lon [degrees] is inside r.
func (r Region) Contains(lat, lon float64) bool {
	if lat < r.MinLat || lat > r.MaxLat {
		return false
	}
	if r.MaxLon-r.MinLon >= 360 {
		return true
	}
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if r.MinLon <= r.MaxLon {
		return lon >= r.MinLon && lon <= r.MaxLon
	}
	return lon >= r.MinLon || lon <= r.MaxLon
}

// RegionValues returns the non-missing values of m that are inside r,
// along with the cosine-of-latitude area weight of each value.
func RegionValues(m *Map, r Region) (values, weights []float64) {
	nx := len(m.Lon)
	for j, lat := range m.Lat {
		w := math.Cos(lat * math.Pi / 180)
		for i, lon := range m.Lon {
			v := m.Data.Elements[j*nx+i]
			if m.Meta.IsMissing(v) || !r.Contains(lat, lon) {
				continue
			}
			values = append(values, v)
			weights = append(weights, w)
		}
	}
	return values, weights
}

// AreaMean returns the area-weighted mean of the non-missing values of m
// inside r. It returns NaN if there are no such values.
func AreaMean(m *Map, r Region) float64 {
	v, w := RegionValues(m, r)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, w)
}
