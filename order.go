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

// OrderReferenceFirst returns a copy of datasets reordered so that the
// reference dataset comes first, followed by the other datasets for which
// isObs returns true and then the remaining datasets. Datasets keep their
// original order within each group. isObs may be nil, in which case only
// the reference is moved.
func OrderReferenceFirst(datasets []Dataset, reference string, isObs func(Dataset) bool) []Dataset {
	var ref, obs, models []Dataset
	for _, d := range datasets {
		switch {
		case reference != "" && (d.Dataset == reference || d.Alias == reference):
			ref = append(ref, d)
		case isObs != nil && isObs(d):
			obs = append(obs, d)
		default:
			models = append(models, d)
		}
	}
	o := make([]Dataset, 0, len(datasets))
	o = append(o, ref...)
	o = append(o, obs...)
	return append(o, models...)
}

// OrderNames is like OrderReferenceFirst for a list of dataset names.
func OrderNames(names []string, reference string, isObs func(string) bool) []string {
	var ref, obs, models []string
	for _, n := range names {
		switch {
		case reference != "" && n == reference:
			ref = append(ref, n)
		case isObs != nil && isObs(n):
			obs = append(obs, n)
		default:
			models = append(models, n)
		}
	}
	o := make([]string, 0, len(names))
	o = append(o, ref...)
	o = append(o, obs...)
	return append(o, models...)
}

// FindReference returns the index of the reference dataset in datasets,
// or -1 if it is not present.
func FindReference(datasets []Dataset, reference string) int {
	if reference == "" {
		return -1
	}
	for i, d := range datasets {
		if d.Dataset == reference || d.Alias == reference {
			return i
		}
	}
	return -1
}
