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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrderNames(t *testing.T) {
	tests := []struct {
		name      string
		in        []string
		reference string
		isObs     func(string) bool
		want      []string
	}{
		{
			name:      "reference in the middle",
			in:        []string{"ModelA", "ESACCI-CLOUD", "ModelB"},
			reference: "ESACCI-CLOUD",
			want:      []string{"ESACCI-CLOUD", "ModelA", "ModelB"},
		},
		{
			name:      "observations next",
			in:        []string{"ModelA", "MODIS", "ModelB", "ESACCI-CLOUD", "CLARA-AVHRR"},
			reference: "ESACCI-CLOUD",
			isObs:     func(s string) bool { return strings.ToUpper(s) == s },
			want:      []string{"ESACCI-CLOUD", "MODIS", "CLARA-AVHRR", "ModelA", "ModelB"},
		},
		{
			name:      "no reference",
			in:        []string{"ModelB", "ModelA"},
			reference: "ESACCI-CLOUD",
			want:      []string{"ModelB", "ModelA"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have := OrderNames(test.in, test.reference, test.isObs)
			if diff := cmp.Diff(test.want, have); diff != "" {
				t.Errorf("(-want +have):\n%s", diff)
			}
		})
	}
}

func TestOrderReferenceFirst(t *testing.T) {
	in := []Dataset{
		{Dataset: "ModelA", Project: "CMIP6"},
		{Dataset: "CLARA-AVHRR", Project: "OBS"},
		{Dataset: "ModelB", Project: "CMIP6"},
		{Dataset: "ESACCI-CLOUD", Project: "OBS"},
	}
	have := OrderReferenceFirst(in, "ESACCI-CLOUD", IsObservation)
	var names []string
	for _, d := range have {
		names = append(names, d.Name())
	}
	want := []string{"ESACCI-CLOUD", "CLARA-AVHRR", "ModelA", "ModelB"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("(-want +have):\n%s", diff)
	}
	if in[0].Dataset != "ModelA" {
		t.Error("input was modified")
	}
	if i := FindReference(have, "ESACCI-CLOUD"); i != 0 {
		t.Errorf("reference index: have %d, want 0", i)
	}
	if i := FindReference(have, "ISCCP"); i != -1 {
		t.Errorf("missing reference index: have %d, want -1", i)
	}
}

func TestIsObservation(t *testing.T) {
	tests := map[string]bool{
		"OBS":      true,
		"OBS6":     true,
		"obs4mips": true,
		"ana4mips": true,
		"native6":  true,
		"CMIP6":    false,
		"":         false,
	}
	for project, want := range tests {
		if have := IsObservation(Dataset{Project: project}); have != want {
			t.Errorf("%q: have %v, want %v", project, have, want)
		}
	}
}

func TestUniqueNames(t *testing.T) {
	in := []Dataset{
		{Dataset: "ESACCI-CLOUD", Project: "OBS"},
		{Dataset: "ModelA", Exp: "historical", Ensemble: "r1i1p1f1"},
		{Dataset: "ModelA", Exp: "historical", Ensemble: "r2i1p1f1"},
		{Dataset: "ModelA", Alias: "ModelA-amip", Exp: "amip", Ensemble: "r1i1p1f1"},
		{Dataset: "ModelB"},
		{Dataset: "ModelB"},
	}
	want := []string{
		"ESACCI-CLOUD",
		"ModelA_historical_r1i1p1f1",
		"ModelA_historical_r2i1p1f1",
		"ModelA-amip",
		"ModelB",
		"ModelB_2",
	}
	if diff := cmp.Diff(want, UniqueNames(in)); diff != "" {
		t.Errorf("(-want +have):\n%s", diff)
	}
}
