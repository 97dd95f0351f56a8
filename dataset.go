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
	"strings"
)

// Dataset describes one input file.
type Dataset struct {
	Alias            string `yaml:"alias,omitempty"`
	Dataset          string `yaml:"dataset"`
	Project          string `yaml:"project,omitempty"`
	ShortName        string `yaml:"short_name"`
	LongName         string `yaml:"long_name,omitempty"`
	Units            string `yaml:"units,omitempty"`
	Filename         string `yaml:"filename"`
	Exp              string `yaml:"exp,omitempty"`
	Ensemble         string `yaml:"ensemble,omitempty"`
	StartYear        int    `yaml:"start_year,omitempty"`
	EndYear          int    `yaml:"end_year,omitempty"`
	ReferenceDataset string `yaml:"reference_dataset,omitempty"`
	VariableGroup    string `yaml:"variable_group,omitempty"`
}

// Name returns the name used to label d in plots and output files.
func (d Dataset) Name() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Dataset
}

// UniqueNames returns a label for each dataset that is distinct once made
// into a variable name. Datasets that share a name and have no alias are
// told apart by their experiment and ensemble member. Any that still
// clash get a numeric suffix.
func UniqueNames(datasets []Dataset) []string {
	names := make([]string, len(datasets))
	count := make(map[string]int)
	for i, d := range datasets {
		names[i] = d.Name()
		count[VarName(names[i])]++
	}
	for i, d := range datasets {
		if d.Alias != "" || count[VarName(names[i])] < 2 {
			continue
		}
		names[i] = VarName(d.Dataset, d.Exp, d.Ensemble)
	}
	taken := make(map[string]bool)
	for i, n := range names {
		for k := 2; taken[VarName(names[i])]; k++ {
			names[i] = fmt.Sprintf("%s_%d", n, k)
		}
		taken[VarName(names[i])] = true
	}
	return names
}

// observationProjects are the prefixes of projects that hold observations
// or reanalyses rather than model output.
var observationProjects = []string{"obs", "ana4mips", "native6"}

// IsObservation returns whether d holds observational data.
func IsObservation(d Dataset) bool {
	p := strings.ToLower(d.Project)
	for _, o := range observationProjects {
		if strings.HasPrefix(p, o) {
			return true
		}
	}
	return false
}

// Years returns the period covered by d, for example "1986-2005".
func (d Dataset) Years() string {
	if d.StartYear == 0 && d.EndYear == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", d.StartYear, d.EndYear)
}
