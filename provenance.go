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
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"
)

// ProvenanceRecord describes how an output file or plot was created.
type ProvenanceRecord struct {
	ID         string    `yaml:"id"`
	Caption    string    `yaml:"caption"`
	Statistics []string  `yaml:"statistics,omitempty"`
	Domains    []string  `yaml:"domains,omitempty"`
	PlotTypes  []string  `yaml:"plot_types,omitempty"`
	Authors    []string  `yaml:"authors,omitempty"`
	References []string  `yaml:"references,omitempty"`
	Ancestors  []string  `yaml:"ancestors"`
	Software   string    `yaml:"software"`
	Created    time.Time `yaml:"created"`
}

// NewProvenanceRecord returns a record with a new random ID and the
// current time according to clock. If clock is nil, the system clock is
// used.
func NewProvenanceRecord(clock clockwork.Clock, caption string, ancestors []string) *ProvenanceRecord {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ProvenanceRecord{
		ID:        uuid.NewString(),
		Caption:   caption,
		Ancestors: append([]string(nil), ancestors...),
		Software:  "clouds " + Version,
		Created:   clock.Now().UTC(),
	}
}

// WriteYAML writes p to w in YAML format.
func (p *ProvenanceRecord) WriteYAML(w io.Writer) error {
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(p); err != nil {
		return fmt.Errorf("clouds: writing provenance: %w", err)
	}
	return e.Close()
}

// ProvenancePath returns the path of the provenance file that describes
// the file at path: the same name with the extension replaced by
// "_provenance.yml".
func ProvenancePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_provenance.yml"
}

// WriteFile writes p next to the output file at path.
func (p *ProvenanceRecord) WriteFile(path string) error {
	f, err := os.Create(ProvenancePath(path))
	if err != nil {
		return err
	}
	if err := p.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadProvenance reads a record written by WriteYAML.
func ReadProvenance(r io.Reader) (*ProvenanceRecord, error) {
	p := new(ProvenanceRecord)
	if err := yaml.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("clouds: reading provenance: %w", err)
	}
	return p, nil
}

// Attributes returns p as global NetCDF attributes.
func (p *ProvenanceRecord) Attributes() map[string]string {
	return map[string]string{
		"provenance_id": p.ID,
		"caption":       p.Caption,
		"statistics":    strings.Join(p.Statistics, ", "),
		"domains":       strings.Join(p.Domains, ", "),
		"plot_types":    strings.Join(p.PlotTypes, ", "),
		"authors":       strings.Join(p.Authors, ", "),
		"references":    strings.Join(p.References, ", "),
		"ancestors":     strings.Join(p.Ancestors, ", "),
		"software":      p.Software,
		"history":       "created " + p.Created.Format(time.RFC3339) + " by " + p.Software,
	}
}

// SetProvenance adds the attributes of p to o.
func (o *Output) SetProvenance(p *ProvenanceRecord) {
	for k, v := range p.Attributes() {
		o.SetAttribute(k, v)
	}
}
