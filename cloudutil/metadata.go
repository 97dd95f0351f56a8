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

package cloudutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spatialmodel/clouds"
	"gopkg.in/yaml.v3"
)

// LoadMetadata reads the list of input datasets from a YAML file that
// maps each input file name to its dataset attributes. Datasets are
// returned in file order. Relative file names are taken relative to the
// directory holding the metadata file.
func LoadMetadata(path string) ([]clouds.Dataset, error) {
	if path == "" {
		return nil, clouds.NewConfigError("metadata", "no metadata file specified")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cloudutil: opening metadata: %w", err)
	}
	defer f.Close()

	var doc yaml.Node
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cloudutil: reading metadata %s: %w", path, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("cloudutil: metadata %s must map file names to dataset attributes", path)
	}
	root := doc.Content[0]

	dir := filepath.Dir(path)
	var datasets []clouds.Dataset
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var d clouds.Dataset
		if err := val.Decode(&d); err != nil {
			return nil, fmt.Errorf("cloudutil: metadata entry %s: %w", key.Value, err)
		}
		if d.Filename == "" {
			d.Filename = key.Value
		}
		d.Filename = os.ExpandEnv(d.Filename)
		if !filepath.IsAbs(d.Filename) {
			d.Filename = filepath.Join(dir, d.Filename)
		}
		if d.Dataset == "" {
			return nil, fmt.Errorf("cloudutil: metadata entry %s has no dataset name", key.Value)
		}
		if d.ShortName == "" {
			return nil, fmt.Errorf("cloudutil: metadata entry %s has no short_name", key.Value)
		}
		datasets = append(datasets, d)
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("cloudutil: metadata %s lists no datasets", path)
	}
	return datasets, nil
}

// WriteMetadata writes datasets in the format read by LoadMetadata.
func WriteMetadata(path string, datasets []clouds.Dataset) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, d := range datasets {
		var val yaml.Node
		if err := val.Encode(d); err != nil {
			return err
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: d.Filename}, &val)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	e := yaml.NewEncoder(f)
	e.SetIndent(2)
	if err := e.Encode(root); err != nil {
		f.Close()
		return err
	}
	if err := e.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// referenceName returns the configured reference dataset, or the first
// reference_dataset attribute in datasets if none is configured.
func referenceName(configured string, datasets []clouds.Dataset) string {
	if configured != "" {
		return configured
	}
	for _, d := range datasets {
		if d.ReferenceDataset != "" {
			return d.ReferenceDataset
		}
	}
	return ""
}
