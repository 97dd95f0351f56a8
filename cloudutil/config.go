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
	"strings"

	"github.com/spatialmodel/clouds"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Settings holds the options shared by the diagnostics.
type Settings struct {
	// Metadata is the path to the file listing the input datasets.
	Metadata string

	// Reference is the name of the reference dataset. It is taken from
	// the metadata file when not set.
	Reference string

	// FilenameAdd is appended to the names of the output files.
	FilenameAdd string

	ShowDiff   bool
	RelDiff    bool
	RelDiffMin float64

	Region clouds.Region

	// Season restricts the input to one climatological season. An empty
	// value selects all time steps.
	Season string

	Levels     []float64
	DiffLevels []float64

	Bands clouds.Bands

	PDFMin, PDFMax float64
	PDFBins        int

	WorkDir, PlotDir string
}

// LoadSettings reads the diagnostic settings from cfg.
func LoadSettings(cfg *viper.Viper) (*Settings, error) {
	s := &Settings{
		Metadata:    os.ExpandEnv(cfg.GetString("metadata")),
		Reference:   cfg.GetString("reference_dataset"),
		FilenameAdd: cfg.GetString("filename_add"),
		ShowDiff:    cfg.GetBool("showdiff"),
		RelDiff:     cfg.GetBool("rel_diff"),
		Season:      strings.ToUpper(strings.TrimSpace(cfg.GetString("season"))),
	}
	if s.Season == "ANNUAL" {
		s.Season = ""
	}

	var err error
	if s.RelDiffMin, err = cast.ToFloat64E(cfg.Get("rel_diff_min")); err != nil {
		return nil, clouds.NewConfigError("rel_diff_min", "%v", err)
	}
	if s.RelDiffMin < 0 {
		return nil, clouds.NewConfigError("rel_diff_min", "must not be negative but is %g", s.RelDiffMin)
	}
	if s.Region, err = clouds.LookupRegion(cfg.GetString("region")); err != nil {
		return nil, err
	}

	floatOpts := []struct {
		name string
		dst  *[]float64
	}{
		{"explicit_cn_levels", &s.Levels},
		{"explicit_diff_levels", &s.DiffLevels},
		{"band_boundaries", (*[]float64)(&s.Bands.Boundaries)},
	}
	for _, o := range floatOpts {
		if *o.dst, err = toFloat64SliceE(cfg.Get(o.name)); err != nil {
			return nil, clouds.NewConfigError(o.name, "%v", err)
		}
	}
	for _, levels := range []struct {
		name string
		v    []float64
	}{{"explicit_cn_levels", s.Levels}, {"explicit_diff_levels", s.DiffLevels}} {
		if err := checkLevels(levels.name, levels.v); err != nil {
			return nil, err
		}
	}

	s.Bands.Names = cfg.GetStringSlice("band_names")
	if err := s.Bands.Validate(); err != nil {
		return nil, clouds.NewConfigError("band_names", "%v", err)
	}

	if s.PDFMin, err = cast.ToFloat64E(cfg.Get("pdf.xmin")); err != nil {
		return nil, clouds.NewConfigError("pdf.xmin", "%v", err)
	}
	if s.PDFMax, err = cast.ToFloat64E(cfg.Get("pdf.xmax")); err != nil {
		return nil, clouds.NewConfigError("pdf.xmax", "%v", err)
	}
	if s.PDFBins, err = cast.ToIntE(cfg.Get("pdf.nbins")); err != nil {
		return nil, clouds.NewConfigError("pdf.nbins", "%v", err)
	}
	if _, err = clouds.Bins(s.PDFMin, s.PDFMax, s.PDFBins); err != nil {
		return nil, err
	}

	if s.WorkDir, err = checkOutputDir(cfg.GetString("work_dir")); err != nil {
		return nil, clouds.NewConfigError("work_dir", "%v", err)
	}
	if s.PlotDir, err = checkOutputDir(cfg.GetString("plot_dir")); err != nil {
		return nil, clouds.NewConfigError("plot_dir", "%v", err)
	}
	return s, nil
}

// checkLevels makes sure explicit contour levels are increasing.
func checkLevels(name string, levels []float64) error {
	if len(levels) == 1 {
		return clouds.NewConfigError(name, "need at least two levels but have one")
	}
	for i := 1; i < len(levels); i++ {
		if !(levels[i] > levels[i-1]) {
			return clouds.NewConfigError(name, "levels must be increasing but have %v", levels)
		}
	}
	return nil
}

// toFloat64SliceE converts a configuration value to a slice of numbers.
// Values set from the command line arrive as strings such as
// "[1.000000,2.000000]".
func toFloat64SliceE(v interface{}) ([]float64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []float64:
		return t, nil
	case string:
		t = strings.TrimSpace(t)
		t = strings.TrimSuffix(strings.TrimPrefix(t, "["), "]")
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		return toFloat64SliceE(strings.Split(t, ","))
	case []string:
		o := make([]float64, len(t))
		for i, s := range t {
			var err error
			if o[i], err = cast.ToFloat64E(strings.TrimSpace(s)); err != nil {
				return nil, err
			}
		}
		return o, nil
	default:
		s, err := cast.ToSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %#v to a list of numbers", v)
		}
		o := make([]float64, len(s))
		for i, e := range s {
			if o[i], err = cast.ToFloat64E(e); err != nil {
				return nil, err
			}
		}
		return o, nil
	}
}

// checkOutputDir expands any environment variables in dir and creates it
// if it does not exist.
func checkOutputDir(dir string) (string, error) {
	dir = os.ExpandEnv(dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dir, err
	}
	return filepath.Clean(dir), nil
}

// outputName returns the base name of the files written by a diagnostic.
func (s *Settings) outputName(diagnostic, variable string) string {
	return clouds.VarName("clouds", diagnostic, variable, s.FilenameAdd)
}
