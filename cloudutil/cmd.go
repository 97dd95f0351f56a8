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

// Package cloudutil holds the command-line interface to the cloud
// diagnostics.
package cloudutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/clouds"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives progress messages and warnings.
var Log = logrus.StandardLogger()

// Clock sets the creation time recorded in provenance.
var Clock clockwork.Clock = clockwork.NewRealClock()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	diagnostics := func() []*pflag.FlagSet {
		return []*pflag.FlagSet{li3levelCmd.Flags(), pdfCmd.Flags(), configCmd.Flags()}
	}

	// Options are the configuration options available to the diagnostics.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log_level",
			usage: `
              log_level sets the least severe level of message that is logged:
              one of debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "metadata",
			usage: `
              metadata specifies the YAML file listing the input datasets. It
              maps each input file name to attributes including dataset,
              project and short_name.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   diagnostics(),
		},
		{
			name: "reference_dataset",
			usage: `
              reference_dataset is the name of the dataset that others are
              compared against. If empty, the reference_dataset attribute in
              the metadata file is used.`,
			defaultVal: "",
			flagsets:   diagnostics(),
		},
		{
			name: "filename_add",
			usage: `
              filename_add is appended to the names of the output files.`,
			defaultVal: "",
			flagsets:   diagnostics(),
		},
		{
			name: "showdiff",
			usage: `
              showdiff specifies whether to compute and plot differences
              between each dataset and the reference dataset.`,
			defaultVal: false,
			flagsets:   diagnostics(),
		},
		{
			name: "rel_diff",
			usage: `
              rel_diff specifies whether differences should be relative to the
              reference, in percent.`,
			defaultVal: false,
			flagsets:   diagnostics(),
		},
		{
			name: "rel_diff_min",
			usage: `
              rel_diff_min is the smallest magnitude of the reference for which
              relative differences are computed. Smaller reference values give
              missing relative differences.`,
			defaultVal: 0.0,
			flagsets:   diagnostics(),
		},
		{
			name: "region",
			usage: `
              region selects the area over which statistics and distributions
              are computed. Valid regions are ` + strings.Join(clouds.RegionNames(), ", ") + `.`,
			defaultVal: "Global",
			flagsets:   diagnostics(),
		},
		{
			name: "season",
			usage: `
              season restricts the input to one climatological season: DJF,
              MAM, JJA or SON. The default uses all time steps.`,
			defaultVal: "annual",
			flagsets:   diagnostics(),
		},
		{
			name: "explicit_cn_levels",
			usage: `
              explicit_cn_levels fixes the colour scale of map plots. The first
              and last levels set the range of the scale.`,
			defaultVal: []float64{},
			flagsets:   diagnostics(),
		},
		{
			name: "explicit_diff_levels",
			usage: `
              explicit_diff_levels fixes the colour scale of difference plots.`,
			defaultVal: []float64{},
			flagsets:   diagnostics(),
		},
		{
			name: "band_names",
			usage: `
              band_names are the names of the vertical bands, from the surface
              upwards.`,
			defaultVal: append([]string(nil), clouds.DefaultBands.Names...),
			flagsets:   diagnostics(),
		},
		{
			name: "band_boundaries",
			usage: `
              band_boundaries are the pressures in Pa that separate the vertical
              bands, in decreasing order (highest pressure first), for example
              68000,44000. There must be one fewer boundary than band names.`,
			defaultVal: append([]float64(nil), clouds.DefaultBands.Boundaries...),
			flagsets:   diagnostics(),
		},
		{
			name: "pdf.xmin",
			usage: `
              pdf.xmin is the lower edge of the first distribution bin.`,
			defaultVal: 0.0,
			flagsets:   diagnostics(),
		},
		{
			name: "pdf.xmax",
			usage: `
              pdf.xmax is the upper edge of the last distribution bin.`,
			defaultVal: 100.0,
			flagsets:   diagnostics(),
		},
		{
			name: "pdf.nbins",
			usage: `
              pdf.nbins is the number of distribution bins.`,
			defaultVal: 20,
			flagsets:   diagnostics(),
		},
		{
			name: "work_dir",
			usage: `
              work_dir is the directory that NetCDF, statistics and provenance
              files are written to.`,
			defaultVal: ".",
			flagsets:   diagnostics(),
		},
		{
			name: "plot_dir",
			usage: `
              plot_dir is the directory that plots are written to.`,
			defaultVal: ".",
			flagsets:   diagnostics(),
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CLOUDS")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case []float64:
				set.Float64SliceP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(li3levelCmd)
	Root.AddCommand(pdfCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("clouds: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("log_level"))
	if err != nil {
		return clouds.NewConfigError("log_level", "%v", err)
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "clouds",
	Short: "Cloud diagnostics for climate model evaluation.",
	Long: `clouds computes cloud diagnostics from climate model output and
observations: vertically integrated cloud water in low, middle and high
bands, and distributions of cloud quantities. Each dataset is compared
against a reference dataset, which is listed first in plots and output.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CLOUDS_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of clouds.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("clouds v%s\n", clouds.Version)
	},
	DisableAutoGenTag: true,
}

var li3levelCmd = &cobra.Command{
	Use:   "li3level",
	Short: "Integrate cloud water over vertical bands.",
	Long: `li3level integrates cloud liquid or ice water content over the low,
middle and high bands of the atmosphere, giving a water path in kg m-2 for each
band and dataset. With --showdiff, each dataset is also compared against the
reference dataset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, datasets, err := loadInputs()
		if err != nil {
			return err
		}
		return LI3Level(s, datasets)
	},
	DisableAutoGenTag: true,
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Compute distributions of a cloud quantity.",
	Long: `pdf bins the time-mean values of a cloud quantity within the selected
region, giving the percentage of grid cells in each bin for each dataset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, datasets, err := loadInputs()
		if err != nil {
			return err
		}
		return PDF(s, datasets)
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long:  "config prints the configuration that the diagnostics would use, in TOML format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(ConfigMap(Cfg))
	},
	DisableAutoGenTag: true,
}

func loadInputs() (*Settings, []clouds.Dataset, error) {
	s, err := LoadSettings(Cfg)
	if err != nil {
		return nil, nil, err
	}
	datasets, err := LoadMetadata(s.Metadata)
	if err != nil {
		return nil, nil, err
	}
	s.Reference = referenceName(s.Reference, datasets)
	return s, datasets, nil
}

// ConfigMap returns the values of all options, with dotted option
// names expanded into nested tables.
func ConfigMap(cfg *viper.Viper) map[string]interface{} {
	o := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		v := cfg.Get(option.name)
		switch option.defaultVal.(type) {
		case []float64:
			if f, err := toFloat64SliceE(v); err == nil {
				v = append([]float64{}, f...)
			}
		case []string:
			v = cast.ToStringSlice(v)
		}
		m := o
		parts := strings.Split(option.name, ".")
		for _, p := range parts[:len(parts)-1] {
			sub, ok := m[p].(map[string]interface{})
			if !ok {
				sub = make(map[string]interface{})
				m[p] = sub
			}
			m = sub
		}
		m[parts[len(parts)-1]] = v
	}
	return o
}
