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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/clouds"
	"github.com/spatialmodel/clouds/cloudplot"
)

// readMean reads the variable of d, restricted to season if one is given,
// and averages it over time.
func readMean(d clouds.Dataset, season string) (*clouds.Field, error) {
	f, err := clouds.ReadField(d.Filename, d.ShortName)
	if err != nil {
		return nil, err
	}
	if season != "" {
		if f, err = clouds.SelectSeason(f, season); err != nil {
			return nil, err
		}
	}
	return clouds.TimeMean(f)
}

// checkReference returns the index of the reference dataset in datasets,
// or -1 if there is none. A missing reference is an error only when
// differences are requested.
func checkReference(s *Settings, datasets []clouds.Dataset, log logrus.FieldLogger) (int, error) {
	iref := clouds.FindReference(datasets, s.Reference)
	if iref >= 0 {
		return iref, nil
	}
	if s.ShowDiff || s.RelDiff {
		return -1, clouds.NewConfigError("reference_dataset",
			"reference dataset %q not found but differences are requested", s.Reference)
	}
	if s.Reference != "" {
		log.Warnf("reference dataset %q not found; skipping comparisons", s.Reference)
	}
	return -1, nil
}

// statsRow is one line of the statistics table.
type statsRow struct {
	dataset, reference, band, region string
	clouds.Statistics
}

// writeStats writes the statistics table in CSV format.
func writeStats(w io.Writer, rows []statsRow) error {
	c := csv.NewWriter(w)
	if err := c.Write([]string{"dataset", "reference", "band", "region", "bias", "rmsd", "correlation"}); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
	for _, r := range rows {
		rec := []string{r.dataset, r.reference, r.band, r.region, f(r.Bias), f(r.RMSD), f(r.Correlation)}
		if err := c.Write(rec); err != nil {
			return err
		}
	}
	c.Flush()
	return c.Error()
}

// LI3Level integrates the 3-D cloud water content of each dataset over the
// configured vertical bands. The reference dataset is processed first.
// Band integrals are written to a NetCDF file along with a provenance
// record and a panel plot with one row per dataset. When a reference
// dataset is available, each other dataset is compared against it and
// the statistics are written to a CSV file; with showdiff or rel_diff set
// the difference maps are also written and plotted.
func LI3Level(s *Settings, datasets []clouds.Dataset) error {
	log := Log.WithField("diagnostic", "li3level")
	datasets = clouds.OrderReferenceFirst(datasets, s.Reference, clouds.IsObservation)
	iref, err := checkReference(s, datasets, log)
	if err != nil {
		return err
	}

	names := clouds.UniqueNames(datasets)
	fields := make([]*clouds.BandField, len(datasets))
	ancestors := make([]string, len(datasets))
	for i, d := range datasets {
		dlog := log.WithFields(logrus.Fields{"dataset": names[i], "variable": d.ShortName})
		dlog.Info("integrating bands")
		f, err := readMean(d, s.Season)
		if err != nil {
			return fmt.Errorf("cloudutil: li3level: dataset %s: %w", names[i], err)
		}
		w, err := s.Bands.Weights(f.Levels)
		if err != nil {
			return fmt.Errorf("cloudutil: li3level: dataset %s: %w", names[i], err)
		}
		b, err := clouds.IntegrateBands(f, w)
		if err != nil {
			return fmt.Errorf("cloudutil: li3level: dataset %s: %w", names[i], err)
		}
		for j, band := range b.Names {
			dlog.WithField("band", band).Infof("%s mean: %g %s", s.Region.Name, clouds.AreaMean(b.Map(j), s.Region), b.Meta.Units)
		}
		fields[i], ancestors[i] = b, d.Filename
	}

	variable := datasets[0].ShortName
	base := s.outputName("li3level", variable)
	o := clouds.NewOutput()
	for i, b := range fields {
		if _, err := o.AddBandField(clouds.VarName(names[i]), b); err != nil {
			return fmt.Errorf("cloudutil: li3level: %w", err)
		}
	}

	var stats []statsRow
	var diffNames []string
	var diffMaps [][]*clouds.Map
	if iref >= 0 {
		ref := fields[iref]
		for i, b := range fields {
			if i == iref {
				continue
			}
			var row []*clouds.Map
			for j, band := range b.Names {
				model, refMap := b.Map(j), ref.Map(j)
				st, err := clouds.Compare(model, refMap, s.Region)
				var gridErr *clouds.GridMismatchError
				if errors.As(err, &gridErr) && !s.ShowDiff && !s.RelDiff {
					log.WithField("dataset", names[i]).Warnf("skipping comparison: %v", err)
					break
				} else if err != nil {
					return fmt.Errorf("cloudutil: li3level: comparing %s to %s: %w", names[i], names[iref], err)
				}
				log.WithFields(logrus.Fields{"dataset": names[i], "band": band}).Infof(
					"bias %g, rmsd %g, correlation %g", st.Bias, st.RMSD, st.Correlation)
				stats = append(stats, statsRow{dataset: names[i], reference: names[iref], band: band,
					region: s.Region.Name, Statistics: st})

				if !s.ShowDiff && !s.RelDiff {
					continue
				}
				var d *clouds.Map
				if s.RelDiff {
					d, err = clouds.RelativeDifference(model, refMap, s.RelDiffMin)
				} else {
					d, err = clouds.Difference(model, refMap)
				}
				if err != nil {
					return fmt.Errorf("cloudutil: li3level: difference of %s and %s: %w", names[i], names[iref], err)
				}
				if _, err := o.AddMap(clouds.VarName(names[i]), d); err != nil {
					return fmt.Errorf("cloudutil: li3level: %w", err)
				}
				row = append(row, d)
			}
			if row != nil {
				diffNames = append(diffNames, names[i]+" - "+names[iref])
				diffMaps = append(diffMaps, row)
			}
		}
	}

	caption := fmt.Sprintf("%s integrated over %v bands of datasets %v.", fields[0].Meta.LongName, fields[0].Names, names)
	p := clouds.NewProvenanceRecord(Clock, caption, ancestors)
	p.Statistics = []string{"mean"}
	if iref >= 0 {
		p.Statistics = append(p.Statistics, "bias", "rmsd", "corr")
	}
	if s.ShowDiff || s.RelDiff {
		p.Statistics = append(p.Statistics, "diff")
	}
	p.Domains = []string{s.Region.Name}
	p.PlotTypes = []string{"geo"}
	o.SetProvenance(p)

	ncPath := filepath.Join(s.WorkDir, base+".nc")
	if err := o.WriteFile(ncPath); err != nil {
		return fmt.Errorf("cloudutil: li3level: writing %s: %w", ncPath, err)
	}
	if err := p.WriteFile(ncPath); err != nil {
		return fmt.Errorf("cloudutil: li3level: %w", err)
	}
	log.WithField("file", ncPath).Info("wrote band integrals")

	plotPath := filepath.Join(s.PlotDir, base+".png")
	err = cloudplot.SaveFile(plotPath, func(w io.Writer) error {
		return cloudplot.BandPanels(w, names, fields, cloudplot.Options{
			Title:  fields[0].Meta.LongName,
			Levels: s.Levels,
		})
	})
	if err != nil {
		return err
	}
	log.WithField("file", plotPath).Info("wrote plot")

	if len(diffMaps) > 0 {
		diffPath := filepath.Join(s.PlotDir, base+"_diff.png")
		err = cloudplot.SaveFile(diffPath, func(w io.Writer) error {
			return cloudplot.MapPanels(w, diffNames, fields[0].Names, diffMaps, cloudplot.Options{
				Title:     "Difference to " + names[iref],
				Levels:    s.DiffLevels,
				Diverging: true,
			})
		})
		if err != nil {
			return err
		}
		log.WithField("file", diffPath).Info("wrote difference plot")
	}

	if len(stats) > 0 {
		statsPath := filepath.Join(s.WorkDir, base+"_stats.csv")
		f, err := os.Create(statsPath)
		if err != nil {
			return err
		}
		if err := writeStats(f, stats); err != nil {
			f.Close()
			return fmt.Errorf("cloudutil: li3level: writing %s: %w", statsPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.WithField("file", statsPath).Info("wrote statistics")
	}
	return nil
}
