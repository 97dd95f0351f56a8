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
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/clouds"
	"github.com/spatialmodel/clouds/cloudplot"
)

// PDF computes, for each dataset, the distribution of the time-mean
// values of its variable within the configured region. Distributions are
// written to a NetCDF file and plotted with the reference dataset first.
// With showdiff set, the difference between each distribution and that
// of the reference is also written.
func PDF(s *Settings, datasets []clouds.Dataset) error {
	log := Log.WithField("diagnostic", "pdf")
	bins, err := clouds.Bins(s.PDFMin, s.PDFMax, s.PDFBins)
	if err != nil {
		return err
	}
	datasets = clouds.OrderReferenceFirst(datasets, s.Reference, clouds.IsObservation)
	iref, err := checkReference(s, datasets, log)
	if err != nil {
		return err
	}

	labels := clouds.UniqueNames(datasets)
	series := make([]cloudplot.Series, len(datasets))
	metas := make([]clouds.Metadata, len(datasets))
	ancestors := make([]string, len(datasets))
	for i, d := range datasets {
		dlog := log.WithFields(logrus.Fields{"dataset": labels[i], "variable": d.ShortName})
		f, err := readMean(d, s.Season)
		if err != nil {
			return fmt.Errorf("cloudutil: pdf: dataset %s: %w", labels[i], err)
		}
		m, err := f.Map()
		if err != nil {
			return fmt.Errorf("cloudutil: pdf: dataset %s: %w", labels[i], err)
		}
		p, err := clouds.MapPDF(m, s.Region, bins)
		if err != nil {
			return fmt.Errorf("cloudutil: pdf: dataset %s: %w", labels[i], err)
		}
		if p.Below > 0 || p.Above > 0 {
			dlog.Warnf("%d of %d values are below %g and %d are above %g", p.Below, p.Samples, s.PDFMin, p.Above, s.PDFMax)
		}
		dlog.Infof("binned %d values in %s", p.Samples, s.Region.Name)
		series[i] = cloudplot.Series{Name: labels[i], PDF: p}
		metas[i] = m.Meta
		ancestors[i] = d.Filename
	}

	variable := datasets[0].ShortName
	base := s.outputName("pdf", variable)
	o := clouds.NewOutput()
	for i, sr := range series {
		meta := metas[i]
		meta.LongName = fmt.Sprintf("frequency distribution of %s", metas[i].ShortName)
		if err := o.AddPDF(clouds.VarName(sr.Name, variable, "pdf"), meta, sr.PDF); err != nil {
			return fmt.Errorf("cloudutil: pdf: %w", err)
		}
		if i == iref || iref < 0 || !s.ShowDiff {
			continue
		}
		d, err := clouds.PDFDifference(sr.PDF, series[iref].PDF)
		if err != nil {
			return fmt.Errorf("cloudutil: pdf: %w", err)
		}
		meta.LongName = fmt.Sprintf("difference in frequency distribution of %s to %s", metas[i].ShortName, series[iref].Name)
		if err := o.AddPDF(clouds.VarName(sr.Name, variable, "pdf", "diff"), meta, d); err != nil {
			return fmt.Errorf("cloudutil: pdf: %w", err)
		}
	}

	caption := fmt.Sprintf("Frequency distribution of %s over %s for datasets %v.",
		metas[0].ShortName, s.Region.Name, datasetNames(series))
	p := clouds.NewProvenanceRecord(Clock, caption, ancestors)
	p.Statistics = []string{"other"}
	if s.ShowDiff && iref >= 0 {
		p.Statistics = append(p.Statistics, "diff")
	}
	p.Domains = []string{s.Region.Name}
	p.PlotTypes = []string{"line"}
	o.SetProvenance(p)

	ncPath := filepath.Join(s.WorkDir, base+".nc")
	if err := o.WriteFile(ncPath); err != nil {
		return fmt.Errorf("cloudutil: pdf: writing %s: %w", ncPath, err)
	}
	if err := p.WriteFile(ncPath); err != nil {
		return fmt.Errorf("cloudutil: pdf: %w", err)
	}
	log.WithField("file", ncPath).Info("wrote distributions")

	xLabel := metas[0].LongName
	if xLabel == "" {
		xLabel = metas[0].ShortName
	}
	if metas[0].Units != "" {
		xLabel += " (" + metas[0].Units + ")"
	}
	plotPath := filepath.Join(s.PlotDir, base+".png")
	err = cloudplot.SaveFile(plotPath, func(w io.Writer) error {
		return cloudplot.PDFPlot(w, series, xLabel, cloudplot.Options{Title: s.Region.Name})
	})
	if err != nil {
		return err
	}
	log.WithField("file", plotPath).Info("wrote plot")
	return nil
}

func datasetNames(series []cloudplot.Series) []string {
	o := make([]string, len(series))
	for i, s := range series {
		o[i] = s.Name
	}
	return o
}
