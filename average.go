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
	"math"
	"strings"
	"time"

	"github.com/ctessum/sparse"
)

// NextData is a type of function that returns data for the next time step.
// If there are no more time steps, it should return the io.EOF error.
type NextData func() (*sparse.DenseArray, error)

// Steps returns a NextData that walks through the time steps of f.
// If f has no time dimension, the whole field is returned as a single
// step.
func (f *Field) Steps() NextData {
	if f.Time == nil {
		done := false
		return func() (*sparse.DenseArray, error) {
			if done {
				return nil, io.EOF
			}
			done = true
			return f.Data, nil
		}
	}
	shape := f.Data.Shape[1:]
	n := len(f.Data.Elements) / len(f.Time)
	var t int
	return func() (*sparse.DenseArray, error) {
		if t >= len(f.Time) {
			return nil, io.EOF
		}
		step := sparse.ZerosDense(shape...)
		copy(step.Elements, f.Data.Elements[t*n:(t+1)*n])
		t++
		return step, nil
	}
}

// Average calculates the arithmetic mean of the arrays returned by dataFunc.
// Missing (NaN) values are left out of the mean; a cell that is missing in
// every array is missing in the result.
func Average(dataFunc NextData) (*sparse.DenseArray, error) {
	var sum *sparse.DenseArray
	var count []int
	for {
		data, err := dataFunc()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if sum == nil {
			sum = sparse.ZerosDense(data.Shape...)
			count = make([]int, len(data.Elements))
		} else if len(data.Elements) != len(sum.Elements) {
			return nil, invalidInput("average", "time step has %d values but previous steps have %d",
				len(data.Elements), len(sum.Elements))
		}
		for i, v := range data.Elements {
			if math.IsNaN(v) {
				continue
			}
			sum.Elements[i] += v
			count[i]++
		}
	}
	if sum == nil {
		return nil, invalidInput("average", "there is no data to average")
	}
	for i, n := range count {
		if n == 0 {
			sum.Elements[i] = math.NaN()
			continue
		}
		sum.Elements[i] /= float64(n)
	}
	return sum, nil
}

// TimeMean returns f averaged over its time dimension. A field without a
// time dimension is returned unchanged.
func TimeMean(f *Field) (*Field, error) {
	if f.Time == nil {
		return f, nil
	}
	data, err := Average(f.Steps())
	if err != nil {
		return nil, fmt.Errorf("clouds: time mean of %s: %w", f.Meta.ShortName, err)
	}
	o := *f
	o.Data = data
	o.Time = nil
	o.TimeUnits = ""
	return &o, nil
}

// seasons gives the months belonging to each climatological season.
var seasons = map[string][]time.Month{
	"DJF": {time.December, time.January, time.February},
	"MAM": {time.March, time.April, time.May},
	"JJA": {time.June, time.July, time.August},
	"SON": {time.September, time.October, time.November},
}

// Dates converts the time coordinate of f into dates. Only the standard
// (Gregorian) calendar is supported.
func (f *Field) Dates() ([]time.Time, error) {
	step, ref, err := parseTimeUnits(f.TimeUnits)
	if err != nil {
		return nil, err
	}
	o := make([]time.Time, len(f.Time))
	for i, t := range f.Time {
		o[i] = ref.Add(time.Duration(t * float64(step)))
	}
	return o, nil
}

// parseTimeUnits parses CF time units such as "days since 1850-01-01".
func parseTimeUnits(units string) (step time.Duration, ref time.Time, err error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return 0, ref, invalidInput("time units", "cannot parse %q", units)
	}
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "days", "day", "d":
		step = 24 * time.Hour
	case "hours", "hour", "h":
		step = time.Hour
	case "minutes", "minute":
		step = time.Minute
	case "seconds", "second", "s":
		step = time.Second
	default:
		return 0, ref, invalidInput("time units", "unsupported time step in %q", units)
	}
	s := strings.TrimSpace(parts[1])
	for _, layout := range []string{"2006-1-2 15:04:05", "2006-1-2 15:04:05.0", "2006-1-2T15:04:05Z", "2006-1-2 15:04", "2006-1-2"} {
		if ref, err = time.Parse(layout, s); err == nil {
			return step, ref, nil
		}
	}
	return 0, ref, invalidInput("time units", "cannot parse reference date in %q", units)
}

// SelectSeason returns the time steps of f that fall within the given
// season ("DJF", "MAM", "JJA" or "SON").
func SelectSeason(f *Field, season string) (*Field, error) {
	months, ok := seasons[strings.ToUpper(season)]
	if !ok {
		return nil, NewConfigError("season", "invalid season %q; valid seasons are DJF, MAM, JJA and SON", season)
	}
	if f.Time == nil {
		return nil, invalidInput("select season", "%s has no time dimension", f.Meta.ShortName)
	}
	dates, err := f.Dates()
	if err != nil {
		return nil, err
	}
	n := len(f.Data.Elements) / len(f.Time)
	var keep []int
	for i, d := range dates {
		for _, m := range months {
			if d.Month() == m {
				keep = append(keep, i)
				break
			}
		}
	}
	if len(keep) == 0 {
		return nil, invalidInput("select season", "%s has no time steps in %s", f.Meta.ShortName, season)
	}
	shape := append([]int{len(keep)}, f.Data.Shape[1:]...)
	o := *f
	o.Data = sparse.ZerosDense(shape...)
	o.Time = make([]float64, len(keep))
	for j, i := range keep {
		o.Time[j] = f.Time[i]
		copy(o.Data.Elements[j*n:(j+1)*n], f.Data.Elements[i*n:(i+1)*n])
	}
	return &o, nil
}
