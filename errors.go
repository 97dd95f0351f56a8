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

import "fmt"

// InvalidInputError reports input data that cannot be processed, for example
// pressure levels that are not strictly decreasing, level coordinates that are
// not in Pa or fields with the wrong number of dimensions.
type InvalidInputError struct {
	Op  string
	Msg string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("clouds: %s: %s", e.Op, e.Msg)
}

func invalidInput(op, format string, a ...interface{}) error {
	return &InvalidInputError{Op: op, Msg: fmt.Sprintf(format, a...)}
}

// GridMismatchError is returned when an operation that requires two fields
// on the same grid (difference, RMSD, correlation) is given fields on
// different grids.
type GridMismatchError struct {
	A, B   string
	Reason string
}

func (e *GridMismatchError) Error() string {
	return fmt.Sprintf("clouds: %s and %s are not on the same grid: %s", e.A, e.B, e.Reason)
}

// ConfigError reports an invalid or inconsistent configuration option.
type ConfigError struct {
	Option string
	Msg    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("clouds: configuration option %s: %s", e.Option, e.Msg)
}

// NewConfigError returns a *ConfigError for the named option.
func NewConfigError(option, format string, a ...interface{}) error {
	return &ConfigError{Option: option, Msg: fmt.Sprintf(format, a...)}
}
