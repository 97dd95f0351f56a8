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

// Command clouds is a command-line interface to the cloud diagnostics.
package main

import (
	"os"

	"github.com/spatialmodel/clouds/cloudutil"
)

func main() {
	if err := cloudutil.Root.Execute(); err != nil {
		cloudutil.Log.WithError(err).Error("clouds failed")
		os.Exit(1)
	}
}
