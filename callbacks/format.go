// Copyright 2025 Tether ML Binding. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package callbacks

import "strconv"

// formatMetric renders a metric value the way training logs
// conventionally show them: four decimal places for ordinary
// magnitudes, scientific notation for very small ones.
func formatMetric(v float64) string {
	if v != 0 && v < 1e-4 && v > -1e-4 {
		return strconv.FormatFloat(v, 'e', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
