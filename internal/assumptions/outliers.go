package assumptions

import (
	"statadvisor/domain/stats"
	"statadvisor/internal/describe"
)

// detectOutliers returns the (value, original index) pairs outside the IQR
// fence. Quartiles use the shared linear-interpolation percentile routine.
func detectOutliers(values []float64) []stats.Outlier {
	q1 := describe.Percentile(values, 25)
	q3 := describe.Percentile(values, 75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var out []stats.Outlier
	for i, v := range values {
		if v < lower || v > upper {
			out = append(out, stats.Outlier{Value: v, Index: i})
		}
	}
	return out
}
