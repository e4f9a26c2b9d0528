package assumptions

import (
	"math"

	"statadvisor/internal/describe"
)

// leveneStatistic computes the Levene F statistic: a one-way ANOVA over the
// absolute deviations of each observation from its own group mean. The bool
// is false when the ANOVA is degenerate (zero residual variance).
func (c *Checker) leveneStatistic(groups [][]float64) (f, p float64, ok bool) {
	deviations := make([][]float64, len(groups))
	for i, g := range groups {
		gm := describe.Mean(g)
		d := make([]float64, len(g))
		for j, v := range g {
			d[j] = math.Abs(v - gm)
		}
		deviations[i] = d
	}

	dec := describe.Decompose(deviations)
	if dec.DFBetween <= 0 || dec.DFWithin <= 0 {
		return 0, 0, false
	}
	if dec.SSWithin == 0 {
		// All deviations identical within groups; equal spreads by construction.
		if dec.SSBetween == 0 {
			return 0, 1, true
		}
		return 0, 0, false
	}
	f = dec.FStatistic()
	p = c.tables.FTestPValue(f, dec.DFBetween, dec.DFWithin)
	return f, p, true
}
