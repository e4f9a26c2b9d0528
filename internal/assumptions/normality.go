package assumptions

import (
	"math"
	"sort"

	"statadvisor/internal/apperr"
	"statadvisor/internal/describe"
)

// Shapiro-Wilk bounds: Royston's approximation is calibrated for this range.
const (
	normalityMinN = 3
	normalityMaxN = 5000
)

// shapiroWilk computes the Shapiro-Wilk W statistic and its p-value using
// Royston's AS R94 approximation. Valid for normalityMinN <= n <= normalityMaxN.
func (c *Checker) shapiroWilk(values []float64) (w, p float64, err error) {
	n := len(values)
	if n < normalityMinN || n > normalityMaxN {
		return 0, 0, apperr.Inapplicable("normality test requires between 3 and 5000 observations")
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if sorted[0] == sorted[n-1] {
		return 0, 0, apperr.Computation("normality test undefined for zero-variance data")
	}

	weights := c.swWeights(n)

	var numerator float64
	for i, a := range weights {
		numerator += a * sorted[i]
	}
	numerator *= numerator

	mean := describe.Mean(sorted)
	var denominator float64
	for _, x := range sorted {
		d := x - mean
		denominator += d * d
	}
	if denominator == 0 {
		return 0, 0, apperr.Computation("normality test undefined for zero-variance data")
	}

	w = numerator / denominator
	if w > 1 {
		w = 1
	}
	return w, c.swPValue(w, n), nil
}

// swWeights computes the Shapiro-Wilk coefficient vector a for sample size n.
// The expected normal order statistics are approximated by Blom scores and
// the two extreme weights receive Royston's polynomial corrections.
func (c *Checker) swWeights(n int) []float64 {
	m := make([]float64, n)
	var mSumSq float64
	for i := 0; i < n; i++ {
		m[i] = c.tables.NormalQuantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		mSumSq += m[i] * m[i]
	}

	a := make([]float64, n)
	if n == 3 {
		a[0] = -math.Sqrt(0.5)
		a[1] = 0
		a[2] = math.Sqrt(0.5)
		return a
	}

	u := 1 / math.Sqrt(float64(n))
	rms := math.Sqrt(mSumSq)

	aN := m[n-1]/rms + 0.221157*u - 0.147981*u*u -
		2.071190*u*u*u + 4.434685*u*u*u*u - 2.706056*u*u*u*u*u

	var phi float64
	if n > 5 {
		aN1 := m[n-2]/rms + 0.042981*u - 0.293762*u*u -
			1.752461*u*u*u + 5.682633*u*u*u*u - 3.582633*u*u*u*u*u
		phi = (mSumSq - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
			(1 - 2*aN*aN - 2*aN1*aN1)
		a[n-1] = aN
		a[n-2] = aN1
		a[0] = -aN
		a[1] = -aN1
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	} else {
		phi = (mSumSq - 2*m[n-1]*m[n-1]) / (1 - 2*aN*aN)
		a[n-1] = aN
		a[0] = -aN
		for i := 1; i < n-1; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	}
	return a
}

// swPValue converts W to a p-value via Royston's normalizing transforms.
func (c *Checker) swPValue(w float64, n int) float64 {
	if w >= 1 {
		return 1
	}
	switch {
	case n == 3:
		// Exact for n=3.
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		if p < 0 {
			return 0
		}
		if p > 1 {
			return 1
		}
		return p
	case n <= 11:
		nf := float64(n)
		g := -2.273 + 0.459*nf
		lw := -math.Log(g - math.Log(1-w))
		mu := 0.5440 - 0.39978*nf + 0.025054*nf*nf - 0.0006714*nf*nf*nf
		sigma := math.Exp(1.3822 - 0.77857*nf + 0.062767*nf*nf - 0.0020322*nf*nf*nf)
		z := (lw - mu) / sigma
		return 1 - c.tables.NormalCDF(z)
	default:
		ln := math.Log(float64(n))
		lw := math.Log(1 - w)
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		z := (lw - mu) / sigma
		return 1 - c.tables.NormalCDF(z)
	}
}
