// Package describe holds the descriptive-statistics kernel shared by every
// hypothesis test: moments, quantiles, entropy and rank assignment. All
// functions are pure and operate on plain float64 slices.
//
// Variance and standard deviation use the population formula (denominator n).
// Every downstream statistic is derived from these, so the convention must
// not be mixed with the n-1 sample formula.
package describe

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance returns the population variance (denominator n).
// Empty and single-value inputs yield 0.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return sumSq / float64(len(xs))
}

// StdDev returns the population standard deviation.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// SampleVariance returns the n-1 denominator variance. Inferential statistics
// (pooled t, regression standard errors) use this form; the descriptive
// summaries stay on the population form.
func SampleVariance(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	return Variance(xs) * float64(n) / float64(n-1)
}

// SampleStdDev returns the n-1 denominator standard deviation.
func SampleStdDev(xs []float64) float64 {
	return math.Sqrt(SampleVariance(xs))
}

// Min returns the smallest value, 0 for empty input.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest value, 0 for empty input.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Percentile computes the p-th percentile (0..100) by linear interpolation
// between order statistics at position (p/100)*(n-1). Percentile(xs, 0) is
// the minimum and Percentile(xs, 100) the maximum.
func Percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return xs[0]
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median returns the 50th percentile.
func Median(xs []float64) float64 {
	return Percentile(xs, 50)
}

// Quartiles returns Q1, Q2 (median) and Q3.
func Quartiles(xs []float64) (q1, q2, q3 float64) {
	return Percentile(xs, 25), Percentile(xs, 50), Percentile(xs, 75)
}

// Skewness returns the population skewness (1/n)Σ((x-μ)/σ)³.
// Zero standard deviation short-circuits to 0 instead of dividing by zero.
func Skewness(xs []float64) float64 {
	if len(xs) < 3 {
		return 0
	}
	m := Mean(xs)
	sd := StdDev(xs)
	if sd == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := (x - m) / sd
		sum += d * d * d
	}
	return sum / float64(len(xs))
}

// Kurtosis returns the population excess kurtosis (1/n)Σ((x-μ)/σ)⁴ - 3,
// centered so a normal distribution yields 0. Zero standard deviation
// short-circuits to 0.
func Kurtosis(xs []float64) float64 {
	if len(xs) < 4 {
		return 0
	}
	m := Mean(xs)
	sd := StdDev(xs)
	if sd == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := (x - m) / sd
		sum += d * d * d * d
	}
	return sum/float64(len(xs)) - 3
}

// Entropy returns the Shannon entropy in bits of a categorical frequency
// distribution. Zero-count categories contribute nothing.
func Entropy(frequencies map[string]int) float64 {
	total := 0
	for _, c := range frequencies {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range frequencies {
		if c <= 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// Ranks assigns 1-based ranks with midrank tie-breaking: every member of a
// tie group receives the average of the positions the group occupies. The
// same routine serves Mann-Whitney, Kruskal-Wallis, Spearman and Wilcoxon.
func Ranks(xs []float64) []float64 {
	n := len(xs)
	if n == 0 {
		return nil
	}
	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range xs {
		pairs[i] = pair{value: v, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}
	return ranks
}

// TieCorrection returns Σ(c³-c)/(n³-n) over groups of tied values of size c.
// It deflates the variance term of normal-approximation rank tests.
// Returns 0 when n < 2 or no ties exist.
func TieCorrection(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	sum := 0.0
	i := 0
	for i < n {
		j := i + 1
		for j < n && sorted[j] == sorted[i] {
			j++
		}
		c := float64(j - i)
		if c > 1 {
			sum += c*c*c - c
		}
		i = j
	}
	if sum == 0 {
		return 0
	}
	nf := float64(n)
	return sum / (nf*nf*nf - nf)
}
