// Package distributions provides unified access to the statistical
// distributions the engine needs: CDF and quantile routines for Student's t,
// central F, chi-square and the standard normal, plus exact small-sample
// null distributions for the rank tests. All p-values flow through here;
// no statistic-threshold heuristics anywhere.
package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Tables provides distribution lookups keyed by degrees of freedom.
type Tables struct{}

// New creates a new distribution tables utility.
func New() *Tables {
	return &Tables{}
}

// TCDF returns P(T <= t) for Student's t with df degrees of freedom.
func (d *Tables) TCDF(t float64, df float64) float64 {
	if df <= 0 {
		return 0.5
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(t)
}

// TQuantile returns the p-quantile of Student's t with df degrees of freedom.
func (d *Tables) TQuantile(p float64, df float64) float64 {
	if df <= 0 {
		return 0
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p)
}

// TTestPValue returns the two-tailed p-value for a t statistic.
func (d *Tables) TTestPValue(t float64, df float64) float64 {
	if df <= 0 {
		return 1.0
	}
	return clampP(2 * (1 - d.TCDF(math.Abs(t), df)))
}

// FCDF returns P(F <= f) for the central F distribution.
func (d *Tables) FCDF(f float64, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 0
	}
	return distuv.F{D1: df1, D2: df2}.CDF(f)
}

// FTestPValue returns the upper-tail p-value for an F statistic (ANOVA).
func (d *Tables) FTestPValue(f float64, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}
	if f <= 0 {
		return 1.0
	}
	return clampP(1 - d.FCDF(f, df1, df2))
}

// ChiSquareCDF returns P(X <= x) for chi-square with df degrees of freedom.
func (d *Tables) ChiSquareCDF(x float64, df float64) float64 {
	if df <= 0 || x <= 0 {
		return 0
	}
	return distuv.ChiSquared{K: df}.CDF(x)
}

// ChiSquarePValue returns the upper-tail p-value for a chi-square statistic.
func (d *Tables) ChiSquarePValue(x float64, df float64) float64 {
	if df <= 0 {
		return 1.0
	}
	return clampP(1 - d.ChiSquareCDF(x, df))
}

// NormalCDF returns the standard normal CDF at x.
func (d *Tables) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile returns the standard normal quantile (inverse CDF) at p.
func (d *Tables) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// ZTestPValue returns the two-tailed p-value for a z statistic.
func (d *Tables) ZTestPValue(z float64) float64 {
	return clampP(2 * (1 - d.NormalCDF(math.Abs(z))))
}

// ConfidenceIntervalMean returns a two-sided t interval for a mean given its
// standard error.
func (d *Tables) ConfidenceIntervalMean(estimate, standardError float64, df float64, level float64) (lower, upper float64) {
	if df <= 0 || standardError <= 0 {
		return estimate, estimate
	}
	alpha := 1 - level
	tCrit := d.TQuantile(1-alpha/2, df)
	margin := tCrit * standardError
	return estimate - margin, estimate + margin
}

// FisherZInterval returns a confidence interval for a correlation coefficient
// via the Fisher z-transform with standard error 1/sqrt(n-3).
func (d *Tables) FisherZInterval(r float64, n int, level float64) (lower, upper float64) {
	if n < 4 {
		return r, r
	}
	z := 0.5 * math.Log((1+r)/(1-r))
	se := 1 / math.Sqrt(float64(n-3))
	alpha := 1 - level
	zCrit := d.NormalQuantile(1 - alpha/2)
	lo := z - zCrit*se
	hi := z + zCrit*se
	return math.Tanh(lo), math.Tanh(hi)
}

// TTestPower approximates the power of a two-sample t-test at significance
// alpha using the normal approximation to the noncentral t.
func (d *Tables) TTestPower(effectSize, alpha float64, n1, n2 int) float64 {
	if n1 <= 1 || n2 <= 1 {
		return 0
	}
	nc := math.Abs(effectSize) * math.Sqrt(float64(n1*n2)/float64(n1+n2))
	zCrit := d.NormalQuantile(1 - alpha/2)
	return d.NormalCDF(nc - zCrit)
}

// WilcoxonSignedRankPValue returns the two-sided p-value for W = min(W+, W-)
// over n nonzero differences. For n > 10 callers should use the tie-corrected
// normal approximation instead; this routine computes the exact null
// distribution of W+ by dynamic programming over subset sums of ranks 1..n.
func (d *Tables) WilcoxonSignedRankPValue(w float64, n int) float64 {
	if n <= 0 {
		return 1.0
	}
	wObs := int(math.Round(w))
	if wObs < 0 {
		wObs = 0
	}
	total := n * (n + 1) / 2
	if wObs > total {
		wObs = total
	}
	// Symmetry: use the smaller tail.
	if total-wObs < wObs {
		wObs = total - wObs
	}

	// dp[s] = number of sign assignments with W+ = s.
	dp := make([]uint64, total+1)
	dp[0] = 1
	for r := 1; r <= n; r++ {
		for s := total; s >= r; s-- {
			dp[s] += dp[s-r]
		}
	}

	outcomes := uint64(1) << uint(n)
	var cum uint64
	for s := 0; s <= wObs; s++ {
		cum += dp[s]
	}
	return clampP(2 * float64(cum) / float64(outcomes))
}

// MannWhitneyExactPValue returns the two-sided p-value of the smaller U for
// group sizes n1, n2 assuming no ties, from the exact null distribution of U.
// Intended for max(n1, n2) <= 20; larger samples use the normal approximation.
func (d *Tables) MannWhitneyExactPValue(u float64, n1, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 {
		return 1.0
	}
	uObs := int(math.Round(u))
	if uObs < 0 {
		uObs = 0
	}
	maxU := n1 * n2
	if uObs > maxU {
		uObs = maxU
	}

	// count[i][j][u] = number of orderings of i X's and j Y's with U = u.
	// Recurrence: the largest observation is either an X (adds j to U) or a Y.
	count := make([][][]float64, n1+1)
	for i := 0; i <= n1; i++ {
		count[i] = make([][]float64, n2+1)
		for j := 0; j <= n2; j++ {
			count[i][j] = make([]float64, maxU+1)
		}
	}
	count[0][0][0] = 1
	for i := 0; i <= n1; i++ {
		for j := 0; j <= n2; j++ {
			if i == 0 && j == 0 {
				continue
			}
			for u2 := 0; u2 <= i*j; u2++ {
				var c float64
				if i > 0 && u2 >= j {
					c += count[i-1][j][u2-j]
				}
				if j > 0 {
					c += count[i][j-1][u2]
				}
				count[i][j][u2] = c
			}
		}
	}

	var totalWays, cum float64
	for u2 := 0; u2 <= maxU; u2++ {
		totalWays += count[n1][n2][u2]
		if u2 <= uObs {
			cum += count[n1][n2][u2]
		}
	}
	if totalWays == 0 {
		return 1.0
	}
	return clampP(2 * cum / totalWays)
}

// MannWhitneyNormalPValue returns the two-sided normal-approximation p-value
// for U with the tie-correction factor (from describe.TieCorrection over the
// pooled sample) deflating the variance.
func (d *Tables) MannWhitneyNormalPValue(u float64, n1, n2 int, tieCorrection float64) (p, z float64) {
	if n1 <= 0 || n2 <= 0 {
		return 1.0, 0
	}
	meanU := float64(n1*n2) / 2
	n := float64(n1 + n2)
	// Σ(c³-c)/(N³-N) deflates the untied variance by exactly (1 - correction).
	varU := float64(n1*n2) / 12 * (n + 1) * (1 - tieCorrection)
	if varU <= 0 {
		return 1.0, 0
	}
	z = (u - meanU) / math.Sqrt(varU)
	return d.ZTestPValue(z), z
}

// EffectSizeCohenD computes Cohen's d from two group means and sample
// standard deviations, using the df-weighted pooled deviation.
func (d *Tables) EffectSizeCohenD(mean1, mean2, std1, std2 float64, n1, n2 int) float64 {
	if n1 <= 1 || n2 <= 1 {
		return 0
	}
	pooled := math.Sqrt((float64(n1-1)*std1*std1 + float64(n2-1)*std2*std2) / float64(n1+n2-2))
	if pooled == 0 {
		return 0
	}
	return (mean1 - mean2) / pooled
}

func clampP(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
