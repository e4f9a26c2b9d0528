package engine

import (
	"fmt"
	"math"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
)

func (r *Runner) chiSquare(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	var1, var2 := in.Groups, in.Secondary
	if len(var1) != len(var2) {
		return nil, apperr.Validationf("%s requires two variables of equal length, got %d and %d", def.Name, len(var1), len(var2))
	}
	n := len(var1)
	if n < def.MinSampleSize {
		return nil, apperr.Validationf("%s requires at least %d observations, got %d", def.Name, def.MinSampleSize, n)
	}

	rows := distinctLabels(var1)
	cols := distinctLabels(var2)
	if len(rows) < 2 || len(cols) < 2 {
		return nil, apperr.Validationf("%s requires at least two categories per variable, got %d and %d", def.Name, len(rows), len(cols))
	}

	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)
	observed := make([][]float64, len(rows))
	for i := range observed {
		observed[i] = make([]float64, len(cols))
	}
	rowTotals := make([]float64, len(rows))
	colTotals := make([]float64, len(cols))
	for k := 0; k < n; k++ {
		i, j := rowIdx[var1[k]], colIdx[var2[k]]
		observed[i][j]++
		rowTotals[i]++
		colTotals[j]++
	}

	grand := float64(n)
	chi2 := 0.0
	lowCount := 0
	zeroCount := 0
	for i := range rows {
		for j := range cols {
			expected := rowTotals[i] * colTotals[j] / grand
			if expected == 0 {
				zeroCount++
				continue
			}
			if expected < 5 {
				lowCount++
			}
			d := observed[i][j] - expected
			chi2 += d * d / expected
		}
	}

	df := float64((len(rows) - 1) * (len(cols) - 1))
	p := r.tables.ChiSquarePValue(chi2, df)

	minDim := len(rows)
	if len(cols) < minDim {
		minDim = len(cols)
	}
	cramersV := math.Sqrt(chi2 / (grand * float64(minDim-1)))

	res := newResult(def)
	res.Statistics["chi_square"] = chi2
	res.Statistics["df"] = df
	res.Statistics["p_value"] = p
	res.EffectSize = &stats.EffectSize{Name: "cramers_v", Value: cramersV, Interpretation: interpretR(cramersV)}
	res.Assumptions = map[string]stats.AssumptionResult{
		"expected-frequencies": expectedFrequencyCheck(len(rows)*len(cols), lowCount, zeroCount),
	}
	res.Interpretation = fmt.Sprintf(
		"The association between the two categorical variables is %s (χ²(%.0f) = %.3f, p = %.4f).",
		significanceLabel(p), df, chi2, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	if freq := res.Assumptions["expected-frequencies"]; freq.Passed != nil && !*freq.Passed {
		res.Recommendations = append(res.Recommendations,
			"expected cell counts are too small; consider merging sparse categories or an exact test")
	}
	res.Recommendations = append(res.Recommendations, causationCaveat)
	return res, nil
}

// expectedFrequencyCheck applies the Cochran rule of thumb: any zero expected
// count is a hard failure, more than 20% of cells below 5 is a failure.
func expectedFrequencyCheck(cells, lowCount, zeroCount int) stats.AssumptionResult {
	res := stats.AssumptionResult{Name: "expected cell counts"}
	lowShare := float64(lowCount) / float64(cells)
	res.Statistic = &lowShare

	passed := zeroCount == 0 && lowShare <= 0.2
	res.Passed = &passed
	switch {
	case zeroCount > 0:
		res.Verdict = "failed"
		res.Message = fmt.Sprintf("%d cell(s) have an expected count of zero; the statistic excludes them and is unreliable", zeroCount)
	case !passed:
		res.Verdict = "failed"
		res.Message = fmt.Sprintf("%.0f%% of cells have expected counts below 5 (limit 20%%)", lowShare*100)
	default:
		res.Verdict = "passed"
		res.Message = "expected cell counts satisfy the rule of thumb"
	}
	return res
}

func distinctLabels(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
