package engine

import (
	"fmt"
	"math"

	gonumstat "gonum.org/v1/gonum/stat"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/describe"
)

func (r *Runner) pearson(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	x, y := in.Covariate, in.Values
	if err := validatePaired(def, x, y); err != nil {
		return nil, err
	}
	if describe.Variance(x) == 0 || describe.Variance(y) == 0 {
		return nil, apperr.Computation("one of the variables has zero variance; the correlation is undefined")
	}

	n := len(y)
	rho := gonumstat.Correlation(x, y, nil)

	res := newResult(def)
	res.Statistics["r"] = rho
	res.Statistics["df"] = float64(n - 2)

	// A perfect correlation makes the t statistic blow up; report p = 0
	// directly instead of carrying an infinity through the result.
	if den := 1 - rho*rho; den > 1e-12 {
		t := rho * math.Sqrt(float64(n-2)/den)
		res.Statistics["t"] = t
		res.Statistics["p_value"] = r.tables.TTestPValue(t, float64(n-2))
	} else {
		res.Statistics["p_value"] = 0
	}
	p := res.Statistics["p_value"]

	lower, upper := r.tables.FisherZInterval(rho, n, opts.ConfidenceLevel)
	res.Confidence = &stats.ConfidenceInterval{Level: opts.ConfidenceLevel, Lower: lower, Upper: upper}
	res.EffectSize = &stats.EffectSize{Name: "r", Value: rho, Interpretation: interpretR(rho)}
	res.Assumptions = map[string]stats.AssumptionResult{
		"normality_x": r.checker.Normality(x),
		"normality_y": r.checker.Normality(y),
	}
	res.Interpretation = fmt.Sprintf(
		"The linear association between the two variables is %s (r = %.3f, p = %.4f).",
		significanceLabel(p), rho, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	res.Recommendations = append(res.Recommendations, causationCaveat)
	return res, nil
}

func (r *Runner) spearman(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	x, y := in.Covariate, in.Values
	if err := validatePaired(def, x, y); err != nil {
		return nil, err
	}
	if describe.Variance(x) == 0 || describe.Variance(y) == 0 {
		return nil, apperr.Computation("one of the variables has zero variance; the correlation is undefined")
	}

	n := len(y)
	rx := describe.Ranks(x)
	ry := describe.Ranks(y)

	var rho float64
	if describe.TieCorrection(x) == 0 && describe.TieCorrection(y) == 0 {
		// No ties: the classic shortcut over squared rank differences is
		// exact.
		sumD2 := 0.0
		for i := range rx {
			d := rx[i] - ry[i]
			sumD2 += d * d
		}
		nf := float64(n)
		rho = 1 - 6*sumD2/(nf*(nf*nf-1))
	} else {
		rho = gonumstat.Correlation(rx, ry, nil)
	}

	res := newResult(def)
	res.Statistics["rho"] = rho
	res.Statistics["df"] = float64(n - 2)

	if den := 1 - rho*rho; den > 1e-12 {
		t := rho * math.Sqrt(float64(n-2)/den)
		res.Statistics["t"] = t
		res.Statistics["p_value"] = r.tables.TTestPValue(t, float64(n-2))
	} else {
		res.Statistics["p_value"] = 0
	}
	p := res.Statistics["p_value"]

	res.EffectSize = &stats.EffectSize{Name: "rho", Value: rho, Interpretation: interpretR(rho)}
	res.Interpretation = fmt.Sprintf(
		"The monotonic association between the two variables is %s (rho = %.3f, p = %.4f).",
		significanceLabel(p), rho, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	if n <= 10 {
		res.Recommendations = append(res.Recommendations,
			"the p-value uses a t approximation that is coarse below 10 observations")
	}
	res.Recommendations = append(res.Recommendations, causationCaveat)
	return res, nil
}
