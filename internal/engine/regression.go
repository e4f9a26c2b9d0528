package engine

import (
	"fmt"
	"math"

	gonumstat "gonum.org/v1/gonum/stat"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/describe"
)

// heteroscedasticityThreshold flags the fit when |corr(|residual|, predicted)|
// reaches it.
const heteroscedasticityThreshold = 0.3

func (r *Runner) linearRegression(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	x, y := in.Covariate, in.Values
	if err := validatePaired(def, x, y); err != nil {
		return nil, err
	}

	n := len(y)
	xMean := describe.Mean(x)
	yMean := describe.Mean(y)

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - xMean
		sxx += dx * dx
		sxy += dx * (y[i] - yMean)
	}
	if sxx == 0 {
		return nil, apperr.Computation("the predictor has zero variance; the slope is undefined")
	}

	b1 := sxy / sxx
	b0 := yMean - b1*xMean

	predicted := make([]float64, n)
	residuals := make([]float64, n)
	var ssRes, ssTot float64
	for i := range y {
		predicted[i] = b0 + b1*x[i]
		residuals[i] = y[i] - predicted[i]
		ssRes += residuals[i] * residuals[i]
		dy := y[i] - yMean
		ssTot += dy * dy
	}
	if ssTot == 0 {
		return nil, apperr.Computation("the outcome has zero variance; the fit is undefined")
	}
	rSquared := 1 - ssRes/ssTot

	df := float64(n - 2)
	if df <= 0 {
		return nil, apperr.Validationf("%s requires at least 3 observations, got %d", def.Name, n)
	}

	res := newResult(def)
	res.Statistics["b0"] = b0
	res.Statistics["b1"] = b1
	res.Statistics["r_squared"] = rSquared
	res.Statistics["df"] = df

	// Coefficient standard errors and t-tests from the residual variance.
	resVar := ssRes / df
	seB1 := math.Sqrt(resVar / sxx)
	seB0 := math.Sqrt(resVar * (1/float64(n) + xMean*xMean/sxx))
	res.Statistics["se_b0"] = seB0
	res.Statistics["se_b1"] = seB1

	if seB1 > 0 {
		tB1 := b1 / seB1
		res.Statistics["t_b1"] = tB1
		res.Statistics["p_value"] = r.tables.TTestPValue(tB1, df)
	} else {
		// A perfect fit leaves no residual variance to test against.
		res.Statistics["p_value"] = 0
	}
	if seB0 > 0 {
		tB0 := b0 / seB0
		res.Statistics["t_b0"] = tB0
		res.Statistics["p_b0"] = r.tables.TTestPValue(tB0, df)
	}
	p := res.Statistics["p_value"]

	// Durbin-Watson over the residual sequence; values near 2 indicate
	// independent residuals.
	if ssRes > 0 {
		var num float64
		for i := 1; i < n; i++ {
			d := residuals[i] - residuals[i-1]
			num += d * d
		}
		res.Statistics["durbin_watson"] = num / ssRes
	}

	if seB1 > 0 {
		lower, upper := r.tables.ConfidenceIntervalMean(b1, seB1, df, opts.ConfidenceLevel)
		res.Confidence = &stats.ConfidenceInterval{Level: opts.ConfidenceLevel, Lower: lower, Upper: upper}
	}
	res.EffectSize = &stats.EffectSize{Name: "r_squared", Value: rSquared, Interpretation: interpretEtaSquared(rSquared)}

	res.Assumptions = map[string]stats.AssumptionResult{
		"normality_residuals": r.checker.Normality(residuals),
		"homoscedasticity":    r.homoscedasticityCheck(residuals, predicted),
	}
	res.Interpretation = fmt.Sprintf(
		"The linear relationship between predictor and outcome is %s (b1 = %.3f, R² = %.3f, p = %.4f).",
		significanceLabel(p), b1, rSquared, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	if hom := res.Assumptions["homoscedasticity"]; hom.Passed != nil && !*hom.Passed {
		res.Recommendations = append(res.Recommendations,
			"residual spread varies with the predicted value; the coefficient standard errors may be unreliable")
	}
	res.Recommendations = append(res.Recommendations, causationCaveat)
	return res, nil
}

// homoscedasticityCheck proxies constant residual variance by correlating the
// absolute residuals with the predicted values.
func (r *Runner) homoscedasticityCheck(residuals, predicted []float64) stats.AssumptionResult {
	res := stats.AssumptionResult{Name: "abs-residual correlation"}

	abs := make([]float64, len(residuals))
	for i, e := range residuals {
		abs[i] = math.Abs(e)
	}
	if describe.Variance(abs) == 0 || describe.Variance(predicted) == 0 {
		res.Verdict = "inapplicable"
		res.Message = "residual or prediction spread is zero; nothing to correlate"
		return res
	}

	corr := gonumstat.Correlation(abs, predicted, nil)
	passed := math.Abs(corr) < heteroscedasticityThreshold
	res.Statistic = &corr
	res.Passed = &passed
	if passed {
		res.Verdict = "passed"
		res.Message = fmt.Sprintf("residual spread is stable across predictions (|corr| = %.3f)", math.Abs(corr))
	} else {
		res.Verdict = "failed"
		res.Message = fmt.Sprintf("residual spread grows with the prediction (|corr| = %.3f)", math.Abs(corr))
	}
	return res
}
