package engine

import (
	"fmt"
	"math"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
	"statadvisor/internal/describe"
)

func (r *Runner) independentTTest(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	labels, grouped := splitGroups(in.Values, in.Groups)
	if err := validateGrouped(def, grouped); err != nil {
		return nil, err
	}
	g1, g2 := grouped[0], grouped[1]
	n1, n2 := len(g1), len(g2)
	m1, m2 := describe.Mean(g1), describe.Mean(g2)
	v1, v2 := describe.SampleVariance(g1), describe.SampleVariance(g2)

	df := float64(n1 + n2 - 2)
	pooledVar := (float64(n1-1)*v1 + float64(n2-1)*v2) / df
	if pooledVar == 0 {
		return nil, apperr.Computation("pooled variance is zero; the t statistic is undefined")
	}
	pooledStd := math.Sqrt(pooledVar)
	se := pooledStd * math.Sqrt(1/float64(n1)+1/float64(n2))
	meanDiff := m1 - m2
	t := meanDiff / se
	p := r.tables.TTestPValue(t, df)

	cohenD := r.tables.EffectSizeCohenD(m1, m2, math.Sqrt(v1), math.Sqrt(v2), n1, n2)
	lower, upper := r.tables.ConfidenceIntervalMean(meanDiff, se, df, opts.ConfidenceLevel)
	power := r.tables.TTestPower(cohenD, opts.Alpha, n1, n2)

	res := newResult(def)
	res.Statistics["t"] = t
	res.Statistics["df"] = df
	res.Statistics["p_value"] = p
	res.Statistics["mean_difference"] = meanDiff
	res.EffectSize = &stats.EffectSize{Name: "cohen_d", Value: cohenD, Interpretation: interpretCohenD(cohenD)}
	res.Confidence = &stats.ConfidenceInterval{Level: opts.ConfidenceLevel, Lower: lower, Upper: upper}
	res.Power = &power
	res.Groups = groupStats(labels, grouped)
	res.Assumptions = r.checker.Run(in.Values, in.Groups, assumptions.Checks{
		Normality:   true,
		Homogeneity: true,
		Outliers:    true,
	})
	res.Interpretation = fmt.Sprintf(
		"The difference between the group means is %s (t(%.0f) = %.3f, p = %.4f).",
		significanceLabel(p), df, t, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n1+n2))
	if norm, ok := res.Assumptions[assumptions.CheckNormality]; ok && norm.Passed != nil && !*norm.Passed {
		res.Recommendations = append(res.Recommendations,
			"normality check failed; consider the Mann-Whitney U test instead")
	}
	if hom, ok := res.Assumptions[assumptions.CheckHomogeneity]; ok && hom.Passed != nil && !*hom.Passed {
		res.Recommendations = append(res.Recommendations,
			"group variances differ; the pooled t-test may be unreliable")
	}
	return res, nil
}

func (r *Runner) pairedTTest(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	labels, grouped := splitGroups(in.Values, in.Groups)
	if err := validateGrouped(def, grouped); err != nil {
		return nil, err
	}
	g1, g2 := grouped[0], grouped[1]
	if len(g1) != len(g2) {
		return nil, apperr.Validationf("%s requires equal group sizes, got %d and %d", def.Name, len(g1), len(g2))
	}

	n := len(g1)
	diffs := make([]float64, n)
	for i := range g1 {
		diffs[i] = g1[i] - g2[i]
	}
	meanDiff := describe.Mean(diffs)
	sdDiff := describe.SampleStdDev(diffs)
	if sdDiff == 0 {
		return nil, apperr.Computation("variance of the pair differences is zero; the t statistic is undefined")
	}

	df := float64(n - 1)
	se := sdDiff / math.Sqrt(float64(n))
	t := meanDiff / se
	p := r.tables.TTestPValue(t, df)

	cohenD := meanDiff / sdDiff
	lower, upper := r.tables.ConfidenceIntervalMean(meanDiff, se, df, opts.ConfidenceLevel)
	power := r.tables.TTestPower(cohenD, opts.Alpha, n, n)

	res := newResult(def)
	res.Statistics["t"] = t
	res.Statistics["df"] = df
	res.Statistics["p_value"] = p
	res.Statistics["mean_difference"] = meanDiff
	res.EffectSize = &stats.EffectSize{Name: "cohen_d", Value: cohenD, Interpretation: interpretCohenD(cohenD)}
	res.Confidence = &stats.ConfidenceInterval{Level: opts.ConfidenceLevel, Lower: lower, Upper: upper}
	res.Power = &power
	res.Groups = groupStats(labels, grouped)
	// The normality assumption applies to the pair differences, not the raw
	// measurements.
	res.Assumptions = r.checker.Run(diffs, nil, assumptions.Checks{
		Normality: true,
		Outliers:  true,
	})
	res.Interpretation = fmt.Sprintf(
		"The mean difference between the paired measurements is %s (t(%.0f) = %.3f, p = %.4f).",
		significanceLabel(p), df, t, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	if norm, ok := res.Assumptions[assumptions.CheckNormality]; ok && norm.Passed != nil && !*norm.Passed {
		res.Recommendations = append(res.Recommendations,
			"the pair differences deviate from normality; consider the Wilcoxon signed-rank test instead")
	}
	return res, nil
}
