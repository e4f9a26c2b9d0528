package engine

import (
	"fmt"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
	"statadvisor/internal/describe"
)

func (r *Runner) oneWayANOVA(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	labels, grouped := splitGroups(in.Values, in.Groups)
	if err := validateGrouped(def, grouped); err != nil {
		return nil, err
	}

	dec := describe.Decompose(grouped)
	msWithin := dec.SSWithin / dec.DFWithin
	if msWithin == 0 && dec.SSBetween > 0 {
		return nil, apperr.Computation("within-group variance is zero; the F statistic is undefined")
	}

	f := dec.FStatistic()
	p := r.tables.FTestPValue(f, dec.DFBetween, dec.DFWithin)

	etaSq := 0.0
	if dec.SSTotal > 0 {
		etaSq = dec.SSBetween / dec.SSTotal
	}
	// Omega squared corrects eta squared's upward bias; clamp the small-sample
	// negative values to zero.
	omegaSq := 0.0
	if denom := dec.SSTotal + msWithin; denom > 0 {
		omegaSq = (dec.SSBetween - dec.DFBetween*msWithin) / denom
		if omegaSq < 0 {
			omegaSq = 0
		}
	}

	res := newResult(def)
	res.Statistics["f"] = f
	res.Statistics["df_between"] = dec.DFBetween
	res.Statistics["df_within"] = dec.DFWithin
	res.Statistics["p_value"] = p
	res.Statistics["omega_squared"] = omegaSq
	res.EffectSize = &stats.EffectSize{Name: "eta_squared", Value: etaSq, Interpretation: interpretEtaSquared(etaSq)}
	res.Groups = groupStats(labels, grouped)
	res.Assumptions = r.checker.Run(in.Values, in.Groups, assumptions.Checks{
		Normality:   true,
		Homogeneity: true,
		Outliers:    true,
	})
	res.Interpretation = fmt.Sprintf(
		"The difference among the %d group means is %s (F(%.0f, %.0f) = %.3f, p = %.4f).",
		len(grouped), significanceLabel(p), dec.DFBetween, dec.DFWithin, f, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(dec.N))
	if p < opts.Alpha {
		res.Recommendations = append(res.Recommendations,
			"the omnibus test is significant; run post-hoc pairwise comparisons with a multiple-comparison correction to locate the differing groups")
	}
	if hom, ok := res.Assumptions[assumptions.CheckHomogeneity]; ok && hom.Passed != nil && !*hom.Passed {
		res.Recommendations = append(res.Recommendations,
			"group variances differ; consider the Kruskal-Wallis test instead")
	}
	return res, nil
}
