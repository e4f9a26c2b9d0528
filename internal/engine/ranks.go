package engine

import (
	"fmt"
	"math"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
	"statadvisor/internal/describe"
)

// exactRankLimit bounds the group size below which the rank tests use the
// exact null distribution instead of the normal approximation.
const exactRankLimit = 20

func (r *Runner) mannWhitneyU(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	labels, grouped := splitGroups(in.Values, in.Groups)
	if err := validateGrouped(def, grouped); err != nil {
		return nil, err
	}
	g1, g2 := grouped[0], grouped[1]
	n1, n2 := len(g1), len(g2)

	pooled := make([]float64, 0, n1+n2)
	pooled = append(pooled, g1...)
	pooled = append(pooled, g2...)
	ranks := describe.Ranks(pooled)

	rankSum1 := 0.0
	for i := 0; i < n1; i++ {
		rankSum1 += ranks[i]
	}
	u1 := rankSum1 - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1
	u := math.Min(u1, u2)

	tieCorr := describe.TieCorrection(pooled)
	if tieCorr >= 1 {
		return nil, apperr.Computation("all observations are identical; the U statistic is undefined")
	}
	p, z := r.tables.MannWhitneyNormalPValue(u, n1, n2, tieCorr)
	method := "normal approximation"
	if n1 <= exactRankLimit && n2 <= exactRankLimit && tieCorr == 0 {
		p = r.tables.MannWhitneyExactPValue(u, n1, n2)
		method = "exact"
	}

	n := n1 + n2
	effectR := math.Abs(z) / math.Sqrt(float64(n))

	res := newResult(def)
	res.Statistics["u"] = u
	res.Statistics["u1"] = u1
	res.Statistics["u2"] = u2
	res.Statistics["z"] = z
	res.Statistics["p_value"] = p
	res.EffectSize = &stats.EffectSize{Name: "rank_biserial_r", Value: effectR, Interpretation: interpretR(effectR)}
	res.Groups = groupStats(labels, grouped)
	res.Assumptions = r.checker.Run(in.Values, in.Groups, assumptions.Checks{Outliers: true})
	res.Interpretation = fmt.Sprintf(
		"The difference between the group distributions is %s (U = %.1f, p = %.4f, %s).",
		significanceLabel(p), u, p, method)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	return res, nil
}

func (r *Runner) kruskalWallis(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	labels, grouped := splitGroups(in.Values, in.Groups)
	if err := validateGrouped(def, grouped); err != nil {
		return nil, err
	}

	pooled := make([]float64, 0, len(in.Values))
	sizes := make([]int, len(grouped))
	for i, g := range grouped {
		sizes[i] = len(g)
		pooled = append(pooled, g...)
	}
	n := len(pooled)
	ranks := describe.Ranks(pooled)

	// Rank sums per group, walking the pooled slice in group order.
	h := 0.0
	offset := 0
	for i := range grouped {
		sum := 0.0
		for j := 0; j < sizes[i]; j++ {
			sum += ranks[offset+j]
		}
		offset += sizes[i]
		h += sum * sum / float64(sizes[i])
	}
	nf := float64(n)
	h = 12/(nf*(nf+1))*h - 3*(nf+1)

	tieCorr := describe.TieCorrection(pooled)
	if tieCorr >= 1 {
		return nil, apperr.Computation("all observations are identical; the H statistic is undefined")
	}
	h /= 1 - tieCorr

	df := float64(len(grouped) - 1)
	p := r.tables.ChiSquarePValue(h, df)

	epsilonSq := (h - df) / (nf - 1)
	if epsilonSq < 0 {
		epsilonSq = 0
	}

	res := newResult(def)
	res.Statistics["h"] = h
	res.Statistics["df"] = df
	res.Statistics["p_value"] = p
	res.EffectSize = &stats.EffectSize{Name: "epsilon_squared", Value: epsilonSq, Interpretation: interpretEtaSquared(epsilonSq)}
	res.Groups = groupStats(labels, grouped)
	res.Assumptions = r.checker.Run(in.Values, in.Groups, assumptions.Checks{Outliers: true})
	res.Interpretation = fmt.Sprintf(
		"The difference among the %d group distributions is %s (H(%.0f) = %.3f, p = %.4f).",
		len(grouped), significanceLabel(p), df, h, p)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(n))
	if p < opts.Alpha {
		res.Recommendations = append(res.Recommendations,
			"the omnibus test is significant; run pairwise Mann-Whitney tests with a multiple-comparison correction to locate the differing groups")
	}
	return res, nil
}

func (r *Runner) wilcoxonSignedRank(def stats.TestDefinition, in Input, opts Options) (*stats.TestResult, error) {
	labels, grouped := splitGroups(in.Values, in.Groups)
	if err := validateGrouped(def, grouped); err != nil {
		return nil, err
	}
	g1, g2 := grouped[0], grouped[1]
	if len(g1) != len(g2) {
		return nil, apperr.Validationf("%s requires equal group sizes, got %d and %d", def.Name, len(g1), len(g2))
	}

	// Zero differences carry no sign information and are dropped before
	// ranking.
	var diffs []float64
	for i := range g1 {
		if d := g1[i] - g2[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n == 0 {
		return nil, apperr.Computation("all pair differences are zero; the W statistic is undefined")
	}

	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks := describe.Ranks(abs)

	var wPlus, wMinus float64
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	w := math.Min(wPlus, wMinus)

	nf := float64(n)
	meanW := nf * (nf + 1) / 4
	varW := nf * (nf + 1) * (2*nf + 1) / 24
	// Ties among the absolute differences shrink the variance by Σ(c³-c)/48.
	tieCorr := describe.TieCorrection(abs)
	if tieCorr > 0 {
		varW -= tieCorr * (nf*nf*nf - nf) / 48
	}
	if varW <= 0 {
		return nil, apperr.Computation("variance of the signed-rank statistic is zero")
	}
	z := (w - meanW) / math.Sqrt(varW)

	p := r.tables.ZTestPValue(z)
	method := "normal approximation"
	if n <= 10 && tieCorr == 0 {
		p = r.tables.WilcoxonSignedRankPValue(w, n)
		method = "exact"
	}

	effectR := math.Abs(z) / math.Sqrt(nf)

	res := newResult(def)
	res.Statistics["w"] = w
	res.Statistics["w_plus"] = wPlus
	res.Statistics["w_minus"] = wMinus
	res.Statistics["z"] = z
	res.Statistics["n_nonzero"] = nf
	res.Statistics["p_value"] = p
	res.EffectSize = &stats.EffectSize{Name: "rank_biserial_r", Value: effectR, Interpretation: interpretR(effectR)}
	res.Groups = groupStats(labels, grouped)
	res.Assumptions = r.checker.Run(diffs, nil, assumptions.Checks{Outliers: true})
	res.Interpretation = fmt.Sprintf(
		"The median difference between the paired measurements is %s (W = %.1f, p = %.4f, %s).",
		significanceLabel(p), w, p, method)

	res.Recommendations = appendCaveat(res.Recommendations, sampleSizeCaveat(len(g1)))
	if dropped := len(g1) - n; dropped > 0 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("%d zero difference(s) were dropped before ranking", dropped))
	}
	return res, nil
}
