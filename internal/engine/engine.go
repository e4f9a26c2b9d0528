// Package engine implements the hypothesis tests. Every test is a pure
// function over the input payload: it validates its preconditions against the
// catalog entry, computes the statistic, p-value, effect size and interval,
// and assembles a complete result with interpretation and caveats. Dispatch
// is a closed switch over the test kind.
package engine

import (
	"fmt"
	"time"

	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
	"statadvisor/internal/catalog"
	"statadvisor/internal/describe"
	"statadvisor/internal/distributions"
)

// Input carries the column payloads a test operates on. Comparison tests use
// Values split by Groups; correlation and regression use Covariate as x and
// Values as y; the chi-square test uses Groups and Secondary as the two
// categorical variables.
type Input struct {
	Values    []float64
	Groups    []string
	Covariate []float64
	Secondary []string
}

// Options tune a single run. Zero values take the defaults.
type Options struct {
	ConfidenceLevel float64 // default 0.95
	Alpha           float64 // default 0.05
}

func (o Options) withDefaults() Options {
	if o.ConfidenceLevel <= 0 || o.ConfidenceLevel >= 1 {
		o.ConfidenceLevel = 0.95
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = 0.05
	}
	return o
}

// Runner executes hypothesis tests. It is safe for concurrent use; the only
// shared state is the assumption checker's cache, which locks internally.
type Runner struct {
	tables  *distributions.Tables
	checker *assumptions.Checker
}

// NewRunner creates a runner over the given distribution tables and
// assumption checker.
func NewRunner(tables *distributions.Tables, checker *assumptions.Checker) *Runner {
	return &Runner{tables: tables, checker: checker}
}

// Run executes the test identified by kind. Unknown kinds are a validation
// error, not a panic; the switch is otherwise exhaustive over the catalog.
func (r *Runner) Run(kind stats.Kind, in Input, opts Options) (*stats.TestResult, error) {
	def, err := catalog.ByKind(kind)
	if err != nil {
		return nil, apperr.Validationf("unknown test kind %q", kind)
	}
	opts = opts.withDefaults()

	switch kind {
	case stats.KindIndependentTTest:
		return r.independentTTest(def, in, opts)
	case stats.KindPairedTTest:
		return r.pairedTTest(def, in, opts)
	case stats.KindOneWayANOVA:
		return r.oneWayANOVA(def, in, opts)
	case stats.KindMannWhitneyU:
		return r.mannWhitneyU(def, in, opts)
	case stats.KindKruskalWallis:
		return r.kruskalWallis(def, in, opts)
	case stats.KindPearson:
		return r.pearson(def, in, opts)
	case stats.KindSpearman:
		return r.spearman(def, in, opts)
	case stats.KindChiSquare:
		return r.chiSquare(def, in, opts)
	case stats.KindLinearRegression:
		return r.linearRegression(def, in, opts)
	case stats.KindWilcoxonSignedRank:
		return r.wilcoxonSignedRank(def, in, opts)
	default:
		return nil, apperr.Validationf("unsupported test kind %q", kind)
	}
}

// RunByID resolves the catalog identifier and runs the test.
func (r *Runner) RunByID(id string, in Input, opts Options) (*stats.TestResult, error) {
	def, err := catalog.ByID(id)
	if err != nil {
		return nil, err
	}
	return r.Run(def.Kind, in, opts)
}

func newResult(def stats.TestDefinition) *stats.TestResult {
	return &stats.TestResult{
		RunID:      core.NewRunID(),
		Kind:       def.Kind,
		TestID:     def.ID,
		TestName:   def.Name,
		Statistics: make(map[string]float64),
		ComputedAt: time.Now().UTC(),
	}
}

// splitGroups partitions values by label, preserving first-seen label order.
func splitGroups(values []float64, groups []string) (labels []string, grouped [][]float64) {
	n := len(values)
	if len(groups) < n {
		n = len(groups)
	}
	byLabel := make(map[string][]float64)
	for i := 0; i < n; i++ {
		label := groups[i]
		if _, ok := byLabel[label]; !ok {
			labels = append(labels, label)
		}
		byLabel[label] = append(byLabel[label], values[i])
	}
	grouped = make([][]float64, 0, len(labels))
	for _, label := range labels {
		grouped = append(grouped, byLabel[label])
	}
	return labels, grouped
}

// validateGrouped checks group count and sample size preconditions against
// the catalog entry, naming the specific unmet precondition.
func validateGrouped(def stats.TestDefinition, grouped [][]float64) error {
	k := len(grouped)
	if def.MinGroups == def.MaxGroups && k != def.MinGroups {
		if def.MinGroups == 2 {
			return apperr.Validationf("%s requires exactly two groups, got %d", def.Name, k)
		}
		return apperr.Validationf("%s requires exactly %d groups, got %d", def.Name, def.MinGroups, k)
	}
	if k < def.MinGroups {
		if def.MinGroups == 3 {
			return apperr.Validationf("%s requires at least three groups, got %d", def.Name, k)
		}
		return apperr.Validationf("%s requires at least %d groups, got %d", def.Name, def.MinGroups, k)
	}
	if def.MaxGroups > 0 && k > def.MaxGroups {
		return apperr.Validationf("%s supports at most %d groups, got %d", def.Name, def.MaxGroups, k)
	}
	total := 0
	for i, g := range grouped {
		if len(g) < 2 {
			return apperr.Validationf("%s requires at least 2 observations per group, group %d has %d", def.Name, i+1, len(g))
		}
		total += len(g)
	}
	if total < def.MinSampleSize {
		return apperr.Validationf("%s requires at least %d observations, got %d", def.Name, def.MinSampleSize, total)
	}
	return nil
}

// validatePaired checks the x/y payload of correlation and regression tests.
func validatePaired(def stats.TestDefinition, x, y []float64) error {
	if len(x) != len(y) {
		return apperr.Validationf("%s requires two variables of equal length, got %d and %d", def.Name, len(x), len(y))
	}
	if len(y) < def.MinSampleSize {
		return apperr.Validationf("%s requires at least %d observations, got %d", def.Name, def.MinSampleSize, len(y))
	}
	return nil
}

func groupStats(labels []string, grouped [][]float64) []stats.GroupStats {
	out := make([]stats.GroupStats, 0, len(labels))
	for i, label := range labels {
		g := grouped[i]
		out = append(out, stats.GroupStats{
			Label:  label,
			N:      len(g),
			Mean:   describe.Mean(g),
			StdDev: describe.SampleStdDev(g),
			Median: describe.Median(g),
		})
	}
	return out
}

// significanceLabel maps a p-value to the standard three-tier wording.
func significanceLabel(p float64) string {
	switch {
	case p < 0.001:
		return "very highly significant"
	case p < 0.01:
		return "highly significant"
	case p < 0.05:
		return "statistically significant"
	default:
		return "not statistically significant"
	}
}

func interpretCohenD(d float64) string {
	return magnitudeLabel(d, 0.2, 0.5, 0.8)
}

func interpretEtaSquared(e float64) string {
	return magnitudeLabel(e, 0.01, 0.06, 0.14)
}

func interpretR(r float64) string {
	return magnitudeLabel(r, 0.1, 0.3, 0.5)
}

func magnitudeLabel(v, small, medium, large float64) string {
	a := v
	if a < 0 {
		a = -a
	}
	switch {
	case a < small:
		return "negligible"
	case a < medium:
		return "small"
	case a < large:
		return "medium"
	default:
		return "large"
	}
}

const recommendedSampleSize = 30

func sampleSizeCaveat(n int) string {
	if n >= recommendedSampleSize {
		return ""
	}
	return fmt.Sprintf("sample size (%d) is below the recommended %d observations; results may be unstable", n, recommendedSampleSize)
}

const causationCaveat = "correlation does not imply causation; consider confounding variables"

func appendCaveat(caveats []string, c string) []string {
	if c == "" {
		return caveats
	}
	return append(caveats, c)
}
