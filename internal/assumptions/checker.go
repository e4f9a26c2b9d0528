// Package assumptions implements the diagnostic checks that guard parametric
// tests: normality (Shapiro-Wilk), homogeneity of variance (Levene-style
// ANOVA on absolute deviations) and IQR-fence outlier detection. Checks are
// independently requestable; a check that cannot run reports inapplicable
// rather than failing or being silently skipped.
package assumptions

import (
	"fmt"
	"sync"
	"time"

	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/internal/distributions"
)

// Checks selects which assumption checks to run. Unrequested checks are
// absent from the result map, not computed.
type Checks struct {
	Normality   bool
	Homogeneity bool
	Outliers    bool
}

// Result map keys.
const (
	CheckNormality   = "normality"
	CheckHomogeneity = "homogeneity"
	CheckOutliers    = "outliers"
)

const passThreshold = 0.05

// Checker runs assumption checks with a short-lived result cache. The cache
// is the engine's only cross-call state: entries are keyed by a payload
// fingerprint, inserted once, and evicted wholesale after the TTL.
type Checker struct {
	tables *distributions.Tables
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	result     stats.AssumptionResult
	outliers   []stats.Outlier
	insertedAt time.Time
}

// NewChecker creates a checker with the given cache TTL.
func NewChecker(tables *distributions.Tables, ttl time.Duration) *Checker {
	return &Checker{
		tables: tables,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
		now:    time.Now,
	}
}

// Run executes the requested checks over the values/groups payload and
// returns a map keyed by check name. Groups may be nil for checks that do
// not need them; homogeneity then reports inapplicable.
func (c *Checker) Run(values []float64, groups []string, checks Checks) map[string]stats.AssumptionResult {
	results := make(map[string]stats.AssumptionResult)
	if checks.Normality {
		results[CheckNormality] = c.Normality(values)
	}
	if checks.Homogeneity {
		results[CheckHomogeneity] = c.Homogeneity(values, groups)
	}
	if checks.Outliers {
		res, _ := c.OutlierCheck(values)
		results[CheckOutliers] = res
	}
	return results
}

// Normality runs the Shapiro-Wilk test. Outside 3 <= n <= 5000 it reports
// inapplicable with an explanatory message.
func (c *Checker) Normality(values []float64) stats.AssumptionResult {
	key := "normality:" + core.FingerprintSamples(values, nil).String()
	if cached, ok := c.lookup(key); ok {
		return cached.result
	}

	var res stats.AssumptionResult
	res.Name = "Shapiro-Wilk"

	w, p, err := c.shapiroWilk(values)
	if err != nil {
		res.Verdict = "inapplicable"
		res.Message = err.Error()
		c.store(key, cacheEntry{result: res})
		return res
	}

	passed := p > passThreshold
	res.Statistic = &w
	res.PValue = &p
	res.Passed = &passed
	if passed {
		res.Verdict = "passed"
		res.Message = fmt.Sprintf("data is consistent with a normal distribution (W=%.4f, p=%.4f)", w, p)
	} else {
		res.Verdict = "failed"
		res.Message = fmt.Sprintf("data deviates from a normal distribution (W=%.4f, p=%.4f)", w, p)
	}
	c.store(key, cacheEntry{result: res})
	return res
}

// Homogeneity runs a Levene-style check: a one-way ANOVA over the absolute
// deviations of each observation from its group mean. An ANOVA p-value above
// the threshold signals homogeneous variances.
func (c *Checker) Homogeneity(values []float64, groups []string) stats.AssumptionResult {
	key := "homogeneity:" + core.FingerprintSamples(values, groups).String()
	if cached, ok := c.lookup(key); ok {
		return cached.result
	}

	var res stats.AssumptionResult
	res.Name = "Levene"

	grouped := SplitByGroup(values, groups)
	if len(grouped) < 2 {
		res.Verdict = "inapplicable"
		res.Message = "homogeneity check requires at least two groups"
		c.store(key, cacheEntry{result: res})
		return res
	}

	f, p, ok := c.leveneStatistic(grouped)
	if !ok {
		res.Verdict = "inapplicable"
		res.Message = "homogeneity check undefined: residual variance is zero"
		c.store(key, cacheEntry{result: res})
		return res
	}

	passed := p > passThreshold
	res.Statistic = &f
	res.PValue = &p
	res.Passed = &passed
	if passed {
		res.Verdict = "passed"
		res.Message = fmt.Sprintf("group variances are homogeneous (F=%.4f, p=%.4f)", f, p)
	} else {
		res.Verdict = "failed"
		res.Message = fmt.Sprintf("group variances differ (F=%.4f, p=%.4f)", f, p)
	}
	c.store(key, cacheEntry{result: res})
	return res
}

// OutlierCheck applies the IQR fence (Q1 - 1.5·IQR, Q3 + 1.5·IQR) and
// returns the observations outside it. Requires at least 4 observations.
func (c *Checker) OutlierCheck(values []float64) (stats.AssumptionResult, []stats.Outlier) {
	key := "outliers:" + core.FingerprintSamples(values, nil).String()
	if cached, ok := c.lookup(key); ok {
		return cached.result, cached.outliers
	}

	var res stats.AssumptionResult
	res.Name = "IQR fence"

	if len(values) < 4 {
		res.Verdict = "inapplicable"
		res.Message = "outlier detection requires at least 4 observations"
		c.store(key, cacheEntry{result: res})
		return res, nil
	}

	outliers := detectOutliers(values)
	passed := len(outliers) == 0
	res.Passed = &passed
	if passed {
		res.Verdict = "passed"
		res.Message = "no observations outside the IQR fence"
	} else {
		res.Verdict = "failed"
		res.Message = fmt.Sprintf("%d observation(s) outside the IQR fence", len(outliers))
	}
	c.store(key, cacheEntry{result: res, outliers: outliers})
	return res, outliers
}

// SplitByGroup partitions values by their group labels, preserving first-seen
// label order. Length mismatches truncate to the shorter slice.
func SplitByGroup(values []float64, groups []string) [][]float64 {
	n := len(values)
	if len(groups) < n {
		n = len(groups)
	}
	order := make([]string, 0, 4)
	byLabel := make(map[string][]float64)
	for i := 0; i < n; i++ {
		label := groups[i]
		if _, ok := byLabel[label]; !ok {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], values[i])
	}
	out := make([][]float64, 0, len(order))
	for _, label := range order {
		out = append(out, byLabel[label])
	}
	return out
}

func (c *Checker) lookup(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok {
		return cacheEntry{}, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		delete(c.cache, key)
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *Checker) store(key string, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry.insertedAt = c.now()
	// Opportunistic eviction keeps the cache bounded without a sweeper.
	for k, e := range c.cache {
		if c.now().Sub(e.insertedAt) > c.ttl {
			delete(c.cache, k)
		}
	}
	c.cache[key] = entry
}
