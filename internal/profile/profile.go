// Package profile derives per-column descriptions of a dataset: declared
// type, missing and distinct counts, and the numeric or categorical summary.
// Profiles are recomputed wholesale whenever the dataset changes.
package profile

import (
	mstats "github.com/montanaflynn/stats"

	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/domain/table"
	"statadvisor/internal/describe"
)

// numericShareThreshold is the fraction of non-missing cells that must be
// numeric for a column to count as numeric (and symmetrically for
// categorical). Columns in between are mixed.
const numericShareThreshold = 0.8

// Dataset profiles every column.
func Dataset(ds *table.Dataset) map[core.ColumnKey]stats.ColumnProfile {
	out := make(map[core.ColumnKey]stats.ColumnProfile)
	for _, col := range ds.Columns() {
		out[col] = Column(ds, col)
	}
	return out
}

// Column profiles one column. Unknown columns yield an unknown-typed profile
// with zero counts.
func Column(ds *table.Dataset, key core.ColumnKey) stats.ColumnProfile {
	profile := stats.ColumnProfile{Name: key, Type: stats.ColumnUnknown}
	cells, ok := ds.Column(key)
	if !ok {
		return profile
	}

	var numbers []float64
	var labels []string
	distinct := make(map[string]bool)
	for _, c := range cells {
		if c.IsMissing() {
			profile.MissingCount++
			continue
		}
		distinct[c.Label()] = true
		labels = append(labels, c.Label())
		if c.Kind == table.CellNumber {
			numbers = append(numbers, c.Number)
		}
	}

	nonMissing := len(cells) - profile.MissingCount
	profile.SampleSize = nonMissing
	profile.DistinctCount = len(distinct)
	if nonMissing == 0 {
		return profile
	}

	numericShare := float64(len(numbers)) / float64(nonMissing)
	switch {
	case numericShare >= numericShareThreshold:
		profile.Type = stats.ColumnNumeric
		profile.Numeric = numericSummary(numbers)
	case numericShare <= 1-numericShareThreshold:
		profile.Type = stats.ColumnCategorical
		profile.Categorical = categoricalSummary(labels)
	default:
		profile.Type = stats.ColumnMixed
	}
	return profile
}

func numericSummary(values []float64) *stats.NumericSummary {
	if len(values) == 0 {
		return nil
	}
	s := &stats.NumericSummary{}
	// The basic moments come from the stats library; quantiles and shape
	// measures use the shared kernel so they match the test engine exactly.
	s.Min, _ = mstats.Min(values)
	s.Max, _ = mstats.Max(values)
	s.Mean, _ = mstats.Mean(values)
	s.Variance, _ = mstats.PopulationVariance(values)
	s.StdDev, _ = mstats.StandardDeviationPopulation(values)
	s.Q1, s.Median, s.Q3 = describe.Quartiles(values)
	s.Skewness = describe.Skewness(values)
	s.Kurtosis = describe.Kurtosis(values)
	return s
}

func categoricalSummary(labels []string) *stats.CategoricalSummary {
	if len(labels) == 0 {
		return nil
	}
	freq := make(map[string]int)
	for _, l := range labels {
		freq[l]++
	}
	// First-seen order breaks frequency ties for the mode.
	mode := ""
	best := 0
	for _, l := range labels {
		if freq[l] > best {
			best = freq[l]
			mode = l
		}
	}
	return &stats.CategoricalSummary{
		Frequencies: freq,
		Mode:        mode,
		Entropy:     describe.Entropy(freq),
	}
}
