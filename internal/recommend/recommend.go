// Package recommend scores catalog entries against the user's wizard
// selections and the observed shape of their data, returning the top ranked
// candidates.
package recommend

import (
	"sort"
	"strings"

	"statadvisor/domain/stats"
	"statadvisor/internal/catalog"
)

// DataShape is what the recommender observes about the loaded data: how many
// distinct groups the grouping column has and how many usable observations
// exist.
type DataShape struct {
	GroupCount int
	SampleSize int
}

// Recommend scores every catalog entry and returns at most the top three,
// ordered by descending score. Entries scoring zero or below are dropped.
// Ties keep catalog order.
func Recommend(sel stats.WizardSelection, shape DataShape) []stats.Recommendation {
	defs := catalog.All()
	recs := make([]stats.Recommendation, 0, len(defs))
	for _, def := range defs {
		score := scoreDefinition(def, sel, shape)
		if score <= 0 {
			continue
		}
		recs = append(recs, stats.Recommendation{
			Test:        def,
			Score:       score,
			Suitability: tierFor(score),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

func scoreDefinition(def stats.TestDefinition, sel stats.WizardSelection, shape DataShape) int {
	score := 0

	if sel.Design != "" && sel.Design == string(def.Type) {
		score += 3
	}

	switch sel.Characteristics {
	case "continuous-normal":
		if def.Category == stats.CategoryParametric {
			score += 2
		}
	case "continuous-nonnormal", "ordinal":
		if def.Category == stats.CategoryNonparametric {
			score += 2
		}
	case "categorical":
		if def.Kind == stats.KindChiSquare {
			score += 2
		}
	}

	switch sel.Relationship {
	case "independent":
		if matchesIndependent(def) {
			score += 2
		}
	case "paired":
		if matchesPaired(def) {
			score += 2
		}
	}

	switch sel.GroupCount {
	case "2":
		if def.MinGroups == 2 && def.MaxGroups == 2 {
			score += 2
		}
	case "3+":
		if def.MinGroups >= 3 {
			score += 2
		}
	case "variable":
		if !def.GroupBased() {
			score += 2
		}
	}

	// Data-compatibility penalties come last so a nominally perfect match
	// still sinks when the loaded data cannot support the test.
	if def.GroupBased() && shape.GroupCount > 0 {
		if shape.GroupCount < def.MinGroups || shape.GroupCount > def.MaxGroups {
			score -= 5
		}
	}
	if shape.SampleSize > 0 && shape.SampleSize < def.MinSampleSize {
		score -= 3
	}

	return score
}

// matchesPaired reports whether a test handles paired or repeated samples.
// The catalog identifiers are the signal: paired-t-test and the signed-rank
// test are the paired designs.
func matchesPaired(def stats.TestDefinition) bool {
	return strings.Contains(def.ID, "paired") || strings.Contains(def.ID, "signed-rank")
}

func matchesIndependent(def stats.TestDefinition) bool {
	return def.GroupBased() && !matchesPaired(def)
}

func tierFor(score int) stats.SuitabilityTier {
	switch {
	case score >= 8:
		return stats.TierExcellent
	case score >= 6:
		return stats.TierVeryGood
	case score >= 4:
		return stats.TierGood
	default:
		return stats.TierAcceptable
	}
}
