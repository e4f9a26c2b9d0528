// Package catalog holds the static registry of supported hypothesis tests.
// The registry is data, not logic: it is built once, ordered, and never
// mutated at runtime.
package catalog

import (
	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
)

// definitions is the fixed, ordered test registry. Order matters: the
// recommender preserves it among equal scores.
var definitions = []stats.TestDefinition{
	{
		Kind:          stats.KindIndependentTTest,
		ID:            "independent-t-test",
		Name:          "Independent samples t-test",
		Category:      stats.CategoryParametric,
		Type:          stats.TypeComparison,
		Conditions:    "two independent groups, continuous outcome, approximately normal",
		Assumptions:   []string{"normality", "homogeneity"},
		MinGroups:     2,
		MaxGroups:     2,
		MinSampleSize: 4,
		Reference:     "Student (1908)",
	},
	{
		Kind:          stats.KindPairedTTest,
		ID:            "paired-t-test",
		Name:          "Paired samples t-test",
		Category:      stats.CategoryParametric,
		Type:          stats.TypeComparison,
		Conditions:    "two paired measurements per subject, normally distributed differences",
		Assumptions:   []string{"normality"},
		MinGroups:     2,
		MaxGroups:     2,
		MinSampleSize: 4,
		Reference:     "Student (1908)",
	},
	{
		Kind:          stats.KindOneWayANOVA,
		ID:            "one-way-anova",
		Name:          "One-way ANOVA",
		Category:      stats.CategoryParametric,
		Type:          stats.TypeComparison,
		Conditions:    "three or more independent groups, continuous outcome",
		Assumptions:   []string{"normality", "homogeneity"},
		MinGroups:     3,
		MaxGroups:     10,
		MinSampleSize: 6,
		Reference:     "Fisher (1925)",
	},
	{
		Kind:          stats.KindMannWhitneyU,
		ID:            "mann-whitney-u",
		Name:          "Mann-Whitney U test",
		Category:      stats.CategoryNonparametric,
		Type:          stats.TypeComparison,
		Conditions:    "two independent groups, ordinal or non-normal continuous outcome",
		Assumptions:   nil,
		MinGroups:     2,
		MaxGroups:     2,
		MinSampleSize: 4,
		Reference:     "Mann & Whitney (1947)",
	},
	{
		Kind:          stats.KindKruskalWallis,
		ID:            "kruskal-wallis",
		Name:          "Kruskal-Wallis H test",
		Category:      stats.CategoryNonparametric,
		Type:          stats.TypeComparison,
		Conditions:    "three or more independent groups, ordinal or non-normal outcome",
		Assumptions:   nil,
		MinGroups:     3,
		MaxGroups:     10,
		MinSampleSize: 6,
		Reference:     "Kruskal & Wallis (1952)",
	},
	{
		Kind:          stats.KindPearson,
		ID:            "pearson-correlation",
		Name:          "Pearson correlation",
		Category:      stats.CategoryParametric,
		Type:          stats.TypeAssociation,
		Conditions:    "two continuous variables, linear relationship",
		Assumptions:   []string{"normality"},
		MinGroups:     0,
		MaxGroups:     0,
		MinSampleSize: 3,
		Reference:     "Pearson (1895)",
	},
	{
		Kind:          stats.KindSpearman,
		ID:            "spearman-correlation",
		Name:          "Spearman rank correlation",
		Category:      stats.CategoryNonparametric,
		Type:          stats.TypeAssociation,
		Conditions:    "two ordinal or non-normal continuous variables, monotonic relationship",
		Assumptions:   nil,
		MinGroups:     0,
		MaxGroups:     0,
		MinSampleSize: 3,
		Reference:     "Spearman (1904)",
	},
	{
		Kind:          stats.KindChiSquare,
		ID:            "chi-square-independence",
		Name:          "Chi-square test of independence",
		Category:      stats.CategoryNonparametric,
		Type:          stats.TypeAssociation,
		Conditions:    "two categorical variables, expected cell counts of at least 5",
		Assumptions:   []string{"expected-frequencies"},
		MinGroups:     0,
		MaxGroups:     0,
		MinSampleSize: 8,
		Reference:     "Pearson (1900)",
	},
	{
		Kind:          stats.KindLinearRegression,
		ID:            "linear-regression",
		Name:          "Simple linear regression",
		Category:      stats.CategoryParametric,
		Type:          stats.TypePrediction,
		Conditions:    "one continuous predictor, one continuous outcome, linear relationship",
		Assumptions:   []string{"normality", "homoscedasticity", "independence"},
		MinGroups:     0,
		MaxGroups:     0,
		MinSampleSize: 3,
		Reference:     "Galton (1886)",
	},
	{
		Kind:          stats.KindWilcoxonSignedRank,
		ID:            "wilcoxon-signed-rank",
		Name:          "Wilcoxon signed-rank test",
		Category:      stats.CategoryNonparametric,
		Type:          stats.TypeComparison,
		Conditions:    "two paired measurements per subject, non-normal differences",
		Assumptions:   nil,
		MinGroups:     2,
		MaxGroups:     2,
		MinSampleSize: 4,
		Reference:     "Wilcoxon (1945)",
	},
}

// All returns a snapshot copy of the ordered registry.
func All() []stats.TestDefinition {
	out := make([]stats.TestDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// ByID looks up a test definition by its stable identifier.
func ByID(id string) (stats.TestDefinition, error) {
	for _, def := range definitions {
		if def.ID == id {
			return def, nil
		}
	}
	return stats.TestDefinition{}, apperr.NotFound("test " + id)
}

// ByKind looks up a test definition by its kind.
func ByKind(kind stats.Kind) (stats.TestDefinition, error) {
	for _, def := range definitions {
		if def.Kind == kind {
			return def, nil
		}
	}
	return stats.TestDefinition{}, apperr.NotFound("test kind")
}
