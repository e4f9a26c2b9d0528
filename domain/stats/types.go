package stats

import (
	"fmt"
	"time"

	"statadvisor/domain/core"
)

// Kind enumerates the supported hypothesis tests. Dispatch on Kind is a
// closed switch, so adding or removing a test is a compile-checked change.
type Kind int

const (
	KindUnknown Kind = iota
	KindIndependentTTest
	KindPairedTTest
	KindOneWayANOVA
	KindMannWhitneyU
	KindKruskalWallis
	KindPearson
	KindSpearman
	KindChiSquare
	KindLinearRegression
	KindWilcoxonSignedRank
)

// String returns the stable identifier used at API boundaries.
func (k Kind) String() string {
	switch k {
	case KindIndependentTTest:
		return "independent-t-test"
	case KindPairedTTest:
		return "paired-t-test"
	case KindOneWayANOVA:
		return "one-way-anova"
	case KindMannWhitneyU:
		return "mann-whitney-u"
	case KindKruskalWallis:
		return "kruskal-wallis"
	case KindPearson:
		return "pearson-correlation"
	case KindSpearman:
		return "spearman-correlation"
	case KindChiSquare:
		return "chi-square-independence"
	case KindLinearRegression:
		return "linear-regression"
	case KindWilcoxonSignedRank:
		return "wilcoxon-signed-rank"
	default:
		return "unknown"
	}
}

// Category separates parametric from nonparametric tests.
type Category string

const (
	CategoryParametric    Category = "parametric"
	CategoryNonparametric Category = "nonparametric"
)

// TestType describes what question a test answers.
type TestType string

const (
	TypeComparison  TestType = "comparison"
	TypeAssociation TestType = "association"
	TypePrediction  TestType = "prediction"
)

// TestDefinition is one catalog entry. Static after construction.
type TestDefinition struct {
	Kind          Kind     `json:"-"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Type          TestType `json:"type"`
	Conditions    string   `json:"conditions"`
	Assumptions   []string `json:"assumptions"`
	MinGroups     int      `json:"min_groups"` // 0 = not group-based
	MaxGroups     int      `json:"max_groups"`
	MinSampleSize int      `json:"min_sample_size"`
	Reference     string   `json:"reference,omitempty"`
}

// GroupBased reports whether the test compares labelled groups.
func (d TestDefinition) GroupBased() bool { return d.MinGroups > 0 }

// WizardSelection holds the user's declared design choices. Each slot holds
// at most one value; empty means undeclared.
type WizardSelection struct {
	Design          string `json:"design"`          // comparison | association | prediction
	Characteristics string `json:"characteristics"` // continuous-normal | continuous-nonnormal | categorical | ordinal
	Relationship    string `json:"relationship"`    // independent | paired
	GroupCount      string `json:"group_count"`     // 2 | 3+ | variable
}

// Reset clears every slot.
func (w *WizardSelection) Reset() { *w = WizardSelection{} }

// SuitabilityTier labels a recommendation score band.
type SuitabilityTier string

const (
	TierExcellent  SuitabilityTier = "excellent"
	TierVeryGood   SuitabilityTier = "very good"
	TierGood       SuitabilityTier = "good"
	TierAcceptable SuitabilityTier = "acceptable"
)

// Recommendation pairs a catalog entry with its fit score.
type Recommendation struct {
	Test        TestDefinition  `json:"test"`
	Score       int             `json:"score"`
	Suitability SuitabilityTier `json:"suitability"`
}

// ColumnType classifies a profiled column.
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"
	ColumnMixed       ColumnType = "mixed"
	ColumnUnknown     ColumnType = "unknown"
)

// NumericSummary holds the descriptive statistics of a numeric column.
type NumericSummary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis, normal = 0
}

// CategoricalSummary holds the descriptive statistics of a categorical column.
type CategoricalSummary struct {
	Frequencies map[string]int `json:"frequencies"`
	Mode        string         `json:"mode"`
	Entropy     float64        `json:"entropy"` // Shannon entropy, base 2
}

// ColumnProfile is the derived description of one dataset column.
// Recomputed whenever the dataset changes, never partially updated.
type ColumnProfile struct {
	Name          core.ColumnKey      `json:"name"`
	Type          ColumnType          `json:"type"`
	MissingCount  int                 `json:"missing_count"`
	DistinctCount int                 `json:"distinct_count"`
	SampleSize    int                 `json:"sample_size"`
	Numeric       *NumericSummary     `json:"numeric,omitempty"`
	Categorical   *CategoricalSummary `json:"categorical,omitempty"`
}

// AssumptionResult is the outcome of one assumption check. Statistic, PValue
// and Passed are nil when the check is inapplicable for the given input.
type AssumptionResult struct {
	Name      string   `json:"name"`
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"p_value"`
	Passed    *bool    `json:"passed"`
	Verdict   string   `json:"verdict"`
	Message   string   `json:"message"`
}

// Outlier is one observation outside the IQR fence.
type Outlier struct {
	Value float64 `json:"value"`
	Index int     `json:"index"`
}

// EffectSize carries a magnitude measure with its conventional label.
type EffectSize struct {
	Name           string  `json:"name"` // "cohen_d", "eta_squared", ...
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"` // "negligible" .. "large"
}

// ConfidenceInterval is a two-sided interval at the given level.
type ConfidenceInterval struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// GroupStats summarizes one group inside a comparison test.
type GroupStats struct {
	Label  string  `json:"label"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// TestResult is the complete outcome of one analysis run. Each run replaces
// the prior result entirely.
type TestResult struct {
	RunID           core.RunID                  `json:"run_id"`
	Kind            Kind                        `json:"-"`
	TestID          string                      `json:"test_id"`
	TestName        string                      `json:"test_name"`
	Statistics      map[string]float64          `json:"statistics"`
	EffectSize      *EffectSize                 `json:"effect_size,omitempty"`
	Confidence      *ConfidenceInterval         `json:"confidence_interval,omitempty"`
	Power           *float64                    `json:"power,omitempty"`
	Interpretation  string                      `json:"interpretation"`
	Recommendations []string                    `json:"recommendations"`
	Groups          []GroupStats                `json:"groups,omitempty"`
	Assumptions     map[string]AssumptionResult `json:"assumptions,omitempty"`
	Outliers        []Outlier                   `json:"outliers,omitempty"`
	ComputedAt      time.Time                   `json:"computed_at"`
}

// PValue returns the result's p-value. Every test populates "p_value".
func (r *TestResult) PValue() float64 {
	return r.Statistics["p_value"]
}

// FormattedStatistics renders the raw statistics at fixed precision for the
// display boundary. Raw values stay available in Statistics.
func (r *TestResult) FormattedStatistics() map[string]string {
	out := make(map[string]string, len(r.Statistics))
	for name, v := range r.Statistics {
		if name == "p_value" && v < 0.001 {
			out[name] = "< 0.001"
			continue
		}
		out[name] = fmt.Sprintf("%.4f", v)
	}
	return out
}
