package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStrings(t *testing.T) {
	known := []Kind{
		KindIndependentTTest, KindPairedTTest, KindOneWayANOVA,
		KindMannWhitneyU, KindKruskalWallis, KindPearson, KindSpearman,
		KindChiSquare, KindLinearRegression, KindWilcoxonSignedRank,
	}
	seen := make(map[string]bool)
	for _, k := range known {
		id := k.String()
		assert.NotEqual(t, "unknown", id)
		assert.False(t, seen[id], "duplicate identifier %s", id)
		seen[id] = true
	}
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestFormattedStatistics(t *testing.T) {
	res := TestResult{Statistics: map[string]float64{
		"t":       2.34567,
		"p_value": 0.0004,
	}}
	formatted := res.FormattedStatistics()
	require.Len(t, formatted, 2)
	assert.Equal(t, "2.3457", formatted["t"])
	assert.Equal(t, "< 0.001", formatted["p_value"], "tiny p-values render as a bound")

	res.Statistics["p_value"] = 0.0412
	assert.Equal(t, "0.0412", res.FormattedStatistics()["p_value"])
}

func TestWizardSelectionReset(t *testing.T) {
	sel := WizardSelection{
		Design:          "comparison",
		Characteristics: "continuous-normal",
		Relationship:    "paired",
		GroupCount:      "2",
	}
	sel.Reset()
	assert.Equal(t, WizardSelection{}, sel)
}

func TestGroupBased(t *testing.T) {
	assert.True(t, TestDefinition{MinGroups: 2, MaxGroups: 2}.GroupBased())
	assert.False(t, TestDefinition{MinGroups: 0, MaxGroups: 0}.GroupBased())
}
