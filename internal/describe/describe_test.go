package describe

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMeanAndVariance_PopulationFormula(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(xs); !almostEqual(got, 5.0, 1e-12) {
		t.Errorf("Mean = %v, want 5", got)
	}
	// Population variance of this classic example is exactly 4.
	if got := Variance(xs); !almostEqual(got, 4.0, 1e-12) {
		t.Errorf("Variance = %v, want 4 (population formula)", got)
	}
	if got := StdDev(xs); !almostEqual(got, 2.0, 1e-12) {
		t.Errorf("StdDev = %v, want 2", got)
	}
}

func TestVariance_DegenerateInputs(t *testing.T) {
	if got := Variance(nil); got != 0 {
		t.Errorf("Variance(empty) = %v, want 0", got)
	}
	if got := Variance([]float64{3.5}); got != 0 {
		t.Errorf("Variance(single) = %v, want 0", got)
	}
	if got := StdDev([]float64{7, 7, 7, 7}); got != 0 {
		t.Errorf("StdDev(constant) = %v, want 0", got)
	}
}

func TestPercentile_EndpointsAreMinAndMax(t *testing.T) {
	xs := []float64{9, 1, 4, 7, 2, 8, 3}

	if got := Percentile(xs, 0); got != 1 {
		t.Errorf("Percentile(0) = %v, want min 1", got)
	}
	if got := Percentile(xs, 100); got != 9 {
		t.Errorf("Percentile(100) = %v, want max 9", got)
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	// Position (25/100)*(4-1) = 0.75 -> 1 + 0.75*(2-1)
	if got := Percentile(xs, 25); !almostEqual(got, 1.75, 1e-12) {
		t.Errorf("Percentile(25) = %v, want 1.75", got)
	}
	if got := Median(xs); !almostEqual(got, 2.5, 1e-12) {
		t.Errorf("Median = %v, want 2.5", got)
	}
	if got := Percentile(xs, 75); !almostEqual(got, 3.25, 1e-12) {
		t.Errorf("Percentile(75) = %v, want 3.25", got)
	}
}

func TestRanks_SumProperty(t *testing.T) {
	cases := [][]float64{
		{3, 1, 4, 1, 5, 9, 2, 6},
		{1, 1, 1, 1},
		{10},
		{2, 2, 3, 3, 3, 8},
	}
	for _, xs := range cases {
		ranks := Ranks(xs)
		sum := 0.0
		for _, r := range ranks {
			sum += r
		}
		n := float64(len(xs))
		want := n * (n + 1) / 2
		if !almostEqual(sum, want, 1e-9) {
			t.Errorf("rank sum for %v = %v, want %v", xs, sum, want)
		}
	}
}

func TestRanks_Midranks(t *testing.T) {
	ranks := Ranks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if !almostEqual(ranks[i], want[i], 1e-12) {
			t.Errorf("ranks[%d] = %v, want %v", i, ranks[i], want[i])
		}
	}
}

func TestTieCorrection_ZeroIffDistinct(t *testing.T) {
	if got := TieCorrection([]float64{1, 2, 3, 4, 5}); got != 0 {
		t.Errorf("TieCorrection(distinct) = %v, want 0", got)
	}
	if got := TieCorrection([]float64{5}); got != 0 {
		t.Errorf("TieCorrection(n<2) = %v, want 0", got)
	}
	// One tie group of size 2 among n=4: (8-2)/(64-4) = 0.1
	if got := TieCorrection([]float64{1, 2, 2, 3}); !almostEqual(got, 0.1, 1e-12) {
		t.Errorf("TieCorrection = %v, want 0.1", got)
	}
}

func TestSkewnessKurtosis_ZeroVarianceShortCircuits(t *testing.T) {
	flat := []float64{4, 4, 4, 4, 4}
	if got := Skewness(flat); got != 0 {
		t.Errorf("Skewness(constant) = %v, want 0", got)
	}
	if got := Kurtosis(flat); got != 0 {
		t.Errorf("Kurtosis(constant) = %v, want 0", got)
	}
}

func TestSkewness_SymmetricIsZero(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	if got := Skewness(xs); !almostEqual(got, 0, 1e-12) {
		t.Errorf("Skewness(symmetric) = %v, want 0", got)
	}
}

func TestKurtosis_UniformIsPlatykurtic(t *testing.T) {
	xs := make([]float64, 101)
	for i := range xs {
		xs[i] = float64(i)
	}
	// Discrete uniform excess kurtosis approaches -1.2.
	got := Kurtosis(xs)
	if !almostEqual(got, -1.2, 0.01) {
		t.Errorf("Kurtosis(uniform) = %v, want about -1.2", got)
	}
}

func TestEntropy(t *testing.T) {
	// Two equally likely categories carry exactly one bit.
	h := Entropy(map[string]int{"a": 50, "b": 50})
	if !almostEqual(h, 1.0, 1e-12) {
		t.Errorf("Entropy(50/50) = %v, want 1", h)
	}
	// A single category carries zero bits.
	if got := Entropy(map[string]int{"only": 12}); got != 0 {
		t.Errorf("Entropy(single) = %v, want 0", got)
	}
	if got := Entropy(nil); got != 0 {
		t.Errorf("Entropy(nil) = %v, want 0", got)
	}
}
