package distributions

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNormalCDF_KnownValues(t *testing.T) {
	d := New()

	if got := d.NormalCDF(0); !almostEqual(got, 0.5, 1e-12) {
		t.Errorf("NormalCDF(0) = %v, want 0.5", got)
	}
	if got := d.NormalCDF(1.959963985); !almostEqual(got, 0.975, 1e-6) {
		t.Errorf("NormalCDF(1.96) = %v, want 0.975", got)
	}
	if got := d.NormalQuantile(0.975); !almostEqual(got, 1.959964, 1e-4) {
		t.Errorf("NormalQuantile(0.975) = %v, want 1.96", got)
	}
}

func TestTTestPValue_KnownValues(t *testing.T) {
	d := New()

	// t=2.228 at df=10 is the classic 5% two-tailed critical value.
	if got := d.TTestPValue(2.228, 10); !almostEqual(got, 0.05, 1e-3) {
		t.Errorf("TTestPValue(2.228, 10) = %v, want 0.05", got)
	}
	if got := d.TTestPValue(0, 10); !almostEqual(got, 1.0, 1e-12) {
		t.Errorf("TTestPValue(0, 10) = %v, want 1", got)
	}
	if got := d.TTestPValue(5, 0); got != 1.0 {
		t.Errorf("TTestPValue with df=0 = %v, want 1", got)
	}
}

func TestTQuantile_Symmetry(t *testing.T) {
	d := New()
	upper := d.TQuantile(0.975, 12)
	lower := d.TQuantile(0.025, 12)
	if !almostEqual(upper, -lower, 1e-9) {
		t.Errorf("t quantiles not symmetric: %v vs %v", upper, lower)
	}
	if !almostEqual(upper, 2.1788, 1e-3) {
		t.Errorf("TQuantile(0.975, 12) = %v, want 2.1788", upper)
	}
}

func TestChiSquarePValue_KnownValues(t *testing.T) {
	d := New()

	// Chi-square of 3.841 at df=1 is the 5% critical value.
	if got := d.ChiSquarePValue(3.841, 1); !almostEqual(got, 0.05, 1e-3) {
		t.Errorf("ChiSquarePValue(3.841, 1) = %v, want 0.05", got)
	}
	if got := d.ChiSquarePValue(0, 3); got != 1.0 {
		t.Errorf("ChiSquarePValue(0, 3) = %v, want 1", got)
	}
}

func TestFTestPValue_KnownValues(t *testing.T) {
	d := New()

	// F=1 with equal df is far from significant.
	if got := d.FTestPValue(1.0, 5, 5); got < 0.4 {
		t.Errorf("FTestPValue(1, 5, 5) = %v, want > 0.4", got)
	}
	if got := d.FTestPValue(0, 5, 5); got != 1.0 {
		t.Errorf("FTestPValue(0, ...) = %v, want 1", got)
	}
}

func TestWilcoxonSignedRankPValue_Exact(t *testing.T) {
	d := New()

	// n=5, W=0: both tails P(W+ <= 0) = 1/32, two-sided = 1/16.
	got := d.WilcoxonSignedRankPValue(0, 5)
	if !almostEqual(got, 0.0625, 1e-9) {
		t.Errorf("Wilcoxon exact p(W=0, n=5) = %v, want 0.0625", got)
	}
	// W at the distribution midpoint must give a p-value near 1.
	mid := float64(5*6/2) / 2
	if got := d.WilcoxonSignedRankPValue(mid, 5); got < 0.9 {
		t.Errorf("Wilcoxon exact p at midpoint = %v, want near 1", got)
	}
}

func TestMannWhitneyExactPValue_DisjointGroups(t *testing.T) {
	d := New()

	// U=0 with n1=n2=4: P(U<=0) = 1/C(8,4) = 1/70, two-sided = 2/70.
	got := d.MannWhitneyExactPValue(0, 4, 4)
	if !almostEqual(got, 2.0/70.0, 1e-9) {
		t.Errorf("MannWhitney exact p(U=0, 4, 4) = %v, want %v", got, 2.0/70.0)
	}
}

func TestMannWhitneyNormalPValue(t *testing.T) {
	d := New()

	// U at its mean gives z=0 and p=1.
	p, z := d.MannWhitneyNormalPValue(float64(25*25)/2, 25, 25, 0)
	if z != 0 || !almostEqual(p, 1.0, 1e-12) {
		t.Errorf("MannWhitneyNormalPValue at mean = (p=%v, z=%v), want (1, 0)", p, z)
	}
	// Full tie correction collapses the variance.
	p, _ = d.MannWhitneyNormalPValue(0, 25, 25, 1)
	if p != 1.0 {
		t.Errorf("MannWhitneyNormalPValue with total ties = %v, want 1", p)
	}
}

func TestFisherZInterval_CoversR(t *testing.T) {
	d := New()
	lo, hi := d.FisherZInterval(0.5, 30, 0.95)
	if lo >= 0.5 || hi <= 0.5 {
		t.Errorf("Fisher interval [%v, %v] does not bracket r=0.5", lo, hi)
	}
	if lo < -1 || hi > 1 {
		t.Errorf("Fisher interval [%v, %v] escapes [-1, 1]", lo, hi)
	}
}

func TestEffectSizeCohenD(t *testing.T) {
	d := New()
	// Equal stds of 2, mean gap 2 -> d = 1.
	got := d.EffectSizeCohenD(12, 10, 2, 2, 20, 20)
	if !almostEqual(got, 1.0, 1e-9) {
		t.Errorf("Cohen d = %v, want 1", got)
	}
	if got := d.EffectSizeCohenD(1, 2, 0, 0, 5, 5); got != 0 {
		t.Errorf("Cohen d with zero spread = %v, want 0", got)
	}
}

func TestTTestPower_Monotone(t *testing.T) {
	d := New()
	small := d.TTestPower(0.2, 0.05, 20, 20)
	large := d.TTestPower(0.8, 0.05, 20, 20)
	if large <= small {
		t.Errorf("power should grow with effect size: %v vs %v", small, large)
	}
	if large <= 0 || large > 1 {
		t.Errorf("power out of range: %v", large)
	}
}
