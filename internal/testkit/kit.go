// Package testkit provides deterministic sample generators for tests.
// The generator is a plain linear congruential generator with a Box-Muller
// transform, so the same seed always reproduces the same fixtures across
// platforms.
package testkit

import "math"

// Generator produces deterministic pseudo-random samples.
type Generator struct {
	state float64
}

// NewGenerator creates a generator with the given seed.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = 12345
	}
	return &Generator{state: float64(seed)}
}

func (g *Generator) next() float64 {
	g.state = math.Mod(g.state*1103515245+12345, 2147483648)
	return g.state / 2147483648.0
}

// Uniform returns n values uniformly distributed on [lo, hi).
func (g *Generator) Uniform(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + g.next()*(hi-lo)
	}
	return out
}

// Norm returns one standard-normal draw via the Box-Muller transform.
func (g *Generator) Norm() float64 {
	u1 := g.next()
	u2 := g.next()
	if u1 <= 0 {
		u1 = 1e-12
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Normal returns n draws from N(mean, sd²).
func (g *Generator) Normal(n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*g.Norm()
	}
	return out
}

// Linear returns n values following slope*x + intercept + noise, with x
// running over 0..n-1 scaled to [0, 1).
func (g *Generator) Linear(n int, slope, intercept, noise float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i) / float64(n)
		out[i] = slope*x + intercept + g.Norm()*noise
	}
	return out
}

// TwoGroups returns interleaved values and labels for two groups with the
// given means and a shared standard deviation.
func (g *Generator) TwoGroups(nPerGroup int, meanA, meanB, sd float64) (values []float64, labels []string) {
	values = make([]float64, 0, 2*nPerGroup)
	labels = make([]string, 0, 2*nPerGroup)
	for i := 0; i < nPerGroup; i++ {
		values = append(values, meanA+sd*g.Norm())
		labels = append(labels, "A")
		values = append(values, meanB+sd*g.Norm())
		labels = append(labels, "B")
	}
	return values, labels
}
