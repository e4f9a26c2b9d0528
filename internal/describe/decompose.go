package describe

// Decomposition is the between/within sum-of-squares bookkeeping of a
// one-way layout. It backs both the ANOVA test and the Levene-style
// homogeneity check (ANOVA over absolute deviations).
type Decomposition struct {
	SSBetween float64
	SSWithin  float64
	SSTotal   float64
	DFBetween float64
	DFWithin  float64
	GrandMean float64
	N         int
}

// Decompose computes the one-way sum-of-squares decomposition over the given
// groups. Groups must be non-empty slices; callers validate group counts.
func Decompose(groups [][]float64) Decomposition {
	var d Decomposition
	k := len(groups)
	if k == 0 {
		return d
	}
	total := 0.0
	for _, g := range groups {
		d.N += len(g)
		for _, v := range g {
			total += v
		}
	}
	if d.N == 0 {
		return d
	}
	d.GrandMean = total / float64(d.N)

	for _, g := range groups {
		gm := Mean(g)
		diff := gm - d.GrandMean
		d.SSBetween += float64(len(g)) * diff * diff
		for _, v := range g {
			dv := v - gm
			d.SSWithin += dv * dv
		}
	}
	d.SSTotal = d.SSBetween + d.SSWithin
	d.DFBetween = float64(k - 1)
	d.DFWithin = float64(d.N - k)
	return d
}

// FStatistic returns F = MSbetween / MSwithin, or 0 when either mean square
// is undefined (degenerate input is the caller's error to surface).
func (d Decomposition) FStatistic() float64 {
	if d.DFBetween <= 0 || d.DFWithin <= 0 {
		return 0
	}
	msWithin := d.SSWithin / d.DFWithin
	if msWithin == 0 {
		return 0
	}
	return (d.SSBetween / d.DFBetween) / msWithin
}
