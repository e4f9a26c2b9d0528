package profile

import (
	"math"
	"testing"

	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/domain/table"
)

func buildDataset(t *testing.T, columns []core.ColumnKey, rows []table.Row) *table.Dataset {
	t.Helper()
	ds, err := table.New(columns, rows, table.DefaultLimits())
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

func TestColumn_NumericSummary(t *testing.T) {
	cols := []core.ColumnKey{"score"}
	var rows []table.Row
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		rows = append(rows, table.Row{"score": table.NumberCell(v)})
	}
	ds := buildDataset(t, cols, rows)

	p := Column(ds, "score")
	if p.Type != stats.ColumnNumeric {
		t.Fatalf("type = %s, want numeric", p.Type)
	}
	if p.Numeric == nil {
		t.Fatal("numeric summary missing")
	}
	if p.Numeric.Mean != 5 {
		t.Errorf("mean = %v, want 5", p.Numeric.Mean)
	}
	if p.Numeric.Variance != 4 {
		t.Errorf("population variance = %v, want 4", p.Numeric.Variance)
	}
	if p.Numeric.StdDev != 2 {
		t.Errorf("std dev = %v, want 2", p.Numeric.StdDev)
	}
	if p.Numeric.Min != 2 || p.Numeric.Max != 9 {
		t.Errorf("range = [%v, %v], want [2, 9]", p.Numeric.Min, p.Numeric.Max)
	}
	if p.DistinctCount != 5 {
		t.Errorf("distinct = %d, want 5", p.DistinctCount)
	}
}

func TestColumn_CategoricalSummary(t *testing.T) {
	cols := []core.ColumnKey{"color"}
	var rows []table.Row
	for _, v := range []string{"red", "blue", "red", "green", "red", "blue"} {
		rows = append(rows, table.Row{"color": table.StringCell(v)})
	}
	ds := buildDataset(t, cols, rows)

	p := Column(ds, "color")
	if p.Type != stats.ColumnCategorical {
		t.Fatalf("type = %s, want categorical", p.Type)
	}
	if p.Categorical == nil {
		t.Fatal("categorical summary missing")
	}
	if p.Categorical.Mode != "red" {
		t.Errorf("mode = %s, want red", p.Categorical.Mode)
	}
	if p.Categorical.Frequencies["red"] != 3 {
		t.Errorf("freq[red] = %d, want 3", p.Categorical.Frequencies["red"])
	}
	if p.Categorical.Entropy <= 0 {
		t.Errorf("entropy = %v, want > 0", p.Categorical.Entropy)
	}
}

func TestColumn_MissingAndMixed(t *testing.T) {
	cols := []core.ColumnKey{"v"}
	rows := []table.Row{
		{"v": table.NumberCell(1)},
		{"v": table.StringCell("two")},
		{"v": table.NumberCell(3)},
		{"v": table.MissingCell()},
		{"v": table.StringCell("five")},
	}
	ds := buildDataset(t, cols, rows)

	p := Column(ds, "v")
	if p.Type != stats.ColumnMixed {
		t.Errorf("type = %s, want mixed for a 50/50 split", p.Type)
	}
	if p.MissingCount != 1 {
		t.Errorf("missing = %d, want 1", p.MissingCount)
	}
	if p.SampleSize != 4 {
		t.Errorf("sample size = %d, want 4", p.SampleSize)
	}
}

func TestColumn_AllMissingIsUnknown(t *testing.T) {
	cols := []core.ColumnKey{"v"}
	rows := []table.Row{
		{"v": table.MissingCell()},
		{"v": table.MissingCell()},
	}
	ds := buildDataset(t, cols, rows)

	p := Column(ds, "v")
	if p.Type != stats.ColumnUnknown {
		t.Errorf("type = %s, want unknown", p.Type)
	}
}

func TestColumn_FiftyFiftyEntropy(t *testing.T) {
	cols := []core.ColumnKey{"flag"}
	var rows []table.Row
	for i := 0; i < 10; i++ {
		v := "yes"
		if i%2 == 1 {
			v = "no"
		}
		rows = append(rows, table.Row{"flag": table.StringCell(v)})
	}
	ds := buildDataset(t, cols, rows)

	p := Column(ds, "flag")
	if math.Abs(p.Categorical.Entropy-1) > 1e-12 {
		t.Errorf("entropy = %v, want 1 bit", p.Categorical.Entropy)
	}
}

func TestDataset_ProfilesEveryColumn(t *testing.T) {
	cols := []core.ColumnKey{"a", "b"}
	rows := []table.Row{
		{"a": table.NumberCell(1), "b": table.StringCell("x")},
		{"a": table.NumberCell(2), "b": table.StringCell("y")},
	}
	ds := buildDataset(t, cols, rows)

	profiles := Dataset(ds)
	if len(profiles) != 2 {
		t.Fatalf("profiled %d columns, want 2", len(profiles))
	}
	if profiles["a"].Type != stats.ColumnNumeric || profiles["b"].Type != stats.ColumnCategorical {
		t.Errorf("types = %s/%s", profiles["a"].Type, profiles["b"].Type)
	}
}
