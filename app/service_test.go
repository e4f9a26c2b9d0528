package app

import (
	"context"
	"testing"
	"time"

	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/domain/table"
	"statadvisor/internal"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
	"statadvisor/internal/config"
)

func newTestService() *AdvisorService {
	cfg := &config.Config{
		Engine:  config.EngineConfig{AssumptionCacheTTL: 5 * time.Minute},
		Offload: config.OffloadConfig{Enabled: true, Timeout: 30 * time.Second},
	}
	return NewAdvisorService(cfg, internal.NewLogger(internal.LogLevelError))
}

func buildDataset(t *testing.T, columns []core.ColumnKey, rows []table.Row) *table.Dataset {
	t.Helper()
	ds, err := table.New(columns, rows, table.DefaultLimits())
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

func comparisonDataset(t *testing.T) *table.Dataset {
	cols := []core.ColumnKey{"group", "score"}
	rows := []table.Row{
		{"group": table.StringCell("control"), "score": table.NumberCell(12)},
		{"group": table.StringCell("control"), "score": table.NumberCell(14)},
		{"group": table.StringCell("control"), "score": table.NumberCell(11)},
		{"group": table.StringCell("control"), "score": table.NumberCell(13)},
		{"group": table.StringCell("treated"), "score": table.NumberCell(18)},
		{"group": table.StringCell("treated"), "score": table.NumberCell(20)},
		{"group": table.StringCell("treated"), "score": table.NumberCell(17)},
		{"group": table.StringCell("treated"), "score": table.NumberCell(19)},
		// A row with a missing measurement is skipped, not zero-filled.
		{"group": table.StringCell("treated"), "score": table.MissingCell()},
	}
	return buildDataset(t, cols, rows)
}

func TestRunTest_IndependentTTestFromDataset(t *testing.T) {
	s := newTestService()
	res, err := s.RunTest(context.Background(), "independent-t-test", comparisonDataset(t), "group", "score")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.TestID != "independent-t-test" {
		t.Errorf("test id = %s", res.TestID)
	}
	if len(res.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(res.Groups))
	}
	// The missing-score row must not inflate the treated group.
	for _, g := range res.Groups {
		if g.Label == "treated" && g.N != 4 {
			t.Errorf("treated n = %d, want 4", g.N)
		}
	}
	if p := res.PValue(); p <= 0 || p >= 0.05 {
		t.Errorf("p = %v, want a significant separation", p)
	}
}

func TestRunTest_UnknownID(t *testing.T) {
	s := newTestService()
	_, err := s.RunTest(context.Background(), "no-such-test", comparisonDataset(t), "group", "score")
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestRunTest_NonNumericValueRejected(t *testing.T) {
	s := newTestService()
	cols := []core.ColumnKey{"group", "score"}
	rows := []table.Row{
		{"group": table.StringCell("a"), "score": table.NumberCell(1)},
		{"group": table.StringCell("a"), "score": table.StringCell("oops")},
		{"group": table.StringCell("b"), "score": table.NumberCell(3)},
		{"group": table.StringCell("b"), "score": table.NumberCell(4)},
	}
	ds := buildDataset(t, cols, rows)

	_, err := s.RunTest(context.Background(), "independent-t-test", ds, "group", "score")
	if !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestRunTest_MissingColumn(t *testing.T) {
	s := newTestService()
	_, err := s.RunTest(context.Background(), "independent-t-test", comparisonDataset(t), "nope", "score")
	if !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestRunTest_PearsonPairsRowsAcrossColumns(t *testing.T) {
	s := newTestService()
	cols := []core.ColumnKey{"x", "y"}
	rows := []table.Row{
		{"x": table.NumberCell(1), "y": table.NumberCell(2)},
		{"x": table.NumberCell(2), "y": table.NumberCell(4)},
		{"x": table.NumberCell(3), "y": table.MissingCell()},
		{"x": table.NumberCell(4), "y": table.NumberCell(8)},
		{"x": table.NumberCell(5), "y": table.NumberCell(10)},
	}
	ds := buildDataset(t, cols, rows)

	res, err := s.RunTest(context.Background(), "pearson-correlation", ds, "x", "y")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if r := res.Statistics["r"]; r < 0.999999 {
		t.Errorf("r = %v, want 1 after dropping the incomplete row", r)
	}
}

func TestRunTest_ChiSquareFromCategoricalColumns(t *testing.T) {
	s := newTestService()
	cols := []core.ColumnKey{"sex", "choice"}
	var rows []table.Row
	add := func(a, b string, count int) {
		for i := 0; i < count; i++ {
			rows = append(rows, table.Row{"sex": table.StringCell(a), "choice": table.StringCell(b)})
		}
	}
	add("m", "yes", 20)
	add("m", "no", 10)
	add("f", "yes", 10)
	add("f", "no", 20)
	ds := buildDataset(t, cols, rows)

	res, err := s.RunTest(context.Background(), "chi-square-independence", ds, "sex", "choice")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Statistics["chi_square"] <= 0 {
		t.Errorf("chi-square = %v, want > 0 for an associated table", res.Statistics["chi_square"])
	}
}

func TestRecommend_UsesObservedShape(t *testing.T) {
	s := newTestService()
	sel := stats.WizardSelection{
		Design:          "comparison",
		Characteristics: "continuous-normal",
		Relationship:    "independent",
		GroupCount:      "2",
	}

	recs, err := s.Recommend(sel, comparisonDataset(t), "group", "score")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(recs) == 0 || recs[0].Test.ID != "independent-t-test" {
		t.Errorf("recommendations = %+v, want independent-t-test first", recs)
	}
}

func TestCatalogAccessors(t *testing.T) {
	s := newTestService()
	if got := len(s.AllTests()); got != 10 {
		t.Errorf("catalog size = %d, want 10", got)
	}
	def, err := s.GetTestByID("kruskal-wallis")
	if err != nil || def.Kind != stats.KindKruskalWallis {
		t.Errorf("lookup = %+v, %v", def, err)
	}
}

func TestCheckAssumptions_DelegatesToChecker(t *testing.T) {
	s := newTestService()
	results := s.CheckAssumptions([]float64{1, 2, 3, 4, 5, 100}, nil, assumptions.Checks{Outliers: true})
	res, ok := results[assumptions.CheckOutliers]
	if !ok {
		t.Fatal("outlier check missing")
	}
	if res.Passed == nil || *res.Passed {
		t.Errorf("expected failing outlier check, got %+v", res)
	}
}

func TestOffloadStateAndReset(t *testing.T) {
	s := newTestService()
	if _, err := s.RunTest(context.Background(), "independent-t-test", comparisonDataset(t), "group", "score"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.OffloadState() != "completed" {
		t.Errorf("state = %s, want completed", s.OffloadState())
	}
	s.ResetOffload()
	if s.OffloadState() != "idle" {
		t.Errorf("state = %s, want idle", s.OffloadState())
	}
}
