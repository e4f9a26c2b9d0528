// Package app wires the statistical engine together behind a single facade.
// The service owns the distribution tables, the assumption checker and the
// offload coordinator; callers hand it datasets and column selections and get
// back profiles, recommendations and test results.
package app

import (
	"context"

	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/domain/table"
	"statadvisor/internal"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
	"statadvisor/internal/catalog"
	"statadvisor/internal/config"
	"statadvisor/internal/distributions"
	"statadvisor/internal/engine"
	"statadvisor/internal/offload"
	"statadvisor/internal/profile"
	"statadvisor/internal/recommend"
)

// AdvisorService is the application facade over the statistical engine.
type AdvisorService struct {
	log         *internal.Logger
	checker     *assumptions.Checker
	runner      *engine.Runner
	coordinator *offload.Coordinator
}

// NewAdvisorService builds the service from configuration.
func NewAdvisorService(cfg *config.Config, log *internal.Logger) *AdvisorService {
	tables := distributions.New()
	checker := assumptions.NewChecker(tables, cfg.Engine.AssumptionCacheTTL)
	runner := engine.NewRunner(tables, checker)
	return &AdvisorService{
		log:         log,
		checker:     checker,
		runner:      runner,
		coordinator: offload.NewCoordinator(runner, cfg.Offload.Timeout, cfg.Offload.Enabled),
	}
}

// Profile derives a profile for every column of the dataset.
func (s *AdvisorService) Profile(ds *table.Dataset) map[core.ColumnKey]stats.ColumnProfile {
	s.log.Debug("profiling dataset %s (%d rows)", ds.ID(), ds.RowCount())
	return profile.Dataset(ds)
}

// Recommend ranks the catalog against the wizard selection and the observed
// shape of the chosen columns. Either column may be empty when the user has
// not selected it yet; the corresponding shape signal is then skipped.
func (s *AdvisorService) Recommend(sel stats.WizardSelection, ds *table.Dataset, groupColumn, valueColumn core.ColumnKey) ([]stats.Recommendation, error) {
	shape := recommend.DataShape{}
	if groupColumn != "" {
		if !ds.HasColumn(groupColumn) {
			return nil, apperr.Validationf("column %q not found", groupColumn)
		}
		shape.GroupCount = len(ds.DistinctStrings(groupColumn))
	}
	if valueColumn != "" {
		if !ds.HasColumn(valueColumn) {
			return nil, apperr.Validationf("column %q not found", valueColumn)
		}
		values, _, err := s.numericColumn(ds, valueColumn)
		if err != nil {
			return nil, err
		}
		shape.SampleSize = len(values)
	}
	return recommend.Recommend(sel, shape), nil
}

// CheckAssumptions runs the requested checks over the raw payload.
func (s *AdvisorService) CheckAssumptions(values []float64, groups []string, checks assumptions.Checks) map[string]stats.AssumptionResult {
	return s.checker.Run(values, groups, checks)
}

// RunTest executes the identified test against two dataset columns, offloaded
// to the worker when it is free. The roles of the columns depend on the test:
// comparison tests read group labels from the first column and measurements
// from the second, correlation and regression read the predictor from the
// first and the outcome from the second, and the chi-square test treats both
// as categorical.
func (s *AdvisorService) RunTest(ctx context.Context, testID string, ds *table.Dataset, firstColumn, secondColumn core.ColumnKey) (*stats.TestResult, error) {
	def, err := catalog.ByID(testID)
	if err != nil {
		return nil, err
	}
	in, err := s.buildInput(def, ds, firstColumn, secondColumn)
	if err != nil {
		return nil, err
	}

	s.log.Info("running %s on columns %q and %q", def.ID, firstColumn, secondColumn)
	result, err := s.coordinator.Run(ctx, def.Kind, in, engine.Options{})
	if err != nil {
		s.log.Warn("%s failed: %v", def.ID, err)
		return nil, err
	}
	return result, nil
}

// GetTestByID returns one catalog entry.
func (s *AdvisorService) GetTestByID(id string) (stats.TestDefinition, error) {
	return catalog.ByID(id)
}

// AllTests returns the catalog snapshot.
func (s *AdvisorService) AllTests() []stats.TestDefinition {
	return catalog.All()
}

// ResetOffload forces the offload coordinator back to idle.
func (s *AdvisorService) ResetOffload() {
	s.coordinator.Reset()
	s.log.Info("offload coordinator reset")
}

// OffloadState reports the coordinator's lifecycle state.
func (s *AdvisorService) OffloadState() string {
	return s.coordinator.CurrentState().String()
}

func (s *AdvisorService) buildInput(def stats.TestDefinition, ds *table.Dataset, first, second core.ColumnKey) (engine.Input, error) {
	switch {
	case def.GroupBased():
		values, groups, err := s.groupedColumns(ds, first, second)
		if err != nil {
			return engine.Input{}, err
		}
		return engine.Input{Values: values, Groups: groups}, nil
	case def.Kind == stats.KindChiSquare:
		groups, secondary, err := s.categoricalColumns(ds, first, second)
		if err != nil {
			return engine.Input{}, err
		}
		return engine.Input{Groups: groups, Secondary: secondary}, nil
	default:
		x, y, err := s.pairedNumericColumns(ds, first, second)
		if err != nil {
			return engine.Input{}, err
		}
		return engine.Input{Covariate: x, Values: y}, nil
	}
}

// groupedColumns extracts row-aligned (value, group label) pairs, skipping
// rows where either cell is missing.
func (s *AdvisorService) groupedColumns(ds *table.Dataset, groupCol, valueCol core.ColumnKey) ([]float64, []string, error) {
	groupCells, ok := ds.Column(groupCol)
	if !ok {
		return nil, nil, apperr.Validationf("column %q not found", groupCol)
	}
	valueCells, ok := ds.Column(valueCol)
	if !ok {
		return nil, nil, apperr.Validationf("column %q not found", valueCol)
	}

	var values []float64
	var groups []string
	for i := range valueCells {
		g, v := groupCells[i], valueCells[i]
		if g.IsMissing() || v.IsMissing() {
			continue
		}
		if v.Kind != table.CellNumber {
			return nil, nil, apperr.Validationf("column %q contains non-numeric value %q at row %d", valueCol, v.Label(), i+1)
		}
		values = append(values, v.Number)
		groups = append(groups, g.Label())
	}
	return values, groups, nil
}

func (s *AdvisorService) pairedNumericColumns(ds *table.Dataset, xCol, yCol core.ColumnKey) ([]float64, []float64, error) {
	x, xRows, err := s.numericColumn(ds, xCol)
	if err != nil {
		return nil, nil, err
	}
	yCells, ok := ds.Column(yCol)
	if !ok {
		return nil, nil, apperr.Validationf("column %q not found", yCol)
	}

	// Keep only rows where both variables are present.
	var xs, ys []float64
	for i, row := range xRows {
		c := yCells[row]
		if c.IsMissing() {
			continue
		}
		if c.Kind != table.CellNumber {
			return nil, nil, apperr.Validationf("column %q contains non-numeric value %q at row %d", yCol, c.Label(), row+1)
		}
		xs = append(xs, x[i])
		ys = append(ys, c.Number)
	}
	return xs, ys, nil
}

func (s *AdvisorService) categoricalColumns(ds *table.Dataset, firstCol, secondCol core.ColumnKey) ([]string, []string, error) {
	firstCells, ok := ds.Column(firstCol)
	if !ok {
		return nil, nil, apperr.Validationf("column %q not found", firstCol)
	}
	secondCells, ok := ds.Column(secondCol)
	if !ok {
		return nil, nil, apperr.Validationf("column %q not found", secondCol)
	}

	var first, second []string
	for i := range firstCells {
		a, b := firstCells[i], secondCells[i]
		if a.IsMissing() || b.IsMissing() {
			continue
		}
		first = append(first, a.Label())
		second = append(second, b.Label())
	}
	return first, second, nil
}

// numericColumn returns the numeric values of a column along with the row
// index each value came from.
func (s *AdvisorService) numericColumn(ds *table.Dataset, col core.ColumnKey) ([]float64, []int, error) {
	cells, ok := ds.Column(col)
	if !ok {
		return nil, nil, apperr.Validationf("column %q not found", col)
	}
	var values []float64
	var rows []int
	for i, c := range cells {
		if c.IsMissing() {
			continue
		}
		if c.Kind != table.CellNumber {
			return nil, nil, apperr.Validationf("column %q contains non-numeric value %q at row %d", col, c.Label(), i+1)
		}
		values = append(values, c.Number)
		rows = append(rows, i)
	}
	return values, rows, nil
}
