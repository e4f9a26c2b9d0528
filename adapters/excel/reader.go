// Package excel loads tabular data files into datasets. It reads .xlsx
// workbooks and .csv files; the first row is always the header. Cells pass
// through numeric coercion so downstream code only ever sees typed scalars.
package excel

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"statadvisor/domain/core"
	"statadvisor/domain/table"
	"statadvisor/internal/apperr"
	"statadvisor/internal/coerce"
)

// Reader loads files into datasets under the configured limits.
type Reader struct {
	coercer *coerce.Coercer
	limits  table.Limits
}

// NewReader creates a reader with the given coercer and dataset limits.
func NewReader(coercer *coerce.Coercer, limits table.Limits) *Reader {
	return &Reader{coercer: coercer, limits: limits}
}

// ReadFile loads a dataset from the given path, dispatching on the file
// extension.
func (r *Reader) ReadFile(path string) (*table.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return r.readWorkbook(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, apperr.Wrap(err, "opening data file")
		}
		defer f.Close()
		return r.ReadCSV(f)
	default:
		return nil, apperr.Validationf("unsupported data file %q; expected .xlsx or .csv", filepath.Base(path))
	}
}

// ReadNamed loads a dataset from an already-open stream, dispatching on the
// name's extension the same way ReadFile does. Used for uploads, where only
// the submitted filename hints at the format.
func (r *Reader) ReadNamed(src io.Reader, name string) (*table.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return r.ReadWorkbook(src)
	case ".csv":
		return r.ReadCSV(src)
	default:
		return nil, apperr.Validationf("unsupported data file %q; expected .xlsx or .csv", filepath.Base(name))
	}
}

// ReadCSV loads a dataset from CSV content. Rows may be ragged; short rows
// are padded with missing cells. Malformed content is the uploader's
// problem, so parse errors carry the validation code.
func (r *Reader) ReadCSV(src io.Reader) (*table.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperr.WrapCode(err, apperr.CodeValidation, "parsing CSV data")
	}
	return r.fromRecords(records)
}

// ReadWorkbook loads a dataset from workbook content.
func (r *Reader) ReadWorkbook(src io.Reader) (*table.Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperr.WrapCode(err, apperr.CodeValidation, "opening workbook")
	}
	defer f.Close()
	return r.fromWorkbook(f)
}

func (r *Reader) readWorkbook(path string) (*table.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperr.WrapCode(err, apperr.CodeValidation, "opening workbook")
	}
	defer f.Close()
	return r.fromWorkbook(f)
}

func (r *Reader) fromWorkbook(f *excelize.File) (*table.Dataset, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("workbook has no sheets")
	}
	// Data lives on the first sheet.
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Wrap(err, "reading worksheet rows")
	}
	return r.fromRecords(records)
}

func (r *Reader) fromRecords(records [][]string) (*table.Dataset, error) {
	if len(records) == 0 {
		return nil, apperr.Validation("data file is empty")
	}

	header := records[0]
	columns := make([]core.ColumnKey, 0, len(header))
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, apperr.Validationf("column %d has an empty header", i+1)
		}
		columns = append(columns, core.ColumnKey(trimmed))
	}

	rows := make([]table.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(table.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = r.coercer.Cell(record[i])
			} else {
				row[col] = table.MissingCell()
			}
		}
		rows = append(rows, row)
	}

	ds, err := table.New(columns, rows, r.limits)
	if err != nil {
		return nil, apperr.WrapCode(err, apperr.CodeValidation, "building dataset")
	}
	return ds, nil
}
