package excel

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"statadvisor/domain/table"
	"statadvisor/internal/apperr"
	"statadvisor/internal/coerce"
)

func newTestReader() *Reader {
	return NewReader(coerce.New('٫'), table.DefaultLimits())
}

func TestReadCSV_TypesAndMissing(t *testing.T) {
	csvData := "group,score,note\n" +
		"a,1.5,first\n" +
		"a,2,\n" +
		"b,3٫5,third\n" +
		"b,,fourth\n"

	ds, err := newTestReader().ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ds.RowCount() != 4 {
		t.Fatalf("rows = %d, want 4", ds.RowCount())
	}

	cell, _ := ds.Cell(0, "score")
	if cell.Kind != table.CellNumber || cell.Number != 1.5 {
		t.Errorf("score[0] = %+v, want number 1.5", cell)
	}
	cell, _ = ds.Cell(2, "score")
	if cell.Kind != table.CellNumber || cell.Number != 3.5 {
		t.Errorf("score[2] = %+v, want 3.5 via the configured separator", cell)
	}
	cell, _ = ds.Cell(3, "score")
	if !cell.IsMissing() {
		t.Errorf("score[3] = %+v, want missing", cell)
	}
	cell, _ = ds.Cell(0, "group")
	if cell.Kind != table.CellString || cell.Text != "a" {
		t.Errorf("group[0] = %+v, want string a", cell)
	}
}

func TestReadCSV_RaggedRowsPadded(t *testing.T) {
	csvData := "a,b,c\n1,2,3\n4,5\n"

	ds, err := newTestReader().ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cell, _ := ds.Cell(1, "c")
	if !cell.IsMissing() {
		t.Errorf("short row cell = %+v, want missing", cell)
	}
}

func TestReadCSV_Failures(t *testing.T) {
	r := newTestReader()

	if _, err := r.ReadCSV(strings.NewReader("")); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("empty file: err = %v, want VALIDATION_ERROR", err)
	}
	if _, err := r.ReadCSV(strings.NewReader("a,,c\n1,2,3\n")); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("empty header: err = %v, want VALIDATION_ERROR", err)
	}
	if _, err := r.ReadCSV(strings.NewReader("a,a\n1,2\n")); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("duplicate headers: err = %v, want VALIDATION_ERROR", err)
	}
	// An unterminated quote is the uploader's problem, not a server fault.
	if _, err := r.ReadCSV(strings.NewReader("a,b\n\"broken,2\n")); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("malformed quoting: err = %v, want VALIDATION_ERROR", err)
	}
}

func TestReadCSV_RowLimit(t *testing.T) {
	r := NewReader(coerce.New('٫'), table.Limits{MaxRows: 2, MaxColumns: 10})
	csvData := "v\n1\n2\n3\n"

	if _, err := r.ReadCSV(strings.NewReader(csvData)); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("row limit breach: err = %v, want VALIDATION_ERROR", err)
	}
}

func buildWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"group", "score"},
		{"a", 1.5},
		{"a", 2.0},
		{"b", "3,5"},
		{"b", nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	return f
}

func TestReadFile_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := buildWorkbook(t)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	f.Close()

	ds, err := newTestReader().ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ds.RowCount() != 4 {
		t.Fatalf("rows = %d, want 4", ds.RowCount())
	}
	cell, _ := ds.Cell(2, "score")
	if cell.Kind != table.CellNumber || cell.Number != 3.5 {
		t.Errorf("score[2] = %+v, want 3.5 via comma fallback", cell)
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	_, err := newTestReader().ReadFile("data.parquet")
	if !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestReadNamed_WorkbookStream(t *testing.T) {
	f := buildWorkbook(t)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	ds, err := newTestReader().ReadNamed(&buf, "upload.xlsx")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ds.RowCount() != 4 {
		t.Fatalf("rows = %d, want 4", ds.RowCount())
	}
	cell, _ := ds.Cell(0, "score")
	if cell.Kind != table.CellNumber || cell.Number != 1.5 {
		t.Errorf("score[0] = %+v, want number 1.5", cell)
	}
}

func TestReadNamed_Dispatch(t *testing.T) {
	r := newTestReader()

	ds, err := r.ReadNamed(strings.NewReader("v\n1\n2\n"), "upload.csv")
	if err != nil || ds.RowCount() != 2 {
		t.Errorf("csv dispatch: ds = %v, err = %v", ds, err)
	}
	if _, err := r.ReadNamed(strings.NewReader("x"), "upload.parquet"); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("unsupported upload: err = %v, want VALIDATION_ERROR", err)
	}
	// Content that is not a zip archive cannot be a workbook.
	if _, err := r.ReadNamed(strings.NewReader("not a workbook"), "upload.xlsx"); !apperr.HasCode(err, apperr.CodeValidation) {
		t.Errorf("corrupt workbook: err = %v, want VALIDATION_ERROR", err)
	}
}
