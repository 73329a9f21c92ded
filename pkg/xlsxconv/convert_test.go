package xlsxconv

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
	"github.com/xuri/excelize/v2"
)

// createBook writes a workbook with sheets Sheet1, Empty and Data.
func createBook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "name")
	f.SetCellValue("Sheet1", "B1", "value")
	f.SetCellValue("Sheet1", "A2", "x,y")
	f.SetCellValue("Sheet1", "B2", 1.5)
	f.SetCellValue("Sheet1", "A3", "line1\nline2")
	f.SetCellValue("Sheet1", "B3", true)

	for _, name := range []string{"Empty", "Data"} {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("Failed to add sheet: %v", err)
		}
	}
	f.SetCellValue("Data", "A1", 42)
	f.SetCellValue("Data", "B1", "z")

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
}

func TestConvertAll(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "book.xlsx")
	createBook(t, book)

	jobs := []models.Job{{InputPath: book, Extension: "csv"}}
	var logs bytes.Buffer
	results, err := ConvertAll(jobs, DefaultPolicy(), slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("ConvertAll failed: %v", err)
	}
	if !strings.Contains(logs.String(), "msg=finished workbooks=1 sheets=2 skipped=1 records=4") {
		t.Errorf("Expected a summary of converted sheets, got %q", logs.String())
	}

	if len(results) != 1 || len(results[0].Sheets) != 3 {
		t.Fatalf("Expected 1 workbook with 3 sheets, got %+v", results)
	}
	if results[0].BookName != "book.xlsx" {
		t.Errorf("Expected book name 'book.xlsx', got %q", results[0].BookName)
	}
	if !results[0].Sheets[1].Skipped {
		t.Errorf("Expected the Empty sheet to be skipped")
	}

	want := "name,value\n\"x,y\",1.5\n\"line1\nline2\",True\n"
	if got := readOutput(t, filepath.Join(dir, "bookSheet1.csv")); got != want {
		t.Errorf("Sheet1: expected %q, got %q", want, got)
	}
	if got := readOutput(t, filepath.Join(dir, "bookData.csv")); got != "42,z\n" {
		t.Errorf("Data: expected %q, got %q", "42,z\n", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "bookEmpty.csv")); !os.IsNotExist(err) {
		t.Errorf("Expected no file for the empty sheet")
	}

	first, err := os.ReadFile(filepath.Join(dir, "bookSheet1.csv"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if _, err := ConvertAll(jobs, DefaultPolicy(), discardLogger()); err != nil {
		t.Fatalf("Second ConvertAll failed: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "bookSheet1.csv"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Expected identical output on re-run")
	}
}

func TestConvertAllStopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "book.xlsx")
	createBook(t, book)

	jobs := []models.Job{
		{InputPath: book, Sheet: "Data", Extension: "csv"},
		{InputPath: filepath.Join(dir, "missing.xlsx"), Extension: "csv"},
		{InputPath: book, Extension: "csv"},
	}
	results, err := ConvertAll(jobs, DefaultPolicy(), discardLogger())
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Expected ErrFileNotFound, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 completed workbook, got %d", len(results))
	}
	if _, err := os.Stat(filepath.Join(dir, "bookSheet1.csv")); !os.IsNotExist(err) {
		t.Errorf("Expected later jobs not to run")
	}
}

func TestConvertWorkbookSheetSelection(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	book := filepath.Join(dir, "book.xlsx")
	createBook(t, book)

	p := DefaultPolicy()
	p.Delimiter = '\t'
	job := models.Job{InputPath: book, Sheet: "Data", OutputDir: out, Prefix: strPtr(""), Extension: "tsv"}
	result, err := ConvertWorkbook(job, p, discardLogger())
	if err != nil {
		t.Fatalf("ConvertWorkbook failed: %v", err)
	}
	if len(result.Sheets) != 1 || result.Sheets[0].Name != "Data" {
		t.Fatalf("Expected only Data, got %+v", result.Sheets)
	}
	if got := readOutput(t, filepath.Join(out, "Data.tsv")); got != "42\tz\n" {
		t.Errorf("Expected %q, got %q", "42\tz\n", got)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected a single output file, got %d", len(entries))
	}
}

func TestConvertWorkbookErrors(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "book.xlsx")
	createBook(t, book)

	_, err := ConvertWorkbook(models.Job{InputPath: book, Sheet: "Missing", Extension: "csv"}, DefaultPolicy(), discardLogger())
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.xlsx")
	if err := os.WriteFile(bad, []byte("not a workbook"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	_, err = ConvertWorkbook(models.Job{InputPath: bad, Extension: "csv"}, DefaultPolicy(), discardLogger())
	var le *LoadError
	if !errors.As(err, &le) || le.Path != bad {
		t.Errorf("Expected LoadError for %s, got %v", bad, err)
	}
}

func TestListSheetNames(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "book.xlsx")
	createBook(t, book)

	var buf bytes.Buffer
	if err := ListSheetNames(&buf, []models.Job{{InputPath: book}}); err != nil {
		t.Fatalf("ListSheetNames failed: %v", err)
	}
	want := "Sheet,Input\nSheet1," + book + "\nEmpty," + book + "\nData," + book + "\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "bookSheet1.csv")); !os.IsNotExist(err) {
		t.Errorf("Expected nothing to be converted")
	}

	err := ListSheetNames(&buf, []models.Job{{InputPath: filepath.Join(dir, "missing.xlsx")}})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestConvertWorkbookFirstRowWidth(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "offset.xlsx")

	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A3", "a")
	f.SetCellValue("Sheet1", "B3", "b")
	if err := f.SaveAs(book); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	f.Close()

	if _, err := ConvertWorkbook(models.Job{InputPath: book, Extension: "csv"}, DefaultPolicy(), discardLogger()); err != nil {
		t.Fatalf("ConvertWorkbook failed: %v", err)
	}

	// Leading empty rows fix the column count, so column B of row 3 is dropped.
	got := readOutput(t, filepath.Join(dir, "offsetSheet1.csv"))
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %q", got)
	}
	if lines[2] != "a" {
		t.Errorf("Expected row 3 cut to the first row's width, got %q", lines[2])
	}
	if strings.Contains(got, "b") {
		t.Errorf("Expected column B to be dropped, got %q", got)
	}
}
