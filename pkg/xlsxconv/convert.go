package xlsxconv

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/parser"
)

// ConvertAll converts the jobs in order and stops at the first failure. The
// results of the jobs completed before the failure are returned with it.
func ConvertAll(jobs []models.Job, p Policy, logger *slog.Logger) ([]models.WorkbookResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	results := make([]models.WorkbookResult, 0, len(jobs))
	for _, job := range jobs {
		result, err := ConvertWorkbook(job, p, logger)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	var sheets, skipped, records int
	for _, wr := range results {
		for _, sr := range wr.Sheets {
			if sr.Skipped {
				skipped++
				continue
			}
			sheets++
			records += sr.Records
		}
	}
	logger.Info("finished", "workbooks", len(results), "sheets", sheets, "skipped", skipped, "records", records)
	return results, nil
}

// ConvertWorkbook converts the sheets selected by job, in workbook order.
func ConvertWorkbook(job models.Job, p Policy, logger *slog.Logger) (models.WorkbookResult, error) {
	result := models.WorkbookResult{
		BookName:  filepath.Base(job.InputPath),
		InputPath: job.InputPath,
	}

	job, err := ResolveJob(job)
	if err != nil {
		return result, err
	}
	logger.Info("converting workbook", "input", job.InputPath, "output_dir", job.OutputDir)

	wb, err := parser.OpenWorkbook(job.ResolvedInput)
	if err != nil {
		return result, &LoadError{Path: job.InputPath, Err: err}
	}
	defer wb.Close()

	sheets := wb.SheetNames()
	if job.Sheet != "" {
		if !wb.HasSheet(job.Sheet) {
			return result, fmt.Errorf("%w %q in %s", ErrSheetNotFound, job.Sheet, job.InputPath)
		}
		logger.Info("only extracting sheet", "sheet", job.Sheet)
		sheets = []string{job.Sheet}
	}

	for _, sheet := range sheets {
		sr, err := convertSheet(wb, job, sheet, p, logger)
		if err != nil {
			return result, err
		}
		result.Sheets = append(result.Sheets, sr)
	}
	return result, nil
}

func convertSheet(wb *parser.Workbook, job models.Job, sheet string, p Policy, logger *slog.Logger) (models.SheetResult, error) {
	rows, err := wb.OpenRows(sheet)
	if err != nil {
		return models.SheetResult{Name: sheet}, NewConversionError(sheet, StageRead, err)
	}
	defer rows.Close()
	return ConvertSheet(rows, sheet, OutputPath(job, sheet), p, logger)
}

// ListSheetNames writes a Sheet,Input line for every sheet of every job's
// workbook. Nothing is converted.
func ListSheetNames(w io.Writer, jobs []models.Job) error {
	out, err := NewRecordWriter(w, DefaultPolicy())
	if err != nil {
		return err
	}
	if err := out.Write(models.Record{models.TextValue("Sheet"), models.TextValue("Input")}); err != nil {
		return err
	}
	for _, job := range jobs {
		names, err := sheetNames(job.InputPath)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := out.Write(models.Record{models.TextValue(name), models.TextValue(job.InputPath)}); err != nil {
				return err
			}
		}
	}
	return nil
}

func sheetNames(input string) ([]string, error) {
	resolved, err := resolveInput(input)
	if err != nil {
		return nil, err
	}
	wb, err := parser.OpenWorkbook(resolved)
	if err != nil {
		return nil, &LoadError{Path: input, Err: err}
	}
	defer wb.Close()
	return wb.SheetNames(), nil
}
