package xlsxconv

import (
	"log/slog"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

// Rows is a forward-only sequence of sheet rows.
type Rows interface {
	Next() bool
	Row() []models.Value
	Err() error
}

// ConvertSheet writes every row of a sheet to outputPath. An empty sheet is
// skipped and no file is created. The output is closed on every return path;
// a failed conversion may leave a partial file behind.
func ConvertSheet(rows Rows, sheet, outputPath string, p Policy, logger *slog.Logger) (result models.SheetResult, err error) {
	result.Name = sheet

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return result, NewConversionError(sheet, StageRead, err)
		}
		logger.Info("skipping empty sheet", "sheet", sheet)
		result.Skipped = true
		return result, nil
	}

	first := rows.Row()
	n, capped := p.columns(len(first))
	if capped {
		logger.Info("limiting output columns", "sheet", sheet, "columns", len(first), "max_cols", p.MaxColumns)
	}
	result.Columns = n

	out, err := createOutput(outputPath, p)
	if err != nil {
		return result, NewConversionError(sheet, StageWrite, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = NewConversionError(sheet, StageWrite, cerr)
		}
	}()
	result.OutputPath = outputPath

	logger.Info("outputting converted sheet", "sheet", sheet, "output", outputPath)

	if header, ok := HeaderRecord(n, p); ok {
		if err := out.Write(header); err != nil {
			return result, NewConversionError(sheet, StageWrite, err)
		}
	}

	row, rowNum := first, 1
	for {
		rec, err := BuildRecord(row, rowNum, n, p)
		if err != nil {
			return result, NewConversionError(sheet, StageBuild, err)
		}
		if err := out.Write(rec); err != nil {
			return result, NewConversionError(sheet, StageWrite, err)
		}
		result.Records++

		if !rows.Next() {
			break
		}
		row = rows.Row()
		rowNum++
	}
	if err := rows.Err(); err != nil {
		return result, NewConversionError(sheet, StageRead, err)
	}
	return result, nil
}

