package models

// WorkbookResult summarizes the conversion of one workbook.
type WorkbookResult struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// InputPath is the workbook path as given.
	InputPath string `json:"input"`
	// Sheets lists converted or skipped sheets in workbook order.
	Sheets []SheetResult `json:"sheets"`
}

// SheetResult summarizes the conversion of one sheet.
type SheetResult struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// OutputPath is the written file. Empty when the sheet was skipped.
	OutputPath string `json:"output_path,omitempty"`
	// Records counts data records written, excluding the header.
	Records int `json:"records"`
	// Columns is the number of source columns per record.
	Columns int `json:"columns"`
	// Skipped reports an empty sheet for which no file was written.
	Skipped bool `json:"skipped,omitempty"`
}
