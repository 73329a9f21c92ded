package xlsxconv

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates an input workbook or manifest is not a regular file.
	ErrFileNotFound = errors.New("no such file")
	// ErrInvalidExtension indicates an input that is neither a workbook nor a manifest.
	ErrInvalidExtension = errors.New("invalid input extension")
	// ErrMissingInputColumn indicates a manifest without an "input" header.
	ErrMissingInputColumn = errors.New("unable to find header named input in manifest")
	// ErrMalformedManifest indicates a manifest line that cannot be turned into a job.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrNoSuchDirectory indicates a missing output directory.
	ErrNoSuchDirectory = errors.New("no such directory")
	// ErrSheetNotFound indicates a requested sheet missing from the workbook.
	ErrSheetNotFound = errors.New("cannot find sheet")
	// ErrShortRow indicates a row narrower than the sheet's column count.
	ErrShortRow = errors.New("row shorter than first row")
	// ErrUnencodable indicates a character the output encoding cannot represent.
	ErrUnencodable = errors.New("character not representable in output encoding")
	// ErrNeedsEscape indicates a field that must be quoted while quoting is NONE.
	ErrNeedsEscape = errors.New("need to escape, but quoting is NONE")
	// ErrInvalidPolicy indicates an unusable output policy.
	ErrInvalidPolicy = errors.New("invalid output policy")
)

// Stages of sheet conversion reported by ConversionError.
const (
	StageRead  = "read"
	StageBuild = "build"
	StageWrite = "write"
)

// ConversionError represents a failure while converting one sheet.
type ConversionError struct {
	SheetName string
	Stage     string // "read", "build", "write"
	Err       error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert sheet %q (%s): %v", e.SheetName, e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(sheetName, stage string, err error) *ConversionError {
	return &ConversionError{
		SheetName: sheetName,
		Stage:     stage,
		Err:       err,
	}
}

// LoadError represents a workbook that could not be opened or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load workbook from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ShortRowError reports a row with fewer cells than the sheet's column count.
type ShortRowError struct {
	Row   int
	Cells int
	Want  int
}

func (e *ShortRowError) Error() string {
	return fmt.Sprintf("row %d has %d cells, expected %d", e.Row, e.Cells, e.Want)
}

func (e *ShortRowError) Unwrap() error {
	return ErrShortRow
}
