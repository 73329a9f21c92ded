// Package parser reads OOXML workbooks for conversion.
package parser

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrPartNotFound indicates a package part referenced by the workbook is missing.
var ErrPartNotFound = errors.New("package part not found")

const (
	workbookPart        = "xl/workbook.xml"
	workbookRelsPart    = "xl/_rels/workbook.xml.rels"
	defaultStringsPart  = "xl/sharedStrings.xml"
	sharedStringsRelTyp = "/sharedStrings"

	unzipXMLSizeLimit = 4 << 20
)

// Workbook is an open workbook whose sheets can be streamed row by row.
type Workbook struct {
	path string
	file *excelize.File
	zr   *zip.ReadCloser

	sheetNames    []string
	sheetParts    map[string]string
	sharedStrings []string
	styles        *styleIndex
	date1904      bool
}

// OpenWorkbook opens the workbook at path. Only cached cell values are read;
// formulas are never evaluated.
//
// The package is read twice: excelize supplies the sheet list, workbook
// properties and styles, and worksheets are streamed again from the zip by
// OpenRows. Worksheet parts larger than unzipXMLSizeLimit are spooled by
// excelize to temporary files instead of memory.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path, excelize.Options{UnzipXMLSizeLimit: unzipXMLSizeLimit})
	if err != nil {
		return nil, err
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		f.Close()
		return nil, err
	}

	wb := &Workbook{
		path:       path,
		file:       f,
		zr:         zr,
		sheetNames: f.GetSheetList(),
		styles:     newStyleIndex(f),
	}
	if err := wb.load(); err != nil {
		wb.Close()
		return nil, err
	}
	return wb, nil
}

func (wb *Workbook) load() error {
	props, err := wb.file.GetWorkbookProps()
	if err != nil {
		return err
	}
	if props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}

	workbookXML, err := readZipFile(&wb.zr.Reader, workbookPart)
	if err != nil {
		return err
	}
	relsXML, err := readZipFile(&wb.zr.Reader, workbookRelsPart)
	if err != nil {
		return err
	}
	sheetParts, stringsPart := parseWorkbookRels(relsXML, parseWorkbookSheets(workbookXML))
	wb.sheetParts = sheetParts

	if stringsPart == "" {
		stringsPart = defaultStringsPart
	}
	rc, err := openZipFile(&wb.zr.Reader, stringsPart)
	if errors.Is(err, ErrPartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer rc.Close()
	wb.sharedStrings, err = parseSharedStrings(rc)
	if err != nil {
		return fmt.Errorf("reading shared strings: %w", err)
	}
	return nil
}

// SheetNames returns the sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.sheetNames
}

// HasSheet reports whether the workbook contains a sheet with the given name.
func (wb *Workbook) HasSheet(name string) bool {
	for _, s := range wb.sheetNames {
		if s == name {
			return true
		}
	}
	return false
}

// OpenRows returns a forward-only cursor over the rows of a sheet. The
// caller must close it.
func (wb *Workbook) OpenRows(sheet string) (*RowCursor, error) {
	part, ok := wb.sheetParts[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrPartNotFound)
	}
	rc, err := openZipFile(&wb.zr.Reader, part)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return newRowCursor(rc, wb.sharedStrings, wb.styles, wb.date1904), nil
}

// Close releases the workbook.
func (wb *Workbook) Close() error {
	return errors.Join(wb.zr.Close(), wb.file.Close())
}

func openZipFile(r *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	rc, err := openZipFile(r, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return clean
	}
	return baseDir + "/" + target
}

func parseWorkbookSheets(data []byte) map[string]string {
	result := make(map[string]string) // rId -> sheet name
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, rID string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					name = attr.Value
				case "id":
					rID = attr.Value
				}
			}
			if name != "" && rID != "" {
				result[rID] = name
			}
		}
	}

	return result
}

// parseWorkbookRels maps sheet names to their part paths and locates the
// shared strings part. Chartsheets are mapped too; they have no sheetData
// and read as empty.
func parseWorkbookRels(data []byte, sheetsInfo map[string]string) (map[string]string, string) {
	sheets := make(map[string]string) // sheet name -> part path
	var sharedStrings string
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if sheetName, ok := sheetsInfo[rID]; ok {
				sheets[sheetName] = resolveRelativePath(target, "xl")
			} else if strings.HasSuffix(relType, sharedStringsRelTyp) {
				sharedStrings = resolveRelativePath(target, "xl")
			}
		}
	}

	return sheets, sharedStrings
}
