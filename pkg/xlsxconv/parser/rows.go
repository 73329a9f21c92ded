package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
	"github.com/xuri/excelize/v2"
)

// RowCursor streams the rows of one worksheet. It is single use: rows are
// decoded on demand from the worksheet XML and cannot be revisited.
//
// Rows are numbered from 1. Row numbers skipped in the file come back as
// empty rows, and every row is padded with empty cells to the width declared
// by the sheet's <dimension> (or to its own last cell when none is declared).
type RowCursor struct {
	rc            io.ReadCloser
	decoder       *xml.Decoder
	sharedStrings []string
	styles        *styleIndex
	date1904      bool

	width   int
	next    int // number of the next row to emit
	lastRow int // number of the last <row> decoded
	pending *rowData
	row     []models.Value
	done    bool
	err     error
}

type rowData struct {
	num   int
	cells []models.Value
}

func newRowCursor(rc io.ReadCloser, sharedStrings []string, styles *styleIndex, date1904 bool) *RowCursor {
	return &RowCursor{
		rc:            rc,
		decoder:       xml.NewDecoder(rc),
		sharedStrings: sharedStrings,
		styles:        styles,
		date1904:      date1904,
		next:          1,
	}
}

// Next advances to the next row. It returns false when the sheet is
// exhausted or an error occurred; check Err afterwards.
func (c *RowCursor) Next() bool {
	if c.done {
		return false
	}
	for c.pending == nil || c.pending.num < c.next {
		row, err := c.readRow()
		if err != nil {
			c.err = err
		}
		if row == nil {
			c.done = true
			c.row = nil
			return false
		}
		c.pending = row
	}

	if c.pending.num > c.next {
		c.row = make([]models.Value, c.width)
	} else {
		c.row = c.pending.cells
		c.pending = nil
	}
	c.next++
	return true
}

// Row returns the current row. The slice is owned by the caller.
func (c *RowCursor) Row() []models.Value {
	return c.row
}

// Err returns the first decoding error, if any.
func (c *RowCursor) Err() error {
	return c.err
}

// Close releases the underlying worksheet stream.
func (c *RowCursor) Close() error {
	return c.rc.Close()
}

// readRow decodes up to the next <row>. It returns nil at the end of the
// sheet data.
func (c *RowCursor) readRow() (*rowData, error) {
	for {
		token, err := c.decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "dimension":
				for _, attr := range t.Attr {
					if attr.Name.Local == "ref" {
						if dim, ok := parseDimension(attr.Value); ok {
							c.width = dim.Width()
						}
					}
				}
			case "row":
				return c.parseRow(t)
			}
		case xml.EndElement:
			if t.Name.Local == "sheetData" {
				return nil, nil
			}
		}
	}
}

func (c *RowCursor) parseRow(start xml.StartElement) (*rowData, error) {
	num := c.lastRow + 1
	for _, attr := range start.Attr {
		if attr.Name.Local == "r" {
			if n, err := strconv.Atoi(attr.Value); err == nil && n > 0 {
				num = n
			}
		}
	}
	c.lastRow = num

	cells := make([]models.Value, c.width)
	lastCol := 0
	for {
		token, err := c.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", num, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "c" {
				if err := c.decoder.Skip(); err != nil {
					return nil, fmt.Errorf("row %d: %w", num, err)
				}
				continue
			}
			col, value, err := c.parseCell(t, lastCol+1)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", num, err)
			}
			lastCol = col
			for len(cells) < col {
				cells = append(cells, models.Empty())
			}
			cells[col-1] = value
		case xml.EndElement:
			return &rowData{num: num, cells: cells}, nil
		}
	}
}

// parseCell decodes one <c> element. col is used when the cell carries no
// reference of its own.
func (c *RowCursor) parseCell(start xml.StartElement, col int) (int, models.Value, error) {
	var ref, typ string
	style := 0
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "r":
			ref = attr.Value
		case "t":
			typ = attr.Value
		case "s":
			if s, err := strconv.Atoi(attr.Value); err == nil {
				style = s
			}
		}
	}
	if ref != "" {
		n, _, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			return 0, models.Value{}, err
		}
		col = n
	}

	var raw, inline string
	var hasValue, hasInline bool
	for {
		token, err := c.decoder.Token()
		if err != nil {
			return 0, models.Value{}, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "v":
				raw, err = readElementText(c.decoder)
				hasValue = true
			case "is":
				inline, err = readRichText(c.decoder)
				hasInline = true
			default:
				err = c.decoder.Skip()
			}
			if err != nil {
				return 0, models.Value{}, err
			}
		case xml.EndElement:
			value, err := c.cellValue(typ, style, raw, hasValue, inline, hasInline)
			if err != nil {
				return 0, models.Value{}, fmt.Errorf("cell %s: %w", cellName(col, c.lastRow), err)
			}
			return col, value, nil
		}
	}
}

func (c *RowCursor) cellValue(typ string, style int, raw string, hasValue bool, inline string, hasInline bool) (models.Value, error) {
	if typ == "inlineStr" && hasInline {
		return models.TextValue(unescapeText(inline)), nil
	}
	if !hasValue {
		return models.Empty(), nil
	}

	switch typ {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || idx < 0 || idx >= len(c.sharedStrings) {
			return models.Value{}, fmt.Errorf("invalid shared string index %q", raw)
		}
		return models.TextValue(c.sharedStrings[idx]), nil
	case "str", "inlineStr":
		return models.TextValue(unescapeText(raw)), nil
	case "e":
		return models.TextValue(raw), nil
	case "b":
		switch strings.TrimSpace(raw) {
		case "1", "true":
			return models.BoolValue(true), nil
		case "0", "false":
			return models.BoolValue(false), nil
		}
		return models.Value{}, fmt.Errorf("invalid boolean %q", raw)
	case "d":
		v, ok := parseISODate(strings.TrimSpace(raw))
		if !ok {
			return models.Value{}, fmt.Errorf("invalid ISO 8601 date %q", raw)
		}
		return v, nil
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Empty(), nil
	}
	if c.styles != nil && c.styles.isDate(style) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Value{}, fmt.Errorf("invalid number %q", raw)
		}
		return SerialToValue(f, c.date1904), nil
	}
	return parseNumber(raw)
}

// parseNumber keeps integer literals integral, like the stored text.
func parseNumber(raw string) (models.Value, error) {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return models.IntValue(i), nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Value{}, fmt.Errorf("invalid number %q", raw)
	}
	return models.FloatValue(f), nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row, col)
	}
	return name
}
