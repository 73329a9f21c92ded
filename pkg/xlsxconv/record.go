package xlsxconv

import (
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

// TransformField applies the linebreak replacement to text values. CRLF is
// replaced first so a pair is never replaced twice.
func TransformField(v models.Value, p Policy) models.Value {
	if v.Kind != models.KindText || p.LinebreakReplacement == nil {
		return v
	}
	r := *p.LinebreakReplacement
	s := strings.ReplaceAll(v.Text, "\r\n", r)
	s = strings.ReplaceAll(s, "\n", r)
	s = strings.ReplaceAll(s, "\r", r)
	return models.TextValue(s)
}

// HeaderRecord returns the synthetic c1..cN header, led by c0 when row
// indices are written. ok is false when no header is configured.
func HeaderRecord(n int, p Policy) (rec models.Record, ok bool) {
	if !p.ColIndex {
		return nil, false
	}
	rec = make(models.Record, 0, n+1)
	if p.RowIndex {
		rec = append(rec, models.TextValue("c0"))
	}
	for i := 1; i <= n; i++ {
		rec = append(rec, models.TextValue("c"+strconv.Itoa(i)))
	}
	return rec, true
}

// BuildRecord turns the rowNum-th source row into an output record of n
// cells, preceded by the row number when row indices are written. Cells past
// n are dropped; a row with fewer than n cells is an error.
func BuildRecord(row []models.Value, rowNum, n int, p Policy) (models.Record, error) {
	if len(row) < n {
		return nil, &ShortRowError{Row: rowNum, Cells: len(row), Want: n}
	}
	rec := make(models.Record, 0, n+1)
	if p.RowIndex {
		rec = append(rec, models.IntValue(int64(rowNum)))
	}
	for _, v := range row[:n] {
		rec = append(rec, TransformField(v, p))
	}
	return rec, nil
}
