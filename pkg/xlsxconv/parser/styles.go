package parser

import (
	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

// builtinDateFormats are the built-in number format IDs that render dates or
// times of day. ID 46 ([h]:mm:ss) is an elapsed duration and stays numeric.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true,
	20: true, 21: true, 22: true, 45: true, 47: true,
}

// styleIndex answers whether a cell style index formats numbers as dates.
type styleIndex struct {
	f     *excelize.File
	cache map[int]bool
}

func newStyleIndex(f *excelize.File) *styleIndex {
	return &styleIndex{f: f, cache: make(map[int]bool)}
}

func (s *styleIndex) isDate(idx int) bool {
	if date, ok := s.cache[idx]; ok {
		return date
	}
	date := false
	if style, err := s.f.GetStyle(idx); err == nil && style != nil {
		date = isDateStyle(style.NumFmt, style.CustomNumFmt)
	}
	s.cache[idx] = date
	return date
}

func isDateStyle(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return IsDateFormatCode(*custom)
	}
	return builtinDateFormats[numFmt]
}

// IsDateFormatCode reports whether a number format code renders a date or a
// time of day. Only the first (positive) section is considered, and elapsed
// time formats such as [h]:mm are not dates.
func IsDateFormatCode(code string) bool {
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(code)
	if len(sections) == 0 {
		return false
	}
	date := false
	for _, token := range sections[0].Items {
		switch token.TType {
		case nfp.TokenTypeElapsedDateTimes:
			return false
		case nfp.TokenTypeDateTimes:
			date = true
		}
	}
	return date
}
