package parser

import (
	"math"
	"time"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

// Serial date epochs. The 1900 system is anchored on 1899-12-30 so that
// serial 60 lands on the fictitious 1900-02-29.
var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

const (
	msPerDay = 24 * 60 * 60 * 1000
	// maxSerial is 9999-12-31 in the 1900 system.
	maxSerial = 2958465
	minSerial = -693593
)

// SerialToValue converts an Excel serial date to a date/time value. Serials in
// [0, 1) are times of day. Serials outside the representable calendar range
// stay numbers.
func SerialToValue(serial float64, date1904 bool) models.Value {
	if math.IsNaN(serial) || serial < minSerial || serial > maxSerial+1 {
		return models.FloatValue(serial)
	}
	day := math.Floor(serial)
	ms := math.RoundToEven((serial - day) * msPerDay)
	diff := time.Duration(ms) * time.Millisecond

	if serial >= 0 && serial < 1 && diff < 24*time.Hour {
		return models.TimeOfDayValue(time.Time{}.Add(diff))
	}

	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	} else if serial > 0 && serial < 60 {
		day++
	}
	return models.DateTimeValue(epoch.AddDate(0, 0, int(day)).Add(diff))
}

// isoLayouts are accepted for cells stored with the "d" (ISO 8601) type.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseISODate parses a "d" typed cell value.
func parseISODate(s string) (models.Value, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateTimeValue(t), true
		}
	}
	for _, layout := range []string{"15:04:05.999999999", "15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.TimeOfDayValue(t), true
		}
	}
	return models.Value{}, false
}
