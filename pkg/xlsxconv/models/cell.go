// Package models defines data structures for workbook conversion.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindEmpty is a cell without a value.
	KindEmpty Kind = iota
	// KindText is a string cell (shared, inline, formula string or error text).
	KindText
	// KindNumber is a numeric cell.
	KindNumber
	// KindBool is a boolean cell.
	KindBool
	// KindDateTime is a numeric cell formatted as a date or time.
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single cell value or output field.
type Value struct {
	// Kind selects which of the fields below is meaningful.
	Kind Kind
	// Text holds the KindText payload.
	Text string
	// Float holds the KindNumber payload when Integral is false.
	Float float64
	// Int holds the KindNumber payload when Integral is true.
	Int int64
	// Integral reports whether a number was stored as an integer literal.
	Integral bool
	// Bool holds the KindBool payload.
	Bool bool
	// Time holds the KindDateTime payload.
	Time time.Time
	// TimeOnly reports a time-of-day value with no date part.
	TimeOnly bool
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IntValue returns an integer number.
func IntValue(i int64) Value { return Value{Kind: KindNumber, Int: i, Integral: true} }

// FloatValue returns a floating point number.
func FloatValue(f float64) Value { return Value{Kind: KindNumber, Float: f} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// DateTimeValue returns a date/time value.
func DateTimeValue(t time.Time) Value { return Value{Kind: KindDateTime, Time: t} }

// TimeOfDayValue returns a time value without a date part.
func TimeOfDayValue(t time.Time) Value { return Value{Kind: KindDateTime, Time: t, TimeOnly: true} }

// IsNumeric reports whether the value counts as numeric for quoting purposes.
// Booleans are numeric.
func (v Value) IsNumeric() bool {
	return v.Kind == KindNumber || v.Kind == KindBool
}

// String renders the value as it appears in delimited output.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		if v.Integral {
			return strconv.FormatInt(v.Int, 10)
		}
		return FormatFloat(v.Float)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindDateTime:
		layout := "2006-01-02 15:04:05"
		if v.TimeOnly {
			layout = "15:04:05"
		}
		s := v.Time.Format(layout)
		if us := v.Time.Nanosecond() / 1000; us != 0 {
			s += fmt.Sprintf(".%06d", us)
		}
		return s
	default:
		return ""
	}
}

// FormatFloat renders f in shortest round-trip form: fixed notation with at
// least one fractional digit when the decimal exponent lies in [-4, 16),
// scientific notation otherwise.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
