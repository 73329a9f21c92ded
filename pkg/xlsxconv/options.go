// Package xlsxconv converts OOXML workbooks into delimited text files, one
// file per worksheet.
package xlsxconv

import (
	"fmt"
	"strings"
)

// Quoting controls which fields are wrapped in the quote character.
type Quoting string

const (
	// QuoteAll quotes every field.
	QuoteAll Quoting = "ALL"
	// QuoteMinimal quotes fields containing the delimiter, the quote character or a line break.
	QuoteMinimal Quoting = "MINIMAL"
	// QuoteNone never quotes. Fields that would need quoting are an error.
	QuoteNone Quoting = "NONE"
	// QuoteNonNumeric quotes every field that is not a number or boolean.
	QuoteNonNumeric Quoting = "NONNUMERIC"
)

// Quotings lists the accepted quoting modes.
var Quotings = []string{string(QuoteAll), string(QuoteMinimal), string(QuoteNone), string(QuoteNonNumeric)}

// Encoding names an output text encoding.
type Encoding string

const (
	EncodingASCII  Encoding = "ascii"
	EncodingLatin1 Encoding = "latin-1"
	EncodingUTF8   Encoding = "utf-8"
	EncodingUTF16  Encoding = "utf-16"
)

// Encodings lists the accepted output encodings.
var Encodings = []string{string(EncodingASCII), string(EncodingLatin1), string(EncodingUTF8), string(EncodingUTF16)}

// Delimiters lists the accepted delimiter names.
var Delimiters = []string{",", ";", "|", "tab"}

// Policy configures how every sheet of an invocation is serialized. It is
// shared read-only by all jobs.
type Policy struct {
	// Delimiter separates fields.
	Delimiter rune
	// QuoteChar wraps quoted fields and is doubled inside them.
	QuoteChar rune
	// Quoting selects which fields are quoted.
	Quoting Quoting
	// Encoding is the output text encoding.
	Encoding Encoding
	// LinebreakReplacement replaces CRLF, LF and CR in text cells.
	// Nil leaves line breaks alone.
	LinebreakReplacement *string
	// RowIndex prepends the 1-based row number to every data record.
	RowIndex bool
	// ColIndex writes a c1..cN header record first.
	ColIndex bool
	// MaxColumns caps the number of source columns. Negative means unbounded.
	MaxColumns int
}

// DefaultPolicy returns comma separated, minimally quoted UTF-8 output.
func DefaultPolicy() Policy {
	return Policy{
		Delimiter:  ',',
		QuoteChar:  '"',
		Quoting:    QuoteMinimal,
		Encoding:   EncodingUTF8,
		MaxColumns: -1,
	}
}

// Validate checks that the policy can produce parseable output.
func (p Policy) Validate() error {
	if p.Delimiter == 0 || p.Delimiter == '\r' || p.Delimiter == '\n' {
		return fmt.Errorf("%w: invalid delimiter %q", ErrInvalidPolicy, p.Delimiter)
	}
	if p.QuoteChar == 0 || p.QuoteChar == '\r' || p.QuoteChar == '\n' {
		return fmt.Errorf("%w: invalid quote character %q", ErrInvalidPolicy, p.QuoteChar)
	}
	if p.QuoteChar == p.Delimiter {
		return fmt.Errorf("%w: quote character and delimiter are both %q", ErrInvalidPolicy, p.Delimiter)
	}
	if _, err := ParseQuoting(string(p.Quoting)); err != nil {
		return err
	}
	if _, err := ParseEncoding(string(p.Encoding)); err != nil {
		return err
	}
	return nil
}

// columns returns the number of columns to output for a sheet whose first
// row has width cells, and whether the cap was applied.
func (p Policy) columns(width int) (int, bool) {
	if p.MaxColumns > -1 && width > p.MaxColumns {
		return p.MaxColumns, true
	}
	return width, false
}

// ParseDelimiter maps a delimiter name to its character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case ",", ";", "|":
		return rune(s[0]), nil
	case "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("%w: delimiter must be one of %s, got %q", ErrInvalidPolicy, strings.Join(Delimiters, " "), s)
}

// ParseQuoting parses a quoting mode name.
func ParseQuoting(s string) (Quoting, error) {
	for _, q := range Quotings {
		if s == q {
			return Quoting(s), nil
		}
	}
	return "", fmt.Errorf("%w: quoting must be one of %s, got %q", ErrInvalidPolicy, strings.Join(Quotings, " "), s)
}

// ParseEncoding parses an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	for _, e := range Encodings {
		if s == e {
			return Encoding(s), nil
		}
	}
	return "", fmt.Errorf("%w: encoding must be one of %s, got %q", ErrInvalidPolicy, strings.Join(Encodings, " "), s)
}

// ParseQuoteChar checks that s is exactly one character.
func ParseQuoteChar(s string) (rune, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: quote character must be a single character, got %q", ErrInvalidPolicy, s)
	}
	return r[0], nil
}
