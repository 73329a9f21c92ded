package xlsxconv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

// RecordWriter serializes records as delimited lines terminated by a single
// linefeed.
type RecordWriter struct {
	w         io.Writer
	codec     codec
	delimiter rune
	quote     rune
	quoting   Quoting
	started   bool
	line      strings.Builder
}

// NewRecordWriter returns a writer serializing records to w under p.
func NewRecordWriter(w io.Writer, p Policy) (*RecordWriter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c, err := codecFor(p.Encoding)
	if err != nil {
		return nil, err
	}
	return &RecordWriter{
		w:         w,
		codec:     c,
		delimiter: p.Delimiter,
		quote:     p.QuoteChar,
		quoting:   p.Quoting,
	}, nil
}

// Write serializes one record as one line.
func (rw *RecordWriter) Write(rec models.Record) error {
	rw.line.Reset()
	if len(rec) == 1 && rec[0].String() == "" {
		// A lone empty field would be indistinguishable from an empty line.
		if rw.quoting == QuoteNone {
			return fmt.Errorf("%w: single empty field record must be quoted", ErrNeedsEscape)
		}
		rw.line.WriteRune(rw.quote)
		rw.line.WriteRune(rw.quote)
	} else {
		for i, v := range rec {
			if i > 0 {
				rw.line.WriteRune(rw.delimiter)
			}
			if err := rw.writeField(v); err != nil {
				return err
			}
		}
	}
	rw.line.WriteByte('\n')

	out, err := rw.codec.encode(rw.line.String())
	if err != nil {
		return err
	}
	if !rw.started {
		rw.started = true
		if len(rw.codec.bom) > 0 {
			if _, err := rw.w.Write(rw.codec.bom); err != nil {
				return err
			}
		}
	}
	_, err = rw.w.Write(out)
	return err
}

func (rw *RecordWriter) writeField(v models.Value) error {
	s := v.String()
	special := rw.needsQuote(s)

	var quote bool
	switch rw.quoting {
	case QuoteAll:
		quote = true
	case QuoteNonNumeric:
		quote = special || !v.IsNumeric()
	case QuoteNone:
		if special {
			return fmt.Errorf("%w: field %q", ErrNeedsEscape, s)
		}
	default:
		quote = special
	}

	if !quote {
		rw.line.WriteString(s)
		return nil
	}
	rw.line.WriteRune(rw.quote)
	for _, r := range s {
		if r == rw.quote {
			rw.line.WriteRune(r)
		}
		rw.line.WriteRune(r)
	}
	rw.line.WriteRune(rw.quote)
	return nil
}

func (rw *RecordWriter) needsQuote(s string) bool {
	return strings.ContainsRune(s, rw.delimiter) ||
		strings.ContainsRune(s, rw.quote) ||
		strings.ContainsAny(s, "\r\n")
}

// outputFile is a RecordWriter backed by a buffered file.
type outputFile struct {
	*RecordWriter
	f  *os.File
	bw *bufio.Writer
}

func createOutput(path string, p Policy) (*outputFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	rw, err := NewRecordWriter(bw, p)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &outputFile{RecordWriter: rw, f: f, bw: bw}, nil
}

// Close flushes buffered output and closes the file.
func (o *outputFile) Close() error {
	return errors.Join(o.bw.Flush(), o.f.Close())
}
