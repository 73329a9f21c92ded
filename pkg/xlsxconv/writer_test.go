package xlsxconv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

func writeRecords(t *testing.T, p Policy, recs ...models.Record) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewRecordWriter(&buf, p)
	if err != nil {
		t.Fatalf("NewRecordWriter failed: %v", err)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return buf.String(), err
		}
	}
	return buf.String(), nil
}

func TestRecordWriterQuoting(t *testing.T) {
	rec := models.Record{
		models.TextValue("a"),
		models.TextValue("b,c"),
		models.TextValue(`say "hi"`),
		models.TextValue("x\ny"),
		models.IntValue(1),
		models.FloatValue(2.5),
		models.BoolValue(true),
		models.Empty(),
	}

	tests := []struct {
		quoting Quoting
		want    string
	}{
		{QuoteMinimal, "a,\"b,c\",\"say \"\"hi\"\"\",\"x\ny\",1,2.5,True,\n"},
		{QuoteAll, "\"a\",\"b,c\",\"say \"\"hi\"\"\",\"x\ny\",\"1\",\"2.5\",\"True\",\"\"\n"},
		{QuoteNonNumeric, "\"a\",\"b,c\",\"say \"\"hi\"\"\",\"x\ny\",1,2.5,True,\"\"\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.quoting), func(t *testing.T) {
			p := DefaultPolicy()
			p.Quoting = tt.quoting
			got, err := writeRecords(t, p, rec)
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRecordWriterQuoteNone(t *testing.T) {
	p := DefaultPolicy()
	p.Quoting = QuoteNone

	got, err := writeRecords(t, p, models.Record{models.TextValue("a"), models.IntValue(1), models.Empty()})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got != "a,1,\n" {
		t.Errorf("Expected %q, got %q", "a,1,\n", got)
	}

	for _, field := range []string{"a,b", `a"b`, "a\nb", "a\rb"} {
		if _, err := writeRecords(t, p, models.Record{models.TextValue(field)}); !errors.Is(err, ErrNeedsEscape) {
			t.Errorf("Field %q: expected ErrNeedsEscape, got %v", field, err)
		}
	}
}

func TestRecordWriterSingleEmptyField(t *testing.T) {
	got, err := writeRecords(t, DefaultPolicy(), models.Record{models.Empty()}, models.Record{models.TextValue("")})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got != "\"\"\n\"\"\n" {
		t.Errorf("Expected two quoted empty lines, got %q", got)
	}

	p := DefaultPolicy()
	p.Quoting = QuoteNone
	if _, err := writeRecords(t, p, models.Record{models.Empty()}); !errors.Is(err, ErrNeedsEscape) {
		t.Errorf("Expected ErrNeedsEscape, got %v", err)
	}
}

func TestRecordWriterCustomCharacters(t *testing.T) {
	p := DefaultPolicy()
	p.Delimiter = ';'
	p.QuoteChar = '\''

	got, err := writeRecords(t, p, models.Record{
		models.TextValue("it's"),
		models.TextValue("a;b"),
		models.TextValue(`x"y`),
		models.TextValue("a,b"),
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "'it''s';'a;b';x\"y;a,b\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRecordWriterRoundTrip(t *testing.T) {
	records := [][]string{
		{"plain", "with,comma", `with "quotes"`},
		{"multi\nline", "", " padded "},
		{"", "", ""},
	}

	var recs []models.Record
	for _, r := range records {
		rec := make(models.Record, len(r))
		for i, s := range r {
			rec[i] = models.TextValue(s)
		}
		recs = append(recs, rec)
	}
	out, err := writeRecords(t, DefaultPolicy(), recs...)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read output back: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		for j := range records[i] {
			if got[i][j] != records[i][j] {
				t.Errorf("Record %d field %d: expected %q, got %q", i, j, records[i][j], got[i][j])
			}
		}
	}
}

func TestRecordWriterEncodings(t *testing.T) {
	rec := models.Record{models.TextValue("é")}

	p := DefaultPolicy()
	p.Encoding = EncodingASCII
	if _, err := writeRecords(t, p, rec); !errors.Is(err, ErrUnencodable) {
		t.Errorf("ascii: expected ErrUnencodable, got %v", err)
	} else if !strings.Contains(err.Error(), "U+00E9") {
		t.Errorf("ascii: expected error to name the character, got %v", err)
	}

	if got, err := writeRecords(t, p, models.Record{models.TextValue("ok")}); err != nil || got != "ok\n" {
		t.Errorf("ascii: expected %q, got %q (%v)", "ok\n", got, err)
	}

	p.Encoding = EncodingLatin1
	got, err := writeRecords(t, p, rec)
	if err != nil {
		t.Fatalf("latin-1: Write failed: %v", err)
	}
	if got != "\xe9\n" {
		t.Errorf("latin-1: expected %q, got %q", "\xe9\n", got)
	}
	if _, err := writeRecords(t, p, models.Record{models.TextValue("€")}); !errors.Is(err, ErrUnencodable) {
		t.Errorf("latin-1: expected ErrUnencodable, got %v", err)
	}

	p.Encoding = EncodingUTF8
	if got, err := writeRecords(t, p, rec); err != nil || got != "é\n" {
		t.Errorf("utf-8: expected %q, got %q (%v)", "é\n", got, err)
	}
}

func TestRecordWriterUTF16(t *testing.T) {
	p := DefaultPolicy()
	p.Encoding = EncodingUTF16

	got, err := writeRecords(t, p, models.Record{models.TextValue("a")}, models.Record{models.TextValue("b")})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "\xff\xfea\x00\n\x00b\x00\n\x00"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNewRecordWriterInvalidPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.QuoteChar = ','
	if _, err := NewRecordWriter(&bytes.Buffer{}, p); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("Expected ErrInvalidPolicy, got %v", err)
	}
}
