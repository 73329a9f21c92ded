package xlsxconv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

// Manifest column names, matched case-insensitively.
const (
	manifestInput     = "input"
	manifestOutputDir = "outputdir"
	manifestPrefix    = "prefix"
	manifestSheet     = "sheet"
)

// ReadManifest parses a tab separated manifest with a header line. Every
// following non-blank line becomes one job, in file order. Columns missing
// from the header take their value from d.
func ReadManifest(r io.Reader, d JobDefaults) ([]models.Job, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingInputColumn
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	if _, ok := columns[manifestInput]; !ok {
		return nil, ErrMissingInputColumn
	}

	field := func(record []string, name string) (string, bool) {
		i, ok := columns[name]
		if !ok {
			return "", false
		}
		if i < len(record) {
			return record[i], true
		}
		return "", true
	}

	var jobs []models.Job
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return jobs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)

		input, _ := field(record, manifestInput)
		if input == "" {
			return nil, fmt.Errorf("%w: line %d has no input", ErrMalformedManifest, line)
		}
		job := models.Job{
			InputPath: input,
			Sheet:     d.Sheet,
			OutputDir: d.OutputDir,
			Prefix:    d.Prefix,
			Extension: d.Extension,
		}
		if v, ok := field(record, manifestOutputDir); ok {
			job.OutputDir = v
		}
		if v, ok := field(record, manifestPrefix); ok {
			job.Prefix = &v
		}
		if v, ok := field(record, manifestSheet); ok {
			job.Sheet = v
		}
		if d.NoPrefix {
			job.Prefix = d.prefix()
		}
		jobs = append(jobs, job)
	}
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
