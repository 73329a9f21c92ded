package xlsxconv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv/models"
)

// WorkbookExtensions lists the accepted workbook file extensions.
var WorkbookExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// ManifestExtension marks an input as a manifest of workbooks.
const ManifestExtension = ".txt"

// JobDefaults holds the invocation-wide values a job falls back to.
type JobDefaults struct {
	OutputDir string
	// Prefix is nil when no prefix was given; the workbook name is used then.
	Prefix *string
	// NoPrefix forces an empty prefix on every job.
	NoPrefix bool
	Sheet    string
	// Extension is the output file extension without the leading dot.
	Extension string
}

func (d JobDefaults) prefix() *string {
	if d.NoPrefix {
		empty := ""
		return &empty
	}
	return d.Prefix
}

// PlanJobs turns the input argument into conversion jobs. A workbook yields
// one job; a manifest yields one job per line.
func PlanJobs(input string, d JobDefaults) ([]models.Job, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if ext == ManifestExtension {
		return planManifest(input, d)
	}
	for _, e := range WorkbookExtensions {
		if ext == e {
			return []models.Job{{
				InputPath: input,
				Sheet:     d.Sheet,
				OutputDir: d.OutputDir,
				Prefix:    d.prefix(),
				Extension: d.Extension,
			}}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (want one of %s or %s)",
		ErrInvalidExtension, input, strings.Join(WorkbookExtensions, " "), ManifestExtension)
}

func planManifest(path string, d JobDefaults) ([]models.Job, error) {
	if !isRegularFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	jobs, err := ReadManifest(f, d)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return jobs, nil
}

// ResolveJob checks a job's input and output locations and fills in the
// derived fields. It is called right before the job is converted.
func ResolveJob(job models.Job) (models.Job, error) {
	resolved, err := resolveInput(job.InputPath)
	if err != nil {
		return job, err
	}
	job.ResolvedInput = resolved

	if job.OutputDir == "" {
		job.OutputDir = filepath.Dir(resolved)
	} else if info, err := os.Stat(job.OutputDir); err != nil || !info.IsDir() {
		return job, fmt.Errorf("%w: %s", ErrNoSuchDirectory, job.OutputDir)
	}

	if job.Prefix != nil {
		job.ResolvedPrefix = *job.Prefix
	} else {
		base := filepath.Base(resolved)
		job.ResolvedPrefix = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return job, nil
}

// OutputPath returns the file a sheet of a resolved job is written to.
func OutputPath(job models.Job, sheet string) string {
	return filepath.Join(job.OutputDir, job.ResolvedPrefix+sheet+"."+job.Extension)
}

// resolveInput returns the absolute, symlink-free path of an existing
// regular file.
func resolveInput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil || !isRegularFile(resolved) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return resolved, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
