package models

// Job describes the conversion of one workbook.
type Job struct {
	// InputPath is the workbook path as given on the command line or in the manifest.
	InputPath string `json:"input"`
	// Sheet restricts conversion to one sheet. Empty converts every sheet.
	Sheet string `json:"sheet,omitempty"`
	// OutputDir is the directory output files are written to. Empty means the
	// workbook's own directory.
	OutputDir string `json:"output_dir,omitempty"`
	// Prefix is prepended to every output file name. Nil derives the prefix
	// from the workbook file name; a pointer to "" disables the prefix.
	Prefix *string `json:"prefix,omitempty"`
	// Extension is the output file extension without the leading dot.
	Extension string `json:"extension"`

	// ResolvedInput is the absolute, symlink-free workbook path.
	ResolvedInput string `json:"resolved_input,omitempty"`
	// ResolvedPrefix is the prefix actually used for file names.
	ResolvedPrefix string `json:"resolved_prefix,omitempty"`
}
