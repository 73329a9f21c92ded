// Package main provides the CLI entry point for xlsxconv.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/xlsxconv-go/pkg/xlsxconv"
)

// version is set at build time via -ldflags.
var version = "dev"

// ExitError carries a process exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &ExitError{Code: 2, Err: err}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

type options struct {
	input      string
	outputDir  string
	colIndex   bool
	rowIndex   bool
	delimiter  *enumFlag
	encoding   *enumFlag
	extension  string
	linebreak  string
	maxCols    int
	noPrefix   bool
	prefix     string
	quoteChar  *charFlag
	quoting    *enumFlag
	sheet      string
	sheetNames bool
	logLevel   *enumFlag
	logFormat  *enumFlag
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{
		delimiter: newEnumFlag(",", xlsxconv.Delimiters...),
		encoding:  newEnumFlag(string(xlsxconv.EncodingUTF8), xlsxconv.Encodings...),
		quoteChar: &charFlag{value: '"'},
		quoting:   newEnumFlag(string(xlsxconv.QuoteMinimal), xlsxconv.Quotings...),
		logLevel:  newEnumFlag("info", logLevels...),
		logFormat: newEnumFlag("text", logFormats...),
	}

	rootCmd := &cobra.Command{
		Use:   "xlsxconv -i input.xlsx",
		Short: "Convert Excel workbooks into delimited text files",
		Long: `xlsxconv writes every worksheet of an Excel workbook to its own delimited
text file. The input is a workbook (.xlsx, .xlsm, .xltx, .xltm) or a tab
separated manifest (.txt) listing workbooks to convert.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unexpected arguments: %v", args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Flags(), stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate("xlsxconv {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := rootCmd.Flags()
	flags.SortFlags = false
	flags.StringVarP(&o.input, "input", "i", "", "Workbook or tab separated manifest of workbooks (required)")
	flags.StringVarP(&o.outputDir, "outputDir", "o", "", "Output directory (default: the workbook's directory)")
	flags.BoolVar(&o.colIndex, "col_index", false, "Write a c1..cN header line first")
	flags.BoolVar(&o.rowIndex, "row_index", false, "Prepend the 1-based row number to every line")
	flags.Var(o.delimiter, "delimiter", "Field delimiter: "+o.delimiter.choices())
	flags.Var(o.encoding, "encoding", "Output encoding: "+o.encoding.choices())
	flags.StringVar(&o.extension, "extension", "csv", "Output file extension")
	flags.StringVar(&o.linebreak, "linebreak_replacement", "", "Replace line breaks inside text cells with this string")
	flags.IntVar(&o.maxCols, "max_cols", -1, "Maximum number of columns to output (-1: no limit)")
	flags.BoolVar(&o.noPrefix, "noprefix", false, "Do not prefix output file names")
	flags.StringVar(&o.prefix, "prefix", "", "Output file name prefix (default: the workbook name)")
	flags.Var(o.quoteChar, "quotechar", "Quote character")
	flags.Var(o.quoting, "quoting", "Quoting mode: "+o.quoting.choices())
	flags.StringVar(&o.sheet, "sheet", "", "Convert only this sheet")
	flags.BoolVar(&o.sheetNames, "sheetnames", false, "List the sheet names of every input instead of converting")
	flags.Var(o.logLevel, "log-level", "Log level: "+o.logLevel.choices())
	flags.Var(o.logFormat, "log-format", "Log format: "+o.logFormat.choices())

	return rootCmd
}

func (o *options) run(flags *pflag.FlagSet, stdout, stderr io.Writer) error {
	if o.input == "" {
		return usageError(errors.New(`required flag "input" not set`))
	}
	logger := newLogger(stderr, o.logLevel.String(), o.logFormat.String()).
		With("run_id", uuid.New().String())

	p, err := o.policy(flags)
	if err != nil {
		return usageError(err)
	}
	jobs, err := xlsxconv.PlanJobs(o.input, o.jobDefaults(flags))
	if err != nil {
		return err
	}

	if o.sheetNames {
		return xlsxconv.ListSheetNames(stdout, jobs)
	}
	_, err = xlsxconv.ConvertAll(jobs, p, logger)
	return err
}

func (o *options) policy(flags *pflag.FlagSet) (xlsxconv.Policy, error) {
	delimiter, err := xlsxconv.ParseDelimiter(o.delimiter.String())
	if err != nil {
		return xlsxconv.Policy{}, err
	}
	p := xlsxconv.Policy{
		Delimiter:  delimiter,
		QuoteChar:  o.quoteChar.value,
		Quoting:    xlsxconv.Quoting(o.quoting.String()),
		Encoding:   xlsxconv.Encoding(o.encoding.String()),
		RowIndex:   o.rowIndex,
		ColIndex:   o.colIndex,
		MaxColumns: o.maxCols,
	}
	if flags.Changed("linebreak_replacement") {
		p.LinebreakReplacement = &o.linebreak
	}
	return p, p.Validate()
}

func (o *options) jobDefaults(flags *pflag.FlagSet) xlsxconv.JobDefaults {
	d := xlsxconv.JobDefaults{
		OutputDir: o.outputDir,
		NoPrefix:  o.noPrefix,
		Sheet:     o.sheet,
		Extension: o.extension,
	}
	if flags.Changed("prefix") {
		d.Prefix = &o.prefix
	}
	return d
}
