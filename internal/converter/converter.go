// =============================================================================
// Regional Climate CSV Converter - Converter Module
// =============================================================================
//
// This module orchestrates the conversion of a single file stem, from reading
// <stem>.txt to writing <stem>.csv.
//
// CONVERSION PIPELINE:
//   1. Open and parse the input text file
//   2. Remap columns and coerce types (pure, in memory)
//   3. Render the CSV (and optionally XLSX) bytes
//   4. Write each output atomically
//
// Every output is fully rendered before anything touches the output
// directory, so a malformed input never leaves a partial or stale file
// behind from this run.
//
// =============================================================================

package converter

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/regional-climate-csv/internal/config"
	"github.com/ginjaninja78/regional-climate-csv/internal/csvwriter"
	"github.com/ginjaninja78/regional-climate-csv/internal/remapper"
	"github.com/ginjaninja78/regional-climate-csv/internal/txtparser"
	"github.com/ginjaninja78/regional-climate-csv/internal/types"
	"github.com/ginjaninja78/regional-climate-csv/internal/xlsxwriter"
	"github.com/ginjaninja78/regional-climate-csv/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single stem.
type Result struct {
	// Stem is the file stem that was converted.
	Stem string

	// InputFile is the path of the source text file.
	InputFile string

	// OutputFiles lists the written files, CSV first.
	// Empty on failure and in dry-run mode.
	OutputFiles []string

	// Error contains the error if the conversion failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// RowsConverted is the number of data rows written.
	RowsConverted int

	// InputColumns is the header width of the source file.
	InputColumns int

	// OutputColumns is the header width of the CSV.
	OutputColumns int

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// Success reports whether the conversion finished without error.
func (r Result) Success() bool {
	return r.Error == nil
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging interface used by the converter.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Converter converts file stems according to a configuration.
// It holds no per-file state and may be shared between goroutines.
type Converter struct {
	cfg    *config.Config
	files  *utils.FileManager
	logger Logger
	dryRun bool
}

// Option customizes a Converter.
type Option func(c *Converter)

// WithDryRun converts in memory without writing any output.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) {
		c.dryRun = dryRun
	}
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - files: The file manager for input and output paths.
//   - logger: The logger.
func New(cfg *config.Config, files *utils.FileManager, logger Logger, opts ...Option) *Converter {
	c := &Converter{
		cfg:    cfg,
		files:  files,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert reads <stem>.txt and writes <stem>.csv.
//
// RETURNS:
//   - A Result describing the outcome. Result.Error is set on failure.
func (c *Converter) Convert(stem string) Result {
	startTime := time.Now()
	result := Result{
		Stem:      stem,
		InputFile: c.files.InputPath(stem),
	}

	c.logger.Debugf("converting %s", result.InputFile)

	table, inputColumns, err := c.Load(stem)
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.RowsConverted = len(table.Rows)
	result.Stats.InputColumns = inputColumns
	result.Stats.OutputColumns = table.Width()

	// Render every output before writing any of them.
	outputs, err := c.render(stem, table)
	if err != nil {
		result.Error = fmt.Errorf("%s: %w", stem, err)
		return result
	}

	if c.dryRun {
		c.logger.Infof("%s: %d rows, %d columns (dry run, nothing written)", stem, result.Stats.RowsConverted, result.Stats.OutputColumns)
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	if err := c.files.EnsureOutputDir(); err != nil {
		result.Error = fmt.Errorf("%s: %w", stem, err)
		return result
	}

	for _, out := range outputs {
		if err := utils.WriteFileAtomic(c.files.Fs, out.path, out.data); err != nil {
			result.Error = fmt.Errorf("%s: failed to write %s: %w", stem, out.path, err)
			return result
		}
		result.OutputFiles = append(result.OutputFiles, out.path)
		c.logger.Debugf("wrote %s (%d bytes)", out.path, len(out.data))
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	c.logger.Infof("%s -> %s (%d rows)", result.InputFile, result.OutputFiles[0], result.Stats.RowsConverted)

	return result
}

// Load reads and remaps the input of a stem without writing anything.
//
// RETURNS:
//   - The converted table.
//   - The header width of the source file.
//   - An error wrapping the stem if reading or remapping fails.
func (c *Converter) Load(stem string) (*types.ResultTable, int, error) {
	file, err := c.files.Open(stem)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", stem, err)
	}
	defer file.Close()

	raw, err := txtparser.Parse(file, c.cfg.NormalizedEncoding())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to parse input: %w", stem, err)
	}

	table, err := remapper.Remap(raw, c.cfg.Rules)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to convert: %w", stem, err)
	}

	return table, len(raw.Header), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

type output struct {
	path string
	data []byte
}

// render produces the bytes of every configured output format.
func (c *Converter) render(stem string, table *types.ResultTable) ([]output, error) {
	csvData, err := csvwriter.Render(table, csvwriter.Options{UseCRLF: c.cfg.UseCRLF()})
	if err != nil {
		return nil, fmt.Errorf("failed to render CSV: %w", err)
	}

	outputs := []output{{path: c.files.OutputPath(stem, utils.CSVExt), data: csvData}}

	if c.cfg.ExportXLSX {
		xlsxData, err := xlsxwriter.Render(table, stem)
		if err != nil {
			return nil, fmt.Errorf("failed to render XLSX: %w", err)
		}
		outputs = append(outputs, output{path: c.files.OutputPath(stem, utils.XLSXExt), data: xlsxData})
	}

	return outputs, nil
}
