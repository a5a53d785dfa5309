// =============================================================================
// Regional Climate CSV Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command. It converts every configured file
// stem (or the stems given as arguments) from <stem>.txt to <stem>.csv.
//
// COMMAND USAGE:
//   climatecsv convert [stems...] [flags]
//
// FLAGS:
//   --dry-run            : Convert in memory without writing output files
//   --xlsx               : Also write <stem>.xlsx
//   --continue-on-error  : Attempt every stem even after a failure
//   --concurrency        : Number of files converted in parallel
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/regional-climate-csv/internal/converter"
	"github.com/ginjaninja78/regional-climate-csv/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun converts without writing output files.
var dryRun bool

// exportXLSX enables the spreadsheet export.
var exportXLSX bool

// continueOnError keeps going after a failed stem.
var continueOnError bool

// concurrency overrides max_concurrency when non-zero.
var concurrency int

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert [stems...]",
	Short: "Convert regional averages text files to CSV",
	Long: `The convert command reads <input-dir>/<stem>.txt for every stem and writes
<output-dir>/<stem>.csv. Without arguments the stems from the configuration
are used (by default the precipitation, sunshine and temperature files).

Output files are written atomically: a file that fails to convert leaves any
existing CSV untouched. By default the first failure stops the run.`,

	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	registerConvertFlags(convertCmd)
}

// registerConvertFlags adds the conversion flags to a command. The root
// command carries them too because it converts when run on its own.
func registerConvertFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Convert in memory without writing output files")
	cmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "Also write <stem>.xlsx")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Convert remaining files after a failure")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of files converted in parallel (overrides max_concurrency)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert loads the configuration and converts every stem.
func runConvert(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("xlsx") {
		cfg.ExportXLSX = exportXLSX
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.ContinueOnError = continueOnError
	}
	if cmd.Flags().Changed("concurrency") {
		if concurrency < 1 {
			return fmt.Errorf("--concurrency must be at least 1")
		}
		cfg.MaxConcurrency = concurrency
	}

	logger, closeLogger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	logger.Debugf("converting %d file(s) from %s to %s", len(cfg.Stems), cfg.InputDir, cfg.OutputDirectory())

	files := utils.NewFileManager(appFs, cfg.InputDir, cfg.OutputDirectory())
	conv := converter.New(cfg, files, logger, converter.WithDryRun(dryRun))
	runner := converter.NewRunner(conv, cfg.MaxConcurrency, cfg.ContinueOnError)

	results, err := runner.Run(cmd.Context(), cfg.Stems)

	succeeded := 0
	for _, result := range results {
		if result.Success() {
			succeeded++
		}
	}
	logger.Infof("converted %d of %d file(s) in %s", succeeded, len(cfg.Stems), time.Since(startTime).Round(time.Millisecond))

	return err
}
