// =============================================================================
// Regional Climate CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the binary
// without a subcommand converts the configured file stems, exactly like
// `climatecsv convert`.
//
// COBRA CLI STRUCTURE:
//   rootCmd (climatecsv)          -> convert the configured stems
//   ├── convertCmd (climatecsv convert [stems...])
//   ├── statsCmd   (climatecsv stats [stems...])
//   └── versionCmd (climatecsv version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/regional-climate-csv/internal/config"
	"github.com/ginjaninja78/regional-climate-csv/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// appFs is the filesystem used for configuration, input and output files.
// Tests replace it with an in-memory filesystem.
var appFs afero.Fs = afero.NewOsFs()

// cfgFile holds the path to the configuration file.
// Empty means built-in defaults.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// inputDir and outputDir override the configured directories when set.
var inputDir, outputDir string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "climatecsv",
	Short: "Convert DWD regional climate averages from TXT to CSV",
	Long: `climatecsv converts the semicolon-delimited regional averages text files
published by the DWD climate data center into plain CSV files.

For every file stem it reads <stem>.txt and writes <stem>.csv:
  - the title line and the trailing unit columns are dropped
  - region headers are normalized (Thueringen -> Thüringen, Brandenburg/Berlin -> Berlin)
  - the merged Thueringen/Sachsen-Anhalt column is removed
  - Niedersachsen/Hamburg/Bremen becomes Hamburg and is copied to a Bremen column
  - years are written as integers, values as decimals

Example Usage:
  climatecsv                                  # Convert the default stems in the working directory
  climatecsv convert regional_averages_tm_year
  climatecsv --config climatecsv.yaml convert --xlsx
  climatecsv stats regional_averages_tm_year  # Print per-region statistics`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (default: built-in settings)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVar(
		&inputDir,
		"input-dir",
		"",
		"Directory containing the <stem>.txt files (overrides input_dir)",
	)

	rootCmd.PersistentFlags().StringVar(
		&outputDir,
		"output-dir",
		"",
		"Directory for the converted files (overrides output_dir)",
	)

	registerConvertFlags(rootCmd)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads the configuration file and applies the persistent flags.
// Stems given as arguments replace the configured list.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(appFs, cfgFile)
	if err != nil {
		return nil, err
	}

	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if len(args) > 0 {
		cfg.Stems = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newLogger builds the logger for a command run.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.SugaredLogger, func() error, error) {
	return logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		Console: cmd.ErrOrStderr(),
		File:    cfg.LogFile,
	})
}
