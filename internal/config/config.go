// =============================================================================
// Regional Climate CSV Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Without a file the
// converter runs with built-in defaults that reproduce the behavior of the
// original conversion script: the three DWD regional averages files in the
// working directory and the fixed header rules.
//
// CONFIGURATION FILE (climatecsv.yaml):
//
//   input_dir: ./data
//   stems:
//     - regional_averages_rr_year
//   input_encoding: ISO-8859-1
//   rules:
//     delete_indices: [1]
//
// =============================================================================

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory containing the <stem>.txt files.
	// Default: "."
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where <stem>.csv files are written.
	// Default: same as InputDir.
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Stems is the ordered list of file name stems to convert.
	// Each stem is read from <InputDir>/<stem>.txt.
	Stems []string `yaml:"stems"`

	// InputEncoding is the character encoding of the input files.
	// Valid values: "UTF-8", "ISO-8859-1" (alias "latin1"), "Windows-1252".
	// Default: "UTF-8"
	InputEncoding string `yaml:"input_encoding"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// LineTerminator selects the CSV row terminator: "crlf" or "lf".
	// Default: "crlf"
	LineTerminator string `yaml:"line_terminator"`

	// ExportXLSX additionally writes <stem>.xlsx next to the CSV.
	ExportXLSX bool `yaml:"export_xlsx"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files converted in parallel.
	// Default: 1 (sequential)
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps converting the remaining files after a failure.
	// The run still reports every failure at the end.
	// Default: false
	ContinueOnError bool `yaml:"continue_on_error"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the console verbosity.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional path for a JSON log file.
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// HEADER RULES
	// =========================================================================

	// Rules controls header normalization and column selection.
	Rules Rules `yaml:"rules"`
}

// =============================================================================
// HEADER RULES STRUCTURE
// =============================================================================

// Rules defines how the header row is normalized. Exact-match rules are
// evaluated against the original header spelling, before substitutions.
type Rules struct {
	// Substitutions are applied, in order, to every header cell that no
	// exact-match rule renamed.
	Substitutions []Substitution `yaml:"substitutions"`

	// Renames maps an exact original header to its new name.
	Renames map[string]string `yaml:"renames"`

	// Deletes lists exact original headers whose columns are dropped.
	Deletes []string `yaml:"deletes"`

	// DeleteIndices lists 0-based column positions that are always dropped.
	DeleteIndices []int `yaml:"delete_indices"`

	// Duplicates lists columns that are renamed in place and copied into a
	// new trailing column.
	Duplicates []Duplicate `yaml:"duplicates"`
}

// Substitution replaces every occurrence of Find with Replace.
type Substitution struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
}

// Duplicate describes a merged region column that is split in two.
type Duplicate struct {
	// Source is the exact original header.
	Source string `yaml:"source"`

	// Rename is the in-place header for the source column.
	Rename string `yaml:"rename"`

	// CopyAs is the header of the appended trailing column.
	CopyAs string `yaml:"copy_as"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultStems are the DWD annual regional averages converted by default:
// precipitation, sunshine duration and mean temperature.
var DefaultStems = []string{
	"regional_averages_rr_year",
	"regional_averages_sd_year",
	"regional_averages_tm_year",
}

// DefaultRules returns the header rules for the DWD regional averages files.
func DefaultRules() Rules {
	return Rules{
		Substitutions: []Substitution{{Find: "ue", Replace: "ü"}},
		Renames:       map[string]string{"Brandenburg/Berlin": "Berlin"},
		Deletes:       []string{"Thueringen/Sachsen-Anhalt"},
		Duplicates: []Duplicate{
			{Source: "Niedersachsen/Hamburg/Bremen", Rename: "Hamburg", CopyAs: "Bremen"},
		},
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - fs: The filesystem to read from.
//   - path: The path to the configuration file. An empty path returns the
//     defaults without touching the filesystem.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.InputDir == "" {
		config.InputDir = "."
	}
	if len(config.Stems) == 0 {
		config.Stems = append([]string(nil), DefaultStems...)
	}
	if config.InputEncoding == "" {
		config.InputEncoding = "UTF-8"
	}
	if config.LineTerminator == "" {
		config.LineTerminator = "crlf"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 1
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	// Each rule list left out of the file falls back to the built-in DWD
	// rules. An explicit empty list disables that rule kind.
	defaults := DefaultRules()
	if config.Rules.Substitutions == nil {
		config.Rules.Substitutions = defaults.Substitutions
	}
	if config.Rules.Renames == nil {
		config.Rules.Renames = defaults.Renames
	}
	if config.Rules.Deletes == nil {
		config.Rules.Deletes = defaults.Deletes
	}
	if config.Rules.Duplicates == nil {
		config.Rules.Duplicates = defaults.Duplicates
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	for _, stem := range c.Stems {
		if err := ValidateStem(stem); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.LineTerminator) {
	case "crlf", "lf":
	default:
		return fmt.Errorf("line_terminator must be \"crlf\" or \"lf\", got %q", c.LineTerminator)
	}

	if !IsSupportedEncoding(c.InputEncoding) {
		return fmt.Errorf("unsupported input_encoding %q", c.InputEncoding)
	}

	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency)
	}

	for _, idx := range c.Rules.DeleteIndices {
		if idx < 1 {
			// Column 0 is the year and cannot be removed.
			return fmt.Errorf("delete_indices must be >= 1, got %d", idx)
		}
	}

	for i, sub := range c.Rules.Substitutions {
		if sub.Find == "" {
			return fmt.Errorf("substitution %d has an empty find string", i+1)
		}
	}

	for i, dup := range c.Rules.Duplicates {
		if dup.Source == "" || dup.CopyAs == "" {
			return fmt.Errorf("duplicate rule %d needs both source and copy_as", i+1)
		}
	}

	return nil
}

// ValidateStem rejects stems that are empty or point outside the input
// directory.
func ValidateStem(stem string) error {
	if strings.TrimSpace(stem) == "" {
		return fmt.Errorf("empty file stem")
	}
	if stem != filepath.Base(stem) || stem == "." || stem == ".." {
		return fmt.Errorf("file stem %q must be a plain file name", stem)
	}
	return nil
}

// IsSupportedEncoding reports whether the input encoding name is known.
func IsSupportedEncoding(name string) bool {
	switch normalizeEncoding(name) {
	case "utf-8", "iso-8859-1", "windows-1252":
		return true
	}
	return false
}

// NormalizedEncoding returns the canonical lower-case encoding name.
func (c *Config) NormalizedEncoding() string {
	return normalizeEncoding(c.InputEncoding)
}

func normalizeEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return "utf-8"
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return "iso-8859-1"
	case "windows-1252", "cp1252":
		return "windows-1252"
	}
	return ""
}

// OutputDirectory returns the directory for converted files. An unset
// output_dir writes next to the inputs.
func (c *Config) OutputDirectory() string {
	if c.OutputDir == "" {
		return c.InputDir
	}
	return c.OutputDir
}

// UseCRLF reports whether CSV rows end with "\r\n".
func (c *Config) UseCRLF() bool {
	return strings.ToLower(c.LineTerminator) == "crlf"
}
