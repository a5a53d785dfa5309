// =============================================================================
// Regional Climate CSV Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   climatecsv                 - Convert the configured stems
//   climatecsv convert [stems] - Convert the given stems
//   climatecsv stats [stems]   - Print per-region statistics
//   climatecsv version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : Cobra command definitions
//   - internal/   : Parsing, remapping, writers and the conversion pipeline
//   - pkg/utils/  : Filesystem helpers (atomic writes)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/regional-climate-csv/cmd"
)

func main() {
	cmd.Execute()
}
