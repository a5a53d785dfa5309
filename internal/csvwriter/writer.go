// =============================================================================
// Regional Climate CSV Converter - CSV Writer Module
// =============================================================================
//
// This module renders a ResultTable as CSV. The output is byte-stable: the
// same table always produces the same bytes, so re-running a conversion is
// idempotent.
//
// NUMBER FORMATTING:
//   - Years are written as plain integers: 1991
//   - Values use the shortest representation that parses back to the same
//     float64 and always keep a decimal point or exponent: 3.3, 3.0, 1e-05
//     This matches the CSVs produced by the original conversion script.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/regional-climate-csv/internal/types"
)

// Options controls the CSV layout.
type Options struct {
	// UseCRLF ends every row with "\r\n" instead of "\n".
	UseCRLF bool
}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// Write renders the table to w: the header row followed by one row per year.
func Write(w io.Writer, table *types.ResultTable, opts Options) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = opts.UseCRLF

	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, table.Width())
	for _, row := range table.Rows {
		record = record[:0]
		record = append(record, strconv.Itoa(row.Year))
		for _, value := range row.Values {
			record = append(record, FormatFloat(value))
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Year, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// Render returns the CSV bytes for the table.
func Render(table *types.ResultTable, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, table, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// NUMBER FORMATTING
// =============================================================================

// FormatFloat formats a value in its shortest round-trip form. Magnitudes
// below 1e-4 or from 1e16 upwards use exponent notation. Integral values in
// fixed notation get a ".0" suffix so the column stays visibly floating point.
func FormatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return "nan"
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	}

	abs := math.Abs(value)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(value, 'e', -1, 64)
	}

	s := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
