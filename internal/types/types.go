// =============================================================================
// Regional Climate CSV Converter - Shared Types
// =============================================================================
//
// This package contains the table types passed between the reader, the
// remapper and the writers. Keeping them here avoids import cycles between:
//   - txtparser  (produces RawTable)
//   - remapper   (RawTable -> ResultTable)
//   - csvwriter, xlsxwriter, summary (consume ResultTable)
//
// =============================================================================

package types

// =============================================================================
// RAW TABLE
// =============================================================================

// RawTable is the semicolon-delimited input after the title line has been
// dropped and the trailing fields of every line have been trimmed.
type RawTable struct {
	// Header is the first non-title line of the input file.
	Header []string

	// Rows contains the data rows in file order.
	Rows []RawRow
}

// RawRow is a single data row of the input file.
type RawRow struct {
	// Line is the 1-based line number in the source file.
	// Used for error reporting only.
	Line int

	// Fields contains the cell values, already whitespace-trimmed.
	Fields []string
}

// =============================================================================
// RESULT TABLE
// =============================================================================

// ResultTable is the remapped, typed table that is written as CSV.
type ResultTable struct {
	// Header contains the normalized column names.
	// Header[0] is the year column.
	Header []string

	// Rows contains one entry per year.
	Rows []ResultRow
}

// ResultRow is a single typed output row.
type ResultRow struct {
	// Year is column 0 of the row.
	Year int

	// Values holds columns 1..n, aligned with Header[1:].
	Values []float64
}

// Width returns the number of output columns.
func (t *ResultTable) Width() int {
	return len(t.Header)
}

// Column returns the values of the region column at header index col (>= 1).
func (t *ResultTable) Column(col int) []float64 {
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.Values[col-1]
	}
	return values
}
