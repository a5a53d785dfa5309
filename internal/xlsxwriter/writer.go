// =============================================================================
// Regional Climate CSV Converter - XLSX Export
// =============================================================================
//
// Optional spreadsheet export of a converted table. The workbook has a single
// sheet named after the file stem; years are written as integers and region
// values as numbers, so spreadsheet tools can chart them without conversion.
//
//   | A    | B      | C       | ... |
//   |------|--------|---------|-----|
//   | Jahr | Berlin | Hamburg | ... |
//   | 1991 | 9.1    | 9.3     | ... |
//
// =============================================================================

package xlsxwriter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/regional-climate-csv/internal/types"
)

// maxSheetNameLength is the Excel limit for sheet names.
const maxSheetNameLength = 31

// Render builds a workbook for the table and returns the XLSX bytes.
//
// PARAMETERS:
//   - table: The converted table.
//   - sheetName: The sheet name; truncated to the Excel limit.
//
// RETURNS:
//   - The workbook bytes.
//   - An error if the workbook cannot be built.
func Render(table *types.ResultTable, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName = SheetName(sheetName)
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(table.Header))
	for i, name := range table.Header {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, 0, len(row.Values)+1)
		cells = append(cells, row.Year)
		for _, value := range row.Values {
			cells = append(cells, value)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row.Year, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return bytes.Clone(buf.Bytes()), nil
}

// SheetName returns a valid Excel sheet name for a file stem.
func SheetName(stem string) string {
	if stem == "" {
		return "Sheet1"
	}
	runes := []rune(stem)
	if len(runes) > maxSheetNameLength {
		runes = runes[:maxSheetNameLength]
	}
	return string(runes)
}
