// =============================================================================
// Regional Climate CSV Converter - Column Remapper
// =============================================================================
//
// The remapper turns a RawTable into a typed ResultTable. It is a pure
// function of its inputs: no filesystem access, no logging, no global state.
//
// PIPELINE:
//   1. Build the column plan from the header
//   2. Check every data row has the header's field count
//   3. Project every row through the plan
//   4. Coerce column 0 to an integer year and the rest to float64
//
// Any failure aborts the whole table; there is no partial result.
//
// =============================================================================

package remapper

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/regional-climate-csv/internal/config"
	"github.com/ginjaninja78/regional-climate-csv/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrYearColumnRemoved is returned when the rules drop column 0.
var ErrYearColumnRemoved = errors.New("header rules remove the year column")

// RowError reports a data row whose field count differs from the header.
type RowError struct {
	Line int
	Want int
	Got  int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, e.Want, e.Got)
}

// CellError reports a cell that does not parse as the column's type.
type CellError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("line %d: column %q: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// =============================================================================
// REMAP
// =============================================================================

// Remap normalizes the header, selects columns and coerces cell types.
//
// PARAMETERS:
//   - raw: The parsed input table.
//   - rules: The header rules.
//
// RETURNS:
//   - The typed result table.
//   - A *RowError or *CellError for malformed input.
func Remap(raw *types.RawTable, rules config.Rules) (*types.ResultTable, error) {
	plan := BuildPlan(raw.Header, rules)
	if plan.Width == 0 {
		return nil, fmt.Errorf("header has no columns")
	}
	if plan.Deleted[0] {
		return nil, ErrYearColumnRemoved
	}

	header := plan.OutputHeader()
	result := &types.ResultTable{
		Header: header,
		Rows:   make([]types.ResultRow, 0, len(raw.Rows)),
	}

	for _, row := range raw.Rows {
		if len(row.Fields) != plan.Width {
			return nil, &RowError{Line: row.Line, Want: plan.Width, Got: len(row.Fields)}
		}

		typed, err := coerce(plan.Project(row.Fields), header, row.Line)
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, typed)
	}

	return result, nil
}

// coerce converts a projected row into its typed form.
func coerce(fields, header []string, line int) (types.ResultRow, error) {
	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return types.ResultRow{}, &CellError{Line: line, Column: header[0], Value: fields[0], Err: err}
	}

	values := make([]float64, len(fields)-1)
	for i, field := range fields[1:] {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return types.ResultRow{}, &CellError{Line: line, Column: header[i+1], Value: field, Err: err}
		}
		values[i] = value
	}

	return types.ResultRow{Year: year, Values: values}, nil
}
