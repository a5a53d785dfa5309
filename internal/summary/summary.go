// Package summary computes per-region statistics over a converted table,
// the same figures the climate map uses to scale its color legend.
package summary

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/ginjaninja78/regional-climate-csv/internal/types"
)

// ColumnSummary holds the statistics of one region column.
type ColumnSummary struct {
	Name   string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// TableSummary describes a whole converted table.
type TableSummary struct {
	FirstYear int
	LastYear  int
	Columns   []ColumnSummary
}

// Describe computes statistics for every region column of the table.
// A table without data rows yields an error.
func Describe(table *types.ResultTable) (*TableSummary, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}

	years := make([]float64, len(table.Rows))
	for i, row := range table.Rows {
		years[i] = float64(row.Year)
	}
	first, err := stats.Min(years)
	if err != nil {
		return nil, fmt.Errorf("failed to compute first year: %w", err)
	}
	last, err := stats.Max(years)
	if err != nil {
		return nil, fmt.Errorf("failed to compute last year: %w", err)
	}

	summary := &TableSummary{
		FirstYear: int(first),
		LastYear:  int(last),
		Columns:   make([]ColumnSummary, 0, table.Width()-1),
	}

	for col := 1; col < table.Width(); col++ {
		column, err := describeColumn(table.Header[col], table.Column(col))
		if err != nil {
			return nil, err
		}
		summary.Columns = append(summary.Columns, column)
	}

	return summary, nil
}

func describeColumn(name string, values []float64) (ColumnSummary, error) {
	data := stats.Float64Data(values)

	minimum, err := data.Min()
	if err != nil {
		return ColumnSummary{}, fmt.Errorf("column %q: %w", name, err)
	}
	maximum, err := data.Max()
	if err != nil {
		return ColumnSummary{}, fmt.Errorf("column %q: %w", name, err)
	}
	mean, err := data.Mean()
	if err != nil {
		return ColumnSummary{}, fmt.Errorf("column %q: %w", name, err)
	}
	stdDev, err := data.StandardDeviation()
	if err != nil {
		return ColumnSummary{}, fmt.Errorf("column %q: %w", name, err)
	}

	return ColumnSummary{
		Name:   name,
		Count:  data.Len(),
		Min:    minimum,
		Max:    maximum,
		Mean:   mean,
		StdDev: stdDev,
	}, nil
}
