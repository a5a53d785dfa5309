// =============================================================================
// Regional Climate CSV Converter - Column Plan
// =============================================================================
//
// The column plan is derived once from the header row and then applied to the
// header and every data row alike. It records:
//   - which column positions are dropped
//   - which columns are copied into new trailing columns, and their headers
//   - the normalized header name of every kept column
//
// RULE EVALUATION (per header cell, on the original spelling):
//   1. delete_indices / deletes    -> column dropped
//   2. renames                     -> header replaced
//   3. duplicates                  -> header replaced, value copied to the end
//   4. otherwise                   -> substitutions applied ("ue" -> "ü")
//
// Matching the original spelling keeps the exact-match rules stable even
// though the substitutions rewrite the same letters.
//
// =============================================================================

package remapper

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/regional-climate-csv/internal/config"
)

// =============================================================================
// PLAN STRUCTURE
// =============================================================================

// ColumnPlan describes how one header row maps onto the output columns.
type ColumnPlan struct {
	// Width is the number of columns in the source header.
	Width int

	// Deleted holds the source indices that are dropped.
	Deleted map[int]bool

	// Copies maps a source index to the header of its trailing copy.
	Copies map[int]string

	// Header is the normalized name of every source column. Entries for
	// deleted columns are kept so indices line up with the source.
	Header []string
}

// BuildPlan derives the column plan from a header row.
//
// PARAMETERS:
//   - header: The raw header cells.
//   - rules: The header rules from the configuration.
//
// RETURNS:
//   - The column plan for this header.
func BuildPlan(header []string, rules config.Rules) *ColumnPlan {
	plan := &ColumnPlan{
		Width:   len(header),
		Deleted: make(map[int]bool),
		Copies:  make(map[int]string),
		Header:  make([]string, len(header)),
	}

	for _, idx := range rules.DeleteIndices {
		if idx >= 0 && idx < len(header) {
			plan.Deleted[idx] = true
		}
	}

	deletes := make(map[string]bool, len(rules.Deletes))
	for _, name := range rules.Deletes {
		deletes[name] = true
	}

	duplicates := make(map[string]config.Duplicate, len(rules.Duplicates))
	for _, dup := range rules.Duplicates {
		duplicates[dup.Source] = dup
	}

	for i, original := range header {
		if deletes[original] {
			plan.Deleted[i] = true
		}

		if renamed, ok := rules.Renames[original]; ok {
			plan.Header[i] = renamed
			continue
		}

		if dup, ok := duplicates[original]; ok {
			plan.Header[i] = dup.Rename
			if plan.Header[i] == "" {
				plan.Header[i] = original
			}
			if !plan.Deleted[i] {
				plan.Copies[i] = dup.CopyAs
			}
			continue
		}

		plan.Header[i] = substitute(original, rules.Substitutions)
	}

	return plan
}

// substitute applies the substitutions to a header cell in order.
func substitute(value string, substitutions []config.Substitution) string {
	for _, sub := range substitutions {
		value = strings.ReplaceAll(value, sub.Find, sub.Replace)
	}
	return value
}

// =============================================================================
// PROJECTION
// =============================================================================

// Project applies the column selection to a single row: kept columns stay
// in order, copied columns are appended at the end in source order.
// The row must have exactly Width fields.
func (p *ColumnPlan) Project(row []string) []string {
	out := make([]string, 0, p.OutputWidth())

	for i, value := range row {
		if !p.Deleted[i] {
			out = append(out, value)
		}
	}

	for _, i := range p.copyIndices() {
		out = append(out, row[i])
	}

	return out
}

// OutputHeader returns the projected header. The trailing copy columns carry
// the configured copy names rather than the in-place rename.
func (p *ColumnPlan) OutputHeader() []string {
	out := p.Project(p.Header)

	kept := len(out) - len(p.Copies)
	for n, i := range p.copyIndices() {
		out[kept+n] = p.Copies[i]
	}

	return out
}

// OutputWidth returns the number of columns after projection.
func (p *ColumnPlan) OutputWidth() int {
	return p.Width - len(p.Deleted) + len(p.Copies)
}

// copyIndices returns the copied source indices in ascending order.
func (p *ColumnPlan) copyIndices() []int {
	indices := make([]int, 0, len(p.Copies))
	for i := range p.Copies {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}
