// =============================================================================
// Regional Climate CSV Converter - Text Table Parser
// =============================================================================
//
// This module reads the semicolon-delimited regional averages text files
// published by the DWD climate data center. The layout is:
//
//   Line 1: a descriptive title (ignored)
//   Line 2: the header
//   Line 3+: one row per year
//
// Every line ends with a units marker and a trailing ";", so the last two
// fields of each line are dropped before anything else looks at them.
//
// Example:
//
//   Gebietsmittel Lufttemperatur Jahr
//   Jahr;Brandenburg/Berlin;Thueringen/Sachsen-Anhalt;Deutschland;Einheit;
//   1991;9.1;8.2;8.7;Grad C;
//
// =============================================================================

package txtparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/regional-climate-csv/internal/types"
)

// =============================================================================
// PARSER SETTINGS
// =============================================================================

const (
	// Delimiter separates fields within a line.
	Delimiter = ";"

	// TrailingFields is the number of fields dropped from the end of each line.
	TrailingFields = 2

	// titleLines is the number of leading lines skipped before the header.
	titleLines = 1
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a regional averages text file and returns its raw table.
//
// PARAMETERS:
//   - r: The file contents.
//   - encodingName: One of the encodings accepted by the configuration
//     ("utf-8", "iso-8859-1", "windows-1252").
//
// RETURNS:
//   - A pointer to the RawTable.
//   - An error if the input cannot be decoded or has no header line.
//
// PARSING PROCESS:
//   1. Decode the input to UTF-8
//   2. Drop the title line
//   3. Split each line on ";" and drop the two trailing fields
//   4. The first remaining line is the header, the rest are data rows
func Parse(r io.Reader, encodingName string) (*types.RawTable, error) {
	decoder, err := decoderFor(encodingName)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(transform.NewReader(r, decoder.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	lines := splitLines(data)
	if len(lines) <= titleLines {
		return nil, fmt.Errorf("input has no header line")
	}

	table := &types.RawTable{}
	haveHeader := false

	for i := titleLines; i < len(lines); i++ {
		line := lines[i]
		lineNumber := i + 1

		// Skip empty lines. They carry no fields.
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := SplitLine(line)

		if !haveHeader {
			if len(fields) == 0 {
				return nil, fmt.Errorf("header on line %d has no columns", lineNumber)
			}
			table.Header = fields
			haveHeader = true
			continue
		}

		table.Rows = append(table.Rows, types.RawRow{
			Line:   lineNumber,
			Fields: fields,
		})
	}

	if !haveHeader {
		return nil, fmt.Errorf("input has no header line")
	}

	return table, nil
}

// SplitLine splits a single line on ";" and drops the trailing fields.
// Remaining fields are whitespace-trimmed. A line with fewer than
// TrailingFields fields yields an empty slice.
func SplitLine(line string) []string {
	parts := strings.Split(line, Delimiter)
	if len(parts) <= TrailingFields {
		return []string{}
	}

	parts = parts[:len(parts)-TrailingFields]
	fields := make([]string, len(parts))
	for i, part := range parts {
		fields[i] = strings.TrimSpace(part)
	}

	return fields
}

// splitLines splits decoded input into lines without their terminators.
// A final terminator does not produce an extra empty line.
func splitLines(data []byte) []string {
	text := string(bytes.TrimSuffix(data, []byte("\n")))
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// decoderFor returns the x/text encoding for a configured input encoding.
// UTF-8 input has a leading byte order mark removed.
func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}

	return nil, fmt.Errorf("unsupported input encoding %q", name)
}
