// Package pricing implements warranty-pricing discovery over uploaded
// spreadsheets and the call-time price resolution used by outbound campaigns.
package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawTable is an uploaded spreadsheet reduced to headers and string cells.
// It is transient; nothing retains it after classification.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ParseCSV splits comma-delimited text into a RawTable. The split is a naive
// split on comma with no quote or escape handling; quoted cells containing
// commas will be mis-split. This matches the upstream import behavior and is
// kept deliberately, since adding quote handling would change classification
// results on such files.
func ParseCSV(text string) RawTable {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var table RawTable
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		if table.Headers == nil {
			table.Headers = cells
			continue
		}
		// Rows that split into one cell or less carry no usable signal.
		if len(cells) <= 1 {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// ParseXLSX reads the first sheet of an xlsx workbook into a RawTable using
// the same row-dropping rule as ParseCSV.
func ParseXLSX(data []byte) (RawTable, error) {
	f, err := excelize.OpenReader(strings.NewReader(string(data)))
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var table RawTable
	for _, cells := range rows {
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		if table.Headers == nil {
			table.Headers = cells
			continue
		}
		if len(cells) <= 1 {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

var nonNumericChars = regexp.MustCompile(`[^0-9.]`)

// parseCurrency strips currency symbols, thousands separators and any other
// non-numeric characters, then parses what remains as a float. The boolean
// reports whether the cell held a parseable number at all.
func parseCurrency(cell string) (float64, bool) {
	cleaned := nonNumericChars.ReplaceAllString(cell, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// columnStats holds the per-column evidence the classifier works from.
type columnStats struct {
	index          int
	header         string // lower-cased, trimmed
	rawHeader      string
	numericSamples []float64
	sampleRows     []int // row index of each numeric sample, for ratio pairing
	average        float64
	isIdentifier   bool
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var alphabeticPattern = regexp.MustCompile(`^[A-Za-z]+$`)

// collectColumnStats samples up to sampleWindow data rows per column.
func collectColumnStats(table RawTable) []columnStats {
	stats := make([]columnStats, 0, len(table.Headers))

	for col, rawHeader := range table.Headers {
		s := columnStats{
			index:     col,
			header:    strings.ToLower(strings.TrimSpace(rawHeader)),
			rawHeader: strings.TrimSpace(rawHeader),
		}

		sampled := 0
		alphaOnly := true
		sawEmail := false
		// Only the first sampleWindow data rows are scanned; blank cells in
		// that window do not pull later rows into the sample.
		for rowIdx, row := range table.Rows {
			if rowIdx >= sampleWindow {
				break
			}
			if col >= len(row) {
				continue
			}
			cell := row[col]
			if cell == "" {
				continue
			}
			sampled++

			if emailPattern.MatchString(cell) {
				sawEmail = true
			}
			if !(alphabeticPattern.MatchString(cell) && len(cell) > 2) {
				alphaOnly = false
			}

			if v, ok := parseCurrency(cell); ok {
				s.numericSamples = append(s.numericSamples, v)
				s.sampleRows = append(s.sampleRows, rowIdx)
			}
		}

		// A column reads as an identifier when any sample looks like an email
		// address, or when every sample is a bare alphabetic token longer than
		// two characters (names, SK-free labels).
		s.isIdentifier = sawEmail || (sampled > 0 && alphaOnly)

		if len(s.numericSamples) > 0 {
			var sum float64
			for _, v := range s.numericSamples {
				sum += v
			}
			s.average = sum / float64(len(s.numericSamples))
		}

		stats = append(stats, s)
	}
	return stats
}
