package pricing

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	// sampleWindow bounds how many data rows feed per-column statistics.
	sampleWindow = 10

	// planScoreThreshold is the minimum score for a column to be confirmed
	// as a plan-price column.
	planScoreThreshold = 15

	scoreKeyword    = 7
	scoreYearToken  = 10
	scoreRatioMatch = 15

	// Plan-to-product price ratios outside this band are implausible for a
	// protection plan and earn no ratio points.
	ratioLow  = 0.02
	ratioHigh = 0.6
)

// Classification failures. These surface directly to the uploading user; a
// failed run must leave the tenant's stored profile untouched.
var (
	ErrEmptyTable       = errors.New("no usable data rows in uploaded file")
	ErrNoNumericColumns = errors.New("no numeric column found to anchor pricing")
)

var anchorKeywords = []string{"price", "cost", "amount", "total", "value", "paid", "purchase"}

var planKeywords = []string{"warranty", "plan", "protection", "coverage", "bracket", "guard", "care", "shield"}

var yearTokenPattern = regexp.MustCompile(`[123]\s*-?\s*(yr|year)`)

// DiscoveryResult summarizes one classification run for the configuring user.
type DiscoveryResult struct {
	Model           ModelKind       `json:"detected_model"`
	Confidence      float64         `json:"confidence"`
	Explanation     string          `json:"explanation"`
	ReferenceColumn string          `json:"reference_column"`
	Durations       []string        `json:"durations,omitempty"`
	Mapping         []ColumnMapping `json:"mapping,omitempty"`
	Brackets        []Bracket       `json:"brackets,omitempty"`
	HiddenDiscount  bool            `json:"hidden_discount"`
	ObservedMin     float64         `json:"observed_min,omitempty"`
	ObservedMax     float64         `json:"observed_max,omitempty"`
}

// defaultBrackets is the fixed fallback table used when no explicit plan
// columns are found. It is intentionally independent of the observed price
// distribution; replacing it with data-driven quantile brackets is a known
// candidate improvement, but the fixed table is the behavior sellers have
// priced against.
func defaultBrackets() []Bracket {
	return []Bracket{
		{Min: 0, Max: 500, Price: 49},
		{Min: 501, Max: 1500, Price: 149},
		{Min: 1501, Max: 5000, Price: 299},
	}
}

// Classify infers a pricing model from an uploaded table. It either returns a
// complete result or a typed error; there is no partial success.
func Classify(table RawTable) (DiscoveryResult, error) {
	if len(table.Rows) < 1 {
		return DiscoveryResult{}, ErrEmptyTable
	}

	stats := collectColumnStats(table)

	numeric := make([]columnStats, 0, len(stats))
	for _, s := range stats {
		if len(s.numericSamples) > 0 {
			numeric = append(numeric, s)
		}
	}
	if len(numeric) == 0 {
		return DiscoveryResult{}, ErrNoNumericColumns
	}

	anchor := selectAnchor(numeric)

	// Score every other numeric column as a plan-price candidate.
	// Identifier-looking columns never qualify.
	type scored struct {
		col   columnStats
		score int
	}
	var candidates []scored
	for _, s := range numeric {
		if s.index == anchor.index || s.isIdentifier {
			continue
		}
		candidates = append(candidates, scored{col: s, score: scorePlanColumn(s, anchor)})
	}

	// Descending by score; ties keep input order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	var bestPlans []columnStats
	for _, c := range candidates {
		if c.score >= planScoreThreshold {
			bestPlans = append(bestPlans, c.col)
		}
	}

	var result DiscoveryResult
	result.ReferenceColumn = anchor.rawHeader

	if len(bestPlans) > 0 {
		result.Model = ModelIndividual
		result.Confidence = 1.0
		for _, p := range bestPlans {
			d := durationLabel(p.header)
			result.Durations = append(result.Durations, d)
			result.Mapping = append(result.Mapping, ColumnMapping{Duration: d, SourceColumn: p.rawHeader})
		}
		result.Explanation = fmt.Sprintf("Found %d plan price column(s) referenced against %q; imported prices will be used per row.", len(bestPlans), anchor.rawHeader)
	} else {
		// No explicit plan columns: synthesize bracket tiers over the anchor
		// column's full value range.
		values := anchorValues(table, anchor.index)
		sort.Float64s(values)
		if len(values) > 0 {
			result.ObservedMin = values[0]
			if result.ObservedMin < 0 {
				result.ObservedMin = 0
			}
			result.ObservedMax = values[len(values)-1]
		}
		result.Model = ModelTiered
		result.Confidence = 0.60
		result.Brackets = defaultBrackets()
		result.Explanation = fmt.Sprintf("No plan price columns found; proposed standard brackets over product prices in %q (%.2f-%.2f).", anchor.rawHeader, result.ObservedMin, result.ObservedMax)
	}

	// Leftover numeric columns beyond the confirmed plan set usually mean the
	// sheet carries an undisclosed discount tier the seller may want to offer.
	result.HiddenDiscount = hasLeftoverNumericColumn(numeric, anchor, bestPlans)

	return result, nil
}

// selectAnchor picks the reference product-price column. A price-like header
// keyword beats a higher average; ties break by average descending, and equal
// averages keep input order so reruns are deterministic. When every numeric
// column looks like a plan column (no keyword header exists), the highest
// average column still wins here and is excluded from the plan set, which is
// the documented policy for plan-only sheets.
func selectAnchor(numeric []columnStats) columnStats {
	ranked := make([]columnStats, len(numeric))
	copy(ranked, numeric)
	sort.SliceStable(ranked, func(i, j int) bool {
		ki, kj := hasAnchorKeyword(ranked[i].header), hasAnchorKeyword(ranked[j].header)
		if ki != kj {
			return ki
		}
		return ranked[i].average > ranked[j].average
	})
	return ranked[0]
}

func hasAnchorKeyword(header string) bool {
	for _, kw := range anchorKeywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

func hasPlanKeyword(header string) bool {
	for _, kw := range planKeywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

// scorePlanColumn awards independent points for a plan-like header keyword,
// an explicit year token ("2yr", "3 year"), and a plausible plan-to-anchor
// price ratio averaged across rows where both columns held numbers.
func scorePlanColumn(col columnStats, anchor columnStats) int {
	score := 0
	if hasPlanKeyword(col.header) {
		score += scoreKeyword
	}
	if yearTokenPattern.MatchString(col.header) {
		score += scoreYearToken
	}
	if ratio, ok := averageRatio(col, anchor); ok && ratio > ratioLow && ratio < ratioHigh {
		score += scoreRatioMatch
	}
	return score
}

// averageRatio pairs samples by row index and averages col/anchor ratios.
func averageRatio(col columnStats, anchor columnStats) (float64, bool) {
	anchorByRow := make(map[int]float64, len(anchor.sampleRows))
	for i, row := range anchor.sampleRows {
		anchorByRow[row] = anchor.numericSamples[i]
	}

	var sum float64
	var n int
	for i, row := range col.sampleRows {
		av, ok := anchorByRow[row]
		if !ok || av == 0 {
			continue
		}
		sum += col.numericSamples[i] / av
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// durationLabel derives a human duration label from a plan column header.
// Digit 3 wins over 2 so "2-3 year combo" style headers read as 3YR.
func durationLabel(header string) string {
	switch {
	case strings.Contains(header, "3"):
		return "3YR"
	case strings.Contains(header, "2"):
		return "2YR"
	default:
		return strings.ToUpper(header)
	}
}

// anchorValues collects the anchor column's numeric values across all rows,
// not just the sample window, for bracket-range evidence.
func anchorValues(table RawTable, col int) []float64 {
	var values []float64
	for _, row := range table.Rows {
		if col >= len(row) {
			continue
		}
		if v, ok := parseCurrency(row[col]); ok {
			values = append(values, v)
		}
	}
	return values
}

func hasLeftoverNumericColumn(numeric []columnStats, anchor columnStats, bestPlans []columnStats) bool {
	selected := make(map[int]bool, len(bestPlans))
	for _, p := range bestPlans {
		selected[p.index] = true
	}
	for _, s := range numeric {
		if s.index == anchor.index || s.isIdentifier || selected[s.index] {
			continue
		}
		if s.average > 0 {
			return true
		}
	}
	return false
}
