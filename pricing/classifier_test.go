package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyCSV(t *testing.T, csv string) DiscoveryResult {
	t.Helper()
	res, err := Classify(ParseCSV(csv))
	require.NoError(t, err)
	return res
}

func TestParseCSV(t *testing.T) {
	t.Run("NaiveSplitAndRowDropping", func(t *testing.T) {
		table := ParseCSV("Name,Price\nWidget,100\n\nstray\nGadget,200\n")
		assert.Equal(t, []string{"Name", "Price"}, table.Headers)
		// The blank line and the single-cell "stray" row are dropped.
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"Widget", "100"}, table.Rows[0])
	})

	t.Run("TrimsCells", func(t *testing.T) {
		table := ParseCSV("Name, Price \n Widget , 100 \n")
		assert.Equal(t, "Price", table.Headers[1])
		assert.Equal(t, "100", table.Rows[0][1])
	})
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		cell string
		want float64
		ok   bool
	}{
		{"139.99", 139.99, true},
		{"$1,299.50", 1299.50, true},
		{"1 299", 1299, true},
		{"Camera A", 0, false},
		{"", 0, false},
		{"a@b.com", 0, false},
	}
	for _, tt := range tests {
		v, ok := parseCurrency(tt.cell)
		assert.Equal(t, tt.ok, ok, "cell %q", tt.cell)
		if tt.ok {
			assert.InDelta(t, tt.want, v, 0.001, "cell %q", tt.cell)
		}
	}
}

func TestClassifyFailures(t *testing.T) {
	t.Run("EmptyTable", func(t *testing.T) {
		_, err := Classify(ParseCSV("Name,Price\n"))
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("SingleCellRowsDroppedToEmpty", func(t *testing.T) {
		_, err := Classify(ParseCSV("Name,Price\njustone\nanother\n"))
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("NoNumericColumns", func(t *testing.T) {
		_, err := Classify(ParseCSV("Name,Owner\nWidget,Alice\nGadget,Bob\n"))
		assert.ErrorIs(t, err, ErrNoNumericColumns)
	})

	t.Run("FailureReturnsZeroResult", func(t *testing.T) {
		res, err := Classify(ParseCSV("Name,Owner\nWidget,Alice\n"))
		require.Error(t, err)
		assert.Equal(t, DiscoveryResult{}, res)
	})
}

func TestAnchorSelection(t *testing.T) {
	t.Run("KeywordBeatsHigherAverage", func(t *testing.T) {
		// "Fee" averages higher but "Unit Price" carries the keyword.
		res := classifyCSV(t, "Unit Price,Fee\n100,5000\n200,6000\n")
		assert.Equal(t, "Unit Price", res.ReferenceColumn)
	})

	t.Run("EqualAverageTieBrokenByKeyword", func(t *testing.T) {
		res := classifyCSV(t, "Score,Total Cost\n100,100\n200,200\n")
		assert.Equal(t, "Total Cost", res.ReferenceColumn)
	})

	t.Run("NoKeywordHigherAverageWins", func(t *testing.T) {
		res := classifyCSV(t, "Alpha,Beta\n100,900\n200,1100\n")
		assert.Equal(t, "Beta", res.ReferenceColumn)
	})

	t.Run("Deterministic", func(t *testing.T) {
		csv := "Unit Price,Fee,Extra\n100,5000,12\n200,6000,18\n"
		first := classifyCSV(t, csv)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, classifyCSV(t, csv))
		}
	})
}

func TestPlanScoring(t *testing.T) {
	anchor := columnStats{index: 0, header: "product price", numericSamples: []float64{1000}, sampleRows: []int{0}, average: 1000}

	t.Run("KeywordOnlyScoresSeven", func(t *testing.T) {
		col := columnStats{index: 1, header: "coverage", numericSamples: []float64{900}, sampleRows: []int{0}, average: 900}
		assert.Equal(t, 7, scorePlanColumn(col, anchor))
	})

	t.Run("RatioOnlyScoresFifteen", func(t *testing.T) {
		col := columnStats{index: 1, header: "addon", numericSamples: []float64{150}, sampleRows: []int{0}, average: 150}
		assert.Equal(t, 15, scorePlanColumn(col, anchor))
	})

	t.Run("KeywordPlusYearTokenScoresSeventeen", func(t *testing.T) {
		col := columnStats{index: 1, header: "2 yr plan", numericSamples: []float64{900}, sampleRows: []int{0}, average: 900}
		assert.Equal(t, 17, scorePlanColumn(col, anchor))
	})

	t.Run("AllSignalsScoreThirtyTwo", func(t *testing.T) {
		col := columnStats{index: 1, header: "3 year warranty", numericSamples: []float64{150}, sampleRows: []int{0}, average: 150}
		assert.Equal(t, 32, scorePlanColumn(col, anchor))
	})

	t.Run("RatioBoundariesAreExclusive", func(t *testing.T) {
		low := columnStats{index: 1, header: "x", numericSamples: []float64{20}, sampleRows: []int{0}}
		high := columnStats{index: 1, header: "x", numericSamples: []float64{600}, sampleRows: []int{0}}
		assert.Equal(t, 0, scorePlanColumn(low, anchor))  // ratio exactly 0.02
		assert.Equal(t, 0, scorePlanColumn(high, anchor)) // ratio exactly 0.6
	})

	t.Run("ThresholdIsFifteen", func(t *testing.T) {
		// Score 7 (below threshold) never qualifies, score 15 always does.
		res := classifyCSV(t, "Product Price,Coverage,Addon\n1000,900,150\n")
		require.Equal(t, ModelIndividual, res.Model)
		require.Len(t, res.Mapping, 1)
		assert.Equal(t, "Addon", res.Mapping[0].SourceColumn)
	})
}

func TestIdentifierExclusion(t *testing.T) {
	t.Run("EmailColumnExcluded", func(t *testing.T) {
		// End-to-end scenario: Email must be excluded via the email pattern,
		// Bracket A must qualify as a plan column.
		res := classifyCSV(t, "Product Price,Email,Bracket A\n1000,a@b.com,150\n")
		require.Equal(t, ModelIndividual, res.Model)
		assert.Equal(t, "Product Price", res.ReferenceColumn)
		require.Len(t, res.Mapping, 1)
		assert.Equal(t, "Bracket A", res.Mapping[0].SourceColumn)
		assert.Equal(t, "BRACKET A", res.Mapping[0].Duration)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("AlphabeticNameColumnExcluded", func(t *testing.T) {
		stats := collectColumnStats(ParseCSV("Owner,Price\nAlice,100\nRobert,200\n"))
		assert.True(t, stats[0].isIdentifier)
		assert.False(t, stats[1].isIdentifier)
	})

	t.Run("ShortCodesAreNotIdentifiers", func(t *testing.T) {
		stats := collectColumnStats(ParseCSV("Code,Price\nab,100\ncd,200\n"))
		assert.False(t, stats[0].isIdentifier)
	})
}

func TestClassifyBranchA(t *testing.T) {
	res := classifyCSV(t, "Product Price,2 yr Plan,3 yr Plan\n1000,139.99,159.99\n2000,249.99,299.99\n")

	assert.Equal(t, ModelIndividual, res.Model)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, []string{"2YR", "3YR"}, res.Durations)
	require.Len(t, res.Mapping, 2)
	assert.Equal(t, ColumnMapping{Duration: "2YR", SourceColumn: "2 yr Plan"}, res.Mapping[0])
	assert.Equal(t, ColumnMapping{Duration: "3YR", SourceColumn: "3 yr Plan"}, res.Mapping[1])
	assert.Empty(t, res.Brackets)
}

func TestClassifyBranchB(t *testing.T) {
	// No plan columns: anchor values [200, 400, 1800] synthesize the fixed
	// default brackets, not data-derived ones.
	res := classifyCSV(t, "Product Name,Price\nWidget,200\nGadget,400\nMachine,1800\n")

	assert.Equal(t, ModelTiered, res.Model)
	assert.Equal(t, 0.60, res.Confidence)
	require.Len(t, res.Brackets, 3)
	assert.Equal(t, Bracket{Min: 0, Max: 500, Price: 49}, res.Brackets[0])
	assert.Equal(t, Bracket{Min: 501, Max: 1500, Price: 149}, res.Brackets[1])
	assert.Equal(t, Bracket{Min: 1501, Max: 5000, Price: 299}, res.Brackets[2])
	assert.Equal(t, 200.0, res.ObservedMin)
	assert.Equal(t, 1800.0, res.ObservedMax)
	assert.False(t, res.HiddenDiscount)
}

func TestClassifyBranchCompleteness(t *testing.T) {
	// Any successful run lands on individual or tiered; never an empty model.
	csvs := []string{
		"Product Price,2yr Warranty\n1000,150\n",
		"Product Name,Price\nWidget,200\n",
		"Alpha,Beta\n10,900\n",
	}
	for _, csv := range csvs {
		res := classifyCSV(t, csv)
		assert.Contains(t, []ModelKind{ModelIndividual, ModelTiered}, res.Model, "csv %q", csv)
	}
}

func TestPlanOnlySheetAnchorPolicy(t *testing.T) {
	// When every numeric column qualifies as a plan column and none carries a
	// price keyword, the highest-average column becomes the anchor by
	// exception and drops out of the plan set.
	res := classifyCSV(t, "Product Name,2 yr Plan,3 yr Plan\nCamera A,139.99,159.99\n")

	assert.Equal(t, "3 yr Plan", res.ReferenceColumn)
	assert.Equal(t, ModelIndividual, res.Model)
	require.Len(t, res.Mapping, 1)
	assert.Equal(t, "2 yr Plan", res.Mapping[0].SourceColumn)
	assert.Equal(t, "2YR", res.Mapping[0].Duration)
}

func TestHiddenDiscountDetection(t *testing.T) {
	t.Run("LeftoverNumericColumnEnables", func(t *testing.T) {
		// "Fee" averages 90% of the anchor: ratio out of band, no keyword,
		// so it stays unselected but positive, flagging a probable
		// undisclosed discount tier.
		res := classifyCSV(t, "Product Price,2yr Plan,Fee\n1000,150,900\n2000,260,1900\n")
		assert.Equal(t, ModelIndividual, res.Model)
		assert.True(t, res.HiddenDiscount)
	})

	t.Run("NoLeftoverColumns", func(t *testing.T) {
		res := classifyCSV(t, "Product Price,2yr Plan\n1000,150\n")
		assert.False(t, res.HiddenDiscount)
	})
}

func TestSampleWindow(t *testing.T) {
	// Numeric signal past the first ten rows does not influence column stats,
	// but Branch B still ranges over every row.
	var b strings.Builder
	b.WriteString("Product Name,Price\n")
	for i := 0; i < 10; i++ {
		b.WriteString("Widget,100\n")
	}
	b.WriteString("Machine,9000\n")

	res := classifyCSV(t, b.String())
	assert.Equal(t, ModelTiered, res.Model)
	assert.Equal(t, 9000.0, res.ObservedMax)
}

func TestSampleWindowCountsRowsNotCells(t *testing.T) {
	// A column that is blank through the first ten rows draws no samples,
	// even when later rows hold values. Blank cells inside the window must
	// not stretch it.
	var b strings.Builder
	b.WriteString("Price,Sparse\n")
	for i := 0; i < sampleWindow; i++ {
		b.WriteString("100,\n")
	}
	b.WriteString("100,250\n")
	b.WriteString("100,300\n")

	stats := collectColumnStats(ParseCSV(b.String()))
	require.Len(t, stats, 2)
	assert.Len(t, stats[0].numericSamples, sampleWindow)
	assert.Empty(t, stats[1].numericSamples, "values past the row window must not be sampled")
}
