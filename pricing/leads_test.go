package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLeadColumns(t *testing.T) {
	t.Run("AliasResolution", func(t *testing.T) {
		cols, err := MapLeadColumns([]string{"First Name", "LAST_NAME", "Phone Number", "E-Mail", "Item", "Purchase Amount"})
		require.NoError(t, err)
		assert.Equal(t, 2, cols.PhoneIdx)

		lead := cols.ExtractLead([]string{"Dana", "Reyes", "+14155550123", "dana@example.com", "4K OLED TV", "$1,299.00"})
		assert.Equal(t, "Dana", lead.FirstName)
		assert.Equal(t, "Reyes", lead.LastName)
		assert.Equal(t, "+14155550123", lead.Phone)
		assert.Equal(t, "dana@example.com", lead.Email)
		assert.Equal(t, "4K OLED TV", lead.Product)
		assert.InDelta(t, 1299.0, lead.Amount, 0.001)
	})

	t.Run("FirstMatchWins", func(t *testing.T) {
		cols, err := MapLeadColumns([]string{"Phone", "Mobile"})
		require.NoError(t, err)
		assert.Equal(t, 0, cols.PhoneIdx)
	})

	t.Run("SubstringPhoneFallback", func(t *testing.T) {
		cols, err := MapLeadColumns([]string{"Customer", "Customer Phone #"})
		require.NoError(t, err)
		assert.Equal(t, 1, cols.PhoneIdx)
	})

	t.Run("NoPhoneColumn", func(t *testing.T) {
		_, err := MapLeadColumns([]string{"Name", "Email", "Amount"})
		require.ErrorIs(t, err, ErrNoPhoneColumn)
	})
}

func TestExtractLead(t *testing.T) {
	t.Run("FullNameSplit", func(t *testing.T) {
		cols, err := MapLeadColumns([]string{"Customer Name", "Phone"})
		require.NoError(t, err)

		lead := cols.ExtractLead([]string{"Dana Reyes Jr", "+14155550123"})
		assert.Equal(t, "Dana", lead.FirstName)
		assert.Equal(t, "Reyes Jr", lead.LastName)
	})

	t.Run("ShortRow", func(t *testing.T) {
		cols, err := MapLeadColumns([]string{"First Name", "Phone", "Amount"})
		require.NoError(t, err)

		lead := cols.ExtractLead([]string{"Dana"})
		assert.Equal(t, "Dana", lead.FirstName)
		assert.Empty(t, lead.Phone)
		assert.Zero(t, lead.Amount)
	})
}

func TestImportedPricesForRow(t *testing.T) {
	headers := []string{"Product", "Phone", "2 Year Plan", "3 Year Plan"}
	mapping := []ColumnMapping{
		{Duration: "2YR", SourceColumn: "2 Year Plan"},
		{Duration: "3YR", SourceColumn: "3 Year Plan"},
	}

	t.Run("ReadsMappedColumns", func(t *testing.T) {
		prices := ImportedPricesForRow(headers, []string{"TV", "+14155550123", "$149.99", "199"}, mapping)
		require.NotNil(t, prices)
		assert.InDelta(t, 149.99, prices["2YR"], 0.001)
		assert.InDelta(t, 199.0, prices["3YR"], 0.001)
	})

	t.Run("OmitsUnparseableCells", func(t *testing.T) {
		prices := ImportedPricesForRow(headers, []string{"TV", "+14155550123", "call us", "199"}, mapping)
		require.NotNil(t, prices)
		_, ok := prices["2YR"]
		assert.False(t, ok)
		assert.InDelta(t, 199.0, prices["3YR"], 0.001)
	})

	t.Run("NilWithoutMapping", func(t *testing.T) {
		assert.Nil(t, ImportedPricesForRow(headers, []string{"TV", "+14155550123", "149", "199"}, nil))
	})

	t.Run("NilWhenNothingParses", func(t *testing.T) {
		assert.Nil(t, ImportedPricesForRow(headers, []string{"TV", "+14155550123"}, mapping))
	})
}
