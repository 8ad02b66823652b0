package pricing

import (
	"errors"
	"strings"
)

// LeadField is a normalized lead-sheet field name. Uploaded sheets arrive
// with arbitrary headers; aliases fold them onto these canonical names.
type LeadField string

const (
	LeadFieldFirstName LeadField = "first_name"
	LeadFieldLastName  LeadField = "last_name"
	LeadFieldFullName  LeadField = "full_name"
	LeadFieldPhone     LeadField = "phone"
	LeadFieldEmail     LeadField = "email"
	LeadFieldProduct   LeadField = "product"
	LeadFieldAmount    LeadField = "amount"
)

// ErrNoPhoneColumn reports a lead sheet with no recognizable phone column.
// Without a phone number a row cannot be called, so the import is rejected
// outright rather than silently dropping every row.
var ErrNoPhoneColumn = errors.New("no phone column found in lead sheet")

// leadAliases maps lowercase header names to canonical lead fields. When
// multiple raw headers mean the same thing, they all map here.
var leadAliases = map[string]LeadField{
	// First name
	"first_name": LeadFieldFirstName,
	"firstname":  LeadFieldFirstName,
	"fname":      LeadFieldFirstName,
	"first":      LeadFieldFirstName,
	"first name": LeadFieldFirstName,

	// Last name
	"last_name": LeadFieldLastName,
	"lastname":  LeadFieldLastName,
	"lname":     LeadFieldLastName,
	"last":      LeadFieldLastName,
	"last name": LeadFieldLastName,

	// Full name, split on the first space when no split columns exist
	"name":          LeadFieldFullName,
	"full_name":     LeadFieldFullName,
	"full name":     LeadFieldFullName,
	"customer":      LeadFieldFullName,
	"customer name": LeadFieldFullName,

	// Phone
	"phone":        LeadFieldPhone,
	"phone_number": LeadFieldPhone,
	"phone number": LeadFieldPhone,
	"mobile":       LeadFieldPhone,
	"cell":         LeadFieldPhone,
	"telephone":    LeadFieldPhone,

	// Email
	"email":         LeadFieldEmail,
	"email_address": LeadFieldEmail,
	"e-mail":        LeadFieldEmail,

	// Product purchased
	"product":      LeadFieldProduct,
	"product name": LeadFieldProduct,
	"product_name": LeadFieldProduct,
	"item":         LeadFieldProduct,
	"model":        LeadFieldProduct,
	"description":  LeadFieldProduct,

	// Purchase amount
	"amount":          LeadFieldAmount,
	"purchase amount": LeadFieldAmount,
	"purchase_amount": LeadFieldAmount,
	"purchase price":  LeadFieldAmount,
	"price":           LeadFieldAmount,
	"price paid":      LeadFieldAmount,
	"total":           LeadFieldAmount,
	"order total":     LeadFieldAmount,
}

// LeadColumns is the resolved mapping from sheet column indices to lead
// fields. PhoneIdx is always valid; every other index is -1 when the sheet
// has no matching column.
type LeadColumns struct {
	fieldIdx map[LeadField]int
	PhoneIdx int
}

// MapLeadColumns resolves an uploaded sheet's headers onto lead fields.
// The first header matching each field wins; a sheet without a phone column
// fails with ErrNoPhoneColumn.
func MapLeadColumns(headers []string) (LeadColumns, error) {
	cols := LeadColumns{
		fieldIdx: make(map[LeadField]int, len(headers)),
		PhoneIdx: -1,
	}

	for i, h := range headers {
		normalized := strings.ToLower(strings.TrimSpace(h))
		normalized = strings.Trim(normalized, "\"'")

		field, ok := leadAliases[normalized]
		if !ok {
			continue
		}
		if _, taken := cols.fieldIdx[field]; taken {
			continue
		}
		cols.fieldIdx[field] = i
	}

	// Fallback: any header containing "phone" when no exact alias matched.
	if _, ok := cols.fieldIdx[LeadFieldPhone]; !ok {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), "phone") {
				cols.fieldIdx[LeadFieldPhone] = i
				break
			}
		}
	}

	idx, ok := cols.fieldIdx[LeadFieldPhone]
	if !ok {
		return LeadColumns{}, ErrNoPhoneColumn
	}
	cols.PhoneIdx = idx
	return cols, nil
}

// Lead is one extracted lead-sheet row.
type Lead struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Product   string
	Amount    float64
}

func (c LeadColumns) cell(row []string, field LeadField) string {
	idx, ok := c.fieldIdx[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ExtractLead reads one data row through the resolved mapping. Rows without
// a phone number come back with an empty Phone; callers skip those. A full
// name column is split on the first space when the sheet has no separate
// first/last columns.
func (c LeadColumns) ExtractLead(row []string) Lead {
	lead := Lead{
		FirstName: c.cell(row, LeadFieldFirstName),
		LastName:  c.cell(row, LeadFieldLastName),
		Phone:     c.cell(row, LeadFieldPhone),
		Email:     c.cell(row, LeadFieldEmail),
		Product:   c.cell(row, LeadFieldProduct),
	}

	if lead.FirstName == "" {
		if full := c.cell(row, LeadFieldFullName); full != "" {
			parts := strings.SplitN(full, " ", 2)
			lead.FirstName = parts[0]
			if len(parts) > 1 && lead.LastName == "" {
				lead.LastName = strings.TrimSpace(parts[1])
			}
		}
	}

	if amount, ok := parseCurrency(c.cell(row, LeadFieldAmount)); ok {
		lead.Amount = amount
	}

	return lead
}

// ImportedPricesForRow applies a stored individual-model column mapping to
// one lead row, reading the exact per-duration plan price out of the source
// column each duration was discovered in. Cells that do not parse as a price
// are omitted so the resolver falls back to the computed value.
func ImportedPricesForRow(headers []string, row []string, mapping []ColumnMapping) map[string]float64 {
	if len(mapping) == 0 {
		return nil
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	prices := make(map[string]float64, len(mapping))
	for _, m := range mapping {
		idx, ok := index[strings.ToLower(strings.TrimSpace(m.SourceColumn))]
		if !ok || idx >= len(row) {
			continue
		}
		if v, ok := parseCurrency(row[idx]); ok {
			prices[m.Duration] = v
		}
	}
	if len(prices) == 0 {
		return nil
	}
	return prices
}
