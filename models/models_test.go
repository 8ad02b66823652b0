package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copromote/henry-help/pricing"
)

func TestSellerPasswordRoundTrip(t *testing.T) {
	seller := &Seller{}
	require.NoError(t, seller.SetPassword("SecurePass123!"))
	assert.NotEmpty(t, seller.PasswordHash)
	assert.NotEqual(t, "SecurePass123!", seller.PasswordHash)

	assert.True(t, seller.CheckPassword("SecurePass123!"))
	assert.False(t, seller.CheckPassword("WrongPass123!"))
	assert.False(t, seller.CheckPassword(""))
}

func TestCampaignStatusTransitions(t *testing.T) {
	tests := []struct {
		from    CampaignStatus
		to      CampaignStatus
		allowed bool
	}{
		{CampaignStatusDraft, CampaignStatusActive, true},
		{CampaignStatusDraft, CampaignStatusArchived, true},
		{CampaignStatusDraft, CampaignStatusPaused, false},
		{CampaignStatusActive, CampaignStatusPaused, true},
		{CampaignStatusActive, CampaignStatusArchived, true},
		{CampaignStatusActive, CampaignStatusDraft, false},
		{CampaignStatusPaused, CampaignStatusActive, true},
		{CampaignStatusPaused, CampaignStatusArchived, true},
		{CampaignStatusPaused, CampaignStatusDraft, false},
		{CampaignStatusArchived, CampaignStatusActive, false},
		{CampaignStatusArchived, CampaignStatusDraft, false},
	}

	for _, tt := range tests {
		c := &Campaign{Status: tt.from}
		assert.Equal(t, tt.allowed, c.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCampaignDispatchAndEditGates(t *testing.T) {
	active := &Campaign{Status: CampaignStatusActive}
	assert.True(t, active.CanDispatch())
	assert.True(t, active.IsEditable())

	draft := &Campaign{Status: CampaignStatusDraft}
	assert.False(t, draft.CanDispatch())
	assert.True(t, draft.IsEditable())

	archived := &Campaign{Status: CampaignStatusArchived}
	assert.False(t, archived.CanDispatch())
	assert.False(t, archived.IsEditable())
}

func TestCallRecordBeforeCreateAssignsUUID(t *testing.T) {
	record := &CallRecord{SellerID: 1, ProviderCallID: "prov-1"}
	require.NoError(t, record.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, record.UUID)
	assert.Equal(t, CallStatusQueued, record.Status)
	assert.False(t, record.DispatchedAt.IsZero())

	// Consecutive creates must not collide on the unique UUID index.
	second := &CallRecord{SellerID: 1, ProviderCallID: "prov-2"}
	require.NoError(t, second.BeforeCreate(nil))
	assert.NotEqual(t, record.UUID, second.UUID)

	// A UUID set by the caller survives the hook.
	fixed := uuid.New()
	third := &CallRecord{UUID: fixed}
	require.NoError(t, third.BeforeCreate(nil))
	assert.Equal(t, fixed, third.UUID)
}

func TestProspectFullName(t *testing.T) {
	last := "Nguyen"
	empty := ""

	p := &Prospect{FirstName: "Maria", LastName: &last}
	assert.Equal(t, "Maria Nguyen", p.FullName())

	p = &Prospect{FirstName: "Maria"}
	assert.Equal(t, "Maria", p.FullName())

	p = &Prospect{FirstName: "Maria", LastName: &empty}
	assert.Equal(t, "Maria", p.FullName())
}

func TestImportedPricesScanValue(t *testing.T) {
	prices := ImportedPrices{"2YR": 129.99, "3YR": 179.99}

	raw, err := prices.Value()
	require.NoError(t, err)

	var scanned ImportedPrices
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, prices, scanned)

	var fromString ImportedPrices
	require.NoError(t, fromString.Scan(`{"1YR":59.5}`))
	assert.Equal(t, ImportedPrices{"1YR": 59.5}, fromString)

	var fromNil ImportedPrices
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)

	assert.Error(t, fromNil.Scan(42))
}

func TestRulesPayloadScanValue(t *testing.T) {
	pct := 12.5
	rules := RulesPayload{Dynamic: &pricing.DynamicRules{Percentage: &pct}}

	raw, err := rules.Value()
	require.NoError(t, err)

	var scanned RulesPayload
	require.NoError(t, scanned.Scan(raw))
	require.NotNil(t, scanned.Dynamic)
	require.NotNil(t, scanned.Dynamic.Percentage)
	assert.Equal(t, 12.5, *scanned.Dynamic.Percentage)
	assert.Nil(t, scanned.Tiered)

	var fromNil RulesPayload
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, RulesPayload{}, fromNil)
}

func TestBundleStatusValid(t *testing.T) {
	assert.True(t, BundleStatusProposed.Valid())
	assert.True(t, BundleStatusAccepted.Valid())
	assert.True(t, BundleStatusDeclined.Valid())
	assert.True(t, BundleStatusPublished.Valid())
	assert.False(t, BundleStatus("pending").Valid())
	assert.False(t, BundleStatus("").Valid())
}
