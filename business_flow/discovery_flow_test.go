package businessflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/pricing"
	"github.com/copromote/henry-help/repository"
	apptesting "github.com/copromote/henry-help/testing"
)

// Price validation runs before any repository access, so a flow with nil
// dependencies exercises the rejection paths directly.
func TestSetManualPricingRejectsBadPrices(t *testing.T) {
	flow := NewDiscoveryFlow(nil, nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		p1, p2, p3 float64
	}{
		{"ZeroPrice", 0, 149, 199},
		{"NegativePrice", 99, -1, 199},
		{"EqualAdjacentTerms", 99, 99, 199},
		{"Inverted", 199, 149, 99},
		{"LongerTermCheaper", 99, 149, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.SetManualPricing(ctx, &dto.ManualPricingRequest{
				SellerID: 1,
				Price1Yr: tt.p1,
				Price2Yr: tt.p2,
				Price3Yr: tt.p3,
			}, nil)

			require.Error(t, err)
			assert.True(t, IsManualPriceInvalid(err))
		})
	}
}

func TestSetManualPricingStoresStaticProfile(t *testing.T) {
	testDB := requireTestDB(t)
	fixtures := apptesting.NewTestFixtures(testDB)
	ctx := apptesting.CreateTestContext()

	seller, err := fixtures.CreateTestSeller()
	require.NoError(t, err)

	profileRepo := repository.NewProgramProfileRepository(testDB.DB)
	flow := NewDiscoveryFlow(
		profileRepo,
		repository.NewSellerRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		testDB.DB,
	)

	resp, err := flow.SetManualPricing(ctx, &dto.ManualPricingRequest{
		SellerID: seller.ID,
		Price1Yr: 99,
		Price2Yr: 149,
		Price3Yr: 199,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, string(pricing.ModelStatic), resp.Model)

	profile, err := profileRepo.BySellerID(ctx, seller.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.NotNil(t, profile.Rules.Static)
	require.NotNil(t, profile.Rules.Static.Price2Yr)
	assert.InDelta(t, 149.0, *profile.Rules.Static.Price2Yr, 0.001)
}
