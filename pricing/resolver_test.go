package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestResolveDynamic(t *testing.T) {
	t.Run("PercentageOfPurchaseAmount", func(t *testing.T) {
		p := Profile{Model: ModelDynamic, Rules: Rules{Dynamic: &DynamicRules{Percentage: f(15)}}}
		ctx := ResolvePrices(p, 1000)
		assert.Equal(t, 150.0, ctx.Price2Yr)
		assert.Equal(t, 105.0, ctx.Price1Yr)
		assert.Equal(t, 210.0, ctx.Price3Yr)
		assert.Equal(t, 150.0, ctx.DiscountPrice)
	})

	t.Run("DefaultPercentage", func(t *testing.T) {
		p := Profile{Model: ModelDynamic, Rules: Rules{Dynamic: &DynamicRules{}}}
		assert.Equal(t, 150.0, ResolvePrices(p, 1000).Price2Yr)
	})

	t.Run("FlatRateWhenNoPercentage", func(t *testing.T) {
		p := Profile{Model: ModelDynamic, Rules: Rules{Dynamic: &DynamicRules{FlatRate: f(120)}}}
		assert.Equal(t, 120.0, ResolvePrices(p, 1000).Price2Yr)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		p := Profile{Model: ModelDynamic, Rules: Rules{Dynamic: &DynamicRules{Percentage: f(15)}}}
		ctx := ResolvePrices(p, 0)
		assert.Equal(t, 0.0, ctx.Price2Yr)
		assert.Equal(t, 0.0, ctx.Price1Yr)
	})
}

func TestResolveStatic(t *testing.T) {
	t.Run("AllFieldsPresent", func(t *testing.T) {
		p := Profile{Model: ModelStatic, Rules: Rules{Static: &StaticRules{Price1Yr: f(99), Price2Yr: f(179), Price3Yr: f(259)}}}
		ctx := ResolvePrices(p, 500)
		assert.Equal(t, 99.0, ctx.Price1Yr)
		assert.Equal(t, 179.0, ctx.Price2Yr)
		assert.Equal(t, 259.0, ctx.Price3Yr)
	})

	t.Run("DerivedFromTwoYearPrice", func(t *testing.T) {
		p := Profile{Model: ModelStatic, Rules: Rules{Static: &StaticRules{Price2Yr: f(200)}}}
		ctx := ResolvePrices(p, 500)
		assert.Equal(t, 140.0, ctx.Price1Yr)
		assert.Equal(t, 280.0, ctx.Price3Yr)
	})

	t.Run("FlatRateFallback", func(t *testing.T) {
		p := Profile{Model: ModelStatic, Rules: Rules{Static: &StaticRules{FlatRate: f(150)}}}
		assert.Equal(t, 150.0, ResolvePrices(p, 500).Price2Yr)
	})

	t.Run("EmptyRulesDefault", func(t *testing.T) {
		p := Profile{Model: ModelStatic, Rules: Rules{Static: &StaticRules{}}}
		ctx := ResolvePrices(p, 500)
		assert.Equal(t, 199.0, ctx.Price2Yr)
		assert.Equal(t, 139.0, ctx.Price1Yr) // round(199*0.7)
		assert.Equal(t, 279.0, ctx.Price3Yr) // round(199*1.4)
	})
}

func TestResolveTiered(t *testing.T) {
	brackets := []Bracket{
		{Min: 0, Max: 500, Price: 49},
		{Min: 501, Max: 1500, Price: 149},
		{Min: 1501, Max: 5000, Price: 299},
	}
	p := Profile{Model: ModelTiered, Rules: Rules{Tiered: &TieredRules{Brackets: brackets}}}

	t.Run("MatchingBracket", func(t *testing.T) {
		assert.Equal(t, 49.0, ResolvePrices(p, 300).Price2Yr)
		assert.Equal(t, 149.0, ResolvePrices(p, 1000).Price2Yr)
		assert.Equal(t, 299.0, ResolvePrices(p, 2000).Price2Yr)
	})

	t.Run("BoundariesInclusive", func(t *testing.T) {
		assert.Equal(t, 49.0, ResolvePrices(p, 500).Price2Yr)
		assert.Equal(t, 149.0, ResolvePrices(p, 501).Price2Yr)
	})

	t.Run("NoMatchFallsBackToFirstBracket", func(t *testing.T) {
		assert.Equal(t, 299.0, ResolvePrices(p, 99999).Price2Yr)
		first := ResolvePrices(p, 500.5) // gap between brackets
		assert.Equal(t, 49.0, first.Price2Yr)
	})

	t.Run("PerDurationOverrides", func(t *testing.T) {
		withPrices := Profile{Model: ModelTiered, Rules: Rules{Tiered: &TieredRules{Brackets: []Bracket{
			{Min: 0, Max: 1000, Price: 100, Prices: map[string]float64{"1YR": 60, "3YR": 180}},
		}}}}
		ctx := ResolvePrices(withPrices, 400)
		assert.Equal(t, 60.0, ctx.Price1Yr)
		assert.Equal(t, 100.0, ctx.Price2Yr)
		assert.Equal(t, 180.0, ctx.Price3Yr)
	})

	t.Run("EmptyBracketsDefault", func(t *testing.T) {
		empty := Profile{Model: ModelTiered, Rules: Rules{Tiered: &TieredRules{}}}
		ctx := ResolvePrices(empty, 400)
		assert.Equal(t, 199.0, ctx.Price2Yr)
		assert.Equal(t, 139.0, ctx.Price1Yr)
	})
}

func TestResolveTotality(t *testing.T) {
	// The resolver never errors: an absent or invalid model degrades to the
	// individual fallback constants so the call can proceed.
	profiles := []Profile{
		{},
		{Model: ModelIndividual, Rules: Rules{Individual: &IndividualRules{}}},
		{Model: ModelKind("bogus")},
		{Model: ModelTiered}, // tiered with nil rules
		{Model: ModelStatic},
		{Model: ModelDynamic},
	}
	for _, p := range profiles {
		ctx := ResolvePrices(p, 750)
		assert.Positive(t, ctx.Price2Yr, "model %q", p.Model)
	}

	fallback := ResolvePrices(Profile{Model: ModelIndividual}, 750)
	assert.Equal(t, CallPricingContext{Price1Yr: 149, Price2Yr: 199, Price3Yr: 249, DiscountPrice: 199}, fallback)
}

func TestHiddenDiscountPrice(t *testing.T) {
	base := Profile{Model: ModelStatic, Rules: Rules{Static: &StaticRules{Price2Yr: f(200)}}}

	t.Run("Disabled", func(t *testing.T) {
		ctx := ResolvePrices(base, 500)
		assert.Equal(t, ctx.Price2Yr, ctx.DiscountPrice)
	})

	t.Run("Enabled", func(t *testing.T) {
		p := base
		p.HiddenDiscountEnabled = true
		ctx := ResolvePrices(p, 500)
		assert.Equal(t, 170.0, ctx.DiscountPrice) // round(200*0.85)
	})
}

func TestResolveDeterminism(t *testing.T) {
	p := Profile{Model: ModelDynamic, Rules: Rules{Dynamic: &DynamicRules{Percentage: f(12.5)}}, HiddenDiscountEnabled: true}
	first := ResolvePrices(p, 1234.56)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ResolvePrices(p, 1234.56))
	}
}
