package pricing

import "math"

// Business constants shared by every model: the 2-year price is the anchor,
// 1-year sells at 70% of it and 3-year at 140%; the hidden discount takes 15%
// off the 2-year price. These are fixed business rules, not tunables.
const (
	oneYearFactor   = 0.7
	threeYearFactor = 1.4
	discountFactor  = 0.85

	defaultDynamicPercent = 15
	defaultPlanPrice      = 199
)

// Individual-model fallbacks, used when the per-row imported price is not
// available to the resolver (and for absent or invalid models, so an outbound
// call always has usable numbers).
const (
	fallbackPrice1Yr = 149
	fallbackPrice2Yr = 199
	fallbackPrice3Yr = 249
)

// CallPricingContext carries the concrete prices for one outbound call.
// Computed fresh per call request, never cached, deterministic for a given
// profile and amount.
type CallPricingContext struct {
	Price1Yr      float64 `json:"price_1yr"`
	Price2Yr      float64 `json:"price_2yr"`
	Price3Yr      float64 `json:"price_3yr"`
	DiscountPrice float64 `json:"discount_price"`
}

// ResolvePrices computes 1/2/3-year warranty prices for a purchase amount.
// It is total: a broken or absent profile degrades to safe defaults rather
// than blocking the call.
func ResolvePrices(profile Profile, purchaseAmount float64) CallPricingContext {
	var p1, p2, p3 float64

	switch profile.Model {
	case ModelDynamic:
		p2 = resolveDynamic(profile.Rules.Dynamic, purchaseAmount)
		p1 = round(p2 * oneYearFactor)
		p3 = round(p2 * threeYearFactor)

	case ModelStatic:
		p1, p2, p3 = resolveStatic(profile.Rules.Static)

	case ModelTiered:
		p1, p2, p3 = resolveTiered(profile.Rules.Tiered, purchaseAmount)

	default:
		// ModelIndividual reads exact prices at row-ingestion time; by the
		// time the resolver runs those live on the prospect record, so it
		// answers with fixed defaults. Unknown models land here too.
		p1, p2, p3 = fallbackPrice1Yr, fallbackPrice2Yr, fallbackPrice3Yr
	}

	ctx := CallPricingContext{Price1Yr: p1, Price2Yr: p2, Price3Yr: p3}
	if profile.HiddenDiscountEnabled {
		ctx.DiscountPrice = round(p2 * discountFactor)
	} else {
		ctx.DiscountPrice = p2
	}
	return ctx
}

// ApplyImportedPrices overlays per-row imported plan prices onto a resolved
// context. Used by the individual model at call time, when the prospect row
// carries exact prices read at ingestion. Durations without an imported price
// keep the resolved value; the discount is recomputed off the final 2-year
// price.
func ApplyImportedPrices(ctx CallPricingContext, imported map[string]float64, hiddenDiscountEnabled bool) CallPricingContext {
	if v, ok := imported["1YR"]; ok {
		ctx.Price1Yr = v
	}
	if v, ok := imported["2YR"]; ok {
		ctx.Price2Yr = v
	}
	if v, ok := imported["3YR"]; ok {
		ctx.Price3Yr = v
	}
	if hiddenDiscountEnabled {
		ctx.DiscountPrice = round(ctx.Price2Yr * discountFactor)
	} else {
		ctx.DiscountPrice = ctx.Price2Yr
	}
	return ctx
}

func resolveDynamic(r *DynamicRules, amount float64) float64 {
	pct := float64(defaultDynamicPercent)
	if r != nil {
		if r.Percentage != nil {
			pct = *r.Percentage
		} else if r.FlatRate != nil {
			return *r.FlatRate
		}
	}
	return round(amount * pct / 100)
}

func resolveStatic(r *StaticRules) (p1, p2, p3 float64) {
	p2 = defaultPlanPrice
	if r != nil {
		if r.Price2Yr != nil {
			p2 = *r.Price2Yr
		} else if r.FlatRate != nil {
			p2 = *r.FlatRate
		}
	}

	p1 = round(p2 * oneYearFactor)
	p3 = round(p2 * threeYearFactor)
	if r != nil {
		if r.Price1Yr != nil {
			p1 = *r.Price1Yr
		}
		if r.Price3Yr != nil {
			p3 = *r.Price3Yr
		}
	}
	return p1, p2, p3
}

func resolveTiered(r *TieredRules, amount float64) (p1, p2, p3 float64) {
	var bracket *Bracket
	if r != nil && len(r.Brackets) > 0 {
		for i := range r.Brackets {
			b := &r.Brackets[i]
			if amount >= b.Min && amount <= b.Max {
				bracket = b
				break
			}
		}
		if bracket == nil {
			bracket = &r.Brackets[0]
		}
	}

	if bracket == nil {
		p2 = defaultPlanPrice
		return round(p2 * oneYearFactor), p2, round(p2 * threeYearFactor)
	}

	p2 = bracket.Price
	p1 = round(p2 * oneYearFactor)
	p3 = round(p2 * threeYearFactor)
	if v, ok := bracket.Prices["1YR"]; ok {
		p1 = v
	}
	if v, ok := bracket.Prices["3YR"]; ok {
		p3 = v
	}
	return p1, p2, p3
}

func round(v float64) float64 {
	return math.Round(v)
}
