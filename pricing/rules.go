package pricing

import "errors"

// ModelKind identifies which pricing model a tenant runs. Exactly one model
// is active per tenant at a time; switching models replaces Rules wholesale.
type ModelKind string

const (
	ModelTiered     ModelKind = "tiered"
	ModelDynamic    ModelKind = "dynamic"
	ModelStatic     ModelKind = "static"
	ModelIndividual ModelKind = "individual"
	ModelNone       ModelKind = ""
)

// Valid checks if the model kind is one of the known variants.
func (m ModelKind) Valid() bool {
	switch m {
	case ModelTiered, ModelDynamic, ModelStatic, ModelIndividual, ModelNone:
		return true
	default:
		return false
	}
}

// Bracket maps a purchase-amount range to a 2-year plan price. Prices holds
// optional per-duration overrides keyed by duration label ("1YR", "3YR").
type Bracket struct {
	Min    float64            `json:"min"`
	Max    float64            `json:"max"`
	Price  float64            `json:"price"`
	Prices map[string]float64 `json:"prices,omitempty"`
}

// TieredRules prices plans by purchase-amount bracket.
type TieredRules struct {
	Brackets []Bracket `json:"brackets"`
}

// StaticRules holds flat per-duration prices entered by hand.
type StaticRules struct {
	Price1Yr *float64 `json:"price_1yr,omitempty"`
	Price2Yr *float64 `json:"price_2yr,omitempty"`
	Price3Yr *float64 `json:"price_3yr,omitempty"`
	FlatRate *float64 `json:"flat_rate,omitempty"`
}

// DynamicRules prices plans as a percentage of the purchase amount.
type DynamicRules struct {
	Percentage *float64 `json:"percentage,omitempty"`
	FlatRate   *float64 `json:"flat_rate,omitempty"`
}

// ColumnMapping associates a duration label with the source column it was
// imported from. Order follows the classifier's plan-column ranking.
type ColumnMapping struct {
	Duration     string `json:"duration"`
	SourceColumn string `json:"source_column"`
}

// IndividualRules records which uploaded columns carry exact per-row plan
// prices. The prices themselves are read at row-ingestion time, not here.
type IndividualRules struct {
	Mapping []ColumnMapping `json:"mapping"`
}

// Rules is the model-specific payload. Exactly one variant is non-nil for a
// profile with a non-empty model; the others must be nil so stale fields from
// a previous model can never leak into price computation.
type Rules struct {
	Tiered     *TieredRules     `json:"tiered,omitempty"`
	Static     *StaticRules     `json:"static,omitempty"`
	Dynamic    *DynamicRules    `json:"dynamic,omitempty"`
	Individual *IndividualRules `json:"individual,omitempty"`
}

// ErrInvalidModelState reports a profile whose rules shape does not match its
// declared model. The resolver never returns it; callers check rule shape
// with it before persisting a profile.
var ErrInvalidModelState = errors.New("pricing model does not match rules shape")

// Profile is the pricing-relevant slice of a tenant's campaign configuration.
type Profile struct {
	Model                 ModelKind
	Durations             []string
	Rules                 Rules
	HiddenDiscountEnabled bool
	RetentionDiscount     float64
	RetentionType         string // "fixed" or "percentage"
}

// Validate checks the one-variant-per-model invariant.
func (p Profile) Validate() error {
	if !p.Model.Valid() {
		return ErrInvalidModelState
	}

	set := 0
	if p.Rules.Tiered != nil {
		set++
	}
	if p.Rules.Static != nil {
		set++
	}
	if p.Rules.Dynamic != nil {
		set++
	}
	if p.Rules.Individual != nil {
		set++
	}

	if p.Model == ModelNone {
		if set != 0 {
			return ErrInvalidModelState
		}
		return nil
	}
	if set != 1 {
		return ErrInvalidModelState
	}

	ok := false
	switch p.Model {
	case ModelTiered:
		ok = p.Rules.Tiered != nil
	case ModelStatic:
		ok = p.Rules.Static != nil
	case ModelDynamic:
		ok = p.Rules.Dynamic != nil
	case ModelIndividual:
		ok = p.Rules.Individual != nil
	}
	if !ok {
		return ErrInvalidModelState
	}
	return nil
}
