package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeReplacesRulesWholesale(t *testing.T) {
	current := Profile{
		Model:                 ModelDynamic,
		Durations:             []string{"2YR"},
		Rules:                 Rules{Dynamic: &DynamicRules{Percentage: f(20)}},
		HiddenDiscountEnabled: true,
		RetentionDiscount:     10,
		RetentionType:         "percentage",
	}
	result := DiscoveryResult{
		Model:      ModelTiered,
		Confidence: 0.60,
		Brackets:   defaultBrackets(),
	}

	next := Materialize(result, current)

	assert.Equal(t, ModelTiered, next.Model)
	require.NotNil(t, next.Rules.Tiered)
	assert.Nil(t, next.Rules.Dynamic, "stale dynamic rules must not survive a model switch")
	assert.Nil(t, next.Rules.Static)
	assert.Nil(t, next.Rules.Individual)
	assert.False(t, next.HiddenDiscountEnabled)

	// Unrelated fields survive untouched.
	assert.Equal(t, 10.0, next.RetentionDiscount)
	assert.Equal(t, "percentage", next.RetentionType)

	assert.NoError(t, next.Validate())
}

func TestMaterializeIndividual(t *testing.T) {
	result := DiscoveryResult{
		Model:          ModelIndividual,
		Confidence:     1.0,
		Durations:      []string{"2YR", "3YR"},
		Mapping:        []ColumnMapping{{Duration: "2YR", SourceColumn: "2 yr Plan"}, {Duration: "3YR", SourceColumn: "3 yr Plan"}},
		HiddenDiscount: true,
	}

	next := Materialize(result, Profile{})

	assert.Equal(t, ModelIndividual, next.Model)
	require.NotNil(t, next.Rules.Individual)
	assert.Equal(t, result.Mapping, next.Rules.Individual.Mapping)
	assert.Equal(t, []string{"2YR", "3YR"}, next.Durations)
	assert.True(t, next.HiddenDiscountEnabled)
	assert.NoError(t, next.Validate())
}

func TestMaterializeManual(t *testing.T) {
	current := Profile{
		Model:             ModelIndividual,
		Rules:             Rules{Individual: &IndividualRules{}},
		RetentionDiscount: 25,
		RetentionType:     "fixed",
	}

	next := MaterializeManual(99, 179, 259, current)

	assert.Equal(t, ModelStatic, next.Model)
	require.NotNil(t, next.Rules.Static)
	assert.Nil(t, next.Rules.Individual)
	assert.Equal(t, 179.0, *next.Rules.Static.Price2Yr)
	assert.Equal(t, []string{"1YR", "2YR", "3YR"}, next.Durations)
	assert.Equal(t, 25.0, next.RetentionDiscount)
	assert.NoError(t, next.Validate())

	ctx := ResolvePrices(next, 1000)
	assert.Equal(t, 99.0, ctx.Price1Yr)
	assert.Equal(t, 179.0, ctx.Price2Yr)
	assert.Equal(t, 259.0, ctx.Price3Yr)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"EmptyProfile", Profile{}, false},
		{"TieredOK", Profile{Model: ModelTiered, Rules: Rules{Tiered: &TieredRules{}}}, false},
		{"ModelWithoutRules", Profile{Model: ModelStatic}, true},
		{"RulesWithoutModel", Profile{Rules: Rules{Static: &StaticRules{}}}, true},
		{"MismatchedVariant", Profile{Model: ModelStatic, Rules: Rules{Dynamic: &DynamicRules{}}}, true},
		{"TwoVariantsSet", Profile{Model: ModelStatic, Rules: Rules{Static: &StaticRules{}, Dynamic: &DynamicRules{}}}, true},
		{"UnknownModel", Profile{Model: ModelKind("bogus")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidModelState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClassifyThenMaterializeRoundTrip(t *testing.T) {
	res, err := Classify(ParseCSV("Product Price,2 yr Plan,3 yr Plan\n1000,139.99,159.99\n"))
	require.NoError(t, err)

	profile := Materialize(res, Profile{RetentionDiscount: 5, RetentionType: "fixed"})
	require.NoError(t, profile.Validate())
	assert.Equal(t, ModelIndividual, profile.Model)
	assert.Equal(t, 5.0, profile.RetentionDiscount)
}
