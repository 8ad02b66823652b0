package pricing

// Materialize converts a classification result into the persisted profile
// shape. Model and Rules are replaced wholesale; merging field-by-field
// across models is how stale pricing fields leak into call-time computation,
// so it is never done. Retention settings and any other unrelated fields on
// the current profile are preserved.
func Materialize(result DiscoveryResult, current Profile) Profile {
	next := current
	next.Model = result.Model
	next.Durations = append([]string(nil), result.Durations...)
	next.HiddenDiscountEnabled = result.HiddenDiscount
	next.Rules = Rules{}

	switch result.Model {
	case ModelIndividual:
		next.Rules.Individual = &IndividualRules{
			Mapping: append([]ColumnMapping(nil), result.Mapping...),
		}
	case ModelTiered:
		next.Rules.Tiered = &TieredRules{
			Brackets: append([]Bracket(nil), result.Brackets...),
		}
	}

	return next
}

// MaterializeManual handles the hand-entered path: a seller types flat
// per-duration prices directly instead of uploading a sheet.
func MaterializeManual(price1yr, price2yr, price3yr float64, current Profile) Profile {
	next := current
	next.Model = ModelStatic
	next.Durations = []string{"1YR", "2YR", "3YR"}
	next.HiddenDiscountEnabled = current.HiddenDiscountEnabled
	next.Rules = Rules{
		Static: &StaticRules{
			Price1Yr: &price1yr,
			Price2Yr: &price2yr,
			Price3Yr: &price3yr,
		},
	}
	return next
}
