package measure

import (
	"errors"
	"math"
)

// ErrIncompatibleUnits is returned when a conversion is requested between
// units that share no common base, e.g. volume to weight or anything
// involving a count or special unit. It is an expected outcome, not a fault;
// callers check for it before using the converted value.
var ErrIncompatibleUnits = errors.New("units are not compatible")

// baseFactors maps each convertible unit to its base unit: milliliters for
// volume, grams for weight. Count and special units have no factor.
var baseFactors = map[Unit]float64{
	Teaspoon:   4.92892,
	Tablespoon: 14.7868,
	FluidOunce: 29.5735,
	Cup:        236.588,
	Pint:       473.176,
	Quart:      946.353,
	Gallon:     3785.41,
	Milliliter: 1,
	Liter:      1000,
	Ounce:      28.3495,
	Pound:      453.592,
	Gram:       1,
	Kilogram:   1000,
}

// AreUnitsCompatible reports whether a quantity can be converted between the
// two units: the same unit, or both volume, or both weight.
func AreUnitsCompatible(a, b Unit) bool {
	if a == b {
		return true
	}
	ca, cb := a.Category(), b.Category()
	if ca != cb {
		return false
	}
	return ca == CategoryVolume || ca == CategoryWeight
}

// Convert converts a quantity between two units of the same category via the
// category's base unit. Converting a unit to itself is exact.
func Convert(quantity float64, from, to Unit) (float64, error) {
	if from == to {
		return quantity, nil
	}
	if !AreUnitsCompatible(from, to) {
		return 0, ErrIncompatibleUnits
	}
	return quantity * baseFactors[from] / baseFactors[to], nil
}

// unitThreshold pairs a display unit with the largest base-unit quantity it
// is still a sensible choice for.
type unitThreshold struct {
	maxBase float64
	unit    Unit
}

// bestUnitTables lists display units from smallest to largest per category
// and system. The last entry is the unbounded fallback.
var bestUnitTables = map[Category]map[System][]unitThreshold{
	CategoryVolume: {
		SystemUS: {
			{14.7868, Teaspoon},
			{59.1471, Tablespoon},
			{946.353, Cup},
			{3785.41, Quart},
			{math.Inf(1), Gallon},
		},
		SystemMetric: {
			{1000, Milliliter},
			{math.Inf(1), Liter},
		},
	},
	CategoryWeight: {
		SystemUS: {
			{453.592, Ounce},
			{math.Inf(1), Pound},
		},
		SystemMetric: {
			{1000, Gram},
			{math.Inf(1), Kilogram},
		},
	},
}

// BestUnitForSystem picks the display unit in the target system whose size
// best fits the quantity. Only defined for volume and weight units.
func BestUnitForSystem(quantity float64, from Unit, target System) (Unit, error) {
	tiers, ok := bestUnitTables[from.Category()][target]
	if !ok {
		return "", ErrIncompatibleUnits
	}
	base := quantity * baseFactors[from]
	for _, tier := range tiers {
		if base < tier.maxBase {
			return tier.unit, nil
		}
	}
	return tiers[len(tiers)-1].unit, nil
}

// ConvertToSystem re-expresses an ingredient in the target system's best
// fitting unit. Ingredients with no system (count, special) or already in the
// target system come back unchanged, as does anything that cannot be
// converted. Never fails.
func ConvertToSystem(ing Ingredient, target System) Ingredient {
	if ing.Unit.System() == SystemNone || ing.Unit.System() == target {
		return ing
	}
	best, err := BestUnitForSystem(ing.Quantity, ing.Unit, target)
	if err != nil {
		return ing
	}
	converted, err := Convert(ing.Quantity, ing.Unit, best)
	if err != nil {
		return ing
	}
	ing.Quantity = converted
	ing.Unit = best
	return ing
}
