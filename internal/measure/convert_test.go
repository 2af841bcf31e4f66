package measure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kitchenbuddy/internal/measure"
)

func TestConvertIdentity(t *testing.T) {
	for _, u := range measure.Units() {
		got, err := measure.Convert(2.5, u, u)
		assert.NoError(t, err)
		assert.Equal(t, 2.5, got, "identity conversion for %s must be exact", u)
	}
}

func TestConvertKnownFactors(t *testing.T) {
	cases := []struct {
		quantity float64
		from, to measure.Unit
		want     float64
	}{
		{1, measure.Cup, measure.Milliliter, 236.588},
		{1, measure.Tablespoon, measure.Teaspoon, 3},
		{1, measure.Pound, measure.Ounce, 16},
		{1, measure.Gallon, measure.Quart, 4},
		{2, measure.Pint, measure.Cup, 4},
		{1000, measure.Gram, measure.Kilogram, 1},
		{1, measure.Liter, measure.Milliliter, 1000},
		{1, measure.FluidOunce, measure.Tablespoon, 2},
	}
	for _, tc := range cases {
		got, err := measure.Convert(tc.quantity, tc.from, tc.to)
		assert.NoError(t, err)
		assert.InDelta(t, tc.want, got, tc.want*0.001, "%g %s -> %s", tc.quantity, tc.from, tc.to)
	}
}

func TestConvertIncompatible(t *testing.T) {
	cases := []struct {
		from, to measure.Unit
	}{
		{measure.Cup, measure.Gram},     // volume -> weight
		{measure.Pound, measure.Liter},  // weight -> volume
		{measure.Piece, measure.Dozen},  // count units never convert
		{measure.Pinch, measure.Dash},   // special units never convert
		{measure.Cup, measure.Piece},    // volume -> count
		{measure.ToTaste, measure.Gram}, // special -> weight
	}
	for _, tc := range cases {
		_, err := measure.Convert(1, tc.from, tc.to)
		assert.ErrorIs(t, err, measure.ErrIncompatibleUnits, "%s -> %s", tc.from, tc.to)
	}
}

func TestAreUnitsCompatible(t *testing.T) {
	assert.True(t, measure.AreUnitsCompatible(measure.Cup, measure.Cup))
	assert.True(t, measure.AreUnitsCompatible(measure.Cup, measure.Liter))
	assert.True(t, measure.AreUnitsCompatible(measure.Ounce, measure.Kilogram))
	assert.True(t, measure.AreUnitsCompatible(measure.Pinch, measure.Pinch))
	assert.False(t, measure.AreUnitsCompatible(measure.Cup, measure.Gram))
	assert.False(t, measure.AreUnitsCompatible(measure.Piece, measure.Dozen))
	assert.False(t, measure.AreUnitsCompatible(measure.Pinch, measure.Dash))
}

// Converting any US quantity to the best metric unit and back to the original
// unit must land within 1% of where it started, and symmetrically.
func TestCrossSystemRoundTripWithinOnePercent(t *testing.T) {
	quantities := []float64{0.25, 0.5, 1, 2, 3.5, 7, 12, 48, 150}

	for _, u := range measure.Units() {
		system := u.System()
		if system == measure.SystemNone {
			continue
		}
		target := measure.SystemMetric
		if system == measure.SystemMetric {
			target = measure.SystemUS
		}

		for _, q := range quantities {
			best, err := measure.BestUnitForSystem(q, u, target)
			assert.NoError(t, err)
			there, err := measure.Convert(q, u, best)
			assert.NoError(t, err)
			back, err := measure.Convert(there, best, u)
			assert.NoError(t, err)
			assert.InDelta(t, q, back, q*0.01, "%g %s -> %s -> %s", q, u, best, u)
		}
	}
}

func TestSameSystemRoundTripExact(t *testing.T) {
	got, err := measure.Convert(3, measure.Tablespoon, measure.Teaspoon)
	assert.NoError(t, err)
	back, err := measure.Convert(got, measure.Teaspoon, measure.Tablespoon)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, back, 1e-9)
}

// Converting to the other system must never change a unit's category.
func TestCrossSystemPreservesCategory(t *testing.T) {
	for _, u := range measure.Units() {
		system := u.System()
		if system == measure.SystemNone {
			continue
		}
		target := measure.SystemMetric
		if system == measure.SystemMetric {
			target = measure.SystemUS
		}

		for _, q := range []float64{0.1, 1, 10, 1000} {
			best, err := measure.BestUnitForSystem(q, u, target)
			assert.NoError(t, err)
			assert.Equal(t, u.Category(), best.Category(), "%g %s -> %s", q, u, best)
			assert.Equal(t, target, best.System())
		}
	}
}

func TestBestUnitForSystemThresholds(t *testing.T) {
	cases := []struct {
		quantity float64
		from     measure.Unit
		target   measure.System
		want     measure.Unit
	}{
		{1, measure.Teaspoon, measure.SystemUS, measure.Teaspoon},
		{4, measure.Teaspoon, measure.SystemUS, measure.Tablespoon},
		{1, measure.Cup, measure.SystemUS, measure.Cup},
		{5, measure.Cup, measure.SystemUS, measure.Quart},
		{5, measure.Quart, measure.SystemUS, measure.Gallon},
		{1, measure.Cup, measure.SystemMetric, measure.Milliliter},
		{2, measure.Liter, measure.SystemMetric, measure.Liter},
		{8, measure.Ounce, measure.SystemUS, measure.Ounce},
		{20, measure.Ounce, measure.SystemUS, measure.Pound},
		{500, measure.Gram, measure.SystemMetric, measure.Gram},
		{3, measure.Pound, measure.SystemMetric, measure.Kilogram},
	}
	for _, tc := range cases {
		got, err := measure.BestUnitForSystem(tc.quantity, tc.from, tc.target)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "%g %s in %s", tc.quantity, tc.from, tc.target)
	}
}

func TestBestUnitForSystemRejectsCountAndSpecial(t *testing.T) {
	for _, u := range []measure.Unit{measure.Piece, measure.Dozen, measure.Pinch, measure.ToTaste} {
		_, err := measure.BestUnitForSystem(1, u, measure.SystemMetric)
		assert.ErrorIs(t, err, measure.ErrIncompatibleUnits)
	}
}

func TestConvertToSystem(t *testing.T) {
	// Cross-system conversion picks the best fitting unit.
	converted := measure.ConvertToSystem(measure.Ingredient{Name: "milk", Quantity: 2, Unit: measure.Cup}, measure.SystemMetric)
	assert.Equal(t, measure.Milliliter, converted.Unit)
	assert.InDelta(t, 473.176, converted.Quantity, 0.001)

	// A large quantity steps up to the bigger unit.
	converted = measure.ConvertToSystem(measure.Ingredient{Name: "stock", Quantity: 2, Unit: measure.Quart}, measure.SystemMetric)
	assert.Equal(t, measure.Liter, converted.Unit)
	assert.InDelta(t, 1.892706, converted.Quantity, 0.001)

	// Already in the target system: unchanged.
	unchanged := measure.ConvertToSystem(measure.Ingredient{Name: "flour", Quantity: 2, Unit: measure.Cup}, measure.SystemUS)
	assert.Equal(t, measure.Cup, unchanged.Unit)
	assert.Equal(t, 2.0, unchanged.Quantity)

	// Count and special units have no system: unchanged.
	unchanged = measure.ConvertToSystem(measure.Ingredient{Name: "eggs", Quantity: 3, Unit: measure.Piece}, measure.SystemMetric)
	assert.Equal(t, measure.Piece, unchanged.Unit)
	assert.Equal(t, 3.0, unchanged.Quantity)

	unchanged = measure.ConvertToSystem(measure.Ingredient{Name: "salt", Quantity: 1, Unit: measure.Pinch}, measure.SystemUS)
	assert.Equal(t, measure.Pinch, unchanged.Unit)
}

func TestParseUnit(t *testing.T) {
	u, err := measure.ParseUnit("  Cup ")
	assert.NoError(t, err)
	assert.Equal(t, measure.Cup, u)

	u, err = measure.ParseUnit("tablespoon")
	assert.NoError(t, err)
	assert.Equal(t, measure.Tablespoon, u)

	_, err = measure.ParseUnit("fathom")
	assert.Error(t, err)
}

func TestParseSystem(t *testing.T) {
	s, err := measure.ParseSystem("metric")
	assert.NoError(t, err)
	assert.Equal(t, measure.SystemMetric, s)

	s, err = measure.ParseSystem("")
	assert.NoError(t, err)
	assert.Equal(t, measure.SystemNone, s)

	_, err = measure.ParseSystem("imperial")
	assert.Error(t, err)
}

func TestTaxonomyIsTotal(t *testing.T) {
	for _, u := range measure.Units() {
		category := u.Category()
		system := u.System()
		assert.Contains(t, []measure.Category{
			measure.CategoryVolume, measure.CategoryWeight, measure.CategoryCount, measure.CategorySpecial,
		}, category)
		if category == measure.CategoryVolume || category == measure.CategoryWeight {
			assert.NotEqual(t, measure.SystemNone, system, "%s must belong to a system", u)
		} else {
			assert.Equal(t, measure.SystemNone, system, "%s must not belong to a system", u)
		}
	}
}
