package measure

import "math"

// practicalFractions are the only fractional measurements the rounding policy
// may produce for volume and weight units. Scan order matters: when two
// fractions are equally close, the earlier one wins.
var practicalFractions = []float64{0.125, 0.25, 0.333, 0.5, 0.667, 0.75, 1}

// RoundToPractical rounds a quantity to a cooking-practical value.
//
// Quantities below 0.125 keep two decimals rather than being forced into a
// fraction. Count units round to the nearest half, special units to the
// nearest whole. Volume and weight quantities keep their integer part and
// snap the remainder to the closest practical fraction, dropping remainders
// under 1/16 entirely.
func RoundToPractical(quantity float64, unit Unit) float64 {
	if quantity < 0.125 {
		return math.Round(quantity*100) / 100
	}

	switch unit.Category() {
	case CategoryCount:
		return math.Round(quantity*2) / 2
	case CategorySpecial:
		return math.Round(quantity)
	}

	whole := math.Floor(quantity)
	frac := quantity - whole
	if frac < 0.0625 {
		return whole
	}

	best := practicalFractions[0]
	bestDist := math.Abs(frac - best)
	for _, f := range practicalFractions[1:] {
		if d := math.Abs(frac - f); d < bestDist {
			best, bestDist = f, d
		}
	}
	if best == 1 {
		return whole + 1
	}
	return whole + best
}

// Scale multiplies an ingredient's quantity by a factor. Unit and category
// are unchanged.
func Scale(ing Ingredient, factor float64) Ingredient {
	ing.Quantity *= factor
	return ing
}
