package recipe

import (
	"fmt"
	"math"

	"kitchenbuddy/internal/measure"
)

// Recipe is a stored recipe with its base yield.
type Recipe struct {
	ID           string               `json:"id" db:"id"`
	Title        string               `json:"title" db:"title"`
	BaseServings int                  `json:"base_servings" db:"base_servings"`
	Ingredients  []measure.Ingredient `json:"ingredients"`
}

// ScaleFactor returns the multiplier that takes the recipe's quantities from
// its base yield to the requested servings.
func (r *Recipe) ScaleFactor(requestedServings int) (float64, error) {
	if requestedServings <= 0 {
		return 0, fmt.Errorf("requested servings must be positive, got %d", requestedServings)
	}
	if r.BaseServings <= 0 {
		return 0, fmt.Errorf("recipe %s has no base servings", r.ID)
	}
	return float64(requestedServings) / float64(r.BaseServings), nil
}

// ScaleTo returns a copy of the recipe scaled to the given servings count.
// Servings round to the nearest whole serving before the factor is computed.
func (r *Recipe) ScaleTo(servings float64) (*Recipe, error) {
	rounded := int(math.Round(servings))
	factor, err := r.ScaleFactor(rounded)
	if err != nil {
		return nil, err
	}

	scaled := *r
	scaled.BaseServings = rounded
	scaled.Ingredients = make([]measure.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		scaled.Ingredients[i] = measure.Scale(ing, factor)
	}
	return &scaled, nil
}
