package shopping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kitchenbuddy/internal/measure"
	"kitchenbuddy/internal/recipe"
)

// RecipeSource supplies recipes for consolidation. Implementations return
// (nil, nil) for a recipe that does not exist.
type RecipeSource interface {
	GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error)
}

// RecipeRequest asks for one recipe at a serving count, optionally tagged
// with the date the food is needed by.
type RecipeRequest struct {
	RecipeID     string
	Servings     int
	RelevantDate *time.Time
}

// Entry is one consolidated ingredient line: the summed quantity of every
// matching line across the requested recipes, with its provenance.
type Entry struct {
	Name         string
	Quantity     float64
	Unit         measure.Unit
	Category     GroceryCategory
	RecipeIDs    []string
	RelevantDate *time.Time
}

// consolidationKey identifies which ingredient lines merge into one entry.
// Matching is exact on unit: the same ingredient in different units stays as
// separate entries even when the units are convertible.
type consolidationKey struct {
	name string
	unit measure.Unit
}

// Consolidate merges the ingredient lines of the requested recipes, scaled to
// the requested servings, into one entry per distinct (normalized name, unit)
// pair. Entries come back in first-seen order. Each entry carries the ids of
// every recipe that contributed to it and the earliest relevant date seen.
func Consolidate(ctx context.Context, src RecipeSource, requests []RecipeRequest) ([]Entry, error) {
	var entries []Entry
	index := make(map[consolidationKey]int)

	for _, req := range requests {
		rec, err := src.GetRecipe(ctx, req.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up recipe %s: %w", req.RecipeID, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("recipe %s: %w", req.RecipeID, ErrNotFound)
		}

		factor, err := rec.ScaleFactor(req.Servings)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		for _, ing := range rec.Ingredients {
			key := consolidationKey{
				name: strings.ToLower(strings.TrimSpace(ing.Name)),
				unit: ing.Unit,
			}
			scaled := ing.Quantity * factor

			if i, ok := index[key]; ok {
				e := &entries[i]
				e.Quantity += scaled
				e.RecipeIDs = appendRecipeID(e.RecipeIDs, req.RecipeID)
				if earlier(req.RelevantDate, e.RelevantDate) {
					e.RelevantDate = req.RelevantDate
				}
				continue
			}

			index[key] = len(entries)
			entries = append(entries, Entry{
				Name:         strings.TrimSpace(ing.Name),
				Quantity:     scaled,
				Unit:         ing.Unit,
				Category:     ParseCategory(ing.Category),
				RecipeIDs:    []string{req.RecipeID},
				RelevantDate: req.RelevantDate,
			})
		}
	}

	return entries, nil
}

// appendRecipeID adds an id to the contributing set unless already present.
func appendRecipeID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// earlier reports whether candidate is set and precedes current.
func earlier(candidate, current *time.Time) bool {
	if candidate == nil {
		return false
	}
	return current == nil || candidate.Before(*current)
}
