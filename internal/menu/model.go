package menu

import "time"

// Assignment schedules a recipe on a menu for a number of servings.
// Leftover assignments reuse food cooked earlier and contribute nothing to
// shopping.
type Assignment struct {
	RecipeID   string     `json:"recipe_id"`
	Servings   int        `json:"servings"`
	CookDate   *time.Time `json:"cook_date,omitempty"`
	IsLeftover bool       `json:"is_leftover"`
}

// Menu is a planned set of recipe assignments.
type Menu struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Assignments []Assignment `json:"assignments"`
}
