package shopping

import (
	"strings"
	"time"

	"kitchenbuddy/internal/measure"
)

// GroceryCategory is a shopping-aisle category for display grouping.
type GroceryCategory string

const (
	CategoryProduce   GroceryCategory = "produce"
	CategoryMeat      GroceryCategory = "meat"
	CategorySeafood   GroceryCategory = "seafood"
	CategoryDairy     GroceryCategory = "dairy"
	CategoryBakery    GroceryCategory = "bakery"
	CategoryFrozen    GroceryCategory = "frozen"
	CategoryPantry    GroceryCategory = "pantry"
	CategorySpices    GroceryCategory = "spices"
	CategoryBeverages GroceryCategory = "beverages"
	CategoryOther     GroceryCategory = "other"
)

// CategoryOrder is the fixed display order for category buckets.
var CategoryOrder = []GroceryCategory{
	CategoryProduce,
	CategoryMeat,
	CategorySeafood,
	CategoryDairy,
	CategoryBakery,
	CategoryFrozen,
	CategoryPantry,
	CategorySpices,
	CategoryBeverages,
	CategoryOther,
}

// ParseCategory resolves a category string, mapping anything unrecognized
// (including the empty string) to CategoryOther.
func ParseCategory(s string) GroceryCategory {
	c := GroceryCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CategoryOrder {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

// ShoppingItem is one line of a shopping list. RecipeIDs records which
// recipes contributed quantity to the line; a custom item has none.
type ShoppingItem struct {
	ID           string          `json:"id" db:"id"`
	ListID       string          `json:"list_id" db:"list_id"`
	Name         string          `json:"name" db:"name"`
	Quantity     float64         `json:"quantity" db:"quantity"`
	Unit         measure.Unit    `json:"unit" db:"unit"`
	Category     GroceryCategory `json:"category" db:"category"`
	Checked      bool            `json:"checked" db:"checked"`
	RecipeIDs    []string        `json:"recipe_ids"`
	RelevantDate *time.Time      `json:"relevant_date,omitempty" db:"relevant_date"`
}

// ShoppingList is a generated list with its items in consolidation order.
type ShoppingList struct {
	ID        string         `json:"id" db:"id"`
	MenuID    string         `json:"menu_id,omitempty" db:"menu_id"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	Items     []ShoppingItem `json:"items"`
}

// CategoryBucket groups a list's items under one grocery category.
type CategoryBucket struct {
	Category GroceryCategory `json:"category"`
	Items    []ShoppingItem  `json:"items"`
}
