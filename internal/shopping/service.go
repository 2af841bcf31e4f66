package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kitchenbuddy/internal/measure"
	"kitchenbuddy/internal/menu"
)

var (
	// ErrNotFound is returned when a referenced menu, recipe, list, or item
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrItemListMismatch is returned when an item exists but belongs to a
	// different list than the one named in the call.
	ErrItemListMismatch = errors.New("item does not belong to list")
	// ErrInvalidInput is returned for caller mistakes such as non-positive
	// servings or quantities.
	ErrInvalidInput = errors.New("invalid input")
)

// MenuSource supplies menus for list generation. Implementations return
// (nil, nil) for a menu that does not exist.
type MenuSource interface {
	GetMenu(ctx context.Context, id string) (*menu.Menu, error)
}

// ListStore persists shopping lists and their items. CreateList must write
// the list, its items, and its recipe links atomically.
type ListStore interface {
	CreateList(ctx context.Context, list *ShoppingList) error
	GetList(ctx context.Context, id string) (*ShoppingList, error)
	DeleteList(ctx context.Context, id string) error
	GetItem(ctx context.Context, itemID string) (*ShoppingItem, error)
	AddItem(ctx context.Context, item *ShoppingItem) error
	SetItemChecked(ctx context.Context, itemID string, checked bool) error
}

// Service generates and manages shopping lists.
type Service struct {
	recipes RecipeSource
	menus   MenuSource
	lists   ListStore
}

// NewService creates a new shopping Service.
func NewService(recipes RecipeSource, menus MenuSource, lists ListStore) *Service {
	return &Service{recipes: recipes, menus: menus, lists: lists}
}

// GenerateFromMenu consolidates the menu's non-leftover assignments into a
// persisted shopping list. A recipe assigned more than once has its servings
// summed and keeps its earliest cook date.
func (s *Service) GenerateFromMenu(ctx context.Context, menuID string) (*ShoppingList, error) {
	m, err := s.menus.GetMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up menu %s: %w", menuID, err)
	}
	if m == nil {
		return nil, fmt.Errorf("menu %s: %w", menuID, ErrNotFound)
	}

	entries, err := Consolidate(ctx, s.recipes, aggregateAssignments(m.Assignments))
	if err != nil {
		return nil, err
	}

	return s.materializeList(ctx, menuID, entries)
}

// GenerateFromRecipes consolidates the given recipes into a persisted
// shopping list. With no override each recipe is taken at its own base
// servings; an override applies to every recipe and must be positive.
func (s *Service) GenerateFromRecipes(ctx context.Context, recipeIDs []string, servingsOverride *int) (*ShoppingList, error) {
	if servingsOverride != nil && *servingsOverride <= 0 {
		return nil, fmt.Errorf("%w: servings override must be positive, got %d", ErrInvalidInput, *servingsOverride)
	}

	requests := make([]RecipeRequest, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		servings := 0
		if servingsOverride != nil {
			servings = *servingsOverride
		} else {
			rec, err := s.recipes.GetRecipe(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to look up recipe %s: %w", id, err)
			}
			if rec == nil {
				return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
			}
			servings = rec.BaseServings
		}
		requests = append(requests, RecipeRequest{RecipeID: id, Servings: servings})
	}

	entries, err := Consolidate(ctx, s.recipes, requests)
	if err != nil {
		return nil, err
	}

	return s.materializeList(ctx, "", entries)
}

// materializeList turns consolidation entries into a stored list.
func (s *Service) materializeList(ctx context.Context, menuID string, entries []Entry) (*ShoppingList, error) {
	list := &ShoppingList{
		ID:        uuid.NewString(),
		MenuID:    menuID,
		CreatedAt: time.Now().UTC(),
	}
	for _, e := range entries {
		list.Items = append(list.Items, ShoppingItem{
			ID:           uuid.NewString(),
			ListID:       list.ID,
			Name:         e.Name,
			Quantity:     e.Quantity,
			Unit:         e.Unit,
			Category:     e.Category,
			RecipeIDs:    e.RecipeIDs,
			RelevantDate: e.RelevantDate,
		})
	}

	if err := s.lists.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	return list, nil
}

// aggregateAssignments folds a menu's assignments into one request per
// recipe: leftovers are skipped, servings sum, and the earliest cook date
// wins. Request order follows first appearance on the menu.
func aggregateAssignments(assignments []menu.Assignment) []RecipeRequest {
	var requests []RecipeRequest
	index := make(map[string]int)

	for _, a := range assignments {
		if a.IsLeftover {
			continue
		}
		if i, ok := index[a.RecipeID]; ok {
			requests[i].Servings += a.Servings
			if earlier(a.CookDate, requests[i].RelevantDate) {
				requests[i].RelevantDate = a.CookDate
			}
			continue
		}
		index[a.RecipeID] = len(requests)
		requests = append(requests, RecipeRequest{
			RecipeID:     a.RecipeID,
			Servings:     a.Servings,
			RelevantDate: a.CookDate,
		})
	}
	return requests
}

// GetList returns a shopping list. When a target system is given, each
// item's quantity is re-expressed in that system's best fitting unit and
// rounded to a cooking-practical value; items that cannot be converted come
// back unchanged.
func (s *Service) GetList(ctx context.Context, listID string, system measure.System) (*ShoppingList, error) {
	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list %s: %w", listID, err)
	}
	if list == nil {
		return nil, fmt.Errorf("shopping list %s: %w", listID, ErrNotFound)
	}

	if system == measure.SystemUS || system == measure.SystemMetric {
		for i := range list.Items {
			item := &list.Items[i]
			converted := measure.ConvertToSystem(measure.Ingredient{
				Name:     item.Name,
				Quantity: item.Quantity,
				Unit:     item.Unit,
			}, system)
			item.Quantity = measure.RoundToPractical(converted.Quantity, converted.Unit)
			item.Unit = converted.Unit
		}
	}
	return list, nil
}

// DeleteList removes a list together with its items and recipe links.
func (s *Service) DeleteList(ctx context.Context, listID string) error {
	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return fmt.Errorf("failed to get shopping list %s: %w", listID, err)
	}
	if list == nil {
		return fmt.Errorf("shopping list %s: %w", listID, ErrNotFound)
	}
	if err := s.lists.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete shopping list %s: %w", listID, err)
	}
	return nil
}

// ItemsByCategory returns the list's items grouped into ordered, non-empty
// category buckets.
func (s *Service) ItemsByCategory(ctx context.Context, listID string) ([]CategoryBucket, error) {
	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list %s: %w", listID, err)
	}
	if list == nil {
		return nil, fmt.Errorf("shopping list %s: %w", listID, ErrNotFound)
	}
	return BucketByCategory(list.Items), nil
}

// CheckItem marks an item as checked. Checking an already-checked item is a
// no-op.
func (s *Service) CheckItem(ctx context.Context, listID, itemID string) error {
	return s.setItemChecked(ctx, listID, itemID, true)
}

// UncheckItem marks an item as unchecked. Unchecking an already-unchecked
// item is a no-op.
func (s *Service) UncheckItem(ctx context.Context, listID, itemID string) error {
	return s.setItemChecked(ctx, listID, itemID, false)
}

func (s *Service) setItemChecked(ctx context.Context, listID, itemID string, checked bool) error {
	item, err := s.lists.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item %s: %w", itemID, err)
	}
	if item == nil {
		return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	if item.ListID != listID {
		return fmt.Errorf("item %s: %w", itemID, ErrItemListMismatch)
	}
	if item.Checked == checked {
		return nil
	}
	if err := s.lists.SetItemChecked(ctx, itemID, checked); err != nil {
		return fmt.Errorf("failed to update item %s: %w", itemID, err)
	}
	return nil
}

// CustomItemInput describes a hand-added item. Zero values fall back to the
// defaults: quantity 1, unit piece, category other.
type CustomItemInput struct {
	Name     string          `json:"name"`
	Quantity float64         `json:"quantity"`
	Unit     measure.Unit    `json:"unit"`
	Category GroceryCategory `json:"category"`
}

// AddCustomItem appends an item with no recipe provenance to a list.
func (s *Service) AddCustomItem(ctx context.Context, listID string, in CustomItemInput) (*ShoppingItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name must not be empty", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %g", ErrInvalidInput, in.Quantity)
	}

	list, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list %s: %w", listID, err)
	}
	if list == nil {
		return nil, fmt.Errorf("shopping list %s: %w", listID, ErrNotFound)
	}

	item := &ShoppingItem{
		ID:       uuid.NewString(),
		ListID:   listID,
		Name:     name,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		Category: ParseCategory(string(in.Category)),
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Unit == "" {
		item.Unit = measure.Piece
	}

	if err := s.lists.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add item to list %s: %w", listID, err)
	}
	return item, nil
}
