package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kitchenbuddy/internal/measure"
	"kitchenbuddy/internal/menu"
	"kitchenbuddy/internal/recipe"
	"kitchenbuddy/internal/shopping"
)

// RecipeStore defines the interface for recipe data operations.
type RecipeStore interface {
	GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error)
	SaveRecipe(ctx context.Context, r *recipe.Recipe) error
	ListRecipes(ctx context.Context) ([]*recipe.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// MenuStore defines the interface for menu data operations.
type MenuStore interface {
	GetMenu(ctx context.Context, id string) (*menu.Menu, error)
	SaveMenu(ctx context.Context, m *menu.Menu) error
}

// ShoppingService defines the interface for shopping list operations.
type ShoppingService interface {
	GenerateFromMenu(ctx context.Context, menuID string) (*shopping.ShoppingList, error)
	GenerateFromRecipes(ctx context.Context, recipeIDs []string, servingsOverride *int) (*shopping.ShoppingList, error)
	GetList(ctx context.Context, listID string, system measure.System) (*shopping.ShoppingList, error)
	DeleteList(ctx context.Context, listID string) error
	ItemsByCategory(ctx context.Context, listID string) ([]shopping.CategoryBucket, error)
	CheckItem(ctx context.Context, listID, itemID string) error
	UncheckItem(ctx context.Context, listID, itemID string) error
	AddCustomItem(ctx context.Context, listID string, in shopping.CustomItemInput) (*shopping.ShoppingItem, error)
}

// Handler handles HTTP requests.
type Handler struct {
	RecipeStore RecipeStore
	MenuStore   MenuStore
	Shopping    ShoppingService
}

// NewHandler creates a new Handler.
func NewHandler(recipeStore RecipeStore, menuStore MenuStore, shoppingService ShoppingService) *Handler {
	return &Handler{RecipeStore: recipeStore, MenuStore: menuStore, Shopping: shoppingService}
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		c.String(http.StatusRequestTimeout, "Request timed out")
	case errors.Is(err, shopping.ErrNotFound):
		c.String(http.StatusNotFound, err.Error())
	case errors.Is(err, shopping.ErrItemListMismatch):
		c.String(http.StatusConflict, err.Error())
	case errors.Is(err, shopping.ErrInvalidInput):
		c.String(http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		c.String(http.StatusInternalServerError, fmt.Sprintf("internal error: %s", err.Error()))
	}
}

// CreateRecipe stores a recipe from the request body.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid recipe body: %s", err.Error()))
		return
	}
	if strings.TrimSpace(r.Title) == "" {
		c.String(http.StatusBadRequest, "recipe title must not be empty")
		return
	}
	if r.BaseServings <= 0 {
		c.String(http.StatusBadRequest, "base_servings must be positive")
		return
	}
	for i, ing := range r.Ingredients {
		u, err := measure.ParseUnit(string(ing.Unit))
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("ingredient %q: %s", ing.Name, err.Error()))
			return
		}
		r.Ingredients[i].Unit = u
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.RecipeStore.SaveRecipe(ctx, &r); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GetRecipe retrieves a single recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.RecipeStore.GetRecipe(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if r == nil {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}

	// Optional scaling for display, e.g. /recipes/:id?servings=6
	if servingsParam := c.Query("servings"); servingsParam != "" {
		servings, err := strconv.ParseFloat(servingsParam, 64)
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("invalid servings %q", servingsParam))
			return
		}
		scaled, err := r.ScaleTo(servings)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		r = scaled
	}

	c.JSON(http.StatusOK, r)
}

// ListRecipes retrieves every stored recipe.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.ListRecipes(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// DeleteRecipe removes a recipe by id.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	r, err := h.RecipeStore.GetRecipe(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if r == nil {
		c.String(http.StatusNotFound, "Recipe not found")
		return
	}
	if err := h.RecipeStore.DeleteRecipe(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateMenu stores a menu from the request body.
func (h *Handler) CreateMenu(c *gin.Context) {
	var m menu.Menu
	if err := c.ShouldBindJSON(&m); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid menu body: %s", err.Error()))
		return
	}
	for _, a := range m.Assignments {
		if a.RecipeID == "" {
			c.String(http.StatusBadRequest, "assignment recipe_id must not be empty")
			return
		}
		if a.Servings <= 0 {
			c.String(http.StatusBadRequest, "assignment servings must be positive")
			return
		}
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.MenuStore.SaveMenu(ctx, &m); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GetMenu retrieves a single menu by id.
func (h *Handler) GetMenu(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m, err := h.MenuStore.GetMenu(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if m == nil {
		c.String(http.StatusNotFound, "Menu not found")
		return
	}
	c.JSON(http.StatusOK, m)
}

// GenerateFromMenu builds a shopping list from a menu's assignments.
func (h *Handler) GenerateFromMenu(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.Shopping.GenerateFromMenu(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// generateListRequest is the body for generating a list straight from
// recipes.
type generateListRequest struct {
	RecipeIDs []string `json:"recipe_ids"`
	Servings  *int     `json:"servings,omitempty"`
}

// GenerateFromRecipes builds a shopping list from a set of recipe ids.
func (h *Handler) GenerateFromRecipes(c *gin.Context) {
	var req generateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err.Error()))
		return
	}
	if len(req.RecipeIDs) == 0 {
		c.String(http.StatusBadRequest, "recipe_ids must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.Shopping.GenerateFromRecipes(ctx, req.RecipeIDs, req.Servings)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// GetShoppingList retrieves a list, optionally converted for display with
// ?system=us or ?system=metric.
func (h *Handler) GetShoppingList(c *gin.Context) {
	system, err := measure.ParseSystem(c.Query("system"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Shopping.GetList(ctx, c.Param("id"), system)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteShoppingList removes a list and everything attached to it.
func (h *Handler) DeleteShoppingList(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Shopping.DeleteList(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetItemsByCategory retrieves a list's items grouped by grocery category.
func (h *Handler) GetItemsByCategory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	buckets, err := h.Shopping.ItemsByCategory(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// AddCustomItem appends a hand-entered item to a list.
func (h *Handler) AddCustomItem(c *gin.Context) {
	var in shopping.CustomItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid item body: %s", err.Error()))
		return
	}
	if in.Unit != "" {
		u, err := measure.ParseUnit(string(in.Unit))
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		in.Unit = u
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.Shopping.AddCustomItem(ctx, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// CheckItem marks an item as checked off.
func (h *Handler) CheckItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Shopping.CheckItem(ctx, c.Param("id"), c.Param("item_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UncheckItem clears an item's checked flag.
func (h *Handler) UncheckItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.Shopping.UncheckItem(ctx, c.Param("id"), c.Param("item_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Convert converts a quantity between two units, e.g.
// /convert?quantity=2&from=cup&to=ml.
func (h *Handler) Convert(c *gin.Context) {
	quantity, err := strconv.ParseFloat(c.Query("quantity"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid quantity %q", c.Query("quantity")))
		return
	}
	from, err := measure.ParseUnit(c.Query("from"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	to, err := measure.ParseUnit(c.Query("to"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	converted, err := measure.Convert(quantity, from, to)
	if err != nil {
		if errors.Is(err, measure.ErrIncompatibleUnits) {
			c.String(http.StatusUnprocessableEntity, fmt.Sprintf("cannot convert %s to %s", from, to))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity": converted,
		"unit":     to,
		"rounded":  measure.RoundToPractical(converted, to),
	})
}
