package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"kitchenbuddy/internal/api"
	"kitchenbuddy/internal/menu"
	"kitchenbuddy/internal/recipe"
	"kitchenbuddy/internal/shopping"
)

// Config represents the application configuration.
type Config struct {
	DatabaseURL  string `json:"DATABASE_URL"`
	ListenAddr   string `json:"listen_addr"`
	AllowOrigins string `json:"allow_origins"`
}

func main() {
	// Read configuration from config.json
	configData, err := os.ReadFile("config.json")
	if err != nil {
		panic(fmt.Errorf("failed to read config.json: %w", err))
	}

	var config Config
	if err := json.Unmarshal(configData, &config); err != nil {
		panic(fmt.Errorf("failed to unmarshal config.json: %w", err))
	}
	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.AllowOrigins == "" {
		config.AllowOrigins = "http://localhost:8081"
	}

	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to connect to database: %w", err))
	}

	recipeStore, err := recipe.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating recipe store: %w", err))
	}

	menuStore, err := menu.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating menu store: %w", err))
	}

	listStore, err := shopping.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating shopping list store: %w", err))
	}

	shoppingService := shopping.NewService(recipeStore, menuStore, listStore)
	handler := api.NewHandler(recipeStore, menuStore, shoppingService)

	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AllowOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/recipes", handler.CreateRecipe)
	r.GET("/recipes", handler.ListRecipes)
	r.GET("/recipes/:id", handler.GetRecipe)
	r.DELETE("/recipes/:id", handler.DeleteRecipe)
	r.POST("/menus", handler.CreateMenu)
	r.GET("/menus/:id", handler.GetMenu)
	r.POST("/menus/:id/shopping-list", handler.GenerateFromMenu)
	r.POST("/shopping-lists", handler.GenerateFromRecipes)
	r.GET("/shopping-lists/:id", handler.GetShoppingList)
	r.DELETE("/shopping-lists/:id", handler.DeleteShoppingList)
	r.GET("/shopping-lists/:id/categories", handler.GetItemsByCategory)
	r.POST("/shopping-lists/:id/items", handler.AddCustomItem)
	r.POST("/shopping-lists/:id/items/:item_id/check", handler.CheckItem)
	r.POST("/shopping-lists/:id/items/:item_id/uncheck", handler.UncheckItem)
	r.GET("/convert", handler.Convert)
	r.Run(config.ListenAddr)
}
