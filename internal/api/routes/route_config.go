package routes

import (
	"foodgram/internal/api/handlers"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	AuthHandler       handlers.AuthHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	RecipeHandler     handlers.RecipeHandler
	FollowHandler     handlers.FollowHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
	Metrics           *metrics.Metrics
	// MediaRoot is served under /media when images live on local disk.
	MediaRoot string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.User()
	c.Auth()
	c.Tags()
	c.Ingredients()
	c.Recipes()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) optionalAuth() fiber.Handler {
	return c.Middleware.OptionalAuthMiddleware(c.JWTService)
}

func (c *Config) User() {
	user := c.App.Group("/api/users")
	// static paths go before /:id
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", c.optionalAuth(), c.UserHandler.GetUsers)
		user.Get("/me", c.auth(), c.UserHandler.Me)
		user.Post("/set_password", c.auth(), c.UserHandler.SetPassword)
		user.Get("/subscriptions", c.auth(), c.FollowHandler.GetSubscriptions)
		user.Get("/:id", c.auth(), c.UserHandler.GetUserByID)
		user.Post("/:id/subscribe", c.auth(), c.FollowHandler.Subscribe)
		user.Delete("/:id/subscribe", c.auth(), c.FollowHandler.Unsubscribe)
	}
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	auth.Post("/login", c.AuthHandler.Login)
	auth.Post("/logout", c.auth(), c.AuthHandler.Logout)
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/tags")
	tags.Get("/", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)
	tags.Post("/", c.auth(), c.Middleware.AdminMiddleware(), c.TagHandler.CreateTag)
	tags.Delete("/:id", c.auth(), c.Middleware.AdminMiddleware(), c.TagHandler.DeleteTag)
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("/", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
	ingredients.Post("/", c.auth(), c.Middleware.AdminMiddleware(), c.IngredientHandler.CreateIngredient)
	ingredients.Delete("/:id", c.auth(), c.Middleware.AdminMiddleware(), c.IngredientHandler.DeleteIngredient)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/recipes")
	recipes.Get("/download_shopping_cart", c.auth(), c.RecipeHandler.DownloadShoppingCart)

	recipes.Get("/", c.optionalAuth(), c.RecipeHandler.GetRecipes)
	recipes.Post("/", c.auth(), c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id", c.optionalAuth(), c.RecipeHandler.GetRecipeDetail)
	recipes.Patch("/:id", c.auth(), c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.auth(), c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", c.auth(), c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", c.auth(), c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", c.auth(), c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", c.auth(), c.RecipeHandler.RemoveFromShoppingCart)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	if c.Metrics != nil {
		c.App.Get("/metrics", adaptor.HTTPHandler(c.Metrics.Handler()))
	}
	if c.MediaRoot != "" {
		c.App.Static(storage.LocalMediaPrefix, c.MediaRoot)
	}
}
