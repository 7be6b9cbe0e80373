package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/plateful/recipe-api/internal/config"
	"github.com/plateful/recipe-api/internal/handlers"
	"github.com/plateful/recipe-api/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tagHandler *handlers.AttributeHandler,
	ingredientHandler *handlers.AttributeHandler,
	recipeHandler *handlers.RecipeHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Everything below requires a valid token; the acting user always comes
	// from the token, never from the request body.
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Get("/users/me", userHandler.Me)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Delete("/users/me", userHandler.DeleteMe)

	protected.Get("/tags", tagHandler.List)
	protected.Post("/tags", tagHandler.Create)
	protected.Patch("/tags/:id", tagHandler.Update)
	protected.Delete("/tags/:id", tagHandler.Delete)

	protected.Get("/ingredients", ingredientHandler.List)
	protected.Post("/ingredients", ingredientHandler.Create)
	protected.Patch("/ingredients/:id", ingredientHandler.Update)
	protected.Delete("/ingredients/:id", ingredientHandler.Delete)

	protected.Get("/recipes", recipeHandler.List)
	protected.Post("/recipes", recipeHandler.Create)
	protected.Get("/recipes/:id", recipeHandler.Get)
	protected.Patch("/recipes/:id", recipeHandler.Patch)
	protected.Put("/recipes/:id", recipeHandler.Put)
	protected.Delete("/recipes/:id", recipeHandler.Delete)
	protected.Post("/recipes/:id/image", recipeHandler.UploadImage)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.StaffRequired(db))
	admin.Get("/users", userHandler.List)

	// Locally stored recipe images
	if cfg.StorageBackend == "local" {
		app.Static("/uploads/recipes", cfg.UploadDir)
	}
}
